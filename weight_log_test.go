package main

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/Poshangg/smartfit/internal/progress"
)

func TestGetWeightLog(t *testing.T) {
	router, fs := setupHandlerTest(t, profile{})
	fs.weights = []weightLog{
		{ID: 1, UserID: 1, WeightKg: 84, LoggedAt: testNow.AddDate(0, 0, -20)},
		{ID: 2, UserID: 1, WeightKg: 82.5, LoggedAt: testNow.AddDate(0, 0, -10)},
		{ID: 3, UserID: 1, WeightKg: 81, LoggedAt: testNow.AddDate(0, 0, -10)},
		{ID: 4, UserID: 2, WeightKg: 60, LoggedAt: testNow},
	}

	cases := []struct {
		name   string
		query  string
		labels []string
		values []float64
	}{
		{"all", "", []string{"2026-02-23", "2026-03-05", "2026-03-05"}, []float64{84, 82.5, 81}},
		{"latest two", "?limit=2", []string{"2026-03-05", "2026-03-05"}, []float64{82.5, 81}},
		{"limit above count", "?limit=50", []string{"2026-02-23", "2026-03-05", "2026-03-05"}, []float64{84, 82.5, 81}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doRequest(router, http.MethodGet, "/api/weight-log"+tc.query, "")
			if w.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
			}
			var s progress.Series
			if err := json.Unmarshal(w.Body.Bytes(), &s); err != nil {
				t.Fatalf("failed to parse response: %v", err)
			}
			if len(s.Values) != len(tc.values) {
				t.Fatalf("expected %v, got %v", tc.values, s.Values)
			}
			for i := range tc.values {
				if s.Values[i] != tc.values[i] || s.Labels[i] != tc.labels[i] {
					t.Errorf("entry %d: expected %s=%v, got %s=%v", i, tc.labels[i], tc.values[i], s.Labels[i], s.Values[i])
				}
			}
		})
	}
}

func TestGetWeightLog_BadLimit(t *testing.T) {
	router, _ := setupHandlerTest(t, profile{})
	for _, q := range []string{"?limit=0", "?limit=-3", "?limit=ten"} {
		w := doRequest(router, http.MethodGet, "/api/weight-log"+q, "")
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", q, w.Code)
		}
	}
}
