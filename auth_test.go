package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Poshangg/smartfit/internal/nutrition"
	"golang.org/x/crypto/bcrypt"
)

type registerJSON struct {
	Token    string                 `json:"token"`
	UserID   int                    `json:"user_id"`
	Targets  nutrition.TargetFields `json:"targets"`
	Warnings []string               `json:"warnings"`
}

const validRegistration = `{
	"username": "bob", "email": "bob@example.com", "password": "hunter22",
	"weight_kg": 80, "height_cm": "180", "goal": "Lose weight",
	"fitness_level": "Intermediate", "dietary_preferences": "Vegetarian"
}`

// doPublicRequest sends a request without an Authorization header.
func doPublicRequest(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRegister_Success(t *testing.T) {
	router, fs := setupHandlerTest(t, profile{})

	w := doPublicRequest(router, http.MethodPost, "/api/register", validRegistration)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var resp registerJSON
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp.Token == "" || resp.UserID == 0 {
		t.Fatalf("expected token and user id, got %+v", resp)
	}
	tg := resp.Targets
	if *tg.Calories != 2064 || *tg.Protein != 181 || *tg.Carbs != 181 || *tg.Fat != 69 {
		t.Errorf("unexpected targets %d/%d/%d/%d", *tg.Calories, *tg.Protein, *tg.Carbs, *tg.Fat)
	}
	if resp.Warnings == nil || len(resp.Warnings) != 0 {
		t.Errorf("expected empty warnings, got %v", resp.Warnings)
	}

	p := fs.profiles[resp.UserID]
	if *p.WeightKg != 80 || *p.HeightCm != 180 || *p.DietaryPreferences != "Vegetarian" {
		t.Errorf("unexpected stored profile %+v", p)
	}
	if len(fs.weights) != 1 || fs.weights[0].UserID != resp.UserID || fs.weights[0].WeightKg != 80 {
		t.Errorf("expected one initial weight log, got %+v", fs.weights)
	}
	u := fs.users[len(fs.users)-1]
	if u.Password == "hunter22" || bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("hunter22")) != nil {
		t.Error("expected the stored password to be a bcrypt hash of the input")
	}

	// The new token authenticates.
	req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
	req.Header.Set("Authorization", "Bearer "+resp.Token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("expected new token to authenticate, got %d", rec.Code)
	}
}

func TestRegister_Duplicate(t *testing.T) {
	router, _ := setupHandlerTest(t, profile{})
	body := strings.Replace(validRegistration, `"bob"`, `"alice"`, 1)

	w := doPublicRequest(router, http.MethodPost, "/api/register", body)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", w.Code, w.Body.String())
	}
}

func TestRegister_Validation(t *testing.T) {
	cases := []struct {
		name    string
		replace [2]string
		wantMsg string
	}{
		{"missing password", [2]string{`"hunter22"`, `""`}, "password are required"},
		{"zero weight", [2]string{`"weight_kg": 80`, `"weight_kg": 0`}, "valid current weight is required"},
		{"text height", [2]string{`"height_cm": "180"`, `"height_cm": "tall"`}, "valid height is required"},
		{"missing goal", [2]string{`"goal": "Lose weight"`, `"goal": " "`}, "primary goal is required"},
		{"bad fitness level", [2]string{`"Intermediate"`, `"Elite"`}, "fitness level must be one of"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router, fs := setupHandlerTest(t, profile{})
			body := strings.Replace(validRegistration, tc.replace[0], tc.replace[1], 1)

			w := doPublicRequest(router, http.MethodPost, "/api/register", body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
			}
			if !strings.Contains(w.Body.String(), tc.wantMsg) {
				t.Errorf("expected message containing %q, got %s", tc.wantMsg, w.Body.String())
			}
			if len(fs.users) != 1 {
				t.Errorf("expected no new user, got %d users", len(fs.users))
			}
		})
	}
}

func TestRegister_InvalidGoalWeightWarns(t *testing.T) {
	router, fs := setupHandlerTest(t, profile{})
	body := strings.Replace(validRegistration, `"goal": "Lose weight"`, `"goal": "Lose weight", "goal_weight_kg": -70`, 1)

	w := doPublicRequest(router, http.MethodPost, "/api/register", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var resp registerJSON
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if len(resp.Warnings) != 1 || !strings.Contains(resp.Warnings[0], "goal_weight_kg") {
		t.Errorf("expected a goal_weight_kg warning, got %v", resp.Warnings)
	}
	if fs.profiles[resp.UserID].GoalWeightKg != nil {
		t.Error("expected goal weight to be left unset")
	}
}

func TestLogin(t *testing.T) {
	router, fs := setupHandlerTest(t, profile{})
	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	fs.users[0].Password = string(hash)

	cases := []struct {
		name   string
		body   string
		status int
	}{
		{"valid", `{"username":"alice","password":"correct horse"}`, http.StatusOK},
		{"wrong password", `{"username":"alice","password":"battery staple"}`, http.StatusUnauthorized},
		{"unknown user", `{"username":"mallory","password":"correct horse"}`, http.StatusUnauthorized},
		{"malformed", `{"username":`, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doPublicRequest(router, http.MethodPost, "/api/login", tc.body)
			if w.Code != tc.status {
				t.Fatalf("expected %d, got %d: %s", tc.status, w.Code, w.Body.String())
			}
			if tc.status != http.StatusOK {
				return
			}
			var resp struct {
				Token  string `json:"token"`
				UserID int    `json:"user_id"`
			}
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("failed to parse response: %v", err)
			}
			if resp.Token != testToken || resp.UserID != 1 {
				t.Errorf("unexpected login response %+v", resp)
			}
		})
	}
}

func TestAuthMiddleware(t *testing.T) {
	router, _ := setupHandlerTest(t, profile{})

	cases := []struct {
		name   string
		header string
		status int
	}{
		{"no header", "", http.StatusUnauthorized},
		{"not bearer", "Basic " + testToken, http.StatusUnauthorized},
		{"unknown token", "Bearer nope", http.StatusUnauthorized},
		{"valid", "Bearer " + testToken, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			if w.Code != tc.status {
				t.Errorf("expected %d, got %d: %s", tc.status, w.Code, w.Body.String())
			}
		})
	}
}

func TestLogout_RevokesToken(t *testing.T) {
	router, fs := setupHandlerTest(t, profile{})
	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	fs.users[0].Password = string(hash)

	w := doRequest(router, http.MethodPost, "/api/logout", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if fs.users[0].AuthToken == testToken || fs.users[0].AuthToken == "" {
		t.Fatalf("expected a fresh token, got %q", fs.users[0].AuthToken)
	}

	// The old token no longer authenticates, not even for a second logout.
	if w := doRequest(router, http.MethodGet, "/api/dashboard", ""); w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 with the revoked token, got %d", w.Code)
	}
	if w := doRequest(router, http.MethodPost, "/api/logout", ""); w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for logout with the revoked token, got %d", w.Code)
	}

	// Logging in again hands out the new token.
	w = doPublicRequest(router, http.MethodPost, "/api/login", `{"username":"alice","password":"correct horse"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp.Token != fs.users[0].AuthToken {
		t.Errorf("expected login to return the rotated token")
	}
	req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+resp.Token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("expected the new token to authenticate, got %d", rec.Code)
	}
}

func TestLogout_RequiresAuth(t *testing.T) {
	router, _ := setupHandlerTest(t, profile{})
	if w := doPublicRequest(router, http.MethodPost, "/api/logout", ""); w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without a token, got %d", w.Code)
	}
}
