package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
)

// testNow is the fixed clock for handler tests: midday, so "today" has room
// on both sides.
var testNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

const testToken = "test-token"

// fakeStore is an in-memory store. failSave makes saveProfile fail without
// writing anything, like a rolled-back transaction.
type fakeStore struct {
	mu       sync.Mutex
	nextID   int
	users    []user
	profiles map[int]profile
	meals    []mealLog
	workouts []workoutLog
	weights  []weightLog
	failSave bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{profiles: make(map[int]profile)}
}

func (f *fakeStore) id() int {
	f.nextID++
	return f.nextID
}

func (f *fakeStore) userByUsername(_ context.Context, username string) (user, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return user{}, fmt.Errorf("user by username: %w", pgx.ErrNoRows)
}

func (f *fakeStore) userIDByToken(_ context.Context, token string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.AuthToken == token {
			return u.ID, nil
		}
	}
	return 0, fmt.Errorf("user by token: %w", pgx.ErrNoRows)
}

func (f *fakeStore) rotateToken(_ context.Context, userID int, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.users {
		if f.users[i].ID == userID {
			f.users[i].AuthToken = token
			return nil
		}
	}
	return fmt.Errorf("rotate token: %w", pgx.ErrNoRows)
}

func (f *fakeStore) createAccount(_ context.Context, u user, p profile) (user, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.users {
		if existing.Username == u.Username || existing.Email == u.Email {
			return user{}, errDuplicateUser
		}
	}
	u.ID = f.id()
	created := testNow
	u.CreatedAt = &created
	f.users = append(f.users, u)

	p.UserID = u.ID
	f.profiles[u.ID] = p
	if p.WeightKg != nil {
		f.weights = append(f.weights, weightLog{ID: f.id(), UserID: u.ID, WeightKg: *p.WeightKg, LoggedAt: testNow})
	}
	return u, nil
}

func (f *fakeStore) profileByUser(_ context.Context, userID int) (profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.profiles[userID]
	if !ok {
		return profile{}, fmt.Errorf("profile by user: %w", pgx.ErrNoRows)
	}
	return p, nil
}

func (f *fakeStore) saveProfile(_ context.Context, p profile, newWeight *float64) (profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failSave {
		return profile{}, errors.New("upsert profile: connection reset")
	}
	updated := testNow
	p.UpdatedAt = &updated
	f.profiles[p.UserID] = p
	if newWeight != nil {
		f.weights = append(f.weights, weightLog{ID: f.id(), UserID: p.UserID, WeightKg: *newWeight, LoggedAt: testNow})
	}
	return p, nil
}

func (f *fakeStore) createMealLog(_ context.Context, m mealLog) (mealLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m.ID = f.id()
	if m.LoggedAt.IsZero() {
		m.LoggedAt = testNow
	}
	f.meals = append(f.meals, m)
	return m, nil
}

func (f *fakeStore) mealLogsBetween(_ context.Context, userID int, from, to time.Time) ([]mealLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []mealLog
	for _, m := range f.meals {
		if m.UserID == userID && !m.LoggedAt.Before(from) && m.LoggedAt.Before(to) {
			out = append(out, m)
		}
	}
	slices.SortStableFunc(out, func(a, b mealLog) int { return a.LoggedAt.Compare(b.LoggedAt) })
	return out, nil
}

func (f *fakeStore) latestMealLog(_ context.Context, userID int) (*mealLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var latest *mealLog
	for i, m := range f.meals {
		if m.UserID == userID && (latest == nil || !m.LoggedAt.Before(latest.LoggedAt)) {
			latest = &f.meals[i]
		}
	}
	return latest, nil
}

func (f *fakeStore) createWorkoutLog(_ context.Context, w workoutLog) (workoutLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w.ID = f.id()
	if w.LoggedAt.IsZero() {
		w.LoggedAt = testNow
	}
	f.workouts = append(f.workouts, w)
	return w, nil
}

func (f *fakeStore) workoutLogsBetween(_ context.Context, userID int, from, to time.Time) ([]workoutLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []workoutLog
	for _, w := range f.workouts {
		if w.UserID == userID && !w.LoggedAt.Before(from) && w.LoggedAt.Before(to) {
			out = append(out, w)
		}
	}
	slices.SortStableFunc(out, func(a, b workoutLog) int { return a.LoggedAt.Compare(b.LoggedAt) })
	return out, nil
}

func (f *fakeStore) workoutLogsByName(_ context.Context, userID int, name string) ([]workoutLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []workoutLog
	for _, w := range f.workouts {
		if w.UserID == userID && w.WorkoutName == name {
			out = append(out, w)
		}
	}
	slices.SortStableFunc(out, func(a, b workoutLog) int { return b.LoggedAt.Compare(a.LoggedAt) })
	return out, nil
}

func (f *fakeStore) latestWorkoutLog(_ context.Context, userID int) (*workoutLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var latest *workoutLog
	for i, w := range f.workouts {
		if w.UserID == userID && (latest == nil || !w.LoggedAt.Before(latest.LoggedAt)) {
			latest = &f.workouts[i]
		}
	}
	return latest, nil
}

func (f *fakeStore) weightLogs(_ context.Context, userID int, limit int) ([]weightLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []weightLog
	for _, w := range f.weights {
		if w.UserID == userID {
			out = append(out, w)
		}
	}
	slices.SortStableFunc(out, func(a, b weightLog) int { return a.LoggedAt.Compare(b.LoggedAt) })
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

/* ─── Test server ────────────────────────────────────────────────────── */

// setupHandlerTest returns a router wired to a fake store holding one user
// (id 1, token testToken) with the given profile.
func setupHandlerTest(t *testing.T, p profile) (*gin.Engine, *fakeStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	fs := newFakeStore()
	fs.users = append(fs.users, user{ID: fs.id(), Username: "alice", Email: "alice@example.com", AuthToken: testToken})
	p.UserID = 1
	fs.profiles[1] = p

	h := &Handler{store: fs, loc: time.UTC, now: func() time.Time { return testNow }}
	router := gin.New()
	h.registerRoutes(router)
	return router, fs
}

// doRequest sends an authenticated request with an optional JSON body.
func doRequest(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+testToken)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func ptr[T any](v T) *T { return &v }
