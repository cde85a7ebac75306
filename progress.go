package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/Poshangg/smartfit/internal/progress"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
)

const (
	defaultChartDays   = 30
	maxChartDays       = 366
	dashboardWeightLen = 30
)

// getDashboard returns the overview: profile, latest logs, weight trend and
// today's intake against targets.
// GET /api/dashboard.
func (h *Handler) getDashboard(c *gin.Context) {
	ctx := c.Request.Context()
	userID := c.GetInt("user_id")

	p, err := h.loadProfile(ctx, userID)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch profile")
		return
	}
	workout, err := h.store.latestWorkoutLog(ctx, userID)
	if err != nil {
		log.Printf("[getDashboard] %v", err)
		apiError(c, http.StatusInternalServerError, "failed to fetch dashboard")
		return
	}
	meal, err := h.store.latestMealLog(ctx, userID)
	if err != nil {
		log.Printf("[getDashboard] %v", err)
		apiError(c, http.StatusInternalServerError, "failed to fetch dashboard")
		return
	}
	weights, err := h.store.weightLogs(ctx, userID, dashboardWeightLen)
	if err != nil {
		log.Printf("[getDashboard] %v", err)
		apiError(c, http.StatusInternalServerError, "failed to fetch dashboard")
		return
	}
	summary, _, err := h.todaySummary(ctx, userID, p)
	if err != nil {
		log.Printf("[getDashboard] %v", err)
		apiError(c, http.StatusInternalServerError, "failed to fetch dashboard")
		return
	}

	c.JSON(http.StatusOK, dashboardResponse{
		Profile:       p,
		RecentWorkout: workout,
		RecentMeal:    meal,
		LatestWeight:  p.WeightKg,
		GoalWeight:    p.GoalWeightKg,
		WeightChart:   weightChart(weights, h.today().Location()),
		Today:         summary,
	})
}

// getWorkoutProgress returns workouts logged per day.
// GET /api/progress/workouts?days=N or ?start=YYYY-MM-DD&end=YYYY-MM-DD.
func (h *Handler) getWorkoutProgress(c *gin.Context) {
	r, err := h.parseDayRange(c)
	if err != nil {
		apiError(c, http.StatusBadRequest, err.Error())
		return
	}
	s, err := h.workoutChart(c.Request.Context(), c.GetInt("user_id"), r)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch progress data")
		return
	}
	c.JSON(http.StatusOK, s)
}

// getCalorieProgress returns calories eaten per day plus the calorie goal.
// GET /api/progress/calories, same range params as getWorkoutProgress.
func (h *Handler) getCalorieProgress(c *gin.Context) {
	ctx := c.Request.Context()
	userID := c.GetInt("user_id")

	r, err := h.parseDayRange(c)
	if err != nil {
		apiError(c, http.StatusBadRequest, err.Error())
		return
	}
	p, err := h.loadProfile(ctx, userID)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch profile")
		return
	}
	s, err := h.calorieChart(ctx, userID, r)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch progress data")
		return
	}
	c.JSON(http.StatusOK, gin.H{"labels": s.Labels, "values": s.Values, "calorie_goal": p.GoalCalories})
}

/* ─── Shared helpers ─────────────────────────────────────────────────── */

// parseDayRange reads ?days=N (1..366, default 30, ending today) or an
// explicit ?start=&end= pair in the configured calendar.
func (h *Handler) parseDayRange(c *gin.Context) (progress.DayRange, error) {
	today := h.today()
	start, end := c.Query("start"), c.Query("end")
	if start == "" && end == "" {
		days := defaultChartDays
		if s := c.Query("days"); s != "" {
			n, err := strconv.Atoi(s)
			if err != nil || n < 1 || n > maxChartDays {
				return progress.DayRange{}, errors.New("days must be between 1 and 366")
			}
			days = n
		}
		return progress.LastNDays(today, days), nil
	}
	if start == "" || end == "" {
		return progress.DayRange{}, errors.New("start and end query params are required together")
	}

	loc := today.Location()
	from, err := time.ParseInLocation("2006-01-02", start, loc)
	if err != nil {
		return progress.DayRange{}, errors.New("invalid start, expected YYYY-MM-DD")
	}
	to, err := time.ParseInLocation("2006-01-02", end, loc)
	if err != nil {
		return progress.DayRange{}, errors.New("invalid end, expected YYYY-MM-DD")
	}
	r, err := progress.NewDayRange(from, to)
	if err != nil {
		return progress.DayRange{}, errors.New("start must not be after end")
	}
	if r.Days() > maxChartDays {
		return progress.DayRange{}, errors.New("range must not exceed 366 days")
	}
	return r, nil
}

// loadProfile returns the user's profile, or an empty one when the row is
// missing (accounts created before profiles existed).
func (h *Handler) loadProfile(ctx context.Context, userID int) (profile, error) {
	p, err := h.store.profileByUser(ctx, userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return profile{UserID: userID}, nil
	}
	if err != nil {
		log.Printf("[loadProfile] %v", err)
		return profile{}, err
	}
	return p, nil
}

// todaySummary sums today's meals against the profile's targets. The meals
// are returned too, oldest first.
func (h *Handler) todaySummary(ctx context.Context, userID int, p profile) (progress.TodaySummary, []mealLog, error) {
	from, to := progress.LastNDays(h.today(), 1).Bounds()
	meals, err := h.store.mealLogsBetween(ctx, userID, from, to)
	if err != nil {
		return progress.TodaySummary{}, nil, err
	}
	intakes := make([]progress.Intake, len(meals))
	for i, m := range meals {
		intakes[i] = m.intake()
	}
	return progress.Today(intakes, p.targets()), meals, nil
}

func (h *Handler) workoutChart(ctx context.Context, userID int, r progress.DayRange) (progress.Series, error) {
	from, to := r.Bounds()
	logs, err := h.store.workoutLogsBetween(ctx, userID, from, to)
	if err != nil {
		log.Printf("[workoutChart] %v", err)
		return progress.Series{}, err
	}
	return progress.BucketSeries(logs, r, workoutLoggedAt, progress.Count[workoutLog]), nil
}

func (h *Handler) calorieChart(ctx context.Context, userID int, r progress.DayRange) (progress.Series, error) {
	from, to := r.Bounds()
	logs, err := h.store.mealLogsBetween(ctx, userID, from, to)
	if err != nil {
		log.Printf("[calorieChart] %v", err)
		return progress.Series{}, err
	}
	return progress.BucketSeries(logs, r, mealLoggedAt, mealCalories), nil
}

// weightChart lists every entry in order; weights are not bucketed by day.
func weightChart(logs []weightLog, loc *time.Location) progress.Series {
	s := progress.Series{Labels: make([]string, len(logs)), Values: make([]float64, len(logs))}
	for i, w := range logs {
		s.Labels[i] = w.LoggedAt.In(loc).Format("2006-01-02")
		s.Values[i] = w.WeightKg
	}
	return s
}

func workoutLoggedAt(w workoutLog) time.Time { return w.LoggedAt }
func mealLoggedAt(m mealLog) time.Time { return m.LoggedAt }
func mealCalories(m mealLog) float64 { return float64(m.Calories) }
