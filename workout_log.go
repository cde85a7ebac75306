package main

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// createWorkoutLog logs one session of a workout.
// POST /api/workout-log. Body: { "workout_name": "Squat", "repetitions": "5x5" }.
// At least one of intensity_level and repetitions is required.
func (h *Handler) createWorkoutLog(c *gin.Context) {
	var body createWorkoutLogRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	name := strings.TrimSpace(body.WorkoutName)
	if name == "" {
		apiError(c, http.StatusBadRequest, "workout_name is required")
		return
	}
	intensity, reps := optString(body.IntensityLevel), optString(body.Repetitions)
	if intensity == nil && reps == nil {
		apiError(c, http.StatusBadRequest, "please provide intensity level or repetitions")
		return
	}

	w := workoutLog{
		UserID:         c.GetInt("user_id"),
		WorkoutName:    name,
		IntensityLevel: intensity,
		Repetitions:    reps,
		Notes:          optString(body.Notes),
	}
	if body.LoggedAt != nil {
		w.LoggedAt = *body.LoggedAt
	}

	created, err := h.store.createWorkoutLog(c.Request.Context(), w)
	if err != nil {
		log.Printf("[createWorkoutLog] %v", err)
		apiError(c, http.StatusInternalServerError, "failed to create workout log")
		return
	}
	c.JSON(http.StatusCreated, created)
}

// getWorkoutHistory returns every log of one workout, newest first.
// GET /api/workout-log?name=Squat.
func (h *Handler) getWorkoutHistory(c *gin.Context) {
	name := strings.TrimSpace(c.Query("name"))
	if name == "" {
		apiError(c, http.StatusBadRequest, "name query param is required")
		return
	}

	logs, err := h.store.workoutLogsByName(c.Request.Context(), c.GetInt("user_id"), name)
	if err != nil {
		log.Printf("[getWorkoutHistory] %v", err)
		apiError(c, http.StatusInternalServerError, "failed to fetch workout log")
		return
	}
	// Ensure logs is an empty array (not null) in JSON
	if logs == nil {
		logs = []workoutLog{}
	}
	c.JSON(http.StatusOK, logs)
}
