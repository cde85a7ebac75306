package main

import (
	"log"
	"net/http"
	"strings"

	"github.com/Poshangg/smartfit/internal/nutrition"
	"github.com/Poshangg/smartfit/internal/progress"
	"github.com/gin-gonic/gin"
)

// getProfile returns the profile with its weight history and 30-day workout
// and calorie charts.
// GET /api/profile.
func (h *Handler) getProfile(c *gin.Context) {
	ctx := c.Request.Context()
	userID := c.GetInt("user_id")

	p, err := h.loadProfile(ctx, userID)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch profile")
		return
	}
	weights, err := h.store.weightLogs(ctx, userID, 0)
	if err != nil {
		log.Printf("[getProfile] %v", err)
		apiError(c, http.StatusInternalServerError, "failed to fetch weight log")
		return
	}

	r := progress.LastNDays(h.today(), defaultChartDays)
	workouts, err := h.workoutChart(ctx, userID, r)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch progress data")
		return
	}
	calories, err := h.calorieChart(ctx, userID, r)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch progress data")
		return
	}

	c.JSON(http.StatusOK, profileResponse{
		Profile:      p,
		WeightChart:  weightChart(weights, h.today().Location()),
		WorkoutChart: workouts,
		CalorieChart: calories,
		CalorieGoal:  p.GoalCalories,
	})
}

// updateProfile replaces the profile with the submitted form and settles the
// four targets: typed-in values win, otherwise they are recomputed when an
// estimator input changed or a stored target was cleared, otherwise kept.
// A changed weight is also appended to the weight log, in the same transaction.
// PUT /api/profile.
func (h *Handler) updateProfile(c *gin.Context) {
	ctx := c.Request.Context()
	userID := c.GetInt("user_id")

	var body updateProfileRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	// Validate fitness_level before saving; an unknown level would silently
	// estimate with the default multiplier forever.
	level := optString(body.FitnessLevel)
	if level != nil && !nutrition.ValidFitnessLevel(*level) {
		apiError(c, http.StatusBadRequest, "fitness_level must be one of: "+strings.Join(nutrition.FitnessLevels, ", "))
		return
	}

	weight, height, goalWeight := body.WeightKg.positive(), body.HeightCm.positive(), body.GoalWeightKg.positive()
	var warn warnings
	warn.check("weight_kg", weight.Invalid)
	warn.check("height_cm", height.Invalid)
	warn.check("goal_weight_kg", goalWeight.Invalid)
	warn.check("goal_calories", body.GoalCalories.Invalid)
	warn.check("goal_protein", body.GoalProtein.Invalid)
	warn.check("goal_carbs", body.GoalCarbs.Invalid)
	warn.check("goal_fat", body.GoalFat.Invalid)

	prior, err := h.loadProfile(ctx, userID)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch profile")
		return
	}

	next := prior
	next.WeightKg = weight.Value
	next.HeightCm = height.Value
	next.Goal = optString(body.Goal)
	next.GoalWeightKg = goalWeight.Value
	next.FitnessLevel = level
	next.DietaryPreferences = optString(body.DietaryPreferences)

	out := nutrition.Recalculate(nutrition.Edit{
		Prior:        prior.inputs(),
		PriorTargets: prior.targets(),
		Next:         next.inputs(),
		Manual: nutrition.TargetFields{
			Calories: body.GoalCalories.Value,
			Protein:  body.GoalProtein.Value,
			Carbs:    body.GoalCarbs.Value,
			Fat:      body.GoalFat.Value,
		},
	})
	next.setTargets(out.Targets())

	var newWeight *float64
	if out.WeightChanged {
		newWeight = next.WeightKg
	}

	saved, err := h.store.saveProfile(ctx, next, newWeight)
	if err != nil {
		log.Printf("[updateProfile] %v", err)
		apiError(c, http.StatusInternalServerError, "failed to update profile")
		return
	}

	notices := []notice{}
	if out.Notice != nutrition.NoticeNone {
		notices = append(notices, notice{Level: out.Notice.Level(), Message: out.Notice.Message()})
	}
	notices = append(notices, notice{Level: "success", Message: "Profile updated successfully!"})
	if warn == nil {
		warn = warnings{}
	}

	c.JSON(http.StatusOK, updateProfileResponse{
		Profile:   saved,
		Decisions: out.Decisions,
		Notices:   notices,
		Warnings:  warn,
	})
}
