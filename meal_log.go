package main

import (
	"log"
	"net/http"
	"strings"

	"github.com/Poshangg/smartfit/internal/progress"
	"github.com/gin-gonic/gin"
)

const mealWeekDays = 7

// mealTypeOrder is the display order for today's meal groups. nil collects
// meals with no (or an unknown) type.
var mealTypeOrder = []string{"Breakfast", "Lunch", "Dinner", "Snack"}

// createMealLog logs a meal and returns it with the refreshed today summary.
// POST /api/meal-log. meal_name and calories (>= 0) are required; macros are
// optional and an unusable macro value is dropped with a warning.
func (h *Handler) createMealLog(c *gin.Context) {
	ctx := c.Request.Context()
	userID := c.GetInt("user_id")

	var body createMealLogRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	name := strings.TrimSpace(body.MealName)
	if name == "" || body.Calories.Value == nil {
		apiError(c, http.StatusBadRequest, "meal name and valid calories are required")
		return
	}

	var warn warnings
	warn.check("protein_g", body.ProteinG.Invalid)
	warn.check("carbs_g", body.CarbsG.Invalid)
	warn.check("fat_g", body.FatG.Invalid)
	warn.check("fiber_g", body.FiberG.Invalid)
	warn.check("sugar_g", body.SugarG.Invalid)
	if warn == nil {
		warn = warnings{}
	}

	created, err := h.store.createMealLog(ctx, mealLog{
		UserID:   userID,
		MealName: name,
		MealType: optString(body.MealType),
		Calories: *body.Calories.Value,
		ProteinG: body.ProteinG.Value,
		CarbsG:   body.CarbsG.Value,
		FatG:     body.FatG.Value,
		FiberG:   body.FiberG.Value,
		SugarG:   body.SugarG.Value,
		Notes:    optString(body.Notes),
	})
	if err != nil {
		log.Printf("[createMealLog] %v", err)
		apiError(c, http.StatusInternalServerError, "failed to create meal log")
		return
	}

	p, err := h.loadProfile(ctx, userID)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch profile")
		return
	}
	summary, _, err := h.todaySummary(ctx, userID, p)
	if err != nil {
		log.Printf("[createMealLog] %v", err)
		apiError(c, http.StatusInternalServerError, "failed to fetch today summary")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"meal": created, "today": summary, "warnings": warn})
}

// getMealToday returns today's consumed totals against the targets.
// GET /api/meal-log/today.
func (h *Handler) getMealToday(c *gin.Context) {
	ctx := c.Request.Context()
	userID := c.GetInt("user_id")

	p, err := h.loadProfile(ctx, userID)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch profile")
		return
	}
	summary, _, err := h.todaySummary(ctx, userID, p)
	if err != nil {
		log.Printf("[getMealToday] %v", err)
		apiError(c, http.StatusInternalServerError, "failed to fetch today summary")
		return
	}
	c.JSON(http.StatusOK, summary)
}

// getMealWeek returns the last 7 days of calories and macros (one shared
// label axis) plus today's meals grouped by meal type.
// GET /api/meal-log/week.
func (h *Handler) getMealWeek(c *gin.Context) {
	ctx := c.Request.Context()
	userID := c.GetInt("user_id")

	p, err := h.loadProfile(ctx, userID)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch profile")
		return
	}

	r := progress.LastNDays(h.today(), mealWeekDays)
	from, to := r.Bounds()
	logs, err := h.store.mealLogsBetween(ctx, userID, from, to)
	if err != nil {
		log.Printf("[getMealWeek] %v", err)
		apiError(c, http.StatusInternalServerError, "failed to fetch week data")
		return
	}
	week := progress.Bucket(logs, r, mealLoggedAt,
		mealCalories,
		func(m mealLog) float64 { return orZero(m.ProteinG) },
		func(m mealLog) float64 { return orZero(m.CarbsG) },
		func(m mealLog) float64 { return orZero(m.FatG) },
	)

	summary, todays, err := h.todaySummary(ctx, userID, p)
	if err != nil {
		log.Printf("[getMealWeek] %v", err)
		apiError(c, http.StatusInternalServerError, "failed to fetch today summary")
		return
	}

	c.JSON(http.StatusOK, mealWeekResponse{
		Labels:   week.Labels,
		Calories: week.Values[0],
		Protein:  week.Values[1],
		Carbs:    week.Values[2],
		Fat:      week.Values[3],
		Groups:   groupMeals(todays),
		Today:    summary,
	})
}

// groupMeals splits meals into Breakfast, Lunch, Dinner, Snack and
// uncategorized, in that order, skipping empty groups. Meals keep their order.
func groupMeals(meals []mealLog) []mealGroup {
	byType := make(map[string][]mealLog)
	var other []mealLog
	for _, m := range meals {
		if t := mealTypeKey(m.MealType); t != "" {
			byType[t] = append(byType[t], m)
		} else {
			other = append(other, m)
		}
	}

	groups := []mealGroup{}
	for _, t := range mealTypeOrder {
		if ms, ok := byType[t]; ok {
			groups = append(groups, mealGroup{MealType: &t, Meals: ms})
		}
	}
	if len(other) > 0 {
		groups = append(groups, mealGroup{Meals: other})
	}
	return groups
}

// mealTypeKey matches a stored meal type to mealTypeOrder case-insensitively.
func mealTypeKey(t *string) string {
	if t == nil {
		return ""
	}
	for _, known := range mealTypeOrder {
		if strings.EqualFold(*t, known) {
			return known
		}
	}
	return ""
}

func orZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
