package main

import (
	"time"

	"github.com/Poshangg/smartfit/internal/nutrition"
	"github.com/Poshangg/smartfit/internal/progress"
)

/* ─── Domain structs ─────────────────────────────────────────────────── */

// user maps to the users table. AuthToken and Password are hidden from JSON responses.
type user struct {
	ID        int        `json:"id" db:"id"`
	Username  string     `json:"username" db:"username"`
	Email     string     `json:"email" db:"email"`
	AuthToken string     `json:"-" db:"auth_token"`
	Password  string     `json:"-" db:"password"`
	CreatedAt *time.Time `json:"created_at" db:"created_at"`
}

// profile maps to profiles. One row per user, created with the user; every
// body field is nullable and the goal_* targets stay nil until estimated or
// entered by hand.
type profile struct {
	UserID             int        `json:"user_id"             db:"user_id"`
	WeightKg           *float64   `json:"weight_kg"           db:"weight_kg"`
	HeightCm           *float64   `json:"height_cm"           db:"height_cm"`
	Goal               *string    `json:"goal"                db:"goal"`
	GoalWeightKg       *float64   `json:"goal_weight_kg"      db:"goal_weight_kg"`
	FitnessLevel       *string    `json:"fitness_level"       db:"fitness_level"`
	DietaryPreferences *string    `json:"dietary_preferences" db:"dietary_preferences"`
	GoalCalories       *int       `json:"goal_calories"       db:"goal_calories"`
	GoalProtein        *int       `json:"goal_protein"        db:"goal_protein"`
	GoalCarbs          *int       `json:"goal_carbs"          db:"goal_carbs"`
	GoalFat            *int       `json:"goal_fat"            db:"goal_fat"`
	UpdatedAt          *time.Time `json:"updated_at"          db:"updated_at"`
}

// inputs returns the fields the recalculation policy compares.
func (p profile) inputs() nutrition.ProfileInputs {
	return nutrition.ProfileInputs{
		WeightKg:     p.WeightKg,
		HeightCm:     p.HeightCm,
		Goal:         p.Goal,
		FitnessLevel: p.FitnessLevel,
		GoalWeightKg: p.GoalWeightKg,
	}
}

func (p profile) targets() nutrition.TargetFields {
	return nutrition.TargetFields{
		Calories: p.GoalCalories,
		Protein:  p.GoalProtein,
		Carbs:    p.GoalCarbs,
		Fat:      p.GoalFat,
	}
}

func (p *profile) setTargets(t nutrition.TargetFields) {
	p.GoalCalories = t.Calories
	p.GoalProtein = t.Protein
	p.GoalCarbs = t.Carbs
	p.GoalFat = t.Fat
}

// workoutLog maps to workout_logs. At least one of IntensityLevel and
// Repetitions is set; both are free text ("High", "3x10 @ 60kg").
type workoutLog struct {
	ID             int       `json:"id"              db:"id"`
	UserID         int       `json:"user_id"         db:"user_id"`
	WorkoutName    string    `json:"workout_name"    db:"workout_name"`
	IntensityLevel *string   `json:"intensity_level" db:"intensity_level"`
	Repetitions    *string   `json:"repetitions"     db:"repetitions"`
	Notes          *string   `json:"notes"           db:"notes"`
	LoggedAt       time.Time `json:"logged_at"       db:"logged_at"`
}

// mealLog maps to meal_logs. Nullable macro fields use pointers so pgx can
// scan NULLs and JSON renders them as null.
type mealLog struct {
	ID       int       `json:"id"        db:"id"`
	UserID   int       `json:"user_id"   db:"user_id"`
	MealName string    `json:"meal_name" db:"meal_name"`
	MealType *string   `json:"meal_type" db:"meal_type"`
	Calories int       `json:"calories"  db:"calories"`
	ProteinG *float64  `json:"protein_g" db:"protein_g"`
	CarbsG   *float64  `json:"carbs_g"   db:"carbs_g"`
	FatG     *float64  `json:"fat_g"     db:"fat_g"`
	FiberG   *float64  `json:"fiber_g"   db:"fiber_g"`
	SugarG   *float64  `json:"sugar_g"   db:"sugar_g"`
	Notes    *string   `json:"notes"     db:"notes"`
	LoggedAt time.Time `json:"logged_at" db:"logged_at"`
}

func (m mealLog) intake() progress.Intake {
	return progress.Intake{Calories: m.Calories, ProteinG: m.ProteinG, CarbsG: m.CarbsG, FatG: m.FatG}
}

// weightLog maps to weight_logs. Rows are appended, never edited.
type weightLog struct {
	ID       int       `json:"id"        db:"id"`
	UserID   int       `json:"user_id"   db:"user_id"`
	WeightKg float64   `json:"weight_kg" db:"weight_kg"`
	LoggedAt time.Time `json:"logged_at" db:"logged_at"`
}

/* ─── Request / response shapes ──────────────────────────────────────── */

// registerRequest is the body for POST /api/register. Weight and height are
// lenient so a bad value reports a field message instead of a bind error.
type registerRequest struct {
	Username           string   `json:"username"`
	Email              string   `json:"email"`
	Password           string   `json:"password"`
	WeightKg           optFloat `json:"weight_kg"`
	HeightCm           optFloat `json:"height_cm"`
	Goal               string   `json:"goal"`
	GoalWeightKg       optFloat `json:"goal_weight_kg"`
	FitnessLevel       string   `json:"fitness_level"`
	DietaryPreferences string   `json:"dietary_preferences"`
}

// updateProfileRequest is the body for PUT /api/profile. It is a full form:
// a field left out is stored as null. Targets left out are recomputed when
// they were set before.
type updateProfileRequest struct {
	WeightKg           optFloat `json:"weight_kg"`
	HeightCm           optFloat `json:"height_cm"`
	Goal               *string  `json:"goal"`
	GoalWeightKg       optFloat `json:"goal_weight_kg"`
	FitnessLevel       *string  `json:"fitness_level"`
	DietaryPreferences *string  `json:"dietary_preferences"`
	GoalCalories       optInt   `json:"goal_calories"`
	GoalProtein        optInt   `json:"goal_protein"`
	GoalCarbs          optInt   `json:"goal_carbs"`
	GoalFat            optInt   `json:"goal_fat"`
}

// createMealLogRequest is the body for POST /api/meal-log.
type createMealLogRequest struct {
	MealName string   `json:"meal_name"`
	MealType *string  `json:"meal_type"`
	Calories optInt   `json:"calories"`
	ProteinG optFloat `json:"protein_g"`
	CarbsG   optFloat `json:"carbs_g"`
	FatG     optFloat `json:"fat_g"`
	FiberG   optFloat `json:"fiber_g"`
	SugarG   optFloat `json:"sugar_g"`
	Notes    *string  `json:"notes"`
}

// createWorkoutLogRequest is the body for POST /api/workout-log.
type createWorkoutLogRequest struct {
	WorkoutName    string     `json:"workout_name"`
	IntensityLevel *string    `json:"intensity_level"`
	Repetitions    *string    `json:"repetitions"`
	Notes          *string    `json:"notes"`
	LoggedAt       *time.Time `json:"logged_at"`
}

// profileResponse is returned by GET /api/profile.
type profileResponse struct {
	Profile      profile         `json:"profile"`
	WeightChart  progress.Series `json:"weight_chart"`
	WorkoutChart progress.Series `json:"workout_chart"`
	CalorieChart progress.Series `json:"calorie_chart"`
	CalorieGoal  *int            `json:"calorie_goal"`
}

// updateProfileResponse is returned by PUT /api/profile. Decisions says, per
// target, whether the stored value was typed in, computed or kept.
type updateProfileResponse struct {
	Profile   profile             `json:"profile"`
	Decisions nutrition.Decisions `json:"decisions"`
	Notices   []notice            `json:"notices"`
	Warnings  []string            `json:"warnings"`
}

// notice is a user-facing message with a level ("info", "warning").
type notice struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// dashboardResponse is returned by GET /api/dashboard.
type dashboardResponse struct {
	Profile       profile               `json:"profile"`
	RecentWorkout *workoutLog           `json:"recent_workout"`
	RecentMeal    *mealLog              `json:"recent_meal"`
	LatestWeight  *float64              `json:"latest_weight"`
	GoalWeight    *float64              `json:"goal_weight"`
	WeightChart   progress.Series       `json:"weight_chart"`
	Today         progress.TodaySummary `json:"today"`
}

// mealGroup is one meal-type section of today's meals.
type mealGroup struct {
	MealType *string   `json:"meal_type"`
	Meals    []mealLog `json:"meals"`
}

// mealWeekResponse is returned by GET /api/meal-log/week.
type mealWeekResponse struct {
	Labels   []string              `json:"labels"`
	Calories []float64             `json:"calories"`
	Protein  []float64             `json:"protein"`
	Carbs    []float64             `json:"carbs"`
	Fat      []float64             `json:"fat"`
	Groups   []mealGroup           `json:"groups"`
	Today    progress.TodaySummary `json:"today"`
}
