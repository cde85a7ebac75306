package progress

import "github.com/Poshangg/smartfit/internal/nutrition"

// Intake is what one meal contributes to a day. Absent macros count as 0.
type Intake struct {
	Calories int
	ProteinG *float64
	CarbsG   *float64
	FatG     *float64
}

// TodaySummary is the day's consumed totals against the stored targets.
type TodaySummary struct {
	CaloriesConsumed int     `json:"calories_consumed"`
	CaloriesBurned   int     `json:"calories_burned"`
	NetCalories      int     `json:"net_calories"`
	ProteinConsumed  float64 `json:"protein_consumed"`
	CarbsConsumed    float64 `json:"carbs_consumed"`
	FatConsumed      float64 `json:"fat_consumed"`
	GoalCalories     *int    `json:"goal_calories"`
	GoalProtein      *int    `json:"goal_protein"`
	GoalCarbs        *int    `json:"goal_carbs"`
	GoalFat          *int    `json:"goal_fat"`
}

// Today sums meals into a summary. Burned calories are always 0: workout
// logs carry no calorie figure.
func Today(meals []Intake, targets nutrition.TargetFields) TodaySummary {
	s := TodaySummary{
		GoalCalories: targets.Calories,
		GoalProtein:  targets.Protein,
		GoalCarbs:    targets.Carbs,
		GoalFat:      targets.Fat,
	}
	for _, m := range meals {
		s.CaloriesConsumed += m.Calories
		s.ProteinConsumed += orZero(m.ProteinG)
		s.CarbsConsumed += orZero(m.CarbsG)
		s.FatConsumed += orZero(m.FatG)
	}
	s.NetCalories = s.CaloriesConsumed - s.CaloriesBurned
	return s
}

func orZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
