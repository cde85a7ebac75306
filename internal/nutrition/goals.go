// Package nutrition estimates daily calorie and macro targets from a user's
// body metrics and decides, on each profile edit, which targets to store.
package nutrition

import (
	"math"
	"strings"
)

// Fitness levels accepted on a profile. Any other value (including empty)
// estimates with the default multiplier.
const (
	Beginner     = "Beginner"
	Intermediate = "Intermediate"
	Advanced     = "Advanced"
)

// FitnessLevels is the ordered list of valid fitness levels, used for input
// validation and error messages.
var FitnessLevels = []string{Beginner, Intermediate, Advanced}

// activityMultipliers maps fitness level to its TDEE multiplier.
var activityMultipliers = map[string]float64{
	Beginner:     1.2,
	Intermediate: 1.4,
	Advanced:     1.6,
}

const (
	defaultMultiplier  = 1.3
	bmrPerKg           = 22.0
	calorieFloor       = 1200.0
	calorieShift       = 400.0
	proteinPerKg       = 1.2
	kcalPerGramProtein = 4.0
	kcalPerGramCarbs   = 4.0
	kcalPerGramFat     = 9.0
)

// ValidFitnessLevel reports whether level is one of FitnessLevels.
func ValidFitnessLevel(level string) bool {
	_, ok := activityMultipliers[level]
	return ok
}

// ActivityMultiplier returns the TDEE multiplier for a fitness level.
func ActivityMultiplier(level string) float64 {
	if m, ok := activityMultipliers[level]; ok {
		return m
	}
	return defaultMultiplier
}

// GoalCategory is the bucket a free-text goal falls into.
type GoalCategory string

const (
	GoalLoss      GoalCategory = "loss"
	GoalGain      GoalCategory = "gain"
	GoalEndurance GoalCategory = "endurance"
	GoalGeneral   GoalCategory = "general"
)

var goalKeywords = []struct {
	category GoalCategory
	words    []string
}{
	{GoalLoss, []string{"lose", "weight loss", "cut"}},
	{GoalGain, []string{"gain", "build muscle", "bulk"}},
	{GoalEndurance, []string{"endurance", "run", "cardio"}},
}

// ClassifyGoal matches goal text case-insensitively against keyword lists,
// first match wins in loss, gain, endurance order. Plain substring matching:
// "brunch" counts as "run".
func ClassifyGoal(goal string) GoalCategory {
	lower := strings.ToLower(goal)
	for _, g := range goalKeywords {
		for _, w := range g.words {
			if strings.Contains(lower, w) {
				return g.category
			}
		}
	}
	return GoalGeneral
}

// MacroSplit is the share of daily calories assigned to each macro.
type MacroSplit struct {
	Protein float64 `json:"protein"`
	Carbs   float64 `json:"carbs"`
	Fat     float64 `json:"fat"`
}

var macroSplits = map[GoalCategory]MacroSplit{
	GoalLoss:      {Protein: 0.35, Carbs: 0.35, Fat: 0.30},
	GoalGain:      {Protein: 0.30, Carbs: 0.45, Fat: 0.25},
	GoalEndurance: {Protein: 0.25, Carbs: 0.50, Fat: 0.25},
	GoalGeneral:   {Protein: 0.30, Carbs: 0.40, Fat: 0.30},
}

// MacroSplitFor returns the macro split for a goal category.
func MacroSplitFor(c GoalCategory) MacroSplit {
	if s, ok := macroSplits[c]; ok {
		return s
	}
	return macroSplits[GoalGeneral]
}

// Inputs are the profile values the estimator reads. Nil means not set.
type Inputs struct {
	WeightKg     *float64
	HeightCm     *float64
	Goal         string
	FitnessLevel string
	GoalWeightKg *float64
}

// Target is an estimated daily calorie budget with macro grams.
type Target struct {
	Calories int `json:"calories"`
	Protein  int `json:"protein"`
	Carbs    int `json:"carbs"`
	Fat      int `json:"fat"`
}

// Estimate computes daily nutrition targets. Returns ok=false when current
// weight or height is missing or not positive.
//
// Height only gates the estimate; the BMR seed is weight-based. Rounding is
// half-to-even and products are wrapped in float64() to block FMA fusion:
// outputs must match previously stored targets bit for bit.
func Estimate(in Inputs) (Target, bool) {
	if in.WeightKg == nil || in.HeightCm == nil || *in.WeightKg <= 0 || *in.HeightCm <= 0 {
		return Target{}, false
	}
	weight := *in.WeightKg

	calcWeight := weight
	hasGoalWeight := in.GoalWeightKg != nil && *in.GoalWeightKg > 0
	if hasGoalWeight {
		calcWeight = *in.GoalWeightKg
	}

	bmr := float64(calcWeight * bmrPerKg)
	tdee := float64(bmr * ActivityMultiplier(in.FitnessLevel))

	category := ClassifyGoal(in.Goal)
	var adjustment float64
	switch {
	case hasGoalWeight && *in.GoalWeightKg < weight:
		adjustment = -calorieShift
	case hasGoalWeight && *in.GoalWeightKg > weight:
		adjustment = calorieShift
	case hasGoalWeight:
		// maintenance
	case category == GoalLoss:
		adjustment = -calorieShift
	case category == GoalGain:
		adjustment = calorieShift
	}
	calories := max(calorieFloor, tdee+adjustment)

	// The split always follows the goal text, even when a goal weight drove
	// the calorie adjustment.
	split := MacroSplitFor(category)
	protein := float64(calories*split.Protein) / kcalPerGramProtein
	carbs := float64(calories*split.Carbs) / kcalPerGramCarbs
	fat := float64(calories*split.Fat) / kcalPerGramFat

	protein = max(protein, float64(weight*proteinPerKg))

	return Target{
		Calories: roundInt(calories),
		Protein:  roundInt(max(0, protein)),
		Carbs:    roundInt(max(0, carbs)),
		Fat:      roundInt(max(0, fat)),
	}, true
}

func roundInt(v float64) int {
	return int(math.RoundToEven(v))
}
