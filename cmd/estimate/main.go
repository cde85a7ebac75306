// CLI tool to preview the daily calorie and macro targets the API would
// estimate for a set of body metrics, without touching the database.
// Usage: go run ./cmd/estimate --weight 80 --height 180 --goal "Lose weight" --fitness-level Intermediate
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/Poshangg/smartfit/internal/nutrition"
	"github.com/spf13/cobra"
)

var (
	weightKg     float64
	heightCm     float64
	goal         string
	fitnessLevel string
	goalWeightKg float64
	asJSON       bool
)

var rootCmd = &cobra.Command{
	Use:   "estimate",
	Short: "Estimate daily calorie and macro targets",
	Long: "estimate prints the calorie budget and protein/carbs/fat grams for the given body metrics.\n" +
		"An unknown fitness level uses the default activity multiplier.",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		in := nutrition.Inputs{
			WeightKg:     &weightKg,
			HeightCm:     &heightCm,
			Goal:         goal,
			FitnessLevel: fitnessLevel,
		}
		if goalWeightKg > 0 {
			in.GoalWeightKg = &goalWeightKg
		}
		t, ok := nutrition.Estimate(in)
		if !ok {
			return fmt.Errorf("--weight and --height must be positive")
		}

		out := cmd.OutOrStdout()
		if asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(t)
		}
		category := nutrition.ClassifyGoal(goal)
		split := nutrition.MacroSplitFor(category)
		fmt.Fprintf(out, "Goal category: %s\n", category)
		fmt.Fprintf(out, "Calories:      %d kcal\n", t.Calories)
		fmt.Fprintf(out, "Protein:       %dg (%.0f%%)\n", t.Protein, split.Protein*100)
		fmt.Fprintf(out, "Carbs:         %dg (%.0f%%)\n", t.Carbs, split.Carbs*100)
		fmt.Fprintf(out, "Fat:           %dg (%.0f%%)\n", t.Fat, split.Fat*100)
		return nil
	},
}

func init() {
	f := rootCmd.Flags()
	f.Float64Var(&weightKg, "weight", 0, "Current weight in kg")
	f.Float64Var(&heightCm, "height", 0, "Height in cm")
	f.StringVar(&goal, "goal", "", "Free-text goal, e.g. \"Lose weight\" or \"Build muscle\"")
	f.StringVar(&fitnessLevel, "fitness-level", "", "One of "+strings.Join(nutrition.FitnessLevels, ", "))
	f.Float64Var(&goalWeightKg, "goal-weight", 0, "Goal weight in kg (optional)")
	f.BoolVar(&asJSON, "json", false, "Print targets as JSON")
	_ = rootCmd.MarkFlagRequired("weight")
	_ = rootCmd.MarkFlagRequired("height")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
