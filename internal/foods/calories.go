package foods

import "math"

// Calories per gram of each macronutrient (Atwater factors).
const (
	kcalPerGramProtein = 4
	kcalPerGramCarbs   = 4
	kcalPerGramFats    = 9
)

// Calories derives the calorie count from macronutrient grams, rounding
// half-up (43.5 becomes 44). Inputs are not re-validated here; callers are
// expected to have run the validation pass first.
func Calories(protein, carbs, fats float64) int {
	total := protein*kcalPerGramProtein + carbs*kcalPerGramCarbs + fats*kcalPerGramFats
	return int(math.Floor(total + 0.5))
}
