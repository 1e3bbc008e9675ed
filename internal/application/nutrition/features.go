package nutrition

import "github.com/savorly/v1/internal/domain/recipe"

// eps guards ratio features against division by zero.
const eps = 1e-6

// FeatureVector engineers the ordered model input from a completed
// estimation: the five base columns followed by nine derived features,
// in recipe.FeatureNames order. It returns an error when the estimation
// has no calorie basis; callers must use the heuristic fallback then.
//
// caloric_density is calories/100, matching the column the frozen scaler
// was fitted on.
func (e Estimation) FeatureVector() (recipe.FeatureVector, error) {
	if !e.CanPredict() {
		return recipe.FeatureVector{}, recipe.ErrInsufficientNutrition
	}

	// Whenever calories are resolvable the estimator has filled every
	// macro, so these dereferences are safe.
	calories := *e.Record.Calories
	protein := *e.Record.ProteinG
	carbs := *e.Record.CarbsG
	fat := *e.Record.FatG
	sugar := *e.Record.SugarG

	proteinPct := (protein * kcalPerGramProtein) / (calories + eps)
	carbPct := (carbs * kcalPerGramCarb) / (calories + eps)
	fatPct := (fat * kcalPerGramFat) / (calories + eps)

	values := []float64{
		calories,
		fat,
		sugar,
		carbs,
		protein,
		protein / (carbs + eps),
		fat / (carbs + eps),
		proteinPct,
		carbPct,
		fatPct,
		sugar / (carbs + eps),
		sugar * carbs,
		calories / 100.0,
		protein * proteinPct,
	}

	return recipe.FeatureVector{
		Values:       values,
		Completeness: e.Completeness,
		Quality:      e.Quality,
	}, nil
}
