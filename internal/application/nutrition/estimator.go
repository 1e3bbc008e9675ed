// Package nutrition provides the estimation layer that completes partial
// nutrition records and engineers the feature vector consumed by the
// mood/energy models.
package nutrition

import (
	"sort"

	"github.com/savorly/v1/internal/domain/recipe"
)

// Macro split assumed when deriving missing macros from calories:
// 20% protein, 50% carbs, 30% fat, at 4/4/9 kcal per gram.
const (
	proteinCalorieShare = 0.20
	carbCalorieShare    = 0.50
	fatCalorieShare     = 0.30

	kcalPerGramProtein = 4
	kcalPerGramCarb    = 4
	kcalPerGramFat     = 9

	sugarShareOfCarbs = 0.20
	fiberShareOfCarbs = 0.10
)

// Estimation is the result of completing a partial nutrition record.
// Values keep full float64 precision; nothing is rounded.
type Estimation struct {
	// Record is the completed record. Fields that could not be derived
	// remain nil.
	Record recipe.NutritionRecord

	// EstimatedFields lists the tracked fields that were derived rather
	// than supplied, sorted.
	EstimatedFields []string

	// Completeness is the ratio of originally known tracked fields.
	Completeness float64

	Quality recipe.DataQuality
}

// CanPredict reports whether the completed record carries calories, the
// minimum basis for a model prediction.
func (e Estimation) CanPredict() bool {
	return e.Record.Calories != nil
}

// Estimate completes a partial nutrition record using deterministic
// macro relationships. Completeness and quality reflect the original
// record, not the completed one.
func Estimate(partial recipe.NutritionRecord) Estimation {
	completeness := partial.Completeness()
	out := Estimation{
		Record:       partial,
		Completeness: completeness,
		Quality:      recipe.QualityForCompleteness(completeness),
	}
	rec := &out.Record
	estimated := map[string]bool{}

	// Calories present: derive any missing macro from the assumed split.
	if rec.Calories != nil {
		cal := *rec.Calories
		if rec.ProteinG == nil {
			rec.SetField(recipe.FieldProtein, cal*proteinCalorieShare/kcalPerGramProtein)
			estimated[recipe.FieldProtein] = true
		}
		if rec.CarbsG == nil {
			rec.SetField(recipe.FieldCarbs, cal*carbCalorieShare/kcalPerGramCarb)
			estimated[recipe.FieldCarbs] = true
		}
		if rec.FatG == nil {
			rec.SetField(recipe.FieldFat, cal*fatCalorieShare/kcalPerGramFat)
			estimated[recipe.FieldFat] = true
		}
	} else if rec.ProteinG != nil && rec.CarbsG != nil && rec.FatG != nil {
		// All macros but no calories: calories follow from the macros.
		cal := *rec.ProteinG*kcalPerGramProtein + *rec.CarbsG*kcalPerGramCarb + *rec.FatG*kcalPerGramFat
		rec.SetField(recipe.FieldCalories, cal)
		estimated[recipe.FieldCalories] = true
	}

	if rec.CarbsG != nil {
		if rec.SugarG == nil {
			rec.SetField(recipe.FieldSugar, *rec.CarbsG*sugarShareOfCarbs)
			estimated[recipe.FieldSugar] = true
		}
		if rec.FiberG == nil {
			rec.SetField(recipe.FieldFiber, *rec.CarbsG*fiberShareOfCarbs)
			estimated[recipe.FieldFiber] = true
		}
	}

	for f := range estimated {
		out.EstimatedFields = append(out.EstimatedFields, f)
	}
	sort.Strings(out.EstimatedFields)
	return out
}
