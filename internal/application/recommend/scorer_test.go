package recommend

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/savorly/v1/internal/domain/constraint"
	"github.com/savorly/v1/internal/domain/pantry"
	"github.com/savorly/v1/internal/domain/recipe"
	"github.com/savorly/v1/test/testutils"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestScorer() *Scorer {
	return NewScorer(DefaultWeights(), nil, func() time.Time { return testNow })
}

func expiringPantry(names map[string]int) pantry.Snapshot {
	items := make([]pantry.Item, 0, len(names))
	for name, days := range names {
		items = append(items, testutils.NewPantryBuilder(name).ExpiringAt(testNow.AddDate(0, 0, days)).Build())
	}
	return pantry.NewSnapshot(items)
}

func TestWeightsValidate(t *testing.T) {
	assert.NoError(t, DefaultWeights().Validate())
	assert.NoError(t, Weights{Coverage: 1}.Validate())

	assert.Error(t, Weights{Coverage: 0.5, Expiring: 0.6}.Validate())
	assert.Error(t, Weights{Coverage: 1.3, Expiring: -0.3}.Validate())
	assert.Error(t, Weights{}.Validate())
}

func TestScoreCoverage(t *testing.T) {
	s := newTestScorer()
	snap := testutils.Pantry("chicken", "rice", "olive oil")

	full := testutils.NewRecipeBuilder().WithIngredients("chicken", "rice").Build()
	b := s.Score(full, snap, constraint.New())
	assert.Equal(t, 1.0, b.Coverage)
	assert.Empty(t, b.MissingIngredients)

	half := testutils.NewRecipeBuilder().WithIngredients("chicken", "saffron").Build()
	b = s.Score(half, snap, constraint.New())
	assert.Equal(t, 0.5, b.Coverage)
	assert.Equal(t, []string{"saffron"}, b.MissingIngredients)
}

func TestScoreCoverageSubstringMatch(t *testing.T) {
	s := newTestScorer()
	snap := testutils.Pantry("chicken")

	r := testutils.NewRecipeBuilder().WithIngredients("diced chicken breast").Build()
	b := s.Score(r, snap, constraint.New())

	assert.Equal(t, 1.0, b.Coverage)
}

func TestScoreEmptyIngredientList(t *testing.T) {
	s := newTestScorer()
	snap := expiringPantry(map[string]int{"spinach": 1})

	r := testutils.NewRecipeBuilder().WithIngredients().Build()
	b := s.Score(r, snap, constraint.New())

	assert.Equal(t, 1.0, b.Coverage)
	assert.Equal(t, 0.0, b.Expiring)
	assert.Empty(t, b.MissingIngredients)
}

func TestScoreExpiringWindows(t *testing.T) {
	s := newTestScorer()
	c := constraint.New() // window 3 days

	tests := []struct {
		name string
		days int
		want float64
	}{
		{"inside window", 2, 1.0},
		{"window boundary", 3, 1.0},
		{"half weight band", 5, 0.5},
		{"double window boundary", 6, 0.5},
		{"beyond double window", 7, 0.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := expiringPantry(map[string]int{"salmon": tt.days})
			r := testutils.NewRecipeBuilder().WithIngredients("salmon").Build()

			b := s.Score(r, snap, c)

			assert.InDelta(t, tt.want, b.Expiring, 1e-9)
		})
	}
}

func TestScoreExpiringIgnoresExpiredAndUndated(t *testing.T) {
	s := newTestScorer()
	items := []pantry.Item{
		testutils.NewPantryBuilder("salmon").ExpiringAt(testNow.AddDate(0, 0, -2)).Build(),
		testutils.NewPantryBuilder("rice").Build(),
	}
	r := testutils.NewRecipeBuilder().WithIngredients("salmon", "rice").Build()

	b := s.Score(r, pantry.NewSnapshot(items), constraint.New())

	assert.Equal(t, 0.0, b.Expiring)
	assert.Empty(t, b.MatchedExpiring)
}

func TestScoreExpiringNormalizedAndCapped(t *testing.T) {
	s := newTestScorer()
	snap := expiringPantry(map[string]int{"eggs": 1, "spinach": 2})

	r := testutils.NewRecipeBuilder().WithIngredients("eggs", "spinach").Build()
	b := s.Score(r, snap, constraint.New())

	// Two full-weight matches over two ingredients.
	assert.InDelta(t, 1.0, b.Expiring, 1e-9)
	assert.ElementsMatch(t, []string{"eggs", "spinach"}, b.MatchedExpiring)
}

func TestScoreExpiringCustomWindow(t *testing.T) {
	s := newTestScorer()
	snap := expiringPantry(map[string]int{"salmon": 5})
	r := testutils.NewRecipeBuilder().WithIngredients("salmon").Build()

	c := constraint.New()
	c.ExpiringWindowDays = 7

	b := s.Score(r, snap, c)

	assert.InDelta(t, 1.0, b.Expiring, 1e-9)
}

func TestScoreNutritionGoalLinear(t *testing.T) {
	s := newTestScorer()
	snap := testutils.Pantry()

	tests := []struct {
		name string
		goal constraint.NutritionGoal
		nut  *recipe.NutritionRecord
		want float64
	}{
		{"protein above goal", constraint.GoalHighProtein, testutils.FullNutrition(500, 45, 30, 20, 5, 3), 0.5},
		{"protein at goal", constraint.GoalHighProtein, testutils.FullNutrition(500, 30, 30, 20, 5, 3), 0.0},
		{"protein below goal", constraint.GoalHighProtein, testutils.FullNutrition(500, 15, 30, 20, 5, 3), -0.5},
		{"carbs under limit", constraint.GoalLowCarb, testutils.FullNutrition(500, 20, 7, 20, 2, 1), 0.8},
		{"carbs over limit", constraint.GoalLowCarb, testutils.FullNutrition(500, 20, 70, 20, 10, 4), -1.0},
		{"calories under limit", constraint.GoalLowCalorie, testutils.FullNutrition(275, 20, 30, 10, 5, 3), 0.5},
		{"calories far over limit clamps", constraint.GoalLowCalorie, testutils.FullNutrition(2000, 20, 30, 10, 5, 3), -1.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := testutils.NewRecipeBuilder().WithNutrition(tt.nut).Build()
			c := constraint.New()
			c.NutritionGoal = tt.goal

			b := s.Score(r, snap, c)

			assert.InDelta(t, tt.want, b.Nutrition, 1e-9)
			assert.NotEmpty(t, b.NutritionExplanation)
		})
	}
}

func TestScoreNutritionGoalUnsetIsNeutral(t *testing.T) {
	s := newTestScorer()
	r := testutils.NewRecipeBuilder().WithNutrition(testutils.FullNutrition(500, 45, 30, 20, 5, 3)).Build()

	b := s.Score(r, testutils.Pantry(), constraint.New())

	assert.Equal(t, 0.0, b.Nutrition)
	assert.Empty(t, b.NutritionExplanation)
}

func TestScoreNutritionGoalWithoutData(t *testing.T) {
	s := newTestScorer()
	r := testutils.NewRecipeBuilder().Build() // no nutrition record at all

	c := constraint.New()
	c.NutritionGoal = constraint.GoalHighProtein

	b := s.Score(r, testutils.Pantry(), c)

	assert.Equal(t, 0.0, b.Nutrition)
	assert.Contains(t, b.NutritionExplanation, "no protein_g data")
}

func TestScoreNutritionGoalUsesEstimatedMacros(t *testing.T) {
	s := newTestScorer()
	// Only calories supplied; protein is estimated as 600*0.20/4 = 30g,
	// exactly on the high-protein target.
	r := testutils.NewRecipeBuilder().WithCalories(600).Build()

	c := constraint.New()
	c.NutritionGoal = constraint.GoalHighProtein

	b := s.Score(r, testutils.Pantry(), c)

	assert.InDelta(t, 0.0, b.Nutrition, 1e-9)
}

func TestScoreGoalInferredFromEnergy(t *testing.T) {
	s := newTestScorer()
	r := testutils.NewRecipeBuilder().WithNutrition(testutils.FullNutrition(500, 45, 30, 20, 5, 3)).Build()

	c := constraint.New()
	c.Energy = constraint.EnergyHigh // implies the high-protein goal

	b := s.Score(r, testutils.Pantry(), c)

	assert.InDelta(t, 0.5, b.Nutrition, 1e-9)
}

func TestScoreFinalIsWeightedSum(t *testing.T) {
	s := newTestScorer()
	snap := expiringPantry(map[string]int{"salmon": 1})
	r := testutils.NewRecipeBuilder().
		WithIngredients("salmon", "lemon").
		WithNutrition(testutils.FullNutrition(500, 45, 30, 20, 5, 3)).
		Build()

	c := constraint.New()
	c.NutritionGoal = constraint.GoalHighProtein

	b := s.Score(r, snap, c)
	w := s.Weights()

	want := w.Coverage*b.Coverage + w.Expiring*b.Expiring + w.Nutrition*b.Nutrition + w.MoodEnergy*b.MoodEnergy
	assert.InDelta(t, want, b.Final, 1e-12)
}

func TestScoreDeterministic(t *testing.T) {
	s := newTestScorer()
	snap := expiringPantry(map[string]int{"salmon": 1, "rice": 5})
	r := testutils.NewRecipeBuilder().
		WithIngredients("salmon", "rice", "lemon").
		WithNutrition(testutils.FullNutrition(480, 38, 30, 22, 4, 2)).
		Build()
	c := ParseConstraints("comfort food with salmon, high protein please")

	first := s.Score(r, snap, c)
	for i := 0; i < 5; i++ {
		again := s.Score(r, snap, c)
		assert.Equal(t, first, again)
	}
}

func TestScoreReasonHeadline(t *testing.T) {
	s := newTestScorer()
	snap := testutils.Pantry("chicken", "rice")
	r := testutils.NewRecipeBuilder().
		WithIngredients("chicken", "rice").
		WithTime(25).
		WithDietTags("gluten-free").
		Build()

	b := s.Score(r, snap, constraint.New())

	assert.Contains(t, b.Reason, "has 100% of ingredients")
	assert.Contains(t, b.Reason, "Quick (25 min)")
	assert.Contains(t, b.Reason, "gluten-free")
}

func TestScoreReasonDefault(t *testing.T) {
	s := newTestScorer()
	r := &recipe.Recipe{ID: 1, Title: "Mystery Stew", Ingredients: []string{"beets"}}

	b := s.Score(r, testutils.Pantry(), constraint.New())

	assert.Equal(t, "Good match", b.Reason)
}

func TestScoreExplanation(t *testing.T) {
	s := newTestScorer()
	snap := expiringPantry(map[string]int{"spinach": 1, "eggs": 2})
	r := testutils.NewRecipeBuilder().WithIngredients("eggs", "spinach").Build()

	c := constraint.New()

	b := s.Score(r, snap, c)

	assert.Contains(t, b.Explanation, "Pantry coverage: 100%")
	// Expiring names come back sorted and deduplicated.
	assert.Contains(t, b.Explanation, "Uses expiring: eggs, spinach")
}
