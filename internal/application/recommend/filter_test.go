package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/savorly/v1/internal/domain/constraint"
	"github.com/savorly/v1/internal/domain/recipe"
	"github.com/savorly/v1/test/testutils"
)

func intPtr(v int) *int { return &v }

func TestFilterExcludedIngredient(t *testing.T) {
	recipes := []*recipe.Recipe{
		testutils.NewRecipeBuilder().WithID(1).WithIngredients("chicken", "peanuts", "rice").Build(),
		testutils.NewRecipeBuilder().WithID(2).WithIngredients("chicken", "rice").Build(),
	}
	c := constraint.New()
	c.ExcludeIngredients = []string{"peanuts"}

	out := FilterCandidates(recipes, c)

	assert.Len(t, out, 1)
	assert.Equal(t, int64(2), out[0].ID)
}

func TestFilterExcludeMatchesSubstringBothWays(t *testing.T) {
	r := testutils.NewRecipeBuilder().WithIngredients("diced chicken breast").Build()

	c := constraint.New()
	c.ExcludeIngredients = []string{"chicken"}
	assert.Empty(t, FilterCandidates([]*recipe.Recipe{r}, c))

	c = constraint.New()
	c.ExcludeIngredients = []string{"diced chicken breast fillet"}
	assert.Empty(t, FilterCandidates([]*recipe.Recipe{r}, c))
}

func TestFilterRequiredIngredient(t *testing.T) {
	recipes := []*recipe.Recipe{
		testutils.NewRecipeBuilder().WithID(1).WithIngredients("salmon", "lemon").Build(),
		testutils.NewRecipeBuilder().WithID(2).WithIngredients("chicken", "rice").Build(),
	}
	c := constraint.New()
	c.IncludeIngredients = []string{"salmon"}

	out := FilterCandidates(recipes, c)

	assert.Len(t, out, 1)
	assert.Equal(t, int64(1), out[0].ID)
}

func TestFilterDietTags(t *testing.T) {
	recipes := []*recipe.Recipe{
		testutils.NewRecipeBuilder().WithID(1).WithDietTags("vegan", "gluten-free").Build(),
		testutils.NewRecipeBuilder().WithID(2).WithDietTags("pescatarian").Build(),
		testutils.NewRecipeBuilder().WithID(3).Build(),
	}

	c := constraint.New()
	c.DietTypes = []string{"vegan"}

	out := FilterCandidates(recipes, c)

	assert.Len(t, out, 1)
	assert.Equal(t, int64(1), out[0].ID)
}

func TestFilterDietTagsRequireEveryRequestedDiet(t *testing.T) {
	recipes := []*recipe.Recipe{
		testutils.NewRecipeBuilder().WithID(1).WithDietTags("vegan").Build(),
		testutils.NewRecipeBuilder().WithID(2).WithDietTags("vegan", "vegetarian").Build(),
		testutils.NewRecipeBuilder().WithID(3).WithDietTags("vegetarian").Build(),
	}

	// The recipe's tags must cover the whole requested set; a partial
	// match is rejected.
	c := constraint.New()
	c.DietTypes = []string{"vegan", "vegetarian"}

	out := FilterCandidates(recipes, c)

	assert.Len(t, out, 1)
	assert.Equal(t, int64(2), out[0].ID)
}

func TestFilterMaxTime(t *testing.T) {
	recipes := []*recipe.Recipe{
		testutils.NewRecipeBuilder().WithID(1).WithTime(20).Build(),
		testutils.NewRecipeBuilder().WithID(2).WithTime(45).Build(),
		testutils.NewRecipeBuilder().WithID(3).WithTime(30).Build(),
	}
	c := constraint.New()
	c.MaxTimeMinutes = intPtr(30)

	out := FilterCandidates(recipes, c)

	assert.Len(t, out, 2)
	assert.Equal(t, int64(1), out[0].ID)
	assert.Equal(t, int64(3), out[1].ID)
}

func TestFilterNoConstraintsKeepsCatalogOrder(t *testing.T) {
	recipes := []*recipe.Recipe{
		testutils.NewRecipeBuilder().WithID(3).Build(),
		testutils.NewRecipeBuilder().WithID(1).Build(),
		testutils.NewRecipeBuilder().WithID(2).Build(),
	}

	out := FilterCandidates(recipes, constraint.New())

	assert.Len(t, out, 3)
	assert.Equal(t, int64(3), out[0].ID)
	assert.Equal(t, int64(1), out[1].ID)
	assert.Equal(t, int64(2), out[2].ID)
}

func TestFilterSoftPreferencesNeverReject(t *testing.T) {
	r := testutils.NewRecipeBuilder().Build()

	c := constraint.New()
	c.Mood = constraint.MoodComfort
	c.Energy = constraint.EnergyHigh
	c.NutritionGoal = constraint.GoalHighProtein

	assert.Len(t, FilterCandidates([]*recipe.Recipe{r}, c), 1)
}
