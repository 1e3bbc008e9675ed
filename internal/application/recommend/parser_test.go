package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/savorly/v1/internal/domain/constraint"
)

func TestParseConstraintsDefaults(t *testing.T) {
	c := ParseConstraints("hello there")

	assert.Equal(t, constraint.MoodUnset, c.Mood)
	assert.Equal(t, constraint.EnergyUnset, c.Energy)
	assert.Empty(t, c.DietTypes)
	assert.Empty(t, c.IncludeIngredients)
	assert.Empty(t, c.ExcludeIngredients)
	assert.Nil(t, c.MaxTimeMinutes)
	assert.Equal(t, constraint.DefaultExpiringWindowDays, c.ExpiringWindowDays)
}

func TestParseConstraintsTime(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{"under phrasing", "something under 30 minutes", 30},
		{"bare minutes", "dinner in 45 mins", 45},
		{"quick keyword", "a quick dinner", 20},
		{"fast keyword", "fast food at home", 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := ParseConstraints(tt.text)
			require.NotNil(t, c.MaxTimeMinutes)
			assert.Equal(t, tt.want, *c.MaxTimeMinutes)
		})
	}
}

func TestParseConstraintsTimeFirstMatchWins(t *testing.T) {
	// "under 30 minutes" is more specific than the quick keyword; the
	// scalar category is claimed by the first matching rule.
	c := ParseConstraints("quick meal under 30 minutes")
	require.NotNil(t, c.MaxTimeMinutes)
	assert.Equal(t, 30, *c.MaxTimeMinutes)
}

func TestParseConstraintsDiet(t *testing.T) {
	c := ParseConstraints("a vegan or vegetarian recipe, vegan preferred")
	assert.Equal(t, []string{"vegan", "vegetarian"}, c.DietTypes)

	c = ParseConstraints("ketogenic dinner")
	assert.Equal(t, []string{"keto"}, c.DietTypes)
}

func TestParseConstraintsGlutenFree(t *testing.T) {
	c := ParseConstraints("gluten-free pasta night")
	assert.ElementsMatch(t, []string{"gluten", "wheat", "bread"}, c.ExcludeIngredients)
	assert.Empty(t, c.DietTypes)
}

func TestParseConstraintsExpiringWindow(t *testing.T) {
	c := ParseConstraints("use whatever is expiring in 5 days")
	assert.Equal(t, 5, c.ExpiringWindowDays)
	assert.Equal(t, "expiring", c.PrioritizeIngredient)
}

func TestParseConstraintsExcludes(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"no", "no mushrooms please", []string{"mushrooms"}},
		{"allergic", "I'm allergic to peanuts", []string{"peanuts"}},
		{"dont use", "don't use cilantro", []string{"cilantro"}},
		{"cannot have", "cannot have shellfish or dairy", []string{"shellfish", "dairy"}},
		{"without", "pasta without garlic", []string{"garlic"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := ParseConstraints(tt.text)
			assert.Equal(t, tt.want, c.ExcludeIngredients)
		})
	}
}

func TestParseConstraintsIncludes(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"make with", "make something with chicken and rice", []string{"chicken", "rice"}},
		{"recipe with", "recipe with salmon, lemon and dill", []string{"salmon", "lemon", "dill"}},
		{"use", "use eggs and spinach please", []string{"eggs", "spinach"}},
		{"what can i make", "what can i make with tofu?", []string{"tofu"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := ParseConstraints(tt.text)
			assert.Equal(t, tt.want, c.IncludeIngredients)
		})
	}
}

func TestParseConstraintsMixedIncludeExclude(t *testing.T) {
	c := ParseConstraints("allergic to peanuts and shellfish, make something with chicken")

	assert.ElementsMatch(t, []string{"peanuts", "shellfish"}, c.ExcludeIngredients)
	assert.Equal(t, []string{"chicken"}, c.IncludeIngredients)
}

func TestParseConstraintsExcludeWinsOverlap(t *testing.T) {
	c := ParseConstraints("make something with chicken and dairy, no dairy")

	assert.Contains(t, c.ExcludeIngredients, "dairy")
	assert.NotContains(t, c.IncludeIngredients, "dairy")
	assert.Contains(t, c.IncludeIngredients, "chicken")
}

func TestParseConstraintsMood(t *testing.T) {
	assert.Equal(t, constraint.MoodComfort, ParseConstraints("cozy comfort food").Mood)
	assert.Equal(t, constraint.MoodFocus, ParseConstraints("post-workout meal").Mood)

	c := ParseConstraints("something light and fresh")
	assert.Equal(t, constraint.MoodLight, c.Mood)
	// Light mood also steers away from heavy ingredients.
	assert.ElementsMatch(t, []string{"cream", "butter", "oil"}, c.ExcludeIngredients)
}

func TestParseConstraintsEnergy(t *testing.T) {
	assert.Equal(t, constraint.EnergyLow, ParseConstraints("I'm tired tonight").Energy)
	assert.Equal(t, constraint.EnergyLow, ParseConstraints("low energy day").Energy)
	assert.Equal(t, constraint.EnergyHigh, ParseConstraints("need an energy boost").Energy)
}

func TestParseConstraintsMacroHints(t *testing.T) {
	assert.Equal(t, constraint.MacroLowCarb, ParseConstraints("low carb dinner").PrioritizeMacro)
	assert.Equal(t, constraint.MacroHighCarb, ParseConstraints("high-carb meal before the race").PrioritizeMacro)
	assert.Equal(t, "protein", ParseConstraints("lots of protein").PrioritizeIngredient)
}

func TestParseConstraintsIsTotal(t *testing.T) {
	// Garbage in, defaults out; never an error.
	for _, text := range []string{"", "   ", "?????", "asdf qwer zxcv", "no", "with"} {
		c := ParseConstraints(text)
		assert.Equal(t, constraint.DefaultExpiringWindowDays, c.ExpiringWindowDays, "input %q", text)
	}
}

func TestSplitIngredientTokens(t *testing.T) {
	assert.Equal(t, []string{"chicken", "rice"}, splitIngredientTokens("some chicken and rice"))
	assert.Equal(t, []string{"bell peppers"}, splitIngredientTokens("the bell peppers"))
	assert.Nil(t, splitIngredientTokens("something"))
	assert.Nil(t, splitIngredientTokens("  "))
}
