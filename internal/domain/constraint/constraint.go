// Package constraint defines the structured request constraints the
// recommendation engine scores against. A UserConstraints value is built
// fresh per request, either parsed from free text or mapped from a
// structured payload, and discarded with the response.
package constraint

import "strings"

// Mood is a normalized requested mood. The zero value means unset.
type Mood string

const (
	MoodUnset   Mood = ""
	MoodComfort Mood = "comfort"
	MoodLight   Mood = "light"
	MoodFocus   Mood = "focus"
)

// moodSynonyms maps raw request words to normalized moods.
var moodSynonyms = map[string]Mood{
	"comfort":      MoodComfort,
	"cozy":         MoodComfort,
	"hearty":       MoodComfort,
	"happy":        MoodComfort,
	"good":         MoodComfort,
	"light":        MoodLight,
	"fresh":        MoodLight,
	"healthy":      MoodLight,
	"focus":        MoodFocus,
	"post-workout": MoodFocus,
	"gym":          MoodFocus,
	"muscle":       MoodFocus,
}

// ParseMood normalizes a raw mood word. Unrecognized words map to unset.
func ParseMood(raw string) Mood {
	if m, ok := moodSynonyms[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return m
	}
	return MoodUnset
}

// EnergyLevel is a requested energy level. The zero value means unset.
type EnergyLevel string

const (
	EnergyUnset  EnergyLevel = ""
	EnergyLow    EnergyLevel = "low"
	EnergyNormal EnergyLevel = "normal"
	EnergyHigh   EnergyLevel = "high"
)

// ParseEnergy normalizes a raw energy word. Unrecognized words map to unset.
func ParseEnergy(raw string) EnergyLevel {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "low":
		return EnergyLow
	case "normal", "medium":
		return EnergyNormal
	case "high":
		return EnergyHigh
	}
	return EnergyUnset
}

// NutritionGoal is a named nutrition target. The zero value means unset.
type NutritionGoal string

const (
	GoalUnset       NutritionGoal = ""
	GoalHighProtein NutritionGoal = "high_protein"
	GoalLowCarb     NutritionGoal = "low_carb"
	GoalLowCalorie  NutritionGoal = "low_calorie"
)

// ParseGoal normalizes a raw goal name. Unrecognized names map to unset.
func ParseGoal(raw string) NutritionGoal {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "high_protein":
		return GoalHighProtein
	case "low_carb":
		return GoalLowCarb
	case "low_calorie":
		return GoalLowCalorie
	}
	return GoalUnset
}

// MacroHint is a carb-direction prioritization hint.
type MacroHint string

const (
	MacroUnset    MacroHint = ""
	MacroHighCarb MacroHint = "high_carb"
	MacroLowCarb  MacroHint = "low_carb"
)

// DefaultExpiringWindowDays is how many days ahead a pantry item counts
// as expiring soon when the request does not say otherwise.
const DefaultExpiringWindowDays = 3

// UserConstraints is the fully defaulted structured form of a request.
// Unset optional fields are the zero value of their typed enum or a nil
// pointer, never an empty-string stand-in.
type UserConstraints struct {
	Mood               Mood
	Energy             EnergyLevel
	DietTypes          []string
	IncludeIngredients []string
	ExcludeIngredients []string
	MaxTimeMinutes     *int
	NutritionGoal      NutritionGoal
	ExpiringWindowDays int

	// Prioritization hints; informational, never hard filters.
	PrioritizeIngredient string
	PrioritizeMacro      MacroHint
}

// New returns constraints with defaults applied.
func New() UserConstraints {
	return UserConstraints{ExpiringWindowDays: DefaultExpiringWindowDays}
}

// EffectiveGoal resolves the nutrition goal, inferring one from the macro
// hint or energy level when no explicit goal was requested.
func (c UserConstraints) EffectiveGoal() NutritionGoal {
	if c.NutritionGoal != GoalUnset {
		return c.NutritionGoal
	}
	if c.PrioritizeMacro == MacroLowCarb {
		return GoalLowCarb
	}
	switch c.Energy {
	case EnergyHigh:
		return GoalHighProtein
	case EnergyLow:
		return GoalLowCalorie
	}
	return GoalUnset
}
