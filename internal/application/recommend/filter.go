package recommend

import (
	"github.com/savorly/v1/internal/domain/constraint"
	"github.com/savorly/v1/internal/domain/recipe"
)

// FilterCandidates applies the hard constraints and returns the recipes
// that survive, in catalog order. A recipe is rejected when any rule
// fails:
//
//   - it contains an excluded ingredient,
//   - it is missing a required included ingredient,
//   - it is missing any of the requested diet tags,
//   - its time exceeds the requested ceiling.
//
// Soft preferences (mood, energy, nutrition goal) never remove a
// candidate here; they only move scores later.
func FilterCandidates(recipes []*recipe.Recipe, c constraint.UserConstraints) []*recipe.Recipe {
	out := make([]*recipe.Recipe, 0, len(recipes))
	for _, r := range recipes {
		if passesFilter(r, c) {
			out = append(out, r)
		}
	}
	return out
}

func passesFilter(r *recipe.Recipe, c constraint.UserConstraints) bool {
	names := r.NormalizedIngredients()

	for _, ex := range c.ExcludeIngredients {
		if containsIngredient(names, recipe.NormalizeName(ex)) {
			return false
		}
	}
	for _, in := range c.IncludeIngredients {
		if !containsIngredient(names, recipe.NormalizeName(in)) {
			return false
		}
	}
	for _, diet := range c.DietTypes {
		if !r.HasDietTag(diet) {
			return false
		}
	}
	if c.MaxTimeMinutes != nil && r.TimeMinutes > *c.MaxTimeMinutes {
		return false
	}
	return true
}

// containsIngredient reports whether any recipe ingredient matches the
// constraint token by bidirectional substring containment, so "chicken"
// matches "chicken breast" and vice versa.
func containsIngredient(normalized []string, token string) bool {
	if token == "" {
		return false
	}
	for _, name := range normalized {
		if recipe.NamesMatch(name, token) {
			return true
		}
	}
	return false
}
