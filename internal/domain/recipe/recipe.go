// Package recipe contains the core domain model for catalog recipes.
// Recipes are owned by the external catalog and treated as immutable
// snapshots once loaded; the recommendation engine only reads them.
package recipe

import "strings"

// Recipe represents a single catalog recipe.
type Recipe struct {
	ID          int64
	Title       string
	Ingredients []string
	TimeMinutes int
	DietTags    []string
	Nutrition   *NutritionRecord
}

// New creates a Recipe with validation.
func New(id int64, title string, ingredients []string, timeMinutes int) (*Recipe, error) {
	if strings.TrimSpace(title) == "" {
		return nil, ErrTitleRequired
	}
	if timeMinutes < 0 {
		return nil, ErrInvalidTime
	}

	clean := make([]string, 0, len(ingredients))
	for _, ing := range ingredients {
		if strings.TrimSpace(ing) != "" {
			clean = append(clean, ing)
		}
	}

	return &Recipe{
		ID:          id,
		Title:       title,
		Ingredients: clean,
		TimeMinutes: timeMinutes,
	}, nil
}

// NormalizeName lowercases and trims a name for consistent ingredient
// and pantry matching.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// NormalizedIngredients returns the recipe's ingredient names in
// normalized form, preserving catalog order.
func (r *Recipe) NormalizedIngredients() []string {
	out := make([]string, 0, len(r.Ingredients))
	for _, ing := range r.Ingredients {
		if n := NormalizeName(ing); n != "" {
			out = append(out, n)
		}
	}
	return out
}

// HasDietTag reports whether the recipe carries the given diet tag.
func (r *Recipe) HasDietTag(tag string) bool {
	want := NormalizeName(tag)
	for _, t := range r.DietTags {
		if NormalizeName(t) == want {
			return true
		}
	}
	return false
}

// NamesMatch reports whether two normalized ingredient-style names refer
// to the same item. Substring containment in either direction is accepted
// so that "diced chicken breast" matches a pantry item named "chicken".
func NamesMatch(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}
