// Package seed provides the built-in demo catalog and pantry used when a
// fresh database comes up empty or the memory driver is selected.
package seed

import (
	"time"

	"github.com/google/uuid"

	"github.com/savorly/v1/internal/domain/pantry"
	"github.com/savorly/v1/internal/domain/recipe"
)

func f(v float64) *float64 { return &v }

// Recipes returns the demo catalog. IDs are stable so that clients and
// tests can reference individual recipes.
func Recipes() []*recipe.Recipe {
	return []*recipe.Recipe{
		{
			ID:          1,
			Title:       "Spinach Omelette",
			Ingredients: []string{"eggs", "spinach", "olive oil", "salt", "black pepper"},
			TimeMinutes: 15,
			DietTags:    []string{"vegetarian"},
			Nutrition: &recipe.NutritionRecord{
				Calories: f(320),
				ProteinG: f(21),
				CarbsG:   f(4),
				FatG:     f(24),
			},
		},
		{
			ID:          2,
			Title:       "Garlic Butter Salmon",
			Ingredients: []string{"salmon", "garlic", "butter", "lemon", "salt", "black pepper"},
			TimeMinutes: 25,
			DietTags:    []string{"pescatarian"},
			Nutrition: &recipe.NutritionRecord{
				Calories: f(480),
				ProteinG: f(38),
				CarbsG:   f(3),
				FatG:     f(34),
			},
		},
		{
			ID:          3,
			Title:       "Simple Pasta with Tomato Sauce",
			Ingredients: []string{"dried pasta", "olive oil", "garlic", "pasta sauce", "salt"},
			TimeMinutes: 20,
			DietTags:    []string{"vegan", "vegetarian"},
			Nutrition: &recipe.NutritionRecord{
				Calories: f(540),
				ProteinG: f(14),
				CarbsG:   f(92),
				FatG:     f(12),
			},
		},
		{
			ID:          4,
			Title:       "Fried Rice (Pantry Style)",
			Ingredients: []string{"rice", "eggs", "soy sauce", "vegetable oil", "frozen peas and carrots"},
			TimeMinutes: 20,
			DietTags:    []string{"vegetarian"},
			Nutrition: &recipe.NutritionRecord{
				Calories: f(610),
				ProteinG: f(16),
				CarbsG:   f(88),
				FatG:     f(20),
			},
		},
		{
			ID:          5,
			Title:       "Grilled Chicken Salad",
			Ingredients: []string{"chicken breast", "lettuce", "tomato", "cucumber", "olive oil", "lemon"},
			TimeMinutes: 25,
			DietTags:    []string{"gluten-free"},
			Nutrition: &recipe.NutritionRecord{
				Calories: f(380),
				ProteinG: f(36),
				CarbsG:   f(10),
				FatG:     f(21),
			},
		},
		{
			ID:          6,
			Title:       "Lentil Soup",
			Ingredients: []string{"lentils", "onion", "carrot", "celery", "garlic", "vegetable broth"},
			TimeMinutes: 45,
			DietTags:    []string{"vegan", "vegetarian", "gluten-free"},
			Nutrition: &recipe.NutritionRecord{
				Calories: f(340),
				ProteinG: f(18),
				CarbsG:   f(52),
				FatG:     f(6),
			},
		},
	}
}

// PantryItems returns the demo pantry. Expirations are relative to now so
// the expiring-soon scoring path stays exercised.
func PantryItems(now time.Time) []pantry.Item {
	in := func(days int) *time.Time {
		t := now.AddDate(0, 0, days)
		return &t
	}
	return []pantry.Item{
		{ID: uuid.New(), Name: "eggs", Quantity: 12, Expiration: in(10)},
		{ID: uuid.New(), Name: "spinach", Quantity: 1, Expiration: in(2)},
		{ID: uuid.New(), Name: "olive oil", Quantity: 1},
		{ID: uuid.New(), Name: "salt", Quantity: 1},
		{ID: uuid.New(), Name: "garlic", Quantity: 3},
		{ID: uuid.New(), Name: "salmon", Quantity: 2, Expiration: in(1)},
		{ID: uuid.New(), Name: "butter", Quantity: 1, Expiration: in(30)},
		{ID: uuid.New(), Name: "rice", Quantity: 1},
		{ID: uuid.New(), Name: "soy sauce", Quantity: 1},
		{ID: uuid.New(), Name: "lettuce", Quantity: 1, Expiration: in(4)},
		{ID: uuid.New(), Name: "chicken breast", Quantity: 2, Expiration: in(2)},
		{ID: uuid.New(), Name: "lentils", Quantity: 1},
	}
}
