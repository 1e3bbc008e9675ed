// Package testutils provides test data factories for consistent test data generation
package testutils

import (
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"

	"github.com/savorly/v1/internal/domain/pantry"
	"github.com/savorly/v1/internal/domain/recipe"
)

// Float returns a pointer to v, for optional nutrition fields.
func Float(v float64) *float64 {
	return &v
}

// RecipeBuilder provides a fluent interface for building test recipes
type RecipeBuilder struct {
	id          int64
	title       string
	ingredients []string
	timeMinutes int
	dietTags    []string
	nutrition   *recipe.NutritionRecord
}

// NewRecipeBuilder creates a new recipe builder with default values
func NewRecipeBuilder() *RecipeBuilder {
	faker := gofakeit.New(time.Now().UnixNano())

	return &RecipeBuilder{
		id:          faker.Int64(),
		title:       faker.Dinner(),
		ingredients: []string{"chicken", "rice", "olive oil"},
		timeMinutes: faker.Number(10, 60),
	}
}

// WithID sets the recipe ID
func (rb *RecipeBuilder) WithID(id int64) *RecipeBuilder {
	rb.id = id
	return rb
}

// WithTitle sets the recipe title
func (rb *RecipeBuilder) WithTitle(title string) *RecipeBuilder {
	rb.title = title
	return rb
}

// WithIngredients sets the ingredient list
func (rb *RecipeBuilder) WithIngredients(ingredients ...string) *RecipeBuilder {
	rb.ingredients = ingredients
	return rb
}

// WithTime sets the cooking time in minutes
func (rb *RecipeBuilder) WithTime(minutes int) *RecipeBuilder {
	rb.timeMinutes = minutes
	return rb
}

// WithDietTags sets the diet tags
func (rb *RecipeBuilder) WithDietTags(tags ...string) *RecipeBuilder {
	rb.dietTags = tags
	return rb
}

// WithNutrition attaches a nutrition record
func (rb *RecipeBuilder) WithNutrition(n *recipe.NutritionRecord) *RecipeBuilder {
	rb.nutrition = n
	return rb
}

// WithCalories attaches a nutrition record carrying only calories
func (rb *RecipeBuilder) WithCalories(calories float64) *RecipeBuilder {
	if rb.nutrition == nil {
		rb.nutrition = &recipe.NutritionRecord{}
	}
	rb.nutrition.Calories = Float(calories)
	return rb
}

// Build creates the recipe
func (rb *RecipeBuilder) Build() *recipe.Recipe {
	return &recipe.Recipe{
		ID:          rb.id,
		Title:       rb.title,
		Ingredients: rb.ingredients,
		TimeMinutes: rb.timeMinutes,
		DietTags:    rb.dietTags,
		Nutrition:   rb.nutrition,
	}
}

// PantryBuilder provides a fluent interface for building pantry items
type PantryBuilder struct {
	name       string
	quantity   float64
	expiration *time.Time
}

// NewPantryBuilder creates a pantry item builder with default values
func NewPantryBuilder(name string) *PantryBuilder {
	return &PantryBuilder{name: name, quantity: 1}
}

// WithQuantity sets the quantity
func (pb *PantryBuilder) WithQuantity(q float64) *PantryBuilder {
	pb.quantity = q
	return pb
}

// ExpiringIn sets the expiration date relative to now
func (pb *PantryBuilder) ExpiringIn(days int) *PantryBuilder {
	t := time.Now().AddDate(0, 0, days)
	pb.expiration = &t
	return pb
}

// ExpiringAt sets an absolute expiration date
func (pb *PantryBuilder) ExpiringAt(t time.Time) *PantryBuilder {
	pb.expiration = &t
	return pb
}

// Build creates the pantry item
func (pb *PantryBuilder) Build() pantry.Item {
	return pantry.Item{
		ID:         uuid.New(),
		Name:       pb.name,
		Quantity:   pb.quantity,
		Expiration: pb.expiration,
	}
}

// Pantry builds a snapshot from item names with no expirations.
func Pantry(names ...string) pantry.Snapshot {
	items := make([]pantry.Item, 0, len(names))
	for _, n := range names {
		items = append(items, NewPantryBuilder(n).Build())
	}
	return pantry.NewSnapshot(items)
}

// FullNutrition returns a record with every tracked field supplied.
func FullNutrition(calories, protein, carbs, fat, sugar, fiber float64) *recipe.NutritionRecord {
	return &recipe.NutritionRecord{
		Calories: Float(calories),
		ProteinG: Float(protein),
		CarbsG:   Float(carbs),
		FatG:     Float(fat),
		SugarG:   Float(sugar),
		FiberG:   Float(fiber),
	}
}
