// Package gorm provides GORM model definitions and repositories for the
// recipe catalog and pantry inventory.
package gorm

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/savorly/v1/internal/domain/pantry"
	"github.com/savorly/v1/internal/domain/recipe"
)

// StringSlice is a JSON-encoded string slice column.
type StringSlice []string

// Value implements driver.Valuer
func (s StringSlice) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	data, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements sql.Scanner
func (s *StringSlice) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}
	switch v := value.(type) {
	case string:
		return json.Unmarshal([]byte(v), s)
	case []byte:
		return json.Unmarshal(v, s)
	default:
		return fmt.Errorf("cannot scan %T into StringSlice", value)
	}
}

// RecipeModel represents the GORM model for catalog recipes.
type RecipeModel struct {
	ID          int64       `gorm:"primaryKey"`
	Title       string      `gorm:"type:varchar(255);not null;index"`
	TimeMinutes int         `gorm:"not null;default:0"`
	Ingredients StringSlice `gorm:"type:json"`
	DietTags    StringSlice `gorm:"type:json"`

	Calories *float64
	ProteinG *float64
	CarbsG   *float64
	FatG     *float64
	SugarG   *float64
	FiberG   *float64
	SodiumMg *float64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName overrides the table name
func (RecipeModel) TableName() string {
	return "recipes"
}

// ToDomain converts the model to its domain form.
func (m *RecipeModel) ToDomain() *recipe.Recipe {
	r := &recipe.Recipe{
		ID:          m.ID,
		Title:       m.Title,
		Ingredients: m.Ingredients,
		TimeMinutes: m.TimeMinutes,
		DietTags:    m.DietTags,
	}
	rec := recipe.NutritionRecord{
		Calories: m.Calories,
		ProteinG: m.ProteinG,
		CarbsG:   m.CarbsG,
		FatG:     m.FatG,
		SugarG:   m.SugarG,
		FiberG:   m.FiberG,
		SodiumMG: m.SodiumMg,
	}
	if rec.Completeness() > 0 || m.SodiumMg != nil {
		r.Nutrition = &rec
	}
	return r
}

// RecipeToModel converts a domain recipe to its persistence form.
func RecipeToModel(r *recipe.Recipe) *RecipeModel {
	m := &RecipeModel{
		ID:          r.ID,
		Title:       r.Title,
		TimeMinutes: r.TimeMinutes,
		Ingredients: StringSlice(r.Ingredients),
		DietTags:    StringSlice(r.DietTags),
	}
	if r.Nutrition != nil {
		m.Calories = r.Nutrition.Calories
		m.ProteinG = r.Nutrition.ProteinG
		m.CarbsG = r.Nutrition.CarbsG
		m.FatG = r.Nutrition.FatG
		m.SugarG = r.Nutrition.SugarG
		m.FiberG = r.Nutrition.FiberG
		m.SodiumMg = r.Nutrition.SodiumMG
	}
	return m
}

// PantryItemModel represents the GORM model for pantry items.
type PantryItemModel struct {
	ID         uuid.UUID `gorm:"type:char(36);primaryKey"`
	Name       string    `gorm:"type:varchar(255);not null;index"`
	Quantity   float64   `gorm:"not null;default:0"`
	Expiration *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName overrides the table name
func (PantryItemModel) TableName() string {
	return "pantry_items"
}

// ToDomain converts the model to its domain form.
func (m *PantryItemModel) ToDomain() pantry.Item {
	return pantry.Item{
		ID:         m.ID,
		Name:       m.Name,
		Quantity:   m.Quantity,
		Expiration: m.Expiration,
	}
}

// PantryItemToModel converts a domain item to its persistence form.
func PantryItemToModel(it pantry.Item) *PantryItemModel {
	return &PantryItemModel{
		ID:         it.ID,
		Name:       it.Name,
		Quantity:   it.Quantity,
		Expiration: it.Expiration,
	}
}
