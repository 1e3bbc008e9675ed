// Package nutrition adapts third-party nutrition payloads onto the
// engine's canonical record. Each supported source has its own wire
// shape; the adapters normalize all of them without failing on missing
// fields.
package nutrition

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/savorly/v1/internal/domain/recipe"
	"github.com/savorly/v1/pkg/errors"
)

// Supported import sources.
const (
	SourceGeneric     = "generic"
	SourceSpoonacular = "spoonacular"
	SourceEdamam      = "edamam"
	SourceUSDA        = "usda"
)

// ParseRecord normalizes a raw payload from the named source. Unknown
// sources and undecodable payloads fail with a malformed-import error;
// a decodable payload with missing fields succeeds and simply yields a
// sparser record.
func ParseRecord(source string, raw []byte) (recipe.NutritionRecord, error) {
	switch strings.ToLower(strings.TrimSpace(source)) {
	case SourceSpoonacular:
		return parseSpoonacular(source, raw)
	case SourceEdamam:
		return parseEdamam(source, raw)
	case SourceUSDA:
		return parseUSDA(source, raw)
	case SourceGeneric, "":
		return parseGeneric(source, raw)
	default:
		return recipe.NutritionRecord{}, errors.NewMalformedImportSourceError(source,
			fmt.Sprintf("unknown import source %q", source))
	}
}

func decode(source string, raw []byte, v interface{}) error {
	if err := json.Unmarshal(raw, v); err != nil {
		return errors.NewMalformedImportSourceError(source, err.Error())
	}
	return nil
}

// parseSpoonacular reads the nutrition.nutrients array, matching
// nutrients by name fragments.
func parseSpoonacular(source string, raw []byte) (recipe.NutritionRecord, error) {
	var payload struct {
		Nutrition struct {
			Nutrients []struct {
				Name   string   `json:"name"`
				Amount *float64 `json:"amount"`
			} `json:"nutrients"`
		} `json:"nutrition"`
	}
	var rec recipe.NutritionRecord
	if err := decode(source, raw, &payload); err != nil {
		return rec, err
	}

	for _, n := range payload.Nutrition.Nutrients {
		if n.Amount == nil {
			continue
		}
		name := strings.ToLower(n.Name)
		switch {
		case strings.Contains(name, "calorie"):
			rec.Calories = n.Amount
		case strings.Contains(name, "protein"):
			rec.ProteinG = n.Amount
		case strings.Contains(name, "carbohydrate"):
			rec.CarbsG = n.Amount
		case strings.Contains(name, "fat") && !strings.Contains(name, "saturated"):
			rec.FatG = n.Amount
		case strings.Contains(name, "sugar"):
			rec.SugarG = n.Amount
		case strings.Contains(name, "fiber"):
			rec.FiberG = n.Amount
		case strings.Contains(name, "sodium"):
			rec.SodiumMG = n.Amount
		}
	}
	return rec, nil
}

// parseEdamam reads the totalNutrients map keyed by nutrient codes.
func parseEdamam(source string, raw []byte) (recipe.NutritionRecord, error) {
	var payload struct {
		TotalNutrients map[string]struct {
			Quantity *float64 `json:"quantity"`
		} `json:"totalNutrients"`
	}
	var rec recipe.NutritionRecord
	if err := decode(source, raw, &payload); err != nil {
		return rec, err
	}

	get := func(code string) *float64 {
		if n, ok := payload.TotalNutrients[code]; ok {
			return n.Quantity
		}
		return nil
	}
	rec.Calories = get("ENERC_KCAL")
	rec.ProteinG = get("PROCNT")
	rec.CarbsG = get("CHOCDF")
	rec.FatG = get("FAT")
	rec.SugarG = get("SUGAR")
	rec.FiberG = get("FIBTG")
	rec.SodiumMG = get("NA")
	return rec, nil
}

// parseUSDA reads the FoodData Central foodNutrients array.
func parseUSDA(source string, raw []byte) (recipe.NutritionRecord, error) {
	var payload struct {
		FoodNutrients []struct {
			Nutrient struct {
				Name string `json:"name"`
			} `json:"nutrient"`
			Amount *float64 `json:"amount"`
		} `json:"foodNutrients"`
	}
	var rec recipe.NutritionRecord
	if err := decode(source, raw, &payload); err != nil {
		return rec, err
	}

	for _, n := range payload.FoodNutrients {
		if n.Amount == nil {
			continue
		}
		name := strings.ToLower(n.Nutrient.Name)
		switch {
		case strings.Contains(name, "energy"):
			rec.Calories = n.Amount
		case strings.Contains(name, "protein"):
			rec.ProteinG = n.Amount
		case strings.Contains(name, "carbohydrate") && strings.Contains(name, "by difference"):
			rec.CarbsG = n.Amount
		case strings.Contains(name, "total lipid") || strings.Contains(name, "fat"):
			rec.FatG = n.Amount
		case strings.Contains(name, "sugars, total"):
			rec.SugarG = n.Amount
		case strings.Contains(name, "fiber"):
			rec.FiberG = n.Amount
		case strings.Contains(name, "sodium"):
			rec.SodiumMG = n.Amount
		}
	}
	return rec, nil
}

// Generic flat payloads come with many field naming conventions; each
// canonical field tries its aliases in order.
var genericAliases = map[string][]string{
	recipe.FieldCalories: {"calories", "energy", "kcal", "calorie"},
	recipe.FieldProtein:  {"protein", "protein_g", "proteins"},
	recipe.FieldCarbs:    {"carbs", "carbohydrates", "carbs_g", "carb", "carbohydrate"},
	recipe.FieldFat:      {"fat", "total_fat", "fat_g", "fats"},
	recipe.FieldSugar:    {"sugar", "sugars", "sugar_g", "total_sugar"},
	recipe.FieldFiber:    {"fiber", "dietary_fiber", "fiber_g", "fibre"},
	recipe.FieldSodium:   {"sodium", "sodium_mg", "salt"},
}

func parseGeneric(source string, raw []byte) (recipe.NutritionRecord, error) {
	// The payload may carry arbitrary non-numeric fields alongside the
	// nutrition ones, so each candidate decodes individually.
	var payload map[string]json.RawMessage
	var rec recipe.NutritionRecord
	if err := decode(source, raw, &payload); err != nil {
		return rec, err
	}

	for field, aliases := range genericAliases {
		for _, alias := range aliases {
			v, ok := payload[alias]
			if !ok {
				continue
			}
			var num float64
			if err := json.Unmarshal(v, &num); err != nil {
				continue
			}
			rec.SetField(field, num)
			break
		}
	}
	return rec, nil
}
