package recipe

import "sort"

// Canonical nutrition field names. External import shapes are normalized
// to these before anything downstream sees them.
const (
	FieldCalories = "calories"
	FieldProtein  = "protein_g"
	FieldCarbs    = "carbs_g"
	FieldFat      = "fat_g"
	FieldSugar    = "sugar_g"
	FieldFiber    = "fiber_g"
	FieldSodium   = "sodium_mg"
)

// TrackedFields are the fields that count toward completeness. Sodium is
// carried on the record but plays no role in estimation or prediction.
var TrackedFields = []string{
	FieldCalories, FieldProtein, FieldCarbs, FieldFat, FieldSugar, FieldFiber,
}

// NutritionRecord is the canonical nutrition value set. Every field is
// optional; nil means the source did not supply it.
type NutritionRecord struct {
	Calories *float64
	ProteinG *float64
	CarbsG   *float64
	FatG     *float64
	SugarG   *float64
	FiberG   *float64
	SodiumMG *float64
}

// Field returns the value pointer for a canonical field name.
func (n *NutritionRecord) Field(name string) *float64 {
	switch name {
	case FieldCalories:
		return n.Calories
	case FieldProtein:
		return n.ProteinG
	case FieldCarbs:
		return n.CarbsG
	case FieldFat:
		return n.FatG
	case FieldSugar:
		return n.SugarG
	case FieldFiber:
		return n.FiberG
	case FieldSodium:
		return n.SodiumMG
	}
	return nil
}

// SetField writes a value for a canonical field name.
func (n *NutritionRecord) SetField(name string, value float64) {
	v := value
	switch name {
	case FieldCalories:
		n.Calories = &v
	case FieldProtein:
		n.ProteinG = &v
	case FieldCarbs:
		n.CarbsG = &v
	case FieldFat:
		n.FatG = &v
	case FieldSugar:
		n.SugarG = &v
	case FieldFiber:
		n.FiberG = &v
	case FieldSodium:
		n.SodiumMG = &v
	}
}

// KnownFields returns the tracked fields that carry a value, sorted.
func (n *NutritionRecord) KnownFields() []string {
	var known []string
	for _, f := range TrackedFields {
		if n.Field(f) != nil {
			known = append(known, f)
		}
	}
	sort.Strings(known)
	return known
}

// Completeness is the ratio of tracked fields that carry a value, in [0, 1].
func (n *NutritionRecord) Completeness() float64 {
	return float64(len(n.KnownFields())) / float64(len(TrackedFields))
}

// DataQuality classifies how much of a nutrition record was supplied
// versus estimated.
type DataQuality string

const (
	QualityHigh   DataQuality = "high"
	QualityMedium DataQuality = "medium"
	QualityLow    DataQuality = "low"
)

// QualityForCompleteness maps a completeness ratio to a quality tier.
func QualityForCompleteness(completeness float64) DataQuality {
	switch {
	case completeness >= 0.8:
		return QualityHigh
	case completeness >= 0.4:
		return QualityMedium
	default:
		return QualityLow
	}
}
