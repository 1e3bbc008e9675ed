package recipe

// FeatureNames is the fixed, ordered feature list the mood/energy models
// were trained against: five base nutrition columns followed by nine
// engineered features. The order must never change without retraining;
// the artifact loader verifies its feature_names list matches exactly.
var FeatureNames = []string{
	"Calories",
	"Total Fat (g)",
	"Total Sugars (g)",
	"Carbohydrates (Carbs) (g)",
	"Protein (g)",
	"protein_to_carb_ratio",
	"fat_to_carb_ratio",
	"protein_pct",
	"carb_pct",
	"fat_pct",
	"sugar_to_total_carb",
	"sugar_load",
	"caloric_density",
	"protein_score",
}

// FeatureVector is an engineered feature set ready for model input, paired
// with the data-quality assessment of the record it was derived from.
type FeatureVector struct {
	// Values holds one value per FeatureNames entry, in that order.
	Values []float64

	Completeness float64
	Quality      DataQuality
}
