// Package ml loads the frozen mood/energy classifier artifacts and runs
// predictions over engineered nutrition feature vectors.
package ml

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/savorly/v1/internal/domain/recipe"
)

// Artifact file names inside the model directory. The bundle is exported
// from the training pipeline as plain JSON.
const (
	moodModelFile    = "mood_model.json"
	energyModelFile  = "energy_model.json"
	scalerFile       = "feature_scaler.json"
	featureNamesFile = "feature_names.json"
	moodLabelsFile   = "mood_labels.json"
	energyLabelsFile = "energy_labels.json"
)

// linearModel is an ordinal regression head: one coefficient per
// feature plus an intercept. The rounded, clipped output indexes the
// label list.
type linearModel struct {
	Coefficients []float64 `json:"coefficients"`
	Intercept    float64   `json:"intercept"`
}

// featureScaler holds the standardization fitted at training time.
type featureScaler struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

func (s featureScaler) transform(values []float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = (v - s.Mean[i]) / s.Scale[i]
	}
	return out
}

// artifactBundle is a fully validated, immutable model bundle.
type artifactBundle struct {
	moodModel    linearModel
	energyModel  linearModel
	scaler       featureScaler
	featureNames []string
	moodLabels   []string
	energyLabels []string
}

// loadBundle reads and validates every artifact. Any inconsistency, a
// feature-name mismatch included, fails the whole load: a half-loaded
// bundle must never serve predictions.
func loadBundle(dir string) (*artifactBundle, error) {
	b := &artifactBundle{}

	if err := readJSON(dir, moodModelFile, &b.moodModel); err != nil {
		return nil, err
	}
	if err := readJSON(dir, energyModelFile, &b.energyModel); err != nil {
		return nil, err
	}
	if err := readJSON(dir, scalerFile, &b.scaler); err != nil {
		return nil, err
	}
	if err := readJSON(dir, featureNamesFile, &b.featureNames); err != nil {
		return nil, err
	}
	if err := readJSON(dir, moodLabelsFile, &b.moodLabels); err != nil {
		return nil, err
	}
	if err := readJSON(dir, energyLabelsFile, &b.energyLabels); err != nil {
		return nil, err
	}

	if err := b.validate(); err != nil {
		return nil, err
	}
	return b, nil
}

func readJSON(dir, name string, v interface{}) error {
	raw, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return fmt.Errorf("read artifact %s: %w", name, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode artifact %s: %w", name, err)
	}
	return nil
}

func (b *artifactBundle) validate() error {
	n := len(recipe.FeatureNames)
	if len(b.featureNames) != n {
		return fmt.Errorf("artifact bundle has %d feature names, engine expects %d", len(b.featureNames), n)
	}
	for i, name := range b.featureNames {
		if name != recipe.FeatureNames[i] {
			return fmt.Errorf("feature %d is %q in artifacts but %q in engine", i, name, recipe.FeatureNames[i])
		}
	}
	if len(b.scaler.Mean) != n || len(b.scaler.Scale) != n {
		return fmt.Errorf("scaler dimensions %d/%d do not match %d features", len(b.scaler.Mean), len(b.scaler.Scale), n)
	}
	for i, s := range b.scaler.Scale {
		if s == 0 {
			return fmt.Errorf("scaler has zero scale for feature %q", b.featureNames[i])
		}
	}
	if len(b.moodModel.Coefficients) != n || len(b.energyModel.Coefficients) != n {
		return fmt.Errorf("model coefficient counts %d/%d do not match %d features",
			len(b.moodModel.Coefficients), len(b.energyModel.Coefficients), n)
	}
	if len(b.moodLabels) == 0 || len(b.energyLabels) == 0 {
		return fmt.Errorf("label lists must not be empty")
	}
	return nil
}
