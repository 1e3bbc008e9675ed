package ml

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/savorly/v1/internal/domain/recipe"
	"github.com/savorly/v1/pkg/errors"
)

func writeArtifact(t *testing.T, dir, name string, v interface{}) {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), raw, 0o644))
}

// writeBundle writes a consistent artifact set. The identity scaler and
// zero coefficients give a predictable raw output of the intercept.
func writeBundle(t *testing.T, dir string, moodIntercept, energyIntercept float64, moodLabels, energyLabels []string) {
	t.Helper()
	n := len(recipe.FeatureNames)

	mean := make([]float64, n)
	scale := make([]float64, n)
	coeffs := make([]float64, n)
	for i := range scale {
		scale[i] = 1
	}

	writeArtifact(t, dir, moodModelFile, linearModel{Coefficients: coeffs, Intercept: moodIntercept})
	writeArtifact(t, dir, energyModelFile, linearModel{Coefficients: coeffs, Intercept: energyIntercept})
	writeArtifact(t, dir, scalerFile, featureScaler{Mean: mean, Scale: scale})
	writeArtifact(t, dir, featureNamesFile, recipe.FeatureNames)
	writeArtifact(t, dir, moodLabelsFile, moodLabels)
	writeArtifact(t, dir, energyLabelsFile, energyLabels)
}

func testVector(quality recipe.DataQuality, completeness float64) recipe.FeatureVector {
	return recipe.FeatureVector{
		Values:       make([]float64, len(recipe.FeatureNames)),
		Completeness: completeness,
		Quality:      quality,
	}
}

func TestPredictorLoadsAndPredicts(t *testing.T) {
	dir := t.TempDir()
	writeBundle(t, dir, 1, 2, []string{"sad", "neutral", "happy"}, []string{"low burn", "normal burn", "energy burst"})

	p := NewPredictor(dir, zaptest.NewLogger(t))
	require.True(t, p.Available())

	mood, energy, err := p.Predict(testVector(recipe.QualityHigh, 1))
	require.NoError(t, err)

	assert.Equal(t, "neutral", mood.Label)
	assert.Equal(t, 1, mood.LabelIndex)
	assert.InDelta(t, 0.5, mood.Score, 1e-9)

	assert.Equal(t, "energy burst", energy.Label)
	assert.Equal(t, 2, energy.LabelIndex)
	assert.InDelta(t, 1.0, energy.Score, 1e-9)
}

func TestPredictorClipsOutOfRangeOutput(t *testing.T) {
	dir := t.TempDir()
	writeBundle(t, dir, -3, 17, []string{"sad", "neutral", "happy"}, []string{"low burn", "normal burn"})

	p := NewPredictor(dir, zaptest.NewLogger(t))

	mood, energy, err := p.Predict(testVector(recipe.QualityHigh, 1))
	require.NoError(t, err)

	assert.Equal(t, "sad", mood.Label)
	assert.Equal(t, 0, mood.LabelIndex)
	assert.Equal(t, "normal burn", energy.Label)
	assert.Equal(t, 1, energy.LabelIndex)
}

func TestPredictorSingleLabelScore(t *testing.T) {
	dir := t.TempDir()
	writeBundle(t, dir, 0, 0, []string{"only"}, []string{"only"})

	p := NewPredictor(dir, zaptest.NewLogger(t))

	mood, _, err := p.Predict(testVector(recipe.QualityHigh, 1))
	require.NoError(t, err)
	assert.InDelta(t, 0.5, mood.Score, 1e-9)
}

func TestPredictorConfidenceFromQuality(t *testing.T) {
	dir := t.TempDir()
	writeBundle(t, dir, 0, 0, []string{"sad", "happy"}, []string{"low", "high"})

	p := NewPredictor(dir, zaptest.NewLogger(t))

	mood, _, err := p.Predict(testVector(recipe.QualityHigh, 1))
	require.NoError(t, err)
	assert.Equal(t, 1.0, mood.Confidence)

	mood, _, err = p.Predict(testVector(recipe.QualityMedium, 0.5))
	require.NoError(t, err)
	assert.Equal(t, 0.5, mood.Confidence)

	mood, _, err = p.Predict(testVector(recipe.QualityLow, 0.1))
	require.NoError(t, err)
	assert.Equal(t, lowQualityConfidence, mood.Confidence)
}

func TestPredictorMissingArtifacts(t *testing.T) {
	p := NewPredictor(t.TempDir(), zaptest.NewLogger(t))

	assert.False(t, p.Available())

	_, _, err := p.Predict(testVector(recipe.QualityHigh, 1))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeModelUnavailable))
}

func TestPredictorLoadFailureLatches(t *testing.T) {
	dir := t.TempDir()
	p := NewPredictor(dir, zaptest.NewLogger(t))
	require.False(t, p.Available())

	// Artifacts appearing later do not help; the failed load is final.
	writeBundle(t, dir, 0, 0, []string{"sad", "happy"}, []string{"low", "high"})
	assert.False(t, p.Available())
}

func TestPredictorRejectsFeatureNameMismatch(t *testing.T) {
	dir := t.TempDir()
	writeBundle(t, dir, 0, 0, []string{"sad", "happy"}, []string{"low", "high"})

	names := make([]string, len(recipe.FeatureNames))
	copy(names, recipe.FeatureNames)
	names[0] = "renamed_column"
	writeArtifact(t, dir, featureNamesFile, names)

	p := NewPredictor(dir, zaptest.NewLogger(t))
	assert.False(t, p.Available())
}

func TestPredictorRejectsZeroScale(t *testing.T) {
	dir := t.TempDir()
	writeBundle(t, dir, 0, 0, []string{"sad", "happy"}, []string{"low", "high"})

	n := len(recipe.FeatureNames)
	writeArtifact(t, dir, scalerFile, featureScaler{Mean: make([]float64, n), Scale: make([]float64, n)})

	p := NewPredictor(dir, zaptest.NewLogger(t))
	assert.False(t, p.Available())
}

func TestPredictorRejectsWrongVectorLength(t *testing.T) {
	dir := t.TempDir()
	writeBundle(t, dir, 0, 0, []string{"sad", "happy"}, []string{"low", "high"})

	p := NewPredictor(dir, zaptest.NewLogger(t))

	_, _, err := p.Predict(recipe.FeatureVector{Values: []float64{1, 2, 3}})
	assert.Error(t, err)
}

func TestPredictorScalerApplied(t *testing.T) {
	dir := t.TempDir()
	n := len(recipe.FeatureNames)

	// First feature standardized as (v - 10) / 2 with coefficient 1:
	// input 14 scales to 2, predicting index 2.
	mean := make([]float64, n)
	scale := make([]float64, n)
	coeffs := make([]float64, n)
	for i := range scale {
		scale[i] = 1
	}
	mean[0] = 10
	scale[0] = 2
	coeffs[0] = 1

	writeArtifact(t, dir, moodModelFile, linearModel{Coefficients: coeffs})
	writeArtifact(t, dir, energyModelFile, linearModel{Coefficients: make([]float64, n)})
	writeArtifact(t, dir, scalerFile, featureScaler{Mean: mean, Scale: scale})
	writeArtifact(t, dir, featureNamesFile, recipe.FeatureNames)
	writeArtifact(t, dir, moodLabelsFile, []string{"a", "b", "c"})
	writeArtifact(t, dir, energyLabelsFile, []string{"a", "b"})

	p := NewPredictor(dir, zaptest.NewLogger(t))

	fv := testVector(recipe.QualityHigh, 1)
	fv.Values[0] = 14

	mood, _, err := p.Predict(fv)
	require.NoError(t, err)
	assert.Equal(t, 2, mood.LabelIndex)
	assert.Equal(t, "c", mood.Label)
}
