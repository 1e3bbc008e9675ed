package ml

import (
	"math"
	"sync"

	"go.uber.org/zap"

	"github.com/savorly/v1/internal/domain/recipe"
	"github.com/savorly/v1/internal/ports/outbound"
	"github.com/savorly/v1/pkg/errors"
)

// lowQualityConfidence is the floor confidence assigned when most of a
// record was estimated rather than measured.
const lowQualityConfidence = 0.2

// Predictor runs the frozen mood and energy classifiers. Artifacts load
// lazily on first use; a failed load latches until process restart so a
// broken bundle degrades every request to heuristics instead of
// retrying disk reads on the hot path.
type Predictor struct {
	dir    string
	logger *zap.Logger

	once    sync.Once
	bundle  *artifactBundle
	loadErr error
}

// NewPredictor creates a predictor reading artifacts from dir.
func NewPredictor(dir string, logger *zap.Logger) *Predictor {
	return &Predictor{dir: dir, logger: logger.Named("mood-energy-model")}
}

func (p *Predictor) load() {
	p.once.Do(func() {
		bundle, err := loadBundle(p.dir)
		if err != nil {
			p.loadErr = err
			p.logger.Error("model artifacts failed to load, predictions disabled until restart",
				zap.String("dir", p.dir),
				zap.Error(err),
			)
			return
		}
		p.bundle = bundle
		p.logger.Info("model artifacts loaded",
			zap.String("dir", p.dir),
			zap.Int("features", len(bundle.featureNames)),
			zap.Strings("mood_labels", bundle.moodLabels),
			zap.Strings("energy_labels", bundle.energyLabels),
		)
	})
}

// Available reports whether the bundle loaded. It triggers the load on
// first call.
func (p *Predictor) Available() bool {
	p.load()
	return p.loadErr == nil
}

// Predict scales the feature vector and runs both ordinal heads.
func (p *Predictor) Predict(fv recipe.FeatureVector) (mood, energy *outbound.Prediction, err error) {
	p.load()
	if p.loadErr != nil {
		return nil, nil, errors.NewModelUnavailableError(p.loadErr)
	}
	if len(fv.Values) != len(p.bundle.featureNames) {
		return nil, nil, errors.NewValidationError("feature vector length does not match model")
	}

	scaled := p.bundle.scaler.transform(fv.Values)
	confidence := confidenceFor(fv)

	mood = predictOrdinal(p.bundle.moodModel, scaled, p.bundle.moodLabels, confidence)
	energy = predictOrdinal(p.bundle.energyModel, scaled, p.bundle.energyLabels, confidence)
	return mood, energy, nil
}

// predictOrdinal evaluates one linear head and maps the rounded output
// onto the label list.
func predictOrdinal(m linearModel, scaled []float64, labels []string, confidence float64) *outbound.Prediction {
	raw := m.Intercept
	for i, c := range m.Coefficients {
		raw += c * scaled[i]
	}

	idx := int(math.Round(raw))
	if idx < 0 {
		idx = 0
	}
	if idx > len(labels)-1 {
		idx = len(labels) - 1
	}

	score := 0.5
	if len(labels) > 1 {
		score = float64(idx) / float64(len(labels)-1)
	}

	return &outbound.Prediction{
		Label:      labels[idx],
		LabelIndex: idx,
		Score:      score,
		Confidence: confidence,
	}
}

// confidenceFor derives prediction confidence from input data quality:
// fully measured records get full confidence, partly estimated ones
// their completeness ratio, mostly estimated ones a fixed floor.
func confidenceFor(fv recipe.FeatureVector) float64 {
	switch fv.Quality {
	case recipe.QualityHigh:
		return 1.0
	case recipe.QualityMedium:
		return fv.Completeness
	default:
		return lowQualityConfidence
	}
}
