package recommend

import (
	"fmt"
	"strings"

	"github.com/savorly/v1/internal/application/nutrition"
	"github.com/savorly/v1/internal/domain/constraint"
	"github.com/savorly/v1/internal/domain/recipe"
	"github.com/savorly/v1/internal/ports/outbound"
)

// MoodEnergyResult is the mood/energy alignment subscore in [-1, 1]
// plus the inputs that produced it.
type MoodEnergyResult struct {
	Score       float64
	Explanation string

	// MLUsed reports whether the classifier path produced the score.
	// MLReason says why it did not, when it did not.
	MLUsed   bool
	MLReason string

	Mood   *outbound.Prediction
	Energy *outbound.Prediction
}

// scoreMoodEnergy computes how well a recipe aligns with the requested
// mood and energy level. It prefers the frozen classifiers; when the
// model is unavailable, the nutrition record cannot support a
// prediction, or the prediction maps to no delta, it falls back to
// macro heuristics. It never fails: a recipe with no usable signal
// scores neutral.
func scoreMoodEnergy(model outbound.MoodEnergyModel, r *recipe.Recipe, est nutrition.Estimation, c constraint.UserConstraints) MoodEnergyResult {
	res := MoodEnergyResult{}
	var reasons []string

	switch {
	case model == nil || !model.Available():
		res.MLReason = "model unavailable"
	default:
		fv, err := est.FeatureVector()
		if err != nil {
			res.MLReason = "insufficient nutrition data"
			break
		}
		moodPred, energyPred, err := model.Predict(fv)
		if err != nil {
			res.MLReason = fmt.Sprintf("prediction failed: %v", err)
			break
		}
		res.MLUsed = true
		res.Mood = moodPred
		res.Energy = energyPred
		res.Score = applyPredictionDeltas(moodPred, energyPred, c, &reasons)
	}

	// The classifier path can legitimately produce zero when the
	// request carries no mood or energy, or when no delta applies.
	// Heuristics then get a chance, same as when ML was skipped.
	if !res.MLUsed || res.Score == 0 {
		res.Score += heuristicMoodEnergy(r, est.Record, c, &reasons)
	}

	res.Score = clamp(res.Score, -1, 1)
	if len(reasons) > 0 {
		res.Explanation = strings.Join(reasons, "; ")
	} else {
		res.Explanation = "Mood/energy neutral"
	}
	return res
}

// applyPredictionDeltas maps the predicted labels onto score deltas for
// the requested mood and energy, each weighted by the prediction's
// confidence. The delta table is a pinned contract, reconstructed from
// partial documentation and not derived from ground truth; the values
// here and in the tests are the canonical ones.
func applyPredictionDeltas(moodPred, energyPred *outbound.Prediction, c constraint.UserConstraints, reasons *[]string) float64 {
	score := 0.0

	if c.Mood != constraint.MoodUnset && moodPred != nil {
		label := strings.ToLower(moodPred.Label)
		conf := moodPred.Confidence
		switch c.Mood {
		case constraint.MoodComfort:
			switch label {
			case "happy":
				score += 0.5 * conf
				*reasons = append(*reasons, fmt.Sprintf("predicted %s mood (conf: %.0f%%)", label, conf*100))
			case "sad":
				score -= 0.3 * conf
				*reasons = append(*reasons, fmt.Sprintf("predicted %s mood, may not match comfort request", label))
			}
		case constraint.MoodLight:
			if label == "neutral" || label == "happy" {
				score += 0.3 * conf
				*reasons = append(*reasons, fmt.Sprintf("predicted %s mood, good for a light meal", label))
			}
		default:
			if label == "neutral" {
				score += 0.2 * conf
				*reasons = append(*reasons, "predicted neutral mood")
			}
		}
	}

	if c.Energy != constraint.EnergyUnset && energyPred != nil {
		label := strings.ToLower(energyPred.Label)
		conf := energyPred.Confidence
		switch c.Energy {
		case constraint.EnergyLow:
			if strings.Contains(label, "low") || strings.Contains(label, "normal") {
				score += 0.4 * conf
				*reasons = append(*reasons, fmt.Sprintf("predicted %s energy (conf: %.0f%%)", label, conf*100))
			} else {
				score -= 0.2 * conf
				*reasons = append(*reasons, fmt.Sprintf("predicted %s, may be too energizing", label))
			}
		case constraint.EnergyHigh:
			switch {
			case strings.Contains(label, "burst") || strings.Contains(label, "energy"):
				score += 0.5 * conf
				*reasons = append(*reasons, fmt.Sprintf("predicted %s (conf: %.0f%%)", label, conf*100))
			case strings.Contains(label, "normal"):
				score += 0.2 * conf
				*reasons = append(*reasons, fmt.Sprintf("predicted %s energy", label))
			case strings.Contains(label, "low"):
				score -= 0.2 * conf
				*reasons = append(*reasons, fmt.Sprintf("predicted %s energy, may not sustain high energy", label))
			}
		default:
			if strings.Contains(label, "normal") {
				score += 0.3 * conf
				*reasons = append(*reasons, fmt.Sprintf("predicted %s energy", label))
			}
		}
	}

	return score
}

// heuristicMoodEnergy scores mood/energy alignment from macros and prep
// time alone. Missing values simply skip their checks, except where a
// mood was explicitly requested and the recipe cannot demonstrate it.
func heuristicMoodEnergy(r *recipe.Recipe, rec recipe.NutritionRecord, c constraint.UserConstraints, reasons *[]string) float64 {
	score := 0.0

	switch c.Energy {
	case constraint.EnergyLow:
		if rec.Calories != nil && *rec.Calories <= 550 {
			score += 0.3
			*reasons = append(*reasons, "lighter on calories for low energy")
		}
		if r.TimeMinutes > 0 && r.TimeMinutes <= 30 {
			score += 0.1
			*reasons = append(*reasons, "quick prep for low energy")
		}
	case constraint.EnergyHigh:
		if rec.ProteinG != nil && *rec.ProteinG >= 25 {
			score += 0.3
			*reasons = append(*reasons, "higher protein for high energy")
		} else if rec.ProteinG != nil && *rec.ProteinG >= 15 {
			score += 0.1
			*reasons = append(*reasons, "moderate protein for energy")
		}
	}

	switch c.Mood {
	case constraint.MoodComfort:
		if rec.Calories != nil && *rec.Calories >= 650 {
			score += 0.3
			*reasons = append(*reasons, "comforting calories")
		} else {
			score -= 0.1
			*reasons = append(*reasons, "may be lighter than the comfort craving")
		}
	case constraint.MoodLight:
		if rec.Calories != nil && *rec.Calories <= 550 && (rec.FatG == nil || *rec.FatG <= 20) {
			score += 0.3
			*reasons = append(*reasons, "light profile")
		} else {
			score -= 0.1
			*reasons = append(*reasons, "may be heavier than the requested light mood")
		}
	case constraint.MoodFocus:
		if rec.ProteinG != nil && *rec.ProteinG >= 25 {
			score += 0.3
			*reasons = append(*reasons, "protein to support focus and recovery")
		} else {
			score -= 0.1
			*reasons = append(*reasons, "may need more protein for focus and recovery")
		}
	}

	return score
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
