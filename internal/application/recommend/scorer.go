package recommend

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/savorly/v1/internal/application/nutrition"
	"github.com/savorly/v1/internal/domain/constraint"
	"github.com/savorly/v1/internal/domain/pantry"
	"github.com/savorly/v1/internal/domain/recipe"
	"github.com/savorly/v1/internal/ports/outbound"
	"github.com/savorly/v1/pkg/errors"
)

// Weights is the soft-score combination. The four weights must sum to 1.
type Weights struct {
	Coverage   float64 `mapstructure:"coverage" json:"coverage"`
	Expiring   float64 `mapstructure:"expiring" json:"expiring"`
	Nutrition  float64 `mapstructure:"nutrition" json:"nutrition"`
	MoodEnergy float64 `mapstructure:"mood_energy" json:"mood_energy"`
}

// DefaultWeights returns the standard combination.
func DefaultWeights() Weights {
	return Weights{Coverage: 0.30, Expiring: 0.25, Nutrition: 0.20, MoodEnergy: 0.25}
}

// Validate rejects weights that do not sum to 1 or are negative.
func (w Weights) Validate() error {
	if w.Coverage < 0 || w.Expiring < 0 || w.Nutrition < 0 || w.MoodEnergy < 0 {
		return errors.NewValidationError("scoring weights must be non-negative")
	}
	sum := w.Coverage + w.Expiring + w.Nutrition + w.MoodEnergy
	if math.Abs(sum-1) > 1e-9 {
		return errors.NewValidationError(fmt.Sprintf("scoring weights must sum to 1, got %v", sum))
	}
	return nil
}

// Map returns the weights keyed by subscore name, for response debug
// payloads.
func (w Weights) Map() map[string]float64 {
	return map[string]float64{
		"coverage":    w.Coverage,
		"expiring":    w.Expiring,
		"nutrition":   w.Nutrition,
		"mood_energy": w.MoodEnergy,
	}
}

// NutritionGoalTargets maps each goal to its gram or kcal threshold.
var NutritionGoalTargets = map[constraint.NutritionGoal]struct {
	Field  string
	Target float64
	High   bool // true when more is better
}{
	constraint.GoalHighProtein: {recipe.FieldProtein, 30, true},
	constraint.GoalLowCarb:     {recipe.FieldCarbs, 35, false},
	constraint.GoalLowCalorie:  {recipe.FieldCalories, 550, false},
}

// ScoreBreakdown is one scored candidate with every subscore and the
// material that explains it.
type ScoreBreakdown struct {
	Recipe *recipe.Recipe

	Final      float64
	Coverage   float64
	Expiring   float64
	Nutrition  float64
	MoodEnergy float64

	MatchedExpiring    []string
	MissingIngredients []string

	NutritionExplanation string
	MoodEnergyDetail     MoodEnergyResult

	Reason      string
	Explanation string
}

// Scorer computes soft scores for filtered candidates. It is stateless
// apart from its configuration and safe for concurrent use.
type Scorer struct {
	weights Weights
	model   outbound.MoodEnergyModel
	now     func() time.Time
}

// NewScorer builds a scorer. model may be nil; the mood/energy subscore
// then always uses heuristics. now defaults to time.Now.
func NewScorer(weights Weights, model outbound.MoodEnergyModel, now func() time.Time) *Scorer {
	if now == nil {
		now = time.Now
	}
	return &Scorer{weights: weights, model: model, now: now}
}

// Weights returns the configured score weights.
func (s *Scorer) Weights() Weights { return s.weights }

// Score computes the full breakdown for one candidate against a pantry
// snapshot. It is deterministic for fixed inputs and a fixed clock.
func (s *Scorer) Score(r *recipe.Recipe, snap pantry.Snapshot, c constraint.UserConstraints) ScoreBreakdown {
	b := ScoreBreakdown{Recipe: r}

	b.Coverage, b.MissingIngredients = s.coverage(r, snap)
	b.Expiring, b.MatchedExpiring = s.expiring(r, snap, c.ExpiringWindowDays)

	est := nutrition.Estimate(nutritionOf(r))
	b.Nutrition, b.NutritionExplanation = s.nutritionFit(est.Record, c.EffectiveGoal())
	b.MoodEnergyDetail = scoreMoodEnergy(s.model, r, est, c)
	b.MoodEnergy = b.MoodEnergyDetail.Score

	b.Final = s.weights.Coverage*b.Coverage +
		s.weights.Expiring*b.Expiring +
		s.weights.Nutrition*b.Nutrition +
		s.weights.MoodEnergy*b.MoodEnergy

	b.Reason = s.reason(r, c, b)
	b.Explanation = s.explanation(b)
	return b
}

// ScoreHeuristic scores a candidate with the model disabled, so the
// mood/energy subscore takes the heuristic path. The service uses it to
// keep a candidate in the batch after its primary scoring pass failed.
func (s *Scorer) ScoreHeuristic(r *recipe.Recipe, snap pantry.Snapshot, c constraint.UserConstraints) ScoreBreakdown {
	degraded := &Scorer{weights: s.weights, now: s.now}
	b := degraded.Score(r, snap, c)
	b.MoodEnergyDetail.MLReason = "scoring failed, heuristic fallback"
	return b
}

func nutritionOf(r *recipe.Recipe) recipe.NutritionRecord {
	if r.Nutrition == nil {
		return recipe.NutritionRecord{}
	}
	return *r.Nutrition
}

// coverage is the fraction of recipe ingredients present in the pantry,
// in [0, 1]. A recipe with no ingredients needs nothing, so it covers
// fully. The unmatched ingredient names come back as the shopping gap.
func (s *Scorer) coverage(r *recipe.Recipe, snap pantry.Snapshot) (float64, []string) {
	if len(r.Ingredients) == 0 {
		return 1.0, nil
	}
	have := 0
	var missing []string
	for i, norm := range r.NormalizedIngredients() {
		if _, ok := snap.Match(norm); ok {
			have++
		} else {
			missing = append(missing, r.Ingredients[i])
		}
	}
	return float64(have) / float64(len(r.Ingredients)), missing
}

// expiring weighs recipe ingredients by how soon their pantry match
// expires: full weight inside the window, half weight inside twice the
// window, nothing beyond. The sum is normalized by ingredient count and
// capped at 1.
func (s *Scorer) expiring(r *recipe.Recipe, snap pantry.Snapshot, windowDays int) (float64, []string) {
	if len(r.Ingredients) == 0 {
		return 0, nil
	}
	if windowDays <= 0 {
		windowDays = constraint.DefaultExpiringWindowDays
	}
	now := s.now()

	type expiringItem struct {
		name   string
		weight float64
	}
	var soon []expiringItem
	for _, item := range snap.Items() {
		days, ok := item.DaysUntilExpiry(now)
		if !ok || days < 0 {
			continue
		}
		switch {
		case days <= windowDays:
			soon = append(soon, expiringItem{recipe.NormalizeName(item.Name), 1.0})
		case days <= 2*windowDays:
			soon = append(soon, expiringItem{recipe.NormalizeName(item.Name), 0.5})
		}
	}
	if len(soon) == 0 {
		return 0, nil
	}

	total := 0.0
	var matched []string
	for _, ing := range r.NormalizedIngredients() {
		for _, item := range soon {
			if recipe.NamesMatch(ing, item.name) {
				total += item.weight
				matched = append(matched, item.name)
				break // each ingredient counts once
			}
		}
	}
	return math.Min(1.0, total/float64(len(r.Ingredients))), matched
}

// nutritionFit scores the goal macro linearly against its threshold:
// proportional distance from the target, clamped to [-1, 1]. No goal or
// no value for the goal macro scores neutral.
func (s *Scorer) nutritionFit(rec recipe.NutritionRecord, goal constraint.NutritionGoal) (float64, string) {
	target, ok := NutritionGoalTargets[goal]
	if !ok {
		return 0, ""
	}
	value := rec.Field(target.Field)
	if value == nil {
		return 0, fmt.Sprintf("no %s data for %s goal", target.Field, goal)
	}

	var score float64
	if target.High {
		score = clamp((*value-target.Target)/target.Target, -1, 1)
	} else {
		score = clamp((target.Target-*value)/target.Target, -1, 1)
	}

	var verdict string
	switch {
	case score > 0 && target.High:
		verdict = fmt.Sprintf("%s %.0f meets the %s goal of %.0f", target.Field, *value, goal, target.Target)
	case score > 0:
		verdict = fmt.Sprintf("%s %.0f is under the %s limit of %.0f", target.Field, *value, goal, target.Target)
	case target.High:
		verdict = fmt.Sprintf("%s %.0f is below the %s goal of %.0f", target.Field, *value, goal, target.Target)
	default:
		verdict = fmt.Sprintf("%s %.0f exceeds the %s limit of %.0f", target.Field, *value, goal, target.Target)
	}
	return score, verdict
}

// reason builds the one-line headline for a result.
func (s *Scorer) reason(r *recipe.Recipe, c constraint.UserConstraints, b ScoreBreakdown) string {
	var parts []string
	if b.Coverage >= 0.7 {
		parts = append(parts, fmt.Sprintf("has %d%% of ingredients", int(b.Coverage*100)))
	}
	if b.Expiring >= 0.3 {
		parts = append(parts, "uses expiring items")
	}
	if r.TimeMinutes > 0 {
		parts = append(parts, fmt.Sprintf("Quick (%d min)", r.TimeMinutes))
	}
	if len(r.DietTags) > 0 {
		parts = append(parts, r.DietTags[0])
	} else if len(c.DietTypes) > 0 {
		parts = append(parts, "Matching diet")
	}
	if b.Nutrition > 0 {
		parts = append(parts, "fits nutrition goal")
	}
	if b.MoodEnergy > 0 {
		parts = append(parts, "matches mood/energy")
	}
	if len(parts) == 0 {
		return "Good match"
	}
	return strings.Join(parts, ", ")
}

// explanation builds the longer, semicolon-joined detail string.
func (s *Scorer) explanation(b ScoreBreakdown) string {
	var parts []string
	if b.Coverage > 0 {
		parts = append(parts, fmt.Sprintf("Pantry coverage: %d%%", int(b.Coverage*100)))
	}
	if len(b.MatchedExpiring) > 0 {
		parts = append(parts, "Uses expiring: "+strings.Join(sortedUnique(b.MatchedExpiring), ", "))
	}
	if b.NutritionExplanation != "" {
		parts = append(parts, b.NutritionExplanation)
	}
	if b.MoodEnergyDetail.Explanation != "" {
		parts = append(parts, b.MoodEnergyDetail.Explanation)
	}
	return strings.Join(parts, "; ")
}

func sortedUnique(names []string) []string {
	seen := map[string]bool{}
	out := make([]string, 0, len(names))
	for _, n := range names {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	sort.Strings(out)
	return out
}
