// Package inbound defines the interfaces for inbound ports (primary
// adapters). This is what HTTP handlers and other driving adapters call.
package inbound

import (
	"context"

	"github.com/savorly/v1/internal/domain/constraint"
	"github.com/savorly/v1/internal/ports/outbound"
)

// RecommendationService is the primary port of the scoring engine.
type RecommendationService interface {
	// Recommend parses or maps constraints, filters the catalog, scores
	// every surviving candidate, and returns the top-k ranked results.
	Recommend(ctx context.Context, cmd RecommendCommand) (*RecommendationList, error)

	// ParseConstraints exposes the free-text constraint parser. It is a
	// total function: unparseable text yields defaulted constraints.
	ParseConstraints(text string) constraint.UserConstraints
}

// RecommendCommand is the request boundary accepted by the engine.
// Either Text or Constraints may be supplied; structured constraints
// take precedence when both are present.
type RecommendCommand struct {
	Text        string
	Constraints *ConstraintsCommand
	TopK        int
}

// ConstraintsCommand is the structured alternative to free text.
type ConstraintsCommand struct {
	DietTypes          []string
	IncludeIngredients []string
	ExcludeIngredients []string
	MaxTimeMinutes     *int
	Mood               string
	Energy             string
	NutritionGoal      string
	ExpiringWindowDays *int
}

// RecommendationList is the ranked response.
type RecommendationList struct {
	Recommendations []RecommendationDTO           `json:"recommendations"`
	Constraints     constraint.UserConstraints    `json:"-"`
	Total           int                           `json:"total"`
}

// RecommendationDTO is one ranked, explained result.
type RecommendationDTO struct {
	RecipeID           int64          `json:"recipe_id"`
	Title              string         `json:"title"`
	TimeMinutes        int            `json:"time_minutes"`
	FinalScore         float64        `json:"final_score"`
	Reason             string         `json:"reason"`
	Explanation        string         `json:"explanation"`
	MissingIngredients []string       `json:"missing_ingredients"`
	Debug              ScoreDebugDTO  `json:"debug"`
}

// ScoreDebugDTO carries the per-recipe scoring internals.
type ScoreDebugDTO struct {
	Coverage        float64              `json:"coverage"`
	Expiring        float64              `json:"expiring"`
	Nutrition       float64              `json:"nutrition"`
	MoodEnergy      float64              `json:"mood_energy"`
	Weights         map[string]float64   `json:"weights"`
	MatchedExpiring []string             `json:"matched_expiring"`
	MLUsed          bool                 `json:"ml_used"`
	MLReason        string               `json:"ml_reason,omitempty"`
	MoodPrediction  *outbound.Prediction `json:"mood_prediction,omitempty"`
	EnergyPredict   *outbound.Prediction `json:"energy_prediction,omitempty"`
}
