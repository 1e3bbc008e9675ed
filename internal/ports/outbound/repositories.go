// Package outbound defines the interfaces for outbound ports (secondary
// adapters). These are the interfaces the scoring engine uses to reach
// external collaborators: the recipe catalog, the pantry inventory, the
// cache, and the frozen mood/energy model artifacts.
package outbound

import (
	"context"
	"time"

	"github.com/savorly/v1/internal/domain/pantry"
	"github.com/savorly/v1/internal/domain/recipe"
)

// RecipeCatalog provides read access to the external recipe catalog.
// The engine never mutates recipes; it scores a point-in-time listing.
type RecipeCatalog interface {
	// ListRecipes returns every recipe in catalog order.
	ListRecipes(ctx context.Context) ([]*recipe.Recipe, error)

	// FindByID returns a single recipe, or nil when absent.
	FindByID(ctx context.Context, id int64) (*recipe.Recipe, error)
}

// CatalogWriter persists recipe updates, used by the nutrition import
// endpoint to attach imported records.
type CatalogWriter interface {
	Save(ctx context.Context, r *recipe.Recipe) error
}

// PantryRepository provides read access to the user's inventory.
type PantryRepository interface {
	// Snapshot returns a consistent read-only view of the pantry taken
	// at call time. The snapshot must not change mid-computation.
	Snapshot(ctx context.Context) (pantry.Snapshot, error)
}

// CacheRepository defines the caching operations the engine uses for
// short-lived recommendation response caching.
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Prediction is a single labeled, confidence-scored model output.
type Prediction struct {
	Label      string  `json:"label"`
	LabelIndex int     `json:"label_index"`
	Score      float64 `json:"score"`      // label_index / (num_classes - 1), in [0, 1]
	Confidence float64 `json:"confidence"` // derived from input data quality, in [0, 1]
}

// MoodEnergyModel wraps the frozen mood and energy classifiers plus
// their fitted feature scaler. Implementations are immutable after load
// and safe for concurrent use.
type MoodEnergyModel interface {
	// Predict runs both classifiers over an engineered feature vector.
	// Confidence on the returned predictions is a function of the
	// vector's data quality, not of classifier certainty.
	Predict(fv recipe.FeatureVector) (mood, energy *Prediction, err error)

	// Available reports whether the model artifacts loaded successfully.
	// A failed load is permanent until process restart.
	Available() bool
}
