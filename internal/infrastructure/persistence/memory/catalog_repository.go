package memory

import (
	"context"
	"sync"

	"github.com/savorly/v1/internal/domain/pantry"
	"github.com/savorly/v1/internal/domain/recipe"
	"github.com/savorly/v1/internal/ports/outbound"
)

// CatalogRepository is an in-memory recipe catalog. Recipes keep their
// seed order, which is also the deterministic tie-break order for
// equal-scored results.
type CatalogRepository struct {
	mutex   sync.RWMutex
	recipes []*recipe.Recipe
}

// NewCatalogRepository creates a catalog seeded with the given recipes.
func NewCatalogRepository(recipes []*recipe.Recipe) *CatalogRepository {
	repo := &CatalogRepository{}
	repo.Seed(recipes)
	return repo
}

// Seed replaces the catalog contents.
func (r *CatalogRepository) Seed(recipes []*recipe.Recipe) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.recipes = make([]*recipe.Recipe, len(recipes))
	copy(r.recipes, recipes)
}

// ListRecipes returns every recipe in catalog order.
func (r *CatalogRepository) ListRecipes(ctx context.Context) ([]*recipe.Recipe, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	out := make([]*recipe.Recipe, len(r.recipes))
	copy(out, r.recipes)
	return out, nil
}

// FindByID returns the recipe with the given ID, or nil when absent.
func (r *CatalogRepository) FindByID(ctx context.Context, id int64) (*recipe.Recipe, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	for _, rec := range r.recipes {
		if rec.ID == id {
			return rec, nil
		}
	}
	return nil, nil
}

// Save upserts one recipe, keeping catalog order for existing IDs and
// appending new ones.
func (r *CatalogRepository) Save(ctx context.Context, rec *recipe.Recipe) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	for i, existing := range r.recipes {
		if existing.ID == rec.ID {
			r.recipes[i] = rec
			return nil
		}
	}
	r.recipes = append(r.recipes, rec)
	return nil
}

// PantryRepository is an in-memory pantry inventory.
type PantryRepository struct {
	mutex sync.RWMutex
	items []pantry.Item
}

// NewPantryRepository creates a pantry seeded with the given items.
func NewPantryRepository(items []pantry.Item) *PantryRepository {
	repo := &PantryRepository{}
	repo.Seed(items)
	return repo
}

// Seed replaces the pantry contents.
func (r *PantryRepository) Seed(items []pantry.Item) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.items = make([]pantry.Item, len(items))
	copy(r.items, items)
}

// Snapshot returns an immutable view of the current inventory.
func (r *PantryRepository) Snapshot(ctx context.Context) (pantry.Snapshot, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return pantry.NewSnapshot(r.items), nil
}

var (
	_ outbound.RecipeCatalog    = (*CatalogRepository)(nil)
	_ outbound.CatalogWriter    = (*CatalogRepository)(nil)
	_ outbound.PantryRepository = (*PantryRepository)(nil)
)
