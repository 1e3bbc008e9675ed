package gorm

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/savorly/v1/internal/domain/recipe"
	"github.com/savorly/v1/internal/ports/outbound"
)

// CatalogRepository implements the recipe catalog on GORM. Catalog order
// is primary key order.
type CatalogRepository struct {
	db *gorm.DB
}

// NewCatalogRepository creates a new catalog repository
func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

var (
	_ outbound.RecipeCatalog = (*CatalogRepository)(nil)
	_ outbound.CatalogWriter = (*CatalogRepository)(nil)
)

// ListRecipes returns every recipe in catalog order.
func (r *CatalogRepository) ListRecipes(ctx context.Context) ([]*recipe.Recipe, error) {
	var models []RecipeModel
	result := r.db.WithContext(ctx).Order("id ASC").Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}

	recipes := make([]*recipe.Recipe, len(models))
	for i := range models {
		recipes[i] = models[i].ToDomain()
	}
	return recipes, nil
}

// FindByID returns the recipe with the given ID, or nil when absent.
func (r *CatalogRepository) FindByID(ctx context.Context, id int64) (*recipe.Recipe, error) {
	var model RecipeModel
	result := r.db.WithContext(ctx).First(&model, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return model.ToDomain(), nil
}

// Save upserts one recipe, used by the nutrition import endpoint.
func (r *CatalogRepository) Save(ctx context.Context, rec *recipe.Recipe) error {
	return r.db.WithContext(ctx).Save(RecipeToModel(rec)).Error
}
