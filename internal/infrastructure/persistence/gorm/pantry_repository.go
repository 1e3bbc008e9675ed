package gorm

import (
	"context"

	"gorm.io/gorm"

	"github.com/savorly/v1/internal/domain/pantry"
	"github.com/savorly/v1/internal/ports/outbound"
)

// PantryRepository implements the pantry inventory on GORM.
type PantryRepository struct {
	db *gorm.DB
}

// NewPantryRepository creates a new pantry repository
func NewPantryRepository(db *gorm.DB) outbound.PantryRepository {
	return &PantryRepository{db: db}
}

// Snapshot reads the full inventory into an immutable snapshot.
func (r *PantryRepository) Snapshot(ctx context.Context) (pantry.Snapshot, error) {
	var models []PantryItemModel
	result := r.db.WithContext(ctx).Order("name ASC").Find(&models)
	if result.Error != nil {
		return pantry.Snapshot{}, result.Error
	}

	items := make([]pantry.Item, len(models))
	for i := range models {
		items[i] = models[i].ToDomain()
	}
	return pantry.NewSnapshot(items), nil
}

// Save upserts one pantry item.
func (r *PantryRepository) Save(ctx context.Context, item pantry.Item) error {
	return r.db.WithContext(ctx).Save(PantryItemToModel(item)).Error
}
