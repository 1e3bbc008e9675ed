// Package sqlite provides SQLite database setup and configuration
package sqlite

import (
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	gormModels "github.com/savorly/v1/internal/infrastructure/persistence/gorm"
	"github.com/savorly/v1/internal/infrastructure/persistence/seed"
)

// SetupDatabase creates and configures the SQLite database
func SetupDatabase(dbPath string, logLevel logger.LogLevel) (*gorm.DB, error) {
	// Use in-memory database if no path provided
	if dbPath == "" {
		dbPath = ":memory:"
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Run auto-migration
	err = db.AutoMigrate(
		&gormModels.RecipeModel{},
		&gormModels.PantryItemModel{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}

// SeedDatabase inserts the demo catalog and pantry. It is a no-op when
// the recipes table already has rows.
func SeedDatabase(db *gorm.DB) error {
	var count int64
	if err := db.Model(&gormModels.RecipeModel{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check for existing recipes: %w", err)
	}
	if count > 0 {
		return nil
	}

	for _, r := range seed.Recipes() {
		if err := db.Create(gormModels.RecipeToModel(r)).Error; err != nil {
			return fmt.Errorf("failed to seed recipe %q: %w", r.Title, err)
		}
	}
	for _, it := range seed.PantryItems(time.Now()) {
		if err := db.Create(gormModels.PantryItemToModel(it)).Error; err != nil {
			return fmt.Errorf("failed to seed pantry item %q: %w", it.Name, err)
		}
	}
	return nil
}
