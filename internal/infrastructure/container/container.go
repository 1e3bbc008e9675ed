// Package container provides dependency injection using Uber FX
package container

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/savorly/v1/internal/application/recommend"
	"github.com/savorly/v1/internal/infrastructure/config"
	"github.com/savorly/v1/internal/infrastructure/http/apiserver"
	"github.com/savorly/v1/internal/infrastructure/ml"
	"github.com/savorly/v1/internal/infrastructure/monitoring"
	gormRepo "github.com/savorly/v1/internal/infrastructure/persistence/gorm"
	"github.com/savorly/v1/internal/infrastructure/persistence/memory"
	redisRepo "github.com/savorly/v1/internal/infrastructure/persistence/redis"
	"github.com/savorly/v1/internal/infrastructure/persistence/seed"
	"github.com/savorly/v1/internal/infrastructure/persistence/sqlite"
	"github.com/savorly/v1/internal/ports/outbound"
	"github.com/savorly/v1/pkg/healthcheck"
	"github.com/savorly/v1/pkg/logger"
)

// Module provides all dependency injection modules
var Module = fx.Options(
	ConfigModule,
	LoggerModule,
	MetricsModule,
	DatabaseModule,
	RepositoryModule,
	CacheModule,
	ModelModule,
	ServiceModule,
	HealthModule,
	HTTPModule,
	LifecycleModule,
)

// ConfigModule provides configuration
var ConfigModule = fx.Provide(
	func() (*config.Config, error) {
		return config.Load("")
	},
)

// LoggerModule provides logging
var LoggerModule = fx.Provide(
	func(cfg *config.Config) (*zap.Logger, error) {
		return logger.New(logger.Config{
			Level:       cfg.App.LogLevel,
			Format:      cfg.App.LogFormat,
			Development: cfg.App.Debug,
		})
	},
)

// MetricsModule provides the Prometheus registry and instruments.
var MetricsModule = fx.Provide(
	monitoring.NewMetrics,
)

// DatabaseModule provides the SQLite connection. The memory driver runs
// without a database, so the provided handle is nil in that mode.
var DatabaseModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
		if cfg.Database.Driver != "sqlite" {
			return nil, nil
		}

		logLevel := gormLogger.Silent
		if cfg.App.Debug {
			logLevel = gormLogger.Info
		}

		db, err := sqlite.SetupDatabase(cfg.Database.Path, logLevel)
		if err != nil {
			return nil, fmt.Errorf("failed to setup SQLite database: %w", err)
		}

		if err := sqlite.SeedDatabase(db); err != nil {
			log.Warn("Failed to seed database", zap.Error(err))
		}

		log.Info("Connected to SQLite database",
			zap.String("path", cfg.Database.Path),
			zap.Bool("in_memory", cfg.Database.Path == ":memory:" || cfg.Database.Path == ""),
		)
		return db, nil
	},
)

// RepositoryModule provides catalog and pantry repositories for the
// configured driver.
var RepositoryModule = fx.Provide(
	func(cfg *config.Config, db *gorm.DB, log *zap.Logger) (outbound.RecipeCatalog, outbound.CatalogWriter, outbound.PantryRepository) {
		if cfg.Database.Driver == "sqlite" && db != nil {
			catalog := gormRepo.NewCatalogRepository(db)
			return catalog, catalog, gormRepo.NewPantryRepository(db)
		}

		log.Info("Using in-memory repositories with demo data")
		catalog := memory.NewCatalogRepository(seed.Recipes())
		return catalog, catalog, memory.NewPantryRepository(seed.PantryItems(time.Now()))
	},
)

// CacheModule provides the response cache, backed by Redis when enabled.
// The Redis client is also provided separately for health checks; it is
// nil when Redis is disabled.
var CacheModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger) (outbound.CacheRepository, *redis.Client) {
		if !cfg.Redis.Enabled {
			log.Info("Using in-memory response cache")
			return memory.NewCacheRepository(), nil
		}

		client := redis.NewClient(&redis.Options{
			Addr:         cfg.RedisAddr(),
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.Database,
			MaxRetries:   cfg.Redis.MaxRetries,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
			PoolSize:     cfg.Redis.PoolSize,
		})
		log.Info("Using Redis response cache", zap.String("addr", cfg.RedisAddr()))
		return redisRepo.NewCacheRepository(client, log), client
	},
)

// ModelModule provides the frozen mood/energy predictor. When models are
// disabled the scorer falls back to heuristics.
var ModelModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger) *ml.Predictor {
		if !cfg.Models.Enabled {
			return nil
		}
		return ml.NewPredictor(cfg.Models.ArtifactDir, log)
	},
	func(p *ml.Predictor) outbound.MoodEnergyModel {
		if p == nil {
			return nil
		}
		return p
	},
)

// ServiceModule provides the scoring engine.
var ServiceModule = fx.Provide(
	func(cfg *config.Config) (recommend.Weights, error) {
		w := recommend.Weights{
			Coverage:   cfg.Scoring.CoverageWeight,
			Expiring:   cfg.Scoring.ExpiringWeight,
			Nutrition:  cfg.Scoring.NutritionWeight,
			MoodEnergy: cfg.Scoring.MoodEnergyWeight,
		}
		if err := w.Validate(); err != nil {
			return recommend.Weights{}, err
		}
		return w, nil
	},
	func(w recommend.Weights, model outbound.MoodEnergyModel) *recommend.Scorer {
		return recommend.NewScorer(w, model, nil)
	},
	recommend.NewService,
	func(cfg *config.Config) recommend.Options {
		return recommend.Options{
			Workers:            cfg.Scoring.Workers,
			CacheTTL:           cfg.Scoring.CacheTTL,
			TopK:               cfg.Scoring.TopK,
			ExpiringWindowDays: cfg.Scoring.ExpiringWindowDays,
		}
	},
)

// HealthModule provides liveness and readiness checks.
var HealthModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger, db *gorm.DB, rdb *redis.Client, model *ml.Predictor) *healthcheck.HealthCheck {
		hc := healthcheck.New(cfg.App.Version, log)
		if db != nil {
			hc.Register("database", healthcheck.NewDatabaseChecker(db))
		}
		if rdb != nil {
			hc.Register("redis", healthcheck.NewRedisChecker(rdb))
		}
		if model != nil {
			hc.Register("mood_energy_model", healthcheck.NewModelChecker(model))
		}
		return hc
	},
)

// HTTPModule provides the API server.
var HTTPModule = fx.Provide(
	apiserver.NewAPIServer,
)

// LifecycleModule provides lifecycle hooks
var LifecycleModule = fx.Invoke(
	RegisterLifecycleHooks,
)

// RegisterLifecycleHooks registers application lifecycle hooks
func RegisterLifecycleHooks(
	lc fx.Lifecycle,
	cfg *config.Config,
	log *zap.Logger,
	db *gorm.DB,
	rdb *redis.Client,
	server *apiserver.APIServer,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("Starting Savorly recommendation engine",
				zap.String("version", cfg.App.Version),
				zap.String("environment", cfg.App.Environment),
			)

			go func() {
				if err := server.Start(); err != nil {
					log.Fatal("Failed to start HTTP server", zap.Error(err))
				}
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down Savorly recommendation engine")

			if err := server.Shutdown(ctx); err != nil {
				log.Error("Failed to shutdown HTTP server", zap.Error(err))
			}

			if rdb != nil {
				if err := rdb.Close(); err != nil {
					log.Error("Failed to close Redis client", zap.Error(err))
				}
			}

			if db != nil {
				sqlDB, err := db.DB()
				if err == nil {
					if err := sqlDB.Close(); err != nil {
						log.Error("Failed to close database connection", zap.Error(err))
					}
				}
			}

			_ = log.Sync()

			return nil
		},
	})
}
