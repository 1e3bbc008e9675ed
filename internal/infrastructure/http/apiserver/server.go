// Package apiserver provides the JSON API HTTP server for the
// recommendation engine.
package apiserver

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/savorly/v1/internal/infrastructure/config"
	"github.com/savorly/v1/internal/infrastructure/http/middleware"
	"github.com/savorly/v1/internal/infrastructure/monitoring"
	"github.com/savorly/v1/internal/ports/inbound"
	"github.com/savorly/v1/internal/ports/outbound"
	"github.com/savorly/v1/pkg/healthcheck"
)

// APIServer serves the recommendation and catalog endpoints.
type APIServer struct {
	config   *config.Config
	logger   *zap.Logger
	server   *http.Server
	router   *chi.Mux
	handlers *Handlers
	health   *healthcheck.HealthCheck
	metrics  *monitoring.Metrics
}

// NewAPIServer creates a new API server instance
func NewAPIServer(
	cfg *config.Config,
	log *zap.Logger,
	recommendService inbound.RecommendationService,
	catalog outbound.RecipeCatalog,
	writer outbound.CatalogWriter,
	health *healthcheck.HealthCheck,
	metrics *monitoring.Metrics,
) *APIServer {
	s := &APIServer{
		config:   cfg,
		logger:   log.Named("api-server"),
		handlers: NewHandlers(recommendService, catalog, writer, metrics, log),
		health:   health,
		metrics:  metrics,
	}

	s.router = s.setupRoutes()
	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      s.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return s
}

// setupRoutes configures the JSON API routes
func (s *APIServer) setupRoutes() *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(s.logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Security())
	r.Use(middleware.CORS())
	r.Use(chimiddleware.Timeout(30 * time.Second))
	r.Use(chimiddleware.Compress(5))

	// Operational endpoints stay outside the JSON-only API group
	r.Get(s.config.Monitoring.HealthCheckPath, s.health.Handler())
	r.Get(s.config.Monitoring.ReadinessPath, s.health.ReadinessHandler())
	r.Get("/live", s.health.LivenessHandler())
	if s.config.Monitoring.EnableMetrics {
		r.Method(http.MethodGet, s.config.Monitoring.MetricsPath, s.metrics.Handler())
	}

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.JSONOnly())
		r.Use(middleware.Metrics(s.metrics))

		r.Post("/recommendations", s.handlers.Recommend)
		r.Post("/constraints/parse", s.handlers.ParseConstraints)

		r.Route("/recipes", func(r chi.Router) {
			r.Get("/{id}", s.handlers.GetRecipe)
			r.Post("/{id}/nutrition/import", s.handlers.ImportNutrition)
		})
	})

	return r
}

// Start starts the HTTP server
func (s *APIServer) Start() error {
	s.logger.Info("starting API server", zap.String("addr", s.server.Addr))
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("api server: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the HTTP server
func (s *APIServer) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down API server")
	return s.server.Shutdown(ctx)
}

// Router exposes the router for tests.
func (s *APIServer) Router() http.Handler {
	return s.router
}
