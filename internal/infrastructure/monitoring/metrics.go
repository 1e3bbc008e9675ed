// Package monitoring provides Prometheus instrumentation for the
// recommendation engine.
package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics collects engine-level metrics. All observe methods are safe on
// a nil receiver, so instrumentation stays optional in tests.
type Metrics struct {
	registry *prometheus.Registry

	recommendDuration prometheus.Histogram
	candidatesScored  prometheus.Histogram
	cacheHits         prometheus.Counter
	cacheMisses       prometheus.Counter
	mlPredictions     *prometheus.CounterVec
	importRecords     *prometheus.CounterVec
	httpRequests      *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
}

// NewMetrics registers the engine metrics on a fresh registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		recommendDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "savorly",
			Name:      "recommendation_duration_seconds",
			Help:      "End to end recommendation pipeline latency",
			Buckets:   prometheus.DefBuckets,
		}),
		candidatesScored: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "savorly",
			Name:      "recommendation_candidates",
			Help:      "Candidates surviving hard filters per request",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250, 500},
		}),
		cacheHits: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "savorly",
			Name:      "recommendation_cache_hits_total",
			Help:      "Recommendation responses served from cache",
		}),
		cacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "savorly",
			Name:      "recommendation_cache_misses_total",
			Help:      "Recommendation requests computed fresh",
		}),
		mlPredictions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "savorly",
			Name:      "mood_energy_predictions_total",
			Help:      "Mood/energy subscores by path",
		}, []string{"path"}),
		importRecords: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "savorly",
			Name:      "nutrition_import_records_total",
			Help:      "Nutrition records imported by source shape and outcome",
		}, []string{"source", "outcome"}),
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "savorly",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status",
		}, []string{"route", "method", "status"}),
		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "savorly",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
	}
}

// Handler exposes the registry for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveRecommendation records one completed pipeline run.
func (m *Metrics) ObserveRecommendation(took time.Duration, candidates int) {
	if m == nil {
		return
	}
	m.recommendDuration.Observe(took.Seconds())
	m.candidatesScored.Observe(float64(candidates))
}

// ObserveCacheHit counts a response served from cache.
func (m *Metrics) ObserveCacheHit() {
	if m == nil {
		return
	}
	m.cacheHits.Inc()
}

// ObserveCacheMiss counts a freshly computed response.
func (m *Metrics) ObserveCacheMiss() {
	if m == nil {
		return
	}
	m.cacheMisses.Inc()
}

// ObserveMoodEnergyPath counts which scoring path produced a subscore,
// "ml" or "heuristic".
func (m *Metrics) ObserveMoodEnergyPath(mlUsed bool) {
	if m == nil {
		return
	}
	path := "heuristic"
	if mlUsed {
		path = "ml"
	}
	m.mlPredictions.WithLabelValues(path).Inc()
}

// ObserveImport counts one imported nutrition record.
func (m *Metrics) ObserveImport(source, outcome string) {
	if m == nil {
		return
	}
	m.importRecords.WithLabelValues(source, outcome).Inc()
}

// ObserveHTTP records one served HTTP request.
func (m *Metrics) ObserveHTTP(route, method, status string, took time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(route, method, status).Inc()
	m.httpDuration.WithLabelValues(route).Observe(took.Seconds())
}
