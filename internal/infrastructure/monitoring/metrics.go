// Package monitoring provides Prometheus metrics and OpenTelemetry tracing
package monitoring

import (
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/fitlife/dietplanner/internal/domain/diet"
	"github.com/fitlife/dietplanner/internal/ports/outbound"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const namespace = "dietplanner"

// MetricsCollector handles Prometheus metrics collection
type MetricsCollector struct {
	logger   *zap.Logger
	registry *prometheus.Registry

	// HTTP metrics
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpResponseSize    *prometheus.HistogramVec

	// Business metrics
	plansGenerated      *prometheus.CounterVec
	planGenerationFails *prometheus.CounterVec
	planMeals           prometheus.Histogram
	recipesRejected     *prometheus.CounterVec
	mealsLogged         *prometheus.CounterVec
	mealCalories        prometheus.Histogram
	progressRecomputed  *prometheus.CounterVec

	// System metrics
	cacheOperations *prometheus.CounterVec
}

var _ outbound.Metrics = (*MetricsCollector)(nil)

// NewMetricsCollector registers all collectors on a fresh registry
func NewMetricsCollector(logger *zap.Logger) *MetricsCollector {
	return NewMetricsCollectorWithRegistry(prometheus.NewRegistry(), logger)
}

// NewMetricsCollectorWithRegistry registers all collectors on reg
func NewMetricsCollectorWithRegistry(reg *prometheus.Registry, logger *zap.Logger) *MetricsCollector {
	factory := promauto.With(reg)

	return &MetricsCollector{
		logger:   logger.Named("metrics"),
		registry: reg,

		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status_code"},
		),
		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		httpResponseSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_response_size_bytes",
				Help:      "HTTP response size in bytes",
				Buckets:   prometheus.ExponentialBuckets(100, 10, 6),
			},
			[]string{"method", "route"},
		),

		plansGenerated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "diet_plans_generated_total",
				Help:      "Total number of diet plans generated",
			},
			[]string{"fallback"},
		),
		planGenerationFails: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "diet_plan_generation_failures_total",
				Help:      "Total number of failed diet plan generations",
			},
			[]string{"reason"},
		),
		planMeals: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "diet_plan_meals",
				Help:      "Number of meal slots per generated plan",
				Buckets:   []float64{3, 7, 14, 21, 42, 90, 180, 270},
			},
		),
		recipesRejected: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "recipes_rejected_total",
				Help:      "Recipes rejected by the compatibility filter, by reason",
			},
			[]string{"reason"},
		),
		mealsLogged: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "meals_logged_total",
				Help:      "Total number of meals logged",
			},
			[]string{"meal_type"},
		),
		mealCalories: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "logged_meal_calories",
				Help:      "Calories of logged meals",
				Buckets:   []float64{100, 250, 400, 600, 800, 1200, 2000},
			},
		),
		progressRecomputed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "progress_recomputations_total",
				Help:      "Daily progress recomputations after meal edits",
			},
			[]string{"operation"},
		),

		cacheOperations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_operations_total",
				Help:      "Cache lookups by cache and result",
			},
			[]string{"cache", "result"},
		),
	}
}

// Registry exposes the underlying registry
func (m *MetricsCollector) Registry() *prometheus.Registry {
	return m.registry
}

// RegisterRuntime adds Go runtime and process collectors
func (m *MetricsCollector) RegisterRuntime() {
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// RegisterDB exports connection pool statistics of db
func (m *MetricsCollector) RegisterDB(db *sql.DB, name string) {
	m.registry.MustRegister(collectors.NewDBStatsCollector(db, name))
}

// PlanGenerated records a stored plan
func (m *MetricsCollector) PlanGenerated(durationDays, meals int, usedFallback bool) {
	m.plansGenerated.WithLabelValues(strconv.FormatBool(usedFallback)).Inc()
	m.planMeals.Observe(float64(meals))
}

// PlanGenerationFailed records a failed generation
func (m *MetricsCollector) PlanGenerationFailed(reason string) {
	m.planGenerationFails.WithLabelValues(reason).Inc()
}

// RecipesRejected counts every rejection reason of the given verdicts
func (m *MetricsCollector) RecipesRejected(verdicts []diet.Verdict) {
	for _, v := range verdicts {
		for _, r := range v.Rejections {
			m.recipesRejected.WithLabelValues(string(r.Reason)).Inc()
		}
	}
}

// MealLogged records a logged meal
func (m *MetricsCollector) MealLogged(mealType diet.MealType, calories float64) {
	m.mealsLogged.WithLabelValues(string(mealType)).Inc()
	m.mealCalories.Observe(calories)
}

// ProgressRecomputed records a progress recomputation
func (m *MetricsCollector) ProgressRecomputed(operation string) {
	m.progressRecomputed.WithLabelValues(operation).Inc()
}

// CacheAccess records a cache hit or miss
func (m *MetricsCollector) CacheAccess(cache string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheOperations.WithLabelValues(cache, result).Inc()
}

// HTTPMiddleware records request count, latency and response size per chi route
func (m *MetricsCollector) HTTPMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		m.httpRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		m.httpRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
		m.httpResponseSize.WithLabelValues(r.Method, route).Observe(float64(ww.BytesWritten()))
	})
}

// Handler returns the Prometheus scrape handler
func (m *MetricsCollector) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// NopMetrics discards all business metrics
type NopMetrics struct{}

var _ outbound.Metrics = NopMetrics{}

func (NopMetrics) PlanGenerated(int, int, bool)      {}
func (NopMetrics) PlanGenerationFailed(string)       {}
func (NopMetrics) RecipesRejected([]diet.Verdict)    {}
func (NopMetrics) MealLogged(diet.MealType, float64) {}
func (NopMetrics) ProgressRecomputed(string)         {}
func (NopMetrics) CacheAccess(string, bool)          {}
