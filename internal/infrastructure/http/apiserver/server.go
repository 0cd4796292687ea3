// Package apiserver provides the JSON API HTTP server
package apiserver

import (
	"context"
	"fmt"
	"net/http"

	"github.com/fitlife/dietplanner/internal/infrastructure/config"
	"github.com/fitlife/dietplanner/internal/infrastructure/http/handlers"
	"github.com/fitlife/dietplanner/internal/infrastructure/http/middleware"
	"github.com/fitlife/dietplanner/internal/infrastructure/monitoring"
	"github.com/fitlife/dietplanner/pkg/healthcheck"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

// Server is the JSON API HTTP server
type Server struct {
	config   *config.Config
	logger   *zap.Logger
	server   *http.Server
	router   chi.Router
	handlers *handlers.APIHandlers
	mw       *middleware.Middleware
	metrics  *monitoring.MetricsCollector
	health   *healthcheck.HealthCheck
}

// NewServer creates a new API server instance
func NewServer(
	cfg *config.Config,
	log *zap.Logger,
	h *handlers.APIHandlers,
	metrics *monitoring.MetricsCollector,
	health *healthcheck.HealthCheck,
) *Server {
	s := &Server{
		config:   cfg,
		logger:   log.Named("api-server"),
		handlers: h,
		mw:       middleware.New(cfg, log),
		metrics:  metrics,
		health:   health,
	}

	s.router = s.setupRoutes()
	s.server = &http.Server{
		Addr:           fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:        otelhttp.NewHandler(s.router, "dietplanner-api"),
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	return s
}

// setupRoutes configures the middleware chain and routes
func (s *Server) setupRoutes() chi.Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(s.mw.Logger)
	r.Use(s.mw.Recovery)
	r.Use(s.mw.Security)
	if s.config.Server.EnableCORS {
		r.Use(s.mw.CORS)
	}
	if s.metrics != nil && s.config.Monitoring.EnableMetrics {
		r.Use(s.metrics.HTTPMiddleware)
	}

	// Operational endpoints bypass rate limiting
	r.Get(s.config.Monitoring.HealthCheckPath, s.health.Handler())
	r.Get(s.config.Monitoring.ReadinessPath, s.health.ReadinessHandler())
	r.Get("/live", s.health.LivenessHandler())
	if s.metrics != nil && s.config.Monitoring.EnableMetrics {
		r.Method(http.MethodGet, s.config.Monitoring.MetricsPath, s.metrics.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(s.mw.RateLimit)
		if s.config.Server.RequestTimeout > 0 {
			r.Use(chimiddleware.Timeout(s.config.Server.RequestTimeout))
		}
		if s.config.Server.EnableCompression {
			r.Use(chimiddleware.Compress(5))
		}
		r.Use(s.mw.JSONOnly)

		r.Get("/openapi.yaml", serveOpenAPI)
		s.setupAPIV1Routes(r)
	})

	return r
}

// setupAPIV1Routes configures API v1 endpoints
func (s *Server) setupAPIV1Routes(r chi.Router) {
	h := s.handlers

	r.Route("/diet-plans", func(r chi.Router) {
		r.Post("/", h.GenerateDietPlan)
		r.Get("/{planID}", h.GetDietPlan)
		r.Get("/{planID}/progress", h.GetPlanProgress)
	})

	r.Route("/users/{userID}", func(r chi.Router) {
		r.Get("/diet-plans", h.GetUserDietPlans)
		r.Get("/preferences", h.GetPreferences)
		r.Put("/preferences", h.UpdatePreferences)
		r.Put("/profile", h.UpsertProfile)
		r.Get("/calories", h.EstimateCalories)
		r.Get("/meals", h.GetLoggedMeals)
		r.Get("/progress/{date}", h.GetProgressForDate)
		r.Get("/summary", h.GetDietSummary)
	})

	r.Route("/meals", func(r chi.Router) {
		r.Post("/", h.LogMeal)
		r.Get("/suggestions", h.SuggestMeals)
		r.Patch("/{mealID}", h.UpdateLoggedMeal)
		r.Delete("/{mealID}", h.DeleteLoggedMeal)
	})

	r.Post("/progress", h.LogDailyProgress)
	r.Get("/ingredients", h.ListIngredients)
	r.Get("/recipes/calories", h.GetRecipeCalories)
}

// Handler returns the instrumented root handler
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start starts the HTTP server and blocks until it stops
func (s *Server) Start() error {
	s.logger.Info("Starting API server", zap.String("address", s.server.Addr))
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down API server")
	return s.server.Shutdown(ctx)
}
