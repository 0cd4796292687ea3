// Package healthcheck aggregates dependency probes into the /health and
// /ready responses
package healthcheck

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Status represents the health status
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusUnhealthy Status = "unhealthy"
	StatusDegraded  Status = "degraded"
)

// severity orders statuses so the worst one wins
func (s Status) severity() int {
	switch s {
	case StatusUnhealthy:
		return 2
	case StatusDegraded:
		return 1
	default:
		return 0
	}
}

// Check is the outcome of one probe
type Check struct {
	Name        string        `json:"name"`
	Status      Status        `json:"status"`
	Optional    bool          `json:"optional,omitempty"`
	Message     string        `json:"message,omitempty"`
	LastChecked time.Time     `json:"last_checked"`
	Duration    time.Duration `json:"-"`
	Metadata    interface{}   `json:"metadata,omitempty"`
}

// Response is the aggregated health report
type Response struct {
	Status        Status        `json:"status"`
	Version       string        `json:"version"`
	Timestamp     time.Time     `json:"timestamp"`
	Checks        []Check       `json:"checks"`
	TotalDuration time.Duration `json:"-"`
}

// Checker probes one dependency
type Checker interface {
	Check(ctx context.Context) Check
}

// CheckFunc adapts a function to Checker
type CheckFunc func(ctx context.Context) Check

// Check calls f
func (f CheckFunc) Check(ctx context.Context) Check { return f(ctx) }

type registration struct {
	checker  Checker
	optional bool
}

// HealthCheck runs the registered probes and caches the last report
type HealthCheck struct {
	version      string
	logger       *zap.Logger
	probeTimeout time.Duration

	mu       sync.RWMutex
	checkers map[string]registration
	cache    *Response
	cacheTTL time.Duration
}

// New creates a health check reporting version
func New(version string, logger *zap.Logger) *HealthCheck {
	return &HealthCheck{
		version:      version,
		logger:       logger,
		probeTimeout: 5 * time.Second,
		checkers:     make(map[string]registration),
		cacheTTL:     5 * time.Second,
	}
}

// Register adds a probe whose failure makes the service unhealthy
func (h *HealthCheck) Register(name string, checker Checker) {
	h.register(name, checker, false)
}

// RegisterOptional adds a probe for a dependency the service can run without.
// An unhealthy result is reported as degraded.
func (h *HealthCheck) RegisterOptional(name string, checker Checker) {
	h.register(name, checker, true)
}

func (h *HealthCheck) register(name string, checker Checker, optional bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checkers[name] = registration{checker: checker, optional: optional}
	h.cache = nil
}

// SetCacheTTL sets how long a report is reused; zero disables caching
func (h *HealthCheck) SetCacheTTL(ttl time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cacheTTL = ttl
	h.cache = nil
}

// Handler serves the full report; 503 when unhealthy
func (h *HealthCheck) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report := h.Check(r.Context())

		status := http.StatusOK
		if report.Status == StatusUnhealthy {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, report)
	}
}

// LivenessHandler reports that the process is serving requests
func (h *HealthCheck) LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status":    "alive",
			"timestamp": time.Now(),
		})
	}
}

// ReadinessHandler reports whether traffic should be routed here.
// Degraded dependencies still count as ready.
func (h *HealthCheck) ReadinessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report := h.Check(r.Context())

		if report.Status == StatusUnhealthy {
			failing := make([]Check, 0, len(report.Checks))
			for _, c := range report.Checks {
				if c.Status == StatusUnhealthy {
					failing = append(failing, c)
				}
			}
			writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
				"status": "not_ready",
				"checks": failing,
			})
			return
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status":    "ready",
			"degraded":  report.Status == StatusDegraded,
			"timestamp": report.Timestamp,
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// Check runs every probe concurrently, each bounded by the probe timeout, and
// returns the checks sorted by name
func (h *HealthCheck) Check(ctx context.Context) Response {
	h.mu.RLock()
	if h.cache != nil && time.Since(h.cache.Timestamp) < h.cacheTTL {
		cached := *h.cache
		h.mu.RUnlock()
		return cached
	}
	names := make([]string, 0, len(h.checkers))
	for name := range h.checkers {
		names = append(names, name)
	}
	regs := make(map[string]registration, len(h.checkers))
	for name, reg := range h.checkers {
		regs[name] = reg
	}
	h.mu.RUnlock()
	sort.Strings(names)

	start := time.Now()
	checks := make([]Check, len(names))

	var wg sync.WaitGroup
	for i, name := range names {
		wg.Add(1)
		go func(i int, name string, reg registration) {
			defer wg.Done()
			probeCtx, cancel := context.WithTimeout(ctx, h.probeTimeout)
			defer cancel()

			c := reg.checker.Check(probeCtx)
			c.Name = name
			if reg.optional {
				c.Optional = true
				if c.Status == StatusUnhealthy {
					c.Status = StatusDegraded
				}
			}
			checks[i] = c
		}(i, name, regs[name])
	}
	wg.Wait()

	report := Response{
		Status:        StatusHealthy,
		Version:       h.version,
		Timestamp:     start,
		Checks:        checks,
		TotalDuration: time.Since(start),
	}
	for _, c := range checks {
		if c.Status.severity() > report.Status.severity() {
			report.Status = c.Status
		}
		if c.Status != StatusHealthy {
			h.logger.Warn("Health probe not healthy",
				zap.String("check", c.Name),
				zap.String("status", string(c.Status)),
				zap.String("message", c.Message),
			)
		}
	}

	h.mu.Lock()
	h.cache = &report
	h.mu.Unlock()

	return report
}

// NewDatabaseChecker pings db and reports pool saturation as degraded
func NewDatabaseChecker(db *sql.DB) Checker {
	return CheckFunc(func(ctx context.Context) Check {
		start := time.Now()
		if err := db.PingContext(ctx); err != nil {
			return Check{
				Status:      StatusUnhealthy,
				Message:     "ping failed: " + err.Error(),
				LastChecked: start,
				Duration:    time.Since(start),
			}
		}

		stats := db.Stats()
		c := Check{
			Status:      StatusHealthy,
			LastChecked: start,
			Duration:    time.Since(start),
			Metadata: map[string]interface{}{
				"open_connections": stats.OpenConnections,
				"in_use":           stats.InUse,
				"idle":             stats.Idle,
				"wait_count":       stats.WaitCount,
			},
		}
		if stats.MaxOpenConnections > 0 && stats.InUse >= stats.MaxOpenConnections && stats.WaitCount > 0 {
			c.Status = StatusDegraded
			c.Message = "connection pool exhausted"
		}
		return c
	})
}

// NewRedisChecker pings the redis server
func NewRedisChecker(client redis.UniversalClient) Checker {
	return CheckFunc(func(ctx context.Context) Check {
		start := time.Now()
		c := Check{Status: StatusHealthy, LastChecked: start}
		if err := client.Ping(ctx).Err(); err != nil {
			c.Status = StatusUnhealthy
			c.Message = "ping failed: " + err.Error()
		}
		c.Duration = time.Since(start)
		return c
	})
}

// MarshalJSON reports the duration in milliseconds
func (c Check) MarshalJSON() ([]byte, error) {
	type alias Check
	return json.Marshal(struct {
		alias
		DurationMS float64 `json:"duration_ms"`
	}{alias(c), float64(c.Duration.Microseconds()) / 1000})
}

// MarshalJSON reports the total duration in milliseconds
func (r Response) MarshalJSON() ([]byte, error) {
	type alias Response
	return json.Marshal(struct {
		alias
		TotalDurationMS float64 `json:"total_duration_ms"`
	}{alias(r), float64(r.TotalDuration.Microseconds()) / 1000})
}
