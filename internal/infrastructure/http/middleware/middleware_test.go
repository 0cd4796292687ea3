package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fitlife/dietplanner/internal/infrastructure/config"
	"github.com/fitlife/dietplanner/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newMiddleware(t *testing.T, mutate func(*config.Config)) *Middleware {
	t.Helper()
	cfg, err := config.Load("")
	require.NoError(t, err)
	if mutate != nil {
		mutate(cfg)
	}
	return New(cfg, zap.NewNop())
}

var ok = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestRateLimit(t *testing.T) {
	t.Run("BurstExceeded_ShouldReturn429", func(t *testing.T) {
		// Arrange
		m := newMiddleware(t, func(c *config.Config) {
			c.RateLimit.RequestsPerMin = 1
			c.RateLimit.BurstSize = 2
		})
		h := m.RateLimit(ok)

		// Act
		codes := make([]int, 0, 3)
		var last *httptest.ResponseRecorder
		for i := 0; i < 3; i++ {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/ingredients", nil)
			req.RemoteAddr = "10.0.0.1:5000"
			last = httptest.NewRecorder()
			h.ServeHTTP(last, req)
			codes = append(codes, last.Code)
		}

		// Assert
		assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
		assert.Equal(t, "60", last.Header().Get("Retry-After"))

		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(last.Body.Bytes(), &body))
		assert.Equal(t, "TOO_MANY_REQUESTS", body["error"].(map[string]interface{})["code"])
	})

	t.Run("SeparateClients_ShouldHaveSeparateBuckets", func(t *testing.T) {
		// Arrange
		m := newMiddleware(t, func(c *config.Config) {
			c.RateLimit.RequestsPerMin = 1
			c.RateLimit.BurstSize = 1
		})
		h := m.RateLimit(ok)

		// Act
		codes := make([]int, 0, 2)
		for _, addr := range []string{"10.0.0.1:1", "10.0.0.2:1"} {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = addr
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			codes = append(codes, rec.Code)
		}

		// Assert
		assert.Equal(t, []int{http.StatusOK, http.StatusOK}, codes)
	})

	t.Run("Disabled_ShouldPassThrough", func(t *testing.T) {
		// Arrange
		m := newMiddleware(t, func(c *config.Config) {
			c.RateLimit.Enable = false
			c.RateLimit.BurstSize = 1
		})
		h := m.RateLimit(ok)

		// Act & Assert
		for i := 0; i < 5; i++ {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
			assert.Equal(t, http.StatusOK, rec.Code)
		}
	})
}

func TestRecovery_ShouldRenderInternalError(t *testing.T) {
	// Arrange
	m := newMiddleware(t, nil)
	h := m.Recovery(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()

	// Act
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	// Assert
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "INTERNAL_ERROR")
	assert.NotContains(t, rec.Body.String(), "boom")
}

func TestJSONOnly(t *testing.T) {
	m := newMiddleware(t, nil)
	h := m.JSONOnly(ok)

	cases := []struct {
		name        string
		method      string
		contentType string
		want        int
	}{
		{"Get_ShouldSkipCheck", http.MethodGet, "", http.StatusOK},
		{"PostJSON_ShouldPass", http.MethodPost, "application/json; charset=utf-8", http.StatusOK},
		{"PostForm_ShouldReject", http.MethodPost, "application/x-www-form-urlencoded", http.StatusBadRequest},
		{"PatchWithoutType_ShouldReject", http.MethodPatch, "", http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			req := httptest.NewRequest(tc.method, "/", strings.NewReader("{}"))
			if tc.contentType != "" {
				req.Header.Set("Content-Type", tc.contentType)
			}
			rec := httptest.NewRecorder()

			// Act
			h.ServeHTTP(rec, req)

			// Assert
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}

func TestCORS(t *testing.T) {
	t.Run("Preflight_ShouldEchoAllowedOrigin", func(t *testing.T) {
		// Arrange
		m := newMiddleware(t, func(c *config.Config) {
			c.Server.AllowedOrigins = []string{"https://app.fitlife.example"}
		})
		req := httptest.NewRequest(http.MethodOptions, "/api/v1/meals", nil)
		req.Header.Set("Origin", "https://app.fitlife.example")
		rec := httptest.NewRecorder()

		// Act
		m.CORS(ok).ServeHTTP(rec, req)

		// Assert
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "https://app.fitlife.example", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("UnknownOrigin_ShouldNotBeAllowed", func(t *testing.T) {
		// Arrange
		m := newMiddleware(t, func(c *config.Config) {
			c.Server.AllowedOrigins = []string{"https://app.fitlife.example"}
		})
		req := httptest.NewRequest(http.MethodGet, "/api/v1/meals", nil)
		req.Header.Set("Origin", "https://evil.example")
		rec := httptest.NewRecorder()

		// Act
		m.CORS(ok).ServeHTTP(rec, req)

		// Assert
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestWriteError(t *testing.T) {
	t.Run("LockedResource_ShouldAdviseRetry", func(t *testing.T) {
		// Arrange
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/diet-plans", nil)

		// Act
		WriteError(rec, req, errors.NewResourceLockedError("diet plan"))

		// Assert
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, "1", rec.Header().Get("Retry-After"))
	})

	t.Run("NotFound_ShouldNotAdviseRetry", func(t *testing.T) {
		// Arrange
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/diet-plans/DP404", nil)

		// Act
		WriteError(rec, req, errors.NewDietPlanNotFoundError("DP404"))

		// Assert
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Empty(t, rec.Header().Get("Retry-After"))
	})
}
