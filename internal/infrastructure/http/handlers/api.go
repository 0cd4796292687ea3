// Package handlers provides HTTP handlers for the REST API
package handlers

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"

	"github.com/fitlife/dietplanner/internal/infrastructure/http/middleware"
	"github.com/fitlife/dietplanner/internal/ports/inbound"
	"github.com/fitlife/dietplanner/pkg/errors"
	"github.com/fitlife/dietplanner/pkg/logger"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

// APIHandlers handles REST API requests
type APIHandlers struct {
	dietPlans inbound.DietPlanService
	progress  inbound.ProgressService
	catalog   inbound.CatalogService
	validator *Validator
	logger    *zap.Logger
}

// NewAPIHandlers creates a new API handlers instance
func NewAPIHandlers(
	dietPlans inbound.DietPlanService,
	progress inbound.ProgressService,
	catalog inbound.CatalogService,
	logger *zap.Logger,
) *APIHandlers {
	return &APIHandlers{
		dietPlans: dietPlans,
		progress:  progress,
		catalog:   catalog,
		validator: NewValidator(),
		logger:    logger.Named("api-handlers"),
	}
}

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

func (h *APIHandlers) respond(w http.ResponseWriter, r *http.Request, status int, data interface{}, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(APIResponse{Success: true, Data: data, Message: message}); err != nil {
		logger.FromContext(r.Context(), h.logger).Error("Failed to encode JSON response", zap.Error(err))
	}
}

// respondError renders err; anything that is not an AppError is hidden behind a 500
func (h *APIHandlers) respondError(w http.ResponseWriter, r *http.Request, err error) {
	var appErr *errors.AppError
	if !stderrors.As(err, &appErr) {
		logger.FromContext(r.Context(), h.logger).Error("Unhandled error", zap.Error(err))
		appErr = errors.NewInternalError("")
	} else if appErr.StatusCode() >= http.StatusInternalServerError {
		logger.FromContext(r.Context(), h.logger).Error("Request failed",
			zap.String("code", string(appErr.Code)),
			zap.Error(appErr),
		)
	}
	middleware.WriteError(w, r, appErr)
}

// decode reads a JSON body into dst
func (h *APIHandlers) decode(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(dst); err != nil {
		if stderrors.Is(err, io.EOF) {
			return errors.NewBadRequestError("Request body is required")
		}
		return errors.NewBadRequestError("Invalid JSON body").WithCause(err)
	}
	return nil
}
