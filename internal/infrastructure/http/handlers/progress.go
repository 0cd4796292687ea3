package handlers

import (
	"net/http"

	"github.com/fitlife/dietplanner/internal/domain/diet"
	"github.com/fitlife/dietplanner/internal/ports/inbound"
	"github.com/fitlife/dietplanner/pkg/errors"
	"github.com/go-chi/chi/v5"
)

// LogMeal handles POST /api/v1/meals
func (h *APIHandlers) LogMeal(w http.ResponseWriter, r *http.Request) {
	var cmd inbound.LogMealCommand
	if err := h.decode(r, &cmd); err != nil {
		h.respondError(w, r, err)
		return
	}
	if err := h.validator.Struct(&cmd); err != nil {
		h.respondError(w, r, err)
		return
	}

	result, err := h.progress.LogMeal(r.Context(), cmd)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respond(w, r, http.StatusCreated, result, "Meal logged successfully")
}

// UpdateLoggedMeal handles PATCH /api/v1/meals/{mealID}
func (h *APIHandlers) UpdateLoggedMeal(w http.ResponseWriter, r *http.Request) {
	var cmd inbound.UpdateLoggedMealCommand
	if err := h.decode(r, &cmd); err != nil {
		h.respondError(w, r, err)
		return
	}
	if err := h.validator.Struct(&cmd); err != nil {
		h.respondError(w, r, err)
		return
	}

	if err := h.progress.UpdateLoggedMeal(r.Context(), chi.URLParam(r, "mealID"), cmd); err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, nil, "Meal updated successfully")
}

// DeleteLoggedMeal handles DELETE /api/v1/meals/{mealID}
func (h *APIHandlers) DeleteLoggedMeal(w http.ResponseWriter, r *http.Request) {
	if err := h.progress.DeleteLoggedMeal(r.Context(), chi.URLParam(r, "mealID")); err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, nil, "Meal deleted successfully")
}

// GetLoggedMeals handles GET /api/v1/users/{userID}/meals
func (h *APIHandlers) GetLoggedMeals(w http.ResponseWriter, r *http.Request) {
	days, err := h.progress.GetLoggedMealsByDate(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, days, "")
}

// LogDailyProgress handles POST /api/v1/progress
func (h *APIHandlers) LogDailyProgress(w http.ResponseWriter, r *http.Request) {
	var cmd inbound.ManualProgressCommand
	if err := h.decode(r, &cmd); err != nil {
		h.respondError(w, r, err)
		return
	}
	if err := h.validator.Struct(&cmd); err != nil {
		h.respondError(w, r, err)
		return
	}

	progress, err := h.progress.LogDailyProgress(r.Context(), cmd)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, progress, "Progress saved successfully")
}

// GetProgressForDate handles GET /api/v1/users/{userID}/progress/{date}
func (h *APIHandlers) GetProgressForDate(w http.ResponseWriter, r *http.Request) {
	date, err := diet.ParseDate(chi.URLParam(r, "date"))
	if err != nil {
		h.respondError(w, r, errors.NewBadRequestError("date must be formatted as YYYY-MM-DD"))
		return
	}

	progress, err := h.progress.GetProgressForDate(r.Context(), chi.URLParam(r, "userID"), date)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, progress, "")
}

// GetPlanProgress handles GET /api/v1/diet-plans/{planID}/progress
func (h *APIHandlers) GetPlanProgress(w http.ResponseWriter, r *http.Request) {
	history, err := h.progress.GetPlanProgressHistory(r.Context(), chi.URLParam(r, "planID"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, history, "")
}

// GetDietSummary handles GET /api/v1/users/{userID}/summary
func (h *APIHandlers) GetDietSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.progress.GetDietSummary(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, summary, "")
}
