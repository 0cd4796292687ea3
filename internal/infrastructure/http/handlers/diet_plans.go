package handlers

import (
	"net/http"

	"github.com/fitlife/dietplanner/internal/ports/inbound"
	"github.com/go-chi/chi/v5"
)

// GenerateDietPlan handles POST /api/v1/diet-plans
func (h *APIHandlers) GenerateDietPlan(w http.ResponseWriter, r *http.Request) {
	var cmd inbound.GenerateDietPlanCommand
	if err := h.decode(r, &cmd); err != nil {
		h.respondError(w, r, err)
		return
	}
	if err := h.validator.Struct(&cmd); err != nil {
		h.respondError(w, r, err)
		return
	}

	plan, err := h.dietPlans.GenerateDietPlan(r.Context(), cmd)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respond(w, r, http.StatusCreated, plan, "Diet plan generated successfully")
}

// GetUserDietPlans handles GET /api/v1/users/{userID}/diet-plans
func (h *APIHandlers) GetUserDietPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := h.dietPlans.GetUserDietPlans(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, plans, "")
}

// GetDietPlan handles GET /api/v1/diet-plans/{planID}
func (h *APIHandlers) GetDietPlan(w http.ResponseWriter, r *http.Request) {
	plan, err := h.dietPlans.GetDietPlanDetail(r.Context(), chi.URLParam(r, "planID"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, plan, "")
}

// UpdatePreferences handles PUT /api/v1/users/{userID}/preferences
func (h *APIHandlers) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	var cmd inbound.UpdatePreferencesCommand
	if err := h.decode(r, &cmd); err != nil {
		h.respondError(w, r, err)
		return
	}
	cmd.UserID = chi.URLParam(r, "userID")
	if err := h.validator.Struct(&cmd); err != nil {
		h.respondError(w, r, err)
		return
	}

	if err := h.dietPlans.UpdateDietaryPreferences(r.Context(), cmd); err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, nil, "Dietary preferences updated successfully")
}

// GetPreferences handles GET /api/v1/users/{userID}/preferences
func (h *APIHandlers) GetPreferences(w http.ResponseWriter, r *http.Request) {
	prefs, err := h.dietPlans.GetDietaryPreferences(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, prefs, "")
}

// UpsertProfile handles PUT /api/v1/users/{userID}/profile
func (h *APIHandlers) UpsertProfile(w http.ResponseWriter, r *http.Request) {
	var cmd inbound.UpsertProfileCommand
	if err := h.decode(r, &cmd); err != nil {
		h.respondError(w, r, err)
		return
	}
	cmd.UserID = chi.URLParam(r, "userID")
	if err := h.validator.Struct(&cmd); err != nil {
		h.respondError(w, r, err)
		return
	}

	profile, err := h.dietPlans.UpsertProfile(r.Context(), cmd)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, profile, "Profile saved successfully")
}

// EstimateCalories handles GET /api/v1/users/{userID}/calories
func (h *APIHandlers) EstimateCalories(w http.ResponseWriter, r *http.Request) {
	estimate, err := h.dietPlans.EstimateDailyCalories(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, estimate, "")
}
