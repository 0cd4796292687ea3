package handlers

import (
	"net/http"
	"strings"

	"github.com/fitlife/dietplanner/pkg/errors"
)

// ListIngredients handles GET /api/v1/ingredients
func (h *APIHandlers) ListIngredients(w http.ResponseWriter, r *http.Request) {
	names, err := h.catalog.ListIngredientNames(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, names, "")
}

// SuggestMeals handles GET /api/v1/meals/suggestions?q=
func (h *APIHandlers) SuggestMeals(w http.ResponseWriter, r *http.Request) {
	names, err := h.catalog.SuggestMealNames(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, names, "")
}

// GetRecipeCalories handles GET /api/v1/recipes/calories?title=
func (h *APIHandlers) GetRecipeCalories(w http.ResponseWriter, r *http.Request) {
	title := strings.TrimSpace(r.URL.Query().Get("title"))
	if title == "" {
		h.respondError(w, r, errors.NewBadRequestError("title query parameter is required"))
		return
	}

	calories, err := h.catalog.GetRecipeCalories(r.Context(), title)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, calories, "")
}
