package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_StatusCode(t *testing.T) {
	tests := []struct {
		err  *AppError
		want int
	}{
		{NewPreferencesNotFoundError("USR001"), http.StatusNotFound},
		{NewDietPlanNotFoundError("DPL001"), http.StatusNotFound},
		{NewNoActiveDietPlanError("USR001"), http.StatusNotFound},
		{NewMealNotFoundError("LM001"), http.StatusNotFound},
		{NewIngredientNotFoundError("Unobtainium"), http.StatusNotFound},
		{NewRecipeNotFoundError("Moon Pie"), http.StatusNotFound},
		{NewInsufficientRecipesError(), http.StatusBadRequest},
		{NewValidationError("bad date"), http.StatusBadRequest},
		{NewResourceLockedError("diet plan"), http.StatusConflict},
		{NewTooManyRequestsError(), http.StatusTooManyRequests},
		{NewDatabaseError("insert plan", stderrors.New("boom")), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.err.Code), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.StatusCode())
		})
	}
}

func TestWrapAndIs(t *testing.T) {
	cause := stderrors.New("connection reset")
	dbErr := NewDatabaseError("log meal", cause)
	wrapped := fmt.Errorf("service: %w", dbErr)

	assert.True(t, Is(wrapped, CodeDatabaseError))
	assert.Equal(t, CodeDatabaseError, GetCode(wrapped))
	assert.Same(t, dbErr, Wrap(wrapped, "ignored"))
	assert.ErrorIs(t, dbErr, cause)

	plain := Wrap(cause, "unexpected")
	require.NotNil(t, plain)
	assert.Equal(t, CodeInternal, plain.Code)
	assert.Nil(t, Wrap(nil, "nothing"))
	assert.Equal(t, CodeInternal, GetCode(cause))
}

func TestToErrorResponse(t *testing.T) {
	resp := ToErrorResponse(NewMealNotFoundError("LM007"), "req-1")

	assert.False(t, resp.Success)
	assert.Equal(t, CodeMealNotFound, resp.Error.Code)
	assert.Equal(t, "req-1", resp.Error.RequestID)
	assert.Equal(t, "LM007", resp.Error.Metadata["meal_id"])
	assert.NotEmpty(t, resp.Error.Timestamp)
}

func TestNewValidationErrors(t *testing.T) {
	err := NewValidationErrors([]ValidationError{
		{Field: "meal_type", Tag: "oneof", Message: "meal_type is invalid"},
		{Field: "calories", Tag: "gte", Message: "calories must be >= 0"},
	})

	assert.Equal(t, CodeValidationFailed, err.Code)
	assert.Equal(t, "meal_type is invalid; calories must be >= 0", err.Details)
}

func TestAppError_Retryable(t *testing.T) {
	assert.True(t, NewResourceLockedError("diet plan").Retryable())
	assert.True(t, NewDatabaseError("load plan", stderrors.New("timeout")).Retryable())
	assert.False(t, NewValidationError("bad").Retryable())
	assert.False(t, (&AppError{Code: "SOMETHING_ELSE"}).Retryable())
	assert.Equal(t, http.StatusInternalServerError, (&AppError{Code: "SOMETHING_ELSE"}).StatusCode())
}
