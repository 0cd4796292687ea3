// Package errors provides the structured application error rendered by the API
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ErrorCode identifies an error class in API responses
type ErrorCode string

const (
	CodeBadRequest       ErrorCode = "BAD_REQUEST"
	CodeNotFound         ErrorCode = "NOT_FOUND"
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	CodeTooManyRequests  ErrorCode = "TOO_MANY_REQUESTS"

	CodeInternal      ErrorCode = "INTERNAL_ERROR"
	CodeDatabaseError ErrorCode = "DATABASE_ERROR"

	// Diet planning
	CodePreferencesNotFound ErrorCode = "PREFERENCES_NOT_FOUND"
	CodeDietPlanNotFound    ErrorCode = "DIET_PLAN_NOT_FOUND"
	CodeNoActiveDietPlan    ErrorCode = "NO_ACTIVE_DIET_PLAN"
	CodeMealNotFound        ErrorCode = "MEAL_NOT_FOUND"
	CodeIngredientNotFound  ErrorCode = "INGREDIENT_NOT_FOUND"
	CodeRecipeNotFound      ErrorCode = "RECIPE_NOT_FOUND"
	CodeInsufficientRecipes ErrorCode = "INSUFFICIENT_RECIPES"
	CodeResourceLocked      ErrorCode = "RESOURCE_LOCKED"
)

// codeInfo is the HTTP status and default message of a code
type codeInfo struct {
	status    int
	message   string
	retryable bool
}

var catalog = map[ErrorCode]codeInfo{
	CodeBadRequest:       {http.StatusBadRequest, "Bad request", false},
	CodeNotFound:         {http.StatusNotFound, "Resource not found", false},
	CodeValidationFailed: {http.StatusBadRequest, "Validation failed", false},
	CodeTooManyRequests:  {http.StatusTooManyRequests, "Too many requests", true},
	CodeInternal:         {http.StatusInternalServerError, "An unexpected error occurred", false},
	CodeDatabaseError:    {http.StatusInternalServerError, "Database operation failed", true},

	CodePreferencesNotFound: {http.StatusNotFound, "Dietary preferences not found", false},
	CodeDietPlanNotFound:    {http.StatusNotFound, "Diet plan not found", false},
	CodeNoActiveDietPlan:    {http.StatusNotFound, "No active diet plan found for user", false},
	CodeMealNotFound:        {http.StatusNotFound, "Meal not found", false},
	CodeIngredientNotFound:  {http.StatusNotFound, "Ingredient not found", false},
	CodeRecipeNotFound:      {http.StatusNotFound, "Recipe not found", false},
	CodeInsufficientRecipes: {http.StatusBadRequest, "Not enough suitable recipes found to create a diet plan", false},
	CodeResourceLocked:      {http.StatusConflict, "Resource locked", true},
}

// AppError is an error carrying an API code, a client-safe message and
// optional metadata. Cause is logged but never rendered.
type AppError struct {
	Code     ErrorCode              `json:"code"`
	Message  string                 `json:"message"`
	Details  string                 `json:"details,omitempty"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
	Cause    error                  `json:"-"`
}

func (e *AppError) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Code))
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.Details != "" {
		b.WriteString(" (" + e.Details + ")")
	}
	if e.Cause != nil {
		b.WriteString(": " + e.Cause.Error())
	}
	return b.String()
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// StatusCode returns the HTTP status for the code; unknown codes are 500
func (e *AppError) StatusCode() int {
	if info, ok := catalog[e.Code]; ok {
		return info.status
	}
	return http.StatusInternalServerError
}

// Retryable reports whether the same request may succeed later
func (e *AppError) Retryable() bool {
	return catalog[e.Code].retryable
}

// WithMetadata adds a metadata entry
func (e *AppError) WithMetadata(key string, value interface{}) *AppError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// WithCause attaches the underlying error
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// New creates an error with the code's default message
func New(code ErrorCode, details string) *AppError {
	return &AppError{Code: code, Message: catalog[code].message, Details: details}
}

// NewAppError creates an error with an explicit message
func NewAppError(code ErrorCode, message, details string) *AppError {
	return &AppError{Code: code, Message: message, Details: details}
}

func NewBadRequestError(message string) *AppError {
	return NewAppError(CodeBadRequest, message, "")
}

func NewValidationError(details string) *AppError {
	return New(CodeValidationFailed, details)
}

// NewInternalError hides the failure behind message, or the default one
func NewInternalError(message string) *AppError {
	if message == "" {
		return New(CodeInternal, "")
	}
	return NewAppError(CodeInternal, message, "")
}

func NewTooManyRequestsError() *AppError {
	return New(CodeTooManyRequests, "Rate limit exceeded, retry later")
}

// NewDatabaseError reports a failed persistence operation
func NewDatabaseError(operation string, cause error) *AppError {
	return New(CodeDatabaseError, "Failed to "+operation).WithCause(cause)
}

func NewPreferencesNotFoundError(userID string) *AppError {
	return New(CodePreferencesNotFound, fmt.Sprintf("User %s has not set dietary preferences", userID)).
		WithMetadata("user_id", userID)
}

func NewDietPlanNotFoundError(planID string) *AppError {
	return New(CodeDietPlanNotFound, fmt.Sprintf("Diet plan with ID %s does not exist", planID)).
		WithMetadata("diet_plan_id", planID)
}

func NewNoActiveDietPlanError(userID string) *AppError {
	return New(CodeNoActiveDietPlan, "Generate a diet plan before logging meals").
		WithMetadata("user_id", userID)
}

func NewMealNotFoundError(mealID string) *AppError {
	return New(CodeMealNotFound, fmt.Sprintf("Logged meal with ID %s does not exist", mealID)).
		WithMetadata("meal_id", mealID)
}

func NewIngredientNotFoundError(name string) *AppError {
	return New(CodeIngredientNotFound, "Ingredient not found: "+name).
		WithMetadata("ingredient_name", name)
}

func NewRecipeNotFoundError(title string) *AppError {
	return New(CodeRecipeNotFound, fmt.Sprintf("Recipe %q does not exist", title)).
		WithMetadata("title", title)
}

func NewInsufficientRecipesError() *AppError {
	return New(CodeInsufficientRecipes, "No recipe matches the dietary preferences and no default recipe is available")
}

// NewResourceLockedError reports that another request holds resource
func NewResourceLockedError(resource string) *AppError {
	return New(CodeResourceLocked, fmt.Sprintf("The %s is currently locked by another operation", resource)).
		WithMetadata("resource", resource)
}

// Wrap returns err's AppError, or hides err behind an internal error
func Wrap(err error, message string) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	return NewInternalError(message).WithCause(err)
}

// Is reports whether err carries code
func Is(err error, code ErrorCode) bool {
	return GetCode(err) == code && err != nil
}

// GetCode returns err's code; errors that are not AppErrors are internal
func GetCode(err error) ErrorCode {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}

// ValidationError is one failed field rule
type ValidationError struct {
	Field   string      `json:"field"`
	Value   interface{} `json:"value"`
	Tag     string      `json:"tag"`
	Message string      `json:"message"`
}

// ValidationErrors joins field failures
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return "validation failed"
	}
	messages := make([]string, len(v))
	for i, fe := range v {
		messages[i] = fe.Message
	}
	return strings.Join(messages, "; ")
}

// NewValidationErrors reports every field failure in Details and metadata
func NewValidationErrors(fields []ValidationError) *AppError {
	v := ValidationErrors(fields)
	return New(CodeValidationFailed, v.Error()).WithMetadata("validation_errors", v)
}

// ErrorResponse is the error envelope of the JSON API
type ErrorResponse struct {
	Success bool         `json:"success"`
	Error   ErrorDetails `json:"error"`
}

// ErrorDetails is the body of ErrorResponse
type ErrorDetails struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	RequestID string                 `json:"request_id,omitempty"`
	Timestamp string                 `json:"timestamp"`
}

// ToErrorResponse renders err for the client
func ToErrorResponse(err *AppError, requestID string) ErrorResponse {
	return ErrorResponse{
		Error: ErrorDetails{
			Code:      err.Code,
			Message:   err.Message,
			Details:   err.Details,
			Metadata:  err.Metadata,
			RequestID: requestID,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		},
	}
}
