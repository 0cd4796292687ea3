package diet

import "errors"

// Domain errors for diet planning and progress tracking

var (
	// Lookup failures
	ErrPreferencesNotFound = errors.New("dietary preferences not found")
	ErrDietPlanNotFound    = errors.New("diet plan not found")
	ErrNoActiveDietPlan    = errors.New("no active diet plan found for user")
	ErrLoggedMealNotFound  = errors.New("logged meal not found")
	ErrIngredientNotFound  = errors.New("ingredient not found")
	ErrRecipeNotFound      = errors.New("recipe not found")
	ErrProfileNotFound     = errors.New("user profile not found")
	ErrProgressNotFound    = errors.New("progress not found")

	// Plan generation
	ErrInsufficientRecipes = errors.New("not enough suitable recipes to build a plan")
	ErrInvalidDuration     = errors.New("duration_days must be greater than 0")

	// Input validation
	ErrInvalidMealType       = errors.New("meal type must be Breakfast, Lunch, Dinner or Snack")
	ErrInvalidCalories       = errors.New("calories must be zero or greater")
	ErrEmptyMealName         = errors.New("meal name is required")
	ErrNoFieldsToUpdate      = errors.New("no fields to update provided")
	ErrInvalidPreferenceKind = errors.New("ingredient preference must be like or dislike")
	ErrInvalidDietType       = errors.New("unsupported diet type")
)
