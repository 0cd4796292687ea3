// Package inbound defines the interfaces for inbound ports (primary/driving adapters)
// These are the interfaces that the application exposes to the outside world
package inbound

import (
	"context"
	"time"

	"github.com/fitlife/dietplanner/internal/domain/diet"
)

// DietPlanService defines the use cases for profiles, preferences and plan generation
type DietPlanService interface {
	// CalculateDailyCalories never fails; bad input degrades to defaults
	CalculateDailyCalories(profile diet.Profile, goal string) int
	EstimateDailyCalories(ctx context.Context, userID string) (*CalorieEstimateDTO, error)

	GenerateDietPlan(ctx context.Context, cmd GenerateDietPlanCommand) (*DietPlanDTO, error)
	GetUserDietPlans(ctx context.Context, userID string) ([]PlanHeaderDTO, error)
	GetDietPlanDetail(ctx context.Context, planID string) (*DietPlanDTO, error)

	UpdateDietaryPreferences(ctx context.Context, cmd UpdatePreferencesCommand) error
	GetDietaryPreferences(ctx context.Context, userID string) (*PreferenceDTO, error)
	UpsertProfile(ctx context.Context, cmd UpsertProfileCommand) (*ProfileDTO, error)
}

// GenerateDietPlanCommand requests a new plan; zero DurationDays uses the configured default
type GenerateDietPlanCommand struct {
	UserID       string `json:"user_id" validate:"required"`
	DurationDays int    `json:"duration_days" validate:"gte=0"`
	PlanName     string `json:"plan_name" validate:"max=200"`
}

// UpdatePreferencesCommand patches the user's preference set. Nil fields are
// left unchanged; a non-nil IngredientPreferences replaces the whole list.
type UpdatePreferencesCommand struct {
	UserID                string                       `json:"user_id" validate:"required"`
	DietType              *string                      `json:"diet_type" validate:"omitempty,oneof=none vegetarian vegan pescatarian halal kosher None Vegetarian Vegan Pescatarian Halal Kosher"`
	DietaryGoal           *string                      `json:"dietary_goal" validate:"omitempty,max=100"`
	Allergies             *[]string                    `json:"allergies"`
	IngredientPreferences *[]IngredientPreferenceInput `json:"ingredient_preferences" validate:"omitempty,dive"`
}

// IngredientPreferenceInput names a catalog ingredient and a like/dislike
type IngredientPreferenceInput struct {
	IngredientName string `json:"ingredient_name" validate:"required"`
	PreferenceType string `json:"preference_type" validate:"required,oneof=like dislike"`
}

// UpsertProfileCommand creates or replaces the physiological profile
type UpsertProfileCommand struct {
	UserID   string  `json:"user_id" validate:"required"`
	Age      int     `json:"age" validate:"gte=1,lte=120"`
	Gender   string  `json:"gender" validate:"required,oneof=male female Male Female"`
	WeightKg float64 `json:"weight" validate:"gt=0,lte=500"`
	HeightCm float64 `json:"height" validate:"gt=0,lte=300"`
}

// ProfileDTO is the stored profile with derived values
type ProfileDTO struct {
	UserID   string  `json:"user_id"`
	Age      int     `json:"age"`
	Gender   string  `json:"gender"`
	WeightKg float64 `json:"weight"`
	HeightCm float64 `json:"height"`
	BMI      float64 `json:"bmi"`
}

// CalorieEstimateDTO is the calorie budget derived from stored data
type CalorieEstimateDTO struct {
	UserID          string  `json:"user_id"`
	Goal            string  `json:"dietary_goal"`
	BMR             float64 `json:"bmr"`
	DailyCalories   int     `json:"daily_calories"`
	CaloriesPerMeal int     `json:"calories_per_meal"`
	ProfileComplete bool    `json:"profile_complete"`
}

// PreferenceDTO is the user's active preference set
type PreferenceDTO struct {
	PreferenceID          string                    `json:"diet_pref_id"`
	UserID                string                    `json:"user_id"`
	DietType              string                    `json:"diet_type"`
	DietaryGoal           string                    `json:"dietary_goal"`
	Allergies             []string                  `json:"allergies"`
	IngredientPreferences []IngredientPreferenceDTO `json:"ingredient_preferences"`
	CreatedAt             time.Time                 `json:"created_at"`
}

// IngredientPreferenceDTO is one like or dislike
type IngredientPreferenceDTO struct {
	IngredientID   string `json:"ingredient_id"`
	IngredientName string `json:"ingredient_name"`
	PreferenceType string `json:"preference_type"`
}

// PlanHeaderDTO is a diet plan without its meals
type PlanHeaderDTO struct {
	DietPlanID       string                `json:"diet_plan_id"`
	UserID           string                `json:"user_id"`
	PlanName         string                `json:"plan_name"`
	Description      string                `json:"description"`
	StartDate        string                `json:"start_date"`
	EndDate          string                `json:"end_date"`
	DailyCalories    int                   `json:"daily_calories"`
	NutritionTargets diet.NutritionTargets `json:"nutrition_targets"`
	DurationDays     int                   `json:"duration_days"`
	Status           string                `json:"status"`
	CreatedAt        time.Time             `json:"created_at"`
}

// DietPlanDTO is a plan with its meals grouped by day
type DietPlanDTO struct {
	PlanHeaderDTO
	MealPlan     []PlanDayDTO `json:"meal_plan"`
	UsedFallback bool         `json:"used_fallback_recipe,omitempty"`
}

// PlanDayDTO is one "Day N" group
type PlanDayDTO struct {
	Day   int                `json:"day"`
	Label string             `json:"label"`
	Meals []MealPlanEntryDTO `json:"meals"`
}

// MealPlanEntryDTO is one scheduled meal
type MealPlanEntryDTO struct {
	MealPlanID  string     `json:"meal_plan_id"`
	MealType    string     `json:"meal_type"`
	ServingSize float64    `json:"serving_size"`
	Calories    int        `json:"calories"`
	Recipe      *RecipeDTO `json:"recipe,omitempty"`
}

// RecipeDTO is a library recipe
type RecipeDTO struct {
	RecipeID      string             `json:"recipe_id"`
	Title         string             `json:"title"`
	Description   string             `json:"description"`
	Ingredients   []string           `json:"ingredients"`
	Instructions  string             `json:"instructions"`
	NutritionInfo diet.NutrientFacts `json:"nutrition_info"`
	ImageURL      string             `json:"image_url,omitempty"`
}

// NewPlanHeaderDTO maps a plan header for transport
func NewPlanHeaderDTO(p *diet.DietPlan) PlanHeaderDTO {
	return PlanHeaderDTO{
		DietPlanID:       p.ID,
		UserID:           p.UserID,
		PlanName:         p.Name,
		Description:      p.Description,
		StartDate:        diet.FormatDate(p.StartDate),
		EndDate:          diet.FormatDate(p.EndDate),
		DailyCalories:    p.DailyCalories,
		NutritionTargets: p.Targets,
		DurationDays:     p.DurationDays,
		Status:           string(p.Status),
		CreatedAt:        p.CreatedAt,
	}
}

// NewRecipeDTO maps a library recipe for transport
func NewRecipeDTO(r diet.Recipe) *RecipeDTO {
	return &RecipeDTO{
		RecipeID:      r.ID,
		Title:         r.Title,
		Description:   r.Description,
		Ingredients:   r.Ingredients,
		Instructions:  r.Instructions,
		NutritionInfo: r.NutritionInfo,
		ImageURL:      r.ImageURL,
	}
}

// NewDietPlanDTO maps a plan and its meals, grouped by day
func NewDietPlanDTO(p *diet.DietPlan, entries []diet.MealPlanEntry) *DietPlanDTO {
	dto := &DietPlanDTO{PlanHeaderDTO: NewPlanHeaderDTO(p), MealPlan: []PlanDayDTO{}}
	for _, day := range diet.GroupByDay(entries) {
		d := PlanDayDTO{Day: day.Day, Label: day.Label, Meals: make([]MealPlanEntryDTO, 0, len(day.Meals))}
		for _, e := range day.Meals {
			m := MealPlanEntryDTO{
				MealPlanID:  e.ID,
				MealType:    string(e.MealType),
				ServingSize: e.ServingSize,
				Calories:    e.Calories,
			}
			if e.Recipe != nil {
				m.Recipe = NewRecipeDTO(*e.Recipe)
			}
			d.Meals = append(d.Meals, m)
		}
		dto.MealPlan = append(dto.MealPlan, d)
	}
	return dto
}
