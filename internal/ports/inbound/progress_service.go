package inbound

import (
	"context"
	"time"

	"github.com/fitlife/dietplanner/internal/domain/diet"
)

// ProgressService defines the use cases for meal logging and progress tracking
type ProgressService interface {
	LogMeal(ctx context.Context, cmd LogMealCommand) (*LogMealResult, error)
	UpdateLoggedMeal(ctx context.Context, mealID string, cmd UpdateLoggedMealCommand) error
	DeleteLoggedMeal(ctx context.Context, mealID string) error
	GetLoggedMealsByDate(ctx context.Context, userID string) ([]LoggedMealDayDTO, error)

	// GetProgressForDate returns a zero snapshot when nothing was logged
	GetProgressForDate(ctx context.Context, userID string, date time.Time) (*ProgressDTO, error)
	LogDailyProgress(ctx context.Context, cmd ManualProgressCommand) (*ProgressDTO, error)
	GetPlanProgressHistory(ctx context.Context, planID string) ([]ProgressDTO, error)

	// GetDietSummary returns a zeroed summary when the user has no Active plan
	GetDietSummary(ctx context.Context, userID string) (*DietSummaryDTO, error)
}

// LogMealCommand records a meal eaten today
type LogMealCommand struct {
	UserID     string  `json:"user_id" validate:"required"`
	DietPlanID string  `json:"diet_plan_id"`
	MealType   string  `json:"meal_type" validate:"required,oneof=Breakfast Lunch Dinner Snack breakfast lunch dinner snack"`
	MealName   string  `json:"meal_name" validate:"required,max=200"`
	Calories   float64 `json:"calories" validate:"gte=0"`
	Notes      string  `json:"notes" validate:"max=1000"`
}

// LogMealResult identifies the rows written by LogMeal
type LogMealResult struct {
	MealID     string      `json:"meal_id"`
	ProgressID string      `json:"progress_id"`
	DietPlanID string      `json:"diet_plan_id"`
	Progress   ProgressDTO `json:"progress"`
}

// UpdateLoggedMealCommand patches a logged meal; at least one field is required
type UpdateLoggedMealCommand struct {
	MealType *string  `json:"meal_type" validate:"omitempty,oneof=Breakfast Lunch Dinner Snack breakfast lunch dinner snack"`
	MealName *string  `json:"meal_name" validate:"omitempty,min=1,max=200"`
	Calories *float64 `json:"calories" validate:"omitempty,gte=0"`
	Notes    *string  `json:"notes" validate:"omitempty,max=1000"`
}

// ManualProgressCommand records weight and notes for today
type ManualProgressCommand struct {
	UserID     string   `json:"user_id" validate:"required"`
	DietPlanID string   `json:"diet_plan_id" validate:"required"`
	Weight     *float64 `json:"weight" validate:"omitempty,gt=0,lte=500"`
	Notes      *string  `json:"notes" validate:"omitempty,max=1000"`
}

// ProgressDTO is a progress row; ProgressID and DietPlanID are null in a zero snapshot
type ProgressDTO struct {
	ProgressID       *string    `json:"progress_id"`
	UserID           string     `json:"user_id"`
	DietPlanID       *string    `json:"diet_plan_id"`
	Date             string     `json:"date"`
	CaloriesConsumed float64    `json:"calories_consumed"`
	MealsCompleted   int        `json:"meals_completed"`
	Weight           *float64   `json:"weight"`
	Notes            string     `json:"notes"`
	CreatedAt        *time.Time `json:"created_at"`
}

// LoggedMealDTO is one logged meal
type LoggedMealDTO struct {
	MealID     string    `json:"meal_id"`
	DietPlanID string    `json:"diet_plan_id,omitempty"`
	ProgressID string    `json:"progress_id,omitempty"`
	MealType   string    `json:"meal_type"`
	MealName   string    `json:"meal_name"`
	Calories   float64   `json:"calories"`
	Notes      string    `json:"notes"`
	LoggedAt   time.Time `json:"logged_at"`
}

// LoggedMealDayDTO groups logged meals by date
type LoggedMealDayDTO struct {
	Date  string          `json:"date"`
	Meals []LoggedMealDTO `json:"meals"`
}

// DietSummaryDTO is the rollup of the Active plan
type DietSummaryDTO struct {
	ActivePlan      *PlanHeaderDTO     `json:"active_plan"`
	OverallProgress OverallProgressDTO `json:"overall_progress"`
	LastLoggedMeal  *LoggedMealDTO     `json:"last_logged_meal"`
}

// OverallProgressDTO holds the summary figures
type OverallProgressDTO struct {
	TotalDaysCompleted           int     `json:"total_days_completed"`
	TotalCaloriesConsumed        float64 `json:"total_calories_consumed"`
	TotalPlannedCalories         int     `json:"total_planned_calories"`
	AverageDailyCaloriesConsumed float64 `json:"average_daily_calories_consumed"`
	AverageDailyCaloriesPlanned  int     `json:"average_daily_calories_planned"`
	CompletionPercentage         float64 `json:"completion_percentage"`
	CurrentDayOfPlan             int     `json:"current_day_of_plan"`
}

// NewProgressDTO maps a stored progress row
func NewProgressDTO(p *diet.Progress) ProgressDTO {
	id, planID, created := p.ID, p.DietPlanID, p.CreatedAt
	dto := ProgressDTO{
		ProgressID:       &id,
		UserID:           p.UserID,
		Date:             diet.FormatDate(p.Date),
		CaloriesConsumed: p.CaloriesConsumed,
		MealsCompleted:   p.MealsCompleted,
		Weight:           p.Weight,
		Notes:            p.Notes,
		CreatedAt:        &created,
	}
	if planID != "" {
		dto.DietPlanID = &planID
	}
	return dto
}

// EmptyProgressDTO is the snapshot for a date without activity
func EmptyProgressDTO(userID string, date time.Time) ProgressDTO {
	return ProgressDTO{UserID: userID, Date: diet.FormatDate(date)}
}

// NewLoggedMealDTO maps a logged meal
func NewLoggedMealDTO(m diet.LoggedMeal) LoggedMealDTO {
	return LoggedMealDTO{
		MealID:     m.ID,
		DietPlanID: m.DietPlanID,
		ProgressID: m.ProgressID,
		MealType:   string(m.MealType),
		MealName:   m.MealName,
		Calories:   m.Calories,
		Notes:      m.Notes,
		LoggedAt:   m.CreatedAt,
	}
}

// NewDietSummaryDTO maps a computed summary
func NewDietSummaryDTO(s diet.DietSummary) *DietSummaryDTO {
	dto := &DietSummaryDTO{
		OverallProgress: OverallProgressDTO{
			TotalDaysCompleted:           s.DaysLogged,
			TotalCaloriesConsumed:        s.TotalCaloriesConsumed,
			TotalPlannedCalories:         s.TotalPlannedCalories,
			AverageDailyCaloriesConsumed: s.AverageDailyCaloriesActual,
			AverageDailyCaloriesPlanned:  s.AverageDailyCaloriesPlanned,
			CompletionPercentage:         s.CompletionPercentage,
			CurrentDayOfPlan:             s.CurrentDayOfPlan,
		},
	}
	if s.Plan != nil {
		h := NewPlanHeaderDTO(s.Plan)
		dto.ActivePlan = &h
	}
	if s.LastLoggedMeal != nil {
		m := NewLoggedMealDTO(*s.LastLoggedMeal)
		dto.LastLoggedMeal = &m
	}
	return dto
}
