package diet

import (
	"time"

	"github.com/fitlife/dietplanner/internal/domain/shared"
)

var (
	_ shared.DomainEvent = DietPlanGeneratedEvent{}
	_ shared.DomainEvent = MealLoggedEvent{}
	_ shared.DomainEvent = ProgressRecomputedEvent{}
)

// DietPlanGeneratedEvent is raised after a new Active plan is committed.
type DietPlanGeneratedEvent struct {
	DietPlanID    string    `json:"diet_plan_id"`
	UserID        string    `json:"user_id"`
	ArchivedPlans int64     `json:"archived_plans"`
	DailyCalories int       `json:"daily_calories"`
	Meals         int       `json:"meals"`
	UsedFallback  bool      `json:"used_fallback"`
	GeneratedAt   time.Time `json:"generated_at"`
}

func (e DietPlanGeneratedEvent) EventName() string     { return "diet.plan_generated" }
func (e DietPlanGeneratedEvent) AggregateID() string   { return e.UserID }
func (e DietPlanGeneratedEvent) OccurredAt() time.Time { return e.GeneratedAt }

// MealLoggedEvent is raised after a meal and its progress row are committed.
type MealLoggedEvent struct {
	MealID     string    `json:"meal_id"`
	UserID     string    `json:"user_id"`
	DietPlanID string    `json:"diet_plan_id"`
	ProgressID string    `json:"progress_id"`
	Calories   float64   `json:"calories"`
	LoggedAt   time.Time `json:"logged_at"`
}

func (e MealLoggedEvent) EventName() string     { return "diet.meal_logged" }
func (e MealLoggedEvent) AggregateID() string   { return e.UserID }
func (e MealLoggedEvent) OccurredAt() time.Time { return e.LoggedAt }

// ProgressRecomputedEvent is raised after a meal edit or delete rebuilt a
// day's totals.
type ProgressRecomputedEvent struct {
	ProgressID       string    `json:"progress_id"`
	UserID           string    `json:"user_id"`
	Date             string    `json:"date"`
	CaloriesConsumed float64   `json:"calories_consumed"`
	MealsCompleted   int       `json:"meals_completed"`
	RecomputedAt     time.Time `json:"recomputed_at"`
}

func (e ProgressRecomputedEvent) EventName() string     { return "diet.progress_recomputed" }
func (e ProgressRecomputedEvent) AggregateID() string   { return e.UserID }
func (e ProgressRecomputedEvent) OccurredAt() time.Time { return e.RecomputedAt }
