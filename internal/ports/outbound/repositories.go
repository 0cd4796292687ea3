// Package outbound defines the interfaces for outbound ports (secondary/driven adapters)
// These are the interfaces that the application uses to interact with external systems
package outbound

import (
	"context"
	"time"

	"github.com/fitlife/dietplanner/internal/domain/diet"
)

// ProfileRepository stores the physiological profile used by the calorie calculator
type ProfileRepository interface {
	// FindByUserID returns diet.ErrProfileNotFound when the user has no profile
	FindByUserID(ctx context.Context, userID string) (*diet.Profile, error)
	Save(ctx context.Context, profile *diet.Profile) error
}

// PreferenceRepository stores dietary preference sets and their ingredient likes/dislikes
type PreferenceRepository interface {
	// FindLatestByUserID returns the most recently created preference set with
	// its ingredient preferences, or diet.ErrPreferencesNotFound
	FindLatestByUserID(ctx context.Context, userID string) (*diet.Preference, error)
	Create(ctx context.Context, pref *diet.Preference) error
	Update(ctx context.Context, pref *diet.Preference) error
	// ReplaceIngredients deletes the existing ingredient preferences and inserts items
	ReplaceIngredients(ctx context.Context, prefID string, items []diet.IngredientPreference) error
}

// CatalogRepository is read access to ingredients and the recipe library
type CatalogRepository interface {
	ListIngredients(ctx context.Context) ([]diet.Ingredient, error)
	ListRecipes(ctx context.Context) ([]diet.Recipe, error)
	ListIngredientNames(ctx context.Context) ([]string, error)
	// FindIngredientByName matches case-insensitively, or returns diet.ErrIngredientNotFound
	FindIngredientByName(ctx context.Context, name string) (*diet.Ingredient, error)
	// FindRecipeByTitle matches case-insensitively, or returns diet.ErrRecipeNotFound
	FindRecipeByTitle(ctx context.Context, title string) (*diet.Recipe, error)
	FindRecipesByIDs(ctx context.Context, ids []string) ([]diet.Recipe, error)
	SearchRecipeTitles(ctx context.Context, query string, limit int) ([]string, error)
}

// DietPlanRepository persists plan headers and their meal entries
type DietPlanRepository interface {
	Create(ctx context.Context, plan *diet.DietPlan, entries []diet.MealPlanEntry) error
	FindByID(ctx context.Context, id string) (*diet.DietPlan, error)
	// FindByUserID orders plans by start date, newest first
	FindByUserID(ctx context.Context, userID string) ([]diet.DietPlan, error)
	// FindActiveByUserID returns diet.ErrNoActiveDietPlan when no plan is Active
	FindActiveByUserID(ctx context.Context, userID string) (*diet.DietPlan, error)
	// FindLatestByUserID picks the most recently created plan regardless of status
	FindLatestByUserID(ctx context.Context, userID string) (*diet.DietPlan, error)
	// ArchiveActive archives every Active plan of the user and reports how many changed
	ArchiveActive(ctx context.Context, userID string, today time.Time) (int64, error)
	// FindEntries returns the plan's meals ordered by day then meal slot
	FindEntries(ctx context.Context, planID string) ([]diet.MealPlanEntry, error)
}

// ProgressRepository persists per-date progress rows
type ProgressRepository interface {
	FindByID(ctx context.Context, id string) (*diet.Progress, error)
	// FindByUserAndDate returns the user's single row for the date, or
	// diet.ErrProgressNotFound
	FindByUserAndDate(ctx context.Context, userID string, date time.Time) (*diet.Progress, error)
	// FindByPlan orders rows by date, newest first; limit <= 0 means no limit
	FindByPlan(ctx context.Context, planID string, limit int) ([]diet.Progress, error)
	Create(ctx context.Context, progress *diet.Progress) error
	Update(ctx context.Context, progress *diet.Progress) error
}

// LoggedMealRepository persists meal-eaten events
type LoggedMealRepository interface {
	Create(ctx context.Context, meal *diet.LoggedMeal) error
	Update(ctx context.Context, meal *diet.LoggedMeal) error
	Delete(ctx context.Context, id string) error
	// FindByID returns diet.ErrLoggedMealNotFound when absent
	FindByID(ctx context.Context, id string) (*diet.LoggedMeal, error)
	// FindByUserAndDate returns the meals whose creation date is date
	FindByUserAndDate(ctx context.Context, userID string, date time.Time) ([]diet.LoggedMeal, error)
	// FindByUserID orders meals by creation time, newest first
	FindByUserID(ctx context.Context, userID string) ([]diet.LoggedMeal, error)
	FindLatestByUserID(ctx context.Context, userID string) (*diet.LoggedMeal, error)
}

// IDGenerator allocates human readable sequential ids such as DPL001
type IDGenerator interface {
	Next(ctx context.Context, prefix string) (string, error)
}

// Repositories bundles the repositories bound to one database handle
type Repositories struct {
	Profiles    ProfileRepository
	Preferences PreferenceRepository
	Catalog     CatalogRepository
	DietPlans   DietPlanRepository
	Progress    ProgressRepository
	LoggedMeals LoggedMealRepository
	IDs         IDGenerator
}

// UnitOfWork runs multi-step writes atomically
type UnitOfWork interface {
	// Repositories returns repositories outside any transaction
	Repositories() Repositories
	// WithinTx commits when fn returns nil and rolls back otherwise.
	// Only the repositories passed to fn take part in the transaction.
	WithinTx(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
}

// Clock abstracts the current time
type Clock interface {
	Now() time.Time
}

// SystemClock is the wall clock in UTC
type SystemClock struct{}

// Now returns the current UTC time
func (SystemClock) Now() time.Time { return time.Now().UTC() }
