// Package testutils provides mock implementations for testing
package testutils

import (
	"context"
	"time"

	"github.com/fitlife/dietplanner/internal/domain/diet"
	"github.com/fitlife/dietplanner/internal/ports/inbound"
	"github.com/stretchr/testify/mock"
)

// MockDietPlanService is a mock implementation of inbound.DietPlanService
type MockDietPlanService struct {
	mock.Mock
}

func (m *MockDietPlanService) CalculateDailyCalories(profile diet.Profile, goal string) int {
	args := m.Called(profile, goal)
	return args.Int(0)
}

func (m *MockDietPlanService) EstimateDailyCalories(ctx context.Context, userID string) (*inbound.CalorieEstimateDTO, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inbound.CalorieEstimateDTO), args.Error(1)
}

func (m *MockDietPlanService) GenerateDietPlan(ctx context.Context, cmd inbound.GenerateDietPlanCommand) (*inbound.DietPlanDTO, error) {
	args := m.Called(ctx, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inbound.DietPlanDTO), args.Error(1)
}

func (m *MockDietPlanService) GetUserDietPlans(ctx context.Context, userID string) ([]inbound.PlanHeaderDTO, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inbound.PlanHeaderDTO), args.Error(1)
}

func (m *MockDietPlanService) GetDietPlanDetail(ctx context.Context, planID string) (*inbound.DietPlanDTO, error) {
	args := m.Called(ctx, planID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inbound.DietPlanDTO), args.Error(1)
}

func (m *MockDietPlanService) UpdateDietaryPreferences(ctx context.Context, cmd inbound.UpdatePreferencesCommand) error {
	args := m.Called(ctx, cmd)
	return args.Error(0)
}

func (m *MockDietPlanService) GetDietaryPreferences(ctx context.Context, userID string) (*inbound.PreferenceDTO, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inbound.PreferenceDTO), args.Error(1)
}

func (m *MockDietPlanService) UpsertProfile(ctx context.Context, cmd inbound.UpsertProfileCommand) (*inbound.ProfileDTO, error) {
	args := m.Called(ctx, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inbound.ProfileDTO), args.Error(1)
}

// MockProgressService is a mock implementation of inbound.ProgressService
type MockProgressService struct {
	mock.Mock
}

func (m *MockProgressService) LogMeal(ctx context.Context, cmd inbound.LogMealCommand) (*inbound.LogMealResult, error) {
	args := m.Called(ctx, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inbound.LogMealResult), args.Error(1)
}

func (m *MockProgressService) UpdateLoggedMeal(ctx context.Context, mealID string, cmd inbound.UpdateLoggedMealCommand) error {
	args := m.Called(ctx, mealID, cmd)
	return args.Error(0)
}

func (m *MockProgressService) DeleteLoggedMeal(ctx context.Context, mealID string) error {
	args := m.Called(ctx, mealID)
	return args.Error(0)
}

func (m *MockProgressService) GetLoggedMealsByDate(ctx context.Context, userID string) ([]inbound.LoggedMealDayDTO, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inbound.LoggedMealDayDTO), args.Error(1)
}

func (m *MockProgressService) GetProgressForDate(ctx context.Context, userID string, date time.Time) (*inbound.ProgressDTO, error) {
	args := m.Called(ctx, userID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inbound.ProgressDTO), args.Error(1)
}

func (m *MockProgressService) LogDailyProgress(ctx context.Context, cmd inbound.ManualProgressCommand) (*inbound.ProgressDTO, error) {
	args := m.Called(ctx, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inbound.ProgressDTO), args.Error(1)
}

func (m *MockProgressService) GetPlanProgressHistory(ctx context.Context, planID string) ([]inbound.ProgressDTO, error) {
	args := m.Called(ctx, planID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inbound.ProgressDTO), args.Error(1)
}

func (m *MockProgressService) GetDietSummary(ctx context.Context, userID string) (*inbound.DietSummaryDTO, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inbound.DietSummaryDTO), args.Error(1)
}

// MockCatalogService is a mock implementation of inbound.CatalogService
type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) ListIngredientNames(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockCatalogService) SuggestMealNames(ctx context.Context, query string) ([]string, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockCatalogService) GetRecipeCalories(ctx context.Context, title string) (*inbound.RecipeCaloriesDTO, error) {
	args := m.Called(ctx, title)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inbound.RecipeCaloriesDTO), args.Error(1)
}

var (
	_ inbound.DietPlanService = (*MockDietPlanService)(nil)
	_ inbound.ProgressService = (*MockProgressService)(nil)
	_ inbound.CatalogService  = (*MockCatalogService)(nil)
)
