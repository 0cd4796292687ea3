package gorm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fitlife/dietplanner/internal/domain/diet"
	"github.com/fitlife/dietplanner/internal/ports/outbound"
	"gorm.io/gorm"
)

// LoggedMealRepository implements the logged meal repository interface using GORM
type LoggedMealRepository struct {
	db *gorm.DB
}

// NewLoggedMealRepository creates a new logged meal repository
func NewLoggedMealRepository(db *gorm.DB) outbound.LoggedMealRepository {
	return &LoggedMealRepository{db: db}
}

// Create inserts a logged meal
func (r *LoggedMealRepository) Create(ctx context.Context, meal *diet.LoggedMeal) error {
	if err := r.db.WithContext(ctx).Create(LoggedMealToModel(meal)).Error; err != nil {
		return fmt.Errorf("create logged meal: %w", err)
	}
	return nil
}

// Update overwrites the user editable columns of a logged meal
func (r *LoggedMealRepository) Update(ctx context.Context, meal *diet.LoggedMeal) error {
	result := r.db.WithContext(ctx).
		Model(&LoggedMealModel{}).
		Where("meal_id = ?", meal.ID).
		Updates(map[string]interface{}{
			"meal_type": string(meal.MealType),
			"meal_name": meal.MealName,
			"calories":  meal.Calories,
			"notes":     meal.Notes,
		})
	if result.Error != nil {
		return fmt.Errorf("update logged meal: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return diet.ErrLoggedMealNotFound
	}
	return nil
}

// Delete removes a logged meal
func (r *LoggedMealRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&LoggedMealModel{}, "meal_id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("delete logged meal: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return diet.ErrLoggedMealNotFound
	}
	return nil
}

// FindByID finds a logged meal by ID
func (r *LoggedMealRepository) FindByID(ctx context.Context, id string) (*diet.LoggedMeal, error) {
	return r.first(r.db.WithContext(ctx).Where("meal_id = ?", id))
}

// FindLatestByUserID finds the user's most recently logged meal
func (r *LoggedMealRepository) FindLatestByUserID(ctx context.Context, userID string) (*diet.LoggedMeal, error) {
	return r.first(r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("meal_id DESC"))
}

func (r *LoggedMealRepository) first(query *gorm.DB) (*diet.LoggedMeal, error) {
	var model LoggedMealModel
	if err := query.First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, diet.ErrLoggedMealNotFound
		}
		return nil, fmt.Errorf("find logged meal: %w", err)
	}
	meal := ModelToLoggedMeal(&model)
	return &meal, nil
}

// FindByUserAndDate lists the meals the user logged on date
func (r *LoggedMealRepository) FindByUserAndDate(ctx context.Context, userID string, date time.Time) ([]diet.LoggedMeal, error) {
	return r.find(r.db.WithContext(ctx).
		Where("user_id = ? AND log_date = ?", userID, diet.FormatDate(date)).
		Order("created_at ASC"))
}

// FindByUserID lists all of the user's meals, newest first
func (r *LoggedMealRepository) FindByUserID(ctx context.Context, userID string) ([]diet.LoggedMeal, error) {
	return r.find(r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC"))
}

func (r *LoggedMealRepository) find(query *gorm.DB) ([]diet.LoggedMeal, error) {
	var models []LoggedMealModel
	if err := query.Order("meal_id ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("list logged meals: %w", err)
	}
	meals := make([]diet.LoggedMeal, len(models))
	for i := range models {
		meals[i] = ModelToLoggedMeal(&models[i])
	}
	return meals, nil
}
