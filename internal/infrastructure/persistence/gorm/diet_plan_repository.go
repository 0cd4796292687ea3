package gorm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fitlife/dietplanner/internal/domain/diet"
	"github.com/fitlife/dietplanner/internal/ports/outbound"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// mealTypeOrder sorts entries Breakfast, Lunch, Dinner, Snack within a day
const mealTypeOrder = `CASE meal_type WHEN 'Breakfast' THEN 1 WHEN 'Lunch' THEN 2 WHEN 'Dinner' THEN 3 ELSE 4 END`

// DietPlanRepository implements the diet plan repository interface using GORM
type DietPlanRepository struct {
	db *gorm.DB
}

// NewDietPlanRepository creates a new diet plan repository
func NewDietPlanRepository(db *gorm.DB) outbound.DietPlanRepository {
	return &DietPlanRepository{db: db}
}

// Create inserts a plan header and all of its meal entries
func (r *DietPlanRepository) Create(ctx context.Context, plan *diet.DietPlan, entries []diet.MealPlanEntry) error {
	db := r.db.WithContext(ctx)
	if err := db.Create(DietPlanToModel(plan)).Error; err != nil {
		return fmt.Errorf("create diet plan: %w", err)
	}
	if len(entries) == 0 {
		return nil
	}

	models := make([]MealPlanModel, len(entries))
	for i, e := range entries {
		models[i] = MealPlanEntryToModel(e)
	}
	if err := db.Omit(clause.Associations).CreateInBatches(&models, 100).Error; err != nil {
		return fmt.Errorf("create meal plan entries: %w", err)
	}
	return nil
}

// FindByID finds a plan header by ID
func (r *DietPlanRepository) FindByID(ctx context.Context, id string) (*diet.DietPlan, error) {
	var model DietPlanModel
	if err := r.db.WithContext(ctx).First(&model, "diet_plan_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, diet.ErrDietPlanNotFound
		}
		return nil, fmt.Errorf("find diet plan: %w", err)
	}
	return ModelToDietPlan(&model)
}

// FindByUserID lists a user's plans, newest start date first
func (r *DietPlanRepository) FindByUserID(ctx context.Context, userID string) ([]diet.DietPlan, error) {
	var models []DietPlanModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("start_date DESC").
		Order("created_at DESC").
		Order("diet_plan_id DESC").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("list diet plans: %w", err)
	}

	plans := make([]diet.DietPlan, 0, len(models))
	for i := range models {
		p, err := ModelToDietPlan(&models[i])
		if err != nil {
			return nil, err
		}
		plans = append(plans, *p)
	}
	return plans, nil
}

// FindActiveByUserID finds the user's Active plan
func (r *DietPlanRepository) FindActiveByUserID(ctx context.Context, userID string) (*diet.DietPlan, error) {
	return r.findOne(r.db.WithContext(ctx).Where("user_id = ? AND status = ?", userID, string(diet.PlanActive)))
}

// FindLatestByUserID finds the user's most recently created plan of any status
func (r *DietPlanRepository) FindLatestByUserID(ctx context.Context, userID string) (*diet.DietPlan, error) {
	return r.findOne(r.db.WithContext(ctx).Where("user_id = ?", userID))
}

func (r *DietPlanRepository) findOne(query *gorm.DB) (*diet.DietPlan, error) {
	var model DietPlanModel
	err := query.
		Order("created_at DESC").
		Order("diet_plan_id DESC").
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, diet.ErrNoActiveDietPlan
		}
		return nil, fmt.Errorf("find diet plan: %w", err)
	}
	return ModelToDietPlan(&model)
}

// ArchiveActive sets every Active plan of the user to Archived, ending today
func (r *DietPlanRepository) ArchiveActive(ctx context.Context, userID string, today time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&DietPlanModel{}).
		Where("user_id = ? AND status = ?", userID, string(diet.PlanActive)).
		Updates(map[string]interface{}{
			"status":   string(diet.PlanArchived),
			"end_date": diet.FormatDate(today),
		})
	if result.Error != nil {
		return 0, fmt.Errorf("archive diet plans: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// FindEntries returns the plan's meal slots with their recipes
func (r *DietPlanRepository) FindEntries(ctx context.Context, planID string) ([]diet.MealPlanEntry, error) {
	var models []MealPlanModel
	err := r.db.WithContext(ctx).
		Preload("Recipe").
		Where("diet_plan_id = ?", planID).
		Order("day_number ASC").
		Order(mealTypeOrder).
		Order("meal_plan_id ASC").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("find meal plan entries: %w", err)
	}

	entries := make([]diet.MealPlanEntry, len(models))
	for i := range models {
		entries[i] = ModelToMealPlanEntry(&models[i])
	}
	return entries, nil
}
