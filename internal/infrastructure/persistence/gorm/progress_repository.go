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

// ProgressRepository implements the progress repository interface using GORM
type ProgressRepository struct {
	db *gorm.DB
}

// NewProgressRepository creates a new progress repository
func NewProgressRepository(db *gorm.DB) outbound.ProgressRepository {
	return &ProgressRepository{db: db}
}

// FindByID finds a progress row by ID
func (r *ProgressRepository) FindByID(ctx context.Context, id string) (*diet.Progress, error) {
	return r.first(r.db.WithContext(ctx).Where("progress_id = ?", id))
}

// FindByUserAndDate finds the user's row for date; (user_id, date) is unique
func (r *ProgressRepository) FindByUserAndDate(ctx context.Context, userID string, date time.Time) (*diet.Progress, error) {
	return r.first(r.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, diet.FormatDate(date)))
}

func (r *ProgressRepository) first(query *gorm.DB) (*diet.Progress, error) {
	var model ProgressModel
	err := query.
		Order("created_at DESC").
		Order("progress_id DESC").
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, diet.ErrProgressNotFound
		}
		return nil, fmt.Errorf("find progress: %w", err)
	}
	return ModelToProgress(&model)
}

// FindByPlan lists the plan's rows, newest date first
func (r *ProgressRepository) FindByPlan(ctx context.Context, planID string, limit int) ([]diet.Progress, error) {
	query := r.db.WithContext(ctx).
		Where("diet_plan_id = ?", planID).
		Order("date DESC").
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var models []ProgressModel
	if err := query.Find(&models).Error; err != nil {
		return nil, fmt.Errorf("list progress: %w", err)
	}

	rows := make([]diet.Progress, 0, len(models))
	for i := range models {
		p, err := ModelToProgress(&models[i])
		if err != nil {
			return nil, err
		}
		rows = append(rows, *p)
	}
	return rows, nil
}

// Create inserts a progress row
func (r *ProgressRepository) Create(ctx context.Context, progress *diet.Progress) error {
	if err := r.db.WithContext(ctx).Create(ProgressToModel(progress)).Error; err != nil {
		return fmt.Errorf("create progress: %w", err)
	}
	return nil
}

// Update overwrites the mutable columns of a progress row
func (r *ProgressRepository) Update(ctx context.Context, progress *diet.Progress) error {
	result := r.db.WithContext(ctx).
		Model(&ProgressModel{}).
		Where("progress_id = ?", progress.ID).
		Updates(map[string]interface{}{
			"calories_consumed": progress.CaloriesConsumed,
			"meals_completed":   progress.MealsCompleted,
			"weight":            progress.Weight,
			"notes":             progress.Notes,
		})
	if result.Error != nil {
		return fmt.Errorf("update progress: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return diet.ErrProgressNotFound
	}
	return nil
}
