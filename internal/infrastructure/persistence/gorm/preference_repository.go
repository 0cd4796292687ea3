package gorm

import (
	"context"
	"errors"
	"fmt"

	"github.com/fitlife/dietplanner/internal/domain/diet"
	"github.com/fitlife/dietplanner/internal/ports/outbound"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PreferenceRepository implements the dietary preference repository using GORM
type PreferenceRepository struct {
	db *gorm.DB
}

// NewPreferenceRepository creates a new preference repository
func NewPreferenceRepository(db *gorm.DB) outbound.PreferenceRepository {
	return &PreferenceRepository{db: db}
}

// FindLatestByUserID loads the user's most recently created preference set
// together with its ingredient preferences.
func (r *PreferenceRepository) FindLatestByUserID(ctx context.Context, userID string) (*diet.Preference, error) {
	var model PreferenceModel
	err := r.db.WithContext(ctx).
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Ingredients.Ingredient").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("diet_pref_id DESC").
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, diet.ErrPreferencesNotFound
		}
		return nil, fmt.Errorf("find preferences: %w", err)
	}
	return ModelToPreference(&model), nil
}

// Create inserts a preference set without its ingredient preferences
func (r *PreferenceRepository) Create(ctx context.Context, pref *diet.Preference) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(PreferenceToModel(pref)).Error; err != nil {
		return fmt.Errorf("create preferences: %w", err)
	}
	return nil
}

// Update writes the textual fields of a preference set
func (r *PreferenceRepository) Update(ctx context.Context, pref *diet.Preference) error {
	model := PreferenceToModel(pref)
	result := r.db.WithContext(ctx).
		Model(&PreferenceModel{}).
		Where("diet_pref_id = ?", pref.ID).
		Updates(map[string]interface{}{
			"diet_type":    model.DietType,
			"dietary_goal": model.DietaryGoal,
			"allergies":    model.Allergies,
		})
	if result.Error != nil {
		return fmt.Errorf("update preferences: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return diet.ErrPreferencesNotFound
	}
	return nil
}

// ReplaceIngredients deletes the set's ingredient preferences and inserts items
func (r *PreferenceRepository) ReplaceIngredients(ctx context.Context, prefID string, items []diet.IngredientPreference) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("diet_pref_id = ?", prefID).Delete(&IngredientPreferenceModel{}).Error; err != nil {
		return fmt.Errorf("clear ingredient preferences: %w", err)
	}
	if len(items) == 0 {
		return nil
	}

	models := make([]IngredientPreferenceModel, len(items))
	for i, item := range items {
		models[i] = IngredientPreferenceModel{
			PreferenceID: prefID,
			IngredientID: item.IngredientID,
			Preference:   string(item.Kind),
		}
	}
	if err := db.Omit(clause.Associations).Create(&models).Error; err != nil {
		return fmt.Errorf("insert ingredient preferences: %w", err)
	}
	return nil
}
