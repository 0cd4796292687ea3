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

// ProfileRepository implements the profile repository interface using GORM
type ProfileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *gorm.DB) outbound.ProfileRepository {
	return &ProfileRepository{db: db}
}

// FindByUserID finds a user's profile
func (r *ProfileRepository) FindByUserID(ctx context.Context, userID string) (*diet.Profile, error) {
	var model ProfileModel
	if err := r.db.WithContext(ctx).First(&model, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, diet.ErrProfileNotFound
		}
		return nil, fmt.Errorf("find profile: %w", err)
	}
	return ModelToProfile(&model), nil
}

// Save inserts or replaces a user's profile
func (r *ProfileRepository) Save(ctx context.Context, profile *diet.Profile) error {
	model := ProfileToModel(profile)
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"age", "gender", "weight", "height", "updated_at"}),
		}).
		Create(model).Error
	if err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}
