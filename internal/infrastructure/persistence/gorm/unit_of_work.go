package gorm

import (
	"context"

	"github.com/fitlife/dietplanner/internal/ports/outbound"
	"gorm.io/gorm"
)

// UnitOfWork binds the repositories to a database handle and runs
// transactions with gorm's Transaction helper
type UnitOfWork struct {
	db *gorm.DB
}

// NewUnitOfWork creates a unit of work over db
func NewUnitOfWork(db *gorm.DB) outbound.UnitOfWork {
	return &UnitOfWork{db: db}
}

// Repositories returns repositories that run outside any transaction
func (u *UnitOfWork) Repositories() outbound.Repositories {
	return NewRepositories(u.db)
}

// WithinTx runs fn in a transaction that commits when fn returns nil
func (u *UnitOfWork) WithinTx(ctx context.Context, fn func(ctx context.Context, repos outbound.Repositories) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, NewRepositories(tx))
	})
}

// NewRepositories binds every repository to db
func NewRepositories(db *gorm.DB) outbound.Repositories {
	return outbound.Repositories{
		Profiles:    NewProfileRepository(db),
		Preferences: NewPreferenceRepository(db),
		Catalog:     NewCatalogRepository(db),
		DietPlans:   NewDietPlanRepository(db),
		Progress:    NewProgressRepository(db),
		LoggedMeals: NewLoggedMealRepository(db),
		IDs:         NewSequenceGenerator(db),
	}
}
