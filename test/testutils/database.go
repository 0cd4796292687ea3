// Package testutils provides common testing utilities and infrastructure setup
package testutils

import (
	"context"
	"testing"

	"github.com/fitlife/dietplanner/internal/infrastructure/persistence/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewSQLiteDB returns a migrated in-memory database with the ingredient
// catalog and recipe library loaded
func NewSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()

	db := NewEmptySQLiteDB(t)
	_, err := sqlite.Seed(context.Background(), db)
	require.NoError(t, err, "Failed to seed catalog")
	return db
}

// NewEmptySQLiteDB returns a migrated in-memory database without catalog data
func NewEmptySQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := sqlite.Open("", logger.Default.LogMode(logger.Silent))
	require.NoError(t, err, "Failed to create test database")

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}
