package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	gormModels "github.com/fitlife/dietplanner/internal/infrastructure/persistence/gorm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"
)

func TestDSN(t *testing.T) {
	tests := []struct {
		name string
		path string
		want string
	}{
		{"empty is memory", "", ":memory:?_busy_timeout=5000"},
		{"memory skips wal", ":memory:", ":memory:?_busy_timeout=5000"},
		{"file uses wal", "data/diet.db", "data/diet.db?_busy_timeout=5000&_journal_mode=WAL"},
		{"existing query", "diet.db?cache=shared", "diet.db?cache=shared&_busy_timeout=5000&_journal_mode=WAL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, dsn(tt.path))
		})
	}
}

func TestSeed_ShouldLoadCatalogOnce(t *testing.T) {
	// Arrange
	ctx := context.Background()
	db, err := Open(filepath.Join(t.TempDir(), "diet.db"), logger.Default.LogMode(logger.Silent))
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	// Act
	first, err := Seed(ctx, db)
	require.NoError(t, err)
	second, err := Seed(ctx, db)
	require.NoError(t, err)

	// Assert
	assert.True(t, first)
	assert.False(t, second)
	var ingredients, recipes int64
	require.NoError(t, db.Model(&gormModels.IngredientModel{}).Count(&ingredients).Error)
	require.NoError(t, db.Model(&gormModels.RecipeModel{}).Count(&recipes).Error)
	assert.Equal(t, int64(40), ingredients)
	assert.Equal(t, int64(47), recipes)
}
