// Package sqlite opens the embedded single-file database used by default
package sqlite

import (
	"context"
	"fmt"
	"strings"

	gormModels "github.com/fitlife/dietplanner/internal/infrastructure/persistence/gorm"
	"github.com/fitlife/dietplanner/internal/infrastructure/persistence/migrations"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const memoryPath = ":memory:"

// dsn adds the connection pragmas to path. File databases use WAL so readers
// do not block the writer.
func dsn(path string) string {
	if path == "" {
		path = memoryPath
	}
	params := []string{"_busy_timeout=5000"}
	if path != memoryPath {
		params = append(params, "_journal_mode=WAL")
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + strings.Join(params, "&")
}

// Open connects to the database at path and migrates the schema. An empty
// path opens a private in-memory database.
func Open(path string, gormLogger logger.Interface) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn(path)), &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", path, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sqlite handle: %w", err)
	}
	// one writer; an in-memory database lives on a single connection
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(gormModels.AllModels()...); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("migrate sqlite schema: %w", err)
	}
	return db, nil
}

// Seed loads the ingredient catalog and recipe library into an empty
// catalog. It reports whether rows were inserted.
func Seed(ctx context.Context, db *gorm.DB) (bool, error) {
	var count int64
	if err := db.WithContext(ctx).Model(&gormModels.IngredientModel{}).Count(&count).Error; err != nil {
		return false, fmt.Errorf("count ingredients: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	seed, err := migrations.CatalogSeed()
	if err != nil {
		return false, err
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Exec(seed).Error
	})
	if err != nil {
		return false, fmt.Errorf("seed catalog: %w", err)
	}
	return true, nil
}
