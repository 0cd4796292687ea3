package main

import (
	"database/sql"
	"fmt"

	"github.com/fitlife/dietplanner/internal/infrastructure/config"
	_ "github.com/jackc/pgx/v5/stdlib"
)

func openMigrationDB(cfg *config.Config) (*sql.DB, error) {
	db, err := sql.Open("pgx", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}
