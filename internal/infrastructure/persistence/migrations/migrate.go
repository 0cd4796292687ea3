// Package migrations versions the postgres schema with golang-migrate and
// exposes the catalog seed shared with the sqlite bootstrap
package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"
)

//go:embed sql/*.sql
var sqlFiles embed.FS

const (
	catalogSeedFile = "sql/000002_seed_catalog.up.sql"
	versionTable    = "schema_migrations"
)

// Migrator applies the embedded migrations to one database
type Migrator struct {
	m   *migrate.Migrate
	log *zap.Logger
}

// migrateLogger routes golang-migrate's output to zap
type migrateLogger struct {
	log *zap.SugaredLogger
}

func (l migrateLogger) Printf(format string, v ...interface{}) {
	l.log.Debugf(strings.TrimSuffix(format, "\n"), v...)
}

func (l migrateLogger) Verbose() bool { return false }

// New creates a migrator over an open postgres connection
func New(db *sql.DB, databaseName string, logger *zap.Logger) (*Migrator, error) {
	src, err := iofs.New(sqlFiles, "sql")
	if err != nil {
		return nil, fmt.Errorf("migration source: %w", err)
	}

	target, err := postgres.WithInstance(db, &postgres.Config{
		MigrationsTable: versionTable,
		DatabaseName:    databaseName,
	})
	if err != nil {
		return nil, fmt.Errorf("migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, databaseName, target)
	if err != nil {
		return nil, fmt.Errorf("migrate instance: %w", err)
	}

	log := logger.Named("migrations")
	m.Log = migrateLogger{log: log.Sugar()}
	return &Migrator{m: m, log: log}, nil
}

// Run applies every pending migration to the database at dsn
func Run(dsn, databaseName string, logger *zap.Logger) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("open migration connection: %w", err)
	}
	defer db.Close()

	mg, err := New(db, databaseName, logger)
	if err != nil {
		return err
	}
	return mg.Up()
}

// Up applies all pending migrations; an up-to-date schema is not an error
func (mg *Migrator) Up() error {
	return mg.apply("up", mg.m.Up)
}

// Down rolls back the latest migration
func (mg *Migrator) Down() error {
	return mg.Steps(-1)
}

// Steps moves n migrations forward, or back when n is negative
func (mg *Migrator) Steps(n int) error {
	return mg.apply(fmt.Sprintf("steps %+d", n), func() error { return mg.m.Steps(n) })
}

// Force records version as applied and clears the dirty flag, without
// running any migration
func (mg *Migrator) Force(version int) error {
	if err := mg.m.Force(version); err != nil {
		return fmt.Errorf("force version %d: %w", version, err)
	}
	mg.log.Warn("Schema version forced", zap.Int("version", version))
	return nil
}

func (mg *Migrator) apply(op string, fn func() error) error {
	from, dirty, err := mg.Version()
	if err != nil {
		return err
	}
	if dirty {
		return fmt.Errorf("schema version %d is dirty; fix it and run migrate force", from)
	}

	err = fn()
	if errors.Is(err, migrate.ErrNoChange) {
		mg.log.Info("Schema up to date", zap.Uint("version", from))
		return nil
	}
	if err != nil {
		return fmt.Errorf("migrate %s: %w", op, err)
	}

	to, _, _ := mg.Version()
	mg.log.Info("Schema migrated", zap.String("op", op), zap.Uint("from", from), zap.Uint("to", to))
	return nil
}

// Version returns the applied version; an empty schema is version 0
func (mg *Migrator) Version() (uint, bool, error) {
	version, dirty, err := mg.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("schema version: %w", err)
	}
	return version, dirty, nil
}

// Close releases the source and database handles
func (mg *Migrator) Close() error {
	srcErr, dbErr := mg.m.Close()
	return errors.Join(srcErr, dbErr)
}

// CatalogSeed returns the SQL that loads the ingredient catalog and recipe
// library. The statements are portable between postgres and sqlite.
func CatalogSeed() (string, error) {
	b, err := sqlFiles.ReadFile(catalogSeedFile)
	if err != nil {
		return "", fmt.Errorf("read catalog seed: %w", err)
	}
	return string(b), nil
}
