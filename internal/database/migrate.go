package database

import (
	"database/sql"
	"errors"
	"fmt"
	"wiki-quiz/database/migrations"
	"wiki-quiz/internal/config"
	"wiki-quiz/internal/logger"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	pgxv5 "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

// NewMigrator builds a migrate instance over db using the embedded migrations
// for driverName. Closing the returned Migrate also closes db.
func NewMigrator(db *sql.DB, driverName string) (*migrate.Migrate, error) {
	var (
		dir      string
		dbDriver migratedb.Driver
		err      error
	)

	switch driverName {
	case config.DriverPostgres:
		dir = migrations.PostgresDir
		dbDriver, err = pgxv5.WithInstance(db, &pgxv5.Config{})
	case config.DriverSQLite:
		dir = migrations.SQLiteDir
		dbDriver, err = sqlite.WithInstance(db, &sqlite.Config{})
	default:
		return nil, fmt.Errorf("unsupported database driver for migrations: %s", driverName)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create %s migration driver: %w", driverName, err)
	}

	src, err := iofs.New(migrations.FS, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded migrations: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, driverName, dbDriver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrator: %w", err)
	}
	return m, nil
}

// ApplyMigrations migrates db to the latest version. db stays open.
func ApplyMigrations(db *sql.DB, driverName string) error {
	m, err := NewMigrator(db, driverName)
	if err != nil {
		return err
	}
	return up(m)
}

// MigrateUp opens a dedicated connection for cfg, migrates it to the latest
// version and closes it again.
func MigrateUp(cfg config.DatabaseConfig) error {
	db, err := sql.Open(cfg.Driver, cfg.URL)
	if err != nil {
		return fmt.Errorf("could not open database: %w", err)
	}

	m, err := NewMigrator(db, cfg.Driver)
	if err != nil {
		_ = db.Close()
		return err
	}
	defer func() {
		if srcErr, dbErr := m.Close(); srcErr != nil || dbErr != nil {
			logger.Get().Warn("Failed to close migrator", zap.NamedError("source", srcErr), zap.NamedError("database", dbErr))
		}
	}()

	return up(m)
}

func up(m *migrate.Migrate) error {
	l := logger.Get()
	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			l.Info("Database schema is up to date")
			return nil
		}
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil {
		return fmt.Errorf("failed to read migration version: %w", err)
	}
	l.Info("Migrations completed successfully", zap.Uint("version", version), zap.Bool("dirty", dirty))
	return nil
}

// AutoMigrate migrates the database behind db. SQLite runs on db itself since
// an in-memory database is invisible to other handles; postgres gets a
// dedicated connection.
func AutoMigrate(db *sql.DB, cfg config.DatabaseConfig) error {
	if cfg.Driver == config.DriverSQLite {
		return ApplyMigrations(db, cfg.Driver)
	}
	return MigrateUp(cfg)
}
