package main

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"wiki-quiz/internal/config"
	"wiki-quiz/internal/database"
	"wiki-quiz/internal/logger"

	"github.com/golang-migrate/migrate/v4"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var flagSteps int

var rootCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the wiki-quiz database schema",
	Long: `Apply or roll back the embedded schema migrations.

The database is taken from DATABASE_DRIVER and DATABASE_URL (or configs/config.yaml).`,
}

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return database.MigrateUp(cfg.Database)
	},
}

var downCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back migrations (all of them unless --steps is given)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return withMigrator(cfg.Database, func(m *migrate.Migrate) error {
			if flagSteps > 0 {
				err = m.Steps(-flagSteps)
			} else {
				err = m.Down()
			}
			if errors.Is(err, migrate.ErrNoChange) {
				logger.Get().Info("Nothing to roll back")
				return nil
			}
			if err != nil {
				return fmt.Errorf("failed to roll back migrations: %w", err)
			}
			logger.Get().Info("Rollback completed")
			return nil
		})
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current schema version",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return withMigrator(cfg.Database, func(m *migrate.Migrate) error {
			version, dirty, err := m.Version()
			if errors.Is(err, migrate.ErrNilVersion) {
				fmt.Println("No migrations applied.")
				return nil
			}
			if err != nil {
				return fmt.Errorf("failed to read schema version: %w", err)
			}
			fmt.Printf("version %d (dirty: %t)\n", version, dirty)
			return nil
		})
	},
}

func init() {
	downCmd.Flags().IntVar(&flagSteps, "steps", 0, "number of migrations to roll back")
	rootCmd.AddCommand(upCmd, downCmd, versionCmd)
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if cfg.Database.URL == "" {
		return nil, errors.New("database.url is not set; export DATABASE_URL")
	}
	if err := logger.Initialize(cfg.Logger); err != nil {
		return nil, err
	}
	return cfg, nil
}

func withMigrator(cfg config.DatabaseConfig, fn func(m *migrate.Migrate) error) error {
	db, err := sql.Open(cfg.Driver, cfg.URL)
	if err != nil {
		return fmt.Errorf("could not open database: %w", err)
	}
	m, err := database.NewMigrator(db, cfg.Driver)
	if err != nil {
		_ = db.Close()
		return err
	}
	defer func() {
		if srcErr, dbErr := m.Close(); srcErr != nil || dbErr != nil {
			logger.Get().Warn("Failed to close migrator", zap.NamedError("source", srcErr), zap.NamedError("database", dbErr))
		}
	}()
	return fn(m)
}

func main() {
	defer func() { _ = logger.Sync() }()
	if err := rootCmd.Execute(); err != nil {
		log.Printf("migrate: %v", err)
		os.Exit(1)
	}
}
