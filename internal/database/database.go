package database

import (
	"context"
	"fmt"
	"time"
	"wiki-quiz/internal/config"
	"wiki-quiz/internal/logger"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

func init() {
	// sqlx has no bindvar mapping for the modernc driver name.
	sqlx.BindDriver(config.DriverSQLite, sqlx.QUESTION)
}

// Connect opens a pool for cfg.Driver and verifies it with a ping.
func Connect(ctx context.Context, cfg config.DatabaseConfig) (*sqlx.DB, error) {
	switch cfg.Driver {
	case config.DriverPostgres, config.DriverSQLite:
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}

	db, err := sqlx.Open(cfg.Driver, cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", cfg.Driver, err)
	}

	if cfg.Driver == config.DriverSQLite {
		// one writer at a time; also keeps ":memory:" databases on a single connection
		db.SetMaxOpenConns(1)
	} else {
		if cfg.MaxOpenConns > 0 {
			db.SetMaxOpenConns(cfg.MaxOpenConns)
		}
		if cfg.MaxIdleConns > 0 {
			db.SetMaxIdleConns(cfg.MaxIdleConns)
		}
		db.SetConnMaxLifetime(30 * time.Minute)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping %s database: %w", cfg.Driver, err)
	}

	logger.Get().Info("Connected to database", zap.String("driver", cfg.Driver))
	return db, nil
}
