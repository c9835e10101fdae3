package repository

import (
	"context"
	"database/sql"
)

// DBTX is the subset of *sqlx.DB (and *sqlx.Tx) the repositories use.
type DBTX interface {
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	Rebind(query string) string
}

// Pinger is implemented by *sqlx.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}
