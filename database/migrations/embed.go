// Package migrations embeds the SQL schema migrations for every supported dialect.
package migrations

import "embed"

// FS holds postgres/*.sql and sqlite/*.sql in golang-migrate's
// <version>_<name>.<up|down>.sql layout.
//
//go:embed postgres/*.sql sqlite/*.sql
var FS embed.FS

const (
	PostgresDir = "postgres"
	SQLiteDir   = "sqlite"
)
