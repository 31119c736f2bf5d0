// Package db holds the SQL schema migrations, embedded so binaries and tests
// can apply them without a checkout on disk.
package db

import "embed"

// MigrationsDir is the directory inside Migrations that goose reads from.
const MigrationsDir = "migrations"

//go:embed migrations/*.sql
var Migrations embed.FS
