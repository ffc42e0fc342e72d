// Package db carries the SQL migrations so binaries and tests can apply them
// without a checkout of the repository.
package db

import "embed"

//go:embed migrations/*.sql
var Migrations embed.FS

// MigrationsDir is the directory of Migrations that goose reads from.
const MigrationsDir = "migrations"
