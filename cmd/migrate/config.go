package main

import (
	"os"

	"pigmemento/internal/platform/database"
)

// migrationsSource returns the on-disk MIGRATIONS_DIR when set, otherwise the
// migrations embedded in the binary.
func migrationsSource() database.Migrations {
	if v := os.Getenv("MIGRATIONS_DIR"); v != "" {
		return database.Migrations{Dir: v}
	}
	return database.EmbeddedMigrations()
}

// createDir is where new migration files are written.
func createDir() string {
	if v := os.Getenv("MIGRATIONS_DIR"); v != "" {
		return v
	}
	return "db/migrations"
}
