package database

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"

	"pigmemento/db"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// Command is a goose migration command understood by RunMigrations.
type Command string

const (
	CommandUp     Command = "up"
	CommandDown   Command = "down"
	CommandStatus Command = "status"
)

// Migrations selects where migration files are read from. A nil FS reads Dir
// from disk.
type Migrations struct {
	FS  fs.FS
	Dir string
}

// EmbeddedMigrations returns the migrations compiled into the binary.
func EmbeddedMigrations() Migrations {
	return Migrations{FS: db.Migrations, Dir: db.MigrationsDir}
}

// RunMigrations executes cmd against pool using goose.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool, src Migrations, cmd Command) error {
	sqlDB := stdlib.OpenDBFromPool(pool)
	defer sqlDB.Close()
	return runGoose(ctx, sqlDB, src, cmd)
}

// Migrate applies every pending migration from the embedded set.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	return RunMigrations(ctx, pool, EmbeddedMigrations(), CommandUp)
}

func runGoose(ctx context.Context, sqlDB *sql.DB, src Migrations, cmd Command) error {
	goose.SetBaseFS(src.FS)
	defer goose.SetBaseFS(nil)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	var err error
	switch cmd {
	case CommandUp:
		err = goose.UpContext(ctx, sqlDB, src.Dir)
	case CommandDown:
		err = goose.DownContext(ctx, sqlDB, src.Dir)
	case CommandStatus:
		err = goose.StatusContext(ctx, sqlDB, src.Dir)
	default:
		return fmt.Errorf("unknown migration command %q", cmd)
	}
	if err != nil {
		return fmt.Errorf("migrate %s: %w", cmd, err)
	}
	return nil
}
