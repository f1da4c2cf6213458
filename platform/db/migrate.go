package db

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"

	// Registers the pgx driver for database/sql, which goose requires.
	_ "github.com/jackc/pgx/v5/stdlib"
)

// RunMigrations applies all pending goose migrations from the given
// filesystem. Goose works against database/sql, so migrations use a
// short-lived connection separate from the pgx pool.
func RunMigrations(ctx context.Context, databaseURL string, migrations fs.FS) error {
	sqlDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return fmt.Errorf("open migration connection: %w", err)
	}
	defer sqlDB.Close()

	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	if err := goose.UpContext(ctx, sqlDB, "."); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	return nil
}
