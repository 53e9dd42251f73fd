package dbmigrate

import (
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Run executes a goose command against the Postgres backend. Only the
// Postgres storage mode has schema to migrate; the DynamoDB table is
// provisioned out of band.
func Run(command string, dbURL string, migrationsDir string) error {
	if dbURL == "" {
		return fmt.Errorf("database URL is empty")
	}
	if migrationsDir == "" {
		migrationsDir = DefaultMigrationsDir
	}

	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	if err := goose.Run(command, db, migrationsDir); err != nil {
		return fmt.Errorf("goose %s failed: %w", command, err)
	}

	return nil
}
