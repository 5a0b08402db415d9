package postgres

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver for database/sql
	"github.com/pressly/goose/v3"

	"github.com/heartmarshall/legalpulse/migrations"
)

// Migrate applies all pending embedded migrations to the database at dsn.
func Migrate(ctx context.Context, dsn string) ([]*goose.MigrationResult, error) {
	var results []*goose.MigrationResult
	err := withProvider(ctx, dsn, func(p *goose.Provider) error {
		var err error
		results, err = p.Up(ctx)
		if err != nil {
			return fmt.Errorf("goose up: %w", err)
		}
		return nil
	})
	return results, err
}

// MigrationStatus reports every embedded migration and whether it is applied.
func MigrationStatus(ctx context.Context, dsn string) ([]*goose.MigrationStatus, error) {
	var status []*goose.MigrationStatus
	err := withProvider(ctx, dsn, func(p *goose.Provider) error {
		var err error
		status, err = p.Status(ctx)
		if err != nil {
			return fmt.Errorf("goose status: %w", err)
		}
		return nil
	})
	return status, err
}

// withProvider opens a database/sql handle for goose, which does not take a
// pgx pool.
func withProvider(ctx context.Context, dsn string, fn func(p *goose.Provider) error) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("sql.Open: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("db ping: %w", err)
	}

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return fmt.Errorf("goose new provider: %w", err)
	}
	return fn(provider)
}
