// Package sqlite provides a single-file identity store on top of the pure-Go
// modernc SQLite driver. Useful for single-binary deployments and tests.
package sqlite

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/kozaktomas/facereg/internal/config"
	"github.com/kozaktomas/facereg/internal/database"
	_ "modernc.org/sqlite"
)

// DriverName is the name this backend registers under.
const DriverName = "sqlite"

// DefaultPath is used when no DSN is configured.
const DefaultPath = "facereg.db"

//go:embed migrations/*.sql
var migrationsFS embed.FS

func init() {
	database.Register(DriverName, func(ctx context.Context, cfg *config.DatabaseConfig) (database.Store, error) {
		return Open(ctx, cfg.URL)
	})
}

// Open connects to the database at dsn and applies pending migrations.
func Open(ctx context.Context, dsn string) (*IdentityRepository, error) {
	if dsn == "" {
		dsn = DefaultPath
	}

	db, err := sqlx.ConnectContext(ctx, "sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite: %w", err)
	}
	// every connection to :memory: is a separate database
	if strings.Contains(dsn, ":memory:") {
		db.SetMaxOpenConns(1)
	}

	repo := &IdentityRepository{db: db}
	if _, err := repo.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return repo, nil
}

func (r *IdentityRepository) migrator() *database.Migrator {
	sub, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		panic(err)
	}
	return database.NewMigrator(r.db.DB, sub, sqlx.QUESTION)
}

// Migrate applies all pending migrations.
func (r *IdentityRepository) Migrate(ctx context.Context) ([]string, error) {
	return r.migrator().Migrate(ctx)
}

// MigrationsApplied returns the list of applied migrations.
func (r *IdentityRepository) MigrationsApplied(ctx context.Context) ([]string, error) {
	return r.migrator().Applied(ctx)
}
