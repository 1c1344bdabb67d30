package postgres

import (
	"context"
	"embed"
	"io/fs"

	"github.com/jmoiron/sqlx"
	"github.com/kozaktomas/facereg/internal/database"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

func (p *Pool) migrator() *database.Migrator {
	sub, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		panic(err)
	}
	return database.NewMigrator(p.db, sub, sqlx.DOLLAR)
}

// Migrate applies all pending migrations and returns the applied file names.
func (p *Pool) Migrate(ctx context.Context) ([]string, error) {
	return p.migrator().Migrate(ctx)
}

// MigrationsApplied returns the list of applied migrations
func (p *Pool) MigrationsApplied(ctx context.Context) ([]string, error) {
	return p.migrator().Applied(ctx)
}
