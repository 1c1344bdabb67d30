// Package mariadb provides a MariaDB/MySQL identity store using the same
// users table layout as the PHP deployment: descriptors as JSON text.
package mariadb

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/kozaktomas/facereg/internal/config"
	"github.com/kozaktomas/facereg/internal/database"
)

// DriverName is the name this backend registers under.
const DriverName = "mariadb"

//go:embed migrations/*.sql
var migrationsFS embed.FS

func init() {
	database.Register(DriverName, func(ctx context.Context, cfg *config.DatabaseConfig) (database.Store, error) {
		pool, err := NewPool(cfg)
		if err != nil {
			return nil, err
		}
		if _, err := pool.Migrate(ctx); err != nil {
			_ = pool.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		return NewIdentityRepository(pool), nil
	})
}

// Pool manages a MariaDB connection pool.
type Pool struct {
	db *sql.DB
}

// normalizeDSN forces parseTime so TIMESTAMP columns scan into time.Time.
func normalizeDSN(dsn string) (string, error) {
	mc, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("invalid MariaDB DSN: %w", err)
	}
	mc.ParseTime = true
	return mc.FormatDSN(), nil
}

// NewPool creates a new MariaDB connection pool.
func NewPool(cfg *config.DatabaseConfig) (*Pool, error) {
	if cfg.URL == "" {
		return nil, errors.New("MariaDB DSN is required")
	}

	dsn, err := normalizeDSN(cfg.URL)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MariaDB: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping MariaDB: %w", err)
	}

	return &Pool{db: db}, nil
}

// Close closes the connection pool.
func (p *Pool) Close() error {
	if p.db != nil {
		if err := p.db.Close(); err != nil {
			return fmt.Errorf("closing database connection: %w", err)
		}
	}
	return nil
}

func (p *Pool) migrator() *database.Migrator {
	sub, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		panic(err)
	}
	return database.NewMigrator(p.db, sub, sqlx.QUESTION)
}

// Migrate applies all pending migrations.
func (p *Pool) Migrate(ctx context.Context) ([]string, error) {
	return p.migrator().Migrate(ctx)
}

// MigrationsApplied returns the list of applied migrations.
func (p *Pool) MigrationsApplied(ctx context.Context) ([]string, error) {
	return p.migrator().Applied(ctx)
}
