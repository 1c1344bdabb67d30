package database

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/jmoiron/sqlx"
)

// Migrator applies embedded SQL migrations to a database/sql handle.
// Queries are written with '?' placeholders and rebound to the dialect.
type Migrator struct {
	db       *sql.DB
	files    fs.FS
	bindType int
}

// NewMigrator creates a migrator reading *.sql files from the root of files.
// bindType is one of the sqlx bind types (sqlx.DOLLAR for PostgreSQL,
// sqlx.QUESTION for MariaDB and SQLite).
func NewMigrator(db *sql.DB, files fs.FS, bindType int) *Migrator {
	return &Migrator{db: db, files: files, bindType: bindType}
}

func (m *Migrator) rebind(query string) string {
	return sqlx.Rebind(m.bindType, query)
}

// appliedMigrations returns a set of already-applied migration versions.
func (m *Migrator) appliedMigrations(ctx context.Context) (map[string]bool, error) {
	_, err := m.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version VARCHAR(255) PRIMARY KEY,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return nil, fmt.Errorf("create migrations table: %w", err)
	}

	applied := make(map[string]bool)
	rows, err := m.db.QueryContext(ctx, "SELECT version FROM schema_migrations")
	if err != nil {
		return nil, fmt.Errorf("query applied migrations: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan migration version: %w", err)
		}
		applied[v] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate applied migrations: %w", err)
	}
	return applied, nil
}

// pendingFiles returns sorted SQL migration filenames not yet applied.
func (m *Migrator) pendingFiles(applied map[string]bool) ([]string, error) {
	entries, err := fs.ReadDir(m.files, ".")
	if err != nil {
		return nil, fmt.Errorf("read migrations directory: %w", err)
	}

	var files []string
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".sql") && !applied[e.Name()] {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}

// Migrate applies all pending migrations and returns the names it applied.
func (m *Migrator) Migrate(ctx context.Context) ([]string, error) {
	applied, err := m.appliedMigrations(ctx)
	if err != nil {
		return nil, err
	}

	files, err := m.pendingFiles(applied)
	if err != nil {
		return nil, err
	}

	var done []string
	for _, file := range files {
		content, err := fs.ReadFile(m.files, file)
		if err != nil {
			return done, fmt.Errorf("read migration %s: %w", file, err)
		}

		tx, err := m.db.BeginTx(ctx, nil)
		if err != nil {
			return done, fmt.Errorf("begin transaction for %s: %w", file, err)
		}

		if _, err := tx.ExecContext(ctx, string(content)); err != nil {
			tx.Rollback()
			return done, fmt.Errorf("execute migration %s: %w", file, err)
		}

		if _, err := tx.ExecContext(ctx, m.rebind("INSERT INTO schema_migrations (version) VALUES (?)"), file); err != nil {
			tx.Rollback()
			return done, fmt.Errorf("record migration %s: %w", file, err)
		}

		if err := tx.Commit(); err != nil {
			return done, fmt.Errorf("commit migration %s: %w", file, err)
		}
		done = append(done, file)
	}

	return done, nil
}

// Applied returns the list of applied migrations
func (m *Migrator) Applied(ctx context.Context) ([]string, error) {
	rows, err := m.db.QueryContext(ctx, "SELECT version FROM schema_migrations ORDER BY version")
	if err != nil {
		return nil, fmt.Errorf("query applied migrations: %w", err)
	}
	defer rows.Close()

	var versions []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan migration version: %w", err)
		}
		versions = append(versions, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate migration versions: %w", err)
	}
	return versions, nil
}
