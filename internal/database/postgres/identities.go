package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kozaktomas/facereg/internal/database"
	"github.com/kozaktomas/facereg/internal/facematch"
	"github.com/pgvector/pgvector-go"
)

// IdentityRepository provides PostgreSQL-backed identity storage.
type IdentityRepository struct {
	pool *Pool
}

// NewIdentityRepository creates a new PostgreSQL identity repository.
func NewIdentityRepository(pool *Pool) *IdentityRepository {
	return &IdentityRepository{pool: pool}
}

const identityColumns = `id, name, embedding, dim, photo_path, created_at`

// Insert appends a new identity and returns its ID.
func (r *IdentityRepository) Insert(ctx context.Context, name string, embedding []float32, photoPath string) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO identities (name, embedding, dim, photo_path, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id
	`, name, pgvector.NewVector(embedding), len(embedding), photoPath).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert identity: %w", err)
	}
	return id, nil
}

// ListAll returns every identity ordered by ID.
func (r *IdentityRepository) ListAll(ctx context.Context) ([]database.Identity, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+identityColumns+` FROM identities ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query identities: %w", err)
	}
	defer rows.Close()

	return scanIdentities(rows)
}

// Get retrieves an identity by ID, returns nil if not found.
func (r *IdentityRepository) Get(ctx context.Context, id int64) (*database.Identity, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+identityColumns+` FROM identities WHERE id = $1`, id)

	identity, err := scanIdentity(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get identity: %w", err)
	}
	return identity, nil
}

// Count returns the number of registered identities.
func (r *IdentityRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM identities").Scan(&count); err != nil {
		return 0, fmt.Errorf("count identities: %w", err)
	}
	return count, nil
}

// FindByName returns identities whose normalized name equals the normalized input.
// LOWER + unaccent + REPLACE mirrors facematch.NormalizeName on the SQL side.
func (r *IdentityRepository) FindByName(ctx context.Context, name string) ([]database.Identity, error) {
	query := `SELECT ` + identityColumns + ` FROM identities
		WHERE regexp_replace(LOWER(REPLACE(unaccent(name), '-', ' ')), '\s+', ' ', 'g') = $1
		ORDER BY id`

	rows, err := r.pool.Query(ctx, query, facematch.NormalizeName(name))
	if err != nil {
		return nil, fmt.Errorf("query identities by name: %w", err)
	}
	defer rows.Close()

	return scanIdentities(rows)
}

// MigrationsApplied returns the applied schema migrations.
func (r *IdentityRepository) MigrationsApplied(ctx context.Context) ([]string, error) {
	return r.pool.MigrationsApplied(ctx)
}

// Close closes the underlying pool.
func (r *IdentityRepository) Close() error {
	return r.pool.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanIdentity(row rowScanner) (*database.Identity, error) {
	var identity database.Identity
	var vec pgvector.Vector
	if err := row.Scan(&identity.ID, &identity.Name, &vec, &identity.Dim, &identity.PhotoPath, &identity.CreatedAt); err != nil {
		return nil, err
	}
	identity.Embedding = vec.Slice()
	return &identity, nil
}

func scanIdentities(rows *sql.Rows) ([]database.Identity, error) {
	var identities []database.Identity
	for rows.Next() {
		identity, err := scanIdentity(rows)
		if err != nil {
			return nil, fmt.Errorf("scan identity: %w", err)
		}
		identities = append(identities, *identity)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate identities: %w", err)
	}
	return identities, nil
}
