package mariadb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kozaktomas/facereg/internal/database"
	"github.com/kozaktomas/facereg/internal/facematch"
)

// IdentityRepository stores identities in the users table.
type IdentityRepository struct {
	pool *Pool
}

// NewIdentityRepository creates a new MariaDB identity repository.
func NewIdentityRepository(pool *Pool) *IdentityRepository {
	return &IdentityRepository{pool: pool}
}

const userColumns = `id, name, face_descriptor, photo_path, created_at`

// Insert appends a user row; the descriptor is stored as a JSON array.
func (r *IdentityRepository) Insert(ctx context.Context, name string, embedding []float32, photoPath string) (int64, error) {
	descriptor, err := database.EncodeEmbedding(embedding)
	if err != nil {
		return 0, err
	}

	result, err := r.pool.db.ExecContext(ctx,
		`INSERT INTO users (name, face_descriptor, photo_path) VALUES (?, ?, ?)`,
		name, descriptor, photoPath,
	)
	if err != nil {
		return 0, fmt.Errorf("insert user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}
	return id, nil
}

// ListAll returns every user ordered by ID.
func (r *IdentityRepository) ListAll(ctx context.Context) ([]database.Identity, error) {
	rows, err := r.pool.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	return scanUsers(rows)
}

// Get retrieves a user by ID, returns nil if not found.
func (r *IdentityRepository) Get(ctx context.Context, id int64) (*database.Identity, error) {
	row := r.pool.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)

	identity, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return identity, nil
}

// Count returns the number of users.
func (r *IdentityRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.pool.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return count, nil
}

// FindByName filters in Go: MariaDB has no portable unaccent.
// The table is scanned in full anyway by every match request.
func (r *IdentityRepository) FindByName(ctx context.Context, name string) ([]database.Identity, error) {
	all, err := r.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	want := facematch.NormalizeName(name)
	var found []database.Identity
	for _, identity := range all {
		if facematch.NormalizeName(identity.Name) == want {
			found = append(found, identity)
		}
	}
	return found, nil
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

func scanUser(row rowScanner) (*database.Identity, error) {
	var identity database.Identity
	var descriptor string
	if err := row.Scan(&identity.ID, &identity.Name, &descriptor, &identity.PhotoPath, &identity.CreatedAt); err != nil {
		return nil, err
	}
	embedding, err := database.DecodeEmbedding(descriptor)
	if err != nil {
		return nil, fmt.Errorf("user %d: %w", identity.ID, err)
	}
	identity.Embedding = embedding
	identity.Dim = len(embedding)
	return &identity, nil
}

func scanUsers(rows *sql.Rows) ([]database.Identity, error) {
	var identities []database.Identity
	for rows.Next() {
		identity, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		identities = append(identities, *identity)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return identities, nil
}
