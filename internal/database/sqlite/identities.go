package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/kozaktomas/facereg/internal/database"
	"github.com/kozaktomas/facereg/internal/facematch"
)

// IdentityRepository stores identities in a SQLite file.
type IdentityRepository struct {
	db *sqlx.DB
}

type identityRow struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	Embedding string    `db:"embedding"`
	Dim       int       `db:"dim"`
	PhotoPath string    `db:"photo_path"`
	CreatedAt time.Time `db:"created_at"`
}

func (row identityRow) toIdentity() (database.Identity, error) {
	embedding, err := database.DecodeEmbedding(row.Embedding)
	if err != nil {
		return database.Identity{}, fmt.Errorf("identity %d: %w", row.ID, err)
	}
	return database.Identity{
		ID:        row.ID,
		Name:      row.Name,
		Embedding: embedding,
		Dim:       row.Dim,
		PhotoPath: row.PhotoPath,
		CreatedAt: row.CreatedAt,
	}, nil
}

const identityColumns = `id, name, embedding, dim, photo_path, created_at`

// Insert appends a new identity.
func (r *IdentityRepository) Insert(ctx context.Context, name string, embedding []float32, photoPath string) (int64, error) {
	encoded, err := database.EncodeEmbedding(embedding)
	if err != nil {
		return 0, err
	}

	result, err := r.db.ExecContext(ctx,
		`INSERT INTO identities (name, embedding, dim, photo_path, created_at) VALUES (?, ?, ?, ?, ?)`,
		name, encoded, len(embedding), photoPath, time.Now().UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("insert identity: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}
	return id, nil
}

// ListAll returns every identity ordered by ID.
func (r *IdentityRepository) ListAll(ctx context.Context) ([]database.Identity, error) {
	var rows []identityRow
	if err := r.db.SelectContext(ctx, &rows, `SELECT `+identityColumns+` FROM identities ORDER BY id`); err != nil {
		return nil, fmt.Errorf("query identities: %w", err)
	}
	return toIdentities(rows)
}

// Get retrieves an identity by ID, returns nil if not found.
func (r *IdentityRepository) Get(ctx context.Context, id int64) (*database.Identity, error) {
	var row identityRow
	err := r.db.GetContext(ctx, &row, `SELECT `+identityColumns+` FROM identities WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get identity: %w", err)
	}

	identity, err := row.toIdentity()
	if err != nil {
		return nil, err
	}
	return &identity, nil
}

// Count returns the number of identities.
func (r *IdentityRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM identities"); err != nil {
		return 0, fmt.Errorf("count identities: %w", err)
	}
	return count, nil
}

// FindByName compares normalized names in Go; SQLite lower() is ASCII only.
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

// Close closes the database.
func (r *IdentityRepository) Close() error {
	if err := r.db.Close(); err != nil {
		return fmt.Errorf("closing database connection: %w", err)
	}
	return nil
}

func toIdentities(rows []identityRow) ([]database.Identity, error) {
	identities := make([]database.Identity, 0, len(rows))
	for _, row := range rows {
		identity, err := row.toIdentity()
		if err != nil {
			return nil, err
		}
		identities = append(identities, identity)
	}
	return identities, nil
}
