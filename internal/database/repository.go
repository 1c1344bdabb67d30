package database

import (
	"context"
)

// IdentityReader provides read-only access to registered identities
type IdentityReader interface {
	// ListAll returns every identity in insertion order (ascending ID).
	// Matching relies on this order for first-found and tie-break semantics.
	ListAll(ctx context.Context) ([]Identity, error)
	// Get retrieves an identity by ID, returns nil if not found
	Get(ctx context.Context, id int64) (*Identity, error)
	// Count returns the number of registered identities
	Count(ctx context.Context) (int, error)
	// FindByName returns identities whose normalized name equals the normalized input
	// (lowercase, no diacritics, dashes to spaces), in insertion order.
	FindByName(ctx context.Context, name string) ([]Identity, error)
}

// IdentityWriter provides append access to identities
type IdentityWriter interface {
	IdentityReader

	// Insert appends a new identity and returns its store-assigned ID
	Insert(ctx context.Context, name string, embedding []float32, photoPath string) (int64, error)
}

// Store is an opened backend.
type Store interface {
	IdentityWriter

	// Close releases the underlying connection pool
	Close() error
}

// MigrationLister is implemented by backends that track applied schema migrations.
type MigrationLister interface {
	MigrationsApplied(ctx context.Context) ([]string, error)
}
