// Package mock provides mock implementations of database interfaces for testing.
package mock

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/kozaktomas/facereg/internal/database"
	"github.com/kozaktomas/facereg/internal/facematch"
)

// MockIdentityStore is an in-memory implementation of database.Store.
// Identities keep insertion order and receive sequential IDs starting at 1.
type MockIdentityStore struct {
	mu         sync.RWMutex
	identities []database.Identity
	nextID     int64
	closed     bool

	// Error injection
	InsertError     error
	ListAllError    error
	GetError        error
	CountError      error
	FindByNameError error

	// Call tracking
	InsertCalls []InsertCall
}

// InsertCall records a call to Insert
type InsertCall struct {
	Name      string
	Embedding []float32
	PhotoPath string
}

// NewMockIdentityStore creates a new mock identity store
func NewMockIdentityStore() *MockIdentityStore {
	return &MockIdentityStore{nextID: 1}
}

// AddIdentity seeds an identity directly, bypassing error injection.
// A zero ID is replaced with the next sequential ID.
func (m *MockIdentityStore) AddIdentity(identity database.Identity) database.Identity {
	m.mu.Lock()
	defer m.mu.Unlock()
	if identity.ID == 0 {
		identity.ID = m.nextID
	}
	if identity.ID >= m.nextID {
		m.nextID = identity.ID + 1
	}
	if identity.Dim == 0 {
		identity.Dim = len(identity.Embedding)
	}
	m.identities = append(m.identities, identity)
	return identity
}

// Insert appends an identity
func (m *MockIdentityStore) Insert(ctx context.Context, name string, embedding []float32, photoPath string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.InsertCalls = append(m.InsertCalls, InsertCall{Name: name, Embedding: embedding, PhotoPath: photoPath})
	if m.InsertError != nil {
		return 0, m.InsertError
	}

	id := m.nextID
	m.nextID++
	m.identities = append(m.identities, database.Identity{
		ID:        id,
		Name:      name,
		Embedding: slices.Clone(embedding),
		Dim:       len(embedding),
		PhotoPath: photoPath,
		CreatedAt: time.Now(),
	})
	return id, nil
}

// ListAll returns a copy of all identities in insertion order
func (m *MockIdentityStore) ListAll(ctx context.Context) ([]database.Identity, error) {
	if m.ListAllError != nil {
		return nil, m.ListAllError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.identities), nil
}

// Get retrieves an identity by ID
func (m *MockIdentityStore) Get(ctx context.Context, id int64) (*database.Identity, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, identity := range m.identities {
		if identity.ID == id {
			found := identity
			return &found, nil
		}
	}
	return nil, nil
}

// Count returns the number of identities
func (m *MockIdentityStore) Count(ctx context.Context) (int, error) {
	if m.CountError != nil {
		return 0, m.CountError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.identities), nil
}

// FindByName returns identities whose normalized name matches
func (m *MockIdentityStore) FindByName(ctx context.Context, name string) ([]database.Identity, error) {
	if m.FindByNameError != nil {
		return nil, m.FindByNameError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	want := facematch.NormalizeName(name)
	var found []database.Identity
	for _, identity := range m.identities {
		if facematch.NormalizeName(identity.Name) == want {
			found = append(found, identity)
		}
	}
	return found, nil
}

// MigrationsApplied reports a single fake migration
func (m *MockIdentityStore) MigrationsApplied(ctx context.Context) ([]string, error) {
	return []string{"001_mock.sql"}, nil
}

// Close marks the store closed
func (m *MockIdentityStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Closed reports whether Close was called
func (m *MockIdentityStore) Closed() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.closed
}

var (
	_ database.Store           = (*MockIdentityStore)(nil)
	_ database.MigrationLister = (*MockIdentityStore)(nil)
)
