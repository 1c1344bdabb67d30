package photostore

import (
	"bytes"
	"context"
	"io"
	"sync"
)

// Memory keeps photos in process memory. Used by tests and by the
// "memory" backend for throwaway deployments.
type Memory struct {
	mu     sync.RWMutex
	photos map[string][]byte

	// Error injection
	SaveError   error
	DeleteError error

	// Call tracking
	DeleteCalls []string
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{photos: make(map[string][]byte)}
}

// Save stores a copy of data.
func (m *Memory) Save(_ context.Context, data []byte, contentType string) (string, error) {
	if m.SaveError != nil {
		return "", m.SaveError
	}
	ref := newRef(contentType)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.photos[ref] = bytes.Clone(data)
	return ref, nil
}

// Open returns a reader over the stored bytes.
func (m *Memory) Open(_ context.Context, ref string) (io.ReadCloser, error) {
	if err := validateRef(ref); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.photos[ref]
	if !ok {
		return nil, ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// Delete removes the photo if present.
func (m *Memory) Delete(_ context.Context, ref string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeleteCalls = append(m.DeleteCalls, ref)
	if m.DeleteError != nil {
		return m.DeleteError
	}
	delete(m.photos, ref)
	return nil
}

// Exists reports whether ref is stored.
func (m *Memory) Exists(_ context.Context, ref string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.photos[ref]
	return ok, nil
}

// Len returns the number of stored photos.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.photos)
}

var (
	_ Store = (*Memory)(nil)
	_ Store = (*Local)(nil)
	_ Store = (*MinIO)(nil)
)
