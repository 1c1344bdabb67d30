package database

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/kozaktomas/facereg/internal/config"
)

// OpenFunc opens a backend, applies its migrations and returns the store.
type OpenFunc func(ctx context.Context, cfg *config.DatabaseConfig) (Store, error)

var (
	backendsMu sync.RWMutex
	backends   = make(map[string]OpenFunc)
)

// Register makes a backend available under the given driver name.
// Backends call this from init() so that importing the package is enough,
// and so that this package does not import its own sub-packages.
func Register(driver string, open OpenFunc) {
	backendsMu.Lock()
	defer backendsMu.Unlock()
	if open == nil {
		panic("database: Register open func is nil")
	}
	if _, dup := backends[driver]; dup {
		panic("database: Register called twice for driver " + driver)
	}
	backends[driver] = open
}

// Drivers returns the sorted list of registered driver names.
func Drivers() []string {
	backendsMu.RLock()
	defer backendsMu.RUnlock()
	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Open opens the backend selected by cfg.Driver.
func Open(ctx context.Context, cfg *config.DatabaseConfig) (Store, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database config is required")
	}
	driver := strings.ToLower(strings.TrimSpace(cfg.Driver))

	backendsMu.RLock()
	open, ok := backends[driver]
	backendsMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown database driver %q (available: %s)", cfg.Driver, strings.Join(Drivers(), ", "))
	}

	store, err := open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("opening %s backend: %w", driver, err)
	}
	return store, nil
}
