package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/kozaktomas/facereg/internal/config"
	"github.com/kozaktomas/facereg/internal/database"
	_ "github.com/kozaktomas/facereg/internal/database/mariadb"
	_ "github.com/kozaktomas/facereg/internal/database/postgres"
	_ "github.com/kozaktomas/facereg/internal/database/sqlite"
	"github.com/kozaktomas/facereg/internal/photostore"
)

// openStore opens the configured identity store, applying pending migrations.
func openStore(ctx context.Context, cfg *config.Config) (database.Store, error) {
	store, err := database.Open(ctx, &cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to open identity store: %w", err)
	}
	return store, nil
}

// openBackends opens the identity store and the photo store.
func openBackends(ctx context.Context, cfg *config.Config) (database.Store, photostore.Store, error) {
	store, err := openStore(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	photos, err := photostore.New(ctx, &cfg.Photos)
	if err != nil {
		store.Close()
		return nil, nil, fmt.Errorf("failed to open photo store: %w", err)
	}
	return store, photos, nil
}

// outputJSON writes data as indented JSON to stdout.
func outputJSON(data any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("encoding JSON output: %w", err)
	}
	return nil
}
