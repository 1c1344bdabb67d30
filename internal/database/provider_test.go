package database

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/kozaktomas/facereg/internal/config"
)

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), &config.DatabaseConfig{Driver: "oracle"})
	if err == nil {
		t.Fatal("expected error for unknown driver")
	}
	if !strings.Contains(err.Error(), "unknown database driver") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestOpen_NilConfig(t *testing.T) {
	if _, err := Open(context.Background(), nil); err == nil {
		t.Fatal("expected error for nil config")
	}
}

func TestRegisterAndOpen(t *testing.T) {
	openErr := errors.New("boom")
	Register("test-failing", func(ctx context.Context, cfg *config.DatabaseConfig) (Store, error) {
		return nil, openErr
	})

	found := false
	for _, d := range Drivers() {
		if d == "test-failing" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected test-failing in Drivers(), got %v", Drivers())
	}

	// Driver lookup is case-insensitive.
	_, err := Open(context.Background(), &config.DatabaseConfig{Driver: " TEST-FAILING "})
	if !errors.Is(err, openErr) {
		t.Errorf("expected wrapped open error, got %v", err)
	}
}

func TestRegister_DuplicatePanics(t *testing.T) {
	open := func(ctx context.Context, cfg *config.DatabaseConfig) (Store, error) { return nil, nil }
	Register("test-dup", open)

	defer func() {
		if recover() == nil {
			t.Error("expected panic on duplicate registration")
		}
	}()
	Register("test-dup", open)
}
