//go:build integration

package mariadb

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/kozaktomas/facereg/internal/config"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupTestContainer(t *testing.T) (*Pool, func()) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "mariadb:11",
		ExposedPorts: []string{"3306/tcp"},
		Env: map[string]string{
			"MARIADB_USER":          "test",
			"MARIADB_PASSWORD":      "test",
			"MARIADB_DATABASE":      "testdb",
			"MARIADB_ROOT_PASSWORD": "root",
		},
		WaitingFor: wait.ForListeningPort("3306/tcp").WithStartupTimeout(90 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Skipf("Docker not available or container failed to start, skipping integration test: %v", err)
		return nil, func() {}
	}

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}

	port, err := container.MappedPort(ctx, "3306")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	cfg := &config.DatabaseConfig{
		URL:          fmt.Sprintf("test:test@tcp(%s:%s)/testdb", host, port.Port()),
		MaxOpenConns: 5,
		MaxIdleConns: 2,
	}

	// the port opens before the server accepts authenticated sessions
	var pool *Pool
	for attempt := 0; attempt < 20; attempt++ {
		pool, err = NewPool(cfg)
		if err == nil {
			break
		}
		time.Sleep(time.Second)
	}
	if err != nil {
		container.Terminate(ctx)
		t.Fatalf("Failed to connect: %v", err)
	}

	if _, err := pool.Migrate(ctx); err != nil {
		pool.Close()
		container.Terminate(ctx)
		t.Fatalf("Failed to migrate: %v", err)
	}

	cleanup := func() {
		pool.Close()
		container.Terminate(ctx)
	}

	return pool, cleanup
}

func TestIdentityRepository(t *testing.T) {
	pool, cleanup := setupTestContainer(t)
	if pool == nil {
		return
	}
	defer cleanup()

	ctx := context.Background()
	repo := NewIdentityRepository(pool)

	descriptor := []float32{0.1, -0.25, 0.5, 0.125}

	aliceID, err := repo.Insert(ctx, "Alice Nováková", descriptor, "face_a.jpg")
	if err != nil {
		t.Fatalf("Failed to insert: %v", err)
	}
	bobID, err := repo.Insert(ctx, "Bob", descriptor, "face_b.png")
	if err != nil {
		t.Fatalf("Failed to insert: %v", err)
	}

	all, err := repo.ListAll(ctx)
	if err != nil {
		t.Fatalf("Failed to list: %v", err)
	}
	if len(all) != 2 || all[0].ID != aliceID || all[1].ID != bobID {
		t.Fatalf("unexpected identities: %+v", all)
	}
	for i, v := range descriptor {
		if all[0].Embedding[i] != v {
			t.Errorf("embedding[%d] = %v, want %v", i, all[0].Embedding[i], v)
		}
	}
	if all[0].CreatedAt.IsZero() {
		t.Error("expected created_at to be populated")
	}

	missing, err := repo.Get(ctx, 424242)
	if err != nil || missing != nil {
		t.Errorf("Get(missing) = %+v, %v; want nil, nil", missing, err)
	}

	found, err := repo.FindByName(ctx, "ALICE novakova")
	if err != nil {
		t.Fatalf("Failed to find by name: %v", err)
	}
	if len(found) != 1 || found[0].ID != aliceID {
		t.Errorf("Expected Alice, got %+v", found)
	}

	count, err := repo.Count(ctx)
	if err != nil || count != 2 {
		t.Errorf("Count() = %d, %v; want 2", count, err)
	}

	again, err := pool.Migrate(ctx)
	if err != nil {
		t.Fatalf("second migrate failed: %v", err)
	}
	if len(again) != 0 {
		t.Errorf("expected no pending migrations, got %v", again)
	}
}
