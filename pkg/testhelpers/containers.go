// Package testhelpers provides utilities for testing smartsave components.
package testhelpers

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	"github.com/jpkday/smartsave-ai-sub000/pkg/database"
)

// PostgresImage is the PostgreSQL image used for integration tests.
const PostgresImage = "postgres:16-alpine"

// TestDB holds a shared test database container with migrations applied.
// Use this for testing repositories, services, and handlers against a real database.
type TestDB struct {
	Container testcontainers.Container
	DB        *database.DB
	ConnStr   string
}

var (
	sharedTestDB     *TestDB
	sharedTestDBOnce sync.Once
	sharedTestDBErr  error
)

// GetTestDB returns a shared PostgreSQL container for integration tests.
// The container is created once and reused across all tests in the run.
func GetTestDB(t *testing.T) *TestDB {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode (requires Docker)")
	}

	sharedTestDBOnce.Do(func() {
		sharedTestDB, sharedTestDBErr = setupTestDB()
	})

	if sharedTestDBErr != nil {
		t.Fatalf("Failed to setup test database: %v", sharedTestDBErr)
	}

	return sharedTestDB
}

func setupTestDB() (*TestDB, error) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        PostgresImage,
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_DB":       "smartsave_test",
			"POSTGRES_USER":     "smartsave",
			"POSTGRES_PASSWORD": "test_password",
		},
		// The official image logs readiness twice: once for the init server, once for the real one.
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start test container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get container host: %w", err)
	}

	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		return nil, fmt.Errorf("failed to get container port: %w", err)
	}

	connStr := fmt.Sprintf("postgres://smartsave:test_password@%s:%s/smartsave_test?sslmode=disable",
		host, port.Port())

	var db *database.DB
	for i := 0; i < 10; i++ {
		db, err = database.NewConnection(ctx, &database.Config{URL: connStr, MaxConnections: 5})
		if err == nil {
			break
		}
		time.Sleep(500 * time.Millisecond)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to test database: %w", err)
	}

	if err := database.RunMigrationsURL(connStr, zap.NewNop()); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &TestDB{
		Container: container,
		DB:        db,
		ConnStr:   connStr,
	}, nil
}

// CreateHousehold inserts a household and registers cleanup of everything it owns.
func (tdb *TestDB) CreateHousehold(t *testing.T, name string) uuid.UUID {
	t.Helper()
	ctx := context.Background()

	var id uuid.UUID
	err := tdb.DB.Pool.QueryRow(ctx,
		"INSERT INTO households (name) VALUES ($1) RETURNING id", name).Scan(&id)
	if err != nil {
		t.Fatalf("failed to create household: %v", err)
	}
	t.Cleanup(func() {
		_, _ = tdb.DB.Pool.Exec(context.Background(), "DELETE FROM households WHERE id = $1", id)
	})
	return id
}

// CreateStore inserts a store owned by householdID.
func (tdb *TestDB) CreateStore(t *testing.T, householdID uuid.UUID, name string) uuid.UUID {
	t.Helper()

	var id uuid.UUID
	err := tdb.DB.Pool.QueryRow(context.Background(),
		"INSERT INTO stores (household_id, name) VALUES ($1, $2) RETURNING id", householdID, name).Scan(&id)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	return id
}

// HouseholdContext returns a context carrying a household-scoped connection.
// The connection is released when the test finishes.
func (tdb *TestDB) HouseholdContext(t *testing.T, householdID uuid.UUID) context.Context {
	t.Helper()

	scope, err := tdb.DB.WithHousehold(context.Background(), householdID)
	if err != nil {
		t.Fatalf("failed to acquire household scope: %v", err)
	}
	t.Cleanup(scope.Close)
	return database.SetHouseholdScope(context.Background(), scope)
}
