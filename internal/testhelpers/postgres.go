package testhelpers

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/asakaida/kiban/internal/infrastructure/config"
	"github.com/asakaida/kiban/internal/infrastructure/database"
	"github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// PostgresImage is the image integration tests run against
const PostgresImage = "postgres:16-alpine"

var (
	sharedDB     *database.Postgres
	sharedDBOnce sync.Once
	sharedDBErr  error
)

// GetTestDB returns a shared PostgreSQL database with migrations applied.
// The container is created once and reused across all tests in the binary;
// every call drops the entities left behind by earlier tests.
func GetTestDB(t *testing.T) *database.Postgres {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode (requires Docker)")
	}

	sharedDBOnce.Do(func() {
		sharedDB, sharedDBErr = setupTestDB()
	})
	if sharedDBErr != nil {
		t.Fatalf("Failed to setup test database: %v", sharedDBErr)
	}

	CleanupEntities(t, sharedDB.DB)
	return sharedDB
}

func setupTestDB() (*database.Postgres, error) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        PostgresImage,
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_DB":       "kiban_test",
			"POSTGRES_USER":     "kiban",
			"POSTGRES_PASSWORD": "test_password",
		},
		// The server restarts once after initdb
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

	pg, err := database.NewPostgres(&config.DatabaseConfig{
		Host:     host,
		Port:     port.Int(),
		User:     "kiban",
		Password: "test_password",
		Database: "kiban_test",
		SSLMode:  "disable",
	})
	if err != nil {
		return nil, err
	}

	if err := pg.RunMigrations(nil); err != nil {
		pg.Close()
		return nil, err
	}
	return pg, nil
}

// CleanupEntities drops every managed entity table and empties the catalog
func CleanupEntities(t *testing.T, db *sql.DB) {
	t.Helper()

	rows, err := db.Query(`SELECT name FROM managed_entities`)
	if err != nil {
		t.Logf("Warning: Failed to list managed entities: %v", err)
		return
	}
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err == nil {
			names = append(names, name)
		}
	}
	rows.Close()

	for _, name := range names {
		if _, err := db.Exec("DROP TABLE IF EXISTS " + pq.QuoteIdentifier(name)); err != nil {
			t.Logf("Warning: Failed to drop table %s: %v", name, err)
		}
	}
	if _, err := db.Exec(`DELETE FROM managed_entities`); err != nil {
		t.Logf("Warning: Failed to clean up managed_entities: %v", err)
	}
}
