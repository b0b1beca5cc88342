package helper

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	testDatabase = "database"
	testUsername = "user"
	testPassword = "password"
)

// MustStartPostgresContainer starts a pgvector enabled PostgreSQL container
// and returns its teardown function and mapped port.
func MustStartPostgresContainer() (func(ctx context.Context, opts ...testcontainers.TerminateOption) error, string, error) {
	ctx := context.Background()

	pgContainer, err := postgres.Run(
		ctx,
		"pgvector/pgvector:pg17",
		postgres.WithDatabase(testDatabase),
		postgres.WithUsername(testUsername),
		postgres.WithPassword(testPassword),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		return nil, "", fmt.Errorf("error starting postgres container: %w", err)
	}

	port, err := pgContainer.MappedPort(ctx, "5432/tcp")
	if err != nil {
		return nil, "", fmt.Errorf("error getting mapped port: %w", err)
	}

	return pgContainer.Terminate, port.Port(), nil
}

// SetTestDatabaseConfigEnvs sets the STORYGRAPH_DB_* variables for the test container.
func SetTestDatabaseConfigEnvs(t *testing.T, dbPort string) {
	t.Setenv("STORYGRAPH_DB_HOST", "localhost")
	t.Setenv("STORYGRAPH_DB_PORT", dbPort)
	t.Setenv("STORYGRAPH_DB_DATABASE", testDatabase)
	t.Setenv("STORYGRAPH_DB_USERNAME", testUsername)
	t.Setenv("STORYGRAPH_DB_PASSWORD", testPassword)
	t.Setenv("STORYGRAPH_DB_SCHEMA", "public")
	t.Setenv("STORYGRAPH_DB_SSLMODE", "disable")
}
