// Package dbtest starts a disposable PostgreSQL for integration tests.
package dbtest

import (
	"context"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"shawedgym/internal/db"
)

// MigrationsPath locates the repository migrations directory.
func MigrationsPath() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "migrations")
}

// New returns a migrated database seeded with nothing. The test is skipped
// under -short or when no container runtime is reachable.
func New(t *testing.T) *sqlx.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping database test in short mode")
	}

	provider, err := testcontainers.ProviderDocker.GetProvider()
	if err != nil {
		t.Skip("Docker not available, skipping database test")
	}
	provider.Close()

	ctx := context.Background()
	container, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("shawedgym_test"),
		postgres.WithUsername("shawedgym"),
		postgres.WithPassword("shawedgym"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Skipf("failed to start PostgreSQL container: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := container.Terminate(ctx); err != nil {
			t.Logf("terminate container: %v", err)
		}
	})

	url, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	database, err := db.Connect(url, db.PoolConfig{MaxOpenConns: 20, MaxIdleConns: 20})
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	require.NoError(t, db.RunMigrations(database, MigrationsPath()))
	return database
}

// User inserts an account and returns its id.
func User(t *testing.T, database *sqlx.DB, name, email, role string) int {
	t.Helper()
	var id int
	err := database.Get(&id,
		`INSERT INTO users (name, email, password_hash, role) VALUES ($1, $2, 'x', $3) RETURNING id`,
		name, email, role)
	require.NoError(t, err)
	return id
}

// Plan inserts a plan and returns its id.
func Plan(t *testing.T, database *sqlx.DB, name string, limit int) int {
	t.Helper()
	var id int
	err := database.Get(&id,
		`INSERT INTO subscription_plans (name, price_cents, member_limit) VALUES ($1, 1000, $2) RETURNING id`,
		name, limit)
	require.NoError(t, err)
	return id
}
