//go:build integration

// Package dbhelpers provides database test helpers for integration tests.
// It connects with the same configuration loading the service uses, so a
// local .env or GENTLY_* environment is enough to point tests at a
// database.
package dbhelpers

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/require"

	"github.com/gentlyhq/gently/internal/config"
	"github.com/gentlyhq/gently/internal/database"
)

func init() {
	_ = godotenv.Load()

	logLevel := zerolog.InfoLevel
	if os.Getenv("GENTLY_DEBUG") == "true" {
		logLevel = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(logLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: "15:04:05",
		NoColor:    os.Getenv("CI") != "",
	})
}

// TestContext holds a migrated database connection for integration tests.
// Always defer tc.Close().
type TestContext struct {
	DB  *database.Connection
	Cfg *config.Config
	T   *testing.T
}

// NewTestContext connects to the configured database and applies
// migrations. Tests are skipped when no database is reachable.
func NewTestContext(t *testing.T) *TestContext {
	t.Helper()

	cfg, err := config.Load()
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		t.Skipf("database not available: %v", err)
	}

	require.NoError(t, database.Migrate(cfg.Database))

	return &TestContext{DB: db, Cfg: cfg, T: t}
}

// Close releases the connection pool.
func (tc *TestContext) Close() {
	tc.DB.Close()
}

// Truncate empties the given tables between test cases.
func (tc *TestContext) Truncate(tables ...string) {
	tc.T.Helper()
	ctx := context.Background()
	for _, table := range tables {
		_, err := tc.DB.Exec(ctx, "TRUNCATE TABLE "+table+" CASCADE")
		require.NoError(tc.T, err)
	}
}
