//go:build integration

package postgres

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/seu-repo/evstation/pkg/config"
)

// testEnv holds a migrated database shared by the package's integration tests.
type testEnv struct {
	gorm *gorm.DB
	// raw seeds rows through lib/pq, independent of the repositories under test.
	raw *sql.DB
	log *zap.Logger
}

// setupDatabase uses DATABASE_URL when set (CI), otherwise starts a Postgres container.
func setupDatabase(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()
	logger, _ := zap.NewDevelopment()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
			tcpostgres.WithDatabase("evstation_test"),
			tcpostgres.WithUsername("evstation"),
			tcpostgres.WithPassword("evstation_test"),
			testcontainers.WithWaitStrategy(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(60*time.Second),
			),
		)
		require.NoError(t, err, "start postgres container")
		t.Cleanup(func() {
			if err := container.Terminate(context.Background()); err != nil {
				t.Logf("Failed to terminate postgres container: %v", err)
			}
		})

		dsn, err = container.ConnectionString(ctx, "sslmode=disable")
		require.NoError(t, err)
	}

	db, err := NewConnection(config.DatabaseConfig{URL: dsn, MaxOpenConns: 5}, logger)
	require.NoError(t, err)
	require.NoError(t, RunMigrations(db))

	raw, err := sql.Open("postgres", dsn)
	require.NoError(t, err)

	t.Cleanup(func() {
		raw.Close()
		Close(db)
	})

	env := &testEnv{gorm: db, raw: raw, log: logger}
	env.clean(t)
	return env
}

func (e *testEnv) clean(t *testing.T) {
	t.Helper()
	_, err := e.raw.Exec(`TRUNCATE bookings, charging_stations, ev_owners, users`)
	require.NoError(t, err)
}

func (e *testEnv) seedBooking(t *testing.T, id, stationID, status string) {
	t.Helper()
	_, err := e.raw.Exec(`
		INSERT INTO bookings (id, station_id, owner_nic, status, start_time, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5, $5)
	`, id, stationID, "NIC-1", status, time.Now().UTC())
	require.NoError(t, err)
}
