package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/Davi09-8/chipset-komputer-sub000/internal/db"
)

const (
	dbUser     = "store_user"
	dbPassword = "store_pass"
	dbName     = "storefront"
)

// StartPostgres launches a temporary Postgres container, applies the
// migrations, and returns the DSN, a database/sql handle for direct row
// assertions, and a cleanup function.
func StartPostgres(ctx context.Context, t *testing.T) (string, *sql.DB, func()) {
	t.Helper()

	req := testcontainers.ContainerRequest{
		Image: "postgres:16-alpine",
		Env: map[string]string{
			"POSTGRES_USER":     dbUser,
			"POSTGRES_PASSWORD": dbPassword,
			"POSTGRES_DB":       dbName,
		},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor: wait.ForListeningPort("5432/tcp").
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("start postgres container: %v", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("container host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("mapped port: %v", err)
	}

	dsn := dsnFor(host, port.Port())
	waitForReady(ctx, t, dsn)

	if err := db.RunMigrations(dsn, log.New(io.Discard, "", 0)); err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("migrate: %v", err)
	}

	sqlDB, err := sql.Open("postgres", dsn)
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("open db: %v", err)
	}

	cleanup := func() {
		_ = sqlDB.Close()
		_ = container.Terminate(ctx)
	}
	return dsn, sqlDB, cleanup
}

func dsnFor(host, port string) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", dbUser, dbPassword, host, port, dbName)
}

// waitForReady pings until the server accepts connections; the port being
// open does not mean Postgres finished its init scripts.
func waitForReady(ctx context.Context, t *testing.T, dsn string) {
	t.Helper()

	deadline := time.Now().Add(30 * time.Second)
	for {
		probe, err := sql.Open("postgres", dsn)
		if err == nil {
			err = probe.PingContext(ctx)
			_ = probe.Close()
			if err == nil {
				return
			}
		}
		if time.Now().After(deadline) {
			t.Fatalf("timeout waiting for postgres: %v", err)
		}
		select {
		case <-ctx.Done():
			t.Fatalf("context cancelled waiting for postgres: %v", ctx.Err())
		case <-time.After(500 * time.Millisecond):
		}
	}
}
