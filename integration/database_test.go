//go:build database

package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// exerciseBackend runs the cache and history commands against one database backend.
func exerciseBackend(t *testing.T, backend, connStr string) {
	t.Helper()
	dir := t.TempDir()
	env := []string{
		"QAPULSE_CACHE_BACKEND=" + backend,
		"QAPULSE_CACHE_DB_CONNECT=" + connStr,
		"QAPULSE_HISTORY_BACKEND=" + backend,
		"QAPULSE_HISTORY_DB_CONNECT=" + connStr,
	}

	_, err := runCommand(t, dir, env, "sample", "qa-data.xlsx")
	require.NoError(t, err)

	_, err = runCommand(t, dir, env, "cache", "clear")
	require.NoError(t, err)
	_, err = runCommand(t, dir, env, "history", "clear")
	require.NoError(t, err)

	_, err = runCommand(t, dir, env, "report", "qa-data.xlsx")
	require.NoError(t, err)
	_, err = runCommand(t, dir, env, "generate", "qa-data.xlsx", "--output-file", "doc.json")
	require.NoError(t, err)

	out, err := runCommand(t, dir, env, "cache", "status")
	require.NoError(t, err)
	assert.Contains(t, out, backend)

	out, err = runCommand(t, dir, env, "history", "status")
	require.NoError(t, err)
	assert.Contains(t, out, backend)
}

// TestQAPulseWithMySQL tests the qapulse CLI with a MySQL backend.
func TestQAPulseWithMySQL(t *testing.T) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "mysql:8",
		ExposedPorts: []string{"3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "secret123",
			"MYSQL_DATABASE":      "qapulse",
		},
		WaitingFor: wait.ForLog("port: 3306  MySQL Community Server").WithStartupTimeout(60 * time.Second),
	}
	mysqlC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = mysqlC.Terminate(ctx) }()

	host, err := mysqlC.Host(ctx)
	require.NoError(t, err)
	port, err := mysqlC.MappedPort(ctx, "3306")
	require.NoError(t, err)

	connStr := fmt.Sprintf("root:secret123@tcp(%s:%s)/qapulse?parseTime=true", host, port.Port())
	exerciseBackend(t, "mysql", connStr)
}

// TestQAPulseWithPostgres tests the qapulse CLI with a PostgreSQL backend.
func TestQAPulseWithPostgres(t *testing.T) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_HOST_AUTH_METHOD": "trust",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).WithStartupTimeout(60 * time.Second),
	}
	pgC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = pgC.Terminate(ctx) }()

	host, err := pgC.Host(ctx)
	require.NoError(t, err)
	port, err := pgC.MappedPort(ctx, "5432")
	require.NoError(t, err)

	connStr := fmt.Sprintf("host=%s port=%s user=postgres dbname=postgres sslmode=disable", host, port.Port())
	exerciseBackend(t, "postgresql", connStr)
}
