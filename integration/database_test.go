//go:build database

package integration

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestSteptrackWithMySQL tests the steptrack CLI with MySQL drafts and journal.
func TestSteptrackWithMySQL(t *testing.T) {
	ctx := context.Background()

	// Start MySQL container
	req := testcontainers.ContainerRequest{
		Image:        "mysql:8",
		ExposedPorts: []string{"3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "secret123",
			"MYSQL_DATABASE":      "steptrack",
		},
		WaitingFor: wait.ForLog("port: 3306  MySQL Community Server").WithStartupTimeout(60 * time.Second),
	}
	mysqlC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = mysqlC.Terminate(ctx) }()

	// Get connection details
	host, err := mysqlC.Host(ctx)
	require.NoError(t, err)
	port, err := mysqlC.MappedPort(ctx, "3306")
	require.NoError(t, err)

	connStr := fmt.Sprintf("root:secret123@tcp(%s:%s)/steptrack?parseTime=true", host, port.Port())
	runBackendScenario(t, "mysql", connStr)
}

// TestSteptrackWithPostgres tests the steptrack CLI with PostgreSQL drafts and journal.
func TestSteptrackWithPostgres(t *testing.T) {
	ctx := context.Background()

	// Start Postgres container
	req := testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_HOST_AUTH_METHOD": "trust",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	pgC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = pgC.Terminate(ctx) }()

	// Get connection details
	host, err := pgC.Host(ctx)
	require.NoError(t, err)
	port, err := pgC.MappedPort(ctx, "5432")
	require.NoError(t, err)

	connStr := fmt.Sprintf("host=%s port=%s user=postgres dbname=postgres sslmode=disable", host, port.Port())
	runBackendScenario(t, "postgresql", connStr)
}

// runBackendScenario keeps a draft, saves it into the journal and exports the journal.
// Drafts and revisions share one database; their tables differ.
func runBackendScenario(t *testing.T, backend, connStr string) {
	r := newRunner(t,
		"STEPTRACK_DRAFT_BACKEND="+backend,
		"STEPTRACK_DRAFT_DB_CONNECT="+connStr,
		"STEPTRACK_JOURNAL_BACKEND="+backend,
		"STEPTRACK_JOURNAL_DB_CONNECT="+connStr,
	)

	r.mustRun("draft", "clear")
	r.mustRun("journal", "clear")
	r.mustRun("journal", "migrate")

	patientID, sessionID := r.seedSession()
	script := r.writeFile("edits.yaml", editScript)
	ids := []string{"-p", patientID, "-s", sessionID}

	r.mustRun(append([]string{"session", "edit", "--script", script}, ids...)...)
	assert.Contains(t, r.mustRun("draft", "status"), "Total Drafts: 1")

	r.mustRun(append([]string{"session", "edit", "--from-draft", "--save"}, ids...)...)
	assert.Contains(t, r.mustRun("draft", "status"), "Total Drafts: 0")

	out := r.mustRun("journal", "status")
	assert.Contains(t, out, "Journal Backend: "+backend)
	assert.Contains(t, out, "Total Revisions: 1")

	export := filepath.Join(r.home, "journal")
	r.mustRun("journal", "export", "--output-file", export)
	for _, suffix := range []string{".revisions.parquet", ".level_durations.parquet"} {
		info, err := os.Stat(export + suffix)
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	}
}
