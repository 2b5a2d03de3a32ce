package journal

import (
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/huangsam/steptrack/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetGlobals lets a test call InitStores and CloseStores again.
func resetGlobals() {
	initOnce = sync.Once{}
	closeOnce = sync.Once{}
	Manager = &StoreManagerImpl{}
}

func TestStores(t *testing.T) {
	t.Run("single setup", func(t *testing.T) {
		resetGlobals()
		tmpDir := t.TempDir()
		draftPath := filepath.Join(tmpDir, "drafts.db")
		journalPath := filepath.Join(tmpDir, "journal.db")

		err := InitStores(schema.SQLiteBackend, draftPath, schema.SQLiteBackend, journalPath)
		require.NoError(t, err, "Failed to initialize stores")

		assert.NotNil(t, Manager.GetDraftStore(), "Draft store should not be nil")
		assert.NotNil(t, Manager.GetRevisionStore(), "Revision store should not be nil")

		CloseStores()

		_, err = os.Stat(draftPath)
		assert.NoError(t, err, "Draft database file should be created")
		_, err = os.Stat(journalPath)
		assert.NoError(t, err, "Journal database file should be created")
	})

	t.Run("idempotent setup", func(t *testing.T) {
		resetGlobals()
		tmpDir := t.TempDir()
		draftPath := filepath.Join(tmpDir, "drafts.db")

		// Multiple initializations should be safe (sync.Once)
		assert.NoError(t, InitStores(schema.SQLiteBackend, draftPath, "", ""))
		assert.NoError(t, InitStores(schema.SQLiteBackend, draftPath, "", ""))
		assert.Nil(t, Manager.GetRevisionStore(), "Journal should be disabled")

		// Multiple closes should be safe (sync.Once)
		CloseStores()
		CloseStores()
	})

	t.Run("none backend", func(t *testing.T) {
		resetGlobals()
		err := InitStores(schema.NoneBackend, "", schema.NoneBackend, "")
		require.NoError(t, err)

		drafts := Manager.GetDraftStore()
		require.NotNil(t, drafts)
		assert.NoError(t, drafts.Set("k", []byte("v"), 1, 1))
		_, _, _, err = drafts.Get("k")
		assert.ErrorIs(t, err, sql.ErrNoRows)

		status, err := Manager.GetRevisionStore().GetStatus()
		require.NoError(t, err)
		assert.False(t, status.Connected)
		CloseStores()
	})

	t.Run("invalid backend", func(t *testing.T) {
		resetGlobals()
		err := InitStores("oracle", "", "", "")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to initialize draft storage")
	})

	t.Run("invalid journal closes drafts", func(t *testing.T) {
		resetGlobals()
		err := InitStores(schema.NoneBackend, "", "oracle", "")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to initialize revision journal")
		assert.Nil(t, Manager.GetDraftStore())
	})
}

func TestValidateTableName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid", "steptrack_drafts", false},
		{"leading underscore", "_drafts", false},
		{"digits", "drafts2", false},
		{"empty", "", true},
		{"leading digit", "1drafts", true},
		{"injection", "drafts; DROP TABLE x", true},
		{"dash", "step-drafts", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateTableName(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestQuoteTableName(t *testing.T) {
	assert.Equal(t, "`drafts`", quoteTableName("drafts", schema.MySQLBackend))
	assert.Equal(t, `"drafts"`, quoteTableName("drafts", schema.PostgreSQLBackend))
	assert.Equal(t, `"drafts"`, quoteTableName("drafts", schema.SQLiteBackend))
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, []string{"$1", "$2", "$3"}, placeholders(schema.PostgreSQLBackend, 3))
	assert.Equal(t, []string{"?", "?"}, placeholders(schema.MySQLBackend, 2))
	assert.Equal(t, []string{"?"}, placeholders(schema.SQLiteBackend, 1))
}

func TestParseTime(t *testing.T) {
	want := time.Date(2024, 3, 1, 10, 30, 15, 0, time.UTC)

	tests := []struct {
		name  string
		input any
	}{
		{"time value", want},
		{"rfc3339", "2024-03-01T10:30:15Z"},
		{"mysql text", []byte("2024-03-01 10:30:15")},
		{"mysql micros", "2024-03-01 10:30:15.000000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseTime(tt.input)
			require.NoError(t, err)
			assert.True(t, want.Equal(got), "got %s", got)
		})
	}

	_, err := parseTime(42)
	assert.Error(t, err)
	_, err = parseTime("yesterday")
	assert.Error(t, err)
}

func TestFormatTime(t *testing.T) {
	ts := time.Date(2024, 3, 1, 10, 30, 15, 5, time.FixedZone("X", 3600))
	assert.Equal(t, "2024-03-01T09:30:15.000000005Z", formatTime(ts, schema.SQLiteBackend))
	assert.Equal(t, ts, formatTime(ts, schema.PostgreSQLBackend))
}

func TestGetCreateDraftTableQuery(t *testing.T) {
	assert.Contains(t, getCreateDraftTableQuery("d", schema.MySQLBackend), "LONGBLOB")
	assert.Contains(t, getCreateDraftTableQuery("d", schema.PostgreSQLBackend), "BYTEA")
	assert.Contains(t, getCreateDraftTableQuery("d", schema.SQLiteBackend), "BLOB")
}

func TestGetUpsertQuery(t *testing.T) {
	tests := []struct {
		backend schema.DatabaseBackend
		want    string
	}{
		{schema.MySQLBackend, "ON DUPLICATE KEY UPDATE"},
		{schema.PostgreSQLBackend, "ON CONFLICT (draft_key)"},
		{schema.SQLiteBackend, "INSERT OR REPLACE"},
	}
	for _, tt := range tests {
		t.Run(string(tt.backend), func(t *testing.T) {
			ds := &DraftStoreImpl{tableName: "d", backend: tt.backend}
			assert.Contains(t, ds.getUpsertQuery(), tt.want)
		})
	}
}

func TestClearBackend(t *testing.T) {
	t.Run("sqlite removes file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "drafts.db")
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
		require.NoError(t, ClearDrafts(schema.SQLiteBackend, path, ""))
		_, err := os.Stat(path)
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("sqlite missing file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "missing.db")
		assert.NoError(t, ClearRevisions(schema.SQLiteBackend, path, ""))
	})

	t.Run("sqlite empty path", func(t *testing.T) {
		assert.Error(t, ClearDrafts(schema.SQLiteBackend, "", ""))
	})

	t.Run("none", func(t *testing.T) {
		assert.NoError(t, ClearRevisions(schema.NoneBackend, "", ""))
	})

	t.Run("unsupported", func(t *testing.T) {
		err := ClearDrafts("oracle", "", "")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported backend")
	})
}

func TestStoreManagerConcurrency(t *testing.T) {
	resetGlobals()
	require.NoError(t, InitStores(schema.NoneBackend, "", schema.NoneBackend, ""))
	defer CloseStores()

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NotNil(t, Manager.GetDraftStore())
			assert.NotNil(t, Manager.GetRevisionStore())
		}()
	}
	wg.Wait()
}
