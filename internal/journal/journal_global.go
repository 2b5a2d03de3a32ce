package journal

import (
	"database/sql"
	"fmt"
	"os"
	"sync"

	"github.com/huangsam/steptrack/internal/contract"
	"github.com/huangsam/steptrack/schema"
)

// draftTable is the name of the table for drafts.
const draftTable = "steptrack_drafts"

// Global Manager instance for main logic.
var (
	Manager   = &StoreManagerImpl{}
	initOnce  sync.Once
	closeOnce sync.Once
)

// GetDraftDBFilePath returns the path to the SQLite DB file for drafts.
func GetDraftDBFilePath() string {
	return contract.GetDraftDBFilePath()
}

// GetJournalDBFilePath returns the path to the SQLite DB file for the revision journal.
func GetJournalDBFilePath() string {
	return contract.GetJournalDBFilePath()
}

// InitStores initializes the global manager with separate draft and revision stores.
// draftBackend can be empty to disable drafts.
// journalBackend can be empty to disable the revision journal.
func InitStores(draftBackend schema.DatabaseBackend, draftConnStr string, journalBackend schema.DatabaseBackend, journalConnStr string) error {
	var initErr error

	initOnce.Do(func() {
		// This function body runs exactly once, even with concurrent calls.
		var err error

		var drafts contract.DraftStore
		if draftBackend != "" {
			drafts, err = NewDraftStore(draftTable, draftBackend, draftConnStr)
			if err != nil {
				initErr = fmt.Errorf("failed to initialize draft storage: %w", err)
				return
			}
		}

		var revisions contract.RevisionStore
		if journalBackend != "" {
			revisions, err = NewRevisionStore(journalBackend, journalConnStr)
			if err != nil {
				if drafts != nil {
					_ = drafts.Close()
				}
				initErr = fmt.Errorf("failed to initialize revision journal: %w", err)
				return
			}
		}

		Manager.Lock()
		defer Manager.Unlock()
		Manager.drafts = drafts
		Manager.revisions = revisions
	})

	// After once.Do, initErr will contain any error from the initialization block.
	return initErr
}

// CloseStores should be called on application shutdown.
func CloseStores() { // called in main defer
	closeOnce.Do(func() {
		Manager.Lock()
		defer Manager.Unlock()
		if Manager.drafts != nil {
			_ = Manager.drafts.Close()
		}
		if Manager.revisions != nil {
			_ = Manager.revisions.Close()
		}
	})
}

// ClearDrafts removes every stored draft.
// For SQLite, it deletes the database file.
// For SQL backends (MySQL/PostgreSQL), it drops the table.
// For NoneBackend, it does nothing.
func ClearDrafts(backend schema.DatabaseBackend, dbFilePath, connStr string) error {
	return clearBackend(backend, dbFilePath, connStr, draftTable)
}

// ClearRevisions removes the revision journal.
// For SQLite, it deletes the database file.
// For SQL backends (MySQL/PostgreSQL), it drops the journal tables.
// For NoneBackend, it does nothing.
func ClearRevisions(backend schema.DatabaseBackend, dbFilePath, connStr string) error {
	return clearBackend(backend, dbFilePath, connStr, levelDurationsTable, revisionsTable, migrationsTable)
}

func clearBackend(backend schema.DatabaseBackend, dbFilePath, connStr string, tables ...string) error {
	switch backend {
	case schema.SQLiteBackend:
		if dbFilePath == "" {
			return fmt.Errorf("dbFilePath cannot be empty for SQLite backend")
		}
		// Remove the file; ignore if it doesn't exist
		if err := os.Remove(dbFilePath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove SQLite database file %s: %w", dbFilePath, err)
		}
		return nil

	case schema.MySQLBackend, schema.PostgreSQLBackend:
		driverName, _ := driverFor(backend)
		for _, table := range tables {
			if err := clearSQLTable(driverName, connStr, quoteTableName(table, backend)); err != nil {
				return err
			}
		}
		return nil

	case schema.NoneBackend:
		return nil

	default:
		return fmt.Errorf("unsupported backend for clearing: %s", backend)
	}
}

// clearSQLTable connects to the SQL database and drops the table if it exists.
func clearSQLTable(driverName, connStr, tableName string) error {
	db, err := sql.Open(driverName, connStr)
	if err != nil {
		return fmt.Errorf("failed to connect to %s database: %w", driverName, err)
	}
	defer func() { _ = db.Close() }()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping %s database: %w", driverName, err)
	}

	query := fmt.Sprintf("DROP TABLE IF EXISTS %s", tableName)
	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("failed to drop table %s: %w", tableName, err)
	}

	return nil
}
