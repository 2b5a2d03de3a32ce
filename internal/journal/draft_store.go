package journal

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql" // MySQL driver
	"github.com/huangsam/steptrack/internal/contract"
	"github.com/huangsam/steptrack/schema"
)

// DraftStoreImpl keeps the latest unsaved document of each session.
type DraftStoreImpl struct {
	db        *sql.DB
	tableName string
	backend   schema.DatabaseBackend
	connStr   string
}

var _ contract.DraftStore = &DraftStoreImpl{} // Compile-time check

// NewDraftStore initializes and returns a new DraftStore based on the backend type.
func NewDraftStore(tableName string, backend schema.DatabaseBackend, connStr string) (contract.DraftStore, error) {
	// Validate table name to prevent SQL injection
	if err := validateTableName(tableName); err != nil {
		return nil, err
	}

	if backend == schema.NoneBackend {
		// Return a no-op store for disabled drafts
		return &DraftStoreImpl{tableName: tableName, backend: backend, connStr: connStr}, nil
	}

	db, err := openDB(backend, connStr, GetDraftDBFilePath())
	if err != nil {
		return nil, err
	}

	query := getCreateDraftTableQuery(tableName, backend)
	if _, err := db.Exec(query); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create table %s: %w", tableName, err)
	}

	return &DraftStoreImpl{
		db:        db,
		tableName: tableName,
		backend:   backend,
		connStr:   connStr,
	}, nil
}

// getCreateDraftTableQuery returns the CREATE TABLE query for the given backend.
func getCreateDraftTableQuery(tableName string, backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(tableName, backend)
	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				draft_key VARCHAR(255) PRIMARY KEY,
				draft_value LONGBLOB NOT NULL,
				draft_version INT NOT NULL,
				draft_timestamp BIGINT NOT NULL
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				draft_key TEXT PRIMARY KEY,
				draft_value BYTEA NOT NULL,
				draft_version INTEGER NOT NULL,
				draft_timestamp BIGINT NOT NULL
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				draft_key TEXT PRIMARY KEY,
				draft_value BLOB NOT NULL,
				draft_version INTEGER NOT NULL,
				draft_timestamp INTEGER NOT NULL
			);
		`, quotedTableName)
	}
}

// Get retrieves a draft by key.
func (ds *DraftStoreImpl) Get(key string) ([]byte, int, int64, error) {
	// Return not found error for NoneBackend
	if ds.backend == schema.NoneBackend || ds.db == nil {
		return nil, 0, 0, sql.ErrNoRows
	}

	var value []byte
	var version int
	var ts int64

	quotedTableName := quoteTableName(ds.tableName, ds.backend)
	query := fmt.Sprintf(`SELECT draft_value, draft_version, draft_timestamp FROM %s WHERE draft_key = %s`,
		quotedTableName, placeholders(ds.backend, 1)[0])
	if err := ds.db.QueryRow(query, key).Scan(&value, &version, &ts); err != nil {
		return nil, 0, 0, err
	}
	return value, version, ts, nil
}

// Set inserts or replaces a draft.
func (ds *DraftStoreImpl) Set(key string, value []byte, version int, timestamp int64) error {
	// Skip for NoneBackend
	if ds.backend == schema.NoneBackend || ds.db == nil {
		return nil
	}
	_, err := ds.db.Exec(ds.getUpsertQuery(), key, value, version, timestamp)
	return err
}

// Delete removes a draft. Deleting a missing key is not an error.
func (ds *DraftStoreImpl) Delete(key string) error {
	if ds.backend == schema.NoneBackend || ds.db == nil {
		return nil
	}
	quotedTableName := quoteTableName(ds.tableName, ds.backend)
	query := fmt.Sprintf(`DELETE FROM %s WHERE draft_key = %s`, quotedTableName, placeholders(ds.backend, 1)[0])
	_, err := ds.db.Exec(query, key)
	return err
}

// getUpsertQuery returns the UPSERT query for the backend.
func (ds *DraftStoreImpl) getUpsertQuery() string {
	quotedTableName := quoteTableName(ds.tableName, ds.backend)
	switch ds.backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (draft_key, draft_value, draft_version, draft_timestamp) VALUES (?, ?, ?, ?) AS new
			ON DUPLICATE KEY UPDATE draft_value = new.draft_value, draft_version = new.draft_version, draft_timestamp = new.draft_timestamp`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (draft_key, draft_value, draft_version, draft_timestamp) VALUES ($1, $2, $3, $4)
			ON CONFLICT (draft_key) DO UPDATE SET draft_value = EXCLUDED.draft_value, draft_version = EXCLUDED.draft_version, draft_timestamp = EXCLUDED.draft_timestamp`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`INSERT OR REPLACE INTO %s (draft_key, draft_value, draft_version, draft_timestamp) VALUES (?, ?, ?, ?)`, quotedTableName)
	}
}

// Close closes the underlying DB connection.
func (ds *DraftStoreImpl) Close() error {
	if ds.db != nil {
		return ds.db.Close()
	}
	return nil
}

// GetStatus returns status information about the draft store.
func (ds *DraftStoreImpl) GetStatus() (schema.DraftStatus, error) {
	status := schema.DraftStatus{
		Backend:   string(ds.backend),
		Connected: ds.db != nil,
	}

	if ds.backend == schema.NoneBackend || ds.db == nil {
		return status, nil
	}

	quotedTableName := quoteTableName(ds.tableName, ds.backend)

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", quotedTableName)
	if err := ds.db.QueryRow(countQuery).Scan(&status.TotalEntries); err != nil {
		return status, fmt.Errorf("failed to get total entries: %w", err)
	}

	if status.TotalEntries == 0 {
		return status, nil
	}

	var lastTs, oldestTs int64
	rangeQuery := fmt.Sprintf("SELECT MAX(draft_timestamp), MIN(draft_timestamp) FROM %s", quotedTableName)
	if err := ds.db.QueryRow(rangeQuery).Scan(&lastTs, &oldestTs); err != nil {
		return status, fmt.Errorf("failed to get entry times: %w", err)
	}
	status.LastEntryTime = time.Unix(lastTs, 0)
	status.OldestEntryTime = time.Unix(oldestTs, 0)

	// Fallback rough estimate if a size query fails
	estimate := int64(status.TotalEntries) * 4000
	switch ds.backend {
	case schema.SQLiteBackend:
		sizeQuery := "SELECT page_count * page_size FROM pragma_page_count(), pragma_page_size()"
		if err := ds.db.QueryRow(sizeQuery).Scan(&status.TableSizeBytes); err != nil {
			status.TableSizeBytes = 0
		}
	case schema.MySQLBackend:
		status.TableSizeBytes = estimate
		cfg, err := mysql.ParseDSN(ds.connStr)
		if err != nil || cfg.DBName == "" {
			break
		}
		sizeQuery := "SELECT data_length + index_length FROM information_schema.tables WHERE table_schema = ? AND table_name = ?"
		if err := ds.db.QueryRow(sizeQuery, cfg.DBName, ds.tableName).Scan(&status.TableSizeBytes); err != nil {
			status.TableSizeBytes = estimate
		}
	case schema.PostgreSQLBackend:
		if err := ds.db.QueryRow("SELECT pg_total_relation_size($1)", ds.tableName).Scan(&status.TableSizeBytes); err != nil {
			status.TableSizeBytes = estimate
		}
	}

	return status, nil
}
