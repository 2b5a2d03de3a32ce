package journal

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/huangsam/steptrack/internal/contract"
	"github.com/huangsam/steptrack/schema"
)

// Table names for the revision journal.
const (
	revisionsTable      = "steptrack_revisions"
	levelDurationsTable = "steptrack_level_durations"
)

// RevisionStoreImpl implements the RevisionStore interface.
type RevisionStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.RevisionStore = &RevisionStoreImpl{} // Compile-time check

// NewRevisionStore creates a new RevisionStore with the specified backend.
func NewRevisionStore(backend schema.DatabaseBackend, connStr string) (contract.RevisionStore, error) {
	if backend == schema.NoneBackend {
		// Return a no-op store for disabled tracking
		return &RevisionStoreImpl{backend: backend}, nil
	}

	db, err := openDB(backend, connStr, GetJournalDBFilePath())
	if err != nil {
		return nil, err
	}

	if err := createRevisionTables(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create journal tables: %w", err)
	}

	return &RevisionStoreImpl{db: db, backend: backend}, nil
}

// createRevisionTables creates the journal tables.
func createRevisionTables(db *sql.DB, backend schema.DatabaseBackend) error {
	tables := []struct {
		name  string
		query string
	}{
		{revisionsTable, getCreateRevisionsQuery(backend)},
		{levelDurationsTable, getCreateLevelDurationsQuery(backend)},
	}

	for _, table := range tables {
		if _, err := db.Exec(table.query); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table.name, err)
		}
	}

	return nil
}

// getCreateRevisionsQuery returns the CREATE TABLE query for steptrack_revisions.
func getCreateRevisionsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(revisionsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				revision_id BIGINT AUTO_INCREMENT PRIMARY KEY,
				vault_path VARCHAR(1024) NOT NULL,
				patient_id VARCHAR(64) NOT NULL,
				session_id VARCHAR(64) NOT NULL,
				saved_at DATETIME(6) NOT NULL,
				duration_seconds DOUBLE NOT NULL,
				series_count INT NOT NULL,
				annotation_count INT NOT NULL,
				break_count INT NOT NULL
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				revision_id BIGSERIAL PRIMARY KEY,
				vault_path TEXT NOT NULL,
				patient_id TEXT NOT NULL,
				session_id TEXT NOT NULL,
				saved_at TIMESTAMPTZ NOT NULL,
				duration_seconds DOUBLE PRECISION NOT NULL,
				series_count INT NOT NULL,
				annotation_count INT NOT NULL,
				break_count INT NOT NULL
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				revision_id INTEGER PRIMARY KEY AUTOINCREMENT,
				vault_path TEXT NOT NULL,
				patient_id TEXT NOT NULL,
				session_id TEXT NOT NULL,
				saved_at TEXT NOT NULL,
				duration_seconds REAL NOT NULL,
				series_count INTEGER NOT NULL,
				annotation_count INTEGER NOT NULL,
				break_count INTEGER NOT NULL
			);
		`, quotedTableName)
	}
}

// getCreateLevelDurationsQuery returns the CREATE TABLE query for steptrack_level_durations.
func getCreateLevelDurationsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(levelDurationsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				revision_id BIGINT NOT NULL,
				scale VARCHAR(16) NOT NULL,
				level INT NOT NULL,
				percent DOUBLE NOT NULL,
				seconds DOUBLE NOT NULL,
				PRIMARY KEY (revision_id, scale, level)
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				revision_id BIGINT NOT NULL,
				scale TEXT NOT NULL,
				level INT NOT NULL,
				percent DOUBLE PRECISION NOT NULL,
				seconds DOUBLE PRECISION NOT NULL,
				PRIMARY KEY (revision_id, scale, level)
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				revision_id INTEGER NOT NULL,
				scale TEXT NOT NULL,
				level INTEGER NOT NULL,
				percent REAL NOT NULL,
				seconds REAL NOT NULL,
				PRIMARY KEY (revision_id, scale, level)
			);
		`, quotedTableName)
	}
}

// RecordRevision stores one saved revision and its level durations in a single transaction.
func (rs *RevisionStoreImpl) RecordRevision(ref schema.SessionRef, savedAt time.Time, doc schema.Document, stats schema.SessionStats) (int64, error) {
	// Skip for NoneBackend
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return 0, nil
	}

	breaks := 0
	for _, a := range doc.Annotations {
		if a.IsBreak {
			breaks++
		}
	}

	tx, err := rs.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin revision transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	cols := "vault_path, patient_id, session_id, saved_at, duration_seconds, series_count, annotation_count, break_count"
	args := []any{
		ref.VaultPath, ref.PatientID, ref.SessionID, formatTime(savedAt, rs.backend),
		doc.Duration, len(doc.Series), len(doc.Annotations), breaks,
	}
	quotedRevisions := quoteTableName(revisionsTable, rs.backend)
	values := strings.Join(placeholders(rs.backend, len(args)), ", ")

	var revisionID int64
	switch rs.backend {
	case schema.PostgreSQLBackend:
		query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s) RETURNING revision_id`, quotedRevisions, cols, values)
		err = tx.QueryRow(query, args...).Scan(&revisionID)
	default: // SQLite and MySQL
		query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s)`, quotedRevisions, cols, values)
		var result sql.Result
		result, err = tx.Exec(query, args...)
		if err == nil {
			revisionID, err = result.LastInsertId()
		}
	}
	if err != nil {
		return 0, fmt.Errorf("failed to insert revision: %w", err)
	}

	levelQuery := fmt.Sprintf(`INSERT INTO %s (revision_id, scale, level, percent, seconds) VALUES (%s)`,
		quoteTableName(levelDurationsTable, rs.backend), strings.Join(placeholders(rs.backend, 5), ", "))
	for _, s := range stats.Series {
		for _, share := range s.Levels {
			if _, err := tx.Exec(levelQuery, revisionID, string(s.Scale), share.Level, share.Percent, share.Seconds); err != nil {
				return 0, fmt.Errorf("failed to insert level duration for %s: %w", s.Scale, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit revision: %w", err)
	}
	return revisionID, nil
}

// Close closes the underlying connection.
func (rs *RevisionStoreImpl) Close() error {
	if rs.db != nil {
		return rs.db.Close()
	}
	return nil
}

// GetStatus returns status information about the revision store.
func (rs *RevisionStoreImpl) GetStatus() (schema.JournalStatus, error) {
	status := schema.JournalStatus{
		Backend:    string(rs.backend),
		Connected:  rs.db != nil,
		TableSizes: make(map[string]int64),
	}

	if rs.backend == schema.NoneBackend || rs.db == nil {
		return status, nil
	}

	quotedRevisions := quoteTableName(revisionsTable, rs.backend)
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", quotedRevisions)
	if err := rs.db.QueryRow(countQuery).Scan(&status.TotalRevisions); err != nil {
		return status, fmt.Errorf("failed to get total revisions: %w", err)
	}

	if status.TotalRevisions > 0 {
		var lastSaved, oldestSaved any
		lastQuery := fmt.Sprintf("SELECT revision_id, saved_at FROM %s ORDER BY revision_id DESC LIMIT 1", quotedRevisions)
		if err := rs.db.QueryRow(lastQuery).Scan(&status.LastRevisionID, &lastSaved); err != nil {
			return status, fmt.Errorf("failed to get last revision info: %w", err)
		}
		t, err := parseTime(lastSaved)
		if err != nil {
			return status, fmt.Errorf("failed to parse last save time: %w", err)
		}
		status.LastSavedTime = t

		oldestQuery := fmt.Sprintf("SELECT saved_at FROM %s ORDER BY revision_id ASC LIMIT 1", quotedRevisions)
		if err := rs.db.QueryRow(oldestQuery).Scan(&oldestSaved); err != nil {
			return status, fmt.Errorf("failed to get oldest save time: %w", err)
		}
		if t, err = parseTime(oldestSaved); err != nil {
			return status, fmt.Errorf("failed to parse oldest save time: %w", err)
		}
		status.OldestSaveTime = t

		sessionsQuery := fmt.Sprintf("SELECT COUNT(*) FROM (SELECT DISTINCT vault_path, patient_id, session_id FROM %s) sessions", quotedRevisions)
		if err := rs.db.QueryRow(sessionsQuery).Scan(&status.TotalSessions); err != nil {
			return status, fmt.Errorf("failed to get total sessions: %w", err)
		}
	}

	for _, table := range []string{revisionsTable, levelDurationsTable} {
		var count int64
		query := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(table, rs.backend))
		if err := rs.db.QueryRow(query).Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}

	return status, nil
}

// GetAllRevisions retrieves every revision, oldest first.
func (rs *RevisionStoreImpl) GetAllRevisions() ([]schema.RevisionRecord, error) {
	// Skip for NoneBackend
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT revision_id, vault_path, patient_id, session_id, saved_at,
		duration_seconds, series_count, annotation_count, break_count
		FROM %s ORDER BY revision_id`, quoteTableName(revisionsTable, rs.backend))

	rows, err := rs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query revisions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.RevisionRecord
	for rows.Next() {
		var record schema.RevisionRecord
		var savedAt any
		if err := rows.Scan(&record.RevisionID, &record.VaultPath, &record.PatientID, &record.SessionID, &savedAt,
			&record.DurationSeconds, &record.SeriesCount, &record.AnnotationCount, &record.BreakCount); err != nil {
			return nil, fmt.Errorf("failed to scan revision: %w", err)
		}
		if record.SavedAt, err = parseTime(savedAt); err != nil {
			return nil, fmt.Errorf("failed to parse saved_at: %w", err)
		}
		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating revisions: %w", err)
	}
	return results, nil
}

// GetAllLevelDurations retrieves every level duration row.
func (rs *RevisionStoreImpl) GetAllLevelDurations() ([]schema.LevelDurationRecord, error) {
	// Skip for NoneBackend
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT revision_id, scale, level, percent, seconds FROM %s ORDER BY revision_id, scale, level`,
		quoteTableName(levelDurationsTable, rs.backend))

	rows, err := rs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query level durations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.LevelDurationRecord
	for rows.Next() {
		var record schema.LevelDurationRecord
		if err := rows.Scan(&record.RevisionID, &record.Scale, &record.Level, &record.Percent, &record.Seconds); err != nil {
			return nil, fmt.Errorf("failed to scan level duration: %w", err)
		}
		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating level durations: %w", err)
	}
	return results, nil
}
