// Package contract provides interfaces and shared utilities for steptrack's internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/huangsam/steptrack/schema"
)

// SessionStore is the persistence collaborator the editor loads from and saves to.
// This allows the editor to be tested without a vault on disk.
type SessionStore interface {
	// LoadSession returns the stored record of a session.
	LoadSession(ctx context.Context, ref schema.SessionRef) (schema.SessionRecord, error)

	// SaveSession overwrites an existing session record.
	SaveSession(ctx context.Context, ref schema.SessionRef, record schema.SessionRecord) error
}

// StoreManager defines the interface for reaching the draft and revision stores.
// This allows the store layer to be mocked for testing.
type StoreManager interface {
	GetDraftStore() DraftStore
	GetRevisionStore() RevisionStore
}

// DraftStore keeps the latest unsaved document of a session, keyed by session.
type DraftStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	Delete(key string) error
	GetStatus() (schema.DraftStatus, error)
	Close() error
}

// RevisionStore records every save of a session together with its level durations.
type RevisionStore interface {
	// RecordRevision stores one saved revision and returns its unique ID
	RecordRevision(ref schema.SessionRef, savedAt time.Time, doc schema.Document, stats schema.SessionStats) (int64, error)

	// GetStatus returns status information about the revision store
	GetStatus() (schema.JournalStatus, error)

	// GetAllRevisions returns every recorded revision
	GetAllRevisions() ([]schema.RevisionRecord, error)

	// GetAllLevelDurations returns every recorded level duration row
	GetAllLevelDurations() ([]schema.LevelDurationRecord, error)

	// Close closes the underlying connection
	Close() error
}
