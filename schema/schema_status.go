package schema

import "time"

// DraftStatus represents the status of the draft store.
type DraftStatus struct {
	Backend         string    `json:"backend"`
	Connected       bool      `json:"connected"`
	TotalEntries    int       `json:"total_entries"`
	LastEntryTime   time.Time `json:"last_entry_time"`
	OldestEntryTime time.Time `json:"oldest_entry_time"`
	TableSizeBytes  int64     `json:"table_size_bytes"`
}

// JournalStatus represents the status of the revision journal.
type JournalStatus struct {
	Backend        string           `json:"backend"`
	Connected      bool             `json:"connected"`
	TotalRevisions int              `json:"total_revisions"`
	LastRevisionID int64            `json:"last_revision_id"`
	LastSavedTime  time.Time        `json:"last_saved_time"`
	OldestSaveTime time.Time        `json:"oldest_save_time"`
	TotalSessions  int              `json:"total_sessions"`
	TableSizes     map[string]int64 `json:"table_sizes"`
}

// RevisionRecord represents a row from the steptrack_revisions table.
type RevisionRecord struct {
	RevisionID      int64
	VaultPath       string
	PatientID       string
	SessionID       string
	SavedAt         time.Time
	DurationSeconds float64
	SeriesCount     int32
	AnnotationCount int32
	BreakCount      int32
}

// LevelDurationRecord represents a row from the steptrack_level_durations table.
type LevelDurationRecord struct {
	RevisionID int64
	Scale      string
	Level      int32
	Percent    float64
	Seconds    float64
}
