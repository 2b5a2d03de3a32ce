// Package parquet provides data structures and functions for exporting steptrack
// revisions and session stats to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/huangsam/steptrack/schema"
	"github.com/parquet-go/parquet-go"
)

// Revision represents one saved revision of a session.
// This struct maps to the steptrack_revisions database table.
type Revision struct {
	// RevisionID is the unique identifier for this revision
	RevisionID int64 `parquet:"revision_id,snappy"`

	// VaultPath is the absolute path of the vault holding the session
	VaultPath string `parquet:"vault_path,snappy,dict"`

	// PatientID identifies the patient folder inside the vault
	PatientID string `parquet:"patient_id,snappy,dict"`

	// SessionID identifies the session file inside the patient folder
	SessionID string `parquet:"session_id,snappy,dict"`

	// SavedAt is when the revision was written (stored as TIMESTAMP with nanosecond precision)
	SavedAt time.Time `parquet:"saved_at,snappy"`

	// DurationSeconds is the length of the session
	DurationSeconds float64 `parquet:"duration_seconds,snappy"`

	// SeriesCount is the number of scales in the session
	SeriesCount int32 `parquet:"series_count,snappy"`

	// AnnotationCount counts comments and breaks together
	AnnotationCount int32 `parquet:"annotation_count,snappy"`

	// BreakCount counts breaks only
	BreakCount int32 `parquet:"break_count,snappy"`
}

// LevelDuration is the time one scale spent at one level in a revision.
// This struct maps to the steptrack_level_durations database table.
type LevelDuration struct {
	// RevisionID references the parent revision
	RevisionID int64 `parquet:"revision_id,snappy"`

	// Scale is the clinical scale label
	Scale string `parquet:"scale,snappy,dict"`

	// Level is the clinical level, 0-6
	Level int32 `parquet:"level,snappy"`

	// Percent is the share of the session spent at the level
	Percent float64 `parquet:"percent,snappy"`

	// Seconds is the time spent at the level
	Seconds float64 `parquet:"seconds,snappy"`
}

// SessionStat is one row of the stats of a single session.
type SessionStat struct {
	Session  string  `parquet:"session,snappy,dict"`
	Date     string  `parquet:"date,snappy,dict"`
	Scale    string  `parquet:"scale,snappy,dict"`
	Level    int32   `parquet:"level,snappy"`
	Percent  float64 `parquet:"percent,snappy"`
	Seconds  float64 `parquet:"seconds,snappy"`
	Duration float64 `parquet:"duration_seconds,snappy"`
}

// writeParquet writes rows to a new Parquet file at outputPath.
func writeParquet[T any](data []T, outputPath string) error {
	// Create the output file
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// The schema is automatically derived from the struct tags of T
	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// WriteRevisionsParquet writes a slice of Revision structs to a Parquet file.
func WriteRevisionsParquet(data []Revision, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteLevelDurationsParquet writes a slice of LevelDuration structs to a Parquet file.
func WriteLevelDurationsParquet(data []LevelDuration, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteSessionStatsParquet writes the stats of one session to a Parquet file.
func WriteSessionStatsParquet(stats schema.SessionStats, outputPath string) error {
	return writeParquet(ConvertSessionStats(stats), outputPath)
}

// ConvertRevisionRecords converts schema.RevisionRecord to Revision for Parquet export.
func ConvertRevisionRecords(records []schema.RevisionRecord) []Revision {
	result := make([]Revision, len(records))
	for i, record := range records {
		result[i] = Revision{
			RevisionID:      record.RevisionID,
			VaultPath:       record.VaultPath,
			PatientID:       record.PatientID,
			SessionID:       record.SessionID,
			SavedAt:         record.SavedAt,
			DurationSeconds: record.DurationSeconds,
			SeriesCount:     record.SeriesCount,
			AnnotationCount: record.AnnotationCount,
			BreakCount:      record.BreakCount,
		}
	}
	return result
}

// ConvertLevelDurationRecords converts schema.LevelDurationRecord to LevelDuration for Parquet export.
func ConvertLevelDurationRecords(records []schema.LevelDurationRecord) []LevelDuration {
	result := make([]LevelDuration, len(records))
	for i, record := range records {
		result[i] = LevelDuration(record)
	}
	return result
}

// ConvertSessionStats flattens session stats into one row per scale and level.
func ConvertSessionStats(stats schema.SessionStats) []SessionStat {
	var result []SessionStat
	for _, s := range stats.Series {
		for _, share := range s.Levels {
			result = append(result, SessionStat{
				Session:  stats.Name,
				Date:     stats.Date,
				Scale:    string(s.Scale),
				Level:    int32(share.Level),
				Percent:  share.Percent,
				Seconds:  share.Seconds,
				Duration: stats.Duration,
			})
		}
	}
	return result
}
