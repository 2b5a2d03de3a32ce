// Package outwriter has output and writer logic.
package outwriter

import (
	"time"

	"github.com/huangsam/steptrack/internal/contract"
	"github.com/huangsam/steptrack/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteVault prints the vault and its patients using the configured output format.
func (ow *OutWriter) WriteVault(contents schema.VaultContents, on time.Time, cfg *contract.Config) error {
	return WriteVault(contents, on, cfg)
}

// WriteSessions prints the sessions of a patient using the configured output format.
func (ow *OutWriter) WriteSessions(patient schema.PatientRecord, sessions []schema.SessionRecord, cfg *contract.Config) error {
	return WriteSessionList(patient, sessions, cfg)
}

// WriteSession prints one session using the configured output format.
func (ow *OutWriter) WriteSession(rec schema.SessionRecord, cfg *contract.Config) error {
	return WriteSession(rec, cfg)
}

// WriteStats prints the level shares of a session using the configured output format.
func (ow *OutWriter) WriteStats(stats schema.SessionStats, cfg *contract.Config) error {
	return WriteSessionStats(stats, cfg)
}
