package cmd

import (
	"fmt"

	"github.com/huangsam/steptrack/internal/contract"
	"github.com/huangsam/steptrack/internal/journal"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// draftSetup loads minimal configuration needed for draft operations.
// This is used by commands that need draft access without full shared setup.
func draftSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Get draft-related config values
	backend, err := contract.ParseBackend(viper.GetString("draft-backend"))
	if err != nil {
		return err
	}
	connStr := viper.GetString("draft-db-connect")

	// Basic validation for database backends. An empty backend disables drafts.
	if backend != "" {
		if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
			return err
		}
	}

	// Initialize drafts with the loaded config (no revision journal for draft commands)
	if err := journal.InitStores(backend, connStr, "", ""); err != nil {
		return fmt.Errorf("failed to initialize drafts: %w", err)
	}

	cfg.DraftBackend = backend
	cfg.DraftDBConnect = connStr

	return nil
}

// draftSetupWrapper wraps draftSetup to provide PreRunE for draft commands.
func draftSetupWrapper(_ *cobra.Command, _ []string) error {
	return draftSetup()
}

// sqliteFilePath returns the SQLite file of a store: the connection string when set, else the default.
func sqliteFilePath(connStr, defaultPath string) string {
	if connStr != "" {
		return connStr
	}
	return defaultPath
}

// draftCmd focused on draft management.
//
// Note: Draft subcommands use minimal initialization (draftSetup) instead of
// the full sharedSetup used by session commands. This avoids vault path
// resolution and complex config processing for simple draft operations.
var draftCmd = &cobra.Command{
	Use:   "draft",
	Short: "Manage drafts of unsaved session edits",
	Long: `Manage the drafts that keep unsaved session edits.

With autosave on, every change to an open session is written to the draft
store. "session edit --from-draft" and the MCP "restore_draft" tool pick a
draft up again. Saving a session removes its draft.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status - Show draft statistics and connection info
  clear  - Remove all drafts

Examples:
  # Check draft status
  steptrack draft status

  # Throw away every unsaved edit
  steptrack draft clear`,
}

// draftClearCmd clears the drafts.
var draftClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all drafts",
	Long: `Delete every stored draft from the configured backend.

WARNING: Unsaved edits kept in drafts are lost.

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the draft table

Examples:
  # Clear SQLite drafts (default)
  steptrack draft clear

  # Clear MySQL drafts (set connection string via env variable)
  STEPTRACK_DRAFT_BACKEND=mysql STEPTRACK_DRAFT_DB_CONNECT="..." steptrack draft clear`,
	PreRunE: draftSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		// Release the SQLite handle before the file is removed
		journal.CloseStores()
		path := sqliteFilePath(cfg.DraftDBConnect, journal.GetDraftDBFilePath())
		if err := journal.ClearDrafts(cfg.DraftBackend, path, cfg.DraftDBConnect); err != nil {
			contract.LogFatal("Failed to clear drafts", err)
		}
		fmt.Println("Drafts cleared successfully.")
	},
}

// draftStatusCmd shows draft status.
var draftStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display draft statistics and connection details",
	Long: `Show detailed information about the draft store.

Displays:
- Backend type and connection status
- Total number of stored drafts
- Last and oldest draft timestamps
- Draft database size

Examples:
  # Check draft status
  steptrack draft status`,
	PreRunE: draftSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		store := journal.Manager.GetDraftStore()
		if store == nil {
			fmt.Println("Drafts are disabled.")
			return
		}
		status, err := store.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get draft status", err)
		}
		journal.PrintDraftStatus(status)
	},
}
