package cmd

import (
	"fmt"

	"github.com/huangsam/steptrack/internal/contract"
	"github.com/huangsam/steptrack/internal/journal"
	"github.com/huangsam/steptrack/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// journalConfig reads and validates the journal backend settings.
func journalConfig() (schema.DatabaseBackend, string, error) {
	if err := loadConfigFile(); err != nil {
		return "", "", err
	}

	// Get journal-related config values
	backend, err := contract.ParseBackend(viper.GetString("journal-backend"))
	if err != nil {
		return "", "", err
	}
	connStr := viper.GetString("journal-db-connect")

	// Handle empty backend as NoneBackend
	if backend == "" {
		backend = schema.NoneBackend
	}

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return "", "", err
	}
	return backend, connStr, nil
}

// journalSetup loads minimal configuration needed for journal operations.
// This is used by commands that need journal access without full shared setup.
func journalSetup() error {
	backend, connStr, err := journalConfig()
	if err != nil {
		return err
	}

	// Initialize stores with the loaded config (no drafts for journal commands)
	if err := journal.InitStores("", "", backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize journal: %w", err)
	}

	cfg.JournalBackend = backend
	cfg.JournalDBConnect = connStr
	cfg.OutputFile = viper.GetString("output-file")

	return nil
}

// journalSetupWrapper wraps journalSetup to provide PreRunE for journal commands.
func journalSetupWrapper(_ *cobra.Command, _ []string) error {
	return journalSetup()
}

// journalMigrateSetup loads minimal configuration needed for migrate operations.
// This is a specialized setup that does NOT initialize stores or create tables,
// allowing migrations to run on a fresh database.
func journalMigrateSetup(_ *cobra.Command, _ []string) error {
	backend, connStr, err := journalConfig()
	if err != nil {
		return err
	}

	// For SQLite backend with empty connection string, use default path
	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = journal.GetJournalDBFilePath()
	}

	cfg.JournalBackend = backend
	cfg.JournalDBConnect = connStr

	return nil
}

// journalCmd focused on revision journal management.
//
// Note: Journal subcommands use minimal initialization (journalSetup) instead of
// the full sharedSetup used by session commands.
var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Manage the revision journal of saved sessions",
	Long: `Manage the revision journal that records every session save.

When enabled, every save stores:
- Revision metadata (session, date, save time, length, comment counts)
- The full saved document
- How long each scale spent at each level

This gives a history of how session charts changed over time and an
export for analysis tools.

Supported backends: SQLite, MySQL, PostgreSQL, or None (disabled, the default)

Subcommands:
  status  - Show journal statistics
  export  - Export revisions to Parquet
  clear   - Remove every revision
  migrate - Run database schema migrations

Examples:
  # Turn the journal on for a session edit
  steptrack session edit -p <patient> -s <session> --script edits.yaml --save --journal-backend sqlite

  # Check journal status
  STEPTRACK_JOURNAL_BACKEND=sqlite steptrack journal status`,
}

// journalClearCmd clears the journal.
var journalClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every recorded revision",
	Long: `Delete every stored revision and level duration.

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  # Export before clearing
  steptrack journal export --output-file backup
  steptrack journal clear`,
	PreRunE: journalSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		journal.CloseStores()
		path := sqliteFilePath(cfg.JournalDBConnect, journal.GetJournalDBFilePath())
		if err := journal.ClearRevisions(cfg.JournalBackend, path, cfg.JournalDBConnect); err != nil {
			contract.LogFatal("Failed to clear journal", err)
		}
		fmt.Println("Journal cleared successfully.")
	},
}

// journalStatusCmd shows journal status.
var journalStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display journal statistics and connection details",
	Long: `Show detailed information about the revision journal.

Displays:
- Backend type and connection status
- Total number of revisions and sessions tracked
- Last and oldest save timestamps
- Table row counts

Examples:
  steptrack journal status --journal-backend sqlite`,
	PreRunE: journalSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		store := journal.Manager.GetRevisionStore()
		if store == nil {
			fmt.Println("Revision journal is disabled.")
			return
		}
		status, err := store.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get journal status", err)
		}
		journal.PrintJournalStatus(status)
	},
}

// journalExportCmd exports the journal to Parquet files.
var journalExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export revisions to Parquet for analytics",
	Long: `Export every stored revision to Parquet format.

Writes two files next to --output-file:
- <output-file>.revisions.parquet       - one row per save
- <output-file>.level_durations.parquet - time per scale and level per save

Requires: --output-file parameter

Examples:
  steptrack journal export --output-file steptrack
  duckdb -c "SELECT scale, level, sum(seconds) FROM read_parquet('steptrack.level_durations.parquet') GROUP BY ALL"`,
	PreRunE: journalSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := journal.ExportRevisions(cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export journal", err)
		}
	},
}

// journalMigrateCmd runs database migrations for the journal.
var journalMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the revision journal.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  steptrack journal migrate --journal-backend sqlite

  # Rollback to initial state
  steptrack journal migrate --journal-backend sqlite --target-version 0`,
	PreRunE: journalMigrateSetup,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		result, err := journal.MigrateRevisions(cfg.JournalBackend, cfg.JournalDBConnect, targetVersion)
		if err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
		fmt.Println(result)
	},
}
