// Package cmd defines the command-line interface for steptrack.
package cmd

import (
	"github.com/huangsam/steptrack/internal/contract"
	"github.com/huangsam/steptrack/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(vaultCmd)
	rootCmd.AddCommand(patientCmd)
	rootCmd.AddCommand(sessionCmd)
	rootCmd.AddCommand(draftCmd)
	rootCmd.AddCommand(journalCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the vault subcommands to the parent vault command
	vaultCmd.AddCommand(vaultInitCmd)
	vaultCmd.AddCommand(vaultShowCmd)

	// Add the patient subcommands to the parent patient command
	patientCmd.AddCommand(patientCreateCmd)
	patientCmd.AddCommand(patientListCmd)
	patientCmd.AddCommand(patientUpdateCmd)
	patientCmd.AddCommand(patientDeleteCmd)

	// Add the session subcommands to the parent session command
	sessionCmd.AddCommand(sessionCreateCmd)
	sessionCmd.AddCommand(sessionListCmd)
	sessionCmd.AddCommand(sessionShowCmd)
	sessionCmd.AddCommand(sessionStatsCmd)
	sessionCmd.AddCommand(sessionEditCmd)
	sessionCmd.AddCommand(sessionDeleteCmd)

	// Add the draft subcommands to the parent draft command
	draftCmd.AddCommand(draftStatusCmd)
	draftCmd.AddCommand(draftClearCmd)

	// Add the journal subcommands to the parent journal command
	journalCmd.AddCommand(journalStatusCmd)
	journalCmd.AddCommand(journalClearCmd)
	journalCmd.AddCommand(journalExportCmd)
	journalCmd.AddCommand(journalMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("vault", ".", "Path to the vault directory")
	rootCmd.PersistentFlags().Float64("line-offset", schema.DefaultLineOffset, "Vertical offset between series on the shared axis")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("autosave", "yes", "Keep a draft of unsaved edits after every change (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("draft-backend", string(schema.SQLiteBackend), "Draft backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("draft-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("journal-backend", "", "Revision journal backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("journal-db-connect", "", "Database connection string for the revision journal (must differ from draft-db-connect)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Patient flags. These are bound to Viper by sharedSetup for the command being run.
	for _, c := range []*cobra.Command{patientCreateCmd, patientUpdateCmd} {
		c.Flags().String("name", "", "Given name of the patient")
		c.Flags().String("surname", "", "Surname of the patient")
		c.Flags().String("birth-date", "", "Birth date of the patient (YYYY-MM-DD)")
		c.Flags().String("diagnosis", "", "Diagnosis of the patient")
		c.Flags().String("notes", "", "Free-form notes about the patient")
	}
	for _, c := range []*cobra.Command{patientUpdateCmd, patientDeleteCmd} {
		c.Flags().StringP("patient", "p", "", "Patient ID")
	}

	// Session flags
	for _, c := range []*cobra.Command{sessionCreateCmd, sessionListCmd, sessionShowCmd, sessionStatsCmd, sessionEditCmd, sessionDeleteCmd} {
		c.Flags().StringP("patient", "p", "", "Patient ID")
	}
	for _, c := range []*cobra.Command{sessionShowCmd, sessionStatsCmd, sessionEditCmd, sessionDeleteCmd} {
		c.Flags().StringP("session", "s", "", "Session ID")
	}
	sessionCreateCmd.Flags().String("name", "", "Name of the session")
	sessionCreateCmd.Flags().String("date", "", "Date of the session (YYYY-MM-DD, defaults to today)")
	sessionCreateCmd.Flags().Float64("duration", 0, "Length of the session in seconds")
	sessionCreateCmd.Flags().String("notes", "", "Free-form notes about the session")
	sessionListCmd.Flags().StringP("name", "n", "", "Glob filter on the session name (e.g. 'intake*')")
	sessionEditCmd.Flags().String("script", "", "YAML edit script to apply ('-' reads stdin)")
	sessionEditCmd.Flags().Bool("save", false, "Save the session after applying the script")
	sessionEditCmd.Flags().Bool("from-draft", false, "Restore the stored draft before applying the script")

	// Bind all flags of journalMigrateCmd to Viper
	journalMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(journalMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding journal migrate flags", err)
	}
}
