package cmd

import (
	"github.com/huangsam/steptrack/core"
	"github.com/huangsam/steptrack/internal/contract"
	"github.com/spf13/cobra"
)

// vaultCmd groups the vault commands.
var vaultCmd = &cobra.Command{
	Use:   "vault",
	Short: "Create and inspect session vaults",
	Long: `A vault is a directory that holds every patient and session of a therapist.

Layout:
  _vault.json                  - vault metadata
  p__<patient>/_patient.json   - one folder per patient
  p__<patient>/s__<id>.json    - one file per session

The vault path comes from --vault, STEPTRACK_VAULT or the config file,
and defaults to the current directory.

Subcommands:
  init - Turn an empty or missing directory into a vault
  show - Print the vault metadata and its patients

Examples:
  # Start a new vault
  steptrack vault init --vault ~/therapy

  # List the patients in it
  steptrack vault show --vault ~/therapy`,
}

// vaultInitCmd creates a vault.
var vaultInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create an empty vault",
	Long: `Create a vault in the configured directory.

The directory is created when missing. An existing directory must be empty.

Examples:
  steptrack vault init --vault ~/therapy`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteVaultInit(rootCtx, cfg); err != nil {
			contract.LogFatal("Cannot create vault", err)
		}
	},
}

// vaultShowCmd prints a vault.
var vaultShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the vault metadata and its patients",
	Long: `Open the configured vault and print its patients with their age and diagnosis.

Examples:
  # Table output
  steptrack vault show

  # JSON for scripting
  steptrack vault show --output json`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteVaultShow(rootCtx, cfg); err != nil {
			contract.LogFatal("Cannot open vault", err)
		}
	},
}
