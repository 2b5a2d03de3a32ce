package cmd

import (
	"github.com/huangsam/steptrack/core"
	"github.com/huangsam/steptrack/internal/contract"
	"github.com/huangsam/steptrack/internal/vault"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// patientCmd groups the patient commands.
var patientCmd = &cobra.Command{
	Use:   "patient",
	Short: "Manage the patients of a vault",
	Long: `Create, list, update and delete the patients of the configured vault.

Every patient gets a generated ID. Pass it with --patient to the
patient and session commands.

Subcommands:
  create - Add a patient
  list   - Print every patient
  update - Change the fields of a patient
  delete - Remove a patient and all of their sessions

Examples:
  steptrack patient create --name Maria --surname Lopez --birth-date 1990-06-15
  steptrack patient list`,
}

// patientCreateCmd adds a patient.
var patientCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Add a patient to the vault",
	Long: `Add a patient to the configured vault and print the new patient ID.

Name, surname and birth date are required.

Examples:
  steptrack patient create --name Maria --surname Lopez --birth-date 1990-06-15 --diagnosis F41.1`,
	PreRunE: sharedSetupWrapper,
	Run: func(cmd *cobra.Command, _ []string) {
		flags := cmd.Flags()
		in := vault.NewPatient{
			Name:      stringFlag(flags, "name"),
			Surname:   stringFlag(flags, "surname"),
			BirthDate: stringFlag(flags, "birth-date"),
			Diagnosis: stringFlag(flags, "diagnosis"),
			Notes:     stringFlag(flags, "notes"),
		}
		if err := core.ExecutePatientCreate(rootCtx, cfg, in); err != nil {
			contract.LogFatal("Cannot create patient", err)
		}
	},
}

// patientListCmd prints the patients.
var patientListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print every patient of the vault",
	Long: `Print every patient of the configured vault. Same as "vault show".

Examples:
  steptrack patient list --output csv --output-file patients.csv`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteVaultShow(rootCtx, cfg); err != nil {
			contract.LogFatal("Cannot list patients", err)
		}
	},
}

// patientUpdateCmd changes a patient.
var patientUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Change the fields of a patient",
	Long: `Overwrite the fields passed on the command line. Other fields are kept.

Examples:
  steptrack patient update --patient <id> --diagnosis F43.1
  steptrack patient update --patient <id> --notes ""`,
	PreRunE: sharedSetupWrapper,
	Run: func(cmd *cobra.Command, _ []string) {
		flags := cmd.Flags()
		changes := core.PatientChanges{
			Name:      changedFlag(flags, "name"),
			Surname:   changedFlag(flags, "surname"),
			BirthDate: changedFlag(flags, "birth-date"),
			Diagnosis: changedFlag(flags, "diagnosis"),
			Notes:     changedFlag(flags, "notes"),
		}
		if err := core.ExecutePatientUpdate(rootCtx, cfg, changes); err != nil {
			contract.LogFatal("Cannot update patient", err)
		}
	},
}

// patientDeleteCmd removes a patient.
var patientDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Remove a patient and all of their sessions",
	Long: `Delete the patient folder and every session file in it.

WARNING: This action cannot be undone.

Examples:
  steptrack patient delete --patient <id>`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecutePatientDelete(rootCtx, cfg); err != nil {
			contract.LogFatal("Cannot delete patient", err)
		}
	},
}

// stringFlag returns the value of a string flag, or "" when it is not defined.
func stringFlag(flags *pflag.FlagSet, name string) string {
	value, _ := flags.GetString(name)
	return value
}

// changedFlag returns the value of a string flag only when it was set.
func changedFlag(flags *pflag.FlagSet, name string) *string {
	if !flags.Changed(name) {
		return nil
	}
	value := stringFlag(flags, name)
	return &value
}
