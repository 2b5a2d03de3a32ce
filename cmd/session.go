package cmd

import (
	"errors"

	"github.com/huangsam/steptrack/core"
	"github.com/huangsam/steptrack/internal/contract"
	"github.com/huangsam/steptrack/internal/vault"
	"github.com/spf13/cobra"
)

// sessionCmd groups the session commands.
var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage, inspect and edit sessions",
	Long: `Work with the sessions of a patient.

A session holds one step series per scale (VQR, PEQR, IQR, TQR). Every
series says which level the patient was at over the length of the session.
Comments and breaks are pinned to points in time.

Subcommands:
  create - Add a session with every scale at level 0
  list   - Print the sessions of a patient
  show   - Print the steps and annotations of a session
  stats  - Print how long each scale spent at each level
  edit   - Apply a YAML edit script and optionally save
  delete - Remove a session

Examples:
  steptrack session create -p <patient> --name Intake --duration 3000
  steptrack session list -p <patient> --name 'follow*'
  steptrack session stats -p <patient> -s <session> --output csv`,
}

// checkSessionAndExecute validates the session flags and executes the given function.
func checkSessionAndExecute(executeFunc core.ExecutorFunc, failure string) {
	if cfg.PatientID == "" || cfg.SessionID == "" {
		contract.LogFatal(failure, errors.New("--patient and --session must be provided"))
	}
	if err := executeFunc(rootCtx, cfg); err != nil {
		contract.LogFatal(failure, err)
	}
}

// sessionCreateCmd adds a session.
var sessionCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Add a session to a patient",
	Long: `Add a session to the patient and print the new session ID.

Every scale starts as one flat step at level 0. The date defaults to today.

Examples:
  steptrack session create -p <patient> --name Intake --duration 3000
  steptrack session create -p <patient> --name Follow-up --date 2024-03-08 --duration 2700`,
	PreRunE: sharedSetupWrapper,
	Run: func(cmd *cobra.Command, _ []string) {
		flags := cmd.Flags()
		duration, _ := flags.GetFloat64("duration")
		in := vault.NewSession{
			Name:     stringFlag(flags, "name"),
			Date:     stringFlag(flags, "date"),
			Notes:    stringFlag(flags, "notes"),
			Duration: duration,
		}
		if err := core.ExecuteSessionCreate(rootCtx, cfg, in); err != nil {
			contract.LogFatal("Cannot create session", err)
		}
	},
}

// sessionListCmd prints the sessions of a patient.
var sessionListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the sessions of a patient",
	Long: `Print the sessions of a patient ordered by date.

--name takes a case-insensitive glob such as 'intake*' or '*review?'.

Examples:
  steptrack session list -p <patient>
  steptrack session list -p <patient> --name 'follow*' --output json`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteSessionList(rootCtx, cfg); err != nil {
			contract.LogFatal("Cannot list sessions", err)
		}
	},
}

// sessionShowCmd prints one session.
var sessionShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the steps and annotations of a session",
	Long: `Print the notes, the steps of every scale and the comments and breaks of a session.

Examples:
  steptrack session show -p <patient> -s <session>
  steptrack session show -p <patient> -s <session> --output csv --output-file steps.csv`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		checkSessionAndExecute(core.ExecuteSessionShow, "Cannot show session")
	},
}

// sessionStatsCmd prints the level shares of a session.
var sessionStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print how long each scale spent at each level",
	Long: `Summarize a session: for every scale, the share of the session and the
time spent at each level.

Examples:
  steptrack session stats -p <patient> -s <session>
  steptrack session stats -p <patient> -s <session> --output parquet --output-file stats.parquet`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		checkSessionAndExecute(core.ExecuteSessionStats, "Cannot summarize session")
	},
}

// sessionEditCmd applies an edit script.
var sessionEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Apply a YAML edit script to a session",
	Long: `Open a session, apply a list of edit operations and print the resulting stats.

The script is a YAML list. Each item names an op and its arguments.
Times of insert and comment are percent of the session, start and
length of a break are seconds:

  - op: insert
    series: VQR
    time: 50
    level: 2
  - op: comment
    time: 30
    text: shifted posture
  - op: break
    start: 240
    length: 60
  - op: notes
    text: calmer after the break

Steps run in order and stop at the first failure, which leaves the
session file untouched. Without --save the edits are kept as a draft
(when drafts are enabled) and can be picked up again with --from-draft.
When a revision journal is configured, every save is recorded in it.

Examples:
  # Try a script without touching the session file
  steptrack session edit -p <patient> -s <session> --script edits.yaml

  # Continue from the draft and save
  steptrack session edit -p <patient> -s <session> --from-draft --save

  # Pipe a script in
  cat edits.yaml | steptrack session edit -p <patient> -s <session> --script - --save`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		checkSessionAndExecute(core.ExecuteSessionEdit, "Cannot edit session")
	},
}

// sessionDeleteCmd removes a session.
var sessionDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Remove a session",
	Long: `Delete a session file and its draft.

WARNING: This action cannot be undone. Journal revisions of the session are kept.

Examples:
  steptrack session delete -p <patient> -s <session>`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		checkSessionAndExecute(core.ExecuteSessionDelete, "Cannot delete session")
	},
}
