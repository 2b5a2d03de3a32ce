// Package core has the session editor and the command entry points built on it.
package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/gobwas/glob"
	"github.com/huangsam/steptrack/core/series"
	"github.com/huangsam/steptrack/core/stats"
	"github.com/huangsam/steptrack/internal/contract"
	"github.com/huangsam/steptrack/internal/journal"
	"github.com/huangsam/steptrack/internal/outwriter"
	"github.com/huangsam/steptrack/internal/vault"
	"github.com/huangsam/steptrack/schema"
)

// writer prints every command result in the configured output format.
var writer = outwriter.NewOutWriter()

// ExecutorFunc defines the function signature for executing the session commands.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config) error

// ExecuteVaultShow prints the vault metadata and its patients.
func ExecuteVaultShow(_ context.Context, cfg *contract.Config) error {
	contents, err := vault.New().OpenVault(cfg.VaultPath)
	if err != nil {
		return err
	}
	return writer.WriteVault(contents, time.Now(), cfg)
}

// ExecuteSessionList prints the sessions of a patient whose name matches the
// configured glob filter.
func ExecuteSessionList(_ context.Context, cfg *contract.Config) error {
	if err := requireIDs(cfg, false); err != nil {
		return err
	}
	store := vault.New()
	patient, err := store.GetPatient(cfg.VaultPath, cfg.PatientID)
	if err != nil {
		return err
	}
	sessions, err := store.ListSessions(cfg.VaultPath, cfg.PatientID)
	if err != nil {
		return err
	}
	filtered, err := filterSessions(sessions, cfg.NameFilter)
	if err != nil {
		return err
	}
	return writer.WriteSessions(patient, filtered, cfg)
}

// filterSessions keeps the sessions whose name matches pattern, ignoring case.
// An empty pattern keeps everything.
func filterSessions(sessions []schema.SessionRecord, pattern string) ([]schema.SessionRecord, error) {
	if strings.TrimSpace(pattern) == "" {
		return sessions, nil
	}
	g, err := glob.Compile(strings.ToLower(pattern))
	if err != nil {
		return nil, fmt.Errorf("invalid name filter %q: %w", pattern, err)
	}
	out := make([]schema.SessionRecord, 0, len(sessions))
	for _, s := range sessions {
		if g.Match(strings.ToLower(s.Name)) {
			out = append(out, s)
		}
	}
	return out, nil
}

// ExecuteSessionShow prints the stored breakpoints and annotations of a session.
func ExecuteSessionShow(ctx context.Context, cfg *contract.Config) error {
	if err := requireIDs(cfg, true); err != nil {
		return err
	}
	rec, err := vault.New().LoadSession(ctx, cfg.SessionRef())
	if err != nil {
		return err
	}
	return writer.WriteSession(rec, cfg)
}

// ExecuteSessionStats prints how long each scale of a session spent at each level.
func ExecuteSessionStats(ctx context.Context, cfg *contract.Config) error {
	if err := requireIDs(cfg, true); err != nil {
		return err
	}
	rec, err := vault.New().LoadSession(ctx, cfg.SessionRef())
	if err != nil {
		return err
	}
	layout := series.Layout{LineOffset: cfg.LineOffset}
	return writer.WriteStats(stats.Summarize(DocumentFromRecord(rec, layout), layout), cfg)
}

// ExecuteSessionEdit applies the configured edit script to a session and prints
// the resulting stats. Unsaved edits are kept as a draft when drafts are enabled.
func ExecuteSessionEdit(ctx context.Context, cfg *contract.Config) error {
	return editSession(ctx, cfg, vault.New(), journal.Manager)
}

func editSession(ctx context.Context, cfg *contract.Config, store contract.SessionStore, mgr contract.StoreManager) error {
	if err := requireIDs(cfg, true); err != nil {
		return err
	}
	if cfg.ScriptFile == "" && !cfg.FromDraft {
		return errors.New("nothing to apply: pass --script or --from-draft")
	}
	var ops []Op
	if cfg.ScriptFile != "" {
		data, err := readScript(cfg.ScriptFile)
		if err != nil {
			return err
		}
		if ops, err = ParseScript(data); err != nil {
			return err
		}
	}

	editor := NewEditor(store, EditorOptions(cfg, mgr)...)
	if err := editor.Open(ctx, cfg.SessionRef()); err != nil {
		return err
	}
	defer editor.Close()

	if cfg.FromDraft {
		restored, err := editor.RestoreDraft()
		if err != nil {
			return err
		}
		if !restored {
			return fmt.Errorf("no usable draft for session %s", cfg.SessionID)
		}
	}
	if err := editor.ApplyScript(ctx, ops); err != nil {
		return err
	}

	switch {
	case cfg.Save:
		if err := editor.Save(ctx); err != nil {
			return err
		}
		contract.LogInfo("Saved session %s", cfg.SessionID)
	case editor.Dirty():
		if err := editor.SaveDraft(); err != nil {
			contract.LogWarn("Unsaved edits were not kept", err)
		} else {
			contract.LogInfo("Kept unsaved edits of session %s as a draft", cfg.SessionID)
		}
	}
	return writer.WriteStats(editor.Stats(), cfg)
}

// EditorOptions wires the configured layout and whichever stores are enabled.
func EditorOptions(cfg *contract.Config, mgr contract.StoreManager) []EditorOption {
	opts := []EditorOption{WithLayout(series.Layout{LineOffset: cfg.LineOffset})}
	if mgr == nil {
		return opts
	}
	if drafts := mgr.GetDraftStore(); drafts != nil {
		opts = append(opts, WithDrafts(drafts, cfg.Autosave))
	}
	if revisions := mgr.GetRevisionStore(); revisions != nil {
		opts = append(opts, WithJournal(revisions))
	}
	return opts
}

// readScript reads an edit script from a file, or from stdin when path is "-".
func readScript(path string) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("cannot read edit script: %w", err)
	}
	return data, nil
}
