package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/huangsam/steptrack/internal/contract"
	"github.com/huangsam/steptrack/internal/journal"
	"github.com/huangsam/steptrack/internal/vault"
	"github.com/huangsam/steptrack/schema"
)

// PatientChanges holds the patient fields to overwrite. Nil fields are kept.
type PatientChanges struct {
	Name      *string
	Surname   *string
	Diagnosis *string
	Notes     *string
	BirthDate *string
}

// apply copies the set fields onto patient.
func (c PatientChanges) apply(patient schema.PatientRecord) schema.PatientRecord {
	for _, f := range []struct {
		src *string
		dst *string
	}{
		{c.Name, &patient.Name},
		{c.Surname, &patient.Surname},
		{c.Diagnosis, &patient.Diagnosis},
		{c.Notes, &patient.Notes},
		{c.BirthDate, &patient.BirthDate},
	} {
		if f.src != nil {
			*f.dst = *f.src
		}
	}
	return patient
}

// ExecuteVaultInit turns the configured directory into an empty vault.
func ExecuteVaultInit(_ context.Context, cfg *contract.Config) error {
	if _, err := vault.New().CreateVault(cfg.VaultPath); err != nil {
		return err
	}
	contract.LogInfo("Created vault at %s", cfg.VaultPath)
	return nil
}

// ExecutePatientCreate adds a patient to the vault and prints its ID.
func ExecutePatientCreate(_ context.Context, cfg *contract.Config, input vault.NewPatient) error {
	patient, err := vault.New().CreatePatient(cfg.VaultPath, input)
	if err != nil {
		return err
	}
	contract.LogInfo("Created patient %s", patient.DisplayName())
	fmt.Println(patient.ID)
	return nil
}

// ExecutePatientUpdate overwrites the given fields of the configured patient.
func ExecutePatientUpdate(_ context.Context, cfg *contract.Config, changes PatientChanges) error {
	if err := requireIDs(cfg, false); err != nil {
		return err
	}
	store := vault.New()
	patient, err := store.GetPatient(cfg.VaultPath, cfg.PatientID)
	if err != nil {
		return err
	}
	updated, err := store.UpdatePatient(cfg.VaultPath, changes.apply(patient))
	if err != nil {
		return err
	}
	contract.LogInfo("Updated patient %s", updated.DisplayName())
	return nil
}

// ExecutePatientDelete removes the configured patient and all of their sessions.
func ExecutePatientDelete(_ context.Context, cfg *contract.Config) error {
	if err := requireIDs(cfg, false); err != nil {
		return err
	}
	if err := vault.New().DeletePatient(cfg.VaultPath, cfg.PatientID); err != nil {
		return err
	}
	contract.LogInfo("Deleted patient %s", cfg.PatientID)
	return nil
}

// ExecuteSessionCreate adds a session to the configured patient and prints its ID.
func ExecuteSessionCreate(_ context.Context, cfg *contract.Config, input vault.NewSession) error {
	if err := requireIDs(cfg, false); err != nil {
		return err
	}
	if input.Duration <= 0 {
		return fmt.Errorf("session duration must be positive (received %g)", input.Duration)
	}
	session, err := vault.New().CreateSession(cfg.VaultPath, cfg.PatientID, input)
	if err != nil {
		return err
	}
	contract.LogInfo("Created session %q on %s", session.Name, session.Date)
	fmt.Println(session.ID)
	return nil
}

// ExecuteSessionDelete removes the configured session and its draft.
func ExecuteSessionDelete(_ context.Context, cfg *contract.Config) error {
	return deleteSession(cfg, vault.New(), journal.Manager)
}

func deleteSession(cfg *contract.Config, store *vault.Store, mgr contract.StoreManager) error {
	if err := requireIDs(cfg, true); err != nil {
		return err
	}
	ref := cfg.SessionRef()
	if err := store.DeleteSession(ref); err != nil {
		return err
	}
	if mgr != nil {
		if drafts := mgr.GetDraftStore(); drafts != nil {
			if err := drafts.Delete(DraftKey(ref)); err != nil {
				contract.LogWarn("Draft cleanup failed", err)
			}
		}
	}
	contract.LogInfo("Deleted session %s", cfg.SessionID)
	return nil
}

// requireIDs checks that the patient, and optionally the session, were given.
func requireIDs(cfg *contract.Config, session bool) error {
	var missing []string
	if cfg.PatientID == "" {
		missing = append(missing, "--patient")
	}
	if session && cfg.SessionID == "" {
		missing = append(missing, "--session")
	}
	if len(missing) > 0 {
		return errors.New("missing required flags: " + strings.Join(missing, ", "))
	}
	return nil
}
