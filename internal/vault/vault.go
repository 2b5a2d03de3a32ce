// Package vault stores vaults, patients and sessions as JSON files on disk.
//
// A vault is a directory holding _vault.json. Each patient lives in
// p__<patientID>/_patient.json and each session in p__<patientID>/s__<sessionID>.json.
package vault

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/huangsam/steptrack/internal/contract"
	"github.com/huangsam/steptrack/schema"
)

// File layout of a vault.
const (
	vaultFile     = "_vault.json"
	patientFile   = "_patient.json"
	patientPrefix = "p__"
	sessionPrefix = "s__"
	sessionSuffix = ".json"
)

// Store reads and writes vaults on the local filesystem.
type Store struct {
	now   func() time.Time
	newID func() string
}

var _ contract.SessionStore = &Store{} // Compile-time check

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the clock used for creation dates.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator overrides how patient and session IDs are generated.
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

// New returns a Store that generates UUID v4 identifiers.
func New(opts ...Option) *Store {
	s := &Store{now: time.Now, newID: uuid.NewString}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewPatient is the user-supplied part of a patient record.
type NewPatient struct {
	Name      string `json:"name"`
	Surname   string `json:"surname"`
	Diagnosis string `json:"diagnosis"`
	Notes     string `json:"notes"`
	BirthDate string `json:"birthDate"`
}

// NewSession is the user-supplied part of a session record.
type NewSession struct {
	Name     string  `json:"name"`
	Notes    string  `json:"notes"`
	Date     string  `json:"date"`
	Duration float64 `json:"duration"`
}

// CreateVault initializes an empty or missing directory as a vault.
func (s *Store) CreateVault(vaultPath string) (schema.VaultRecord, error) {
	if vaultPath == "" {
		return schema.VaultRecord{}, contract.NewCodedError(schema.MsgVaultPathNotSelected, nil)
	}
	info, err := os.Stat(vaultPath)
	switch {
	case err == nil:
		if !info.IsDir() {
			return schema.VaultRecord{}, contract.NewCodedError(schema.MsgVaultPathNotADirectory, nil)
		}
		entries, err := os.ReadDir(vaultPath)
		if err != nil {
			return schema.VaultRecord{}, contract.NewCodedError(schema.MsgVaultPathNotExists, err)
		}
		if len(entries) > 0 {
			return schema.VaultRecord{}, contract.NewCodedError(schema.MsgVaultPathNotEmpty, nil)
		}
	case errors.Is(err, os.ErrNotExist):
		if err := os.MkdirAll(vaultPath, 0o755); err != nil {
			return schema.VaultRecord{}, contract.NewCodedError(schema.MsgVaultPathNotExists, err)
		}
	default:
		return schema.VaultRecord{}, contract.NewCodedError(schema.MsgVaultPathNotExists, err)
	}

	record := schema.VaultRecord{DateCreated: s.now().UTC().Format(time.RFC3339)}
	if err := writeJSON(filepath.Join(vaultPath, vaultFile), record); err != nil {
		return schema.VaultRecord{}, contract.NewCodedError(schema.MsgVaultPathNotExists, err)
	}
	return record, nil
}

// OpenVault reads a vault and every patient in it, ordered by patient ID.
func (s *Store) OpenVault(vaultPath string) (schema.VaultContents, error) {
	if vaultPath == "" {
		return schema.VaultContents{}, contract.NewCodedError(schema.MsgVaultPathNotSelected, nil)
	}
	info, err := os.Stat(vaultPath)
	if err != nil {
		return schema.VaultContents{}, contract.NewCodedError(schema.MsgVaultPathNotExists, err)
	}
	if !info.IsDir() {
		return schema.VaultContents{}, contract.NewCodedError(schema.MsgVaultPathNotADirectory, nil)
	}

	var metadata schema.VaultRecord
	if err := readRecord(filepath.Join(vaultPath, vaultFile), &metadata, vaultKeys); err != nil {
		return schema.VaultContents{}, contract.NewCodedError(schema.MsgVaultPathNotContainsVaultJSON, err)
	}

	entries, err := os.ReadDir(vaultPath)
	if err != nil {
		return schema.VaultContents{}, contract.NewCodedError(schema.MsgVaultPathNotExists, err)
	}
	patients := []schema.PatientRecord{}
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), patientPrefix) {
			continue
		}
		var patient schema.PatientRecord
		if err := readRecord(filepath.Join(vaultPath, entry.Name(), patientFile), &patient, patientKeys); err != nil {
			return schema.VaultContents{}, contract.NewCodedError(schema.MsgVaultPathNotContainsPatient, err)
		}
		patients = append(patients, patient)
	}
	slices.SortFunc(patients, func(a, b schema.PatientRecord) int { return strings.Compare(a.ID, b.ID) })

	return schema.VaultContents{Path: vaultPath, Metadata: metadata, Patients: patients}, nil
}

// CreatePatient adds a patient folder to the vault.
func (s *Store) CreatePatient(vaultPath string, input NewPatient) (schema.PatientRecord, error) {
	if strings.TrimSpace(input.Name) == "" || strings.TrimSpace(input.Surname) == "" || strings.TrimSpace(input.BirthDate) == "" {
		return schema.PatientRecord{}, contract.NewCodedError(schema.MsgNamesRequired, nil)
	}
	if err := requireVault(vaultPath); err != nil {
		return schema.PatientRecord{}, err
	}

	record := schema.PatientRecord{
		ID:          s.newID(),
		Name:        input.Name,
		Surname:     input.Surname,
		Diagnosis:   input.Diagnosis,
		Notes:       input.Notes,
		BirthDate:   input.BirthDate,
		DateCreated: schema.GenerateDate(s.now()),
	}
	dir := patientDir(vaultPath, record.ID)
	if _, err := os.Stat(dir); err == nil {
		return schema.PatientRecord{}, contract.NewCodedError(schema.MsgPatientExists, nil)
	}
	if err := os.Mkdir(dir, 0o755); err != nil {
		return schema.PatientRecord{}, contract.NewCodedError(schema.MsgErrorCreatePatientPath, err)
	}
	if err := writeJSON(filepath.Join(dir, patientFile), record); err != nil {
		_ = os.RemoveAll(dir)
		return schema.PatientRecord{}, contract.NewCodedError(schema.MsgErrorCreatePatientPath, err)
	}
	return record, nil
}

// UpdatePatient overwrites an existing patient record. ID and creation date are kept.
func (s *Store) UpdatePatient(vaultPath string, patient schema.PatientRecord) (schema.PatientRecord, error) {
	if strings.TrimSpace(patient.Name) == "" || strings.TrimSpace(patient.Surname) == "" {
		return schema.PatientRecord{}, contract.NewCodedError(schema.MsgNamesRequired, nil)
	}
	existing, err := s.GetPatient(vaultPath, patient.ID)
	if err != nil {
		return schema.PatientRecord{}, err
	}
	patient.DateCreated = existing.DateCreated
	if err := writeJSON(filepath.Join(patientDir(vaultPath, patient.ID), patientFile), patient); err != nil {
		return schema.PatientRecord{}, contract.NewCodedError(schema.MsgErrorUpdatePatientData, err)
	}
	return patient, nil
}

// GetPatient reads one patient record.
func (s *Store) GetPatient(vaultPath, patientID string) (schema.PatientRecord, error) {
	if err := requirePatient(vaultPath, patientID); err != nil {
		return schema.PatientRecord{}, err
	}
	var patient schema.PatientRecord
	if err := readRecord(filepath.Join(patientDir(vaultPath, patientID), patientFile), &patient, patientKeys); err != nil {
		return schema.PatientRecord{}, contract.NewCodedError(schema.MsgVaultPathNotContainsPatient, err)
	}
	return patient, nil
}

// DeletePatient removes a patient folder and every session in it.
func (s *Store) DeletePatient(vaultPath, patientID string) error {
	if err := requirePatient(vaultPath, patientID); err != nil {
		return err
	}
	if err := os.RemoveAll(patientDir(vaultPath, patientID)); err != nil {
		return contract.NewCodedError(schema.MsgErrorDeletePatient, err)
	}
	return nil
}

// ListSessions reads every session of a patient, ordered by date then name.
func (s *Store) ListSessions(vaultPath, patientID string) ([]schema.SessionRecord, error) {
	if err := requirePatient(vaultPath, patientID); err != nil {
		return nil, err
	}
	dir := patientDir(vaultPath, patientID)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, contract.NewCodedError(schema.MsgPatientNotExists, err)
	}

	sessions := []schema.SessionRecord{}
	for _, entry := range entries {
		name := entry.Name()
		if !entry.Type().IsRegular() || !strings.HasPrefix(name, sessionPrefix) || !strings.HasSuffix(name, sessionSuffix) {
			continue
		}
		record, err := readSession(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, record)
	}
	slices.SortStableFunc(sessions, func(a, b schema.SessionRecord) int {
		if c := strings.Compare(a.Date, b.Date); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})
	return sessions, nil
}

// CreateSession writes a new session with one flat dataset per scale.
func (s *Store) CreateSession(vaultPath, patientID string, input NewSession) (schema.SessionRecord, error) {
	if err := requirePatient(vaultPath, patientID); err != nil {
		return schema.SessionRecord{}, err
	}
	date := input.Date
	if date == "" {
		date = schema.GenerateDate(s.now())
	}
	record := schema.SessionRecord{
		ID:        s.newID(),
		PatientID: patientID,
		Notes:     input.Notes,
		Date:      date,
		Duration:  input.Duration,
		Name:      input.Name,
		Datasets:  DefaultDatasets(),
		Comments:  []schema.Annotation{},
	}
	if err := writeJSON(sessionPath(vaultPath, patientID, record.ID), record); err != nil {
		return schema.SessionRecord{}, contract.NewCodedError(schema.MsgCreateSessionFileError, err)
	}
	return record, nil
}

// DefaultDatasets returns the datasets of a new session: every scale at level 0.
func DefaultDatasets() []schema.Dataset {
	datasets := make([]schema.Dataset, 0, len(schema.AllScales))
	for _, scale := range schema.AllScales {
		datasets = append(datasets, schema.Dataset{
			Label: scale,
			Color: schema.DefaultScaleColors[scale],
			Data:  []schema.Point{{X: 0, Y: 0}},
		})
	}
	return datasets
}

// LoadSession implements contract.SessionStore.
func (s *Store) LoadSession(ctx context.Context, ref schema.SessionRef) (schema.SessionRecord, error) {
	if err := ctx.Err(); err != nil {
		return schema.SessionRecord{}, err
	}
	if err := checkRef(ref); err != nil {
		return schema.SessionRecord{}, err
	}
	path := sessionPath(ref.VaultPath, ref.PatientID, ref.SessionID)
	info, err := os.Stat(path)
	if err != nil {
		return schema.SessionRecord{}, contract.NewCodedError(schema.MsgSessionPathNotExists, err)
	}
	if !info.Mode().IsRegular() {
		return schema.SessionRecord{}, contract.NewCodedError(schema.MsgSessionPathNotFile, nil)
	}
	return readSession(path)
}

// SaveSession implements contract.SessionStore. The session file must already exist.
func (s *Store) SaveSession(ctx context.Context, ref schema.SessionRef, record schema.SessionRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := requirePatient(ref.VaultPath, ref.PatientID); err != nil {
		return err
	}
	if err := checkID("session", ref.SessionID); err != nil {
		return contract.NewCodedError(schema.MsgSessionFileNotExists, err)
	}
	path := sessionPath(ref.VaultPath, ref.PatientID, ref.SessionID)
	if _, err := os.Stat(path); err != nil {
		return contract.NewCodedError(schema.MsgSessionFileNotExists, err)
	}
	if err := validateSession(record); err != nil {
		return contract.NewCodedError(schema.MsgSessionFileNotValidSession, err)
	}
	record.ID = ref.SessionID
	record.PatientID = ref.PatientID
	if record.Datasets == nil {
		record.Datasets = []schema.Dataset{}
	}
	if record.Comments == nil {
		record.Comments = []schema.Annotation{}
	}
	if err := writeJSON(path, record); err != nil {
		return contract.NewCodedError(schema.MsgCreateSessionFileError, err)
	}
	return nil
}

// DeleteSession removes a session file.
func (s *Store) DeleteSession(ref schema.SessionRef) error {
	if err := checkRef(ref); err != nil {
		return err
	}
	path := sessionPath(ref.VaultPath, ref.PatientID, ref.SessionID)
	info, err := os.Stat(path)
	if err != nil {
		return contract.NewCodedError(schema.MsgSessionPathNotExists, err)
	}
	if !info.Mode().IsRegular() {
		return contract.NewCodedError(schema.MsgSessionPathNotFile, nil)
	}
	if err := os.Remove(path); err != nil {
		return contract.NewCodedError(schema.MsgErrorDeleteSession, err)
	}
	return nil
}

func patientDir(vaultPath, patientID string) string {
	return filepath.Join(vaultPath, patientPrefix+patientID)
}

func sessionPath(vaultPath, patientID, sessionID string) string {
	return filepath.Join(patientDir(vaultPath, patientID), sessionPrefix+sessionID+sessionSuffix)
}

// requireVault checks that vaultPath holds a _vault.json.
func requireVault(vaultPath string) error {
	info, err := os.Stat(vaultPath)
	if err != nil {
		return contract.NewCodedError(schema.MsgVaultPathNotExists, err)
	}
	if !info.IsDir() {
		return contract.NewCodedError(schema.MsgVaultPathNotADirectory, nil)
	}
	if _, err := os.Stat(filepath.Join(vaultPath, vaultFile)); err != nil {
		return contract.NewCodedError(schema.MsgVaultPathNotContainsVaultJSON, err)
	}
	return nil
}

// checkID rejects IDs that are not a single path element, so that joining
// them to the vault path can never leave the vault.
func checkID(kind, id string) error {
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, `/\`) || !filepath.IsLocal(id) {
		return fmt.Errorf("invalid %s id %q", kind, id)
	}
	return nil
}

// checkRef validates both IDs of a session reference.
func checkRef(ref schema.SessionRef) error {
	if err := checkID("patient", ref.PatientID); err != nil {
		return contract.NewCodedError(schema.MsgPatientNotExists, err)
	}
	if err := checkID("session", ref.SessionID); err != nil {
		return contract.NewCodedError(schema.MsgSessionPathNotExists, err)
	}
	return nil
}

// requirePatient checks that the patient folder exists.
func requirePatient(vaultPath, patientID string) error {
	if err := checkID("patient", patientID); err != nil {
		return contract.NewCodedError(schema.MsgPatientNotExists, err)
	}
	info, err := os.Stat(patientDir(vaultPath, patientID))
	if err != nil {
		return contract.NewCodedError(schema.MsgPatientNotExists, err)
	}
	if !info.IsDir() {
		return contract.NewCodedError(schema.MsgPatientPathNotDirectory, nil)
	}
	return nil
}

// readSession reads and validates one session file.
func readSession(path string) (schema.SessionRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return schema.SessionRecord{}, contract.NewCodedError(schema.MsgSessionPathNotExists, err)
	}
	if !json.Valid(data) {
		return schema.SessionRecord{}, contract.NewCodedError(schema.MsgSessionFileNotValidJSON, nil)
	}
	var record schema.SessionRecord
	if err := decodeRecord(data, &record, sessionKeys, checkSessionShape); err != nil {
		return schema.SessionRecord{}, contract.NewCodedError(schema.MsgSessionFileNotValidSession, err)
	}
	if err := validateSession(record); err != nil {
		return schema.SessionRecord{}, contract.NewCodedError(schema.MsgSessionFileNotValidSession, err)
	}
	return record, nil
}

// writeJSON writes v as 2-space indented JSON, replacing the file atomically.
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", filepath.Base(path), err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	return os.Rename(tmp.Name(), path)
}
