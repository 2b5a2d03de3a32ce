package vault

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/steptrack/internal/contract"
	"github.com/huangsam/steptrack/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

// newTestStore returns a store with a fixed clock and sequential IDs.
func newTestStore() *Store {
	n := 0
	return New(
		WithClock(func() time.Time { return fixedNow }),
		WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		}),
	)
}

func assertCode(t *testing.T, err error, code schema.MessageCode) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, code, contract.MessageCodeOf(err, ""), "error: %v", err)
}

func newVault(t *testing.T, s *Store) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "vault")
	_, err := s.CreateVault(dir)
	require.NoError(t, err)
	return dir
}

func TestCreateVault(t *testing.T) {
	s := newTestStore()

	t.Run("creates missing directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "a", "b")
		record, err := s.CreateVault(dir)
		require.NoError(t, err)
		assert.Equal(t, "2024-03-01T09:00:00Z", record.DateCreated)

		data, err := os.ReadFile(filepath.Join(dir, "_vault.json"))
		require.NoError(t, err)
		assert.Contains(t, string(data), "\n  \"therapistName\": \"\"")
	})

	t.Run("existing empty directory", func(t *testing.T) {
		_, err := s.CreateVault(t.TempDir())
		assert.NoError(t, err)
	})

	t.Run("not empty", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "x"), nil, 0o644))
		_, err := s.CreateVault(dir)
		assertCode(t, err, schema.MsgVaultPathNotEmpty)
	})

	t.Run("not a directory", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "file")
		require.NoError(t, os.WriteFile(file, nil, 0o644))
		_, err := s.CreateVault(file)
		assertCode(t, err, schema.MsgVaultPathNotADirectory)
	})

	t.Run("no path", func(t *testing.T) {
		_, err := s.CreateVault("")
		assertCode(t, err, schema.MsgVaultPathNotSelected)
	})
}

func TestOpenVault(t *testing.T) {
	s := newTestStore()
	dir := newVault(t, s)

	contents, err := s.OpenVault(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, contents.Path)
	assert.Empty(t, contents.Patients)

	_, err = s.CreatePatient(dir, NewPatient{Name: "Maria", Surname: "Lopez", BirthDate: "1990-01-01"})
	require.NoError(t, err)
	_, err = s.CreatePatient(dir, NewPatient{Name: "Ana", Surname: "Ruiz", BirthDate: "1985-05-05"})
	require.NoError(t, err)

	contents, err = s.OpenVault(dir)
	require.NoError(t, err)
	require.Len(t, contents.Patients, 2)
	assert.Equal(t, "id-1", contents.Patients[0].ID)
	assert.Equal(t, "Ana", contents.Patients[1].Name)

	t.Run("missing", func(t *testing.T) {
		_, err := s.OpenVault(filepath.Join(t.TempDir(), "nope"))
		assertCode(t, err, schema.MsgVaultPathNotExists)
	})

	t.Run("no vault json", func(t *testing.T) {
		_, err := s.OpenVault(t.TempDir())
		assertCode(t, err, schema.MsgVaultPathNotContainsVaultJSON)
	})

	t.Run("invalid vault json", func(t *testing.T) {
		bad := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(bad, "_vault.json"), []byte(`{"notes":""}`), 0o644))
		_, err := s.OpenVault(bad)
		assertCode(t, err, schema.MsgVaultPathNotContainsVaultJSON)
	})

	t.Run("patient without json", func(t *testing.T) {
		require.NoError(t, os.Mkdir(filepath.Join(dir, "p__broken"), 0o755))
		_, err := s.OpenVault(dir)
		assertCode(t, err, schema.MsgVaultPathNotContainsPatient)
	})
}

func TestPatients(t *testing.T) {
	s := newTestStore()
	dir := newVault(t, s)

	_, err := s.CreatePatient(dir, NewPatient{Name: "Maria", Surname: "Lopez"})
	assertCode(t, err, schema.MsgNamesRequired)

	_, err = s.CreatePatient(filepath.Join(dir, "missing"), NewPatient{Name: "A", Surname: "B", BirthDate: "2000-01-01"})
	assertCode(t, err, schema.MsgVaultPathNotExists)

	patient, err := s.CreatePatient(dir, NewPatient{Name: "Maria", Surname: "Lopez", BirthDate: "1990-01-01", Diagnosis: "GAD"})
	require.NoError(t, err)
	assert.Equal(t, "id-1", patient.ID)
	assert.Equal(t, "2024-03-01", patient.DateCreated)

	// Update keeps the creation date
	patient.Notes = "weekly"
	patient.DateCreated = "1999-01-01"
	updated, err := s.UpdatePatient(dir, patient)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01", updated.DateCreated)

	got, err := s.GetPatient(dir, patient.ID)
	require.NoError(t, err)
	assert.Equal(t, "weekly", got.Notes)

	_, err = s.UpdatePatient(dir, schema.PatientRecord{ID: "ghost", Name: "A", Surname: "B"})
	assertCode(t, err, schema.MsgPatientNotExists)

	_, err = s.UpdatePatient(dir, schema.PatientRecord{ID: patient.ID})
	assertCode(t, err, schema.MsgNamesRequired)

	require.NoError(t, s.DeletePatient(dir, patient.ID))
	assertCode(t, s.DeletePatient(dir, patient.ID), schema.MsgPatientNotExists)
	assertCode(t, s.DeletePatient(dir, "../escape"), schema.MsgPatientNotExists)
}

func TestSessions(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()
	dir := newVault(t, s)
	patient, err := s.CreatePatient(dir, NewPatient{Name: "Maria", Surname: "Lopez", BirthDate: "1990-01-01"})
	require.NoError(t, err)

	_, err = s.CreateSession(dir, "ghost", NewSession{Name: "x", Duration: 60})
	assertCode(t, err, schema.MsgPatientNotExists)

	first, err := s.CreateSession(dir, patient.ID, NewSession{Name: "Intake", Duration: 3000})
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01", first.Date)
	assert.Equal(t, patient.ID, first.PatientID)
	require.Len(t, first.Datasets, 4)
	assert.Equal(t, schema.ScaleVQR, first.Datasets[0].Label)
	assert.Equal(t, "#184cf7", first.Datasets[0].Color)
	assert.Equal(t, "green", first.Datasets[3].Color)
	assert.Equal(t, []schema.Point{{X: 0, Y: 0}}, first.Datasets[2].Data)
	assert.NotNil(t, first.Comments)

	second, err := s.CreateSession(dir, patient.ID, NewSession{Name: "Follow-up", Duration: 3000, Date: "2024-02-01"})
	require.NoError(t, err)

	sessions, err := s.ListSessions(dir, patient.ID)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, second.ID, sessions[0].ID, "sessions are ordered by date")

	ref := schema.SessionRef{VaultPath: dir, PatientID: patient.ID, SessionID: first.ID}
	loaded, err := s.LoadSession(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, first, loaded)

	loaded.Notes = "went well"
	loaded.Datasets[0].Data = []schema.Point{{X: 0, Y: 0}, {X: 50, Y: 3}}
	loaded.Comments = nil
	require.NoError(t, s.SaveSession(ctx, ref, loaded))

	reloaded, err := s.LoadSession(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, "went well", reloaded.Notes)
	assert.Equal(t, []schema.Point{{X: 0, Y: 0}, {X: 50, Y: 3}}, reloaded.Datasets[0].Data)
	assert.Equal(t, []schema.Annotation{}, reloaded.Comments)

	missing := ref
	missing.SessionID = "ghost"
	assertCode(t, s.SaveSession(ctx, missing, loaded), schema.MsgSessionFileNotExists)
	_, err = s.LoadSession(ctx, missing)
	assertCode(t, err, schema.MsgSessionPathNotExists)

	bad := loaded
	bad.Datasets = []schema.Dataset{{Label: "XYZ"}}
	assertCode(t, s.SaveSession(ctx, ref, bad), schema.MsgSessionFileNotValidSession)

	require.NoError(t, s.DeleteSession(ref))
	assertCode(t, s.DeleteSession(ref), schema.MsgSessionPathNotExists)
}

func TestLoadSessionInvalidFiles(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()
	dir := newVault(t, s)
	patient, err := s.CreatePatient(dir, NewPatient{Name: "Maria", Surname: "Lopez", BirthDate: "1990-01-01"})
	require.NoError(t, err)

	tests := []struct {
		name    string
		content string
		code    schema.MessageCode
	}{
		{"not json", `{"id":`, schema.MsgSessionFileNotValidJSON},
		{"not an object", `[1,2]`, schema.MsgSessionFileNotValidSession},
		{"null", `null`, schema.MsgSessionFileNotValidSession},
		{"missing field", `{"id":"x","patientId":"p","notes":"","date":"","name":"","datasets":[],"comments":[]}`, schema.MsgSessionFileNotValidSession},
		{"wrong type", `{"id":"x","patientId":"p","notes":"","date":"","duration":"long","name":"","datasets":[],"comments":[]}`, schema.MsgSessionFileNotValidSession},
		{"bad scale", `{"id":"x","patientId":"p","notes":"","date":"","duration":60,"name":"","datasets":[{"label":"ABC","color":"red","data":[]}],"comments":[]}`, schema.MsgSessionFileNotValidSession},
		{"point without y", `{"id":"x","patientId":"p","notes":"","date":"","duration":60,"name":"","datasets":[{"label":"VQR","color":"red","data":[{"x":0}]}],"comments":[]}`, schema.MsgSessionFileNotValidSession},
		{"comment without text", `{"id":"x","patientId":"p","notes":"","date":"","duration":60,"name":"","datasets":[],"comments":[{"x":1,"y":-0.1}]}`, schema.MsgSessionFileNotValidSession},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := fmt.Sprintf("bad-%d", i)
			path := filepath.Join(dir, "p__"+patient.ID, "s__"+id+".json")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))
			defer func() { _ = os.Remove(path) }()

			_, err := s.LoadSession(ctx, schema.SessionRef{VaultPath: dir, PatientID: patient.ID, SessionID: id})
			assertCode(t, err, tt.code)
		})
	}

	t.Run("directory instead of file", func(t *testing.T) {
		require.NoError(t, os.Mkdir(filepath.Join(dir, "p__"+patient.ID, "s__dir.json"), 0o755))
		_, err := s.LoadSession(ctx, schema.SessionRef{VaultPath: dir, PatientID: patient.ID, SessionID: "dir"})
		assertCode(t, err, schema.MsgSessionPathNotFile)
	})
}

func TestLoadSessionCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New().LoadSession(ctx, schema.SessionRef{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSessionIDsStayInsideVault(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()
	dir := newVault(t, s)
	patient, err := s.CreatePatient(dir, NewPatient{Name: "Maria", Surname: "Lopez", BirthDate: "1990-01-01"})
	require.NoError(t, err)

	// A session-shaped file next to the vault directory
	victim := filepath.Join(filepath.Dir(dir), "victim.json")
	require.NoError(t, os.WriteFile(victim, []byte(`{}`), 0o644))

	tests := []struct {
		name string
		ref  schema.SessionRef
		code schema.MessageCode
	}{
		{"session traversal", schema.SessionRef{VaultPath: dir, PatientID: "x", SessionID: "y/../../../victim"}, schema.MsgSessionPathNotExists},
		{"session traversal under real patient", schema.SessionRef{VaultPath: dir, PatientID: patient.ID, SessionID: "../../victim"}, schema.MsgSessionPathNotExists},
		{"patient traversal", schema.SessionRef{VaultPath: dir, PatientID: "../..", SessionID: "victim"}, schema.MsgPatientNotExists},
		{"backslash", schema.SessionRef{VaultPath: dir, PatientID: patient.ID, SessionID: `..\victim`}, schema.MsgSessionPathNotExists},
		{"dot dot", schema.SessionRef{VaultPath: dir, PatientID: patient.ID, SessionID: ".."}, schema.MsgSessionPathNotExists},
		{"empty session", schema.SessionRef{VaultPath: dir, PatientID: patient.ID}, schema.MsgSessionPathNotExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertCode(t, s.DeleteSession(tt.ref), tt.code)
			_, err := s.LoadSession(ctx, tt.ref)
			assertCode(t, err, tt.code)
			assert.FileExists(t, victim)
		})
	}

	ref := schema.SessionRef{VaultPath: dir, PatientID: patient.ID, SessionID: "../../victim"}
	assertCode(t, s.SaveSession(ctx, ref, schema.SessionRecord{Duration: 60}), schema.MsgSessionFileNotExists)
	data, err := os.ReadFile(victim)
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(data))
}
