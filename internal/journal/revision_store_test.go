package journal

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/steptrack/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRevisionStore(t *testing.T) *RevisionStoreImpl {
	t.Helper()
	store, err := NewRevisionStore(schema.SQLiteBackend, filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store.(*RevisionStoreImpl)
}

func testRevision() (schema.SessionRef, schema.Document, schema.SessionStats) {
	ref := schema.SessionRef{VaultPath: "/vault", PatientID: "p-1", SessionID: "s-1"}
	doc := schema.Document{
		Duration: 600,
		Name:     "Session 1",
		Series: []schema.Series{
			{Scale: schema.ScaleVQR, Points: []schema.Point{{X: 0, Y: 0.05}, {X: 100, Y: 0.05}}},
			{Scale: schema.ScaleTQR, Points: []schema.Point{{X: 0, Y: 3.2}, {X: 100, Y: 3.2}}},
		},
		Annotations: []schema.Annotation{
			{X: 10, Y: schema.CommentY, Text: "note"},
			{X: 20, Y: schema.BreakY, Text: "02:00 - 03:00", IsBreak: true},
		},
	}
	stats := schema.SessionStats{
		Name:     "Session 1",
		Duration: 600,
		Series: []schema.SeriesStats{
			{Scale: schema.ScaleVQR, Levels: []schema.LevelShare{{Level: 0, Percent: 100, Seconds: 600}}},
			{Scale: schema.ScaleTQR, Levels: []schema.LevelShare{
				{Level: 0, Percent: 40, Seconds: 240},
				{Level: 3, Percent: 60, Seconds: 360},
			}},
		},
	}
	return ref, doc, stats
}

func TestRevisionStore_NoneBackend(t *testing.T) {
	store, err := NewRevisionStore(schema.NoneBackend, "")
	require.NoError(t, err)

	ref, doc, stats := testRevision()
	id, err := store.RecordRevision(ref, time.Now(), doc, stats)
	assert.NoError(t, err)
	assert.Zero(t, id)

	revisions, err := store.GetAllRevisions()
	assert.NoError(t, err)
	assert.Empty(t, revisions)

	durations, err := store.GetAllLevelDurations()
	assert.NoError(t, err)
	assert.Empty(t, durations)

	assert.NoError(t, store.Close())
}

func TestRevisionStore_SQLite(t *testing.T) {
	store := newTestRevisionStore(t)
	ref, doc, stats := testRevision()
	savedAt := time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)

	id1, err := store.RecordRevision(ref, savedAt, doc, stats)
	require.NoError(t, err)
	id2, err := store.RecordRevision(ref, savedAt.Add(time.Minute), doc, stats)
	require.NoError(t, err)
	assert.Greater(t, id2, id1)

	revisions, err := store.GetAllRevisions()
	require.NoError(t, err)
	require.Len(t, revisions, 2)

	first := revisions[0]
	assert.Equal(t, id1, first.RevisionID)
	assert.Equal(t, "/vault", first.VaultPath)
	assert.Equal(t, "s-1", first.SessionID)
	assert.True(t, savedAt.Equal(first.SavedAt))
	assert.Equal(t, 600.0, first.DurationSeconds)
	assert.Equal(t, int32(2), first.SeriesCount)
	assert.Equal(t, int32(2), first.AnnotationCount)
	assert.Equal(t, int32(1), first.BreakCount)

	durations, err := store.GetAllLevelDurations()
	require.NoError(t, err)
	require.Len(t, durations, 6)
	assert.Equal(t, schema.LevelDurationRecord{RevisionID: id1, Scale: "TQR", Level: 0, Percent: 40, Seconds: 240}, durations[0])
	assert.Equal(t, schema.LevelDurationRecord{RevisionID: id1, Scale: "TQR", Level: 3, Percent: 60, Seconds: 360}, durations[1])
	assert.Equal(t, schema.LevelDurationRecord{RevisionID: id1, Scale: "VQR", Level: 0, Percent: 100, Seconds: 600}, durations[2])
}

func TestRevisionStore_GetStatus(t *testing.T) {
	store := newTestRevisionStore(t)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.True(t, status.Connected)
	assert.Zero(t, status.TotalRevisions)
	assert.Equal(t, int64(0), status.TableSizes[revisionsTable])

	ref, doc, stats := testRevision()
	savedAt := time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)
	_, err = store.RecordRevision(ref, savedAt, doc, stats)
	require.NoError(t, err)
	other := ref
	other.SessionID = "s-2"
	lastID, err := store.RecordRevision(other, savedAt.Add(time.Hour), doc, stats)
	require.NoError(t, err)

	status, err = store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, 2, status.TotalRevisions)
	assert.Equal(t, lastID, status.LastRevisionID)
	assert.Equal(t, 2, status.TotalSessions)
	assert.True(t, savedAt.Add(time.Hour).Equal(status.LastSavedTime))
	assert.True(t, savedAt.Equal(status.OldestSaveTime))
	assert.Equal(t, int64(2), status.TableSizes[revisionsTable])
	assert.Equal(t, int64(6), status.TableSizes[levelDurationsTable])
}

func TestExportRevisionsFrom(t *testing.T) {
	store := newTestRevisionStore(t)
	out := filepath.Join(t.TempDir(), "export")

	err := ExportRevisionsFrom(store, out)
	assert.Error(t, err, "an empty journal has nothing to export")

	ref, doc, stats := testRevision()
	_, err = store.RecordRevision(ref, time.Now(), doc, stats)
	require.NoError(t, err)

	require.NoError(t, ExportRevisionsFrom(store, out))
	for _, suffix := range []string{".revisions.parquet", ".level_durations.parquet"} {
		info, err := os.Stat(out + suffix)
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(0))
	}

	assert.Error(t, ExportRevisionsFrom(store, ""))
	assert.Error(t, ExportRevisionsFrom(nil, out))
}

func TestExportRevisionsFrom_StatusError(t *testing.T) {
	store := &MockRevisionStore{}
	store.On("GetStatus").Return(schema.JournalStatus{}, assert.AnError)

	err := ExportRevisionsFrom(store, "out")
	assert.ErrorIs(t, err, assert.AnError)
	store.AssertExpectations(t)
}
