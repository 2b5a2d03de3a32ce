package outwriter

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/steptrack/internal/contract"
	"github.com/huangsam/steptrack/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSession() schema.SessionRecord {
	return schema.SessionRecord{
		ID:        "s-1",
		PatientID: "p-1",
		Name:      "Intake",
		Date:      "2024-03-01",
		Duration:  600,
		Notes:     "calmer by the end",
		Datasets: []schema.Dataset{
			{Label: schema.ScaleVQR, Color: "#184cf7", Data: []schema.Point{{X: 0, Y: 0}}},
			{Label: schema.ScalePEQR, Color: "#e53935", Data: []schema.Point{{X: 0, Y: 1}, {X: 25, Y: 4}}},
		},
		Comments: []schema.Annotation{
			{X: 10, Y: schema.CommentY, Text: "looked away"},
			{X: 50, Y: schema.BreakY, Text: "05:00 - 06:00", IsBreak: true},
		},
	}
}

func samplePatient() schema.PatientRecord {
	return schema.PatientRecord{ID: "p-1", Name: "Maria", Surname: "Lopez Garcia", BirthDate: "1990-06-15", Diagnosis: "anxiety"}
}

func TestWriteSessionView(t *testing.T) {
	cfg := &contract.Config{Output: schema.TextOut, Width: 120}

	var buf bytes.Buffer
	require.NoError(t, writeSessionView(&buf, sampleSession(), cfg))

	output := buf.String()
	assert.Contains(t, output, "2024-03-01  Intake  10:00")
	assert.Contains(t, output, "Notes: calmer by the end")
	assert.Contains(t, output, "02:30") // PEQR changes level a quarter in
	assert.Contains(t, output, contract.HighValue)
	assert.Contains(t, output, "looked away")
	assert.Contains(t, output, kindBreak)
}

func TestWriteSessionViewWithoutComments(t *testing.T) {
	rec := sampleSession()
	rec.Comments = nil
	rec.Notes = ""

	var buf bytes.Buffer
	require.NoError(t, writeSessionView(&buf, rec, &contract.Config{Width: 80}))
	assert.Contains(t, buf.String(), "No comments or breaks")
	assert.NotContains(t, buf.String(), "Notes:")
}

func TestWriteCSVSession(t *testing.T) {
	fmtFloat, _ := createFormatters(1)

	var buf bytes.Buffer
	require.NoError(t, writeCSVSession(&buf, sampleSession(), fmtFloat))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 6) // header + 3 breakpoints + 2 annotations
	assert.Equal(t, []string{kindBreakpoint, "PEQR", "25.0", "150.0", "4", ""}, records[3])
	assert.Equal(t, []string{kindComment, "", "10.0", "60.0", "", "looked away"}, records[4])
	assert.Equal(t, kindBreak, records[5][0])
}

func TestWriteSessionList(t *testing.T) {
	second := sampleSession()
	second.ID, second.Name, second.Comments = "s-2", "Follow-up", nil
	sessions := []schema.SessionRecord{sampleSession(), second}

	t.Run("table", func(t *testing.T) {
		var buf bytes.Buffer
		cfg := &contract.Config{Width: 160}
		require.NoError(t, writeSessionTable(&buf, samplePatient(), summarizeSessions(sessions), cfg))
		assert.Contains(t, buf.String(), "Follow-up")
		assert.Contains(t, buf.String(), "2 sessions for Maria L (p-1)")
	})

	t.Run("csv", func(t *testing.T) {
		fmtFloat, intFmt := createFormatters(0)
		var buf bytes.Buffer
		require.NoError(t, writeCSVSessionList(&buf, summarizeSessions(sessions), fmtFloat, intFmt))
		records, err := csv.NewReader(&buf).ReadAll()
		require.NoError(t, err)
		require.Len(t, records, 3)
		assert.Equal(t, []string{"s-1", "2024-03-01", "Intake", "600", "2", "calmer by the end"}, records[1])
		assert.Equal(t, "0", records[2][4])
	})

	t.Run("parquet is rejected", func(t *testing.T) {
		cfg := &contract.Config{Output: schema.ParquetOut, OutputFile: filepath.Join(t.TempDir(), "x.parquet")}
		assert.Error(t, WriteSessionList(samplePatient(), sessions, cfg))
		assert.Error(t, WriteSession(sampleSession(), cfg))
	})
}

func TestWriteSessionToFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "session.json")
	cfg := &contract.Config{Output: schema.JSONOut, OutputFile: out}
	require.NoError(t, NewOutWriter().WriteSession(sampleSession(), cfg))

	content, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(content), `"patientId": "p-1"`)
}
