package outwriter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/huangsam/steptrack/internal/contract"
	"github.com/huangsam/steptrack/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleStats() schema.SessionStats {
	return schema.SessionStats{
		Name:     "Intake",
		Date:     "2024-03-01",
		Duration: 600,
		Series: []schema.SeriesStats{
			{Scale: schema.ScaleVQR, Levels: []schema.LevelShare{{Level: 0, Percent: 100, Seconds: 600}}},
			{Scale: schema.ScalePEQR, Levels: []schema.LevelShare{
				{Level: 1, Percent: 25, Seconds: 150},
				{Level: 5, Percent: 75, Seconds: 450},
			}},
		},
	}
}

func TestWriteStatsTable(t *testing.T) {
	cfg := &contract.Config{Output: schema.TextOut, Precision: 1, Width: 120}
	fmtFloat, _ := createFormatters(cfg.Precision)

	var buf bytes.Buffer
	require.NoError(t, writeStatsTable(&buf, sampleStats(), cfg, fmtFloat))

	output := buf.String()
	assert.Contains(t, output, "PEQR")
	assert.Contains(t, output, "75.0%")
	assert.Contains(t, output, "07:30")
	assert.Contains(t, output, contract.SevereValue)
	assert.Contains(t, output, `Session "Intake" on 2024-03-01 lasted 10:00 across 2 scales`)
}

func TestWriteCSVSessionStats(t *testing.T) {
	fmtFloat, _ := createFormatters(2)

	var buf bytes.Buffer
	require.NoError(t, writeCSVSessionStats(&buf, sampleStats(), fmtFloat))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4) // header + 3 level rows
	assert.Equal(t, []string{"session", "date", "scale", "level", "percent", "seconds", "duration_seconds"}, records[0])
	assert.Equal(t, []string{"Intake", "2024-03-01", "PEQR", "5", "75.00", "450.00", "600.00"}, records[3])
}

func TestWriteJSONSessionStats(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeJSONSessionStats(&buf, sampleStats()))

	var decoded schema.SessionStats
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, sampleStats(), decoded)
	assert.True(t, strings.HasPrefix(buf.String(), "{\n  \"name\""))
}

func TestWriteSessionStatsDispatch(t *testing.T) {
	dir := t.TempDir()

	for _, mode := range []schema.OutputMode{schema.TextOut, schema.CSVOut, schema.JSONOut, schema.ParquetOut} {
		t.Run(string(mode), func(t *testing.T) {
			out := filepath.Join(dir, "stats."+string(mode))
			cfg := &contract.Config{Output: mode, OutputFile: out, Precision: 1, Width: 100}
			require.NoError(t, WriteSessionStats(sampleStats(), cfg))

			info, err := os.Stat(out)
			require.NoError(t, err)
			assert.Positive(t, info.Size())
		})
	}
}
