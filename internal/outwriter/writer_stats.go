package outwriter

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/huangsam/steptrack/schema"
)

// writeJSONSessionStats marshals the session stats to JSON and writes it.
func writeJSONSessionStats(w io.Writer, stats schema.SessionStats) error {
	return writeJSON(w, stats)
}

// writeCSVSessionStats writes one row per scale and level.
func writeCSVSessionStats(w io.Writer, stats schema.SessionStats, fmtFloat func(float64) string) error {
	header := []string{"session", "date", "scale", "level", "percent", "seconds", "duration_seconds"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, s := range stats.Series {
			for _, share := range s.Levels {
				row := []string{
					stats.Name,
					stats.Date,
					string(s.Scale),
					strconv.Itoa(share.Level),
					fmtFloat(share.Percent),
					fmtFloat(share.Seconds),
					fmtFloat(stats.Duration),
				}
				if err := cw.Write(row); err != nil {
					return err
				}
			}
		}
		return nil
	})
}
