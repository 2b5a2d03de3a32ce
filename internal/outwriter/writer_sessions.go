package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
)

// writeCSVSessionList writes one row per session.
func writeCSVSessionList(w io.Writer, rows []sessionSummary, fmtFloat func(float64) string, intFmt string) error {
	header := []string{"id", "date", "name", "duration_seconds", "comments", "notes"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, s := range rows {
			row := []string{
				s.ID,
				s.Date,
				s.Name,
				fmtFloat(s.Duration),
				fmt.Sprintf(intFmt, s.Comments),
				s.Notes,
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}
