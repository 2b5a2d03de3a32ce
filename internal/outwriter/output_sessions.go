package outwriter

import (
	"fmt"
	"io"
	"strconv"

	"github.com/huangsam/steptrack/core/quant"
	"github.com/huangsam/steptrack/internal/contract"
	"github.com/huangsam/steptrack/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// sessionSummary is the listing form of a session; breakpoints are left out.
type sessionSummary struct {
	ID       string  `json:"id"`
	Date     string  `json:"date"`
	Name     string  `json:"name"`
	Duration float64 `json:"duration"`
	Comments int     `json:"comments"`
	Notes    string  `json:"notes"`
}

func summarizeSessions(sessions []schema.SessionRecord) []sessionSummary {
	out := make([]sessionSummary, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, sessionSummary{
			ID:       s.ID,
			Date:     s.Date,
			Name:     s.Name,
			Duration: s.Duration,
			Comments: len(s.Comments),
			Notes:    s.Notes,
		})
	}
	return out
}

// WriteSessionList outputs the sessions of a patient, dispatching based on the output format configured.
func WriteSessionList(patient schema.PatientRecord, sessions []schema.SessionRecord, cfg *contract.Config) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)
	rows := summarizeSessions(sessions)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, rows)
		}, "Wrote JSON sessions"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVSessionList(w, rows, fmtFloat, intFmt)
		}, "Wrote CSV sessions"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		return fmt.Errorf("parquet output is only available for session stats")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeSessionTable(w, patient, rows, cfg)
		}, "Wrote table")
	}
	return nil
}

// writeSessionTable prints the sessions in date order.
func writeSessionTable(w io.Writer, patient schema.PatientRecord, rows []sessionSummary, cfg *contract.Config) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"#", "ID", "Date", "Name", "Length", "Comments", "Notes"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignLeft
	})

	// ID (36) + Date (10) + Length (5) + Comments (8) + Name (~20) with borders
	noteWidth := getMaxTableTextWidth(cfg, 95)

	var data [][]string
	for i, s := range rows {
		data = append(data, []string{
			strconv.Itoa(i + 1),
			s.ID,
			s.Date,
			s.Name,
			quant.FormatSeconds(s.Duration),
			strconv.Itoa(s.Comments),
			contract.TruncateText(s.Notes, noteWidth),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "%d sessions for %s (%s)\n", len(rows), patient.DisplayName(), patient.ID)
	return err
}
