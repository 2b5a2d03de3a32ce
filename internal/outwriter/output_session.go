package outwriter

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/huangsam/steptrack/core/quant"
	"github.com/huangsam/steptrack/internal/contract"
	"github.com/huangsam/steptrack/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// Row kinds of the flattened session view.
const (
	kindBreakpoint = "breakpoint"
	kindComment    = "comment"
	kindBreak      = "break"
)

// WriteSession outputs the stored breakpoints and annotations of a session,
// dispatching based on the output format configured.
func WriteSession(rec schema.SessionRecord, cfg *contract.Config) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, rec)
		}, "Wrote JSON session"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVSession(w, rec, fmtFloat)
		}, "Wrote CSV session"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		return fmt.Errorf("parquet output is only available for session stats")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeSessionView(w, rec, cfg)
		}, "Wrote table")
	}
	return nil
}

// percentToSeconds converts a chart position into session seconds.
func percentToSeconds(x, duration float64) float64 {
	return x / 100 * duration
}

// writeSessionView prints a header, a breakpoint table and an annotation table.
func writeSessionView(w io.Writer, rec schema.SessionRecord, cfg *contract.Config) error {
	if _, err := fmt.Fprintf(w, "%s  %s  %s\n", rec.Date, rec.Name, quant.FormatSeconds(rec.Duration)); err != nil {
		return err
	}
	if rec.Notes != "" {
		if _, err := fmt.Fprintf(w, "Notes: %s\n", contract.TruncateText(rec.Notes, getMaxTableTextWidth(cfg, 0))); err != nil {
			return err
		}
	}

	steps := tablewriter.NewWriter(w)
	steps.Header([]string{"Scale", "From", "To", "Level", "Label"})
	steps.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})
	var stepRows [][]string
	for _, ds := range rec.Datasets {
		for i, pt := range ds.Data {
			end := schema.MaxPercent
			if i+1 < len(ds.Data) {
				end = ds.Data[i+1].X
			}
			level := int(math.Round(pt.Y))
			stepRows = append(stepRows, []string{
				string(ds.Label),
				quant.FormatSeconds(percentToSeconds(pt.X, rec.Duration)),
				quant.FormatSeconds(percentToSeconds(end, rec.Duration)),
				strconv.Itoa(level),
				levelLabel(level, cfg),
			})
		}
	}
	if err := steps.Bulk(stepRows); err != nil {
		return err
	}
	if err := steps.Render(); err != nil {
		return err
	}

	if len(rec.Comments) == 0 {
		_, err := fmt.Fprintln(w, "No comments or breaks")
		return err
	}

	notes := tablewriter.NewWriter(w)
	notes.Header([]string{"#", "Kind", "Time", "Text"})
	textWidth := getMaxTableTextWidth(cfg, 25)
	var noteRows [][]string
	for i, a := range rec.Comments {
		noteRows = append(noteRows, []string{
			strconv.Itoa(i),
			annotationKind(a),
			quant.FormatSeconds(percentToSeconds(a.X, rec.Duration)),
			contract.TruncateText(a.Text, textWidth),
		})
	}
	if err := notes.Bulk(noteRows); err != nil {
		return err
	}
	return notes.Render()
}

func annotationKind(a schema.Annotation) string {
	if a.IsBreak {
		return kindBreak
	}
	return kindComment
}
