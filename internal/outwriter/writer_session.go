package outwriter

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/huangsam/steptrack/schema"
)

// writeCSVSession flattens breakpoints and annotations into one table.
func writeCSVSession(w io.Writer, rec schema.SessionRecord, fmtFloat func(float64) string) error {
	header := []string{"kind", "scale", "x", "seconds", "level", "text"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, ds := range rec.Datasets {
			for _, pt := range ds.Data {
				row := []string{
					kindBreakpoint,
					string(ds.Label),
					fmtFloat(pt.X),
					fmtFloat(percentToSeconds(pt.X, rec.Duration)),
					strconv.FormatFloat(pt.Y, 'f', -1, 64),
					"",
				}
				if err := cw.Write(row); err != nil {
					return err
				}
			}
		}
		for _, a := range rec.Comments {
			row := []string{
				annotationKind(a),
				"",
				fmtFloat(a.X),
				fmtFloat(percentToSeconds(a.X, rec.Duration)),
				"",
				a.Text,
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}
