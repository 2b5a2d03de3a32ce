package outwriter

import (
	"fmt"
	"io"
	"strconv"

	"github.com/huangsam/steptrack/core/quant"
	"github.com/huangsam/steptrack/internal/contract"
	"github.com/huangsam/steptrack/internal/parquet"
	"github.com/huangsam/steptrack/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteSessionStats outputs the level shares of a session, dispatching based on the output format configured.
func WriteSessionStats(stats schema.SessionStats, cfg *contract.Config) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSONSessionStats(w, stats)
		}, "Wrote JSON stats"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVSessionStats(w, stats, fmtFloat)
		}, "Wrote CSV stats"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := parquet.WriteSessionStatsParquet(stats, cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing parquet output: %w", err)
		}
		contract.LogInfo("Wrote parquet stats to %s", cfg.OutputFile)
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeStatsTable(w, stats, cfg, fmtFloat)
		}, "Wrote table")
	}
	return nil
}

// writeStatsTable prints one row per scale and level.
func writeStatsTable(w io.Writer, stats schema.SessionStats, cfg *contract.Config, fmtFloat func(float64) string) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Scale", "Level", "Label", "Share", "Time"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, s := range stats.Series {
		for _, share := range s.Levels {
			data = append(data, []string{
				string(s.Scale),
				strconv.Itoa(share.Level),
				levelLabel(share.Level, cfg),
				fmtFloat(share.Percent) + "%",
				quant.FormatSeconds(share.Seconds),
			})
		}
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "Session %q on %s lasted %s across %d scales\n",
		stats.Name, stats.Date, quant.FormatSeconds(stats.Duration), len(stats.Series))
	return err
}
