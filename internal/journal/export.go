package journal

import (
	"errors"
	"fmt"

	"github.com/huangsam/steptrack/internal/contract"
	"github.com/huangsam/steptrack/internal/parquet"
)

// ExportRevisions writes the revision journal of the global manager to Parquet files.
func ExportRevisions(outputFile string) error {
	return ExportRevisionsFrom(Manager.GetRevisionStore(), outputFile)
}

// ExportRevisionsFrom writes every revision and level duration of store to
// <outputFile>.revisions.parquet and <outputFile>.level_durations.parquet.
func ExportRevisionsFrom(store contract.RevisionStore, outputFile string) error {
	// Validate that output file is specified
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}
	if store == nil {
		return errors.New("revision journal is not initialized")
	}

	// Check if there's any data to export
	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get journal status: %w", err)
	}

	if status.TotalRevisions == 0 {
		return errors.New("no revisions found to export")
	}

	fmt.Printf("Exporting data from %s backend...\n", status.Backend)
	fmt.Printf("Total revisions: %d\n", status.TotalRevisions)
	fmt.Printf("Total level durations: %d\n", status.TableSizes[levelDurationsTable])

	revisions, err := store.GetAllRevisions()
	if err != nil {
		return fmt.Errorf("failed to retrieve revisions: %w", err)
	}

	durations, err := store.GetAllLevelDurations()
	if err != nil {
		return fmt.Errorf("failed to retrieve level durations: %w", err)
	}

	parquetRevisions := parquet.ConvertRevisionRecords(revisions)
	parquetDurations := parquet.ConvertLevelDurationRecords(durations)

	revisionsFile := outputFile + ".revisions.parquet"
	if err := parquet.WriteRevisionsParquet(parquetRevisions, revisionsFile); err != nil {
		return fmt.Errorf("failed to write revisions: %w", err)
	}
	fmt.Printf("Exported %d revisions to: %s\n", len(parquetRevisions), revisionsFile)

	durationsFile := outputFile + ".level_durations.parquet"
	if err := parquet.WriteLevelDurationsParquet(parquetDurations, durationsFile); err != nil {
		return fmt.Errorf("failed to write level durations: %w", err)
	}
	fmt.Printf("Exported %d level durations to: %s\n", len(parquetDurations), durationsFile)

	fmt.Println("\nExport complete! The Parquet files can be read with DuckDB, pandas (via pyarrow) or Spark.")
	return nil
}
