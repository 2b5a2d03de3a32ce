package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/steptrack/internal/contract"
	"github.com/huangsam/steptrack/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteVault outputs the vault metadata and its patients. Ages are computed on the given day.
func WriteVault(contents schema.VaultContents, on time.Time, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, contents)
		}, "Wrote JSON vault"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVPatients(w, contents.Patients, on)
		}, "Wrote CSV patients"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		return fmt.Errorf("parquet output is only available for session stats")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writePatientTable(w, contents, on, cfg)
		}, "Wrote table")
	}
	return nil
}

// ageString renders an age, or "?" when the birth date cannot be read.
func ageString(p schema.PatientRecord, on time.Time) string {
	age := p.Age(on)
	if age < 0 {
		return "?"
	}
	return strconv.Itoa(age)
}

// writePatientTable prints patients with abbreviated names.
func writePatientTable(w io.Writer, contents schema.VaultContents, on time.Time, cfg *contract.Config) error {
	if _, err := fmt.Fprintf(w, "Vault %s\n", contents.Path); err != nil {
		return err
	}
	if contents.Metadata.TherapistName != "" {
		if _, err := fmt.Fprintf(w, "Therapist: %s\n", contents.Metadata.TherapistName); err != nil {
			return err
		}
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"ID", "Name", "Age", "Diagnosis"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignLeft
	})

	// ID (36) + Name (~15) + Age (3) with borders
	diagWidth := getMaxTableTextWidth(cfg, 60)

	var data [][]string
	for _, p := range contents.Patients {
		data = append(data, []string{
			p.ID,
			p.DisplayName(),
			ageString(p, on),
			contract.TruncateText(p.Diagnosis, diagWidth),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "%d patients\n", len(contents.Patients))
	return err
}

// writeCSVPatients writes one row per patient. Full names are kept for exports.
func writeCSVPatients(w io.Writer, patients []schema.PatientRecord, on time.Time) error {
	header := []string{"id", "name", "surname", "birth_date", "age", "diagnosis", "date_created"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, p := range patients {
			row := []string{
				p.ID,
				p.Name,
				p.Surname,
				p.BirthDate,
				ageString(p, on),
				p.Diagnosis,
				p.DateCreated,
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}
