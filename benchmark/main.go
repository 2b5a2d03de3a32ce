// Package main provides a performance benchmarking tool for the steptrack CLI.
// It seeds vaults of different sizes, measures how long the read and edit
// commands take with drafts disabled and with SQLite drafts, treating the first
// successful run as cold and averaging the rest as warm, and writes the
// results to CSV for performance analysis and documentation.
//
// Prerequisites:
// - steptrack binary installed and available in PATH
//
// Usage: go run ./benchmark [work-dir]
//
//	work-dir: Directory where the benchmark vaults are created (default: a temp dir)
package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/huangsam/steptrack/internal/vault"
)

// BenchmarkResult holds the result of a benchmark run (no-draft average, cold run and average of warm runs).
type BenchmarkResult struct {
	Vault       string
	Command     string
	NoDraftTime string
	ColdTime    string
	WarmTime    string
}

// VaultSize describes one seeded vault.
type VaultSize struct {
	Name     string
	Patients int
	Sessions int // per patient
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	WorkDir     string
	Timeout     time.Duration
	NoDraftRuns int
	DraftRuns   int
	Sizes       []VaultSize
}

// seeded is a vault ready to benchmark, with the IDs of one patient and session.
type seeded struct {
	size      VaultSize
	path      string
	patientID string
	sessionID string
}

// editScript inserts breakpoints on two scales and adds a comment.
const editScript = `- op: insert
  series: VQR
  time: 25
  level: 2
- op: insert
  series: PEQR
  time: 60
  level: 4
- op: comment
  time: 40
  text: benchmark
`

func main() {
	workDir := ""
	switch len(os.Args) {
	case 1:
		dir, err := os.MkdirTemp("", "steptrack-benchmark-*")
		if err != nil {
			fmt.Printf("Failed to create work dir: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = os.RemoveAll(dir) }()
		workDir = dir
	case 2:
		workDir = os.Args[1]
	default:
		fmt.Printf("Usage: %s [work-dir]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		WorkDir:     workDir,
		Timeout:     time.Minute,
		NoDraftRuns: 3,
		DraftRuns:   4,
		Sizes: []VaultSize{
			{Name: "small", Patients: 5, Sessions: 10},
			{Name: "medium", Patients: 20, Sessions: 50},
			{Name: "large", Patients: 100, Sessions: 100},
		},
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	results, err := runBenchmarks(config)
	if err != nil {
		fmt.Printf("Benchmark failed: %v\n", err)
		os.Exit(1)
	}

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// checkPrerequisites verifies that the steptrack binary exists and the work dir is usable
func checkPrerequisites(config BenchmarkConfig) error {
	if _, err := exec.LookPath("steptrack"); err != nil {
		return fmt.Errorf("steptrack binary not found in PATH")
	}
	return os.MkdirAll(config.WorkDir, 0o755)
}

// seedVault creates a vault of the given size directly on disk.
func seedVault(workDir string, size VaultSize) (seeded, error) {
	store := vault.New()
	path := filepath.Join(workDir, size.Name)
	if err := os.RemoveAll(path); err != nil {
		return seeded{}, err
	}
	if _, err := store.CreateVault(path); err != nil {
		return seeded{}, err
	}

	out := seeded{size: size, path: path}
	for p := range size.Patients {
		patient, err := store.CreatePatient(path, vault.NewPatient{
			Name:      fmt.Sprintf("Patient%03d", p),
			Surname:   "Bench",
			BirthDate: "1990-01-01",
		})
		if err != nil {
			return seeded{}, err
		}
		for s := range size.Sessions {
			session, err := store.CreateSession(path, patient.ID, vault.NewSession{
				Name:     fmt.Sprintf("Session %03d", s),
				Date:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, s).Format("2006-01-02"),
				Duration: 3000,
			})
			if err != nil {
				return seeded{}, err
			}
			if out.patientID == "" {
				out.patientID, out.sessionID = patient.ID, session.ID
			}
		}
	}
	return out, nil
}

// runBenchmarks seeds every vault and executes the benchmark suites on it
func runBenchmarks(config BenchmarkConfig) ([]BenchmarkResult, error) {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d vaults, %v timeout, no-draft: %d runs, draft: %d runs\n",
		len(config.Sizes), config.Timeout, config.NoDraftRuns, config.DraftRuns)

	scriptPath := filepath.Join(config.WorkDir, "edits.yaml")
	if err := os.WriteFile(scriptPath, []byte(editScript), 0o644); err != nil {
		return nil, err
	}

	for _, size := range config.Sizes {
		fmt.Printf("Seeding %s vault (%d patients x %d sessions)\n", size.Name, size.Patients, size.Sessions)
		v, err := seedVault(config.WorkDir, size)
		if err != nil {
			return nil, fmt.Errorf("seeding %s vault: %w", size.Name, err)
		}

		results = append(results,
			runBenchmarkSuite(config, v, "vault show", "vault", "show"),
			runBenchmarkSuite(config, v, "session list", "session", "list", "-p", v.patientID),
			runBenchmarkSuite(config, v, "session stats", "session", "stats", "-p", v.patientID, "-s", v.sessionID),
			runBenchmarkSuite(config, v, "session edit", "session", "edit", "-p", v.patientID, "-s", v.sessionID, "--script", scriptPath),
		)
	}

	return results, nil
}

// runBenchmarkSuite runs both no-draft and draft benchmarks for a command
func runBenchmarkSuite(config BenchmarkConfig, v seeded, command string, args ...string) BenchmarkResult {
	fmt.Printf("Running %s on %s\n", command, v.size.Name)

	// Helper to run a benchmark phase
	runPhase := func(draftBackend string, numRuns int, phaseName string) (coldTime float64, avgTime string) {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, numRuns)
		cold, times := runBenchmark(config, v, args, draftBackend, numRuns)
		if len(times) == 0 {
			avgTime = "TIMEOUT"
		} else {
			var sum float64
			for _, t := range times {
				sum += t
			}
			avgTime = fmt.Sprintf("%.3fs", sum/float64(len(times)))
		}
		return cold, avgTime
	}

	// Phase 1: No-draft runs
	_, noDraftAvg := runPhase("none", config.NoDraftRuns, "No-draft")

	// Phase 2: SQLite draft runs
	coldTime, warmAvg := runPhase("sqlite", config.DraftRuns, "Draft")

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	fmt.Printf("  No-draft average: %s, Cold time: %s, Warm average: %s\n", noDraftAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		Vault:       v.size.Name,
		Command:     command,
		NoDraftTime: noDraftAvg,
		ColdTime:    coldTimeStr,
		WarmTime:    warmAvg,
	}
}

// runBenchmark executes a steptrack command multiple times with the given draft backend and returns cold time and warm times
func runBenchmark(config BenchmarkConfig, v seeded, args []string, draftBackend string, numRuns int) (coldTime float64, warmTimes []float64) {
	args = append(append([]string{}, args...), "--vault", v.path, "--draft-backend", draftBackend, "--output", "csv")

	var times []float64
	for range numRuns {
		start := time.Now()

		cmd := exec.Command("steptrack", args...)
		cmd.Dir = config.WorkDir

		done := make(chan error, 1)
		go func() {
			_, err := cmd.CombinedOutput()
			done <- err
		}()

		select {
		case err := <-done:
			if err == nil {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			// Timeout - don't add to times
			_ = cmd.Process.Kill()
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := filepath.Join(os.TempDir(), fmt.Sprintf("steptrack_benchmark_%s.csv", timestamp))

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Write header
	if err := writer.Write([]string{"vault", "cmd", "no_draft_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	// Write results
	for _, result := range results {
		if err := writer.Write([]string{result.Vault, result.Command, result.NoDraftTime, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, command := range []string{"vault show", "session list", "session stats", "session edit"} {
		fmt.Printf("%s:\n", command)
		for _, result := range results {
			if result.Command == command {
				fmt.Printf("  %-8s: No-draft: %s, Cold: %s, Warm: %s\n", result.Vault, result.NoDraftTime, result.ColdTime, result.WarmTime)
			}
		}
	}
	fmt.Printf("Benchmark script completed successfully\n")
}
