package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
)

// Level label constants.
const (
	SevereValue   = "Severe"   // levels 5-6
	HighValue     = "High"     // level 4
	ModerateValue = "Moderate" // levels 2-3
	LowValue      = "Low"      // levels 0-1
)

// Color variables for console output.
var (
	SevereColor   = color.New(color.FgRed, color.Bold)     // SevereColor represents standard danger.
	HighColor     = color.New(color.FgMagenta, color.Bold) // HighColor represents strong, distinct warning.
	ModerateColor = color.New(color.FgYellow)              // ModerateColor represents standard caution, not bold.
	LowColor      = color.New(color.FgCyan)                // LowColor represents informational / low-priority signal.
)

// GetPlainLabel returns a plain text label for a clinical level on the 0-6 scale.
// This is the core logic used for CSV, JSON, and table printing.
func GetPlainLabel(level int) string {
	switch {
	case level >= 5:
		return SevereValue
	case level >= 4:
		return HighValue
	case level >= 2:
		return ModerateValue
	default:
		return LowValue
	}
}

// GetColorLabel returns a colored text label for console output (table).
func GetColorLabel(level int) string {
	text := GetPlainLabel(level)

	switch text {
	case SevereValue:
		return SevereColor.Sprint(text)
	case HighValue:
		return HighColor.Sprint(text)
	case ModerateValue:
		return ModerateColor.Sprint(text)
	default: // "Low"
		return LowColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. An empty path selects os.Stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// LogInfo logs an informational message to stderr.
func LogInfo(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, "Info "+format+"\n", args...)
}

// GetDraftDBFilePath returns the path to the SQLite DB file for draft storage.
func GetDraftDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".steptrack_drafts.db"
	}
	return filepath.Join(homeDir, ".steptrack_drafts.db")
}

// GetJournalDBFilePath returns the path to the SQLite DB file for the revision journal.
func GetJournalDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".steptrack_journal.db"
	}
	return filepath.Join(homeDir, ".steptrack_journal.db")
}

// TruncateText truncates free text to a maximum width with an ellipsis suffix.
// Newlines are flattened so table cells stay on one line.
// Requires maxWidth > 3 so there is room for the ellipsis and at least one character.
func TruncateText(text string, maxWidth int) string {
	flat := strings.Join(strings.Fields(text), " ")
	runes := []rune(flat)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return flat
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
