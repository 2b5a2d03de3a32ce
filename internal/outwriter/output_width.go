package outwriter

import (
	"os"

	"github.com/huangsam/steptrack/internal/contract"
	"golang.org/x/term"
)

// Bounds for free-text table columns such as notes and comment texts.
const (
	minTextWidth = 15
	maxTextWidth = 70
)

// getTerminalWidth returns the configured width override or the detected terminal width.
func getTerminalWidth(cfg *contract.Config) int {
	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		return cfg.Width
	}

	detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || detectedWidth <= 0 {
		// Fallback to conservative default if terminal size can't be detected
		return 80 // Conservative default for narrow terminals and CI
	}
	return detectedWidth
}

// getMaxTableTextWidth calculates the width left for the free-text column of a table
// whose other columns take reserved characters.
func getMaxTableTextWidth(cfg *contract.Config, reserved int) int {
	// Reserve generous space for table borders, separators, and padding
	available := getTerminalWidth(cfg) - reserved - 20
	if available < minTextWidth {
		return minTextWidth
	}
	if available > maxTextWidth {
		return maxTextWidth
	}
	return available
}
