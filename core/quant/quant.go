// Package quant converts between absolute seconds and the normalized [0,100]
// time-percent axis, snapping every position to a whole second.
package quant

import (
	"fmt"
	"math"

	"github.com/huangsam/steptrack/internal/contract"
)

func checkDuration(duration float64) error {
	if duration <= 0 || math.IsNaN(duration) || math.IsInf(duration, 0) {
		return contract.Preconditionf("session duration must be positive (received %v)", duration)
	}
	return nil
}

// RoundSeconds returns the whole second that a percent position maps to.
func RoundSeconds(value, duration float64) (int, error) {
	if err := checkDuration(duration); err != nil {
		return 0, err
	}
	return int(math.Round(value / 100 * duration)), nil
}

// RoundPercent snaps a continuous percent position to the nearest whole second
// and re-expresses it as a percent of duration.
func RoundPercent(value, duration float64) (float64, error) {
	if err := checkDuration(duration); err != nil {
		return 0, err
	}
	return math.Round(value/100*duration) / duration * 100, nil
}

// ToPercent expresses an absolute time in seconds as a percent of duration.
// The time is rounded to a whole second first.
func ToPercent(seconds, duration float64) (float64, error) {
	if err := checkDuration(duration); err != nil {
		return 0, err
	}
	return math.Round(seconds) / duration * 100, nil
}

// FormatSeconds renders seconds as zero-padded "MM:SS". Minutes keep growing
// past 59; there is no hour field.
func FormatSeconds(seconds float64) string {
	total := max(int(math.Round(seconds)), 0)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// FormatTick renders a percent position as the "MM:SS" time it stands for.
func FormatTick(value, duration float64) (string, error) {
	secs, err := RoundSeconds(value, duration)
	if err != nil {
		return "", err
	}
	return FormatSeconds(float64(secs)), nil
}

// FormatInterval renders "[start, start+length)" as "MM:SS - MM:SS".
func FormatInterval(start, length float64) string {
	return FormatSeconds(start) + " - " + FormatSeconds(start+length)
}
