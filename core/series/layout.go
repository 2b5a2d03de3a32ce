package series

import (
	"math"

	"github.com/huangsam/steptrack/schema"
)

// Layout places each scale at its own vertical offset so that series sharing
// the chart never overlap. A stored y is always level + Offset(scale).
type Layout struct {
	LineOffset float64
}

// DefaultLayout returns the layout used by the chart when nothing is configured.
func DefaultLayout() Layout {
	return Layout{LineOffset: schema.DefaultLineOffset}
}

// Offset returns the vertical offset of a scale. Unknown scales sit on the baseline.
func (l Layout) Offset(scale schema.ScaleID) float64 {
	ord := scale.Ordinal()
	if ord < 0 {
		return 0
	}
	return l.LineOffset * float64(ord+1)
}

// Y converts a clinical level into chart space for the given scale.
func (l Layout) Y(scale schema.ScaleID, level int) float64 {
	return float64(level) + l.Offset(scale)
}

// Level converts a chart-space y back to the clinical level it encodes.
func (l Layout) Level(scale schema.ScaleID, y float64) int {
	return clampInt(int(math.Round(y - l.Offset(scale))))
}

// ClampLevel floors a raw level and clamps it to the valid range.
func ClampLevel(raw float64) int {
	if math.IsNaN(raw) {
		return schema.MinLevel
	}
	if math.IsInf(raw, 1) {
		return schema.MaxLevel
	}
	if math.IsInf(raw, -1) {
		return schema.MinLevel
	}
	return clampInt(int(math.Floor(raw)))
}

func clampInt(level int) int {
	return min(max(level, schema.MinLevel), schema.MaxLevel)
}
