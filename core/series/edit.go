package series

import (
	"math"
	"slices"

	"github.com/huangsam/steptrack/core/quant"
	"github.com/huangsam/steptrack/internal/contract"
	"github.com/huangsam/steptrack/schema"
)

// UpdateLevel moves the segment holding pointIndex to a new level. Both points
// of the segment follow, so the change holds until the next breakpoint.
// The raw level is floored and clamped to the valid range.
func UpdateLevel(s schema.Series, pointIndex int, rawLevel float64, layout Layout) (schema.Series, error) {
	if pointIndex < 0 || pointIndex >= len(s.Points) {
		return s, contract.Preconditionf("point index %d out of range [0, %d)", pointIndex, len(s.Points))
	}
	if err := Validate(s.Points); err != nil {
		return s, err
	}
	y := layout.Y(s.Scale, ClampLevel(rawLevel))

	points := slices.Clone(s.Points)
	start := pointIndex - pointIndex%2
	points[start].Y = y
	points[start+1].Y = y

	out := s.Clone()
	out.Points = Clean(points)
	return out, nil
}

// InsertBreakpoint changes the level of the series from timePercent onwards,
// up to the next existing breakpoint. The time is snapped to a whole second of
// the session. A time that lands on an existing segment start updates that
// segment in place; a time of 100 appends a zero-length closing segment.
func InsertBreakpoint(s schema.Series, timePercent, rawLevel, duration float64, layout Layout) (schema.Series, error) {
	if math.IsNaN(timePercent) || timePercent < schema.MinPercent || timePercent > schema.MaxPercent {
		return s, contract.Preconditionf("time %v is outside [%v, %v]", timePercent, schema.MinPercent, schema.MaxPercent)
	}
	if err := Validate(s.Points); err != nil {
		return s, err
	}
	x, err := quant.RoundPercent(timePercent, duration)
	if err != nil {
		return s, err
	}
	x = min(x, schema.MaxPercent)
	y := layout.Y(s.Scale, ClampLevel(rawLevel))

	segs := Segments(s.Points)
	out := make([]schema.Segment, 0, len(segs)+2)
	if len(segs) == 0 || x < segs[0].Start.X {
		end := schema.MaxPercent
		if len(segs) > 0 {
			end = segs[0].Start.X
		}
		out = append(out, schema.Segment{Start: schema.Point{X: x, Y: y}, End: schema.Point{X: end, Y: y}})
	}

	last := len(segs) - 1
	for i, seg := range segs {
		switch {
		case seg.Start.X == x:
			seg.Start.Y, seg.End.Y = y, y
			out = append(out, seg)
		case x > seg.Start.X && (x < seg.End.X || (i == last && x < schema.MaxPercent)):
			end := seg.End.X
			if i == last {
				end = schema.MaxPercent
			}
			out = append(out,
				schema.Segment{Start: seg.Start, End: schema.Point{X: x, Y: seg.Start.Y}},
				schema.Segment{Start: schema.Point{X: x, Y: y}, End: schema.Point{X: end, Y: y}},
			)
		default:
			out = append(out, seg)
		}
	}

	if x == schema.MaxPercent && len(segs) > 0 && segs[last].Start.X != x {
		closing := schema.Point{X: x, Y: y}
		out = append(out, schema.Segment{Start: closing, End: closing})
	}

	res := s.Clone()
	res.Points = Clean(Flatten(out))
	return res, nil
}
