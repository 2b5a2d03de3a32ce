// Package series models one scale's value over time as a step function and
// implements the edits made on the chart.
//
// Points are consumed in pairs: index 2k starts a constant-level segment and
// index 2k+1 ends it at the same y. The x axis is a percent of the session.
package series

import (
	"math"

	"github.com/huangsam/steptrack/internal/contract"
	"github.com/huangsam/steptrack/schema"
)

// Segments groups a point list into segments. A trailing unpaired point
// becomes a zero-length segment.
func Segments(points []schema.Point) []schema.Segment {
	segs := make([]schema.Segment, 0, (len(points)+1)/2)
	for i := 0; i < len(points); i += 2 {
		end := points[i]
		if i+1 < len(points) {
			end = points[i+1]
		}
		segs = append(segs, schema.Segment{Start: points[i], End: end})
	}
	return segs
}

// Flatten is the inverse of Segments.
func Flatten(segs []schema.Segment) []schema.Point {
	points := make([]schema.Point, 0, len(segs)*2)
	for _, seg := range segs {
		points = append(points, seg.Start, seg.End)
	}
	return points
}

// Clean collapses redundant points. A zero-length segment is dropped unless it
// is the first or the last one, and a segment that starts exactly where the
// previous one ended is merged into it. The pass is repeated until nothing
// changes, so Clean(Clean(p)) equals Clean(p).
func Clean(points []schema.Point) []schema.Point {
	segs := Segments(points)
	for {
		next := cleanPass(segs)
		if len(next) == len(segs) {
			return Flatten(next)
		}
		segs = next
	}
}

func cleanPass(segs []schema.Segment) []schema.Segment {
	out := make([]schema.Segment, 0, len(segs))
	last := len(segs) - 1
	for i, seg := range segs {
		if seg.Start == seg.End && i != 0 && i != last {
			continue
		}
		if n := len(out); n > 0 && out[n-1].End == seg.Start {
			out[n-1].End = seg.End
			continue
		}
		out = append(out, seg)
	}
	return out
}

// Validate checks the representation invariant: an even number of points,
// x within the axis and non-decreasing, and equal y within each pair.
func Validate(points []schema.Point) error {
	if len(points)%2 != 0 {
		return contract.Preconditionf("point list has odd length %d", len(points))
	}
	for i, p := range points {
		if math.IsNaN(p.X) || math.IsNaN(p.Y) || p.X < schema.MinPercent || p.X > schema.MaxPercent {
			return contract.Preconditionf("point %d (%v, %v) is off the axis", i, p.X, p.Y)
		}
		if i > 0 && p.X < points[i-1].X {
			return contract.Preconditionf("point %d goes back in time (%v < %v)", i, p.X, points[i-1].X)
		}
		if i%2 == 1 && p.Y != points[i-1].Y {
			return contract.Preconditionf("segment %d changes level mid-way (%v != %v)", i/2, points[i-1].Y, p.Y)
		}
	}
	return nil
}
