// Package stats derives how long each scale spent at each level.
package stats

import (
	"maps"
	"slices"

	"github.com/huangsam/steptrack/core/series"
	"github.com/huangsam/steptrack/schema"
)

// Aggregate returns, per level, the percent of the session the series spent there.
// Each segment end contributes the distance from the previous segment end
// (from 0 for the first one) to the level of its own y.
func Aggregate(s schema.Series, layout series.Layout) map[int]float64 {
	totals := make(map[int]float64)
	prevEnd := 0.0
	for i := 1; i < len(s.Points); i += 2 {
		end := s.Points[i]
		totals[layout.Level(s.Scale, end.Y)] += end.X - prevEnd
		prevEnd = end.X
	}
	return totals
}

// Summarize computes the level shares of every series in doc, in series order.
// Seconds are derived from the document duration.
func Summarize(doc schema.Document, layout series.Layout) schema.SessionStats {
	out := schema.SessionStats{
		Name:     doc.Name,
		Date:     doc.Date,
		Duration: doc.Duration,
		Series:   make([]schema.SeriesStats, 0, len(doc.Series)),
	}
	for _, s := range doc.Series {
		totals := Aggregate(s, layout)
		levels := slices.Sorted(maps.Keys(totals))
		shares := make([]schema.LevelShare, 0, len(levels))
		for _, level := range levels {
			pct := totals[level]
			shares = append(shares, schema.LevelShare{
				Level:   level,
				Percent: pct,
				Seconds: pct / 100 * doc.Duration,
			})
		}
		out.Series = append(out.Series, schema.SeriesStats{Scale: s.Scale, Levels: shares})
	}
	return out
}
