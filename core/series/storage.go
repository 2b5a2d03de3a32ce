package series

import (
	"github.com/huangsam/steptrack/schema"
)

// Expand turns stored breakpoints into paired chart points with the scale
// offset applied. Each breakpoint holds until the next one, the last until 100.
func (l Layout) Expand(scale schema.ScaleID, stored []schema.Point) []schema.Point {
	off := l.Offset(scale)
	points := make([]schema.Point, 0, len(stored)*2)
	for i, p := range stored {
		end := schema.MaxPercent
		if i+1 < len(stored) {
			end = stored[i+1].X
		}
		y := p.Y + off
		points = append(points, schema.Point{X: p.X, Y: y}, schema.Point{X: end, Y: y})
	}
	return points
}

// Compact is the inverse of Expand: it keeps the start of every segment and
// removes the scale offset, yielding the stored breakpoint list.
func (l Layout) Compact(scale schema.ScaleID, points []schema.Point) []schema.Point {
	stored := make([]schema.Point, 0, (len(points)+1)/2)
	for i := 0; i < len(points); i += 2 {
		p := points[i]
		stored = append(stored, schema.Point{X: p.X, Y: float64(l.Level(scale, p.Y))})
	}
	return stored
}
