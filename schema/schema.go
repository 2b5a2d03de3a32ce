// Package schema has the models, enums and status types shared by all parts of steptrack.
package schema

import "slices"

// Point is one coordinate of a step series. X is a percentage of the session
// duration and Y is the level plus the series offset.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Segment is a constant-level stretch of a series. Start and End share the same Y.
type Segment struct {
	Start Point `json:"start"`
	End   Point `json:"end"`
}

// Series is the editable form of one scale's value over time.
// Points is a flattened list of segments: index 2k starts a segment and 2k+1 ends it.
type Series struct {
	Scale  ScaleID `json:"scale"`
	Color  string  `json:"color"`
	Points []Point `json:"points"`
	Hidden bool    `json:"hidden"`
}

// Annotation is either a point comment or a break interval pinned to a time.
type Annotation struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Text    string  `json:"text"`
	IsBreak bool    `json:"isBreak,omitempty"`
}

// Document is the editable session state. Every edit produces a new Document;
// a stored Document is never mutated.
type Document struct {
	Duration    float64      `json:"duration"` // seconds
	Name        string       `json:"name"`
	Notes       string       `json:"notes"`
	Date        string       `json:"date"`
	Series      []Series     `json:"series"`
	Annotations []Annotation `json:"annotations"`
}

// Clone returns a deep copy of the series.
func (s Series) Clone() Series {
	clone := s
	clone.Points = slices.Clone(s.Points)
	return clone
}

// Equal reports whether two series have the same value.
func (s Series) Equal(other Series) bool {
	return s.Scale == other.Scale &&
		s.Color == other.Color &&
		s.Hidden == other.Hidden &&
		slices.Equal(s.Points, other.Points)
}

// Clone returns a deep copy of the document.
func (d Document) Clone() Document {
	clone := d
	if d.Series != nil {
		clone.Series = make([]Series, len(d.Series))
		for i, s := range d.Series {
			clone.Series[i] = s.Clone()
		}
	}
	clone.Annotations = slices.Clone(d.Annotations)
	return clone
}

// Equal reports deep value equality between two documents.
func (d Document) Equal(other Document) bool {
	return d.Duration == other.Duration &&
		d.Name == other.Name &&
		d.Notes == other.Notes &&
		d.Date == other.Date &&
		slices.EqualFunc(d.Series, other.Series, Series.Equal) &&
		slices.Equal(d.Annotations, other.Annotations)
}
