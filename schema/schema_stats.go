package schema

// LevelShare is the time a scale spent at one level.
type LevelShare struct {
	Level   int     `json:"level"`
	Percent float64 `json:"percent"` // share of the session duration, 0-100
	Seconds float64 `json:"seconds"`
}

// SeriesStats holds the level shares of one scale, ordered by level.
type SeriesStats struct {
	Scale  ScaleID      `json:"scale"`
	Levels []LevelShare `json:"levels"`
}

// SessionStats holds the stats of every scale in a document.
type SessionStats struct {
	Name     string        `json:"name"`
	Date     string        `json:"date"`
	Duration float64       `json:"duration"`
	Series   []SeriesStats `json:"series"`
}
