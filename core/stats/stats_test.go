package stats

import (
	"testing"

	"github.com/huangsam/steptrack/core/series"
	"github.com/huangsam/steptrack/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregate(t *testing.T) {
	tests := []struct {
		name     string
		points   []schema.Point
		expected map[int]float64
	}{
		{
			name:     "two levels",
			points:   []schema.Point{{X: 0, Y: 1}, {X: 30, Y: 1}, {X: 30, Y: 2}, {X: 100, Y: 2}},
			expected: map[int]float64{1: 30, 2: 70},
		},
		{
			name:     "revisited level accumulates",
			points:   []schema.Point{{X: 0, Y: 3}, {X: 20, Y: 3}, {X: 20, Y: 0}, {X: 50, Y: 0}, {X: 50, Y: 3}, {X: 100, Y: 3}},
			expected: map[int]float64{3: 70, 0: 30},
		},
		{
			name:     "zero-length closing segment adds nothing",
			points:   []schema.Point{{X: 0, Y: 2}, {X: 100, Y: 2}, {X: 100, Y: 5}, {X: 100, Y: 5}},
			expected: map[int]float64{2: 100, 5: 0},
		},
		{
			name:     "empty series",
			points:   nil,
			expected: map[int]float64{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Aggregate(schema.Series{Points: tt.points}, series.Layout{})
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestAggregateRemovesOffset(t *testing.T) {
	layout := series.DefaultLayout()
	s := schema.Series{
		Scale:  schema.ScaleTQR,
		Points: layout.Expand(schema.ScaleTQR, []schema.Point{{X: 0, Y: 4}, {X: 25, Y: 6}}),
	}
	assert.Equal(t, map[int]float64{4: 25, 6: 75}, Aggregate(s, layout))
}

func TestSummarize(t *testing.T) {
	doc := schema.Document{
		Name:     "Session 1",
		Date:     "2024-03-01",
		Duration: 1200,
		Series: []schema.Series{
			{Scale: schema.ScaleVQR, Points: []schema.Point{{X: 0, Y: 2}, {X: 25, Y: 2}, {X: 25, Y: 1}, {X: 100, Y: 1}}},
			{Scale: schema.ScalePEQR},
		},
	}

	got := Summarize(doc, series.Layout{})
	assert.Equal(t, "Session 1", got.Name)
	require.Len(t, got.Series, 2)
	assert.Equal(t, []schema.LevelShare{
		{Level: 1, Percent: 75, Seconds: 900},
		{Level: 2, Percent: 25, Seconds: 300},
	}, got.Series[0].Levels)
	assert.Empty(t, got.Series[1].Levels)
	assert.Equal(t, schema.ScalePEQR, got.Series[1].Scale)
}
