package core

import (
	"cmp"
	"slices"

	"github.com/huangsam/steptrack/core/series"
	"github.com/huangsam/steptrack/schema"
)

// DocumentFromRecord adapts a stored session into its editable form: every
// stored breakpoint is doubled into a segment and shifted by the scale offset.
func DocumentFromRecord(rec schema.SessionRecord, layout series.Layout) schema.Document {
	doc := schema.Document{
		Duration:    rec.Duration,
		Name:        rec.Name,
		Notes:       rec.Notes,
		Date:        rec.Date,
		Series:      make([]schema.Series, 0, len(rec.Datasets)),
		Annotations: slices.Clone(rec.Comments),
	}
	for _, ds := range rec.Datasets {
		doc.Series = append(doc.Series, schema.Series{
			Scale:  ds.Label,
			Color:  ds.Color,
			Points: layout.Expand(ds.Label, ds.Data),
		})
	}
	slices.SortStableFunc(doc.Annotations, func(a, b schema.Annotation) int { return cmp.Compare(a.X, b.X) })
	return doc
}

// RecordFromDocument writes doc back into the stored shape, keeping the
// identity fields of base. Series visibility is view state and is not stored.
func RecordFromDocument(base schema.SessionRecord, doc schema.Document, layout series.Layout) schema.SessionRecord {
	rec := base
	rec.Duration = doc.Duration
	rec.Name = doc.Name
	rec.Notes = doc.Notes
	rec.Date = doc.Date
	rec.Datasets = make([]schema.Dataset, 0, len(doc.Series))
	for _, s := range doc.Series {
		rec.Datasets = append(rec.Datasets, schema.Dataset{
			Label: s.Scale,
			Color: s.Color,
			Data:  layout.Compact(s.Scale, s.Points),
		})
	}
	rec.Comments = slices.Clone(doc.Annotations)
	if rec.Comments == nil {
		rec.Comments = []schema.Annotation{}
	}
	return rec
}
