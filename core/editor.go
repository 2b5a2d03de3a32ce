package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/huangsam/steptrack/core/annot"
	"github.com/huangsam/steptrack/core/history"
	"github.com/huangsam/steptrack/core/series"
	"github.com/huangsam/steptrack/core/stats"
	"github.com/huangsam/steptrack/internal/contract"
	"github.com/huangsam/steptrack/schema"
)

// NoAnnotation is the selected annotation index when none is selected.
const NoAnnotation = -1

// Editor holds the session being edited, its undo history and the view state
// around it. It is not safe for concurrent use; callers serialize access.
type Editor struct {
	store   contract.SessionStore
	drafts  contract.DraftStore
	journal contract.RevisionStore
	layout  series.Layout
	now     func() time.Time

	autosave bool

	ref      schema.SessionRef
	record   schema.SessionRecord
	doc      schema.Document
	baseline schema.Document
	log      *history.Log[schema.Document]

	selectedSeries     int
	selectedAnnotation int
	zoomWidth          int
	zoomed             bool
}

// EditorOption configures an Editor.
type EditorOption func(*Editor)

// WithLayout sets the vertical layout of the series.
func WithLayout(layout series.Layout) EditorOption {
	return func(e *Editor) { e.layout = layout }
}

// WithDrafts enables draft storage. With autosave, every edit writes the
// current document to the store.
func WithDrafts(drafts contract.DraftStore, autosave bool) EditorOption {
	return func(e *Editor) {
		e.drafts = drafts
		e.autosave = autosave
	}
}

// WithJournal records a revision on every successful save.
func WithJournal(journal contract.RevisionStore) EditorOption {
	return func(e *Editor) { e.journal = journal }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) EditorOption {
	return func(e *Editor) { e.now = now }
}

// NewEditor returns an editor with no session open.
func NewEditor(store contract.SessionStore, opts ...EditorOption) *Editor {
	e := &Editor{
		store:              store,
		layout:             series.DefaultLayout(),
		now:                time.Now,
		log:                &history.Log[schema.Document]{},
		selectedAnnotation: NoAnnotation,
		zoomWidth:          schema.DefaultZoomWidth,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Open loads a session and makes it the editor's only history entry and its
// clean baseline. On failure the previous session stays in place.
func (e *Editor) Open(ctx context.Context, ref schema.SessionRef) error {
	rec, err := e.store.LoadSession(ctx, ref)
	if err != nil {
		return &contract.LoadError{Ref: ref, Err: err}
	}
	if rec.Duration <= 0 {
		return &contract.LoadError{Ref: ref, Err: contract.Preconditionf("session duration must be positive (received %v)", rec.Duration)}
	}
	doc := DocumentFromRecord(rec, e.layout)
	for i, s := range doc.Series {
		if err := series.Validate(s.Points); err != nil {
			return &contract.LoadError{Ref: ref, Err: fmt.Errorf("series %d (%s): %w", i, s.Scale, err)}
		}
	}

	e.ref = ref
	e.record = rec
	e.doc = doc
	e.baseline = doc
	e.log.Reset(doc)
	e.selectedSeries = 0
	e.selectedAnnotation = NoAnnotation
	return nil
}

// Close discards the session, its history and its selection.
func (e *Editor) Close() {
	e.ref = schema.SessionRef{}
	e.record = schema.SessionRecord{}
	e.doc = schema.Document{}
	e.baseline = schema.Document{}
	e.log.Clear()
	e.selectedSeries = 0
	e.selectedAnnotation = NoAnnotation
}

// IsOpen reports whether a session is loaded.
func (e *Editor) IsOpen() bool {
	return e.log.Len() > 0
}

// Ref returns the reference of the open session.
func (e *Editor) Ref() schema.SessionRef {
	return e.ref
}

// Layout returns the layout used to place the series.
func (e *Editor) Layout() series.Layout {
	return e.layout
}

// Document returns a copy of the visible document.
func (e *Editor) Document() schema.Document {
	return e.doc.Clone()
}

// Undoable reports whether Undo would change the document.
func (e *Editor) Undoable() bool { return e.log.Undoable() }

// Redoable reports whether Redo would change the document.
func (e *Editor) Redoable() bool { return e.log.Redoable() }

// Dirty reports whether the document differs from the last loaded or saved value.
func (e *Editor) Dirty() bool {
	return e.IsOpen() && history.Dirty(e.doc, e.baseline)
}

// Stats returns the level shares of the visible document.
func (e *Editor) Stats() schema.SessionStats {
	return stats.Summarize(e.doc, e.layout)
}

// SelectedSeries returns the index of the series that receives inserted breakpoints.
func (e *Editor) SelectedSeries() int { return e.selectedSeries }

// SelectSeries changes the series that receives inserted breakpoints.
func (e *Editor) SelectSeries(index int) error {
	if err := e.requireOpen(); err != nil {
		return err
	}
	if index < 0 || index >= len(e.doc.Series) {
		return contract.Preconditionf("series index %d out of range [0, %d)", index, len(e.doc.Series))
	}
	e.selectedSeries = index
	return nil
}

// SelectedAnnotation returns the selected annotation index or NoAnnotation.
func (e *Editor) SelectedAnnotation() int { return e.selectedAnnotation }

// SelectAnnotation selects an annotation; NoAnnotation clears the selection.
func (e *Editor) SelectAnnotation(index int) error {
	if index == NoAnnotation {
		e.selectedAnnotation = NoAnnotation
		return nil
	}
	if err := e.requireOpen(); err != nil {
		return err
	}
	if index < 0 || index >= len(e.doc.Annotations) {
		return contract.Preconditionf("annotation index %d out of range [0, %d)", index, len(e.doc.Annotations))
	}
	e.selectedAnnotation = index
	return nil
}

// ZoomWidth returns the chart width in pixels.
func (e *Editor) ZoomWidth() int { return e.zoomWidth }

// Zoomed reports whether the user zoomed since the editor was created.
func (e *Editor) Zoomed() bool { return e.zoomed }

// ZoomIn widens the chart by one step.
func (e *Editor) ZoomIn() int {
	e.zoomWidth = min(e.zoomWidth+schema.ZoomStep, schema.MaxZoomWidth)
	e.zoomed = true
	return e.zoomWidth
}

// ZoomOut narrows the chart by one step.
func (e *Editor) ZoomOut() int {
	e.zoomWidth = max(e.zoomWidth-schema.ZoomStep, schema.MinZoomWidth)
	e.zoomed = true
	return e.zoomWidth
}

// SetZoomWidth sets the chart width, clamped to the zoom bounds.
func (e *Editor) SetZoomWidth(width int) int {
	e.zoomWidth = min(max(width, schema.MinZoomWidth), schema.MaxZoomWidth)
	return e.zoomWidth
}

// UpdateLevel moves the segment holding pointIndex of a series to a new level.
func (e *Editor) UpdateLevel(seriesIndex, pointIndex int, level float64) error {
	return e.apply(func(doc schema.Document) (schema.Document, bool, error) {
		if seriesIndex < 0 || seriesIndex >= len(doc.Series) {
			return doc, false, contract.Preconditionf("series index %d out of range [0, %d)", seriesIndex, len(doc.Series))
		}
		s, err := series.UpdateLevel(doc.Series[seriesIndex], pointIndex, level, e.layout)
		if err != nil {
			return doc, false, err
		}
		doc.Series = replaceSeries(doc.Series, seriesIndex, s)
		return doc, true, nil
	})
}

// InsertBreakpoint changes the level of the selected series from timePercent on.
func (e *Editor) InsertBreakpoint(timePercent, level float64) error {
	return e.apply(func(doc schema.Document) (schema.Document, bool, error) {
		idx := e.selectedSeries
		if idx < 0 || idx >= len(doc.Series) {
			return doc, false, contract.Preconditionf("no series is selected")
		}
		s, err := series.InsertBreakpoint(doc.Series[idx], timePercent, level, doc.Duration, e.layout)
		if err != nil {
			return doc, false, err
		}
		doc.Series = replaceSeries(doc.Series, idx, s)
		return doc, true, nil
	})
}

// AddComment adds a comment with text at x. A comment already at x is left alone.
func (e *Editor) AddComment(x float64, text string) error {
	return e.apply(func(doc schema.Document) (schema.Document, bool, error) {
		list, added, err := annot.AddComment(doc.Annotations, x, text)
		doc.Annotations = list
		return doc, added, err
	})
}

// SetCommentText replaces the text of a comment.
func (e *Editor) SetCommentText(index int, text string) error {
	return e.apply(func(doc schema.Document) (schema.Document, bool, error) {
		list, err := annot.SetText(doc.Annotations, index, text)
		doc.Annotations = list
		return doc, err == nil, err
	})
}

// AddBreak adds a break of durationSeconds starting at startSeconds.
// A break already starting at the same time is left alone.
func (e *Editor) AddBreak(startSeconds, durationSeconds float64) error {
	return e.apply(func(doc schema.Document) (schema.Document, bool, error) {
		list, added, err := annot.AddBreak(doc.Annotations, startSeconds, durationSeconds, doc.Duration)
		doc.Annotations = list
		return doc, added, err
	})
}

// DeleteAnnotation removes a comment or break. A selection after index moves
// down with its annotation; deleting the selection clears it.
func (e *Editor) DeleteAnnotation(index int) error {
	return e.apply(func(doc schema.Document) (schema.Document, bool, error) {
		list, err := annot.RemoveAt(doc.Annotations, index)
		if err != nil {
			return doc, false, err
		}
		// Must run before apply shows the shorter list.
		switch {
		case e.selectedAnnotation == index:
			e.selectedAnnotation = NoAnnotation
		case e.selectedAnnotation > index:
			e.selectedAnnotation--
		}
		doc.Annotations = list
		return doc, true, nil
	})
}

// ToggleSeries flips the visibility of a series.
func (e *Editor) ToggleSeries(index int) error {
	return e.apply(func(doc schema.Document) (schema.Document, bool, error) {
		if index < 0 || index >= len(doc.Series) {
			return doc, false, contract.Preconditionf("series index %d out of range [0, %d)", index, len(doc.Series))
		}
		s := doc.Series[index].Clone()
		s.Hidden = !s.Hidden
		doc.Series = replaceSeries(doc.Series, index, s)
		return doc, true, nil
	})
}

// ResetSeriesVisibility shows every series.
func (e *Editor) ResetSeriesVisibility() error {
	return e.apply(func(doc schema.Document) (schema.Document, bool, error) {
		out := make([]schema.Series, len(doc.Series))
		for i, s := range doc.Series {
			out[i] = s.Clone()
			out[i].Hidden = false
		}
		doc.Series = out
		return doc, true, nil
	})
}

// UpdateNotes replaces the session notes with their trimmed form.
func (e *Editor) UpdateNotes(notes string) error {
	return e.apply(func(doc schema.Document) (schema.Document, bool, error) {
		doc.Notes = strings.TrimSpace(notes)
		return doc, true, nil
	})
}

// Undo steps back one edit. It reports false when there is nothing to undo.
func (e *Editor) Undo() bool {
	doc, ok := e.log.Undo()
	if ok {
		e.show(doc)
	}
	return ok
}

// Redo steps forward one edit. It reports false when there is nothing to redo.
func (e *Editor) Redo() bool {
	doc, ok := e.log.Redo()
	if ok {
		e.show(doc)
	}
	return ok
}

// Save writes the visible document back to the store and makes it the new
// clean baseline. The history is kept.
func (e *Editor) Save(ctx context.Context) error {
	if err := e.requireOpen(); err != nil {
		return err
	}
	rec := RecordFromDocument(e.record, e.doc, e.layout)
	if err := e.store.SaveSession(ctx, e.ref, rec); err != nil {
		return fmt.Errorf("cannot save session %s: %w", e.ref.SessionID, err)
	}
	e.record = rec
	e.baseline = e.doc

	if e.journal != nil {
		if _, err := e.journal.RecordRevision(e.ref, e.now(), e.doc, e.Stats()); err != nil {
			contract.LogWarn("Revision journal write failed", err)
		}
	}
	e.discardDraft()
	return nil
}

func (e *Editor) requireOpen() error {
	if !e.IsOpen() {
		return contract.ErrNoSession
	}
	return nil
}

// apply runs an edit on a copy of the visible document. The edit reports
// whether it changed anything; unchanged documents are not recorded.
func (e *Editor) apply(edit func(schema.Document) (schema.Document, bool, error)) error {
	if err := e.requireOpen(); err != nil {
		return err
	}
	next, changed, err := edit(e.doc)
	if err != nil || !changed {
		return err
	}
	e.log.Record(next)
	e.show(next)
	if e.autosave {
		if err := e.SaveDraft(); err != nil {
			contract.LogWarn("Draft autosave failed", err)
		}
	}
	return nil
}

func (e *Editor) show(doc schema.Document) {
	e.doc = doc
	if e.selectedAnnotation >= len(doc.Annotations) {
		e.selectedAnnotation = NoAnnotation
	}
	if e.selectedSeries >= len(doc.Series) {
		e.selectedSeries = 0
	}
}

func replaceSeries(list []schema.Series, index int, s schema.Series) []schema.Series {
	out := make([]schema.Series, len(list))
	copy(out, list)
	out[index] = s
	return out
}
