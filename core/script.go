package core

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/huangsam/steptrack/schema"
	"gopkg.in/yaml.v3"
)

// Script operation names.
const (
	OpSelect          = "select"
	OpUpdateLevel     = "update_level"
	OpInsert          = "insert"
	OpComment         = "comment"
	OpCommentText     = "comment_text"
	OpBreak           = "break"
	OpDelete          = "delete"
	OpToggle          = "toggle"
	OpResetVisibility = "reset_visibility"
	OpNotes           = "notes"
	OpUndo            = "undo"
	OpRedo            = "redo"
	OpSave            = "save"
)

// Op is one step of an edit script. Series is either a scale name or empty
// for the selected series.
type Op struct {
	Op     string  `yaml:"op"`
	Series string  `yaml:"series,omitempty"`
	Point  int     `yaml:"point,omitempty"`
	Index  int     `yaml:"index,omitempty"`
	Time   float64 `yaml:"time,omitempty"`   // percent of the session
	Level  float64 `yaml:"level,omitempty"`  // clinical level
	Start  float64 `yaml:"start,omitempty"`  // seconds
	Length float64 `yaml:"length,omitempty"` // seconds
	Text   string  `yaml:"text,omitempty"`
}

// ParseScript decodes a YAML list of operations.
func ParseScript(data []byte) ([]Op, error) {
	var ops []Op
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&ops); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("invalid edit script: %w", err)
	}
	return ops, nil
}

// ApplyScript runs ops in order on the open session and stops at the first
// failing one. Steps before the failure stay applied and can be undone.
func (e *Editor) ApplyScript(ctx context.Context, ops []Op) error {
	for i, op := range ops {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := e.applyOp(ctx, op); err != nil {
			return fmt.Errorf("step %d (%s): %w", i+1, op.Op, err)
		}
	}
	return nil
}

func (e *Editor) applyOp(ctx context.Context, op Op) error {
	switch op.Op {
	case OpSelect:
		idx, err := e.seriesIndex(op.Series)
		if err != nil {
			return err
		}
		return e.SelectSeries(idx)
	case OpUpdateLevel:
		idx, err := e.seriesIndex(op.Series)
		if err != nil {
			return err
		}
		return e.UpdateLevel(idx, op.Point, op.Level)
	case OpInsert:
		if op.Series != "" {
			idx, err := e.seriesIndex(op.Series)
			if err != nil {
				return err
			}
			if err := e.SelectSeries(idx); err != nil {
				return err
			}
		}
		return e.InsertBreakpoint(op.Time, op.Level)
	case OpComment:
		return e.AddComment(op.Time, op.Text)
	case OpCommentText:
		return e.SetCommentText(op.Index, op.Text)
	case OpBreak:
		return e.AddBreak(op.Start, op.Length)
	case OpDelete:
		return e.DeleteAnnotation(op.Index)
	case OpToggle:
		idx, err := e.seriesIndex(op.Series)
		if err != nil {
			return err
		}
		return e.ToggleSeries(idx)
	case OpResetVisibility:
		return e.ResetSeriesVisibility()
	case OpNotes:
		return e.UpdateNotes(op.Text)
	case OpUndo:
		e.Undo()
		return nil
	case OpRedo:
		e.Redo()
		return nil
	case OpSave:
		return e.Save(ctx)
	default:
		return fmt.Errorf("unknown operation %q", op.Op)
	}
}

// seriesIndex resolves a scale name to its position in the document.
func (e *Editor) seriesIndex(name string) (int, error) {
	if name == "" {
		return e.selectedSeries, nil
	}
	scale, ok := schema.ParseScale(name)
	if !ok {
		return 0, fmt.Errorf("unknown scale %q", name)
	}
	for i, s := range e.doc.Series {
		if s.Scale == scale {
			return i, nil
		}
	}
	return 0, fmt.Errorf("session has no %s series", scale)
}
