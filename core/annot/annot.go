// Package annot keeps the comments and breaks pinned to a session's time axis.
// The list is always sorted by x; inserting a duplicate is silently ignored.
package annot

import (
	"cmp"
	"math"
	"slices"

	"github.com/huangsam/steptrack/core/quant"
	"github.com/huangsam/steptrack/internal/contract"
	"github.com/huangsam/steptrack/schema"
)

func byX(a, b schema.Annotation) int {
	return cmp.Compare(a.X, b.X)
}

func insertSorted(list []schema.Annotation, a schema.Annotation) []schema.Annotation {
	out := slices.Clone(list)
	out = append(out, a)
	slices.SortStableFunc(out, byX)
	return out
}

// IsComment reports whether the annotation is a point comment.
func IsComment(a schema.Annotation) bool {
	return !a.IsBreak && a.Y == schema.CommentY
}

// AddComment inserts a comment with text at x. The bool is false when a comment
// already sits at exactly x and the list is returned unchanged.
func AddComment(list []schema.Annotation, x float64, text string) ([]schema.Annotation, bool, error) {
	if math.IsNaN(x) || x < schema.MinPercent || x > schema.MaxPercent {
		return list, false, contract.Preconditionf("comment time %v is outside [%v, %v]", x, schema.MinPercent, schema.MaxPercent)
	}
	if slices.ContainsFunc(list, func(a schema.Annotation) bool { return IsComment(a) && a.X == x }) {
		return list, false, nil
	}
	return insertSorted(list, schema.Annotation{X: x, Y: schema.CommentY, Text: text}), true, nil
}

// AddBreak inserts a break that starts at startSeconds and lasts durationSeconds
// of a session totalDuration long. Its text is the "MM:SS - MM:SS" interval.
// The bool is false when a break already starts at the same time.
func AddBreak(list []schema.Annotation, startSeconds, durationSeconds, totalDuration float64) ([]schema.Annotation, bool, error) {
	if startSeconds < 0 || durationSeconds < 0 || startSeconds > totalDuration {
		return list, false, contract.Preconditionf("break [%v, +%v) does not fit a %v second session", startSeconds, durationSeconds, totalDuration)
	}
	x, err := quant.ToPercent(startSeconds, totalDuration)
	if err != nil {
		return list, false, err
	}
	x = min(x, schema.MaxPercent)
	if slices.ContainsFunc(list, func(a schema.Annotation) bool { return a.IsBreak && a.X == x }) {
		return list, false, nil
	}
	b := schema.Annotation{
		X:       x,
		Y:       schema.BreakY,
		Text:    quant.FormatInterval(startSeconds, durationSeconds),
		IsBreak: true,
	}
	return insertSorted(list, b), true, nil
}

// RemoveAt deletes the annotation at index.
func RemoveAt(list []schema.Annotation, index int) ([]schema.Annotation, error) {
	if index < 0 || index >= len(list) {
		return list, contract.Preconditionf("annotation index %d out of range [0, %d)", index, len(list))
	}
	return slices.Delete(slices.Clone(list), index, index+1), nil
}

// SetText replaces the text of the comment at index. Break texts are derived
// from their interval and cannot be edited.
func SetText(list []schema.Annotation, index int, text string) ([]schema.Annotation, error) {
	if index < 0 || index >= len(list) {
		return list, contract.Preconditionf("annotation index %d out of range [0, %d)", index, len(list))
	}
	if list[index].IsBreak {
		return list, contract.Preconditionf("annotation %d is a break", index)
	}
	out := slices.Clone(list)
	out[index].Text = text
	return out, nil
}
