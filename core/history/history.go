// Package history is a bounded, linear undo/redo log of immutable snapshots.
package history

import "github.com/huangsam/steptrack/schema"

// Log holds snapshots and a cursor to the visible one. The zero value is an
// empty log; call Reset to seed it.
type Log[T any] struct {
	entries []T
	cursor  int
	limit   int
}

// New returns a log seeded with initial and bounded to limit entries.
// A non-positive limit falls back to schema.HistoryLimit.
func New[T any](initial T, limit int) *Log[T] {
	l := &Log[T]{limit: limit}
	l.Reset(initial)
	return l
}

func (l *Log[T]) bound() int {
	if l.limit <= 0 {
		return schema.HistoryLimit
	}
	return l.limit
}

// Reset discards every entry and starts over from initial.
func (l *Log[T]) Reset(initial T) {
	l.entries = []T{initial}
	l.cursor = 0
}

// Clear empties the log.
func (l *Log[T]) Clear() {
	l.entries = nil
	l.cursor = 0
}

// Record appends a snapshot after the cursor. Entries past the cursor are
// discarded first, and the oldest entry is dropped when the log is full.
func (l *Log[T]) Record(entry T) {
	if l.Redoable() {
		clear(l.entries[l.cursor+1:])
		l.entries = l.entries[:l.cursor+1]
	}
	if len(l.entries) >= l.bound() {
		var zero T
		l.entries[0] = zero
		l.entries = l.entries[1:]
	}
	l.entries = append(l.entries, entry)
	l.cursor = len(l.entries) - 1
}

// Undo moves the cursor back one entry. It reports false when there is nothing to undo.
func (l *Log[T]) Undo() (T, bool) {
	if !l.Undoable() {
		return l.Current(), false
	}
	l.cursor--
	return l.entries[l.cursor], true
}

// Redo moves the cursor forward one entry. It reports false when there is nothing to redo.
func (l *Log[T]) Redo() (T, bool) {
	if !l.Redoable() {
		return l.Current(), false
	}
	l.cursor++
	return l.entries[l.cursor], true
}

// Undoable reports whether an older entry exists.
func (l *Log[T]) Undoable() bool {
	return l.cursor > 0
}

// Redoable reports whether a newer entry exists.
func (l *Log[T]) Redoable() bool {
	return l.cursor < len(l.entries)-1
}

// Current returns the visible entry, or the zero value for an empty log.
func (l *Log[T]) Current() T {
	if len(l.entries) == 0 {
		var zero T
		return zero
	}
	return l.entries[l.cursor]
}

// Len returns the number of entries.
func (l *Log[T]) Len() int {
	return len(l.entries)
}

// Cursor returns the index of the visible entry.
func (l *Log[T]) Cursor() int {
	return l.cursor
}

// Dirty reports whether doc differs in value from the baseline it was loaded as.
// Undoing back to the baseline value clears it regardless of cursor position.
func Dirty(doc, baseline schema.Document) bool {
	return !doc.Equal(baseline)
}
