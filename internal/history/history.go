// Package history keeps a bounded, linear log of edit actions with a
// movable undo/redo cursor.
//
// Each record carries before/after snapshots sufficient to reverse the
// action; applying the reversal is the editor's job. The log is a linear
// sequence, not a tree: recording a new action after undos discards the
// redo tail.
package history

import (
	"time"

	"github.com/google/uuid"

	"cutroom/internal/timeline"
)

// Kind classifies an edit action.
type Kind string

const (
	ClipAdd     Kind = "clip-add"
	ClipUpdate  Kind = "clip-update"
	ClipDelete  Kind = "clip-delete"
	ClipSplit   Kind = "clip-split"
	ClipMerge   Kind = "clip-merge"
	ClipPaste   Kind = "clip-paste"
	TrackAdd    Kind = "track-add"
	TrackUpdate Kind = "track-update"
	TrackDelete Kind = "track-delete"
	TrackToggle Kind = "track-toggle"
)

// ClipChange records clip snapshots on one track. Undo removes the After
// clips and restores the Before clips; redo does the opposite.
type ClipChange struct {
	TrackID string
	Before  []timeline.Clip
	After   []timeline.Clip
}

// TrackChange records a whole-track snapshot for track-level actions.
type TrackChange struct {
	Before *timeline.Track
	After  *timeline.Track
}

// Record is one reversible edit action. Records are exclusively owned by
// the log once appended.
type Record struct {
	ID     string
	At     time.Time
	Kind   Kind
	Clips  []ClipChange
	Tracks []TrackChange
}

// NewRecord stamps a record with a fresh id and the current time.
func NewRecord(kind Kind) Record {
	return Record{ID: uuid.NewString(), At: time.Now().UTC(), Kind: kind}
}

// DefaultCapacity is the number of records kept when no explicit capacity
// is configured.
const DefaultCapacity = 50

// Log is a fixed-capacity action history. The cursor points at the most
// recently applied record; -1 means nothing is applied.
type Log struct {
	entries  []Record
	cursor   int
	capacity int
}

// NewLog constructs a history log. Capacities below 1 fall back to
// DefaultCapacity.
func NewLog(capacity int) *Log {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &Log{cursor: -1, capacity: capacity}
}

// Append records an applied action. Any redo tail beyond the cursor is
// discarded, and the oldest entries are evicted beyond capacity.
func (l *Log) Append(record Record) {
	l.entries = append(l.entries[:l.cursor+1], record)
	if overflow := len(l.entries) - l.capacity; overflow > 0 {
		l.entries = append(l.entries[:0], l.entries[overflow:]...)
	}
	l.cursor = len(l.entries) - 1
}

// Undo returns the record to reverse and moves the cursor back. At the
// head it is a no-op.
func (l *Log) Undo() (Record, bool) {
	if l.cursor < 0 {
		return Record{}, false
	}
	record := l.entries[l.cursor]
	l.cursor--
	return record, true
}

// Redo returns the record to re-apply and moves the cursor forward. At the
// tail it is a no-op.
func (l *Log) Redo() (Record, bool) {
	if l.cursor >= len(l.entries)-1 {
		return Record{}, false
	}
	l.cursor++
	return l.entries[l.cursor], true
}

// CanUndo reports whether an undo would do anything.
func (l *Log) CanUndo() bool { return l.cursor >= 0 }

// CanRedo reports whether a redo would do anything.
func (l *Log) CanRedo() bool { return l.cursor < len(l.entries)-1 }

// Len returns the number of stored records.
func (l *Log) Len() int { return len(l.entries) }

// Cursor returns the index of the last applied record, or -1.
func (l *Log) Cursor() int { return l.cursor }

// Clear drops all records.
func (l *Log) Clear() {
	l.entries = nil
	l.cursor = -1
}
