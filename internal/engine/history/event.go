package history

import (
	"github.com/dshills/linedoc/internal/engine/buffer"
	"github.com/dshills/linedoc/internal/engine/cursor"
)

// Change is an alias for buffer.Change for convenience.
type Change = buffer.Change

// Selection is an alias for cursor.Selection for convenience.
type Selection = cursor.Selection

// EventKind distinguishes selection snapshots from change groups.
type EventKind uint8

const (
	SelectionEvent EventKind = iota // A selection snapshot
	ChangeEvent                     // A group of changes undone together
)

// Event is one entry of an undo or redo stack.
//
// A change event stores inverse changes: From is where the original change
// started, To is the end of the text it inserted, and Text is the text it
// removed. Applying the stored changes in reverse order undoes the group.
type Event struct {
	Kind       EventKind
	Selection  Selection
	Changes    []Change
	Generation int
}

// NewSelectionEvent creates a selection snapshot.
func NewSelectionEvent(sel Selection) *Event {
	return &Event{Kind: SelectionEvent, Selection: sel}
}

// NewChangeEvent creates a change group.
func NewChangeEvent(changes []Change, generation int) *Event {
	return &Event{Kind: ChangeEvent, Changes: changes, Generation: generation}
}

// IsSelection returns true for selection snapshots.
func (e *Event) IsSelection() bool {
	return e.Kind == SelectionEvent
}

// Clone returns a deep copy of the event.
func (e *Event) Clone() *Event {
	out := &Event{Kind: e.Kind, Selection: e.Selection, Generation: e.Generation}
	if e.Changes != nil {
		out.Changes = make([]Change, len(e.Changes))
		for i, c := range e.Changes {
			out.Changes[i] = c.Clone()
		}
	}
	return out
}

// FromChange builds the stored inverse of change, given the text it is
// about to remove.
func FromChange(change Change, removed []string) Change {
	text := make([]string, len(removed))
	copy(text, removed)
	return Change{From: change.From, To: buffer.ChangeEnd(change), Text: text}
}

func copyEvents(events []*Event) []*Event {
	out := make([]*Event, len(events))
	for i, e := range events {
		out[i] = e.Clone()
	}
	return out
}
