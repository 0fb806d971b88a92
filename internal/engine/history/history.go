package history

import (
	"errors"
	"strings"
	"time"

	"github.com/dshills/linedoc/internal/engine/buffer"
	"github.com/dshills/linedoc/internal/engine/cursor"
)

// DefaultEventDelay is the window within which "+" origin changes merge.
const DefaultEventDelay = 1250 * time.Millisecond

// Common errors for history operations.
var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// Direction selects the stack an undo-style step reads from.
type Direction uint8

const (
	Undo Direction = iota // Read from done, write to undone
	Redo                  // Read from undone, write to done
)

// String returns "undo" or "redo"; it is also the origin of changes
// applied by a step.
func (d Direction) String() string {
	if d == Redo {
		return "redo"
	}
	return "undo"
}

// History manages the undo/redo stacks of a document.
//
// done and undone alternate selection snapshots and change groups; the
// snapshot pushed before a group holds the selection that was active
// when the group started. History is not safe for concurrent use; the
// document serializes access.
type History struct {
	done   []*Event
	undone []*Event

	// UndoDepth caps the number of change groups kept; 0 means unlimited.
	UndoDepth int
	// EventDelay is the merge window for "+" origins.
	EventDelay time.Duration

	generation    int
	maxGeneration int

	lastModTime   time.Time
	lastSelTime   time.Time
	lastOp        uint64
	lastSelOp     uint64
	lastOrigin    string
	lastSelOrigin string
}

// New creates an empty history.
func New(undoDepth int, delay time.Duration) *History {
	if delay <= 0 {
		delay = DefaultEventDelay
	}
	return &History{UndoDepth: undoDepth, EventDelay: delay, generation: 1, maxGeneration: 1}
}

// NewFrom creates an empty history that continues prev's settings and
// generation numbering, so old generations never read as clean.
func NewFrom(prev *History) *History {
	h := New(prev.UndoDepth, prev.EventDelay)
	h.generation, h.maxGeneration = prev.maxGeneration, prev.maxGeneration
	return h
}

// Clear empties both stacks.
func (h *History) Clear() {
	*h = *NewFrom(h)
}

// Generation returns the current generation.
func (h *History) Generation() int {
	return h.generation
}

// ChangeGeneration returns the current generation. With forceSplit the
// next change never merges into the current group.
func (h *History) ChangeGeneration(forceSplit bool) int {
	if forceSplit {
		h.lastOp, h.lastSelOp = 0, 0
		h.lastOrigin = ""
	}
	return h.generation
}

// IsClean returns true if no change was made since generation gen.
func (h *History) IsClean(gen int) bool {
	return h.generation == gen
}

// Size returns the number of change groups on each stack.
func (h *History) Size() (undo, redo int) {
	for _, e := range h.done {
		if !e.IsSelection() {
			undo++
		}
	}
	for _, e := range h.undone {
		if !e.IsSelection() {
			redo++
		}
	}
	return undo, redo
}

// Done returns the undo stack, oldest first. The events must not be
// modified.
func (h *History) Done() []*Event { return h.done }

// Undone returns the redo stack, oldest first. The events must not be
// modified.
func (h *History) Undone() []*Event { return h.undone }

func last(events []*Event) *Event {
	if len(events) == 0 {
		return nil
	}
	return events[len(events)-1]
}

func clearSelectionEvents(events []*Event) []*Event {
	for len(events) > 0 && events[len(events)-1].IsSelection() {
		events = events[:len(events)-1]
	}
	return events
}

// lastChangeEvent returns the change group a new change could merge
// into, dropping the selection snapshot that follows it. With force, any
// number of trailing snapshots are dropped.
func (h *History) lastChangeEvent(force bool) *Event {
	if force {
		h.done = clearSelectionEvents(h.done)
		return last(h.done)
	}
	n := len(h.done)
	if n > 0 && !h.done[n-1].IsSelection() {
		return h.done[n-1]
	}
	if n > 1 && !h.done[n-2].IsSelection() {
		h.done = h.done[:n-1]
		return h.done[n-2]
	}
	return nil
}

func pushSelection(sel Selection, dest []*Event) []*Event {
	if top := last(dest); top != nil && top.IsSelection() && top.Selection.Equal(sel) {
		return dest
	}
	return append(dest, NewSelectionEvent(sel))
}

// PushSelection pushes sel onto the stack written by dir unless it is
// already on top.
func (h *History) PushSelection(sel Selection, dir Direction) {
	if dir == Undo {
		h.undone = pushSelection(sel, h.undone)
	} else {
		h.done = pushSelection(sel, h.done)
	}
}

func (h *History) canMergeChange(change Change, opID uint64, now time.Time) bool {
	if opID != 0 && h.lastOp == opID {
		return true
	}
	o := change.Origin
	if o == "" || o != h.lastOrigin {
		return false
	}
	if strings.HasPrefix(o, "*") {
		return true
	}
	return strings.HasPrefix(o, "+") && h.lastModTime.After(now.Add(-h.EventDelay))
}

// AddChange records change, which is about to remove the text removed.
// selBefore is the selection active before the change and selAfter the
// selection it produces. opID identifies the enclosing operation (0 for
// none). The result reports whether the change was merged into the
// previous group.
func (h *History) AddChange(change Change, removed []string, selBefore, selAfter Selection, opID uint64, now time.Time) bool {
	h.undone = nil
	merged := false

	var cur *Event
	if h.canMergeChange(change, opID, now) {
		cur = h.lastChangeEvent(opID != 0 && h.lastOp == opID)
	}
	if cur != nil {
		merged = true
		n := len(cur.Changes)
		if n > 0 && change.From.Equal(change.To) && change.From.Equal(cur.Changes[n-1].To) {
			// Simple insertion continuing the previous one.
			cur.Changes[n-1].To = buffer.ChangeEnd(change)
		} else {
			cur.Changes = append(cur.Changes, FromChange(change, removed))
		}
	} else {
		if before := last(h.done); before == nil || !before.IsSelection() {
			h.done = pushSelection(selBefore, h.done)
		}
		h.done = append(h.done, NewChangeEvent([]Change{FromChange(change, removed)}, h.generation))
		h.evict()
	}
	h.done = append(h.done, NewSelectionEvent(selAfter))
	h.maxGeneration++
	h.generation = h.maxGeneration
	h.lastModTime, h.lastSelTime = now, now
	h.lastOp, h.lastSelOp = opID, opID
	h.lastOrigin, h.lastSelOrigin = change.Origin, change.Origin
	return merged
}

// evict drops the oldest groups, with their leading snapshots, until the
// stack fits UndoDepth.
func (h *History) evict() {
	if h.UndoDepth <= 0 {
		return
	}
	for {
		groups, _ := h.Size()
		if groups <= h.UndoDepth {
			return
		}
		h.done = h.done[1:]
		if len(h.done) > 0 && !h.done[0].IsSelection() {
			h.done = h.done[1:]
		}
	}
}

func (h *History) selectionCanMerge(origin string, prev *Event, sel Selection, now time.Time) bool {
	if prev == nil || !prev.IsSelection() {
		return false
	}
	switch {
	case strings.HasPrefix(origin, "*"):
		return true
	case strings.HasPrefix(origin, "+"):
		return prev.Selection.Len() == sel.Len() &&
			prev.Selection.SomethingSelected() == sel.SomethingSelected() &&
			now.Sub(h.lastSelTime) <= h.EventDelay
	}
	return false
}

// AddSelection records a selection change. Consecutive selection events
// of the same operation, or of a mergeable origin, replace each other.
// clearRedo drops trailing snapshots from the redo stack.
func (h *History) AddSelection(sel Selection, opID uint64, origin string, clearRedo bool, now time.Time) {
	top := last(h.done)
	replace := opID != 0 && opID == h.lastSelOp
	if !replace && origin != "" && h.lastSelOrigin == origin {
		replace = (h.lastModTime.Equal(h.lastSelTime) && h.lastOrigin == origin) ||
			h.selectionCanMerge(origin, top, sel, now)
	}
	if replace && top != nil && top.IsSelection() {
		h.done[len(h.done)-1] = NewSelectionEvent(sel)
	} else {
		h.done = pushSelection(sel, h.done)
	}
	h.lastSelTime = now
	h.lastSelOrigin = origin
	h.lastSelOp = opID
	if clearRedo {
		h.undone = clearSelectionEvents(h.undone)
	}
}

func (h *History) stacks(dir Direction) (source, dest *[]*Event) {
	if dir == Undo {
		return &h.done, &h.undone
	}
	return &h.undone, &h.done
}

// CanStep reports whether a step in dir would do anything. For
// selection-only steps it looks for a snapshot different from cur;
// otherwise it looks for a change group.
func (h *History) CanStep(dir Direction, selectionOnly bool, cur Selection) bool {
	source, _ := h.stacks(dir)
	for _, e := range *source {
		if selectionOnly {
			if e.IsSelection() && !e.Selection.Equal(cur) {
				return true
			}
		} else if !e.IsSelection() {
			return true
		}
	}
	return false
}

// Step is the result of popping an undo or redo step.
type Step struct {
	// Selection is the snapshot to restore. For change steps it is the
	// selection to fall back on when the stack holds no older snapshot.
	Selection Selection
	// SelectionOnly is true when the step only restores Selection.
	SelectionOnly bool
	// Event is the change group to revert, applied in reverse order.
	Event *Event
	// Inverse collects the inverse of each reverted change; it is already
	// on the opposite stack.
	Inverse *Event
}

// Pop pops the next step in dir. cur is the document's current
// selection. ok is false when CanStep would have returned false.
func (h *History) Pop(dir Direction, selectionOnly bool, cur Selection) (step Step, ok bool) {
	if !h.CanStep(dir, selectionOnly, cur) {
		return Step{}, false
	}
	h.lastOrigin, h.lastSelOrigin = "", ""
	source, dest := h.stacks(dir)

	selAfter := cur
	var event *Event
	for len(*source) > 0 {
		event = (*source)[len(*source)-1]
		*source = (*source)[:len(*source)-1]
		if !event.IsSelection() {
			break
		}
		*dest = pushSelection(event.Selection, *dest)
		if selectionOnly && !event.Selection.Equal(cur) {
			return Step{Selection: event.Selection, SelectionOnly: true}, true
		}
		selAfter = event.Selection
	}

	*dest = pushSelection(selAfter, *dest)
	inverse := NewChangeEvent(nil, h.generation)
	*dest = append(*dest, inverse)
	if event.Generation != 0 {
		h.generation = event.Generation
	} else {
		h.maxGeneration++
		h.generation = h.maxGeneration
	}
	return Step{Selection: selAfter, Event: event, Inverse: inverse}, true
}

// ReplaceTopSelection replaces the snapshot on top of the undo stack with
// sel. It returns false, changing nothing, when the top is a change group.
func (h *History) ReplaceTopSelection(sel Selection) bool {
	top := last(h.done)
	if top == nil || !top.IsSelection() {
		return false
	}
	h.done[len(h.done)-1] = NewSelectionEvent(sel)
	return true
}

// Top returns the snapshot on top of the stack read by dir, if any.
func (h *History) Top(dir Direction) (Selection, bool) {
	source, _ := h.stacks(dir)
	if top := last(*source); top != nil && top.IsSelection() {
		return top.Selection, true
	}
	return Selection{}, false
}

// Rebase adjusts stored positions for a change applied to the document
// through a linked view whose history is separate. Events after the
// changed lines are shifted; an event overlapping them is discarded
// together with every older event.
func (h *History) Rebase(change Change) {
	from, to := change.From.Line, change.To.Line
	diff := len(change.Text) - (to - from) - 1
	h.done = rebaseEvents(h.done, from, to, diff)
	h.undone = rebaseEvents(h.undone, from, to, diff)
}

func rebasePos(pos buffer.Pos, from, to, diff int) buffer.Pos {
	if to < pos.Line {
		pos.Line += diff
	} else if from < pos.Line {
		pos.Line, pos.Ch = from, 0
	}
	return pos
}

func rebaseEvents(events []*Event, from, to, diff int) []*Event {
	for i := 0; i < len(events); i++ {
		e := events[i]
		if e.IsSelection() {
			rs := e.Selection.Ranges()
			for j, r := range rs {
				rs[j] = cursor.Range{
					Anchor: rebasePos(r.Anchor, from, to, diff),
					Head:   rebasePos(r.Head, from, to, diff),
				}
			}
			events[i] = NewSelectionEvent(cursor.New(rs, e.Selection.PrimaryIndex()))
			continue
		}
		ok := true
		for j := range e.Changes {
			c := &e.Changes[j]
			if to < c.From.Line {
				c.From = buffer.P(c.From.Line+diff, c.From.Ch)
				c.To = buffer.P(c.To.Line+diff, c.To.Ch)
			} else if from <= c.To.Line {
				ok = false
				break
			}
		}
		if !ok {
			events = events[i+1:]
			i = -1
		}
	}
	return events
}

// Copy returns an independent deep copy of the history, as used when a
// linked document stops sharing it.
func (h *History) Copy() *History {
	out := *h
	out.done = copyEvents(h.done)
	out.undone = copyEvents(h.undone)
	return &out
}
