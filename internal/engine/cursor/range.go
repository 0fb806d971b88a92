package cursor

import (
	"fmt"

	"github.com/dshills/linedoc/internal/engine/buffer"
)

// Pos is an alias for buffer.Pos for convenience.
type Pos = buffer.Pos

// Range represents one selected range.
// Anchor is where the selection started; Head is the current cursor position.
// When Anchor == Head, this represents a cursor with no selection.
// Range is an immutable value type.
type Range struct {
	Anchor Pos // Where selection started
	Head   Pos // Current cursor position (where typing occurs)
}

// NewRange creates a range from anchor to head.
func NewRange(anchor, head Pos) Range {
	return Range{Anchor: anchor, Head: head}
}

// CursorAt creates a range representing just a cursor (no extent).
func CursorAt(pos Pos) Range {
	return Range{Anchor: pos, Head: pos}
}

// From returns the lower bound of the range.
func (r Range) From() Pos {
	return buffer.MinPos(r.Anchor, r.Head)
}

// To returns the upper bound of the range.
func (r Range) To() Pos {
	return buffer.MaxPos(r.Anchor, r.Head)
}

// Empty returns true if the range has no extent (just a cursor).
func (r Range) Empty() bool {
	return r.Head.Equal(r.Anchor)
}

// IsForward returns true if the range extends forward (head >= anchor).
func (r Range) IsForward() bool {
	return !r.Head.Before(r.Anchor)
}

// Collapse collapses the range to a cursor at the head.
func (r Range) Collapse() Range {
	return Range{Anchor: r.Head, Head: r.Head}
}

// Flip returns a range with anchor and head swapped.
func (r Range) Flip() Range {
	return Range{Anchor: r.Head, Head: r.Anchor}
}

// Contains returns true if pos lies within [From, To].
func (r Range) Contains(pos Pos) bool {
	return !pos.Before(r.From()) && !pos.After(r.To())
}

// Equal returns true if two ranges have the same anchor and head,
// including affinity.
func (r Range) Equal(other Range) bool {
	return r.Anchor == other.Anchor && r.Head == other.Head
}

// String returns a string representation of the range.
func (r Range) String() string {
	if r.Empty() {
		return fmt.Sprintf("Cursor%s", r.Head)
	}
	dir := "→"
	if !r.IsForward() {
		dir = "←"
	}
	return fmt.Sprintf("Range%s%s%s", r.Anchor, dir, r.Head)
}
