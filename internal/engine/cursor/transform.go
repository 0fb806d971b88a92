package cursor

import (
	"github.com/dshills/linedoc/internal/engine/buffer"
)

// Change is an alias for buffer.Change for convenience.
type Change = buffer.Change

// Extend computes the range produced by moving a range's head to head.
//
// Without extend the result is a cursor at head, or a range from other to
// head when other is given. With extend the anchor is kept, except that
// when head and other fall on different sides of the anchor the range
// becomes head..other, and when both are on the same side the head is
// moved to whichever of the two lies further out.
func Extend(r Range, head Pos, other *Pos, extend bool) Range {
	if !extend {
		if other != nil {
			return Range{Anchor: *other, Head: head}
		}
		return Range{Anchor: head, Head: head}
	}
	anchor := r.Anchor
	if other != nil {
		posBefore := head.Before(anchor)
		if posBefore != other.Before(anchor) {
			anchor = head
			head = *other
		} else if posBefore != head.Before(*other) {
			head = *other
		}
	}
	return Range{Anchor: anchor, Head: head}
}

// ExtendAll moves the head of each range of sel to the matching entry of
// heads. heads must have one entry per range.
func ExtendAll(sel Selection, heads []Pos, extend, mayTouch bool) Selection {
	rs := sel.Ranges()
	for i := range rs {
		rs[i] = Extend(rs[i], heads[i], nil, extend)
	}
	return Normalize(rs, sel.PrimaryIndex(), mayTouch)
}

// AfterChange maps every range of sel through change and normalizes the
// result.
func AfterChange(sel Selection, change Change, mayTouch bool) Selection {
	return sel.Map(func(r Range) Range {
		return Range{
			Anchor: buffer.AdjustForChange(r.Anchor, change),
			Head:   buffer.AdjustForChange(r.Head, change),
		}
	}, mayTouch)
}

// Collapse modes for ReplacedSelection.
type Collapse uint8

const (
	CollapseEnd    Collapse = iota // Cursor after the inserted text
	CollapseStart                  // Cursor before the inserted text
	CollapseAround                 // Select the inserted text
)

// ReplacedSelection computes the selection after changes, which replace
// the ranges of sel one-to-one and are ordered by position, have been
// applied together. CollapseEnd is handled by the caller through
// AfterChange and yields a cursor at each change start here.
func ReplacedSelection(sel Selection, changes []Change, first int, mode Collapse) Selection {
	out := make([]Range, len(changes))
	oldPrev := buffer.P(first, 0)
	newPrev := oldPrev
	for i, c := range changes {
		from := offsetPos(c.From, oldPrev, newPrev)
		to := offsetPos(buffer.ChangeEnd(c), oldPrev, newPrev)
		oldPrev = c.To
		newPrev = to
		if mode == CollapseAround {
			if sel.At(i).Head.Before(sel.At(i).Anchor) {
				out[i] = Range{Anchor: to, Head: from}
			} else {
				out[i] = Range{Anchor: from, Head: to}
			}
		} else {
			out[i] = Range{Anchor: from, Head: from}
		}
	}
	return New(out, sel.PrimaryIndex())
}

// offsetPos moves pos, known to lie after old, by the shift from old to nw.
func offsetPos(pos, old, nw Pos) Pos {
	if pos.Line == old.Line {
		return buffer.P(nw.Line, pos.Ch-old.Ch+nw.Ch)
	}
	return buffer.P(nw.Line+(pos.Line-old.Line), pos.Ch)
}
