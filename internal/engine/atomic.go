package engine

import (
	"github.com/rivo/uniseg"

	"github.com/dshills/linedoc/internal/engine/buffer"
	"github.com/dshills/linedoc/internal/engine/cursor"
	"github.com/dshills/linedoc/internal/engine/lines"
)

// skipAtomicInSelection moves every range end of sel out of atomic
// markers. bias gives the preferred direction.
func (d *Doc) skipAtomicInSelection(sel Selection, bias int, mayClear bool) Selection {
	var out []Range
	cur := d.sel.Ranges()
	for i, r := range sel.Ranges() {
		var oldAnchor, oldHead *Pos
		if len(cur) == sel.Len() {
			oldAnchor, oldHead = &cur[i].Anchor, &cur[i].Head
		}
		newAnchor, _ := d.skipAtomic(r.Anchor, oldAnchor, bias, mayClear)
		newHead := newAnchor
		if !r.Head.Equal(r.Anchor) {
			newHead, _ = d.skipAtomic(r.Head, oldHead, bias, mayClear)
		}
		if out != nil || !newAnchor.Equal(r.Anchor) || !newHead.Equal(r.Head) {
			if out == nil {
				out = sel.Ranges()[:i]
			}
			out = append(out, Range{Anchor: newAnchor, Head: newHead})
		}
	}
	if out == nil {
		return sel
	}
	return cursor.Normalize(out, sel.PrimaryIndex(), d.mayTouch)
}

// skipAtomic returns the closest position to pos outside atomic markers,
// trying the direction given by bias first. old is the position the
// cursor moves away from, if known. When no position can be found the
// document becomes blocked and ok is false.
func (d *Doc) skipAtomic(pos Pos, old *Pos, bias int, mayClear bool) (Pos, bool) {
	dir := bias
	if dir == 0 {
		dir = 1
	}
	if found, ok := d.skipAtomicInner(pos, old, dir, mayClear); ok {
		return found, true
	}
	if !mayClear {
		if found, ok := d.skipAtomicInner(pos, old, dir, true); ok {
			return found, true
		}
	}
	if found, ok := d.skipAtomicInner(pos, old, -dir, mayClear); ok {
		return found, true
	}
	if !mayClear {
		if found, ok := d.skipAtomicInner(pos, old, -dir, true); ok {
			return found, true
		}
	}
	if !d.cantEdit {
		d.log.Debug("selection blocked by atomic markers")
	}
	d.cantEdit = true
	return P(d.FirstLine(), 0), false
}

func (d *Doc) skipAtomicInner(pos Pos, old *Pos, dir int, mayClear bool) (Pos, bool) {
	l := d.tree.MustLineAt(pos.Line)
	for i := 0; i < len(l.Spans); i++ {
		sp := l.Spans[i]
		m, ok := d.markers[sp.Marker]
		if !ok {
			continue
		}
		preventLeft, preventRight := m.preventLeft(), m.preventRight()
		startsBefore := sp.From == lines.Open || preventLeft && sp.From <= pos.Ch || !preventLeft && sp.From < pos.Ch
		endsAfter := sp.To == lines.Open || preventRight && sp.To >= pos.Ch || !preventRight && sp.To > pos.Ch
		if !startsBefore || !endsAfter {
			continue
		}
		if mayClear {
			for _, fn := range m.onCursorEnter {
				fn()
			}
			if m.cleared {
				if len(l.Spans) == 0 {
					break
				}
				i--
				continue
			}
		}
		if !m.opts.Atomic {
			continue
		}
		from, to, _ := m.Find()
		if old != nil {
			near, nearOK := from, true
			if dir < 0 {
				near = to
			}
			if dir < 0 && preventRight || dir > 0 && preventLeft {
				near, nearOK = d.movePos(near, -dir)
			}
			if nearOK && near.Line == pos.Line {
				if diff := buffer.Compare(near, *old); diff != 0 && (dir < 0 && diff < 0 || dir > 0 && diff > 0) {
					return d.skipAtomicInner(near, &pos, dir, mayClear)
				}
			}
		}
		far, farOK := to, true
		if dir < 0 {
			far = from
		}
		if dir < 0 && preventLeft || dir > 0 && preventRight {
			far, farOK = d.movePos(far, dir)
		}
		if !farOK {
			return Pos{}, false
		}
		return d.skipAtomicInner(far, &pos, dir, mayClear)
	}
	return pos, true
}

// movePos steps one grapheme cluster from pos in direction dir, crossing
// line boundaries. ok is false at the edges of the document.
func (d *Doc) movePos(pos Pos, dir int) (Pos, bool) {
	text := d.tree.MustLineAt(pos.Line).Text
	switch {
	case dir < 0 && pos.Ch == 0:
		if pos.Line > d.FirstLine() {
			return d.Clip(P(pos.Line-1, len(d.tree.MustLineAt(pos.Line-1).Text))), true
		}
		return Pos{}, false
	case dir > 0 && pos.Ch >= len(text):
		if pos.Line < d.LastLine() {
			return P(pos.Line+1, 0), true
		}
		return Pos{}, false
	case dir < 0:
		return P(pos.Line, prevBoundary(text, pos.Ch)), true
	default:
		return P(pos.Line, nextBoundary(text, pos.Ch)), true
	}
}

// nextBoundary returns the first grapheme boundary after ch.
func nextBoundary(text string, ch int) int {
	off, state := 0, -1
	rest := text
	for rest != "" {
		var cluster string
		cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
		off += len(cluster)
		if off > ch {
			return off
		}
	}
	return len(text)
}

// prevBoundary returns the last grapheme boundary before ch.
func prevBoundary(text string, ch int) int {
	prev, off, state := 0, 0, -1
	rest := text
	for rest != "" && off < ch {
		prev = off
		var cluster string
		cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
		off += len(cluster)
	}
	return prev
}

// recheckSelection moves the selection out of atomic markers that may
// have appeared under it.
func (d *Doc) recheckSelection() {
	d.setSelectionInner(d.skipAtomicInSelection(d.sel, 0, false))
}
