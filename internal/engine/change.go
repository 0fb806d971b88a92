package engine

import (
	"go.uber.org/zap"

	"github.com/dshills/linedoc/internal/engine/buffer"
	"github.com/dshills/linedoc/internal/engine/cursor"
	"github.com/dshills/linedoc/internal/engine/history"
	"github.com/dshills/linedoc/internal/engine/lines"
	"github.com/dshills/linedoc/internal/engine/spans"
)

// ReplaceRange replaces the text between from and to with text. The
// positions are clipped and may be given in either order.
func (d *Doc) ReplaceRange(text string, from, to Pos, origin string) error {
	return d.ApplyChange(Change{From: from, To: to, Text: buffer.SplitLines(text), Origin: origin}, false)
}

// ReplaceAt inserts text at pos.
func (d *Doc) ReplaceAt(text string, pos Pos, origin string) error {
	return d.ReplaceRange(text, pos, pos, origin)
}

// ApplyChange applies change to the document and its linked documents.
// Unless ignoreReadOnly is set, the parts of the change covered by
// read-only markers are left alone; a change lying entirely inside them
// returns ErrReadOnlyRange.
func (d *Doc) ApplyChange(change Change, ignoreReadOnly bool) error {
	var err error
	d.runOp(func() {
		err = d.makeChange(change, ignoreReadOnly, false)
	})
	return err
}

// SetValue replaces the whole text and puts the cursor at the start.
func (d *Doc) SetValue(text string) error {
	var err error
	d.runOp(func() {
		last := d.LastLine()
		err = d.makeChange(Change{
			From:   P(d.FirstLine(), 0),
			To:     P(last, d.tree.MustLineAt(last).Len()),
			Text:   buffer.SplitLines(text),
			Origin: "setValue",
		}, true, true)
		if err == nil {
			top := P(d.FirstLine(), 0)
			d.setSelection(cursor.Simple(top, top), SelectionOptions{})
		}
	})
	return err
}

func (d *Doc) makeChange(change Change, ignoreReadOnly, full bool) error {
	if err := d.editable(); err != nil {
		d.log.Debug("change rejected", zap.Stringer("change", change), zap.Error(err))
		return err
	}
	change.From, change.To = d.Clip(change.From), d.Clip(change.To)
	if change.To.Before(change.From) {
		change.From, change.To = change.To, change.From
	}
	if len(change.Text) == 0 {
		change.Text = []string{""}
	}

	if !ignoreReadOnly {
		if parts, ok := d.splitReadOnly(change.From, change.To); ok {
			if len(parts) == 0 {
				d.log.Debug("change inside read-only range", zap.Stringer("change", change))
				return ErrReadOnlyRange
			}
			for i := len(parts) - 1; i >= 0; i-- {
				text := []string{""}
				if i == 0 {
					text = change.Text
				}
				d.makeChangeInner(Change{From: parts[i].From, To: parts[i].To, Text: text, Origin: change.Origin}, false)
			}
			return nil
		}
	}
	d.makeChangeInner(change, full)
	return nil
}

// splitReadOnly returns the parts of [from, to] outside read-only
// markers. ok is false when no read-only marker lies on its lines.
func (d *Doc) splitReadOnly(from, to Pos) (parts []spans.Interval, ok bool) {
	var ids []uint64
	seen := make(map[uint64]bool)
	d.tree.Iterate(from.Line, to.Line+1, func(_ int, l *lines.Line) bool {
		for _, s := range l.Spans {
			if m, ok := d.markers[s.Marker]; ok && m.opts.ReadOnly && !seen[s.Marker] {
				seen[s.Marker] = true
				ids = append(ids, s.Marker)
			}
		}
		return false
	})
	if len(ids) == 0 {
		return nil, false
	}
	return spans.SplitAroundReadOnly(resolver{d}, ids, from, to), true
}

func (d *Doc) makeChangeInner(change Change, full bool) {
	if change.IsNoOp() {
		return
	}
	selAfter := cursor.AfterChange(d.sel, change, d.mayTouch)
	d.history.AddChange(change, d.between(change.From, change.To), d.sel, selAfter, d.opID(), d.now())
	d.makeChangeSingleDoc(change, &selAfter, full)

	rebased := map[*history.History]bool{d.history: true}
	d.linkedDocs(func(other *Doc, shared bool) {
		if !shared && !rebased[other.history] {
			other.history.Rebase(change)
			rebased[other.history] = true
		}
		other.makeChangeSingleDoc(change, nil, false)
	}, false)
}

// makeChangeSingleDoc applies change to this document only, clipping it to
// the lines the document holds. A nil selAfter means the selection is
// mapped through the change.
func (d *Doc) makeChangeSingleDoc(change Change, selAfter *Selection, full bool) {
	if d.op == nil {
		d.runOp(func() { d.makeChangeSingleDoc(change, selAfter, full) })
		return
	}
	if change.To.Line < d.FirstLine() {
		d.shiftDoc(len(change.Text) - 1 - (change.To.Line - change.From.Line))
		return
	}
	if change.From.Line > d.LastLine() {
		return
	}
	if change.From.Line < d.FirstLine() {
		shift := len(change.Text) - 1 - (d.FirstLine() - change.From.Line)
		d.shiftDoc(shift)
		change = Change{
			From:   P(d.FirstLine(), 0),
			To:     P(change.To.Line+shift, change.To.Ch),
			Text:   []string{change.Text[len(change.Text)-1]},
			Origin: change.Origin,
		}
		selAfter = nil
	}
	if last := d.LastLine(); change.To.Line > last {
		change = Change{
			From:   change.From,
			To:     P(last, d.tree.MustLineAt(last).Len()),
			Text:   []string{change.Text[0]},
			Origin: change.Origin,
		}
		selAfter = nil
	}

	var sel Selection
	if selAfter != nil {
		sel = *selAfter
	} else {
		sel = cursor.AfterChange(d.sel, change, d.mayTouch)
	}

	d.updateDoc(change, full)
	d.tracker.Record(change)
	if change.From.Line == change.To.Line && len(change.Text) == 1 {
		d.notifyLine(change.From.Line, LineText)
	} else {
		d.notifyLines(change.From.Line, change.To.Line+1, FullRange)
	}

	d.setSelectionNoUndo(sel, SelectionOptions{})
	if d.cantEdit {
		if _, ok := d.skipAtomic(P(d.FirstLine(), 0), nil, 0, false); ok {
			d.cantEdit = false
		}
	}
}

// shiftDoc renumbers the document by distance lines.
func (d *Doc) shiftDoc(distance int) {
	if distance == 0 {
		return
	}
	d.tree.Shift(distance)
	d.frontier += distance
	rs := d.sel.Ranges()
	for i, r := range rs {
		rs[i] = cursor.Range{
			Anchor: P(r.Anchor.Line+distance, r.Anchor.Ch),
			Head:   P(r.Head.Line+distance, r.Head.Ch),
		}
	}
	d.sel = cursor.New(rs, d.sel.PrimaryIndex())
	d.notifyLines(d.FirstLine(), d.LastLine()+1, FullRange)
}

// updateDoc splices change into the line tree, moving marked spans along.
func (d *Doc) updateDoc(change Change, full bool) {
	from, to, text := change.From, change.To, change.Text
	r := resolver{d}
	firstLine := d.tree.MustLineAt(from.Line)
	lastLine := d.tree.MustLineAt(to.Line)
	// A full replace drops every span; dropOrphans forgets the markers.
	var stretched [][]lines.MarkedSpan
	if !full {
		stretched = spans.Stretch(r, firstLine.Spans, lastLine.Spans, change)
	}
	spansFor := func(i int) []lines.MarkedSpan {
		if stretched == nil {
			return nil
		}
		return stretched[i]
	}
	linesFor := func(start, end int) []*lines.Line {
		out := make([]*lines.Line, 0, end-start)
		for i := start; i < end; i++ {
			out = append(out, d.newLine(text[i], spansFor(i)))
		}
		return out
	}
	lastText := text[len(text)-1]
	lastSpans := spansFor(len(text) - 1)
	nlines := to.Line - from.Line
	d.invalidateStates(from.Line)

	var added []*lines.Line
	switch {
	case full:
		added = linesFor(0, len(text))
		size := d.tree.Size()
		d.insertLines(d.FirstLine(), added)
		d.removeLines(d.FirstLine()+len(text), size)
	case from.Ch == 0 && to.Ch == 0 && lastText == "":
		// Whole-line replace: the line after the change keeps its
		// identity.
		added = linesFor(0, len(text)-1)
		d.updateLine(lastLine, lastLine.Text, lastSpans)
		d.removeLines(from.Line, nlines)
		d.insertLines(from.Line, added)
	case firstLine == lastLine && len(text) == 1:
		d.updateLine(firstLine, firstLine.Text[:from.Ch]+lastText+firstLine.Text[to.Ch:], lastSpans)
	case firstLine == lastLine:
		added = linesFor(1, len(text)-1)
		added = append(added, d.newLine(lastText+firstLine.Text[to.Ch:], lastSpans))
		d.updateLine(firstLine, firstLine.Text[:from.Ch]+text[0], spansFor(0))
		d.insertLines(from.Line+1, added)
	case len(text) == 1:
		d.updateLine(firstLine, firstLine.Text[:from.Ch]+text[0]+lastLine.Text[to.Ch:], spansFor(0))
		d.removeLines(from.Line+1, nlines)
	default:
		d.updateLine(firstLine, firstLine.Text[:from.Ch]+text[0], spansFor(0))
		d.updateLine(lastLine, lastText+lastLine.Text[to.Ch:], lastSpans)
		added = linesFor(1, len(text)-1)
		if nlines > 1 {
			d.removeLines(from.Line+1, nlines-1)
		}
		d.insertLines(from.Line+1, added)
	}
	for _, l := range added {
		if len(l.Spans) > 0 {
			d.updateHeight(l)
		}
	}
	d.dropOrphans()
}

func (d *Doc) newLine(text string, ss []lines.MarkedSpan) *lines.Line {
	l := lines.NewLine(text, nil)
	d.attachSpans(l, ss)
	return l
}

func (d *Doc) updateLine(l *lines.Line, text string, ss []lines.MarkedSpan) {
	l.Text = text
	l.State = nil
	d.attachSpans(l, ss)
	d.updateHeight(l)
}

func (d *Doc) insertLines(at int, ls []*lines.Line) {
	if err := d.tree.Insert(at, ls); err != nil {
		panic(err)
	}
}

func (d *Doc) removeLines(at, n int) {
	removed, err := d.tree.Remove(at, n)
	if err != nil {
		panic(err)
	}
	for _, l := range removed {
		d.detachSpans(l)
		delete(d.heights, l)
	}
}

// dropOrphans forgets markers that no longer have a span anywhere.
func (d *Doc) dropOrphans() {
	for _, id := range d.detached {
		if m, ok := d.markers[id]; ok && len(m.lines) == 0 {
			delete(d.markers, id)
		}
	}
	d.detached = d.detached[:0]
}
