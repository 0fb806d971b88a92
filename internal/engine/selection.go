package engine

import (
	"strings"

	"github.com/dshills/linedoc/internal/engine/buffer"
	"github.com/dshills/linedoc/internal/engine/cursor"
)

// SelectionOptions controls how a selection change is recorded.
type SelectionOptions struct {
	// Origin is recorded in history; "+" and "*" origins merge
	// consecutive selection events.
	Origin string
	// Bias is the direction, -1 or 1, in which atomic markers are
	// skipped. Zero derives it from the movement of the primary head.
	Bias int
	// KeepRedo keeps selection snapshots on the redo stack.
	KeepRedo bool
}

// Selection returns the current selection.
func (d *Doc) Selection() Selection { return d.sel }

// ListSelections returns a copy of the selection ranges.
func (d *Doc) ListSelections() []Range { return d.sel.Ranges() }

// SomethingSelected returns true if any range is non-empty.
func (d *Doc) SomethingSelected() bool { return d.sel.SomethingSelected() }

// SelectedText returns the selected text of every range, joined with the
// line separator.
func (d *Doc) SelectedText() string {
	return strings.Join(d.SelectedTexts(), d.LineSeparator())
}

// SelectedTexts returns the selected text of each range.
func (d *Doc) SelectedTexts() []string {
	out := make([]string, 0, d.sel.Len())
	for _, r := range d.sel.Ranges() {
		out = append(out, d.Range(r.From(), r.To()))
	}
	return out
}

// SetSelection replaces the selection. Ranges are clipped and
// normalized.
func (d *Doc) SetSelection(sel Selection, opts SelectionOptions) {
	rs := sel.Ranges()
	for i, r := range rs {
		rs[i] = Range{Anchor: d.Clip(r.Anchor), Head: d.Clip(r.Head)}
	}
	d.runOp(func() {
		d.setSelection(cursor.Normalize(rs, sel.PrimaryIndex(), d.mayTouch), opts)
	})
}

// SetSelections replaces the selection with ranges. A negative primary
// keeps the current primary index where possible.
func (d *Doc) SetSelections(ranges []Range, primary int, opts SelectionOptions) {
	if len(ranges) == 0 {
		return
	}
	if primary < 0 {
		primary = min(len(ranges)-1, d.sel.PrimaryIndex())
	}
	d.SetSelection(cursor.New(ranges, primary), opts)
}

// SetCursor collapses the selection to a cursor at pos.
func (d *Doc) SetCursor(pos Pos, opts SelectionOptions) {
	pos = d.Clip(pos)
	d.SetSelection(cursor.Simple(pos, pos), opts)
}

// SetExtending sets whether cursor movement extends the selection.
func (d *Doc) SetExtending(extend bool) { d.extend = extend }

// Extending returns true while cursor movement extends the selection.
func (d *Doc) Extending() bool { return d.extend }

// ExtendSelection moves the primary head to head, keeping the anchor when
// the document is extending. other, when given, becomes the far end.
func (d *Doc) ExtendSelection(head Pos, other *Pos, opts SelectionOptions) {
	head = d.Clip(head)
	if other != nil {
		o := d.Clip(*other)
		other = &o
	}
	r := cursor.Extend(d.sel.Primary(), head, other, d.extend)
	d.runOp(func() {
		d.setSelection(cursor.Simple(r.Anchor, r.Head), opts)
	})
}

// ExtendSelections moves the head of every range to the matching entry
// of heads, which must have one entry per range.
func (d *Doc) ExtendSelections(heads []Pos, opts SelectionOptions) {
	if len(heads) != d.sel.Len() {
		return
	}
	clipped := make([]Pos, len(heads))
	for i, h := range heads {
		clipped[i] = d.Clip(h)
	}
	d.runOp(func() {
		d.setSelection(cursor.ExtendAll(d.sel, clipped, d.extend, d.mayTouch), opts)
	})
}

// AddSelection adds the range anchor..head and makes it primary.
func (d *Doc) AddSelection(anchor, head Pos, opts SelectionOptions) {
	rs := append(d.sel.Ranges(), Range{Anchor: d.Clip(anchor), Head: d.Clip(head)})
	d.runOp(func() {
		d.setSelection(cursor.Normalize(rs, len(rs)-1, d.mayTouch), opts)
	})
}

// setSelection sets the selection and records it in history.
func (d *Doc) setSelection(sel Selection, opts SelectionOptions) {
	d.cantEdit = false
	d.setSelectionNoUndo(sel, opts)
	d.history.AddSelection(d.sel, d.opID(), opts.Origin, !opts.KeepRedo, d.now())
}

// setSelectionReplaceHistory sets the selection, replacing the snapshot
// on top of the undo stack when there is one.
func (d *Doc) setSelectionReplaceHistory(sel Selection, opts SelectionOptions) {
	if d.history.ReplaceTopSelection(sel) {
		d.setSelectionNoUndo(sel, opts)
		return
	}
	d.setSelection(sel, opts)
}

func (d *Doc) setSelectionNoUndo(sel Selection, opts SelectionOptions) {
	bias := opts.Bias
	if bias == 0 {
		bias = 1
		if sel.Primary().Head.Before(d.sel.Primary().Head) {
			bias = -1
		}
	}
	d.setSelectionInner(d.skipAtomicInSelection(sel, bias, true))
}

func (d *Doc) setSelectionInner(sel Selection) {
	if sel.Equal(d.sel) {
		return
	}
	d.sel = sel
	d.notifySelection()
}

// ReplaceSelection replaces every selected range with text and leaves a
// cursor after each insertion. An empty origin means "+input".
func (d *Doc) ReplaceSelection(text, origin string) error {
	texts := make([]string, d.sel.Len())
	for i := range texts {
		texts[i] = text
	}
	return d.ReplaceSelections(texts, CollapseEnd, origin)
}

// ReplaceSelections replaces range i of the selection with texts[i],
// which must have one entry per range.
// collapse selects where the selection ends up. All replacements form one
// undo step.
func (d *Doc) ReplaceSelections(texts []string, collapse Collapse, origin string) error {
	if len(texts) != d.sel.Len() {
		return ErrTextCount
	}
	if err := d.editable(); err != nil {
		return err
	}
	if origin == "" {
		origin = "+input"
	}
	var firstErr error
	d.runOp(func() {
		sel := d.sel
		changes := make([]Change, sel.Len())
		for i, r := range sel.Ranges() {
			changes[i] = Change{From: r.From(), To: r.To(), Text: buffer.SplitLines(texts[i]), Origin: origin}
		}
		var newSel Selection
		if collapse != CollapseEnd {
			newSel = cursor.ReplacedSelection(sel, changes, d.FirstLine(), collapse)
		}
		for i := len(changes) - 1; i >= 0; i-- {
			if err := d.makeChange(changes[i], false, false); err != nil && firstErr == nil {
				firstErr = err
			}
		}
		if collapse != CollapseEnd {
			d.setSelectionReplaceHistory(newSel, SelectionOptions{})
		}
	})
	return firstErr
}
