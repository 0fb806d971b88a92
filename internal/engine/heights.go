package engine

import (
	"github.com/dshills/linedoc/internal/engine/lines"
	"github.com/dshills/linedoc/internal/engine/spans"
)

// updateHeight gives l height 0 while collapsed markers hide it and
// restores its measured height otherwise.
func (d *Doc) updateHeight(l *lines.Line) {
	if !l.Attached() {
		return
	}
	if spans.Hidden(resolver{d}, l) {
		if _, ok := d.heights[l]; !ok {
			d.heights[l] = l.Height()
		}
		d.tree.SetHeight(l, 0)
		return
	}
	if h, ok := d.heights[l]; ok {
		delete(d.heights, l)
		d.tree.SetHeight(l, h)
	}
}

// SetLineHeight records the measured height of line n. Hidden lines keep
// height 0 until they are shown again.
func (d *Doc) SetLineHeight(n int, h float64) error {
	l, err := d.tree.LineAt(n)
	if err != nil {
		return err
	}
	if _, hidden := d.heights[l]; hidden {
		d.heights[l] = h
		return nil
	}
	d.tree.SetHeight(l, h)
	return nil
}

// LineHeight returns the current height of line n.
func (d *Doc) LineHeight(n int) (float64, error) {
	l, err := d.tree.LineAt(n)
	if err != nil {
		return 0, err
	}
	return l.Height(), nil
}

// Height returns the total height of the document.
func (d *Doc) Height() float64 { return d.tree.Height() }

// HeightAtLine returns the vertical offset of the top of line n. Lines
// inside a collapsed range report the offset of the visual line holding
// them.
func (d *Doc) HeightAtLine(n int) float64 {
	l := d.tree.MustLineAt(d.VisualLine(d.ClipLine(n)))
	h, _ := d.tree.HeightAt(l)
	return h
}

// LineAtHeight returns the line at vertical offset h, clamped to the
// document.
func (d *Doc) LineAtHeight(h float64) int {
	return d.tree.LineAtHeight(h)
}

// IsLineHidden returns true if collapsed markers cover line n entirely.
func (d *Doc) IsLineHidden(n int) bool {
	l, err := d.tree.LineAt(n)
	if err != nil {
		return false
	}
	return spans.Hidden(resolver{d}, l)
}

// VisualLine returns the first line of the visual line holding line n,
// following collapsed markers that join it to previous lines.
func (d *Doc) VisualLine(n int) int {
	r := resolver{d}
	n = d.ClipLine(n)
	for {
		id, ok := spans.CollapsedAtStart(r, d.tree.MustLineAt(n).Spans)
		if !ok {
			return n
		}
		from, _, found := d.markers[id].Find()
		if !found || from.Line >= n {
			return n
		}
		n = from.Line
	}
}

// VisualLineEnd returns the last line of the visual line holding line n.
func (d *Doc) VisualLineEnd(n int) int {
	r := resolver{d}
	n = d.ClipLine(n)
	for {
		id, ok := spans.CollapsedAtEnd(r, d.tree.MustLineAt(n).Spans)
		if !ok {
			return n
		}
		_, to, found := d.markers[id].Find()
		if !found || to.Line <= n {
			return n
		}
		n = to.Line
	}
}
