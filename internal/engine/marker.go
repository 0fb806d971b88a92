package engine

import (
	"slices"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/dshills/linedoc/internal/engine/buffer"
	"github.com/dshills/linedoc/internal/engine/lines"
	"github.com/dshills/linedoc/internal/engine/spans"
)

// markerIDs numbers markers across all documents. Ids order collapsed
// markers that otherwise compare equal.
var markerIDs atomic.Uint64

// ResetMarkerIDs restarts marker numbering. It must not be called while
// documents holding markers are in use.
func ResetMarkerIDs() { markerIDs.Store(0) }

// MarkOptions configures a marker created by MarkText.
type MarkOptions struct {
	// InclusiveLeft makes text inserted at the start join the marker.
	InclusiveLeft bool
	// InclusiveRight makes text inserted at the end join the marker.
	InclusiveRight bool
	// KeepWhenEmpty keeps the marker once its range becomes empty, and
	// allows creating it over an empty range.
	KeepWhenEmpty bool
	// Atomic markers cannot hold the cursor.
	Atomic bool
	// Collapsed markers hide their text. They are always atomic.
	Collapsed bool
	// ReadOnly markers reject edits overlapping them. Creating one
	// clears the history.
	ReadOnly bool
	// ClearOnEnter clears the marker when the cursor enters it.
	ClearOnEnter bool
	// AddToHistory records the marker creation as an undoable event.
	AddToHistory bool
	// SelectLeft and SelectRight override whether the cursor may sit
	// at the start and end of an atomic marker. By default it may not
	// when the side is inclusive.
	SelectLeft  *bool
	SelectRight *bool
	// Widget replaces the marked text. A marker with a widget is
	// collapsed.
	Widget any
	// ClassName is an opaque styling hint for renderers.
	ClassName string

	insertLeft bool
}

// BookmarkOptions configures a marker created by SetBookmark.
type BookmarkOptions struct {
	// InsertLeft keeps the bookmark after text inserted at its position.
	InsertLeft bool
	// Widget is displayed at the bookmark's position.
	Widget any
}

// Marker is the common interface of TextMarker and SharedTextMarker.
type Marker interface {
	// Find returns the marker's current range; ok is false once it is no
	// longer in the document.
	Find() (from, to Pos, ok bool)
	// Clear removes the marker.
	Clear()
	// Kind returns whether this is a range marker or a bookmark.
	Kind() spans.Kind
}

// TextMarker tags a range of a document. It follows the text it covers
// as the document changes.
type TextMarker struct {
	id   uint64
	doc  *Doc
	kind spans.Kind
	opts MarkOptions

	// lines holds every line carrying one of the marker's spans.
	lines map[*lines.Line]struct{}

	cleared bool
	shared  *SharedTextMarker

	onClear       []func(from, to Pos)
	onCursorEnter []func()
}

func newMarker(d *Doc, kind spans.Kind, opts MarkOptions) *TextMarker {
	if opts.Widget != nil {
		opts.Collapsed = true
	}
	if opts.Collapsed {
		opts.Atomic = true
	}
	return &TextMarker{
		id:    markerIDs.Add(1),
		doc:   d,
		kind:  kind,
		opts:  opts,
		lines: make(map[*lines.Line]struct{}),
	}
}

// ID returns the marker's id.
func (m *TextMarker) ID() uint64 { return m.id }

// Doc returns the document the marker belongs to.
func (m *TextMarker) Doc() *Doc { return m.doc }

// Kind returns whether this is a range marker or a bookmark.
func (m *TextMarker) Kind() spans.Kind { return m.kind }

// Options returns the options the marker was created with.
func (m *TextMarker) Options() MarkOptions { return m.opts }

// Shared returns the shared marker this marker belongs to, if any.
func (m *TextMarker) Shared() *SharedTextMarker { return m.shared }

// Cleared returns true once the marker was explicitly cleared.
func (m *TextMarker) Cleared() bool { return m.cleared }

// Lines returns the numbers of the lines the marker touches.
func (m *TextMarker) Lines() []int {
	out := make([]int, 0, len(m.lines))
	for l := range m.lines {
		if n, err := m.doc.tree.IndexOf(l); err == nil {
			out = append(out, n)
		}
	}
	slices.Sort(out)
	return out
}

func (m *TextMarker) info() spans.Info {
	return spans.Info{
		ID:             m.id,
		Kind:           m.kind,
		InclusiveLeft:  m.opts.InclusiveLeft,
		InclusiveRight: m.opts.InclusiveRight,
		ClearWhenEmpty: !m.opts.KeepWhenEmpty,
		Collapsed:      m.opts.Collapsed,
		Atomic:         m.opts.Atomic,
		ReadOnly:       m.opts.ReadOnly,
		HasWidget:      m.opts.Widget != nil,
		InsertLeft:     m.opts.insertLeft,
	}
}

// preventLeft reports whether the cursor may not sit at the start.
func (m *TextMarker) preventLeft() bool {
	if m.opts.SelectLeft != nil {
		return !*m.opts.SelectLeft
	}
	return m.opts.InclusiveLeft
}

// preventRight reports whether the cursor may not sit at the end.
func (m *TextMarker) preventRight() bool {
	if m.opts.SelectRight != nil {
		return !*m.opts.SelectRight
	}
	return m.opts.InclusiveRight
}

// bound holds one end of a marker, with the line it lies on.
type bound struct {
	pos  Pos
	line *lines.Line
	ok   bool
}

// bounds scans the marker's lines for its start and end.
func (m *TextMarker) bounds() (from, to bound) {
	for l := range m.lines {
		span, ok := spans.SpanFor(l.Spans, m.id)
		if !ok {
			continue
		}
		n, err := m.doc.tree.IndexOf(l)
		if err != nil {
			continue
		}
		if span.From != lines.Open {
			if pos := P(n, span.From); !from.ok || pos.Before(from.pos) {
				from = bound{pos: pos, line: l, ok: true}
			}
		}
		if span.To != lines.Open {
			if pos := P(n, span.To); !to.ok || pos.After(to.pos) {
				to = bound{pos: pos, line: l, ok: true}
			}
		}
	}
	return from, to
}

// Find returns the marker's current range. Bookmarks return the same
// position twice.
func (m *TextMarker) Find() (from, to Pos, ok bool) {
	f, t := m.bounds()
	if !f.ok {
		return Pos{}, Pos{}, false
	}
	if !t.ok {
		t = f
	}
	return f.pos, t.pos, true
}

// FindLines returns the lines holding the start and end of the marker.
func (m *TextMarker) FindLines() (from, to int, ok bool) {
	f, t, ok := m.Find()
	return f.Line, t.Line, ok
}

// OnClear registers fn to run when the marker is cleared while in the
// document. fn receives the range the marker covered.
func (m *TextMarker) OnClear(fn func(from, to Pos)) {
	m.onClear = append(m.onClear, fn)
}

// OnBeforeCursorEnter registers fn to run before the cursor is placed
// inside the marker.
func (m *TextMarker) OnBeforeCursorEnter(fn func()) {
	m.onCursorEnter = append(m.onCursorEnter, fn)
}

// Changed signals that the marker's widget changed size.
func (m *TextMarker) Changed() {
	from, to, ok := m.Find()
	if !ok {
		return
	}
	m.doc.runOp(func() {
		m.doc.notifyLines(from.Line, to.Line+1, Widget)
	})
}

// Clear removes the marker from the document. Clearing an atomic marker
// unblocks a blocked document.
func (m *TextMarker) Clear() {
	if m.cleared {
		return
	}
	d := m.doc
	d.runOp(func() {
		from, to, found := m.Find()
		touched := m.Lines()
		for l := range m.lines {
			l.Spans = spans.Remove(l.Spans, m.id)
		}
		if m.opts.Collapsed {
			for l := range m.lines {
				d.updateHeight(l)
			}
			if found {
				d.notifyLines(from.Line, to.Line+1, FullRange)
			}
		} else {
			for _, n := range touched {
				d.notifyLine(n, LineText)
			}
		}
		clear(m.lines)
		m.cleared = true
		delete(d.markers, m.id)
		if m.opts.Atomic && d.cantEdit {
			d.cantEdit = false
			d.recheckSelection()
		}
		if found {
			for _, fn := range m.onClear {
				fn(from, to)
			}
		}
	})
	if m.shared != nil {
		m.shared.Clear()
	}
}

func (m *TextMarker) addLine(l *lines.Line) {
	m.lines[l] = struct{}{}
}

func (m *TextMarker) removeLine(l *lines.Line) {
	delete(m.lines, l)
}

// attachSpans sets the spans of l and registers l with their markers.
func (d *Doc) attachSpans(l *lines.Line, ss []lines.MarkedSpan) {
	d.detachSpans(l)
	l.Spans = ss
	for _, s := range ss {
		if m, ok := d.markers[s.Marker]; ok {
			m.addLine(l)
		}
	}
}

// detachSpans unregisters l from the markers of its spans.
func (d *Doc) detachSpans(l *lines.Line) {
	for _, s := range l.Spans {
		if m, ok := d.markers[s.Marker]; ok {
			m.removeLine(l)
			d.detached = append(d.detached, s.Marker)
		}
	}
}

// MarkText marks the range [from, to].
//
// An empty or inverted range yields a marker that is not in the document,
// unless KeepWhenEmpty is set for an empty range. A collapsed marker that
// would partially overlap another collapsed marker is rejected with
// ErrCollapsedOverlap.
func (d *Doc) MarkText(from, to Pos, opts MarkOptions) (*TextMarker, error) {
	return d.markText(d.Clip(from), d.Clip(to), opts, spans.Range)
}

// SetBookmark places a bookmark at pos.
func (d *Doc) SetBookmark(pos Pos, opts BookmarkOptions) *TextMarker {
	pos = d.Clip(pos)
	m, _ := d.markText(pos, pos, MarkOptions{
		KeepWhenEmpty: true,
		Widget:        opts.Widget,
		insertLeft:    opts.InsertLeft,
	}, spans.Bookmark)
	return m
}

func (d *Doc) markText(from, to Pos, opts MarkOptions, kind spans.Kind) (*TextMarker, error) {
	m := newMarker(d, kind, opts)
	diff := buffer.Compare(from, to)
	if diff > 0 || diff == 0 && !m.opts.KeepWhenEmpty {
		return m, nil
	}
	r := resolver{d}
	if m.opts.Collapsed {
		info := m.info()
		first := d.tree.MustLineAt(from.Line)
		last := d.tree.MustLineAt(to.Line)
		if spans.Conflicting(r, first.Spans, from, to, info) ||
			from.Line != to.Line && spans.Conflicting(r, last.Spans, from, to, info) {
			d.log.Debug("rejected collapsed marker",
				zap.Stringer("from", from), zap.Stringer("to", to))
			return nil, ErrCollapsedOverlap
		}
	}

	d.runOp(func() {
		if m.opts.AddToHistory {
			d.history.AddChange(Change{From: from, To: to, Origin: "markText"},
				d.between(from, to), d.sel, d.sel, 0, d.now())
		}
		d.markers[m.id] = m
		d.tree.Iterate(from.Line, to.Line+1, func(n int, l *lines.Line) bool {
			span := lines.MarkedSpan{Marker: m.id, From: lines.Open, To: lines.Open}
			if n == from.Line {
				span.From = from.Ch
			}
			if n == to.Line {
				span.To = to.Ch
			}
			l.Spans = spans.Add(l.Spans, span)
			m.addLine(l)
			return false
		})
		if m.opts.Collapsed {
			d.tree.Iterate(from.Line, to.Line+1, func(_ int, l *lines.Line) bool {
				d.updateHeight(l)
				return false
			})
			d.notifyLines(from.Line, to.Line+1, FullRange)
		} else {
			for n := from.Line; n <= to.Line; n++ {
				d.notifyLine(n, LineText)
			}
		}
		if m.opts.ClearOnEnter {
			m.OnBeforeCursorEnter(m.Clear)
		}
		if m.opts.ReadOnly {
			if len(d.history.Done()) > 0 || len(d.history.Undone()) > 0 {
				d.ClearHistory()
			}
		}
		if m.opts.Atomic {
			d.recheckSelection()
		}
	})
	return m, nil
}

// FindMarksAt returns the markers touching pos.
func (d *Doc) FindMarksAt(pos Pos) []Marker {
	pos = d.Clip(pos)
	var out []Marker
	for _, s := range d.tree.MustLineAt(pos.Line).Spans {
		if (s.From == lines.Open || s.From <= pos.Ch) && (s.To == lines.Open || s.To >= pos.Ch) {
			out = append(out, d.outer(s.Marker))
		}
	}
	return out
}

// FindMarks returns the markers overlapping [from, to] that filter
// accepts. A nil filter accepts every marker.
func (d *Doc) FindMarks(from, to Pos, filter func(*TextMarker) bool) []Marker {
	from, to = d.Clip(from), d.Clip(to)
	var out []Marker
	d.tree.Iterate(from.Line, to.Line+1, func(n int, l *lines.Line) bool {
		for _, s := range l.Spans {
			if s.To != lines.Open && n == from.Line && from.Ch >= s.To ||
				s.From == lines.Open && n != from.Line ||
				s.From != lines.Open && n == to.Line && s.From >= to.Ch {
				continue
			}
			m, ok := d.markers[s.Marker]
			if !ok || filter != nil && !filter(m) {
				continue
			}
			out = append(out, d.outer(s.Marker))
		}
		return false
	})
	return out
}

// AllMarks returns every marker in the document, in document order.
func (d *Doc) AllMarks() []*TextMarker {
	var out []*TextMarker
	d.tree.Iterate(d.FirstLine(), d.LastLine()+1, func(_ int, l *lines.Line) bool {
		for _, s := range l.Spans {
			if m, ok := d.markers[s.Marker]; ok && s.From != lines.Open {
				out = append(out, m)
			}
		}
		return false
	})
	return out
}

// outer returns the shared marker wrapping marker id, or the marker.
func (d *Doc) outer(id uint64) Marker {
	m := d.markers[id]
	if m.shared != nil {
		return m.shared
	}
	return m
}
