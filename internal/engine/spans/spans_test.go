package spans

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/linedoc/internal/engine/buffer"
	"github.com/dshills/linedoc/internal/engine/lines"
)

type extent struct {
	from, to buffer.Pos
	lines    int
	end      *lines.Line
}

type fakeResolver struct {
	info    map[uint64]Info
	extents map[uint64]extent
}

func newFake() *fakeResolver {
	return &fakeResolver{info: map[uint64]Info{}, extents: map[uint64]extent{}}
}

func (f *fakeResolver) add(m Info, from, to buffer.Pos) {
	if m.Kind == Range && !m.ClearWhenEmpty {
		m.ClearWhenEmpty = true
	}
	f.info[m.ID] = m
	f.extents[m.ID] = extent{from: from, to: to, lines: to.Line - from.Line + 1}
}

func (f *fakeResolver) Info(id uint64) Info { return f.info[id] }

func (f *fakeResolver) Find(id uint64) (buffer.Pos, buffer.Pos, bool) {
	e, ok := f.extents[id]
	return e.from, e.to, ok
}

func (f *fakeResolver) LineCount(id uint64) int { return f.extents[id].lines }

func (f *fakeResolver) EndLine(id uint64) *lines.Line { return f.extents[id].end }

func span(id uint64, from, to int) lines.MarkedSpan {
	return lines.MarkedSpan{Marker: id, From: from, To: to}
}

func TestBeforeAfter(t *testing.T) {
	r := newFake()
	r.add(Info{ID: 1}, buffer.P(0, 2), buffer.P(0, 6))
	old := []lines.MarkedSpan{span(1, 2, 6)}

	assert.Equal(t, []lines.MarkedSpan{span(1, 2, lines.Open)}, Before(r, old, 4, false))
	assert.Nil(t, Before(r, old, 2, false), "exclusive left edge does not survive a cut at its start")
	assert.Equal(t, []lines.MarkedSpan{span(1, 2, 6)}, Before(r, old, 6, false))

	assert.Equal(t, []lines.MarkedSpan{span(1, lines.Open, 2)}, After(r, old, 4, false))
	assert.Equal(t, []lines.MarkedSpan{span(1, 0, 4)}, After(r, old, 2, false))
	assert.Nil(t, After(r, old, 6, false))
}

func TestBookmarkInsertLeft(t *testing.T) {
	r := newFake()
	r.add(Info{ID: 1, Kind: Bookmark}, buffer.P(0, 3), buffer.P(0, 3))
	r.add(Info{ID: 2, Kind: Bookmark, InsertLeft: true}, buffer.P(0, 3), buffer.P(0, 3))
	old := []lines.MarkedSpan{span(1, 3, 3), span(2, 3, 3)}

	// Insertion at the bookmark: right-leaning stays before, left-leaning
	// moves after the inserted text.
	change := buffer.NewChange(buffer.P(0, 3), buffer.P(0, 3), "xy", "")
	out := Stretch(r, old, old, change)
	require.Len(t, out, 1)
	s1, ok := SpanFor(out[0], 1)
	require.True(t, ok)
	assert.Equal(t, span(1, 3, 3), s1)
	s2, ok := SpanFor(out[0], 2)
	require.True(t, ok)
	assert.Equal(t, span(2, 5, 5), s2)
}

func TestStretchInsideRange(t *testing.T) {
	r := newFake()
	r.add(Info{ID: 1}, buffer.P(0, 1), buffer.P(0, 5))
	old := []lines.MarkedSpan{span(1, 1, 5)}

	out := Stretch(r, old, old, buffer.NewChange(buffer.P(0, 3), buffer.P(0, 3), "abc", ""))
	assert.Equal(t, [][]lines.MarkedSpan{{span(1, 1, 8)}}, out)
}

func TestStretchMultiline(t *testing.T) {
	r := newFake()
	r.add(Info{ID: 1}, buffer.P(0, 1), buffer.P(0, 5))
	old := []lines.MarkedSpan{span(1, 1, 5)}

	out := Stretch(r, old, old, buffer.NewChange(buffer.P(0, 3), buffer.P(0, 3), "a\nb\nc", ""))
	require.Len(t, out, 3)
	assert.Equal(t, []lines.MarkedSpan{span(1, 1, lines.Open)}, out[0])
	assert.Equal(t, []lines.MarkedSpan{span(1, lines.Open, lines.Open)}, out[1])
	assert.Equal(t, []lines.MarkedSpan{span(1, lines.Open, 3)}, out[2])
}

func TestStretchOverDeletion(t *testing.T) {
	r := newFake()
	r.add(Info{ID: 1}, buffer.P(0, 2), buffer.P(0, 4))
	old := []lines.MarkedSpan{span(1, 2, 4)}

	// Deleting exactly the marked text leaves an empty span, which is
	// cleared.
	out := Stretch(r, old, old, buffer.NewChange(buffer.P(0, 2), buffer.P(0, 4), "", ""))
	require.Len(t, out, 1)
	assert.Empty(t, out[0])

	// A bookmark at the end of a deletion moves to its start.
	r.add(Info{ID: 2, Kind: Bookmark}, buffer.P(0, 3), buffer.P(0, 3))
	old = []lines.MarkedSpan{span(2, 3, 3)}
	out = Stretch(r, old, old, buffer.NewChange(buffer.P(0, 1), buffer.P(0, 3), "", ""))
	assert.Equal(t, [][]lines.MarkedSpan{{span(2, 1, 1)}}, out)

	// One strictly inside the deletion is dropped.
	out = Stretch(r, old, old, buffer.NewChange(buffer.P(0, 1), buffer.P(0, 5), "", ""))
	require.Len(t, out, 1)
	assert.Empty(t, out[0])
}

func TestStretchNoSpans(t *testing.T) {
	r := newFake()
	assert.Nil(t, Stretch(r, nil, nil, buffer.NewChange(buffer.P(0, 0), buffer.P(0, 0), "x", "")))
}

func TestInclusiveLeft(t *testing.T) {
	r := newFake()
	r.add(Info{ID: 1}, buffer.P(0, 1), buffer.P(0, 2))
	r.add(Info{ID: 2, InclusiveLeft: true}, buffer.P(0, 1), buffer.P(0, 2))
	old := []lines.MarkedSpan{span(1, 1, 2), span(2, 1, 2)}

	out := Stretch(r, old, old, buffer.NewChange(buffer.P(0, 1), buffer.P(0, 1), "X", ""))
	require.Len(t, out, 1)
	s1, _ := SpanFor(out[0], 1)
	s2, _ := SpanFor(out[0], 2)
	assert.Equal(t, span(1, 2, 3), s1)
	assert.Equal(t, span(2, 1, 3), s2)
}

func TestClearEmptyAndRemove(t *testing.T) {
	r := newFake()
	r.add(Info{ID: 1}, buffer.P(0, 0), buffer.P(0, 0))
	r.add(Info{ID: 2, Kind: Bookmark}, buffer.P(0, 0), buffer.P(0, 0))

	assert.Equal(t, []lines.MarkedSpan{span(2, 0, 0)}, ClearEmpty(r, []lines.MarkedSpan{span(1, 0, 0), span(2, 0, 0)}))
	assert.Nil(t, ClearEmpty(r, []lines.MarkedSpan{span(1, 4, 4)}))

	s := Add(nil, span(1, 0, 1))
	s = Add(s, span(2, 0, 0))
	assert.Equal(t, []lines.MarkedSpan{span(2, 0, 0)}, Remove(s, 1))
	assert.Nil(t, Remove(Remove(s, 1), 2))
}

func TestSplitAroundReadOnly(t *testing.T) {
	r := newFake()
	r.add(Info{ID: 1, ReadOnly: true}, buffer.P(0, 3), buffer.P(0, 5))

	parts := SplitAroundReadOnly(r, []uint64{1}, buffer.P(0, 0), buffer.P(0, 8))
	assert.Equal(t, []Interval{
		{From: buffer.P(0, 0), To: buffer.P(0, 3)},
		{From: buffer.P(0, 5), To: buffer.P(0, 8)},
	}, parts)

	// Exclusive bounds leave the edges of the read-only range editable.
	assert.Equal(t, []Interval{
		{From: buffer.P(0, 3), To: buffer.P(0, 3)},
		{From: buffer.P(0, 5), To: buffer.P(0, 5)},
	}, SplitAroundReadOnly(r, []uint64{1}, buffer.P(0, 3), buffer.P(0, 5)))

	r.add(Info{ID: 2, ReadOnly: true, InclusiveLeft: true, InclusiveRight: true}, buffer.P(0, 3), buffer.P(0, 5))
	assert.Empty(t, SplitAroundReadOnly(r, []uint64{2}, buffer.P(0, 5), buffer.P(0, 5)))

	assert.Nil(t, SplitAroundReadOnly(r, nil, buffer.P(0, 0), buffer.P(0, 1)))
}

func TestConflicting(t *testing.T) {
	r := newFake()
	r.add(Info{ID: 1, Collapsed: true}, buffer.P(0, 2), buffer.P(0, 8))
	on := []lines.MarkedSpan{span(1, 2, 8)}

	overlap := Info{ID: 2, Collapsed: true}
	assert.True(t, Conflicting(r, on, buffer.P(0, 5), buffer.P(0, 10), overlap))
	assert.False(t, Conflicting(r, on, buffer.P(0, 8), buffer.P(0, 12), overlap), "touching")
	assert.False(t, Conflicting(r, on, buffer.P(0, 3), buffer.P(0, 6), overlap), "nested inside")
	assert.False(t, Conflicting(r, on, buffer.P(0, 0), buffer.P(0, 10), overlap), "enclosing")

	// Touching counts as overlap when both sides are inclusive.
	r.add(Info{ID: 3, Collapsed: true, InclusiveRight: true}, buffer.P(0, 2), buffer.P(0, 8))
	both := Info{ID: 4, Collapsed: true, InclusiveLeft: true}
	assert.True(t, Conflicting(r, []lines.MarkedSpan{span(3, 2, 8)}, buffer.P(0, 8), buffer.P(0, 12), both))
}

func TestCollapsedRanking(t *testing.T) {
	r := newFake()
	r.add(Info{ID: 1, Collapsed: true}, buffer.P(0, 2), buffer.P(0, 8))
	r.add(Info{ID: 2, Collapsed: true}, buffer.P(0, 3), buffer.P(0, 6))
	r.add(Info{ID: 3}, buffer.P(0, 0), buffer.P(0, 9))
	on := []lines.MarkedSpan{span(1, 2, 8), span(2, 3, 6), span(3, 0, 9)}

	assert.Positive(t, CompareCollapsed(r, 1, 2), "outer covers inner")
	assert.Negative(t, CompareCollapsed(r, 2, 1))

	id, ok := CollapsedAround(r, on, 4)
	require.True(t, ok)
	assert.Equal(t, uint64(1), id)

	_, ok = CollapsedAround(r, on, 2)
	assert.False(t, ok, "a boundary is not strictly inside")

	_, ok = CollapsedAtStart(r, on)
	assert.False(t, ok)
}

func TestCollapsedAtSides(t *testing.T) {
	r := newFake()
	r.add(Info{ID: 1, Collapsed: true}, buffer.P(0, 2), buffer.P(2, 1))
	r.add(Info{ID: 2, Collapsed: true}, buffer.P(1, 0), buffer.P(2, 1))

	middle := []lines.MarkedSpan{span(1, lines.Open, lines.Open), span(2, 0, lines.Open)}
	id, ok := CollapsedAtStart(r, middle)
	require.True(t, ok)
	assert.Equal(t, uint64(1), id)

	id, ok = CollapsedAtEnd(r, middle)
	require.True(t, ok)
	assert.Equal(t, uint64(1), id, "longer marker wins")
}

func TestHidden(t *testing.T) {
	r := newFake()
	r.add(Info{ID: 1, Collapsed: true}, buffer.P(0, 2), buffer.P(2, 1))
	middle := lines.NewLine("hidden", []lines.MarkedSpan{span(1, lines.Open, lines.Open)})
	assert.True(t, Hidden(r, middle))

	r.add(Info{ID: 2, Collapsed: true, InclusiveLeft: true, InclusiveRight: true}, buffer.P(3, 0), buffer.P(3, 4))
	whole := lines.NewLine("abcd", []lines.MarkedSpan{span(2, 0, 4)})
	assert.True(t, Hidden(r, whole))

	r.add(Info{ID: 3, Collapsed: true}, buffer.P(4, 0), buffer.P(4, 4))
	plain := lines.NewLine("abcd", []lines.MarkedSpan{span(3, 0, 4)})
	assert.False(t, Hidden(r, plain), "exclusive bounds keep the line visible")
}
