package cursor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/linedoc/internal/engine/buffer"
)

var p = buffer.P

// Range Tests

func TestRangeBounds(t *testing.T) {
	r := NewRange(p(2, 4), p(1, 0))
	assert.Equal(t, p(1, 0), r.From())
	assert.Equal(t, p(2, 4), r.To())
	assert.False(t, r.IsForward())
	assert.False(t, r.Empty())

	assert.True(t, CursorAt(p(0, 3)).Empty())
	assert.Equal(t, NewRange(p(1, 0), p(2, 4)), r.Flip())
	assert.Equal(t, CursorAt(p(1, 0)), r.Collapse())
	assert.True(t, r.Contains(p(1, 5)))
	assert.False(t, r.Contains(p(2, 5)))
}

func TestRangeEqualUsesSticky(t *testing.T) {
	a := CursorAt(p(0, 1))
	b := CursorAt(p(0, 1).WithSticky(buffer.StickyBefore))
	assert.False(t, a.Equal(b))
	assert.True(t, a.Equal(CursorAt(p(0, 1))))
}

// Normalize Tests

func TestNormalizeSortsAndTracksPrimary(t *testing.T) {
	sel := Normalize([]Range{
		CursorAt(p(5, 0)),
		CursorAt(p(1, 0)),
		CursorAt(p(3, 0)),
	}, 0, false)

	require.Equal(t, 3, sel.Len())
	assert.Equal(t, p(1, 0), sel.At(0).Head)
	assert.Equal(t, p(3, 0), sel.At(1).Head)
	assert.Equal(t, 2, sel.PrimaryIndex())
	assert.Equal(t, p(5, 0), sel.Primary().Head)
}

func TestNormalizeMergesOverlap(t *testing.T) {
	sel := Normalize([]Range{
		NewRange(p(0, 0), p(0, 5)),
		NewRange(p(0, 3), p(0, 8)),
		CursorAt(p(2, 0)),
	}, 2, false)

	require.Equal(t, 2, sel.Len())
	assert.Equal(t, NewRange(p(0, 0), p(0, 8)), sel.At(0))
	assert.Equal(t, 1, sel.PrimaryIndex())
}

func TestNormalizeKeepsOrientation(t *testing.T) {
	sel := Normalize([]Range{
		NewRange(p(0, 5), p(0, 0)),
		NewRange(p(0, 3), p(0, 8)),
	}, 0, false)

	require.Equal(t, 1, sel.Len())
	assert.Equal(t, NewRange(p(0, 8), p(0, 0)), sel.At(0), "earlier range was backward")

	// An empty earlier range takes the orientation of the later one.
	sel = Normalize([]Range{
		CursorAt(p(0, 2)),
		NewRange(p(0, 6), p(0, 2)),
	}, 0, false)
	require.Equal(t, 1, sel.Len())
	assert.Equal(t, NewRange(p(0, 6), p(0, 2)), sel.At(0))
}

func TestNormalizeTouching(t *testing.T) {
	ranges := []Range{
		NewRange(p(0, 0), p(0, 3)),
		NewRange(p(0, 3), p(0, 6)),
	}
	assert.Equal(t, 1, Normalize(ranges, 0, false).Len())
	assert.Equal(t, 2, Normalize(ranges, 0, true).Len())

	// Touching empty ranges still merge.
	ranges = []Range{NewRange(p(0, 0), p(0, 3)), CursorAt(p(0, 3))}
	assert.Equal(t, 1, Normalize(ranges, 1, true).Len())
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := [][]Range{
		{CursorAt(p(4, 1)), NewRange(p(0, 0), p(1, 2)), NewRange(p(1, 1), p(0, 5))},
		{NewRange(p(3, 0), p(2, 0)), CursorAt(p(2, 0)), CursorAt(p(9, 9))},
		{CursorAt(p(0, 0))},
	}
	for _, in := range inputs {
		for _, touch := range []bool{false, true} {
			once := Normalize(in, len(in)-1, touch)
			twice := Normalize(once.Ranges(), once.PrimaryIndex(), touch)
			assert.True(t, once.Equal(twice), "%v vs %v", once, twice)
		}
	}
}

func TestNormalizeEmpty(t *testing.T) {
	sel := Normalize(nil, 0, false)
	assert.Equal(t, 1, sel.Len())
	assert.Equal(t, CursorAt(p(0, 0)), sel.Primary())
}

// Selection Tests

func TestSelectionQueries(t *testing.T) {
	sel := New([]Range{CursorAt(p(0, 1)), NewRange(p(2, 0), p(2, 4))}, 1)
	assert.True(t, sel.IsMulti())
	assert.True(t, sel.SomethingSelected())
	assert.Equal(t, 1, sel.Contains(p(2, 2), p(2, 2)))
	assert.Equal(t, 0, sel.Contains(p(0, 0), p(0, 3)))
	assert.Equal(t, -1, sel.Contains(p(1, 0), p(1, 1)))

	only := sel.WithPrimaryOnly()
	assert.Equal(t, 1, only.Len())
	assert.Equal(t, NewRange(p(2, 0), p(2, 4)), only.Primary())

	assert.False(t, Simple(p(0, 0), p(0, 0)).SomethingSelected())
}

func TestSelectionRangesIsCopy(t *testing.T) {
	sel := Simple(p(0, 0), p(0, 1))
	rs := sel.Ranges()
	rs[0] = CursorAt(p(9, 9))
	assert.Equal(t, p(0, 1), sel.Primary().Head)
}

// Extend Tests

func TestExtend(t *testing.T) {
	r := NewRange(p(0, 5), p(0, 7))

	assert.Equal(t, CursorAt(p(0, 9)), Extend(r, p(0, 9), nil, false))
	assert.Equal(t, NewRange(p(0, 5), p(0, 9)), Extend(r, p(0, 9), nil, true))

	other := p(0, 2)
	assert.Equal(t, NewRange(p(0, 2), p(0, 9)), Extend(r, p(0, 9), &other, false))

	// head and other on opposite sides of the anchor.
	assert.Equal(t, NewRange(p(0, 9), p(0, 2)), Extend(r, p(0, 9), &other, true))

	// Same side: head goes to whichever is further out.
	far := p(0, 12)
	assert.Equal(t, NewRange(p(0, 5), p(0, 12)), Extend(r, p(0, 9), &far, true))
	near := p(0, 8)
	assert.Equal(t, NewRange(p(0, 5), p(0, 9)), Extend(r, p(0, 9), &near, true))
}

func TestExtendAll(t *testing.T) {
	sel := New([]Range{CursorAt(p(0, 0)), CursorAt(p(2, 0))}, 0)
	out := ExtendAll(sel, []Pos{p(0, 3), p(2, 3)}, true, false)
	assert.Equal(t, []Range{NewRange(p(0, 0), p(0, 3)), NewRange(p(2, 0), p(2, 3))}, out.Ranges())
}

// Transform Tests

func TestAfterChange(t *testing.T) {
	sel := New([]Range{CursorAt(p(0, 1)), NewRange(p(1, 0), p(1, 2)), CursorAt(p(2, 1))}, 2)
	change := buffer.NewChange(p(0, 1), p(1, 1), "X", "")

	out := AfterChange(sel, change, false)
	// The first two ranges collapse into the change and merge.
	require.Equal(t, 2, out.Len())
	assert.Equal(t, NewRange(p(0, 2), p(0, 3)), out.At(0))
	assert.Equal(t, CursorAt(p(1, 1)), out.At(1))
	assert.Equal(t, 1, out.PrimaryIndex())
}

func TestReplacedSelection(t *testing.T) {
	sel := New([]Range{NewRange(p(0, 0), p(0, 2)), NewRange(p(0, 6), p(0, 4))}, 0)
	changes := []Change{
		buffer.NewChange(p(0, 0), p(0, 2), "xyz", ""),
		buffer.NewChange(p(0, 4), p(0, 6), "q", ""),
	}

	around := ReplacedSelection(sel, changes, 0, CollapseAround)
	assert.Equal(t, []Range{NewRange(p(0, 0), p(0, 3)), NewRange(p(0, 6), p(0, 5))}, around.Ranges())

	start := ReplacedSelection(sel, changes, 0, CollapseStart)
	assert.Equal(t, []Range{CursorAt(p(0, 0)), CursorAt(p(0, 5))}, start.Ranges())
}
