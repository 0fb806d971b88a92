package lines

import (
	"fmt"
	"math/rand"
	"testing"
	"testing/quick"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func numbered(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("line %d", i)
	}
	return out
}

func TestNewEmpty(t *testing.T) {
	tr := New(0, nil)
	assert.Equal(t, 1, tr.Size())
	assert.Equal(t, []string{""}, tr.Text())
	tr.Check()
}

func TestFromTextLarge(t *testing.T) {
	text := numbered(1000)
	tr := FromText(0, text)
	tr.Check()

	assert.Equal(t, 1000, tr.Size())
	assert.Equal(t, 999, tr.Last())
	assert.Equal(t, text, tr.Text())
	assert.InDelta(t, 1000.0, tr.Height(), 1e-9)

	for _, n := range []int{0, 24, 25, 50, 499, 999} {
		l, err := tr.LineAt(n)
		require.NoError(t, err)
		assert.Equal(t, text[n], l.Text)

		no, err := tr.IndexOf(l)
		require.NoError(t, err)
		assert.Equal(t, n, no)
	}
}

func maxFanOut(n *node) int {
	if n.isLeaf {
		return 0
	}
	most := len(n.children)
	for _, c := range n.children {
		most = max(most, maxFanOut(c))
	}
	return most
}

func TestBulkInsertKeepsFanOut(t *testing.T) {
	for _, size := range []int{1000, 10000, 50000} {
		t.Run(fmt.Sprint(size), func(t *testing.T) {
			tr := FromText(0, numbered(size))
			tr.Check()
			assert.LessOrEqual(t, maxFanOut(tr.root), MaxChildren)

			fresh := make([]*Line, size)
			for i := range fresh {
				fresh[i] = NewLine("x", nil)
			}
			require.NoError(t, tr.Insert(size/2, fresh))
			tr.Check()
			assert.LessOrEqual(t, maxFanOut(tr.root), MaxChildren)
			assert.Equal(t, 2*size, tr.Size())

			no, err := tr.IndexOf(fresh[size-1])
			require.NoError(t, err)
			assert.Equal(t, size/2+size-1, no)
		})
	}
}

func TestLineAtOutOfRange(t *testing.T) {
	tr := FromText(0, []string{"a", "b"})
	_, err := tr.LineAt(2)
	assert.ErrorIs(t, err, ErrOutOfRange)
	_, err = tr.LineAt(-1)
	assert.ErrorIs(t, err, ErrOutOfRange)
	assert.Panics(t, func() { tr.MustLineAt(5) })
}

func TestFirstLineOffset(t *testing.T) {
	tr := FromText(10, []string{"a", "b", "c"})
	assert.Equal(t, 10, tr.First())
	assert.Equal(t, 12, tr.Last())
	assert.True(t, tr.Contains(11))
	assert.False(t, tr.Contains(9))

	l, err := tr.LineAt(11)
	require.NoError(t, err)
	assert.Equal(t, "b", l.Text)

	tr.Shift(-10)
	no, err := tr.IndexOf(l)
	require.NoError(t, err)
	assert.Equal(t, 1, no)
}

func TestRemoveDetaches(t *testing.T) {
	tr := FromText(0, numbered(200))
	victim := tr.MustLineAt(100)

	removed, err := tr.Remove(90, 20)
	require.NoError(t, err)
	tr.Check()

	assert.Len(t, removed, 20)
	assert.Equal(t, 180, tr.Size())
	assert.False(t, victim.Attached())
	_, err = tr.IndexOf(victim)
	assert.ErrorIs(t, err, ErrDetached)
	assert.Equal(t, "line 110", tr.MustLineAt(90).Text)
}

func TestRemoveCollapses(t *testing.T) {
	tr := FromText(0, numbered(300))
	_, err := tr.Remove(5, 290)
	require.NoError(t, err)
	tr.Check()

	assert.Equal(t, 10, tr.Size())
	assert.Equal(t, []string{
		"line 0", "line 1", "line 2", "line 3", "line 4",
		"line 295", "line 296", "line 297", "line 298", "line 299",
	}, tr.Text())
}

func TestInsertBounds(t *testing.T) {
	tr := FromText(0, []string{"a"})
	assert.ErrorIs(t, tr.Insert(3, []*Line{NewLine("x", nil)}), ErrOutOfRange)
	require.NoError(t, tr.Insert(1, []*Line{NewLine("b", nil)}))
	assert.Equal(t, []string{"a", "b"}, tr.Text())

	_, err := tr.Remove(1, 5)
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestHeights(t *testing.T) {
	tr := FromText(0, numbered(120))
	l := tr.MustLineAt(60)
	tr.SetHeight(l, 5)
	tr.Check()

	assert.InDelta(t, 124.0, tr.Height(), 1e-9)

	h, err := tr.HeightAt(l)
	require.NoError(t, err)
	assert.InDelta(t, 60.0, h, 1e-9)

	assert.Equal(t, 0, tr.LineAtHeight(0))
	assert.Equal(t, 59, tr.LineAtHeight(59.5))
	assert.Equal(t, 60, tr.LineAtHeight(60))
	assert.Equal(t, 60, tr.LineAtHeight(64.9))
	assert.Equal(t, 61, tr.LineAtHeight(65))
	assert.Equal(t, 119, tr.LineAtHeight(1e9))
}

func TestIterate(t *testing.T) {
	tr := FromText(0, numbered(100))

	var seen []int
	tr.Iterate(48, 53, func(no int, l *Line) bool {
		assert.Equal(t, fmt.Sprintf("line %d", no), l.Text)
		seen = append(seen, no)
		return false
	})
	assert.Equal(t, []int{48, 49, 50, 51, 52}, seen)

	count := 0
	tr.Iterate(0, 100, func(int, *Line) bool {
		count++
		return count == 3
	})
	assert.Equal(t, 3, count)

	assert.Len(t, tr.Lines(95, 200), 5)
}

// TestRandomEdits compares the tree against a plain slice over a long
// sequence of random insertions and removals.
func TestRandomEdits(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	model := numbered(10)
	tr := FromText(0, model)
	next := 0

	for step := 0; step < 2000; step++ {
		if rng.Intn(3) > 0 || len(model) < 5 {
			at := rng.Intn(len(model) + 1)
			n := 1 + rng.Intn(80)
			add := make([]string, n)
			fresh := make([]*Line, n)
			for i := range add {
				add[i] = fmt.Sprintf("new %d", next)
				fresh[i] = NewLine(add[i], nil)
				next++
			}
			require.NoError(t, tr.Insert(at, fresh))
			model = append(model[:at], append(add, model[at:]...)...)
		} else {
			at := rng.Intn(len(model) - 1)
			n := 1 + rng.Intn(min(len(model)-at-1, 60))
			_, err := tr.Remove(at, n)
			require.NoError(t, err)
			model = append(model[:at], model[at+n:]...)
		}
		tr.Check()
		require.Equal(t, len(model), tr.Size())
	}
	assert.Equal(t, model, tr.Text())

	for i := 0; i < len(model); i += 37 {
		l := tr.MustLineAt(i)
		no, err := tr.IndexOf(l)
		require.NoError(t, err)
		assert.Equal(t, i, no)
	}
}

func TestQuickIndexRoundTrip(t *testing.T) {
	f := func(size uint16, pick uint16) bool {
		n := int(size%500) + 1
		tr := FromText(0, numbered(n))
		i := int(pick) % n
		no, err := tr.IndexOf(tr.MustLineAt(i))
		return err == nil && no == i
	}
	require.NoError(t, quick.Check(f, nil))
}
