package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetSelectionClipsAndNormalizes(t *testing.T) {
	d := New("abc\ndef")
	d.SetSelections([]Range{
		{Anchor: P(1, 1), Head: P(9, 9)},
		{Anchor: P(0, 0), Head: P(0, 2)},
		{Anchor: P(0, 1), Head: P(0, 3)},
	}, 0, SelectionOptions{})

	assert.Equal(t, []Range{
		{Anchor: P(0, 0), Head: P(0, 3)},
		{Anchor: P(1, 1), Head: P(1, 3)},
	}, d.ListSelections())
	assert.Equal(t, 1, d.Selection().PrimaryIndex())
	assert.True(t, d.SomethingSelected())
	assert.Equal(t, []string{"abc", "ef"}, d.SelectedTexts())
}

func TestSelectionsMayTouch(t *testing.T) {
	ranges := []Range{
		{Anchor: P(0, 0), Head: P(0, 1)},
		{Anchor: P(0, 1), Head: P(0, 2)},
	}
	d := New("abc")
	d.SetSelections(ranges, 0, SelectionOptions{})
	assert.Len(t, d.ListSelections(), 1)

	touching := New("abc", WithSelectionsMayTouch(true))
	touching.SetSelections(ranges, 0, SelectionOptions{})
	assert.Len(t, touching.ListSelections(), 2)
}

func TestAddSelectionBecomesPrimary(t *testing.T) {
	d := New("abc\ndef")
	d.SetCursor(P(1, 0), SelectionOptions{})
	d.AddSelection(P(0, 1), P(0, 2), SelectionOptions{})

	require.Len(t, d.ListSelections(), 2)
	assert.Equal(t, 0, d.Selection().PrimaryIndex())
	assert.Equal(t, Range{Anchor: P(0, 1), Head: P(0, 2)}, d.Selection().Primary())
}

func TestExtendSelection(t *testing.T) {
	d := New("abcdef")
	d.SetCursor(P(0, 1), SelectionOptions{})

	d.ExtendSelection(P(0, 4), nil, SelectionOptions{})
	assert.Equal(t, Range{Anchor: P(0, 4), Head: P(0, 4)}, d.Selection().Primary())

	d.SetExtending(true)
	assert.True(t, d.Extending())
	d.ExtendSelection(P(0, 6), nil, SelectionOptions{})
	assert.Equal(t, Range{Anchor: P(0, 4), Head: P(0, 6)}, d.Selection().Primary())

	d.ExtendSelections([]Pos{P(0, 2)}, SelectionOptions{})
	assert.Equal(t, Range{Anchor: P(0, 4), Head: P(0, 2)}, d.Selection().Primary())
}

func TestUndoSelection(t *testing.T) {
	d := New("abcdef")
	d.SetCursor(P(0, 1), SelectionOptions{})
	d.SetCursor(P(0, 4), SelectionOptions{})

	require.NoError(t, d.UndoSelection())
	assert.Equal(t, P(0, 1), d.Selection().Primary().Head)
	require.NoError(t, d.RedoSelection())
	assert.Equal(t, P(0, 4), d.Selection().Primary().Head)
}

func TestSelectionOriginMerging(t *testing.T) {
	now, advance := fakeClock()
	d := New("abcdef", WithClock(now))
	d.SetCursor(P(0, 0), SelectionOptions{})
	d.SetCursor(P(0, 1), SelectionOptions{Origin: "+move"})
	advance(100 * time.Millisecond)
	d.SetCursor(P(0, 2), SelectionOptions{Origin: "+move"})
	d.SetCursor(P(0, 3), SelectionOptions{Origin: "*mouse"})
	d.SetCursor(P(0, 4), SelectionOptions{Origin: "*mouse"})

	require.NoError(t, d.UndoSelection())
	assert.Equal(t, P(0, 2), d.Selection().Primary().Head, "both mouse moves merged")
	require.NoError(t, d.UndoSelection())
	assert.Equal(t, P(0, 0), d.Selection().Primary().Head, "both keyboard moves merged")
}

// Atomic Marker Tests

func TestCursorSkipsAtomicMarker(t *testing.T) {
	d := New("abcdef")
	_, err := d.MarkText(P(0, 2), P(0, 4), MarkOptions{Atomic: true})
	require.NoError(t, err)

	d.SetCursor(P(0, 2), SelectionOptions{})
	d.SetCursor(P(0, 3), SelectionOptions{})
	assert.Equal(t, P(0, 4), d.Selection().Primary().Head, "moving right jumps over the marker")

	d.SetCursor(P(0, 3), SelectionOptions{})
	assert.Equal(t, P(0, 2), d.Selection().Primary().Head, "moving left jumps back")

	d.SetCursor(P(0, 3), SelectionOptions{Bias: 1})
	assert.Equal(t, P(0, 4), d.Selection().Primary().Head, "explicit bias")
}

func TestAtomicInclusiveSides(t *testing.T) {
	d := New("abcdef")
	_, err := d.MarkText(P(0, 2), P(0, 4), MarkOptions{Atomic: true, InclusiveLeft: true, InclusiveRight: true})
	require.NoError(t, err)

	d.SetCursor(P(0, 1), SelectionOptions{})
	d.SetCursor(P(0, 4), SelectionOptions{Bias: 1})
	assert.Equal(t, P(0, 5), d.Selection().Primary().Head, "inclusive right pushes one step further")

	d.SetCursor(P(0, 0), SelectionOptions{})
	d.SetCursor(P(0, 3), SelectionOptions{})
	assert.Equal(t, P(0, 1), d.Selection().Primary().Head, "a long move stops before the marker")

	allow := true
	d2 := New("abcdef")
	_, err = d2.MarkText(P(0, 2), P(0, 4), MarkOptions{Atomic: true, InclusiveRight: true, SelectRight: &allow})
	require.NoError(t, err)
	d2.SetCursor(P(0, 4), SelectionOptions{Bias: 1})
	assert.Equal(t, P(0, 4), d2.Selection().Primary().Head, "SelectRight overrides inclusiveness")
}

func TestAtomicStepsOverGraphemes(t *testing.T) {
	// "e" followed by a combining acute accent is one grapheme of three bytes.
	d := New("ae\u0301bc")
	_, err := d.MarkText(P(0, 0), P(0, 1), MarkOptions{Atomic: true, InclusiveRight: true})
	require.NoError(t, err)

	d.SetCursor(P(0, 1), SelectionOptions{Bias: 1})
	assert.Equal(t, P(0, 4), d.Selection().Primary().Head)
}

func TestBlockedDocument(t *testing.T) {
	d := New("abc")
	m, err := d.MarkText(P(0, 0), P(0, 3), MarkOptions{Atomic: true, InclusiveLeft: true, InclusiveRight: true})
	require.NoError(t, err)

	assert.True(t, d.Blocked())
	err = d.ReplaceRange("x", P(0, 0), P(0, 0), "")
	assert.ErrorIs(t, err, ErrBlocked)
	assert.True(t, IsRejected(err))
	assert.Equal(t, "abc", d.Value())

	m.Clear()
	assert.False(t, d.Blocked())
	assert.NoError(t, d.ReplaceRange("x", P(0, 0), P(0, 0), ""))
	assert.Equal(t, "xabc", d.Value())
}

func TestClearOnEnter(t *testing.T) {
	d := New("abcdef")
	m, err := d.MarkText(P(0, 2), P(0, 4), MarkOptions{Atomic: true, ClearOnEnter: true})
	require.NoError(t, err)

	var cleared []Pos
	m.OnClear(func(from, to Pos) { cleared = append(cleared, from, to) })

	d.SetCursor(P(0, 3), SelectionOptions{})
	assert.Equal(t, P(0, 3), d.Selection().Primary().Head, "cursor stays where the marker was")
	assert.True(t, m.Cleared())
	assert.Equal(t, []Pos{P(0, 2), P(0, 4)}, cleared)
	assert.Empty(t, d.AllMarks())
}

func TestBeforeCursorEnter(t *testing.T) {
	d := New("abcdef")
	m, err := d.MarkText(P(0, 1), P(0, 5), MarkOptions{})
	require.NoError(t, err)
	calls := 0
	m.OnBeforeCursorEnter(func() { calls++ })

	d.SetCursor(P(0, 3), SelectionOptions{})
	d.SetCursor(P(0, 0), SelectionOptions{})
	assert.Equal(t, 1, calls)
}
