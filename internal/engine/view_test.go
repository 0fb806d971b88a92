package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/linedoc/internal/engine/bidi"
	"github.com/dshills/linedoc/internal/engine/lines"
	"github.com/dshills/linedoc/internal/engine/mode"
)

type lineEvent struct {
	from, to int
	kind     ChangeKind
}

type recorder struct {
	lines      []lineEvent
	selections int
}

func (r *recorder) LinesChanged(from, to int, kind ChangeKind) {
	r.lines = append(r.lines, lineEvent{from, to, kind})
}

func (r *recorder) SelectionChanged() { r.selections++ }

// Operation Tests

func TestOperationBatchesNotifications(t *testing.T) {
	rec := &recorder{}
	d := New("a\nb\nc", WithObserver(rec))

	d.Operation(func() {
		require.NoError(t, d.ReplaceRange("x", P(0, 0), P(0, 0), ""))
		require.NoError(t, d.ReplaceRange("y", P(0, 1), P(0, 1), ""))
		d.SetCursor(P(2, 0), SelectionOptions{})
		assert.Empty(t, rec.lines, "nothing is delivered before the operation ends")
	})

	assert.Equal(t, []lineEvent{{0, 1, LineText}}, rec.lines)
	assert.Equal(t, 1, rec.selections)

	undo, _ := d.HistorySize()
	assert.Equal(t, 1, undo, "one operation is one undo step")
	require.NoError(t, d.Undo())
	assert.Equal(t, "a\nb\nc", d.Value())
}

func TestMultiLineChangeNotifiesRange(t *testing.T) {
	rec := &recorder{}
	d := New("a\nb\nc")
	d.AddObserver(rec)

	require.NoError(t, d.ReplaceRange("x\ny", P(0, 0), P(1, 1), ""))
	assert.Equal(t, []lineEvent{{0, 2, FullRange}}, rec.lines)

	d.RemoveObserver(rec)
	require.NoError(t, d.ReplaceRange("z", P(0, 0), P(0, 0), ""))
	assert.Len(t, rec.lines, 1)
}

func TestSelectionNotifiesOnlyOnChange(t *testing.T) {
	rec := &recorder{}
	d := New("abc", WithObserver(rec))
	d.SetCursor(P(0, 2), SelectionOptions{})
	d.SetCursor(P(0, 2), SelectionOptions{})
	assert.Equal(t, 1, rec.selections)
}

func TestSetDirection(t *testing.T) {
	rec := &recorder{}
	d := New("abc\nאב 12", WithObserver(rec))
	d.SetDirection(bidi.LTR)
	assert.Empty(t, rec.lines)

	d.SetDirection(bidi.RTL)
	assert.Equal(t, bidi.RTL, d.Direction())
	assert.Equal(t, []lineEvent{{0, 2, FullRange}}, rec.lines)

	runs, err := d.LineOrder(1)
	require.NoError(t, err)
	assert.NotEmpty(t, runs)
	_, err = d.LineOrder(5)
	assert.ErrorIs(t, err, lines.ErrOutOfRange)
}

// Height Tests

func TestLineHeights(t *testing.T) {
	d := New("a\nb\nc")
	assert.Equal(t, 3.0, d.Height())

	require.NoError(t, d.SetLineHeight(1, 3))
	h, err := d.LineHeight(1)
	require.NoError(t, err)
	assert.Equal(t, 3.0, h)
	assert.Equal(t, 5.0, d.Height())
	assert.Equal(t, 4.0, d.HeightAtLine(2))

	assert.Equal(t, 0, d.LineAtHeight(0.5))
	assert.Equal(t, 1, d.LineAtHeight(3.9))
	assert.Equal(t, 2, d.LineAtHeight(4.5))
	assert.Equal(t, 2, d.LineAtHeight(100))

	assert.Error(t, d.SetLineHeight(7, 1))
	_, err = d.LineHeight(-1)
	assert.Error(t, err)
}

func TestCollapsedLinesAreHidden(t *testing.T) {
	d := New("abc\ndef\nghi\njkl")
	m := mustMark(t, d, P(0, 2), P(2, 1), MarkOptions{Collapsed: true})

	assert.False(t, d.IsLineHidden(0))
	assert.True(t, d.IsLineHidden(1))
	assert.True(t, d.IsLineHidden(2))
	assert.False(t, d.IsLineHidden(3))
	assert.Equal(t, 2.0, d.Height())

	assert.Equal(t, 0, d.VisualLine(2))
	assert.Equal(t, 2, d.VisualLineEnd(0))
	assert.Equal(t, 3, d.VisualLine(3))
	assert.Equal(t, 0.0, d.HeightAtLine(2))

	// Measurements of hidden lines are kept for when they reappear.
	require.NoError(t, d.SetLineHeight(1, 5))
	h, err := d.LineHeight(1)
	require.NoError(t, err)
	assert.Equal(t, 0.0, h)

	m.Clear()
	assert.False(t, d.IsLineHidden(1))
	assert.Equal(t, 8.0, d.Height())
	assert.Equal(t, 1, d.VisualLine(1))
}

// Tokenizer State Tests

type countState struct{ lines int }

// countMode counts the lines it has seen and how often it ran.
type countMode struct{ calls *int }

func (countMode) Name() string { return "count" }
func (countMode) StartState() mode.State { return &countState{} }
func (countMode) BlankLine(s mode.State) { s.(*countState).lines++ }
func (countMode) CopyState(s mode.State) mode.State {
	cp := *s.(*countState)
	return &cp
}

func (c countMode) Token(s *mode.Stream, state mode.State) string {
	s.SkipToEnd()
	state.(*countState).lines++
	*c.calls++
	return "line"
}

type stallMode struct{ mode.Null }

func (stallMode) Name() string { return "stall" }
func (stallMode) Token(*mode.Stream, mode.State) string { return "" }

func TestStateAfterCachesStates(t *testing.T) {
	calls := 0
	d := New("a\nb\nc\nd", WithMode(countMode{&calls}))

	state, err := d.StateAfter(2)
	require.NoError(t, err)
	assert.Equal(t, 3, state.(*countState).lines)
	assert.Equal(t, 3, calls)

	state, err = d.StateAfter(1)
	require.NoError(t, err)
	assert.Equal(t, 2, state.(*countState).lines)
	assert.Equal(t, 3, calls, "cached lines are not tokenized again")

	state, err = d.StateAfter(-1)
	require.NoError(t, err)
	assert.Equal(t, 0, state.(*countState).lines)

	_, err = d.StateAfter(3)
	require.NoError(t, err)
	assert.Equal(t, 4, calls)

	// Editing line 1 invalidates it and everything after.
	require.NoError(t, d.ReplaceRange("x", P(1, 0), P(1, 0), ""))
	state, err = d.StateAfter(3)
	require.NoError(t, err)
	assert.Equal(t, 4, state.(*countState).lines)
	assert.Equal(t, 7, calls)

	tokens, err := d.LineTokens(2)
	require.NoError(t, err)
	assert.Equal(t, []mode.Token{{From: 0, To: 1, Style: "line"}}, tokens)
	assert.Equal(t, 8, calls)
}

func TestSetModeDropsStates(t *testing.T) {
	calls := 0
	rec := &recorder{}
	d := New("a\nb", WithObserver(rec))
	assert.Equal(t, "null", d.Mode().Name())

	d.SetMode(countMode{&calls})
	assert.Equal(t, []lineEvent{{0, 2, FullRange}}, rec.lines)
	_, err := d.StateAfter(1)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)

	d.SetMode(countMode{&calls})
	_, err = d.StateAfter(1)
	require.NoError(t, err)
	assert.Equal(t, 4, calls)
}

func TestStateAfterStalledMode(t *testing.T) {
	d := New("a\nb", WithMode(stallMode{}))
	_, err := d.StateAfter(1)
	assert.ErrorIs(t, err, mode.ErrStalled)
	_, err = d.LineTokens(0)
	assert.ErrorIs(t, err, mode.ErrStalled)
}
