package replay

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/dshills/linedoc/internal/engine"
)

// steppingClock advances ten seconds per reading so typing never merges
// by time.
func steppingClock() engine.Option {
	tick := time.Unix(0, 0)
	return engine.WithClock(func() time.Time {
		tick = tick.Add(10 * time.Second)
		return tick
	})
}

func mustRun(t *testing.T, script string) *Result {
	t.Helper()
	s, err := Parse([]byte(script))
	require.NoError(t, err)
	res, err := Run(s, nil, steppingClock())
	require.NoError(t, err)
	return res
}

func TestRunEditsAndMarks(t *testing.T) {
	res := mustRun(t, `
text: "hello\nworld"
steps:
  - replace: {text: "J", from: [0, 0], to: [0, 1]}
  - select: {anchor: [1, 0], head: [1, 5]}
  - type: "there"
  - mark: {name: ro, from: [0, 0], to: [0, 2], readOnly: true}
  - replace: {text: "zz", from: [0, 1], to: [0, 1]}
  - bookmark: {name: here, at: [1, 2]}
  - undo: 1
`)

	assert.Equal(t, "Jello\nthere", res.Text)
	assert.Equal(t, "Cursor(1:5)", res.Selection)
	assert.Equal(t, 0, res.Undo, "read-only markers clear history")
	require.Len(t, res.Rejected, 2)
	assert.Contains(t, res.Rejected[0], "read-only range")
	assert.Contains(t, res.Rejected[1], "nothing to undo")

	assert.Equal(t, []MarkResult{
		{Name: "ro", Kind: "range", Found: true, From: "(0:0)", To: "(0:2)"},
		{Name: "here", Kind: "bookmark", Found: true, From: "(1:2)", To: "(1:2)"},
	}, res.Marks)
}

func TestRunReadOnlyEdgeKeepsCoveredText(t *testing.T) {
	res := mustRun(t, `
text: "Hello"
steps:
  - mark: {name: ro, from: [0, 0], to: [0, 2], readOnly: true}
  - replace: {text: "zz", from: [0, 0], to: [0, 1]}
`)
	assert.Equal(t, "zzHello", res.Text, "only the empty part before the mark is replaced")
	assert.Empty(t, res.Rejected)
	assert.Equal(t, []MarkResult{
		{Name: "ro", Kind: "range", Found: true, From: "(0:2)", To: "(0:4)"},
	}, res.Marks)
}

func TestRunOperationIsOneUndoStep(t *testing.T) {
	res := mustRun(t, `
text: ""
steps:
  - operation:
      - type: "a"
      - type: "b"
  - type: "c"
  - undo: 1
`)
	assert.Equal(t, "ab", res.Text)
	assert.Equal(t, 1, res.Undo)
	assert.Equal(t, 1, res.Redo)

	undone := gjson.Get(res.History, "undone").Array()
	require.NotEmpty(t, undone)
	assert.Equal(t, "c", undone[len(undone)-1].Get("changes.0.text.0").String())
}

func TestRunClearAndDiff(t *testing.T) {
	res := mustRun(t, `
text: "a\nb\nc"
steps:
  - mark: {name: m, from: [1, 0], to: [1, 1], className: hl}
  - replace: {text: "x", from: [1, 0], to: [1, 1]}
  - clear: m
`)
	require.Len(t, res.Marks, 1)
	assert.False(t, res.Marks[0].Found)

	diff, err := res.Diff("", 3)
	require.NoError(t, err)
	assert.Equal(t, "--- start\n+++ current\n@@ -1,3 +1,3 @@\n a\n-b\n+x\n c\n", diff)
}

func TestRunLineSeparator(t *testing.T) {
	res := mustRun(t, "text: \"a\\nb\"\nlineSeparator: \"\\r\\n\"\n")
	assert.Equal(t, "a\r\nb", res.Text)
	assert.Equal(t, "\r\n", res.Doc().LineSeparator())
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name   string
		script string
	}{
		{"two actions", "steps:\n  - {type: a, undo: 1}\n"},
		{"no action", "steps:\n  - {}\n"},
		{"bad position", "steps:\n  - bookmark: {at: [1]}\n"},
		{"not yaml", "steps: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.script))
			assert.Error(t, err)
		})
	}
}

func TestRunUnknownMarker(t *testing.T) {
	s, err := Parse([]byte("steps:\n  - clear: nope\n"))
	require.NoError(t, err)
	_, err = Run(s, nil)
	assert.ErrorIs(t, err, ErrInvalidScript)
	assert.Contains(t, err.Error(), "line 2")
}
