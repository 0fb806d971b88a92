package buffer

import (
	"fmt"
	"strings"
)

// Change describes the replacement of the text between From and To
// (in pre-change coordinates) with Text, one string per resulting line.
type Change struct {
	From   Pos
	To     Pos
	Text   []string
	Origin string
}

// NewChange creates a Change, splitting text into lines.
func NewChange(from, to Pos, text, origin string) Change {
	return Change{From: from, To: to, Text: SplitLines(text), Origin: origin}
}

// String returns a human-readable representation of the change.
func (c Change) String() string {
	return fmt.Sprintf("Change[%s-%s %q %s]", c.From, c.To, strings.Join(c.Text, "\n"), c.Origin)
}

// IsNoOp returns true if the change neither removes nor inserts text.
func (c Change) IsNoOp() bool {
	return Compare(c.From, c.To) == 0 && (len(c.Text) == 0 || len(c.Text) == 1 && c.Text[0] == "")
}

// IsInsert returns true if the change removes nothing.
func (c Change) IsInsert() bool {
	return Compare(c.From, c.To) == 0
}

// LineDelta returns the net number of lines added by the change.
func (c Change) LineDelta() int {
	return len(c.Text) - 1 - (c.To.Line - c.From.Line)
}

// Clone returns a copy of the change that shares no slices with c.
func (c Change) Clone() Change {
	if c.Text == nil {
		return c
	}
	text := make([]string, len(c.Text))
	copy(text, c.Text)
	c.Text = text
	return c
}

// lastText returns the final line of inserted text.
func (c Change) lastText() string {
	if len(c.Text) == 0 {
		return ""
	}
	return c.Text[len(c.Text)-1]
}

// ChangeEnd returns the position just after the inserted text.
func ChangeEnd(c Change) Pos {
	if c.Text == nil {
		return c.To
	}
	ch := len(c.lastText())
	if len(c.Text) == 1 {
		ch += c.From.Ch
	}
	return Pos{Line: c.From.Line + len(c.Text) - 1, Ch: ch}
}

// AdjustForChange maps a pre-change position to its post-change location.
// Positions before the change are unaffected, positions inside the replaced
// range collapse to the end of the inserted text, and later positions are
// shifted by the change's line and column delta.
func AdjustForChange(pos Pos, c Change) Pos {
	if Compare(pos, c.From) < 0 {
		return pos
	}
	if Compare(pos, c.To) <= 0 {
		return ChangeEnd(c)
	}
	line := pos.Line + c.LineDelta()
	ch := pos.Ch
	if pos.Line == c.To.Line {
		ch += ChangeEnd(c).Ch - c.To.Ch
	}
	return Pos{Line: line, Ch: ch}
}
