package mode

import "errors"

// ErrStalled is returned when a mode keeps returning without consuming
// input.
var ErrStalled = errors.New("mode failed to advance stream")

// maxStalls is the number of consecutive empty tokens tolerated on one
// line.
const maxStalls = 10

// State is a mode's per-line tokenizer state. Modes that need state
// across lines use pointer types and mutate them in place.
type State any

// Mode tokenizes text line by line.
type Mode interface {
	// Name returns the name the mode is registered under.
	Name() string

	// StartState returns the state at the top of a document.
	StartState() State

	// Token consumes at least one character from s and returns its style,
	// or "" for unstyled text.
	Token(s *Stream, state State) string

	// CopyState returns an independent copy of state.
	CopyState(state State) State

	// BlankLine is called for lines with no text.
	BlankLine(state State)
}

// IndentResult reports whether a mode computed an indentation.
type IndentResult uint8

const (
	NotHandled IndentResult = iota // Caller falls back to its own rule
	Handled                        // The returned column is valid
)

// Indenter is implemented by modes that compute smart indentation.
type Indenter interface {
	Indent(state State, textAfter string) (int, IndentResult)
}

// InnerModer is implemented by modes that nest other modes.
type InnerModer interface {
	InnerMode(state State) (Mode, State)
}

// Innermost follows InnerMode until it reaches a mode that does not nest.
func Innermost(m Mode, state State) (Mode, State) {
	for {
		inner, ok := m.(InnerModer)
		if !ok {
			return m, state
		}
		next, nextState := inner.InnerMode(state)
		if next == nil || next == m {
			return m, state
		}
		m, state = next, nextState
	}
}

// Indent asks the innermost mode for the indentation of a line starting
// with textAfter.
func Indent(m Mode, state State, textAfter string) (int, IndentResult) {
	m, state = Innermost(m, state)
	if in, ok := m.(Indenter); ok {
		return in.Indent(state, textAfter)
	}
	return 0, NotHandled
}

// Token is a styled stretch of a line, in byte columns.
type Token struct {
	From  int
	To    int
	Style string
}

// ProcessLine runs m over text, advancing state to the end of the line,
// and returns the tokens produced. Adjacent tokens with the same style are
// merged. A nil mode consumes the line without producing tokens.
func ProcessLine(m Mode, text string, state State) ([]Token, error) {
	if m == nil {
		return nil, nil
	}
	if text == "" {
		m.BlankLine(state)
		return nil, nil
	}
	var out []Token
	s := NewStream(text)
	stalls := 0
	for !s.EOL() {
		style := m.Token(s, state)
		if s.Pos() <= s.Start() {
			stalls++
			if stalls > maxStalls {
				return out, ErrStalled
			}
			continue
		}
		stalls = 0
		if n := len(out); n > 0 && out[n-1].Style == style && out[n-1].To == s.Start() {
			out[n-1].To = s.Pos()
		} else {
			out = append(out, Token{From: s.Start(), To: s.Pos(), Style: style})
		}
		s.Advance()
	}
	return out, nil
}

// Null is the plain-text mode.
type Null struct{}

// Name returns "null".
func (Null) Name() string { return "null" }

// StartState returns nil.
func (Null) StartState() State { return nil }

// Token consumes the rest of the line without styling it.
func (Null) Token(s *Stream, _ State) string {
	s.SkipToEnd()
	return ""
}

// CopyState returns state.
func (Null) CopyState(state State) State { return state }

// BlankLine does nothing.
func (Null) BlankLine(State) {}
