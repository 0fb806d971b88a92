package mode

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Stream walks one line of text for a tokenizer. Positions are byte
// offsets; the current token is the text between Start and Pos.
type Stream struct {
	str   string
	pos   int
	start int
}

// NewStream creates a stream at the start of text.
func NewStream(text string) *Stream {
	return &Stream{str: text}
}

// Pos returns the read position.
func (s *Stream) Pos() int { return s.pos }

// Start returns the start of the current token.
func (s *Stream) Start() int { return s.start }

// String returns the whole line.
func (s *Stream) String() string { return s.str }

// EOL returns true at the end of the line.
func (s *Stream) EOL() bool { return s.pos >= len(s.str) }

// SOL returns true at the start of the line.
func (s *Stream) SOL() bool { return s.pos == 0 }

// Peek returns the next rune without consuming it.
func (s *Stream) Peek() (rune, bool) {
	if s.EOL() {
		return 0, false
	}
	r, _ := utf8.DecodeRuneInString(s.str[s.pos:])
	return r, true
}

// Next consumes and returns the next rune.
func (s *Stream) Next() (rune, bool) {
	if s.EOL() {
		return 0, false
	}
	r, size := utf8.DecodeRuneInString(s.str[s.pos:])
	s.pos += size
	return r, true
}

// Eat consumes the next rune if it is r.
func (s *Stream) Eat(r rune) bool {
	return s.EatFunc(func(c rune) bool { return c == r })
}

// EatFunc consumes the next rune if f accepts it.
func (s *Stream) EatFunc(f func(rune) bool) bool {
	r, ok := s.Peek()
	if !ok || !f(r) {
		return false
	}
	s.pos += utf8.RuneLen(r)
	return true
}

// EatWhile consumes runes while f accepts them and reports whether any
// were consumed.
func (s *Stream) EatWhile(f func(rune) bool) bool {
	start := s.pos
	for s.EatFunc(f) {
	}
	return s.pos > start
}

// EatSpace consumes white space.
func (s *Stream) EatSpace() bool {
	return s.EatWhile(unicode.IsSpace)
}

// SkipToEnd moves to the end of the line.
func (s *Stream) SkipToEnd() { s.pos = len(s.str) }

// SkipTo moves to the next occurrence of r and reports whether it was
// found.
func (s *Stream) SkipTo(r rune) bool {
	i := strings.IndexRune(s.str[s.pos:], r)
	if i < 0 {
		return false
	}
	s.pos += i
	return true
}

// Match reports whether the input continues with prefix, consuming it
// when consume is set.
func (s *Stream) Match(prefix string, consume bool) bool {
	if !strings.HasPrefix(s.str[s.pos:], prefix) {
		return false
	}
	if consume {
		s.pos += len(prefix)
	}
	return true
}

// BackUp moves the read position back n bytes, not past Start.
func (s *Stream) BackUp(n int) {
	s.pos = max(s.start, s.pos-n)
}

// Current returns the text of the current token.
func (s *Stream) Current() string { return s.str[s.start:s.pos] }

// Advance starts a new token at the read position.
func (s *Stream) Advance() { s.start = s.pos }
