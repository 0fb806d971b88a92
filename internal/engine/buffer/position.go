package buffer

import "fmt"

// Sticky disambiguates which side of a boundary a position belongs to.
// It is only consulted at bidi and atomic-marker boundaries and never
// participates in ordering.
type Sticky uint8

const (
	StickyNone   Sticky = iota // No preference
	StickyBefore               // Associated with the character before
	StickyAfter                // Associated with the character after
)

// String returns a human-readable representation of the affinity.
func (s Sticky) String() string {
	switch s {
	case StickyBefore:
		return "before"
	case StickyAfter:
		return "after"
	default:
		return "none"
	}
}

// Pos represents a line and column position.
// Line is document-absolute (documents may start at a non-zero line).
// Ch is measured in bytes from the start of the line.
type Pos struct {
	Line   int
	Ch     int
	Sticky Sticky
}

// P is shorthand for a position without affinity.
func P(line, ch int) Pos {
	return Pos{Line: line, Ch: ch}
}

// String returns a human-readable representation of the position.
func (p Pos) String() string {
	if p.Sticky != StickyNone {
		return fmt.Sprintf("(%d:%d %s)", p.Line, p.Ch, p.Sticky)
	}
	return fmt.Sprintf("(%d:%d)", p.Line, p.Ch)
}

// Compare returns a negative number if a < b, 0 if a == b, and a positive
// number if a > b. Affinity is ignored.
func Compare(a, b Pos) int {
	if a.Line != b.Line {
		return a.Line - b.Line
	}
	return a.Ch - b.Ch
}

// Compare returns -1, 0 or 1 comparing p to other.
func (p Pos) Compare(other Pos) int {
	switch c := Compare(p, other); {
	case c < 0:
		return -1
	case c > 0:
		return 1
	default:
		return 0
	}
}

// Before returns true if p comes before other.
func (p Pos) Before(other Pos) bool {
	return Compare(p, other) < 0
}

// After returns true if p comes after other.
func (p Pos) After(other Pos) bool {
	return Compare(p, other) > 0
}

// Equal returns true if both positions address the same column.
func (p Pos) Equal(other Pos) bool {
	return p.Line == other.Line && p.Ch == other.Ch
}

// WithSticky returns a copy of p carrying the given affinity.
func (p Pos) WithSticky(s Sticky) Pos {
	p.Sticky = s
	return p
}

// MinPos returns the earlier of two positions.
func MinPos(a, b Pos) Pos {
	if Compare(a, b) > 0 {
		return b
	}
	return a
}

// MaxPos returns the later of two positions.
func MaxPos(a, b Pos) Pos {
	if Compare(a, b) < 0 {
		return b
	}
	return a
}

// ClipToLen clamps the column of pos into [0, lineLen].
func ClipToLen(pos Pos, lineLen int) Pos {
	if pos.Ch > lineLen {
		return Pos{Line: pos.Line, Ch: lineLen}
	}
	if pos.Ch < 0 {
		return Pos{Line: pos.Line, Ch: 0}
	}
	return pos
}
