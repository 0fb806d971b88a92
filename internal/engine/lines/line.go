package lines

// Open marks a span bound that continues past the edge of its line.
const Open = -1

// DefaultHeight is the height given to lines that were never measured.
const DefaultHeight = 1.0

// MarkedSpan is the part of a marker that lies on one line.
// From and To are byte columns; Open means the marker continues onto the
// previous (From) or next (To) line. Marker is the owning marker's id.
type MarkedSpan struct {
	Marker uint64
	From   int
	To     int
}

// OpenStart returns true if the span continues from the previous line.
func (s MarkedSpan) OpenStart() bool { return s.From == Open }

// OpenEnd returns true if the span continues onto the next line.
func (s MarkedSpan) OpenEnd() bool { return s.To == Open }

// Line is one line of text owned by a Tree.
type Line struct {
	Text string

	// Spans holds the marked spans touching this line, or nil.
	Spans []MarkedSpan

	// State is an opaque tokenizer cache. The engine invalidates it but
	// never inspects it.
	State any

	height float64
	leaf   *node
}

// NewLine creates a detached line.
func NewLine(text string, spans []MarkedSpan) *Line {
	return &Line{Text: text, Spans: spans, height: DefaultHeight}
}

// Height returns the cached height of the line.
func (l *Line) Height() float64 {
	return l.height
}

// Attached returns true while the line belongs to a tree.
func (l *Line) Attached() bool {
	return l.leaf != nil
}

// Len returns the byte length of the line's text.
func (l *Line) Len() int {
	return len(l.Text)
}
