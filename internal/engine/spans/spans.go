package spans

import (
	"github.com/dshills/linedoc/internal/engine/buffer"
	"github.com/dshills/linedoc/internal/engine/lines"
)

// Kind distinguishes range markers from bookmarks.
type Kind uint8

const (
	Range    Kind = iota // Marks a range of text
	Bookmark             // Marks a single position
)

// String returns "range" or "bookmark".
func (k Kind) String() string {
	if k == Bookmark {
		return "bookmark"
	}
	return "range"
}

// Info holds the marker properties the span algebra depends on.
type Info struct {
	ID             uint64
	Kind           Kind
	InclusiveLeft  bool
	InclusiveRight bool
	ClearWhenEmpty bool
	Collapsed      bool
	Atomic         bool
	ReadOnly       bool
	HasWidget      bool
	InsertLeft     bool
}

// Resolver looks up marker state by id.
type Resolver interface {
	// Info returns the properties of a marker.
	Info(id uint64) Info
	// Find returns the current extent of a marker; ok is false for
	// markers that are no longer in the document.
	Find(id uint64) (from, to buffer.Pos, ok bool)
	// LineCount returns the number of lines a marker touches.
	LineCount(id uint64) int
	// EndLine returns the line holding the end of a marker.
	EndLine(id uint64) *lines.Line
}

// SpanFor returns the span belonging to marker id.
func SpanFor(spans []lines.MarkedSpan, id uint64) (lines.MarkedSpan, bool) {
	for _, s := range spans {
		if s.Marker == id {
			return s, true
		}
	}
	return lines.MarkedSpan{}, false
}

// Remove returns spans without the span of marker id, or nil when nothing
// is left.
func Remove(spans []lines.MarkedSpan, id uint64) []lines.MarkedSpan {
	var out []lines.MarkedSpan
	for _, s := range spans {
		if s.Marker != id {
			out = append(out, s)
		}
	}
	return out
}

// Add returns spans with s appended.
func Add(spans []lines.MarkedSpan, s lines.MarkedSpan) []lines.MarkedSpan {
	out := make([]lines.MarkedSpan, 0, len(spans)+1)
	out = append(out, spans...)
	return append(out, s)
}

func startsBefore(s lines.MarkedSpan, m Info, ch int) bool {
	if s.From == lines.Open {
		return true
	}
	if m.InclusiveLeft {
		return s.From <= ch
	}
	return s.From < ch
}

func endsAfter(s lines.MarkedSpan, m Info, ch int) bool {
	if s.To == lines.Open {
		return true
	}
	if m.InclusiveRight {
		return s.To >= ch
	}
	return s.To > ch
}

// Before returns the spans that survive on the part of a line before
// column startCh. Spans continuing past startCh become open-ended.
func Before(r Resolver, old []lines.MarkedSpan, startCh int, isInsert bool) []lines.MarkedSpan {
	var out []lines.MarkedSpan
	for _, s := range old {
		m := r.Info(s.Marker)
		keepBookmark := s.From == startCh && m.Kind == Bookmark && (!isInsert || !m.InsertLeft)
		if !startsBefore(s, m, startCh) && !keepBookmark {
			continue
		}
		to := s.To
		if endsAfter(s, m, startCh) {
			to = lines.Open
		}
		out = append(out, lines.MarkedSpan{Marker: s.Marker, From: s.From, To: to})
	}
	return out
}

// After returns the spans that survive on the part of a line after column
// endCh, rebased to start at column 0.
func After(r Resolver, old []lines.MarkedSpan, endCh int, isInsert bool) []lines.MarkedSpan {
	var out []lines.MarkedSpan
	for _, s := range old {
		m := r.Info(s.Marker)
		keepBookmark := s.From == endCh && m.Kind == Bookmark && (!isInsert || m.InsertLeft)
		if !endsAfter(s, m, endCh) && !keepBookmark {
			continue
		}
		from := lines.Open
		if !startsBefore(s, m, endCh) {
			from = s.From - endCh
		}
		to := lines.Open
		if s.To != lines.Open {
			to = s.To - endCh
		}
		out = append(out, lines.MarkedSpan{Marker: s.Marker, From: from, To: to})
	}
	return out
}

// ClearEmpty drops empty spans of markers that clear when empty. It
// returns nil when nothing is left.
func ClearEmpty(r Resolver, spans []lines.MarkedSpan) []lines.MarkedSpan {
	var out []lines.MarkedSpan
	for _, s := range spans {
		if s.From != lines.Open && s.From == s.To && r.Info(s.Marker).ClearWhenEmpty {
			continue
		}
		out = append(out, s)
	}
	return out
}

// Stretch computes the spans of every line produced by change, given the
// spans of the first and last lines it touches (nil when a line does not
// exist). The result has one entry per line of change.Text, or is nil
// when neither line carried spans.
func Stretch(r Resolver, oldFirst, oldLast []lines.MarkedSpan, change buffer.Change) [][]lines.MarkedSpan {
	if len(oldFirst) == 0 && len(oldLast) == 0 {
		return nil
	}
	startCh, endCh := change.From.Ch, change.To.Ch
	isInsert := change.From.Equal(change.To)
	first := Before(r, oldFirst, startCh, isInsert)
	last := After(r, oldLast, endCh, isInsert)

	sameLine := len(change.Text) == 1
	offset := len(change.Text[len(change.Text)-1])
	if sameLine {
		offset += startCh
	}

	for i := range first {
		s := &first[i]
		if s.To != lines.Open {
			continue
		}
		found, ok := SpanFor(last, s.Marker)
		if !ok {
			s.To = startCh
		} else if sameLine {
			if found.To == lines.Open {
				s.To = lines.Open
			} else {
				s.To = found.To + offset
			}
		}
	}
	for i := range last {
		s := &last[i]
		if s.To != lines.Open {
			s.To += offset
		}
		if s.From == lines.Open {
			if _, ok := SpanFor(first, s.Marker); !ok {
				s.From = offset
				if sameLine {
					first = append(first, *s)
				}
			}
		} else {
			s.From += offset
			if sameLine {
				first = append(first, *s)
			}
		}
	}
	first = ClearEmpty(r, first)
	if !sameLine {
		last = ClearEmpty(r, last)
	}

	out := [][]lines.MarkedSpan{first}
	if sameLine {
		return out
	}
	gap := len(change.Text) - 2
	var gapSpans []lines.MarkedSpan
	if gap > 0 {
		for _, s := range first {
			if s.To == lines.Open {
				gapSpans = append(gapSpans, lines.MarkedSpan{Marker: s.Marker, From: lines.Open, To: lines.Open})
			}
		}
	}
	for i := 0; i < gap; i++ {
		out = append(out, gapSpans)
	}
	return append(out, last)
}

// Interval is a document range [From, To].
type Interval struct {
	From buffer.Pos
	To   buffer.Pos
}

// SplitAroundReadOnly cuts [from, to] into the parts not covered by the
// given read-only markers. It returns nil when readOnly is empty.
func SplitAroundReadOnly(r Resolver, readOnly []uint64, from, to buffer.Pos) []Interval {
	if len(readOnly) == 0 {
		return nil
	}
	parts := []Interval{{From: from, To: to}}
	for _, id := range readOnly {
		mFrom, mTo, ok := r.Find(id)
		if !ok {
			continue
		}
		m := r.Info(id)
		var next []Interval
		for _, p := range parts {
			if buffer.Compare(p.To, mFrom) < 0 || buffer.Compare(p.From, mTo) > 0 {
				next = append(next, p)
				continue
			}
			dfrom, dto := buffer.Compare(p.From, mFrom), buffer.Compare(p.To, mTo)
			if dfrom < 0 || (!m.InclusiveLeft && dfrom == 0) {
				next = append(next, Interval{From: p.From, To: mFrom})
			}
			if dto > 0 || (!m.InclusiveRight && dto == 0) {
				next = append(next, Interval{From: mTo, To: p.To})
			}
		}
		parts = next
	}
	return parts
}
