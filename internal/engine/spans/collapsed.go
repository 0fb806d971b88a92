package spans

import (
	"github.com/dshills/linedoc/internal/engine/buffer"
	"github.com/dshills/linedoc/internal/engine/lines"
)

func extraLeft(m Info) int {
	if m.InclusiveLeft {
		return -1
	}
	return 0
}

func extraRight(m Info) int {
	if m.InclusiveRight {
		return 1
	}
	return 0
}

// CompareCollapsed orders two collapsed markers so that the one that
// covers more wins. A positive result means a covers b.
func CompareCollapsed(r Resolver, a, b uint64) int {
	if d := r.LineCount(a) - r.LineCount(b); d != 0 {
		return d
	}
	ma, mb := r.Info(a), r.Info(b)
	aFrom, aTo, _ := r.Find(a)
	bFrom, bTo, _ := r.Find(b)
	fromCmp := buffer.Compare(aFrom, bFrom)
	if fromCmp == 0 {
		fromCmp = extraLeft(ma) - extraLeft(mb)
	}
	if fromCmp != 0 {
		return -fromCmp
	}
	toCmp := buffer.Compare(aTo, bTo)
	if toCmp == 0 {
		toCmp = extraRight(ma) - extraRight(mb)
	}
	if toCmp != 0 {
		return toCmp
	}
	switch {
	case b > a:
		return 1
	case b < a:
		return -1
	}
	return 0
}

func collapsedAtSide(r Resolver, spans []lines.MarkedSpan, start bool) (uint64, bool) {
	var found uint64
	ok := false
	for _, s := range spans {
		bound := s.To
		if start {
			bound = s.From
		}
		if bound != lines.Open || !r.Info(s.Marker).Collapsed {
			continue
		}
		if !ok || CompareCollapsed(r, found, s.Marker) < 0 {
			found, ok = s.Marker, true
		}
	}
	return found, ok
}

// CollapsedAtStart returns the dominant collapsed marker that continues
// into a line from the previous one.
func CollapsedAtStart(r Resolver, spans []lines.MarkedSpan) (uint64, bool) {
	return collapsedAtSide(r, spans, true)
}

// CollapsedAtEnd returns the dominant collapsed marker that continues
// from a line onto the next one.
func CollapsedAtEnd(r Resolver, spans []lines.MarkedSpan) (uint64, bool) {
	return collapsedAtSide(r, spans, false)
}

// CollapsedAround returns the dominant collapsed marker strictly
// surrounding column ch.
func CollapsedAround(r Resolver, spans []lines.MarkedSpan, ch int) (uint64, bool) {
	var found uint64
	ok := false
	for _, s := range spans {
		if !r.Info(s.Marker).Collapsed {
			continue
		}
		if (s.From == lines.Open || s.From < ch) && (s.To == lines.Open || s.To > ch) &&
			(!ok || CompareCollapsed(r, found, s.Marker) < 0) {
			found, ok = s.Marker, true
		}
	}
	return found, ok
}

// Conflicting reports whether a new collapsed marker m over [from, to]
// would partially overlap an existing collapsed marker on a line carrying
// spans. Nesting in either direction and touching at a boundary are
// allowed.
func Conflicting(r Resolver, spans []lines.MarkedSpan, from, to buffer.Pos, m Info) bool {
	for _, s := range spans {
		other := r.Info(s.Marker)
		if !other.Collapsed || s.Marker == m.ID {
			continue
		}
		oFrom, oTo, ok := r.Find(s.Marker)
		if !ok {
			continue
		}
		fromCmp := buffer.Compare(oFrom, from)
		if fromCmp == 0 {
			fromCmp = extraLeft(other) - extraLeft(m)
		}
		toCmp := buffer.Compare(oTo, to)
		if toCmp == 0 {
			toCmp = extraRight(other) - extraRight(m)
		}
		if (fromCmp >= 0 && toCmp <= 0) || (fromCmp <= 0 && toCmp >= 0) {
			continue
		}
		bothInclusive := other.InclusiveRight && m.InclusiveLeft
		if fromCmp <= 0 {
			c := buffer.Compare(oTo, from)
			if c > 0 || (bothInclusive && c == 0) {
				return true
			}
		}
		if fromCmp >= 0 {
			c := buffer.Compare(oFrom, to)
			if c < 0 || (bothInclusive && c == 0) {
				return true
			}
		}
	}
	return false
}

// Hidden reports whether line l is entirely covered by collapsed markers.
func Hidden(r Resolver, l *lines.Line) bool {
	for _, s := range l.Spans {
		m := r.Info(s.Marker)
		if !m.Collapsed {
			continue
		}
		if s.From == lines.Open {
			return true
		}
		if m.HasWidget {
			continue
		}
		if s.From == 0 && m.InclusiveLeft && hiddenInner(r, l, s) {
			return true
		}
	}
	return false
}

func hiddenInner(r Resolver, l *lines.Line, span lines.MarkedSpan) bool {
	if span.To == lines.Open {
		end := r.EndLine(span.Marker)
		if end == nil {
			return false
		}
		next, ok := SpanFor(end.Spans, span.Marker)
		if !ok {
			return false
		}
		return hiddenInner(r, end, next)
	}
	m := r.Info(span.Marker)
	if m.InclusiveRight && span.To == len(l.Text) {
		return true
	}
	for _, s := range l.Spans {
		sm := r.Info(s.Marker)
		if sm.Collapsed && !sm.HasWidget && s.From == span.To &&
			(s.To == lines.Open || s.To != span.From) &&
			(sm.InclusiveLeft || m.InclusiveRight) &&
			hiddenInner(r, l, s) {
			return true
		}
	}
	return false
}
