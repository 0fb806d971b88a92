package cursor

import (
	"sort"
	"strings"
)

// Selection is an ordered, non-overlapping set of ranges, one of which is
// primary. Selection is an immutable value type; the zero value is a single
// cursor at (0, 0).
type Selection struct {
	ranges  []Range
	primary int
}

// New creates a selection from already-normalized ranges.
// Use Normalize for arbitrary input.
func New(ranges []Range, primary int) Selection {
	if len(ranges) == 0 {
		return Selection{}
	}
	if primary < 0 || primary >= len(ranges) {
		primary = 0
	}
	rs := make([]Range, len(ranges))
	copy(rs, ranges)
	return Selection{ranges: rs, primary: primary}
}

// Simple creates a selection with a single range.
func Simple(anchor, head Pos) Selection {
	return Selection{ranges: []Range{{Anchor: anchor, Head: head}}}
}

// Normalize sorts ranges by their start and merges those that overlap,
// keeping track of which one is primary. When mayTouch is true, ranges
// that merely touch are kept apart unless the later one is empty.
//
// A merged range keeps the orientation of the earlier range (or of the
// later one when the earlier is empty).
func Normalize(ranges []Range, primary int, mayTouch bool) Selection {
	if len(ranges) == 0 {
		return Selection{}
	}
	if primary < 0 || primary >= len(ranges) {
		primary = 0
	}
	order := make([]int, len(ranges))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return ranges[order[i]].From().Before(ranges[order[j]].From())
	})
	rs := make([]Range, len(ranges))
	prim := primary
	for i, idx := range order {
		rs[i] = ranges[idx]
		if idx == prim {
			primary = i
		}
	}

	for i := 1; i < len(rs); i++ {
		cur, prev := rs[i], rs[i-1]
		diff := prev.To().Compare(cur.From())
		overlap := diff >= 0
		if mayTouch && !cur.Empty() {
			overlap = diff > 0
		}
		if !overlap {
			continue
		}
		from, to := minPos(prev.From(), cur.From()), maxPos(prev.To(), cur.To())
		var inv bool
		if prev.Empty() {
			inv = cur.From() == cur.Head
		} else {
			inv = prev.From() == prev.Head
		}
		if i <= primary {
			primary--
		}
		merged := Range{Anchor: from, Head: to}
		if inv {
			merged = Range{Anchor: to, Head: from}
		}
		rs[i-1] = merged
		rs = append(rs[:i], rs[i+1:]...)
		i--
	}
	return Selection{ranges: rs, primary: primary}
}

func minPos(a, b Pos) Pos {
	if a.Before(b) {
		return a
	}
	return b
}

func maxPos(a, b Pos) Pos {
	if a.Before(b) {
		return b
	}
	return a
}

// Ranges returns a copy of all ranges.
// The returned slice is safe to modify without affecting the Selection.
func (s Selection) Ranges() []Range {
	if len(s.ranges) == 0 {
		return []Range{{}}
	}
	out := make([]Range, len(s.ranges))
	copy(out, s.ranges)
	return out
}

// Len returns the number of ranges.
func (s Selection) Len() int {
	if len(s.ranges) == 0 {
		return 1
	}
	return len(s.ranges)
}

// At returns the range at index i.
func (s Selection) At(i int) Range {
	if len(s.ranges) == 0 {
		return Range{}
	}
	return s.ranges[i]
}

// Primary returns the primary range.
func (s Selection) Primary() Range {
	return s.At(s.primary)
}

// PrimaryIndex returns the index of the primary range.
func (s Selection) PrimaryIndex() int {
	return s.primary
}

// IsMulti returns true if there are multiple ranges.
func (s Selection) IsMulti() bool {
	return len(s.ranges) > 1
}

// SomethingSelected returns true if any range is non-empty.
func (s Selection) SomethingSelected() bool {
	for _, r := range s.ranges {
		if !r.Empty() {
			return true
		}
	}
	return false
}

// Contains returns the index of the first range intersecting [pos, end],
// or -1.
func (s Selection) Contains(pos, end Pos) int {
	for i, r := range s.Ranges() {
		if !end.Before(r.From()) && !pos.After(r.To()) {
			return i
		}
	}
	return -1
}

// Equal returns true if both selections have the same ranges, including
// affinity, and the same primary index.
func (s Selection) Equal(other Selection) bool {
	if s.primary != other.primary || s.Len() != other.Len() {
		return false
	}
	for i := 0; i < s.Len(); i++ {
		if !s.At(i).Equal(other.At(i)) {
			return false
		}
	}
	return true
}

// Map applies f to each range and normalizes the result.
func (s Selection) Map(f func(Range) Range, mayTouch bool) Selection {
	rs := s.Ranges()
	for i, r := range rs {
		rs[i] = f(r)
	}
	return Normalize(rs, s.primary, mayTouch)
}

// WithPrimaryOnly returns a selection holding only the primary range.
func (s Selection) WithPrimaryOnly() Selection {
	return Selection{ranges: []Range{s.Primary()}}
}

// String returns a string representation of the selection.
func (s Selection) String() string {
	var b strings.Builder
	for i, r := range s.Ranges() {
		if i > 0 {
			b.WriteString(" ")
		}
		if i == s.primary && s.IsMulti() {
			b.WriteString("*")
		}
		b.WriteString(r.String())
	}
	return b.String()
}
