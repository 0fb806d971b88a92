package bidi

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	xbidi "golang.org/x/text/unicode/bidi"
)

// Direction is a paragraph base direction.
type Direction uint8

const (
	LTR Direction = iota // Left to right
	RTL                  // Right to left
)

// String returns "ltr" or "rtl".
func (d Direction) String() string {
	if d == RTL {
		return "rtl"
	}
	return "ltr"
}

// ParseDirection parses "ltr" or "rtl" (case-insensitive).
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(s) {
	case "", "ltr":
		return LTR, nil
	case "rtl":
		return RTL, nil
	}
	return LTR, fmt.Errorf("bidi: unknown direction %q", s)
}

// Run is a logical byte range [From, To) rendered in one direction.
// Level is 0 for left-to-right text and 1 for right-to-left text.
// Numeric marks numerals embedded in right-to-left text; they keep level 1
// in the reported order but read left to right.
type Run struct {
	From    int
	To      int
	Level   int
	Numeric bool
}

// RTL returns true if the run is laid out right to left.
func (r Run) RTL() bool {
	return r.Level%2 == 1 && !r.Numeric
}

// String returns a human-readable representation of the run.
func (r Run) String() string {
	if r.Numeric {
		return fmt.Sprintf("[%d:%d)@%dn", r.From, r.To, r.Level)
	}
	return fmt.Sprintf("[%d:%d)@%d", r.From, r.To, r.Level)
}

// Reduced character types, one byte per character:
//
//	L strong left, R strong right, r Arabic letter, 1 European number,
//	n Arabic number, + European separator, % European terminator,
//	, common separator, m non-spacing mark, b boundary neutral,
//	s paragraph separator, t segment separator, w whitespace, N other neutral.
const (
	typeL   = 'L'
	typeR   = 'R'
	typeAL  = 'r'
	typeEN  = '1'
	typeAN  = 'n'
	typeES  = '+'
	typeET  = '%'
	typeCS  = ','
	typeNSM = 'm'
	typeBN  = 'b'
	typeB   = 's'
	typeS   = 't'
	typeWS  = 'w'
	typeON  = 'N'
)

// charType maps a bidi class onto the reduced alphabet.
func charType(c xbidi.Class) byte {
	switch c {
	case xbidi.L:
		return typeL
	case xbidi.R:
		return typeR
	case xbidi.AL:
		return typeAL
	case xbidi.EN:
		return typeEN
	case xbidi.AN:
		return typeAN
	case xbidi.ES:
		return typeES
	case xbidi.ET:
		return typeET
	case xbidi.CS:
		return typeCS
	case xbidi.NSM:
		return typeNSM
	case xbidi.BN, xbidi.Control:
		return typeBN
	case xbidi.B:
		return typeB
	case xbidi.S:
		return typeS
	case xbidi.WS:
		return typeWS
	default:
		return typeON
	}
}

func isNeutral(t byte) bool {
	return t == typeB || t == typeS || t == typeWS || t == typeON
}

func isStrong(t byte) bool {
	return t == typeL || t == typeR || t == typeAL
}

func countsAsLeft(t byte) bool {
	return t == typeL || t == typeBN || t == typeEN || t == typeAN
}

func countsAsNum(t byte) bool {
	return t == typeEN || t == typeAN
}

// classify returns the reduced type and starting byte offset of each
// character, and whether any right-to-left significant character was seen.
func classify(text string) (types []byte, offsets []int, significant bool) {
	types = make([]byte, 0, len(text))
	offsets = make([]int, 0, len(text)+1)
	for i := 0; i < len(text); {
		p, size := xbidi.LookupString(text[i:])
		if size == 0 {
			size = 1
		}
		t := charType(p.Class())
		if t == typeR || t == typeAL || t == typeAN {
			significant = true
		}
		types = append(types, t)
		offsets = append(offsets, i)
		i += size
	}
	offsets = append(offsets, len(text))
	return types, offsets, significant
}

// Order computes the visual ordering of text for the given base direction.
// It returns nil when the text needs no special ordering (empty text, or
// left-to-right text without right-to-left significant characters).
func Order(text string, dir Direction) []Run {
	if len(text) == 0 {
		return nil
	}
	types, offsets, significant := classify(text)
	if dir == LTR && !significant {
		return nil
	}

	outer := byte(typeL)
	if dir == RTL {
		outer = typeR
	}
	resolveWeak(types, outer)
	resolveNeutral(types, outer)

	order := buildRuns(types, dir)
	if dir == LTR {
		order = peelWhitespace(order, text, offsets, len(types))
	}
	for i := range order {
		order[i].From = offsets[order[i].From]
		order[i].To = offsets[order[i].To]
	}
	if dir == RTL {
		for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
			order[i], order[j] = order[j], order[i]
		}
	}
	return order
}

// resolveWeak applies rules W1 through W7.
func resolveWeak(types []byte, outer byte) {
	n := len(types)

	// W1: non-spacing marks take the type of the previous character.
	prev := outer
	for i, t := range types {
		if t == typeNSM {
			types[i] = prev
		} else {
			prev = t
		}
	}

	// W2: European numbers after an Arabic letter become Arabic numbers.
	// W3: Arabic letters become R.
	cur := outer
	for i, t := range types {
		if t == typeEN && cur == typeAL {
			types[i] = typeAN
		} else if isStrong(t) {
			cur = t
			if t == typeAL {
				types[i] = typeR
			}
		}
	}

	// W4: a single separator between two numbers of the same kind joins them.
	if n > 0 {
		prev = types[0]
	}
	for i := 1; i < n-1; i++ {
		t := types[i]
		if t == typeES && prev == typeEN && types[i+1] == typeEN {
			types[i] = typeEN
		} else if t == typeCS && prev == types[i+1] && (prev == typeEN || prev == typeAN) {
			types[i] = prev
		}
		prev = t
	}

	// W5: terminators adjacent to European numbers become numbers.
	// W6: remaining separators and terminators become neutral.
	for i := 0; i < n; i++ {
		t := types[i]
		if t == typeCS || t == typeES {
			types[i] = typeON
			continue
		}
		if t != typeET {
			continue
		}
		end := i + 1
		for end < n && types[end] == typeET {
			end++
		}
		replace := byte(typeON)
		if (i > 0 && types[i-1] == typeEN) || (end < n && types[end] == typeEN) {
			replace = typeEN
		}
		for j := i; j < end; j++ {
			types[j] = replace
		}
		i = end - 1
	}

	// W7: European numbers in a left-to-right context become L.
	cur = outer
	for i, t := range types {
		if cur == typeL && t == typeEN {
			types[i] = typeL
		} else if isStrong(t) {
			cur = t
		}
	}
}

// resolveNeutral applies rules N1 and N2.
func resolveNeutral(types []byte, outer byte) {
	n := len(types)
	for i := 0; i < n; i++ {
		if !isNeutral(types[i]) {
			continue
		}
		end := i + 1
		for end < n && isNeutral(types[end]) {
			end++
		}
		beforeT, afterT := outer, outer
		if i > 0 {
			beforeT = types[i-1]
		}
		if end < n {
			afterT = types[end]
		}
		before, after := beforeT == typeL, afterT == typeL
		replace := outer
		if before == after {
			replace = typeR
			if before {
				replace = typeL
			}
		}
		for j := i; j < end; j++ {
			types[j] = replace
		}
		i = end - 1
	}
}

// buildRuns builds the visual run list directly from resolved types, in
// character indices. Numbers inside right-to-left stretches are spliced in
// according to the embedding direction.
func buildRuns(types []byte, dir Direction) []Run {
	n := len(types)
	var order []Run
	insertAt := func(at int, r Run) {
		order = append(order, Run{})
		copy(order[at+1:], order[at:])
		order[at] = r
	}
	step := 0
	if dir == RTL {
		step = 1
	}

	for i := 0; i < n; {
		if countsAsLeft(types[i]) {
			start := i
			for i++; i < n && countsAsLeft(types[i]); i++ {
			}
			order = append(order, Run{From: start, To: i, Level: 0})
			continue
		}
		pos, at := i, len(order)
		for i++; i < n && types[i] != typeL; i++ {
		}
		for j := pos; j < i; {
			if !countsAsNum(types[j]) {
				j++
				continue
			}
			if pos < j {
				insertAt(at, Run{From: pos, To: j, Level: 1})
				at += step
			}
			nstart := j
			for j++; j < i && countsAsNum(types[j]); j++ {
			}
			insertAt(at, Run{From: nstart, To: j, Level: 1, Numeric: true})
			at += step
			pos = j
		}
		if pos < i {
			insertAt(at, Run{From: pos, To: i, Level: 1})
		}
	}
	return order
}

// peelWhitespace moves leading and trailing whitespace next to a
// right-to-left run into its own left-to-right run.
func peelWhitespace(order []Run, text string, offsets []int, n int) []Run {
	if len(order) == 0 {
		return order
	}
	if first := order[0]; first.Level == 1 && !first.Numeric {
		lead := 0
		for lead < n && isSpaceAt(text, offsets[lead]) {
			lead++
		}
		if lead > 0 && lead < order[0].To {
			order[0].From = lead
			order = append([]Run{{From: 0, To: lead, Level: 0}}, order...)
		}
	}
	if last := order[len(order)-1]; last.Level == 1 && !last.Numeric {
		trail := n
		for trail > 0 && isSpaceAt(text, offsets[trail-1]) {
			trail--
		}
		if trail < n && trail > order[len(order)-1].From {
			order[len(order)-1].To = trail
			order = append(order, Run{From: trail, To: n, Level: 0})
		}
	}
	return order
}

func isSpaceAt(text string, offset int) bool {
	r, _ := utf8.DecodeRuneInString(text[offset:])
	return unicode.IsSpace(r)
}

// PartAt returns the index of the run containing column ch. When ch falls
// on a boundary between two runs, stickyBefore selects the run that ends
// there. other is the index of the run on the opposite side of such a
// boundary, or -1.
func PartAt(order []Run, ch int, stickyBefore bool) (found, other int) {
	found, other = -1, -1
	for i, cur := range order {
		if cur.From < ch && cur.To > ch {
			return i, -1
		}
		if cur.To == ch {
			if cur.From != cur.To && stickyBefore {
				found = i
			} else {
				other = i
			}
		}
		if cur.From == ch {
			if cur.From != cur.To && !stickyBefore {
				found = i
			} else {
				other = i
			}
		}
	}
	if found < 0 {
		return other, -1
	}
	return found, other
}
