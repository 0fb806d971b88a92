package lines

import (
	"errors"
	"fmt"
)

// Tree shape constants.
const (
	// LeafChunk is the number of lines a leaf is split into.
	LeafChunk = 25
	// MaxLeafLines is the line count above which a leaf is split.
	MaxLeafLines = 2 * LeafChunk
	// MaxChildren is the child count above which a branch spills.
	MaxChildren = 10
	// SpillChunk is the number of children moved into each new sibling
	// when a branch spills.
	SpillChunk = 5
	// MinBranchLines is the size below which a branch collapses into a leaf.
	MinBranchLines = 25
)

var (
	// ErrOutOfRange is returned when a line number is outside the tree.
	ErrOutOfRange = errors.New("line number out of range")
	// ErrDetached is returned when a line no longer belongs to a tree.
	ErrDetached = errors.New("line is detached")
)

// node is either a leaf holding lines or a branch holding child nodes.
// Each node caches its line count and total height.
type node struct {
	parent   *node
	isLeaf   bool
	lines    []*Line
	children []*node
	size     int
	height   float64
}

func newLeaf(lines []*Line) *node {
	n := &node{isLeaf: true, lines: lines}
	for _, l := range lines {
		l.leaf = n
		n.height += l.height
	}
	n.size = len(lines)
	return n
}

func newBranch(children []*node) *node {
	n := &node{children: children}
	for _, c := range children {
		c.parent = n
		n.size += c.size
		n.height += c.height
	}
	return n
}

// Tree stores a document's lines in a balanced tree of chunks so that
// lookup by number or height and edits are logarithmic.
type Tree struct {
	root  *node
	first int
}

// New creates a tree whose lines are numbered from first.
// A tree always holds at least one line; an empty lines slice gets a
// single empty line.
func New(first int, lines []*Line) *Tree {
	if len(lines) == 0 {
		lines = []*Line{NewLine("", nil)}
	}
	t := &Tree{root: newBranch([]*node{newLeaf(nil)}), first: first}
	t.root.insertInner(0, lines, sumHeight(lines))
	return t
}

// FromText creates a tree with one detached line per string.
func FromText(first int, text []string) *Tree {
	ls := make([]*Line, len(text))
	for i, s := range text {
		ls[i] = NewLine(s, nil)
	}
	return New(first, ls)
}

func sumHeight(lines []*Line) float64 {
	var h float64
	for _, l := range lines {
		h += l.height
	}
	return h
}

// First returns the number of the first line.
func (t *Tree) First() int { return t.first }

// Last returns the number of the last line.
func (t *Tree) Last() int { return t.first + t.root.size - 1 }

// Size returns the number of lines.
func (t *Tree) Size() int { return t.root.size }

// Height returns the total height of all lines.
func (t *Tree) Height() float64 { return t.root.height }

// Shift renumbers the tree by adding delta to the first line number.
func (t *Tree) Shift(delta int) { t.first += delta }

// Contains returns true if n is a valid line number.
func (t *Tree) Contains(n int) bool {
	return n >= t.first && n < t.first+t.root.size
}

// LineAt returns the line with number n.
func (t *Tree) LineAt(n int) (*Line, error) {
	n -= t.first
	if n < 0 || n >= t.root.size {
		return nil, fmt.Errorf("%w: %d not in [%d, %d]", ErrOutOfRange, n+t.first, t.first, t.Last())
	}
	chunk := t.root
	for !chunk.isLeaf {
		for _, child := range chunk.children {
			if n < child.size {
				chunk = child
				break
			}
			n -= child.size
		}
	}
	return chunk.lines[n], nil
}

// MustLineAt is like LineAt but panics on an invalid number.
func (t *Tree) MustLineAt(n int) *Line {
	l, err := t.LineAt(n)
	if err != nil {
		panic(err)
	}
	return l
}

// IndexOf returns the line number of l.
func (t *Tree) IndexOf(l *Line) (int, error) {
	cur := l.leaf
	if cur == nil {
		return 0, ErrDetached
	}
	no := -1
	for i, other := range cur.lines {
		if other == l {
			no = i
			break
		}
	}
	if no < 0 {
		return 0, ErrDetached
	}
	for p := cur.parent; p != nil; cur, p = p, p.parent {
		for _, c := range p.children {
			if c == cur {
				break
			}
			no += c.size
		}
	}
	if cur != t.root {
		return 0, ErrDetached
	}
	return no + t.first, nil
}

// HeightAt returns the summed height of every line above l.
func (t *Tree) HeightAt(l *Line) (float64, error) {
	cur := l.leaf
	if cur == nil {
		return 0, ErrDetached
	}
	var h float64
	for _, other := range cur.lines {
		if other == l {
			break
		}
		h += other.height
	}
	for p := cur.parent; p != nil; cur, p = p, p.parent {
		for _, c := range p.children {
			if c == cur {
				break
			}
			h += c.height
		}
	}
	return h, nil
}

// LineAtHeight returns the number of the line covering vertical offset h.
// Offsets past the end yield the last line.
func (t *Tree) LineAtHeight(h float64) int {
	n := t.first
	chunk := t.root
outer:
	for !chunk.isLeaf {
		for _, child := range chunk.children {
			if h < child.height {
				chunk = child
				continue outer
			}
			h -= child.height
			n += child.size
		}
		return n - 1
	}
	for i, l := range chunk.lines {
		if h < l.height {
			return n + i
		}
		h -= l.height
	}
	return n + len(chunk.lines) - 1
}

// SetHeight updates the height of l and of every chunk containing it.
func (t *Tree) SetHeight(l *Line, h float64) {
	diff := h - l.height
	if diff == 0 {
		return
	}
	l.height = h
	for n := l.leaf; n != nil; n = n.parent {
		n.height += diff
	}
}

// Insert inserts lines before line number at. at may equal Last()+1 to
// append.
func (t *Tree) Insert(at int, lines []*Line) error {
	rel := at - t.first
	if rel < 0 || rel > t.root.size {
		return fmt.Errorf("%w: insert at %d", ErrOutOfRange, at)
	}
	if len(lines) == 0 {
		return nil
	}
	t.root.insertInner(rel, lines, sumHeight(lines))
	return nil
}

// Remove removes n lines starting at line number at and returns them,
// detached.
func (t *Tree) Remove(at, n int) ([]*Line, error) {
	rel := at - t.first
	if rel < 0 || n < 0 || rel+n > t.root.size {
		return nil, fmt.Errorf("%w: remove %d lines at %d", ErrOutOfRange, n, at)
	}
	if n == 0 {
		return nil, nil
	}
	removed := make([]*Line, 0, n)
	t.root.removeInner(rel, n, &removed)
	return removed, nil
}

// Iterate calls fn for each line number in [from, to) in order, stopping
// early when fn returns true.
func (t *Tree) Iterate(from, to int, fn func(no int, l *Line) bool) {
	from = max(from, t.first)
	to = min(to, t.first+t.root.size)
	if from >= to {
		return
	}
	no := from
	t.root.iterN(from-t.first, to-from, func(l *Line) bool {
		stop := fn(no, l)
		no++
		return stop
	})
}

// Lines returns the lines in [from, to).
func (t *Tree) Lines(from, to int) []*Line {
	var out []*Line
	t.Iterate(from, to, func(_ int, l *Line) bool {
		out = append(out, l)
		return false
	})
	return out
}

// Text returns the text of every line in order.
func (t *Tree) Text() []string {
	out := make([]string, 0, t.root.size)
	t.root.iterN(0, t.root.size, func(l *Line) bool {
		out = append(out, l.Text)
		return false
	})
	return out
}

func (n *node) insertInner(at int, lines []*Line, height float64) {
	n.size += len(lines)
	n.height += height
	if n.isLeaf {
		merged := make([]*Line, 0, len(n.lines)+len(lines))
		merged = append(merged, n.lines[:at]...)
		merged = append(merged, lines...)
		merged = append(merged, n.lines[at:]...)
		n.lines = merged
		for _, l := range lines {
			l.leaf = n
		}
		return
	}
	if len(n.children) == 0 {
		leaf := newLeaf(append([]*Line(nil), lines...))
		leaf.parent = n
		n.children = []*node{leaf}
		return
	}
	for i, child := range n.children {
		if at > child.size {
			at -= child.size
			continue
		}
		child.insertInner(at, lines, height)
		if child.isLeaf && len(child.lines) > MaxLeafLines {
			// Split into chunks of LeafChunk lines, keeping the
			// remainder (between LeafChunk and MaxLeafLines) in child.
			remaining := len(child.lines)%LeafChunk + LeafChunk
			var extra []*node
			for pos := remaining; pos < len(child.lines); pos += LeafChunk {
				leaf := newLeaf(append([]*Line(nil), child.lines[pos:pos+LeafChunk]...))
				leaf.parent = n
				child.height -= leaf.height
				extra = append(extra, leaf)
			}
			child.lines = child.lines[:remaining:remaining]
			child.size = remaining
			kids := make([]*node, 0, len(n.children)+len(extra))
			kids = append(kids, n.children[:i+1]...)
			kids = append(kids, extra...)
			kids = append(kids, n.children[i+1:]...)
			n.children = kids
			n.maybeSpill()
		}
		return
	}
}

// maybeSpill carves SpillChunk children at a time off a branch with too
// many children into new siblings, then checks the parent.
func (n *node) maybeSpill() {
	if len(n.children) <= MaxChildren {
		return
	}
	me := n
	for {
		cut := len(me.children) - SpillChunk
		spilled := append([]*node(nil), me.children[cut:]...)
		me.children = me.children[:cut:cut]
		sibling := newBranch(spilled)
		if me.parent == nil {
			// The root keeps its identity and becomes the parent of
			// both parts.
			kept := newBranch(me.children)
			me.children = []*node{kept, sibling}
			kept.parent, sibling.parent = me, me
			me = kept
		} else {
			me.size -= sibling.size
			me.height -= sibling.height
			p := me.parent
			idx := p.indexOf(me)
			kids := make([]*node, 0, len(p.children)+1)
			kids = append(kids, p.children[:idx+1]...)
			kids = append(kids, sibling)
			kids = append(kids, p.children[idx+1:]...)
			p.children = kids
			sibling.parent = p
		}
		if len(me.children) <= MaxChildren {
			break
		}
	}
	me.parent.maybeSpill()
}

func (n *node) indexOf(child *node) int {
	for i, c := range n.children {
		if c == child {
			return i
		}
	}
	return -1
}

func (n *node) removeInner(at, count int, removed *[]*Line) {
	n.size -= count
	if n.isLeaf {
		for _, l := range n.lines[at : at+count] {
			n.height -= l.height
			l.leaf = nil
			*removed = append(*removed, l)
		}
		n.lines = append(n.lines[:at:at], n.lines[at+count:]...)
		return
	}
	for i := 0; i < len(n.children); i++ {
		child := n.children[i]
		sz := child.size
		if at < sz {
			rm := min(count, sz-at)
			oldHeight := child.height
			child.removeInner(at, rm, removed)
			n.height -= oldHeight - child.height
			if sz == rm {
				n.children = append(n.children[:i:i], n.children[i+1:]...)
				child.parent = nil
				i--
			}
			count -= rm
			if count == 0 {
				break
			}
			at = 0
		} else {
			at -= sz
		}
	}
	// Collapse a small subtree into a single leaf.
	if n.size < MinBranchLines && (len(n.children) > 1 || (len(n.children) == 1 && !n.children[0].isLeaf)) {
		var ls []*Line
		n.collect(&ls)
		leaf := newLeaf(ls)
		leaf.parent = n
		n.children = []*node{leaf}
	}
}

func (n *node) collect(out *[]*Line) {
	if n.isLeaf {
		*out = append(*out, n.lines...)
		return
	}
	for _, c := range n.children {
		c.collect(out)
	}
}

func (n *node) iterN(at, count int, fn func(*Line) bool) bool {
	if n.isLeaf {
		for _, l := range n.lines[at : at+count] {
			if fn(l) {
				return true
			}
		}
		return false
	}
	for _, child := range n.children {
		sz := child.size
		if at < sz {
			used := min(count, sz-at)
			if child.iterN(at, used, fn) {
				return true
			}
			count -= used
			if count == 0 {
				break
			}
			at = 0
		} else {
			at -= sz
		}
	}
	return false
}

// Check verifies the cached sizes, heights, and parent links of the
// whole tree and panics if any disagree.
func (t *Tree) Check() {
	if t.root.size < 1 {
		panic("lines: tree is empty")
	}
	t.root.check(nil)
}

func (n *node) check(parent *node) (int, float64) {
	if n.parent != parent {
		panic("lines: bad parent link")
	}
	var size int
	var height float64
	if n.isLeaf {
		if len(n.lines) > MaxLeafLines {
			panic(fmt.Sprintf("lines: leaf holds %d lines", len(n.lines)))
		}
		for _, l := range n.lines {
			if l.leaf != n {
				panic("lines: line points at wrong leaf")
			}
			height += l.height
		}
		size = len(n.lines)
	} else {
		if len(n.children) > MaxChildren {
			panic(fmt.Sprintf("lines: branch holds %d children", len(n.children)))
		}
		for _, c := range n.children {
			s, h := c.check(n)
			size += s
			height += h
		}
	}
	if size != n.size {
		panic(fmt.Sprintf("lines: cached size %d, actual %d", n.size, size))
	}
	if diff := height - n.height; diff > 1e-6 || diff < -1e-6 {
		panic(fmt.Sprintf("lines: cached height %g, actual %g", n.height, height))
	}
	return size, height
}
