package engine

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dshills/linedoc/internal/engine/bidi"
	"github.com/dshills/linedoc/internal/engine/buffer"
	"github.com/dshills/linedoc/internal/engine/cursor"
	"github.com/dshills/linedoc/internal/engine/history"
	"github.com/dshills/linedoc/internal/engine/lines"
	"github.com/dshills/linedoc/internal/engine/mode"
	"github.com/dshills/linedoc/internal/engine/tracking"
)

// Re-export commonly used types for convenience.
type (
	// Pos is a line/column position.
	Pos = buffer.Pos

	// Change is a replacement of a range of text.
	Change = buffer.Change

	// Range is a selection range.
	Range = cursor.Range

	// Selection is a set of ranges with a primary one.
	Selection = cursor.Selection

	// Revision numbers document states in the change log.
	Revision = tracking.Revision

	// Collapse selects the selection left by ReplaceSelections.
	Collapse = cursor.Collapse
)

// Collapse modes for ReplaceSelections.
const (
	CollapseEnd    = cursor.CollapseEnd
	CollapseStart  = cursor.CollapseStart
	CollapseAround = cursor.CollapseAround
)

// P is shorthand for a position without affinity.
func P(line, ch int) Pos { return buffer.P(line, ch) }

// Simple returns a selection holding the single range anchor..head.
func Simple(anchor, head Pos) Selection { return cursor.Simple(anchor, head) }

// Doc is a document: a line store with a selection, a history, markers
// and links to other documents viewing the same text.
//
// Doc is not safe for concurrent use. Linked documents share history and
// see each other's changes synchronously, so a family of linked documents
// must be driven by a single caller.
type Doc struct {
	id   uuid.UUID
	tree *lines.Tree

	// first is only used while applying options.
	first int

	sel             Selection
	history         *history.History
	cleanGeneration int
	linked          []link

	markers map[uint64]*TextMarker
	// detached collects markers that lost a line during a change.
	detached []uint64

	cantEdit bool
	readOnly bool
	suppress int
	extend   bool

	// Configuration
	undoDepth  int
	eventDelay time.Duration
	mayTouch   bool
	lineSep    string
	direction  bidi.Direction

	// Tokenizer state cache: lines before frontier hold a valid State.
	mode     mode.Mode
	frontier int

	// heights holds the measured height of lines that are hidden.
	heights map[*lines.Line]float64

	observers []Observer
	op        *operation

	now     func() time.Time
	log     *zap.Logger
	tracker *tracking.Tracker
	orders  *bidi.Cache
}

// New creates a document holding text with the given options.
func New(text string, opts ...Option) *Doc {
	d := newDoc(buffer.SplitLines(text), opts...)
	return d
}

func newDoc(text []string, opts ...Option) *Doc {
	d := &Doc{
		id:         uuid.New(),
		undoDepth:  DefaultUndoDepth,
		eventDelay: DefaultEventDelay,
		markers:    make(map[uint64]*TextMarker),
		heights:    make(map[*lines.Line]float64),
		mode:       mode.Null{},
		now:        time.Now,
		log:        zap.NewNop(),
		tracker:    tracking.NewTracker(),
		orders:     bidi.NewCache(bidi.DefaultCacheSize),
	}
	for _, opt := range opts {
		opt(d)
	}
	if len(text) == 0 {
		text = []string{""}
	}
	d.tree = lines.FromText(d.first, text)
	d.frontier = d.first
	d.history = history.New(d.undoDepth, d.eventDelay)
	d.cleanGeneration = d.history.Generation()
	d.sel = cursor.Simple(P(d.first, 0), P(d.first, 0))
	return d
}

// ID returns the document's unique identifier.
func (d *Doc) ID() uuid.UUID { return d.id }

// Value returns the whole text joined with the line separator.
func (d *Doc) Value() string {
	return buffer.JoinLines(d.tree.Text(), d.LineSeparator())
}

// Lines returns the text of every line.
func (d *Doc) Lines() []string {
	return d.tree.Text()
}

// Line returns the text of line n.
func (d *Doc) Line(n int) (string, error) {
	l, err := d.tree.LineAt(n)
	if err != nil {
		return "", err
	}
	return l.Text, nil
}

// LineCount returns the number of lines.
func (d *Doc) LineCount() int { return d.tree.Size() }

// FirstLine returns the number of the first line.
func (d *Doc) FirstLine() int { return d.tree.First() }

// LastLine returns the number of the last line.
func (d *Doc) LastLine() int { return d.tree.Last() }

// LineSeparator returns the separator used to join lines.
func (d *Doc) LineSeparator() string {
	if d.lineSep == "" {
		return "\n"
	}
	return d.lineSep
}

// Direction returns the base text direction.
func (d *Doc) Direction() bidi.Direction { return d.direction }

// SetDirection changes the base text direction.
func (d *Doc) SetDirection(dir bidi.Direction) {
	if dir == d.direction {
		return
	}
	d.direction = dir
	d.runOp(func() {
		d.notifyLines(d.FirstLine(), d.LastLine()+1, FullRange)
	})
}

// LineOrder returns the bidi runs of line n, or nil when the line needs no
// reordering.
func (d *Doc) LineOrder(n int) ([]bidi.Run, error) {
	text, err := d.Line(n)
	if err != nil {
		return nil, err
	}
	return d.orders.Order(text, d.direction), nil
}

// Iterate calls fn for every line in [from, to) until fn returns true.
func (d *Doc) Iterate(from, to int, fn func(n int, text string) bool) {
	d.tree.Iterate(from, to, func(n int, l *lines.Line) bool {
		return fn(n, l.Text)
	})
}

// Clip clamps pos into the document.
func (d *Doc) Clip(pos Pos) Pos {
	first, last := d.FirstLine(), d.LastLine()
	if pos.Line < first {
		return P(first, 0)
	}
	if pos.Line > last {
		return P(last, d.tree.MustLineAt(last).Len())
	}
	return buffer.ClipToLen(pos, d.tree.MustLineAt(pos.Line).Len())
}

// ClipLine clamps a line number into the document.
func (d *Doc) ClipLine(n int) int {
	return max(d.FirstLine(), min(n, d.LastLine()))
}

// between returns the text from from to to, one entry per line.
func (d *Doc) between(from, to Pos) []string {
	var out []string
	d.tree.Iterate(from.Line, to.Line+1, func(n int, l *lines.Line) bool {
		text := l.Text
		if n == to.Line {
			text = text[:min(to.Ch, len(text))]
		}
		if n == from.Line {
			text = text[min(from.Ch, len(text)):]
		}
		out = append(out, text)
		return false
	})
	return out
}

// Range returns the text between two positions.
func (d *Doc) Range(from, to Pos) string {
	from, to = d.Clip(from), d.Clip(to)
	if to.Before(from) {
		from, to = to, from
	}
	return strings.Join(d.between(from, to), d.LineSeparator())
}

// PosFromIndex converts a character offset, counting separators, into a
// position.
func (d *Doc) PosFromIndex(off int) Pos {
	sep := len(d.LineSeparator())
	no, ch := d.FirstLine(), 0
	found := false
	d.tree.Iterate(d.FirstLine(), d.LastLine()+1, func(n int, l *lines.Line) bool {
		size := l.Len() + sep
		if size > off {
			no, ch, found = n, off, true
			return true
		}
		off -= size
		return false
	})
	if !found {
		no = d.LastLine() + 1
	}
	return d.Clip(P(no, ch))
}

// IndexFromPos converts a position into a character offset, counting
// separators.
func (d *Doc) IndexFromPos(pos Pos) int {
	pos = d.Clip(pos)
	index := pos.Ch
	sep := len(d.LineSeparator())
	d.tree.Iterate(d.FirstLine(), pos.Line, func(_ int, l *lines.Line) bool {
		index += l.Len() + sep
		return false
	})
	return index
}

// ReadOnly returns true for read-only documents.
func (d *Doc) ReadOnly() bool { return d.readOnly }

// SetReadOnly changes whether the document accepts edits.
func (d *Doc) SetReadOnly(readOnly bool) { d.readOnly = readOnly }

// Blocked returns true while the selection cannot be placed outside
// atomic markers. Edits are rejected until it is cleared.
func (d *Doc) Blocked() bool { return d.cantEdit }

// SuppressEdits runs fn with edits to the document rejected.
func (d *Doc) SuppressEdits(fn func()) {
	d.suppress++
	defer func() { d.suppress-- }()
	fn()
}

// editable reports why edits are currently rejected, or nil.
func (d *Doc) editable() error {
	switch {
	case d.readOnly:
		return ErrReadOnly
	case d.suppress > 0:
		return ErrSuppressed
	case d.cantEdit:
		return ErrBlocked
	}
	return nil
}

// Revision returns the revision of the last applied change.
func (d *Doc) Revision() Revision { return d.tracker.Revision() }

// ChangesSince returns the changes applied to this document after rev.
func (d *Doc) ChangesSince(rev Revision) ([]Change, error) {
	return d.tracker.ChangesSince(rev)
}

// Checkpoint records the current text under name.
func (d *Doc) Checkpoint(name string) Revision {
	return d.tracker.Checkpoint(name, d.Revision(), d.Lines()).Revision
}

// DiffSince returns a unified diff from checkpoint name to the current
// text, or "" when nothing changed.
func (d *Doc) DiffSince(name string, context int) (string, error) {
	cp, err := d.tracker.GetCheckpoint(name)
	if err != nil {
		return "", err
	}
	return tracking.Unified(cp.Text, d.Lines(), name, "current", context)
}
