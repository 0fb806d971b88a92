package engine

import "sync/atomic"

// ChangeKind describes what about a range of lines changed.
type ChangeKind uint8

const (
	FullRange ChangeKind = iota // Lines were added, removed or rebuilt
	LineText                    // The text of a single line changed
	LineClass                   // Classes of a single line changed
	Gutter                      // Gutter content changed
	Widget                      // A line widget or marker widget changed
)

// String returns a human-readable representation of the kind.
func (k ChangeKind) String() string {
	switch k {
	case LineText:
		return "text"
	case LineClass:
		return "class"
	case Gutter:
		return "gutter"
	case Widget:
		return "widget"
	default:
		return "full"
	}
}

// Observer receives change notifications. Notifications issued inside an
// operation are delivered in order when the outermost operation ends.
type Observer interface {
	// LinesChanged reports that lines [from, to), numbered as they were
	// when the notification was issued, need to be redisplayed.
	LinesChanged(from, to int, kind ChangeKind)
	// SelectionChanged reports that the selection changed.
	SelectionChanged()
}

// ObserverFuncs adapts plain functions to Observer. Nil fields are
// ignored.
type ObserverFuncs struct {
	Lines     func(from, to int, kind ChangeKind)
	Selection func()
}

// LinesChanged calls f.Lines.
func (f ObserverFuncs) LinesChanged(from, to int, kind ChangeKind) {
	if f.Lines != nil {
		f.Lines(from, to, kind)
	}
}

// SelectionChanged calls f.Selection.
func (f ObserverFuncs) SelectionChanged() {
	if f.Selection != nil {
		f.Selection()
	}
}

type lineChange struct {
	from, to int
	kind     ChangeKind
}

// operation batches notifications. Its id also groups history events.
type operation struct {
	id         uint64
	changes    []lineChange
	selChanged bool
}

// opIDs hands out operation ids shared by every document, so that an
// operation spanning linked documents never collides with another one.
var opIDs atomic.Uint64

// AddObserver registers o for change notifications.
func (d *Doc) AddObserver(o Observer) {
	d.observers = append(d.observers, o)
}

// RemoveObserver unregisters o.
func (d *Doc) RemoveObserver(o Observer) {
	for i, other := range d.observers {
		if other == o {
			d.observers = append(d.observers[:i], d.observers[i+1:]...)
			return
		}
	}
}

// Operation runs fn as one operation: notifications are delivered when it
// returns and changes made inside it form one undo step. Nested
// operations join the outermost one.
func (d *Doc) Operation(fn func()) {
	d.runOp(fn)
}

func (d *Doc) runOp(fn func()) {
	if d.op != nil {
		fn()
		return
	}
	op := &operation{id: opIDs.Add(1)}
	d.op = op
	defer d.endOp(op)
	fn()
}

func (d *Doc) endOp(op *operation) {
	d.op = nil
	if len(d.observers) == 0 {
		return
	}
	observers := append([]Observer(nil), d.observers...)
	for _, c := range op.changes {
		for _, o := range observers {
			o.LinesChanged(c.from, c.to, c.kind)
		}
	}
	if op.selChanged {
		for _, o := range observers {
			o.SelectionChanged()
		}
	}
}

// opID returns the id of the running operation, or 0 outside one.
func (d *Doc) opID() uint64 {
	if d.op == nil {
		return 0
	}
	return d.op.id
}

func (d *Doc) notifyLines(from, to int, kind ChangeKind) {
	if d.op == nil {
		d.runOp(func() { d.notifyLines(from, to, kind) })
		return
	}
	c := lineChange{from: from, to: to, kind: kind}
	if n := len(d.op.changes); n > 0 && d.op.changes[n-1] == c {
		return
	}
	d.op.changes = append(d.op.changes, c)
}

func (d *Doc) notifyLine(n int, kind ChangeKind) {
	d.notifyLines(n, n+1, kind)
}

func (d *Doc) notifySelection() {
	if d.op == nil {
		d.runOp(d.notifySelection)
		return
	}
	d.op.selChanged = true
}
