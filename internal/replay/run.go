package replay

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/dshills/linedoc/internal/engine"
)

// MarkResult reports where a named marker ended up.
type MarkResult struct {
	Name  string `yaml:"name"`
	Kind  string `yaml:"kind"`
	Found bool   `yaml:"found"`
	From  string `yaml:"from,omitempty"`
	To    string `yaml:"to,omitempty"`
}

// Result is the state of the document after a script ran.
type Result struct {
	Text      string       `yaml:"text"`
	Selection string       `yaml:"selection"`
	Undo      int          `yaml:"undo"`
	Redo      int          `yaml:"redo"`
	Marks     []MarkResult `yaml:"marks,omitempty"`
	Rejected  []string     `yaml:"rejected,omitempty"`
	History   string       `yaml:"history"`

	doc *engine.Doc
}

// Doc returns the document the script ran on.
func (r *Result) Doc() *engine.Doc { return r.doc }

type runner struct {
	doc      *engine.Doc
	log      *zap.Logger
	markers  map[string]*engine.TextMarker
	names    []string
	rejected []string
}

// Run executes s on a new document built with opts. Steps rejected by
// document state (read-only text, blocked selection, empty history) are
// listed in the result; any other failure stops the run.
func Run(s *Script, log *zap.Logger, opts ...engine.Option) (*Result, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if s.LineSeparator != "" {
		opts = append(opts, engine.WithLineSeparator(s.LineSeparator))
	}
	r := &runner{
		doc:     engine.New(s.Text, append(opts, engine.WithLogger(log))...),
		log:     log,
		markers: make(map[string]*engine.TextMarker),
	}
	r.doc.Checkpoint("start")
	if err := r.steps(s.Steps); err != nil {
		return nil, err
	}
	return r.result()
}

func (r *runner) steps(steps []Step) error {
	for i := range steps {
		st := &steps[i]
		err := r.step(st)
		if err == nil {
			continue
		}
		if rejected(err) {
			msg := fmt.Sprintf("line %d: %v", st.line, err)
			r.log.Debug("step rejected", zap.Int("line", st.line), zap.Error(err))
			r.rejected = append(r.rejected, msg)
			continue
		}
		return fmt.Errorf("step at line %d: %w", st.line, err)
	}
	return nil
}

func rejected(err error) bool {
	return engine.IsRejected(err) || errors.Is(err, engine.ErrNothingToUndo) ||
		errors.Is(err, engine.ErrNothingToRedo) || errors.Is(err, engine.ErrCollapsedOverlap)
}

func (r *runner) step(st *Step) error {
	d := r.doc
	switch {
	case st.Replace != nil:
		to := st.Replace.From
		if st.Replace.To != nil {
			to = *st.Replace.To
		}
		return d.ReplaceRange(st.Replace.Text, engine.Pos(st.Replace.From), engine.Pos(to), st.Replace.Origin)
	case st.Select != nil:
		head := st.Select.Anchor
		if st.Select.Head != nil {
			head = *st.Select.Head
		}
		d.SetSelection(engine.Simple(engine.Pos(st.Select.Anchor), engine.Pos(head)),
			engine.SelectionOptions{Origin: st.Select.Origin})
		return nil
	case st.Type != nil:
		return d.ReplaceSelection(*st.Type, "+input")
	case st.Mark != nil:
		m, err := d.MarkText(engine.Pos(st.Mark.From), engine.Pos(st.Mark.To), st.Mark.options())
		if err != nil {
			return err
		}
		r.remember(st.Mark.Name, m)
		return nil
	case st.Bookmark != nil:
		m := d.SetBookmark(engine.Pos(st.Bookmark.At), engine.BookmarkOptions{InsertLeft: st.Bookmark.InsertLeft})
		r.remember(st.Bookmark.Name, m)
		return nil
	case st.Clear != "":
		m, ok := r.markers[st.Clear]
		if !ok {
			return fmt.Errorf("%w: no marker named %q", ErrInvalidScript, st.Clear)
		}
		m.Clear()
		return nil
	case st.Undo > 0:
		return repeat(st.Undo, d.Undo)
	case st.Redo > 0:
		return repeat(st.Redo, d.Redo)
	case st.UndoSelection > 0:
		return repeat(st.UndoSelection, d.UndoSelection)
	case st.RedoSelection > 0:
		return repeat(st.RedoSelection, d.RedoSelection)
	case st.Checkpoint != "":
		d.Checkpoint(st.Checkpoint)
		return nil
	case len(st.Operation) > 0:
		var err error
		d.Operation(func() { err = r.steps(st.Operation) })
		return err
	}
	return fmt.Errorf("%w: empty step", ErrInvalidScript)
}

func repeat(n int, fn func() error) error {
	for i := 0; i < n; i++ {
		if err := fn(); err != nil {
			return err
		}
	}
	return nil
}

func (r *runner) remember(name string, m *engine.TextMarker) {
	if name == "" {
		name = fmt.Sprintf("#%d", m.ID())
	}
	if _, seen := r.markers[name]; !seen {
		r.names = append(r.names, name)
	}
	r.markers[name] = m
}

func (r *runner) result() (*Result, error) {
	d := r.doc
	hist, err := d.HistoryJSON()
	if err != nil {
		return nil, fmt.Errorf("encode history: %w", err)
	}
	undo, redo := d.HistorySize()
	res := &Result{
		Text:      d.Value(),
		Selection: d.Selection().String(),
		Undo:      undo,
		Redo:      redo,
		Rejected:  r.rejected,
		History:   string(hist),
		doc:       d,
	}
	for _, name := range r.names {
		m := r.markers[name]
		mr := MarkResult{Name: name, Kind: m.Kind().String()}
		if from, to, ok := m.Find(); ok {
			mr.Found, mr.From, mr.To = true, from.String(), to.String()
		}
		res.Marks = append(res.Marks, mr)
	}
	return res, nil
}

// Diff returns the unified diff between the script's initial text and
// the result, or since checkpoint when it is not empty.
func (r *Result) Diff(checkpoint string, context int) (string, error) {
	if checkpoint == "" {
		checkpoint = "start"
	}
	return r.doc.DiffSince(checkpoint, context)
}
