package engine

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/dshills/linedoc/internal/engine/lines"
	"github.com/dshills/linedoc/internal/engine/mode"
)

// Mode returns the tokenizer mode.
func (d *Doc) Mode() mode.Mode { return d.mode }

// SetMode changes the tokenizer mode and drops all cached states.
func (d *Doc) SetMode(m mode.Mode) {
	if m == nil {
		m = mode.Null{}
	}
	d.mode = m
	d.tree.Iterate(d.FirstLine(), d.LastLine()+1, func(_ int, l *lines.Line) bool {
		l.State = nil
		return false
	})
	d.frontier = d.FirstLine()
	d.runOp(func() {
		d.notifyLines(d.FirstLine(), d.LastLine()+1, FullRange)
	})
}

// invalidateStates drops cached states from line n on.
func (d *Doc) invalidateStates(n int) {
	d.frontier = min(d.frontier, n)
}

// StateAfter returns a copy of the tokenizer state at the end of line n,
// tokenizing from the last cached line as needed. For lines before the
// first line it returns the start state.
func (d *Doc) StateAfter(n int) (mode.State, error) {
	if n < d.FirstLine() {
		return d.mode.StartState(), nil
	}
	n = d.ClipLine(n)
	if n < d.frontier {
		return d.mode.CopyState(d.tree.MustLineAt(n).State), nil
	}

	var state mode.State
	if d.frontier <= d.FirstLine() {
		state = d.mode.StartState()
	} else {
		state = d.mode.CopyState(d.tree.MustLineAt(d.frontier - 1).State)
	}
	var err error
	d.tree.Iterate(d.frontier, n+1, func(no int, l *lines.Line) bool {
		if _, err = mode.ProcessLine(d.mode, l.Text, state); err != nil {
			d.log.Warn("tokenizer stalled", zap.Int("line", no), zap.String("mode", d.mode.Name()))
			err = fmt.Errorf("line %d: %w", no, err)
			return true
		}
		l.State = d.mode.CopyState(state)
		d.frontier = no + 1
		return false
	})
	if err != nil {
		return nil, err
	}
	return d.mode.CopyState(state), nil
}

// LineTokens returns the tokens of line n.
func (d *Doc) LineTokens(n int) ([]mode.Token, error) {
	l, err := d.tree.LineAt(n)
	if err != nil {
		return nil, err
	}
	state, err := d.StateAfter(n - 1)
	if err != nil {
		return nil, err
	}
	tokens, err := mode.ProcessLine(d.mode, l.Text, state)
	if err != nil {
		return tokens, fmt.Errorf("line %d: %w", n, err)
	}
	return tokens, nil
}
