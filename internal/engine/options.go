package engine

import (
	"time"

	"go.uber.org/zap"

	"github.com/dshills/linedoc/internal/engine/bidi"
	"github.com/dshills/linedoc/internal/engine/history"
	"github.com/dshills/linedoc/internal/engine/mode"
)

// Default configuration values.
const (
	DefaultUndoDepth  = 200
	DefaultEventDelay = history.DefaultEventDelay
)

// Option configures a Doc during creation.
type Option func(*Doc)

// WithUndoDepth caps the number of change groups kept in history.
func WithUndoDepth(depth int) Option {
	return func(d *Doc) {
		if depth > 0 {
			d.undoDepth = depth
		}
	}
}

// WithHistoryEventDelay sets the window within which "+" origin changes
// merge into one undo step.
func WithHistoryEventDelay(delay time.Duration) Option {
	return func(d *Doc) {
		if delay > 0 {
			d.eventDelay = delay
		}
	}
}

// WithSelectionsMayTouch keeps touching selection ranges apart instead
// of merging them.
func WithSelectionsMayTouch(mayTouch bool) Option {
	return func(d *Doc) {
		d.mayTouch = mayTouch
	}
}

// WithLineSeparator sets the separator used when joining lines. An empty
// separator means "\n". Input is always split on any line break.
func WithLineSeparator(sep string) Option {
	return func(d *Doc) {
		d.lineSep = sep
	}
}

// WithDirection sets the base text direction.
func WithDirection(dir bidi.Direction) Option {
	return func(d *Doc) {
		d.direction = dir
	}
}

// WithMode sets the tokenizer mode.
func WithMode(m mode.Mode) Option {
	return func(d *Doc) {
		if m != nil {
			d.mode = m
		}
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(log *zap.Logger) Option {
	return func(d *Doc) {
		if log != nil {
			d.log = log
		}
	}
}

// WithObserver registers an observer at creation time.
func WithObserver(o Observer) Option {
	return func(d *Doc) {
		if o != nil {
			d.observers = append(d.observers, o)
		}
	}
}

// WithFirstLine sets the number of the first line.
func WithFirstLine(first int) Option {
	return func(d *Doc) {
		d.first = first
	}
}

// WithReadOnly creates a read-only document.
// Edits return ErrReadOnly.
func WithReadOnly() Option {
	return func(d *Doc) {
		d.readOnly = true
	}
}

// WithClock sets the time source used for history merging.
func WithClock(now func() time.Time) Option {
	return func(d *Doc) {
		if now != nil {
			d.now = now
		}
	}
}
