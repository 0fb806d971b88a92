package tracking

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/dshills/linedoc/internal/engine/buffer"
)

// DefaultMaxChanges is the default number of changes kept in the log.
const DefaultMaxChanges = 10000

// Errors returned by tracker queries.
var (
	ErrRevisionEvicted    = errors.New("revision no longer in change log")
	ErrCheckpointNotFound = errors.New("checkpoint not found")
)

// Revision numbers document states. Revision 0 is the initial text and
// every applied change produces the next revision.
type Revision uint64

// Entry is one logged change.
type Entry struct {
	Revision Revision
	Change   buffer.Change
}

// Checkpoint is the text of a document at a revision.
type Checkpoint struct {
	Name     string
	Revision Revision
	Text     []string
	Created  time.Time
}

// TrackerOption configures a Tracker.
type TrackerOption func(*Tracker)

// WithMaxChanges bounds the change log.
func WithMaxChanges(n int) TrackerOption {
	return func(t *Tracker) {
		if n > 0 {
			t.max = n
		}
	}
}

// Tracker is a bounded change log plus named checkpoints.
type Tracker struct {
	mu sync.RWMutex

	entries []Entry // ring buffer
	head    int     // index of the oldest entry
	count   int
	max     int
	rev     Revision

	checkpoints map[string]Checkpoint
}

// NewTracker creates an empty tracker at revision 0.
func NewTracker(opts ...TrackerOption) *Tracker {
	t := &Tracker{max: DefaultMaxChanges, checkpoints: make(map[string]Checkpoint)}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Revision returns the current revision.
func (t *Tracker) Revision() Revision {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.rev
}

// Record logs an applied change and returns the revision it produced.
func (t *Tracker) Record(change buffer.Change) Revision {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.rev++
	e := Entry{Revision: t.rev, Change: change.Clone()}
	if t.count < t.max {
		if len(t.entries) < t.max {
			t.entries = append(t.entries, e)
		} else {
			t.entries[(t.head+t.count)%t.max] = e
		}
		t.count++
		return t.rev
	}
	t.entries[t.head] = e
	t.head = (t.head + 1) % t.max
	return t.rev
}

func (t *Tracker) at(i int) Entry {
	return t.entries[(t.head+i)%len(t.entries)]
}

// ChangesSince returns the changes applied after revision rev, oldest
// first. It fails when some of them were evicted.
func (t *Tracker) ChangesSince(rev Revision) ([]buffer.Change, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	oldest := t.rev - Revision(t.count)
	if rev < oldest {
		return nil, ErrRevisionEvicted
	}
	var out []buffer.Change
	for i := 0; i < t.count; i++ {
		if e := t.at(i); e.Revision > rev {
			out = append(out, e.Change.Clone())
		}
	}
	return out, nil
}

// Latest returns up to n of the most recent entries, oldest first.
func (t *Tracker) Latest(n int) []Entry {
	t.mu.RLock()
	defer t.mu.RUnlock()

	n = min(n, t.count)
	out := make([]Entry, 0, n)
	for i := t.count - n; i < t.count; i++ {
		out = append(out, t.at(i))
	}
	return out
}

// Len returns the number of logged changes.
func (t *Tracker) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.count
}

// Checkpoint stores text under name, replacing any checkpoint of that
// name.
func (t *Tracker) Checkpoint(name string, rev Revision, text []string) Checkpoint {
	cp := Checkpoint{Name: name, Revision: rev, Text: append([]string(nil), text...), Created: time.Now()}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.checkpoints[name] = cp
	return cp
}

// GetCheckpoint returns the checkpoint called name.
func (t *Tracker) GetCheckpoint(name string) (Checkpoint, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	cp, ok := t.checkpoints[name]
	if !ok {
		return Checkpoint{}, ErrCheckpointNotFound
	}
	return cp, nil
}

// DeleteCheckpoint removes the checkpoint called name.
func (t *Tracker) DeleteCheckpoint(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.checkpoints, name)
}

// Checkpoints returns the checkpoint names, sorted.
func (t *Tracker) Checkpoints() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	names := make([]string, 0, len(t.checkpoints))
	for name := range t.checkpoints {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
