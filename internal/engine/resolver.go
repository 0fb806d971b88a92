package engine

import (
	"github.com/dshills/linedoc/internal/engine/lines"
	"github.com/dshills/linedoc/internal/engine/spans"
)

// resolver exposes a document's markers to the span algebra.
type resolver struct{ d *Doc }

var _ spans.Resolver = resolver{}

func (r resolver) Info(id uint64) spans.Info {
	if m, ok := r.d.markers[id]; ok {
		return m.info()
	}
	return spans.Info{ID: id}
}

func (r resolver) Find(id uint64) (from, to Pos, ok bool) {
	if m, found := r.d.markers[id]; found {
		return m.Find()
	}
	return Pos{}, Pos{}, false
}

func (r resolver) LineCount(id uint64) int {
	if m, ok := r.d.markers[id]; ok {
		return len(m.lines)
	}
	return 0
}

func (r resolver) EndLine(id uint64) *lines.Line {
	m, ok := r.d.markers[id]
	if !ok {
		return nil
	}
	_, to := m.bounds()
	if !to.ok {
		return nil
	}
	return to.line
}
