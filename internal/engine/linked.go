package engine

import (
	"go.uber.org/zap"

	"github.com/dshills/linedoc/internal/engine/mode"
)

// link is one edge of the tree of linked documents.
type link struct {
	doc        *Doc
	sharedHist bool
	isParent   bool
}

// LinkOptions configures LinkedDoc.
type LinkOptions struct {
	// From and To restrict the new document to lines [From, To). Nil
	// means the start or end of the document.
	From *int
	To   *int
	// SharedHistory makes both documents use one history.
	SharedHistory bool
	// Mode overrides the tokenizer mode of the new document.
	Mode mode.Mode
}

// inheritedOptions returns options giving a new document this
// document's configuration.
func (d *Doc) inheritedOptions(first int) []Option {
	return []Option{
		WithFirstLine(first),
		WithUndoDepth(d.undoDepth),
		WithHistoryEventDelay(d.eventDelay),
		WithSelectionsMayTouch(d.mayTouch),
		WithLineSeparator(d.lineSep),
		WithDirection(d.direction),
		WithMode(d.mode),
		WithLogger(d.log),
		WithClock(d.now),
	}
}

// LinkedDoc creates a document viewing lines of this one. Changes made
// in either document are applied to the other.
func (d *Doc) LinkedDoc(opts LinkOptions) *Doc {
	from, to := d.FirstLine(), d.LastLine()+1
	if opts.From != nil && *opts.From > from {
		from = *opts.From
	}
	if opts.To != nil && *opts.To < to {
		to = *opts.To
	}
	if from > to {
		to = from
	}
	from = min(from, d.LastLine())
	to = max(to, from+1)

	text := make([]string, 0, to-from)
	d.Iterate(from, to, func(_ int, line string) bool {
		text = append(text, line)
		return false
	})
	fresh := newDoc(text, append(d.inheritedOptions(from), WithMode(opts.Mode))...)
	if opts.SharedHistory {
		fresh.history = d.history
		fresh.cleanGeneration = d.cleanGeneration
	}
	d.linked = append(d.linked, link{doc: fresh, sharedHist: opts.SharedHistory})
	fresh.linked = []link{{doc: d, sharedHist: opts.SharedHistory, isParent: true}}
	fresh.copySharedMarkers(d.sharedMarkers())
	return fresh
}

// Unlink breaks the link between d and other. Documents that shared a
// history keep separate copies of it afterwards: other and the documents
// still sharing with it get the copy.
func (d *Doc) Unlink(other *Doc) error {
	idx := -1
	for i, l := range d.linked {
		if l.doc == other {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrNotLinked
	}
	d.linked = append(d.linked[:idx], d.linked[idx+1:]...)
	for i, l := range other.linked {
		if l.doc == d {
			other.linked = append(other.linked[:i], other.linked[i+1:]...)
			break
		}
	}
	detachSharedMarkers(d.sharedMarkers())
	detachSharedMarkers(other.sharedMarkers())

	if other.history == d.history {
		shared := d.history
		split := shared.Copy()
		other.history = split
		other.linkedDocs(func(doc *Doc, _ bool) {
			if doc.history == shared {
				doc.history = split
			}
		}, true)
		d.log.Debug("split shared history",
			zap.Stringer("doc", d.id), zap.Stringer("other", other.id))
	}
	return nil
}

// IterLinkedDocs calls fn for every document linked to d, directly or
// through other documents. shared reports whether the document shares
// d's history.
func (d *Doc) IterLinkedDocs(fn func(doc *Doc, shared bool)) {
	d.linkedDocs(fn, false)
}

// linkedDocs walks the link tree from d, skipping d itself. With
// sharedOnly it only visits documents sharing d's history.
func (d *Doc) linkedDocs(fn func(doc *Doc, shared bool), sharedOnly bool) {
	var walk func(doc, skip *Doc, sharedHist bool)
	walk = func(doc, skip *Doc, sharedHist bool) {
		for _, l := range doc.linked {
			if l.doc == skip {
				continue
			}
			shared := sharedHist && l.sharedHist
			if sharedOnly && !shared {
				continue
			}
			fn(l.doc, shared)
			walk(l.doc, doc, shared)
		}
	}
	walk(d, nil, true)
}

// hasParent returns true for documents created by LinkedDoc.
func (d *Doc) hasParent() bool {
	for _, l := range d.linked {
		if l.isParent {
			return true
		}
	}
	return false
}

// Copy returns an unlinked copy of the document with the same text,
// selection and configuration. With withHistory the history is copied
// too.
func (d *Doc) Copy(withHistory bool) *Doc {
	cp := newDoc(d.Lines(), d.inheritedOptions(d.FirstLine())...)
	cp.sel = d.sel
	cp.extend = false
	if withHistory {
		cp.SetHistory(d.History())
	}
	return cp
}
