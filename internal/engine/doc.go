// Package engine provides the document model of the linedoc editor core.
//
// A Doc combines a line store, a multi-range selection, an undo history,
// text markers and links to other documents viewing the same text.
//
// # Architecture
//
// The engine is built on several sub-packages:
//
//   - buffer: positions and changes
//   - lines: balanced tree of lines with cached heights
//   - spans: how marker spans move through changes
//   - cursor: multi-range selections
//   - history: undo/redo stacks with event merging and JSON encoding
//   - bidi: bidirectional run ordering
//   - mode: tokenizer interface and registry
//   - tracking: change log, checkpoints and line diffs
//
// # Concurrency
//
// A Doc is not safe for concurrent use. Linked documents update each
// other synchronously, so all documents of one family must be driven by
// the same goroutine.
//
// # Basic Usage
//
//	d := engine.New("abc\ndef\nghi")
//
//	// Replace a range
//	d.ReplaceRange("X", engine.P(0, 1), engine.P(1, 1), "")
//	d.Value() // "aXef\nghi"
//
//	// Undo the replacement
//	d.Undo()
//
// # Operations
//
// Every mutating method runs inside an operation. Observer notifications
// are delivered when the outermost operation ends, and all changes made
// in one operation form one undo step:
//
//	d.Operation(func() {
//		d.ReplaceRange("a", engine.P(0, 0), engine.P(0, 0), "")
//		d.ReplaceRange("b", engine.P(1, 0), engine.P(1, 0), "")
//	})
//
// # Markers
//
// MarkText tags a range. Markers follow their text through edits and can
// make it read-only, atomic (the cursor skips over it) or collapsed
// (hidden, height 0):
//
//	m, err := d.MarkText(engine.P(0, 0), engine.P(0, 3), engine.MarkOptions{ReadOnly: true})
//
// # Linked Documents
//
// LinkedDoc creates a document showing all or part of another one. Edits
// in either are applied to both, optionally sharing one history:
//
//	sub := d.LinkedDoc(engine.LinkOptions{SharedHistory: true})
//	defer d.Unlink(sub)
//
// # Errors
//
// Edits are rejected, leaving the document unchanged, with ErrReadOnly,
// ErrSuppressed, ErrBlocked or ErrReadOnlyRange. IsRejected reports
// whether an error is one of these.
package engine
