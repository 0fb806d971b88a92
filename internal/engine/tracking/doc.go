// Package tracking records the changes applied to a document.
//
// A Tracker keeps a bounded log of applied changes, each stamped with the
// document revision it produced, and a set of named checkpoints holding
// the text at a revision. Callers ask "what changed since revision X?"
// or diff a checkpoint against the current text:
//
//	t := tracking.NewTracker(tracking.WithMaxChanges(500))
//	rev := t.Record(change)
//	t.Checkpoint("saved", rev, doc.Lines())
//	...
//	changes, err := t.ChangesSince(rev)
//	diff, err := tracking.Unified(cp.Text, doc.Lines(), "saved", "current", 3)
//
// Line diffs come from go-difflib's sequence matcher; DiffLines exposes
// the same hunks as values.
//
// All Tracker operations are safe for concurrent use.
package tracking
