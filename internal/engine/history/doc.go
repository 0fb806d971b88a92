// Package history provides undo/redo functionality for the document engine.
//
// The history records inverse changes rather than commands. Key concepts:
//
// # Events
//
// Both stacks hold Events of two kinds:
//   - Selection snapshots, so undo can restore the cursor as well as text
//   - Change groups: the inverse of one or more changes, undone together
//
// A snapshot always precedes the change group it was active during.
//
// # Merging
//
// A new change joins the previous group when it belongs to the same
// operation, when its origin starts with "+" and matches the previous
// origin within EventDelay, or when its origin starts with "*":
//
//	h := history.New(0, history.DefaultEventDelay)
//	h.AddChange(change, removed, selBefore, selAfter, opID, now)
//
// Consecutive insertions extend the last stored change instead of adding
// a new one, which keeps typing cheap.
//
// # Generations
//
// Every committed change gets a new generation number. A document is
// clean when the history's generation equals the one recorded at save
// time.
//
// # Rebasing
//
// When a linked document with its own history is edited, Rebase shifts
// the stored positions that come after the edit and discards events that
// overlap it, along with everything older.
//
// # Serialization
//
// ToData and SetData convert to and from a plain structure whose JSON
// form is stable and round-trips through MarshalJSON/UnmarshalJSON.
package history
