// Package lines provides the line store of a document: a B-tree whose
// leaves hold Line records and whose interior nodes cache the line count
// and total height of their subtrees.
//
// Key features:
//   - O(log n) lookup by line number and by vertical offset
//   - O(log n) insertion and removal of runs of lines
//   - Back references from a Line to its leaf, so a line's number can be
//     recomputed after edits elsewhere in the document
//
// Leaves are split into chunks of 25 lines once they exceed 50, branches
// spill when they exceed 10 children, and subtrees that shrink below 25
// lines are collapsed into a single leaf.
//
//	t := lines.FromText(0, []string{"abc", "def"})
//	l, _ := t.LineAt(1)   // "def"
//	no, _ := t.IndexOf(l) // 1
package lines
