// Package cursor provides cursor and selection management for text editing.
//
// The cursor package handles:
//
//   - Ranges with an anchor/head model via the Range type
//   - Multi-range selections with a primary range via Selection
//   - Normalization (sorting and merging) of arbitrary range lists
//   - Mapping selections through document changes
//
// Selection Model:
//
// Ranges use an anchor/head model where:
//   - Anchor: The position where the selection started
//   - Head: The current cursor position (where typing would occur)
//
// When Anchor == Head, the range represents just a cursor with no
// selected text. The range can extend forward (head > anchor) or
// backward (head < anchor), preserving the user's selection direction.
//
// Multi-Range Support:
//
// Selection holds ranges that are:
//   - Kept sorted by position
//   - Merged when overlapping (or, unless touching is allowed, adjacent)
//   - Transformed together after edits
//
// Basic usage:
//
//	sel := cursor.Simple(buffer.P(0, 2), buffer.P(0, 5))
//	sel = cursor.Normalize(append(sel.Ranges(), cursor.CursorAt(buffer.P(3, 0))), 0, false)
//
//	change := buffer.NewChange(buffer.P(0, 0), buffer.P(0, 0), "ab", "+input")
//	sel = cursor.AfterChange(sel, change, false)
//
// Thread Safety:
//
// Range and Selection are immutable value types and safe for concurrent use.
package cursor
