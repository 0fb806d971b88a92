// Package bidi computes the visual ordering of a line of text, implementing
// the subset of the Unicode bidirectional algorithm (UAX #9) an editor
// needs without explicit embeddings: weak type resolution (W1-W7), neutral
// resolution (N1-N2), and direct construction of visual runs.
//
//	runs := bidi.Order("abc עברית def", bidi.LTR)
//	// [0:4)@0 [4:14)@1 [14:18)@0
//
// Columns in the returned runs are byte offsets. A nil result means the
// text can be laid out in logical order.
package bidi
