// Package buffer provides the position and change primitives every other
// engine component reasons about.
//
// Position Types:
//
//   - Pos: document-absolute line and byte column with an optional Sticky
//     affinity. Ordering is lexicographic by (Line, Ch); affinity never takes
//     part in comparisons.
//   - Change: a replacement of the range [From, To) by Text, one string per
//     resulting line. len(Text)-1 is the number of line breaks inserted.
//
// Basic usage:
//
//	c := buffer.NewChange(buffer.P(0, 1), buffer.P(1, 1), "X", "+input")
//	end := buffer.ChangeEnd(c)         // (0:2)
//	p := buffer.AdjustForChange(buffer.P(2, 0), c) // (1:0)
package buffer
