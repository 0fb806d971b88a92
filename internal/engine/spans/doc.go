// Package spans implements the algebra of marked spans: how the
// per-line pieces of text markers are split, shifted, stretched, and
// cleared when a change is applied, and how collapsed markers are ranked
// against each other.
//
// Spans refer to their markers by id. Marker properties and extents are
// looked up through a Resolver supplied by the document, which keeps
// this package independent of marker bookkeeping.
//
// Column conventions: a span with From == lines.Open continues from the
// previous line, and one with To == lines.Open continues onto the next.
package spans
