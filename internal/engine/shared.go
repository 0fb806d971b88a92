package engine

import "github.com/dshills/linedoc/internal/engine/spans"

// SharedTextMarker groups the markers created in a family of linked
// documents by MarkTextShared. Find reports the primary marker's range.
type SharedTextMarker struct {
	primary *TextMarker
	markers []*TextMarker
	cleared bool
}

func newSharedMarker(markers []*TextMarker, primary *TextMarker) *SharedTextMarker {
	s := &SharedTextMarker{primary: primary, markers: markers}
	for _, m := range markers {
		m.shared = s
	}
	return s
}

// Primary returns the marker living in the root document of the family.
func (s *SharedTextMarker) Primary() *TextMarker { return s.primary }

// Markers returns the member markers, one per document.
func (s *SharedTextMarker) Markers() []*TextMarker {
	return append([]*TextMarker(nil), s.markers...)
}

// Kind returns the kind of the member markers.
func (s *SharedTextMarker) Kind() spans.Kind { return s.primary.kind }

// Find returns the primary marker's range.
func (s *SharedTextMarker) Find() (from, to Pos, ok bool) { return s.primary.Find() }

// Cleared returns true once the shared marker was cleared.
func (s *SharedTextMarker) Cleared() bool { return s.cleared }

// Clear clears every member marker.
func (s *SharedTextMarker) Clear() {
	if s.cleared {
		return
	}
	s.cleared = true
	for _, m := range s.markers {
		m.Clear()
	}
}

// MarkTextShared marks [from, to] in this document and in every linked
// document, clipped to the lines each one holds. The primary member is
// the marker of the document at the root of the link tree. Documents in
// which the range would conflict with a collapsed marker are skipped.
func (d *Doc) MarkTextShared(from, to Pos, opts MarkOptions) (*SharedTextMarker, error) {
	first, err := d.MarkText(from, to, opts)
	if err != nil {
		return nil, err
	}
	markers := []*TextMarker{first}
	primary := first
	d.linkedDocs(func(other *Doc, _ bool) {
		m, err := other.MarkText(other.Clip(from), other.Clip(to), opts)
		if err != nil {
			return
		}
		markers = append(markers, m)
		if !other.hasParent() {
			primary = m
		}
	}, false)
	return newSharedMarker(markers, primary), nil
}

// sharedMarkers returns the shared markers with a member in d.
func (d *Doc) sharedMarkers() []*SharedTextMarker {
	var out []*SharedTextMarker
	seen := make(map[*SharedTextMarker]bool)
	for _, m := range d.AllMarks() {
		if m.shared != nil && !seen[m.shared] {
			seen[m.shared] = true
			out = append(out, m.shared)
		}
	}
	return out
}

// copySharedMarkers adds a member to each shared marker for the part of
// its range that d holds.
func (d *Doc) copySharedMarkers(shared []*SharedTextMarker) {
	for _, s := range shared {
		pFrom, pTo, ok := s.Find()
		if !ok {
			continue
		}
		from, to := d.Clip(pFrom), d.Clip(pTo)
		if from.Equal(to) {
			continue
		}
		m, err := d.MarkText(from, to, s.primary.opts)
		if err != nil {
			continue
		}
		m.shared = s
		s.markers = append(s.markers, m)
	}
}

// detachSharedMarkers drops members living in documents no longer linked
// to the primary's document.
func detachSharedMarkers(shared []*SharedTextMarker) {
	for _, s := range shared {
		family := map[*Doc]bool{s.primary.doc: true}
		s.primary.doc.linkedDocs(func(other *Doc, _ bool) {
			family[other] = true
		}, false)
		kept := s.markers[:0]
		for _, m := range s.markers {
			if family[m.doc] {
				kept = append(kept, m)
			} else {
				m.shared = nil
			}
		}
		s.markers = kept
	}
}
