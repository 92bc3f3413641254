// pkg/core/marker.go
package core

// Marker is one clickable location on a floor plan.
//
// X and Y are pixel coordinates in source-image space: origin at the
// top-left corner, Y increasing downward, matching typical image-editing
// tools. Label is the sole identity used for selection, lookup and
// on-screen keying; labels must be unique within a plan. ID is an opaque
// numeric identifier carried through from the catalog and never used for
// lookup.
type Marker struct {
	ID    uint    `json:"id"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Label string  `json:"label"`
}

// Labels returns the label set of a marker list, in input order.
func Labels(markers []Marker) []string {
	labels := make([]string, 0, len(markers))
	for _, m := range markers {
		labels = append(labels, m.Label)
	}
	return labels
}

// FindMarker returns the marker with the given label, if present.
func FindMarker(markers []Marker, label string) (Marker, bool) {
	for _, m := range markers {
		if m.Label == label {
			return m, true
		}
	}
	return Marker{}, false
}
