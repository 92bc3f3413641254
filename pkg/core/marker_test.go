package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testMarkers() []Marker {
	return []Marker{
		{ID: 1, X: 10, Y: 20, Label: "A"},
		{ID: 2, X: 30, Y: 5, Label: "B"},
	}
}

func TestLabels(t *testing.T) {
	assert.Equal(t, []string{"A", "B"}, Labels(testMarkers()))
	assert.Empty(t, Labels(nil))
}

func TestFindMarker(t *testing.T) {
	m, ok := FindMarker(testMarkers(), "B")
	assert.True(t, ok)
	assert.Equal(t, uint(2), m.ID)

	// Labels are opaque; no cleanup is applied on lookup.
	_, ok = FindMarker(testMarkers(), " B ")
	assert.False(t, ok)

	_, ok = FindMarker(testMarkers(), "C")
	assert.False(t, ok)
}
