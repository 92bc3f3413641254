package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planviz/floorview/internal/geo"
	"github.com/planviz/floorview/internal/render"
	"github.com/planviz/floorview/pkg/core"
)

func testMarkers() []core.Marker {
	return []core.Marker{
		{ID: 1, X: 10, Y: 20, Label: "A"},
		{ID: 2, X: 30, Y: 5, Label: "B"},
		{ID: 3, X: 80, Y: 40, Label: "C"},
	}
}

func newTestViewport(t *testing.T) *render.HeadlessViewport {
	t.Helper()
	engine := render.NewHeadless()
	_, err := engine.NewViewport("test", render.DefaultOptions())
	require.NoError(t, err)
	return engine.Viewports()[0]
}

func TestReconcile_Completeness(t *testing.T) {
	vp := newTestViewport(t)
	r := New()
	markers := testMarkers()

	r.Reconcile(vp, markers, 50, func(string) {})

	assert.Equal(t, len(markers), r.Len())
	assert.ElementsMatch(t, []string{"A", "B", "C"}, r.Labels())
	assert.Len(t, vp.Markers(), len(markers))

	// Every handle sits at its marker's projected position.
	for _, m := range markers {
		h, ok := r.Lookup(m.Label)
		require.True(t, ok, "marker %q must have a handle", m.Label)
		want := geo.ToProjected(core.PixelPoint{X: m.X, Y: m.Y}, 50)
		assert.Equal(t, want, h.Position())
	}
}

func TestReconcile_Rebuild(t *testing.T) {
	vp := newTestViewport(t)
	r := New()

	r.Reconcile(vp, testMarkers(), 50, func(string) {})
	first, _ := r.Lookup("A")

	// A second pass discards every prior handle, including unchanged ones.
	r.Reconcile(vp, testMarkers(), 50, func(string) {})
	second, _ := r.Lookup("A")

	assert.NotSame(t, first, second)
	assert.Len(t, vp.Markers(), 3, "old handles must be removed from the viewport")
}

func TestReconcile_SelectionExclusivity(t *testing.T) {
	vp := newTestViewport(t)
	r := New()

	r.SetSelected("B")
	r.Reconcile(vp, testMarkers(), 50, func(string) {})

	for _, label := range r.Labels() {
		h, ok := r.Lookup(label)
		require.True(t, ok)
		assert.Equal(t, label == "B", h.Icon().Selected, "only the selected marker may carry selected styling (%s)", label)
		assert.Equal(t, label, h.Icon().Text)
	}
}

func TestReconcile_ClickCarriesLabel(t *testing.T) {
	vp := newTestViewport(t)
	r := New()

	var clicked []string
	r.Reconcile(vp, testMarkers(), 50, func(label string) {
		clicked = append(clicked, label)
	})

	h, ok := r.Lookup("B")
	require.True(t, ok)
	h.(*render.HeadlessMarker).Click()

	assert.Equal(t, []string{"B"}, clicked)
}

func TestSetSelected(t *testing.T) {
	r := New()
	assert.Equal(t, "", r.Selected())

	r.SetSelected("A")
	assert.Equal(t, "A", r.Selected())

	r.SetSelected("")
	assert.Equal(t, "", r.Selected())
}

func TestLookup_Missing(t *testing.T) {
	r := New()
	_, ok := r.Lookup("ghost")
	assert.False(t, ok)
}

func TestClear(t *testing.T) {
	vp := newTestViewport(t)
	r := New()

	r.Reconcile(vp, testMarkers(), 50, func(string) {})
	r.Clear()

	assert.Equal(t, 0, r.Len())
	assert.Empty(t, vp.Markers())
}
