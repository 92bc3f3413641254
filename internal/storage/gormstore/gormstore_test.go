package gormstore

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planviz/floorview/pkg/core"
)

func newTestBackend(t *testing.T) *Backend {
	t.Helper()
	b, err := NewSqlite(filepath.Join(t.TempDir(), "catalog.db"), zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, b.Init())
	t.Cleanup(func() { _ = b.Close() })
	return b
}

func TestPlanRoundTrip(t *testing.T) {
	b := newTestBackend(t)

	plan := &core.FloorPlan{
		Name:     "ground",
		ImageURL: "https://plans.example.com/ground.png",
		Anchor: &core.GeoAnchor{
			Latitude:       52.52,
			Longitude:      13.405,
			MetersPerPixel: 0.05,
		},
	}
	require.NoError(t, b.SavePlan(plan))

	got, err := b.GetPlan("ground")
	require.NoError(t, err)
	assert.Equal(t, plan.Name, got.Name)
	assert.Equal(t, plan.ImageURL, got.ImageURL)
	require.NotNil(t, got.Anchor)
	assert.Equal(t, *plan.Anchor, *got.Anchor)
}

func TestPlanWithoutAnchor(t *testing.T) {
	b := newTestBackend(t)

	require.NoError(t, b.SavePlan(&core.FloorPlan{Name: "ground", ImageURL: "g.png"}))

	got, err := b.GetPlan("ground")
	require.NoError(t, err)
	assert.Nil(t, got.Anchor)
}

func TestGetPlan_NotFound(t *testing.T) {
	b := newTestBackend(t)
	_, err := b.GetPlan("basement")
	assert.ErrorIs(t, err, core.ErrPlanNotFound)
}

func TestSavePlan_Upsert(t *testing.T) {
	b := newTestBackend(t)

	require.NoError(t, b.SavePlan(&core.FloorPlan{Name: "ground", ImageURL: "v1.png"}))
	require.NoError(t, b.SavePlan(&core.FloorPlan{Name: "ground", ImageURL: "v2.png"}))

	got, err := b.GetPlan("ground")
	require.NoError(t, err)
	assert.Equal(t, "v2.png", got.ImageURL)

	plans, err := b.ListPlans()
	require.NoError(t, err)
	assert.Len(t, plans, 1, "saving the same name twice must not duplicate")
}

func TestListPlans_Ordered(t *testing.T) {
	b := newTestBackend(t)

	for _, name := range []string{"second", "first"} {
		require.NoError(t, b.SavePlan(&core.FloorPlan{Name: name, ImageURL: name + ".png"}))
	}

	plans, err := b.ListPlans()
	require.NoError(t, err)
	require.Len(t, plans, 2)
	assert.Equal(t, "first", plans[0].Name)
}

func TestMarkerRoundTrip(t *testing.T) {
	b := newTestBackend(t)
	require.NoError(t, b.SavePlan(&core.FloorPlan{Name: "ground", ImageURL: "g.png"}))

	markers := []core.Marker{
		{ID: 1, X: 10, Y: 20, Label: "A"},
		{ID: 2, X: 30, Y: 5, Label: "B"},
	}
	require.NoError(t, b.SaveMarkers("ground", markers))

	got, err := b.ListMarkers("ground")
	require.NoError(t, err)
	assert.Equal(t, markers, got)

	// Replacement semantics, matching the viewer's reconcile pass.
	require.NoError(t, b.SaveMarkers("ground", markers[1:]))
	got, err = b.ListMarkers("ground")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "B", got[0].Label)
}

func TestMarkers_UnknownPlan(t *testing.T) {
	b := newTestBackend(t)

	assert.ErrorIs(t, b.SaveMarkers("ghost", nil), core.ErrPlanNotFound)
	_, err := b.ListMarkers("ghost")
	assert.ErrorIs(t, err, core.ErrPlanNotFound)
}

func TestDeletePlan(t *testing.T) {
	b := newTestBackend(t)
	require.NoError(t, b.SavePlan(&core.FloorPlan{Name: "ground", ImageURL: "g.png"}))
	require.NoError(t, b.SaveMarkers("ground", []core.Marker{{ID: 1, Label: "A"}}))

	require.NoError(t, b.DeletePlan("ground"))

	_, err := b.GetPlan("ground")
	assert.ErrorIs(t, err, core.ErrPlanNotFound)
	assert.ErrorIs(t, b.DeletePlan("ground"), core.ErrPlanNotFound)
}
