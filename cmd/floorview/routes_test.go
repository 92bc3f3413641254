package main

import (
	"encoding/json"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planviz/floorview/internal/geo"
	"github.com/planviz/floorview/internal/monitor"
	"github.com/planviz/floorview/internal/storage/memory"
	"github.com/planviz/floorview/pkg/core"
)

func newTestApp(t *testing.T, plan core.FloorPlan, markers []core.Marker) *fiber.App {
	t.Helper()

	backend := memory.New()
	require.NoError(t, backend.Init())
	require.NoError(t, backend.SavePlan(&plan))
	require.NoError(t, backend.SaveMarkers(plan.Name, markers))

	app := fiber.New()
	registerRoutes(app, backend,
		NewSessionManager(backend, nil, slog.Default()),
		monitor.NewService(monitor.Dependencies{}))
	return app
}

func TestWorldMarkersRoute(t *testing.T) {
	anchor := &core.GeoAnchor{Latitude: 52.52, Longitude: 13.405, MetersPerPixel: 0.05}
	app := newTestApp(t, core.FloorPlan{
		Name:     "hq",
		ImageURL: "hq.png",
		Anchor:   anchor,
	}, []core.Marker{
		{ID: 1, X: 10, Y: 20, Label: "A"},
		{ID: 2, X: 30, Y: 5, Label: "B"},
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/plans/hq/markers/world", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var got []worldMarker
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	require.Len(t, got, 2)

	want, err := geo.WorldPoint(anchor, core.PixelPoint{X: 10, Y: 20})
	require.NoError(t, err)
	wantXY, ok := want.XY()
	require.True(t, ok)
	assert.Equal(t, "A", got[0].Label)
	assert.InDelta(t, wantXY.X, got[0].East, 1e-9)
	assert.InDelta(t, wantXY.Y, got[0].North, 1e-9)
}

func TestWorldMarkersRoute_LabelFilter(t *testing.T) {
	app := newTestApp(t, core.FloorPlan{
		Name:     "hq",
		ImageURL: "hq.png",
		Anchor:   &core.GeoAnchor{Latitude: 52.52, Longitude: 13.405, MetersPerPixel: 0.05},
	}, []core.Marker{
		{ID: 1, X: 10, Y: 20, Label: "A"},
		{ID: 2, X: 30, Y: 5, Label: "B"},
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/plans/hq/markers/world?label=B", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var got []worldMarker
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	require.Len(t, got, 1)
	assert.Equal(t, "B", got[0].Label)

	resp, err = app.Test(httptest.NewRequest("GET", "/plans/hq/markers/world?label=ghost", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestWorldMarkersRoute_NoAnchor(t *testing.T) {
	app := newTestApp(t, core.FloorPlan{Name: "hq", ImageURL: "hq.png"}, nil)

	resp, err := app.Test(httptest.NewRequest("GET", "/plans/hq/markers/world", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/plans/nope/markers/world", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
