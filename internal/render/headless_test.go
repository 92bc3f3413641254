package render

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planviz/floorview/pkg/core"

	geom "github.com/peterstace/simplefeatures/geom"
)

func newViewport(t *testing.T, opts Options) *HeadlessViewport {
	t.Helper()
	engine := NewHeadless()
	_, err := engine.NewViewport("test", opts)
	require.NoError(t, err)
	return engine.Viewports()[0]
}

func testLayerBounds() core.Bounds {
	return core.Bounds{
		BottomLeft: geom.XY{X: 0, Y: 0},
		TopRight:   geom.XY{X: 100, Y: 50},
	}
}

func TestLoadHeadless(t *testing.T) {
	engine, err := LoadHeadless(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, engine)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = LoadHeadless(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestUnproject(t *testing.T) {
	vp := newViewport(t, DefaultOptions())

	tests := []struct {
		name string
		p    core.PixelPoint
		zoom float64
		want geom.XY
	}{
		{"zoom zero is identity", core.PixelPoint{X: 40, Y: 30}, 0, geom.XY{X: 40, Y: 30}},
		{"zoom one halves", core.PixelPoint{X: 40, Y: 30}, 1, geom.XY{X: 20, Y: 15}},
		{"negative zoom doubles", core.PixelPoint{X: 40, Y: 30}, -1, geom.XY{X: 80, Y: 60}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, vp.Unproject(tt.p, tt.zoom))
		})
	}
}

func TestFitBounds(t *testing.T) {
	vp := newViewport(t, DefaultOptions())

	vp.FitBounds(testLayerBounds(), MoveOptions{})

	assert.Equal(t, geom.XY{X: 50, Y: 25}, vp.Center())
	assert.Equal(t, 0.0, vp.Zoom())

	op, ok := vp.LastOp()
	require.True(t, ok)
	assert.Equal(t, "fitBounds", op.Kind)
	assert.False(t, op.Animated)
}

func TestSetView_ClampsZoom(t *testing.T) {
	opts := DefaultOptions() // zoom range -2..4
	vp := newViewport(t, opts)

	vp.SetView(geom.XY{X: 10, Y: 10}, 99, MoveOptions{})
	assert.Equal(t, opts.MaxZoom, vp.Zoom())

	vp.SetView(geom.XY{X: 10, Y: 10}, -99, MoveOptions{})
	assert.Equal(t, opts.MinZoom, vp.Zoom())
}

func TestSetView_ClampsCenterToMaxBounds(t *testing.T) {
	vp := newViewport(t, DefaultOptions())
	vp.SetMaxBounds(testLayerBounds())

	vp.SetView(geom.XY{X: 500, Y: -80}, 1, MoveOptions{Animate: true})

	assert.Equal(t, geom.XY{X: 100, Y: 0}, vp.Center())

	op, ok := vp.LastOp()
	require.True(t, ok)
	assert.Equal(t, "setView", op.Kind)
	assert.True(t, op.Animated)
}

func TestSetView_NoClampWithoutViscosity(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxBoundsViscosity = 0
	vp := newViewport(t, opts)
	vp.SetMaxBounds(testLayerBounds())

	vp.SetView(geom.XY{X: 500, Y: -80}, 1, MoveOptions{})
	assert.Equal(t, geom.XY{X: 500, Y: -80}, vp.Center())
}

func TestOps_LastWins(t *testing.T) {
	vp := newViewport(t, DefaultOptions())

	vp.SetView(geom.XY{X: 1, Y: 1}, 1, MoveOptions{})
	vp.SetView(geom.XY{X: 2, Y: 2}, 1, MoveOptions{})
	vp.FitBounds(testLayerBounds(), MoveOptions{})

	op, ok := vp.LastOp()
	require.True(t, ok)
	assert.Equal(t, "fitBounds", op.Kind)

	ops := vp.Ops()
	assert.Len(t, ops, 3)
	_, ok = vp.LastOp()
	assert.False(t, ok, "Ops drains the record")
}

func TestImageLayers(t *testing.T) {
	vp := newViewport(t, DefaultOptions())

	layer, err := vp.AddImageLayer("plan.png", testLayerBounds())
	require.NoError(t, err)
	assert.Equal(t, "plan.png", layer.URL())
	assert.Len(t, vp.Layers(), 1)

	layer.Remove()
	assert.Empty(t, vp.Layers())
}

func TestClosedViewport(t *testing.T) {
	vp := newViewport(t, DefaultOptions())
	require.NoError(t, vp.Close())

	_, err := vp.AddImageLayer("plan.png", testLayerBounds())
	assert.ErrorIs(t, err, ErrViewportClosed)

	vp.SetView(geom.XY{X: 5, Y: 5}, 1, MoveOptions{})
	assert.Equal(t, geom.XY{}, vp.Center(), "camera calls after close are no-ops")
}

func TestMarkerLifecycle(t *testing.T) {
	vp := newViewport(t, DefaultOptions())

	var clicks int
	h := vp.AddMarker(geom.XY{X: 10, Y: 30}, Icon{Text: "A"}, func() { clicks++ })
	m := h.(*HeadlessMarker)

	m.Click()
	assert.Equal(t, 1, clicks)

	m.SetIcon(Icon{Text: "A", Selected: true})
	assert.True(t, m.Icon().Selected)

	m.Remove()
	m.Click()
	assert.Equal(t, 1, clicks, "removed markers never fire their callback")
	assert.Empty(t, vp.Markers())
}
