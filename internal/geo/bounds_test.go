package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planviz/floorview/internal/render"
	"github.com/planviz/floorview/pkg/core"
)

func newTestViewport(t *testing.T) render.Viewport {
	t.Helper()
	vp, err := render.NewHeadless().NewViewport("test", render.DefaultOptions())
	require.NoError(t, err)
	return vp
}

func TestComputeBounds(t *testing.T) {
	vp := newTestViewport(t)

	b := ComputeBounds(vp, 100, 50)

	assert.Equal(t, 0.0, b.BottomLeft.X)
	assert.Equal(t, 0.0, b.BottomLeft.Y)
	assert.Equal(t, 100.0, b.TopRight.X)
	assert.Equal(t, 50.0, b.TopRight.Y)
	assert.Equal(t, 100.0, b.Width())
	assert.Equal(t, 50.0, b.Height())
}

func TestComputeBounds_MarkersInside(t *testing.T) {
	vp := newTestViewport(t)
	b := ComputeBounds(vp, 100, 50)

	// Every pixel in the image must land inside the bounds once projected.
	for x := 0.0; x <= 100; x += 10 {
		for y := 0.0; y <= 50; y += 10 {
			pos := ToProjected(core.PixelPoint{X: x, Y: y}, 50)
			assert.True(t, b.Contains(pos), "pixel (%v,%v) projected to %v outside bounds", x, y, pos)
		}
	}
}

func TestComputeMaxBounds(t *testing.T) {
	vp := newTestViewport(t)
	b := ComputeBounds(vp, 100, 50)

	max := ComputeMaxBounds(b, 100, 50)

	// Pad fraction is 10/100; the wider dimension normalizes it.
	assert.Equal(t, -10.0, max.BottomLeft.X)
	assert.Equal(t, -5.0, max.BottomLeft.Y)
	assert.Equal(t, 110.0, max.TopRight.X)
	assert.Equal(t, 55.0, max.TopRight.Y)
}

func TestComputeMaxBounds_StrictlyContains(t *testing.T) {
	vp := newTestViewport(t)

	dims := []struct{ w, h float64 }{
		{100, 50},
		{50, 100},
		{1, 1},
		{4096, 4096},
		{3, 7000},
	}

	for _, d := range dims {
		b := ComputeBounds(vp, d.w, d.h)
		max := ComputeMaxBounds(b, d.w, d.h)
		assert.True(t, max.StrictlyContains(b), "max bounds must strictly contain bounds for %vx%v", d.w, d.h)
	}
}
