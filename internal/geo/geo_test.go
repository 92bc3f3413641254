package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planviz/floorview/pkg/core"
)

func TestToProjected(t *testing.T) {
	tests := []struct {
		name        string
		pixel       core.PixelPoint
		imageHeight float64
		wantX       float64
		wantY       float64
	}{
		{"interior point", core.PixelPoint{X: 10, Y: 20}, 50, 10, 30},
		{"near bottom edge", core.PixelPoint{X: 30, Y: 5}, 50, 30, 45},
		{"top-left corner", core.PixelPoint{X: 0, Y: 0}, 50, 0, 50},
		{"bottom-left corner", core.PixelPoint{X: 0, Y: 50}, 50, 0, 0},
		{"bottom-right corner", core.PixelPoint{X: 100, Y: 50}, 50, 100, 0},
		{"fractional", core.PixelPoint{X: 1.5, Y: 2.25}, 10, 1.5, 7.75},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToProjected(tt.pixel, tt.imageHeight)
			assert.Equal(t, tt.wantX, got.X)
			assert.Equal(t, tt.wantY, got.Y)
		})
	}
}

func TestFromProjected_RoundTrip(t *testing.T) {
	points := []core.PixelPoint{
		{X: 0, Y: 0},
		{X: 10, Y: 20},
		{X: 100, Y: 50},
		{X: 3.5, Y: 47.25},
	}

	for _, p := range points {
		back := FromProjected(ToProjected(p, 50), 50)
		assert.Equal(t, p, back)
	}
}

func TestPixelFromString(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    core.PixelPoint
		wantErr bool
	}{
		{"integers", "10,20", core.PixelPoint{X: 10, Y: 20}, false},
		{"floats", "1.5,2.25", core.PixelPoint{X: 1.5, Y: 2.25}, false},
		{"spaces", " 10 , 20 ", core.PixelPoint{X: 10, Y: 20}, false},
		{"negative", "-5,3", core.PixelPoint{X: -5, Y: 3}, false},
		{"missing y", "10", core.PixelPoint{}, true},
		{"too many parts", "10,20,30", core.PixelPoint{}, true},
		{"non-numeric", "a,b", core.PixelPoint{}, true},
		{"empty", "", core.PixelPoint{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PixelFromString(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidPixel)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWorldPoint(t *testing.T) {
	anchor := &core.GeoAnchor{
		Latitude:       52.52,
		Longitude:      13.405,
		MetersPerPixel: 0.05,
	}

	origin, err := WorldPoint(anchor, core.PixelPoint{})
	require.NoError(t, err)

	// 100px east, 200px south of the anchor.
	shifted, err := WorldPoint(anchor, core.PixelPoint{X: 100, Y: 200})
	require.NoError(t, err)

	oXY, ok := origin.XY()
	require.True(t, ok)
	sXY, ok := shifted.XY()
	require.True(t, ok)

	assert.InDelta(t, oXY.X+100*0.05, sXY.X, 1e-9)
	assert.InDelta(t, oXY.Y-200*0.05, sXY.Y, 1e-9)
}

func TestWorldPoint_NoAnchor(t *testing.T) {
	_, err := WorldPoint(nil, core.PixelPoint{X: 1, Y: 1})
	assert.ErrorIs(t, err, ErrNoAnchor)
}

func TestWorldPoint_InvalidCoordinate(t *testing.T) {
	anchor := &core.GeoAnchor{
		Latitude:       52.52,
		Longitude:      13.405,
		MetersPerPixel: math.NaN(),
	}

	pt, err := WorldPoint(anchor, core.PixelPoint{X: 1, Y: 1})
	require.Error(t, err)
	assert.True(t, pt.IsEmpty())
}
