package geo

import (
	"errors"
	"strconv"
	"strings"

	"github.com/planviz/floorview/pkg/core"

	geom "github.com/peterstace/simplefeatures/geom"
)

// COORDINATE SPACES
// Source-image pixel space has its origin at the top-left corner with Y
// increasing downward, matching image-editing tools. The viewport's
// projected space has Y increasing upward from a bottom-left origin.
// The single flip below is the only place that convention mismatch is
// resolved; every marker placement must route through it.

// ErrInvalidPixel is returned when a pixel coordinate string cannot be parsed.
var ErrInvalidPixel = errors.New("invalid pixel coordinates provided")

// ToProjected maps a source-image pixel point into projected space:
// px = x unchanged, py = imageHeight - y. Pure and total.
func ToProjected(p core.PixelPoint, imageHeight float64) geom.XY {
	return geom.XY{X: p.X, Y: imageHeight - p.Y}
}

// FromProjected is the inverse of ToProjected. The flip is self-inverse
// given a fixed imageHeight.
func FromProjected(c geom.XY, imageHeight float64) core.PixelPoint {
	return core.PixelPoint{X: c.X, Y: imageHeight - c.Y}
}

// PixelFromString parses an "x,y" string into a pixel point. Used when
// marker positions arrive as strings from catalog imports.
func PixelFromString(coords string) (core.PixelPoint, error) {
	parts := strings.Split(coords, ",")
	if len(parts) != 2 {
		return core.PixelPoint{}, ErrInvalidPixel
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return core.PixelPoint{}, ErrInvalidPixel
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return core.PixelPoint{}, ErrInvalidPixel
	}
	return core.PixelPoint{X: x, Y: y}, nil
}
