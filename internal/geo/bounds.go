package geo

import (
	"math"

	"github.com/planviz/floorview/pkg/core"

	geom "github.com/peterstace/simplefeatures/geom"
)

// BoundsPaddingPx is the fixed margin, in pixel-equivalent units at the
// reference zoom, added around the image when clamping panning.
const BoundsPaddingPx = 10

// referenceZoom is the zoom level at which image corners are unprojected
// when deriving the viewable rectangle.
const referenceZoom = 0

// Unprojector converts a point on the viewport's pixel grid at a given
// zoom level into projected coordinates. Satisfied by render.Viewport.
type Unprojector interface {
	Unproject(p core.PixelPoint, zoom float64) geom.XY
}

// ComputeBounds derives the rectangle exactly fitting the image by
// unprojecting its bottom-left and top-right corners at the reference
// zoom, after routing both through the pixel-space flip.
//
// Zero-dimension images are a caller precondition violation: the image
// must have loaded successfully before this is invoked.
func ComputeBounds(un Unprojector, width, height float64) core.Bounds {
	bl := ToProjected(core.PixelPoint{X: 0, Y: height}, height)
	tr := ToProjected(core.PixelPoint{X: width, Y: 0}, height)
	return core.Bounds{
		BottomLeft: un.Unproject(core.PixelPoint{X: bl.X, Y: bl.Y}, referenceZoom),
		TopRight:   un.Unproject(core.PixelPoint{X: tr.X, Y: tr.Y}, referenceZoom),
	}
}

// ComputeMaxBounds inflates bounds by BoundsPaddingPx normalized against
// the larger image dimension, producing the outer clamp rectangle for
// panning. The result strictly contains bounds for any positive image
// dimensions.
func ComputeMaxBounds(bounds core.Bounds, width, height float64) core.Bounds {
	return bounds.Pad(BoundsPaddingPx / math.Max(width, height))
}
