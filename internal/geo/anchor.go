package geo

import (
	"errors"

	"github.com/planviz/floorview/pkg/core"

	geom "github.com/peterstace/simplefeatures/geom"
	"github.com/wroge/wgs84"
)

// GEO ANCHORING
// A plan may carry an anchor tying its top-left pixel to a real-world
// position. World coordinates are produced in EPSG:3857 so downstream
// consumers can overlay floor data on web maps without further
// reprojection. The meters-per-pixel scale is treated as uniform across
// the plan; fine for building-scale extents.

// ErrNoAnchor is returned when a plan has no georeference.
var ErrNoAnchor = errors.New("floor plan has no geo anchor")

// WorldPoint converts a source-image pixel point into an EPSG:3857 point
// using the plan's anchor. The anchor marks the top-left pixel, so the
// pixel offsets apply directly: east along +X, and the Y-down pixel axis
// maps to southward (-Y) in projected meters.
func WorldPoint(anchor *core.GeoAnchor, p core.PixelPoint) (geom.Point, error) {
	if anchor == nil {
		return geom.NewEmptyPoint(geom.DimXY), ErrNoAnchor
	}

	epsg := wgs84.EPSG()
	f := epsg.Transform(4326, 3857)
	originX, originY, _ := f(anchor.Longitude, anchor.Latitude, 0)

	pt, err := geom.NewPoint(
		geom.Coordinates{
			XY: geom.XY{
				X: originX + p.X*anchor.MetersPerPixel,
				Y: originY - p.Y*anchor.MetersPerPixel,
			},
			Type: geom.DimXY,
		},
	)
	if err != nil {
		return geom.NewEmptyPoint(geom.DimXY), err
	}
	return pt, nil
}
