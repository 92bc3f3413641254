// pkg/core/geometry.go
package core

import (
	geom "github.com/peterstace/simplefeatures/geom"
)

// PixelPoint is a point in source-image pixel space (top-left origin,
// Y increasing downward).
type PixelPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Bounds is an axis-aligned rectangle in projected space, expressed as
// its bottom-left and top-right corners.
type Bounds struct {
	BottomLeft geom.XY `json:"bottomLeft"`
	TopRight   geom.XY `json:"topRight"`
}

// Width returns the horizontal extent of the bounds.
func (b Bounds) Width() float64 {
	return b.TopRight.X - b.BottomLeft.X
}

// Height returns the vertical extent of the bounds.
func (b Bounds) Height() float64 {
	return b.TopRight.Y - b.BottomLeft.Y
}

// Center returns the midpoint of the bounds.
func (b Bounds) Center() geom.XY {
	return geom.XY{
		X: (b.BottomLeft.X + b.TopRight.X) / 2,
		Y: (b.BottomLeft.Y + b.TopRight.Y) / 2,
	}
}

// Pad expands the bounds by the given fraction of its own extent on each
// side, mirroring the pad(fraction) operation of map viewport libraries.
func (b Bounds) Pad(fraction float64) Bounds {
	dx := b.Width() * fraction
	dy := b.Height() * fraction
	return Bounds{
		BottomLeft: geom.XY{X: b.BottomLeft.X - dx, Y: b.BottomLeft.Y - dy},
		TopRight:   geom.XY{X: b.TopRight.X + dx, Y: b.TopRight.Y + dy},
	}
}

// Contains reports whether the point lies within the bounds, edges included.
func (b Bounds) Contains(p geom.XY) bool {
	return p.X >= b.BottomLeft.X && p.X <= b.TopRight.X &&
		p.Y >= b.BottomLeft.Y && p.Y <= b.TopRight.Y
}

// StrictlyContains reports whether other lies fully inside b with no
// touching edges.
func (b Bounds) StrictlyContains(other Bounds) bool {
	return other.BottomLeft.X > b.BottomLeft.X &&
		other.BottomLeft.Y > b.BottomLeft.Y &&
		other.TopRight.X < b.TopRight.X &&
		other.TopRight.Y < b.TopRight.Y
}

// Clamp returns the nearest point to p that lies within the bounds.
func (b Bounds) Clamp(p geom.XY) geom.XY {
	if p.X < b.BottomLeft.X {
		p.X = b.BottomLeft.X
	}
	if p.X > b.TopRight.X {
		p.X = b.TopRight.X
	}
	if p.Y < b.BottomLeft.Y {
		p.Y = b.BottomLeft.Y
	}
	if p.Y > b.TopRight.Y {
		p.Y = b.TopRight.Y
	}
	return p
}
