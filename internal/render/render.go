// Package render defines the capability surface the viewer core requires
// from a 2D pan/zoom rendering engine, together with a deterministic
// headless implementation used by tests and server-side sessions.
//
// The engine is an external collaborator: the core only projects
// coordinates, constrains viewports, places image layers and markers,
// and subscribes to marker clicks through these interfaces.
package render

import (
	"context"
	"time"

	"github.com/planviz/floorview/pkg/core"

	geom "github.com/peterstace/simplefeatures/geom"
)

// Options configures a viewport at creation time.
type Options struct {
	// MinZoom and MaxZoom bound the zoom range.
	MinZoom float64
	MaxZoom float64

	// ZoomSnap of zero means continuous zoom granularity.
	ZoomSnap float64

	// ScrollWheelZoom enables zooming via scroll input.
	ScrollWheelZoom bool

	// Animate enables camera transition animation.
	Animate bool

	// Inertia enables momentum panning with the given deceleration.
	Inertia             bool
	InertiaDeceleration float64

	// MaxBoundsViscosity of 1 makes the pan clamp fully solid.
	MaxBoundsViscosity float64
}

// DefaultOptions mirror the viewer's standard interactive configuration:
// simple unbounded projection, continuous zoom, solid pan clamp.
func DefaultOptions() Options {
	return Options{
		MinZoom:             -2,
		MaxZoom:             4,
		ZoomSnap:            0,
		ScrollWheelZoom:     true,
		Animate:             true,
		Inertia:             true,
		InertiaDeceleration: 3000,
		MaxBoundsViscosity:  1,
	}
}

// MoveOptions controls a single camera movement.
type MoveOptions struct {
	Animate  bool
	Duration time.Duration
}

// Icon describes the visual content of a marker.
type Icon struct {
	Text     string
	Selected bool
}

// MarkerHandle is a live on-screen marker owned by the registry, distinct
// from the input data describing it.
type MarkerHandle interface {
	Position() geom.XY
	Icon() Icon
	SetIcon(icon Icon)
	Remove()
}

// ImageLayer is a raster layer stretched over projected-space bounds.
type ImageLayer interface {
	URL() string
	Bounds() core.Bounds
	Remove()
}

// Viewport is the engine's camera abstraction controlling the visible
// region and zoom of one viewer instance.
type Viewport interface {
	// Unproject converts a point on the viewport's pixel grid at the
	// given zoom level into projected coordinates.
	Unproject(p core.PixelPoint, zoom float64) geom.XY

	// FitBounds moves the camera so the given bounds fill the view.
	FitBounds(b core.Bounds, opts MoveOptions)

	// SetView centers the camera on a coordinate at a zoom level.
	SetView(center geom.XY, zoom float64, opts MoveOptions)

	// SetMaxBounds clamps panning to the given rectangle.
	SetMaxBounds(b core.Bounds)

	// AddImageLayer attaches a raster image over the given bounds.
	AddImageLayer(url string, b core.Bounds) (ImageLayer, error)

	// AddMarker places a point marker with custom icon content and a
	// click subscription.
	AddMarker(at geom.XY, icon Icon, onClick func()) MarkerHandle

	Center() geom.XY
	Zoom() float64

	Close() error
}

// Engine creates viewports bound to host containers.
type Engine interface {
	NewViewport(container string, opts Options) (Viewport, error)
	Close() error
}

// Loader acquires a rendering engine. Acquisition is a single-shot
// asynchronous operation awaited once during viewer initialization; each
// viewer instance owns its own engine reference, so multiple concurrent
// instances never share state.
type Loader func(ctx context.Context) (Engine, error)
