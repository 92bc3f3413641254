package render

import (
	"context"
	"errors"
	"math"
	"sync"

	"github.com/planviz/floorview/internal/queue"
	"github.com/planviz/floorview/pkg/core"

	geom "github.com/peterstace/simplefeatures/geom"
)

// ErrViewportClosed is returned when a closed viewport is asked to attach
// a layer.
var ErrViewportClosed = errors.New("viewport is closed")

// CameraOp records one scheduled camera movement. The engine applies ops
// synchronously to their final state; animation is cosmetic, so a burst
// of ops resolves to the last one (last call wins).
type CameraOp struct {
	Kind     string // "setView" or "fitBounds"
	Center   geom.XY
	Zoom     float64
	Bounds   core.Bounds
	Animated bool
}

// HeadlessEngine is a deterministic in-process rendering engine. It
// performs no drawing; it tracks camera state, layers and markers so the
// core's behavior is fully observable without a display.
type HeadlessEngine struct {
	mu        sync.Mutex
	viewports []*HeadlessViewport
}

// NewHeadless creates a headless engine.
func NewHeadless() *HeadlessEngine {
	return &HeadlessEngine{}
}

// LoadHeadless is a render.Loader producing a fresh headless engine per
// viewer instance.
func LoadHeadless(ctx context.Context) (Engine, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return NewHeadless(), nil
}

// NewViewport creates a viewport bound to the named container.
func (e *HeadlessEngine) NewViewport(container string, opts Options) (Viewport, error) {
	vp := &HeadlessViewport{
		container: container,
		opts:      opts,
		markers:   make(map[*HeadlessMarker]struct{}),
		ops:       queue.New[CameraOp](),
	}
	e.mu.Lock()
	e.viewports = append(e.viewports, vp)
	e.mu.Unlock()
	return vp, nil
}

// Viewports returns the viewports created by this engine, for inspection.
func (e *HeadlessEngine) Viewports() []*HeadlessViewport {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]*HeadlessViewport(nil), e.viewports...)
}

// Close closes all viewports created by this engine.
func (e *HeadlessEngine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, vp := range e.viewports {
		_ = vp.Close()
	}
	e.viewports = nil
	return nil
}

// HeadlessViewport implements Viewport over plain state.
type HeadlessViewport struct {
	mu        sync.Mutex
	container string
	opts      Options
	center    geom.XY
	zoom      float64
	maxBounds *core.Bounds
	layers    []*headlessLayer
	markers   map[*HeadlessMarker]struct{}
	ops       *queue.Queue[CameraOp]
	closed    bool
}

// Unproject divides pixel-grid coordinates by the zoom scale. The simple
// unbounded projection carries no datum; the Y-axis flip between image
// space and projected space belongs to the coordinate mapper, not here.
func (v *HeadlessViewport) Unproject(p core.PixelPoint, zoom float64) geom.XY {
	scale := math.Exp2(zoom)
	return geom.XY{X: p.X / scale, Y: p.Y / scale}
}

// FitBounds centers the camera on the bounds at the reference zoom.
func (v *HeadlessViewport) FitBounds(b core.Bounds, opts MoveOptions) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return
	}
	v.center = b.Center()
	v.zoom = v.clampZoom(0)
	v.ops.Push(CameraOp{Kind: "fitBounds", Center: v.center, Zoom: v.zoom, Bounds: b, Animated: opts.Animate})
}

// SetView centers the camera on a coordinate at a zoom level, clamped to
// the zoom range and the pan bounds.
func (v *HeadlessViewport) SetView(center geom.XY, zoom float64, opts MoveOptions) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return
	}
	if v.maxBounds != nil && v.opts.MaxBoundsViscosity >= 1 {
		center = v.maxBounds.Clamp(center)
	}
	v.center = center
	v.zoom = v.clampZoom(zoom)
	v.ops.Push(CameraOp{Kind: "setView", Center: v.center, Zoom: v.zoom, Animated: opts.Animate})
}

func (v *HeadlessViewport) clampZoom(zoom float64) float64 {
	if v.opts.MaxZoom > v.opts.MinZoom {
		zoom = math.Max(v.opts.MinZoom, math.Min(v.opts.MaxZoom, zoom))
	}
	if v.opts.ZoomSnap > 0 {
		zoom = math.Round(zoom/v.opts.ZoomSnap) * v.opts.ZoomSnap
	}
	return zoom
}

// SetMaxBounds clamps panning to the given rectangle.
func (v *HeadlessViewport) SetMaxBounds(b core.Bounds) {
	v.mu.Lock()
	defer v.mu.Unlock()
	bounds := b
	v.maxBounds = &bounds
}

// AddImageLayer attaches a raster image over the given bounds.
func (v *HeadlessViewport) AddImageLayer(url string, b core.Bounds) (ImageLayer, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return nil, ErrViewportClosed
	}
	layer := &headlessLayer{vp: v, url: url, bounds: b}
	v.layers = append(v.layers, layer)
	return layer, nil
}

// AddMarker places a point marker with icon content and a click callback.
func (v *HeadlessViewport) AddMarker(at geom.XY, icon Icon, onClick func()) MarkerHandle {
	v.mu.Lock()
	defer v.mu.Unlock()
	m := &HeadlessMarker{vp: v, pos: at, icon: icon, onClick: onClick}
	v.markers[m] = struct{}{}
	return m
}

// Center returns the current camera center.
func (v *HeadlessViewport) Center() geom.XY {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.center
}

// Zoom returns the current zoom level.
func (v *HeadlessViewport) Zoom() float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.zoom
}

// Close releases the viewport. Further camera calls are no-ops.
func (v *HeadlessViewport) Close() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.closed = true
	v.markers = make(map[*HeadlessMarker]struct{})
	v.layers = nil
	return nil
}

// MaxBounds returns the pan clamp, if one was applied.
func (v *HeadlessViewport) MaxBounds() (core.Bounds, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.maxBounds == nil {
		return core.Bounds{}, false
	}
	return *v.maxBounds, true
}

// Markers returns the live marker handles, for inspection.
func (v *HeadlessViewport) Markers() []*HeadlessMarker {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]*HeadlessMarker, 0, len(v.markers))
	for m := range v.markers {
		out = append(out, m)
	}
	return out
}

// Layers returns the attached image layers, for inspection.
func (v *HeadlessViewport) Layers() []ImageLayer {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]ImageLayer, 0, len(v.layers))
	for _, l := range v.layers {
		out = append(out, l)
	}
	return out
}

// LastOp returns the most recent camera operation.
func (v *HeadlessViewport) LastOp() (CameraOp, bool) {
	return v.ops.Last()
}

// Ops drains and returns the recorded camera operations.
func (v *HeadlessViewport) Ops() []CameraOp {
	return v.ops.GetAndEmpty()
}

type headlessLayer struct {
	vp     *HeadlessViewport
	url    string
	bounds core.Bounds
}

func (l *headlessLayer) URL() string { return l.url }

func (l *headlessLayer) Bounds() core.Bounds { return l.bounds }

func (l *headlessLayer) Remove() {
	l.vp.mu.Lock()
	defer l.vp.mu.Unlock()
	for i, other := range l.vp.layers {
		if other == l {
			l.vp.layers = append(l.vp.layers[:i], l.vp.layers[i+1:]...)
			return
		}
	}
}

// HeadlessMarker is the headless engine's marker handle.
type HeadlessMarker struct {
	vp      *HeadlessViewport
	mu      sync.Mutex
	pos     geom.XY
	icon    Icon
	onClick func()
	removed bool
}

// Position returns the marker's projected-space position.
func (m *HeadlessMarker) Position() geom.XY {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pos
}

// Icon returns the marker's current icon.
func (m *HeadlessMarker) Icon() Icon {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.icon
}

// SetIcon replaces the marker's icon.
func (m *HeadlessMarker) SetIcon(icon Icon) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.icon = icon
}

// Remove destroys the marker. A removed marker never fires its click
// callback again.
func (m *HeadlessMarker) Remove() {
	m.mu.Lock()
	m.removed = true
	m.onClick = nil
	m.mu.Unlock()

	m.vp.mu.Lock()
	delete(m.vp.markers, m)
	m.vp.mu.Unlock()
}

// Click simulates a user click on the marker.
func (m *HeadlessMarker) Click() {
	m.mu.Lock()
	cb := m.onClick
	m.mu.Unlock()
	if cb != nil {
		cb()
	}
}
