// Package view orchestrates camera movement, marker selection and the
// async initialization sequence of one floor-plan viewer instance.
package view

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/planviz/floorview/internal/channel"
	"github.com/planviz/floorview/internal/events"
	"github.com/planviz/floorview/internal/geo"
	"github.com/planviz/floorview/internal/imageload"
	"github.com/planviz/floorview/internal/navsync"
	"github.com/planviz/floorview/internal/registry"
	"github.com/planviz/floorview/internal/render"
	"github.com/planviz/floorview/internal/util"
	"github.com/planviz/floorview/pkg/core"

	geom "github.com/peterstace/simplefeatures/geom"
)

const (
	// MarkerZoom is the zoom level used when flying to a marker.
	MarkerZoom = 1

	// FlyDuration is the camera animation length for selection moves.
	FlyDuration = 500 * time.Millisecond

	// updateBuffer sizes the selection-change notification channel.
	updateBuffer = 16
)

// Command names accepted on the events dispatcher.
const (
	CmdSelect  = "view:select"
	CmdReset   = "view:reset"
	CmdMarkers = "view:markers"
)

// ErrAlreadyInitialized is returned when Initialize is called twice.
var ErrAlreadyInitialized = errors.New("viewer already initialized")

// SelectionChange notifies observers of a selection-state transition.
type SelectionChange struct {
	Label    string // empty when the selection was cleared
	Selected bool
}

// Config carries the per-instance inbound configuration.
type Config struct {
	// Container names the host element the viewport binds to.
	Container string

	// FloorPlanURL is the image resource to load and display.
	FloorPlanURL string

	// Markers is the input marker set.
	Markers []core.Marker

	// Viewport tunes the rendering engine; zero value means defaults.
	Viewport render.Options
}

// Dependencies holds the collaborators a controller needs.
type Dependencies struct {
	Engine   render.Loader
	Loader   *imageload.Loader
	Registry *registry.Registry
	Nav      *navsync.Sync      // optional
	Events   *events.Dispatcher // optional
	Logger   *slog.Logger       // optional
}

// Controller owns the state machine Uninitialized → Initializing →
// Ready | Failed and mediates between user interaction, the marker
// registry and navigation-state sync. All public operations before Ready
// are guarded no-ops, not errors; only Initialize can fail.
type Controller struct {
	deps Dependencies
	cfg  Config

	mu        sync.Mutex
	state     State
	engine    render.Engine
	vp        render.Viewport
	metrics   core.ImageMetrics
	bounds    core.Bounds
	maxBounds core.Bounds
	markers   []core.Marker

	updates channel.Channel[SelectionChange]
}

// New creates a controller. If an events dispatcher is supplied, the
// controller registers its command handlers on it.
func New(cfg Config, deps Dependencies) *Controller {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Loader == nil {
		deps.Loader = imageload.New()
	}
	if deps.Registry == nil {
		deps.Registry = registry.New()
	}
	if cfg.Viewport == (render.Options{}) {
		cfg.Viewport = render.DefaultOptions()
	}

	c := &Controller{
		deps:    deps,
		cfg:     cfg,
		state:   Uninitialized,
		markers: cfg.Markers,
		updates: channel.New[SelectionChange](updateBuffer),
	}

	if deps.Events != nil {
		deps.Events.Register(CmdSelect, c.handleSelectEvent)
		deps.Events.Register(CmdReset, c.handleResetEvent)
		deps.Events.Register(CmdMarkers, c.handleMarkersEvent)
	}

	return c
}

// Initialize runs the async initialization sequence: acquire the engine,
// load the image, compute and apply bounds, attach the image layer,
// reconcile markers, fit the viewport, then apply any externally supplied
// selection. Failure is terminal for this instance; it is logged,
// returned once, and never retried internally.
func (c *Controller) Initialize(ctx context.Context) error {
	c.mu.Lock()
	if c.state != Uninitialized {
		c.mu.Unlock()
		return ErrAlreadyInitialized
	}
	c.state = Initializing
	c.mu.Unlock()

	engine, err := c.deps.Engine(ctx)
	if err != nil {
		return c.fail(fmt.Errorf("acquiring rendering engine: %w", err))
	}

	vp, err := engine.NewViewport(c.cfg.Container, c.cfg.Viewport)
	if err != nil {
		return c.fail(fmt.Errorf("creating viewport: %w", err))
	}

	metrics, err := c.deps.Loader.Metrics(ctx, c.cfg.FloorPlanURL)
	if err != nil {
		return c.fail(fmt.Errorf("loading floor plan %q: %w", c.cfg.FloorPlanURL, err))
	}

	bounds := geo.ComputeBounds(vp, metrics.Width, metrics.Height)
	maxBounds := geo.ComputeMaxBounds(bounds, metrics.Width, metrics.Height)

	vp.SetMaxBounds(maxBounds)
	if _, err := vp.AddImageLayer(c.cfg.FloorPlanURL, bounds); err != nil {
		return c.fail(fmt.Errorf("attaching floor plan layer: %w", err))
	}

	c.mu.Lock()
	c.engine = engine
	c.vp = vp
	c.metrics = metrics
	c.bounds = bounds
	c.maxBounds = maxBounds

	c.deps.Registry.Reconcile(vp, c.markers, metrics.Height, c.onMarkerClick)
	vp.FitBounds(bounds, render.MoveOptions{})
	c.state = Ready
	c.mu.Unlock()

	c.deps.Logger.Info("viewer ready",
		"floorPlan", c.cfg.FloorPlanURL,
		"width", metrics.Width,
		"height", metrics.Height,
		"markers", len(c.markers))

	c.applyExternalSelection()
	return nil
}

func (c *Controller) fail(err error) error {
	c.mu.Lock()
	c.state = Failed
	c.mu.Unlock()
	c.deps.Logger.Error("viewer initialization failed", "error", err)
	return err
}

// applyExternalSelection restores a selection supplied through the
// navigation state. Unlike a user click there is no toggle-off branch;
// and when the referenced marker is absent the selection still applies
// with the camera move skipped, matching the click-path lookup policy.
func (c *Controller) applyExternalSelection() {
	if c.deps.Nav == nil {
		return
	}
	label, ok := c.deps.Nav.External()
	if !ok {
		return
	}

	c.mu.Lock()
	if c.state != Ready {
		c.mu.Unlock()
		return
	}
	c.deps.Registry.SetSelected(label)
	if h, found := c.deps.Registry.Lookup(label); found {
		c.vp.SetView(h.Position(), MarkerZoom, render.MoveOptions{Animate: true, Duration: FlyDuration})
	} else {
		c.deps.Logger.Warn("navigation state references unknown marker", "label", label)
	}
	c.deps.Registry.Reconcile(c.vp, c.markers, c.metrics.Height, c.onMarkerClick)
	c.mu.Unlock()

	c.notify(SelectionChange{Label: label, Selected: true})
	c.deps.Nav.WriteBack(label)
}

// onMarkerClick is the click subscription attached to every handle.
func (c *Controller) onMarkerClick(label string) {
	c.SelectMarker(label)
}

// SelectMarker runs the selection-toggle protocol. Selecting the active
// label clears the selection and resets the camera to the default view;
// selecting another label moves the selection and flies the camera to the
// marker. A label with no live handle still updates the selection but
// skips the camera move. Rapid repeated calls supersede each other's
// animations; the last call wins on final state.
//
// The label is taken verbatim. Labels are opaque identity, so a marker
// named " A " is selected by exactly " A "; inbound sources that need
// cleanup (navigation state, commands) normalize before calling.
func (c *Controller) SelectMarker(label string) {
	c.mu.Lock()
	if c.state != Ready {
		c.mu.Unlock()
		return
	}

	var change SelectionChange
	if label == c.deps.Registry.Selected() {
		c.deps.Registry.SetSelected("")
		c.vp.FitBounds(c.bounds, render.MoveOptions{Animate: true, Duration: FlyDuration})
		change = SelectionChange{Label: "", Selected: false}
	} else {
		c.deps.Registry.SetSelected(label)
		if h, found := c.deps.Registry.Lookup(label); found {
			c.vp.SetView(h.Position(), MarkerZoom, render.MoveOptions{Animate: true, Duration: FlyDuration})
		}
		change = SelectionChange{Label: label, Selected: true}
	}

	c.deps.Registry.Reconcile(c.vp, c.markers, c.metrics.Height, c.onMarkerClick)
	selected := c.deps.Registry.Selected()
	c.mu.Unlock()

	c.notify(change)
	if c.deps.Nav != nil {
		c.deps.Nav.WriteBack(selected)
	}
}

// ResetView clears the selection and returns the camera to the overview.
func (c *Controller) ResetView() {
	c.mu.Lock()
	if c.state != Ready {
		c.mu.Unlock()
		return
	}
	c.deps.Registry.SetSelected("")
	c.vp.FitBounds(c.bounds, render.MoveOptions{Animate: true, Duration: FlyDuration})
	c.deps.Registry.Reconcile(c.vp, c.markers, c.metrics.Height, c.onMarkerClick)
	c.mu.Unlock()

	c.notify(SelectionChange{Label: "", Selected: false})
	if c.deps.Nav != nil {
		c.deps.Nav.WriteBack("")
	}
}

// SetMarkers replaces the input marker list. When the viewer is ready the
// marker layer is fully rebuilt; a selection referencing a removed marker
// stays set, with camera moves skipping it from now on.
func (c *Controller) SetMarkers(markers []core.Marker) {
	c.mu.Lock()
	c.markers = markers
	if c.state == Ready {
		c.deps.Registry.Reconcile(c.vp, c.markers, c.metrics.Height, c.onMarkerClick)
	}
	c.mu.Unlock()
}

// State returns the controller state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Selection returns the current selection label, empty if none.
func (c *Controller) Selection() string {
	return c.deps.Registry.Selected()
}

// Markers returns the current input marker list.
func (c *Controller) Markers() []core.Marker {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.markers
}

// Metrics returns the captured image dimensions.
func (c *Controller) Metrics() core.ImageMetrics {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.metrics
}

// Bounds returns the default view bounds and the padded pan clamp.
func (c *Controller) Bounds() (defaultBounds, maxBounds core.Bounds) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.bounds, c.maxBounds
}

// Camera returns the current camera center and zoom.
func (c *Controller) Camera() (geom.XY, float64) {
	c.mu.Lock()
	vp := c.vp
	c.mu.Unlock()
	if vp == nil {
		return geom.XY{}, 0
	}
	return vp.Center(), vp.Zoom()
}

// Updates exposes selection-change notifications. Slow consumers drop
// intermediate changes rather than stalling selection.
func (c *Controller) Updates() channel.Receiver[SelectionChange] {
	return c.updates
}

// notify publishes a selection change unless Close already took the
// channel down. The state check shares the mutex with Close, so a send
// can never race the close.
func (c *Controller) notify(change SelectionChange) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == Closed {
		return
	}
	c.updates.TrySend(change)
}

// Close releases the viewport and engine and closes the updates channel.
// The controller leaves Ready, so later operations are guarded no-ops.
// Safe to call more than once.
func (c *Controller) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == Closed {
		return nil
	}
	if c.vp != nil {
		_ = c.vp.Close()
	}
	if c.engine != nil {
		_ = c.engine.Close()
	}
	c.state = Closed
	c.updates.Close()
	return nil
}

func (c *Controller) handleSelectEvent(e events.Event) (any, error) {
	if len(e.Args) == 0 {
		return nil, fmt.Errorf("%s: missing label argument", CmdSelect)
	}
	c.SelectMarker(util.NormalizeLabel(e.Args[0]))
	return c.Selection(), nil
}

func (c *Controller) handleResetEvent(events.Event) (any, error) {
	c.ResetView()
	return "reset", nil
}

// handleMarkersEvent replaces the marker list from "label=x,y" arguments.
func (c *Controller) handleMarkersEvent(e events.Event) (any, error) {
	markers := make([]core.Marker, 0, len(e.Args))
	for i, raw := range e.Args {
		label, coords, ok := strings.Cut(raw, "=")
		if !ok {
			return nil, fmt.Errorf("%s: arg %d: want label=x,y", CmdMarkers, i)
		}
		p, err := geo.PixelFromString(coords)
		if err != nil {
			return nil, fmt.Errorf("%s: arg %d: %w", CmdMarkers, i, err)
		}
		markers = append(markers, core.Marker{
			ID:    uint(i + 1),
			X:     p.X,
			Y:     p.Y,
			Label: util.NormalizeLabel(label),
		})
	}
	c.SetMarkers(markers)
	return len(markers), nil
}
