// Package registry owns the mapping from marker label to its live
// on-screen handle, and tracks which marker (if any) is selected.
package registry

import (
	"sync"

	"github.com/planviz/floorview/internal/geo"
	"github.com/planviz/floorview/internal/render"
	"github.com/planviz/floorview/pkg/core"
)

// Registry reconciles on-screen marker handles against an input marker
// list. Handles are scoped to one update cycle: every Reconcile pass
// discards and rebuilds all of them rather than diffing individual
// entries. Simplicity over incremental-update performance; fine at
// floor-plan marker counts.
type Registry struct {
	mu       sync.RWMutex
	handles  map[string]render.MarkerHandle
	selected string
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{
		handles: make(map[string]render.MarkerHandle),
	}
}

// Reconcile clears all existing handles, then creates one handle per
// input marker at its projected position, styled per the current
// selection, with a click callback carrying that marker's label.
//
// Handles from a prior pass are destroyed atomically at the start, so no
// stale click callback can interleave with the new pass.
func (r *Registry) Reconcile(vp render.Viewport, markers []core.Marker, imageHeight float64, onClick func(label string)) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, h := range r.handles {
		h.Remove()
	}
	r.handles = make(map[string]render.MarkerHandle, len(markers))

	for _, m := range markers {
		label := m.Label
		pos := geo.ToProjected(core.PixelPoint{X: m.X, Y: m.Y}, imageHeight)
		icon := render.Icon{Text: label, Selected: label == r.selected}
		r.handles[label] = vp.AddMarker(pos, icon, func() {
			onClick(label)
		})
	}
}

// Lookup retrieves a handle by label. Not-found is a recoverable
// condition for callers, not an error: a camera move targeting a missing
// marker is simply skipped.
func (r *Registry) Lookup(label string) (render.MarkerHandle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handles[label]
	return h, ok
}

// Selected returns the currently selected label, empty if none.
func (r *Registry) Selected() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.selected
}

// SetSelected records the selected label. An empty label clears the
// selection. Styling catches up on the next Reconcile pass.
func (r *Registry) SetSelected(label string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.selected = label
}

// Labels returns the label set of the current handle mapping.
func (r *Registry) Labels() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	labels := make([]string, 0, len(r.handles))
	for label := range r.handles {
		labels = append(labels, label)
	}
	return labels
}

// Len returns the number of live handles.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.handles)
}

// Clear removes all handles from the screen and forgets them.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, h := range r.handles {
		h.Remove()
	}
	r.handles = make(map[string]render.MarkerHandle)
}
