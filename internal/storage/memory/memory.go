// Package memory implements the plan catalog in process memory. It is
// the default backend for tests and single-process deployments where
// the catalog is seeded at startup.
package memory

import (
	"sort"
	"sync"

	"github.com/planviz/floorview/pkg/core"
)

// PlanRecord groups a plan with its marker set.
type PlanRecord struct {
	Plan    core.FloorPlan
	Markers []core.Marker
}

// Backend stores the plan catalog in memory.
type Backend struct {
	plans map[string]*PlanRecord // keyed by plan name
	mu    sync.RWMutex
}

// New creates a new memory backend.
func New() *Backend {
	return &Backend{
		plans: make(map[string]*PlanRecord),
	}
}

// Init initializes the backend.
func (b *Backend) Init() error {
	return nil
}

// Close cleans up resources.
func (b *Backend) Close() error {
	return nil
}

// SavePlan inserts or replaces the catalog entry for p, keyed by name.
// Markers already stored under the name are kept.
func (b *Backend) SavePlan(p *core.FloorPlan) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if record, ok := b.plans[p.Name]; ok {
		record.Plan = *p
		return nil
	}
	b.plans[p.Name] = &PlanRecord{Plan: *p}
	return nil
}

// GetPlan returns the plan stored under name.
func (b *Backend) GetPlan(name string) (core.FloorPlan, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	record, ok := b.plans[name]
	if !ok {
		return core.FloorPlan{}, core.ErrPlanNotFound
	}
	return record.Plan, nil
}

// ListPlans returns all catalog entries ordered by name.
func (b *Backend) ListPlans() ([]core.FloorPlan, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	plans := make([]core.FloorPlan, 0, len(b.plans))
	for _, record := range b.plans {
		plans = append(plans, record.Plan)
	}
	sort.Slice(plans, func(i, j int) bool { return plans[i].Name < plans[j].Name })
	return plans, nil
}

// DeletePlan removes a plan and its markers.
func (b *Backend) DeletePlan(name string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.plans[name]; !ok {
		return core.ErrPlanNotFound
	}
	delete(b.plans, name)
	return nil
}

// SaveMarkers replaces the stored marker set for a plan.
func (b *Backend) SaveMarkers(plan string, markers []core.Marker) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	record, ok := b.plans[plan]
	if !ok {
		return core.ErrPlanNotFound
	}
	record.Markers = append([]core.Marker(nil), markers...)
	return nil
}

// ListMarkers returns the marker set stored for a plan, in insertion order.
func (b *Backend) ListMarkers(plan string) ([]core.Marker, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	record, ok := b.plans[plan]
	if !ok {
		return nil, core.ErrPlanNotFound
	}
	return append([]core.Marker(nil), record.Markers...), nil
}
