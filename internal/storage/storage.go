// internal/storage/storage.go
package storage

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/planviz/floorview/internal/config"
	"github.com/planviz/floorview/internal/storage/gormstore"
	"github.com/planviz/floorview/internal/storage/memory"
	"github.com/planviz/floorview/pkg/core"
)

// Backend is the interface all catalog storage implementations must
// satisfy. The catalog feeds viewer instances their plan and marker
// lists; view-session state itself is never persisted here.
type Backend interface {
	// Lifecycle
	Init() error
	Close() error

	// Plan catalog
	SavePlan(p *core.FloorPlan) error
	GetPlan(name string) (core.FloorPlan, error)
	ListPlans() ([]core.FloorPlan, error)
	DeletePlan(name string) error

	// Marker catalog, keyed by plan name. SaveMarkers replaces the full
	// set for a plan, mirroring the viewer's own clear-and-rebuild
	// reconciliation.
	SaveMarkers(plan string, markers []core.Marker) error
	ListMarkers(plan string) ([]core.Marker, error)
}

// NewBackend creates a storage backend based on configuration.
func NewBackend(cfg config.StorageConfig, log zerolog.Logger) (Backend, error) {
	switch cfg.Type {
	case "postgres":
		return gormstore.NewPostgres(log)
	case "sqlite":
		return gormstore.NewSqlite(cfg.SqlitePath, log)
	case "memory":
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}
