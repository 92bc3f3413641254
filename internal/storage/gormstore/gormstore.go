// Package gormstore implements the plan catalog on a relational
// database via GORM. Postgres and SQLite share the same backend; the
// only driver-specific concern is how the connection is opened.
package gormstore

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"gorm.io/gorm"

	"github.com/planviz/floorview/pkg/core"
)

// Backend stores the plan and marker catalog in a GORM-managed database.
type Backend struct {
	db  *gorm.DB
	log zerolog.Logger
}

// NewPostgres creates a backend on the configured Postgres database,
// falling back to SQLite when the connection cannot be established.
func NewPostgres(log zerolog.Logger) (*Backend, error) {
	db, err := openPostgres(log)
	if err != nil {
		log.Error().Err(err).Msg("Failed to connect to Postgres DB, trying SQLite")
		db, err = openSqlite(viper.GetString("storage.sqlitePath"), log)
		if err != nil {
			return nil, fmt.Errorf("failed to get local SQLite DB: %w", err)
		}
	}
	return &Backend{db: db, log: log}, nil
}

// NewSqlite creates a backend on a local SQLite database. An empty path
// selects a shared in-memory database.
func NewSqlite(path string, log zerolog.Logger) (*Backend, error) {
	db, err := openSqlite(path, log)
	if err != nil {
		return nil, err
	}
	return &Backend{db: db, log: log}, nil
}

// Init migrates the catalog schema.
func (b *Backend) Init() error {
	if err := b.db.AutoMigrate(&PlanRow{}, &MarkerRow{}); err != nil {
		return fmt.Errorf("failed to migrate catalog schema: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (b *Backend) Close() error {
	sqlDB, err := b.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// SavePlan inserts or updates the catalog entry for p, keyed by name.
func (b *Backend) SavePlan(p *core.FloorPlan) error {
	row := PlanRow{
		Name:     p.Name,
		ImageURL: p.ImageURL,
	}
	if p.Anchor != nil {
		doc, err := json.Marshal(p.Anchor)
		if err != nil {
			return fmt.Errorf("failed to encode anchor: %w", err)
		}
		row.Anchor = doc
	}

	var existing PlanRow
	err := b.db.Where("name = ?", p.Name).First(&existing).Error
	switch {
	case err == nil:
		row.ID = existing.ID
		return b.db.Save(&row).Error
	case errors.Is(err, gorm.ErrRecordNotFound):
		return b.db.Create(&row).Error
	default:
		return err
	}
}

// GetPlan returns the plan stored under name.
func (b *Backend) GetPlan(name string) (core.FloorPlan, error) {
	var row PlanRow
	err := b.db.Where("name = ?", name).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return core.FloorPlan{}, core.ErrPlanNotFound
	}
	if err != nil {
		return core.FloorPlan{}, err
	}
	return rowToPlan(row)
}

// ListPlans returns all catalog entries ordered by name.
func (b *Backend) ListPlans() ([]core.FloorPlan, error) {
	var rows []PlanRow
	if err := b.db.Order("name").Find(&rows).Error; err != nil {
		return nil, err
	}

	plans := make([]core.FloorPlan, 0, len(rows))
	for _, row := range rows {
		p, err := rowToPlan(row)
		if err != nil {
			b.log.Warn().Err(err).Str("plan", row.Name).Msg("Skipping plan with corrupt anchor")
			continue
		}
		plans = append(plans, p)
	}
	return plans, nil
}

// DeletePlan removes a plan and its markers.
func (b *Backend) DeletePlan(name string) error {
	row, err := b.planRow(name)
	if err != nil {
		return err
	}

	return b.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("plan_row_id = ?", row.ID).Delete(&MarkerRow{}).Error; err != nil {
			return err
		}
		return tx.Delete(&row).Error
	})
}

// SaveMarkers replaces the stored marker set for a plan.
func (b *Backend) SaveMarkers(plan string, markers []core.Marker) error {
	row, err := b.planRow(plan)
	if err != nil {
		return err
	}

	return b.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("plan_row_id = ?", row.ID).Delete(&MarkerRow{}).Error; err != nil {
			return err
		}
		for _, m := range markers {
			mr := MarkerRow{
				PlanRowID: row.ID,
				MarkerID:  m.ID,
				Label:     m.Label,
				X:         m.X,
				Y:         m.Y,
			}
			if err := tx.Create(&mr).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// ListMarkers returns the marker set stored for a plan, in insertion order.
func (b *Backend) ListMarkers(plan string) ([]core.Marker, error) {
	row, err := b.planRow(plan)
	if err != nil {
		return nil, err
	}

	var rows []MarkerRow
	if err := b.db.Where("plan_row_id = ?", row.ID).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}

	markers := make([]core.Marker, 0, len(rows))
	for _, mr := range rows {
		markers = append(markers, core.Marker{
			ID:    mr.MarkerID,
			X:     mr.X,
			Y:     mr.Y,
			Label: mr.Label,
		})
	}
	return markers, nil
}

func (b *Backend) planRow(name string) (PlanRow, error) {
	var row PlanRow
	err := b.db.Where("name = ?", name).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return PlanRow{}, core.ErrPlanNotFound
	}
	return row, err
}

func rowToPlan(row PlanRow) (core.FloorPlan, error) {
	p := core.FloorPlan{
		Name:     row.Name,
		ImageURL: row.ImageURL,
	}
	if len(row.Anchor) > 0 {
		var anchor core.GeoAnchor
		if err := json.Unmarshal(row.Anchor, &anchor); err != nil {
			return core.FloorPlan{}, fmt.Errorf("failed to decode anchor: %w", err)
		}
		p.Anchor = &anchor
	}
	return p, nil
}
