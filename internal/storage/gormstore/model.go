package gormstore

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PlanRow is the catalog row for one floor plan.
type PlanRow struct {
	gorm.Model
	Name     string `gorm:"uniqueIndex"`
	ImageURL string

	// Anchor holds the optional georeference as JSON; most plans carry
	// none, so a nullable document beats three sparse columns.
	Anchor datatypes.JSON

	Markers []MarkerRow `gorm:"constraint:OnDelete:CASCADE"`
}

// MarkerRow is the catalog row for one marker on a plan.
type MarkerRow struct {
	gorm.Model
	PlanRowID uint   `gorm:"index"`
	MarkerID  uint   // opaque id carried through to the viewer
	Label     string `gorm:"index"`
	X         float64
	Y         float64
}
