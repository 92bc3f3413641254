// pkg/core/floorplan.go
package core

import "errors"

// ErrPlanNotFound is returned when a plan name has no catalog entry.
var ErrPlanNotFound = errors.New("floor plan not found")

// FloorPlan describes one floor image and its optional georeference.
// A viewer instance displays exactly one plan; multi-floor composition
// is handled by the embedding application.
type FloorPlan struct {
	Name     string `json:"name"`
	ImageURL string `json:"imageUrl"`

	// Anchor georeferences the plan's top-left pixel, when known.
	Anchor *GeoAnchor `json:"anchor,omitempty"`
}

// GeoAnchor ties the plan's top-left pixel to a real-world position.
type GeoAnchor struct {
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	MetersPerPixel float64 `json:"metersPerPixel"`
}

// ImageMetrics holds the source image dimensions in pixels. Captured once
// during viewer initialization and never changed afterwards.
type ImageMetrics struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}
