// Package monitor reports runtime status for the viewer server: uptime,
// live session counts, event queue depth, and storage health.
package monitor

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// Dependencies holds all dependencies for the monitor service.
type Dependencies struct {
	SessionCount   func() int
	EventQueueLen  func() int
	IsStorageValid func() bool
	StorageType    string
}

// Status is the snapshot returned to status consumers.
type Status struct {
	Time          time.Time `json:"time"`
	UptimeSeconds float64   `json:"uptimeSeconds"`
	Sessions      int       `json:"sessions"`
	EventQueueLen int       `json:"eventQueueLen"`
	StorageType   string    `json:"storageType"`
	StorageValid  bool      `json:"storageValid"`
}

// Service manages status monitoring.
type Service struct {
	deps      Dependencies
	startedAt time.Time
	mu        sync.RWMutex
}

// NewService creates a new monitor service.
func NewService(deps Dependencies) *Service {
	return &Service{
		deps:      deps,
		startedAt: time.Now(),
	}
}

// GetStatus returns the current server status.
func (s *Service) GetStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Status{
		Time:          time.Now(),
		UptimeSeconds: time.Since(s.startedAt).Seconds(),
		StorageType:   s.deps.StorageType,
	}
	if s.deps.SessionCount != nil {
		st.Sessions = s.deps.SessionCount()
	}
	if s.deps.EventQueueLen != nil {
		st.EventQueueLen = s.deps.EventQueueLen()
	}
	if s.deps.IsStorageValid != nil {
		st.StorageValid = s.deps.IsStorageValid()
	}
	return st
}

// GetStatusJSON returns the current status as indented JSON.
func (s *Service) GetStatusJSON() string {
	raw, err := json.MarshalIndent(s.GetStatus(), "", "  ")
	if err != nil {
		return fmt.Sprintf(`{"error": "%s"}`, err)
	}
	return string(raw)
}
