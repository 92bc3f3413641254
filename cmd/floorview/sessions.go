package main

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/planviz/floorview/internal/events"
	"github.com/planviz/floorview/internal/navsync"
	"github.com/planviz/floorview/internal/render"
	"github.com/planviz/floorview/internal/storage"
	"github.com/planviz/floorview/internal/telemetry"
	"github.com/planviz/floorview/internal/view"
	"github.com/planviz/floorview/pkg/core"
)

// ErrSessionNotFound is returned when a session id has no live entry.
var ErrSessionNotFound = errors.New("session not found")

// Session is one live viewer instance bound to a plan from the catalog.
type Session struct {
	ID         string
	Plan       core.FloorPlan
	Controller *view.Controller
	Store      *navsync.MemoryStore
	Dispatcher *events.Dispatcher
	CreatedAt  time.Time
}

// SessionManager owns the live viewer sessions. Each session gets its
// own controller, dispatcher and navigation store; the catalog backend
// and telemetry sink are shared.
type SessionManager struct {
	backend   storage.Backend
	telemetry *telemetry.Manager
	log       *slog.Logger

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewSessionManager creates a session manager over the given catalog.
func NewSessionManager(backend storage.Backend, tm *telemetry.Manager, log *slog.Logger) *SessionManager {
	return &SessionManager{
		backend:   backend,
		telemetry: tm,
		log:       log,
		sessions:  make(map[string]*Session),
	}
}

// Create builds and initializes a viewer session for the named plan.
// selection seeds the navigation state, so a shared view is restored
// with its marker already selected.
func (sm *SessionManager) Create(ctx context.Context, planName, selection string) (*Session, error) {
	plan, err := sm.backend.GetPlan(planName)
	if err != nil {
		return nil, err
	}
	markers, err := sm.backend.ListMarkers(planName)
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	log := sm.log.With("session", id, "plan", planName)
	log.Debug("Plan markers loaded", "labels", core.Labels(markers))

	dispatcher, err := events.New(log)
	if err != nil {
		return nil, err
	}

	store := navsync.NewMemoryStore(selection)

	ctrl := view.New(view.Config{
		Container:    "session-" + id,
		FloorPlanURL: plan.ImageURL,
		Markers:      markers,
	}, view.Dependencies{
		Engine: render.LoadHeadless,
		Nav:    navsync.New(store, log),
		Events: dispatcher,
		Logger: log,
	})

	if err := ctrl.Initialize(ctx); err != nil {
		return nil, err
	}

	s := &Session{
		ID:         id,
		Plan:       plan,
		Controller: ctrl,
		Store:      store,
		Dispatcher: dispatcher,
		CreatedAt:  time.Now(),
	}

	sm.mu.Lock()
	sm.sessions[id] = s
	sm.mu.Unlock()

	go sm.drainUpdates(s)

	if sm.telemetry != nil {
		_ = sm.telemetry.RecordSession(ctx, planName, "created")
	}
	log.Info("Session created", "markers", len(markers))

	return s, nil
}

// drainUpdates forwards selection changes to telemetry until the
// session's update channel is closed.
func (sm *SessionManager) drainUpdates(s *Session) {
	for change := range s.Controller.Updates().Receive() {
		if sm.telemetry == nil {
			continue
		}
		_ = sm.telemetry.RecordSelection(context.Background(), s.Plan.Name, change.Label, change.Selected)
	}
}

// Get returns the session with the given id.
func (sm *SessionManager) Get(id string) (*Session, error) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	s, ok := sm.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Delete closes and removes a session.
func (sm *SessionManager) Delete(id string) error {
	sm.mu.Lock()
	s, ok := sm.sessions[id]
	if ok {
		delete(sm.sessions, id)
	}
	sm.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}

	if err := s.Controller.Close(); err != nil {
		sm.log.Error("Session close failed", "session", id, "error", err)
	}
	if sm.telemetry != nil {
		_ = sm.telemetry.RecordSession(context.Background(), s.Plan.Name, "closed")
	}
	return nil
}

// Count returns the number of live sessions.
func (sm *SessionManager) Count() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.sessions)
}

// CloseAll tears down every live session, for shutdown.
func (sm *SessionManager) CloseAll() {
	sm.mu.Lock()
	sessions := sm.sessions
	sm.sessions = make(map[string]*Session)
	sm.mu.Unlock()

	for id, s := range sessions {
		if err := s.Controller.Close(); err != nil {
			sm.log.Error("Session close failed", "session", id, "error", err)
		}
	}
}
