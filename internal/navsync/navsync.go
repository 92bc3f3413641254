// Package navsync binds the viewer's selection state to an externally
// addressable navigation-state store: the selection key is read once
// after initialization and written back on every selection change, so a
// view can be shared or restored by its navigation state alone.
package navsync

import (
	"log/slog"

	"github.com/planviz/floorview/internal/util"
)

// Key is the navigation-state key carrying the selected marker label.
const Key = "name"

// Store reads and writes the external navigation state. Writing a new
// selection produces a visitable state change in the host application.
type Store interface {
	// Read returns the current selection label, false if none is set.
	Read() (string, bool)

	// Write publishes a new selection label.
	Write(label string) error

	// Clear removes the selection from the navigation state.
	Clear() error
}

// Sync is the bidirectional binding between selection state and a Store.
type Sync struct {
	store Store
	log   *slog.Logger
}

// New creates a Sync over the given store.
func New(store Store, log *slog.Logger) *Sync {
	if log == nil {
		log = slog.Default()
	}
	return &Sync{store: store, log: log}
}

// External returns the externally supplied selection label, normalized,
// if one is present. Whether the label actually resolves to a marker is
// the caller's concern; a missing marker downgrades to a camera-move
// skip, never a failure.
func (s *Sync) External() (string, bool) {
	label, ok := s.store.Read()
	if !ok {
		return "", false
	}
	label = util.NormalizeLabel(label)
	if label == "" {
		return "", false
	}
	return label, true
}

// WriteBack publishes the selection after a change. An empty label clears
// the stored state. Store failures are logged and swallowed: navigation
// state is an observer of selection, never a gate on it.
func (s *Sync) WriteBack(label string) {
	var err error
	if label == "" {
		err = s.store.Clear()
	} else {
		err = s.store.Write(label)
	}
	if err != nil {
		s.log.Error("navigation state write failed", "label", label, "error", err)
	}
}
