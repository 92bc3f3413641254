package navsync

import (
	"net/url"
	"sync"
)

// MemoryStore keeps navigation state in memory with a visitable history,
// mirroring how a host application's address bar accumulates entries.
type MemoryStore struct {
	mu      sync.Mutex
	history []string // history[len-1] is current; "" entries mean cleared
}

// NewMemoryStore creates an empty MemoryStore, optionally seeded with an
// initial selection (as when a viewer is mounted from a shared link).
func NewMemoryStore(initial string) *MemoryStore {
	s := &MemoryStore{}
	if initial != "" {
		s.history = append(s.history, initial)
	}
	return s
}

// Read returns the current selection label.
func (s *MemoryStore) Read() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.history) == 0 {
		return "", false
	}
	cur := s.history[len(s.history)-1]
	return cur, cur != ""
}

// Write pushes a new selection as a fresh history entry.
func (s *MemoryStore) Write(label string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, label)
	return nil
}

// Clear pushes an empty entry; going back still restores the prior one.
func (s *MemoryStore) Clear() error {
	return s.Write("")
}

// Back pops the current entry and returns the previous selection label,
// false when history is exhausted.
func (s *MemoryStore) Back() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.history) == 0 {
		return "", false
	}
	s.history = s.history[:len(s.history)-1]
	if len(s.history) == 0 {
		return "", false
	}
	cur := s.history[len(s.history)-1]
	return cur, cur != ""
}

// Len returns the number of history entries.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.history)
}

// QueryStore reads and writes the selection through a URL query string,
// the representation a browser-hosted shell exchanges with the viewer.
type QueryStore struct {
	mu     sync.Mutex
	values url.Values
}

// NewQueryStore parses a raw query string ("name=B&floor=2"). A parse
// failure yields an empty store rather than an error; malformed external
// state reads as no selection.
func NewQueryStore(rawQuery string) *QueryStore {
	values, err := url.ParseQuery(rawQuery)
	if err != nil {
		values = url.Values{}
	}
	return &QueryStore{values: values}
}

// Read returns the selection label from the query.
func (s *QueryStore) Read() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.values.Has(Key) {
		return "", false
	}
	v := s.values.Get(Key)
	return v, v != ""
}

// Write sets the selection key, preserving unrelated query parameters.
func (s *QueryStore) Write(label string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values.Set(Key, label)
	return nil
}

// Clear removes the selection key.
func (s *QueryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values.Del(Key)
	return nil
}

// Encode returns the current query string, for pushing back to the host.
func (s *QueryStore) Encode() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values.Encode()
}
