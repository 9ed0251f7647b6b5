// internal/store/memory.go
//
// In-memory implementation of the Store interface.
// Holds the game sessions of the HTTP adapter for the life of the process.
//
// Characteristics:
//   - Stores *game.Session objects keyed by an opaque id in a map.
//   - Each entry remembers when it was last saved, so idle sessions can be swept.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - State is lost when the process restarts.
//   - ErrNotFound is returned for missing ids on Get() and Delete().

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/robalobadob/clues/internal/game"
)

// ErrNotFound is returned for unknown session ids.
var ErrNotFound = errors.New("session not found")

// Store defines the persistence interface for game sessions.
type Store interface {
	// Save persists or replaces the session stored under id and marks it as touched.
	Save(ctx context.Context, id string, s *game.Session) error

	// Get retrieves a session by id.
	Get(ctx context.Context, id string) (*game.Session, error)

	// Delete removes a session.
	Delete(ctx context.Context, id string) error

	// Idle lists the ids of sessions last saved before cutoff.
	Idle(ctx context.Context, cutoff time.Time) []string

	// Len reports how many sessions are held.
	Len() int
}

type entry struct {
	session *game.Session
	touched time.Time
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu       sync.RWMutex     // guards sessions map
	sessions map[string]entry // keyed by game id
	now      func() time.Time
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{sessions: make(map[string]entry), now: time.Now}
}

func (m *memory) Save(ctx context.Context, id string, s *game.Session) error {
	if id == "" {
		return errors.New("store: empty id")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[id] = entry{session: s, touched: m.now()}
	return nil
}

func (m *memory) Get(ctx context.Context, id string) (*game.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if e, ok := m.sessions[id]; ok {
		return e.session, nil
	}
	return nil, ErrNotFound
}

func (m *memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return ErrNotFound
	}
	delete(m.sessions, id)
	return nil
}

func (m *memory) Idle(ctx context.Context, cutoff time.Time) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var ids []string
	for id, e := range m.sessions {
		if e.touched.Before(cutoff) {
			ids = append(ids, id)
		}
	}
	return ids
}

func (m *memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
