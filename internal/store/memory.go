// apps/go-server/internal/store/memory.go
//
// In-memory implementation of the session Store interface.
// This is a lightweight persistence layer for ephemeral game sessions,
// primarily in development/testing, or when durability is not required.
//
// Characteristics:
//   - Stores *game.Session objects keyed by ID in a map.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - State is lost when the process restarts.
//   - ErrNotFound is returned for missing session IDs on Get/Delete.
//   - SweepIdle evicts sessions untouched for longer than a given age.

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/robalobadob/hoopdle/apps/go-server/internal/game"
)

// ErrNotFound is returned when a session ID has no entry in the store.
var ErrNotFound = errors.New("session not found")

// Store defines the persistence interface for game sessions.
// Implementations may be backed by memory (this package), Redis, SQL, etc.
type Store interface {
	// Save persists or updates a session.
	Save(ctx context.Context, s *game.Session) error

	// Get retrieves a session by ID.
	// Returns ErrNotFound if the session does not exist.
	Get(ctx context.Context, id string) (*game.Session, error)

	// Delete removes a session by ID.
	// Returns ErrNotFound if the session does not exist.
	Delete(ctx context.Context, id string) error
}

// entry pairs a session with the time it was last saved, so idle
// sessions can be swept without asking the session itself.
type entry struct {
	sess    *game.Session
	touched time.Time
}

// Memory is an in-memory map-based Store implementation.
type Memory struct {
	mu       sync.RWMutex     // guards sessions map
	sessions map[string]entry // keyed by Session.ID()
}

// NewMemoryStore constructs a new in-memory store. The concrete type is
// returned so callers that own the store (main) can also run SweepIdle;
// handlers should depend on the Store interface.
func NewMemoryStore() *Memory {
	return &Memory{sessions: make(map[string]entry)}
}

// Save adds or refreshes the session in the map and stamps it as touched.
func (m *Memory) Save(ctx context.Context, s *game.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID()] = entry{sess: s, touched: time.Now()}
	return nil
}

// Get looks up a session by ID.
func (m *Memory) Get(ctx context.Context, id string) (*game.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if e, ok := m.sessions[id]; ok {
		return e.sess, nil
	}
	return nil, ErrNotFound
}

// Delete removes a session by ID.
func (m *Memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return ErrNotFound
	}
	delete(m.sessions, id)
	return nil
}

// SweepIdle evicts every session whose last save is older than maxAge and
// returns how many were removed. Finished games are swept like any other;
// clients that still hold the ID simply get a 404 on their next call.
func (m *Memory) SweepIdle(maxAge time.Duration) int {
	cutoff := time.Now().Add(-maxAge)
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, e := range m.sessions {
		if !e.touched.After(cutoff) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

// Len reports how many sessions are currently held.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
