// internal/store/memory.go
//
// In-memory implementation of the Store interface.
// This is the default backend: rounds live as long as the process and are
// dropped when their session expires.
//
// Characteristics:
//   - Stores game.Round values keyed by session ID in a map.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - Values are copied in and out; callers never share a stored round.

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/robalobadob/hangman/internal/game"
)

// ErrNotFound is returned by Get when a session has no active round.
var ErrNotFound = errors.New("store: round not found")

// Store defines the persistence interface for active rounds.
// Each session has at most one round; Save replaces it wholesale.
type Store interface {
	// Save inserts or replaces the round of r.SessionID.
	Save(ctx context.Context, r game.Round) error

	// Get retrieves the active round of a session.
	// Returns ErrNotFound if the session has none.
	Get(ctx context.Context, sessionID string) (game.Round, error)

	// DeleteExpired removes rounds last updated before the cutoff and
	// reports how many were removed.
	DeleteExpired(ctx context.Context, before time.Time) (int, error)
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu     sync.RWMutex          // guards rounds map
	rounds map[string]game.Round // keyed by Round.SessionID
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{rounds: make(map[string]game.Round)}
}

// Save adds or replaces the round in the map.
func (m *memory) Save(ctx context.Context, r game.Round) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rounds[r.SessionID] = r
	return nil
}

// Get looks up the round of a session.
func (m *memory) Get(ctx context.Context, sessionID string) (game.Round, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if r, ok := m.rounds[sessionID]; ok {
		return r, nil
	}
	return game.Round{}, ErrNotFound
}

// DeleteExpired drops rounds whose UpdatedAt is before the cutoff.
func (m *memory) DeleteExpired(ctx context.Context, before time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, r := range m.rounds {
		if r.UpdatedAt.Before(before) {
			delete(m.rounds, id)
			n++
		}
	}
	return n, nil
}
