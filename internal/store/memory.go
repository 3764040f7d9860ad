// internal/store/memory.go
//
// In-memory implementation of the Store interface.
//
// Characteristics:
//   - Stores room.State values keyed by room code in a map.
//   - One sync.Mutex guards the whole map; every operation is an O(1) map
//     access plus a copy, so the lock is held briefly.
//   - Values are copied in and out, callers never share bytes with the map.
//   - State is lost when the process restarts.

package store

import (
	"context"
	"sync"

	"github.com/robalobadob/feud-rooms/internal/room"
)

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu    sync.Mutex            // guards rooms
	rooms map[string]room.State // keyed by room code
}

// NewMemoryStore constructs a new, empty in-memory Store.
func NewMemoryStore() Store {
	return &memory{rooms: make(map[string]room.State)}
}

// Get looks up a room by code. It never fails.
func (m *memory) Get(ctx context.Context, code string) (room.State, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	st, ok := m.rooms[code]
	if !ok {
		return nil, false, nil
	}
	return st.Clone(), true, nil
}

// Set adds or replaces the room's state.
func (m *memory) Set(ctx context.Context, code string, st room.State) error {
	c := st.Clone()
	if c == nil {
		c = room.Null.Clone()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rooms[code] = c
	return nil
}

func (m *memory) Len(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rooms), nil
}
