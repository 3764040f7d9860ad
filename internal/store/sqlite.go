// internal/store/sqlite.go
//
// SQLite implementation of the Store interface.
// Rows live in room_states (see assets/sql). Access is serialised by a store
// mutex so reads and writes of a code never interleave, matching the memory
// backend's single-lock model.

package store

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/feud-rooms/internal/room"
)

type sqliteStore struct {
	mu sync.Mutex // serialises registry access
	db *sql.DB
}

// NewSQLiteStore wraps an already migrated database handle.
func NewSQLiteStore(db *sql.DB) Store {
	return &sqliteStore{db: db}
}

func (s *sqliteStore) Get(ctx context.Context, code string) (room.State, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT state FROM room_states WHERE code=?`, code).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return room.State(raw), true, nil
}

func (s *sqliteStore) Set(ctx context.Context, code string, st room.State) error {
	if len(st) == 0 {
		st = room.Null
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
        INSERT INTO room_states (code, state, updated_at)
        VALUES (?, ?, ?)
        ON CONFLICT(code) DO UPDATE SET state=excluded.state, updated_at=excluded.updated_at`,
		code, string(st), time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		log.Warn().Err(err).Str("room", code).Msg("sqlite upsert")
	}
	return err
}

func (s *sqliteStore) Len(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM room_states`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
