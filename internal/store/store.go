// internal/store/store.go
//
// Room registry interface and backend selection.
// The registry maps a room code to the latest state published by the room's
// host. It lives for the lifetime of the process:
//   - "memory": map guarded by a single mutex (default).
//   - "sqlite": go-sqlite3 table, in-memory shared-cache DSN by default.

package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/robalobadob/feud-rooms/internal/room"
)

// Store defines the room registry contract shared by every backend.
type Store interface {
	// Get returns a copy of the state stored for code.
	// ok is false when the room has never been written.
	Get(ctx context.Context, code string) (st room.State, ok bool, err error)

	// Set replaces the state stored for code, creating the entry if missing.
	Set(ctx context.Context, code string, st room.State) error

	// Len reports how many rooms currently hold a state.
	Len(ctx context.Context) (int, error)
}

// Backend names accepted by Open.
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
)

// ErrUnknownDriver is returned by Open for an unsupported backend name.
var ErrUnknownDriver = errors.New("unknown store driver")

// Open constructs the backend named by driver. dsn is only used by sqlite.
// The returned close func releases backend resources and is never nil.
func Open(ctx context.Context, driver, dsn string) (Store, func() error, error) {
	switch driver {
	case "", DriverMemory:
		return NewMemoryStore(), func() error { return nil }, nil
	case DriverSQLite:
		db, err := OpenDB(dsn)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite: %w", err)
		}
		if err := Migrate(ctx, db); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("migrate sqlite: %w", err)
		}
		return NewSQLiteStore(db), db.Close, nil
	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
}
