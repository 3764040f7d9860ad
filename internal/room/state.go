// internal/room/state.go
//
// Opaque room state.
// The host publishes whatever JSON document describes its game board; the
// server never looks inside. State keeps the document as compacted JSON bytes
// so numbers, key order and nesting survive a round trip untouched.

package room

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"unicode/utf8"
)

// ErrInvalidState is returned by ParseState when the input is not exactly
// one JSON value.
var ErrInvalidState = errors.New("invalid JSON")

// Null is the JSON literal served for rooms with no state yet.
var Null = State("null")

// State is a single JSON value (object, array, string, number, bool or null).
type State []byte

// ParseState validates raw and returns it as a compacted State.
// Leading and trailing whitespace is allowed; anything else after the
// first value is rejected.
func ParseState(raw []byte) (State, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, fmt.Errorf("%w: empty body", ErrInvalidState)
	}
	// json.Valid accepts raw non-UTF-8 bytes inside strings.
	if !utf8.Valid(raw) {
		return nil, fmt.Errorf("%w: body is not valid UTF-8", ErrInvalidState)
	}
	if !json.Valid(raw) {
		// Decode once more to get a positioned message for the client.
		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidState, err)
		}
		return nil, ErrInvalidState
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}
	return State(buf.Bytes()), nil
}

// Clone returns a copy that shares no memory with s.
func (s State) Clone() State {
	if s == nil {
		return nil
	}
	out := make(State, len(s))
	copy(out, s)
	return out
}
