// internal/httpserver/routes_rooms.go
//
// HTTP routes for room state.
// Exposes two endpoints under /api/rooms:
//   - GET  /api/rooms/{code}/state → latest state, or null if never written
//   - POST /api/rooms/{code}/state → replace the state with the JSON body
//
// Codes must match [A-Z0-9]+ (room.ValidCode); anything else under
// /api/rooms is an empty 404. Every response here carries
// Access-Control-Allow-Origin: *.

package httpserver

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/feud-rooms/internal/room"
	"github.com/robalobadob/feud-rooms/internal/store"
)

// roomServer wraps dependencies for /api/rooms endpoints.
type roomServer struct {
	store   store.Store
	maxBody int64
}

// mountRooms registers all /api/rooms routes.
func (s *Server) mountRooms(r chi.Router) {
	rs := &roomServer{store: s.store, maxBody: s.cfg.MaxBodyBytes}
	r.Route("/api/rooms", func(r chi.Router) {
		r.Use(allowAnyOrigin)
		r.NotFound(emptyNotFound)
		r.MethodNotAllowed(emptyNotFound)

		// Viewers poll this; intermediaries must not serve stale boards.
		r.With(chimw.NoCache).Get("/{code}/state", rs.handleGet)
		r.Post("/{code}/state", rs.handlePost)
	})
}

// handleGet returns the room's state verbatim, or null for an unknown room.
func (rs *roomServer) handleGet(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if !room.ValidCode(code) {
		emptyNotFound(w, r)
		return
	}

	st, ok, err := rs.store.Get(r.Context(), code)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Str("room", code).Msg("get room state")
		writeError(w, http.StatusInternalServerError, "store_failed")
		return
	}
	if !ok {
		st = room.Null
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(st)
}

// handlePost validates the body as JSON and stores it under the room code.
// Any failure after the code check is a 400 that leaves the room unchanged.
func (rs *roomServer) handlePost(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if !room.ValidCode(code) {
		emptyNotFound(w, r)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, rs.maxBody))
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("request body exceeds %d bytes", tooBig.Limit))
			return
		}
		writeError(w, http.StatusBadRequest, "read body: "+err.Error())
		return
	}

	st, err := room.ParseState(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := rs.store.Set(r.Context(), code, st); err != nil {
		hlog.FromRequest(r).Error().Err(err).Str("room", code).Msg("set room state")
		writeError(w, http.StatusBadRequest, "store_failed")
		return
	}
	hlog.FromRequest(r).Debug().Str("room", code).Int("bytes", len(st)).Msg("room state updated")

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
