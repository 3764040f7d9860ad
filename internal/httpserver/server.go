// internal/httpserver/server.go
//
// HTTP server wiring for the room relay.
// Responsibilities:
//   - Router + middleware (request IDs, real IP, access log, panic recovery,
//     timeouts, CORS preflight).
//   - Diagnostics endpoint: GET /health.
//   - Room state API: mounted under /api/rooms (routes_rooms.go).
//   - Human-facing pages and assets: everything else (routes_pages.go).
//   - Listener lifecycle with graceful shutdown on context cancellation.
//
// Notes:
//   - CORS is open (Access-Control-Allow-Origin: *); there are no credentials.
//   - OPTIONS on any path is answered before routing.
//   - Unmatched routes, including POST to non-API paths, get an empty 404.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/feud-rooms/internal/config"
	"github.com/robalobadob/feud-rooms/internal/store"
)

// Server bundles the router, the room registry and HTTP runtime settings.
type Server struct {
	r     *chi.Mux
	store store.Store
	cfg   config.ServerConfig

	static http.FileSystem
	files  http.Handler
}

// New constructs a Server, installs middleware, and registers routes.
// The store is owned by the caller and shared by every request.
func New(st store.Store, cfg *config.Config) *Server {
	static := http.Dir(cfg.StaticDir)
	s := &Server{
		r:      chi.NewRouter(),
		store:  st,
		cfg:    cfg.Server,
		static: static,
		files:  http.FileServer(static),
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID) // add X-Request-ID
	s.r.Use(chimw.RealIP)    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(accessLog)       // one log line per request
	s.r.Use(chimw.Recoverer) // recover from panics
	if cfg.Server.HandlerTimeout > 0 {
		s.r.Use(chimw.Timeout(cfg.Server.HandlerTimeout)) // bound handler time
	}
	s.r.Use(preflight)     // OPTIONS on any path
	s.r.Use(chimw.GetHead) // HEAD falls back to GET routes

	s.r.NotFound(emptyNotFound)
	s.r.MethodNotAllowed(emptyNotFound)

	// --- diagnostics ---
	s.r.Get("/health", s.handleHealth)

	// Room state API
	s.mountRooms(s.r)

	// Pages and static assets
	s.mountPages(s.r)

	return s
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// Run listens on addr and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then shuts down
// gracefully, giving in-flight requests up to ShutdownTimeout to finish.
// A cancelled context is a normal stop and returns nil.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	hs := &http.Server{
		Handler:      s.r,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		IdleTimeout:  s.cfg.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", ln.Addr().String()).Msg("http server listening")
		if err := hs.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Dur("grace", s.cfg.ShutdownTimeout).Msg("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := hs.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// handleHealth reports liveness and how many rooms hold a state.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	n, err := s.store.Len(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("count rooms")
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{"ok": false})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "rooms": n})
}

// ----------------------------- middleware ----------------------------------

// accessLog attaches the global zerolog logger to the request context and
// writes one line per completed request.
func accessLog(next http.Handler) http.Handler {
	logged := hlog.AccessHandler(func(r *http.Request, status, size int, d time.Duration) {
		hlog.FromRequest(r).Info().
			Str("req_id", chimw.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("size", size).
			Dur("duration", d).
			Msg("request")
	})(next)
	return hlog.NewHandler(log.Logger)(logged)
}

// preflight answers CORS preflight requests on any path.
func preflight(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", "*")
			h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			h.Set("Access-Control-Allow-Headers", "Content-Type")
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// allowAnyOrigin marks every response of the wrapped routes as readable
// from any origin, errors included.
func allowAnyOrigin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		next.ServeHTTP(w, r)
	})
}

// ------------------------------- helpers -----------------------------------

// emptyNotFound writes a bare 404 with no body.
func emptyNotFound(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNotFound)
}

// writeJSON encodes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("write json response")
	}
}

// writeError sends {"error": msg}.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
