// internal/httpserver/routes_pages.go
//
// Human-facing pages and static assets.
// GET requests outside /api/rooms are served from the static directory.
// Three paths are rewritten to fixed pages first, checked in this order:
//   - "/"          (exact)  → index.html
//   - "/host..."   (prefix) → host.html
//   - "/viewer..." (prefix) → viewer.html
//
// The prefix match is deliberate: existing clients link to /host?room=X,
// /hostABC and similar, and all of them must land on the host page.

package httpserver

import (
	"net/http"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"
)

// pageRoute maps request paths to a fixed page file.
type pageRoute struct {
	match func(path string) bool
	file  string
}

// pageRoutes is evaluated top to bottom; the first match wins.
var pageRoutes = []pageRoute{
	{match: exact("/"), file: "index.html"},
	{match: prefix("/host"), file: "host.html"},
	{match: prefix("/viewer"), file: "viewer.html"},
}

func exact(p string) func(string) bool {
	return func(path string) bool { return path == p }
}

func prefix(p string) func(string) bool {
	return func(path string) bool { return strings.HasPrefix(path, p) }
}

// pageFor returns the page file for path, or "" if path is not rewritten.
func pageFor(path string) string {
	for _, pr := range pageRoutes {
		if pr.match(path) {
			return pr.file
		}
	}
	return ""
}

// mountPages registers the catch-all GET handler for pages and assets.
func (s *Server) mountPages(r chi.Router) {
	r.Get("/", s.handleStatic)
	r.Get("/*", s.handleStatic)
}

// handleStatic serves a rewritten page or hands the request to the file server.
func (s *Server) handleStatic(w http.ResponseWriter, r *http.Request) {
	if name := pageFor(r.URL.Path); name != "" {
		s.servePage(w, r, name)
		return
	}
	// The file server redirects */index.html to the directory; serve it as-is.
	if strings.HasSuffix(r.URL.Path, "/index.html") {
		s.servePage(w, r, r.URL.Path)
		return
	}
	s.files.ServeHTTP(w, r)
}

// servePage writes a single file from the static directory. It uses
// ServeContent rather than the file server so index.html is not redirected.
func (s *Server) servePage(w http.ResponseWriter, r *http.Request, name string) {
	name = path.Clean("/" + name)
	f, err := s.static.Open(name)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil || fi.IsDir() {
		http.NotFound(w, r)
		return
	}
	http.ServeContent(w, r, path.Base(name), fi.ModTime(), f)
}
