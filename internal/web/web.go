// Package web serves the front-end assets alongside the JSON API.
package web

import (
	"net/http"
	"os"
	"path/filepath"
)

// StaticHandler serves the built front end from a directory. Unknown paths
// fall back to index.html so client-side routes survive a reload.
type StaticHandler struct {
	dir string
}

// NewStaticHandler creates a StaticHandler rooted at dir.
func NewStaticHandler(dir string) *StaticHandler {
	return &StaticHandler{dir: dir}
}

// Routes returns the catch-all root route.
func (h *StaticHandler) Routes() []string {
	return []string{"/"}
}

// ServeHTTP serves the requested file, or index.html when it doesn't exist.
func (h *StaticHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	path := filepath.Join(h.dir, filepath.Clean("/"+r.URL.Path))
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		http.ServeFile(w, r, path)
		return
	}

	http.ServeFile(w, r, filepath.Join(h.dir, "index.html"))
}
