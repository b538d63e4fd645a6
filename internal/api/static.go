package api

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
)

// ResolveRoot returns the absolute directory files are served from. An empty
// dir means the directory holding the running executable.
func ResolveRoot(dir string) (string, error) {
	if dir == "" {
		exe, err := os.Executable()
		if err != nil {
			return "", fmt.Errorf("locate executable: %w", err)
		}
		if resolved, err := filepath.EvalSymlinks(exe); err == nil {
			exe = resolved
		}
		dir = filepath.Dir(exe)
	}

	root, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve static dir: %w", err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return "", fmt.Errorf("stat static dir: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("static dir is not a directory: %s", root)
	}
	return root, nil
}

// staticHandler serves the file tree under root verbatim. Directory requests
// get index.html when present and a listing otherwise.
type staticHandler struct {
	files http.Handler
}

func newStaticHandler(root string) *staticHandler {
	return &staticHandler{files: http.FileServer(http.Dir(root))}
}

func (h *staticHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	h.files.ServeHTTP(w, r)
}
