package api

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/creamcroissant/mdpserve/internal/api/middleware"
	"github.com/creamcroissant/mdpserve/internal/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeFile(t *testing.T, root, name string, data []byte) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

func newTestServer(t *testing.T, root string, opts ...RouterOption) *httptest.Server {
	t.Helper()
	router, err := NewRouter(discardLogger(), root, opts...)
	require.NoError(t, err)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func assertIsolationHeaders(t *testing.T, h http.Header) {
	t.Helper()
	assert.Equal(t, "*", h.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "require-corp", h.Get("Cross-Origin-Embedder-Policy"))
	assert.Equal(t, "same-origin", h.Get("Cross-Origin-Opener-Policy"))
}

func TestServeExistingFilesByteIdentical(t *testing.T) {
	root := t.TempDir()
	binary := make([]byte, 4096)
	for i := range binary {
		binary[i] = byte(i * 7)
	}
	files := map[string][]byte{
		"app.js":               []byte("console.log('mdp');\n"),
		"styles/main.css":      []byte("body { margin: 0; }\n"),
		"data/policy.bin":      binary,
		"notes with space.txt": []byte("value iteration"),
	}
	for name, data := range files {
		writeFile(t, root, name, data)
	}
	srv := newTestServer(t, root)

	for name, want := range files {
		resp, body := get(t, srv.URL+"/"+strings.ReplaceAll(name, " ", "%20"))
		assert.Equal(t, http.StatusOK, resp.StatusCode, name)
		assert.Equal(t, want, body, name)
		assertIsolationHeaders(t, resp.Header)
	}
}

func TestServeContentType(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "app.js", []byte("export {}"))
	writeFile(t, root, "page.html", []byte("<!doctype html><p>hi</p>"))
	srv := newTestServer(t, root)

	resp, _ := get(t, srv.URL+"/app.js")
	assert.Contains(t, resp.Header.Get("Content-Type"), "javascript")

	resp, _ = get(t, srv.URL+"/page.html")
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
}

func TestServeIndexAtRoot(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "index.html", []byte("<h1>MDP Simulator</h1>"))
	srv := newTestServer(t, root)

	resp, body := get(t, srv.URL+"/")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "<h1>MDP Simulator</h1>", string(body))
	assertIsolationHeaders(t, resp.Header)
}

func TestMissingPathIsNotFoundWithHeaders(t *testing.T) {
	srv := newTestServer(t, t.TempDir())

	for _, p := range []string{"/nope.js", "/deep/missing/file.wasm"} {
		resp, _ := get(t, srv.URL+p)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, p)
		assertIsolationHeaders(t, resp.Header)
	}
}

func TestTraversalStaysInsideRoot(t *testing.T) {
	parent := t.TempDir()
	root := filepath.Join(parent, "site")
	writeFile(t, parent, "secret.txt", []byte("outside"))
	writeFile(t, root, "inside.txt", []byte("inside"))
	router, err := NewRouter(discardLogger(), root)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.URL.Path = "/../secret.txt"
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.NotEqual(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "outside")
	assertIsolationHeaders(t, rec.Header())
}

func TestMethodNotAllowed(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "app.js", []byte("x"))
	srv := newTestServer(t, root)

	resp, err := http.Post(srv.URL+"/app.js", "text/plain", strings.NewReader("data"))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	assert.Equal(t, "GET, HEAD", resp.Header.Get("Allow"))
	assertIsolationHeaders(t, resp.Header)
}

func TestHeadRequest(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "app.js", []byte("12345"))
	srv := newTestServer(t, root)

	resp, err := http.Head(srv.URL + "/app.js")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "5", resp.Header.Get("Content-Length"))
	assertIsolationHeaders(t, resp.Header)
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t, t.TempDir())

	resp, body := get(t, srv.URL+"/healthz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"status":"ok"`)
	assertIsolationHeaders(t, resp.Header)
}

func TestExtraHeaders(t *testing.T) {
	cfg := middleware.DefaultIsolationConfig()
	cfg.Extra = map[string]string{"Cache-Control": "no-cache"}
	srv := newTestServer(t, t.TempDir(), WithIsolation(cfg))

	resp, _ := get(t, srv.URL+"/missing")
	assert.Equal(t, "no-cache", resp.Header.Get("Cache-Control"))
	assertIsolationHeaders(t, resp.Header)
}

func TestMetricsEndpoint(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "app.js", []byte("x"))
	reg := prometheus.NewRegistry()
	srv := newTestServer(t, root, WithMetrics(config.MetricsConfig{Enabled: true, Namespace: "mdpserve"}, reg))

	get(t, srv.URL+"/app.js")
	get(t, srv.URL+"/missing")

	resp, body := get(t, srv.URL+"/metrics")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `mdpserve_http_requests_total{method="GET",status="200"} 1`)
	assert.Contains(t, string(body), `mdpserve_http_requests_total{method="GET",status="404"} 1`)
	assertIsolationHeaders(t, resp.Header)
}

func TestMetricsEndpointGuarded(t *testing.T) {
	reg := prometheus.NewRegistry()
	srv := newTestServer(t, t.TempDir(), WithMetrics(config.MetricsConfig{Enabled: true, Token: "s3cret"}, reg))

	resp, _ := get(t, srv.URL+"/metrics")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assertIsolationHeaders(t, resp.Header)

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/metrics", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer s3cret")
	authed, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer authed.Body.Close()
	assert.Equal(t, http.StatusOK, authed.StatusCode)
}

func TestMetricsDisabledServesStaticPath(t *testing.T) {
	srv := newTestServer(t, t.TempDir())

	resp, _ := get(t, srv.URL+"/metrics")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestNewRouterRequiresRoot(t *testing.T) {
	_, err := NewRouter(discardLogger(), "")
	assert.Error(t, err)
}
