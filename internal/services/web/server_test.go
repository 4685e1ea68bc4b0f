package web

import (
	"context"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	apiapp "github.com/geodev/geodev/internal/services/api/app"
	"github.com/geodev/geodev/internal/services/web/api"
	"github.com/geodev/geodev/internal/services/web/modules/projects"
	"github.com/geodev/geodev/internal/services/web/query"
)

func newBackend(t *testing.T) *httptest.Server {
	t.Helper()
	logger := log.New(io.Discard, "", 0)
	cfg := apiapp.Config{DBPath: filepath.Join(t.TempDir(), "api.db"), Logger: logger}
	store, err := apiapp.OpenStore(context.Background(), cfg)
	if err != nil {
		t.Fatalf("OpenStore() error = %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	backend := httptest.NewServer(apiapp.NewHandler(store, cfg))
	t.Cleanup(backend.Close)
	return backend
}

func newWebHandler(t *testing.T, backendURL string) (http.Handler, *query.Client) {
	t.Helper()
	client, err := api.NewClient(backendURL)
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	logger := log.New(io.Discard, "", 0)
	queries := query.New(query.WithLogger(logger))
	h, err := NewHandler(HandlerConfig{Gateway: projects.NewAPIGateway(client), Queries: queries, Logger: logger})
	if err != nil {
		t.Fatalf("NewHandler() error = %v", err)
	}
	return h, queries
}

func serve(h http.Handler, method, path string, form url.Values, htmx bool) *httptest.ResponseRecorder {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if htmx {
		req.Header.Set("HX-Request", "true")
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestCreateProjectScenarioAgainstBackend(t *testing.T) {
	t.Parallel()

	backend := newBackend(t)
	h, _ := newWebHandler(t, backend.URL)

	empty := serve(h, http.MethodGet, "/", nil, true)
	if !strings.Contains(empty.Body.String(), "No projects yet") {
		t.Fatalf("expected empty state: %q", empty.Body.String())
	}

	created := serve(h, http.MethodPost, "/projects", url.Values{"name": {"Tower A"}, "description": {""}}, true)
	if got := created.Header().Get("HX-Redirect"); got != "/" {
		t.Fatalf("HX-Redirect = %q, want /", got)
	}

	list := serve(h, http.MethodGet, "/", nil, true)
	body := list.Body.String()
	for _, marker := range []string{"Tower A", "No description", `href="/projects/1"`} {
		if !strings.Contains(body, marker) {
			t.Fatalf("list missing %q: %q", marker, body)
		}
	}
	if strings.Contains(body, "<form") {
		t.Fatalf("form should be closed after creation: %q", body)
	}

	serve(h, http.MethodPost, "/projects/1/tasks", url.Values{"title": {"Zoning Approval"}, "notes": {"City hall"}}, true)
	detail := serve(h, http.MethodGet, "/projects/1", nil, true)
	for _, marker := range []string{"Tower A", "Zoning Approval", "City hall"} {
		if !strings.Contains(detail.Body.String(), marker) {
			t.Fatalf("detail missing %q: %q", marker, detail.Body.String())
		}
	}

	missing := serve(h, http.MethodGet, "/projects/9", nil, true)
	if !strings.Contains(missing.Body.String(), "Project not found") {
		t.Fatalf("expected not found panel: %q", missing.Body.String())
	}
}

func TestBackendUnreachableRendersErrorPanel(t *testing.T) {
	t.Parallel()

	backend := httptest.NewServer(http.NotFoundHandler())
	backendURL := backend.URL
	backend.Close()

	h, queries := newWebHandler(t, backendURL)
	rr := serve(h, http.MethodGet, "/", nil, true)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	if !strings.Contains(rr.Body.String(), "Error loading projects") {
		t.Fatalf("expected error panel: %q", rr.Body.String())
	}
	if state := queries.Peek(projects.ProjectsKey()); state.Status != query.StatusError || state.Data != nil {
		t.Fatalf("state = %+v, want error without data", state)
	}
}

func TestStaticAssetsServed(t *testing.T) {
	t.Parallel()

	h, _ := newWebHandler(t, "http://127.0.0.1:1")
	for path, contentType := range map[string]string{
		"/static/app.css": "text/css",
		"/static/app.js":  "javascript",
	} {
		rr := serve(h, http.MethodGet, path, nil, false)
		if rr.Code != http.StatusOK {
			t.Fatalf("%s status = %d", path, rr.Code)
		}
		if ct := rr.Header().Get("Content-Type"); !strings.Contains(ct, contentType) {
			t.Fatalf("%s content-type = %q", path, ct)
		}
	}
	css := serve(h, http.MethodGet, "/static/app.css", nil, false)
	if !strings.Contains(css.Body.String(), ".busy-label") {
		t.Fatal("app.css missing busy label rules")
	}
	js := serve(h, http.MethodGet, "/static/app.js", nil, false)
	if !strings.Contains(js.Body.String(), "data-required-field") {
		t.Fatal("app.js missing required field hook")
	}
}

func TestHealthReflectsGateway(t *testing.T) {
	t.Parallel()

	h, _ := newWebHandler(t, "http://127.0.0.1:1")
	if rr := serve(h, http.MethodGet, "/up", nil, false); rr.Code != http.StatusOK || rr.Body.String() != "ok" {
		t.Fatalf("up = %d %q", rr.Code, rr.Body.String())
	}

	degraded, err := NewHandler(HandlerConfig{Logger: log.New(io.Discard, "", 0)})
	if err != nil {
		t.Fatalf("NewHandler() error = %v", err)
	}
	if rr := serve(degraded, http.MethodGet, "/up", nil, false); rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("degraded up status = %d", rr.Code)
	}
}

func TestMiddlewareSetsRequestIDAndLogs(t *testing.T) {
	t.Parallel()

	var logs strings.Builder
	h, err := NewHandler(HandlerConfig{Logger: log.New(&logs, "", 0)})
	if err != nil {
		t.Fatalf("NewHandler() error = %v", err)
	}
	rr := serve(h, http.MethodGet, "/", nil, false)
	if got := rr.Header().Get("X-Request-ID"); !strings.HasPrefix(got, "web-") {
		t.Fatalf("X-Request-ID = %q", got)
	}
	if !strings.Contains(logs.String(), "http request method=GET path=/ status=200") {
		t.Fatalf("logs = %q", logs.String())
	}
	if !strings.Contains(logs.String(), "request_id=web-") {
		t.Fatalf("logs missing request id: %q", logs.String())
	}
}

func TestUnknownPathRendersShellNotFound(t *testing.T) {
	t.Parallel()

	h, _ := newWebHandler(t, "http://127.0.0.1:1")
	rr := serve(h, http.MethodGet, "/does/not/exist", nil, false)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Page not found") || !strings.Contains(rr.Body.String(), "Geo Development") {
		t.Fatalf("body = %q", rr.Body.String())
	}
}

func TestNewServerValidatesConfig(t *testing.T) {
	t.Parallel()

	if _, err := NewServer(context.Background(), Config{APIBaseURL: "http://localhost:8000"}); err == nil {
		t.Fatal("expected http address error")
	}
	if _, err := NewServer(context.Background(), Config{HTTPAddr: "127.0.0.1:0", APIBaseURL: "ftp://x"}); err == nil {
		t.Fatal("expected base url error")
	}
	server, err := NewServer(context.Background(), Config{
		HTTPAddr:    "127.0.0.1:0",
		APIBaseURL:  "http://localhost:8000",
		CacheDBPath: filepath.Join(t.TempDir(), "cache.db"),
		Logger:      log.New(io.Discard, "", 0),
	})
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}
	server.Close()
}
