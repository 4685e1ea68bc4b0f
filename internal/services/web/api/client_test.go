package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client, err := NewClient(srv.URL, opts...)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

func TestNewClientValidatesBaseURL(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"", "  ", "localhost:8000", "ftp://example.com", "http://"} {
		if _, err := NewClient(raw); err == nil {
			t.Fatalf("NewClient(%q) expected error", raw)
		}
	}
	client, err := NewClient("http://localhost:8000/")
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if client.BaseURL() != "http://localhost:8000" {
		t.Fatalf("BaseURL() = %q", client.BaseURL())
	}
}

func TestProjectsGetAllDecodesNaiveTimestamps(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/projects" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[{"id":1,"name":"Tower A","description":null,"created_at":"2024-01-01T10:30:00.123456"}]`)
	})

	projects, err := client.Projects().GetAll(context.Background())
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if len(projects) != 1 {
		t.Fatalf("len(projects) = %d, want 1", len(projects))
	}
	got := projects[0]
	if got.ID != 1 || got.Name != "Tower A" || got.Description != nil {
		t.Fatalf("project = %+v", got)
	}
	want := time.Date(2024, time.January, 1, 10, 30, 0, 123456000, time.UTC)
	if !got.CreatedAt.Equal(want) {
		t.Fatalf("CreatedAt = %v, want %v", got.CreatedAt.Time, want)
	}
}

func TestProjectsGetAllNormalizesNullList(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `null`)
	})
	projects, err := client.Projects().GetAll(context.Background())
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if projects == nil || len(projects) != 0 {
		t.Fatalf("projects = %#v, want empty slice", projects)
	}
}

func TestProjectsGetByIDIncludesTasks(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/projects/7" {
			t.Errorf("path = %q", r.URL.Path)
		}
		_, _ = io.WriteString(w, `{"id":7,"name":"P","description":"d","created_at":"2024-01-01T00:00:00Z",
			"tasks":[{"id":3,"project_id":7,"title":"Zoning Approval","notes":null,"created_at":"2024-01-02T00:00:00Z"}]}`)
	})

	project, err := client.Projects().GetByID(context.Background(), 7)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if project.Description == nil || *project.Description != "d" {
		t.Fatalf("Description = %v", project.Description)
	}
	if len(project.Tasks) != 1 || project.Tasks[0].Title != "Zoning Approval" || project.Tasks[0].ProjectID != 7 {
		t.Fatalf("Tasks = %+v", project.Tasks)
	}
}

func TestProjectsGetByIDNotFound(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"detail":"Project not found"}`)
	})

	_, err := client.Projects().GetByID(context.Background(), 99)
	if !IsNotFound(err) {
		t.Fatalf("IsNotFound(%v) = false", err)
	}
	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("expected RequestError, got %T", err)
	}
	if reqErr.Detail != "Project not found" || reqErr.Method != http.MethodGet {
		t.Fatalf("RequestError = %+v", reqErr)
	}
	if !strings.HasSuffix(reqErr.URL, "/projects/99") {
		t.Fatalf("URL = %q", reqErr.URL)
	}
}

func TestProjectsCreateOmitsAbsentDescription(t *testing.T) {
	t.Parallel()

	bodies := make(chan map[string]any, 1)
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("content type = %q", r.Header.Get("Content-Type"))
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		bodies <- body
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"id":1,"name":"Tower A","description":null,"created_at":"2024-01-01T00:00:00Z"}`)
	})

	project, err := client.Projects().Create(context.Background(), CreateProjectRequest{Name: "Tower A"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if project.ID != 1 {
		t.Fatalf("ID = %d", project.ID)
	}
	body := <-bodies
	if _, ok := body["description"]; ok {
		t.Fatalf("body %v must omit description", body)
	}
	if body["name"] != "Tower A" {
		t.Fatalf("body name = %v", body["name"])
	}
}

func TestTasksCreatePostsToProject(t *testing.T) {
	t.Parallel()

	bodies := make(chan map[string]any, 1)
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/projects/4/tasks" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		bodies <- body
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"id":9,"project_id":4,"title":"Foundation Work","notes":"x","created_at":"2024-01-01T00:00:00Z"}`)
	})

	notes := "x"
	task, err := client.Tasks().Create(context.Background(), 4, CreateTaskRequest{Title: "Foundation Work", Notes: &notes})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if task.ID != 9 || task.ProjectID != 4 {
		t.Fatalf("task = %+v", task)
	}
	body := <-bodies
	if body["notes"] != "x" || body["title"] != "Foundation Work" {
		t.Fatalf("body = %v", body)
	}
}

func TestNetworkFailureHasZeroStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	baseURL := srv.URL
	srv.Close()

	client, err := NewClient(baseURL)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	_, err = client.Projects().GetAll(context.Background())
	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("expected RequestError, got %v", err)
	}
	if reqErr.StatusCode != 0 {
		t.Fatalf("StatusCode = %d, want 0", reqErr.StatusCode)
	}
	if IsNotFound(err) {
		t.Fatal("network failure must not report not found")
	}
}

func TestDecodeFailureIsRequestError(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{not json`)
	})
	_, err := client.Projects().GetAll(context.Background())
	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("expected RequestError, got %v", err)
	}
	if reqErr.StatusCode != http.StatusOK {
		t.Fatalf("StatusCode = %d, want 200", reqErr.StatusCode)
	}
	if StatusCode(err) != http.StatusOK {
		t.Fatalf("StatusCode(err) = %d", StatusCode(err))
	}
}

func TestServerErrorKeepsRawDetail(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	_, err := client.Projects().GetAll(context.Background())
	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("expected RequestError, got %v", err)
	}
	if reqErr.StatusCode != http.StatusInternalServerError || reqErr.Detail != "boom" {
		t.Fatalf("RequestError = %+v", reqErr)
	}
	if !strings.Contains(err.Error(), "status 500") {
		t.Fatalf("Error() = %q", err.Error())
	}
}

func TestRequestsCarryTraceContext(t *testing.T) {
	t.Parallel()

	tp := sdktrace.NewTracerProvider()
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	headers := make(chan string, 1)
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		headers <- r.Header.Get("traceparent")
		_, _ = io.WriteString(w, `[]`)
	}, WithTracerProvider(tp), WithPropagator(propagation.TraceContext{}))

	if _, err := client.Projects().GetAll(context.Background()); err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if traceparent := <-headers; traceparent == "" {
		t.Fatal("expected traceparent header")
	}
}

func TestParseProjectID(t *testing.T) {
	t.Parallel()

	valid := map[string]int64{"1": 1, "42": 42, "007": 7}
	for raw, want := range valid {
		got, err := ParseProjectID(raw)
		if err != nil || got != want {
			t.Fatalf("ParseProjectID(%q) = %d, %v", raw, got, err)
		}
	}
	for _, raw := range []string{"", "abc", "0", "-1", "+1", "1.5", " 1", "99999999999999999999"} {
		_, err := ParseProjectID(raw)
		if err == nil {
			t.Fatalf("ParseProjectID(%q) expected error", raw)
		}
		if !IsNotFound(err) || !errors.Is(err, ErrInvalidProjectID) {
			t.Fatalf("ParseProjectID(%q) error = %v", raw, err)
		}
	}
}

func TestTimestampJSON(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{
		`"2024-01-01T00:00:00Z"`,
		`"2024-01-01T00:00:00"`,
		`"2024-01-01 00:00:00"`,
		`"2023-12-31T21:00:00-03:00"`,
	} {
		var ts Timestamp
		if err := json.Unmarshal([]byte(raw), &ts); err != nil {
			t.Fatalf("unmarshal %s: %v", raw, err)
		}
		if !ts.Equal(time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)) {
			t.Fatalf("unmarshal %s = %v", raw, ts.Time)
		}
	}

	var ts Timestamp
	if err := json.Unmarshal([]byte(`"yesterday"`), &ts); err == nil {
		t.Fatal("expected error for unsupported layout")
	}
	if err := json.Unmarshal([]byte(`null`), &ts); err != nil || !ts.IsZero() {
		t.Fatalf("null timestamp = %v, %v", ts.Time, err)
	}

	encoded, err := json.Marshal(NewTimestamp(time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(encoded) != `"2024-01-01T00:00:00Z"` {
		t.Fatalf("marshal = %s", encoded)
	}
}
