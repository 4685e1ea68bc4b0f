package projects

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/geodev/geodev/internal/services/web/api"
	"github.com/geodev/geodev/internal/services/web/platform/modulehandler"
	"github.com/geodev/geodev/internal/services/web/query"
)

type fakeGateway struct {
	mu sync.Mutex

	projects map[int64]api.Project
	order    []int64
	nextID   int64

	listErr   error
	getErr    error
	createErr error
	taskErr   error

	listCalls   int
	getCalls    int
	createCalls int
	taskCalls   int

	lastProject api.CreateProjectRequest
	lastTask    api.CreateTaskRequest

	// createGate, when set, holds CreateProject until it is closed.
	createGate chan struct{}
}

var created = api.NewTimestamp(time.Date(2025, 1, 2, 15, 4, 5, 0, time.UTC))

func newFakeGateway(projects ...api.Project) *fakeGateway {
	g := &fakeGateway{projects: map[int64]api.Project{}}
	for _, p := range projects {
		g.projects[p.ID] = p
		g.order = append(g.order, p.ID)
		if p.ID > g.nextID {
			g.nextID = p.ID
		}
	}
	return g
}

func (g *fakeGateway) ListProjects(context.Context) ([]api.Project, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.listCalls++
	if g.listErr != nil {
		return nil, g.listErr
	}
	out := make([]api.Project, 0, len(g.order))
	for _, id := range g.order {
		p := g.projects[id]
		p.Tasks = nil
		out = append(out, p)
	}
	return out, nil
}

func (g *fakeGateway) GetProject(_ context.Context, id int64) (api.Project, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.getCalls++
	if g.getErr != nil {
		return api.Project{}, g.getErr
	}
	p, ok := g.projects[id]
	if !ok {
		return api.Project{}, &api.RequestError{Op: "get project", StatusCode: http.StatusNotFound, Detail: "Project not found"}
	}
	return p, nil
}

func (g *fakeGateway) CreateProject(_ context.Context, req api.CreateProjectRequest) (api.Project, error) {
	if g.createGate != nil {
		<-g.createGate
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.createCalls++
	g.lastProject = req
	if g.createErr != nil {
		return api.Project{}, g.createErr
	}
	g.nextID++
	p := api.Project{ID: g.nextID, Name: req.Name, Description: req.Description, CreatedAt: created, Tasks: []api.Task{}}
	g.projects[p.ID] = p
	g.order = append(g.order, p.ID)
	return p, nil
}

func (g *fakeGateway) CreateTask(_ context.Context, projectID int64, req api.CreateTaskRequest) (api.Task, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.taskCalls++
	g.lastTask = req
	if g.taskErr != nil {
		return api.Task{}, g.taskErr
	}
	p := g.projects[projectID]
	task := api.Task{ID: int64(len(p.Tasks) + 1), ProjectID: projectID, Title: req.Title, Notes: req.Notes, CreatedAt: created}
	p.Tasks = append(p.Tasks, task)
	g.projects[projectID] = p
	return task, nil
}

func (g *fakeGateway) counts() (list, get, create, task int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.listCalls, g.getCalls, g.createCalls, g.taskCalls
}

func ptr(s string) *string { return &s }

type harness struct {
	gateway *fakeGateway
	queries *query.Client
	handler http.Handler
}

func newHarness(t *testing.T, gateway *fakeGateway) harness {
	t.Helper()
	queries := query.New()
	var gw Gateway
	if gateway != nil {
		gw = gateway
	}
	mount, err := New(gw, queries, modulehandler.NewTestBase()).Mount()
	if err != nil {
		t.Fatalf("Mount() error = %v", err)
	}
	if mount.Prefix != "/" {
		t.Fatalf("prefix = %q, want /", mount.Prefix)
	}
	return harness{gateway: gateway, queries: queries, handler: mount.Handler}
}

func (h harness) get(path string, htmx bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if htmx {
		req.Header.Set("HX-Request", "true")
	}
	rr := httptest.NewRecorder()
	h.handler.ServeHTTP(rr, req)
	return rr
}

func (h harness) post(path string, values url.Values, htmx bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if htmx {
		req.Header.Set("HX-Request", "true")
	}
	rr := httptest.NewRecorder()
	h.handler.ServeHTTP(rr, req)
	return rr
}

func assertContains(t *testing.T, body string, markers ...string) {
	t.Helper()
	for _, marker := range markers {
		if !strings.Contains(body, marker) {
			t.Fatalf("body missing %q: %q", marker, body)
		}
	}
}

func TestListFullPageRendersLoadingUntilCached(t *testing.T) {
	t.Parallel()

	h := newHarness(t, newFakeGateway(api.Project{ID: 1, Name: "Tower A", CreatedAt: created}))

	rr := h.get("/", false)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	assertContains(t, rr.Body.String(), "<html", `hx-get="/"`, `hx-trigger="load"`, "Loading projects...")
	if list, _, _, _ := h.gateway.counts(); list != 0 {
		t.Fatalf("list calls = %d, want 0 before the fragment request", list)
	}

	fragment := h.get("/", true)
	body := fragment.Body.String()
	assertContains(t, body, "Development Projects", "Tower A", "No description", "1/2/2025", `href="/projects/1">View Details →</a>`)
	if strings.Contains(body, "<html") {
		t.Fatalf("fragment rendered full document: %q", body)
	}

	full := h.get("/", false)
	assertContains(t, full.Body.String(), "<html", "Tower A")
	if list, _, _, _ := h.gateway.counts(); list != 1 {
		t.Fatalf("list calls = %d, want 1", list)
	}
}

func TestListEmptyState(t *testing.T) {
	t.Parallel()

	h := newHarness(t, newFakeGateway())
	rr := h.get("/", true)
	assertContains(t, rr.Body.String(), "No projects yet", "Create your first development project to get started", ">Add Project</a>")
}

func TestListErrorPanelShowsNoData(t *testing.T) {
	t.Parallel()

	gateway := newFakeGateway(api.Project{ID: 1, Name: "Tower A", CreatedAt: created})
	gateway.listErr = &api.RequestError{Op: "list projects", Err: errors.New("connection refused")}
	h := newHarness(t, gateway)

	rr := h.get("/", true)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	body := rr.Body.String()
	assertContains(t, body, "Error loading projects", "Please check your connection and try again")
	if strings.Contains(body, "Tower A") || strings.Contains(body, "<table") {
		t.Fatalf("error state leaked data: %q", body)
	}
	if state := h.queries.Peek(ProjectsKey()); state.Status != query.StatusError {
		t.Fatalf("state = %v, want error", state.Status)
	}
}

func TestListFormOpensFromQuery(t *testing.T) {
	t.Parallel()

	h := newHarness(t, newFakeGateway())
	rr := h.get("/?new=1", true)
	body := rr.Body.String()
	assertContains(t, body, "Create New Project", `name="name"`, `action="/projects"`, `href="/">Cancel</a>`)
	if strings.Contains(body, ">Add Project</a>") {
		t.Fatalf("add control shown with open form: %q", body)
	}
}

func TestFormIsNotDisabledByAnotherVisitorsCreate(t *testing.T) {
	t.Parallel()

	gateway := newFakeGateway()
	gateway.createGate = make(chan struct{})
	h := newHarness(t, gateway)

	done := make(chan *httptest.ResponseRecorder, 1)
	go func() {
		done <- h.post("/projects", url.Values{"name": {"Tower A"}}, true)
	}()
	deadline := time.Now().Add(2 * time.Second)
	for !h.queries.IsMutating(createProjectMutation) {
		if time.Now().After(deadline) {
			t.Fatal("create did not start")
		}
		time.Sleep(time.Millisecond)
	}

	body := h.get("/?new=1", true).Body.String()
	assertContains(t, body, "Create New Project", `<span class="idle-label">Create Project</span>`)
	if strings.Contains(body, " disabled") {
		t.Fatalf("form disabled by an unrelated create: %q", body)
	}

	close(gateway.createGate)
	if rr := <-done; rr.Header().Get("HX-Redirect") != "/" {
		t.Fatalf("HX-Redirect = %q, want /", rr.Header().Get("HX-Redirect"))
	}
}

func TestCreateProjectBlankNameIsInert(t *testing.T) {
	t.Parallel()

	h := newHarness(t, newFakeGateway())
	rr := h.post("/projects", url.Values{"name": {"   "}, "description": {"kept"}}, true)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	assertContains(t, rr.Body.String(), `name="name"`, ">kept</textarea>")
	if strings.Contains(rr.Body.String(), "alert-error") {
		t.Fatalf("blank submission rendered an error: %q", rr.Body.String())
	}
	if _, _, create, _ := h.gateway.counts(); create != 0 {
		t.Fatalf("create calls = %d, want 0", create)
	}
}

func TestCreateProjectRedirectsAndInvalidatesList(t *testing.T) {
	t.Parallel()

	h := newHarness(t, newFakeGateway())
	h.get("/", true)
	if !h.queries.Peek(ProjectsKey()).Fresh() {
		t.Fatal("expected fresh list after fetch")
	}

	rr := h.post("/projects", url.Values{"name": {"  Tower A  "}, "description": {"  "}}, true)
	if got := rr.Header().Get("HX-Redirect"); got != "/" {
		t.Fatalf("HX-Redirect = %q, want /", got)
	}
	h.gateway.mu.Lock()
	last := h.gateway.lastProject
	h.gateway.mu.Unlock()
	if last.Name != "Tower A" || last.Description != nil {
		t.Fatalf("create request = %+v", last)
	}
	if h.queries.Peek(ProjectsKey()).Fresh() {
		t.Fatal("expected list invalidated after create")
	}

	page := h.get("/", true)
	body := page.Body.String()
	assertContains(t, body, "Tower A", `href="/projects/1"`, ">Add Project</a>")
	if strings.Contains(body, "<form") {
		t.Fatalf("form still open after creation: %q", body)
	}
	if list, _, _, _ := h.gateway.counts(); list != 2 {
		t.Fatalf("list calls = %d, want 2", list)
	}
}

func TestCreateProjectWithoutHTMXUsesLocationRedirect(t *testing.T) {
	t.Parallel()

	h := newHarness(t, newFakeGateway())
	rr := h.post("/projects", url.Values{"name": {"Tower A"}, "description": {" x "}}, false)
	if rr.Code != http.StatusFound {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusFound)
	}
	if got := rr.Header().Get("Location"); got != "/" {
		t.Fatalf("Location = %q, want /", got)
	}
	h.gateway.mu.Lock()
	desc := h.gateway.lastProject.Description
	h.gateway.mu.Unlock()
	if desc == nil || *desc != "x" {
		t.Fatalf("description = %v, want x", desc)
	}
}

func TestCreateProjectFailureKeepsFormAndCache(t *testing.T) {
	t.Parallel()

	gateway := newFakeGateway(api.Project{ID: 1, Name: "Existing", CreatedAt: created})
	gateway.createErr = &api.RequestError{Op: "create project", StatusCode: http.StatusInternalServerError}
	h := newHarness(t, gateway)
	h.get("/", true)

	rr := h.post("/projects", url.Values{"name": {"Tower B"}}, true)
	assertContains(t, rr.Body.String(), "Could not create the project. Please try again.", `value="Tower B"`, "Existing")
	if !h.queries.Peek(ProjectsKey()).Fresh() {
		t.Fatal("failed mutation must not invalidate the list")
	}
	if list, _, _, _ := h.gateway.counts(); list != 1 {
		t.Fatalf("list calls = %d, want 1", list)
	}
}

func TestDetailRejectsInvalidIDWithoutBackendCall(t *testing.T) {
	t.Parallel()

	h := newHarness(t, newFakeGateway())
	for _, path := range []string{"/projects/abc", "/projects/0", "/projects/-1", "/projects/1.5"} {
		rr := h.get(path, false)
		if rr.Code != http.StatusNotFound {
			t.Fatalf("%s status = %d, want %d", path, rr.Code, http.StatusNotFound)
		}
		assertContains(t, rr.Body.String(), "The project you are looking for does not exist.")
	}
	rr := h.post("/projects/abc/tasks", url.Values{"title": {"x"}}, false)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("task status = %d, want %d", rr.Code, http.StatusNotFound)
	}
	if _, get, _, task := h.gateway.counts(); get != 0 || task != 0 {
		t.Fatalf("backend calls get=%d task=%d, want none", get, task)
	}
}

func TestDetailRendersProjectAndTasks(t *testing.T) {
	t.Parallel()

	h := newHarness(t, newFakeGateway(api.Project{
		ID:          1,
		Name:        "Tower A",
		Description: ptr("Twelve floors"),
		CreatedAt:   created,
		Tasks: []api.Task{
			{ID: 1, ProjectID: 1, Title: "Zoning Approval", Notes: ptr("City hall"), CreatedAt: created},
		},
	}))

	loading := h.get("/projects/1", false)
	assertContains(t, loading.Body.String(), `hx-get="/projects/1"`, "Loading project...")

	rr := h.get("/projects/1", true)
	assertContains(t, rr.Body.String(),
		"← Back to Projects", "Tower A", "Twelve floors", "Created: 1/2/2025",
		"Project Tasks", `href="/projects/1?new=1">Add Task</a>`, "Zoning Approval", "City hall", "Active",
	)
}

func TestDetailLocalizesDates(t *testing.T) {
	t.Parallel()

	h := newHarness(t, newFakeGateway(api.Project{ID: 1, Name: "Torre A", CreatedAt: created}))
	req := httptest.NewRequest(http.MethodGet, "/projects/1?lang=pt-BR", nil)
	req.Header.Set("HX-Request", "true")
	rr := httptest.NewRecorder()
	h.handler.ServeHTTP(rr, req)
	assertContains(t, rr.Body.String(), "Criado em: 02/01/2025", "Nenhuma tarefa ainda")
}

func TestDetailNotFoundAndErrorStates(t *testing.T) {
	t.Parallel()

	h := newHarness(t, newFakeGateway())
	notFound := h.get("/projects/42", true)
	assertContains(t, notFound.Body.String(), "Project not found")

	gateway := newFakeGateway(api.Project{ID: 1, Name: "Tower A", CreatedAt: created})
	gateway.getErr = &api.RequestError{Op: "get project", Err: errors.New("timeout")}
	failing := newHarness(t, gateway)
	rr := failing.get("/projects/1", true)
	body := rr.Body.String()
	assertContains(t, body, "Error loading project", "Please check your connection and try again")
	if strings.Contains(body, "Tower A") {
		t.Fatalf("error state leaked data: %q", body)
	}
}

func TestCreateTaskInvalidatesOnlyThatProject(t *testing.T) {
	t.Parallel()

	h := newHarness(t,
		newFakeGateway(
			api.Project{ID: 1, Name: "Tower A", CreatedAt: created},
			api.Project{ID: 2, Name: "Tower B", CreatedAt: created},
		),
	)
	h.get("/", true)
	h.get("/projects/1", true)
	h.get("/projects/2", true)

	rr := h.post("/projects/1/tasks", url.Values{"title": {" Zoning Approval "}, "notes": {""}}, true)
	if got := rr.Header().Get("HX-Redirect"); got != "/projects/1" {
		t.Fatalf("HX-Redirect = %q, want /projects/1", got)
	}
	h.gateway.mu.Lock()
	last := h.gateway.lastTask
	h.gateway.mu.Unlock()
	if last.Title != "Zoning Approval" || last.Notes != nil {
		t.Fatalf("task request = %+v", last)
	}
	if h.queries.Peek(ProjectKey(1)).Fresh() {
		t.Fatal("project 1 must be invalidated")
	}
	if !h.queries.Peek(ProjectKey(2)).Fresh() || !h.queries.Peek(ProjectsKey()).Fresh() {
		t.Fatal("other keys must stay fresh")
	}

	detail := h.get("/projects/1", true)
	assertContains(t, detail.Body.String(), "Zoning Approval")
}

func TestCreateTaskBlankTitleIsInert(t *testing.T) {
	t.Parallel()

	h := newHarness(t, newFakeGateway(api.Project{ID: 1, Name: "Tower A", CreatedAt: created}))
	rr := h.post("/projects/1/tasks", url.Values{"title": {"\t"}, "notes": {"n"}}, true)
	assertContains(t, rr.Body.String(), "Add New Task", `name="title"`, ">n</textarea>", `href="/projects/1">Cancel</a>`)
	if _, _, _, task := h.gateway.counts(); task != 0 {
		t.Fatalf("task calls = %d, want 0", task)
	}
}

func TestCreateTaskFailureShowsFormError(t *testing.T) {
	t.Parallel()

	gateway := newFakeGateway(api.Project{ID: 1, Name: "Tower A", CreatedAt: created})
	gateway.taskErr = &api.RequestError{Op: "create task", StatusCode: http.StatusUnprocessableEntity}
	h := newHarness(t, gateway)
	rr := h.post("/projects/1/tasks", url.Values{"title": {"Foundation Work"}}, true)
	assertContains(t, rr.Body.String(), "Could not add the task. Please try again.", `value="Foundation Work"`)
}

func TestUnknownPathRendersNotFound(t *testing.T) {
	t.Parallel()

	h := newHarness(t, newFakeGateway())
	rr := h.get("/nope", false)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusNotFound)
	}
	assertContains(t, rr.Body.String(), "Page not found", "<html")

	redirect := h.get("/projects", false)
	if redirect.Code != http.StatusFound || redirect.Header().Get("Location") != "/" {
		t.Fatalf("GET /projects = %d %q", redirect.Code, redirect.Header().Get("Location"))
	}
}

func TestDegradedModuleRendersErrorState(t *testing.T) {
	t.Parallel()

	m := New(nil, nil, modulehandler.NewTestBase())
	if m.Healthy() {
		t.Fatal("module without gateway must be unhealthy")
	}
	if New(NewAPIGateway(nil), nil, modulehandler.Base{}).Healthy() {
		t.Fatal("unavailable gateway must be unhealthy")
	}
	h := newHarness(t, nil)
	rr := h.get("/", true)
	assertContains(t, rr.Body.String(), "Error loading projects")
}

func TestCacheKeys(t *testing.T) {
	t.Parallel()

	if ProjectsKey() != "projects" {
		t.Fatalf("ProjectsKey() = %q", ProjectsKey())
	}
	if ProjectKey(12) != "project:12" {
		t.Fatalf("ProjectKey(12) = %q", ProjectKey(12))
	}
	if createTaskMutation(12) != "create task:12" {
		t.Fatalf("createTaskMutation(12) = %q", createTaskMutation(12))
	}
}
