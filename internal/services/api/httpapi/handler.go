// Package httpapi serves the projects REST API over a storage.Store.
package httpapi

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/geodev/geodev/internal/services/api/storage"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// Version is reported by the info endpoint.
const Version = "1.0.0"

const (
	detailProjectNotFound = "Project not found"
	requestIDHeader       = "X-Request-ID"
)

// Handler exposes projects and tasks as JSON resources.
type Handler struct {
	store  storage.Store
	logger *log.Logger
}

// NewRouter builds the API router.
func NewRouter(store storage.Store, logger *log.Logger) *mux.Router {
	if logger == nil {
		logger = log.Default()
	}
	h := &Handler{store: store, logger: logger}

	router := mux.NewRouter()
	router.Use(requestID)
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeDetail(w, http.StatusNotFound, "Not Found")
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeDetail(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	})

	router.HandleFunc("/", h.info).Methods(http.MethodGet)
	router.HandleFunc("/docs", h.docs).Methods(http.MethodGet)
	router.HandleFunc("/health", h.health).Methods(http.MethodGet)
	for _, path := range []string{"/projects", "/projects/"} {
		router.HandleFunc(path, h.listProjects).Methods(http.MethodGet)
		router.HandleFunc(path, h.createProject).Methods(http.MethodPost)
	}
	router.HandleFunc("/projects/{projectID}", h.getProject).Methods(http.MethodGet)
	for _, path := range []string{"/projects/{projectID}/tasks", "/projects/{projectID}/tasks/"} {
		router.HandleFunc(path, h.listTasks).Methods(http.MethodGet)
		router.HandleFunc(path, h.createTask).Methods(http.MethodPost)
	}
	return router
}

func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(requestIDHeader))
		if id == "" {
			id = "api-" + uuid.NewString()
			r.Header.Set(requestIDHeader, id)
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

type infoResponse struct {
	Message string `json:"message"`
	Version string `json:"version"`
	Docs    string `json:"docs"`
	Storage string `json:"storage,omitempty"`
}

func (h *Handler) info(w http.ResponseWriter, _ *http.Request) {
	resp := infoResponse{Message: "Geo Development Demo API", Version: Version, Docs: "/docs"}
	if backend, ok := h.store.(storage.Backend); ok {
		resp.Storage = backend.Backend()
	}
	writeJSON(w, http.StatusOK, resp)
}

type routeDoc struct {
	Method      string `json:"method"`
	Path        string `json:"path"`
	Description string `json:"description"`
}

var routeDocs = []routeDoc{
	{Method: http.MethodGet, Path: "/projects", Description: "List development projects (skip, limit)"},
	{Method: http.MethodPost, Path: "/projects", Description: "Create a development project"},
	{Method: http.MethodGet, Path: "/projects/{project_id}", Description: "Get a project with its tasks"},
	{Method: http.MethodGet, Path: "/projects/{project_id}/tasks", Description: "List tasks for a project (skip, limit)"},
	{Method: http.MethodPost, Path: "/projects/{project_id}/tasks", Description: "Create a task for a project"},
	{Method: http.MethodGet, Path: "/health", Description: "Health check"},
}

func (h *Handler) docs(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"routes": routeDocs})
}

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (h *Handler) listProjects(w http.ResponseWriter, r *http.Request) {
	page, ok := pageFromQuery(w, r)
	if !ok {
		return
	}
	projects, err := h.store.ListProjects(r.Context(), page)
	if err != nil {
		h.writeStoreError(w, r, err)
		return
	}
	resp := make([]projectResponse, 0, len(projects))
	for _, project := range projects {
		resp = append(resp, newProjectResponse(project))
	}
	writeJSON(w, http.StatusOK, resp)
}

type createProjectRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

func (h *Handler) createProject(w http.ResponseWriter, r *http.Request) {
	var req createProjectRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Name == nil || !storage.RequiredText(*req.Name) {
		writeDetail(w, http.StatusUnprocessableEntity, "name is required")
		return
	}
	project, err := h.store.CreateProject(r.Context(), storage.NewProject{Name: *req.Name, Description: req.Description})
	if err != nil {
		h.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, newProjectResponse(project))
}

func (h *Handler) getProject(w http.ResponseWriter, r *http.Request) {
	projectID, ok := projectIDFromPath(w, r)
	if !ok {
		return
	}
	project, err := h.store.GetProject(r.Context(), projectID)
	if err != nil {
		h.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newProjectWithTasksResponse(project))
}

func (h *Handler) listTasks(w http.ResponseWriter, r *http.Request) {
	projectID, ok := projectIDFromPath(w, r)
	if !ok {
		return
	}
	page, ok := pageFromQuery(w, r)
	if !ok {
		return
	}
	tasks, err := h.store.ListTasks(r.Context(), projectID, page)
	if err != nil {
		h.writeStoreError(w, r, err)
		return
	}
	resp := make([]taskResponse, 0, len(tasks))
	for _, task := range tasks {
		resp = append(resp, newTaskResponse(task))
	}
	writeJSON(w, http.StatusOK, resp)
}

type createTaskRequest struct {
	Title *string `json:"title"`
	Notes *string `json:"notes"`
}

func (h *Handler) createTask(w http.ResponseWriter, r *http.Request) {
	projectID, ok := projectIDFromPath(w, r)
	if !ok {
		return
	}
	var req createTaskRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Title == nil || !storage.RequiredText(*req.Title) {
		writeDetail(w, http.StatusUnprocessableEntity, "title is required")
		return
	}
	task, err := h.store.CreateTask(r.Context(), projectID, storage.NewTask{Title: *req.Title, Notes: req.Notes})
	if err != nil {
		h.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, newTaskResponse(task))
}

func (h *Handler) writeStoreError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		writeDetail(w, http.StatusNotFound, detailProjectNotFound)
		return
	}
	h.logger.Printf("store error method=%s path=%s request_id=%s err=%v", r.Method, r.URL.Path, r.Header.Get(requestIDHeader), err)
	writeDetail(w, http.StatusInternalServerError, "Internal Server Error")
}

func projectIDFromPath(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := mux.Vars(r)["projectID"]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "project_id must be an integer")
		return 0, false
	}
	return id, true
}

func pageFromQuery(w http.ResponseWriter, r *http.Request) (storage.Page, bool) {
	query := r.URL.Query()
	page := storage.Page{Limit: storage.DefaultLimit}
	for _, param := range []struct {
		name   string
		target *int
	}{
		{name: "skip", target: &page.Skip},
		{name: "limit", target: &page.Limit},
	} {
		raw := strings.TrimSpace(query.Get(param.name))
		if raw == "" {
			continue
		}
		value, err := strconv.Atoi(raw)
		if err != nil || value < 0 {
			writeDetail(w, http.StatusUnprocessableEntity, param.name+" must be a non-negative integer")
			return storage.Page{}, false
		}
		*param.target = value
	}
	return page, true
}

type projectResponse struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	CreatedAt   string  `json:"created_at"`
}

type projectWithTasksResponse struct {
	projectResponse
	Tasks []taskResponse `json:"tasks"`
}

type taskResponse struct {
	ID        int64   `json:"id"`
	ProjectID int64   `json:"project_id"`
	Title     string  `json:"title"`
	Notes     *string `json:"notes"`
	CreatedAt string  `json:"created_at"`
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func newProjectResponse(project storage.Project) projectResponse {
	return projectResponse{
		ID:          project.ID,
		Name:        project.Name,
		Description: project.Description,
		CreatedAt:   formatTime(project.CreatedAt),
	}
}

func newProjectWithTasksResponse(project storage.Project) projectWithTasksResponse {
	tasks := make([]taskResponse, 0, len(project.Tasks))
	for _, task := range project.Tasks {
		tasks = append(tasks, newTaskResponse(task))
	}
	return projectWithTasksResponse{projectResponse: newProjectResponse(project), Tasks: tasks}
}

func newTaskResponse(task storage.Task) taskResponse {
	return taskResponse{
		ID:        task.ID,
		ProjectID: task.ProjectID,
		Title:     task.Title,
		Notes:     task.Notes,
		CreatedAt: formatTime(task.CreatedAt),
	}
}
