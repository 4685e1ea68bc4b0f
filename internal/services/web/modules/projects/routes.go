package projects

import (
	"net/http"

	"github.com/geodev/geodev/internal/services/web/routepath"
)

func registerRoutes(mux *http.ServeMux, h handlers) {
	if mux == nil {
		return
	}
	mux.HandleFunc(http.MethodGet+" "+routepath.Root+"{$}", h.handleList)
	mux.HandleFunc(http.MethodPost+" "+routepath.Projects, h.handleCreateProject)
	mux.HandleFunc(http.MethodGet+" "+routepath.Projects, h.handleProjectsRedirect)
	mux.HandleFunc(http.MethodGet+" "+routepath.ProjectsPrefix+"{$}", h.handleProjectsRedirect)

	mux.HandleFunc(http.MethodGet+" "+routepath.ProjectPattern, h.withProjectID(h.handleDetail))
	mux.HandleFunc(http.MethodPost+" "+routepath.ProjectTasksPattern, h.withProjectID(h.handleCreateTask))

	mux.HandleFunc(routepath.Root, h.WriteNotFound)
}
