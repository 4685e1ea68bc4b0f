package projects

import (
	"net/http"

	"github.com/a-h/templ"
	"github.com/geodev/geodev/internal/services/web/api"
	"github.com/geodev/geodev/internal/services/web/forms"
	apperrors "github.com/geodev/geodev/internal/services/web/platform/errors"
	"github.com/geodev/geodev/internal/services/web/platform/httpx"
	"github.com/geodev/geodev/internal/services/web/routepath"
	webtemplates "github.com/geodev/geodev/internal/services/web/templates"
	"golang.org/x/text/language"
)

func (h handlers) handleDetail(w http.ResponseWriter, r *http.Request, projectID int64) {
	page, tag := h.PageContext(w, r)
	var form *webtemplates.FormView
	if routepath.FormOpen(r.URL.Query()) {
		form = &webtemplates.FormView{}
	}
	if !httpx.IsHTMXRequest(r) && !h.service.projectFresh(projectID) {
		h.WritePage(w, r, page, webtemplates.PageTitle(page.Loc, "project.tasks.title"), http.StatusOK,
			webtemplates.Loading(page.Loc, "project.loading", r.URL.RequestURI()))
		return
	}
	h.writeDetail(w, r, page, tag, projectID, form)
}

func (h handlers) handleCreateTask(w http.ResponseWriter, r *http.Request, projectID int64) {
	values, err := forms.TaskValuesFromRequest(r)
	if err != nil {
		h.WriteError(w, r, apperrors.E(apperrors.KindInvalidInput, err.Error()))
		return
	}
	page, tag := h.PageContext(w, r)

	var req api.CreateTaskRequest
	form := forms.Task{OnSubmit: func(submitted api.CreateTaskRequest) { req = submitted }}
	if !form.Submit(values) {
		h.writeDetail(w, r, page, tag, projectID, &webtemplates.FormView{Primary: values.Title, Secondary: values.Notes})
		return
	}

	if _, err := h.service.createTask(httpx.RequestContext(r), projectID, req); err != nil {
		h.Logf("create task failed project_id=%d title=%q err=%v", projectID, req.Title, err)
		h.writeDetail(w, r, page, tag, projectID, &webtemplates.FormView{
			Primary:   values.Title,
			Secondary: values.Notes,
			Error:     webtemplates.T(page.Loc, "form.task.error"),
		})
		return
	}
	httpx.WriteRedirect(w, r, routepath.Project(projectID))
}

// writeDetail renders the detail content, blocking on the project fetch. A
// nil form keeps the task form hidden.
func (h handlers) writeDetail(w http.ResponseWriter, r *http.Request, page webtemplates.PageContext, tag language.Tag, projectID int64, form *webtemplates.FormView) {
	project, err := h.service.project(httpx.RequestContext(r), projectID)
	var content templ.Component
	title := webtemplates.PageTitle(page.Loc, "project.tasks.title")
	switch {
	case api.IsNotFound(err):
		content = webtemplates.ErrorPanel(page.Loc, "project.not_found.title", "project.not_found.detail")
	case err != nil:
		h.Logf("project fetch failed key=%s err=%v", ProjectKey(projectID), err)
		content = webtemplates.ErrorPanel(page.Loc, "project.error.title", "project.error.detail")
	default:
		view := projectDetailView(project, tag)
		if form != nil {
			view.FormOpen = true
			view.Form = taskFormView(projectID, *form)
		}
		title = webtemplates.T(page.Loc, "title.page", project.Name)
		content = webtemplates.ProjectDetailContent(page.Loc, view)
	}
	h.WritePage(w, r, page, title, http.StatusOK, content)
}
