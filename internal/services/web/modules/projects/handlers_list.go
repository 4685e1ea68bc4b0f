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

func (h handlers) handleList(w http.ResponseWriter, r *http.Request) {
	page, tag := h.PageContext(w, r)
	var form *webtemplates.FormView
	if routepath.FormOpen(r.URL.Query()) {
		form = &webtemplates.FormView{}
	}
	if !httpx.IsHTMXRequest(r) && !h.service.projectsFresh() {
		h.WritePage(w, r, page, webtemplates.PageTitle(page.Loc, "projects.title"), http.StatusOK,
			webtemplates.Loading(page.Loc, "projects.loading", r.URL.RequestURI()))
		return
	}
	h.writeList(w, r, page, tag, form)
}

func (h handlers) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	values, err := forms.ProjectValuesFromRequest(r)
	if err != nil {
		h.WriteError(w, r, apperrors.E(apperrors.KindInvalidInput, err.Error()))
		return
	}
	page, tag := h.PageContext(w, r)

	var req api.CreateProjectRequest
	form := forms.Project{OnSubmit: func(submitted api.CreateProjectRequest) { req = submitted }}
	if !form.Submit(values) {
		h.writeList(w, r, page, tag, &webtemplates.FormView{Primary: values.Name, Secondary: values.Description})
		return
	}

	if _, err := h.service.createProject(httpx.RequestContext(r), req); err != nil {
		h.Logf("create project failed name=%q err=%v", req.Name, err)
		h.writeList(w, r, page, tag, &webtemplates.FormView{
			Primary:   values.Name,
			Secondary: values.Description,
			Error:     webtemplates.T(page.Loc, "form.project.error"),
		})
		return
	}
	httpx.WriteRedirect(w, r, routepath.Root)
}

// writeList renders the list content, blocking on the projects fetch. A nil
// form keeps the creation form hidden.
func (h handlers) writeList(w http.ResponseWriter, r *http.Request, page webtemplates.PageContext, tag language.Tag, form *webtemplates.FormView) {
	title := webtemplates.PageTitle(page.Loc, "projects.title")
	projects, err := h.service.listProjects(httpx.RequestContext(r))
	var content templ.Component
	if err != nil {
		h.Logf("projects fetch failed key=%s err=%v", ProjectsKey(), err)
		content = webtemplates.ErrorPanel(page.Loc, "projects.error.title", "projects.error.detail")
	} else {
		view := projectsView(projects, tag)
		if form != nil {
			view.FormOpen = true
			view.Form = projectFormView(*form)
		}
		content = webtemplates.ProjectsContent(page.Loc, view)
	}
	h.WritePage(w, r, page, title, http.StatusOK, content)
}
