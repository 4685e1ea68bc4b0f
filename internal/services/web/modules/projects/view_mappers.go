package projects

import (
	platformi18n "github.com/geodev/geodev/internal/platform/i18n"
	"github.com/geodev/geodev/internal/services/web/api"
	"github.com/geodev/geodev/internal/services/web/routepath"
	webtemplates "github.com/geodev/geodev/internal/services/web/templates"
	"golang.org/x/text/language"
)

func projectsView(projects []api.Project, tag language.Tag) webtemplates.ProjectsView {
	rows := make([]webtemplates.ProjectRow, 0, len(projects))
	for _, project := range projects {
		rows = append(rows, webtemplates.ProjectRow{
			Name:        project.Name,
			Description: optionalText(project.Description),
			Created:     platformi18n.FormatDate(tag, project.CreatedAt.Time),
			URL:         routepath.Project(project.ID),
		})
	}
	return webtemplates.ProjectsView{Rows: rows, AddURL: routepath.ProjectsWithForm()}
}

func projectFormView(form webtemplates.FormView) webtemplates.FormView {
	form.Action = routepath.Projects
	form.CancelURL = routepath.Root
	return form
}

func projectDetailView(project api.Project, tag language.Tag) webtemplates.ProjectDetailView {
	tasks := make([]webtemplates.TaskRow, 0, len(project.Tasks))
	for _, task := range project.Tasks {
		tasks = append(tasks, webtemplates.TaskRow{
			Title:   task.Title,
			Notes:   optionalText(task.Notes),
			Created: platformi18n.FormatDate(tag, task.CreatedAt.Time),
		})
	}
	return webtemplates.ProjectDetailView{
		Name:        project.Name,
		Description: optionalText(project.Description),
		Created:     platformi18n.FormatDate(tag, project.CreatedAt.Time),
		Tasks:       tasks,
		AddTaskURL:  routepath.ProjectWithForm(project.ID),
	}
}

func taskFormView(projectID int64, form webtemplates.FormView) webtemplates.FormView {
	form.Action = routepath.ProjectTasks(projectID)
	form.CancelURL = routepath.Project(projectID)
	return form
}

func optionalText(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
