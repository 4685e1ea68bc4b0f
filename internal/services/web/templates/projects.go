package templates

// ProjectRow is one project line of the list table.
type ProjectRow struct {
	Name        string
	Description string
	Created     string
	URL         string
}

// ProjectsView is the loaded state of the list page.
type ProjectsView struct {
	Rows     []ProjectRow
	AddURL   string
	FormOpen bool
	Form     FormView
}

var projectTableHeadings = []string{
	"projects.table.name",
	"projects.table.description",
	"projects.table.created",
	"projects.table.actions",
}
