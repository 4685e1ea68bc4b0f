package templates

// TaskRow is one task card of the detail page.
type TaskRow struct {
	Title   string
	Notes   string
	Created string
}

// ProjectDetailView is the loaded state of the detail page.
type ProjectDetailView struct {
	Name        string
	Description string
	Created     string
	Tasks       []TaskRow
	AddTaskURL  string
	FormOpen    bool
	Form        FormView
}
