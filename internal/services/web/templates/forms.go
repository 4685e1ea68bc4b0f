package templates

import "github.com/geodev/geodev/internal/services/web/forms"

// FormView carries the state of an open creation form.
type FormView struct {
	Action    string
	CancelURL string
	Primary   string
	Secondary string
	Error     string
}

type formCopy struct {
	titleKey                string
	primaryField            string
	primaryLabelKey         string
	primaryPlaceholderKey   string
	secondaryField          string
	secondaryLabelKey       string
	secondaryPlaceholderKey string
	submitKey               string
	busyKey                 string
}

var projectFormCopy = formCopy{
	titleKey:                "form.project.title",
	primaryField:            forms.FieldName,
	primaryLabelKey:         "form.project.name",
	primaryPlaceholderKey:   "form.project.name_placeholder",
	secondaryField:          forms.FieldDescription,
	secondaryLabelKey:       "form.project.description",
	secondaryPlaceholderKey: "form.project.description_placeholder",
	submitKey:               "form.project.submit",
	busyKey:                 "form.project.busy",
}

var taskFormCopy = formCopy{
	titleKey:                "form.task.title",
	primaryField:            forms.FieldTitle,
	primaryLabelKey:         "form.task.name",
	primaryPlaceholderKey:   "form.task.name_placeholder",
	secondaryField:          forms.FieldNotes,
	secondaryLabelKey:       "form.task.notes",
	secondaryPlaceholderKey: "form.task.notes_placeholder",
	submitKey:               "form.task.submit",
	busyKey:                 "form.task.busy",
}
