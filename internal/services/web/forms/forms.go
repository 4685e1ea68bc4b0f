// Package forms holds the submission contract of the project and task forms.
//
// A form collects raw values, trims them, and only invokes its OnSubmit
// callback when the required field is non-blank. Optional fields that are
// blank after trimming are sent as absent.
package forms

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/geodev/geodev/internal/services/web/api"
)

// Posted form field names.
const (
	FieldName        = "name"
	FieldDescription = "description"
	FieldTitle       = "title"
	FieldNotes       = "notes"
)

// ProjectValues are the raw values of the project form.
type ProjectValues struct {
	Name        string
	Description string
}

// TaskValues are the raw values of the task form.
type TaskValues struct {
	Title string
	Notes string
}

// Request normalizes the values into a create request. It reports false
// when the name is blank.
func (v ProjectValues) Request() (api.CreateProjectRequest, bool) {
	name := strings.TrimSpace(v.Name)
	if name == "" {
		return api.CreateProjectRequest{}, false
	}
	return api.CreateProjectRequest{Name: name, Description: optional(v.Description)}, true
}

// Request normalizes the values into a create request. It reports false
// when the title is blank.
func (v TaskValues) Request() (api.CreateTaskRequest, bool) {
	title := strings.TrimSpace(v.Title)
	if title == "" {
		return api.CreateTaskRequest{}, false
	}
	return api.CreateTaskRequest{Title: title, Notes: optional(v.Notes)}, true
}

// Project is the project creation form.
type Project struct {
	OnSubmit  func(api.CreateProjectRequest)
	OnCancel  func()
	IsLoading bool
}

// Submit invokes OnSubmit with the normalized request and reports whether it
// did. Blank names and submissions while loading are inert.
func (f Project) Submit(values ProjectValues) bool {
	if f.IsLoading || f.OnSubmit == nil {
		return false
	}
	req, ok := values.Request()
	if !ok {
		return false
	}
	f.OnSubmit(req)
	return true
}

// Cancel invokes OnCancel when set.
func (f Project) Cancel() {
	if f.OnCancel != nil {
		f.OnCancel()
	}
}

// Task is the task creation form.
type Task struct {
	OnSubmit  func(api.CreateTaskRequest)
	OnCancel  func()
	IsLoading bool
}

// Submit invokes OnSubmit with the normalized request and reports whether it
// did. Blank titles and submissions while loading are inert.
func (f Task) Submit(values TaskValues) bool {
	if f.IsLoading || f.OnSubmit == nil {
		return false
	}
	req, ok := values.Request()
	if !ok {
		return false
	}
	f.OnSubmit(req)
	return true
}

// Cancel invokes OnCancel when set.
func (f Task) Cancel() {
	if f.OnCancel != nil {
		f.OnCancel()
	}
}

// ProjectValuesFromRequest reads the posted project form.
func ProjectValuesFromRequest(r *http.Request) (ProjectValues, error) {
	if err := parse(r); err != nil {
		return ProjectValues{}, err
	}
	return ProjectValues{
		Name:        r.PostFormValue(FieldName),
		Description: r.PostFormValue(FieldDescription),
	}, nil
}

// TaskValuesFromRequest reads the posted task form.
func TaskValuesFromRequest(r *http.Request) (TaskValues, error) {
	if err := parse(r); err != nil {
		return TaskValues{}, err
	}
	return TaskValues{
		Title: r.PostFormValue(FieldTitle),
		Notes: r.PostFormValue(FieldNotes),
	}, nil
}

func parse(r *http.Request) error {
	if r == nil {
		return fmt.Errorf("request is required")
	}
	if err := r.ParseForm(); err != nil {
		return fmt.Errorf("parse form: %w", err)
	}
	return nil
}

func optional(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}
