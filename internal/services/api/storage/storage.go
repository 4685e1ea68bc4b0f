// Package storage defines persistence contracts for projects and tasks.
package storage

import (
	"context"
	"errors"
	"strings"
	"time"
)

// ErrNotFound indicates a requested project is missing.
var ErrNotFound = errors.New("record not found")

// DefaultLimit caps list reads when no limit is requested.
const DefaultLimit = 100

// Project stores one development project. Tasks is populated only by
// GetProject.
type Project struct {
	ID          int64
	Name        string
	Description *string
	CreatedAt   time.Time
	Tasks       []Task
}

// Task stores one unit of work owned by a project.
type Task struct {
	ID        int64
	ProjectID int64
	Title     string
	Notes     *string
	CreatedAt time.Time
}

// NewProject carries the fields accepted when creating a project.
type NewProject struct {
	Name        string
	Description *string
}

// NewTask carries the fields accepted when creating a task.
type NewTask struct {
	Title string
	Notes *string
}

// Page bounds a list read. A zero Limit means DefaultLimit.
type Page struct {
	Skip  int
	Limit int
}

// Normalize clamps negative values and applies the default limit.
func (p Page) Normalize() Page {
	if p.Skip < 0 {
		p.Skip = 0
	}
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	return p
}

// Store persists projects and tasks. Implementations assign ids and
// creation times.
type Store interface {
	CreateProject(ctx context.Context, input NewProject) (Project, error)
	ListProjects(ctx context.Context, page Page) ([]Project, error)
	// GetProject returns the project with its tasks in creation order, or
	// ErrNotFound.
	GetProject(ctx context.Context, id int64) (Project, error)
	// CreateTask returns ErrNotFound when the project does not exist.
	CreateTask(ctx context.Context, projectID int64, input NewTask) (Task, error)
	// ListTasks returns ErrNotFound when the project does not exist.
	ListTasks(ctx context.Context, projectID int64, page Page) ([]Task, error)
	Close() error
}

// Backend names the active store in logs and the info endpoint.
type Backend interface {
	Backend() string
}

// NullableText stores nil for absent optional text. Present values are
// kept verbatim.
func NullableText(value *string) *string {
	if value == nil {
		return nil
	}
	copied := *value
	return &copied
}

// RequiredText reports whether value holds non-whitespace text.
func RequiredText(value string) bool {
	return strings.TrimSpace(value) != ""
}
