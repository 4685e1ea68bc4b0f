// Package routepath stores canonical HTTP paths for web modules.
package routepath

import (
	"net/url"
	"strconv"
	"strings"
)

const (
	Root                  = "/"
	Health                = "/up"
	StaticPrefix          = "/static/"
	Projects              = "/projects"
	ProjectsPrefix        = "/projects/"
	ProjectPattern        = ProjectsPrefix + "{projectID}"
	ProjectTasksPattern   = ProjectsPrefix + "{projectID}/tasks"
	NewFormQueryKey       = "new"
	NewFormQueryValue     = "1"
	ProjectIDPathValueKey = "projectID"
)

// ProjectsWithForm returns the list route with the project form open.
func ProjectsWithForm() string {
	return Root + "?" + NewFormQueryKey + "=" + NewFormQueryValue
}

// Project returns the project detail route.
func Project(projectID int64) string {
	return ProjectsPrefix + strconv.FormatInt(projectID, 10)
}

// ProjectRaw returns the detail route for an unparsed project id segment.
func ProjectRaw(rawProjectID string) string {
	return ProjectsPrefix + escapeSegment(rawProjectID)
}

// ProjectWithForm returns the detail route with the task form open.
func ProjectWithForm(projectID int64) string {
	return Project(projectID) + "?" + NewFormQueryKey + "=" + NewFormQueryValue
}

// ProjectTasks returns the task creation route of a project.
func ProjectTasks(projectID int64) string {
	return Project(projectID) + "/tasks"
}

// FormOpen reports whether the query requests an open creation form.
func FormOpen(query url.Values) bool {
	return strings.TrimSpace(query.Get(NewFormQueryKey)) == NewFormQueryValue
}

func escapeSegment(raw string) string {
	return url.PathEscape(strings.TrimSpace(raw))
}
