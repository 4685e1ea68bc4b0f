package api

import (
	"context"
	"net/http"
	"strconv"
)

// ProjectsService groups the project operations.
type ProjectsService struct {
	client *Client
}

// GetAll lists every project.
func (s *ProjectsService) GetAll(ctx context.Context) ([]Project, error) {
	var projects []Project
	if err := s.client.do(ctx, "list projects", http.MethodGet, "/projects", nil, &projects); err != nil {
		return nil, err
	}
	if projects == nil {
		projects = []Project{}
	}
	return projects, nil
}

// GetByID loads one project with its tasks.
func (s *ProjectsService) GetByID(ctx context.Context, id int64) (Project, error) {
	var project Project
	if err := s.client.do(ctx, "get project", http.MethodGet, projectPath(id), nil, &project); err != nil {
		return Project{}, err
	}
	if project.Tasks == nil {
		project.Tasks = []Task{}
	}
	return project, nil
}

// Create creates a project and returns the stored entity.
func (s *ProjectsService) Create(ctx context.Context, req CreateProjectRequest) (Project, error) {
	var project Project
	if err := s.client.do(ctx, "create project", http.MethodPost, "/projects", req, &project); err != nil {
		return Project{}, err
	}
	return project, nil
}

func projectPath(id int64) string {
	return "/projects/" + strconv.FormatInt(id, 10)
}
