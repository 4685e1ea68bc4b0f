package projects

import (
	"context"
	"strconv"

	"github.com/geodev/geodev/internal/services/web/api"
	"github.com/geodev/geodev/internal/services/web/query"
)

const createProjectMutation = "create project"

// ProjectsKey is the cache key of the project list.
func ProjectsKey() query.Key {
	return "projects"
}

// ProjectKey is the cache key of one project with its tasks.
func ProjectKey(projectID int64) query.Key {
	return query.Key("project:" + strconv.FormatInt(projectID, 10))
}

func createTaskMutation(projectID int64) string {
	return "create task:" + strconv.FormatInt(projectID, 10)
}

type service struct {
	gateway Gateway
	queries *query.Client
}

func newService(gateway Gateway, queries *query.Client) service {
	return service{gateway: gateway, queries: queries}
}

func (s service) listProjects(ctx context.Context) ([]api.Project, error) {
	return query.Fetch(ctx, s.queries, ProjectsKey(), s.gateway.ListProjects)
}

func (s service) projectsFresh() bool {
	return s.queries.Peek(ProjectsKey()).Fresh()
}

func (s service) project(ctx context.Context, projectID int64) (api.Project, error) {
	return query.Fetch(ctx, s.queries, ProjectKey(projectID), func(ctx context.Context) (api.Project, error) {
		return s.gateway.GetProject(ctx, projectID)
	})
}

func (s service) projectFresh(projectID int64) bool {
	return s.queries.Peek(ProjectKey(projectID)).Fresh()
}

func (s service) createProject(ctx context.Context, req api.CreateProjectRequest) (api.Project, error) {
	return query.Mutate(ctx, s.queries, createProjectMutation, func(ctx context.Context) (api.Project, error) {
		return s.gateway.CreateProject(ctx, req)
	}, ProjectsKey())
}

func (s service) createTask(ctx context.Context, projectID int64, req api.CreateTaskRequest) (api.Task, error) {
	return query.Mutate(ctx, s.queries, createTaskMutation(projectID), func(ctx context.Context) (api.Task, error) {
		return s.gateway.CreateTask(ctx, projectID, req)
	}, ProjectKey(projectID))
}
