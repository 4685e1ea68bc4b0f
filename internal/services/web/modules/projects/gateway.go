package projects

import (
	"context"

	"github.com/geodev/geodev/internal/services/web/api"
	apperrors "github.com/geodev/geodev/internal/services/web/platform/errors"
)

// Gateway reads and writes projects and tasks on the backend.
type Gateway interface {
	ListProjects(context.Context) ([]api.Project, error)
	GetProject(context.Context, int64) (api.Project, error)
	CreateProject(context.Context, api.CreateProjectRequest) (api.Project, error)
	CreateTask(context.Context, int64, api.CreateTaskRequest) (api.Task, error)
}

// NewAPIGateway adapts the backend API client to Gateway.
func NewAPIGateway(client *api.Client) Gateway {
	if client == nil {
		return unavailableGateway{}
	}
	return apiGateway{client: client}
}

type apiGateway struct {
	client *api.Client
}

func (g apiGateway) ListProjects(ctx context.Context) ([]api.Project, error) {
	return g.client.Projects().GetAll(ctx)
}

func (g apiGateway) GetProject(ctx context.Context, id int64) (api.Project, error) {
	return g.client.Projects().GetByID(ctx, id)
}

func (g apiGateway) CreateProject(ctx context.Context, req api.CreateProjectRequest) (api.Project, error) {
	return g.client.Projects().Create(ctx, req)
}

func (g apiGateway) CreateTask(ctx context.Context, projectID int64, req api.CreateTaskRequest) (api.Task, error) {
	return g.client.Tasks().Create(ctx, projectID, req)
}

type unavailableGateway struct{}

func errUnavailable() error {
	return apperrors.E(apperrors.KindUnavailable, "projects gateway is not configured")
}

func (unavailableGateway) ListProjects(context.Context) ([]api.Project, error) {
	return nil, errUnavailable()
}

func (unavailableGateway) GetProject(context.Context, int64) (api.Project, error) {
	return api.Project{}, errUnavailable()
}

func (unavailableGateway) CreateProject(context.Context, api.CreateProjectRequest) (api.Project, error) {
	return api.Project{}, errUnavailable()
}

func (unavailableGateway) CreateTask(context.Context, int64, api.CreateTaskRequest) (api.Task, error) {
	return api.Task{}, errUnavailable()
}
