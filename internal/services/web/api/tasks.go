package api

import (
	"context"
	"net/http"
)

// TasksService groups the task operations. Tasks are only read through
// their parent project.
type TasksService struct {
	client *Client
}

// Create adds a task to projectID and returns the stored entity.
func (s *TasksService) Create(ctx context.Context, projectID int64, req CreateTaskRequest) (Task, error) {
	var task Task
	if err := s.client.do(ctx, "create task", http.MethodPost, projectPath(projectID)+"/tasks", req, &task); err != nil {
		return Task{}, err
	}
	return task, nil
}
