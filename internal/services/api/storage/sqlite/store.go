// Package sqlite provides a SQLite-backed project storage implementation.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/geodev/geodev/internal/platform/storage/sqlitemigrate"
	"github.com/geodev/geodev/internal/services/api/storage"
	"github.com/geodev/geodev/internal/services/api/storage/sqlite/migrations"
)

// Store persists projects and tasks in SQLite.
type Store struct {
	sqlDB *sql.DB
	now   func() time.Time
}

var _ storage.Store = (*Store)(nil)

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite project store and applies embedded migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := path
	if path != ":memory:" {
		cleanPath = filepath.Clean(path)
	}
	sqlDB, err := sqlitemigrate.Open(ctx, cleanPath, migrations.FS, ".")
	if err != nil {
		return nil, fmt.Errorf("open project store: %w", err)
	}
	return &Store{sqlDB: sqlDB, now: time.Now}, nil
}

// Backend names this store.
func (s *Store) Backend() string { return "sqlite" }

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *Store) ready(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	return nil
}

// CreateProject inserts one project.
func (s *Store) CreateProject(ctx context.Context, input storage.NewProject) (storage.Project, error) {
	if err := s.ready(ctx); err != nil {
		return storage.Project{}, err
	}
	if !storage.RequiredText(input.Name) {
		return storage.Project{}, fmt.Errorf("project name is required")
	}
	createdAt := s.now().UTC().Truncate(time.Millisecond)
	description := storage.NullableText(input.Description)

	result, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO projects (name, description, created_at) VALUES (?, ?, ?)`,
		input.Name,
		description,
		toMillis(createdAt),
	)
	if err != nil {
		return storage.Project{}, fmt.Errorf("create project: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return storage.Project{}, fmt.Errorf("create project id: %w", err)
	}
	return storage.Project{ID: id, Name: input.Name, Description: description, CreatedAt: createdAt}, nil
}

// ListProjects returns one page of projects in id order.
func (s *Store) ListProjects(ctx context.Context, page storage.Page) ([]storage.Project, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	page = page.Normalize()

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, name, description, created_at
		   FROM projects
		  ORDER BY id
		  LIMIT ? OFFSET ?`,
		page.Limit,
		page.Skip,
	)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	projects := make([]storage.Project, 0)
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, project)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate projects: %w", err)
	}
	return projects, nil
}

// GetProject returns one project with its tasks.
func (s *Store) GetProject(ctx context.Context, id int64) (storage.Project, error) {
	if err := s.ready(ctx); err != nil {
		return storage.Project{}, err
	}
	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, name, description, created_at FROM projects WHERE id = ?`,
		id,
	)
	project, err := scanProject(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Project{}, storage.ErrNotFound
		}
		return storage.Project{}, fmt.Errorf("get project: %w", err)
	}

	tasks, err := s.listTasks(ctx, id, storage.Page{Limit: -1})
	if err != nil {
		return storage.Project{}, err
	}
	project.Tasks = tasks
	return project, nil
}

// CreateTask inserts one task for an existing project.
func (s *Store) CreateTask(ctx context.Context, projectID int64, input storage.NewTask) (storage.Task, error) {
	if err := s.ready(ctx); err != nil {
		return storage.Task{}, err
	}
	if !storage.RequiredText(input.Title) {
		return storage.Task{}, fmt.Errorf("task title is required")
	}
	if err := s.projectExists(ctx, projectID); err != nil {
		return storage.Task{}, err
	}
	createdAt := s.now().UTC().Truncate(time.Millisecond)
	notes := storage.NullableText(input.Notes)

	result, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO tasks (project_id, title, notes, created_at) VALUES (?, ?, ?, ?)`,
		projectID,
		input.Title,
		notes,
		toMillis(createdAt),
	)
	if err != nil {
		return storage.Task{}, fmt.Errorf("create task: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return storage.Task{}, fmt.Errorf("create task id: %w", err)
	}
	return storage.Task{ID: id, ProjectID: projectID, Title: input.Title, Notes: notes, CreatedAt: createdAt}, nil
}

// ListTasks returns one page of a project's tasks in id order.
func (s *Store) ListTasks(ctx context.Context, projectID int64, page storage.Page) ([]storage.Task, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	if err := s.projectExists(ctx, projectID); err != nil {
		return nil, err
	}
	return s.listTasks(ctx, projectID, page.Normalize())
}

// listTasks reads tasks without a limit when page.Limit is negative.
func (s *Store) listTasks(ctx context.Context, projectID int64, page storage.Page) ([]storage.Task, error) {
	if page.Skip < 0 {
		page.Skip = 0
	}
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, project_id, title, notes, created_at
		   FROM tasks
		  WHERE project_id = ?
		  ORDER BY id
		  LIMIT ? OFFSET ?`,
		projectID,
		page.Limit,
		page.Skip,
	)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]storage.Task, 0)
	for rows.Next() {
		var task storage.Task
		var notes sql.NullString
		var createdAt int64
		if err := rows.Scan(&task.ID, &task.ProjectID, &task.Title, &notes, &createdAt); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		task.Notes = nullStringPtr(notes)
		task.CreatedAt = fromMillis(createdAt)
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}
	return tasks, nil
}

func (s *Store) projectExists(ctx context.Context, projectID int64) error {
	var found int64
	err := s.sqlDB.QueryRowContext(ctx, `SELECT id FROM projects WHERE id = ?`, projectID).Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("check project: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (storage.Project, error) {
	var project storage.Project
	var description sql.NullString
	var createdAt int64
	if err := row.Scan(&project.ID, &project.Name, &description, &createdAt); err != nil {
		return storage.Project{}, err
	}
	project.Description = nullStringPtr(description)
	project.CreatedAt = fromMillis(createdAt)
	return project, nil
}

func nullStringPtr(value sql.NullString) *string {
	if !value.Valid {
		return nil
	}
	text := value.String
	return &text
}
