// Package graph provides a Neo4j-backed project storage implementation.
//
// Projects and tasks are nodes joined by (:Project)-[:HAS_TASK]->(:Task).
// Integer ids come from per-label (:Counter) nodes so the REST surface keeps
// the numeric ids the SQLite store hands out.
package graph

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/geodev/geodev/internal/platform/timeouts"
	"github.com/geodev/geodev/internal/services/api/storage"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Config selects the Neo4j server.
type Config struct {
	URI      string
	User     string
	Password string
	Database string
}

// Store persists projects and tasks in Neo4j.
type Store struct {
	driver   neo4j.DriverWithContext
	database string
	now      func() time.Time
}

var _ storage.Store = (*Store)(nil)

var schemaStatements = []string{
	"CREATE CONSTRAINT project_id IF NOT EXISTS FOR (p:Project) REQUIRE p.id IS UNIQUE",
	"CREATE CONSTRAINT task_id IF NOT EXISTS FOR (t:Task) REQUIRE t.id IS UNIQUE",
	"CREATE CONSTRAINT counter_name IF NOT EXISTS FOR (c:Counter) REQUIRE c.name IS UNIQUE",
}

// Open connects to Neo4j, verifies connectivity within timeouts.Neo4jConnect,
// and ensures the schema constraints exist.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	uri := strings.TrimSpace(cfg.URI)
	if uri == "" {
		return nil, errors.New("neo4j uri is required")
	}
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(cfg.User, cfg.Password, ""))
	if err != nil {
		return nil, fmt.Errorf("create neo4j driver: %w", err)
	}

	probeCtx, cancel := context.WithTimeout(ctx, timeouts.Neo4jConnect)
	defer cancel()
	if err := driver.VerifyConnectivity(probeCtx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("verify neo4j connectivity: %w", err)
	}

	store := &Store{driver: driver, database: strings.TrimSpace(cfg.Database), now: time.Now}
	if err := store.ensureSchema(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, err
	}
	return store, nil
}

// Backend names this store.
func (s *Store) Backend() string { return "neo4j" }

// Close releases the driver.
func (s *Store) Close() error {
	if s == nil || s.driver == nil {
		return nil
	}
	return s.driver.Close(context.Background())
}

func (s *Store) session(ctx context.Context, mode neo4j.AccessMode) neo4j.SessionWithContext {
	return s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: mode, DatabaseName: s.database})
}

func (s *Store) ensureSchema(ctx context.Context) error {
	session := s.session(ctx, neo4j.AccessModeWrite)
	defer session.Close(ctx)

	for _, statement := range schemaStatements {
		result, err := session.Run(ctx, statement, nil)
		if err != nil {
			return fmt.Errorf("apply neo4j schema: %w", err)
		}
		if _, err := result.Consume(ctx); err != nil {
			return fmt.Errorf("apply neo4j schema: %w", err)
		}
	}
	return nil
}

const nextIDClause = "MERGE (c:Counter {name: $counter}) " +
	"ON CREATE SET c.value = 0 " +
	"SET c.value = c.value + 1 " +
	"WITH c.value AS nextID "

// CreateProject inserts one project node.
func (s *Store) CreateProject(ctx context.Context, input storage.NewProject) (storage.Project, error) {
	if !storage.RequiredText(input.Name) {
		return storage.Project{}, fmt.Errorf("project name is required")
	}
	createdAt := s.now().UTC().Truncate(time.Millisecond)
	description := storage.NullableText(input.Description)

	session := s.session(ctx, neo4j.AccessModeWrite)
	defer session.Close(ctx)

	result, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx,
			nextIDClause+
				"CREATE (p:Project {id: nextID, name: $name, description: $description, created_at: $createdAt}) "+
				"RETURN p.id AS id, p.name AS name, p.description AS description, p.created_at AS created_at",
			map[string]any{
				"counter":     "project",
				"name":        input.Name,
				"description": optionalParam(description),
				"createdAt":   createdAt.UnixMilli(),
			},
		)
		if err != nil {
			return nil, err
		}
		record, err := res.Single(ctx)
		if err != nil {
			return nil, err
		}
		return projectFromRecord(record)
	})
	if err != nil {
		return storage.Project{}, fmt.Errorf("create project: %w", err)
	}
	return result.(storage.Project), nil
}

// ListProjects returns one page of projects in id order.
func (s *Store) ListProjects(ctx context.Context, page storage.Page) ([]storage.Project, error) {
	page = page.Normalize()
	session := s.session(ctx, neo4j.AccessModeRead)
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx,
			"MATCH (p:Project) "+
				"RETURN p.id AS id, p.name AS name, p.description AS description, p.created_at AS created_at "+
				"ORDER BY p.id SKIP $skip LIMIT $limit",
			map[string]any{"skip": int64(page.Skip), "limit": int64(page.Limit)},
		)
		if err != nil {
			return nil, err
		}
		projects := make([]storage.Project, 0)
		for res.Next(ctx) {
			project, err := projectFromRecord(res.Record())
			if err != nil {
				return nil, err
			}
			projects = append(projects, project)
		}
		if err := res.Err(); err != nil {
			return nil, err
		}
		return projects, nil
	})
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return result.([]storage.Project), nil
}

// GetProject returns one project with its tasks.
func (s *Store) GetProject(ctx context.Context, id int64) (storage.Project, error) {
	session := s.session(ctx, neo4j.AccessModeRead)
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx,
			"MATCH (p:Project {id: $id}) "+
				"RETURN p.id AS id, p.name AS name, p.description AS description, p.created_at AS created_at",
			map[string]any{"id": id},
		)
		if err != nil {
			return nil, err
		}
		if !res.Next(ctx) {
			if err := res.Err(); err != nil {
				return nil, err
			}
			return nil, storage.ErrNotFound
		}
		project, err := projectFromRecord(res.Record())
		if err != nil {
			return nil, err
		}
		tasks, err := readTasks(ctx, tx, id, storage.Page{Limit: -1})
		if err != nil {
			return nil, err
		}
		project.Tasks = tasks
		return project, nil
	})
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return storage.Project{}, storage.ErrNotFound
		}
		return storage.Project{}, fmt.Errorf("get project: %w", err)
	}
	return result.(storage.Project), nil
}

// CreateTask inserts one task node linked to its project.
func (s *Store) CreateTask(ctx context.Context, projectID int64, input storage.NewTask) (storage.Task, error) {
	if !storage.RequiredText(input.Title) {
		return storage.Task{}, fmt.Errorf("task title is required")
	}
	createdAt := s.now().UTC().Truncate(time.Millisecond)
	notes := storage.NullableText(input.Notes)

	session := s.session(ctx, neo4j.AccessModeWrite)
	defer session.Close(ctx)

	result, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		if err := projectExists(ctx, tx, projectID); err != nil {
			return nil, err
		}
		res, err := tx.Run(ctx,
			"MATCH (p:Project {id: $projectID}) "+
				"WITH p "+
				nextIDClause+", p "+
				"CREATE (p)-[:HAS_TASK]->(t:Task {id: nextID, project_id: p.id, title: $title, notes: $notes, created_at: $createdAt}) "+
				"RETURN t.id AS id, t.project_id AS project_id, t.title AS title, t.notes AS notes, t.created_at AS created_at",
			map[string]any{
				"projectID": projectID,
				"counter":   "task",
				"title":     input.Title,
				"notes":     optionalParam(notes),
				"createdAt": createdAt.UnixMilli(),
			},
		)
		if err != nil {
			return nil, err
		}
		record, err := res.Single(ctx)
		if err != nil {
			return nil, err
		}
		return taskFromRecord(record)
	})
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return storage.Task{}, storage.ErrNotFound
		}
		return storage.Task{}, fmt.Errorf("create task: %w", err)
	}
	return result.(storage.Task), nil
}

// ListTasks returns one page of a project's tasks in id order.
func (s *Store) ListTasks(ctx context.Context, projectID int64, page storage.Page) ([]storage.Task, error) {
	page = page.Normalize()
	session := s.session(ctx, neo4j.AccessModeRead)
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		if err := projectExists(ctx, tx, projectID); err != nil {
			return nil, err
		}
		return readTasks(ctx, tx, projectID, page)
	})
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return result.([]storage.Task), nil
}

func projectExists(ctx context.Context, tx neo4j.ManagedTransaction, projectID int64) error {
	res, err := tx.Run(ctx, "MATCH (p:Project {id: $id}) RETURN count(p) AS found", map[string]any{"id": projectID})
	if err != nil {
		return err
	}
	record, err := res.Single(ctx)
	if err != nil {
		return err
	}
	found, err := int64Value(record, "found")
	if err != nil {
		return err
	}
	if found == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// readTasks reads without a limit when page.Limit is negative.
func readTasks(ctx context.Context, tx neo4j.ManagedTransaction, projectID int64, page storage.Page) ([]storage.Task, error) {
	query := "MATCH (:Project {id: $projectID})-[:HAS_TASK]->(t:Task) " +
		"RETURN t.id AS id, t.project_id AS project_id, t.title AS title, t.notes AS notes, t.created_at AS created_at " +
		"ORDER BY t.id SKIP $skip"
	params := map[string]any{"projectID": projectID, "skip": int64(max(page.Skip, 0))}
	if page.Limit >= 0 {
		query += " LIMIT $limit"
		params["limit"] = int64(page.Limit)
	}
	res, err := tx.Run(ctx, query, params)
	if err != nil {
		return nil, err
	}
	tasks := make([]storage.Task, 0)
	for res.Next(ctx) {
		task, err := taskFromRecord(res.Record())
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	if err := res.Err(); err != nil {
		return nil, err
	}
	return tasks, nil
}

func optionalParam(value *string) any {
	if value == nil {
		return nil
	}
	return *value
}

func projectFromRecord(record *neo4j.Record) (storage.Project, error) {
	id, err := int64Value(record, "id")
	if err != nil {
		return storage.Project{}, err
	}
	name, err := stringValue(record, "name")
	if err != nil {
		return storage.Project{}, err
	}
	description, err := optionalStringValue(record, "description")
	if err != nil {
		return storage.Project{}, err
	}
	createdAt, err := int64Value(record, "created_at")
	if err != nil {
		return storage.Project{}, err
	}
	return storage.Project{
		ID:          id,
		Name:        name,
		Description: description,
		CreatedAt:   time.UnixMilli(createdAt).UTC(),
	}, nil
}

func taskFromRecord(record *neo4j.Record) (storage.Task, error) {
	id, err := int64Value(record, "id")
	if err != nil {
		return storage.Task{}, err
	}
	projectID, err := int64Value(record, "project_id")
	if err != nil {
		return storage.Task{}, err
	}
	title, err := stringValue(record, "title")
	if err != nil {
		return storage.Task{}, err
	}
	notes, err := optionalStringValue(record, "notes")
	if err != nil {
		return storage.Task{}, err
	}
	createdAt, err := int64Value(record, "created_at")
	if err != nil {
		return storage.Task{}, err
	}
	return storage.Task{
		ID:        id,
		ProjectID: projectID,
		Title:     title,
		Notes:     notes,
		CreatedAt: time.UnixMilli(createdAt).UTC(),
	}, nil
}

func int64Value(record *neo4j.Record, key string) (int64, error) {
	raw, ok := record.Get(key)
	if !ok {
		return 0, fmt.Errorf("record missing %q", key)
	}
	value, ok := raw.(int64)
	if !ok {
		return 0, fmt.Errorf("record %q is %T, want int64", key, raw)
	}
	return value, nil
}

func stringValue(record *neo4j.Record, key string) (string, error) {
	raw, ok := record.Get(key)
	if !ok {
		return "", fmt.Errorf("record missing %q", key)
	}
	value, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("record %q is %T, want string", key, raw)
	}
	return value, nil
}

func optionalStringValue(record *neo4j.Record, key string) (*string, error) {
	raw, ok := record.Get(key)
	if !ok {
		return nil, fmt.Errorf("record missing %q", key)
	}
	if raw == nil {
		return nil, nil
	}
	value, ok := raw.(string)
	if !ok {
		return nil, fmt.Errorf("record %q is %T, want string", key, raw)
	}
	return &value, nil
}
