package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/geodev/geodev/internal/services/api/storage"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(context.Background(), filepath.Join(t.TempDir(), "geodev.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	store.now = func() time.Time { return time.Date(2025, time.March, 4, 10, 30, 0, 0, time.UTC) }
	return store
}

func text(value string) *string { return &value }

func TestOpenRequiresPath(t *testing.T) {
	t.Parallel()

	if _, err := Open(context.Background(), "  "); err == nil {
		t.Fatal("expected error for blank path")
	}
}

func TestProjectRoundTrip(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	ctx := context.Background()

	first, err := store.CreateProject(ctx, storage.NewProject{Name: "Tower A"})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	second, err := store.CreateProject(ctx, storage.NewProject{Name: "Tower B", Description: text("Phase 2")})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	if first.ID != 1 || second.ID != 2 {
		t.Fatalf("ids = %d, %d, want 1, 2", first.ID, second.ID)
	}
	if first.Description != nil {
		t.Fatalf("description = %v, want nil", *first.Description)
	}

	projects, err := store.ListProjects(ctx, storage.Page{})
	if err != nil {
		t.Fatalf("list projects: %v", err)
	}
	if len(projects) != 2 || projects[0].Name != "Tower A" || projects[1].Name != "Tower B" {
		t.Fatalf("projects = %+v", projects)
	}
	if projects[1].Description == nil || *projects[1].Description != "Phase 2" {
		t.Fatalf("description = %v, want Phase 2", projects[1].Description)
	}
	if !projects[0].CreatedAt.Equal(time.Date(2025, time.March, 4, 10, 30, 0, 0, time.UTC)) {
		t.Fatalf("created_at = %v", projects[0].CreatedAt)
	}

	paged, err := store.ListProjects(ctx, storage.Page{Skip: 1, Limit: 5})
	if err != nil {
		t.Fatalf("list projects page: %v", err)
	}
	if len(paged) != 1 || paged[0].ID != 2 {
		t.Fatalf("paged = %+v", paged)
	}
}

func TestGetProjectIncludesTasksInOrder(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	ctx := context.Background()
	project, err := store.CreateProject(ctx, storage.NewProject{Name: "Residential Complex Phase 1"})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	for _, title := range []string{"Zoning Approval", "Foundation Work"} {
		if _, err := store.CreateTask(ctx, project.ID, storage.NewTask{Title: title}); err != nil {
			t.Fatalf("create task %q: %v", title, err)
		}
	}

	got, err := store.GetProject(ctx, project.ID)
	if err != nil {
		t.Fatalf("get project: %v", err)
	}
	if len(got.Tasks) != 2 || got.Tasks[0].Title != "Zoning Approval" || got.Tasks[1].Title != "Foundation Work" {
		t.Fatalf("tasks = %+v", got.Tasks)
	}
	if got.Tasks[0].ProjectID != project.ID || got.Tasks[0].Notes != nil {
		t.Fatalf("task = %+v", got.Tasks[0])
	}

	tasks, err := store.ListTasks(ctx, project.ID, storage.Page{Skip: 1})
	if err != nil {
		t.Fatalf("list tasks: %v", err)
	}
	if len(tasks) != 1 || tasks[0].Title != "Foundation Work" {
		t.Fatalf("tasks page = %+v", tasks)
	}
}

func TestMissingProjectReturnsNotFound(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	ctx := context.Background()
	if _, err := store.GetProject(ctx, 42); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("get project err = %v, want ErrNotFound", err)
	}
	if _, err := store.CreateTask(ctx, 42, storage.NewTask{Title: "x"}); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("create task err = %v, want ErrNotFound", err)
	}
	if _, err := store.ListTasks(ctx, 42, storage.Page{}); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("list tasks err = %v, want ErrNotFound", err)
	}
}

func TestCreateRejectsBlankRequiredText(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	ctx := context.Background()
	if _, err := store.CreateProject(ctx, storage.NewProject{Name: " "}); err == nil {
		t.Fatal("expected blank name error")
	}
	project, err := store.CreateProject(ctx, storage.NewProject{Name: "P"})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	if _, err := store.CreateTask(ctx, project.ID, storage.NewTask{Title: ""}); err == nil {
		t.Fatal("expected blank title error")
	}
}

func TestReopenKeepsData(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "geodev.db")
	ctx := context.Background()
	store, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if _, err := store.CreateProject(ctx, storage.NewProject{Name: "Tower A"}); err != nil {
		t.Fatalf("create project: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close store: %v", err)
	}

	reopened, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	defer reopened.Close()
	projects, err := reopened.ListProjects(ctx, storage.Page{})
	if err != nil {
		t.Fatalf("list projects: %v", err)
	}
	if len(projects) != 1 {
		t.Fatalf("projects = %d, want 1", len(projects))
	}
}
