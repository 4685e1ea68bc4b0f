package modules

import (
	"testing"

	"github.com/geodev/geodev/internal/services/web/module"
	"github.com/geodev/geodev/internal/services/web/modules/projects"
	"github.com/geodev/geodev/internal/services/web/platform/modulehandler"
	"github.com/geodev/geodev/internal/services/web/query"
	"github.com/geodev/geodev/internal/services/web/routepath"
)

func TestDefaultModulesIncludeProjects(t *testing.T) {
	t.Parallel()

	got := Default(Dependencies{Queries: query.New(), Base: modulehandler.NewTestBase()})
	if len(got) != 1 {
		t.Fatalf("module count = %d, want %d", len(got), 1)
	}
	if id := got[0].ID(); id != "projects" {
		t.Fatalf("module[0] id = %q, want %q", id, "projects")
	}
	mount, err := got[0].Mount()
	if err != nil {
		t.Fatalf("Mount() error = %v", err)
	}
	if mount.Prefix != routepath.Root {
		t.Fatalf("prefix = %q, want %q", mount.Prefix, routepath.Root)
	}
}

func TestDefaultModulesReportHealthFromGateway(t *testing.T) {
	t.Parallel()

	degraded := Default(Dependencies{})
	reporter, ok := degraded[0].(module.HealthReporter)
	if !ok {
		t.Fatal("projects module does not report health")
	}
	if reporter.Healthy() {
		t.Fatal("module without gateway reports healthy")
	}

	healthy := Default(Dependencies{ProjectsGateway: projects.NewAPIGateway(nil)})
	if healthy[0].(module.HealthReporter).Healthy() {
		t.Fatal("module with nil api client reports healthy")
	}
}
