// Package seed loads the demo project into a running projects API.
package seed

import (
	"context"
	"flag"
	"fmt"
	"io"
	"time"

	entrypoint "github.com/geodev/geodev/internal/platform/cmd"
	"github.com/geodev/geodev/internal/services/web/api"
)

// Config holds the seed command configuration.
type Config struct {
	APIBaseURL string `env:"GEODEV_SEED_API_BASE_URL" envDefault:"http://localhost:8000"`
}

// demoProject is the fixture created by Run.
var demoProject = struct {
	name        string
	description string
	tasks       []api.CreateTaskRequest
}{
	name:        "Residential Complex Phase 1",
	description: "Mixed-use residential development with 120 units and ground-floor retail",
	tasks: []api.CreateTaskRequest{
		{Title: "Zoning Approval", Notes: stringPtr("Submit rezoning application to the city planning department")},
		{Title: "Foundation Work", Notes: stringPtr("Excavation and concrete foundation for towers A and B")},
	},
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.APIBaseURL, "api-base-url", cfg.APIBaseURL, "Projects API base URL")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run creates the demo project unless a project with the same name exists.
func Run(ctx context.Context, cfg Config, out io.Writer) error {
	options := entrypoint.RunOptions{ShutdownTimeout: 2 * time.Second}
	return entrypoint.RunWithTelemetryAndOptions(ctx, entrypoint.ServiceSeed, options, func(ctx context.Context) error {
		client, err := api.NewClient(cfg.APIBaseURL)
		if err != nil {
			return fmt.Errorf("init api client: %w", err)
		}
		return seed(ctx, client, out)
	})
}

func seed(ctx context.Context, client *api.Client, out io.Writer) error {
	existing, err := client.Projects().GetAll(ctx)
	if err != nil {
		return fmt.Errorf("list projects: %w", err)
	}
	for _, project := range existing {
		if project.Name == demoProject.name {
			fmt.Fprintf(out, "project %q already exists (id=%d), skipping\n", project.Name, project.ID)
			return nil
		}
	}

	project, err := client.Projects().Create(ctx, api.CreateProjectRequest{
		Name:        demoProject.name,
		Description: stringPtr(demoProject.description),
	})
	if err != nil {
		return fmt.Errorf("create project: %w", err)
	}
	fmt.Fprintf(out, "created project %q (id=%d)\n", project.Name, project.ID)

	for _, req := range demoProject.tasks {
		task, err := client.Tasks().Create(ctx, project.ID, req)
		if err != nil {
			return fmt.Errorf("create task %q: %w", req.Title, err)
		}
		fmt.Fprintf(out, "  added task %q (id=%d)\n", task.Title, task.ID)
	}
	return nil
}

func stringPtr(value string) *string {
	return &value
}
