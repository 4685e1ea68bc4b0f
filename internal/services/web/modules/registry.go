package modules

import "github.com/geodev/geodev/internal/services/web/modules/projects"

// Default returns the web modules served by the root handler.
func Default(deps Dependencies) []Module {
	return []Module{
		projects.New(deps.ProjectsGateway, deps.Queries, deps.Base),
	}
}
