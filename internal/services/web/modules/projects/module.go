// Package projects serves the project list and project detail pages.
package projects

import (
	"net/http"

	"github.com/geodev/geodev/internal/services/web/module"
	"github.com/geodev/geodev/internal/services/web/platform/modulehandler"
	"github.com/geodev/geodev/internal/services/web/query"
	"github.com/geodev/geodev/internal/services/web/routepath"
)

// Module provides the project and task routes.
type Module struct {
	gateway Gateway
	queries *query.Client
	base    modulehandler.Base
}

// New returns a projects module reading through gateway and caching in queries.
// A nil gateway yields a degraded module whose pages render error states.
func New(gateway Gateway, queries *query.Client, base modulehandler.Base) Module {
	return Module{gateway: gateway, queries: queries, base: base}
}

// ID returns a stable module identifier.
func (Module) ID() string { return "projects" }

// Healthy reports whether the module has an operational gateway.
func (m Module) Healthy() bool {
	if m.gateway == nil {
		return false
	}
	_, unavailable := m.gateway.(unavailableGateway)
	return !unavailable
}

// Mount wires project route handlers.
func (m Module) Mount() (module.Mount, error) {
	gateway := m.gateway
	if gateway == nil {
		gateway = unavailableGateway{}
	}
	queries := m.queries
	if queries == nil {
		queries = query.New()
	}
	mux := http.NewServeMux()
	registerRoutes(mux, newHandlers(newService(gateway, queries), m.base))
	return module.Mount{Prefix: routepath.Root, Handler: mux}, nil
}
