// Package modules composes the web feature modules.
package modules

import (
	module "github.com/geodev/geodev/internal/services/web/module"
	"github.com/geodev/geodev/internal/services/web/modules/projects"
	"github.com/geodev/geodev/internal/services/web/platform/modulehandler"
	"github.com/geodev/geodev/internal/services/web/query"
)

// Module aliases the module interface contract.
type Module = module.Module

// Dependencies carries the collaborators shared by the composed modules.
// Gateways are built by the server so modules never construct backend clients.
type Dependencies struct {
	ProjectsGateway projects.Gateway
	Queries         *query.Client
	Base            modulehandler.Base
}
