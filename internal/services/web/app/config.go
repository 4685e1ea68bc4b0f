package app

import module "github.com/geodev/geodev/internal/services/web/module"

// Config captures the composition inputs for the web root handler.
type Config struct {
	Modules []module.Module
}
