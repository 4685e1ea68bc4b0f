package app

import (
	"net/http"
)

// BuildRootHandler mounts the configured modules on root.
func BuildRootHandler(cfg Config, root *http.ServeMux) (http.Handler, error) {
	return Compose(ComposeInput{Modules: cfg.Modules, Root: root})
}
