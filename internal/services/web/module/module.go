// Package module defines the contract between page modules and the web
// server's root mux.
package module

import "net/http"

// Mount is the path prefix a module owns and the handler serving it.
type Mount struct {
	Prefix  string
	Handler http.Handler
}

// Module is a self-contained group of pages mounted under one prefix.
type Module interface {
	ID() string
	Mount() (Mount, error)
}

// HealthReporter is implemented by modules whose pages depend on a backend
// gateway; /up reports degraded when any of them is unhealthy.
type HealthReporter interface {
	Healthy() bool
}
