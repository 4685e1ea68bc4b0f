package web

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/geodev/geodev/internal/platform/observability"
	"github.com/geodev/geodev/internal/platform/timeouts"
	"github.com/geodev/geodev/internal/services/web/api"
	"github.com/geodev/geodev/internal/services/web/app"
	"github.com/geodev/geodev/internal/services/web/modules"
	"github.com/geodev/geodev/internal/services/web/modules/projects"
	"github.com/geodev/geodev/internal/services/web/platform/httpx"
	"github.com/geodev/geodev/internal/services/web/platform/modulehandler"
	"github.com/geodev/geodev/internal/services/web/query"
	"github.com/geodev/geodev/internal/services/web/routepath"
	"github.com/geodev/geodev/internal/services/web/static"
	webstorage "github.com/geodev/geodev/internal/services/web/storage"
	websqlite "github.com/geodev/geodev/internal/services/web/storage/sqlite"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// Config defines the inputs for the web server.
type Config struct {
	HTTPAddr       string
	APIBaseURL     string
	CacheDBPath    string
	CacheStaleTime time.Duration
	Logger         *log.Logger
	TracerProvider trace.TracerProvider
	Propagator     propagation.TextMapPropagator
}

// HandlerConfig carries the collaborators of the root handler.
type HandlerConfig struct {
	Gateway        projects.Gateway
	Queries        *query.Client
	Logger         *log.Logger
	TracerProvider trace.TracerProvider
	Propagator     propagation.TextMapPropagator
}

// Server hosts the web HTTP server.
type Server struct {
	httpAddr   string
	httpServer *http.Server
	cacheStore webstorage.Store
	logger     *log.Logger
}

// NewHandler builds the root handler: static assets, health, and the
// composed page modules behind the shared middleware chain.
func NewHandler(cfg HandlerConfig) (http.Handler, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	provider := cfg.TracerProvider
	if provider == nil {
		provider = otel.GetTracerProvider()
	}
	propagator := cfg.Propagator
	if propagator == nil {
		propagator = otel.GetTextMapPropagator()
	}
	queries := cfg.Queries
	if queries == nil {
		queries = query.New(query.WithLogger(logger))
	}

	mounted := modules.Default(modules.Dependencies{
		ProjectsGateway: cfg.Gateway,
		Queries:         queries,
		Base:            modulehandler.NewBase(logger),
	})

	root := http.NewServeMux()
	root.Handle("GET "+routepath.StaticPrefix, http.StripPrefix(routepath.StaticPrefix, http.FileServer(http.FS(static.FS))))
	root.HandleFunc("GET "+routepath.Health, func(w http.ResponseWriter, _ *http.Request) {
		status := http.StatusOK
		body := "ok"
		if !app.Healthy(mounted) {
			status = http.StatusServiceUnavailable
			body = "degraded"
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	})

	handler, err := app.BuildRootHandler(app.Config{Modules: mounted}, root)
	if err != nil {
		return nil, fmt.Errorf("compose modules: %w", err)
	}
	return httpx.Chain(handler,
		httpx.RequestID("web-"),
		httpx.RecoverPanic(logger),
		observability.RequestLogger(logger),
		observability.Tracing(provider, propagator),
	), nil
}

// NewServer builds a configured web server.
func NewServer(ctx context.Context, config Config) (*Server, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}
	httpAddr := strings.TrimSpace(config.HTTPAddr)
	if httpAddr == "" {
		return nil, errors.New("http address is required")
	}
	logger := config.Logger
	if logger == nil {
		logger = log.Default()
	}

	client, err := api.NewClient(config.APIBaseURL,
		api.WithTracerProvider(config.TracerProvider),
		api.WithPropagator(config.Propagator),
	)
	if err != nil {
		return nil, err
	}

	queryOpts := []query.Option{query.WithLogger(logger)}
	if config.CacheStaleTime > 0 {
		queryOpts = append(queryOpts, query.WithStaleTime(config.CacheStaleTime))
	}
	var cacheStore webstorage.Store
	if path := strings.TrimSpace(config.CacheDBPath); path != "" {
		store, err := websqlite.Open(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("open web cache store: %w", err)
		}
		cacheStore = store
		queryOpts = append(queryOpts, query.WithStore(store))
	}

	handler, err := NewHandler(HandlerConfig{
		Gateway:        projects.NewAPIGateway(client),
		Queries:        query.New(queryOpts...),
		Logger:         logger,
		TracerProvider: config.TracerProvider,
		Propagator:     config.Propagator,
	})
	if err != nil {
		if cacheStore != nil {
			_ = cacheStore.Close()
		}
		return nil, fmt.Errorf("build handler: %w", err)
	}

	return &Server{
		httpAddr: httpAddr,
		httpServer: &http.Server{
			Addr:              httpAddr,
			Handler:           handler,
			ReadHeaderTimeout: timeouts.ReadHeader,
		},
		cacheStore: cacheStore,
		logger:     logger,
	}, nil
}

// ListenAndServe runs the HTTP server until the context ends.
//
// On cancellation, it performs a bounded shutdown so in-flight requests
// are drained before hard close.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil {
		return errors.New("web server is nil")
	}
	if ctx == nil {
		return errors.New("context is required")
	}

	serveErr := make(chan error, 1)
	s.logger.Printf("web listening on %s", s.httpAddr)
	go func() {
		serveErr <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		err := s.httpServer.Shutdown(shutdownCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}
}

// Close releases the cache store.
func (s *Server) Close() {
	if s == nil || s.cacheStore == nil {
		return
	}
	if err := s.cacheStore.Close(); err != nil {
		s.logger.Printf("close web cache store: %v", err)
	}
}
