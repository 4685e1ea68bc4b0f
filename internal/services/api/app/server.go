// Package app wires the projects API storage and HTTP lifecycle.
package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"strings"

	"github.com/geodev/geodev/internal/platform/observability"
	"github.com/geodev/geodev/internal/platform/timeouts"
	"github.com/geodev/geodev/internal/services/api/httpapi"
	"github.com/geodev/geodev/internal/services/api/storage"
	"github.com/geodev/geodev/internal/services/api/storage/graph"
	"github.com/geodev/geodev/internal/services/api/storage/sqlite"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// Config defines the inputs for the API server.
type Config struct {
	HTTPAddr       string
	DBPath         string
	Neo4j          graph.Config
	CORSOrigins    []string
	Logger         *log.Logger
	TracerProvider trace.TracerProvider
	Propagator     propagation.TextMapPropagator
}

// Server hosts the projects API.
type Server struct {
	listener   net.Listener
	httpServer *http.Server
	store      storage.Store
	logger     *log.Logger
}

// openGraph is replaced in tests.
var openGraph = func(ctx context.Context, cfg graph.Config) (storage.Store, error) {
	return graph.Open(ctx, cfg)
}

// OpenStore opens Neo4j when a URI is configured and falls back to SQLite
// at dbPath when Neo4j is absent or unreachable.
func OpenStore(ctx context.Context, cfg Config) (storage.Store, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	if strings.TrimSpace(cfg.Neo4j.URI) != "" {
		logger.Printf("storage connecting backend=neo4j uri=%s", cfg.Neo4j.URI)
		store, err := openGraph(ctx, cfg.Neo4j)
		if err == nil {
			logger.Printf("storage ready backend=neo4j")
			return store, nil
		}
		logger.Printf("storage fallback backend=sqlite reason=%q", err.Error())
	}
	store, err := sqlite.Open(ctx, cfg.DBPath)
	if err != nil {
		return nil, err
	}
	logger.Printf("storage ready backend=sqlite path=%s", cfg.DBPath)
	return store, nil
}

// NewHandler wraps the API router with CORS, access logging, and tracing.
func NewHandler(store storage.Store, cfg Config) http.Handler {
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
	var handler http.Handler = httpapi.NewRouter(store, logger)
	handler = observability.Tracing(provider, propagator)(handler)
	handler = observability.RequestLogger(logger)(handler)
	return httpapi.CORS(cfg.CORSOrigins)(handler)
}

// New opens storage and binds the listener.
func New(ctx context.Context, cfg Config) (*Server, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}
	addr := strings.TrimSpace(cfg.HTTPAddr)
	if addr == "" {
		return nil, errors.New("http address is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	cfg.Logger = logger

	store, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}
	return &Server{
		listener: listener,
		httpServer: &http.Server{
			Handler:           NewHandler(store, cfg),
			ReadHeaderTimeout: timeouts.ReadHeader,
		},
		store:  store,
		logger: logger,
	}, nil
}

// Addr returns the listener address for the server.
func (s *Server) Addr() string {
	if s == nil || s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Serve runs the HTTP server until context cancellation, then drains
// in-flight requests within timeouts.Shutdown.
func (s *Server) Serve(ctx context.Context) error {
	if s == nil {
		return errors.New("server is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	defer s.Close()

	s.logger.Printf("api listening at %s", s.Addr())
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.httpServer.Serve(s.listener)
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

// Close releases the store.
func (s *Server) Close() {
	if s == nil || s.store == nil {
		return
	}
	if err := s.store.Close(); err != nil {
		s.logger.Printf("close store: %v", err)
	}
	s.store = nil
}

// Run creates and serves an API server until context cancellation.
func Run(ctx context.Context, cfg Config) error {
	server, err := New(ctx, cfg)
	if err != nil {
		return err
	}
	return server.Serve(ctx)
}
