// Package web parses web service flags and launches the browser-facing server.
package web

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	entrypoint "github.com/geodev/geodev/internal/platform/cmd"
	"github.com/geodev/geodev/internal/services/web"
)

// Config holds the web command configuration.
type Config struct {
	HTTPAddr       string        `env:"GEODEV_WEB_HTTP_ADDR" envDefault:"localhost:5173"`
	APIBaseURL     string        `env:"GEODEV_WEB_API_BASE_URL" envDefault:"http://localhost:8000"`
	CacheDBPath    string        `env:"GEODEV_WEB_CACHE_DB_PATH"`
	CacheStaleTime time.Duration `env:"GEODEV_WEB_CACHE_STALE_TIME" envDefault:"30s"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP listen address")
	fs.StringVar(&cfg.APIBaseURL, "api-base-url", cfg.APIBaseURL, "Projects API base URL")
	fs.StringVar(&cfg.CacheDBPath, "cache-db-path", cfg.CacheDBPath, "SQLite path for the query cache (empty keeps it in memory)")
	fs.DurationVar(&cfg.CacheStaleTime, "cache-stale-time", cfg.CacheStaleTime, "How long fetched pages stay fresh")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the web server.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceWeb, func(ctx context.Context) error {
		server, err := web.NewServer(ctx, web.Config{
			HTTPAddr:       cfg.HTTPAddr,
			APIBaseURL:     cfg.APIBaseURL,
			CacheDBPath:    cfg.CacheDBPath,
			CacheStaleTime: cfg.CacheStaleTime,
			Logger:         log.Default(),
		})
		if err != nil {
			return fmt.Errorf("init web server: %w", err)
		}
		defer server.Close()

		if err := server.ListenAndServe(ctx); err != nil {
			return fmt.Errorf("serve web: %w", err)
		}
		return nil
	})
}
