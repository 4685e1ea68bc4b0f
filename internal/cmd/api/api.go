// Package api parses projects API flags and launches the service.
package api

import (
	"context"
	"flag"
	"log"

	entrypoint "github.com/geodev/geodev/internal/platform/cmd"
	"github.com/geodev/geodev/internal/platform/config"
	server "github.com/geodev/geodev/internal/services/api/app"
	"github.com/geodev/geodev/internal/services/api/storage/graph"
)

// Config holds the API command configuration.
type Config struct {
	HTTPAddr      string `env:"GEODEV_API_HTTP_ADDR" envDefault:"localhost:8000"`
	DBPath        string `env:"GEODEV_API_DB_PATH" envDefault:"data/geodev.db"`
	Neo4jURI      string `env:"GEODEV_API_NEO4J_URI"`
	Neo4jUser     string `env:"GEODEV_API_NEO4J_USER" envDefault:"neo4j"`
	Neo4jPassword string `env:"GEODEV_API_NEO4J_PASSWORD"`
	CORSOrigins   string `env:"GEODEV_API_CORS_ORIGINS" envDefault:"http://localhost:5173,http://localhost:3000"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP listen address")
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "SQLite database path")
	fs.StringVar(&cfg.Neo4jURI, "neo4j-uri", cfg.Neo4jURI, "Neo4j URI (empty uses SQLite only)")
	fs.StringVar(&cfg.Neo4jUser, "neo4j-user", cfg.Neo4jUser, "Neo4j user")
	fs.StringVar(&cfg.Neo4jPassword, "neo4j-password", cfg.Neo4jPassword, "Neo4j password")
	fs.StringVar(&cfg.CORSOrigins, "cors-origins", cfg.CORSOrigins, "Comma-separated browser origins allowed by CORS")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (cfg Config) serverConfig() server.Config {
	return server.Config{
		HTTPAddr: cfg.HTTPAddr,
		DBPath:   cfg.DBPath,
		Neo4j: graph.Config{
			URI:      cfg.Neo4jURI,
			User:     cfg.Neo4jUser,
			Password: cfg.Neo4jPassword,
		},
		CORSOrigins: config.SplitList(cfg.CORSOrigins),
		Logger:      log.Default(),
	}
}

// Run starts the projects API service.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceAPI, func(ctx context.Context) error {
		return server.Run(ctx, cfg.serverConfig())
	})
}
