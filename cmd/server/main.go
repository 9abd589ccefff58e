// Package main is the entry point for the DevDocs API server.
//
// main stays minimal: read config, build the logger, create the data
// directory for the audit database, start the server. Everything else lives
// in internal/server (wiring) and below.
package main

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/sakif/devdocs/internal/config"
	"github.com/sakif/devdocs/internal/server"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("configuration error", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// The audit database lives in a local directory; create it up front so
	// sqlite doesn't fail on first open.
	if dir := filepath.Dir(cfg.Audit.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			logger.Error("failed to create audit database directory",
				slog.String("dir", dir),
				slog.String("error", err.Error()),
			)
			os.Exit(1)
		}
	}

	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start blocks until SIGINT/SIGTERM.
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
