// Package main is the entry point for the user-admin console.
//
// main's job is deliberately small: build the logger, load configuration,
// and hand off to internal/server. All actual behaviour lives in the
// imported packages so it can be constructed and tested without a process.
package main

import (
	"log/slog"
	"os"

	"github.com/sakif/user-admin/internal/config"
	"github.com/sakif/user-admin/internal/server"
)

func main() {
	// Bootstrap logger at info; once config is loaded the real level applies.
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start() blocks until the server is shut down (Ctrl+C or SIGTERM).
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
