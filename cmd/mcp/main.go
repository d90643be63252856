package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/mark3labs/mcp-go/server"

	mcpadapter "github.com/kirillkom/retail-insights/internal/adapters/mcp"
	"github.com/kirillkom/retail-insights/internal/bootstrap"
	"github.com/kirillkom/retail-insights/internal/config"
	"github.com/kirillkom/retail-insights/internal/observability/logging"
)

func main() {
	// stdout carries the MCP stream, so everything else logs to stderr.
	if err := config.LoadDotEnv(); err != nil {
		slog.New(slog.NewJSONHandler(os.Stderr, nil)).Error("dotenv_load_failed", "error", err)
		os.Exit(1)
	}
	cfg := config.Load()
	cfg.MetricsEnabled = false

	logger := logging.NewJSONLoggerTo(os.Stderr, "retail-mcp", cfg.LogLevel)
	slog.SetDefault(logger)

	app, err := bootstrap.New(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("bootstrap_failed", "error", err)
		os.Exit(1)
	}

	logger.Info("mcp_serving_stdio", "validation_source", cfg.ValidationSource)
	if err := server.ServeStdio(mcpadapter.NewServer(app.Dashboard)); err != nil {
		logger.Error("mcp_server_failed", "error", err)
		os.Exit(1)
	}
}
