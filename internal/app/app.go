// Package app initializes and orchestrates the main components of the
// Review-Mate application. It wires together the configuration, the AI
// reviewer, the GitHub integration, and the HTTP server.
package app

import (
	"context"
	"log/slog"

	"github.com/sevigo/review-mate/internal/config"
	"github.com/sevigo/review-mate/internal/server"
)

// App holds the main application components.
type App struct {
	ctx    context.Context
	cfg    *config.Config
	server *server.Server
	logger *slog.Logger
}

// NewApp sets up the application with its dependencies.
func NewApp(ctx context.Context, cfg *config.Config, srv *server.Server, logger *slog.Logger) *App {
	return &App{
		ctx:    ctx,
		cfg:    cfg,
		server: srv,
		logger: logger,
	}
}

// Start runs the HTTP server and blocks until shutdown.
func (a *App) Start() error {
	a.logger.Info("starting Review-Mate",
		"server_port", a.cfg.ServerPort,
		"env", a.cfg.Env,
		"llm_provider", a.cfg.LLMProvider,
		"github_oauth_configured", a.cfg.OAuthConfigured())

	if err := a.server.Start(); err != nil {
		a.logger.Error("failed to start HTTP server", "error", err)
		return err
	}
	return nil
}

// Stop shuts down the application cleanly.
func (a *App) Stop() error {
	a.logger.Info("shutting down Review-Mate services")

	if err := a.server.Stop(); err != nil {
		a.logger.Error("error during HTTP server shutdown", "error", err)
		return err
	}

	a.logger.Info("Review-Mate stopped successfully")
	return nil
}
