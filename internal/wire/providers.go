package wire

import (
	"io"
	"log/slog"
	"os"

	"github.com/google/wire"

	"github.com/sevigo/review-mate/internal/app"
	"github.com/sevigo/review-mate/internal/config"
	"github.com/sevigo/review-mate/internal/github"
	"github.com/sevigo/review-mate/internal/llm"
	"github.com/sevigo/review-mate/internal/logger"
	"github.com/sevigo/review-mate/internal/server"
)

// AppSet lists every provider of the application graph.
var AppSet = wire.NewSet(
	app.NewApp,
	server.NewServer,
	config.LoadConfig,
	llm.NewModel,
	llm.NewReviewer,
	github.NewPublisher,
	provideOAuthFlow,
	provideLoggerOptions,
	provideLogWriter,
	logger.New,
)

func provideOAuthFlow(cfg *config.Config, logger *slog.Logger) *github.OAuthFlow {
	return github.NewOAuthFlow(cfg.GitHubClientID, cfg.GitHubClientSecret, cfg.GitHubRedirectURI, logger)
}

func provideLoggerOptions(cfg *config.Config) logger.Options {
	return logger.Options{Level: cfg.LogLevel, Format: cfg.LogFormat}
}

func provideLogWriter() io.Writer {
	return os.Stdout
}
