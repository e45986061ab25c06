// Code generated manually. DO NOT EDIT.

//go:generate go run -mod=mod github.com/google/wire/cmd/wire
//go:build !wireinject
// +build !wireinject

package wire

import (
	"context"
	"fmt"

	"github.com/sevigo/review-mate/internal/app"
	"github.com/sevigo/review-mate/internal/config"
	"github.com/sevigo/review-mate/internal/github"
	"github.com/sevigo/review-mate/internal/llm"
	"github.com/sevigo/review-mate/internal/logger"
	"github.com/sevigo/review-mate/internal/server"
)

// InitializeApp creates and wires all application dependencies.
func InitializeApp(ctx context.Context) (*app.App, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	slogLogger := logger.New(provideLoggerOptions(cfg), provideLogWriter())

	model, err := llm.NewModel(ctx, cfg, slogLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to create generator LLM: %w", err)
	}
	reviewer := llm.NewReviewer(model, slogLogger)

	oauth := provideOAuthFlow(cfg, slogLogger)
	publisher := github.NewPublisher(slogLogger)

	srv := server.NewServer(ctx, cfg, reviewer, oauth, publisher, slogLogger)

	return app.NewApp(ctx, cfg, srv, slogLogger), nil
}
