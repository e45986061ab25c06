package main

import (
	"context"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sevigo/review-mate/internal/config"
	"github.com/sevigo/review-mate/internal/github"
	"github.com/sevigo/review-mate/internal/llm"
	"github.com/sevigo/review-mate/internal/logger"
)

// newTerminalLogger keeps the alternate screen clean: warnings and errors go
// to stderr, everything else is dropped.
func newTerminalLogger(cfg *config.Config) *slog.Logger {
	return logger.New(logger.Options{Level: slog.LevelWarn, Format: cfg.LogFormat}, io.Writer(os.Stderr))
}

// initReviewerCmd builds the model client off the UI goroutine; provider
// construction can block on network setup.
func initReviewerCmd(cfg *config.Config) tea.Cmd {
	return func() tea.Msg {
		log := newTerminalLogger(cfg)
		model, err := llm.NewModel(context.Background(), cfg, log)
		if err != nil {
			return reviewerReadyMsg{err: err}
		}
		return reviewerReadyMsg{reviewer: llm.NewReviewer(model, log)}
	}
}

// waitForReviewCmd bridges the debounce controller's callback channel into
// the bubbletea message loop. It must be re-issued after every received
// message.
func waitForReviewCmd(events <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-events
	}
}

// publishCmd runs the pull-request choreography for the accepted suggestion.
func publishCmd(cfg *config.Config, req github.PublishRequest) tea.Cmd {
	return func() tea.Msg {
		publisher := github.NewPublisher(newTerminalLogger(cfg))
		pr, err := publisher.Publish(context.Background(), req)
		return publishDoneMsg{pr: pr, err: err}
	}
}
