// Package llm provides the AI review client: prompt construction, the call to
// the generative model, and resilient parsing of its output into a structured
// suggestion.
package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sevigo/goframe/llms"
	"github.com/sevigo/goframe/llms/gemini"
	"github.com/sevigo/goframe/llms/ollama"

	"github.com/sevigo/review-mate/internal/config"
	"github.com/sevigo/review-mate/internal/core"
)

// Reviewer runs a single AI code review.
type Reviewer interface {
	// Review sends the request to the model and returns a structured
	// suggestion. Cancellation of ctx aborts the call; the context error is
	// passed through untouched so callers can tell it apart from failures.
	Review(ctx context.Context, req core.ReviewRequest) (*core.ReviewSuggestion, error)
}

// textModel is the slice of llms.Model the reviewer needs: a single prompt
// in, generated text out.
type textModel interface {
	Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error)
}

type reviewer struct {
	model  textModel
	logger *slog.Logger
}

// NewReviewer wraps a generative model as a Reviewer.
func NewReviewer(model llms.Model, logger *slog.Logger) Reviewer {
	return &reviewer{model: model, logger: logger}
}

// NewModel creates the generative model client for the configured provider.
func NewModel(ctx context.Context, cfg *config.Config, logger *slog.Logger) (llms.Model, error) {
	switch cfg.LLMProvider {
	case "gemini":
		if cfg.GeminiAPIKey == "" {
			return nil, core.NewConfigurationError("GEMINI_API_KEY is not set in environment for gemini provider")
		}
		return gemini.New(ctx,
			gemini.WithModel(cfg.GeneratorModelName),
			gemini.WithAPIKey(cfg.GeminiAPIKey),
		)
	case "ollama":
		return ollama.New(
			ollama.WithServerURL(cfg.OllamaHost),
			ollama.WithModel(cfg.GeneratorModelName),
			ollama.WithLogger(logger),
		)
	default:
		return nil, core.NewConfigurationError(fmt.Sprintf("unsupported LLM provider: %s", cfg.LLMProvider))
	}
}

func (r *reviewer) Review(ctx context.Context, req core.ReviewRequest) (*core.ReviewSuggestion, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	r.logger.Debug("sending review request to model", "language", req.Language, "chars", len(req.Code))

	output, err := r.model.Call(ctx, buildReviewPrompt(req))
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, classifyProviderError(err)
	}

	suggestion, err := parseSuggestion(output)
	if err != nil {
		r.logger.Warn("model returned unparseable review output", "error", err, "output_chars", len(output))
		return nil, err
	}

	r.logger.Info("review completed", "language", req.Language, "category", suggestion.Category)
	return suggestion, nil
}

// classifyProviderError sorts an upstream failure into the error taxonomy.
// Provider SDKs expose failures as opaque errors, so classification is by
// message, mirroring how the upstream reports credential and quota problems.
func classifyProviderError(err error) error {
	msg := strings.ToLower(err.Error())

	switch {
	case strings.Contains(msg, "api key") || strings.Contains(msg, "api_key") ||
		strings.Contains(msg, "unauthenticated") || strings.Contains(msg, "permission denied"):
		return core.NewConfigurationError("invalid or missing API key; check GEMINI_API_KEY")
	case strings.Contains(msg, "quota") || strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "429") || strings.Contains(msg, "too many requests") ||
		strings.Contains(msg, "resource exhausted"):
		return core.NewThrottlingError("API rate limit exceeded; please wait a moment and try again")
	default:
		return core.NewUpstreamError("code review failed", err)
	}
}
