package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/sevigo/review-mate/internal/config"
	"github.com/sevigo/review-mate/internal/github"
	"github.com/sevigo/review-mate/internal/llm"
	"github.com/sevigo/review-mate/internal/server/handler"
)

// NewRouter creates and configures a new HTTP router with middleware and API
// routes.
func NewRouter(cfg *config.Config, reviewer llm.Reviewer, oauth *github.OAuthFlow, publisher *github.Publisher, logger *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	// Configure middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		handler.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	reviewHandler := handler.NewReviewHandler(cfg, reviewer, logger)
	githubHandler := handler.NewGitHubHandler(cfg, oauth, publisher, logger)
	limiter := NewRateLimiter(cfg.RateLimitMax, time.Minute)

	r.Route("/api", func(r chi.Router) {
		r.With(limiter.Middleware).Post("/review", reviewHandler.Handle)

		r.Route("/github", func(r chi.Router) {
			r.Get("/login", githubHandler.Login)
			r.Get("/callback", githubHandler.Callback)
			r.Get("/repos", githubHandler.ListRepos)
			r.Post("/pull-request", githubHandler.CreatePullRequest)
		})
	})

	return r
}
