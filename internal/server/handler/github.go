package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/sevigo/review-mate/internal/config"
	"github.com/sevigo/review-mate/internal/core"
	"github.com/sevigo/review-mate/internal/github"
)

// Publisher runs the pull-request choreography for an accepted suggestion.
type Publisher interface {
	Publish(ctx context.Context, req github.PublishRequest) (*core.PullRequestRef, error)
}

// GitHubHandler serves the /api/github endpoints: the OAuth flow, repository
// listing, and pull-request publishing.
type GitHubHandler struct {
	cfg       *config.Config
	oauth     *github.OAuthFlow
	publisher Publisher
	newClient github.ClientFactory
	logger    *slog.Logger
}

// NewGitHubHandler creates a GitHub handler backed by real token clients.
func NewGitHubHandler(cfg *config.Config, oauth *github.OAuthFlow, publisher Publisher, logger *slog.Logger) *GitHubHandler {
	return &GitHubHandler{
		cfg:       cfg,
		oauth:     oauth,
		publisher: publisher,
		newClient: func(ctx context.Context, token string) github.Client {
			return github.NewTokenClient(ctx, token, logger)
		},
		logger: logger,
	}
}

// Login redirects the browser to the GitHub authorization page.
func (h *GitHubHandler) Login(w http.ResponseWriter, r *http.Request) {
	authURL, err := h.oauth.AuthCodeURL()
	if err != nil {
		RespondError(w, h.cfg.Development(), err)
		return
	}
	http.Redirect(w, r, authURL, http.StatusFound)
}

// Callback exchanges the authorization code for a token and sends the browser
// back to the client application with the token as a query parameter.
func (h *GitHubHandler) Callback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")

	token, err := h.oauth.Exchange(r.Context(), code)
	if err != nil {
		RespondError(w, h.cfg.Development(), err)
		return
	}

	redirect := strings.TrimSuffix(h.cfg.ClientURL, "/") + "/?token=" + url.QueryEscape(token)
	http.Redirect(w, r, redirect, http.StatusFound)
}

// ListRepos returns the authenticated user's repositories.
func (h *GitHubHandler) ListRepos(w http.ResponseWriter, r *http.Request) {
	token, err := bearerToken(r)
	if err != nil {
		RespondError(w, h.cfg.Development(), err)
		return
	}

	repos, err := h.newClient(r.Context(), token).ListRepositories(r.Context())
	if err != nil {
		h.logger.Error("failed to fetch repositories", "error", err)
		RespondError(w, h.cfg.Development(), err)
		return
	}

	h.logger.Info("repositories retrieved", "count", len(repos))
	RespondJSON(w, http.StatusOK, map[string][]core.RepositoryRef{"repos": repos})
}

// pullRequestResponse is the success payload of POST /api/github/pull-request.
type pullRequestResponse struct {
	Success bool   `json:"success"`
	URL     string `json:"url"`
	Number  int    `json:"number"`
	Branch  string `json:"branch"`
}

// CreatePullRequest publishes an accepted suggestion as a pull request.
func (h *GitHubHandler) CreatePullRequest(w http.ResponseWriter, r *http.Request) {
	var req github.PublishRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondError(w, h.cfg.Development(), core.NewValidationError("request body must be valid JSON"))
		return
	}

	result, err := h.publisher.Publish(r.Context(), req)
	if err != nil {
		h.logger.Error("pull request creation failed", "owner", req.Owner, "repo", req.Repo, "error", err)
		RespondError(w, h.cfg.Development(), err)
		return
	}

	RespondJSON(w, http.StatusOK, pullRequestResponse{
		Success: true,
		URL:     result.URL,
		Number:  result.Number,
		Branch:  result.Branch,
	})
}

// bearerToken extracts the bearer token from the Authorization header.
func bearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		return "", core.NewAuthenticationError("missing access token: Authorization header with Bearer token is required")
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	if token == "" {
		return "", core.NewAuthenticationError("missing access token")
	}
	return token, nil
}
