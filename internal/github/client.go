// Package github provides functionality for interacting with the GitHub API:
// the OAuth authorization flow, repository listing, and the branch/commit/PR
// choreography behind publishing an accepted suggestion.
package github

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	gogithub "github.com/google/go-github/v73/github"
	"golang.org/x/oauth2"

	"github.com/sevigo/review-mate/internal/core"
)

// Client defines the set of GitHub operations the application performs on
// behalf of an authenticated user.
type Client interface {
	// ListRepositories returns the repositories accessible to the token's
	// user, reduced to the fields the application cares about.
	ListRepositories(ctx context.Context) ([]core.RepositoryRef, error)
	// GetBranchSHA resolves the tip commit hash of a branch.
	GetBranchSHA(ctx context.Context, owner, repo, branch string) (string, error)
	// CreateBranch creates a new ref pointing at sha.
	CreateBranch(ctx context.Context, owner, repo, branch, sha string) error
	// GetFileSHA resolves the current content SHA of a file at ref.
	GetFileSHA(ctx context.Context, owner, repo, path, ref string) (string, error)
	// CommitFile writes content to path on branch. The transport encodes the
	// content as base64, as the contents API requires. sha must be the file's
	// current content SHA so concurrent changes are not silently overwritten.
	CommitFile(ctx context.Context, owner, repo, path, branch, message string, content []byte, sha string) error
	// CreatePullRequest opens a PR from head into base.
	CreatePullRequest(ctx context.Context, owner, repo, title, head, base, body string) (*core.PullRequestRef, error)
}

type tokenClient struct {
	client *gogithub.Client
	logger *slog.Logger
}

// NewClient wraps an existing go-github client. Tests use this with a client
// pointed at a local test server.
func NewClient(client *gogithub.Client, logger *slog.Logger) Client {
	return &tokenClient{client: client, logger: logger}
}

// NewTokenClient creates a Client authenticated with an OAuth bearer token.
// Clients are cheap and request-scoped: one is built per incoming call, so
// the server holds no token state between requests.
func NewTokenClient(ctx context.Context, token string, logger *slog.Logger) Client {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	tc := oauth2.NewClient(ctx, ts)
	return &tokenClient{client: gogithub.NewClient(tc), logger: logger}
}

// ListRepositories fetches all pages of the user's repositories.
func (g *tokenClient) ListRepositories(ctx context.Context) ([]core.RepositoryRef, error) {
	var refs []core.RepositoryRef
	opts := &gogithub.RepositoryListByAuthenticatedUserOptions{
		ListOptions: gogithub.ListOptions{PerPage: 100},
	}

	for {
		repos, resp, err := g.client.Repositories.ListByAuthenticatedUser(ctx, opts)
		if err != nil {
			g.logger.Error("failed to list repositories", "error", err)
			return nil, translateError(err, "failed to fetch repositories")
		}

		for _, repo := range repos {
			refs = append(refs, core.RepositoryRef{
				Name:          repo.GetName(),
				FullName:      repo.GetFullName(),
				Owner:         repo.GetOwner().GetLogin(),
				DefaultBranch: repo.GetDefaultBranch(),
				URL:           repo.GetHTMLURL(),
			})
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return refs, nil
}

func (g *tokenClient) GetBranchSHA(ctx context.Context, owner, repo, branch string) (string, error) {
	ref, _, err := g.client.Git.GetRef(ctx, owner, repo, "heads/"+branch)
	if err != nil {
		g.logger.Error("failed to fetch branch ref", "owner", owner, "repo", repo, "branch", branch, "error", err)
		return "", translateError(err, fmt.Sprintf("failed to fetch %s branch", branch))
	}
	return ref.GetObject().GetSHA(), nil
}

func (g *tokenClient) CreateBranch(ctx context.Context, owner, repo, branch, sha string) error {
	ref := &gogithub.Reference{
		Ref:    gogithub.Ptr("refs/heads/" + branch),
		Object: &gogithub.GitObject{SHA: gogithub.Ptr(sha)},
	}
	_, _, err := g.client.Git.CreateRef(ctx, owner, repo, ref)
	if err != nil {
		g.logger.Error("failed to create branch", "owner", owner, "repo", repo, "branch", branch, "error", err)
		if isRefConflict(err) {
			return core.NewConflictError("a branch with this name already exists; please try again")
		}
		return translateError(err, "failed to create branch")
	}
	return nil
}

func (g *tokenClient) GetFileSHA(ctx context.Context, owner, repo, path, ref string) (string, error) {
	fileContent, _, _, err := g.client.Repositories.GetContents(ctx, owner, repo, path,
		&gogithub.RepositoryContentGetOptions{Ref: ref})
	if err != nil {
		g.logger.Error("failed to fetch file", "owner", owner, "repo", repo, "path", path, "error", err)
		return "", translateError(err, "failed to fetch file")
	}
	if fileContent == nil {
		return "", core.NewUpstreamError(fmt.Sprintf("path %q is a directory, not a file", path), nil)
	}
	return fileContent.GetSHA(), nil
}

func (g *tokenClient) CommitFile(ctx context.Context, owner, repo, path, branch, message string, content []byte, sha string) error {
	opts := &gogithub.RepositoryContentFileOptions{
		Message: gogithub.Ptr(message),
		Content: content,
		SHA:     gogithub.Ptr(sha),
		Branch:  gogithub.Ptr(branch),
	}
	_, _, err := g.client.Repositories.UpdateFile(ctx, owner, repo, path, opts)
	if err != nil {
		g.logger.Error("failed to commit file", "owner", owner, "repo", repo, "path", path, "branch", branch, "error", err)
		return translateError(err, "failed to commit code")
	}
	return nil
}

func (g *tokenClient) CreatePullRequest(ctx context.Context, owner, repo, title, head, base, body string) (*core.PullRequestRef, error) {
	pr, _, err := g.client.PullRequests.Create(ctx, owner, repo, &gogithub.NewPullRequest{
		Title: gogithub.Ptr(title),
		Head:  gogithub.Ptr(head),
		Base:  gogithub.Ptr(base),
		Body:  gogithub.Ptr(body),
	})
	if err != nil {
		g.logger.Error("failed to create pull request", "owner", owner, "repo", repo, "head", head, "error", err)
		return nil, translateError(err, "failed to create pull request")
	}
	return &core.PullRequestRef{URL: pr.GetHTMLURL(), Number: pr.GetNumber()}, nil
}

// statusOf extracts the HTTP status code from a go-github error, or 0.
func statusOf(err error) int {
	var ghErr *gogithub.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		return ghErr.Response.StatusCode
	}
	return 0
}

// translateError maps a GitHub API failure onto the error taxonomy. A 401
// always means the token is invalid or expired; everything else is a generic
// upstream failure with the provider message kept for diagnosis.
func translateError(err error, message string) error {
	if statusOf(err) == 401 {
		return core.NewAuthenticationError("invalid or expired token; please re-authenticate with GitHub")
	}
	return core.NewUpstreamError(message, err)
}

// isRefConflict reports whether a ref-creation failure means the branch
// already exists. GitHub signals this as 409 on some API versions and as a
// 422 with an "already exists" message on others.
func isRefConflict(err error) bool {
	switch statusOf(err) {
	case 409:
		return true
	case 422:
		return strings.Contains(strings.ToLower(err.Error()), "already exists")
	default:
		return false
	}
}
