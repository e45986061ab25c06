package github

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/sevigo/review-mate/internal/core"
)

const (
	// baseBranch is the integration branch every pull request targets. The
	// repository's configured default branch is deliberately not consulted:
	// this preserves the long-standing behavior that publishing against a
	// repository whose default branch is not "main" fails at the first step.
	baseBranch = "main"

	// branchPrefix plus a millisecond timestamp names the working branch.
	// The timestamp makes concurrent publishes practically collision-free
	// without any central coordination.
	branchPrefix = "review-mate-update-"
)

// PublishState names how far the pull-request choreography has progressed.
// Failures report the last state reached; no step is retried and nothing is
// rolled back.
type PublishState int

const (
	StateStart PublishState = iota
	StateResolvedBase
	StateBranchCreated
	StateFileResolved
	StateCommitted
	StatePROpened
)

func (s PublishState) String() string {
	switch s {
	case StateStart:
		return "start"
	case StateResolvedBase:
		return "resolved-base"
	case StateBranchCreated:
		return "branch-created"
	case StateFileResolved:
		return "file-resolved"
	case StateCommitted:
		return "committed"
	case StatePROpened:
		return "pr-opened"
	default:
		return "unknown"
	}
}

// StepError wraps a choreography failure with the last state that completed
// successfully, so callers can tell which step broke.
type StepError struct {
	Step      string
	LastState PublishState
	Err       error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s failed (last completed state: %s): %v", e.Step, e.LastState, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// PublishRequest carries everything one publish operation needs. All fields
// are required.
type PublishRequest struct {
	AccessToken  string `json:"accessToken"`
	Owner        string `json:"owner"`
	Repo         string `json:"repo"`
	FilePath     string `json:"filePath"`
	ImprovedCode string `json:"improvedCode"`
	Category     string `json:"category"`
	Explanation  string `json:"explanation"`
}

// missingFields returns the names of absent required fields, in the order
// they appear in the request body.
func (r PublishRequest) missingFields() []string {
	var missing []string
	for _, f := range []struct {
		name  string
		value string
	}{
		{"accessToken", r.AccessToken},
		{"owner", r.Owner},
		{"repo", r.Repo},
		{"filePath", r.FilePath},
		{"improvedCode", r.ImprovedCode},
		{"category", r.Category},
		{"explanation", r.Explanation},
	} {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}

// ClientFactory builds a GitHub client for a bearer token. Injectable so
// tests can observe the choreography without a network.
type ClientFactory func(ctx context.Context, token string) Client

// Publisher turns an accepted suggestion into a branch, a commit, and a pull
// request. Each operation is an independent in-process state machine; no two
// operations share state.
type Publisher struct {
	newClient ClientFactory
	logger    *slog.Logger
	now       func() time.Time
}

// NewPublisher creates a Publisher using real token-authenticated clients.
func NewPublisher(logger *slog.Logger) *Publisher {
	return &Publisher{
		newClient: func(ctx context.Context, token string) Client {
			return NewTokenClient(ctx, token, logger)
		},
		logger: logger,
		now:    time.Now,
	}
}

// Publish runs the five-step choreography:
//
//	resolve base -> create branch -> resolve file -> commit -> open PR
//
// Input is validated before any network call; a failure at any step
// terminates the operation and reports the last state reached. A branch or
// commit created before a later failure is left in place.
func (p *Publisher) Publish(ctx context.Context, req PublishRequest) (*core.PullRequestRef, error) {
	if missing := req.missingFields(); len(missing) > 0 {
		return nil, core.NewMissingFieldsError(missing...)
	}

	branch := branchPrefix + strconv.FormatInt(p.now().UnixMilli(), 10)
	client := p.newClient(ctx, req.AccessToken)
	state := StateStart

	p.logger.Info("creating pull request",
		"owner", req.Owner, "repo", req.Repo, "path", req.FilePath, "branch", branch)

	baseSHA, err := client.GetBranchSHA(ctx, req.Owner, req.Repo, baseBranch)
	if err != nil {
		return nil, &StepError{Step: "resolve base branch", LastState: state, Err: err}
	}
	state = StateResolvedBase
	p.logger.Debug("resolved base branch", "sha", baseSHA)

	if err := client.CreateBranch(ctx, req.Owner, req.Repo, branch, baseSHA); err != nil {
		return nil, &StepError{Step: "create branch", LastState: state, Err: err}
	}
	state = StateBranchCreated

	fileSHA, err := client.GetFileSHA(ctx, req.Owner, req.Repo, req.FilePath, baseBranch)
	if err != nil {
		return nil, &StepError{Step: "resolve target file", LastState: state, Err: err}
	}
	state = StateFileResolved
	p.logger.Debug("resolved target file", "sha", fileSHA)

	message := "Review-Mate: " + req.Category
	if err := client.CommitFile(ctx, req.Owner, req.Repo, req.FilePath, branch, message, []byte(req.ImprovedCode), fileSHA); err != nil {
		return nil, &StepError{Step: "commit improved code", LastState: state, Err: err}
	}
	state = StateCommitted

	title := "AI Review Suggestion: " + req.Category
	pr, err := client.CreatePullRequest(ctx, req.Owner, req.Repo, title, branch, baseBranch, req.Explanation)
	if err != nil {
		return nil, &StepError{Step: "open pull request", LastState: state, Err: err}
	}
	state = StatePROpened

	p.logger.Info("pull request created",
		"owner", req.Owner, "repo", req.Repo, "number", pr.Number, "state", state)

	return &core.PullRequestRef{URL: pr.URL, Number: pr.Number, Branch: branch}, nil
}
