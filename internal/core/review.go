// Package core defines the essential data structures and error taxonomy that
// form the backbone of the application. These components are deliberately free
// of transport and provider concerns so the HTTP layer, the LLM client, and
// the GitHub publisher can all share them.
package core

import "strings"

// MaxCodeLength is the upper bound on the size of a single review request.
const MaxCodeLength = 10000

// Category classifies the main improvement an AI suggestion makes.
type Category string

const (
	CategoryBestPractices     Category = "Best Practices"
	CategoryBetterPerformance Category = "Better Performance"
	CategoryBugFix            Category = "Bug Fix"
	CategoryCodeQuality       Category = "Code Quality"
	CategorySecurity          Category = "Security"
	CategoryReadability       Category = "Readability"
)

// Categories returns the closed set of valid suggestion categories.
func Categories() []Category {
	return []Category{
		CategoryBestPractices,
		CategoryBetterPerformance,
		CategoryBugFix,
		CategoryCodeQuality,
		CategorySecurity,
		CategoryReadability,
	}
}

// NormalizeCategory maps a model-provided category string onto the closed set.
// Anything outside the set collapses to "Code Quality" rather than failing,
// since the rest of the suggestion is still usable.
func NormalizeCategory(s string) Category {
	trimmed := strings.TrimSpace(s)
	for _, c := range Categories() {
		if trimmed == string(c) {
			return c
		}
	}
	return CategoryCodeQuality
}

// ReviewRequest is a single request to review a piece of source code.
// It is transient: each debounce firing creates one, and the next firing
// supersedes it.
type ReviewRequest struct {
	Code     string `json:"code"`
	Language string `json:"language"`
}

// Validate checks the request against the input contract. It returns a
// ValidationError describing the first violated rule, or nil.
func (r ReviewRequest) Validate() error {
	if strings.TrimSpace(r.Code) == "" {
		return NewValidationError("code is required and cannot be empty")
	}
	if len(r.Code) > MaxCodeLength {
		return NewValidationError("code is too long (maximum 10,000 characters)")
	}
	if strings.TrimSpace(r.Language) == "" {
		return NewValidationError("language is required")
	}
	return nil
}

// ReviewSuggestion is the structured result of one AI review call.
type ReviewSuggestion struct {
	ImprovedCode string   `json:"improvedCode"`
	Explanation  string   `json:"explanation"`
	Category     Category `json:"category"`
}

// RepositoryRef is the subset of a GitHub repository record the application
// cares about. Fetched fresh on demand, never cached across sessions.
type RepositoryRef struct {
	Name          string `json:"name"`
	FullName      string `json:"full_name"`
	Owner         string `json:"owner"`
	DefaultBranch string `json:"default_branch"`
	URL           string `json:"url"`
}

// PullRequestRef identifies a pull request created by the publisher.
type PullRequestRef struct {
	URL    string `json:"url"`
	Number int    `json:"number"`
	Branch string `json:"branch"`
}
