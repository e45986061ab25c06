package main

import (
	"github.com/sevigo/review-mate/internal/core"
	"github.com/sevigo/review-mate/internal/llm"
)

// Indicates that the generative model client is ready (or failed to build).
type reviewerReadyMsg struct {
	reviewer llm.Reviewer
	err      error
}

// Toggled by the debounce controller when a review starts or settles.
type reviewingMsg bool

// Delivers a completed review suggestion.
type suggestionMsg struct {
	suggestion *core.ReviewSuggestion
}

// A review attempt failed.
type reviewFailedMsg struct{ err error }

// Indicates that a publish attempt finished.
type publishDoneMsg struct {
	pr  *core.PullRequestRef
	err error
}
