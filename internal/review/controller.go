// Package review implements the debounce controller that turns a stream of
// edit events into at most one in-flight AI review request.
package review

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/sevigo/review-mate/internal/core"
	"github.com/sevigo/review-mate/internal/llm"
)

const (
	// DefaultDelay is the quiet period after the last edit before a review
	// fires.
	DefaultDelay = 2 * time.Second

	// MinReviewLength is the minimum trimmed input length worth reviewing.
	// Shorter edits suppress any pending review instead of firing one.
	MinReviewLength = 10
)

// Callbacks receives the controller's observable side effects. Callbacks are
// invoked while the controller holds its internal lock, so they must return
// promptly and must not call back into the controller; forwarding to a
// buffered channel is the intended pattern.
type Callbacks struct {
	// OnReviewing is toggled true when a request starts and false when it
	// settles. A superseded request produces no false toggle; the new request
	// has already re-asserted true.
	OnReviewing func(reviewing bool)
	// OnSuggestion delivers a successful review result.
	OnSuggestion func(s *core.ReviewSuggestion)
	// OnError delivers a review failure. Cancellation never reaches it.
	OnError func(err error)
}

// Controller coalesces rapid edits into single review calls: last edit wins,
// a newly fired request cancels the one in flight, and a superseded request's
// outcome is discarded no matter when it arrives.
type Controller struct {
	reviewer llm.Reviewer
	cb       Callbacks
	delay    time.Duration
	minChars int
	logger   *slog.Logger

	mu     sync.Mutex
	timer  *time.Timer
	cancel context.CancelFunc
	gen    uint64
	closed bool
	wg     sync.WaitGroup
}

// Option customizes a Controller.
type Option func(*Controller)

// WithDelay overrides the debounce interval.
func WithDelay(d time.Duration) Option {
	return func(c *Controller) { c.delay = d }
}

// WithMinLength overrides the minimum reviewable input length.
func WithMinLength(n int) Option {
	return func(c *Controller) { c.minChars = n }
}

// NewController builds a Controller around a reviewer. Nil callbacks are
// replaced with no-ops.
func NewController(reviewer llm.Reviewer, cb Callbacks, logger *slog.Logger, opts ...Option) *Controller {
	if cb.OnReviewing == nil {
		cb.OnReviewing = func(bool) {}
	}
	if cb.OnSuggestion == nil {
		cb.OnSuggestion = func(*core.ReviewSuggestion) {}
	}
	if cb.OnError == nil {
		cb.OnError = func(error) {}
	}

	c := &Controller{
		reviewer: reviewer,
		cb:       cb,
		delay:    DefaultDelay,
		minChars: MinReviewLength,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// OnEdit records a new editor state. Input below the minimum length clears
// any pending countdown without firing; otherwise the countdown restarts for
// the latest text/language pair.
func (c *Controller) OnEdit(text, language string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}

	if len(strings.TrimSpace(text)) < c.minChars {
		return
	}

	c.timer = time.AfterFunc(c.delay, func() {
		c.fire(text, language)
	})
}

// fire starts a review for the given pair, cancelling any request still in
// flight so its eventual outcome is ignored.
func (c *Controller) fire(text, language string) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}

	if c.cancel != nil {
		c.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.gen++
	gen := c.gen

	c.cb.OnReviewing(true)
	c.mu.Unlock()

	c.logger.Debug("debounce fired, starting review", "language", language, "chars", len(text))

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()

		suggestion, err := c.reviewer.Review(ctx, core.ReviewRequest{Code: text, Language: language})

		c.mu.Lock()
		defer c.mu.Unlock()

		// A superseded or torn-down request must not touch shared state: the
		// generation check guards against late arrivals racing a newer call.
		if c.closed || gen != c.gen || ctx.Err() != nil {
			return
		}
		c.cancel = nil

		c.cb.OnReviewing(false)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			c.cb.OnError(err)
			return
		}
		c.cb.OnSuggestion(suggestion)
	}()
}

// Close cancels any pending countdown and in-flight request and waits for the
// worker to drain. No callback fires after Close returns.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.mu.Unlock()

	c.wg.Wait()
}
