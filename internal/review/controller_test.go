package review

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/review-mate/internal/core"
)

// recorder captures callback invocations for assertions.
type recorder struct {
	mu          sync.Mutex
	reviewing   []bool
	suggestions []*core.ReviewSuggestion
	errs        []error
}

func (r *recorder) callbacks() Callbacks {
	return Callbacks{
		OnReviewing: func(v bool) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.reviewing = append(r.reviewing, v)
		},
		OnSuggestion: func(s *core.ReviewSuggestion) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.suggestions = append(r.suggestions, s)
		},
		OnError: func(err error) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.errs = append(r.errs, err)
		},
	}
}

func (r *recorder) suggestionCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.suggestions)
}

func (r *recorder) errCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.errs)
}

// stubReviewer answers every call by echoing the code, optionally blocking
// the first call until its context is cancelled.
type stubReviewer struct {
	mu             sync.Mutex
	calls          []core.ReviewRequest
	err            error
	blockFirstCall bool
	started        chan string
}

func (s *stubReviewer) Review(ctx context.Context, req core.ReviewRequest) (*core.ReviewSuggestion, error) {
	s.mu.Lock()
	s.calls = append(s.calls, req)
	index := len(s.calls)
	s.mu.Unlock()

	if s.started != nil {
		s.started <- req.Code
	}

	if s.blockFirstCall && index == 1 {
		<-ctx.Done()
		return nil, ctx.Err()
	}

	if s.err != nil {
		return nil, s.err
	}
	return &core.ReviewSuggestion{
		ImprovedCode: req.Code + " (improved)",
		Explanation:  "improved " + req.Language,
		Category:     core.CategoryCodeQuality,
	}, nil
}

func (s *stubReviewer) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func newTestController(r *stubReviewer, rec *recorder, delay time.Duration) *Controller {
	return NewController(r, rec.callbacks(), slog.New(slog.DiscardHandler), WithDelay(delay))
}

func TestShortInputNeverFires(t *testing.T) {
	reviewer := &stubReviewer{}
	rec := &recorder{}
	c := newTestController(reviewer, rec, 10*time.Millisecond)
	defer c.Close()

	c.OnEdit("tiny", "go")
	c.OnEdit("   padded    ", "go") // 6 chars after trimming
	time.Sleep(60 * time.Millisecond)

	assert.Zero(t, reviewer.callCount())
	assert.Zero(t, rec.suggestionCount())
}

func TestShortEditClearsPendingTimer(t *testing.T) {
	reviewer := &stubReviewer{}
	rec := &recorder{}
	c := newTestController(reviewer, rec, 30*time.Millisecond)
	defer c.Close()

	c.OnEdit("this text is long enough to review", "go")
	time.Sleep(10 * time.Millisecond)
	c.OnEdit("x", "go")
	time.Sleep(80 * time.Millisecond)

	assert.Zero(t, reviewer.callCount(), "a short edit must clear the pending countdown")
}

func TestLastEditWins(t *testing.T) {
	reviewer := &stubReviewer{}
	rec := &recorder{}
	c := newTestController(reviewer, rec, 40*time.Millisecond)
	defer c.Close()

	c.OnEdit("first version of the snippet", "go")
	time.Sleep(10 * time.Millisecond)
	c.OnEdit("second version of the snippet", "python")

	require.Eventually(t, func() bool { return reviewer.callCount() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(60 * time.Millisecond)

	reviewer.mu.Lock()
	defer reviewer.mu.Unlock()
	require.Len(t, reviewer.calls, 1, "only the later edit may be sent")
	assert.Equal(t, "second version of the snippet", reviewer.calls[0].Code)
	assert.Equal(t, "python", reviewer.calls[0].Language)
}

func TestExactlyOneCallAfterQuietPeriod(t *testing.T) {
	code := strings.Repeat("x = 1\n", 84)[:500]
	reviewer := &stubReviewer{}
	rec := &recorder{}
	c := newTestController(reviewer, rec, 10*time.Millisecond)
	defer c.Close()

	c.OnEdit(code, "python")

	require.Eventually(t, func() bool { return rec.suggestionCount() == 1 }, time.Second, 5*time.Millisecond)

	reviewer.mu.Lock()
	defer reviewer.mu.Unlock()
	require.Len(t, reviewer.calls, 1)
	assert.Equal(t, code, reviewer.calls[0].Code)
	assert.Equal(t, "python", reviewer.calls[0].Language)
}

func TestSupersededRequestIsIgnored(t *testing.T) {
	reviewer := &stubReviewer{blockFirstCall: true, started: make(chan string, 2)}
	rec := &recorder{}
	c := newTestController(reviewer, rec, 5*time.Millisecond)
	defer c.Close()

	c.OnEdit("first slow review request", "go")
	require.Equal(t, "first slow review request", <-reviewer.started)

	// First call is now blocked in flight; a second firing must cancel it.
	c.OnEdit("second quick review request", "go")
	require.Equal(t, "second quick review request", <-reviewer.started)

	require.Eventually(t, func() bool { return rec.suggestionCount() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(30 * time.Millisecond)

	rec.mu.Lock()
	defer rec.mu.Unlock()
	require.Len(t, rec.suggestions, 1, "the superseded outcome must be discarded")
	assert.Equal(t, "second quick review request (improved)", rec.suggestions[0].ImprovedCode)
	assert.Empty(t, rec.errs, "cancellation must not surface as an error")
}

func TestReviewingToggles(t *testing.T) {
	reviewer := &stubReviewer{}
	rec := &recorder{}
	c := newTestController(reviewer, rec, 5*time.Millisecond)
	defer c.Close()

	c.OnEdit("some perfectly reviewable code", "go")
	require.Eventually(t, func() bool { return rec.suggestionCount() == 1 }, time.Second, 5*time.Millisecond)

	rec.mu.Lock()
	defer rec.mu.Unlock()
	assert.Equal(t, []bool{true, false}, rec.reviewing)
}

func TestReviewFailureSurfacesViaOnError(t *testing.T) {
	reviewer := &stubReviewer{err: core.NewThrottlingError("slow down")}
	rec := &recorder{}
	c := newTestController(reviewer, rec, 5*time.Millisecond)
	defer c.Close()

	c.OnEdit("some perfectly reviewable code", "go")
	require.Eventually(t, func() bool { return rec.errCount() == 1 }, time.Second, 5*time.Millisecond)

	rec.mu.Lock()
	defer rec.mu.Unlock()
	require.Len(t, rec.errs, 1)
	assert.True(t, core.IsKind(rec.errs[0], core.KindThrottling))
	assert.Equal(t, []bool{true, false}, rec.reviewing)
	assert.Empty(t, rec.suggestions)
}

func TestCloseCancelsPendingTimer(t *testing.T) {
	reviewer := &stubReviewer{}
	rec := &recorder{}
	c := newTestController(reviewer, rec, 50*time.Millisecond)

	c.OnEdit("some perfectly reviewable code", "go")
	c.Close()
	time.Sleep(100 * time.Millisecond)

	assert.Zero(t, reviewer.callCount(), "no review may fire after teardown")
}

func TestCloseCancelsInFlightRequest(t *testing.T) {
	reviewer := &stubReviewer{blockFirstCall: true, started: make(chan string, 1)}
	rec := &recorder{}
	c := newTestController(reviewer, rec, 5*time.Millisecond)

	c.OnEdit("first slow review request", "go")
	<-reviewer.started

	done := make(chan struct{})
	go func() {
		c.Close()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Close did not cancel the in-flight request")
	}

	time.Sleep(30 * time.Millisecond)
	assert.Zero(t, rec.suggestionCount())
	assert.Zero(t, rec.errCount())
}

func TestEditAfterCloseIsIgnored(t *testing.T) {
	reviewer := &stubReviewer{}
	rec := &recorder{}
	c := newTestController(reviewer, rec, 5*time.Millisecond)

	c.Close()
	c.OnEdit("some perfectly reviewable code", "go")
	time.Sleep(30 * time.Millisecond)

	assert.Zero(t, reviewer.callCount())
}

func TestCancellationErrorNeverSurfaces(t *testing.T) {
	// A reviewer that reports context.Canceled wrapped; the controller must
	// swallow it even when the request was not superseded.
	reviewer := &stubReviewer{err: context.Canceled}
	rec := &recorder{}
	c := newTestController(reviewer, rec, 5*time.Millisecond)
	defer c.Close()

	c.OnEdit("some perfectly reviewable code", "go")
	time.Sleep(50 * time.Millisecond)

	assert.Zero(t, rec.errCount())
	assert.Zero(t, rec.suggestionCount())
}
