package server

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/sevigo/review-mate/internal/core"
	"github.com/sevigo/review-mate/internal/server/handler"
)

// RateLimiter is a best-effort, in-memory, fixed-window request limiter keyed
// by client address. It holds no state beyond one process and does not
// coordinate across instances; exceeding the limit yields a throttling
// response, never a fatal error.
type RateLimiter struct {
	max    int
	window time.Duration
	now    func() time.Time

	mu      sync.Mutex
	history map[string][]time.Time
}

// NewRateLimiter allows max requests per client within the given window.
func NewRateLimiter(max int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		max:     max,
		window:  window,
		now:     time.Now,
		history: make(map[string][]time.Time),
	}
}

// Allow records a request for the client and reports whether it is within the
// limit. Timestamps older than the window are dropped as a side effect.
func (rl *RateLimiter) Allow(clientID string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	cutoff := now.Add(-rl.window)

	recent := rl.history[clientID][:0]
	for _, ts := range rl.history[clientID] {
		if ts.After(cutoff) {
			recent = append(recent, ts)
		}
	}

	if len(recent) >= rl.max {
		rl.history[clientID] = recent
		return false
	}

	rl.history[clientID] = append(recent, now)
	return true
}

// Middleware rejects over-limit requests with a 429 response. Client identity
// is the remote address as rewritten by the RealIP middleware upstream.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			// RealIP leaves a bare address when a proxy header is present.
			clientID = r.RemoteAddr
		}
		if clientID == "" {
			clientID = "unknown"
		}

		if !rl.Allow(clientID) {
			handler.RespondError(w, false, core.NewThrottlingError("too many requests; please wait a moment before trying again"))
			return
		}

		next.ServeHTTP(w, r)
	})
}
