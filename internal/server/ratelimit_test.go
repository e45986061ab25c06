package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiterAllowWithinLimit(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		assert.True(t, rl.Allow("1.2.3.4"), "request %d should be allowed", i+1)
	}
	assert.False(t, rl.Allow("1.2.3.4"), "request over the limit should be rejected")
}

func TestRateLimiterIsPerClient(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)

	assert.True(t, rl.Allow("1.2.3.4"))
	assert.False(t, rl.Allow("1.2.3.4"))
	assert.True(t, rl.Allow("5.6.7.8"), "a different client has its own window")
}

func TestRateLimiterWindowExpiry(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(2, time.Minute)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("1.2.3.4"))
	assert.True(t, rl.Allow("1.2.3.4"))
	assert.False(t, rl.Allow("1.2.3.4"))

	now = now.Add(30 * time.Second)
	assert.False(t, rl.Allow("1.2.3.4"), "still inside the window")

	now = now.Add(31 * time.Second)
	assert.True(t, rl.Allow("1.2.3.4"), "old requests aged out")
}

func TestRateLimiterMiddleware(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)
	var served int
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		served++
		w.WriteHeader(http.StatusOK)
	})
	h := rl.Middleware(next)

	do := func(remoteAddr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/review", nil)
		req.RemoteAddr = remoteAddr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	// Differing source ports must count against the same client.
	assert.Equal(t, http.StatusOK, do("1.2.3.4:1111").Code)
	assert.Equal(t, http.StatusOK, do("1.2.3.4:2222").Code)

	rec := do("1.2.3.4:3333")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, 2, served)
	assert.Contains(t, rec.Body.String(), "too many requests")

	// A bare address, as RealIP leaves behind, is keyed as-is.
	assert.Equal(t, http.StatusOK, do("9.9.9.9").Code)
}
