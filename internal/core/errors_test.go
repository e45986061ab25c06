package core

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", NewValidationError("bad input"), http.StatusBadRequest},
		{"missing fields", NewMissingFieldsError("owner", "repo"), http.StatusBadRequest},
		{"authentication", NewAuthenticationError("invalid token"), http.StatusUnauthorized},
		{"conflict", NewConflictError("branch exists"), http.StatusConflict},
		{"throttling", NewThrottlingError("slow down"), http.StatusTooManyRequests},
		{"configuration", NewConfigurationError("missing key"), http.StatusInternalServerError},
		{"upstream", NewUpstreamError("provider failed", nil), http.StatusInternalServerError},
		{"malformed response", NewMalformedResponseError("no JSON"), http.StatusInternalServerError},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
		{"wrapped taxonomy error", fmt.Errorf("step failed: %w", NewAuthenticationError("expired")), http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusFor(tt.err))
		})
	}
}

func TestMissingFieldsErrorMessage(t *testing.T) {
	err := NewMissingFieldsError("accessToken", "filePath")
	assert.Contains(t, err.Error(), "accessToken")
	assert.Contains(t, err.Error(), "filePath")
	assert.Equal(t, []string{"accessToken", "filePath"}, err.Missing)
}

func TestKindSurvivesWrapping(t *testing.T) {
	inner := NewConflictError("branch exists")
	wrapped := fmt.Errorf("create branch: %w", inner)
	assert.True(t, IsKind(wrapped, KindConflict))
	assert.False(t, IsKind(wrapped, KindAuthentication))
	assert.Equal(t, KindConflict, KindOf(wrapped))
}

func TestMalformedResponseDistinctFromUpstream(t *testing.T) {
	err := NewMalformedResponseError("unparseable")
	assert.True(t, IsKind(err, KindMalformedResponse))
	assert.False(t, IsKind(err, KindUpstream))
	// but both map to 500 at the boundary
	assert.Equal(t, http.StatusInternalServerError, StatusFor(err))
}
