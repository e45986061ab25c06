package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/review-mate/internal/config"
	"github.com/sevigo/review-mate/internal/core"
)

// fakeReviewer validates like the real one, then returns a canned outcome.
type fakeReviewer struct {
	suggestion *core.ReviewSuggestion
	err        error
	got        []core.ReviewRequest
}

func (f *fakeReviewer) Review(_ context.Context, req core.ReviewRequest) (*core.ReviewSuggestion, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	f.got = append(f.got, req)
	if f.err != nil {
		return nil, f.err
	}
	return f.suggestion, nil
}

func testConfig() *config.Config {
	return &config.Config{Env: "production", ClientURL: "http://localhost:5173"}
}

func postReview(t *testing.T, h *ReviewHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/review", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func TestReviewHandlerSuccess(t *testing.T) {
	reviewer := &fakeReviewer{
		suggestion: &core.ReviewSuggestion{
			ImprovedCode: "const x = 1;",
			Explanation:  "Use const.",
			Category:     core.CategoryBestPractices,
		},
	}
	h := NewReviewHandler(testConfig(), reviewer, slog.New(slog.DiscardHandler))

	rec := postReview(t, h, `{"code": "var x = 1;", "language": "javascript"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var got core.ReviewSuggestion
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "const x = 1;", got.ImprovedCode)
	assert.Equal(t, core.CategoryBestPractices, got.Category)

	require.Len(t, reviewer.got, 1)
	assert.Equal(t, "var x = 1;", reviewer.got[0].Code)
	assert.Equal(t, "javascript", reviewer.got[0].Language)
}

func TestReviewHandlerBadInput(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"code": `},
		{"empty code", `{"code": "", "language": "go"}`},
		{"whitespace code", `{"code": "   ", "language": "go"}`},
		{"missing language", `{"code": "x = 1"}`},
		{"oversized code", `{"code": "` + strings.Repeat("a", core.MaxCodeLength+1) + `", "language": "go"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewReviewHandler(testConfig(), &fakeReviewer{}, slog.New(slog.DiscardHandler))
			rec := postReview(t, h, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestReviewHandlerErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"throttling", core.NewThrottlingError("API rate limit exceeded"), http.StatusTooManyRequests},
		{"configuration", core.NewConfigurationError("missing API key"), http.StatusInternalServerError},
		{"upstream", core.NewUpstreamError("provider failed", nil), http.StatusInternalServerError},
		{"malformed response", core.NewMalformedResponseError("no JSON found"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewReviewHandler(testConfig(), &fakeReviewer{err: tt.err}, slog.New(slog.DiscardHandler))
			rec := postReview(t, h, `{"code": "some reviewable code", "language": "go"}`)
			assert.Equal(t, tt.wantStatus, rec.Code)

			var resp map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp["error"])
			assert.NotContains(t, resp, "detail", "detail is development-only")
		})
	}
}

func TestReviewHandlerDevelopmentDetail(t *testing.T) {
	cfg := testConfig()
	cfg.Env = "development"
	cause := core.NewUpstreamError("provider failed", assertableError("connection reset"))
	h := NewReviewHandler(cfg, &fakeReviewer{err: cause}, slog.New(slog.DiscardHandler))

	rec := postReview(t, h, `{"code": "some reviewable code", "language": "go"}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp["detail"], "connection reset")
}

type assertableError string

func (e assertableError) Error() string { return string(e) }
