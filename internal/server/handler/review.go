package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sevigo/review-mate/internal/config"
	"github.com/sevigo/review-mate/internal/core"
	"github.com/sevigo/review-mate/internal/llm"
)

// ReviewHandler serves POST /api/review.
type ReviewHandler struct {
	cfg      *config.Config
	reviewer llm.Reviewer
	logger   *slog.Logger
}

// NewReviewHandler creates a review handler.
func NewReviewHandler(cfg *config.Config, reviewer llm.Reviewer, logger *slog.Logger) *ReviewHandler {
	return &ReviewHandler{cfg: cfg, reviewer: reviewer, logger: logger}
}

// Handle runs one AI review for the posted code and language.
func (h *ReviewHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var req core.ReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondError(w, h.cfg.Development(), core.NewValidationError("request body must be valid JSON"))
		return
	}

	h.logger.Info("review request received", "language", req.Language, "chars", len(req.Code))

	suggestion, err := h.reviewer.Review(r.Context(), req)
	if err != nil {
		h.logger.Error("review failed", "language", req.Language, "error", err)
		RespondError(w, h.cfg.Development(), err)
		return
	}

	h.logger.Info("review completed", "category", suggestion.Category)
	RespondJSON(w, http.StatusOK, suggestion)
}
