// Package handler provides the HTTP handlers for the application's API.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sevigo/review-mate/internal/core"
)

// errorResponse is the JSON envelope for every failed request.
type errorResponse struct {
	Error   string   `json:"error"`
	Missing []string `json:"missing,omitempty"`
	Detail  string   `json:"detail,omitempty"`
}

// RespondJSON writes v as a JSON response with the given status.
func RespondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// RespondError writes err with the status code of the error taxonomy.
// Diagnostic detail from wrapped causes is included only in development mode.
func RespondError(w http.ResponseWriter, development bool, err error) {
	resp := errorResponse{Error: err.Error()}

	var appErr *core.Error
	if errors.As(err, &appErr) {
		resp.Error = appErr.Message
		resp.Missing = appErr.Missing
		if development {
			resp.Detail = err.Error()
		}
	}

	RespondJSON(w, core.StatusFor(err), resp)
}
