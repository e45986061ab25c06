package core

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrorKind classifies a failure so the HTTP boundary can pick a status code
// and callers can decide whether retrying makes sense.
type ErrorKind int

const (
	// KindValidation means the caller sent bad input and must fix the request.
	KindValidation ErrorKind = iota
	// KindAuthentication means the credential is missing, invalid or expired.
	// Callers should re-authenticate, never retry with the same token.
	KindAuthentication
	// KindConflict means a branch name collision; retrying the whole
	// operation produces a fresh timestamp and succeeds.
	KindConflict
	// KindThrottling means a local or upstream rate limit; back off and retry.
	KindThrottling
	// KindConfiguration means the server is missing required secrets. This is
	// operator-fixable, not user-fixable.
	KindConfiguration
	// KindUpstream is a generic third-party failure; the provider message is
	// passed through for diagnosis.
	KindUpstream
	// KindMalformedResponse means the AI output survived none of the parsing
	// strategies. Treated as upstream by callers but distinguished for logs.
	KindMalformedResponse
)

// Error is the application error type. Every failure that crosses a package
// boundary is one of these, possibly wrapping a lower-level cause.
type Error struct {
	Kind    ErrorKind
	Message string
	// Missing holds the names of absent required fields for validation errors
	// produced by the publisher's fail-fast check.
	Missing []string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if len(e.Missing) > 0 {
		msg = fmt.Sprintf("%s: %s", msg, strings.Join(e.Missing, ", "))
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewValidationError reports bad caller input.
func NewValidationError(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// NewMissingFieldsError reports a request with absent required fields,
// enumerating exactly which ones.
func NewMissingFieldsError(fields ...string) *Error {
	return &Error{Kind: KindValidation, Message: "missing required fields", Missing: fields}
}

// NewAuthenticationError reports a missing, invalid or expired credential.
func NewAuthenticationError(message string) *Error {
	return &Error{Kind: KindAuthentication, Message: message}
}

// NewConflictError reports a branch-name collision.
func NewConflictError(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

// NewThrottlingError reports a rate limit, local or upstream.
func NewThrottlingError(message string) *Error {
	return &Error{Kind: KindThrottling, Message: message}
}

// NewConfigurationError reports missing server configuration.
func NewConfigurationError(message string) *Error {
	return &Error{Kind: KindConfiguration, Message: message}
}

// NewUpstreamError reports a third-party failure, keeping the cause for
// diagnosis.
func NewUpstreamError(message string, err error) *Error {
	return &Error{Kind: KindUpstream, Message: message, Err: err}
}

// NewMalformedResponseError reports AI output that failed all parsing
// strategies.
func NewMalformedResponseError(message string) *Error {
	return &Error{Kind: KindMalformedResponse, Message: message}
}

// KindOf extracts the kind of err. Unclassified errors count as upstream.
func KindOf(err error) ErrorKind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUpstream
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == kind
}

// StatusFor maps an error to the HTTP status code of the taxonomy.
func StatusFor(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindConflict:
		return http.StatusConflict
	case KindThrottling:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
