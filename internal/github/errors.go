package github

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is the category of an upstream failure.
type Kind string

const (
	KindValidation     Kind = "validation"
	KindNotFound       Kind = "not_found"
	KindAuthentication Kind = "authentication"
	KindPermission     Kind = "permission"
	KindRateLimit      Kind = "rate_limit"
	KindConflict       Kind = "conflict"
	KindGeneric        Kind = "generic"
)

const defaultErrorMessage = "upstream API error"

// APIError is the single error type produced for upstream failures.
// Values are built by Classify only.
type APIError struct {
	Kind       Kind
	Message    string
	StatusCode int
	// Body is the decoded upstream payload; for validation failures it is the
	// full details object.
	Body any
	// ResetAt is set for rate-limit failures. Empty when unknown.
	ResetAt string

	cause error
}

func (e *APIError) Error() string {
	if e.StatusCode == 0 {
		if e.cause != nil {
			return fmt.Sprintf("github %s: %s: %v", e.Kind, e.Message, e.cause)
		}
		return fmt.Sprintf("github %s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("github %s: HTTP %d: %s", e.Kind, e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error { return e.cause }

// Classify maps a status code and decoded body to an *APIError.
// It never fails and has no side effects.
func Classify(status int, body any) *APIError {
	e := &APIError{
		Kind:       kindForStatus(status),
		Message:    messageOf(body),
		StatusCode: status,
		Body:       body,
	}
	if e.Kind == KindRateLimit {
		if m, ok := body.(map[string]any); ok {
			if v, ok := m["reset_at"].(string); ok {
				e.ResetAt = v
			}
		}
	}
	return e
}

// parseFailureBody stands in for an upstream body that is not valid JSON.
func parseFailureBody() map[string]any {
	return map[string]any{"message": "Failed to parse error response"}
}

// transportError reports a failure that produced no HTTP response.
func transportError(message string, cause error) *APIError {
	e := Classify(0, map[string]any{"message": message})
	e.cause = cause
	return e
}

// noCredentialError is returned when no credential source yields a token.
func noCredentialError(cause error) *APIError {
	e := Classify(http.StatusUnauthorized, map[string]any{"message": "no credential available"})
	e.cause = cause
	return e
}

func kindForStatus(status int) Kind {
	switch status {
	case http.StatusUnauthorized:
		return KindAuthentication
	case http.StatusForbidden:
		return KindPermission
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusConflict:
		return KindConflict
	case http.StatusUnprocessableEntity:
		return KindValidation
	case http.StatusTooManyRequests:
		return KindRateLimit
	default:
		return KindGeneric
	}
}

func messageOf(body any) string {
	if m, ok := body.(map[string]any); ok {
		if msg, ok := m["message"].(string); ok && msg != "" {
			return msg
		}
	}
	return defaultErrorMessage
}

// KindOf returns the category of err, or "" when err is not an *APIError.
func KindOf(err error) Kind {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return ""
}

// IsKind reports whether err is an *APIError of category k.
func IsKind(err error, k Kind) bool {
	return KindOf(err) == k
}

// IsNotFound reports whether err is a not_found upstream failure.
func IsNotFound(err error) bool {
	return IsKind(err, KindNotFound)
}
