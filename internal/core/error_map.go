package core

import (
	"encoding/json"
	"errors"
	"fmt"

	gh "github.com/paulraju12/github-mcp1/internal/github"
)

// CodedError is implemented by domain errors that carry a machine-readable code.
type CodedError interface {
	error
	ErrorCode() string
}

// InputError marks a tool argument that failed local validation. No
// upstream request is made for such calls.
type InputError struct {
	Field string
	Err   error
}

func (e *InputError) Error() string {
	if e.Field == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *InputError) Unwrap() error     { return e.Err }
func (e *InputError) ErrorCode() string { return "invalid_input" }

// Invalid builds an InputError for field.
func Invalid(field string, err error) error {
	return &InputError{Field: field, Err: err}
}

// Invalidf builds an InputError with a formatted message.
func Invalidf(field, format string, args ...any) error {
	return &InputError{Field: field, Err: fmt.Errorf(format, args...)}
}

type ErrorInfo struct {
	Code    string
	Message string
}

// MapError reduces err to a stable code and message for logs, metrics and
// the audit trail.
func MapError(err error) ErrorInfo {
	if err == nil {
		return ErrorInfo{Code: "ok"}
	}

	var apiErr *gh.APIError
	if errors.As(err, &apiErr) {
		return ErrorInfo{Code: string(apiErr.Kind), Message: apiErr.Message}
	}

	var coded CodedError
	if errors.As(err, &coded) {
		return ErrorInfo{Code: coded.ErrorCode(), Message: err.Error()}
	}

	return ErrorInfo{Code: "internal_error", Message: err.Error()}
}

// FormatError renders err as the text a tool caller sees. The leading
// category label is stable and safe to match on.
func FormatError(err error) string {
	var apiErr *gh.APIError
	if errors.As(err, &apiErr) {
		return formatAPIError(apiErr)
	}

	var coded CodedError
	if errors.As(err, &coded) {
		switch coded.ErrorCode() {
		case "invalid_input":
			return "Invalid input: " + err.Error()
		case "policy_denied":
			return "Policy Denied: " + err.Error()
		}
	}
	return "Internal Error: " + err.Error()
}

func formatAPIError(e *gh.APIError) string {
	switch e.Kind {
	case gh.KindValidation:
		msg := "Validation Error: " + e.Message
		if e.Body != nil {
			if details, err := json.Marshal(e.Body); err == nil {
				msg += "\nDetails: " + string(details)
			}
		}
		return msg
	case gh.KindNotFound:
		return "Not Found: " + e.Message
	case gh.KindAuthentication:
		return "Authentication Failed: " + e.Message
	case gh.KindPermission:
		return "Permission Denied: " + e.Message
	case gh.KindRateLimit:
		return fmt.Sprintf("Rate Limit Exceeded: %s\nResets at: %s", e.Message, e.ResetAt)
	case gh.KindConflict:
		return "Conflict: " + e.Message
	default:
		return "GitHub API Error: " + e.Message
	}
}
