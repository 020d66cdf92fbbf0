package github

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyStatusTable(t *testing.T) {
	tests := []struct {
		status int
		want   Kind
	}{
		{401, KindAuthentication},
		{403, KindPermission},
		{404, KindNotFound},
		{409, KindConflict},
		{422, KindValidation},
		{429, KindRateLimit},
		{400, KindGeneric},
		{500, KindGeneric},
		{502, KindGeneric},
		{0, KindGeneric},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("status %d", tt.status), func(t *testing.T) {
			got := Classify(tt.status, map[string]any{"message": "boom"})
			assert.Equal(t, tt.want, got.Kind)
			assert.Equal(t, "boom", got.Message)
			assert.Equal(t, tt.status, got.StatusCode)
		})
	}
}

func TestClassifyMessageDefaults(t *testing.T) {
	assert.Equal(t, "upstream API error", Classify(500, nil).Message)
	assert.Equal(t, "upstream API error", Classify(500, "plain text").Message)
	assert.Equal(t, "upstream API error", Classify(500, []any{"x"}).Message)
	assert.Equal(t, "upstream API error", Classify(500, map[string]any{"message": 42}).Message)
}

func TestClassifyValidationKeepsDetails(t *testing.T) {
	body := map[string]any{
		"message": "Validation Failed",
		"errors":  []any{map[string]any{"field": "title", "code": "missing"}},
	}
	e := Classify(422, body)
	assert.Equal(t, KindValidation, e.Kind)
	assert.Equal(t, body, e.Body)
}

func TestClassifyRateLimitReset(t *testing.T) {
	e := Classify(429, map[string]any{"message": "slow down", "reset_at": "2024-01-01T00:00:00Z"})
	assert.Equal(t, KindRateLimit, e.Kind)
	assert.Equal(t, "2024-01-01T00:00:00Z", e.ResetAt)

	noReset := Classify(429, "not a mapping")
	assert.Equal(t, "", noReset.ResetAt)
}

func TestParseFailureBodyClassification(t *testing.T) {
	e := Classify(500, parseFailureBody())
	assert.Equal(t, KindGeneric, e.Kind)
	assert.Equal(t, "Failed to parse error response", e.Message)
}

func TestKindHelpers(t *testing.T) {
	notFound := fmt.Errorf("lookup: %w", Classify(404, nil))
	assert.True(t, IsNotFound(notFound))
	assert.Equal(t, KindNotFound, KindOf(notFound))
	assert.False(t, IsNotFound(errors.New("plain")))
	assert.Equal(t, Kind(""), KindOf(nil))
}

func TestTransportErrorUnwraps(t *testing.T) {
	e := transportError("request failed", context.DeadlineExceeded)
	require.Equal(t, KindGeneric, e.Kind)
	assert.True(t, errors.Is(e, context.DeadlineExceeded))
	assert.Contains(t, e.Error(), "request failed")
}

func TestNoCredentialErrorIsAuthentication(t *testing.T) {
	e := noCredentialError(nil)
	assert.Equal(t, KindAuthentication, e.Kind)
	assert.Equal(t, "no credential available", e.Message)
}
