package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paulraju12/github-mcp1/internal/db"
	gh "github.com/paulraju12/github-mcp1/internal/github"
)

type memStore struct {
	calls []*db.ToolCall
	err   error
}

func (m *memStore) InsertToolCall(_ context.Context, tc *db.ToolCall) error {
	if m.err != nil {
		return m.err
	}
	m.calls = append(m.calls, tc)
	return nil
}

func TestAuditRecordSuccess(t *testing.T) {
	store := &memStore{}
	audit := NewAuditService(store, nil)
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	audit.now = func() time.Time { return fixed }

	tc := audit.Record(context.Background(), RecordInput{
		CallID:   "call-1",
		ToolName: "get_issue",
		TenantID: "org-1",
		Request:  map[string]any{"owner": "acme", "repo": "api", "issue_number": 7},
		Duration: 1500 * time.Millisecond,
	})

	require.Len(t, store.calls, 1)
	assert.Same(t, tc, store.calls[0])
	assert.Equal(t, "call-1", tc.ToolCallID)
	assert.Equal(t, "ok", tc.Status)
	assert.Nil(t, tc.ErrorCode)
	assert.Equal(t, int64(1500), tc.DurationMS)
	assert.Equal(t, fixed, tc.CreatedAt)
	assert.Len(t, tc.EvidenceHash, 64)
}

func TestAuditRecordFailureCarriesErrorCode(t *testing.T) {
	store := &memStore{}
	audit := NewAuditService(store, nil)

	tc := audit.Record(context.Background(), RecordInput{
		ToolName: "get_issue",
		Err:      gh.Classify(404, map[string]any{"message": "Not Found"}),
	})

	assert.NotEmpty(t, tc.ToolCallID)
	assert.Equal(t, "fail", tc.Status)
	require.NotNil(t, tc.ErrorCode)
	assert.Equal(t, "not_found", *tc.ErrorCode)
}

func TestAuditEvidenceHashDependsOnRequest(t *testing.T) {
	audit := NewAuditService(nil, nil)
	a := audit.Record(context.Background(), RecordInput{ToolName: "t", Request: map[string]any{"x": 1}})
	b := audit.Record(context.Background(), RecordInput{ToolName: "t", Request: map[string]any{"x": 1}})
	c := audit.Record(context.Background(), RecordInput{ToolName: "t", Request: map[string]any{"x": 2}})

	assert.Equal(t, a.EvidenceHash, b.EvidenceHash)
	assert.NotEqual(t, a.EvidenceHash, c.EvidenceHash)
}

func TestAuditStoreFailureDoesNotPanic(t *testing.T) {
	audit := NewAuditService(&memStore{err: errors.New("connection refused")}, nil)
	tc := audit.Record(context.Background(), RecordInput{ToolName: "search_code"})
	assert.Equal(t, "ok", tc.Status)
}

func TestAuditNilServiceIsNoop(t *testing.T) {
	var audit *AuditService
	tc := audit.Record(context.Background(), RecordInput{ToolName: "search_code"})
	assert.Equal(t, "search_code", tc.ToolName)
}
