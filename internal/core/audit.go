package core

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/paulraju12/github-mcp1/internal/db"
	"github.com/paulraju12/github-mcp1/internal/telemetry"
)

// ToolCallStore persists audited tool calls. *db.DB satisfies it.
type ToolCallStore interface {
	InsertToolCall(ctx context.Context, tc *db.ToolCall) error
}

// AuditService records every tool invocation with a SHA-256 evidence hash
// over its arguments. Recording never changes the outcome of a tool call.
type AuditService struct {
	store  ToolCallStore
	logger *slog.Logger
	now    func() time.Time
}

// NewAuditService returns an audit service. A nil store disables persistence.
func NewAuditService(store ToolCallStore, logger *slog.Logger) *AuditService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditService{store: store, logger: logger, now: time.Now}
}

// RecordInput captures what is needed to log a tool call.
type RecordInput struct {
	CallID   string
	ToolName string
	TenantID string
	Request  any
	Err      error
	Duration time.Duration
}

// Record persists a tool call. Storage failures are logged and counted,
// and the built record is returned either way.
func (a *AuditService) Record(ctx context.Context, in RecordInput) *db.ToolCall {
	tc := a.build(in)
	if a == nil || a.store == nil {
		return tc
	}
	if err := a.store.InsertToolCall(ctx, tc); err != nil {
		telemetry.IncAuditWriteFailure()
		a.logger.Warn("audit write failed",
			"call_id", tc.ToolCallID,
			"tool", tc.ToolName,
			"error", err,
		)
	}
	return tc
}

func (a *AuditService) build(in RecordInput) *db.ToolCall {
	now := time.Now
	if a != nil && a.now != nil {
		now = a.now
	}
	id := in.CallID
	if id == "" {
		id = uuid.NewString()
	}

	tc := &db.ToolCall{
		ToolCallID:   id,
		ToolName:     in.ToolName,
		TenantID:     in.TenantID,
		Status:       "ok",
		DurationMS:   in.Duration.Milliseconds(),
		EvidenceHash: evidenceHash(in.ToolName, in.Request),
		CreatedAt:    now().UTC(),
	}
	if in.Err != nil {
		tc.Status = "fail"
		code := MapError(in.Err).Code
		tc.ErrorCode = &code
	}
	return tc
}

func evidenceHash(tool string, request any) string {
	raw, err := json.Marshal(request)
	if err != nil {
		raw = []byte(fmt.Sprintf("%v", request))
	}
	sum := sha256.Sum256(append([]byte(tool+"\n"), raw...))
	return hex.EncodeToString(sum[:])
}
