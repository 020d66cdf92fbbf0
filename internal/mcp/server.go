// Package mcp exposes the GitHub client as MCP tools.
package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/paulraju12/github-mcp1/internal/core"
	gh "github.com/paulraju12/github-mcp1/internal/github"
	"github.com/paulraju12/github-mcp1/internal/telemetry"
	"github.com/paulraju12/github-mcp1/internal/tenant"
)

const ServerName = "github-mcp-server"

// Options configures a Server.
type Options struct {
	Version       string
	GitHub        *gh.Client
	Policy        *core.Policy
	Audit         *core.AuditService
	Logger        *slog.Logger
	DefaultTenant string
}

type Server struct {
	gh            *gh.Client
	policy        *core.Policy
	audit         *core.AuditService
	logger        *slog.Logger
	defaultTenant string

	mcp      *server.MCPServer
	handlers map[string]server.ToolHandlerFunc
}

func NewServer(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	policy := opts.Policy
	if policy == nil {
		policy = core.NewPolicy("", "")
	}

	s := &Server{
		gh:            opts.GitHub,
		policy:        policy,
		audit:         opts.Audit,
		logger:        logger,
		defaultTenant: opts.DefaultTenant,
		handlers:      make(map[string]server.ToolHandlerFunc),
	}

	s.mcp = server.NewMCPServer(ServerName, opts.Version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
		server.WithToolHandlerMiddleware(s.middleware),
	)
	for _, t := range s.tools() {
		s.handlers[t.Tool.Name] = t.Handler
		s.mcp.AddTool(t.Tool, t.Handler)
	}
	return s
}

// MCPServer returns the underlying protocol server.
func (s *Server) MCPServer() *server.MCPServer { return s.mcp }

// SSEServer returns an SSE transport that copies the tenant header of each
// inbound message into the call context.
func (s *Server) SSEServer(baseURL string) *server.SSEServer {
	return server.NewSSEServer(s.mcp,
		server.WithBaseURL(baseURL),
		server.WithSSEContextFunc(tenant.FromRequest),
	)
}

// ServeStdio serves the tools over stdin/stdout until ctx is done.
func (s *Server) ServeStdio(ctx context.Context, in io.Reader, out io.Writer) error {
	stdio := server.NewStdioServer(s.mcp)
	stdio.SetErrorLogger(log.New(&slogWriter{logger: s.logger}, "", 0))
	return stdio.Listen(ctx, in, out)
}

// middleware wraps every tool handler. It scopes the tenant for the length
// of the call, enforces policy, and records the outcome.
func (s *Server) middleware(next server.ToolHandlerFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name := req.Params.Name
		callID := uuid.NewString()
		start := time.Now()

		tenantID := tenant.Requested(ctx)
		if tenantID == "" {
			tenantID = s.defaultTenant
		}
		release := func() {}
		if tenantID != "" {
			ctx, release = tenant.Enter(ctx, tenantID)
		}
		defer release()

		args := req.GetArguments()
		var (
			res *mcp.CallToolResult
			err error
		)
		if err = s.checkPolicy(name, args); err == nil {
			res, err = next(ctx, req)
		}
		elapsed := time.Since(start)

		status := "ok"
		if err != nil {
			status = "fail"
		}
		telemetry.IncToolCall(name, status)
		telemetry.ObserveToolDuration(name, elapsed)
		s.audit.Record(context.WithoutCancel(ctx), core.RecordInput{
			CallID:   callID,
			ToolName: name,
			TenantID: tenantID,
			Request:  args,
			Err:      err,
			Duration: elapsed,
		})

		attrs := []any{
			"call_id", callID,
			"tool_name", name,
			"tenant_id", tenantID,
			"status", status,
			"duration", elapsed,
		}
		if err != nil {
			info := core.MapError(err)
			s.logger.Warn("tool call failed", append(attrs, "kind", info.Code, "err", err)...)
			return mcp.NewToolResultError(core.FormatError(err)), nil
		}
		s.logger.Info("tool call completed", attrs...)
		return res, nil
	}
}

// checkPolicy runs before any upstream request is made.
func (s *Server) checkPolicy(name string, args map[string]any) error {
	if err := s.policy.CheckTool(name); err != nil {
		return err
	}
	owner, _ := args["owner"].(string)
	repo, _ := args["repo"].(string)
	if owner != "" && repo != "" {
		if err := s.policy.CheckRepo(owner, repo); err != nil {
			return err
		}
	}
	if writesFiles[name] {
		return s.policy.CheckPaths(pathsOf(args))
	}
	return nil
}

var writesFiles = map[string]bool{
	"create_or_update_file": true,
	"push_files":            true,
}

func pathsOf(args map[string]any) []string {
	var paths []string
	if p, ok := args["path"].(string); ok {
		paths = append(paths, p)
	}
	files, _ := args["files"].([]any)
	for _, f := range files {
		if m, ok := f.(map[string]any); ok {
			if p, ok := m["path"].(string); ok {
				paths = append(paths, p)
			}
		}
	}
	return paths
}

// bind decodes the call arguments into dst. Unknown fields and type
// mismatches are input errors.
func bind(req mcp.CallToolRequest, dst any) error {
	raw, err := json.Marshal(req.GetArguments())
	if err != nil {
		return core.Invalidf("arguments", "not encodable: %v", err)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return core.Invalid("arguments", err)
	}
	return nil
}

// jsonResult renders v as the text content of a successful result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	if raw, ok := v.(json.RawMessage); ok {
		if len(raw) == 0 {
			raw = json.RawMessage("null")
		}
		return mcp.NewToolResultText(string(raw)), nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}
	return mcp.NewToolResultText(string(b)), nil
}

type slogWriter struct {
	logger *slog.Logger
}

func (w *slogWriter) Write(p []byte) (int, error) {
	w.logger.Error("stdio transport", "err", string(bytes.TrimSpace(p)))
	return len(p), nil
}
