// Package http hosts the MCP SSE transport next to the operational endpoints.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/paulraju12/github-mcp1/internal/db"
	mcpserver "github.com/paulraju12/github-mcp1/internal/mcp"
	"github.com/paulraju12/github-mcp1/internal/telemetry"
)

// ToolCallLister reads the audit trail. *db.DB satisfies it.
type ToolCallLister interface {
	ListToolCalls(ctx context.Context, f db.ToolCallFilter) ([]*db.ToolCall, error)
}

type BuildInfo struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildTime string `json:"build_time"`
}

type Options struct {
	Addr string
	// BaseURL is the externally visible origin advertised to SSE clients.
	BaseURL   string
	MCP       *mcpserver.Server
	ToolCalls ToolCallLister
	Logger    *slog.Logger
	Build     BuildInfo
}

type Server struct {
	toolCalls ToolCallLister
	build     BuildInfo
	srv       *http.Server
	logger    *slog.Logger
}

func NewServer(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		toolCalls: opts.ToolCalls,
		build:     opts.Build,
		logger:    logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(telemetry.Middleware("github-mcp"))
	r.Use(func(next http.Handler) http.Handler { return withLogging(logger, next) })

	r.Get("/healthz", s.handleHealthz)
	r.Get("/version", s.handleVersion)
	r.Handle("/metrics", telemetry.Handler())
	r.Get("/api/v1/tool-calls", s.handleListToolCalls)

	if opts.MCP != nil {
		baseURL := opts.BaseURL
		if baseURL == "" {
			baseURL = "http://" + opts.Addr
		}
		sse := opts.MCP.SSEServer(baseURL)
		r.Handle("/sse", sse.SSEHandler())
		r.Handle("/message", sse.MessageHandler())
	}

	// No WriteTimeout: SSE streams stay open for the life of a session.
	s.srv = &http.Server{
		Addr:              opts.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

// Handler exposes the router for tests and embedding.
func (s *Server) Handler() http.Handler { return s.srv.Handler }

func (s *Server) ListenAndServe() error {
	s.logger.Info("http server starting", "addr", s.srv.Addr)
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return err
	}
	if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.build)
}

func (s *Server) handleListToolCalls(w http.ResponseWriter, r *http.Request) {
	if s.toolCalls == nil {
		writeErr(w, http.StatusServiceUnavailable, "audit store not configured")
		return
	}
	filter, err := parseToolCallListFilters(r)
	if err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}
	calls, err := s.toolCalls.ListToolCalls(r.Context(), filter)
	if err != nil {
		s.logger.Error("list tool calls failed", "err", err)
		writeErr(w, http.StatusInternalServerError, "list tool calls failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"tool_calls": calls, "count": len(calls)})
}

func parseToolCallListFilters(r *http.Request) (db.ToolCallFilter, error) {
	q := r.URL.Query()
	f := db.ToolCallFilter{
		Status:   q.Get("status"),
		ToolName: q.Get("tool_name"),
		TenantID: q.Get("tenant_id"),
	}
	if f.Status != "" && f.Status != "ok" && f.Status != "fail" {
		return f, fmt.Errorf("invalid status %q (valid: ok, fail)", f.Status)
	}

	parseTime := func(key string) (*time.Time, error) {
		raw := q.Get(key)
		if raw == "" {
			return nil, nil
		}
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: want RFC3339", key)
		}
		return &t, nil
	}
	var err error
	if f.CreatedAfter, err = parseTime("created_after"); err != nil {
		return f, err
	}
	if f.CreatedBefore, err = parseTime("created_before"); err != nil {
		return f, err
	}
	if f.CreatedAfter != nil && f.CreatedBefore != nil && f.CreatedAfter.After(*f.CreatedBefore) {
		return f, fmt.Errorf("created_after must not be later than created_before")
	}

	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return f, fmt.Errorf("invalid limit %q", raw)
		}
		f.Limit = n
	}
	return f, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func withLogging(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: 200}
		next.ServeHTTP(sw, r)
		logger.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", sw.status,
			"request_id", middleware.GetReqID(r.Context()),
			"duration", fmt.Sprintf("%dms", time.Since(start).Milliseconds()),
		)
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// Flush keeps SSE events streaming through the wrapper.
func (w *statusWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}
