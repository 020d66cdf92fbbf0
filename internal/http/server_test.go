package http

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paulraju12/github-mcp1/internal/db"
	mcpserver "github.com/paulraju12/github-mcp1/internal/mcp"
)

type fakeLister struct {
	got  db.ToolCallFilter
	rows []*db.ToolCall
	err  error
}

func (f *fakeLister) ListToolCalls(_ context.Context, filter db.ToolCallFilter) ([]*db.ToolCall, error) {
	f.got = filter
	return f.rows, f.err
}

func serve(t *testing.T, s *Server, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, httptest.NewRequest(method, target, nil))
	return rr
}

func TestHealthz(t *testing.T) {
	s := NewServer(Options{Addr: "127.0.0.1:0", Logger: quietLogger()})
	rr := serve(t, s, http.MethodGet, "/healthz")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	s := NewServer(Options{Addr: "127.0.0.1:0", Logger: quietLogger()})
	rr := serve(t, s, http.MethodGet, "/metrics")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "go_goroutines")
}

func TestListToolCalls(t *testing.T) {
	lister := &fakeLister{rows: []*db.ToolCall{{ToolCallID: "c1", ToolName: "get_issue", Status: "ok"}}}
	s := NewServer(Options{Addr: "127.0.0.1:0", Logger: quietLogger(), ToolCalls: lister})

	rr := serve(t, s, http.MethodGet, "/api/v1/tool-calls?status=ok&tenant_id=org-1")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "org-1", lister.got.TenantID)

	var body struct {
		Count     int            `json:"count"`
		ToolCalls []*db.ToolCall `json:"tool_calls"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Count)
	assert.Equal(t, "c1", body.ToolCalls[0].ToolCallID)
}

func TestListToolCallsErrors(t *testing.T) {
	s := NewServer(Options{Addr: "127.0.0.1:0", Logger: quietLogger()})
	assert.Equal(t, http.StatusServiceUnavailable, serve(t, s, http.MethodGet, "/api/v1/tool-calls").Code)

	s = NewServer(Options{Addr: "127.0.0.1:0", Logger: quietLogger(), ToolCalls: &fakeLister{}})
	assert.Equal(t, http.StatusBadRequest, serve(t, s, http.MethodGet, "/api/v1/tool-calls?status=maybe").Code)

	s = NewServer(Options{Addr: "127.0.0.1:0", Logger: quietLogger(), ToolCalls: &fakeLister{err: errors.New("db down")}})
	assert.Equal(t, http.StatusInternalServerError, serve(t, s, http.MethodGet, "/api/v1/tool-calls").Code)
}

func TestSSEAdvertisesMessageEndpoint(t *testing.T) {
	mcp := mcpserver.NewServer(mcpserver.Options{Version: "test", Logger: quietLogger()})
	s := NewServer(Options{Addr: "127.0.0.1:0", BaseURL: "http://mcp.example", MCP: mcp, Logger: quietLogger()})

	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/sse", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/event-stream")

	sc := bufio.NewScanner(resp.Body)
	var data string
	for sc.Scan() {
		if line := sc.Text(); strings.HasPrefix(line, "data:") {
			data = strings.TrimSpace(strings.TrimPrefix(line, "data:"))
			break
		}
	}
	assert.True(t, strings.HasPrefix(data, "http://mcp.example/message?sessionId="), data)
}
