package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paulraju12/github-mcp1/internal/core"
	"github.com/paulraju12/github-mcp1/internal/db"
	gh "github.com/paulraju12/github-mcp1/internal/github"
	"github.com/paulraju12/github-mcp1/internal/tenant"
)

type upstream struct {
	mu     sync.Mutex
	routes map[string]string
	status map[string]int
	calls  []string
	auth   []string
	bodies map[string]string
}

func newUpstream() *upstream {
	return &upstream{routes: map[string]string{}, status: map[string]int{}, bodies: map[string]string{}}
}

func (u *upstream) on(key string, status int, body string) {
	u.routes[key] = body
	u.status[key] = status
}

func (u *upstream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	key := r.Method + " " + r.URL.Path
	if r.URL.RawQuery != "" {
		key += "?" + r.URL.RawQuery
	}
	body, _ := io.ReadAll(r.Body)

	u.mu.Lock()
	u.calls = append(u.calls, key)
	u.auth = append(u.auth, r.Header.Get("Authorization"))
	u.bodies[key] = string(body)
	resp, ok := u.routes[key]
	status := u.status[key]
	u.mu.Unlock()

	if !ok {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"Not Found"}`))
		return
	}
	w.WriteHeader(status)
	w.Write([]byte(resp))
}

type tenantIssuer map[string]string

func (ti tenantIssuer) Exchange(_ context.Context, tenantID string) (string, error) {
	if tok, ok := ti[tenantID]; ok {
		return tok, nil
	}
	return "", errors.New("unknown tenant")
}

type memStore struct {
	mu    sync.Mutex
	calls []*db.ToolCall
}

func (m *memStore) InsertToolCall(_ context.Context, tc *db.ToolCall) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, tc)
	return nil
}

type harness struct {
	srv      *Server
	upstream *upstream
	store    *memStore
}

func newHarness(t *testing.T, opts Options) *harness {
	t.Helper()
	up := newUpstream()
	ts := httptest.NewServer(up)
	t.Cleanup(ts.Close)

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	resolver := gh.NewResolver(tenantIssuer{"org-a": "token-a", "org-b": "token-b"}, "default-token", gh.FallbackDegrade, logger)
	store := &memStore{}

	opts.GitHub = gh.NewClient(gh.Config{BaseURL: ts.URL, Version: "test"}, resolver, logger)
	opts.Audit = core.NewAuditService(store, logger)
	opts.Logger = logger
	return &harness{srv: NewServer(opts), upstream: up, store: store}
}

func (h *harness) call(t *testing.T, ctx context.Context, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	handler, ok := h.srv.handlers[name]
	require.True(t, ok, "tool %s not registered", name)

	var req mcp.CallToolRequest
	req.Params.Name = name
	req.Params.Arguments = args

	res, err := h.srv.middleware(handler)(ctx, req)
	require.NoError(t, err)
	require.NotNil(t, res)
	return res
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "unexpected content type %T", res.Content[0])
	return text.Text
}

func TestToolCatalogue(t *testing.T) {
	defs := ToolDefinitions()
	require.Len(t, defs, 26)

	seen := map[string]bool{}
	for _, d := range defs {
		assert.False(t, seen[d.Name], "duplicate tool %s", d.Name)
		seen[d.Name] = true
		assert.NotEmpty(t, d.Description, d.Name)
	}
	for _, name := range []string{"create_branch", "push_files", "update_pull_request_branch", "search_users"} {
		assert.True(t, seen[name], name)
	}
}

func TestGetIssueSuccess(t *testing.T) {
	h := newHarness(t, Options{})
	h.upstream.on("GET /repos/acme/api/issues/7", 200, `{"number":7,"title":"bug"}`)

	res := h.call(t, context.Background(), "get_issue", map[string]any{"owner": "acme", "repo": "api", "issue_number": 7})
	assert.False(t, res.IsError)
	assert.JSONEq(t, `{"number":7,"title":"bug"}`, resultText(t, res))
	assert.Equal(t, []string{"Bearer default-token"}, h.upstream.auth)

	require.Len(t, h.store.calls, 1)
	assert.Equal(t, "ok", h.store.calls[0].Status)
	assert.Equal(t, "get_issue", h.store.calls[0].ToolName)
}

func TestErrorCategoriesReachCaller(t *testing.T) {
	tests := []struct {
		status int
		body   string
		prefix string
	}{
		{404, `{"message":"Not Found"}`, "Not Found: Not Found"},
		{401, `{"message":"Bad credentials"}`, "Authentication Failed: Bad credentials"},
		{403, `{"message":"Forbidden"}`, "Permission Denied: Forbidden"},
		{409, `{"message":"Merge conflict"}`, "Conflict: Merge conflict"},
		{422, `{"message":"Validation Failed"}`, "Validation Error: Validation Failed\nDetails:"},
		{429, `{"message":"slow down","reset_at":"2026-01-01T00:00:00Z"}`, "Rate Limit Exceeded: slow down\nResets at: 2026-01-01T00:00:00Z"},
		{500, `{"message":"boom"}`, "GitHub API Error: boom"},
	}
	for _, tt := range tests {
		t.Run(tt.prefix, func(t *testing.T) {
			h := newHarness(t, Options{})
			h.upstream.on("GET /repos/acme/api/pulls/3", tt.status, tt.body)

			res := h.call(t, context.Background(), "get_pull_request", map[string]any{"owner": "acme", "repo": "api", "pull_number": 3})
			assert.True(t, res.IsError)
			assert.True(t, strings.HasPrefix(resultText(t, res), tt.prefix), resultText(t, res))

			require.Len(t, h.store.calls, 1)
			assert.Equal(t, "fail", h.store.calls[0].Status)
		})
	}
}

func TestInvalidInputMakesNoRequest(t *testing.T) {
	tests := map[string]struct {
		tool string
		args map[string]any
	}{
		"unknown field":    {"get_issue", map[string]any{"owner": "acme", "repo": "api", "issue_number": 1, "extra": true}},
		"wrong type":       {"get_issue", map[string]any{"owner": "acme", "repo": "api", "issue_number": "one"}},
		"non positive":     {"get_issue", map[string]any{"owner": "acme", "repo": "api", "issue_number": 0}},
		"bad owner":        {"get_issue", map[string]any{"owner": "-acme", "repo": "api", "issue_number": 1}},
		"bad repo":         {"list_commits", map[string]any{"owner": "acme", "repo": ".hidden"}},
		"bad branch":       {"create_branch", map[string]any{"owner": "acme", "repo": "api", "branch": "a..b"}},
		"missing message":  {"push_files", map[string]any{"owner": "acme", "repo": "api", "branch": "main", "files": []any{map[string]any{"path": "a", "content": "x"}}}},
		"no files":         {"push_files", map[string]any{"owner": "acme", "repo": "api", "branch": "main", "files": []any{}, "message": "m"}},
		"bad state":        {"list_issues", map[string]any{"owner": "acme", "repo": "api", "state": "stale"}},
		"bad merge method": {"merge_pull_request", map[string]any{"owner": "acme", "repo": "api", "pull_number": 1, "merge_method": "octopus"}},
		"empty query":      {"search_code", map[string]any{"q": "  "}},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			h := newHarness(t, Options{})
			res := h.call(t, context.Background(), tt.tool, tt.args)
			assert.True(t, res.IsError)
			assert.True(t, strings.HasPrefix(resultText(t, res), "Invalid input:"), resultText(t, res))
			assert.Empty(t, h.upstream.calls)
		})
	}
}

func TestTenantHeaderSelectsCredential(t *testing.T) {
	h := newHarness(t, Options{})
	h.upstream.on("GET /repos/acme/api/issues/1", 200, `{}`)

	ctx := tenant.WithRequested(context.Background(), "org-b")
	res := h.call(t, ctx, "get_issue", map[string]any{"owner": "acme", "repo": "api", "issue_number": 1})
	require.False(t, res.IsError, resultText(t, res))
	assert.Equal(t, []string{"Bearer token-b"}, h.upstream.auth)
	assert.Equal(t, "org-b", h.store.calls[0].TenantID)
}

func TestDefaultTenantUsedWithoutHeader(t *testing.T) {
	h := newHarness(t, Options{DefaultTenant: "org-a"})
	h.upstream.on("GET /repos/acme/api/issues/1", 200, `{}`)

	h.call(t, context.Background(), "get_issue", map[string]any{"owner": "acme", "repo": "api", "issue_number": 1})
	assert.Equal(t, []string{"Bearer token-a"}, h.upstream.auth)
}

func TestTenantScopeReleasedAfterCall(t *testing.T) {
	h := newHarness(t, Options{DefaultTenant: "org-a"})

	var inside context.Context
	probe := func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		inside = ctx
		id, ok := tenant.FromContext(ctx)
		if !ok || id != "org-a" {
			return nil, errors.New("tenant not visible during call")
		}
		return nil, errors.New("fail after observing tenant")
	}

	var req mcp.CallToolRequest
	req.Params.Name = "probe"
	res, err := h.srv.middleware(probe)(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "Internal Error: fail after observing tenant", resultText(t, res))

	_, ok := tenant.FromContext(inside)
	assert.False(t, ok, "tenant still visible after call returned")
}

func TestConcurrentCallsKeepTheirTenant(t *testing.T) {
	h := newHarness(t, Options{})
	h.upstream.on("GET /repos/acme/api/issues/1", 200, `{}`)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		org := "org-a"
		if i%2 == 1 {
			org = "org-b"
		}
		wg.Add(1)
		go func(org string) {
			defer wg.Done()
			ctx := tenant.WithRequested(context.Background(), org)
			var req mcp.CallToolRequest
			req.Params.Name = "get_issue"
			req.Params.Arguments = map[string]any{"owner": "acme", "repo": "api", "issue_number": 1}
			h.srv.middleware(h.srv.handlers["get_issue"])(ctx, req)
		}(org)
	}
	wg.Wait()

	counts := map[string]int{}
	for _, a := range h.upstream.auth {
		counts[a]++
	}
	assert.Equal(t, map[string]int{"Bearer token-a": 10, "Bearer token-b": 10}, counts)
	assert.Len(t, h.store.calls, 20)
}

func TestPolicyDeniesBeforeUpstream(t *testing.T) {
	policy := core.NewPolicy("acme/*", "get_issue,push_files")
	policy.SetPathPolicy(".github/")
	h := newHarness(t, Options{Policy: policy})

	res := h.call(t, context.Background(), "get_issue", map[string]any{"owner": "other", "repo": "api", "issue_number": 1})
	assert.True(t, strings.HasPrefix(resultText(t, res), "Policy Denied:"))

	res = h.call(t, context.Background(), "list_commits", map[string]any{"owner": "acme", "repo": "api"})
	assert.True(t, strings.HasPrefix(resultText(t, res), "Policy Denied:"))

	res = h.call(t, context.Background(), "push_files", map[string]any{
		"owner": "acme", "repo": "api", "branch": "main", "message": "m",
		"files": []any{map[string]any{"path": ".github/workflows/ci.yml", "content": "x"}},
	})
	assert.True(t, strings.HasPrefix(resultText(t, res), "Policy Denied:"))

	assert.Empty(t, h.upstream.calls)
	for _, tc := range h.store.calls {
		require.NotNil(t, tc.ErrorCode)
		assert.Equal(t, "policy_denied", *tc.ErrorCode)
	}
}

func TestCreateBranchTool(t *testing.T) {
	h := newHarness(t, Options{})
	h.upstream.on("GET /repos/acme/api/git/refs/heads/main", 404, `{"message":"Not Found"}`)
	h.upstream.on("GET /repos/acme/api/git/refs/heads/master", 200, `{"ref":"refs/heads/master","object":{"sha":"abc","type":"commit"}}`)
	h.upstream.on("POST /repos/acme/api/git/refs", 201, `{"ref":"refs/heads/feature","object":{"sha":"abc","type":"commit"}}`)

	res := h.call(t, context.Background(), "create_branch", map[string]any{"owner": "acme", "repo": "api", "branch": "feature"})
	require.False(t, res.IsError, resultText(t, res))

	var ref gh.Ref
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &ref))
	assert.Equal(t, "refs/heads/feature", ref.Ref)
	assert.JSONEq(t, `{"ref":"refs/heads/feature","sha":"abc"}`, h.upstream.bodies["POST /repos/acme/api/git/refs"])
}

func TestPushFilesTool(t *testing.T) {
	h := newHarness(t, Options{})
	h.upstream.on("GET /repos/acme/api/git/refs/heads/main", 200, `{"ref":"refs/heads/main","object":{"sha":"head1","type":"commit"}}`)
	h.upstream.on("POST /repos/acme/api/git/trees", 201, `{"sha":"tree1"}`)
	h.upstream.on("POST /repos/acme/api/git/commits", 201, `{"sha":"commit1","message":"m"}`)
	h.upstream.on("PATCH /repos/acme/api/git/refs/heads/main", 200, `{"ref":"refs/heads/main","object":{"sha":"commit1","type":"commit"}}`)

	res := h.call(t, context.Background(), "push_files", map[string]any{
		"owner": "acme", "repo": "api", "branch": "main", "message": "m",
		"files": []any{map[string]any{"path": "a.txt", "content": "A"}, map[string]any{"path": "b.txt", "content": "B"}},
	})
	require.False(t, res.IsError, resultText(t, res))
	assert.Equal(t, []string{
		"GET /repos/acme/api/git/refs/heads/main",
		"POST /repos/acme/api/git/trees",
		"POST /repos/acme/api/git/commits",
		"PATCH /repos/acme/api/git/refs/heads/main",
	}, h.upstream.calls)
}

func TestUpdatePullRequestBranchTool(t *testing.T) {
	h := newHarness(t, Options{})
	h.upstream.on("PUT /repos/acme/api/pulls/5/update-branch", 202, `{"message":"Updating pull request branch."}`)

	res := h.call(t, context.Background(), "update_pull_request_branch", map[string]any{
		"owner": "acme", "repo": "api", "pull_number": 5, "expected_head_sha": "abc",
	})
	require.False(t, res.IsError, resultText(t, res))
	assert.JSONEq(t, `{"success":true}`, resultText(t, res))
	assert.JSONEq(t, `{"expected_head_sha":"abc"}`, h.upstream.bodies["PUT /repos/acme/api/pulls/5/update-branch"])
}

func TestGetFileContentsDirectory(t *testing.T) {
	h := newHarness(t, Options{})
	h.upstream.on("GET /repos/acme/api/contents/docs?ref=dev", 200, `[{"type":"file","name":"a.md","path":"docs/a.md","sha":"1","size":3}]`)

	res := h.call(t, context.Background(), "get_file_contents", map[string]any{"owner": "acme", "repo": "api", "path": "docs", "branch": "dev"})
	require.False(t, res.IsError, resultText(t, res))

	var entries []gh.FileContent
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "docs/a.md", entries[0].Path)
}

func TestSearchRepositoriesQuery(t *testing.T) {
	h := newHarness(t, Options{})
	h.upstream.on("GET /search/repositories?page=2&q=mcp", 200, `{"total_count":0,"items":[]}`)

	res := h.call(t, context.Background(), "search_repositories", map[string]any{"query": "mcp", "page": 2})
	require.False(t, res.IsError, resultText(t, res))
}
