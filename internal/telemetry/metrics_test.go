package telemetry

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCountersIncrement(t *testing.T) {
	before := testutil.ToFloat64(githubAPIErrors.WithLabelValues("not_found", "404"))
	IncGitHubAPIError("not_found", 404)
	if got := testutil.ToFloat64(githubAPIErrors.WithLabelValues("not_found", "404")); got != before+1 {
		t.Fatalf("want %v, got %v", before+1, got)
	}

	fb := testutil.ToFloat64(credentialFallbacks.WithLabelValues("issuer_error"))
	IncCredentialFallback("issuer_error")
	if got := testutil.ToFloat64(credentialFallbacks.WithLabelValues("issuer_error")); got != fb+1 {
		t.Fatalf("want %v fallbacks, got %v", fb+1, got)
	}
}

func TestHandlerRendersMetrics(t *testing.T) {
	IncToolCall("get_issue", "ok")
	ObserveToolDuration("get_issue", 150*time.Millisecond)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)

	for _, want := range []string{
		`github_mcp_tool_calls_total{status="ok",tool="get_issue"}`,
		`github_mcp_tool_duration_seconds_bucket{tool="get_issue",le="0.5"}`,
	} {
		if !strings.Contains(string(body), want) {
			t.Fatalf("metrics output missing %q", want)
		}
	}
}

func TestSetupTracingDisabled(t *testing.T) {
	shutdown, err := SetupTracing(context.Background(), "", "test")
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}

func TestTransportPassesThrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client := &http.Client{Transport: Transport(nil)}
	resp, err := client.Get(srv.URL)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("want 204, got %d", resp.StatusCode)
	}
}
