package telemetry

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	toolCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "github_mcp_tool_calls_total",
		Help: "Tool calls by tool and outcome.",
	}, []string{"tool", "status"})

	toolDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "github_mcp_tool_duration_seconds",
		Help:    "Tool call latency.",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
	}, []string{"tool"})

	githubAPIErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "github_mcp_github_api_errors_total",
		Help: "Non-2xx and transport failures from the GitHub API.",
	}, []string{"kind", "status"})

	credentialFallbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "github_mcp_credential_fallbacks_total",
		Help: "Calls served with the default credential after the token issuer failed.",
	}, []string{"reason"})

	auditWriteFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "github_mcp_audit_write_failures_total",
		Help: "Tool call audit records that could not be written.",
	})
)

func IncToolCall(toolName, status string) {
	toolCalls.WithLabelValues(toolName, status).Inc()
}

func ObserveToolDuration(toolName string, d time.Duration) {
	toolDuration.WithLabelValues(toolName).Observe(d.Seconds())
}

// IncGitHubAPIError counts an upstream failure. statusCode is 0 for
// failures that never produced a response.
func IncGitHubAPIError(kind string, statusCode int) {
	githubAPIErrors.WithLabelValues(kind, strconv.Itoa(statusCode)).Inc()
}

func IncCredentialFallback(reason string) {
	credentialFallbacks.WithLabelValues(reason).Inc()
}

func IncAuditWriteFailure() {
	auditWriteFailures.Inc()
}

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}
