package github

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/paulraju12/github-mcp1/internal/telemetry"
	"github.com/paulraju12/github-mcp1/internal/tenant"
)

const (
	DefaultBaseURL = "https://api.github.com"
	DefaultTimeout = 30 * time.Second

	acceptHeader = "application/vnd.github.v3+json"
	productName  = "github-mcp"
)

// Request is one upstream call. The executor never mutates it.
type Request struct {
	Method string
	URL    string
	Body   any
	// Header entries are applied after the defaults. Authorization is
	// always set by the executor and cannot be replaced here.
	Header http.Header
	// Token, when set, is used instead of resolving a credential.
	Token string
}

type Client struct {
	baseURL    string
	userAgent  string
	resolver   *Resolver
	httpClient *http.Client
	logger     *slog.Logger
}

type Config struct {
	BaseURL string
	Version string
	Timeout time.Duration
	// Transport overrides the outbound round tripper. It is always wrapped
	// for tracing.
	Transport http.RoundTripper
}

func NewClient(cfg Config, resolver *Resolver, logger *slog.Logger) *Client {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	version := cfg.Version
	if version == "" {
		version = "0.0.0-dev"
	}
	if logger == nil {
		logger = slog.Default()
	}
	if resolver == nil {
		resolver = NewResolver(nil, "", FallbackDegrade, logger)
	}
	return &Client{
		baseURL:   base,
		userAgent: fmt.Sprintf("%s/v%s", productName, strings.TrimPrefix(version, "v")),
		resolver:  resolver,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: telemetry.Transport(cfg.Transport),
		},
		logger: logger,
	}
}

// BaseURL returns the upstream API root without a trailing slash.
func (c *Client) BaseURL() string { return c.baseURL }

// Do executes req exactly once. A 2xx response yields the raw body (nil when
// empty). Any other outcome is an *APIError.
func (c *Client) Do(ctx context.Context, req Request) (json.RawMessage, error) {
	tenantID, _ := tenant.FromContext(ctx)
	token, err := c.resolver.Resolve(ctx, tenantID, req.Token)
	if err != nil {
		return nil, err
	}

	var bodyReader io.Reader
	if req.Body != nil {
		b, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("marshal body: %w", err)
		}
		bodyReader = bytes.NewReader(b)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, bodyReader)
	if err != nil {
		return nil, transportError("build request", err)
	}
	httpReq.Header.Set("Accept", acceptHeader)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)
	for k, vs := range req.Header {
		httpReq.Header.Del(k)
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	httpReq.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		telemetry.IncGitHubAPIError(string(KindGeneric), 0)
		msg := "request failed"
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			msg = "request timed out"
		}
		return nil, transportError(msg, err)
	}
	defer resp.Body.Close()

	raw, readErr := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var body any
		if readErr != nil || json.Unmarshal(raw, &body) != nil {
			body = parseFailureBody()
		}
		apiErr := Classify(resp.StatusCode, body)
		if apiErr.Kind == KindRateLimit && apiErr.ResetAt == "" {
			apiErr.ResetAt = resetFromHeader(resp.Header)
		}
		telemetry.IncGitHubAPIError(string(apiErr.Kind), resp.StatusCode)
		c.logger.Debug("github api error",
			"method", req.Method,
			"status", resp.StatusCode,
			"kind", string(apiErr.Kind),
		)
		return nil, apiErr
	}

	if readErr != nil {
		return nil, transportError("read response", readErr)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}
	if !json.Valid(raw) {
		telemetry.IncGitHubAPIError(string(KindGeneric), resp.StatusCode)
		return nil, transportError("decode response", errors.New("response body is not valid JSON"))
	}
	return json.RawMessage(raw), nil
}

func (c *Client) get(ctx context.Context, url string, out any) error {
	return c.call(ctx, http.MethodGet, url, nil, out)
}

func (c *Client) post(ctx context.Context, url string, body, out any) error {
	return c.call(ctx, http.MethodPost, url, body, out)
}

func (c *Client) put(ctx context.Context, url string, body, out any) error {
	return c.call(ctx, http.MethodPut, url, body, out)
}

func (c *Client) patch(ctx context.Context, url string, body, out any) error {
	return c.call(ctx, http.MethodPatch, url, body, out)
}

func (c *Client) call(ctx context.Context, method, url string, body, out any) error {
	raw, err := c.Do(ctx, Request{Method: method, URL: url, Body: body})
	if err != nil {
		return err
	}
	if out == nil || raw == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s response: %w", method, err)
	}
	return nil
}

// repoURL joins path segments under /repos/{owner}/{repo}.
func (c *Client) repoURL(owner, repo string, parts ...string) string {
	u := fmt.Sprintf("%s/repos/%s/%s", c.baseURL, owner, repo)
	for _, p := range parts {
		u += "/" + p
	}
	return u
}

func resetFromHeader(h http.Header) string {
	v := h.Get("X-RateLimit-Reset")
	if v == "" {
		return ""
	}
	secs, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return ""
	}
	return time.Unix(secs, 0).UTC().Format(time.RFC3339)
}

func isTimeout(err error) bool {
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}
