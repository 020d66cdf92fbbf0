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
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/paulraju12/github-mcp1/internal/telemetry"
)

const (
	issuerServiceID      = "github-mcp-service"
	issuerTokenType      = "MCP"
	defaultIssuerTimeout = 5 * time.Second
)

// FallbackPolicy decides what happens when the token issuer fails.
type FallbackPolicy string

const (
	// FallbackDegrade serves the call with the configured default token.
	FallbackDegrade FallbackPolicy = "degrade"
	// FallbackFail rejects the call with an authentication error.
	FallbackFail FallbackPolicy = "fail"
)

// ParseFallbackPolicy accepts "degrade", "fail" or "" (degrade).
func ParseFallbackPolicy(raw string) (FallbackPolicy, error) {
	switch FallbackPolicy(strings.ToLower(strings.TrimSpace(raw))) {
	case "", FallbackDegrade:
		return FallbackDegrade, nil
	case FallbackFail:
		return FallbackFail, nil
	default:
		return "", fmt.Errorf("invalid credential fallback policy %q (valid: degrade, fail)", raw)
	}
}

// Issuer exchanges a tenant id for an upstream credential.
type Issuer interface {
	Exchange(ctx context.Context, tenantID string) (string, error)
}

// HTTPIssuer calls the token issuing service over HTTP.
type HTTPIssuer struct {
	url        string
	signingKey []byte
	timeout    time.Duration
	httpClient *http.Client
}

// NewHTTPIssuer builds an issuer client. When signingKey is non-empty every
// exchange carries a short-lived HS256 service assertion.
func NewHTTPIssuer(url string, signingKey []byte, timeout time.Duration) *HTTPIssuer {
	if timeout <= 0 {
		timeout = defaultIssuerTimeout
	}
	return &HTTPIssuer{
		url:        url,
		signingKey: signingKey,
		timeout:    timeout,
		httpClient: &http.Client{Transport: telemetry.Transport(nil)},
	}
}

type issueTokenRequest struct {
	OrganizationID string `json:"organizationId"`
	ServiceID      string `json:"serviceId"`
	Type           string `json:"type"`
}

type issueTokenResponse struct {
	Token string `json:"token"`
}

// makeJWT signs a service assertion that expires after one minute.
func (i *HTTPIssuer) makeJWT(tenantID string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Issuer:    issuerServiceID,
		Subject:   tenantID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.signingKey)
}

func (i *HTTPIssuer) Exchange(ctx context.Context, tenantID string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, i.timeout)
	defer cancel()

	payload, err := json.Marshal(issueTokenRequest{
		OrganizationID: tenantID,
		ServiceID:      issuerServiceID,
		Type:           issuerTokenType,
	})
	if err != nil {
		return "", fmt.Errorf("marshal issuer request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, i.url, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if len(i.signingKey) > 0 {
		assertion, err := i.makeJWT(tenantID)
		if err != nil {
			return "", fmt.Errorf("sign issuer assertion: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+assertion)
	}

	resp, err := i.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("token issuer HTTP %d: %s", resp.StatusCode, body)
	}

	var tok issueTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}
	if tok.Token == "" {
		return "", errors.New("token issuer response has no token")
	}
	return tok.Token, nil
}

// Resolver picks the credential for one upstream request.
type Resolver struct {
	issuer       Issuer
	defaultToken string
	policy       FallbackPolicy
	logger       *slog.Logger

	// onFallback, when set, is called each time the default token is served
	// because the issuer failed.
	onFallback func(tenantID string, err error)
}

// NewResolver builds a resolver. issuer may be nil, in which case tenant
// calls go straight to the default token.
func NewResolver(issuer Issuer, defaultToken string, policy FallbackPolicy, logger *slog.Logger) *Resolver {
	if policy == "" {
		policy = FallbackDegrade
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		issuer:       issuer,
		defaultToken: strings.TrimSpace(defaultToken),
		policy:       policy,
		logger:       logger,
	}
}

// Resolve returns explicit when given. Otherwise it asks the issuer for
// tenantID's credential and falls back to the default token per policy.
func (r *Resolver) Resolve(ctx context.Context, tenantID, explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}

	if tenantID != "" && r.issuer != nil {
		token, err := r.issuer.Exchange(ctx, tenantID)
		if err == nil {
			return token, nil
		}
		if r.policy == FallbackFail {
			return "", noCredentialError(fmt.Errorf("token issuer: %w", err))
		}
		if r.defaultToken == "" {
			return "", noCredentialError(err)
		}
		r.logger.Warn("token issuer failed, using default credential", "tenant_id", tenantID, "err", err)
		telemetry.IncCredentialFallback(fallbackReason(err))
		if r.onFallback != nil {
			r.onFallback(tenantID, err)
		}
		return r.defaultToken, nil
	}

	if r.defaultToken != "" {
		return r.defaultToken, nil
	}
	return "", noCredentialError(nil)
}

func fallbackReason(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "timeout"
	}
	return "issuer_error"
}
