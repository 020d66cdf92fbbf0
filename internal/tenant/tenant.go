// Package tenant carries the organization identifier of a single tool call.
//
// A scope is entered once per call and released when the call returns. The
// identifier is attached to the call's context, so concurrent calls never see
// each other's value and nothing outlives the call.
package tenant

import (
	"context"
	"net/http"
	"strings"
	"sync"
)

// HeaderName is the inbound metadata key that names the caller's organization.
const HeaderName = "X-Organization-Id"

type ctxScopeKey struct{}
type ctxRequestedKey struct{}

type scope struct {
	mu       sync.RWMutex
	id       string
	released bool
}

// Enter attaches a fresh scope holding id to ctx. The returned release func
// clears the scope; it is safe to call more than once.
func Enter(ctx context.Context, id string) (context.Context, func()) {
	s := &scope{id: strings.TrimSpace(id)}
	release := func() {
		s.mu.Lock()
		s.id = ""
		s.released = true
		s.mu.Unlock()
	}
	return context.WithValue(ctx, ctxScopeKey{}, s), release
}

// FromContext returns the tenant of the active scope. It reports false when no
// scope was entered, the scope was released, or the scope holds no id.
func FromContext(ctx context.Context) (string, bool) {
	s, ok := ctx.Value(ctxScopeKey{}).(*scope)
	if !ok {
		return "", false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.released || s.id == "" {
		return "", false
	}
	return s.id, true
}

// WithRequested stores the tenant named by inbound call metadata. It is the
// raw header value; the active scope is established later by Enter.
func WithRequested(ctx context.Context, id string) context.Context {
	id = strings.TrimSpace(id)
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, ctxRequestedKey{}, id)
}

// Requested returns the tenant named by inbound metadata, if any.
func Requested(ctx context.Context) string {
	if v, ok := ctx.Value(ctxRequestedKey{}).(string); ok {
		return v
	}
	return ""
}

// FromRequest copies the organization header of r into ctx.
func FromRequest(ctx context.Context, r *http.Request) context.Context {
	return WithRequested(ctx, r.Header.Get(HeaderName))
}
