package http

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestVersionEndpoint(t *testing.T) {
	tests := []struct {
		name  string
		build BuildInfo
	}{
		{name: "unset at build time"},
		{name: "injected by ldflags", build: BuildInfo{
			Version:   "1.2.3",
			GitCommit: "abc123",
			BuildTime: "2026-02-21T12:00:00Z",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewServer(Options{Addr: "127.0.0.1:0", Logger: quietLogger(), Build: tt.build})

			rr := httptest.NewRecorder()
			s.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/version", nil))
			if rr.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", rr.Code)
			}

			var got BuildInfo
			if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
				t.Fatalf("decode response: %v", err)
			}
			if got != tt.build {
				t.Fatalf("build info = %+v, want %+v", got, tt.build)
			}
		})
	}
}
