package github

import (
	"strings"
	"testing"
)

func TestValidateBranchName(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: " feature/x ", want: "feature/x"},
		{in: "release-1.2", want: "release-1.2"},
		{in: "", wantErr: true},
		{in: "a..b", wantErr: true},
		{in: "has space", wantErr: true},
		{in: "bad:colon", wantErr: true},
		{in: "/lead", wantErr: true},
		{in: "trail/", wantErr: true},
		{in: "x.lock", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ValidateBranchName(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("%q: expected error", tt.in)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Fatalf("%q: want %q, got %q (%v)", tt.in, tt.want, got, err)
		}
	}
}

func TestValidateRepositoryName(t *testing.T) {
	for _, ok := range []string{"repo", "My.Repo_2", "a-b"} {
		if _, err := ValidateRepositoryName(ok); err != nil {
			t.Fatalf("%q should be valid: %v", ok, err)
		}
	}
	for _, bad := range []string{"", "  ", ".hidden", "trailing.", "with space", "slash/name", "ünï"} {
		if _, err := ValidateRepositoryName(bad); err == nil {
			t.Fatalf("%q should be rejected", bad)
		}
	}
}

func TestValidateOwnerName(t *testing.T) {
	for _, ok := range []string{"octocat", "Org-1", strings.Repeat("a", 39)} {
		if _, err := ValidateOwnerName(ok); err != nil {
			t.Fatalf("%q should be valid: %v", ok, err)
		}
	}
	for _, bad := range []string{"", "-lead", strings.Repeat("a", 40), "under_score", "é"} {
		if _, err := ValidateOwnerName(bad); err == nil {
			t.Fatalf("%q should be rejected", bad)
		}
	}
}
