package mcp

import (
	"slices"
	"strings"

	"github.com/paulraju12/github-mcp1/internal/core"
	gh "github.com/paulraju12/github-mcp1/internal/github"
)

type repoArgs struct {
	Owner string `json:"owner"`
	Repo  string `json:"repo"`
}

func (a *repoArgs) validate() error {
	owner, err := gh.ValidateOwnerName(a.Owner)
	if err != nil {
		return core.Invalid("owner", err)
	}
	repo, err := gh.ValidateRepositoryName(a.Repo)
	if err != nil {
		return core.Invalid("repo", err)
	}
	a.Owner, a.Repo = owner, repo
	return nil
}

func branchArg(field, raw string) (string, error) {
	name, err := gh.ValidateBranchName(raw)
	if err != nil {
		return "", core.Invalid(field, err)
	}
	return name, nil
}

// optionalBranch validates a branch only when one was given.
func optionalBranch(field string, raw *string) (string, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return "", nil
	}
	return branchArg(field, *raw)
}

func required(field, v string) error {
	if strings.TrimSpace(v) == "" {
		return core.Invalidf(field, "is required")
	}
	return nil
}

func positive(field string, n int) error {
	if n <= 0 {
		return core.Invalidf(field, "must be a positive integer, got %d", n)
	}
	return nil
}

func optionalPositive(field string, n *int) error {
	if n == nil {
		return nil
	}
	return positive(field, *n)
}

func oneOf(field string, v *string, allowed ...string) error {
	if v == nil || slices.Contains(allowed, *v) {
		return nil
	}
	return core.Invalidf(field, "must be one of %s, got %q", strings.Join(allowed, ", "), *v)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
