package core

import (
	"fmt"
	"path"
	"strings"
)

// PolicyError is returned when a call is refused by local policy.
type PolicyError struct {
	Reason string
}

func (e *PolicyError) Error() string     { return e.Reason }
func (e *PolicyError) ErrorCode() string { return "policy_denied" }

// Policy enforces tool and repo allowlists plus forbidden write paths,
// parsed from comma-separated settings.
type Policy struct {
	allowedRepos          map[string]bool
	allowedTools          map[string]bool
	forbiddenPathPrefixes []string
}

// NewPolicy creates a Policy from comma-separated allowlist strings.
// An empty allowlist places no restriction on that dimension.
func NewPolicy(repoCSV, toolCSV string) *Policy {
	return &Policy{
		allowedRepos:          parseCSV(strings.ToLower(repoCSV)),
		allowedTools:          parseCSV(toolCSV),
		forbiddenPathPrefixes: make([]string, 0),
	}
}

func (p *Policy) SetPathPolicy(forbiddenCSV string) {
	p.forbiddenPathPrefixes = parsePrefixesCSV(forbiddenCSV)
}

// CheckRepo returns an error if owner/repo is not in the allowlist.
// Entries may name a whole owner as "owner/*".
func (p *Policy) CheckRepo(owner, repo string) error {
	if len(p.allowedRepos) == 0 {
		return nil
	}
	full := strings.ToLower(owner + "/" + repo)
	if p.allowedRepos[full] || p.allowedRepos[strings.ToLower(owner)+"/*"] {
		return nil
	}
	return &PolicyError{Reason: fmt.Sprintf("repo %q not in allowlist", owner+"/"+repo)}
}

// CheckTool returns an error if toolName is not in the allowlist.
func (p *Policy) CheckTool(toolName string) error {
	if len(p.allowedTools) == 0 {
		return nil
	}
	if !p.allowedTools[toolName] {
		return &PolicyError{Reason: fmt.Sprintf("tool %q not in allowlist", toolName)}
	}
	return nil
}

// CheckPaths rejects writes under a forbidden prefix.
func (p *Policy) CheckPaths(paths []string) error {
	for _, raw := range paths {
		clean := cleanPath(raw)
		for _, prefix := range p.forbiddenPathPrefixes {
			if strings.HasPrefix(clean, prefix) {
				return &PolicyError{Reason: fmt.Sprintf("path %q forbidden by policy", raw)}
			}
		}
	}
	return nil
}

func parseCSV(s string) map[string]bool {
	m := make(map[string]bool)
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			m[item] = true
		}
	}
	return m
}

func parsePrefixesCSV(s string) []string {
	out := make([]string, 0)
	for _, item := range strings.Split(s, ",") {
		item = normalizePath(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}

// cleanPath resolves dot segments so a write cannot step into a forbidden
// prefix through "..".
func cleanPath(s string) string {
	s = normalizePath(s)
	if s == "" {
		return s
	}
	return strings.TrimPrefix(path.Clean("/"+s), "/")
}

func normalizePath(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "./")
	s = strings.TrimPrefix(s, "/")
	return s
}
