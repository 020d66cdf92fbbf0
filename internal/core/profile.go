package core

import (
	"fmt"
	"strings"
)

// ProfileDefaults holds environment-specific default configuration values.
// Profiles provide defaults only; explicit settings always override.
type ProfileDefaults struct {
	Name                        string
	LogLevel                    string
	UpstreamTimeoutSeconds      int
	IssuerTimeoutSeconds        int
	CredentialFallback          string
	PathPolicyForbiddenPrefixes string
}

var profiles = map[string]*ProfileDefaults{
	"dev": {
		Name:                        "dev",
		LogLevel:                    "debug",
		UpstreamTimeoutSeconds:      30,
		IssuerTimeoutSeconds:        5,
		CredentialFallback:          "degrade",
		PathPolicyForbiddenPrefixes: "",
	},
	"staging": {
		Name:                        "staging",
		LogLevel:                    "info",
		UpstreamTimeoutSeconds:      30,
		IssuerTimeoutSeconds:        5,
		CredentialFallback:          "degrade",
		PathPolicyForbiddenPrefixes: ".git/",
	},
	"prod": {
		Name:                        "prod",
		LogLevel:                    "info",
		UpstreamTimeoutSeconds:      30,
		IssuerTimeoutSeconds:        5,
		CredentialFallback:          "fail",
		PathPolicyForbiddenPrefixes: ".git/",
	},
}

// LoadProfile returns profile defaults for the given name.
// Empty name defaults to "dev". Unknown names return an error.
func LoadProfile(name string) (*ProfileDefaults, error) {
	name = strings.TrimSpace(strings.ToLower(name))
	if name == "" {
		name = "dev"
	}
	p, ok := profiles[name]
	if !ok {
		return nil, fmt.Errorf("unknown profile %q (valid: dev, staging, prod)", name)
	}
	copy := *p
	return &copy, nil
}
