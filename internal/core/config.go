package core

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	gh "github.com/paulraju12/github-mcp1/internal/github"
)

const (
	DefaultListenAddr = "0.0.0.0:3005"
	ConfigFileEnv     = "GITHUB_MCP_CONFIG"
)

// Config is the effective runtime configuration.
type Config struct {
	Profile string `yaml:"-"`

	GitHubAPIURL     string        `yaml:"github_api_url"`
	UpstreamTimeout  time.Duration `yaml:"github_timeout"`
	DefaultToken     string        `yaml:"default_token"`
	DefaultTokenFile string        `yaml:"default_token_file"`

	IssuerURL        string        `yaml:"token_issuer_url"`
	IssuerSigningKey string        `yaml:"token_issuer_signing_key"`
	IssuerTimeout    time.Duration `yaml:"token_issuer_timeout"`

	CredentialFallback gh.FallbackPolicy `yaml:"credential_fallback"`
	DefaultTenantID    string            `yaml:"default_tenant_id"`

	ListenAddr string `yaml:"listen"`
	BaseURL    string `yaml:"base_url"`

	ToolAllowlist         string `yaml:"tool_allowlist"`
	RepoAllowlist         string `yaml:"repo_allowlist"`
	ForbiddenPathPrefixes string `yaml:"forbidden_path_prefixes"`

	DatabaseURL  string `yaml:"database_url"`
	LogLevel     string `yaml:"log_level"`
	OTLPEndpoint string `yaml:"otlp_endpoint"`
}

// LoadConfig reads .env (if present) into the process environment and then
// builds the configuration from it.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()
	return LoadConfigFrom(os.Getenv)
}

// LoadConfigFrom layers profile defaults, the optional YAML file named by
// GITHUB_MCP_CONFIG, and environment values read through getenv.
func LoadConfigFrom(getenv func(string) string) (*Config, error) {
	profile, err := LoadProfile(getenv("GITHUB_MCP_PROFILE"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Profile:               profile.Name,
		GitHubAPIURL:          gh.DefaultBaseURL,
		UpstreamTimeout:       time.Duration(profile.UpstreamTimeoutSeconds) * time.Second,
		IssuerTimeout:         time.Duration(profile.IssuerTimeoutSeconds) * time.Second,
		CredentialFallback:    gh.FallbackPolicy(profile.CredentialFallback),
		ListenAddr:            DefaultListenAddr,
		ForbiddenPathPrefixes: profile.PathPolicyForbiddenPrefixes,
		LogLevel:              profile.LogLevel,
	}

	if path := strings.TrimSpace(getenv(ConfigFileEnv)); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	overrideString(getenv, "GITHUB_API_URL", &cfg.GitHubAPIURL)
	overrideString(getenv, "GITHUB_DEFAULT_TOKEN", &cfg.DefaultToken)
	overrideString(getenv, "GITHUB_DEFAULT_TOKEN_FILE", &cfg.DefaultTokenFile)
	overrideString(getenv, "TOKEN_ISSUER_URL", &cfg.IssuerURL)
	overrideString(getenv, "TOKEN_ISSUER_SIGNING_KEY", &cfg.IssuerSigningKey)
	overrideString(getenv, "DEFAULT_TENANT_ID", &cfg.DefaultTenantID)
	overrideString(getenv, "GITHUB_MCP_LISTEN", &cfg.ListenAddr)
	overrideString(getenv, "GITHUB_MCP_BASE_URL", &cfg.BaseURL)
	overrideString(getenv, "TOOL_ALLOWLIST", &cfg.ToolAllowlist)
	overrideString(getenv, "REPO_ALLOWLIST", &cfg.RepoAllowlist)
	overrideString(getenv, "PATH_POLICY_FORBIDDEN_PREFIXES", &cfg.ForbiddenPathPrefixes)
	overrideString(getenv, "DATABASE_URL", &cfg.DatabaseURL)
	overrideString(getenv, "LOG_LEVEL", &cfg.LogLevel)
	overrideString(getenv, "OTEL_EXPORTER_OTLP_ENDPOINT", &cfg.OTLPEndpoint)

	if err := overrideDuration(getenv, "GITHUB_TIMEOUT", &cfg.UpstreamTimeout); err != nil {
		return nil, err
	}
	if err := overrideDuration(getenv, "TOKEN_ISSUER_TIMEOUT", &cfg.IssuerTimeout); err != nil {
		return nil, err
	}
	if raw := strings.TrimSpace(getenv("CREDENTIAL_FALLBACK")); raw != "" {
		cfg.CredentialFallback = gh.FallbackPolicy(raw)
	}

	if err := cfg.finish(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) finish() error {
	policy, err := gh.ParseFallbackPolicy(string(c.CredentialFallback))
	if err != nil {
		return err
	}
	c.CredentialFallback = policy

	if c.UpstreamTimeout <= 0 {
		return fmt.Errorf("invalid github timeout %s: must be positive", c.UpstreamTimeout)
	}
	if c.IssuerTimeout <= 0 {
		return fmt.Errorf("invalid token issuer timeout %s: must be positive", c.IssuerTimeout)
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	if strings.TrimSpace(c.ListenAddr) == "" {
		return fmt.Errorf("listen address must not be empty")
	}

	if c.DefaultToken == "" && c.DefaultTokenFile != "" {
		raw, err := os.ReadFile(c.DefaultTokenFile)
		if err != nil {
			return fmt.Errorf("read default token file: %w", err)
		}
		c.DefaultToken = strings.TrimSpace(string(raw))
	}
	return nil
}

// LogValue keeps secrets out of the startup log.
func (c *Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("profile", c.Profile),
		slog.String("github_api_url", c.GitHubAPIURL),
		slog.Duration("github_timeout", c.UpstreamTimeout),
		slog.Bool("token_issuer_configured", c.IssuerURL != ""),
		slog.Bool("issuer_signing_enabled", c.IssuerSigningKey != ""),
		slog.Bool("default_token_configured", c.DefaultToken != ""),
		slog.String("credential_fallback", string(c.CredentialFallback)),
		slog.Bool("default_tenant_configured", c.DefaultTenantID != ""),
		slog.String("listen", c.ListenAddr),
		slog.String("tool_allowlist", c.ToolAllowlist),
		slog.String("repo_allowlist", c.RepoAllowlist),
		slog.Bool("audit_enabled", c.DatabaseURL != ""),
		slog.String("log_level", c.LogLevel),
	)
}

// ParseLogLevel maps debug|info|warn|error to a slog level.
func ParseLogLevel(raw string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(raw))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q (valid: debug, info, warn, error)", raw)
	}
	return lvl, nil
}

func overrideString(getenv func(string) string, key string, dst *string) {
	if v := strings.TrimSpace(getenv(key)); v != "" {
		*dst = v
	}
}

// overrideDuration accepts Go durations ("45s") or plain seconds ("45").
func overrideDuration(getenv func(string) string, key string, dst *time.Duration) error {
	raw := strings.TrimSpace(getenv(key))
	if raw == "" {
		return nil
	}
	if d, err := time.ParseDuration(raw); err == nil {
		*dst = d
		return nil
	}
	var secs int
	if _, err := fmt.Sscanf(raw, "%d", &secs); err != nil || fmt.Sprint(secs) != raw {
		return fmt.Errorf("invalid %s %q: want a duration like 30s or whole seconds", key, raw)
	}
	*dst = time.Duration(secs) * time.Second
	return nil
}
