package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/paulraju12/github-mcp1/internal/core"
	"github.com/paulraju12/github-mcp1/internal/db"
	gh "github.com/paulraju12/github-mcp1/internal/github"
	httpsvr "github.com/paulraju12/github-mcp1/internal/http"
	mcpsvr "github.com/paulraju12/github-mcp1/internal/mcp"
	"github.com/paulraju12/github-mcp1/internal/telemetry"
)

type serveOptions struct {
	Transport string
	Listen    string
}

func newServeCommand() *cobra.Command {
	opts := &serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the MCP tools",
		Long: `Serve the MCP tools over SSE (default) or stdio.

Example:
  github-mcp serve --listen 127.0.0.1:3005
  github-mcp serve --transport stdio`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.Transport != "sse" && opts.Transport != "stdio" {
				return fmt.Errorf("invalid transport %q: must be sse or stdio", opts.Transport)
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, opts)
		},
	}
	cmd.Flags().StringVar(&opts.Transport, "transport", "sse", "MCP transport (sse|stdio)")
	cmd.Flags().StringVar(&opts.Listen, "listen", "", "listen address, overrides GITHUB_MCP_LISTEN")
	return cmd
}

func runServe(ctx context.Context, opts *serveOptions) error {
	cfg, err := core.LoadConfig()
	if err != nil {
		return err
	}
	if opts.Listen != "" {
		cfg.ListenAddr = opts.Listen
	}

	// stdout carries the protocol under stdio.
	var logOut io.Writer = os.Stdout
	if opts.Transport == "stdio" {
		logOut = os.Stderr
	}
	level, _ := core.ParseLogLevel(cfg.LogLevel)
	logger := slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	logger.Info("effective config", "config", cfg, "transport", opts.Transport)

	shutdownTracing, err := telemetry.SetupTracing(ctx, cfg.OTLPEndpoint, version)
	if err != nil {
		return fmt.Errorf("tracing setup: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		shutdownTracing(sctx)
	}()

	var (
		store  core.ToolCallStore
		lister httpsvr.ToolCallLister
	)
	if cfg.DatabaseURL != "" {
		database, err := db.New(cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("database connection failed: %w", err)
		}
		defer database.Close()
		store, lister = database, database
	}

	var issuer gh.Issuer
	if cfg.IssuerURL != "" {
		issuer = gh.NewHTTPIssuer(cfg.IssuerURL, []byte(cfg.IssuerSigningKey), cfg.IssuerTimeout)
	}
	if issuer == nil && cfg.DefaultToken == "" {
		logger.Warn("no token issuer and no default token configured; upstream calls will fail authentication")
	}
	resolver := gh.NewResolver(issuer, cfg.DefaultToken, cfg.CredentialFallback, logger)
	client := gh.NewClient(gh.Config{
		BaseURL: cfg.GitHubAPIURL,
		Version: version,
		Timeout: cfg.UpstreamTimeout,
	}, resolver, logger)

	policy := core.NewPolicy(cfg.RepoAllowlist, cfg.ToolAllowlist)
	policy.SetPathPolicy(cfg.ForbiddenPathPrefixes)

	mcpServer := mcpsvr.NewServer(mcpsvr.Options{
		Version:       version,
		GitHub:        client,
		Policy:        policy,
		Audit:         core.NewAuditService(store, logger),
		Logger:        logger,
		DefaultTenant: cfg.DefaultTenantID,
	})

	if opts.Transport == "stdio" {
		logger.Info("mcp stdio transport starting")
		if err := mcpServer.ServeStdio(ctx, os.Stdin, os.Stdout); err != nil && ctx.Err() == nil {
			return err
		}
		return nil
	}

	httpServer := httpsvr.NewServer(httpsvr.Options{
		Addr:      cfg.ListenAddr,
		BaseURL:   cfg.BaseURL,
		MCP:       mcpServer,
		ToolCalls: lister,
		Logger:    logger,
		Build:     buildInfo(),
	})

	errCh := make(chan error, 1)
	go func() { errCh <- httpServer.ListenAndServe() }()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", "err", err)
			return err
		}
	}

	sctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(sctx); err != nil {
		logger.Error("http shutdown", "err", err)
	}
	logger.Info("shutdown complete")
	return nil
}
