package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	httpsvr "github.com/paulraju12/github-mcp1/internal/http"
)

// Set through -ldflags at build time.
var (
	version   = ""
	gitCommit = ""
	buildTime = ""
)

func buildInfo() httpsvr.BuildInfo {
	return httpsvr.BuildInfo{Version: version, GitCommit: gitCommit, BuildTime: buildTime}
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "github-mcp",
		Short: "GitHub REST API exposed as MCP tools",
		Long: `github-mcp serves GitHub repository, issue, pull request and search
operations as Model Context Protocol tools. Each call resolves an upstream
credential for the tenant named in the X-Organization-Id header.`,
		SilenceUsage: true,
	}
	cmd.AddCommand(newServeCommand())
	cmd.AddCommand(newVersionCommand())
	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(buildInfo())
		},
	}
}
