package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/paulraju12/github-mcp1/internal/mcp"
)

func main() {
	defs := mcp.ToolDefinitions()
	sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })

	fmt.Fprintln(os.Stdout, "# MCP Tools (Generated)")
	fmt.Fprintln(os.Stdout)
	fmt.Fprintln(os.Stdout, "This file is generated from `internal/mcp/tools.go` by `go run ./cmd/mcpdocgen`.")
	fmt.Fprintln(os.Stdout)

	for _, d := range defs {
		fmt.Fprintf(os.Stdout, "- `%s`\n", d.Name)
		if d.Description != "" {
			fmt.Fprintf(os.Stdout, "  - Description: %s\n", d.Description)
		}

		requiredSet := make(map[string]bool, len(d.InputSchema.Required))
		for _, r := range d.InputSchema.Required {
			requiredSet[r] = true
		}

		keys := make([]string, 0, len(d.InputSchema.Properties))
		for k := range d.InputSchema.Properties {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		if len(keys) > 0 {
			fmt.Fprintln(os.Stdout, "  - Input:")
			for _, k := range keys {
				req := "optional"
				if requiredSet[k] {
					req = "required"
				}
				typ := ""
				if prop, ok := d.InputSchema.Properties[k].(map[string]any); ok {
					typ, _ = prop["type"].(string)
				}
				fmt.Fprintf(os.Stdout, "    - `%s` (%s, %s)\n", k, typ, req)
			}
		}
		fmt.Fprintln(os.Stdout)
	}
}
