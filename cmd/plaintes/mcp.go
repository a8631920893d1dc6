// Copyright 2026 The Plaintes Authors
// SPDX-License-Identifier: MIT

package main

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/observatoire/plaintes/internal/mcpserver"
)

var mcpOffline bool

// mcpCmd is the parent command for MCP-related subcommands.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Model Context Protocol server commands",
	Long:  "Commands for running plaintes as an MCP server, exposing the statistics transforms to AI agents.",
}

// mcpServeCmd runs the MCP server over stdio.
var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP server over stdio",
	Long: `Start an MCP server on stdin/stdout, exposing these tools:
  - rank_buckets:       aggregate and rank complaint counts
  - classify_trend:     classify a percentage change
  - bucket_priority:    map a priority score to an urgency tier
  - resolve_range:      resolve or match a reporting period
  - export_csv:         encode rows as CSV, optionally to a file
  - dashboard_snapshot: fetch the statistics report (not with --offline)`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		e, err := loadEnv()
		if err != nil {
			return err
		}
		opts := []mcpserver.Option{mcpserver.WithCatalog(e.catalog), mcpserver.WithClock(nowFunc)}
		if !mcpOffline {
			client, err := e.client()
			if err != nil {
				return err
			}
			opts = append(opts, mcpserver.WithSource(client))
		}
		return mcpserver.Run(cmd.Context(), Version, &mcp.StdioTransport{}, opts...)
	},
}

func init() {
	mcpServeCmd.Flags().BoolVar(&mcpOffline, "offline", false, "do not expose tools that call the backend")
	mcpCmd.AddCommand(mcpServeCmd)
}
