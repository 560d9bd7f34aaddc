package main

import (
	"github.com/spf13/cobra"

	"symbiosis/internal/mcpserver"
	"symbiosis/internal/version"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server on stdio",
	Long: `Start a Model Context Protocol server over stdio.

Tools:
  - symbiosis_scan: scan a repository and write the report
  - symbiosis_where_to_search: list ranked files from an existing report

Logs go to stderr since stdout carries the protocol.`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	logger := newLogger()
	logger.Info("Starting MCP server", "version", version.Version)
	return mcpserver.Serve(mcpserver.New(logger, version.Version))
}
