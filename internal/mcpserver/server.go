// Package mcpserver exposes scans and report lookups as MCP tools over stdio.
package mcpserver

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/server"

	"symbiosis/internal/advisor"
)

const instructions = "Symbiosis scans a repository for LLM integration surfaces " +
	"(prompts, tool calling, telemetry, retrieval, evaluation, on-device platforms). " +
	"Call symbiosis_scan to produce a report, then symbiosis_where_to_search to list " +
	"the ranked files of one category from that report."

// New creates the MCP server with every tool registered.
func New(logger *slog.Logger, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"symbiosis",
		version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(instructions),
	)

	scanTool := NewScanTool(advisor.New(logger))
	s.AddTool(scanTool.Definition(), scanTool.Handle)

	whereTool := NewWhereTool()
	s.AddTool(whereTool.Definition(), whereTool.Handle)

	return s
}

// Serve runs the server on stdin/stdout until the client disconnects.
func Serve(s *server.MCPServer) error {
	return server.ServeStdio(s)
}
