package mcpserver

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"symbiosis/internal/hotspots"
	"symbiosis/internal/report"
)

const defaultWhereLimit = 25

// WhereTool handles the symbiosis_where_to_search MCP tool. It reads an
// existing report and never scans.
type WhereTool struct{}

// NewWhereTool creates a WhereTool.
func NewWhereTool() *WhereTool {
	return &WhereTool{}
}

// Definition returns the MCP tool definition for registration.
func (t *WhereTool) Definition() mcp.Tool {
	return mcp.NewTool("symbiosis_where_to_search",
		mcp.WithDescription(
			"List the highest-ranked files of one category from an existing symbiosis report. "+
				"Categories: "+strings.Join(hotspots.SectionNames, ", ")+".",
		),
		mcp.WithString("report",
			mcp.Required(),
			mcp.Description("Path to symbiosis_deep_report.json (or .json.zst)"),
		),
		mcp.WithString("section",
			mcp.Description("Category to list; all categories when empty"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Max files per category (default 25)"),
		),
	)
}

// Handle processes the symbiosis_where_to_search tool call.
func (t *WhereTool) Handle(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path := strings.TrimSpace(req.GetString("report", ""))
	if path == "" {
		return mcp.NewToolResultError("'report' is required"), nil
	}
	section := strings.TrimSpace(req.GetString("section", ""))
	limit := int(req.GetFloat("limit", defaultWhereLimit))
	if limit <= 0 {
		limit = defaultWhereLimit
	}

	rep, err := report.Load(path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load report: %v", err)), nil
	}
	if rep.WhereToSearch == nil {
		return mcp.NewToolResultError("report has no where_to_search section"), nil
	}

	sections := rep.WhereToSearch.Sections()
	if section != "" {
		var picked []hotspots.Section
		for _, s := range sections {
			if s.Name == section {
				picked = append(picked, s)
			}
		}
		if len(picked) == 0 {
			return mcp.NewToolResultError(fmt.Sprintf(
				"unknown section %q (valid: %s)", section, strings.Join(hotspots.SectionNames, ", "),
			)), nil
		}
		sections = picked
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## Where to search (%s)\n", rep.RepoFingerprint))
	for _, s := range sections {
		sb.WriteString(fmt.Sprintf("\n### %s (%d)\n", s.Name, len(s.Files)))
		if len(s.Files) == 0 {
			sb.WriteString("_none_\n")
			continue
		}
		for i, f := range s.Files {
			if i >= limit {
				sb.WriteString(fmt.Sprintf("- … and %d more\n", len(s.Files)-limit))
				break
			}
			sb.WriteString(fmt.Sprintf("- `%s`\n", f))
		}
	}

	return mcp.NewToolResultText(sb.String()), nil
}
