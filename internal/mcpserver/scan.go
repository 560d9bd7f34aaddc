package mcpserver

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"symbiosis/internal/advisor"
	"symbiosis/internal/config"
)

// ScanTool handles the symbiosis_scan MCP tool.
type ScanTool struct {
	advisor *advisor.Advisor
}

// NewScanTool creates a ScanTool backed by adv.
func NewScanTool(adv *advisor.Advisor) *ScanTool {
	return &ScanTool{advisor: adv}
}

// Definition returns the MCP tool definition for registration.
func (t *ScanTool) Definition() mcp.Tool {
	return mcp.NewTool("symbiosis_scan",
		mcp.WithDescription(
			"Scan a repository and write the deep report (JSON + Markdown, optionally SARIF). "+
				"Returns totals, the report paths and the repo fingerprint.",
		),
		mcp.WithString("repo_root",
			mcp.Required(),
			mcp.Description("Repository root to scan"),
		),
		mcp.WithString("out_dir",
			mcp.Description("Output directory (default: reports/symbiosis_v6)"),
		),
		mcp.WithString("config",
			mcp.Description("Explicit config file path"),
		),
		mcp.WithString("baseline",
			mcp.Description("Previous report JSON to diff against"),
		),
		mcp.WithBoolean("sarif",
			mcp.Description("Also write a SARIF 2.1.0 file"),
		),
		mcp.WithBoolean("include_generated",
			mcp.Description("Descend into normally excluded directories"),
		),
		mcp.WithBoolean("git_churn",
			mcp.Description("Compute per-file git commit counts (slower)"),
		),
		mcp.WithNumber("max_file_size",
			mcp.Description("Max bytes read per file"),
		),
		mcp.WithNumber("workers",
			mcp.Description("Worker count (0 = auto)"),
		),
	)
}

// Handle processes the symbiosis_scan tool call.
func (t *ScanTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	root := strings.TrimSpace(req.GetString("repo_root", ""))
	if root == "" {
		return mcp.NewToolResultError("'repo_root' is required"), nil
	}

	opts := advisor.Options{
		RepoRoot:     root,
		OutDir:       strings.TrimSpace(req.GetString("out_dir", "")),
		ConfigPath:   strings.TrimSpace(req.GetString("config", "")),
		BaselinePath: strings.TrimSpace(req.GetString("baseline", "")),
		SARIF:        req.GetBool("sarif", false),
		Overrides: config.Overrides{
			IncludeGenerated: req.GetBool("include_generated", false),
			IncludeGitChurn:  req.GetBool("git_churn", false),
			MaxFileSize:      int64(req.GetFloat("max_file_size", 0)),
			Workers:          int(req.GetFloat("workers", 0)),
		},
	}

	res, err := t.advisor.Run(ctx, opts)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("scan failed: %v", err)), nil
	}

	rep := res.Report
	var sb strings.Builder
	sb.WriteString("## Symbiosis Scan Complete\n\n")
	sb.WriteString(fmt.Sprintf("**Fingerprint:** %s\n", rep.RepoFingerprint))
	sb.WriteString(fmt.Sprintf("**Generated:** %s\n", rep.GeneratedAt))
	sb.WriteString(fmt.Sprintf("**Report:** %s\n", res.Artifacts.JSON))
	if res.Artifacts.SARIF != "" {
		sb.WriteString(fmt.Sprintf("**SARIF:** %s\n", res.Artifacts.SARIF))
	}
	if rep.ConfigError != "" {
		sb.WriteString(fmt.Sprintf("**Config error:** %s\n", rep.ConfigError))
	}

	sb.WriteString("\n### Totals\n\n")
	for _, e := range rep.Totals.Entries() {
		sb.WriteString(fmt.Sprintf("- %s: %d\n", e.Key, e.Value))
	}

	if len(rep.Actions) > 0 {
		sb.WriteString("\n### Actions\n\n")
		for _, a := range rep.Actions {
			sb.WriteString(fmt.Sprintf("- [%s] %s\n", a.Priority, a.Title))
		}
	}

	if rep.Baseline != nil {
		sb.WriteString(fmt.Sprintf("\n**Baseline:** %s\n", rep.Baseline.Summary))
	}

	return mcp.NewToolResultText(sb.String()), nil
}
