package mcpserver

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"symbiosis/internal/advisor"
	"symbiosis/internal/report"
	"symbiosis/internal/slogutil"
	"symbiosis/internal/testutil"
)

func toolReq(args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func isErrorResult(result *mcp.CallToolResult) bool {
	return result != nil && result.IsError
}

func getResultText(result *mcp.CallToolResult) string {
	if result == nil {
		return ""
	}
	for _, c := range result.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func fixtureRepo(t *testing.T) string {
	t.Helper()
	return testutil.WriteRepo(t, map[string]string{
		"a.py": "SYSTEM_PROMPT = \"You are a helpful assistant\"\n",
		"b.ts": "msg.tool_calls.forEach(run)\n",
	})
}

func TestScanTool_Definition(t *testing.T) {
	def := NewScanTool(advisor.New(slogutil.NewDiscardLogger())).Definition()
	if def.Name != "symbiosis_scan" {
		t.Errorf("tool name = %q", def.Name)
	}
	if len(def.InputSchema.Required) != 1 || def.InputSchema.Required[0] != "repo_root" {
		t.Errorf("required = %v, want [repo_root]", def.InputSchema.Required)
	}
}

func TestScanTool_Handle(t *testing.T) {
	tool := NewScanTool(advisor.New(slogutil.NewDiscardLogger()))
	out := t.TempDir()

	result, err := tool.Handle(context.Background(), toolReq(map[string]interface{}{
		"repo_root": fixtureRepo(t),
		"out_dir":   out,
		"sarif":     true,
	}))
	if err != nil {
		t.Fatalf("Handle returned error: %v", err)
	}
	if isErrorResult(result) {
		t.Fatalf("unexpected tool error: %s", getResultText(result))
	}

	text := getResultText(result)
	for _, want := range []string{"Symbiosis Scan Complete", "prompt_signal_files: 1", "tool_signal_files: 1", "**SARIF:**"} {
		if !strings.Contains(text, want) {
			t.Errorf("result missing %q:\n%s", want, text)
		}
	}
	if _, err := os.Stat(filepath.Join(out, report.JSONFile)); err != nil {
		t.Errorf("report not written: %v", err)
	}
}

func TestScanTool_Handle_Errors(t *testing.T) {
	tool := NewScanTool(advisor.New(slogutil.NewDiscardLogger()))

	tests := []struct {
		name string
		args map[string]interface{}
		want string
	}{
		{"missing root", map[string]interface{}{}, "'repo_root' is required"},
		{"bad root", map[string]interface{}{"repo_root": filepath.Join(t.TempDir(), "gone"), "out_dir": t.TempDir()}, "REPO_ROOT_INVALID"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := tool.Handle(context.Background(), toolReq(tt.args))
			if err != nil {
				t.Fatalf("Handle returned error: %v", err)
			}
			if !isErrorResult(result) || !strings.Contains(getResultText(result), tt.want) {
				t.Errorf("result = %q, want error containing %q", getResultText(result), tt.want)
			}
		})
	}
}

func scanFixture(t *testing.T) string {
	t.Helper()
	out := t.TempDir()
	_, err := advisor.New(slogutil.NewDiscardLogger()).Run(context.Background(), advisor.Options{
		RepoRoot: fixtureRepo(t),
		OutDir:   out,
		Archive:  true,
	})
	if err != nil {
		t.Fatal(err)
	}
	return out
}

func TestWhereTool_Handle(t *testing.T) {
	out := scanFixture(t)
	tool := NewWhereTool()

	tests := []struct {
		name    string
		args    map[string]interface{}
		want    []string
		notWant []string
	}{
		{
			name:    "one section",
			args:    map[string]interface{}{"report": filepath.Join(out, report.JSONFile), "section": "prompts"},
			want:    []string{"### prompts (1)", "- `a.py`"},
			notWant: []string{"tools_orchestration"},
		},
		{
			name: "all sections from archive",
			args: map[string]interface{}{"report": filepath.Join(out, report.ArchiveFile)},
			want: []string{"### prompts (1)", "### tools_orchestration (1)", "- `b.ts`", "### hot_churn (0)"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := tool.Handle(context.Background(), toolReq(tt.args))
			if err != nil {
				t.Fatalf("Handle returned error: %v", err)
			}
			text := getResultText(result)
			if isErrorResult(result) {
				t.Fatalf("unexpected tool error: %s", text)
			}
			for _, w := range tt.want {
				if !strings.Contains(text, w) {
					t.Errorf("missing %q in:\n%s", w, text)
				}
			}
			for _, w := range tt.notWant {
				if strings.Contains(text, w) {
					t.Errorf("unexpected %q in:\n%s", w, text)
				}
			}
		})
	}
}

func TestWhereTool_Handle_Errors(t *testing.T) {
	out := scanFixture(t)
	tool := NewWhereTool()

	tests := []struct {
		name string
		args map[string]interface{}
		want string
	}{
		{"missing report arg", map[string]interface{}{}, "'report' is required"},
		{"unreadable report", map[string]interface{}{"report": filepath.Join(out, "nope.json")}, "failed to load report"},
		{"unknown section", map[string]interface{}{"report": filepath.Join(out, report.JSONFile), "section": "bogus"}, "unknown section"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := tool.Handle(context.Background(), toolReq(tt.args))
			if err != nil {
				t.Fatalf("Handle returned error: %v", err)
			}
			if !isErrorResult(result) || !strings.Contains(getResultText(result), tt.want) {
				t.Errorf("result = %q, want error containing %q", getResultText(result), tt.want)
			}
		})
	}
}

func TestNew_RegistersTools(t *testing.T) {
	s := New(slogutil.NewDiscardLogger(), "test")
	if s == nil {
		t.Fatal("New returned nil")
	}
}
