package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"symbiosis/internal/errors"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if !cfg.UseGit {
		t.Error("UseGit should default to true")
	}
	if cfg.MaxFileSize != 2_000_000 {
		t.Errorf("MaxFileSize = %d, want 2000000", cfg.MaxFileSize)
	}
	if cfg.Workers < 4 {
		t.Errorf("Workers = %d, want >= 4", cfg.Workers)
	}
	if cfg.TopN != 35 || cfg.PreviewChars != 240 {
		t.Errorf("TopN/PreviewChars = %d/%d, want 35/240", cfg.TopN, cfg.PreviewChars)
	}
	if !reflect.DeepEqual(cfg.ExcludeDirs, DefaultExcludeDirs) {
		t.Errorf("ExcludeDirs = %v", cfg.ExcludeDirs)
	}
}

func TestLoad_NoConfigFile(t *testing.T) {
	cfg := Load(t.TempDir(), "")

	if cfg.ConfigPath != "" {
		t.Errorf("ConfigPath = %q, want empty", cfg.ConfigPath)
	}
	if cfg.LoadError != "" {
		t.Errorf("LoadError = %q, want empty", cfg.LoadError)
	}
	if !reflect.DeepEqual(cfg.IgnoreGlobs, DefaultIgnoreGlobs) {
		t.Errorf("IgnoreGlobs = %v, want defaults", cfg.IgnoreGlobs)
	}
}

func TestLoad_JSON(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".symbiosis.json", `{
		"exclude_dirs": ["vendor"],
		"ignore_globs": ["**/*.gen.ts", "reports/**"],
		"use_git": false,
		"include_git_churn": true,
		"workers": 3,
		"max_file_size": 1024,
		"patterns": {"prompt": "\\bpersona\\b", "tool_markers": ["\\bplugin\\b"], "unknown": ["x"]}
	}`)

	cfg := Load(dir, "")

	if !strings.HasSuffix(cfg.ConfigPath, ".symbiosis.json") {
		t.Errorf("ConfigPath = %q", cfg.ConfigPath)
	}
	if !reflect.DeepEqual(cfg.ExcludeDirs, []string{"vendor"}) {
		t.Errorf("ExcludeDirs should replace defaults, got %v", cfg.ExcludeDirs)
	}
	wantGlobs := append(append([]string(nil), DefaultIgnoreGlobs...), "**/*.gen.ts")
	if !reflect.DeepEqual(cfg.IgnoreGlobs, wantGlobs) {
		t.Errorf("IgnoreGlobs = %v, want %v", cfg.IgnoreGlobs, wantGlobs)
	}
	if cfg.UseGit {
		t.Error("UseGit should be false")
	}
	if !cfg.IncludeGitChurn {
		t.Error("IncludeGitChurn should be true")
	}
	if cfg.Workers != 3 || cfg.MaxFileSize != 1024 {
		t.Errorf("Workers/MaxFileSize = %d/%d, want 3/1024", cfg.Workers, cfg.MaxFileSize)
	}
	if !reflect.DeepEqual(cfg.Patterns["prompt"], []string{`\bpersona\b`}) {
		t.Errorf("prompt patterns = %v", cfg.Patterns["prompt"])
	}
	if !reflect.DeepEqual(cfg.Patterns["tool"], []string{`\bplugin\b`}) {
		t.Errorf("tool patterns via alias = %v", cfg.Patterns["tool"])
	}
	if _, ok := cfg.Patterns["unknown"]; ok {
		t.Error("unknown family should be dropped")
	}
}

func TestLoad_YAML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".symbiosis.yaml", `# comment
include_generated: true
max_file_size: 4096
exclude_dirs:
  - vendor
  - "third_party"
ignore_globs:
  - docs/**
`)

	cfg := Load(dir, "")

	if !cfg.IncludeGenerated {
		t.Error("IncludeGenerated should be true")
	}
	if cfg.MaxFileSize != 4096 {
		t.Errorf("MaxFileSize = %d, want 4096", cfg.MaxFileSize)
	}
	if !reflect.DeepEqual(cfg.ExcludeDirs, []string{"vendor", "third_party"}) {
		t.Errorf("ExcludeDirs = %v", cfg.ExcludeDirs)
	}
	if cfg.IgnoreGlobs[len(cfg.IgnoreGlobs)-1] != "docs/**" {
		t.Errorf("IgnoreGlobs tail = %v", cfg.IgnoreGlobs)
	}
}

func TestLoad_YAMLNestedPatternsIgnored(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".symbiosis.yaml", `workers: 3
patterns:
  prompt:
    - persona
  tool:
    - toolbox
`)

	cfg := Load(dir, "")

	if cfg.LoadError != "" {
		t.Fatalf("LoadError = %q, want none", cfg.LoadError)
	}
	if cfg.Workers != 3 {
		t.Errorf("Workers = %d, want 3", cfg.Workers)
	}
	if len(cfg.Patterns) != 0 {
		t.Errorf("Patterns = %v, nested YAML mappings should be ignored", cfg.Patterns)
	}
}

func TestLoad_TOML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".symbiosis.toml", `workers = 6
use_git = false

[patterns]
rag = ["\\bknowledge base\\b"]
`)

	cfg := Load(dir, "")

	if cfg.Workers != 6 {
		t.Errorf("Workers = %d, want 6", cfg.Workers)
	}
	if cfg.UseGit {
		t.Error("UseGit should be false")
	}
	if !reflect.DeepEqual(cfg.Patterns["rag"], []string{`\bknowledge base\b`}) {
		t.Errorf("rag patterns = %v", cfg.Patterns["rag"])
	}
}

func TestLoad_SearchOrder(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".symbiosis.yaml", "workers: 7\n")
	writeFile(t, dir, ".symbiosis.json", `{"workers": 5}`)

	cfg := Load(dir, "")
	if cfg.Workers != 5 {
		t.Errorf("Workers = %d, want JSON to win with 5", cfg.Workers)
	}
}

func TestLoad_InvalidJSONFallsBackToDefaults(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".symbiosis.json", `{"workers": 5,`)

	cfg := Load(dir, "")

	if cfg.LoadError == "" {
		t.Fatal("expected LoadError for malformed JSON")
	}
	if errors.Code(cfg.LoadErr) != errors.ConfigInvalid {
		t.Errorf("LoadErr code = %v, want CONFIG_INVALID", errors.Code(cfg.LoadErr))
	}
	if cfg.ConfigPath != "" {
		t.Errorf("ConfigPath = %q, want empty on failure", cfg.ConfigPath)
	}
	if cfg.Workers != DefaultWorkers() {
		t.Errorf("Workers = %d, want default", cfg.Workers)
	}
}

func TestLoad_ExplicitPath(t *testing.T) {
	dir := t.TempDir()
	other := t.TempDir()
	path := writeFile(t, other, "custom.json", `{"top_n": 10}`)
	writeFile(t, dir, ".symbiosis.json", `{"top_n": 99}`)

	cfg := Load(dir, path)
	if cfg.TopN != 10 {
		t.Errorf("TopN = %d, want explicit config value 10", cfg.TopN)
	}

	missing := Load(dir, filepath.Join(other, "missing.json"))
	if missing.LoadError == "" {
		t.Error("missing explicit config should be reported")
	}
	if missing.TopN != DefaultTopN {
		t.Errorf("TopN = %d, want default", missing.TopN)
	}
}

func TestLoad_IgnoreFileAppends(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".symbiosis.json", `{"ignore_globs": ["a/**"]}`)
	writeFile(t, dir, IgnoreFileName, "# generated\n\nfixtures/**\n  b/**  \na/**\n")

	cfg := Load(dir, "")

	n := len(DefaultIgnoreGlobs)
	want := []string{"a/**", "fixtures/**", "b/**"}
	if !reflect.DeepEqual(cfg.IgnoreGlobs[n:], want) {
		t.Errorf("IgnoreGlobs tail = %v, want %v", cfg.IgnoreGlobs[n:], want)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".symbiosis.json", `{"workers": 3, "include_git_churn": false}`)
	t.Setenv("SYMBIOSIS_WORKERS", "9")
	t.Setenv("SYMBIOSIS_INCLUDE_GIT_CHURN", "yes")

	cfg := Load(dir, "")

	if cfg.Workers != 9 {
		t.Errorf("Workers = %d, want env value 9", cfg.Workers)
	}
	if !cfg.IncludeGitChurn {
		t.Error("IncludeGitChurn should be enabled by env")
	}
}

func TestConfig_Apply(t *testing.T) {
	cfg := DefaultConfig()
	cfg.UseGit = false
	cfg.Apply(Overrides{UseGit: true, Workers: 2, MaxFileSize: 10})

	if !cfg.UseGit || cfg.Workers != 2 || cfg.MaxFileSize != 10 {
		t.Errorf("overrides not applied: %+v", cfg)
	}

	cfg.IncludeGenerated = true
	cfg.Apply(Overrides{})
	if !cfg.IncludeGenerated {
		t.Error("false flag must not switch a configured feature off")
	}
	if cfg.Workers != 2 {
		t.Error("zero override must keep the existing value")
	}
}

func TestConfig_ExcludedPatterns(t *testing.T) {
	cfg := &Config{ExcludeDirs: []string{"runs", "vendor"}, IgnoreGlobs: []string{"runs/**", "*.sarif"}}
	got := cfg.ExcludedPatterns()
	want := []string{"*.sarif", "runs/**", "vendor/**"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExcludedPatterns() = %v, want %v", got, want)
	}
}

func TestParseMinimalYAML(t *testing.T) {
	got := parseMinimalYAML(`
use_git: False
name: 'quoted'
count: 12
list:
  - one
  - 'two'
orphan item
- stray
`)
	if got["use_git"] != false {
		t.Errorf("use_git = %v", got["use_git"])
	}
	if got["name"] != "quoted" {
		t.Errorf("name = %v", got["name"])
	}
	if got["count"] != int64(12) {
		t.Errorf("count = %#v", got["count"])
	}
	list, ok := got["list"].([]interface{})
	if !ok || len(list) != 3 {
		t.Fatalf("list = %#v", got["list"])
	}
	if list[1] != "two" || list[2] != "stray" {
		t.Errorf("list items = %v", list)
	}
}

func TestCanonicalFamily(t *testing.T) {
	tests := map[string]string{
		"prompt":                 "prompt",
		"PROMPT_MARKERS":         "prompt",
		"ios_mlx_coreml_markers": "platform",
		"platform":               "platform",
		"nope":                   "",
	}
	for in, want := range tests {
		if got := CanonicalFamily(in); got != want {
			t.Errorf("CanonicalFamily(%q) = %q, want %q", in, got, want)
		}
	}
}
