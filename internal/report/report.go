// Package report defines the deep report document and renders it as JSON,
// Markdown, SARIF and a zstd archive.
package report

import (
	"time"

	"symbiosis/internal/baseline"
	"symbiosis/internal/drift"
	"symbiosis/internal/hotspots"
	"symbiosis/internal/signals"
	"symbiosis/internal/snippets"
)

// Artifact file names inside the output directory.
const (
	JSONFile     = "symbiosis_deep_report.json"
	MarkdownFile = "symbiosis_deep_report.md"
	SARIFFile    = "symbiosis_deep_report.sarif.json"
	ArchiveFile  = "symbiosis_deep_report.json.zst"
)

// TimestampLayout is the UTC layout of generated_at.
const TimestampLayout = "2006-01-02T15:04:05Z"

// Report is the full scan result. Field order is the JSON order.
type Report struct {
	Version             string                   `json:"version"`
	GeneratedAt         string                   `json:"generated_at"`
	RunID               string                   `json:"run_id"`
	RepoRoot            string                   `json:"repo_root"`
	RepoFingerprint     string                   `json:"repo_fingerprint"`
	ConfigPath          string                   `json:"config_path,omitempty"`
	ConfigError         string                   `json:"_config_error,omitempty"`
	IndexingSummary     IndexingSummary          `json:"indexing_summary"`
	Indexing            Indexing                 `json:"indexing"`
	Totals              Totals                   `json:"totals"`
	WhereToSearch       *hotspots.WhereToSearch  `json:"where_to_search"`
	PromptDriftClusters []drift.Cluster          `json:"prompt_drift_clusters"`
	PromptSnippets      []snippets.Snippet       `json:"prompt_snippets"`
	Actions             []Action                 `json:"actions"`
	Baseline            *baseline.Result         `json:"baseline,omitempty"`
	ElapsedSeconds      float64                  `json:"elapsed_seconds"`
	Params              Params                   `json:"params"`
	PatternErrors       []signals.InvalidPattern `json:"pattern_errors,omitempty"`
}

// IndexingSummary describes what discovery did.
type IndexingSummary struct {
	FilesScanned     int      `json:"files_scanned"`
	FilesIndexed     int      `json:"files_indexed"`
	FilesExcluded    int      `json:"files_excluded"`
	DirsPruned       int      `json:"dirs_pruned"`
	ExcludedPatterns []string `json:"excluded_patterns"`
}

// Indexing records the effective discovery settings.
type Indexing struct {
	ExcludeDirs   []string `json:"exclude_dirs"`
	IgnoreGlobs   []string `json:"ignore_globs"`
	FilesIncluded int      `json:"files_included"`
	FilesExcluded int      `json:"files_excluded"`
}

// Totals are per-category file counts.
type Totals struct {
	FilesSeen            int `json:"files_seen"`
	TextFilesIndexed     int `json:"text_files_indexed"`
	PromptSignalFiles    int `json:"prompt_signal_files"`
	ToolSignalFiles      int `json:"tool_signal_files"`
	TelemetrySignalFiles int `json:"telemetry_signal_files"`
	RAGSignalFiles       int `json:"rag_signal_files"`
	EvalSignalFiles      int `json:"eval_signal_files"`
	PlatformSignalFiles  int `json:"platform_signal_files"`
}

// Total is one named count.
type Total struct {
	Key   string
	Value int
}

// Entries returns the totals in JSON order.
func (t Totals) Entries() []Total {
	return []Total{
		{"files_seen", t.FilesSeen},
		{"text_files_indexed", t.TextFilesIndexed},
		{"prompt_signal_files", t.PromptSignalFiles},
		{"tool_signal_files", t.ToolSignalFiles},
		{"telemetry_signal_files", t.TelemetrySignalFiles},
		{"rag_signal_files", t.RAGSignalFiles},
		{"eval_signal_files", t.EvalSignalFiles},
		{"platform_signal_files", t.PlatformSignalFiles},
	}
}

// Map returns the totals keyed by name.
func (t Totals) Map() map[string]int {
	m := make(map[string]int, 8)
	for _, e := range t.Entries() {
		m[e.Key] = e.Value
	}
	return m
}

// Params echoes the effective scan parameters.
type Params struct {
	IncludeGenerated bool  `json:"include_generated"`
	MaxFileSize      int64 `json:"max_file_size"`
	Workers          int   `json:"workers"`
	UseGit           bool  `json:"use_git"`
	IncludeGitChurn  bool  `json:"include_git_churn"`
}

// Snapshot extracts what a later baseline diff compares against.
func (r *Report) Snapshot() *baseline.Snapshot {
	snap := &baseline.Snapshot{
		Totals:          r.Totals.Map(),
		DriftSignatures: drift.Signatures(r.PromptDriftClusters),
	}
	if r.WhereToSearch != nil {
		snap.PromptFiles = r.WhereToSearch.Prompts
	}
	return snap
}

// Timestamp formats t as generated_at.
func Timestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}
