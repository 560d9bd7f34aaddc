package report

import (
	"fmt"
	"strings"
)

// Section caps for the Markdown rendering. The JSON report is never capped.
const (
	mdMaxListFiles     = 25
	mdMaxClusters      = 15
	mdMaxClusterFiles  = 10
	mdMaxSamples       = 3
	mdMaxEvidence      = 15
	mdMaxSnippets      = 30
	mdMaxBaselineItems = 25
)

// RenderMarkdown renders r as a human-readable report.
func RenderMarkdown(r *Report) string {
	var b strings.Builder
	line := func(format string, args ...interface{}) {
		fmt.Fprintf(&b, format, args...)
		b.WriteByte('\n')
	}

	line("# Symbiosis Deep Report (%s)\n", r.Version)
	line("- Generated: **%s**", r.GeneratedAt)
	line("- Repo root: `%s`", r.RepoRoot)
	line("- Repo fingerprint: `%s`", r.RepoFingerprint)
	if r.ConfigPath != "" {
		line("- Config: `%s`", r.ConfigPath)
	}
	if r.ConfigError != "" {
		line("- Config error: %s", r.ConfigError)
	}
	baselineFound := r.Baseline != nil && r.Baseline.Found
	if baselineFound {
		line("- Baseline: `%s`", r.Baseline.Path)
	}

	line("\n## Totals")
	for _, t := range r.Totals.Entries() {
		line("- **%s**: %d", t.Key, t.Value)
	}

	if baselineFound && r.Baseline.Diff != nil {
		renderBaseline(line, r)
	}

	line("\n## Where to search")
	if r.WhereToSearch != nil {
		for _, s := range r.WhereToSearch.Sections() {
			line("\n### %s", titleCase(s.Name))
			renderFiles(line, s.Files, mdMaxListFiles)
		}
	}

	line("\n## Prompt drift clusters")
	for i, c := range r.PromptDriftClusters {
		if i >= mdMaxClusters {
			break
		}
		line("\n### Cluster `%s` (%d snippets, %d files)", c.Signature, c.Count, len(c.Files))
		for j, p := range c.SamplePreviews {
			if j >= mdMaxSamples {
				break
			}
			line("- %s", p)
		}
		renderFiles(line, c.Files, mdMaxClusterFiles)
	}

	line("\n## Action items")
	for _, a := range r.Actions {
		line("\n### %s (%s)", a.Title, a.Priority)
		line("**Why:** %s", a.Why)
		line("\n**Next steps:**")
		for _, s := range a.NextSteps {
			line("- %s", s)
		}
		if len(a.Evidence) > 0 {
			line("\n**Where:**")
			for i, f := range a.Evidence {
				if i >= mdMaxEvidence {
					break
				}
				line("- `%s`", f)
			}
		}
	}

	line("\n## Prompt snippet index (sample)")
	for i, s := range r.PromptSnippets {
		if i >= mdMaxSnippets {
			break
		}
		line("- `%s`:%d-%d [%s] %s", s.File, s.StartLine, s.EndLine, s.Kind, s.Preview)
	}
	if n := len(r.PromptSnippets); n > mdMaxSnippets {
		line("- … and %d more", n-mdMaxSnippets)
	}

	if len(r.PatternErrors) > 0 {
		line("\n## Pattern errors")
		for _, pe := range r.PatternErrors {
			line("- %s: `%s` (%s)", pe.Family, pe.Pattern, pe.Error)
		}
	}

	return b.String()
}

func renderBaseline(line func(string, ...interface{}), r *Report) {
	d := r.Baseline.Diff
	line("\n## Baseline diff")

	if len(d.TotalsDelta) > 0 {
		line("\n### Totals delta")
		for _, t := range r.Totals.Entries() {
			if v, ok := d.TotalsDelta[t.Key]; ok {
				line("- **%s**: %d", t.Key, v)
			}
		}
	}
	renderBaselineList(line, "New prompt-signal files", d.NewPromptFiles)
	renderBaselineList(line, "New drift clusters", d.NewDriftClusters)
	renderBaselineList(line, "Removed drift clusters", d.RemovedDriftClusters)

	if d.WhereToSearchPatch != "" {
		line("\n### Prompt hotspot changes")
		line("```diff")
		b := strings.TrimRight(d.WhereToSearchPatch, "\n")
		line("%s", b)
		line("```")
	}
}

func renderBaselineList(line func(string, ...interface{}), title string, items []string) {
	if len(items) == 0 {
		return
	}
	line("\n### %s", title)
	for i, s := range items {
		if i >= mdMaxBaselineItems {
			break
		}
		line("- `%s`", s)
	}
}

func renderFiles(line func(string, ...interface{}), files []string, limit int) {
	for i, f := range files {
		if i >= limit {
			break
		}
		line("- `%s`", f)
	}
	if len(files) > limit {
		line("- … and %d more", len(files)-limit)
	}
}

// titleCase turns a section key like "retrieval_rag" into "Retrieval Rag".
func titleCase(key string) string {
	words := strings.Split(key, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}
