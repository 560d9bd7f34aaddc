// Package guard verifies that a report never indexed the scanner's own
// output or evaluation artifacts.
package guard

import (
	"sort"
	"strings"

	"symbiosis/internal/report"
)

// ForbiddenPrefixes are repo-relative directories that must never appear.
var ForbiddenPrefixes = []string{"reports/", "runs/"}

// ForbiddenSubstrings must not appear anywhere in a reported path (case-insensitive).
var ForbiddenSubstrings = []string{"symbiosis", "prompt-regression"}

// IsForbidden reports whether path names a scanner artifact.
func IsForbidden(path string) bool {
	for _, p := range ForbiddenPrefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	lower := strings.ToLower(path)
	for _, s := range ForbiddenSubstrings {
		if strings.Contains(lower, s) {
			return true
		}
	}
	return false
}

// Paths returns every file path a report mentions: snippets, drift cluster
// members and where-to-search entries.
func Paths(r *report.Report) []string {
	var out []string
	for _, s := range r.PromptSnippets {
		if s.File != "" {
			out = append(out, s.File)
		}
	}
	for _, c := range r.PromptDriftClusters {
		for _, f := range c.Files {
			if f != "" {
				out = append(out, f)
			}
		}
	}
	if r.WhereToSearch != nil {
		for _, sec := range r.WhereToSearch.Sections() {
			for _, f := range sec.Files {
				if f != "" {
					out = append(out, f)
				}
			}
		}
	}
	return out
}

// Check returns the sorted, deduplicated forbidden paths in r.
func Check(r *report.Report) []string {
	seen := make(map[string]bool)
	offenders := []string{}
	for _, p := range Paths(r) {
		if IsForbidden(p) && !seen[p] {
			seen[p] = true
			offenders = append(offenders, p)
		}
	}
	sort.Strings(offenders)
	return offenders
}

// CheckFile loads the report at path and checks it.
func CheckFile(path string) ([]string, error) {
	r, err := report.Load(path)
	if err != nil {
		return nil, err
	}
	return Check(r), nil
}
