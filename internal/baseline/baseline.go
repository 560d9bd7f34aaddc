// Package baseline compares the current scan against a previously written
// report. A baseline problem never fails a scan; it is reported inline.
package baseline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/pmezard/go-difflib/difflib"

	"symbiosis/internal/errors"
)

const (
	// MaxListed caps every file or signature list in a diff.
	MaxListed = 200

	SummaryMissing  = "No baseline file found."
	SummaryComputed = "Computed baseline diff."

	patchContext = 3
)

// Snapshot is the part of a report a baseline diff looks at.
type Snapshot struct {
	Totals          map[string]int
	PromptFiles     []string
	DriftSignatures []string
}

// Result is the "baseline" section of a report.
type Result struct {
	Path    string `json:"path"`
	Found   bool   `json:"baseline_found"`
	Summary string `json:"summary"`
	Diff    *Diff  `json:"diff,omitempty"`
}

// Diff holds the differences between baseline and current.
type Diff struct {
	TotalsDelta          map[string]int `json:"totals_delta"`
	NewPromptFiles       []string       `json:"new_prompt_files"`
	NewDriftClusters     []string       `json:"new_drift_clusters"`
	RemovedDriftClusters []string       `json:"removed_drift_clusters"`
	WhereToSearchPatch   string         `json:"where_to_search_patch,omitempty"`
}

// priorReport decodes only the fields a diff needs and tolerates the rest.
type priorReport struct {
	Totals        map[string]any `json:"totals"`
	WhereToSearch struct {
		Prompts []string `json:"prompts"`
	} `json:"where_to_search"`
	Clusters []struct {
		Signature string `json:"signature"`
	} `json:"prompt_drift_clusters"`
}

// Load reads a baseline report. Paths ending in .zst are zstd-decoded.
func Load(path string) (*Snapshot, error) {
	data, err := readMaybeCompressed(path)
	if err != nil {
		return nil, err
	}

	var prior priorReport
	if err := json.Unmarshal(data, &prior); err != nil {
		return nil, errors.New(errors.BaselineUnreadable, "baseline is not a valid report", err, nil)
	}

	snap := &Snapshot{
		Totals:      make(map[string]int, len(prior.Totals)),
		PromptFiles: prior.WhereToSearch.Prompts,
	}
	for k, v := range prior.Totals {
		snap.Totals[k] = asInt(v)
	}
	for _, c := range prior.Clusters {
		if c.Signature != "" {
			snap.DriftSignatures = append(snap.DriftSignatures, c.Signature)
		}
	}
	return snap, nil
}

func readMaybeCompressed(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".zst") {
		dec, err := zstd.NewReader(f)
		if err != nil {
			return nil, errors.New(errors.BaselineUnreadable, "cannot open zstd baseline", err, nil)
		}
		defer dec.Close()
		r = dec
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.New(errors.BaselineUnreadable, "cannot read baseline", err, nil)
	}
	return data, nil
}

// asInt converts a decoded JSON total. Non-numeric values count as zero.
func asInt(v any) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err == nil {
			return i
		}
	case bool:
		if n {
			return 1
		}
	}
	return 0
}

// Compare loads the baseline at path and diffs current against it.
func Compare(path string, current *Snapshot) *Result {
	res := &Result{Path: path}

	if _, err := os.Stat(path); err != nil {
		res.Summary = SummaryMissing
		return res
	}

	prior, err := Load(path)
	if err != nil {
		res.Summary = fmt.Sprintf("Failed to read baseline: %v", err)
		return res
	}

	res.Found = true
	res.Summary = SummaryComputed
	res.Diff = Compute(prior, current)
	return res
}

// Compute diffs two snapshots. Prompt files are reported added-only;
// drift signatures are reported both ways.
func Compute(prior, current *Snapshot) *Diff {
	keys := make(map[string]bool)
	for k := range current.Totals {
		keys[k] = true
	}
	for k := range prior.Totals {
		keys[k] = true
	}
	delta := make(map[string]int, len(keys))
	for k := range keys {
		delta[k] = current.Totals[k] - prior.Totals[k]
	}

	return &Diff{
		TotalsDelta:          delta,
		NewPromptFiles:       capList(minus(current.PromptFiles, prior.PromptFiles)),
		NewDriftClusters:     capList(minus(current.DriftSignatures, prior.DriftSignatures)),
		RemovedDriftClusters: capList(minus(prior.DriftSignatures, current.DriftSignatures)),
		WhereToSearchPatch:   Patch(prior.PromptFiles, current.PromptFiles),
	}
}

// minus returns the sorted set difference a - b.
func minus(a, b []string) []string {
	drop := make(map[string]bool, len(b))
	for _, s := range b {
		drop[s] = true
	}
	seen := make(map[string]bool, len(a))
	out := []string{}
	for _, s := range a {
		if !drop[s] && !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}

func capList(s []string) []string {
	if len(s) > MaxListed {
		return s[:MaxListed]
	}
	return s
}

// Patch renders a unified diff of two prompt hotspot lists. It is empty when
// the lists are identical.
func Patch(prior, current []string) string {
	u := difflib.UnifiedDiff{
		A:        asLines(prior),
		B:        asLines(current),
		FromFile: "baseline/where_to_search.prompts",
		ToFile:   "current/where_to_search.prompts",
		Context:  patchContext,
	}
	s, err := difflib.GetUnifiedDiffString(u)
	if err != nil {
		return ""
	}
	return s
}

func asLines(items []string) []string {
	lines := make([]string, len(items))
	for i, s := range items {
		lines[i] = s + "\n"
	}
	return lines
}
