// Package hotspots ranks analyzed files per signal family and produces the
// "where to search" lists of a report.
package hotspots

import (
	"sort"

	"symbiosis/internal/analyzer"
	"symbiosis/internal/signals"
)

// DefaultTopN is the per-category cap when none is configured.
const DefaultTopN = 35

// Section names, in report order.
const (
	SectionPrompts   = "prompts"
	SectionTools     = "tools_orchestration"
	SectionTelemetry = "telemetry"
	SectionRAG       = "retrieval_rag"
	SectionEval      = "evaluation"
	SectionPlatform  = "platform_export"
	SectionTodos     = "todos_fixmes"
	SectionHotChurn  = "hot_churn"
)

// SectionNames lists every where-to-search key in report order.
var SectionNames = []string{
	SectionPrompts, SectionTools, SectionTelemetry, SectionRAG,
	SectionEval, SectionPlatform, SectionTodos, SectionHotChurn,
}

// WhereToSearch holds the ranked file lists. Field order is the JSON order.
type WhereToSearch struct {
	Prompts            []string `json:"prompts"`
	ToolsOrchestration []string `json:"tools_orchestration"`
	Telemetry          []string `json:"telemetry"`
	RetrievalRAG       []string `json:"retrieval_rag"`
	Evaluation         []string `json:"evaluation"`
	PlatformExport     []string `json:"platform_export"`
	TodosFixmes        []string `json:"todos_fixmes"`
	HotChurn           []string `json:"hot_churn"`
}

// Section is one named list of a WhereToSearch.
type Section struct {
	Name  string
	Files []string
}

// Sections returns the lists paired with their names, in report order.
func (w *WhereToSearch) Sections() []Section {
	return []Section{
		{SectionPrompts, w.Prompts},
		{SectionTools, w.ToolsOrchestration},
		{SectionTelemetry, w.Telemetry},
		{SectionRAG, w.RetrievalRAG},
		{SectionEval, w.Evaluation},
		{SectionPlatform, w.PlatformExport},
		{SectionTodos, w.TodosFixmes},
		{SectionHotChurn, w.HotChurn},
	}
}

// Get returns the list for a section name, or nil if unknown.
func (w *WhereToSearch) Get(name string) []string {
	for _, s := range w.Sections() {
		if s.Name == name {
			return s.Files
		}
	}
	return nil
}

func (w *WhereToSearch) list(name string) *[]string {
	switch name {
	case SectionPrompts:
		return &w.Prompts
	case SectionTools:
		return &w.ToolsOrchestration
	case SectionTelemetry:
		return &w.Telemetry
	case SectionRAG:
		return &w.RetrievalRAG
	case SectionEval:
		return &w.Evaluation
	case SectionPlatform:
		return &w.PlatformExport
	}
	return nil
}

// SectionFor maps a signal family to its where-to-search key.
func SectionFor(f signals.Family) string {
	switch f {
	case signals.FamilyPrompt:
		return SectionPrompts
	case signals.FamilyTool:
		return SectionTools
	case signals.FamilyTelemetry:
		return SectionTelemetry
	case signals.FamilyRAG:
		return SectionRAG
	case signals.FamilyEval:
		return SectionEval
	case signals.FamilyPlatform:
		return SectionPlatform
	}
	return ""
}

// ScoreFunc extracts the ranking score of one file.
type ScoreFunc func(fs *analyzer.FileSignals) int

// Rank keeps files with a positive score, ordered by score desc, size desc,
// then path, and truncates to topN.
func Rank(items []analyzer.FileSignals, score ScoreFunc, topN int) []string {
	type scored struct {
		file  string
		size  int64
		score int
	}

	var picked []scored
	for i := range items {
		if s := score(&items[i]); s > 0 {
			picked = append(picked, scored{file: items[i].File, size: items[i].Size, score: s})
		}
	}

	sort.Slice(picked, func(i, j int) bool {
		a, b := picked[i], picked[j]
		if a.score != b.score {
			return a.score > b.score
		}
		if a.size != b.size {
			return a.size > b.size
		}
		return a.file < b.file
	})

	if topN > 0 && len(picked) > topN {
		picked = picked[:topN]
	}

	out := make([]string, 0, len(picked))
	for _, p := range picked {
		out = append(out, p.file)
	}
	return out
}

func familyScore(f signals.Family) ScoreFunc {
	return func(fs *analyzer.FileSignals) int { return fs.Scores.Get(f) }
}

func markerScore(fs *analyzer.FileSignals) int { return fs.Todos + fs.Fixmes }

func churnScore(fs *analyzer.FileSignals) int { return fs.Churn }

// Build ranks every section. hot_churn stays empty unless includeChurn.
func Build(items []analyzer.FileSignals, topN int, includeChurn bool) *WhereToSearch {
	if topN <= 0 {
		topN = DefaultTopN
	}

	w := &WhereToSearch{
		TodosFixmes: Rank(items, markerScore, topN),
		HotChurn:    []string{},
	}
	for _, f := range signals.Families {
		if dst := w.list(SectionFor(f)); dst != nil {
			*dst = Rank(items, familyScore(f), topN)
		}
	}
	if includeChurn {
		w.HotChurn = Rank(items, churnScore, topN)
	}
	return w
}
