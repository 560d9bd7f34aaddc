// Package signals scores text against named families of lexical patterns.
//
// A PatternSet is built once per scan and shared read-only by every worker.
// Scores are plain match counts: a file can score in several families at once.
package signals

import (
	"regexp"
	"sort"
)

// Family names a signal category.
type Family string

const (
	FamilyPrompt    Family = "prompt"
	FamilyTool      Family = "tool"
	FamilyTelemetry Family = "telemetry"
	FamilyRAG       Family = "rag"
	FamilyEval      Family = "eval"
	FamilyPlatform  Family = "platform"
)

// Families lists every family in report order.
var Families = []Family{FamilyPrompt, FamilyTool, FamilyTelemetry, FamilyRAG, FamilyEval, FamilyPlatform}

var (
	todoPattern  = regexp.MustCompile(`\bTODO\b`)
	fixmePattern = regexp.MustCompile(`\bFIXME\b`)

	// JSONChatRole detects a chat transcript with a system or developer turn.
	JSONChatRole = regexp.MustCompile(`(?i)"role"\s*:\s*"(system|developer)"`)
)

// InvalidPattern records a user pattern that failed to compile.
type InvalidPattern struct {
	Family  string `json:"family"`
	Pattern string `json:"pattern"`
	Error   string `json:"error"`
}

// PatternSet is an immutable, compiled set of family patterns.
type PatternSet struct {
	families map[Family][]*regexp.Regexp
	invalid  []InvalidPattern
}

// NewPatternSet compiles the builtin patterns plus extra, keyed by family
// name. Extra patterns that do not compile are skipped and reported by Invalid.
func NewPatternSet(extra map[string][]string) *PatternSet {
	ps := &PatternSet{families: make(map[Family][]*regexp.Regexp, len(Families))}
	for _, f := range Families {
		for _, src := range BuiltinPatterns[f] {
			ps.families[f] = append(ps.families[f], regexp.MustCompile(flags+src))
		}
	}

	names := make([]string, 0, len(extra))
	for name := range extra {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		f := Family(name)
		if _, ok := BuiltinPatterns[f]; !ok {
			continue
		}
		for _, src := range extra[name] {
			re, err := regexp.Compile(flags + src)
			if err != nil {
				ps.invalid = append(ps.invalid, InvalidPattern{Family: name, Pattern: src, Error: err.Error()})
				continue
			}
			ps.families[f] = append(ps.families[f], re)
		}
	}
	return ps
}

const flags = "(?im)"

// Invalid returns user patterns that were skipped.
func (ps *PatternSet) Invalid() []InvalidPattern {
	return ps.invalid
}

// Score sums non-overlapping match counts of every pattern in family f.
func (ps *PatternSet) Score(text string, f Family) int {
	if text == "" {
		return 0
	}
	score := 0
	for _, re := range ps.families[f] {
		score += len(re.FindAllStringIndex(text, -1))
	}
	return score
}

// Scores holds one count per family.
type Scores struct {
	Prompt    int `json:"prompt"`
	Tool      int `json:"tool"`
	Telemetry int `json:"telemetry"`
	RAG       int `json:"rag"`
	Eval      int `json:"eval"`
	Platform  int `json:"platform"`
}

// ScoreAll scores text against every family.
func (ps *PatternSet) ScoreAll(text string) Scores {
	return Scores{
		Prompt:    ps.Score(text, FamilyPrompt),
		Tool:      ps.Score(text, FamilyTool),
		Telemetry: ps.Score(text, FamilyTelemetry),
		RAG:       ps.Score(text, FamilyRAG),
		Eval:      ps.Score(text, FamilyEval),
		Platform:  ps.Score(text, FamilyPlatform),
	}
}

// Get returns the score for family f.
func (s Scores) Get(f Family) int {
	switch f {
	case FamilyPrompt:
		return s.Prompt
	case FamilyTool:
		return s.Tool
	case FamilyTelemetry:
		return s.Telemetry
	case FamilyRAG:
		return s.RAG
	case FamilyEval:
		return s.Eval
	case FamilyPlatform:
		return s.Platform
	default:
		return 0
	}
}

// CountMarkers counts case-sensitive whole-word TODO and FIXME markers.
func CountMarkers(text string) (todos, fixmes int) {
	if text == "" {
		return 0, 0
	}
	return len(todoPattern.FindAllStringIndex(text, -1)), len(fixmePattern.FindAllStringIndex(text, -1))
}
