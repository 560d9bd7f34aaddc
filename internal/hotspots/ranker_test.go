package hotspots

import (
	"reflect"
	"testing"

	"symbiosis/internal/analyzer"
	"symbiosis/internal/signals"
)

func fileSig(name string, size int64, prompt, tool int) analyzer.FileSignals {
	return analyzer.FileSignals{
		File:   name,
		Size:   size,
		Scores: signals.Scores{Prompt: prompt, Tool: tool},
	}
}

func TestRank(t *testing.T) {
	items := []analyzer.FileSignals{
		fileSig("z.py", 10, 1, 0),
		fileSig("small.py", 5, 3, 0),
		fileSig("big.py", 500, 3, 0),
		fileSig("none.md", 9000, 0, 0),
		fileSig("a.py", 10, 1, 0),
	}

	tests := []struct {
		name string
		topN int
		want []string
	}{
		{"all positive", 10, []string{"big.py", "small.py", "a.py", "z.py"}},
		{"truncated", 2, []string{"big.py", "small.py"}},
		{"zero means uncapped", 0, []string{"big.py", "small.py", "a.py", "z.py"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Rank(items, familyScore(signals.FamilyPrompt), tt.topN)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Rank() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBuild(t *testing.T) {
	items := []analyzer.FileSignals{
		fileSig("a.py", 40, 2, 0),
		fileSig("b.ts", 60, 0, 2),
		fileSig("c.md", 10, 0, 0),
	}
	items[2].Todos = 1
	items[2].Fixmes = 2
	items[1].Churn = 7

	w := Build(items, 0, false)
	if !reflect.DeepEqual(w.Prompts, []string{"a.py"}) {
		t.Errorf("Prompts = %v", w.Prompts)
	}
	if !reflect.DeepEqual(w.ToolsOrchestration, []string{"b.ts"}) {
		t.Errorf("ToolsOrchestration = %v", w.ToolsOrchestration)
	}
	if !reflect.DeepEqual(w.TodosFixmes, []string{"c.md"}) {
		t.Errorf("TodosFixmes = %v", w.TodosFixmes)
	}
	if w.HotChurn == nil || len(w.HotChurn) != 0 {
		t.Errorf("HotChurn should be empty and non-nil, got %v", w.HotChurn)
	}
	if w.Telemetry == nil {
		t.Error("empty sections must still be non-nil")
	}

	w = Build(items, 0, true)
	if !reflect.DeepEqual(w.HotChurn, []string{"b.ts"}) {
		t.Errorf("HotChurn = %v", w.HotChurn)
	}
}

func TestSections(t *testing.T) {
	w := Build(nil, 5, false)
	sections := w.Sections()
	if len(sections) != len(SectionNames) {
		t.Fatalf("got %d sections", len(sections))
	}
	for i, s := range sections {
		if s.Name != SectionNames[i] {
			t.Errorf("section %d = %s, want %s", i, s.Name, SectionNames[i])
		}
	}
	if w.Get("nope") != nil {
		t.Error("unknown section should be nil")
	}
}

func TestSectionFor(t *testing.T) {
	seen := map[string]bool{}
	for _, f := range signals.Families {
		name := SectionFor(f)
		if name == "" || seen[name] {
			t.Errorf("SectionFor(%s) = %q", f, name)
		}
		seen[name] = true
	}
}

func TestBuild_EveryFamilySection(t *testing.T) {
	items := []analyzer.FileSignals{
		{File: "p.py", Size: 1, Scores: signals.Scores{Prompt: 1}},
		{File: "t.py", Size: 1, Scores: signals.Scores{Tool: 1}},
		{File: "m.py", Size: 1, Scores: signals.Scores{Telemetry: 1}},
		{File: "r.py", Size: 1, Scores: signals.Scores{RAG: 1}},
		{File: "e.py", Size: 1, Scores: signals.Scores{Eval: 1}},
		{File: "x.py", Size: 1, Scores: signals.Scores{Platform: 1}},
	}
	w := Build(items, 0, false)

	for i, f := range signals.Families {
		got := w.Get(SectionFor(f))
		if !reflect.DeepEqual(got, []string{items[i].File}) {
			t.Errorf("section %s = %v, want [%s]", SectionFor(f), got, items[i].File)
		}
	}
}
