package snippets

import (
	"strings"
	"testing"
)

func kinds(snips []Snippet) []string {
	out := make([]string, 0, len(snips))
	for _, s := range snips {
		out = append(out, s.Kind)
	}
	return out
}

func findKind(t *testing.T, snips []Snippet, kind string) Snippet {
	t.Helper()
	for _, s := range snips {
		if s.Kind == kind {
			return s
		}
	}
	t.Fatalf("no %s snippet in %v", kind, kinds(snips))
	return Snippet{}
}

func TestExtract_JSONChat(t *testing.T) {
	text := `[{"role":"system","content":"Be helpful"},{"role":"user","content":"Hi"}]`
	snips := NewExtractor(240).Extract("chat.json", text)

	if len(snips) != 1 {
		t.Fatalf("got %d snippets (%v), want 1", len(snips), kinds(snips))
	}
	s := snips[0]
	if s.Kind != "json:system" || s.Preview != "Be helpful" {
		t.Errorf("snippet = %+v", s)
	}
	if s.StartLine != 1 || s.EndLine != 1 {
		t.Errorf("span = %d-%d, want 1-1", s.StartLine, s.EndLine)
	}
	if s.ContentHash != Hash("Be helpful") {
		t.Errorf("hash should cover the message content")
	}
}

func TestExtract_JSONChatNestedAndSpan(t *testing.T) {
	text := "{\n" +
		`  "b": {"messages": [{"role": "Developer", "content": "dev rules"}]},` + "\n" +
		`  "a": [{"role": "system", "content": "sys rules"}],` + "\n" +
		`  "c": 1` + "\n" +
		"}\n\n\n\n"
	snips := NewExtractor(240).Extract("conv.json", text)

	if len(snips) != 2 {
		t.Fatalf("got %v, want 2 snippets", kinds(snips))
	}
	if snips[0].Kind != "json:system" || snips[1].Kind != "json:developer" {
		t.Errorf("kinds = %v, want sorted-key traversal order", kinds(snips))
	}
	if snips[0].EndLine != 5 {
		t.Errorf("EndLine = %d, want capped at 5", snips[0].EndLine)
	}
}

func TestExtract_JSONChatMalformed(t *testing.T) {
	snips := NewExtractor(240).Extract("bad.json", `{"role": "system", "content": "x"`)
	if len(snips) != 0 {
		t.Errorf("malformed JSON should yield nothing, got %v", kinds(snips))
	}
}

func TestExtract_HeredocSpan(t *testing.T) {
	text := "PROMPT<<'EOF'\n...system prompt...\nEOF\n"
	snips := NewExtractor(240).Extract("run.sh", text)

	s := findKind(t, snips, "heredoc:EOF")
	if s.StartLine != 1 || s.EndLine != 3 {
		t.Errorf("span = %d-%d, want 1-3", s.StartLine, s.EndLine)
	}
	if s.Preview != "...system prompt..." {
		t.Errorf("Preview = %q", s.Preview)
	}
}

func TestExtract_HeredocVariants(t *testing.T) {
	text := strings.Join([]string{
		"echo start",
		`cat <<-"END" > out`,
		"  The developer prompt text",
		"  END",
		"cat <<PLAIN",
		"nothing relevant",
		"PLAIN",
		"cat <<OPEN",
		"system prompt without terminator",
		"last line",
	}, "\n")
	snips := NewExtractor(240).Extract("x.sh", text)

	end := findKind(t, snips, "heredoc:END")
	if end.StartLine != 2 || end.EndLine != 4 {
		t.Errorf("END span = %d-%d, want 2-4", end.StartLine, end.EndLine)
	}
	open := findKind(t, snips, "heredoc:OPEN")
	if open.StartLine != 8 || open.EndLine != 10 {
		t.Errorf("OPEN span = %d-%d, want 8-10 (runs to EOF)", open.StartLine, open.EndLine)
	}
	for _, s := range snips {
		if s.Kind == "heredoc:PLAIN" {
			t.Error("heredoc without prompt words should be skipped")
		}
	}
}

func TestExtract_TripleQuote(t *testing.T) {
	text := strings.Join([]string{
		"import x",
		`SYSTEM = """You are the system assistant.`,
		"Answer briefly.",
		`"""`,
		`inline = '''system says hi to the assistant'''`,
		`other = """just text"""`,
	}, "\n")
	snips := NewExtractor(240).Extract("p.py", text)

	var triples []Snippet
	for _, s := range snips {
		if s.Kind == KindTripleQuote {
			triples = append(triples, s)
		}
	}
	if len(triples) != 2 {
		t.Fatalf("got %d triple-quote snippets, want 2", len(triples))
	}
	if triples[0].StartLine != 2 || triples[0].EndLine != 4 {
		t.Errorf("first span = %d-%d, want 2-4", triples[0].StartLine, triples[0].EndLine)
	}
	if triples[0].Preview != "You are the system assistant. Answer briefly." {
		t.Errorf("first preview = %q", triples[0].Preview)
	}
	if triples[1].StartLine != 5 || triples[1].EndLine != 5 {
		t.Errorf("inline span = %d-%d, want 5-5", triples[1].StartLine, triples[1].EndLine)
	}
	if triples[1].Preview != "system says hi to the assistant" {
		t.Errorf("inline preview = %q", triples[1].Preview)
	}
}

func TestExtract_Fenced(t *testing.T) {
	text := strings.Join([]string{
		"# Doc",
		"```text",
		"System prompt: be terse",
		"```",
		"between",
		"```",
		"unrelated code",
		"```",
		"```",
	}, "\n")
	snips := NewExtractor(240).Extract("README.md", text)

	fenced := findKind(t, snips, KindFenced)
	if fenced.StartLine != 2 || fenced.EndLine != 4 {
		t.Errorf("span = %d-%d, want 2-4", fenced.StartLine, fenced.EndLine)
	}
	count := 0
	for _, s := range snips {
		if s.Kind == KindFenced {
			count++
		}
	}
	if count != 1 {
		t.Errorf("fenced count = %d, want 1", count)
	}
}

func TestExtract_MarkerWindow(t *testing.T) {
	lines := make([]string, 12)
	for i := range lines {
		lines[i] = "line"
	}
	lines[0] = "The developer message goes first"
	lines[5] = "edit the System  Prompt here"
	snips := NewExtractor(240).Extract("notes.txt", strings.Join(lines, "\n"))

	var windows []Snippet
	for _, s := range snips {
		if s.Kind == KindMarkerWindow {
			windows = append(windows, s)
		}
	}
	if len(windows) != 2 {
		t.Fatalf("got %d windows, want 2", len(windows))
	}
	if windows[0].StartLine != 1 || windows[0].EndLine != 6 {
		t.Errorf("first window = %d-%d, want 1-6", windows[0].StartLine, windows[0].EndLine)
	}
	if windows[1].StartLine != 4 || windows[1].EndLine != 11 {
		t.Errorf("second window = %d-%d, want 4-11", windows[1].StartLine, windows[1].EndLine)
	}
}

func TestExtract_HashStableUnderTruncation(t *testing.T) {
	body := "system prompt: " + strings.Repeat("keep answers short and cite sources. ", 20)
	text := "```\n" + body + "\n```\n\n```\n" + body + "\n```\n"

	short := NewExtractor(16).Extract("a.md", text)
	long := NewExtractor(240).Extract("a.md", text)

	s := findKind(t, short, KindFenced)
	l := findKind(t, long, KindFenced)

	if s.ContentHash != l.ContentHash {
		t.Error("content hash must not depend on preview length")
	}
	if len([]rune(s.Preview)) != 16 || len([]rune(l.Preview)) != 240 {
		t.Errorf("preview lengths = %d/%d", len([]rune(s.Preview)), len([]rune(l.Preview)))
	}

	fenced := 0
	for _, sn := range long {
		if sn.Kind == KindFenced {
			fenced++
		}
	}
	if fenced != 1 {
		t.Errorf("identical blocks should dedupe to one, got %d", fenced)
	}
}

func TestExtract_NoSignals(t *testing.T) {
	if snips := NewExtractor(240).Extract("c.md", "# Title\n\nJust words.\n"); len(snips) != 0 {
		t.Errorf("expected no snippets, got %v", kinds(snips))
	}
	if snips := NewExtractor(240).Extract("empty.txt", ""); len(snips) != 0 {
		t.Errorf("expected no snippets for empty text, got %v", kinds(snips))
	}
}

func TestPreview(t *testing.T) {
	if got := Preview("  a\n\tb   c  ", 240); got != "a b c" {
		t.Errorf("Preview = %q", got)
	}
	if got := Preview("héllo wörld", 4); got != "héll" {
		t.Errorf("Preview rune cap = %q", got)
	}
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", nil},
		{"lf with blank line", "a\r\nb\n\nc\n", []string{"a", "b", "", "c"}},
		{"no final newline", "a\nb", []string{"a", "b"}},
		{"lone cr", "a\rb\r\rc", []string{"a", "b", "", "c"}},
		{"mixed", "a\r\nb\rc\n", []string{"a", "b", "c"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitLines(tt.in)
			if strings.Join(got, "|") != strings.Join(tt.want, "|") || len(got) != len(tt.want) {
				t.Errorf("splitLines(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestExtract_LoneCRLineEndings(t *testing.T) {
	e := NewExtractor(240)
	text := "x = 1\r```\rThe system prompt stays short.\r```\r"

	var fenced *Snippet
	for _, s := range e.Extract("notes.md", text) {
		if s.Kind == KindFenced {
			fenced = &s
		}
	}
	if fenced == nil {
		t.Fatal("expected a fenced snippet from CR-delimited text")
	}
	if fenced.StartLine != 2 || fenced.EndLine != 4 {
		t.Errorf("fenced span = %d-%d, want 2-4", fenced.StartLine, fenced.EndLine)
	}
}
