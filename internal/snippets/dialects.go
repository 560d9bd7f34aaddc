package snippets

import (
	"encoding/json"
	"regexp"
	"sort"
	"strings"

	"symbiosis/internal/signals"
)

var (
	heredocStart   = regexp.MustCompile(`<<-?\s*(?:"([A-Za-z0-9_]+)"|'([A-Za-z0-9_]+)'|([A-Za-z0-9_]+))`)
	roleWord       = regexp.MustCompile(`(?i)\b(system|developer)\b`)
	promptWord     = regexp.MustCompile(`(?i)\bprompt\b`)
	assistantWord  = regexp.MustCompile(`(?i)\bassistant\b`)
	inlineMarker   = regexp.MustCompile(`(?i)\bsystem\s+prompt\b|\bdeveloper\s+message\b`)
	tripleQuotes   = []string{`"""`, `'''`}
	fenceDelimiter = "```"
)

const (
	markerBefore = 2
	markerAfter  = 6
	jsonSpanMax  = 5
)

// jsonChat parses the whole file when it carries a system/developer role
// marker and emits one snippet per matching message object.
func (e *Extractor) jsonChat(rel, text string, nLines int) []Snippet {
	if !signals.JSONChatRole.MatchString(text) {
		return nil
	}
	var doc interface{}
	if err := json.Unmarshal([]byte(text), &doc); err != nil {
		return nil
	}

	end := nLines
	if end > jsonSpanMax {
		end = jsonSpanMax
	}
	if end < 1 {
		end = 1
	}

	var out []Snippet
	walkJSON(doc, func(role, content string) {
		out = append(out, e.snippet(rel, 1, end, KindJSONPrefix+role, content))
	})
	return out
}

// walkJSON visits objects depth-first, keys in sorted order.
func walkJSON(v interface{}, emit func(role, content string)) {
	switch x := v.(type) {
	case map[string]interface{}:
		role, rok := x["role"].(string)
		content, cok := x["content"].(string)
		if rok && cok {
			role = strings.ToLower(role)
			if role == "system" || role == "developer" {
				emit(role, content)
			}
		}
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			walkJSON(x[k], emit)
		}
	case []interface{}:
		for _, item := range x {
			walkJSON(item, emit)
		}
	}
}

// heredocs consumes from an opener through the first line equal to its tag.
// An unterminated heredoc runs to the last line.
func (e *Extractor) heredocs(rel string, lines []string) []Snippet {
	var out []Snippet
	n := len(lines)
	for i := 0; i < n; i++ {
		m := heredocStart.FindStringSubmatch(lines[i])
		if m == nil {
			continue
		}
		tag := firstNonEmpty(m[1:])
		start := i
		i++
		var block []string
		for i < n && strings.TrimSpace(lines[i]) != tag {
			block = append(block, lines[i])
			i++
		}
		end := i
		if i >= n {
			end = n - 1
		}
		content := strings.TrimSpace(strings.Join(block, "\n"))
		if content != "" && roleWord.MatchString(content) && promptWord.MatchString(content) {
			out = append(out, e.snippet(rel, start+1, end+1, KindHeredocPrefix+tag, content))
		}
	}
	return out
}

// tripleQuoted takes the leftmost """ or ''' on a line and consumes through
// the next occurrence of the same delimiter, which may be on the same line.
func (e *Extractor) tripleQuoted(rel string, lines []string) []Snippet {
	var out []Snippet
	n := len(lines)
	for i := 0; i < n; i++ {
		delim, idx := leftmostDelimiter(lines[i])
		if idx < 0 {
			continue
		}
		start := i
		rest := lines[i][idx+len(delim):]

		var block []string
		if before, _, closed := strings.Cut(rest, delim); closed {
			block = append(block, before)
		} else {
			if strings.TrimSpace(rest) != "" {
				block = append(block, rest)
			}
			i++
			for i < n && !strings.Contains(lines[i], delim) {
				block = append(block, lines[i])
				i++
			}
			if i < n {
				before, _, _ := strings.Cut(lines[i], delim)
				block = append(block, before)
			} else {
				i = n - 1
			}
		}

		content := strings.TrimSpace(strings.Join(block, "\n"))
		if content != "" && roleWord.MatchString(content) && assistantWord.MatchString(content) {
			out = append(out, e.snippet(rel, start+1, i+1, KindTripleQuote, content))
		}
	}
	return out
}

func leftmostDelimiter(line string) (string, int) {
	best, bestIdx := "", -1
	for _, d := range tripleQuotes {
		if idx := strings.Index(line, d); idx >= 0 && (bestIdx < 0 || idx < bestIdx) {
			best, bestIdx = d, idx
		}
	}
	return best, bestIdx
}

// fenced pairs fence lines in order: first with second, third with fourth.
func (e *Extractor) fenced(rel string, lines []string) []Snippet {
	var fences []int
	for i, l := range lines {
		if strings.HasPrefix(strings.TrimSpace(l), fenceDelimiter) {
			fences = append(fences, i)
		}
	}

	var out []Snippet
	for k := 0; k+1 < len(fences); k += 2 {
		a, b := fences[k], fences[k+1]
		content := strings.TrimSpace(strings.Join(lines[a+1:b], "\n"))
		if content == "" {
			continue
		}
		if roleWord.MatchString(content) && promptWord.MatchString(content) {
			out = append(out, e.snippet(rel, a+1, b+1, KindFenced, content))
		}
	}
	return out
}

// markerWindows emits the clamped window [idx-2, idx+6) around every line
// naming a system prompt or developer message.
func (e *Extractor) markerWindows(rel string, lines []string) []Snippet {
	var out []Snippet
	n := len(lines)
	for idx, l := range lines {
		if !inlineMarker.MatchString(l) {
			continue
		}
		start := idx - markerBefore
		if start < 0 {
			start = 0
		}
		end := idx + markerAfter
		if end > n {
			end = n
		}
		content := strings.TrimSpace(strings.Join(lines[start:end], "\n"))
		if content != "" {
			out = append(out, e.snippet(rel, start+1, end, KindMarkerWindow, content))
		}
	}
	return out
}

func firstNonEmpty(ss []string) string {
	for _, s := range ss {
		if s != "" {
			return s
		}
	}
	return ""
}
