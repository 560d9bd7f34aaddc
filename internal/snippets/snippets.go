// Package snippets extracts candidate prompt text from source files.
//
// Five independent lexical dialects run over every file: JSON chat
// transcripts, shell heredocs, triple-quoted strings, fenced Markdown blocks
// and windows around prose markers. Line numbers are 1-based and inclusive.
// A snippet's identity is (Kind, ContentHash); ContentHash always covers the
// full extracted block, never the truncated preview.
package snippets

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"unicode/utf8"
)

// Dialect kinds. JSON and heredoc kinds carry a suffix (json:system, heredoc:EOF).
const (
	KindJSONPrefix    = "json:"
	KindHeredocPrefix = "heredoc:"
	KindTripleQuote   = "triple-quote"
	KindFenced        = "fenced"
	KindMarkerWindow  = "marker-window"
)

// DefaultPreviewChars caps previews when the extractor is built with zero.
const DefaultPreviewChars = 240

// Snippet is one extracted block.
type Snippet struct {
	File        string `json:"file"`
	StartLine   int    `json:"start_line"`
	EndLine     int    `json:"end_line"`
	Kind        string `json:"kind"`
	Preview     string `json:"preview"`
	ContentHash string `json:"content_hash"`
}

// Extractor runs every dialect over a file.
type Extractor struct {
	previewChars int
}

// NewExtractor returns an extractor whose previews hold at most previewChars runes.
func NewExtractor(previewChars int) *Extractor {
	if previewChars <= 0 {
		previewChars = DefaultPreviewChars
	}
	return &Extractor{previewChars: previewChars}
}

// Extract returns the deduplicated snippets of one file, in dialect order.
func (e *Extractor) Extract(rel, text string) []Snippet {
	lines := splitLines(text)

	var found []Snippet
	found = append(found, e.jsonChat(rel, text, len(lines))...)
	found = append(found, e.heredocs(rel, lines)...)
	found = append(found, e.tripleQuoted(rel, lines)...)
	found = append(found, e.fenced(rel, lines)...)
	found = append(found, e.markerWindows(rel, lines)...)

	return dedupe(found)
}

func (e *Extractor) snippet(rel string, start, end int, kind, content string) Snippet {
	return Snippet{
		File:        rel,
		StartLine:   start,
		EndLine:     end,
		Kind:        kind,
		Preview:     Preview(content, e.previewChars),
		ContentHash: Hash(content),
	}
}

// Preview collapses whitespace runs to single spaces and truncates to limit runes.
func Preview(content string, limit int) string {
	collapsed := strings.Join(strings.Fields(content), " ")
	if utf8.RuneCountInString(collapsed) <= limit {
		return collapsed
	}
	runes := []rune(collapsed)
	return string(runes[:limit])
}

// Hash is the hex SHA256 of content.
func Hash(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

func dedupe(in []Snippet) []Snippet {
	type key struct{ kind, hash string }
	seen := make(map[key]bool, len(in))
	out := make([]Snippet, 0, len(in))
	for _, s := range in {
		k := key{s.Kind, s.ContentHash}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, s)
	}
	return out
}

// splitLines breaks text at LF, CRLF and lone CR. A final line break does not
// produce a trailing empty line.
func splitLines(text string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\n':
			lines = append(lines, text[start:i])
			start = i + 1
		case '\r':
			lines = append(lines, text[start:i])
			if i+1 < len(text) && text[i+1] == '\n' {
				i++
			}
			start = i + 1
		}
	}
	if start < len(text) {
		lines = append(lines, text[start:])
	}
	return lines
}
