package discovery

import (
	"regexp"
	"strings"
)

// Glob is a compiled shell-style pattern. "*" matches any run of characters
// including "/", "?" matches one character, and "[...]" / "[!...]" are
// character classes. Matching is case-sensitive and anchored at both ends.
type Glob struct {
	Pattern string
	re      *regexp.Regexp
}

// CompileGlob translates pattern into a Glob.
func CompileGlob(pattern string) (*Glob, error) {
	re, err := regexp.Compile(translateGlob(pattern))
	if err != nil {
		return nil, err
	}
	return &Glob{Pattern: pattern, re: re}, nil
}

// Match reports whether name matches the whole pattern.
func (g *Glob) Match(name string) bool {
	return g.re.MatchString(name)
}

// MatchRel tests a repo-relative path both bare and with a leading "/",
// so anchored ("/docs/*") and unanchored ("**/*.sarif") styles both work.
func (g *Glob) MatchRel(rel string) bool {
	return g.Match(rel) || g.Match("/"+rel)
}

func translateGlob(pattern string) string {
	var b strings.Builder
	b.WriteString(`(?s)\A`)

	runes := []rune(pattern)
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		switch c {
		case '*':
			b.WriteString(`.*`)
		case '?':
			b.WriteString(`.`)
		case '[':
			j := i + 1
			if j < len(runes) && runes[j] == '!' {
				j++
			}
			if j < len(runes) && runes[j] == ']' {
				j++
			}
			for j < len(runes) && runes[j] != ']' {
				j++
			}
			if j >= len(runes) {
				// Unterminated class is a literal bracket.
				b.WriteString(`\[`)
				continue
			}
			b.WriteString(globClass(runes[i+1 : j]))
			i = j
		default:
			b.WriteString(regexp.QuoteMeta(string(c)))
		}
	}

	b.WriteString(`\z`)
	return b.String()
}

// globClass renders the body of a bracket expression as an RE2 class.
func globClass(body []rune) string {
	var b strings.Builder
	b.WriteByte('[')
	for k, c := range body {
		switch {
		case k == 0 && c == '!':
			b.WriteByte('^')
		case c == '\\' || c == '[' || c == ']' || c == '^':
			b.WriteByte('\\')
			b.WriteRune(c)
		default:
			b.WriteRune(c)
		}
	}
	b.WriteByte(']')
	return b.String()
}

// Matcher is an immutable list of compiled globs.
type Matcher struct {
	globs []*Glob
}

// NewMatcher compiles patterns, skipping any that fail to compile.
// The skipped patterns are returned so callers can report them.
func NewMatcher(patterns []string) (*Matcher, []string) {
	m := &Matcher{globs: make([]*Glob, 0, len(patterns))}
	var invalid []string
	for _, p := range patterns {
		g, err := CompileGlob(p)
		if err != nil {
			invalid = append(invalid, p)
			continue
		}
		m.globs = append(m.globs, g)
	}
	return m, invalid
}

// MatchRel reports whether any glob matches rel.
func (m *Matcher) MatchRel(rel string) bool {
	for _, g := range m.globs {
		if g.MatchRel(rel) {
			return true
		}
	}
	return false
}
