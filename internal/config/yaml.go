package config

import (
	"bufio"
	"regexp"
	"strconv"
	"strings"
)

var yamlKeyLine = regexp.MustCompile(`^[A-Za-z0-9_\-]+\s*:`)

// parseMinimalYAML recognizes flat "key: value" scalars and "key:" followed
// by "- item" lines. Nested mappings, anchors and flow syntax are not supported.
func parseMinimalYAML(text string) map[string]interface{} {
	out := make(map[string]interface{})
	curKey := ""

	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if yamlKeyLine.MatchString(line) {
			k, v, _ := strings.Cut(line, ":")
			k = strings.TrimSpace(k)
			v = strings.TrimSpace(v)
			if v == "" {
				out[k] = []interface{}{}
				curKey = k
				continue
			}
			out[k] = yamlScalar(v)
			curKey = ""
			continue
		}

		if strings.HasPrefix(line, "-") && curKey != "" {
			if list, ok := out[curKey].([]interface{}); ok {
				out[curKey] = append(list, unquote(strings.TrimSpace(line[1:])))
			}
		}
	}
	return out
}

func yamlScalar(v string) interface{} {
	switch strings.ToLower(v) {
	case "true":
		return true
	case "false":
		return false
	}
	if n, err := strconv.ParseInt(v, 10, 64); err == nil {
		return n
	}
	return unquote(v)
}

func unquote(v string) string {
	return strings.Trim(strings.Trim(v, `"`), "'")
}
