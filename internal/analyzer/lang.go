package analyzer

import (
	"path/filepath"
	"strings"
)

var langByExt = map[string]string{
	".py":    "python",
	".js":    "javascript",
	".jsx":   "javascript",
	".ts":    "typescript",
	".tsx":   "typescript",
	".m":     "objc",
	".mm":    "objc",
	".swift": "swift",
	".java":  "java",
	".kt":    "kotlin",
	".go":    "go",
	".sh":    "shell",
	".bash":  "shell",
	".zsh":   "shell",
	".md":    "docs",
	".rst":   "docs",
	".txt":   "docs",
	".json":  "config",
	".yml":   "config",
	".yaml":  "config",
	".toml":  "config",
	".ini":   "config",
	".cfg":   "config",
}

// InferLang maps a file name to a coarse language tag. Unknown extensions
// yield the bare extension, and extensionless names "unknown".
func InferLang(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if lang, ok := langByExt[ext]; ok {
		return lang
	}
	if ext == "" {
		return "unknown"
	}
	return strings.TrimPrefix(ext, ".")
}
