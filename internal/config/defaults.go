package config

import "runtime"

// DefaultMaxFileSize is the per-file read cap in bytes.
const DefaultMaxFileSize int64 = 2_000_000

// DefaultTopN is the per-category hotspot list length.
const DefaultTopN = 35

// DefaultPreviewChars caps snippet previews.
const DefaultPreviewChars = 240

// IgnoreFileName is the per-repo glob list appended to ignore_globs.
const IgnoreFileName = ".symbiosis-ignore"

// SearchOrder lists the config files probed when no explicit path is given.
var SearchOrder = []string{
	".symbiosis.json",
	".symbiosis.yaml",
	".symbiosis.yml",
	".symbiosis.toml",
}

// DefaultExcludeDirs are pruned during discovery unless include_generated is set.
var DefaultExcludeDirs = []string{
	".git", ".hg", ".svn",
	"node_modules", "dist", "build", ".next", ".turbo", ".cache",
	".venv", "venv", "__pycache__",
	"Pods", "DerivedData",
	"runs",
	"reports",
	"unsloth_compiled_cache",
}

// DefaultIgnoreGlobs keep the scanner blind to its own artifacts.
var DefaultIgnoreGlobs = []string{
	"reports/**",
	"runs/**",
	"node_modules/**",
	".git/**",
	"dist/**",
	"build/**",
	"**/*.sarif",
	"**/*prompt-regression*.json",
	"**/*prompt-regression*",
	"**/*symbiosis*",
	"**/*symbiosis*report*",
}

// TextExtensions is the discovery extension allowlist (lowercase, with dot).
var TextExtensions = map[string]bool{
	".py": true, ".js": true, ".ts": true, ".tsx": true, ".jsx": true,
	".m": true, ".mm": true, ".swift": true, ".java": true, ".kt": true,
	".c": true, ".cc": true, ".cpp": true, ".h": true, ".hpp": true,
	".md": true, ".txt": true, ".rst": true,
	".json": true, ".yml": true, ".yaml": true,
	".toml": true, ".ini": true, ".cfg": true, ".env": true, ".properties": true,
	".sh": true, ".bash": true, ".zsh": true,
	".gradle": true,
	".rb": true, ".go": true,
	".hbs": true, ".mustache": true,
	".plist": true,
	".pbxproj": true,
}

// AlwaysTextNames are included regardless of extension.
var AlwaysTextNames = map[string]bool{
	"package.json": true, "package-lock.json": true, "yarn.lock": true, "pnpm-lock.yaml": true,
	"Podfile": true, "Gemfile": true, "Gemfile.lock": true,
	"AGENTS.md": true, "README.md": true, "LICENSE": true,
}

// PatternFamilies are the canonical signal family names, in report order.
var PatternFamilies = []string{"prompt", "tool", "telemetry", "rag", "eval", "platform"}

// familyAliases maps legacy config keys onto canonical family names.
var familyAliases = map[string]string{
	"prompt_markers":         "prompt",
	"tool_markers":           "tool",
	"telemetry_markers":      "telemetry",
	"rag_markers":            "rag",
	"eval_markers":           "eval",
	"platform_markers":       "platform",
	"ios":                    "platform",
	"ios_mlx_coreml_markers": "platform",
}

// DefaultWorkers returns max(4, 2*NumCPU).
func DefaultWorkers() int {
	n := runtime.NumCPU() * 2
	if n < 4 {
		return 4
	}
	return n
}
