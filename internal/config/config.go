// Package config resolves scan settings from built-in defaults, an optional
// per-repo config file, .symbiosis-ignore, SYMBIOSIS_* environment variables
// and command-line overrides.
package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"symbiosis/internal/errors"
)

// EnvPrefix is the prefix for environment overrides (SYMBIOSIS_WORKERS, ...).
const EnvPrefix = "SYMBIOSIS"

// Config is the fully resolved scan configuration.
type Config struct {
	ExcludeDirs      []string            `json:"exclude_dirs"`
	IgnoreGlobs      []string            `json:"ignore_globs"`
	IncludeGenerated bool                `json:"include_generated"`
	UseGit           bool                `json:"use_git"`
	IncludeGitChurn  bool                `json:"include_git_churn"`
	MaxFileSize      int64               `json:"max_file_size"`
	Workers          int                 `json:"workers"`
	TopN             int                 `json:"top_n"`
	PreviewChars     int                 `json:"preview_chars"`
	Patterns         map[string][]string `json:"patterns,omitempty"`

	// ConfigPath is the file the settings came from, empty when none was used.
	ConfigPath string `json:"config_path,omitempty"`
	// LoadError describes a config file that could not be read; defaults apply.
	LoadError string `json:"-"`
	// LoadErr is the typed form of LoadError.
	LoadErr error `json:"-"`
}

// Overrides carries command-line values. Zero values mean "not given";
// booleans can only switch features on.
type Overrides struct {
	IncludeGenerated bool
	UseGit           bool
	IncludeGitChurn  bool
	MaxFileSize      int64
	Workers          int
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		ExcludeDirs:  append([]string(nil), DefaultExcludeDirs...),
		IgnoreGlobs:  append([]string(nil), DefaultIgnoreGlobs...),
		UseGit:       true,
		MaxFileSize:  DefaultMaxFileSize,
		Workers:      DefaultWorkers(),
		TopN:         DefaultTopN,
		PreviewChars: DefaultPreviewChars,
		Patterns:     map[string][]string{},
	}
}

// Load resolves configuration for repoRoot. explicitPath, when non-empty,
// replaces the search order. Read or parse failures never abort: the
// returned config holds defaults and LoadError explains what went wrong.
func Load(repoRoot string, explicitPath string) *Config {
	v := newViper()

	var configPath string
	var loadErr error

	candidates := make([]string, 0, len(SearchOrder))
	if explicitPath != "" {
		candidates = append(candidates, explicitPath)
	} else {
		for _, name := range SearchOrder {
			candidates = append(candidates, filepath.Join(repoRoot, name))
		}
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err != nil {
			if explicitPath != "" {
				loadErr = errors.New(errors.ConfigInvalid, "config file not found: "+filepath.ToSlash(path), err, nil)
			}
			continue
		}
		if err := readInto(v, path); err != nil {
			loadErr = errors.New(errors.ConfigInvalid, "failed to read "+filepath.ToSlash(path), err, nil)
			v = newViper()
			break
		}
		configPath = filepath.ToSlash(path)
		break
	}

	cfg := fromViper(v)
	cfg.ConfigPath = configPath
	if loadErr != nil {
		cfg.LoadErr = loadErr
		cfg.LoadError = loadErr.Error()
	}

	ignorePath := filepath.Join(repoRoot, IgnoreFileName)
	if globs, err := ReadIgnoreFile(ignorePath); err == nil {
		cfg.IgnoreGlobs = mergeUnique(cfg.IgnoreGlobs, globs)
	}

	return cfg
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("include_generated", false)
	v.SetDefault("use_git", true)
	v.SetDefault("include_git_churn", false)
	v.SetDefault("max_file_size", DefaultMaxFileSize)
	v.SetDefault("workers", DefaultWorkers())
	v.SetDefault("top_n", DefaultTopN)
	v.SetDefault("preview_chars", DefaultPreviewChars)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

// readInto loads one config file into v according to its extension.
func readInto(v *viper.Viper, path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		v.SetConfigFile(path)
		v.SetConfigType("json")
		return v.ReadInConfig()
	case ".toml":
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		m := make(map[string]interface{})
		if err := toml.Unmarshal(data, &m); err != nil {
			return err
		}
		return v.MergeConfigMap(m)
	default:
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		return v.MergeConfigMap(parseMinimalYAML(string(data)))
	}
}

func fromViper(v *viper.Viper) *Config {
	cfg := DefaultConfig()

	cfg.ExcludeDirs = toStringList(v.Get("exclude_dirs"), cfg.ExcludeDirs)
	cfg.IgnoreGlobs = mergeUnique(DefaultIgnoreGlobs, toStringList(v.Get("ignore_globs"), nil))
	cfg.IncludeGenerated = toBool(v.Get("include_generated"), false)
	cfg.UseGit = toBool(v.Get("use_git"), true)
	cfg.IncludeGitChurn = toBool(v.Get("include_git_churn"), false)

	if n := toInt(v.Get("max_file_size"), DefaultMaxFileSize); n > 0 {
		cfg.MaxFileSize = n
	}
	if n := toInt(v.Get("workers"), int64(cfg.Workers)); n > 0 {
		cfg.Workers = int(n)
	}
	if n := toInt(v.Get("top_n"), DefaultTopN); n > 0 {
		cfg.TopN = int(n)
	}
	if n := toInt(v.Get("preview_chars"), DefaultPreviewChars); n > 0 {
		cfg.PreviewChars = int(n)
	}

	if raw, ok := v.Get("patterns").(map[string]interface{}); ok {
		cfg.Patterns = collectPatterns(raw)
	}
	return cfg
}

// collectPatterns folds family keys and their legacy aliases into
// canonical family names. Unknown families are ignored.
func collectPatterns(raw map[string]interface{}) map[string][]string {
	out := make(map[string][]string)
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		family := CanonicalFamily(k)
		if family == "" {
			continue
		}
		out[family] = append(out[family], toStringList(raw[k], nil)...)
	}
	return out
}

// CanonicalFamily maps a family name or legacy alias to its canonical name,
// or "" when the name is unknown.
func CanonicalFamily(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, f := range PatternFamilies {
		if f == name {
			return f
		}
	}
	return familyAliases[name]
}

// Apply layers command-line overrides on top of the resolved config.
func (c *Config) Apply(o Overrides) {
	c.IncludeGenerated = c.IncludeGenerated || o.IncludeGenerated
	c.UseGit = c.UseGit || o.UseGit
	c.IncludeGitChurn = c.IncludeGitChurn || o.IncludeGitChurn
	if o.MaxFileSize > 0 {
		c.MaxFileSize = o.MaxFileSize
	}
	if o.Workers > 0 {
		c.Workers = o.Workers
	}
}

// ExcludedPatterns lists every ignore glob plus a "<dir>/**" entry per
// excluded directory, sorted and unique.
func (c *Config) ExcludedPatterns() []string {
	set := make(map[string]bool)
	for _, g := range c.IgnoreGlobs {
		set[g] = true
	}
	for _, d := range c.ExcludeDirs {
		set[d+"/**"] = true
	}
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// SortedExcludeDirs returns the exclude dirs in sorted order.
func (c *Config) SortedExcludeDirs() []string {
	out := append([]string(nil), c.ExcludeDirs...)
	sort.Strings(out)
	return out
}

// ReadIgnoreFile returns one glob per non-blank, non-comment line.
func ReadIgnoreFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	var globs []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		globs = append(globs, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	return globs, nil
}
