// Package discovery walks a repository and selects the text files worth scanning.
package discovery

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"symbiosis/internal/paths"
)

// Options control which files are selected.
type Options struct {
	ExcludeDirs      []string
	IgnoreGlobs      []string
	IncludeGenerated bool

	// TextExtensions and AlwaysTextNames form the allowlist.
	TextExtensions  map[string]bool
	AlwaysTextNames map[string]bool
}

// Stats summarizes a walk for the report.
type Stats struct {
	FilesSeen     int `json:"files_seen"`
	FilesIncluded int `json:"files_included"`
	FilesExcluded int `json:"files_excluded"`
	DirsPruned    int `json:"dirs_pruned"`
}

// File is one selected candidate.
type File struct {
	Path string // absolute path on disk, root joined with Rel
	Rel  string // repo-relative POSIX path
}

// Result is the walk outcome in deterministic (lexical walk) order.
type Result struct {
	Files        []File
	Stats        Stats
	InvalidGlobs []string
}

// Walker selects candidate files under a root.
type Walker struct {
	root    string
	opts    Options
	exclude map[string]bool
	ignore  *Matcher
	invalid []string
	logger  *slog.Logger
}

// NewWalker prepares a walker. Ignore globs are compiled once here.
func NewWalker(root string, opts Options, logger *slog.Logger) *Walker {
	exclude := make(map[string]bool, len(opts.ExcludeDirs))
	for _, d := range opts.ExcludeDirs {
		exclude[d] = true
	}
	ignore, invalid := NewMatcher(opts.IgnoreGlobs)
	return &Walker{
		root:    root,
		opts:    opts,
		exclude: exclude,
		ignore:  ignore,
		invalid: invalid,
		logger:  logger,
	}
}

// Walk traverses the tree once. Excluded directories are pruned before
// descent unless IncludeGenerated is set. Unreadable entries are skipped.
func (w *Walker) Walk() (*Result, error) {
	res := &Result{InvalidGlobs: w.invalid}

	err := filepath.WalkDir(w.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == w.root {
				return err
			}
			w.logger.Debug("Skipping unreadable entry", "path", path, "error", err)
			return nil
		}

		if d.IsDir() {
			if path != w.root && !w.opts.IncludeGenerated && w.exclude[d.Name()] {
				res.Stats.DirsPruned++
				return filepath.SkipDir
			}
			return nil
		}

		if d.Type()&fs.ModeSymlink != 0 {
			info, statErr := os.Stat(path)
			if statErr == nil && info.IsDir() {
				return nil
			}
		}

		res.Stats.FilesSeen++
		rel, relErr := paths.SafeRel(path, w.root)
		if relErr != nil || !w.ShouldIndex(rel) || !w.allowed(d.Name()) {
			res.Stats.FilesExcluded++
			return nil
		}

		res.Files = append(res.Files, File{Path: paths.JoinRepoPath(w.root, rel), Rel: rel})
		res.Stats.FilesIncluded++
		return nil
	})
	if err != nil {
		return nil, err
	}

	return res, nil
}

// ShouldIndex applies the path-part exclusion and ignore globs to rel.
func (w *Walker) ShouldIndex(rel string) bool {
	if !w.opts.IncludeGenerated {
		for _, part := range strings.Split(rel, "/") {
			if w.exclude[part] {
				return false
			}
		}
	}
	return !w.ignore.MatchRel(rel)
}

func (w *Walker) allowed(name string) bool {
	if w.opts.AlwaysTextNames[name] {
		return true
	}
	return w.opts.TextExtensions[strings.ToLower(filepath.Ext(name))]
}

// SortedByRel returns a copy of files ordered by relative POSIX path.
func SortedByRel(files []File) []File {
	out := append([]File(nil), files...)
	sort.Slice(out, func(i, j int) bool { return out[i].Rel < out[j].Rel })
	return out
}
