package paths

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// ErrOutsideRoot is returned when a path resolves outside the scan root.
var ErrOutsideRoot = errors.New("path escapes repo root")

// SafeRel converts an absolute path to a root-relative POSIX path.
// - Resolves symlinks on both sides
// - Rejects paths that land outside the root
// - Converts separators to forward slashes
func SafeRel(absolutePath string, repoRoot string) (string, error) {
	resolved, err := filepath.EvalSymlinks(absolutePath)
	if err != nil {
		if os.IsNotExist(err) {
			resolved = absolutePath
		} else {
			return "", err
		}
	}

	rootResolved, err := filepath.EvalSymlinks(repoRoot)
	if err != nil {
		if os.IsNotExist(err) {
			rootResolved = repoRoot
		} else {
			return "", err
		}
	}

	rel, err := filepath.Rel(rootResolved, resolved)
	if err != nil {
		return "", err
	}
	rel = filepath.ToSlash(rel)
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return "", ErrOutsideRoot
	}
	return rel, nil
}

// JoinRepoPath joins a repo root with a POSIX relative path.
func JoinRepoPath(repoRoot string, rel string) string {
	return filepath.Join(append([]string{repoRoot}, parts(rel)...)...)
}

// parts splits a relative path into its components, dropping empty ones.
func parts(rel string) []string {
	raw := strings.Split(filepath.ToSlash(rel), "/")
	out := raw[:0]
	for _, p := range raw {
		if p != "" && p != "." {
			out = append(out, p)
		}
	}
	return out
}
