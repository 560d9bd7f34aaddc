// Package repostate identifies the scanned repository state and probes git
// for per-file churn. Git failures never surface: callers fall back to a
// content fingerprint and zero churn.
package repostate

import (
	"context"
	"crypto/sha1" //nolint:gosec // fingerprint identity, not security
	"crypto/sha256"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"

	"symbiosis/internal/discovery"
	"symbiosis/internal/textio"
)

const (
	// DefaultGitTimeout bounds every git subprocess.
	DefaultGitTimeout = 10 * time.Second
	// MaxChurnCommits caps the log walked per file.
	MaxChurnCommits = 2000

	gitPrefix = "git:"
	fsPrefix  = "fs:"
)

// Prober runs git in one repository. It memoizes whether git is usable
// for the lifetime of a single scan.
type Prober struct {
	root    string
	timeout time.Duration
	logger  *slog.Logger

	once      sync.Once
	available bool
}

// NewProber creates a prober for root.
func NewProber(root string, logger *slog.Logger) *Prober {
	return &Prober{root: root, timeout: DefaultGitTimeout, logger: logger}
}

// Available reports whether root is inside a git working tree with a git binary on PATH.
func (p *Prober) Available(ctx context.Context) bool {
	p.once.Do(func() {
		out, err := p.run(ctx, "rev-parse", "--is-inside-work-tree")
		p.available = err == nil && strings.TrimSpace(out) == "true"
		if !p.available {
			p.logger.Debug("Git unavailable, using content fingerprint", "root", p.root)
		}
	})
	return p.available
}

// HeadState returns "<head>:dirty" or "<head>:clean".
func (p *Prober) HeadState(ctx context.Context) (string, bool) {
	if !p.Available(ctx) {
		return "", false
	}
	head, err := p.run(ctx, "rev-parse", "HEAD")
	head = strings.TrimSpace(head)
	if err != nil || head == "" {
		return "", false
	}
	flag := "clean"
	status, err := p.run(ctx, "status", "--porcelain")
	if err == nil && strings.TrimSpace(status) != "" {
		flag = "dirty"
	}
	return head + ":" + flag, true
}

// Churn counts commits touching rel, up to MaxChurnCommits. Zero on any failure.
func (p *Prober) Churn(ctx context.Context, rel string) int {
	if !p.Available(ctx) {
		return 0
	}
	out, err := p.run(ctx, "log", "-n"+strconv.Itoa(MaxChurnCommits), "--oneline", "--", rel)
	if err != nil {
		return 0
	}
	n := 0
	for _, line := range strings.Split(out, "\n") {
		if strings.TrimSpace(line) != "" {
			n++
		}
	}
	return n
}

func (p *Prober) run(ctx context.Context, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = p.root
	output, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return string(output), nil
}

// Fingerprint returns the git fingerprint when prober is non-nil and git
// answers, else the content fingerprint over files.
func Fingerprint(ctx context.Context, prober *Prober, files []discovery.File, maxBytes int64) string {
	if prober != nil {
		if state, ok := prober.HeadState(ctx); ok {
			return GitFingerprint(state)
		}
	}
	return ContentFingerprint(files, maxBytes)
}

// GitFingerprint hashes a "<head>:<flag>" state string.
func GitFingerprint(state string) string {
	sum := sha1.Sum([]byte(state)) //nolint:gosec
	return gitPrefix + fmt.Sprintf("%x", sum)
}

// ContentFingerprint folds (rel, content-hash-or-size) for every file,
// ordered by relative path. Timestamps and absolute paths never contribute.
func ContentFingerprint(files []discovery.File, maxBytes int64) string {
	h := sha256.New()
	for _, f := range discovery.SortedByRel(files) {
		h.Write([]byte(f.Rel))
		h.Write([]byte{0})
		h.Write([]byte(fileIdentity(f.Path, maxBytes)))
		h.Write([]byte{'\n'})
	}
	return fsPrefix + fmt.Sprintf("%x", h.Sum(nil))
}

// fileIdentity is the sha256 of the capped text, or the byte size when the
// file is not text or cannot be read.
func fileIdentity(path string, maxBytes int64) string {
	c, err := textio.Read(path, maxBytes)
	if err == nil && c.IsText {
		return HashString(c.Text)
	}
	if err == nil {
		return strconv.FormatInt(c.Size, 10)
	}
	if info, statErr := os.Stat(path); statErr == nil {
		return strconv.FormatInt(info.Size(), 10)
	}
	return "missing"
}

// HashString computes the hex SHA256 of s.
func HashString(s string) string {
	sum := sha256.Sum256([]byte(s))
	return fmt.Sprintf("%x", sum)
}
