// Package advisor runs a complete scan: configuration, discovery,
// fingerprinting, analysis, clustering, ranking, baseline diff and report
// emission.
package advisor

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"symbiosis/internal/analyzer"
	"symbiosis/internal/baseline"
	"symbiosis/internal/config"
	"symbiosis/internal/discovery"
	"symbiosis/internal/drift"
	"symbiosis/internal/errors"
	"symbiosis/internal/hotspots"
	"symbiosis/internal/output"
	"symbiosis/internal/report"
	"symbiosis/internal/repostate"
	"symbiosis/internal/signals"
	"symbiosis/internal/slogutil"
	"symbiosis/internal/snippets"
	"symbiosis/internal/version"
)

// DefaultOutDir is used when no output directory is given.
const DefaultOutDir = "reports/symbiosis_v6"

// Options describe one scan.
type Options struct {
	RepoRoot     string
	OutDir       string
	ConfigPath   string
	BaselinePath string
	Overrides    config.Overrides

	SARIF   bool
	Archive bool
	// Progress receives progress lines when non-nil.
	Progress io.Writer
}

// Summary is the small JSON document printed on success.
type Summary struct {
	OK              bool   `json:"ok"`
	Version         string `json:"version"`
	GeneratedAt     string `json:"generated_at"`
	RepoFingerprint string `json:"repo_fingerprint"`
	OutDir          string `json:"out_dir"`
}

// Result is what a completed scan produced.
type Result struct {
	Report    *report.Report
	Artifacts *report.Artifacts
	Summary   Summary
}

// Advisor runs scans.
type Advisor struct {
	logger *slog.Logger
	now    func() time.Time
}

// New creates an Advisor logging to logger. A nil logger discards output.
func New(logger *slog.Logger) *Advisor {
	if logger == nil {
		logger = slogutil.NewDiscardLogger()
	}
	return &Advisor{logger: logger, now: time.Now}
}

// Run scans the repository and writes the report artifacts. Only an invalid
// repo root or an unwritable output directory are errors.
func (a *Advisor) Run(ctx context.Context, opts Options) (*Result, error) {
	outDir := opts.OutDir
	if outDir == "" {
		outDir = DefaultOutDir
	}
	outDir, err := filepath.Abs(outDir)
	if err != nil {
		return nil, errors.New(errors.OutputUnwritable, "cannot resolve output directory", err, nil)
	}

	if _, err := ResolveRepoRoot(opts.RepoRoot); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, errors.New(errors.OutputUnwritable, "cannot create output directory", err, nil).
			WithDetails(map[string]string{"path": outDir})
	}

	rep, err := a.Analyze(ctx, opts)
	if err != nil {
		return nil, err
	}

	art, err := report.Write(outDir, rep, report.WriteOptions{SARIF: opts.SARIF, Archive: opts.Archive})
	if err != nil {
		return nil, err
	}
	a.logger.Info("Report written",
		"json", art.JSON,
		"markdown", art.Markdown,
		"sarif", art.SARIF,
	)

	return &Result{
		Report:    rep,
		Artifacts: art,
		Summary: Summary{
			OK:              true,
			Version:         rep.Version,
			GeneratedAt:     rep.GeneratedAt,
			RepoFingerprint: rep.RepoFingerprint,
			OutDir:          filepath.ToSlash(outDir),
		},
	}, nil
}

// Analyze builds the report without writing anything.
func (a *Advisor) Analyze(ctx context.Context, opts Options) (*report.Report, error) {
	root, err := ResolveRepoRoot(opts.RepoRoot)
	if err != nil {
		return nil, err
	}

	cfg := config.Load(root, opts.ConfigPath)
	if cfg.LoadErr != nil {
		a.logger.Warn("Config ignored, using defaults", "error", cfg.LoadError)
	}
	cfg.Apply(opts.Overrides)

	patterns := signals.NewPatternSet(cfg.Patterns)
	for _, inv := range patterns.Invalid() {
		a.logger.Warn("Skipping invalid pattern", "family", inv.Family, "pattern", inv.Pattern, "error", inv.Error)
	}

	start := a.now()
	walker := discovery.NewWalker(root, discovery.Options{
		ExcludeDirs:      cfg.ExcludeDirs,
		IgnoreGlobs:      cfg.IgnoreGlobs,
		IncludeGenerated: cfg.IncludeGenerated,
		TextExtensions:   config.TextExtensions,
		AlwaysTextNames:  config.AlwaysTextNames,
	}, a.logger)
	found, err := walker.Walk()
	if err != nil {
		return nil, errors.New(errors.RepoRootInvalid, "cannot walk repository", err, nil)
	}
	a.logger.Info("Discovery complete",
		"files", len(found.Files),
		"excluded", found.Stats.FilesExcluded,
		"dirs_pruned", found.Stats.DirsPruned,
	)

	var prober *repostate.Prober
	if cfg.UseGit || cfg.IncludeGitChurn {
		prober = repostate.NewProber(root, a.logger)
	}
	fpProber := prober
	if !cfg.UseGit {
		fpProber = nil
	}
	fingerprint := repostate.Fingerprint(ctx, fpProber, found.Files, cfg.MaxFileSize)
	generatedAt := report.Timestamp(a.now())

	an := analyzer.New(patterns, snippets.NewExtractor(cfg.PreviewChars), prober, analyzer.Options{
		MaxFileSize: cfg.MaxFileSize,
		Workers:     cfg.Workers,
		Churn:       cfg.IncludeGitChurn,
		Progress:    opts.Progress,
	}, a.logger)
	out := an.Run(ctx, found.Files)

	where := hotspots.Build(out.Signals, cfg.TopN, cfg.IncludeGitChurn)
	totals := buildTotals(len(found.Files), out.Signals)

	rep := &report.Report{
		Version:         version.ReportVersion,
		GeneratedAt:     generatedAt,
		RunID:           report.NewRunID(),
		RepoRoot:        filepath.ToSlash(root),
		RepoFingerprint: fingerprint,
		ConfigPath:      cfg.ConfigPath,
		ConfigError:     cfg.LoadError,
		IndexingSummary: report.IndexingSummary{
			FilesScanned:     found.Stats.FilesSeen,
			FilesIndexed:     found.Stats.FilesIncluded,
			FilesExcluded:    found.Stats.FilesExcluded,
			DirsPruned:       found.Stats.DirsPruned,
			ExcludedPatterns: cfg.ExcludedPatterns(),
		},
		Indexing: report.Indexing{
			ExcludeDirs:   cfg.SortedExcludeDirs(),
			IgnoreGlobs:   nonNil(cfg.IgnoreGlobs),
			FilesIncluded: found.Stats.FilesIncluded,
			FilesExcluded: found.Stats.FilesExcluded,
		},
		Totals:              totals,
		WhereToSearch:       where,
		PromptDriftClusters: drift.Build(out.Snippets),
		PromptSnippets:      nonNilSnippets(out.Snippets),
		Params: report.Params{
			IncludeGenerated: cfg.IncludeGenerated,
			MaxFileSize:      cfg.MaxFileSize,
			Workers:          cfg.Workers,
			UseGit:           cfg.UseGit,
			IncludeGitChurn:  cfg.IncludeGitChurn,
		},
		PatternErrors: patternErrors(patterns, found.InvalidGlobs),
	}
	rep.Actions = report.BuildActions(rep.Totals, rep.WhereToSearch)

	if opts.BaselinePath != "" {
		rep.Baseline = a.compareBaseline(opts.BaselinePath, rep)
	}

	rep.ElapsedSeconds = output.RoundTo(a.now().Sub(start).Seconds(), 3)
	a.logger.Info("Scan complete",
		"fingerprint", fingerprint,
		"indexed", totals.TextFilesIndexed,
		"snippets", len(rep.PromptSnippets),
		"clusters", len(rep.PromptDriftClusters),
	)
	return rep, nil
}

func (a *Advisor) compareBaseline(path string, rep *report.Report) *baseline.Result {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	res := baseline.Compare(abs, rep.Snapshot())
	res.Path = filepath.ToSlash(abs)
	if !res.Found {
		a.logger.Warn("Baseline not used", "path", res.Path, "reason", res.Summary)
	}
	return res
}

// ResolveRepoRoot returns the absolute, symlink-resolved repo root or a
// REPO_ROOT_INVALID error.
func ResolveRepoRoot(path string) (string, error) {
	if path == "" {
		path = "."
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errors.New(errors.RepoRootInvalid, "cannot resolve repo root", err, nil)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", errors.New(errors.RepoRootInvalid, "repo root does not exist: "+filepath.ToSlash(abs), err, nil)
	}
	if !info.IsDir() {
		return "", errors.New(errors.RepoRootInvalid, "repo root is not a directory: "+filepath.ToSlash(abs), nil, nil)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}
	return abs, nil
}

func buildTotals(candidates int, sigs []analyzer.FileSignals) report.Totals {
	t := report.Totals{FilesSeen: candidates, TextFilesIndexed: len(sigs)}
	for i := range sigs {
		s := &sigs[i].Scores
		if s.Prompt > 0 {
			t.PromptSignalFiles++
		}
		if s.Tool > 0 {
			t.ToolSignalFiles++
		}
		if s.Telemetry > 0 {
			t.TelemetrySignalFiles++
		}
		if s.RAG > 0 {
			t.RAGSignalFiles++
		}
		if s.Eval > 0 {
			t.EvalSignalFiles++
		}
		if s.Platform > 0 {
			t.PlatformSignalFiles++
		}
	}
	return t
}

func patternErrors(ps *signals.PatternSet, invalidGlobs []string) []signals.InvalidPattern {
	out := append([]signals.InvalidPattern(nil), ps.Invalid()...)
	for _, g := range invalidGlobs {
		out = append(out, signals.InvalidPattern{Family: "ignore_globs", Pattern: g, Error: "invalid glob"})
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func nonNilSnippets(s []snippets.Snippet) []snippets.Snippet {
	if s == nil {
		return []snippets.Snippet{}
	}
	return s
}
