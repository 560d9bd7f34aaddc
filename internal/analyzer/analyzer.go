// Package analyzer scores candidate files and extracts prompt snippets on a
// bounded worker pool. Workers only read shared immutable state (the pattern
// set, the extractor, the git prober) and hand results back over a channel;
// the calling goroutine alone assembles the output.
package analyzer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"symbiosis/internal/discovery"
	"symbiosis/internal/output"
	"symbiosis/internal/repostate"
	"symbiosis/internal/signals"
	"symbiosis/internal/snippets"
	"symbiosis/internal/textio"
)

// FileSignals is the immutable per-file scoring record.
type FileSignals struct {
	File string `json:"file"`
	Size int64  `json:"size"`
	signals.Scores
	Todos  int    `json:"todos"`
	Fixmes int    `json:"fixmes"`
	Lang   string `json:"lang"`
	Churn  int    `json:"git_churn"`
}

// Options tune a run.
type Options struct {
	MaxFileSize int64
	Workers     int
	// Churn enables per-file git log lookups; requires a non-nil prober.
	Churn bool
	// Progress receives "[symbiosis] ..." lines when non-nil.
	Progress io.Writer
}

// Result is the outcome for one file. Signals is nil when the file vanished.
type Result struct {
	Signals  *FileSignals
	Snippets []snippets.Snippet
}

// Output aggregates a run in discovery order.
type Output struct {
	Signals  []FileSignals
	Snippets []snippets.Snippet
}

// Analyzer holds the shared read-only state of one scan.
type Analyzer struct {
	patterns  *signals.PatternSet
	extractor *snippets.Extractor
	prober    *repostate.Prober
	opts      Options
	logger    *slog.Logger
}

// New creates an analyzer. prober may be nil when git is not in use.
func New(patterns *signals.PatternSet, extractor *snippets.Extractor, prober *repostate.Prober, opts Options, logger *slog.Logger) *Analyzer {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return &Analyzer{
		patterns:  patterns,
		extractor: extractor,
		prober:    prober,
		opts:      opts,
		logger:    logger,
	}
}

// AnalyzeFile reads, scores and extracts one file. It never fails: a file that
// stats but cannot be read becomes a zero-signal record, and a file that no
// longer exists produces no record.
func (a *Analyzer) AnalyzeFile(ctx context.Context, f discovery.File) Result {
	content, err := textio.Read(f.Path, a.opts.MaxFileSize)
	if err != nil {
		info, statErr := os.Stat(f.Path)
		if statErr != nil {
			a.logger.Debug("Skipping vanished file", "file", f.Rel, "error", err)
			return Result{}
		}
		a.logger.Debug("Unreadable file scored as zero", "file", f.Rel, "error", err)
		return Result{Signals: &FileSignals{File: f.Rel, Size: info.Size(), Lang: InferLang(f.Rel)}}
	}

	sig := &FileSignals{File: f.Rel, Size: content.Size, Lang: InferLang(f.Rel)}
	if !content.IsText {
		a.logger.Debug("Non-text file scored as zero", "file", f.Rel)
		return Result{Signals: sig}
	}

	text := content.Text
	sig.Scores = a.patterns.ScoreAll(text)
	sig.Todos, sig.Fixmes = signals.CountMarkers(text)
	if a.opts.Churn && a.prober != nil {
		sig.Churn = a.prober.Churn(ctx, f.Rel)
	}

	res := Result{Signals: sig}
	if sig.Prompt > 0 || signals.JSONChatRole.MatchString(text) {
		res.Snippets = a.extractor.Extract(f.Rel, text)
	}
	return res
}

type task struct {
	index int
	file  discovery.File
}

type done struct {
	index  int
	result Result
}

// Run analyzes files on the worker pool and returns results ordered as files.
func (a *Analyzer) Run(ctx context.Context, files []discovery.File) *Output {
	total := len(files)
	results := make([]Result, total)

	tasks := make(chan task)
	completed := make(chan done)

	workers := a.opts.Workers
	if workers > total {
		workers = total
	}
	for w := 0; w < workers; w++ {
		go func() {
			for t := range tasks {
				completed <- done{index: t.index, result: a.AnalyzeFile(ctx, t.file)}
			}
		}()
	}

	go func() {
		for i, f := range files {
			tasks <- task{index: i, file: f}
		}
		close(tasks)
	}()

	step := total / 20
	if step < 1 {
		step = 1
	}
	for n := 1; n <= total; n++ {
		d := <-completed
		results[d.index] = d.result
		if a.opts.Progress != nil && n%step == 0 {
			_, _ = fmt.Fprintf(a.opts.Progress, "[symbiosis] %d/%d files (%.1f%%)\n", n, total, output.Percent(n, total))
		}
	}

	out := &Output{}
	for _, r := range results {
		if r.Signals != nil {
			out.Signals = append(out.Signals, *r.Signals)
		}
		out.Snippets = append(out.Snippets, r.Snippets...)
	}
	a.logger.Info("Analysis complete", "files", total, "indexed", len(out.Signals), "snippets", len(out.Snippets))
	return out
}
