package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"symbiosis/internal/advisor"
	"symbiosis/internal/config"
	"symbiosis/internal/output"
)

var (
	scanRepoRoot         string
	scanOutDir           string
	scanConfig           string
	scanBaseline         string
	scanIncludeGenerated bool
	scanMaxFileSize      int64
	scanWorkers          int
	scanGit              bool
	scanGitChurn         bool
	scanSARIF            bool
	scanArchive          bool
	scanProgress         bool
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan a repository and write the deep report",
	Long: `Scan a repository and write symbiosis_deep_report.json and .md into the
output directory. A JSON summary is printed to stdout on success.

Per-file problems never fail the scan. Only an invalid repo root or an
unwritable output directory exit non-zero.

Examples:
  # Scan the current directory
  symbiosis scan

  # Scan another checkout and emit SARIF for CI
  symbiosis scan --repo-root ../app --sarif

  # Compare against the previous run
  symbiosis scan --baseline reports/prev/symbiosis_deep_report.json

  # Include per-file git churn (slower)
  symbiosis scan --git-churn --progress`,
	Args: cobra.NoArgs,
	RunE: runScan,
}

func init() {
	f := scanCmd.Flags()
	f.StringVar(&scanRepoRoot, "repo-root", ".", "Repository root")
	f.StringVar(&scanRepoRoot, "repo", ".", "Repository root (alias of --repo-root)")
	f.StringVar(&scanOutDir, "out-dir", advisor.DefaultOutDir, "Output directory")
	f.StringVar(&scanConfig, "config", "", "Explicit config path (.symbiosis.json/.yaml/.toml)")
	f.StringVar(&scanBaseline, "baseline", "", "Previous report (JSON or .json.zst) to diff against")
	f.BoolVar(&scanIncludeGenerated, "include-generated", false, "Descend into normally excluded directories")
	f.Int64Var(&scanMaxFileSize, "max-file-size", config.DefaultMaxFileSize, "Max bytes to read per file")
	f.IntVar(&scanWorkers, "workers", 0, "Worker count (0 = auto)")
	f.BoolVar(&scanGit, "git", false, "Prefer git-based fingerprinting")
	f.BoolVar(&scanGitChurn, "git-churn", false, "Compute git churn per file (slower)")
	f.BoolVar(&scanSARIF, "sarif", false, "Also write a SARIF 2.1.0 report")
	f.BoolVar(&scanArchive, "archive", false, "Also write a zstd-compressed copy of the JSON report")
	f.BoolVar(&scanProgress, "progress", false, "Print progress to stderr while scanning")

	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := advisor.Options{
		RepoRoot:     scanRepoRoot,
		OutDir:       scanOutDir,
		ConfigPath:   scanConfig,
		BaselinePath: scanBaseline,
		Overrides:    scanOverrides(cmd),
		SARIF:        scanSARIF,
		Archive:      scanArchive,
	}
	if scanProgress {
		opts.Progress = os.Stderr
	}

	res, err := advisor.New(logger).Run(ctx, opts)
	if err != nil {
		return err
	}

	data, err := output.EncodeIndented(res.Summary)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

// scanOverrides passes numeric flags only when given explicitly, so config
// and environment values are not shadowed by flag defaults.
func scanOverrides(cmd *cobra.Command) config.Overrides {
	o := config.Overrides{
		IncludeGenerated: scanIncludeGenerated,
		UseGit:           scanGit,
		IncludeGitChurn:  scanGitChurn,
	}
	if cmd.Flags().Changed("max-file-size") {
		o.MaxFileSize = scanMaxFileSize
	}
	if cmd.Flags().Changed("workers") {
		o.Workers = scanWorkers
	}
	return o
}
