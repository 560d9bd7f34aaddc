package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"symbiosis/internal/errors"
	"symbiosis/internal/slogutil"
	"symbiosis/internal/version"
)

var (
	verbosity int
	quiet     bool
	logFormat string
	logLevel  string
	logFile   string
)

// logCloser holds the --log-file handle for the lifetime of the command.
var logCloser io.Closer

var rootCmd = &cobra.Command{
	Use:   "symbiosis",
	Short: "Symbiosis - LLM integration surface advisor",
	Long: `Symbiosis scans a repository for the places where an application talks to a
language model: prompts, tool calling, telemetry, retrieval, evaluation and
on-device model packaging. It ranks the files worth reviewing, clusters
near-duplicate prompt text, and writes JSON, Markdown and SARIF reports.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logCloser != nil {
			_ = logCloser.Close()
		}
	},
}

func init() {
	rootCmd.SetVersionTemplate("symbiosis version {{.Version}}\n")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase log verbosity (-v info, -vv debug)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress all log output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log format: text or json")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Explicit log level (debug, info, warn, error); overrides -v")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Also append logs to this file")
}

// newLogger builds the command logger. Logs go to stderr; stdout carries the
// command's own output.
func newLogger() *slog.Logger {
	level := slogutil.LevelFromVerbosity(verbosity, quiet)
	if logLevel != "" && !quiet {
		level = slogutil.LevelFromString(logLevel)
	}

	handler := slogutil.NewHandler(os.Stderr, logFormat, level)
	if logFile != "" {
		f, err := slogutil.OpenLogFile(logFile)
		if err == nil {
			logCloser = f
			handler = slogutil.NewTeeHandler(handler, slogutil.NewHandler(f, logFormat, slogLevelForFile(level)))
		}
	}
	return slog.New(handler)
}

// slogLevelForFile keeps the file at least at info so a quiet terminal still
// leaves a record.
func slogLevelForFile(level slog.Level) slog.Level {
	if level > slog.LevelInfo {
		return slog.LevelInfo
	}
	return level
}

// exitCode maps fatal error codes to process exit codes.
func exitCode(err error) int {
	switch errors.Code(err) {
	case errors.RepoRootInvalid:
		return 2
	case errors.OutputUnwritable, errors.ReportWriteFailed:
		return 3
	default:
		return 1
	}
}
