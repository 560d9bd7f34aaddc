package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"symbiosis/internal/guard"
)

var guardReport string

var guardCmd = &cobra.Command{
	Use:   "guard",
	Short: "Fail if a report indexed scanner artifacts",
	Long: `Check that a report never lists the scanner's own outputs (reports/, runs/)
or files whose path mentions symbiosis or prompt-regression. Intended for CI.`,
	Args: cobra.NoArgs,
	RunE: runGuard,
}

func init() {
	guardCmd.Flags().StringVar(&guardReport, "report", "", "Path to symbiosis_deep_report.json")
	_ = guardCmd.MarkFlagRequired("report")
	rootCmd.AddCommand(guardCmd)
}

func runGuard(cmd *cobra.Command, args []string) error {
	offenders, err := guard.CheckFile(guardReport)
	if err != nil {
		return fmt.Errorf("[guard] cannot read report: %w", err)
	}

	if len(offenders) > 0 {
		errOut := cmd.ErrOrStderr()
		fmt.Fprintln(errOut, "[guard] Symbiosis indexed forbidden artifacts:")
		for _, p := range offenders {
			fmt.Fprintf(errOut, " - %s\n", p)
		}
		return fmt.Errorf("[guard] %d forbidden path(s) in report", len(offenders))
	}

	fmt.Fprintln(cmd.OutOrStdout(), "[guard] Symbiosis output is artifact-blind")
	return nil
}
