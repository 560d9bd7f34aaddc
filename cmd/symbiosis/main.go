package main

import (
	"fmt"
	"os"

	"symbiosis/internal/errors"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		for _, fix := range errors.GetSuggestedFixes(errors.Code(err)) {
			fmt.Fprintln(os.Stderr, "  -", fix.Description)
		}
		os.Exit(exitCode(err))
	}
}
