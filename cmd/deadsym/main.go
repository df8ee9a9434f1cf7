package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	dserrors "deadsym/internal/errors"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		printError(os.Stderr, err)
		os.Exit(1)
	}
}

// printError writes err and, for coded errors, the suggested fixes.
func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "Error: %v\n", err)

	var derr *dserrors.Error
	if !errors.As(err, &derr) {
		return
	}
	for _, fix := range derr.SuggestedFixes {
		switch {
		case fix.Command != "":
			fmt.Fprintf(w, "  hint: %s (%s)\n", fix.Description, fix.Command)
		default:
			fmt.Fprintf(w, "  hint: %s\n", fix.Description)
		}
	}
}
