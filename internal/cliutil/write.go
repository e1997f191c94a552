// Package cliutil provides output helpers for the gismeta command.
package cliutil

import (
	"fmt"
	"io"
	"os"
)

// Writef writes formatted output to the writer, reporting write failures to
// stderr instead of returning them. Usage text and report output from the
// gismeta subcommands go through here so a closed pipe never aborts a run.
func Writef(w io.Writer, format string, args ...any) {
	if _, err := fmt.Fprintf(w, format, args...); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "write error: %v\n", err)
	}
}
