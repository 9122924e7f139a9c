// Package controller provides output adapters for displaying freeze results.
package controller

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	m "github.com/frost-works/permafrost/internal/model"
)

// UI defines the interface for displaying scan and run output.
// Implementations can use different output methods (simple text, TUI, etc).
type UI interface {
	// DisplaySources shows the scanned source files and their freeze sites.
	DisplaySources(sources []m.Source) error
	// DisplayRunInfo announces a starting run.
	DisplayRunInfo(files int, parallel int)
	// DisplayResults shows the outcome of a run. A non-nil err carries the
	// per-file failures aggregated by the workflow.
	DisplayResults(results []m.FileResult, err error) error
}

// NewUI creates a UI based on whether TTY mode is enabled. When useTTY is
// true it returns a TUI (Bubble Tea); otherwise a SimpleUI (plain text).
func NewUI(cmd *cobra.Command, useTTY bool) UI {
	if useTTY {
		return NewTUI(cmd.OutOrStdout())
	}

	return NewSimpleUI(cmd)
}

// IsTTY checks if the given writer is an interactive terminal. Returns false
// if the output is redirected to a file or pipe.
func IsTTY(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}

	fd := file.Fd()

	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
