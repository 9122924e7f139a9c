package controller

import (
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	m "github.com/frost-works/permafrost/internal/model"
)

// TUI implements UI using Bubble Tea for interactive display.
type TUI struct {
	output io.Writer
}

// NewTUI creates a new TUI.
func NewTUI(output io.Writer) *TUI {
	return &TUI{output: output}
}

// DisplaySources prints the scanned files and their static freeze sites.
func (t *TUI) DisplaySources(sources []m.Source) error {
	total := 0
	for _, source := range sources {
		total += source.Sites
	}

	_, _ = fmt.Fprintf(t.output, "Found %d freeze site(s) across %d file(s)\n", total, len(sources))

	return nil
}

// DisplayRunInfo announces a starting run.
func (t *TUI) DisplayRunInfo(files int, parallel int) {
	_, _ = fmt.Fprintf(t.output, "Freezing %d file(s) with %d worker(s)\n", files, parallel)
}

// DisplayResults opens the interactive report browser. Falls back to a plain
// summary when there is nothing to browse.
func (t *TUI) DisplayResults(results []m.FileResult, err error) error {
	reports := flattenReports(results)

	if len(reports) == 0 {
		_, _ = fmt.Fprintf(t.output, "No freeze calls were executed\n")

		if err != nil {
			_, _ = fmt.Fprintf(t.output, "completed with failures:\n%v\n", err)
		}

		return err
	}

	model := newReportModel(reports, err)

	program := tea.NewProgram(model, tea.WithOutput(t.output), tea.WithAltScreen())
	if _, runErr := program.Run(); runErr != nil {
		return fmt.Errorf("report browser failed: %w", runErr)
	}

	return err
}

func flattenReports(results []m.FileResult) []m.Report {
	var reports []m.Report

	for _, result := range results {
		reports = append(reports, result.Reports...)
	}

	return reports
}
