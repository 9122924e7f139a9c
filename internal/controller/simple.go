package controller

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	m "github.com/frost-works/permafrost/internal/model"
)

// SimpleUI implements UI using cobra Command's output writer.
type SimpleUI struct {
	cmd *cobra.Command
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// DisplaySources prints the scanned files and their static freeze sites.
func (s *SimpleUI) DisplaySources(sources []m.Source) error {
	if len(sources) == 0 {
		s.printf("No Starlark source files found\n")
		return nil
	}

	sorted := make([]m.Source, len(sources))
	copy(sorted, sources)

	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Origin.Path < sorted[j].Origin.Path
	})

	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Path", "Freeze Sites"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER})

	total := 0

	for _, source := range sorted {
		table.Append([]string{string(source.Origin.Path), fmt.Sprintf("%d", source.Sites)})
		total += source.Sites
	}

	table.SetFooter([]string{
		fmt.Sprintf("Total Files %d", len(sorted)),
		fmt.Sprintf("%d", total),
	})

	table.Render()
	s.printf("\n%s", tableBuffer.String())

	return nil
}

// DisplayRunInfo announces a starting run.
func (s *SimpleUI) DisplayRunInfo(files int, parallel int) {
	s.printf("Freezing %d file(s) with %d worker(s)\n", files, parallel)
}

// DisplayResults prints one row per frozen target plus the aggregated
// failures, if any.
func (s *SimpleUI) DisplayResults(results []m.FileResult, err error) error {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Target", "Kind", "Location", "Frozen", "Evicted"})
	table.SetBorder(false)
	table.SetCenterSeparator("")

	targets := 0

	for _, result := range results {
		for _, report := range result.Reports {
			table.Append([]string{
				report.Name,
				string(report.Kind),
				fmt.Sprintf("%s:%d", report.File, report.Line),
				fmt.Sprintf("%d", len(report.Frozen)),
				fmt.Sprintf("%d", len(report.Evicted)),
			})

			targets++
		}
	}

	if targets == 0 {
		s.printf("No freeze calls were executed\n")
	} else {
		table.Render()
		s.printf("\n%s", tableBuffer.String())
	}

	if err != nil {
		s.printf("\ncompleted with failures:\n%v\n", err)
		return err
	}

	return nil
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}
