package controller

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sergi/go-diff/diffmatchpatch"

	m "github.com/frost-works/permafrost/internal/model"
)

// Simple delegate for report list items.
type reportDelegate struct{}

func (d reportDelegate) Height() int  { return 2 }
func (d reportDelegate) Spacing() int { return 0 }
func (d reportDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

func (d reportDelegate) Render(w io.Writer, lm list.Model, index int, item list.Item) {
	ri, ok := item.(reportItem)
	if !ok {
		return
	}

	isSelected := index == lm.Index()

	titleStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	locStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	if isSelected {
		titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("6")).
			Bold(true)
		locStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	}

	line := fmt.Sprintf("%s\n  %s",
		titleStyle.Render(ri.title()),
		locStyle.Render(ri.location()),
	)
	_, _ = fmt.Fprint(w, line)
}

// reportModel browses freeze reports: a list on the left, the diff of the
// selected target on the right.
type reportModel struct {
	width      int
	height     int
	reportList list.Model
	reports    []m.Report
	runErr     error
}

func newReportModel(reports []m.Report, runErr error) reportModel {
	items := make([]list.Item, 0, len(reports))
	for _, report := range reports {
		items = append(items, reportItem{report: report})
	}

	reportList := list.New(items, reportDelegate{}, 40, 20)
	reportList.SetShowPagination(false)
	reportList.SetShowFilter(true)
	reportList.SetShowHelp(false)
	reportList.SetShowTitle(false)
	reportList.SetShowStatusBar(false)
	reportList.FilterInput.Placeholder = "Filter by target…"

	return reportModel{
		reportList: reportList,
		reports:    reports,
		runErr:     runErr,
	}
}

func (rm reportModel) Init() tea.Cmd {
	return nil
}

func (rm reportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		rm.width = msg.Width
		rm.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return rm, tea.Quit
		default:
			var newList list.Model

			newList, cmd = rm.reportList.Update(msg)
			rm.reportList = newList

			return rm, cmd
		}
	}

	return rm, cmd
}

func (rm reportModel) View() string {
	titleStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("205")).
		Bold(true).
		Padding(1, 0, 0, 2)

	title := titleStyle.Render("❄ Permafrost Freeze Reports")

	summaryStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252")).
		Padding(0, 0, 1, 2)

	summary := summaryStyle.Render(fmt.Sprintf("Targets frozen: %d", len(rm.reports)))

	if rm.runErr != nil {
		errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
		summary += errStyle.Render("  (run completed with failures)")
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		rm.renderList(),
		rm.renderDiff(),
	)

	footerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("8")).
		Align(lipgloss.Center).
		Width(rm.width)

	footer := footerStyle.Render("↑/k up • ↓/j down • / filter • q quit")

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		summary,
		body,
		footer,
	)
}

func (rm reportModel) renderList() string {
	listWidth := rm.width / 3
	if listWidth < 30 {
		listWidth = 30
	}

	listHeight := rm.height - 8
	if listHeight < 5 {
		listHeight = 5
	}

	rm.reportList.SetWidth(listWidth)
	rm.reportList.SetHeight(listHeight)

	container := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("6")).
		Margin(0, 1).
		Padding(0, 1)

	return container.Render(rm.reportList.View())
}

func (rm reportModel) renderDiff() string {
	diffWidth := rm.width - rm.width/3 - 8
	if diffWidth < 20 {
		diffWidth = 20
	}

	diffHeight := rm.height - 8
	if diffHeight < 5 {
		diffHeight = 5
	}

	var content string

	if item, ok := rm.reportList.SelectedItem().(reportItem); ok {
		content = renderReportDiff(item.report)
	}

	content = clampLines(content, diffHeight)

	container := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("8")).
		Width(diffWidth).
		Height(diffHeight).
		Padding(0, 1)

	return container.Render(content)
}

// renderReportDiff colors the original-to-rewritten transformation of one
// target, insertions green and deletions red.
func renderReportDiff(report m.Report) string {
	dmp := diffmatchpatch.New()

	diffs := dmp.DiffMain(report.Original, report.Rewritten, false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	insertStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	deleteStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Strikethrough(true)

	var b strings.Builder

	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			b.WriteString(insertStyle.Render(d.Text))
		case diffmatchpatch.DiffDelete:
			b.WriteString(deleteStyle.Render(d.Text))
		default:
			b.WriteString(d.Text)
		}
	}

	return b.String()
}

func clampLines(s string, maxLines int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= maxLines {
		return s
	}

	return strings.Join(lines[:maxLines], "\n")
}
