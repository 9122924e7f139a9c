package controller

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	m "github.com/frost-works/permafrost/internal/model"
)

func TestTUI_DisplaySources(t *testing.T) {
	var buf bytes.Buffer
	tui := NewTUI(&buf)

	sources := []m.Source{
		{Origin: &m.File{Path: "a.star"}, Sites: 2},
		{Origin: &m.File{Path: "b.star"}, Sites: 1},
	}

	if err := tui.DisplaySources(sources); err != nil {
		t.Fatalf("DisplaySources() error = %v", err)
	}

	if !strings.Contains(buf.String(), "Found 3 freeze site(s) across 2 file(s)") {
		t.Fatalf("unexpected output:\n%s", buf.String())
	}
}

func TestTUI_DisplayRunInfo(t *testing.T) {
	var buf bytes.Buffer
	tui := NewTUI(&buf)

	tui.DisplayRunInfo(2, 4)

	if !strings.Contains(buf.String(), "Freezing 2 file(s) with 4 worker(s)") {
		t.Fatalf("unexpected output:\n%s", buf.String())
	}
}

func TestTUI_DisplayResults_EmptyFallsBackToPlainText(t *testing.T) {
	var buf bytes.Buffer
	tui := NewTUI(&buf)

	boom := errors.New("boom")

	if err := tui.DisplayResults(nil, boom); !errors.Is(err, boom) {
		t.Fatalf("DisplayResults() error = %v, want boom", err)
	}

	output := buf.String()

	if !strings.Contains(output, "No freeze calls were executed") {
		t.Fatalf("missing empty message:\n%s", output)
	}

	if !strings.Contains(output, "completed with failures") {
		t.Fatalf("missing failure message:\n%s", output)
	}
}

func TestFlattenReports(t *testing.T) {
	results := []m.FileResult{
		{Reports: []m.Report{{Target: m.Target{Name: "a"}}, {Target: m.Target{Name: "b"}}}},
		{Reports: nil},
		{Reports: []m.Report{{Target: m.Target{Name: "c"}}}},
	}

	reports := flattenReports(results)

	if len(reports) != 3 {
		t.Fatalf("flattenReports() len = %d, want 3", len(reports))
	}

	if reports[2].Name != "c" {
		t.Fatalf("flattenReports() order broken: %+v", reports)
	}
}
