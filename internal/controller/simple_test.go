package controller

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	m "github.com/frost-works/permafrost/internal/model"
)

func TestSimpleUI_DisplaySources_PrintsTable(t *testing.T) {
	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)

	ui := NewSimpleUI(cmd)

	sources := []m.Source{
		{Origin: &m.File{Path: "scripts/b.star"}, Sites: 1},
		{Origin: &m.File{Path: "scripts/a.star"}, Sites: 2},
	}

	if err := ui.DisplaySources(sources); err != nil {
		t.Fatalf("DisplaySources() error = %v", err)
	}

	output := buf.String()

	for _, want := range []string{
		"scripts/a.star",
		"scripts/b.star",
		"TOTAL FILES 2",
		"3",
	} {
		if !strings.Contains(output, want) {
			t.Fatalf("output missing %q\noutput:\n%s", want, output)
		}
	}

	// Sorted by path.
	if strings.Index(output, "scripts/a.star") > strings.Index(output, "scripts/b.star") {
		t.Fatalf("sources not sorted by path:\n%s", output)
	}
}

func TestSimpleUI_DisplaySources_Empty(t *testing.T) {
	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)

	ui := NewSimpleUI(cmd)

	if err := ui.DisplaySources(nil); err != nil {
		t.Fatalf("DisplaySources() error = %v", err)
	}

	if !strings.Contains(buf.String(), "No Starlark source files found") {
		t.Fatalf("missing empty message:\n%s", buf.String())
	}
}

func TestSimpleUI_DisplayResults_PrintsTable(t *testing.T) {
	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)

	ui := NewSimpleUI(cmd)

	results := []m.FileResult{{
		Source: m.Source{Origin: &m.File{Path: "scripts/a.star"}},
		Reports: []m.Report{{
			Target: m.Target{
				Name: "power",
				Kind: m.KindFunction,
				File: "scripts/a.star",
				Line: 3,
			},
			Frozen:  []m.Substitution{{Name: "N", Literal: "3", Count: 1}},
			Evicted: []string{"x"},
		}},
	}}

	if err := ui.DisplayResults(results, nil); err != nil {
		t.Fatalf("DisplayResults() error = %v", err)
	}

	output := buf.String()

	for _, want := range []string{"power", "function", "scripts/a.star:3"} {
		if !strings.Contains(output, want) {
			t.Fatalf("output missing %q\noutput:\n%s", want, output)
		}
	}
}

func TestSimpleUI_DisplayResults_NoTargets(t *testing.T) {
	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)

	ui := NewSimpleUI(cmd)

	if err := ui.DisplayResults(nil, nil); err != nil {
		t.Fatalf("DisplayResults() error = %v", err)
	}

	if !strings.Contains(buf.String(), "No freeze calls were executed") {
		t.Fatalf("missing empty message:\n%s", buf.String())
	}
}

func TestSimpleUI_DisplayResults_Error(t *testing.T) {
	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)

	ui := NewSimpleUI(cmd)
	boom := errors.New("boom")

	if err := ui.DisplayResults(nil, boom); !errors.Is(err, boom) {
		t.Fatalf("DisplayResults() error = %v, want boom", err)
	}

	if !strings.Contains(buf.String(), "completed with failures") {
		t.Fatalf("missing failure message:\n%s", buf.String())
	}
}

func TestSimpleUI_DisplayRunInfo(t *testing.T) {
	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)

	ui := NewSimpleUI(cmd)
	ui.DisplayRunInfo(3, 2)

	if !strings.Contains(buf.String(), "Freezing 3 file(s) with 2 worker(s)") {
		t.Fatalf("unexpected run info:\n%s", buf.String())
	}
}
