package controller

import (
	"fmt"

	m "github.com/frost-works/permafrost/internal/model"
)

// List item types.
type reportItem struct {
	report m.Report
}

func (r reportItem) FilterValue() string {
	return r.report.Name + " " + string(r.report.File)
}

func (r reportItem) title() string {
	return fmt.Sprintf("%s (%s)", r.report.Name, r.report.Kind)
}

func (r reportItem) location() string {
	return fmt.Sprintf("%s:%d", r.report.File, r.report.Line)
}
