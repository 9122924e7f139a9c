package adapter

import (
	"go.starlark.net/syntax"
)

// StarFileAdapter encapsulates Starlark-specific parsing so the domain layer
// can focus on freeze semantics while delegating dialect details to an
// infrastructure component.
type StarFileAdapter interface {
	// Parse builds a syntax tree for the provided filename/source pair.
	Parse(filename string, src []byte) (*syntax.File, error)
}

// LocalStarFileAdapter provides a concrete StarFileAdapter backed by the
// go.starlark.net parser.
type LocalStarFileAdapter struct {
	opts *syntax.FileOptions
}

// NewLocalStarFileAdapter constructs a LocalStarFileAdapter using the full
// script dialect, matching the one the freeze runtime executes with.
func NewLocalStarFileAdapter() *LocalStarFileAdapter {
	return &LocalStarFileAdapter{
		opts: &syntax.FileOptions{
			Set:             true,
			While:           true,
			TopLevelControl: true,
			GlobalReassign:  true,
			Recursion:       true,
		},
	}
}

// Parse builds a syntax tree for the provided filename/source pair.
func (a *LocalStarFileAdapter) Parse(filename string, src []byte) (*syntax.File, error) {
	return a.opts.Parse(filename, src, syntax.RetainComments)
}
