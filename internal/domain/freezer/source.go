package freezer

import (
	"fmt"
	"os"
	"strings"

	"go.starlark.net/syntax"
)

// sourceFor returns the source text of filename, preferring text registered
// by the executing host over the filesystem. A target defined in a context
// with neither is not introspectable.
func (f *Freezer) sourceFor(filename string) ([]byte, error) {
	if src, ok := f.sources[filename]; ok {
		return src, nil
	}

	src, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("source of %s is not retrievable: %w", filename, err)
	}

	f.sources[filename] = src

	return src, nil
}

// treeFor parses the raw source of filename into the tree used by every
// downstream step. Targets within one file share a single tree so that their
// mutations accumulate for emission.
func (f *Freezer) treeFor(filename string) (*syntax.File, error) {
	if tree, ok := f.trees[filename]; ok {
		return tree, nil
	}

	src, err := f.sourceFor(filename)
	if err != nil {
		return nil, err
	}

	tree, err := f.opts.Parse(filename, src, syntax.RetainComments)
	if err != nil {
		return nil, err
	}

	f.trees[filename] = tree

	return tree, nil
}

// checkDedentedParse re-parses the target's own line block after stripping
// common leading whitespace. The parse result is deliberately discarded; the
// raw tree is always the one used downstream. Indentation-class failures are
// tolerated, anything else fails the operation.
func (f *Freezer) checkDedentedParse(filename string, startLine, endLine int) error {
	src, err := f.sourceFor(filename)
	if err != nil {
		return err
	}

	snippet := snippetLines(src, startLine, endLine)
	if snippet == "" {
		return nil
	}

	_, err = f.opts.Parse(filename, []byte(dedent(snippet)), 0)
	if err != nil && strings.Contains(err.Error(), "indent") {
		return nil
	}

	return err
}

// snippetLines returns the 1-based inclusive line range of src. Empty for a
// range that does not denote lines of src.
func snippetLines(src []byte, startLine, endLine int) string {
	lines := strings.Split(string(src), "\n")
	if startLine < 1 || startLine > len(lines) || endLine < startLine {
		return ""
	}

	if endLine > len(lines) {
		endLine = len(lines)
	}

	return strings.Join(lines[startLine-1:endLine], "\n")
}

// dedent removes the first line's leading whitespace from every line.
func dedent(s string) string {
	lines := strings.Split(s, "\n")
	if len(lines) == 0 {
		return s
	}

	prefix := lines[0][:len(lines[0])-len(strings.TrimLeft(lines[0], " \t"))]
	if prefix == "" {
		return s
	}

	for i, line := range lines {
		lines[i] = strings.TrimPrefix(line, prefix)
	}

	return strings.Join(lines, "\n")
}
