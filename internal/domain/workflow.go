// Package domain implements the freezing workflow on top of the adapter and
// freezer layers.
package domain

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/tliron/commonlog"
	"go.starlark.net/starlark"
	"golang.org/x/sync/errgroup"

	"github.com/frost-works/permafrost/internal/adapter"
	"github.com/frost-works/permafrost/internal/domain/freezer"
	m "github.com/frost-works/permafrost/internal/model"
)

var log = commonlog.GetLogger("permafrost.workflow")

// RunOptions configure a freezing run over a set of sources.
type RunOptions struct {
	// Parallel caps the number of files processed concurrently.
	Parallel int
	// Exclude drops sources whose path contains any of these fragments.
	Exclude []string
	// Write emits rewritten sources next to (or instead of) the originals.
	Write bool
	// OutputDir receives rewritten sources when Write is set; empty means
	// alongside the originals with a .frozen.star suffix.
	OutputDir string
	// EnforceGlobals and Ignore are defaults merged into every freeze
	// call of the run via the script environment.
	EnforceGlobals bool
	Ignore         []string
}

// Workflow defines the interface for freezing operations.
type Workflow interface {
	GetSources(roots ...m.Path) ([]m.Source, error)
	FreezeFile(source m.Source, opts RunOptions) (m.FileResult, error)
	FreezeAll(sources []m.Source, opts RunOptions) ([]m.FileResult, error)
}

type workflow struct {
	fsAdapter adapter.SourceFSAdapter
}

// NewWorkflow creates a new Workflow instance with the provided adapter.
func NewWorkflow(fsAdapter adapter.SourceFSAdapter) Workflow {
	return &workflow{
		fsAdapter: fsAdapter,
	}
}

// GetSources walks directory trees and identifies Starlark files eligible
// for freezing. Supports multiple paths and the ./... suffix for recursive
// scanning.
func (w *workflow) GetSources(roots ...m.Path) ([]m.Source, error) {
	return w.fsAdapter.Get(roots)
}

// FreezeFile executes one source under a fresh freezer and collects the
// reports its freeze calls produce. The script runs for real: freezing is an
// execution-time operation, not a static rewrite.
func (w *workflow) FreezeFile(source m.Source, opts RunOptions) (m.FileResult, error) {
	path := source.Origin.Path

	src, err := w.fsAdapter.ReadFile(path)
	if err != nil {
		return m.FileResult{}, fmt.Errorf("reading %s: %w", path, err)
	}

	result := m.FileResult{Source: source, Reports: []m.Report{}}

	defaults := freezer.Options{
		EnforceGlobals: opts.EnforceGlobals,
		Ignore:         ignoreSet(opts.Ignore),
	}

	fz := freezer.NewWithDefaults(nil, defaults, func(r m.Report) {
		result.Reports = append(result.Reports, r)
	})

	thread := &starlark.Thread{
		Name: string(path),
		Print: func(_ *starlark.Thread, msg string) {
			log.Infof("%s: %s", path, msg)
		},
	}

	if _, err := fz.ExecFile(thread, string(path), src); err != nil {
		return m.FileResult{}, fmt.Errorf("executing %s: %w", path, err)
	}

	if opts.Write && len(result.Reports) > 0 {
		if err := w.writeRewritten(fz, path, opts); err != nil {
			return m.FileResult{}, err
		}
	}

	return result, nil
}

// FreezeAll processes sources concurrently, at most opts.Parallel at a time.
// Failures are aggregated; successful results are returned alongside them.
func (w *workflow) FreezeAll(sources []m.Source, opts RunOptions) ([]m.FileResult, error) {
	filtered := excludeSources(sources, opts.Exclude)

	parallel := opts.Parallel
	if parallel <= 0 {
		parallel = 1
	}

	results := make([]m.FileResult, len(filtered))
	ok := make([]bool, len(filtered))

	var (
		mu   sync.Mutex
		merr *multierror.Error
	)

	var g errgroup.Group

	g.SetLimit(parallel)

	for i, source := range filtered {
		g.Go(func() error {
			res, err := w.FreezeFile(source, opts)
			if err != nil {
				log.Errorf("freeze failed: %v", err)

				mu.Lock()
				merr = multierror.Append(merr, err)
				mu.Unlock()

				return nil
			}

			results[i] = res
			ok[i] = true

			return nil
		})
	}

	// Errors are accumulated per file, not propagated.
	_ = g.Wait()

	kept := make([]m.FileResult, 0, len(filtered))

	for i, res := range results {
		if ok[i] {
			kept = append(kept, res)
		}
	}

	return kept, merr.ErrorOrNil()
}

func (w *workflow) writeRewritten(fz *freezer.Freezer, path m.Path, opts RunOptions) error {
	rendered, err := fz.RenderFile(string(path))
	if err != nil {
		return fmt.Errorf("rendering %s: %w", path, err)
	}

	out := rewrittenPath(path, opts.OutputDir)

	if err := w.fsAdapter.WriteFile(out, rendered, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", out, err)
	}

	log.Infof("wrote %s", out)

	return nil
}

func rewrittenPath(path m.Path, outputDir string) m.Path {
	if outputDir != "" {
		return m.Path(filepath.Join(outputDir, filepath.Base(string(path))))
	}

	ext := filepath.Ext(string(path))

	return m.Path(strings.TrimSuffix(string(path), ext) + ".frozen" + ext)
}

func excludeSources(sources []m.Source, exclude []string) []m.Source {
	if len(exclude) == 0 {
		return sources
	}

	kept := make([]m.Source, 0, len(sources))

	for _, source := range sources {
		if excluded(string(source.Origin.Path), exclude) {
			continue
		}

		kept = append(kept, source)
	}

	return kept
}

func ignoreSet(names []string) map[string]bool {
	if len(names) == 0 {
		return nil
	}

	set := make(map[string]bool, len(names))
	for _, name := range names {
		set[name] = true
	}

	return set
}

func excluded(path string, exclude []string) bool {
	for _, fragment := range exclude {
		if fragment != "" && strings.Contains(path, fragment) {
			return true
		}
	}

	return false
}
