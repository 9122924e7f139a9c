package cmd

import (
	"github.com/frost-works/permafrost/internal/domain"
	m "github.com/frost-works/permafrost/internal/model"
)

// fakeWorkflow records the calls the commands make and returns canned data.
type fakeWorkflow struct {
	sources []m.Source
	getErr  error

	results []m.FileResult
	runErr  error

	gotRoots      []m.Path
	gotSources    []m.Source
	gotOpts       domain.RunOptions
	freezeAllRuns int
}

func (f *fakeWorkflow) GetSources(roots ...m.Path) ([]m.Source, error) {
	f.gotRoots = roots
	return f.sources, f.getErr
}

func (f *fakeWorkflow) FreezeFile(_ m.Source, _ domain.RunOptions) (m.FileResult, error) {
	return m.FileResult{}, nil
}

func (f *fakeWorkflow) FreezeAll(sources []m.Source, opts domain.RunOptions) ([]m.FileResult, error) {
	f.freezeAllRuns++
	f.gotSources = sources
	f.gotOpts = opts

	return f.results, f.runErr
}

type fakeUI struct {
	shownSources []m.Source
	shownResults []m.FileResult
	shownErr     error

	runInfoFiles    int
	runInfoParallel int

	sourcesCalls int
	resultsCalls int
}

func (f *fakeUI) DisplaySources(sources []m.Source) error {
	f.sourcesCalls++
	f.shownSources = sources

	return nil
}

func (f *fakeUI) DisplayRunInfo(files int, parallel int) {
	f.runInfoFiles = files
	f.runInfoParallel = parallel
}

func (f *fakeUI) DisplayResults(results []m.FileResult, err error) error {
	f.resultsCalls++
	f.shownResults = results
	f.shownErr = err

	return f.shownErr
}

type fakeReportStore struct {
	savedPath    m.Path
	savedResults []m.FileResult

	loadPath    m.Path
	loadResults []m.FileResult
	loadErr     error
}

func (f *fakeReportStore) SaveResults(path m.Path, results []m.FileResult) error {
	f.savedPath = path
	f.savedResults = results

	return nil
}

func (f *fakeReportStore) LoadResults(path m.Path) ([]m.FileResult, error) {
	f.loadPath = path
	return f.loadResults, f.loadErr
}

// swapFakes installs the fake collaborators and returns a restore function.
func swapFakes(wf *fakeWorkflow, u *fakeUI, rs *fakeReportStore) func() {
	originalWorkflow := workflow
	originalUI := ui
	originalStore := reportStore

	workflow = wf
	ui = u
	reportStore = rs

	return func() {
		workflow = originalWorkflow
		ui = originalUI
		reportStore = originalStore
	}
}
