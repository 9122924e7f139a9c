// Package cmd provides the root command and CLI setup for permafrost.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	"github.com/frost-works/permafrost/internal/adapter"
	"github.com/frost-works/permafrost/internal/controller"
	"github.com/frost-works/permafrost/internal/domain"
	"github.com/frost-works/permafrost/internal/manifest"
	m "github.com/frost-works/permafrost/internal/model"

	_ "github.com/tliron/commonlog/simple"
)

var starAdapter adapter.StarFileAdapter
var fsAdapter adapter.SourceFSAdapter
var reportStore adapter.ReportStore
var workflow domain.Workflow
var ui controller.UI

func init() {
	ui = controller.NewUI(rootCmd, controller.IsTTY(os.Stdout))
	starAdapter = adapter.NewLocalStarFileAdapter()
	fsAdapter = adapter.NewLocalSourceFSAdapter(starAdapter)
	reportStore = adapter.NewReportStore()
	workflow = domain.NewWorkflow(fsAdapter)
}

var listFlag bool
var parallelFlag int
var verbosityFlag int
var writeFlag bool

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "permafrost [paths...]",
		Short: "Starlark constant freezing tool",
		Long:  rootLongDescription,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			commonlog.Configure(verbosityFlag, nil)
		},
		RunE: func(_ *cobra.Command, args []string) error {
			paths := parsePaths(args)

			if listFlag {
				return executeList(paths)
			}

			return executeRun(paths, runSettings{
				parallel: parallelFlag,
				write:    writeFlag,
			})
		},
	}
	cmd.Flags().BoolVarP(&listFlag, "list", "l", false, "list source files and freeze site counts without running")
	cmd.Flags().IntVarP(&parallelFlag, "parallel", "p", 1, "number of files frozen in parallel")
	cmd.Flags().BoolVarP(&writeFlag, "write", "w", false, "write rewritten sources to disk")
	cmd.PersistentFlags().IntVarP(&verbosityFlag, "verbose", "v", 0, "log verbosity (repeatable via -v=N)")

	return cmd
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// runSettings carries command-line values that override manifest defaults.
type runSettings struct {
	parallel  int
	exclude   []string
	write     bool
	outputDir string
	reports   string
}

// resolveRun merges CLI paths and settings with the project manifest, when
// one is found. CLI values win; manifest values fill the gaps.
func resolveRun(paths []m.Path, settings runSettings) ([]m.Path, domain.RunOptions, string) {
	opts := domain.RunOptions{
		Parallel:  settings.parallel,
		Exclude:   settings.exclude,
		Write:     settings.write,
		OutputDir: settings.outputDir,
	}

	reports := settings.reports

	mf, err := manifest.FindAndLoad(".")
	if err != nil || mf == nil {
		if len(paths) == 0 {
			paths = []m.Path{"./..."}
		}

		return paths, opts, reports
	}

	if len(paths) == 0 {
		for _, root := range mf.RootPaths() {
			paths = append(paths, m.Path(root))
		}
	}

	if len(opts.Exclude) == 0 {
		opts.Exclude = mf.Source.Exclude
	}

	opts.EnforceGlobals = mf.Freeze.EnforceGlobals
	opts.Ignore = mf.Freeze.Ignore

	if opts.OutputDir == "" {
		opts.OutputDir = mf.Output.Dir
	}

	if reports == "" {
		reports = mf.ReportsPath()
	}

	return paths, opts, reports
}

func executeRun(paths []m.Path, settings runSettings) error {
	paths, opts, reports := resolveRun(paths, settings)

	sources, err := workflow.GetSources(paths...)
	if err != nil {
		return err
	}

	ui.DisplayRunInfo(len(sources), opts.Parallel)

	results, runErr := workflow.FreezeAll(sources, opts)

	if reports != "" && len(results) > 0 {
		if err := reportStore.SaveResults(m.Path(reports), results); err != nil {
			return err
		}
	}

	return ui.DisplayResults(results, runErr)
}

func executeList(paths []m.Path) error {
	paths, _, _ = resolveRun(paths, runSettings{})

	sources, err := workflow.GetSources(paths...)
	if err != nil {
		return err
	}

	return ui.DisplaySources(sources)
}

func parsePaths(args []string) []m.Path {
	paths := make([]m.Path, 0, len(args))
	for _, arg := range args {
		paths = append(paths, m.Path(arg))
	}

	return paths
}
