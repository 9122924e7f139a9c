package cmd

import (
	"github.com/spf13/cobra"
)

var runParallelFlag int
var runExcludeFlags []string
var runWriteFlag bool
var runOutputDirFlag string
var runReportsFlag string

// runCmd represents the run command.
var runCmd = newRunCmd()

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [paths...]",
		Short: "Execute sources and freeze their targets",
		Long:  runLongDescription,
		RunE: func(_ *cobra.Command, args []string) error {
			return executeRun(parsePaths(args), runSettings{
				parallel:  runParallelFlag,
				exclude:   runExcludeFlags,
				write:     runWriteFlag,
				outputDir: runOutputDirFlag,
				reports:   runReportsFlag,
			})
		},
	}
	cmd.Flags().IntVarP(&runParallelFlag, "parallel", "p", 1, "number of files frozen in parallel")
	cmd.Flags().StringArrayVarP(&runExcludeFlags, "exclude", "x", nil, "exclude files whose path contains the fragment (can be repeated)")
	cmd.Flags().BoolVarP(&runWriteFlag, "write", "w", false, "write rewritten sources to disk")
	cmd.Flags().StringVarP(&runOutputDirFlag, "output-dir", "o", "", "directory for rewritten sources (default: alongside originals)")
	cmd.Flags().StringVarP(&runReportsFlag, "reports", "r", "", "path of the TOML report file")

	return cmd
}

func init() {
	rootCmd.AddCommand(runCmd)
}
