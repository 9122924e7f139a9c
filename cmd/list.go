package cmd

import (
	"github.com/spf13/cobra"
)

// listCmd represents the list command.
var listCmd = newListCmd()

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [paths...]",
		Short: "List source files and freeze site counts",
		Long:  listLongDescription,
		RunE: func(_ *cobra.Command, args []string) error {
			return executeList(parsePaths(args))
		},
	}

	return cmd
}

func init() {
	rootCmd.AddCommand(listCmd)
}
