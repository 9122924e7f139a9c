package cmd

import (
	"github.com/spf13/cobra"

	m "github.com/frost-works/permafrost/internal/model"
)

var viewReportsFlag string

// viewCmd represents the view command.
var viewCmd = newViewCmd()

func newViewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view",
		Short: "View previously generated freeze reports",
		Long:  "View previously generated freeze reports from a report file.",
		Args:  cobra.ExactArgs(0),
		RunE: func(_ *cobra.Command, _ []string) error {
			_, _, reports := resolveRun(nil, runSettings{reports: viewReportsFlag})

			results, err := reportStore.LoadResults(m.Path(reports))
			if err != nil {
				return err
			}

			return ui.DisplayResults(results, nil)
		},
	}
	cmd.Flags().StringVarP(&viewReportsFlag, "reports", "r", "", "path of the TOML report file")

	return cmd
}

func init() {
	rootCmd.AddCommand(viewCmd)
}
