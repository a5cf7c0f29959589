package cli

import (
	"github.com/spf13/cobra"

	"github.com/andrescamacho/geode-planner/internal/application/planning"
)

// NewRunsCommand creates the runs command with subcommands
func NewRunsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect stored evaluation runs",
		Long: `Inspect run records written by "geodes solve --save" and by the daemon.

Examples:
  geodes runs list
  geodes runs list --limit 50
  geodes runs list --run quality-sum-a3f8e2b1`,
	}

	cmd.AddCommand(newRunsListCommand())
	return cmd
}

func newRunsListCommand() *cobra.Command {
	var (
		limit int
		runID string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent run records",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newLocalRuntime(loadedConfig, true)
			if err != nil {
				return err
			}
			defer rt.Close()

			resp, err := rt.mediator.Send(rt.context(cmd.Context()), &planning.ListRunsQuery{
				RunID: runID,
				Limit: limit,
			})
			if err != nil {
				return err
			}

			printRunRecords(cmd.OutOrStdout(), resp.(*planning.ListRunsResponse).Records)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of records")
	cmd.Flags().StringVar(&runID, "run", "", "Show only the records of one run")

	return cmd
}
