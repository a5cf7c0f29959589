package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/geode-planner/internal/adapters/blueprints"
	grpcadapter "github.com/andrescamacho/geode-planner/internal/adapters/grpc"
	"github.com/andrescamacho/geode-planner/internal/application/planning"
	"github.com/andrescamacho/geode-planner/internal/domain/production"
)

// NewSimulateCommand creates the simulate command
func NewSimulateCommand() *cobra.Command {
	var (
		flags       solverFlags
		blueprintID int
		horizon     int
		eager       bool
	)

	cmd := &cobra.Command{
		Use:   "simulate <input-file>",
		Short: "Search a single blueprint",
		Long: `Run one search for one blueprint of a document and print its maximum geode
count together with the search statistics.

Examples:
  geodes simulate input.txt --blueprint 1 --horizon 24
  geodes simulate input.txt --blueprint 2 --horizon 32 --eager`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := *loadedConfig
			flags.apply(cmd, &cfg.Solver)
			if !cmd.Flags().Changed("horizon") {
				horizon = cfg.Solver.Quality.Horizon
			}

			input, err := readInput(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			bps, err := blueprints.ParseBlueprints(strings.NewReader(input))
			if err != nil {
				return err
			}
			bp, err := findBlueprint(bps, blueprintID)
			if err != nil {
				return err
			}

			var resp *planning.SimulateBlueprintResponse
			if remoteAddr != "" {
				client, err := grpcadapter.NewPlannerClient(remoteAddr)
				if err != nil {
					return err
				}
				defer client.Close()
				resp, err = client.Simulate(cmd.Context(), grpcadapter.SimulateRequest{
					Blueprint:    bp.String(),
					Horizon:      &horizon,
					Eager:        &eager,
					StallMinutes: &cfg.Solver.StallMinutes,
				})
				if err != nil {
					return err
				}
			} else {
				rt, err := newLocalRuntime(&cfg, false)
				if err != nil {
					return err
				}
				defer rt.Close()
				out, err := rt.mediator.Send(rt.context(cmd.Context()), &planning.SimulateBlueprintCommand{
					Blueprint:    bp,
					Horizon:      horizon,
					Eager:        eager,
					StallMinutes: cfg.Solver.StallMinutes,
				})
				if err != nil {
					return err
				}
				resp = out.(*planning.SimulateBlueprintResponse)
			}

			res := resp.Result
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Blueprint %d: %d geodes in %d minutes (eager=%t)\n", res.BlueprintID, res.MaxGeodes, res.Horizon, res.Eager)
			fmt.Fprintf(w, "  Explored:  %d\n", res.Explored)
			fmt.Fprintf(w, "  Pruned:    %d\n", res.Pruned)
			fmt.Fprintf(w, "  Duration:  %s\n", resp.Duration)
			if note := resultNote(res); note != "" {
				fmt.Fprintf(w, "  Note:      %s\n", note)
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().IntVar(&blueprintID, "blueprint", 0, "Blueprint id (default: first blueprint of the document)")
	cmd.Flags().IntVar(&horizon, "horizon", 0, "Minutes to simulate (default: solver.quality.horizon)")
	cmd.Flags().BoolVar(&eager, "eager", false, "Never idle while a unit is affordable")

	return cmd
}

func findBlueprint(bps []*production.Blueprint, id int) (*production.Blueprint, error) {
	if len(bps) == 0 {
		return nil, fmt.Errorf("no blueprints in input")
	}
	if id == 0 {
		return bps[0], nil
	}
	for _, bp := range bps {
		if bp.ID() == id {
			return bp, nil
		}
	}
	return nil, fmt.Errorf("blueprint %d not found in input", id)
}
