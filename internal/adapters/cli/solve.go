package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/geode-planner/internal/adapters/blueprints"
	grpcadapter "github.com/andrescamacho/geode-planner/internal/adapters/grpc"
	"github.com/andrescamacho/geode-planner/internal/application/planning"
	"github.com/andrescamacho/geode-planner/internal/infrastructure/config"
)

// solverFlags are the search overrides shared by solve and simulate
type solverFlags struct {
	workers      int
	maxNodes     int
	timeout      time.Duration
	stallMinutes int
}

func (f *solverFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.workers, "workers", 0, "Concurrent blueprint searches (default: solver.workers)")
	cmd.Flags().IntVar(&f.maxNodes, "max-nodes", 0, "Expanded state budget per search, 0 = unlimited")
	cmd.Flags().DurationVar(&f.timeout, "timeout", 0, "Wall-clock budget per search, 0 = none")
	cmd.Flags().IntVar(&f.stallMinutes, "stall-minutes", 0, "Warn when no unit is affordable for this many minutes")
}

func (f *solverFlags) apply(cmd *cobra.Command, solver *config.SolverConfig) {
	if cmd.Flags().Changed("workers") {
		solver.Workers = f.workers
	}
	if cmd.Flags().Changed("max-nodes") {
		solver.MaxNodes = f.maxNodes
	}
	if cmd.Flags().Changed("timeout") {
		solver.Timeout = f.timeout
	}
	if cmd.Flags().Changed("stall-minutes") {
		solver.StallMinutes = f.stallMinutes
	}
}

// NewSolveCommand creates the solve command
func NewSolveCommand() *cobra.Command {
	var (
		flags          solverFlags
		qualityHorizon int
		topHorizon     int
		topLimit       int
		save           bool
		details        bool
	)

	cmd := &cobra.Command{
		Use:   "solve <input-file>",
		Short: "Compute the quality sum and top product of a blueprint document",
		Long: `Compute both answers for a blueprint document ("-" reads stdin):

  quality_sum  sum of id * max geodes over every blueprint (non-eager)
  top_product  product of max geodes over the first blueprints (eager)

Horizons, eagerness and the top limit come from the solver configuration
unless overridden by flags.

Examples:
  geodes solve input.txt
  geodes solve input.txt --top-limit 2 --max-nodes 50000000
  cat input.txt | geodes solve - --save`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := *loadedConfig
			flags.apply(cmd, &cfg.Solver)
			if cmd.Flags().Changed("quality-horizon") {
				cfg.Solver.Quality.Horizon = qualityHorizon
			}
			if cmd.Flags().Changed("top-horizon") {
				cfg.Solver.Top.Horizon = topHorizon
			}
			if cmd.Flags().Changed("top-limit") {
				cfg.Solver.Top.Limit = topLimit
			}

			input, err := readInput(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}

			var quality, top *planning.EvaluateBlueprintsResponse
			if remoteAddr != "" {
				quality, top, err = solveRemote(cmd.Context(), &cfg, input)
			} else {
				quality, top, err = solveLocal(cmd.Context(), &cfg, input, save)
			}
			if err != nil {
				return err
			}

			printSolveResult(cmd.OutOrStdout(), quality, top, details)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().IntVar(&qualityHorizon, "quality-horizon", 0, "Horizon of the quality sum (default: solver.quality.horizon)")
	cmd.Flags().IntVar(&topHorizon, "top-horizon", 0, "Horizon of the top product (default: solver.top.horizon)")
	cmd.Flags().IntVar(&topLimit, "top-limit", 0, "Leading blueprints in the top product (default: solver.top.limit)")
	cmd.Flags().BoolVar(&save, "save", false, "Store run records in the run history database")
	cmd.Flags().BoolVar(&details, "details", false, "Print the per-blueprint results")

	return cmd
}

func solveLocal(ctx context.Context, cfg *config.Config, input string, save bool) (*planning.EvaluateBlueprintsResponse, *planning.EvaluateBlueprintsResponse, error) {
	bps, err := blueprints.ParseBlueprints(strings.NewReader(input))
	if err != nil {
		return nil, nil, err
	}

	rt, err := newLocalRuntime(cfg, save)
	if err != nil {
		return nil, nil, err
	}
	defer rt.Close()
	ctx = rt.context(ctx)

	quality, err := rt.mediator.Send(ctx, &planning.EvaluateBlueprintsCommand{
		Blueprints:   bps,
		Policy:       planning.PolicyQualitySum,
		Horizon:      cfg.Solver.Quality.Horizon,
		Eager:        cfg.Solver.Quality.Eager,
		StallMinutes: cfg.Solver.StallMinutes,
	})
	if err != nil {
		return nil, nil, err
	}

	top, err := rt.mediator.Send(ctx, &planning.EvaluateBlueprintsCommand{
		Blueprints:   bps,
		Policy:       planning.PolicyTopProduct,
		Horizon:      cfg.Solver.Top.Horizon,
		Eager:        cfg.Solver.Top.Eager,
		Limit:        cfg.Solver.Top.Limit,
		StallMinutes: cfg.Solver.StallMinutes,
	})
	if err != nil {
		return nil, nil, err
	}

	return quality.(*planning.EvaluateBlueprintsResponse), top.(*planning.EvaluateBlueprintsResponse), nil
}

func solveRemote(ctx context.Context, cfg *config.Config, input string) (*planning.EvaluateBlueprintsResponse, *planning.EvaluateBlueprintsResponse, error) {
	client, err := grpcadapter.NewPlannerClient(remoteAddr)
	if err != nil {
		return nil, nil, err
	}
	defer client.Close()

	quality, err := client.Evaluate(ctx, grpcadapter.EvaluateRequest{
		Input:        input,
		Policy:       planning.PolicyQualitySum,
		Horizon:      &cfg.Solver.Quality.Horizon,
		Eager:        &cfg.Solver.Quality.Eager,
		StallMinutes: &cfg.Solver.StallMinutes,
	})
	if err != nil {
		return nil, nil, err
	}

	top, err := client.Evaluate(ctx, grpcadapter.EvaluateRequest{
		Input:        input,
		Policy:       planning.PolicyTopProduct,
		Horizon:      &cfg.Solver.Top.Horizon,
		Eager:        &cfg.Solver.Top.Eager,
		Limit:        &cfg.Solver.Top.Limit,
		StallMinutes: &cfg.Solver.StallMinutes,
	})
	if err != nil {
		return nil, nil, err
	}

	return quality, top, nil
}

func printSolveResult(w io.Writer, quality, top *planning.EvaluateBlueprintsResponse, details bool) {
	for _, resp := range []*planning.EvaluateBlueprintsResponse{quality, top} {
		suffix := ""
		if resp.Truncated {
			suffix = "  (lower bound: search budget exhausted)"
		}
		fmt.Fprintf(w, "%s: %d%s\n", resp.Policy, resp.Value, suffix)
	}

	if details {
		fmt.Fprintln(w)
		printOutcomes(w, quality)
		fmt.Fprintln(w)
		printOutcomes(w, top)
	}
}
