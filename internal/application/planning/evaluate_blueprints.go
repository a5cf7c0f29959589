package planning

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/andrescamacho/geode-planner/internal/application/logging"
	"github.com/andrescamacho/geode-planner/internal/application/mediator"
	"github.com/andrescamacho/geode-planner/internal/domain/production"
	"github.com/andrescamacho/geode-planner/internal/domain/shared"
	"github.com/andrescamacho/geode-planner/pkg/utils"
)

// EvaluateBlueprintsHandler fans one search per blueprint out to a bounded
// worker group and folds the results according to the aggregation policy.
//
// Error Handling:
// - Invalid command → ValidationError, nothing is searched
// - A failing search cancels the remaining ones and the error is returned
// - Run record persistence failures are logged, not returned
type EvaluateBlueprintsHandler struct {
	runner  *searchRunner
	repo    production.RunRecordRepository
	clock   shared.Clock
	workers int
}

// NewEvaluateBlueprintsHandler creates a new evaluation handler.
// repo and recorder may be nil.
func NewEvaluateBlueprintsHandler(
	explorer *production.Explorer,
	repo production.RunRecordRepository,
	recorder SearchRecorder,
	clock shared.Clock,
	cfg RunnerConfig,
) *EvaluateBlueprintsHandler {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &EvaluateBlueprintsHandler{
		runner: &searchRunner{
			explorer: explorer,
			clock:    clock,
			recorder: recorder,
			timeout:  cfg.Timeout,
		},
		repo:    repo,
		clock:   clock,
		workers: workers,
	}
}

// Handle executes the evaluation command
func (h *EvaluateBlueprintsHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*EvaluateBlueprintsCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}
	if err := validateRequest(cmd); err != nil {
		return nil, err
	}

	selected := SelectBlueprints(cmd.Policy, cmd.Blueprints, cmd.Limit)
	policy := production.Policy{
		Horizon:      cmd.Horizon,
		Eager:        cmd.Eager,
		StallMinutes: cmd.StallMinutes,
	}

	runID := utils.GenerateRunID(string(cmd.Policy))
	logger := logging.LoggerFromContext(ctx)
	logger.Log(logging.LevelInfo, "evaluation started", map[string]interface{}{
		"run_id":     runID,
		"policy":     string(cmd.Policy),
		"blueprints": len(selected),
		"horizon":    cmd.Horizon,
		"eager":      cmd.Eager,
		"workers":    h.workers,
	})

	outcomes := make([]*BlueprintOutcome, len(selected))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(h.workers)
	for i, bp := range selected {
		g.Go(func() error {
			outcome, err := h.runner.run(gctx, string(cmd.Policy), bp, policy)
			if err != nil {
				return err
			}
			outcomes[i] = outcome
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("evaluation %s failed: %w", runID, err)
	}

	results := make([]*production.SearchResult, len(outcomes))
	truncated := false
	for i, o := range outcomes {
		results[i] = o.Result
		truncated = truncated || o.Result.Truncated
	}
	value := Aggregate(cmd.Policy, results)

	h.saveRecords(ctx, runID, cmd.Policy, outcomes)

	logger.Log(logging.LevelInfo, "evaluation finished", map[string]interface{}{
		"run_id":    runID,
		"policy":    string(cmd.Policy),
		"value":     value,
		"truncated": truncated,
	})

	return &EvaluateBlueprintsResponse{
		RunID:     runID,
		Policy:    cmd.Policy,
		Value:     value,
		Outcomes:  outcomes,
		Truncated: truncated,
	}, nil
}

func (h *EvaluateBlueprintsHandler) saveRecords(ctx context.Context, runID string, policy AggregationPolicy, outcomes []*BlueprintOutcome) {
	if h.repo == nil {
		return
	}

	logger := logging.LoggerFromContext(ctx)
	now := h.clock.Now()
	for _, o := range outcomes {
		record := production.NewRunRecord(runID, string(policy), o.Result, o.Duration, now)
		if err := h.repo.Save(ctx, record); err != nil {
			logger.Log(logging.LevelError, "failed to save run record", map[string]interface{}{
				"run_id":       runID,
				"blueprint_id": o.Result.BlueprintID,
				"error":        err.Error(),
			})
		}
	}
}
