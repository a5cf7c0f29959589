package planning

import (
	"context"
	"fmt"

	"github.com/andrescamacho/geode-planner/internal/application/mediator"
	"github.com/andrescamacho/geode-planner/internal/domain/production"
	"github.com/andrescamacho/geode-planner/internal/domain/shared"
)

// SimulateBlueprintHandler runs a single search for one blueprint
type SimulateBlueprintHandler struct {
	runner *searchRunner
}

// NewSimulateBlueprintHandler creates a new simulate handler
func NewSimulateBlueprintHandler(
	explorer *production.Explorer,
	recorder SearchRecorder,
	clock shared.Clock,
	cfg RunnerConfig,
) *SimulateBlueprintHandler {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &SimulateBlueprintHandler{
		runner: &searchRunner{
			explorer: explorer,
			clock:    clock,
			recorder: recorder,
			timeout:  cfg.Timeout,
		},
	}
}

// Handle executes the simulate command
func (h *SimulateBlueprintHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*SimulateBlueprintCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}
	if err := validateRequest(cmd); err != nil {
		return nil, err
	}

	outcome, err := h.runner.run(ctx, "single", cmd.Blueprint, production.Policy{
		Horizon:      cmd.Horizon,
		Eager:        cmd.Eager,
		StallMinutes: cmd.StallMinutes,
	})
	if err != nil {
		return nil, err
	}

	return &SimulateBlueprintResponse{
		Result:   outcome.Result,
		Duration: outcome.Duration,
	}, nil
}
