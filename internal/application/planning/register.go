package planning

import (
	"fmt"

	"github.com/andrescamacho/geode-planner/internal/application/mediator"
	"github.com/andrescamacho/geode-planner/internal/domain/production"
	"github.com/andrescamacho/geode-planner/internal/domain/shared"
)

// HandlerRegistry holds the dependencies shared by the planning handlers
type HandlerRegistry struct {
	explorer *production.Explorer
	repo     production.RunRecordRepository
	recorder SearchRecorder
	clock    shared.Clock
	cfg      RunnerConfig
}

// NewHandlerRegistry creates a registry. repo and recorder may be nil.
func NewHandlerRegistry(
	explorer *production.Explorer,
	repo production.RunRecordRepository,
	recorder SearchRecorder,
	clock shared.Clock,
	cfg RunnerConfig,
) *HandlerRegistry {
	return &HandlerRegistry{
		explorer: explorer,
		repo:     repo,
		recorder: recorder,
		clock:    clock,
		cfg:      cfg,
	}
}

// RegisterAll registers every planning handler on the mediator
func (r *HandlerRegistry) RegisterAll(med mediator.Mediator) error {
	simulate := NewSimulateBlueprintHandler(r.explorer, r.recorder, r.clock, r.cfg)
	if err := mediator.RegisterHandler[*SimulateBlueprintCommand](med, simulate); err != nil {
		return fmt.Errorf("failed to register SimulateBlueprint handler: %w", err)
	}

	evaluate := NewEvaluateBlueprintsHandler(r.explorer, r.repo, r.recorder, r.clock, r.cfg)
	if err := mediator.RegisterHandler[*EvaluateBlueprintsCommand](med, evaluate); err != nil {
		return fmt.Errorf("failed to register EvaluateBlueprints handler: %w", err)
	}

	listRuns := NewListRunsHandler(r.repo)
	if err := mediator.RegisterHandler[*ListRunsQuery](med, listRuns); err != nil {
		return fmt.Errorf("failed to register ListRuns handler: %w", err)
	}

	return nil
}
