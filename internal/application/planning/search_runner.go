package planning

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/andrescamacho/geode-planner/internal/application/logging"
	"github.com/andrescamacho/geode-planner/internal/domain/production"
	"github.com/andrescamacho/geode-planner/internal/domain/shared"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// validateRequest converts struct tag failures into a domain ValidationError
func validateRequest(request interface{}) error {
	err := validate.Struct(request)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return shared.NewValidationError(fe.Field(), fmt.Sprintf("failed '%s' validation (value: '%v')", fe.Tag(), fe.Value()))
	}
	return shared.NewValidationError("request", err.Error())
}

// RunnerConfig bounds how searches are executed
type RunnerConfig struct {
	// Workers caps concurrent searches in one evaluation
	Workers int

	// Timeout is the wall-clock budget of a single search (0 = none)
	Timeout time.Duration
}

// searchRunner executes one explorer call and reports on it
type searchRunner struct {
	explorer *production.Explorer
	clock    shared.Clock
	recorder SearchRecorder
	timeout  time.Duration
}

func (r *searchRunner) run(ctx context.Context, policyName string, bp *production.Blueprint, policy production.Policy) (*BlueprintOutcome, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	start := r.clock.Now()
	res, err := r.explorer.Explore(ctx, bp, policy)
	if err != nil {
		return nil, fmt.Errorf("blueprint %d: %w", bp.ID(), err)
	}
	duration := r.clock.Now().Sub(start)

	if r.recorder != nil {
		r.recorder.RecordSearch(policyName, res, duration)
	}

	logger := logging.LoggerFromContext(ctx)
	metadata := map[string]interface{}{
		"blueprint_id": res.BlueprintID,
		"horizon":      res.Horizon,
		"eager":        res.Eager,
		"max_geodes":   res.MaxGeodes,
		"explored":     res.Explored,
		"pruned":       res.Pruned,
		"duration_ms":  duration.Milliseconds(),
	}
	if res.Warning != nil {
		logger.Log(logging.LevelWarn, res.Warning.Error(), metadata)
	}
	if res.Truncated {
		logger.Log(logging.LevelWarn, "search budget exhausted, result is a lower bound", metadata)
	} else {
		logger.Log(logging.LevelDebug, "search finished", metadata)
	}

	return &BlueprintOutcome{Result: res, Duration: duration}, nil
}
