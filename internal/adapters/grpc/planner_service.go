package grpc

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/andrescamacho/geode-planner/internal/adapters/blueprints"
	"github.com/andrescamacho/geode-planner/internal/application/mediator"
	"github.com/andrescamacho/geode-planner/internal/application/planning"
	"github.com/andrescamacho/geode-planner/internal/domain/shared"
	"github.com/andrescamacho/geode-planner/internal/infrastructure/config"
)

// plannerService implements PlannerServer on top of the mediator.
// Omitted horizon, eager or limit fields fall back to the solver defaults.
type plannerService struct {
	mediator mediator.Mediator
	solver   config.SolverConfig
}

func newPlannerService(med mediator.Mediator, solver config.SolverConfig) *plannerService {
	return &plannerService{mediator: med, solver: solver}
}

// Simulate searches one blueprint sentence
func (s *plannerService) Simulate(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	bp, err := blueprints.ParseLine(stringField(req, fieldBlueprint))
	if err != nil {
		return nil, toStatusError(err)
	}

	horizon, ok, err := requestIntField(req, fieldHorizon)
	if err != nil {
		return nil, toStatusError(err)
	}
	if !ok {
		horizon = s.solver.Quality.Horizon
	}
	eager, ok := boolField(req, fieldEager)
	if !ok {
		eager = s.solver.Quality.Eager
	}
	stall, err := s.stallMinutes(req)
	if err != nil {
		return nil, toStatusError(err)
	}

	resp, err := s.mediator.Send(ctx, &planning.SimulateBlueprintCommand{
		Blueprint:    bp,
		Horizon:      horizon,
		Eager:        eager,
		StallMinutes: stall,
	})
	if err != nil {
		return nil, toStatusError(err)
	}

	out, err := simulateResponseToStruct(resp.(*planning.SimulateBlueprintResponse))
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode response: %v", err)
	}
	return out, nil
}

// Evaluate parses a blueprint document and aggregates it with the requested policy
func (s *plannerService) Evaluate(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	bps, err := blueprints.ParseBlueprints(strings.NewReader(stringField(req, fieldInput)))
	if err != nil {
		return nil, toStatusError(err)
	}

	policy := planning.AggregationPolicy(stringField(req, fieldPolicy))
	if policy == "" {
		policy = planning.PolicyQualitySum
	}

	horizon, eager, limit := s.solver.Quality.Horizon, s.solver.Quality.Eager, 0
	if policy == planning.PolicyTopProduct {
		horizon, eager, limit = s.solver.Top.Horizon, s.solver.Top.Eager, s.solver.Top.Limit
	}
	if v, ok, err := requestIntField(req, fieldHorizon); err != nil {
		return nil, toStatusError(err)
	} else if ok {
		horizon = v
	}
	if v, ok := boolField(req, fieldEager); ok {
		eager = v
	}
	if v, ok, err := requestIntField(req, fieldLimit); err != nil {
		return nil, toStatusError(err)
	} else if ok {
		limit = v
	}
	stall, err := s.stallMinutes(req)
	if err != nil {
		return nil, toStatusError(err)
	}

	resp, err := s.mediator.Send(ctx, &planning.EvaluateBlueprintsCommand{
		Blueprints:   bps,
		Policy:       policy,
		Horizon:      horizon,
		Eager:        eager,
		Limit:        limit,
		StallMinutes: stall,
	})
	if err != nil {
		return nil, toStatusError(err)
	}

	out, err := evaluateResponseToStruct(resp.(*planning.EvaluateBlueprintsResponse))
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode response: %v", err)
	}
	return out, nil
}

func (s *plannerService) stallMinutes(req *structpb.Struct) (int, error) {
	v, ok, err := requestIntField(req, fieldStallMinutes)
	if err != nil || !ok {
		return s.solver.StallMinutes, err
	}
	return v, nil
}

// toStatusError maps domain errors onto gRPC status codes
func toStatusError(err error) error {
	var validationErr *shared.ValidationError
	var parseErr *shared.ParseError
	switch {
	case errors.As(err, &validationErr), errors.As(err, &parseErr):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	default:
		return status.Error(codes.Internal, fmt.Sprintf("planner failure: %v", err))
	}
}
