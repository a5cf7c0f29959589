package grpc_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	grpcadapter "github.com/andrescamacho/geode-planner/internal/adapters/grpc"
	"github.com/andrescamacho/geode-planner/internal/application/mediator"
	"github.com/andrescamacho/geode-planner/internal/application/planning"
	"github.com/andrescamacho/geode-planner/internal/domain/shared"
	"github.com/andrescamacho/geode-planner/internal/infrastructure/config"
	"github.com/andrescamacho/geode-planner/test/helpers"
)

func solverConfig() config.SolverConfig {
	solver := config.DefaultConfig().Solver
	solver.StallMinutes = 6
	return solver
}

func TestPlannerService_EvaluateUsesPolicyDefaults(t *testing.T) {
	med := helpers.NewMockMediator()
	client := serve(t, med, solverConfig(), config.DaemonConfig{})
	input := helpers.BlueprintLine(1, 4, 2, 3, 14, 2, 7)

	t.Run("quality sum", func(t *testing.T) {
		_, err := client.Evaluate(context.Background(), grpcadapter.EvaluateRequest{Input: input})
		require.NoError(t, err)

		cmd := med.LastEvaluate()
		require.NotNil(t, cmd)
		assert.Equal(t, planning.PolicyQualitySum, cmd.Policy)
		assert.Equal(t, 24, cmd.Horizon)
		assert.False(t, cmd.Eager)
		assert.Equal(t, 6, cmd.StallMinutes)
	})

	t.Run("top product", func(t *testing.T) {
		_, err := client.Evaluate(context.Background(), grpcadapter.EvaluateRequest{
			Input: input, Policy: planning.PolicyTopProduct,
		})
		require.NoError(t, err)

		cmd := med.LastEvaluate()
		require.NotNil(t, cmd)
		assert.Equal(t, 32, cmd.Horizon)
		assert.True(t, cmd.Eager)
		assert.Equal(t, 3, cmd.Limit)
	})

	t.Run("explicit values win", func(t *testing.T) {
		_, err := client.Evaluate(context.Background(), grpcadapter.EvaluateRequest{
			Input: input, Policy: planning.PolicyTopProduct,
			Horizon: intPtr(20), Eager: boolPtr(false), Limit: intPtr(1), StallMinutes: intPtr(0),
		})
		require.NoError(t, err)

		cmd := med.LastEvaluate()
		require.NotNil(t, cmd)
		assert.Equal(t, 20, cmd.Horizon)
		assert.False(t, cmd.Eager)
		assert.Equal(t, 1, cmd.Limit)
		assert.Equal(t, 0, cmd.StallMinutes)
	})
}

func TestPlannerService_SimulateUsesQualityDefaults(t *testing.T) {
	med := helpers.NewMockMediator()
	client := serve(t, med, solverConfig(), config.DaemonConfig{})

	resp, err := client.Simulate(context.Background(), grpcadapter.SimulateRequest{
		Blueprint: helpers.BlueprintLine(4, 1, 1, 1, 1, 1, 1),
	})
	require.NoError(t, err)

	cmd := med.LastSimulate()
	require.NotNil(t, cmd)
	assert.Equal(t, 4, cmd.Blueprint.ID())
	assert.Equal(t, 24, cmd.Horizon)
	assert.Equal(t, 4, resp.Result.BlueprintID)
}

func TestPlannerService_MapsHandlerErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code codes.Code
	}{
		{"validation", shared.NewValidationError("Horizon", "too long"), codes.InvalidArgument},
		{"wrapped validation", fmt.Errorf("evaluate: %w", shared.NewValidationError("Policy", "unknown")), codes.InvalidArgument},
		{"deadline", fmt.Errorf("search: %w", context.DeadlineExceeded), codes.DeadlineExceeded},
		{"cancelled", context.Canceled, codes.Canceled},
		{"anything else", errors.New("disk on fire"), codes.Internal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			med := helpers.NewMockMediator()
			med.SetSendFunc(func(ctx context.Context, request mediator.Request) (mediator.Response, error) {
				return nil, tt.err
			})
			client := serve(t, med, solverConfig(), config.DaemonConfig{})

			_, err := client.Evaluate(context.Background(), grpcadapter.EvaluateRequest{
				Input: helpers.BlueprintLine(1, 1, 1, 1, 1, 1, 1),
			})

			require.Error(t, err)
			assert.Equal(t, tt.code, status.Code(err))
		})
	}
}

func TestPlannerService_ParseErrorsNeverReachTheMediator(t *testing.T) {
	med := helpers.NewMockMediator()
	client := serve(t, med, solverConfig(), config.DaemonConfig{})

	_, err := client.Evaluate(context.Background(), grpcadapter.EvaluateRequest{Input: "Blueprint 1: broken"})

	require.Error(t, err)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
	assert.Empty(t, med.Requests())
}
