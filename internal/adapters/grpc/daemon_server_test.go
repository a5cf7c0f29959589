package grpc_test

import (
	"context"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	grpcadapter "github.com/andrescamacho/geode-planner/internal/adapters/grpc"
	"github.com/andrescamacho/geode-planner/internal/application/mediator"
	"github.com/andrescamacho/geode-planner/internal/application/planning"
	"github.com/andrescamacho/geode-planner/internal/domain/production"
	"github.com/andrescamacho/geode-planner/internal/infrastructure/config"
	"github.com/andrescamacho/geode-planner/test/helpers"
)

func startDaemon(t *testing.T, daemon config.DaemonConfig) *grpcadapter.PlannerClient {
	t.Helper()

	med := mediator.NewMediator()
	registry := planning.NewHandlerRegistry(
		production.NewExplorer(production.Options{}),
		helpers.NewMockRunRecordRepository(), nil, nil,
		planning.RunnerConfig{Workers: 2},
	)
	require.NoError(t, registry.RegisterAll(med))

	return serve(t, med, config.DefaultConfig().Solver, daemon)
}

// serve runs a daemon for med over an in-memory listener and returns a connected client
func serve(t *testing.T, med mediator.Mediator, solver config.SolverConfig, daemon config.DaemonConfig) *grpcadapter.PlannerClient {
	t.Helper()

	if daemon.RateLimit.Requests == 0 {
		daemon.RateLimit = config.DefaultConfig().Daemon.RateLimit
	}
	daemon.ShutdownTimeout = time.Second

	lis := bufconn.Listen(1 << 20)
	server := grpcadapter.NewDaemonServer(med, lis, solver, daemon, helpers.NewCapturingLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- server.Start(ctx) }()

	client, err := grpcadapter.NewPlannerClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = client.Close()
		cancel()
		require.NoError(t, <-done)
	})
	return client
}

func intPtr(v int) *int    { return &v }
func boolPtr(v bool) *bool { return &v }

func TestPlannerService_Simulate(t *testing.T) {
	client := startDaemon(t, config.DaemonConfig{})

	resp, err := client.Simulate(context.Background(), grpcadapter.SimulateRequest{
		Blueprint: helpers.BlueprintLine(1, 1, 1, 1, 1, 1, 1),
		Horizon:   intPtr(10),
	})

	require.NoError(t, err)
	assert.Equal(t, 1, resp.Result.BlueprintID)
	assert.Equal(t, 10, resp.Result.Horizon)
	assert.Equal(t, 10, resp.Result.MaxGeodes)
	assert.Positive(t, resp.Result.Explored)
	assert.Nil(t, resp.Result.Warning)
}

func TestPlannerService_EvaluateMatchesLocalSearch(t *testing.T) {
	client := startDaemon(t, config.DaemonConfig{})
	input := strings.Join([]string{
		helpers.BlueprintLine(1, 2, 2, 2, 2, 2, 2),
		helpers.BlueprintLine(2, 1, 2, 2, 1, 2, 1),
		helpers.BlueprintLine(3, 2, 1, 2, 2, 1, 2),
	}, "\n")

	resp, err := client.Evaluate(context.Background(), grpcadapter.EvaluateRequest{
		Input:   input,
		Policy:  planning.PolicyTopProduct,
		Horizon: intPtr(12),
		Eager:   boolPtr(true),
		Limit:   intPtr(2),
	})
	require.NoError(t, err)

	want := int64(1)
	for _, bp := range []*production.Blueprint{
		helpers.NewBlueprint(t, 1, 2, 2, 2, 2, 2, 2),
		helpers.NewBlueprint(t, 2, 1, 2, 2, 1, 2, 1),
	} {
		geodes, err := production.Simulate(bp, 12, true)
		require.NoError(t, err)
		want *= int64(geodes)
	}

	assert.Equal(t, want, resp.Value)
	assert.Equal(t, planning.PolicyTopProduct, resp.Policy)
	assert.NotEmpty(t, resp.RunID)
	require.Len(t, resp.Outcomes, 2)
	assert.True(t, resp.Outcomes[0].Result.Eager)
}

func TestPlannerService_DeadlockWarningRoundTrip(t *testing.T) {
	client := startDaemon(t, config.DaemonConfig{})

	resp, err := client.Simulate(context.Background(), grpcadapter.SimulateRequest{
		Blueprint: helpers.BlueprintLine(7, 30, 30, 3, 3, 3, 3),
		Horizon:   intPtr(24),
	})

	require.NoError(t, err)
	assert.Equal(t, 0, resp.Result.MaxGeodes)
	require.NotNil(t, resp.Result.Warning)
	assert.Equal(t, 7, resp.Result.Warning.BlueprintID)
	assert.Equal(t, 24, resp.Result.Warning.Minutes)
}

func TestPlannerService_InvalidInput(t *testing.T) {
	client := startDaemon(t, config.DaemonConfig{})

	tests := []struct {
		name string
		call func() error
	}{
		{"malformed sentence", func() error {
			_, err := client.Simulate(context.Background(), grpcadapter.SimulateRequest{Blueprint: "Blueprint 1: nothing here"})
			return err
		}},
		{"zero cost", func() error {
			_, err := client.Simulate(context.Background(), grpcadapter.SimulateRequest{Blueprint: helpers.BlueprintLine(1, 0, 1, 1, 1, 1, 1)})
			return err
		}},
		{"horizon too long", func() error {
			_, err := client.Simulate(context.Background(), grpcadapter.SimulateRequest{
				Blueprint: helpers.BlueprintLine(1, 1, 1, 1, 1, 1, 1), Horizon: intPtr(400),
			})
			return err
		}},
		{"unknown policy", func() error {
			_, err := client.Evaluate(context.Background(), grpcadapter.EvaluateRequest{
				Input: helpers.BlueprintLine(1, 1, 1, 1, 1, 1, 1), Policy: "median",
			})
			return err
		}},
		{"empty document", func() error {
			_, err := client.Evaluate(context.Background(), grpcadapter.EvaluateRequest{Policy: planning.PolicyQualitySum})
			return err
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			require.Error(t, err)
			assert.Equal(t, codes.InvalidArgument, status.Code(err), err.Error())
		})
	}
}

func TestPlannerService_RateLimited(t *testing.T) {
	client := startDaemon(t, config.DaemonConfig{
		RateLimit: config.RateLimitConfig{Requests: 1, Burst: 1},
	})
	req := grpcadapter.SimulateRequest{
		Blueprint: helpers.BlueprintLine(1, 1, 1, 1, 1, 1, 1),
		Horizon:   intPtr(4),
	}

	_, err := client.Simulate(context.Background(), req)
	require.NoError(t, err)

	_, err = client.Simulate(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, codes.ResourceExhausted, status.Code(err))
}
