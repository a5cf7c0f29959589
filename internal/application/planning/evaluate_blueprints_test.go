package planning_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/andrescamacho/geode-planner/internal/application/logging"
	"github.com/andrescamacho/geode-planner/internal/application/mediator"
	"github.com/andrescamacho/geode-planner/internal/application/planning"
	"github.com/andrescamacho/geode-planner/internal/domain/production"
	"github.com/andrescamacho/geode-planner/internal/domain/shared"
	"github.com/andrescamacho/geode-planner/test/helpers"
)

type recordedSearch struct {
	policy   string
	result   *production.SearchResult
	duration time.Duration
}

type fakeRecorder struct {
	mu       sync.Mutex
	searches []recordedSearch
}

func (f *fakeRecorder) RecordSearch(policy string, result *production.SearchResult, duration time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searches = append(f.searches, recordedSearch{policy, result, duration})
}

func newMediator(t *testing.T, opts production.Options, repo production.RunRecordRepository, recorder planning.SearchRecorder) mediator.Mediator {
	t.Helper()
	clock := shared.NewMockClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	clock.Step = time.Millisecond

	registry := planning.NewHandlerRegistry(
		production.NewExplorer(opts), repo, recorder, clock,
		planning.RunnerConfig{Workers: 2},
	)
	med := mediator.NewMediator()
	require.NoError(t, registry.RegisterAll(med))
	return med
}

func smallBlueprints(t *testing.T) []*production.Blueprint {
	return []*production.Blueprint{
		helpers.UnitBlueprint(t, 1),
		helpers.CheapBlueprint(t, 2),
		helpers.NewBlueprint(t, 3, 2, 1, 2, 2, 1, 2),
		helpers.NewBlueprint(t, 4, 1, 2, 2, 1, 2, 1),
	}
}

func TestEvaluateBlueprints_QualitySumMatchesSequentialSearch(t *testing.T) {
	defer goleak.VerifyNone(t)

	bps := smallBlueprints(t)
	med := newMediator(t, production.Options{}, nil, nil)

	resp, err := med.Send(context.Background(), &planning.EvaluateBlueprintsCommand{
		Blueprints: bps,
		Policy:     planning.PolicyQualitySum,
		Horizon:    12,
	})
	require.NoError(t, err)
	result := resp.(*planning.EvaluateBlueprintsResponse)

	var want int64
	for _, bp := range bps {
		geodes, err := production.Simulate(bp, 12, false)
		require.NoError(t, err)
		want += int64(bp.ID() * geodes)
	}

	assert.Equal(t, want, result.Value)
	assert.Equal(t, planning.PolicyQualitySum, result.Policy)
	assert.False(t, result.Truncated)
	require.Len(t, result.Outcomes, len(bps))
	for i, o := range result.Outcomes {
		assert.Equal(t, bps[i].ID(), o.Result.BlueprintID, "outcomes keep input order")
	}
}

func TestEvaluateBlueprints_TopProductUsesFirstThree(t *testing.T) {
	bps := smallBlueprints(t)
	med := newMediator(t, production.Options{}, nil, nil)

	resp, err := med.Send(context.Background(), &planning.EvaluateBlueprintsCommand{
		Blueprints: bps,
		Policy:     planning.PolicyTopProduct,
		Horizon:    12,
		Eager:      true,
	})
	require.NoError(t, err)
	result := resp.(*planning.EvaluateBlueprintsResponse)

	want := int64(1)
	for _, bp := range bps[:3] {
		geodes, err := production.Simulate(bp, 12, true)
		require.NoError(t, err)
		want *= int64(geodes)
	}

	require.Len(t, result.Outcomes, 3)
	assert.Equal(t, want, result.Value)
}

func TestEvaluateBlueprints_ExampleAnswers(t *testing.T) {
	if testing.Short() {
		t.Skip("full example searches")
	}
	bps := helpers.ExampleBlueprints(t)
	med := newMediator(t, production.Options{}, nil, nil)

	quality, err := med.Send(context.Background(), &planning.EvaluateBlueprintsCommand{
		Blueprints: bps, Policy: planning.PolicyQualitySum, Horizon: 24,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(33), quality.(*planning.EvaluateBlueprintsResponse).Value)

	top, err := med.Send(context.Background(), &planning.EvaluateBlueprintsCommand{
		Blueprints: bps, Policy: planning.PolicyTopProduct, Horizon: 32, Eager: true, Limit: 3,
	})
	require.NoError(t, err)
	topResp := top.(*planning.EvaluateBlueprintsResponse)
	require.Len(t, topResp.Outcomes, 2)
	assert.Equal(t, 0, topResp.Outcomes[0].Result.MaxGeodes)
	assert.Equal(t, 62, topResp.Outcomes[1].Result.MaxGeodes)
	assert.Equal(t, int64(0), topResp.Value)
}

func TestEvaluateBlueprints_SavesRecordsAndRecordsMetrics(t *testing.T) {
	repo := helpers.NewMockRunRecordRepository()
	recorder := &fakeRecorder{}
	bps := smallBlueprints(t)
	med := newMediator(t, production.Options{}, repo, recorder)

	resp, err := med.Send(context.Background(), &planning.EvaluateBlueprintsCommand{
		Blueprints: bps, Policy: planning.PolicyQualitySum, Horizon: 8,
	})
	require.NoError(t, err)
	result := resp.(*planning.EvaluateBlueprintsResponse)

	records := repo.Records()
	require.Len(t, records, len(bps))
	for _, r := range records {
		assert.Equal(t, result.RunID, r.RunID)
		assert.Equal(t, "quality_sum", r.Policy)
		assert.Equal(t, 8, r.Horizon)
		assert.Positive(t, r.Duration)
	}

	assert.Len(t, recorder.searches, len(bps))

	listed, err := med.Send(context.Background(), &planning.ListRunsQuery{RunID: result.RunID})
	require.NoError(t, err)
	assert.Len(t, listed.(*planning.ListRunsResponse).Records, len(bps))
}

func TestEvaluateBlueprints_SaveFailureIsLoggedNotReturned(t *testing.T) {
	repo := helpers.NewMockRunRecordRepository()
	repo.SetSaveError(errors.New("disk full"))
	logger := helpers.NewCapturingLogger()
	med := newMediator(t, production.Options{}, repo, nil)

	ctx := logging.WithLogger(context.Background(), logger)
	_, err := med.Send(ctx, &planning.EvaluateBlueprintsCommand{
		Blueprints: smallBlueprints(t)[:1], Policy: planning.PolicyQualitySum, Horizon: 6,
	})

	require.NoError(t, err)
	errorsLogged := logger.Entries(logging.LevelError)
	require.Len(t, errorsLogged, 1)
	assert.Equal(t, "disk full", errorsLogged[0].Metadata["error"])
}

func TestEvaluateBlueprints_TruncatedSearchIsFlagged(t *testing.T) {
	logger := helpers.NewCapturingLogger()
	med := newMediator(t, production.Options{MaxNodes: 5}, nil, nil)

	ctx := logging.WithLogger(context.Background(), logger)
	resp, err := med.Send(ctx, &planning.EvaluateBlueprintsCommand{
		Blueprints: []*production.Blueprint{helpers.CheapBlueprint(t, 1)},
		Policy:     planning.PolicyQualitySum,
		Horizon:    14,
	})

	require.NoError(t, err)
	assert.True(t, resp.(*planning.EvaluateBlueprintsResponse).Truncated)
	assert.NotEmpty(t, logger.Entries(logging.LevelWarn))
}

func TestEvaluateBlueprints_DeadlockIsLogged(t *testing.T) {
	logger := helpers.NewCapturingLogger()
	med := newMediator(t, production.Options{}, nil, nil)

	ctx := logging.WithLogger(context.Background(), logger)
	resp, err := med.Send(ctx, &planning.EvaluateBlueprintsCommand{
		Blueprints: []*production.Blueprint{helpers.NewBlueprint(t, 9, 50, 50, 1, 1, 1, 1)},
		Policy:     planning.PolicyQualitySum,
		Horizon:    24,
	})

	require.NoError(t, err)
	result := resp.(*planning.EvaluateBlueprintsResponse)
	assert.Equal(t, int64(0), result.Value)
	require.NotNil(t, result.Outcomes[0].Result.Warning)

	warnings := logger.Entries(logging.LevelWarn)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0].Message, "blueprint 9")
}

func TestEvaluateBlueprints_RejectsInvalidCommands(t *testing.T) {
	med := newMediator(t, production.Options{}, nil, nil)
	bps := smallBlueprints(t)

	tests := []struct {
		name  string
		cmd   *planning.EvaluateBlueprintsCommand
		field string
	}{
		{"no blueprints", &planning.EvaluateBlueprintsCommand{Policy: planning.PolicyQualitySum, Horizon: 24}, "Blueprints"},
		{"unknown policy", &planning.EvaluateBlueprintsCommand{Blueprints: bps, Policy: "median", Horizon: 24}, "Policy"},
		{"horizon too long", &planning.EvaluateBlueprintsCommand{Blueprints: bps, Policy: planning.PolicyQualitySum, Horizon: 300}, "Horizon"},
		{"nil blueprint", &planning.EvaluateBlueprintsCommand{Blueprints: []*production.Blueprint{nil}, Policy: planning.PolicyQualitySum}, "Blueprints[0]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := med.Send(context.Background(), tt.cmd)
			var verr *shared.ValidationError
			require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestSimulateBlueprint(t *testing.T) {
	med := newMediator(t, production.Options{}, nil, nil)

	resp, err := med.Send(context.Background(), &planning.SimulateBlueprintCommand{
		Blueprint: helpers.UnitBlueprint(t, 1),
		Horizon:   10,
	})

	require.NoError(t, err)
	result := resp.(*planning.SimulateBlueprintResponse)
	assert.Equal(t, 10, result.Result.MaxGeodes)
	assert.Equal(t, time.Millisecond, result.Duration)
}

func TestListRuns_WithoutRepository(t *testing.T) {
	med := newMediator(t, production.Options{}, nil, nil)

	_, err := med.Send(context.Background(), &planning.ListRunsQuery{})
	assert.Error(t, err)
}
