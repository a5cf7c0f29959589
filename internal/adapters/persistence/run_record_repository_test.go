package persistence_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/geode-planner/internal/adapters/persistence"
	"github.com/andrescamacho/geode-planner/internal/domain/production"
	"github.com/andrescamacho/geode-planner/test/helpers"
)

func record(runID string, blueprintID int, createdAt time.Time) *production.RunRecord {
	return &production.RunRecord{
		RunID:       runID,
		Policy:      "quality_sum",
		BlueprintID: blueprintID,
		Horizon:     24,
		MaxGeodes:   blueprintID * 3,
		Explored:    1000,
		Pruned:      40,
		Duration:    1500 * time.Millisecond,
		CreatedAt:   createdAt,
	}
}

func TestRunRecordRepository_SaveAndFindByRun(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormRunRecordRepository(db)
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Save(context.Background(), record("run-a", 2, now)))
	require.NoError(t, repo.Save(context.Background(), record("run-a", 1, now)))
	require.NoError(t, repo.Save(context.Background(), record("run-b", 1, now)))

	// Act
	found, err := repo.FindByRun(context.Background(), "run-a")

	// Assert
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, 1, found[0].BlueprintID)
	assert.Equal(t, 2, found[1].BlueprintID)
	assert.Equal(t, 6, found[1].MaxGeodes)
	assert.Equal(t, 1500*time.Millisecond, found[1].Duration)
	assert.Equal(t, 1000, found[1].Explored)
	assert.True(t, now.Equal(found[1].CreatedAt))
}

func TestRunRecordRepository_ListRecentNewestFirst(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormRunRecordRepository(db)
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	for i := 1; i <= 5; i++ {
		require.NoError(t, repo.Save(context.Background(), record("run", i, base.Add(time.Duration(i)*time.Minute))))
	}

	// Act
	recent, err := repo.ListRecent(context.Background(), 3)

	// Assert
	require.NoError(t, err)
	require.Len(t, recent, 3)
	assert.Equal(t, []int{5, 4, 3}, []int{recent[0].BlueprintID, recent[1].BlueprintID, recent[2].BlueprintID})
}

func TestRunRecordRepository_UnknownRun(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormRunRecordRepository(db)

	// Act
	found, err := repo.FindByRun(context.Background(), "missing")

	// Assert
	require.NoError(t, err)
	assert.Empty(t, found)
}
