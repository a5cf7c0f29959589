package production_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/andrescamacho/geode-planner/internal/domain/production"
	"github.com/andrescamacho/geode-planner/test/helpers"
)

func TestInitialState(t *testing.T) {
	s := production.InitialState()

	assert.Equal(t, uint16(0), s.Minute)
	assert.Equal(t, production.Inventory{}, s.Stock)
	assert.Equal(t, production.Inventory{production.Ore: 1}, s.Units)
}

func TestState_AdvanceIdleProducesFromUnits(t *testing.T) {
	bp := helpers.ExampleBlueprints(t)[0]
	s := production.State{
		Minute: 3,
		Stock:  production.Inventory{1, 2, 3, 4},
		Units:  production.Inventory{2, 1, 1, 1},
	}

	next := s.Advance(bp, production.Idle)

	assert.Equal(t, uint16(4), next.Minute)
	assert.Equal(t, production.Inventory{3, 3, 4, 5}, next.Stock)
	assert.Equal(t, s.Units, next.Units)
}

func TestState_AdvanceBuildPaysAfterProduction(t *testing.T) {
	bp := helpers.ExampleBlueprints(t)[0]
	s := production.State{
		Minute: 4,
		Stock:  production.Inventory{production.Ore: 4},
		Units:  production.Inventory{production.Ore: 1},
	}

	next := s.Advance(bp, production.BuildOre)

	// The new ore unit does not contribute this minute.
	assert.Equal(t, uint16(1), next.Stock[production.Ore])
	assert.Equal(t, uint16(2), next.Units[production.Ore])
	assert.Equal(t, uint16(5), next.Minute)
}

func TestState_CanBuildUsesStockBeforeProduction(t *testing.T) {
	bp := helpers.ExampleBlueprints(t)[0]
	s := production.State{
		Stock: production.Inventory{production.Ore: 3},
		Units: production.Inventory{production.Ore: 5},
	}

	assert.False(t, s.CanBuild(bp, production.Ore), "ore unit costs 4; this minute's output is not available yet")
	assert.True(t, s.CanBuild(bp, production.Clay))
	assert.False(t, s.CanBuild(bp, production.Obsidian))
	assert.False(t, s.CanBuild(bp, production.Geode))
}

func TestState_GeodeFloor(t *testing.T) {
	s := production.State{
		Minute: 20,
		Stock:  production.Inventory{production.Geode: 3},
		Units:  production.Inventory{production.Geode: 2},
	}

	assert.Equal(t, 11, s.GeodeFloor(24))
	assert.Equal(t, 3, s.GeodeFloor(20))
	assert.Equal(t, 3, s.GeodeFloor(10))
}

func TestAction_Builds(t *testing.T) {
	tests := []struct {
		action production.Action
		unit   production.Resource
		builds bool
	}{
		{production.BuildGeode, production.Geode, true},
		{production.BuildOre, production.Ore, true},
		{production.BuildClay, production.Clay, true},
		{production.BuildObsidian, production.Obsidian, true},
		{production.Idle, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.action.String(), func(t *testing.T) {
			unit, builds := tt.action.Builds()
			assert.Equal(t, tt.builds, builds)
			if builds {
				assert.Equal(t, tt.unit, unit)
			}
		})
	}
}
