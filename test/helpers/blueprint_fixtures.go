package helpers

import (
	"fmt"
	"testing"

	"github.com/andrescamacho/geode-planner/internal/domain/production"
)

// ExampleInput is the two-blueprint worked example.
const ExampleInput = `Blueprint 1: Each ore robot costs 4 ore. Each clay robot costs 2 ore. Each obsidian robot costs 3 ore and 14 clay. Each geode robot costs 2 ore and 7 obsidian.
Blueprint 2: Each ore robot costs 2 ore. Each clay robot costs 3 ore. Each obsidian robot costs 3 ore and 8 clay. Each geode robot costs 3 ore and 12 obsidian.
`

// NewBlueprint builds a blueprint or fails the test.
func NewBlueprint(t testing.TB, id, oreOre, clayOre, obsOre, obsClay, geoOre, geoObs int) *production.Blueprint {
	t.Helper()
	bp, err := production.NewBlueprint(id, oreOre, clayOre, obsOre, obsClay, geoOre, geoObs)
	if err != nil {
		t.Fatalf("failed to build blueprint %d: %v", id, err)
	}
	return bp
}

// ExampleBlueprints returns the two blueprints of ExampleInput.
func ExampleBlueprints(t testing.TB) []*production.Blueprint {
	t.Helper()
	return []*production.Blueprint{
		NewBlueprint(t, 1, 4, 2, 3, 14, 2, 7),
		NewBlueprint(t, 2, 2, 3, 3, 8, 3, 12),
	}
}

// CheapBlueprint has every cost at 2 so geode units appear within a few
// minutes; it keeps exhaustive searches small.
func CheapBlueprint(t testing.TB, id int) *production.Blueprint {
	t.Helper()
	return NewBlueprint(t, id, 2, 2, 2, 2, 2, 2)
}

// UnitBlueprint has every cost at 1. Every derived bound is 1, so once a
// geode unit is affordable the only alternative is idling.
func UnitBlueprint(t testing.TB, id int) *production.Blueprint {
	t.Helper()
	return NewBlueprint(t, id, 1, 1, 1, 1, 1, 1)
}

// BlueprintLine renders a blueprint sentence in the input format.
func BlueprintLine(id, oreOre, clayOre, obsOre, obsClay, geoOre, geoObs int) string {
	return fmt.Sprintf("Blueprint %d: Each ore robot costs %d ore. Each clay robot costs %d ore. "+
		"Each obsidian robot costs %d ore and %d clay. Each geode robot costs %d ore and %d obsidian.",
		id, oreOre, clayOre, obsOre, obsClay, geoOre, geoObs)
}
