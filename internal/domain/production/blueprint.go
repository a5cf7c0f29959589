package production

import (
	"fmt"

	"github.com/andrescamacho/geode-planner/internal/domain/shared"
)

// MaxCost is the largest accepted cost component. It keeps every cost inside
// the uint16 range used by Inventory.
const MaxCost = 1000

// Blueprint is an immutable cost schedule for the four unit types.
type Blueprint struct {
	id    int
	costs [ResourceCount]Inventory
}

// NewBlueprint creates a validated blueprint. Every cost must be in 1..MaxCost.
func NewBlueprint(id, oreUnitOre, clayUnitOre, obsidianUnitOre, obsidianUnitClay, geodeUnitOre, geodeUnitObsidian int) (*Blueprint, error) {
	if id <= 0 {
		return nil, shared.NewValidationError("id", fmt.Sprintf("must be positive, got %d", id))
	}

	fields := []struct {
		name  string
		value int
	}{
		{"ore_unit.ore", oreUnitOre},
		{"clay_unit.ore", clayUnitOre},
		{"obsidian_unit.ore", obsidianUnitOre},
		{"obsidian_unit.clay", obsidianUnitClay},
		{"geode_unit.ore", geodeUnitOre},
		{"geode_unit.obsidian", geodeUnitObsidian},
	}
	for _, f := range fields {
		if f.value <= 0 || f.value > MaxCost {
			return nil, shared.NewValidationError(
				fmt.Sprintf("blueprint %d %s", id, f.name),
				fmt.Sprintf("cost must be between 1 and %d, got %d", MaxCost, f.value),
			)
		}
	}

	bp := &Blueprint{id: id}
	bp.costs[Ore][Ore] = uint16(oreUnitOre)
	bp.costs[Clay][Ore] = uint16(clayUnitOre)
	bp.costs[Obsidian][Ore] = uint16(obsidianUnitOre)
	bp.costs[Obsidian][Clay] = uint16(obsidianUnitClay)
	bp.costs[Geode][Ore] = uint16(geodeUnitOre)
	bp.costs[Geode][Obsidian] = uint16(geodeUnitObsidian)
	return bp, nil
}

// ID returns the blueprint identifier.
func (b *Blueprint) ID() int {
	return b.id
}

// CostOf returns what one unit producing the given resource costs.
func (b *Blueprint) CostOf(unit Resource) Inventory {
	return b.costs[unit]
}

// Validate re-checks the cost invariants. Blueprints built with NewBlueprint
// always pass; the zero value does not.
func (b *Blueprint) Validate() error {
	if b == nil {
		return shared.NewValidationError("blueprint", "must not be nil")
	}
	if b.id <= 0 {
		return shared.NewValidationError("id", fmt.Sprintf("must be positive, got %d", b.id))
	}
	required := [ResourceCount][]Resource{
		Ore:      {Ore},
		Clay:     {Ore},
		Obsidian: {Ore, Clay},
		Geode:    {Ore, Obsidian},
	}
	for unit, components := range required {
		for _, r := range components {
			if c := b.costs[unit][r]; c == 0 || c > MaxCost {
				return shared.NewValidationError(
					fmt.Sprintf("blueprint %d %s_unit.%s", b.id, Resource(unit), r),
					fmt.Sprintf("cost must be between 1 and %d, got %d", MaxCost, c),
				)
			}
		}
	}
	return nil
}

// Bounds returns the largest useful unit count per resource. Only one unit
// can be built per minute, so owning more producers of a resource than the
// largest single spend of it cannot help. Geode units are never capped.
func (b *Blueprint) Bounds() Inventory {
	var maxOre uint16
	for _, unit := range Resources {
		maxOre = max(maxOre, b.costs[unit][Ore])
	}
	return Inventory{
		Ore:      maxOre,
		Clay:     b.costs[Obsidian][Clay],
		Obsidian: b.costs[Geode][Obsidian],
		Geode:    ^uint16(0),
	}
}

// FirstBuildMinute is the earliest minute at which any unit is affordable
// from the starting position of one ore unit and an empty stock.
func (b *Blueprint) FirstBuildMinute() int {
	return int(min(b.costs[Ore][Ore], b.costs[Clay][Ore]))
}

func (b *Blueprint) String() string {
	return fmt.Sprintf(
		"Blueprint %d: ore unit %d ore, clay unit %d ore, obsidian unit %d ore + %d clay, geode unit %d ore + %d obsidian",
		b.id,
		b.costs[Ore][Ore],
		b.costs[Clay][Ore],
		b.costs[Obsidian][Ore], b.costs[Obsidian][Clay],
		b.costs[Geode][Ore], b.costs[Geode][Obsidian],
	)
}
