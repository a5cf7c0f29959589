package production

// State is one node of the search tree. It is a plain value: comparable and
// usable as a map key.
type State struct {
	Minute uint16
	Stock  Inventory
	Units  Inventory
}

// InitialState is minute zero with an empty stock and a single ore unit.
func InitialState() State {
	return State{Units: Inventory{Ore: 1}}
}

// CanBuild reports whether the unit is affordable from the current stock.
// Affordability is judged before this minute's production arrives.
func (s State) CanBuild(bp *Blueprint, unit Resource) bool {
	return s.Stock.Covers(bp.CostOf(unit))
}

// Advance applies one minute. Production uses the unit counts held at the
// start of the minute, then the cost of the chosen unit is paid and the unit
// is added, so it only starts producing the following minute. The caller
// must check CanBuild first.
func (s State) Advance(bp *Blueprint, action Action) State {
	next := s
	next.Minute++
	for i := range next.Stock {
		next.Stock[i] += s.Units[i]
	}

	unit, builds := action.Builds()
	if !builds {
		return next
	}

	cost := bp.CostOf(unit)
	for i := range next.Stock {
		next.Stock[i] -= cost[i]
	}
	next.Units[unit]++
	return next
}

// GeodeFloor is the geode count reached at the horizon if nothing else is
// ever built. Building never removes geodes, so every continuation reaches
// at least this much.
func (s State) GeodeFloor(horizon int) int {
	remaining := horizon - int(s.Minute)
	if remaining < 0 {
		remaining = 0
	}
	return int(s.Stock[Geode]) + int(s.Units[Geode])*remaining
}
