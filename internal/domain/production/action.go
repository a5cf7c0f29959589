package production

// Action is one minute's build decision.
type Action int

// Actions are listed in the order the explorer considers them.
const (
	BuildGeode Action = iota
	BuildOre
	BuildClay
	BuildObsidian
	Idle
)

func (a Action) String() string {
	switch a {
	case BuildGeode:
		return "build-geode"
	case BuildOre:
		return "build-ore"
	case BuildClay:
		return "build-clay"
	case BuildObsidian:
		return "build-obsidian"
	case Idle:
		return "idle"
	default:
		return "unknown"
	}
}

// Builds returns the unit type the action constructs, if any.
func (a Action) Builds() (Resource, bool) {
	switch a {
	case BuildGeode:
		return Geode, true
	case BuildOre:
		return Ore, true
	case BuildClay:
		return Clay, true
	case BuildObsidian:
		return Obsidian, true
	case Idle:
		return 0, false
	default:
		return 0, false
	}
}
