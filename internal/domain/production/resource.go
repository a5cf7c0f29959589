package production

// Resource identifies one of the four stockpiled resources. Each resource has
// a matching unit type that produces one of it per minute.
type Resource int

const (
	Ore Resource = iota
	Clay
	Obsidian
	Geode
)

// ResourceCount is the number of resource kinds.
const ResourceCount = 4

// Resources lists every resource in index order.
var Resources = [ResourceCount]Resource{Ore, Clay, Obsidian, Geode}

func (r Resource) String() string {
	switch r {
	case Ore:
		return "ore"
	case Clay:
		return "clay"
	case Obsidian:
		return "obsidian"
	case Geode:
		return "geode"
	default:
		return "unknown"
	}
}

// Inventory holds one count per resource, indexed by Resource.
type Inventory [ResourceCount]uint16

// Covers reports whether every component of cost is available.
func (inv Inventory) Covers(cost Inventory) bool {
	for i := range inv {
		if inv[i] < cost[i] {
			return false
		}
	}
	return true
}
