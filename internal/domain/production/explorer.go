package production

import (
	"context"
	"fmt"

	"github.com/andrescamacho/geode-planner/internal/domain/shared"
)

// MaxHorizon is the longest accepted horizon. With at most one unit built per
// minute every stock stays below MaxHorizon*(MaxHorizon+1), which fits in uint16.
const MaxHorizon = 255

// budgetCheckInterval is how many expansions pass between context checks.
const budgetCheckInterval = 1024

var actionOrder = [...]Action{BuildGeode, BuildOre, BuildClay, BuildObsidian, Idle}

// Policy carries the per-call search parameters.
type Policy struct {
	// Horizon is the number of minutes simulated.
	Horizon int

	// Eager forbids idling in any minute where an ore, clay or obsidian unit
	// could have been built. The result is then a lower bound.
	Eager bool

	// StallMinutes attaches a DeadlockWarning when no unit is affordable
	// within that many minutes of the start. Zero disables the check; a
	// blueprint with nothing affordable before the horizon is always flagged.
	// Only the opening stall is checked: once the first unit is affordable,
	// later minutes without a build are not reported.
	StallMinutes int
}

// Options tune the explorer itself.
type Options struct {
	// MaxNodes stops the search after that many expansions (0 = unlimited).
	MaxNodes int

	// DisableVisitedCache turns off state deduplication.
	DisableVisitedCache bool

	// DisableGeodeShortcut keeps exploring the other actions when a geode
	// unit is affordable.
	DisableGeodeShortcut bool
}

// SearchResult is the outcome of one exploration.
type SearchResult struct {
	BlueprintID int
	Horizon     int
	Eager       bool
	MaxGeodes   int

	// Explored counts expanded states, Pruned counts children dropped because
	// they were already visited.
	Explored int
	Pruned   int

	// Truncated is set when a node or time budget stopped the search early;
	// MaxGeodes is then the best value found so far.
	Truncated bool

	Warning *shared.DeadlockWarning
}

// Explorer runs the bounded depth-first search. It holds no per-search state
// and is safe for concurrent use.
type Explorer struct {
	opts Options
}

// NewExplorer creates an explorer with the given options
func NewExplorer(opts Options) *Explorer {
	return &Explorer{opts: opts}
}

// Simulate returns the largest geode count reachable at the horizon, using
// default explorer options and no deadline.
func Simulate(bp *Blueprint, horizon int, eager bool) (int, error) {
	res, err := NewExplorer(Options{}).Explore(context.Background(), bp, Policy{Horizon: horizon, Eager: eager})
	if err != nil {
		return 0, err
	}
	return res.MaxGeodes, nil
}

// Explore searches every build schedule of bp up to the policy horizon.
// A context deadline or the MaxNodes option bound the work; when either
// fires the best geode count found so far is returned with Truncated set.
func (e *Explorer) Explore(ctx context.Context, bp *Blueprint, policy Policy) (*SearchResult, error) {
	if err := bp.Validate(); err != nil {
		return nil, err
	}
	if policy.Horizon < 0 || policy.Horizon > MaxHorizon {
		return nil, shared.NewValidationError("horizon", fmt.Sprintf("must be between 0 and %d, got %d", MaxHorizon, policy.Horizon))
	}
	if policy.StallMinutes < 0 {
		return nil, shared.NewValidationError("stall_minutes", fmt.Sprintf("must not be negative, got %d", policy.StallMinutes))
	}

	result := &SearchResult{
		BlueprintID: bp.ID(),
		Horizon:     policy.Horizon,
		Eager:       policy.Eager,
	}

	firstBuild := bp.FirstBuildMinute()
	if firstBuild >= policy.Horizon {
		// Every minute is a forced idle; no geode unit can ever exist.
		if policy.Horizon > 0 {
			result.Warning = shared.NewDeadlockWarning(bp.ID(), policy.Horizon)
		}
		return result, nil
	}
	if policy.StallMinutes > 0 && firstBuild > policy.StallMinutes {
		result.Warning = shared.NewDeadlockWarning(bp.ID(), firstBuild)
	}

	horizon := uint16(policy.Horizon)
	bounds := bp.Bounds()

	root := InitialState()
	stack := []State{root}
	var visited map[State]struct{}
	if !e.opts.DisableVisitedCache {
		visited = map[State]struct{}{root: {}}
	}

	best := 0
	children := make([]State, 0, len(actionOrder))
	for len(stack) > 0 {
		if e.opts.MaxNodes > 0 && result.Explored >= e.opts.MaxNodes {
			result.Truncated = true
			break
		}
		if result.Explored%budgetCheckInterval == 0 && ctx.Err() != nil {
			result.Truncated = true
			break
		}

		state := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if state.Minute == horizon {
			best = max(best, int(state.Stock[Geode]))
			continue
		}

		result.Explored++
		best = max(best, state.GeodeFloor(policy.Horizon))

		children = e.expand(bp, bounds, state, policy.Eager, children[:0])
		for _, child := range children {
			if visited != nil {
				if _, seen := visited[child]; seen {
					result.Pruned++
					continue
				}
				visited[child] = struct{}{}
			}
			stack = append(stack, child)
		}
	}

	result.MaxGeodes = best
	return result, nil
}

// expand appends the children of s to out in action priority order.
func (e *Explorer) expand(bp *Blueprint, bounds Inventory, s State, eager bool, out []State) []State {
	built := false
	for _, action := range actionOrder {
		switch action {
		case BuildGeode:
			if s.CanBuild(bp, Geode) {
				out = append(out, s.Advance(bp, action))
				if !e.opts.DisableGeodeShortcut {
					return out
				}
			}
		case BuildOre, BuildClay, BuildObsidian:
			unit, _ := action.Builds()
			if s.Units[unit] < bounds[unit] && s.CanBuild(bp, unit) {
				out = append(out, s.Advance(bp, action))
				built = true
			}
		case Idle:
			if !(eager && built) {
				out = append(out, s.Advance(bp, action))
			}
		}
	}
	return out
}
