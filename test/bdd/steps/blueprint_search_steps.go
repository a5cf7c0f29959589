package steps

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/geode-planner/internal/domain/production"
)

type blueprintSearchContext struct {
	world        *PlannerWorld
	options      production.Options
	stallMinutes int
	result       *production.SearchResult
}

func (sc *blueprintSearchContext) reset() {
	sc.options = production.Options{}
	sc.stallMinutes = 0
	sc.result = nil
}

// Given steps

func (sc *blueprintSearchContext) theExplorerStopsAfterExpansions(nodes int) error {
	sc.options.MaxNodes = nodes
	return nil
}

func (sc *blueprintSearchContext) aStallThresholdOfMinutes(minutes int) error {
	sc.stallMinutes = minutes
	return nil
}

// When steps

func (sc *blueprintSearchContext) search(id, horizon int, eager bool) error {
	bp, err := sc.world.blueprint(id)
	if err != nil {
		return err
	}

	explorer := production.NewExplorer(sc.options)
	sc.result, sc.world.err = explorer.Explore(context.Background(), bp, production.Policy{
		Horizon:      horizon,
		Eager:        eager,
		StallMinutes: sc.stallMinutes,
	})
	return nil
}

func (sc *blueprintSearchContext) iSearchBlueprintForMinutes(id, horizon int) error {
	return sc.search(id, horizon, false)
}

func (sc *blueprintSearchContext) iEagerlySearchBlueprintForMinutes(id, horizon int) error {
	return sc.search(id, horizon, true)
}

// Then steps

func (sc *blueprintSearchContext) requireResult() error {
	if sc.world.err != nil {
		return fmt.Errorf("expected search to succeed, got: %v", sc.world.err)
	}
	if sc.result == nil {
		return fmt.Errorf("no search has been run")
	}
	return nil
}

func (sc *blueprintSearchContext) theMaximumGeodeCountShouldBe(expected int) error {
	if err := sc.requireResult(); err != nil {
		return err
	}
	if sc.result.MaxGeodes != expected {
		return fmt.Errorf("expected %d geodes, got %d", expected, sc.result.MaxGeodes)
	}
	return nil
}

func (sc *blueprintSearchContext) theMaximumGeodeCountShouldBeAtMost(limit int) error {
	if err := sc.requireResult(); err != nil {
		return err
	}
	if sc.result.MaxGeodes > limit {
		return fmt.Errorf("expected at most %d geodes, got %d", limit, sc.result.MaxGeodes)
	}
	return nil
}

func (sc *blueprintSearchContext) theSearchShouldBeTruncated() error {
	if err := sc.requireResult(); err != nil {
		return err
	}
	if !sc.result.Truncated {
		return fmt.Errorf("expected the search to be truncated")
	}
	return nil
}

func (sc *blueprintSearchContext) theSearchShouldNotBeTruncated() error {
	if err := sc.requireResult(); err != nil {
		return err
	}
	if sc.result.Truncated {
		return fmt.Errorf("expected a complete search, but it was truncated after %d expansions", sc.result.Explored)
	}
	return nil
}

func (sc *blueprintSearchContext) aDeadlockShouldBeReportedAfterMinutes(minutes int) error {
	if err := sc.requireResult(); err != nil {
		return err
	}
	if sc.result.Warning == nil {
		return fmt.Errorf("expected a deadlock warning, got none")
	}
	if sc.result.Warning.Minutes != minutes {
		return fmt.Errorf("expected deadlock after %d minutes, got %d", minutes, sc.result.Warning.Minutes)
	}
	return nil
}

func (sc *blueprintSearchContext) noDeadlockShouldBeReported() error {
	if err := sc.requireResult(); err != nil {
		return err
	}
	if sc.result.Warning != nil {
		return fmt.Errorf("expected no deadlock warning, got: %v", sc.result.Warning)
	}
	return nil
}

func (sc *blueprintSearchContext) theSearchShouldBeRejected() error {
	if sc.world.err == nil {
		return fmt.Errorf("expected the search to be rejected, but it ran")
	}
	return nil
}

func InitializeBlueprintSearchScenario(ctx *godog.ScenarioContext, world *PlannerWorld) {
	sc := &blueprintSearchContext{world: world}

	ctx.Before(func(c context.Context, s *godog.Scenario) (context.Context, error) {
		sc.reset()
		return c, nil
	})

	// Given steps
	ctx.Step(`^the explorer stops after (\d+) expansions$`, sc.theExplorerStopsAfterExpansions)
	ctx.Step(`^a stall threshold of (\d+) minutes$`, sc.aStallThresholdOfMinutes)

	// When steps
	ctx.Step(`^I search blueprint (\d+) for (-?\d+) minutes$`, sc.iSearchBlueprintForMinutes)
	ctx.Step(`^I eagerly search blueprint (\d+) for (-?\d+) minutes$`, sc.iEagerlySearchBlueprintForMinutes)

	// Then steps
	ctx.Step(`^the maximum geode count should be (\d+)$`, sc.theMaximumGeodeCountShouldBe)
	ctx.Step(`^the maximum geode count should be at most (\d+)$`, sc.theMaximumGeodeCountShouldBeAtMost)
	ctx.Step(`^the search should be truncated$`, sc.theSearchShouldBeTruncated)
	ctx.Step(`^the search should not be truncated$`, sc.theSearchShouldNotBeTruncated)
	ctx.Step(`^a deadlock should be reported after (\d+) minutes$`, sc.aDeadlockShouldBeReportedAfterMinutes)
	ctx.Step(`^no deadlock should be reported$`, sc.noDeadlockShouldBeReported)
	ctx.Step(`^the search should be rejected$`, sc.theSearchShouldBeRejected)
}
