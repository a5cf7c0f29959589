package steps

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/geode-planner/internal/adapters/blueprints"
	"github.com/andrescamacho/geode-planner/internal/domain/production"
	"github.com/andrescamacho/geode-planner/internal/domain/shared"
	"github.com/andrescamacho/geode-planner/test/helpers"
)

type blueprintParsingContext struct {
	world *PlannerWorld
	input string
}

func (bc *blueprintParsingContext) reset() {
	bc.input = ""
}

// Given steps

func (bc *blueprintParsingContext) theFollowingBlueprints(table *godog.Table) error {
	columns := []string{"ore_ore", "clay_ore", "obsidian_ore", "obsidian_clay", "geode_ore", "geode_obsidian"}

	for i, row := range table.Rows {
		if i == 0 {
			continue // Skip header
		}

		id, err := getIntCell(table, row, "id")
		if err != nil {
			return err
		}
		costs := make([]int, len(columns))
		for j, col := range columns {
			if costs[j], err = getIntCell(table, row, col); err != nil {
				return err
			}
		}

		bc.input += helpers.BlueprintLine(id, costs[0], costs[1], costs[2], costs[3], costs[4], costs[5]) + "\n"
	}

	return bc.iParseTheInput()
}

func (bc *blueprintParsingContext) theBlueprintInput(doc *godog.DocString) error {
	bc.input = doc.Content
	return nil
}

// When steps

func (bc *blueprintParsingContext) iParseTheInput() error {
	bps, err := blueprints.ParseBlueprints(strings.NewReader(bc.input))
	bc.world.blueprints = bps
	bc.world.err = err
	return nil
}

// Then steps

func (bc *blueprintParsingContext) blueprintsShouldBeParsed(expected int) error {
	if bc.world.err != nil {
		return fmt.Errorf("expected parsing to succeed, got: %v", bc.world.err)
	}
	if len(bc.world.blueprints) != expected {
		return fmt.Errorf("expected %d blueprints, got %d", expected, len(bc.world.blueprints))
	}
	return nil
}

func (bc *blueprintParsingContext) blueprintShouldCost(id int, unit, costs string) error {
	bp, err := bc.world.blueprint(id)
	if err != nil {
		return err
	}

	var resource production.Resource
	switch unit {
	case "ore":
		resource = production.Ore
	case "clay":
		resource = production.Clay
	case "obsidian":
		resource = production.Obsidian
	case "geode":
		resource = production.Geode
	default:
		return fmt.Errorf("unknown unit %q", unit)
	}

	got := bp.CostOf(resource)
	actual := fmt.Sprintf("%d ore, %d clay, %d obsidian", got[production.Ore], got[production.Clay], got[production.Obsidian])
	if actual != costs {
		return fmt.Errorf("expected %s unit of blueprint %d to cost %q, got %q", unit, id, costs, actual)
	}
	return nil
}

func (bc *blueprintParsingContext) parsingShouldFailOnLine(line int) error {
	var perr *shared.ParseError
	if !errors.As(bc.world.err, &perr) {
		return fmt.Errorf("expected a parse error, got: %v", bc.world.err)
	}
	if perr.Line != line {
		return fmt.Errorf("expected parse error on line %d, got line %d (%v)", line, perr.Line, perr)
	}
	return nil
}

func (bc *blueprintParsingContext) theErrorShouldMention(text string) error {
	if bc.world.err == nil {
		return fmt.Errorf("expected an error mentioning %q, got none", text)
	}
	if !strings.Contains(bc.world.err.Error(), text) {
		return fmt.Errorf("expected error to mention %q, got %q", text, bc.world.err.Error())
	}
	return nil
}

func InitializeBlueprintParsingScenario(sc *godog.ScenarioContext, world *PlannerWorld) {
	bc := &blueprintParsingContext{world: world}

	sc.Before(func(ctx context.Context, s *godog.Scenario) (context.Context, error) {
		world.reset()
		bc.reset()
		return ctx, nil
	})

	// Given steps
	sc.Step(`^the following blueprints:$`, bc.theFollowingBlueprints)
	sc.Step(`^the blueprint input:$`, bc.theBlueprintInput)

	// When steps
	sc.Step(`^I parse the input$`, bc.iParseTheInput)

	// Then steps
	sc.Step(`^(\d+) blueprints? should be parsed$`, bc.blueprintsShouldBeParsed)
	sc.Step(`^the (ore|clay|obsidian|geode) unit of blueprint (\d+) should cost "([^"]*)"$`, func(unit string, id int, costs string) error {
		return bc.blueprintShouldCost(id, unit, costs)
	})
	sc.Step(`^parsing should fail on line (\d+)$`, bc.parsingShouldFailOnLine)
	sc.Step(`^the error should mention "([^"]*)"$`, bc.theErrorShouldMention)
}
