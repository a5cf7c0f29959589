package steps

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/geode-planner/internal/adapters/persistence"
	"github.com/andrescamacho/geode-planner/internal/application/logging"
	"github.com/andrescamacho/geode-planner/internal/application/mediator"
	"github.com/andrescamacho/geode-planner/internal/application/planning"
	"github.com/andrescamacho/geode-planner/internal/domain/production"
	"github.com/andrescamacho/geode-planner/internal/domain/shared"
	"github.com/andrescamacho/geode-planner/test/helpers"
)

type evaluationContext struct {
	world    *PlannerWorld
	med      mediator.Mediator
	logger   *helpers.CapturingLogger
	response *planning.EvaluateBlueprintsResponse
	limit    int
}

func (ec *evaluationContext) reset() error {
	if err := helpers.TruncateAllTables(); err != nil {
		return err
	}

	ec.logger = helpers.NewCapturingLogger()
	ec.response = nil
	ec.limit = 0
	ec.med = mediator.NewMediator()

	registry := planning.NewHandlerRegistry(
		production.NewExplorer(production.Options{}),
		persistence.NewGormRunRecordRepository(helpers.SharedTestDB),
		nil,
		shared.NewRealClock(),
		planning.RunnerConfig{Workers: 2},
	)
	return registry.RegisterAll(ec.med)
}

func parsePolicy(phrase string) (planning.AggregationPolicy, error) {
	switch phrase {
	case "quality sum":
		return planning.PolicyQualitySum, nil
	case "top product":
		return planning.PolicyTopProduct, nil
	default:
		return "", fmt.Errorf("unknown aggregation %q", phrase)
	}
}

// Given steps

func (ec *evaluationContext) theTopProductUsesBlueprints(limit int) error {
	ec.limit = limit
	return nil
}

// When steps

func (ec *evaluationContext) evaluate(phrase string, horizon int, eager bool) error {
	policy, err := parsePolicy(phrase)
	if err != nil {
		return err
	}

	ctx := logging.WithLogger(context.Background(), ec.logger)
	resp, err := ec.med.Send(ctx, &planning.EvaluateBlueprintsCommand{
		Blueprints: ec.world.blueprints,
		Policy:     policy,
		Horizon:    horizon,
		Eager:      eager,
		Limit:      ec.limit,
	})
	ec.world.err = err
	if err == nil {
		ec.response = resp.(*planning.EvaluateBlueprintsResponse)
	}
	return nil
}

func (ec *evaluationContext) iEvaluateTheBlueprintsByOverMinutes(phrase string, horizon int) error {
	return ec.evaluate(phrase, horizon, false)
}

func (ec *evaluationContext) iEagerlyEvaluateTheBlueprintsByOverMinutes(phrase string, horizon int) error {
	return ec.evaluate(phrase, horizon, true)
}

// Then steps

func (ec *evaluationContext) requireResponse() error {
	if ec.world.err != nil {
		return fmt.Errorf("expected evaluation to succeed, got: %v", ec.world.err)
	}
	if ec.response == nil {
		return fmt.Errorf("no evaluation has been run")
	}
	return nil
}

func (ec *evaluationContext) theEvaluationValueShouldBe(expected int64) error {
	if err := ec.requireResponse(); err != nil {
		return err
	}
	if ec.response.Value != expected {
		return fmt.Errorf("expected value %d, got %d", expected, ec.response.Value)
	}
	return nil
}

func (ec *evaluationContext) blueprintShouldYieldGeodes(id, geodes int) error {
	if err := ec.requireResponse(); err != nil {
		return err
	}
	for _, o := range ec.response.Outcomes {
		if o.Result.BlueprintID == id {
			if o.Result.MaxGeodes != geodes {
				return fmt.Errorf("expected blueprint %d to yield %d geodes, got %d", id, geodes, o.Result.MaxGeodes)
			}
			return nil
		}
	}
	return fmt.Errorf("blueprint %d was not searched", id)
}

func (ec *evaluationContext) blueprintsShouldHaveBeenSearched(expected int) error {
	if err := ec.requireResponse(); err != nil {
		return err
	}
	if len(ec.response.Outcomes) != expected {
		return fmt.Errorf("expected %d searches, got %d", expected, len(ec.response.Outcomes))
	}
	return nil
}

func (ec *evaluationContext) runRecordsShouldBeStored(expected int) error {
	if err := ec.requireResponse(); err != nil {
		return err
	}

	resp, err := ec.med.Send(context.Background(), &planning.ListRunsQuery{RunID: ec.response.RunID})
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}
	records := resp.(*planning.ListRunsResponse).Records
	if len(records) != expected {
		return fmt.Errorf("expected %d stored records for run %s, got %d", expected, ec.response.RunID, len(records))
	}
	for _, r := range records {
		if r.Policy != string(ec.response.Policy) {
			return fmt.Errorf("record of blueprint %d has policy %q, expected %q", r.BlueprintID, r.Policy, ec.response.Policy)
		}
	}
	return nil
}

func (ec *evaluationContext) aWarningMentioningShouldBeLogged(text string) error {
	for _, entry := range ec.logger.Entries(logging.LevelWarn) {
		if strings.Contains(entry.Message, text) {
			return nil
		}
	}
	return fmt.Errorf("no warning mentioning %q was logged", text)
}

func (ec *evaluationContext) theEvaluationShouldBeRejectedOnField(field string) error {
	var verr *shared.ValidationError
	if !errors.As(ec.world.err, &verr) {
		return fmt.Errorf("expected a validation error, got: %v", ec.world.err)
	}
	if verr.Field != field {
		return fmt.Errorf("expected validation error on %q, got %q", field, verr.Field)
	}
	return nil
}

func InitializeEvaluationScenario(sc *godog.ScenarioContext, world *PlannerWorld) {
	ec := &evaluationContext{world: world}

	sc.Before(func(ctx context.Context, s *godog.Scenario) (context.Context, error) {
		return ctx, ec.reset()
	})

	// Given steps
	sc.Step(`^the top product uses (\d+) blueprints$`, ec.theTopProductUsesBlueprints)

	// When steps
	sc.Step(`^I evaluate the blueprints by (quality sum|top product) over (\d+) minutes$`, ec.iEvaluateTheBlueprintsByOverMinutes)
	sc.Step(`^I eagerly evaluate the blueprints by (quality sum|top product) over (\d+) minutes$`, ec.iEagerlyEvaluateTheBlueprintsByOverMinutes)

	// Then steps
	sc.Step(`^the evaluation value should be (\d+)$`, ec.theEvaluationValueShouldBe)
	sc.Step(`^blueprint (\d+) should yield (\d+) geodes$`, ec.blueprintShouldYieldGeodes)
	sc.Step(`^(\d+) blueprints? should have been searched$`, ec.blueprintsShouldHaveBeenSearched)
	sc.Step(`^(\d+) run records? should be stored for the evaluation$`, ec.runRecordsShouldBeStored)
	sc.Step(`^a warning mentioning "([^"]*)" should be logged$`, ec.aWarningMentioningShouldBeLogged)
	sc.Step(`^the evaluation should be rejected on "([^"]*)"$`, ec.theEvaluationShouldBeRejectedOnField)
}
