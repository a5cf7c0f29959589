package grpc

import (
	"fmt"
	"math"
	"time"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/andrescamacho/geode-planner/internal/application/planning"
	"github.com/andrescamacho/geode-planner/internal/domain/production"
	"github.com/andrescamacho/geode-planner/internal/domain/shared"
)

// Request and response field names of the Struct documents
const (
	fieldBlueprint    = "blueprint"
	fieldInput        = "input"
	fieldPolicy       = "policy"
	fieldHorizon      = "horizon"
	fieldEager        = "eager"
	fieldLimit        = "limit"
	fieldStallMinutes = "stall_minutes"

	fieldRunID          = "run_id"
	fieldValue          = "value"
	fieldTruncated      = "truncated"
	fieldOutcomes       = "outcomes"
	fieldBlueprintID    = "blueprint_id"
	fieldMaxGeodes      = "max_geodes"
	fieldExplored       = "explored"
	fieldPruned         = "pruned"
	fieldDurationMs     = "duration_ms"
	fieldWarning        = "warning"
	fieldWarningMinutes = "warning_minutes"
)

func stringField(s *structpb.Struct, name string) string {
	return s.GetFields()[name].GetStringValue()
}

func intField(s *structpb.Struct, name string) (int, bool) {
	v, ok := s.GetFields()[name]
	if !ok {
		return 0, false
	}
	return int(v.GetNumberValue()), true
}

// requestIntField reads an optional integer request field. Anything that is
// not a whole number in int32 range is a ValidationError.
func requestIntField(s *structpb.Struct, name string) (int, bool, error) {
	v, ok := s.GetFields()[name]
	if !ok {
		return 0, false, nil
	}
	n, isNumber := v.GetKind().(*structpb.Value_NumberValue)
	if !isNumber {
		return 0, false, shared.NewValidationError(name, "must be a number")
	}
	f := n.NumberValue
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) || f < math.MinInt32 || f > math.MaxInt32 {
		return 0, false, shared.NewValidationError(name, fmt.Sprintf("must be a whole number, got %v", f))
	}
	return int(f), true, nil
}

func boolField(s *structpb.Struct, name string) (bool, bool) {
	v, ok := s.GetFields()[name]
	if !ok {
		return false, false
	}
	return v.GetBoolValue(), true
}

// resultToMap flattens one search result and its duration
func resultToMap(res *production.SearchResult, duration time.Duration) map[string]interface{} {
	m := map[string]interface{}{
		fieldBlueprintID: res.BlueprintID,
		fieldHorizon:     res.Horizon,
		fieldEager:       res.Eager,
		fieldMaxGeodes:   res.MaxGeodes,
		fieldExplored:    res.Explored,
		fieldPruned:      res.Pruned,
		fieldTruncated:   res.Truncated,
		fieldDurationMs:  duration.Milliseconds(),
	}
	if res.Warning != nil {
		m[fieldWarning] = res.Warning.Error()
		m[fieldWarningMinutes] = res.Warning.Minutes
	}
	return m
}

func resultFromStruct(s *structpb.Struct) (*production.SearchResult, time.Duration) {
	id, _ := intField(s, fieldBlueprintID)
	horizon, _ := intField(s, fieldHorizon)
	eager, _ := boolField(s, fieldEager)
	maxGeodes, _ := intField(s, fieldMaxGeodes)
	explored, _ := intField(s, fieldExplored)
	pruned, _ := intField(s, fieldPruned)
	truncated, _ := boolField(s, fieldTruncated)
	durationMs, _ := intField(s, fieldDurationMs)

	res := &production.SearchResult{
		BlueprintID: id,
		Horizon:     horizon,
		Eager:       eager,
		MaxGeodes:   maxGeodes,
		Explored:    explored,
		Pruned:      pruned,
		Truncated:   truncated,
	}
	if minutes, ok := intField(s, fieldWarningMinutes); ok {
		res.Warning = shared.NewDeadlockWarning(id, minutes)
	}
	return res, time.Duration(durationMs) * time.Millisecond
}

func simulateResponseToStruct(resp *planning.SimulateBlueprintResponse) (*structpb.Struct, error) {
	return structpb.NewStruct(resultToMap(resp.Result, resp.Duration))
}

func simulateResponseFromStruct(s *structpb.Struct) *planning.SimulateBlueprintResponse {
	res, duration := resultFromStruct(s)
	return &planning.SimulateBlueprintResponse{Result: res, Duration: duration}
}

func evaluateResponseToStruct(resp *planning.EvaluateBlueprintsResponse) (*structpb.Struct, error) {
	outcomes := make([]interface{}, len(resp.Outcomes))
	for i, o := range resp.Outcomes {
		outcomes[i] = resultToMap(o.Result, o.Duration)
	}
	return structpb.NewStruct(map[string]interface{}{
		fieldRunID:     resp.RunID,
		fieldPolicy:    string(resp.Policy),
		fieldValue:     resp.Value,
		fieldTruncated: resp.Truncated,
		fieldOutcomes:  outcomes,
	})
}

func evaluateResponseFromStruct(s *structpb.Struct) *planning.EvaluateBlueprintsResponse {
	truncated, _ := boolField(s, fieldTruncated)
	resp := &planning.EvaluateBlueprintsResponse{
		RunID:     stringField(s, fieldRunID),
		Policy:    planning.AggregationPolicy(stringField(s, fieldPolicy)),
		Value:     int64(s.GetFields()[fieldValue].GetNumberValue()),
		Truncated: truncated,
	}
	for _, v := range s.GetFields()[fieldOutcomes].GetListValue().GetValues() {
		res, duration := resultFromStruct(v.GetStructValue())
		resp.Outcomes = append(resp.Outcomes, &planning.BlueprintOutcome{Result: res, Duration: duration})
	}
	return resp
}
