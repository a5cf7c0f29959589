package planning

import (
	"time"

	"github.com/andrescamacho/geode-planner/internal/domain/production"
)

// AggregationPolicy selects how per-blueprint results are combined
type AggregationPolicy string

const (
	// PolicyQualitySum sums id * max geodes over every blueprint
	PolicyQualitySum AggregationPolicy = "quality_sum"

	// PolicyTopProduct multiplies max geodes of the first Limit blueprints
	PolicyTopProduct AggregationPolicy = "top_product"
)

// DefaultTopLimit is how many leading blueprints PolicyTopProduct uses when Limit is zero
const DefaultTopLimit = 3

// SimulateBlueprintCommand runs one search
type SimulateBlueprintCommand struct {
	Blueprint    *production.Blueprint `validate:"required"`
	Horizon      int                   `validate:"min=0,max=255"`
	Eager        bool
	StallMinutes int `validate:"min=0"`
}

// SimulateBlueprintResponse carries the search outcome
type SimulateBlueprintResponse struct {
	Result   *production.SearchResult
	Duration time.Duration
}

// EvaluateBlueprintsCommand searches every selected blueprint and combines the results
type EvaluateBlueprintsCommand struct {
	Blueprints   []*production.Blueprint `validate:"required,min=1,dive,required"`
	Policy       AggregationPolicy       `validate:"required,oneof=quality_sum top_product"`
	Horizon      int                     `validate:"min=0,max=255"`
	Eager        bool
	Limit        int `validate:"min=0"`
	StallMinutes int `validate:"min=0"`
}

// BlueprintOutcome is the search result of one blueprint within an evaluation
type BlueprintOutcome struct {
	Result   *production.SearchResult
	Duration time.Duration
}

// EvaluateBlueprintsResponse is the combined answer
type EvaluateBlueprintsResponse struct {
	RunID    string
	Policy   AggregationPolicy
	Value    int64
	Outcomes []*BlueprintOutcome

	// Truncated is true when any search hit its budget; Value is then a lower bound
	Truncated bool
}

// ListRunsQuery lists the most recent stored run records
type ListRunsQuery struct {
	RunID string
	Limit int `validate:"min=0"`
}

// ListRunsResponse holds stored run records, newest first
type ListRunsResponse struct {
	Records []*production.RunRecord
}

// SearchRecorder receives one call per finished search (implemented by the metrics adapter)
type SearchRecorder interface {
	RecordSearch(policy string, result *production.SearchResult, duration time.Duration)
}
