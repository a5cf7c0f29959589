package planning

import "github.com/andrescamacho/geode-planner/internal/domain/production"

// SelectBlueprints returns the blueprints a policy evaluates. The top
// product only looks at the first limit blueprints (DefaultTopLimit when
// limit is zero), or all of them when fewer are available.
func SelectBlueprints(policy AggregationPolicy, blueprints []*production.Blueprint, limit int) []*production.Blueprint {
	if policy != PolicyTopProduct {
		return blueprints
	}
	if limit <= 0 {
		limit = DefaultTopLimit
	}
	if len(blueprints) > limit {
		return blueprints[:limit]
	}
	return blueprints
}

// Aggregate folds search results into the policy's answer.
func Aggregate(policy AggregationPolicy, results []*production.SearchResult) int64 {
	switch policy {
	case PolicyQualitySum:
		var sum int64
		for _, r := range results {
			sum += int64(r.BlueprintID) * int64(r.MaxGeodes)
		}
		return sum
	case PolicyTopProduct:
		if len(results) == 0 {
			return 0
		}
		product := int64(1)
		for _, r := range results {
			product *= int64(r.MaxGeodes)
		}
		return product
	default:
		return 0
	}
}
