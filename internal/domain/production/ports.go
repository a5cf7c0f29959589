package production

import (
	"context"
	"time"
)

// RunRecordRepository stores the outcome of finished searches. Search state
// itself is never persisted.
type RunRecordRepository interface {
	Save(ctx context.Context, record *RunRecord) error
	ListRecent(ctx context.Context, limit int) ([]*RunRecord, error)
	FindByRun(ctx context.Context, runID string) ([]*RunRecord, error)
}

// RunRecord is one blueprint result within an evaluation run.
type RunRecord struct {
	RunID       string
	Policy      string
	BlueprintID int
	Horizon     int
	Eager       bool
	MaxGeodes   int
	Explored    int
	Pruned      int
	Truncated   bool
	Duration    time.Duration
	CreatedAt   time.Time
}

// NewRunRecord captures a search result for storage.
func NewRunRecord(runID, policy string, res *SearchResult, duration time.Duration, createdAt time.Time) *RunRecord {
	return &RunRecord{
		RunID:       runID,
		Policy:      policy,
		BlueprintID: res.BlueprintID,
		Horizon:     res.Horizon,
		Eager:       res.Eager,
		MaxGeodes:   res.MaxGeodes,
		Explored:    res.Explored,
		Pruned:      res.Pruned,
		Truncated:   res.Truncated,
		Duration:    duration,
		CreatedAt:   createdAt,
	}
}
