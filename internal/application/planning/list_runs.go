package planning

import (
	"context"
	"fmt"

	"github.com/andrescamacho/geode-planner/internal/application/mediator"
	"github.com/andrescamacho/geode-planner/internal/domain/production"
)

const defaultListLimit = 20

// ListRunsHandler reads stored run records
type ListRunsHandler struct {
	repo production.RunRecordRepository
}

// NewListRunsHandler creates a new list runs handler
func NewListRunsHandler(repo production.RunRecordRepository) *ListRunsHandler {
	return &ListRunsHandler{repo: repo}
}

// Handle executes the list runs query
func (h *ListRunsHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*ListRunsQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}
	if err := validateRequest(query); err != nil {
		return nil, err
	}
	if h.repo == nil {
		return nil, fmt.Errorf("run history is not configured")
	}

	if query.RunID != "" {
		records, err := h.repo.FindByRun(ctx, query.RunID)
		if err != nil {
			return nil, fmt.Errorf("failed to load run %s: %w", query.RunID, err)
		}
		return &ListRunsResponse{Records: records}, nil
	}

	limit := query.Limit
	if limit == 0 {
		limit = defaultListLimit
	}
	records, err := h.repo.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return &ListRunsResponse{Records: records}, nil
}
