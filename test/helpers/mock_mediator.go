package helpers

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"github.com/andrescamacho/geode-planner/internal/application/mediator"
	"github.com/andrescamacho/geode-planner/internal/application/planning"
	"github.com/andrescamacho/geode-planner/internal/domain/production"
)

// MockMediator is a test double for the Mediator interface.
// Without a send func it answers planning requests with empty results and
// records every request it receives.
type MockMediator struct {
	mu       sync.Mutex
	sendFunc func(ctx context.Context, request mediator.Request) (mediator.Response, error)
	requests []mediator.Request
}

// NewMockMediator creates a new MockMediator
func NewMockMediator() *MockMediator {
	return &MockMediator{}
}

// Send implements the Mediator interface
func (m *MockMediator) Send(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	m.mu.Lock()
	m.requests = append(m.requests, request)
	sendFunc := m.sendFunc
	m.mu.Unlock()

	// Use custom function if provided
	if sendFunc != nil {
		return sendFunc(ctx, request)
	}

	// Default behaviors based on request type
	switch req := request.(type) {
	case *planning.SimulateBlueprintCommand:
		return &planning.SimulateBlueprintResponse{
			Result: &production.SearchResult{BlueprintID: req.Blueprint.ID(), Horizon: req.Horizon, Eager: req.Eager},
		}, nil

	case *planning.EvaluateBlueprintsCommand:
		return &planning.EvaluateBlueprintsResponse{RunID: "mock-run", Policy: req.Policy}, nil

	case *planning.ListRunsQuery:
		return &planning.ListRunsResponse{}, nil

	default:
		return nil, fmt.Errorf("unsupported request type: %T", request)
	}
}

// SetSendFunc sets a custom function for Send calls
func (m *MockMediator) SetSendFunc(fn func(ctx context.Context, request mediator.Request) (mediator.Response, error)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sendFunc = fn
}

// Requests returns every request sent so far
func (m *MockMediator) Requests() []mediator.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]mediator.Request{}, m.requests...)
}

// LastEvaluate returns the most recent EvaluateBlueprintsCommand, or nil
func (m *MockMediator) LastEvaluate() *planning.EvaluateBlueprintsCommand {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.requests) - 1; i >= 0; i-- {
		if cmd, ok := m.requests[i].(*planning.EvaluateBlueprintsCommand); ok {
			return cmd
		}
	}
	return nil
}

// LastSimulate returns the most recent SimulateBlueprintCommand, or nil
func (m *MockMediator) LastSimulate() *planning.SimulateBlueprintCommand {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.requests) - 1; i >= 0; i-- {
		if cmd, ok := m.requests[i].(*planning.SimulateBlueprintCommand); ok {
			return cmd
		}
	}
	return nil
}

// Register implements the Mediator interface (no-op for tests)
func (m *MockMediator) Register(requestType reflect.Type, handler mediator.RequestHandler) error {
	return nil // No-op for tests
}

// RegisterMiddleware implements the Mediator interface (no-op for tests)
func (m *MockMediator) RegisterMiddleware(middleware mediator.Middleware) {
	// No-op for tests
}

// Ensure MockMediator implements the mediator.Mediator interface
var _ mediator.Mediator = (*MockMediator)(nil)
