package helpers

import (
	"context"
	"sort"
	"sync"

	"github.com/andrescamacho/geode-planner/internal/domain/production"
)

// MockRunRecordRepository is an in-memory RunRecordRepository
type MockRunRecordRepository struct {
	mu      sync.Mutex
	records []*production.RunRecord
	saveErr error
}

// NewMockRunRecordRepository creates an empty repository
func NewMockRunRecordRepository() *MockRunRecordRepository {
	return &MockRunRecordRepository{}
}

// SetSaveError makes every Save call fail with err
func (m *MockRunRecordRepository) SetSaveError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveErr = err
}

func (m *MockRunRecordRepository) Save(ctx context.Context, record *production.RunRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	copied := *record
	m.records = append(m.records, &copied)
	return nil
}

func (m *MockRunRecordRepository) ListRecent(ctx context.Context, limit int) ([]*production.RunRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sorted := make([]*production.RunRecord, len(m.records))
	copy(sorted, m.records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	if limit > 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted, nil
}

func (m *MockRunRecordRepository) FindByRun(ctx context.Context, runID string) ([]*production.RunRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var found []*production.RunRecord
	for _, r := range m.records {
		if r.RunID == runID {
			found = append(found, r)
		}
	}
	return found, nil
}

// Records returns every saved record in insertion order
func (m *MockRunRecordRepository) Records() []*production.RunRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*production.RunRecord, len(m.records))
	copy(out, m.records)
	return out
}
