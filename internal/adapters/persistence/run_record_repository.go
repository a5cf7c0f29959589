package persistence

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/andrescamacho/geode-planner/internal/domain/production"
)

// GormRunRecordRepository implements RunRecordRepository using GORM
type GormRunRecordRepository struct {
	db *gorm.DB
}

// NewGormRunRecordRepository creates a new GORM run record repository
func NewGormRunRecordRepository(db *gorm.DB) *GormRunRecordRepository {
	return &GormRunRecordRepository{db: db}
}

// Save inserts a run record
func (r *GormRunRecordRepository) Save(ctx context.Context, record *production.RunRecord) error {
	model := r.recordToModel(record)
	if result := r.db.WithContext(ctx).Create(model); result.Error != nil {
		return fmt.Errorf("failed to save run record: %w", result.Error)
	}
	return nil
}

// ListRecent returns up to limit records, newest first
func (r *GormRunRecordRepository) ListRecent(ctx context.Context, limit int) ([]*production.RunRecord, error) {
	var models []SimulationRunModel
	query := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if result := query.Find(&models); result.Error != nil {
		return nil, fmt.Errorf("failed to list run records: %w", result.Error)
	}

	return r.modelsToRecords(models), nil
}

// FindByRun returns every record of one run ordered by blueprint id
func (r *GormRunRecordRepository) FindByRun(ctx context.Context, runID string) ([]*production.RunRecord, error) {
	var models []SimulationRunModel
	result := r.db.WithContext(ctx).
		Where("run_id = ?", runID).
		Order("blueprint_id ASC").
		Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to find run %s: %w", runID, result.Error)
	}

	return r.modelsToRecords(models), nil
}

func (r *GormRunRecordRepository) modelsToRecords(models []SimulationRunModel) []*production.RunRecord {
	records := make([]*production.RunRecord, 0, len(models))
	for i := range models {
		records = append(records, r.modelToRecord(&models[i]))
	}
	return records
}

func (r *GormRunRecordRepository) modelToRecord(model *SimulationRunModel) *production.RunRecord {
	return &production.RunRecord{
		RunID:       model.RunID,
		Policy:      model.Policy,
		BlueprintID: model.BlueprintID,
		Horizon:     model.Horizon,
		Eager:       model.Eager,
		MaxGeodes:   model.MaxGeodes,
		Explored:    model.Explored,
		Pruned:      model.Pruned,
		Truncated:   model.Truncated,
		Duration:    time.Duration(model.DurationMs) * time.Millisecond,
		CreatedAt:   model.CreatedAt.UTC(),
	}
}

func (r *GormRunRecordRepository) recordToModel(record *production.RunRecord) *SimulationRunModel {
	return &SimulationRunModel{
		RunID:       record.RunID,
		Policy:      record.Policy,
		BlueprintID: record.BlueprintID,
		Horizon:     record.Horizon,
		Eager:       record.Eager,
		MaxGeodes:   record.MaxGeodes,
		Explored:    record.Explored,
		Pruned:      record.Pruned,
		Truncated:   record.Truncated,
		DurationMs:  record.Duration.Milliseconds(),
		CreatedAt:   record.CreatedAt,
	}
}
