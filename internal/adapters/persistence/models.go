package persistence

import (
	"time"
)

// SimulationRunModel represents the simulation_runs table.
// One row per blueprint searched within an evaluation run.
type SimulationRunModel struct {
	ID          uint      `gorm:"column:id;primaryKey;autoIncrement"`
	RunID       string    `gorm:"column:run_id;not null;index:idx_simulation_runs_run_id"`
	Policy      string    `gorm:"column:policy;not null"`
	BlueprintID int       `gorm:"column:blueprint_id;not null"`
	Horizon     int       `gorm:"column:horizon;not null"`
	Eager       bool      `gorm:"column:eager;not null;default:false"`
	MaxGeodes   int       `gorm:"column:max_geodes;not null"`
	Explored    int       `gorm:"column:explored;not null;default:0"`
	Pruned      int       `gorm:"column:pruned;not null;default:0"`
	Truncated   bool      `gorm:"column:truncated;not null;default:false"`
	DurationMs  int64     `gorm:"column:duration_ms;not null;default:0"`
	CreatedAt   time.Time `gorm:"column:created_at;not null;index:idx_simulation_runs_created_at"`
}

func (SimulationRunModel) TableName() string {
	return "simulation_runs"
}
