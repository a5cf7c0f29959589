package steps

import (
	"fmt"
	"strconv"

	"github.com/cucumber/godog"
	"github.com/cucumber/messages/go/v21"

	"github.com/andrescamacho/geode-planner/internal/domain/production"
)

// PlannerWorld is the state shared by the blueprint, search and evaluation steps
// of one scenario.
type PlannerWorld struct {
	blueprints []*production.Blueprint
	err        error
}

// NewPlannerWorld creates an empty world
func NewPlannerWorld() *PlannerWorld {
	return &PlannerWorld{}
}

func (w *PlannerWorld) reset() {
	w.blueprints = nil
	w.err = nil
}

func (w *PlannerWorld) blueprint(id int) (*production.Blueprint, error) {
	for _, bp := range w.blueprints {
		if bp.ID() == id {
			return bp, nil
		}
	}
	return nil, fmt.Errorf("blueprint %d not defined in this scenario", id)
}

// getCellValueFromTable gets a cell value from a table row by column name
// It uses the first row (table.Rows[0]) as the header to find the column index
func getCellValueFromTable(table *godog.Table, row *messages.PickleTableRow, columnName string) string {
	if len(table.Rows) == 0 {
		return ""
	}

	for i, headerCell := range table.Rows[0].Cells {
		if headerCell.Value == columnName {
			if i < len(row.Cells) {
				return row.Cells[i].Value
			}
			return ""
		}
	}

	return ""
}

func getIntCell(table *godog.Table, row *messages.PickleTableRow, columnName string) (int, error) {
	raw := getCellValueFromTable(table, row, columnName)
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("column %s: %q is not an integer", columnName, raw)
	}
	return v, nil
}
