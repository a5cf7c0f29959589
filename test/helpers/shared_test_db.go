package helpers

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/andrescamacho/geode-planner/internal/infrastructure/database"
)

// SharedTestDB is the singleton database instance used across BDD scenarios
var SharedTestDB *gorm.DB

// InitializeSharedTestDB creates and migrates the shared test database.
// Called once in TestMain before running any scenario.
func InitializeSharedTestDB() error {
	db, err := database.NewTestConnection()
	if err != nil {
		return fmt.Errorf("failed to open shared test database: %w", err)
	}
	SharedTestDB = db
	return nil
}

// TruncateAllTables clears stored run records between scenarios
func TruncateAllTables() error {
	if SharedTestDB == nil {
		return fmt.Errorf("shared test database not initialized")
	}
	if err := SharedTestDB.Exec("DELETE FROM simulation_runs").Error; err != nil {
		return fmt.Errorf("failed to truncate simulation_runs: %w", err)
	}
	return nil
}

// CloseSharedTestDB closes the shared test database
func CloseSharedTestDB() error {
	if SharedTestDB == nil {
		return nil
	}
	err := database.Close(SharedTestDB)
	SharedTestDB = nil
	return err
}
