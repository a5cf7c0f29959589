package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"gorm.io/gorm"

	"github.com/andrescamacho/geode-planner/internal/adapters/persistence"
	"github.com/andrescamacho/geode-planner/internal/application/logging"
	"github.com/andrescamacho/geode-planner/internal/application/mediator"
	"github.com/andrescamacho/geode-planner/internal/application/planning"
	"github.com/andrescamacho/geode-planner/internal/domain/production"
	"github.com/andrescamacho/geode-planner/internal/domain/shared"
	"github.com/andrescamacho/geode-planner/internal/infrastructure/config"
	"github.com/andrescamacho/geode-planner/internal/infrastructure/database"
	zaplogging "github.com/andrescamacho/geode-planner/internal/infrastructure/logging"
)

// localRuntime wires the planning handlers for in-process searches
type localRuntime struct {
	mediator mediator.Mediator
	logger   *zaplogging.ZapLogger
	db       *gorm.DB
}

// newLocalRuntime builds the mediator. The run history database is only
// opened when history is true.
func newLocalRuntime(cfg *config.Config, history bool) (*localRuntime, error) {
	logCfg := cfg.Logging
	if verbose {
		logCfg.Level = "debug"
	}
	logger, err := zaplogging.NewZapLogger(logCfg)
	if err != nil {
		return nil, err
	}

	rt := &localRuntime{logger: logger}

	var repo production.RunRecordRepository
	if history {
		db, err := database.Open(&cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to open run history: %w", err)
		}
		rt.db = db
		repo = persistence.NewGormRunRecordRepository(db)
	}

	rt.mediator = mediator.NewMediator()
	registry := planning.NewHandlerRegistry(
		production.NewExplorer(production.Options{MaxNodes: cfg.Solver.MaxNodes}),
		repo,
		nil,
		shared.NewRealClock(),
		planning.RunnerConfig{Workers: cfg.Solver.Workers, Timeout: cfg.Solver.Timeout},
	)
	if err := registry.RegisterAll(rt.mediator); err != nil {
		rt.Close()
		return nil, err
	}

	return rt, nil
}

func (r *localRuntime) context(ctx context.Context) context.Context {
	return logging.WithLogger(ctx, r.logger)
}

// Close flushes the logger and closes the database
func (r *localRuntime) Close() {
	_ = r.logger.Sync()
	if r.db != nil {
		_ = database.Close(r.db)
	}
}

// readInput reads a blueprint document from a file, or stdin for "-"
func readInput(in io.Reader, path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(in)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read blueprints: %w", err)
	}
	return string(data), nil
}
