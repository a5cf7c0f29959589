package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/andrescamacho/geode-planner/internal/adapters/grpc"
	"github.com/andrescamacho/geode-planner/internal/adapters/metrics"
	"github.com/andrescamacho/geode-planner/internal/adapters/persistence"
	"github.com/andrescamacho/geode-planner/internal/application/logging"
	"github.com/andrescamacho/geode-planner/internal/application/mediator"
	"github.com/andrescamacho/geode-planner/internal/application/planning"
	"github.com/andrescamacho/geode-planner/internal/domain/production"
	"github.com/andrescamacho/geode-planner/internal/domain/shared"
	"github.com/andrescamacho/geode-planner/internal/infrastructure/config"
	"github.com/andrescamacho/geode-planner/internal/infrastructure/database"
	zaplogging "github.com/andrescamacho/geode-planner/internal/infrastructure/logging"
	"github.com/andrescamacho/geode-planner/internal/infrastructure/pidfile"
)

func main() {
	// Parse command-line flags
	forceFlag := flag.Bool("force", false, "Kill any existing daemon and start a new one")
	configFlag := flag.String("config", "", "Path to config file")
	flag.Parse()

	fmt.Println("Geode Planner Daemon v0.1.0")
	fmt.Println("===========================")

	// Load configuration
	fmt.Println("Loading configuration...")
	cfg, err := config.LoadConfig(*configFlag)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Acquire PID file lock to prevent multiple instances
	fmt.Printf("Acquiring PID file lock: %s\n", cfg.Daemon.PIDFile)
	pf := pidfile.New(cfg.Daemon.PIDFile)

	if err := pf.Acquire(); err != nil {
		if !*forceFlag {
			log.Fatalf("Failed to acquire PID file lock: %v\nUse --force to kill the existing daemon", err)
		}

		fmt.Println("Force mode enabled - attempting to kill existing daemon...")
		if killErr := pf.KillExisting(); killErr != nil {
			log.Fatalf("Failed to kill existing daemon: %v", killErr)
		}
		fmt.Println("Existing daemon killed")

		if err := pf.Acquire(); err != nil {
			log.Fatalf("Failed to acquire PID file lock after killing existing daemon: %v", err)
		}
	}

	defer func() {
		if err := pf.Release(); err != nil {
			log.Printf("Warning: failed to release PID file: %v", err)
		}
	}()
	fmt.Println("PID file lock acquired")

	if err := run(cfg); err != nil {
		// log.Fatalf would skip the deferred release
		log.Printf("Fatal error: %v", err)
		_ = pf.Release()
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	// 1. Logger
	logger, err := zaplogging.NewZapLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	// 2. Run history database
	fmt.Printf("Connecting to %s database...\n", cfg.Database.Type)
	db, err := database.Open(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close(db)
	fmt.Println("Database connected")

	runRepo := persistence.NewGormRunRecordRepository(db)

	// 3. Mediator and metrics
	med := mediator.NewMediator()

	var recorder planning.SearchRecorder
	var metricsServer *metrics.Server
	if cfg.Metrics.Enabled {
		metrics.InitRegistry()

		searchMetrics := metrics.NewSearchMetricsCollector()
		if err := searchMetrics.Register(); err != nil {
			return fmt.Errorf("failed to register search metrics: %w", err)
		}
		commandMetrics := metrics.NewCommandMetricsCollector()
		if err := commandMetrics.Register(); err != nil {
			return fmt.Errorf("failed to register command metrics: %w", err)
		}
		med.RegisterMiddleware(metrics.PrometheusMiddleware(commandMetrics))
		recorder = searchMetrics

		metricsServer, err = metrics.NewServer(cfg.Metrics)
		if err != nil {
			return fmt.Errorf("failed to create metrics server: %w", err)
		}
		fmt.Printf("Metrics enabled on %s:%d%s\n", cfg.Metrics.Host, cfg.Metrics.Port, cfg.Metrics.Path)
	}

	// 4. Planning handlers
	registry := planning.NewHandlerRegistry(
		production.NewExplorer(production.Options{MaxNodes: cfg.Solver.MaxNodes}),
		runRepo,
		recorder,
		shared.NewRealClock(),
		planning.RunnerConfig{Workers: cfg.Solver.Workers, Timeout: cfg.Solver.Timeout},
	)
	if err := registry.RegisterAll(med); err != nil {
		return err
	}
	fmt.Println("Planning handlers registered")

	// 5. Daemon server
	fmt.Printf("Starting daemon server on: %s\n", cfg.Daemon.Address)
	listener, err := net.Listen("tcp", cfg.Daemon.Address)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", cfg.Daemon.Address, err)
	}
	daemonServer := grpc.NewDaemonServer(med, listener, cfg.Solver, cfg.Daemon, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logging.WithLogger(ctx, logger)

	fmt.Println("\n✓ Daemon is ready to accept connections")
	fmt.Println("Press Ctrl+C to stop")

	// Start serving (blocks until shutdown)
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return daemonServer.Start(groupCtx)
	})
	if metricsServer != nil {
		group.Go(func() error {
			return metricsServer.ListenAndServe(groupCtx)
		})
	}
	if err := group.Wait(); err != nil {
		return fmt.Errorf("daemon server error: %w", err)
	}

	fmt.Println("\nDaemon stopped")
	return nil
}
