package grpc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/grpc"

	"github.com/andrescamacho/geode-planner/internal/application/logging"
	"github.com/andrescamacho/geode-planner/internal/application/mediator"
	"github.com/andrescamacho/geode-planner/internal/infrastructure/config"
)

// DaemonServer serves the planner service over gRPC.
// Every RPC passes the logging and rate limit interceptors before reaching the mediator.
type DaemonServer struct {
	grpcServer      *grpc.Server
	listener        net.Listener
	logger          logging.Logger
	shutdownTimeout time.Duration
}

// NewDaemonServer creates a daemon server bound to listener
func NewDaemonServer(
	med mediator.Mediator,
	listener net.Listener,
	solver config.SolverConfig,
	daemon config.DaemonConfig,
	logger logging.Logger,
) *DaemonServer {
	if logger == nil {
		logger = logging.LoggerFromContext(context.Background())
	}

	limiter := rate.NewLimiter(rate.Limit(daemon.RateLimit.Requests), daemon.RateLimit.Burst)
	grpcServer := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			LoggingInterceptor(logger),
			RateLimitInterceptor(limiter),
		),
	)
	RegisterPlannerServer(grpcServer, newPlannerService(med, solver))

	return &DaemonServer{
		grpcServer:      grpcServer,
		listener:        listener,
		logger:          logger,
		shutdownTimeout: daemon.ShutdownTimeout,
	}
}

// Start serves until ctx is cancelled, then stops gracefully. In-flight
// searches get the shutdown timeout to finish before they are cut off.
func (s *DaemonServer) Start(ctx context.Context) error {
	s.logger.Log(logging.LevelInfo, "daemon listening", map[string]interface{}{
		"address": s.listener.Addr().String(),
	})

	errChan := make(chan error, 1)
	go func() {
		errChan <- s.grpcServer.Serve(s.listener)
	}()

	select {
	case err := <-errChan:
		if err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return fmt.Errorf("gRPC server error: %w", err)
		}
		return nil
	case <-ctx.Done():
		s.logger.Log(logging.LevelInfo, "shutdown requested, stopping daemon", nil)
		s.stop()
		<-errChan
		return nil
	}
}

func (s *DaemonServer) stop() {
	stopped := make(chan struct{})
	go func() {
		s.grpcServer.GracefulStop()
		close(stopped)
	}()

	timeout := s.shutdownTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	select {
	case <-stopped:
	case <-time.After(timeout):
		s.logger.Log(logging.LevelWarn, "graceful shutdown timed out, forcing stop", map[string]interface{}{
			"timeout": timeout.String(),
		})
		s.grpcServer.Stop()
		<-stopped
	}
}
