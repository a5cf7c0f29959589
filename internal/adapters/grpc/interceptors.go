package grpc

import (
	"context"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/andrescamacho/geode-planner/internal/application/logging"
)

// RateLimitInterceptor rejects calls beyond the token bucket with ResourceExhausted
func RateLimitInterceptor(limiter *rate.Limiter) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		if !limiter.Allow() {
			return nil, status.Errorf(codes.ResourceExhausted, "rate limit exceeded for %s", info.FullMethod)
		}
		return handler(ctx, req)
	}
}

// LoggingInterceptor puts the logger into the request context and logs each call
func LoggingInterceptor(logger logging.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		ctx = logging.WithLogger(ctx, logger)
		start := time.Now()

		resp, err := handler(ctx, req)

		metadata := map[string]interface{}{
			"method":      info.FullMethod,
			"code":        status.Code(err).String(),
			"duration_ms": time.Since(start).Milliseconds(),
		}
		if err != nil {
			metadata["error"] = err.Error()
			logger.Log(logging.LevelWarn, "rpc failed", metadata)
		} else {
			logger.Log(logging.LevelInfo, "rpc completed", metadata)
		}
		return resp, err
	}
}
