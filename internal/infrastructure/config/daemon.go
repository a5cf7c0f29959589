package config

import "time"

// DaemonConfig holds planner daemon configuration
type DaemonConfig struct {
	// gRPC server address for daemon (host:port)
	Address string `mapstructure:"address" validate:"required"`

	// PID file location
	PIDFile string `mapstructure:"pid_file"`

	// Rate limiting applied to incoming RPCs
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`

	// Graceful shutdown timeout
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"required"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	// Maximum requests per second
	Requests int `mapstructure:"requests" validate:"min=1"`

	// Burst size for token bucket
	Burst int `mapstructure:"burst" validate:"min=1"`
}
