package config

import "time"

// SolverConfig holds search budgets and the default policy parameters
type SolverConfig struct {
	// Concurrent blueprint searches per evaluation (0 = number of CPUs)
	Workers int `mapstructure:"workers" validate:"min=0"`

	// Maximum expanded states per search (0 = unlimited)
	MaxNodes int `mapstructure:"max_nodes" validate:"min=0"`

	// Wall-clock budget per search (0 = none)
	Timeout time.Duration `mapstructure:"timeout" validate:"min=0"`

	// Warn when no unit is affordable for longer than this many minutes (0 = off)
	StallMinutes int `mapstructure:"stall_minutes" validate:"min=0"`

	// Quality-sum policy parameters
	Quality PolicyConfig `mapstructure:"quality"`

	// Top-product policy parameters
	Top TopPolicyConfig `mapstructure:"top"`
}

// PolicyConfig holds the horizon and idle rule of one aggregation policy
type PolicyConfig struct {
	Horizon int  `mapstructure:"horizon" validate:"min=0,max=255"`
	Eager   bool `mapstructure:"eager"`
}

// TopPolicyConfig adds the number of leading blueprints multiplied together
type TopPolicyConfig struct {
	Horizon int  `mapstructure:"horizon" validate:"min=0,max=255"`
	Eager   bool `mapstructure:"eager"`
	Limit   int  `mapstructure:"limit" validate:"min=1"`
}
