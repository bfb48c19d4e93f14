// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults, Load(ctx) to layer
//   file and environment overrides on top.
// - External errors must be wrapped via this package's sentinel errors.
package config

import "runtime"

// Claim join policies accepted by claim_join_policy.
const (
	JoinFanOut     = "fanout"
	JoinFirstMatch = "first"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// Input dataset locations. CSV and XLSX are supported.
	CustomersPath string `koanf:"customers_path"`
	BrokersPath   string `koanf:"brokers_path"`
	ClaimsPath    string `koanf:"claims_path"`

	// QueueSize bounds the in-memory record queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of scoring workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize caps the duplicate-key tracker used during integration.
	DedupeSize int `koanf:"dedupe_size"`

	// ClaimJoinPolicy selects how claims join onto customers: "fanout"
	// emits one record per claim, "first" keeps only the first claim.
	ClaimJoinPolicy string `koanf:"claim_join_policy"`

	// MaxRankingLimit caps GET /rankings?limit.
	MaxRankingLimit int `koanf:"max_ranking_limit"`

	// RefreshIntervalSeconds re-runs the pipeline periodically.
	// Zero disables the timer; POST /refresh always works.
	RefreshIntervalSeconds int `koanf:"refresh_interval_seconds"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:               "info",
		Addr:                   ":9080",
		CustomersPath:          "data/customers.csv",
		BrokersPath:            "data/brokers.csv",
		ClaimsPath:             "data/claims.csv",
		QueueSize:              100_000,
		WorkerCount:            runtime.NumCPU() * 4,
		DedupeSize:             500_000,
		ClaimJoinPolicy:        JoinFanOut,
		MaxRankingLimit:        100,
		RefreshIntervalSeconds: 0,
	}
}
