// Package datagen generates synthetic customer, broker, and claim datasets
// for exercising the analytics pipeline, and optionally verifies a running
// service against the generated data.
package datagen

import "time"

// Default generation parameters.
const (
	DefaultBrokers   = 25
	DefaultCustomers = 1000
	DefaultClaimRate = 0.35
	DefaultTopN      = 10
	DefaultTimeout   = 30 * time.Second
)

// Config holds the generation and verification parameters.
type Config struct {
	OutputDir  string        // directory receiving the CSV files
	Brokers    int           // broker rows to generate
	Customers  int           // customer rows to generate
	ClaimRate  float64       // fraction of customers with at least one claim
	DefectRate float64       // fraction of customers seeded with a quality defect
	Seed       int64         // RNG seed; identical seeds produce identical datasets
	BaseURL    string        // service to verify against; empty skips verification
	TopN       int           // ranking entries to retrieve during verification
	Timeout    time.Duration // HTTP timeout
	LogFile    string        // optional log file path
	Verbose    bool          // enable verbose logging
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		OutputDir:  "data",
		Brokers:    DefaultBrokers,
		Customers:  DefaultCustomers,
		ClaimRate:  DefaultClaimRate,
		DefectRate: 0.02,
		Seed:       time.Now().UnixNano(),
		BaseURL:    "",
		TopN:       DefaultTopN,
		Timeout:    DefaultTimeout,
	}
}

// Stats tracks generation and verification statistics.
type Stats struct {
	BrokersWritten    int
	CustomersWritten  int
	ClaimsWritten     int
	DefectsInjected   int
	RankingsRetrieved int
	QualityGrade      string
	StartTime         time.Time
	EndTime           time.Time
	Duration          time.Duration
}
