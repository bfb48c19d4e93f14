// Package repository defines the snapshot store interface and errors.
package repository

import (
	"context"
	"time"

	"github.com/MrHarBear/riskboard/internal/domain/integrate"
	"github.com/MrHarBear/riskboard/internal/domain/model"
	"github.com/MrHarBear/riskboard/internal/domain/quality"
)

// RankedBroker is a broker performance record with its ranking position.
type RankedBroker struct {
	Rank int `json:"rank"`
	model.BrokerPerformance
}

// RunInfo describes the pipeline pass that produced the current snapshot.
type RunInfo struct {
	RunID       string           `json:"run_id"`
	RefreshedAt time.Time        `json:"refreshed_at"`
	Duration    time.Duration    `json:"duration"`
	Integration integrate.Report `json:"integration"`
}

// Counts summarizes the size of the current snapshot.
type Counts struct {
	Brokers           int `json:"brokers"`
	EnrichedRecords   int `json:"enriched_records"`
	Regions           int `json:"regions"`
	HighRiskCustomers int `json:"high_risk_customers"`
}

// RunSnapshot is the complete output of one pipeline pass, handed to the
// store for publication. Brokers must already be in ranking order.
type RunSnapshot struct {
	RunID       string
	RefreshedAt time.Time
	Duration    time.Duration
	Brokers     []model.BrokerPerformance
	Enriched    []model.EnrichedRecord
	Regions     []model.RegionSummary
	Quality     quality.Report
	Integration integrate.Report
}

// Store provides read access to the latest published pipeline results.
// Writers replace the whole snapshot atomically; readers never observe a
// half-updated state.
type Store interface {
	// Replace publishes a new snapshot, replacing the previous one.
	Replace(ctx context.Context, snap RunSnapshot) error

	// TopN returns the top-N brokers by total performance score.
	// Returns ErrInvalidLimit when n < 1.
	TopN(ctx context.Context, n int) ([]RankedBroker, error)

	// BrokerRank returns the ranked performance record for one broker.
	// Returns ErrNotFound if the broker is unknown.
	BrokerRank(ctx context.Context, brokerID string) (RankedBroker, error)

	// Customer returns the enriched rows for one policy number (several
	// under claim fan-out). Returns ErrNotFound if the policy is unknown.
	Customer(ctx context.Context, policyNumber string) ([]model.EnrichedRecord, error)

	// Regions returns the per-region summaries, sorted by region name.
	Regions(ctx context.Context) ([]model.RegionSummary, error)

	// Quality returns the data-quality report of the current snapshot.
	Quality(ctx context.Context) (quality.Report, error)

	// RunInfo returns metadata about the pass behind the current snapshot.
	RunInfo(ctx context.Context) (RunInfo, error)

	// Counts returns the size of the current snapshot.
	Counts(ctx context.Context) Counts
}
