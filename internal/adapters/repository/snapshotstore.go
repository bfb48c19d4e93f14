package repository

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/MrHarBear/riskboard/internal/domain/model"
	"github.com/MrHarBear/riskboard/internal/domain/quality"
	"github.com/MrHarBear/riskboard/internal/domain/scoring"
	"github.com/MrHarBear/riskboard/pkg/metrics"
)

// Snapshot-swapping, in-memory Store implementation.
//
// The pipeline recomputes everything from scratch each pass, so the store
// never updates in place: Replace builds a fully indexed snapshot and swaps
// it in atomically. Readers pin the snapshot they started with.

const defaultMaxLimit = 1000

// snapshot is one immutable published state.
type snapshot struct {
	rankings  []RankedBroker
	rankIndex map[string]int
	byPolicy  map[string][]model.EnrichedRecord
	regions   []model.RegionSummary
	quality   quality.Report
	runInfo   RunInfo
	counts    Counts
}

// SnapshotStore implements Store with an atomically swapped snapshot.
type SnapshotStore struct {
	current  atomic.Pointer[snapshot]
	maxLimit int
}

// NewSnapshotStore creates an empty store with configuration options.
// Reads before the first Replace return ErrNoSnapshot.
func NewSnapshotStore(opts ...Option) *SnapshotStore {
	s := &SnapshotStore{
		maxLimit: defaultMaxLimit,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Replace publishes a new snapshot, replacing the previous one.
func (s *SnapshotStore) Replace(ctx context.Context, snap RunSnapshot) error {
	start := time.Now()

	next := &snapshot{
		rankings:  make([]RankedBroker, 0, len(snap.Brokers)),
		rankIndex: make(map[string]int, len(snap.Brokers)),
		byPolicy:  make(map[string][]model.EnrichedRecord, len(snap.Enriched)),
		regions:   snap.Regions,
		quality:   snap.Quality,
		runInfo: RunInfo{
			RunID:       snap.RunID,
			RefreshedAt: snap.RefreshedAt,
			Duration:    snap.Duration,
			Integration: snap.Integration,
		},
	}

	for i, perf := range snap.Brokers {
		next.rankings = append(next.rankings, RankedBroker{
			Rank:              i + 1,
			BrokerPerformance: perf,
		})
		next.rankIndex[perf.BrokerID] = i
	}

	highRisk := 0
	for _, row := range snap.Enriched {
		next.byPolicy[row.PolicyNumber] = append(next.byPolicy[row.PolicyNumber], row)
		if row.Risk.FinalRiskLevel == scoring.RiskLevelHigh {
			highRisk++
		}
	}

	next.counts = Counts{
		Brokers:           len(next.rankings),
		EnrichedRecords:   len(snap.Enriched),
		Regions:           len(next.regions),
		HighRiskCustomers: highRisk,
	}

	s.current.Store(next)

	elapsed := float64(time.Since(start).Milliseconds())
	metrics.RecordSnapshotPublished(elapsed)
	metrics.UpdateTotalBrokers(next.counts.Brokers)
	metrics.UpdateEnrichedRecords(next.counts.EnrichedRecords)
	metrics.UpdateHighRiskCustomers(next.counts.HighRiskCustomers)
	metrics.UpdateQualityOverallScore(next.quality.OverallScore)
	for _, table := range next.quality.Tables {
		metrics.UpdateQualityTableScore(table.Table, table.Score)
	}

	return nil
}

// TopN returns the top-N brokers by total performance score.
func (s *SnapshotStore) TopN(ctx context.Context, n int) ([]RankedBroker, error) {
	if n < 1 {
		return nil, ErrInvalidLimit
	}
	snap := s.current.Load()
	if snap == nil {
		return nil, ErrNoSnapshot
	}

	if n > s.maxLimit {
		n = s.maxLimit
	}
	if n > len(snap.rankings) {
		n = len(snap.rankings)
	}

	out := make([]RankedBroker, n)
	copy(out, snap.rankings[:n])
	return out, nil
}

// BrokerRank returns the ranked performance record for one broker.
func (s *SnapshotStore) BrokerRank(ctx context.Context, brokerID string) (RankedBroker, error) {
	snap := s.current.Load()
	if snap == nil {
		return RankedBroker{}, ErrNoSnapshot
	}

	idx, ok := snap.rankIndex[brokerID]
	if !ok {
		return RankedBroker{}, ErrNotFound
	}
	return snap.rankings[idx], nil
}

// Customer returns the enriched rows for one policy number.
func (s *SnapshotStore) Customer(ctx context.Context, policyNumber string) ([]model.EnrichedRecord, error) {
	snap := s.current.Load()
	if snap == nil {
		return nil, ErrNoSnapshot
	}

	rows, ok := snap.byPolicy[policyNumber]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]model.EnrichedRecord, len(rows))
	copy(out, rows)
	return out, nil
}

// Regions returns the per-region summaries.
func (s *SnapshotStore) Regions(ctx context.Context) ([]model.RegionSummary, error) {
	snap := s.current.Load()
	if snap == nil {
		return nil, ErrNoSnapshot
	}

	out := make([]model.RegionSummary, len(snap.regions))
	copy(out, snap.regions)
	return out, nil
}

// Quality returns the data-quality report of the current snapshot.
func (s *SnapshotStore) Quality(ctx context.Context) (quality.Report, error) {
	snap := s.current.Load()
	if snap == nil {
		return quality.Report{}, ErrNoSnapshot
	}
	return snap.quality, nil
}

// RunInfo returns metadata about the pass behind the current snapshot.
func (s *SnapshotStore) RunInfo(ctx context.Context) (RunInfo, error) {
	snap := s.current.Load()
	if snap == nil {
		return RunInfo{}, ErrNoSnapshot
	}
	return snap.runInfo, nil
}

// Counts returns the size of the current snapshot.
func (s *SnapshotStore) Counts(ctx context.Context) Counts {
	snap := s.current.Load()
	if snap == nil {
		return Counts{}
	}
	return snap.counts
}
