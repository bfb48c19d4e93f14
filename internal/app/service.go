// Package service runs the analytical pipeline and implements the
// dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"

	recordqueue "github.com/MrHarBear/riskboard/internal/adapters/mq/queue"
	workerpool "github.com/MrHarBear/riskboard/internal/adapters/mq/worker"
	repository "github.com/MrHarBear/riskboard/internal/adapters/repository"
	"github.com/MrHarBear/riskboard/internal/domain/aggregate"
	"github.com/MrHarBear/riskboard/internal/domain/dedupe"
	"github.com/MrHarBear/riskboard/internal/domain/integrate"
	"github.com/MrHarBear/riskboard/internal/domain/model"
	"github.com/MrHarBear/riskboard/internal/domain/quality"
	"github.com/MrHarBear/riskboard/internal/domain/scoring"
	"github.com/MrHarBear/riskboard/internal/ingest"
	"github.com/MrHarBear/riskboard/pkg/logger"
	"github.com/MrHarBear/riskboard/pkg/metrics"
)

// Enqueue failure modes surfaced by the retry loop.
var (
	errQueueFull   = errors.New("record queue full")
	errQueueClosed = errors.New("record queue closed")
)

// pipelineScorer adapts the scoring package to the worker.Scorer contract.
type pipelineScorer struct{}

func (pipelineScorer) Score(_ context.Context, r workerpool.Record) (model.RiskBlock, error) {
	return scoring.ScoreRecord(r), nil
}

// resultCollector gathers scored records from the worker pool. One
// collector lives per pipeline pass, so the slice never mixes runs.
type resultCollector struct {
	mu   sync.Mutex
	rows []model.ScoredRecord
}

func (c *resultCollector) Collect(_ context.Context, row model.ScoredRecord) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rows = append(c.rows, row)
	return nil
}

func (c *resultCollector) Rows() []model.ScoredRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rows
}

// Service implements the API dependencies for the broker analytics system.
type Service struct {
	mu sync.RWMutex

	// runMu serializes pipeline passes. Passes share the integrator and
	// its dedupe tracker; overlapping passes would reset the tracker
	// mid-scan and count each other's keys as duplicates.
	runMu sync.Mutex

	// Core components
	store      repository.Store
	loader     *ingest.Loader
	integrator *integrate.Integrator
	aggregator *aggregate.Aggregator

	// Configuration
	customersPath   string
	brokersPath     string
	claimsPath      string
	workerCount     int
	queueSize       int
	dedupeSize      int
	joinPolicy      integrate.ClaimJoinPolicy
	maxRankingLimit int
	refreshInterval time.Duration

	// State
	started bool
	stopCh  chan struct{}

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithDataPaths sets the input dataset locations.
func WithDataPaths(customers, brokers, claims string) Option {
	return func(s *Service) {
		s.customersPath = customers
		s.brokersPath = brokers
		s.claimsPath = claims
	}
}

// WithWorkerCount sets the number of scoring workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the record queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize caps the duplicate-key tracker used during integration.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithClaimJoinPolicy selects how claims join onto customers.
func WithClaimJoinPolicy(policy integrate.ClaimJoinPolicy) Option {
	return func(s *Service) {
		s.joinPolicy = policy
	}
}

// WithMaxRankingLimit caps how many rankings one read may return.
func WithMaxRankingLimit(limit int) Option {
	return func(s *Service) {
		if limit > 0 {
			s.maxRankingLimit = limit
		}
	}
}

// WithRefreshInterval re-runs the pipeline periodically. Zero disables
// the timer; Refresh can always be called directly.
func WithRefreshInterval(interval time.Duration) Option {
	return func(s *Service) {
		if interval > 0 {
			s.refreshInterval = interval
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(lg logger.Logger) Option {
	return func(s *Service) {
		if lg != nil {
			s.logger = lg
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		customersPath: "data/customers.csv",
		brokersPath:   "data/brokers.csv",
		claimsPath:    "data/claims.csv",
		workerCount:   runtime.NumCPU() * 4,
		queueSize:     100_000,
		dedupeSize:    500_000,
		joinPolicy:    integrate.ClaimFanOut,
		stopCh:        make(chan struct{}),
		logger:        nil, // set on Start when not provided
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes the service components and runs the first pipeline
// pass so readers have a snapshot to query.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()

	if s.started {
		s.mu.Unlock()
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	s.logger.Info(ctx, "starting broker analytics service...")

	s.loader = ingest.NewLoader()
	s.integrator = integrate.New(
		integrate.WithClaimJoinPolicy(s.joinPolicy),
		integrate.WithTracker(dedupe.NewTracker(dedupe.WithMaxSize(s.dedupeSize))),
	)
	s.aggregator = aggregate.New()

	storeOpts := []repository.Option{}
	if s.maxRankingLimit > 0 {
		storeOpts = append(storeOpts, repository.WithMaxLimit(s.maxRankingLimit))
	}
	s.store = repository.NewSnapshotStore(storeOpts...)

	s.started = true
	s.mu.Unlock()

	// First pass runs before the HTTP server accepts traffic.
	if _, err := s.Refresh(ctx); err != nil {
		return fmt.Errorf("initial pipeline pass: %w", err)
	}

	if s.refreshInterval > 0 {
		go s.refreshLoop(ctx)
	}

	s.logger.Info(ctx, "broker analytics service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.String("joinPolicy", string(s.joinPolicy)),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping broker analytics service...")

	select {
	case <-s.stopCh:
		// Channel already closed
	default:
		close(s.stopCh)
	}

	s.started = false
	s.logger.Info(context.Background(), "broker analytics service stopped")
}

// refreshLoop re-runs the pipeline on a timer until the service stops.
func (s *Service) refreshLoop(ctx context.Context) {
	ticker := time.NewTicker(s.refreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopCh:
			return
		case <-ticker.C:
			if _, err := s.Refresh(ctx); err != nil {
				metrics.RecordErrorByComponent("service", "refresh_error")
				s.logger.Error(ctx, "scheduled pipeline pass failed", logger.Error(err))
			}
		}
	}
}

// Refresh runs one full pipeline pass: load, quality, integrate, score
// through the worker pool, aggregate, and publish the snapshot. The
// previous snapshot stays visible until the new one replaces it. Only one
// pass runs at a time; a concurrent caller blocks until the running pass
// finishes, then runs its own.
func (s *Service) Refresh(ctx context.Context) (repository.RunInfo, error) {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	start := time.Now()
	runID := uuid.NewString()

	s.logger.Info(ctx, "pipeline pass starting", logger.String("runID", runID))

	ds, err := s.loader.Load(ctx, s.customersPath, s.brokersPath, s.claimsPath)
	if err != nil {
		metrics.RecordErrorByComponent("service", "load_error")
		return repository.RunInfo{}, fmt.Errorf("loading datasets: %w", err)
	}

	qualityReport := quality.Evaluate(ds.Customers, ds.Brokers, ds.Claims)

	records, report := s.integrator.Integrate(ds.Customers, ds.Brokers, ds.Claims)
	metrics.RecordMalformedRecords(report.MalformedCustomers + report.MalformedClaims)
	metrics.RecordUnresolvedBrokerRefs(report.UnresolvedBrokerRefs)
	metrics.RecordDuplicatePolicies(report.DuplicatePolicyCustomers + report.DuplicatePolicyClaims)

	rows, err := s.scoreRecords(ctx, records)
	if err != nil {
		return repository.RunInfo{}, err
	}

	result := s.aggregator.Aggregate(rows)

	snap := repository.RunSnapshot{
		RunID:       runID,
		RefreshedAt: time.Now().UTC(),
		Duration:    time.Since(start),
		Brokers:     result.Brokers,
		Enriched:    result.Enriched,
		Regions:     result.Regions,
		Quality:     qualityReport,
		Integration: report,
	}
	if err := s.store.Replace(ctx, snap); err != nil {
		return repository.RunInfo{}, fmt.Errorf("publishing snapshot: %w", err)
	}

	metrics.RecordPipelineRun()
	metrics.RecordPipelineDuration(float64(snap.Duration.Milliseconds()))

	s.logger.Info(ctx, "pipeline pass finished",
		logger.String("runID", runID),
		logger.Duration("duration", snap.Duration),
		logger.Int("integrated", len(records)),
		logger.Int("brokers", len(result.Brokers)),
		logger.Int("regions", len(result.Regions)),
		logger.Float64("qualityScore", qualityReport.OverallScore),
	)

	return repository.RunInfo{
		RunID:       runID,
		RefreshedAt: snap.RefreshedAt,
		Duration:    snap.Duration,
		Integration: report,
	}, nil
}

// scoreRecords pushes the integrated records through a per-pass queue
// and worker pool and returns the collected scored rows.
func (s *Service) scoreRecords(ctx context.Context, records []model.IntegratedRecord) ([]model.ScoredRecord, error) {
	q := recordqueue.NewInMemoryQueue(
		recordqueue.WithCapacity(s.queueSize),
		recordqueue.WithBufferSize(s.queueSize),
	)
	collector := &resultCollector{rows: make([]model.ScoredRecord, 0, len(records))}

	pool := workerpool.NewPool(s.workerCount, q, pipelineScorer{}, collector)
	pool.Start(ctx)
	// Stop on every exit path, or the pool's metrics updater outlives
	// the pass.
	defer pool.Stop()

	for _, record := range records {
		if err := s.enqueue(ctx, q, record); err != nil {
			_ = q.Close()
			metrics.RecordErrorByComponent("service", "enqueue_error")
			return nil, fmt.Errorf("enqueueing record %s: %w", record.Customer.PolicyNumber, err)
		}
	}

	// Closing the queue lets the workers drain it and exit.
	if err := q.Close(); err != nil {
		return nil, fmt.Errorf("closing record queue: %w", err)
	}
	if err := pool.Wait(ctx); err != nil {
		return nil, fmt.Errorf("scoring records: %w", err)
	}

	return collector.Rows(), nil
}

// enqueue pushes one record onto the queue, backing off briefly while the
// workers catch up on a full queue.
func (s *Service) enqueue(ctx context.Context, q recordqueue.Queue, record recordqueue.Record) error {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 5 * time.Millisecond
	policy.MaxElapsedTime = 30 * time.Second

	return backoff.Retry(func() error {
		if q.Enqueue(ctx, record) {
			return nil
		}
		if q.IsClosed() {
			return backoff.Permanent(errQueueClosed)
		}
		return errQueueFull
	}, backoff.WithContext(policy, ctx))
}

// TopN returns the top N ranked brokers.
func (s *Service) TopN(ctx context.Context, n int) ([]repository.RankedBroker, error) {
	return s.store.TopN(ctx, n)
}

// BrokerRank returns the ranked performance record for one broker.
func (s *Service) BrokerRank(ctx context.Context, brokerID string) (repository.RankedBroker, error) {
	return s.store.BrokerRank(ctx, brokerID)
}

// Customer returns the enriched rows for one policy number.
func (s *Service) Customer(ctx context.Context, policyNumber string) ([]model.EnrichedRecord, error) {
	return s.store.Customer(ctx, policyNumber)
}

// Regions returns the per-region summaries.
func (s *Service) Regions(ctx context.Context) ([]model.RegionSummary, error) {
	return s.store.Regions(ctx)
}

// Quality returns the data-quality report of the current snapshot.
func (s *Service) Quality(ctx context.Context) (quality.Report, error) {
	return s.store.Quality(ctx)
}

// RunInfo returns metadata about the pass behind the current snapshot.
func (s *Service) RunInfo(ctx context.Context) (repository.RunInfo, error) {
	return s.store.RunInfo(ctx)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"joinPolicy":  string(s.joinPolicy),
	}

	if s.started {
		counts := s.store.Counts(ctx)
		stats["totalBrokers"] = counts.Brokers
		stats["enrichedRecords"] = counts.EnrichedRecords
		stats["regions"] = counts.Regions
		stats["highRiskCustomers"] = counts.HighRiskCustomers

		if info, err := s.store.RunInfo(ctx); err == nil {
			stats["runID"] = info.RunID
			stats["refreshedAt"] = info.RefreshedAt
		}
	}

	return stats
}
