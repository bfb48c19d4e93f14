// Package worker defines worker contracts for concurrent record scoring.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/MrHarBear/riskboard/internal/domain/model"
	"github.com/MrHarBear/riskboard/pkg/logger"
	"github.com/MrHarBear/riskboard/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultWorkerMultiplier = 4 // multiplier for runtime.NumCPU()
	metricsUpdateInterval   = 5 * time.Second
	workerShutdownTimeout   = 5 * time.Second
)

// Record abstracts what workers read off the queue.
// Using the model.IntegratedRecord type for consistency.
type Record = model.IntegratedRecord

// Scorer computes the row-level scoring block for one record.
type Scorer interface {
	Score(ctx context.Context, r Record) (model.RiskBlock, error)
}

// Collector receives scored records from the workers.
type Collector interface {
	Collect(ctx context.Context, row model.ScoredRecord) error
}

// Queue defines how workers receive records.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Record
}

// Worker scores records and hands the results to the collector.
type Worker interface {
	// Run starts the worker loop until ctx is canceled.
	Run(ctx context.Context)

	// Shutdown gracefully stops the worker.
	// It will process any remaining records before stopping.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker for scoring records.
type InMemoryWorker struct {
	queue     Queue
	scorer    Scorer
	collector Collector
	name      string

	// Shutdown control
	shutdown chan struct{}
	done     chan struct{}

	// Invoked after each successfully processed record.
	onProcessed func()

	// Logging
	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(queue Queue, scorer Scorer, collector Collector, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:     queue,
		scorer:    scorer,
		collector: collector,
		name:      "worker", // default name
		shutdown:  make(chan struct{}),
		done:      make(chan struct{}),
		logger:    logger.Get().Named("worker"), // will be updated by options
	}

	for _, opt := range opts {
		opt(w)
	}

	// Set up logger with worker name if not already set
	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}

	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer func() {
		close(w.done)
	}()

	recordChan := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case record, ok := <-recordChan:
			if !ok {
				// Channel closed, worker should stop
				return
			}

			if err := w.processRecord(ctx, record); err != nil {
				w.logger.Error(ctx, "error processing record", logger.Error(err))
			}
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	close(w.shutdown)

	// Wait for worker to finish or context to timeout
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// processRecord scores a single record and delivers the result.
func (w *InMemoryWorker) processRecord(ctx context.Context, record Record) error {
	// Track overall processing latency
	start := time.Now()
	defer func() {
		latency := time.Since(start).Milliseconds()
		metrics.RecordWorkerProcessingLatency(float64(latency))
	}()

	scoreStart := time.Now()
	risk, err := w.scorer.Score(ctx, record)
	metrics.RecordScoringLatency(float64(time.Since(scoreStart).Milliseconds()))

	if err != nil {
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "scoring_error")
		w.logger.Error(ctx, "scoring failed for record",
			logger.String("policyNumber", record.Customer.PolicyNumber),
			logger.Error(err),
		)
		return fmt.Errorf("failed to score record %s: %w", record.Customer.PolicyNumber, err)
	}

	if err := w.collector.Collect(ctx, model.ScoredRecord{Record: record, Risk: risk}); err != nil {
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "collect_error")
		w.logger.Error(ctx, "collecting scored record failed",
			logger.String("policyNumber", record.Customer.PolicyNumber),
			logger.Error(err),
		)
		return fmt.Errorf("collecting scored record failed: %w", err)
	}

	metrics.RecordRecordScored()
	if w.onProcessed != nil {
		w.onProcessed()
	}

	return nil
}

// Pool manages multiple workers.
type Pool struct {
	workers   []*InMemoryWorker
	queue     Queue
	scorer    Scorer
	collector Collector

	// Shutdown control
	shutdown chan struct{}

	// Throughput tracking. The count is incremented from every worker
	// goroutine and drained by the metrics updater.
	processedCount    atomic.Int64
	lastProcessedTime time.Time

	// Logging
	logger logger.Logger
}

// NewPool creates a new worker pool.
func NewPool(workerCount int, queue Queue, scorer Scorer, collector Collector) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU() * defaultWorkerMultiplier
	}

	pool := &Pool{
		workers:           make([]*InMemoryWorker, workerCount),
		queue:             queue,
		scorer:            scorer,
		collector:         collector,
		shutdown:          make(chan struct{}),
		lastProcessedTime: time.Now(),
		logger:            logger.Get().Named("worker-pool"),
	}

	for i := 0; i < workerCount; i++ {
		pool.workers[i] = NewInMemoryWorker(
			queue,
			scorer,
			collector,
			WithName("worker-"+strconv.Itoa(i)),
			WithOnProcessed(pool.RecordProcessedRecord),
		)
	}

	metrics.UpdateWorkerActiveCount(workerCount)
	metrics.UpdateWorkerRecordsPerSecond(0.0)

	return pool
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, worker := range p.workers {
		go worker.Run(ctx)
	}

	go p.startMetricsUpdater(ctx)
}

// startMetricsUpdater starts a background goroutine that updates worker metrics.
func (p *Pool) startMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(metricsUpdateInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-p.shutdown:
			return
		case <-ticker.C:
			p.updateMetrics()
		}
	}
}

// updateMetrics updates worker throughput metrics.
func (p *Pool) updateMetrics() {
	now := time.Now()
	timeDiff := now.Sub(p.lastProcessedTime).Seconds()
	count := p.processedCount.Swap(0)
	if timeDiff > 0 {
		metrics.UpdateWorkerRecordsPerSecond(float64(count) / timeDiff)
	}

	p.lastProcessedTime = now
}

// RecordProcessedRecord increments the processed record count.
func (p *Pool) RecordProcessedRecord() {
	p.processedCount.Add(1)
}

// Processed returns how many records were scored since the last metrics
// interval rollover.
func (p *Pool) Processed() int64 {
	return p.processedCount.Load()
}

// Size returns the number of workers in the pool.
func (p *Pool) Size() int {
	return len(p.workers)
}

// Stop gracefully stops all workers.
func (p *Pool) Stop() {
	close(p.shutdown)

	// Wait for all workers to finish
	for _, worker := range p.workers {
		select {
		case <-worker.done:
			// Worker finished
		case <-time.After(workerShutdownTimeout):
			// Worker timeout
		}
	}
}

// Wait blocks until every worker has drained its queue and stopped, or the
// context expires.
func (p *Pool) Wait(ctx context.Context) error {
	for _, worker := range p.workers {
		select {
		case <-worker.done:
		case <-ctx.Done():
			return fmt.Errorf("waiting for workers: %w", ctx.Err())
		}
	}
	return nil
}
