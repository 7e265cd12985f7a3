// Package worker defines worker contracts for asynchronous dataset
// ingestion: normalizing uploaded tables into snapshots and activating
// them in the store.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/codecraftersknust/results-analytics-engine/internal/adapters/mq/queue"
	"github.com/codecraftersknust/results-analytics-engine/internal/domain/model"
	"github.com/codecraftersknust/results-analytics-engine/pkg/logger"
	"github.com/codecraftersknust/results-analytics-engine/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultWorkerCount    = 2
	workerShutdownTimeout = 5 * time.Second
	poolShutdownTimeout   = 30 * time.Second
)

// Job aliases what workers read off the queue.
type Job = model.IngestJob

// Normalizer converts a raw table into normalized records, detecting
// whether the table still needs the wide-to-long reshape.
type Normalizer interface {
	IsNormalized(t model.RawTable) bool
	Normalize(ctx context.Context, t model.RawTable) ([]model.NormalizedRecord, error)
	FromNormalized(ctx context.Context, t model.RawTable) ([]model.NormalizedRecord, error)
}

// SnapshotStore receives finished snapshots.
type SnapshotStore interface {
	Put(ctx context.Context, snap model.Snapshot) error
	SetActive(ctx context.Context, id string) error
}

// StatusRecorder tracks job outcomes for the upload API.
type StatusRecorder interface {
	MarkCompleted(datasetID string, rows int)
	MarkFailed(datasetID string, err error)
}

// JobQueue defines how workers receive jobs.
type JobQueue interface {
	Dequeue(ctx context.Context) <-chan Job
}

// Worker processes ingestion jobs until stopped.
type Worker interface {
	// Run starts the worker loop until ctx is canceled.
	Run(ctx context.Context)

	// Shutdown gracefully stops the worker.
	Shutdown(ctx context.Context) error
}

// IngestWorker implements Worker for dataset ingestion.
type IngestWorker struct {
	queue      JobQueue
	normalizer Normalizer
	store      SnapshotStore
	status     StatusRecorder
	name       string

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewIngestWorker creates a worker with configuration options.
func NewIngestWorker(q JobQueue, n Normalizer, s SnapshotStore, st StatusRecorder, opts ...Option) *IngestWorker {
	w := &IngestWorker{
		queue:      q,
		normalizer: n,
		store:      s,
		status:     st,
		name:       "worker",
		shutdown:   make(chan struct{}),
		done:       make(chan struct{}),
		logger:     logger.Get().Named("worker"),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}
	return w
}

// Run starts the worker loop.
func (w *IngestWorker) Run(ctx context.Context) {
	defer close(w.done)

	jobs := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case job, ok := <-jobs:
			if !ok {
				return
			}
			if err := w.processJob(ctx, job); err != nil {
				w.logger.Error(ctx, "ingest failed",
					logger.String("datasetID", job.DatasetID),
					logger.Error(err),
				)
			}
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *IngestWorker) Shutdown(ctx context.Context) error {
	close(w.shutdown)
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// processJob normalizes one raw table, stores the snapshot and makes it
// the active dataset. Validation failures mark the dataset failed; the
// previously active snapshot stays in place.
func (w *IngestWorker) processJob(ctx context.Context, job Job) error {
	start := time.Now()
	defer func() {
		metrics.RecordIngestDuration(float64(time.Since(start).Milliseconds()))
	}()

	var records []model.NormalizedRecord
	var err error
	if w.normalizer.IsNormalized(job.Raw) {
		records, err = w.normalizer.FromNormalized(ctx, job.Raw)
	} else {
		records, err = w.normalizer.Normalize(ctx, job.Raw)
	}
	if err != nil {
		metrics.RecordIngestError()
		w.status.MarkFailed(job.DatasetID, err)
		return fmt.Errorf("normalize dataset %s: %w", job.DatasetID, err)
	}

	snap := model.Snapshot{
		ID:          job.DatasetID,
		CreatedAt:   time.Now(),
		Records:     records,
		SourceRows:  len(job.Raw.Rows),
		Fingerprint: job.Fingerprint,
	}
	if err := w.store.Put(ctx, snap); err != nil {
		metrics.RecordIngestError()
		w.status.MarkFailed(job.DatasetID, err)
		return fmt.Errorf("store snapshot %s: %w", job.DatasetID, err)
	}
	if err := w.store.SetActive(ctx, job.DatasetID); err != nil {
		metrics.RecordIngestError()
		w.status.MarkFailed(job.DatasetID, err)
		return fmt.Errorf("activate snapshot %s: %w", job.DatasetID, err)
	}

	w.status.MarkCompleted(job.DatasetID, len(records))
	metrics.RecordDatasetIngested()
	metrics.RecordRowsNormalized(len(records))
	w.logger.Info(ctx, "dataset ingested",
		logger.String("datasetID", job.DatasetID),
		logger.Int("sourceRows", len(job.Raw.Rows)),
		logger.Int("normalizedRows", len(records)),
	)
	return nil
}

// Pool manages multiple ingestion workers.
type Pool struct {
	workers []*IngestWorker
	queue   JobQueue

	shutdown chan struct{}

	logger logger.Logger
}

// NewPool creates a worker pool over the shared queue.
func NewPool(workerCount int, q JobQueue, n Normalizer, s SnapshotStore, st StatusRecorder) *Pool {
	if workerCount < 1 {
		workerCount = defaultWorkerCount
		if cpus := runtime.NumCPU(); cpus > workerCount {
			workerCount = cpus
		}
	}

	pool := &Pool{
		workers:  make([]*IngestWorker, workerCount),
		queue:    q,
		shutdown: make(chan struct{}),
		logger:   logger.Get().Named("worker-pool"),
	}
	for i := 0; i < workerCount; i++ {
		pool.workers[i] = NewIngestWorker(q, n, s, st, WithName("worker-"+strconv.Itoa(i)))
	}

	metrics.UpdateWorkerCount(workerCount)
	return pool
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Stop gracefully stops all workers.
func (p *Pool) Stop() {
	close(p.shutdown)
	for _, w := range p.workers {
		select {
		case <-w.done:
		case <-time.After(workerShutdownTimeout):
		}
	}
}

// Shutdown closes the queue and waits for workers to drain it.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	for i, w := range p.workers {
		select {
		case <-w.done:
		case <-shutdownCtx.Done():
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
		}
	}
	return nil
}

var _ JobQueue = (queue.Queue)(nil)
