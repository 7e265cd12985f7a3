// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/codecraftersknust/results-analytics-engine/internal/adapters/ingest"
	jobqueue "github.com/codecraftersknust/results-analytics-engine/internal/adapters/mq/queue"
	workerpool "github.com/codecraftersknust/results-analytics-engine/internal/adapters/mq/worker"
	repository "github.com/codecraftersknust/results-analytics-engine/internal/adapters/repository"
	"github.com/codecraftersknust/results-analytics-engine/internal/domain/aggregate"
	"github.com/codecraftersknust/results-analytics-engine/internal/domain/cluster"
	"github.com/codecraftersknust/results-analytics-engine/internal/domain/dedupe"
	"github.com/codecraftersknust/results-analytics-engine/internal/domain/forecast"
	"github.com/codecraftersknust/results-analytics-engine/internal/domain/insight"
	"github.com/codecraftersknust/results-analytics-engine/internal/domain/model"
	"github.com/codecraftersknust/results-analytics-engine/internal/domain/normalize"
	"github.com/codecraftersknust/results-analytics-engine/internal/domain/relation"
	"github.com/codecraftersknust/results-analytics-engine/internal/domain/risk"
	"github.com/codecraftersknust/results-analytics-engine/internal/domain/stats"
	"github.com/codecraftersknust/results-analytics-engine/pkg/logger"
	"github.com/codecraftersknust/results-analytics-engine/pkg/metrics"
)

// Service implements the API dependencies for the analytics engine.
type Service struct {
	mu sync.RWMutex

	// Core components
	datasets   repository.Store
	registry   dedupe.Registry
	queue      jobqueue.Queue
	normalizer *normalize.Normalizer
	trainer    *cluster.Trainer
	pool       *workerpool.Pool

	// Configuration
	workerCount      int
	queueSize        int
	dedupeSize       int
	maxDatasets      int
	semestersPerYear int
	subjectColumns   []string
	clusterCount     int
	clusterSeed      int64

	// Upload tracking
	statusMu sync.RWMutex
	statuses map[string]model.DatasetStatus

	// Fitted clustering model, cached per active snapshot.
	modelMu     sync.Mutex
	modelSnapID string
	fitted      *cluster.FittedModel
	features    []model.FeatureVector

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of ingestion workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the ingestion queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the size of the upload fingerprint cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithMaxDatasets caps how many snapshots the store retains.
func WithMaxDatasets(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxDatasets = n
		}
	}
}

// WithSemestersPerYear sets the academic calendar for normalization.
func WithSemestersPerYear(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.semestersPerYear = n
		}
	}
}

// WithSubjectColumns sets the wide-format subject columns.
func WithSubjectColumns(cols []string) Option {
	return func(s *Service) {
		if len(cols) > 0 {
			s.subjectColumns = cols
		}
	}
}

// WithClusterCount sets k for student clustering.
func WithClusterCount(k int) Option {
	return func(s *Service) {
		if k > 0 {
			s.clusterCount = k
		}
	}
}

// WithClusterSeed fixes the clustering RNG seed.
func WithClusterSeed(seed int64) Option {
	return func(s *Service) {
		s.clusterSeed = seed
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:      runtime.NumCPU(),
		queueSize:        64,
		dedupeSize:       1024,
		maxDatasets:      16,
		semestersPerYear: normalize.DefaultSemestersPerYear,
		subjectColumns:   normalize.DefaultSubjectColumns,
		clusterCount:     cluster.DefaultClusterCount,
		clusterSeed:      cluster.DefaultSeed,
		statuses:         make(map[string]model.DatasetStatus),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	s.logger.Info(ctx, "starting analytics service...")

	s.datasets = repository.NewMemStore(ctx,
		repository.WithMaxSnapshots(s.maxDatasets),
	)
	s.registry = dedupe.NewInMemoryRegistry(
		dedupe.WithMaxSize(s.dedupeSize),
	)
	s.queue = jobqueue.NewInMemoryQueue(
		jobqueue.WithCapacity(s.queueSize),
	)
	s.normalizer = normalize.New(
		normalize.WithSemestersPerYear(s.semestersPerYear),
		normalize.WithSubjectColumns(s.subjectColumns),
	)
	s.trainer = cluster.NewTrainer(
		cluster.WithClusterCount(s.clusterCount),
		cluster.WithSeed(s.clusterSeed),
	)

	s.pool = workerpool.NewPool(s.workerCount, s.queue, s.normalizer, s.datasets, s)
	s.pool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "analytics service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("maxDatasets", s.maxDatasets),
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

	ctx := context.Background()
	s.logger.Info(ctx, "stopping analytics service...")

	if s.pool != nil {
		s.pool.Stop()
	}
	if s.queue != nil {
		_ = s.queue.Close()
	}

	s.started = false
	s.logger.Info(ctx, "analytics service stopped")
}

// MarkCompleted records a successful ingestion outcome.
func (s *Service) MarkCompleted(datasetID string, rows int) {
	s.statusMu.Lock()
	defer s.statusMu.Unlock()
	st, ok := s.statuses[datasetID]
	if !ok {
		st = model.DatasetStatus{DatasetID: datasetID, CreatedAt: time.Now()}
	}
	st.State = model.IngestCompleted
	st.Rows = rows
	st.Error = ""
	s.statuses[datasetID] = st
}

// MarkFailed records a failed ingestion outcome.
func (s *Service) MarkFailed(datasetID string, err error) {
	s.statusMu.Lock()
	defer s.statusMu.Unlock()
	st, ok := s.statuses[datasetID]
	if !ok {
		st = model.DatasetStatus{DatasetID: datasetID, CreatedAt: time.Now()}
	}
	st.State = model.IngestFailed
	if err != nil {
		st.Error = err.Error()
	}
	s.statuses[datasetID] = st
}

// IngestDataset accepts raw CSV content, deduplicates it by fingerprint
// and submits it for asynchronous normalization. The returned status is
// pending unless the content was already ingested.
func (s *Service) IngestDataset(ctx context.Context, content []byte) (model.DatasetStatus, error) {
	table, err := ingest.ReadTable(bytes.NewReader(content))
	if err != nil {
		return model.DatasetStatus{}, fmt.Errorf("%w: %w", ErrBadUpload, err)
	}
	if len(table.Rows) == 0 {
		return model.DatasetStatus{}, fmt.Errorf("%w: no data rows", ErrBadUpload)
	}
	if !s.normalizer.ValidateSchema(table) && !s.normalizer.IsNormalized(table) {
		return model.DatasetStatus{}, fmt.Errorf("%w: need student and semester columns plus scores", ErrInvalidSchema)
	}

	fingerprint := ingest.Fingerprint(content)
	if existingID, ok := s.registry.Lookup(ctx, fingerprint); ok {
		metrics.RecordDuplicateUpload()
		s.logger.Info(ctx, "duplicate upload",
			logger.String("datasetID", existingID),
			logger.String("fingerprint", fingerprint),
		)
		if st, found := s.datasetStatus(existingID); found {
			return st, nil
		}
		// Status evicted but the fingerprint survived; resubmit under the
		// original id.
	}

	datasetID := uuid.NewString()
	now := time.Now()

	s.statusMu.Lock()
	s.statuses[datasetID] = model.DatasetStatus{
		DatasetID: datasetID,
		State:     model.IngestPending,
		CreatedAt: now,
	}
	s.statusMu.Unlock()

	job := model.IngestJob{
		JobID:       uuid.NewString(),
		DatasetID:   datasetID,
		Raw:         table,
		Fingerprint: fingerprint,
		Submitted:   now,
	}
	if !s.queue.Enqueue(ctx, job) {
		s.statusMu.Lock()
		delete(s.statuses, datasetID)
		s.statusMu.Unlock()
		return model.DatasetStatus{}, ErrQueueFull
	}

	s.registry.Record(ctx, fingerprint, datasetID)
	s.logger.Info(ctx, "dataset submitted",
		logger.String("datasetID", datasetID),
		logger.Int("rows", len(table.Rows)),
	)

	st, _ := s.datasetStatus(datasetID)
	return st, nil
}

func (s *Service) datasetStatus(id string) (model.DatasetStatus, bool) {
	s.statusMu.RLock()
	defer s.statusMu.RUnlock()
	st, ok := s.statuses[id]
	return st, ok
}

// DatasetStatus returns the ingestion state of one uploaded dataset.
func (s *Service) DatasetStatus(ctx context.Context, id string) (model.DatasetStatus, error) {
	if st, ok := s.datasetStatus(id); ok {
		return st, nil
	}
	return model.DatasetStatus{}, fmt.Errorf("%w: %s", ErrUnknownDataset, id)
}

// activeRecords returns the records of the active snapshot.
func (s *Service) activeRecords(ctx context.Context) ([]model.NormalizedRecord, error) {
	snap, err := s.datasets.Active(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Records, nil
}

func hasStudent(records []model.NormalizedRecord, studentID string) bool {
	for i := range records {
		if records[i].StudentID == studentID {
			return true
		}
	}
	return false
}

// StudentSummary builds the per-student overview: overall average,
// period history and rendered insights.
func (s *Service) StudentSummary(ctx context.Context, studentID string) (model.StudentSummary, error) {
	records, err := s.activeRecords(ctx)
	if err != nil {
		return model.StudentSummary{}, err
	}
	if !hasStudent(records, studentID) {
		return model.StudentSummary{}, fmt.Errorf("%w: %s", ErrUnknownStudent, studentID)
	}

	var scores []float64
	periods := make(map[int]struct{})
	for i := range records {
		if records[i].StudentID != studentID {
			continue
		}
		scores = append(scores, records[i].Score)
		periods[records[i].TimeIndex] = struct{}{}
	}

	averages := aggregate.StudentAverages(records)
	var history []model.StudentAverage
	for _, avg := range averages {
		if avg.StudentID == studentID {
			history = append(history, avg)
		}
	}

	deltas := aggregate.PerformanceDeltas(averages)
	var rendered []string
	for _, in := range insight.GenerateStudentInsights(deltas) {
		if in.EntityID == studentID {
			rendered = append(rendered, insight.Explain(in))
		}
	}
	if rendered == nil {
		rendered = []string{}
	}

	return model.StudentSummary{
		StudentID:      studentID,
		OverallAverage: stats.Round(stats.Mean(scores), 2),
		TotalSemesters: len(periods),
		Insights:       rendered,
		History:        history,
	}, nil
}

// Forecast predicts the student's next-period average.
func (s *Service) Forecast(ctx context.Context, studentID string) (model.ForecastResult, error) {
	records, err := s.activeRecords(ctx)
	if err != nil {
		return model.ForecastResult{}, err
	}
	if !hasStudent(records, studentID) {
		return model.ForecastResult{}, fmt.Errorf("%w: %s", ErrUnknownStudent, studentID)
	}

	start := time.Now()
	result := forecast.New(records).Forecast(ctx, studentID)
	metrics.RecordAnalysisDuration("forecast", float64(time.Since(start).Milliseconds()))
	return result, nil
}

// Risk estimates the student's failure risk.
func (s *Service) Risk(ctx context.Context, studentID string) (model.RiskAssessment, error) {
	records, err := s.activeRecords(ctx)
	if err != nil {
		return model.RiskAssessment{}, err
	}
	if !hasStudent(records, studentID) {
		return model.RiskAssessment{}, fmt.Errorf("%w: %s", ErrUnknownStudent, studentID)
	}

	start := time.Now()
	assessment := risk.New(records).Assess(ctx, studentID)
	metrics.RecordAnalysisDuration("risk", float64(time.Since(start).Milliseconds()))
	return assessment, nil
}

// fittedModel returns the clustering model for the active snapshot,
// training it on first use and re-training when the snapshot changes.
func (s *Service) fittedModel(ctx context.Context) (*cluster.FittedModel, []model.FeatureVector, error) {
	snap, err := s.datasets.Active(ctx)
	if err != nil {
		return nil, nil, err
	}

	s.modelMu.Lock()
	defer s.modelMu.Unlock()

	if s.fitted != nil && s.modelSnapID == snap.ID {
		return s.fitted, s.features, nil
	}

	features := cluster.ExtractFeatures(snap.Records)
	start := time.Now()
	fitted, err := s.trainer.Train(ctx, features)
	if err != nil {
		return nil, nil, err
	}
	metrics.RecordModelTrainingDuration(float64(time.Since(start).Milliseconds()))

	s.fitted = fitted
	s.features = features
	s.modelSnapID = snap.ID
	s.logger.Info(ctx, "clustering model trained",
		logger.String("datasetID", snap.ID),
		logger.Int("students", len(features)),
	)
	return fitted, features, nil
}

// Cluster places the student in a behavioral profile cluster.
func (s *Service) Cluster(ctx context.Context, studentID string) (model.ClusterAssignment, error) {
	fitted, features, err := s.fittedModel(ctx)
	if err != nil {
		return model.ClusterAssignment{}, err
	}

	assignment, ok := fitted.Assign(ctx, studentID, features)
	if !ok {
		return model.ClusterAssignment{}, fmt.Errorf("%w: %s", ErrUnknownStudent, studentID)
	}
	return assignment, nil
}

// ClusterProfiles summarizes all fitted clusters for cohort views.
func (s *Service) ClusterProfiles(ctx context.Context) ([]model.ClusterProfile, error) {
	fitted, _, err := s.fittedModel(ctx)
	if err != nil {
		return nil, err
	}
	return fitted.Profiles(), nil
}

// CohortTrends returns cohort-wide subject averages over time.
func (s *Service) CohortTrends(ctx context.Context) ([]model.CohortTrend, error) {
	records, err := s.activeRecords(ctx)
	if err != nil {
		return nil, err
	}
	return aggregate.CohortTrends(records), nil
}

// CohortCorrelations builds the subject correlation report: rendered
// insights for strong pairs plus the full matrix flattened for heatmaps.
func (s *Service) CohortCorrelations(ctx context.Context) (model.CorrelationReport, error) {
	records, err := s.activeRecords(ctx)
	if err != nil {
		return model.CorrelationReport{}, err
	}

	matrix := aggregate.SubjectCorrelations(records)

	rendered := []string{}
	for _, in := range insight.GenerateCohortCorrelations(matrix) {
		rendered = append(rendered, insight.Explain(in))
	}

	// NaN entries (too few paired observations) are not representable in
	// JSON and are omitted from the heatmap.
	heatmap := make([]model.HeatmapCell, 0, len(matrix.Subjects)*len(matrix.Subjects))
	for i, a := range matrix.Subjects {
		for j, b := range matrix.Subjects {
			if math.IsNaN(matrix.Values[i][j]) {
				continue
			}
			heatmap = append(heatmap, model.HeatmapCell{
				X:     a,
				Y:     b,
				Value: matrix.Values[i][j],
			})
		}
	}

	return model.CorrelationReport{
		Insights: rendered,
		Heatmap:  heatmap,
	}, nil
}

// SubjectRelationships maps subjects into the 2-D latent space.
func (s *Service) SubjectRelationships(ctx context.Context) (model.SubjectAnalysis, error) {
	records, err := s.activeRecords(ctx)
	if err != nil {
		return model.SubjectAnalysis{}, err
	}

	start := time.Now()
	analysis := relation.NewAnalyzer(records).Analyze(ctx)
	metrics.RecordAnalysisDuration("relationships", float64(time.Since(start).Milliseconds()))
	return analysis, nil
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
		"dedupeSize":  s.dedupeSize,
	}

	if s.started {
		queueLen := s.queue.Len(ctx)
		datasetCount := s.datasets.Count(ctx)

		stats["queueLength"] = queueLen
		stats["datasetCount"] = datasetCount
		stats["datasets"] = s.datasets.IDs(ctx)

		if snap, err := s.datasets.Active(ctx); err == nil {
			stats["activeDataset"] = snap.ID
			stats["activeRows"] = len(snap.Records)
		}

		s.statusMu.RLock()
		pending := 0
		for _, st := range s.statuses {
			if st.State == model.IngestPending {
				pending++
			}
		}
		s.statusMu.RUnlock()
		stats["pendingUploads"] = pending

		metrics.UpdateQueueSize(queueLen)
		metrics.UpdateDatasetCount(datasetCount)
		metrics.UpdateWorkerCount(s.workerCount)
	}

	return stats
}

// Statuses lists known upload statuses, newest first.
func (s *Service) Statuses() []model.DatasetStatus {
	s.statusMu.RLock()
	defer s.statusMu.RUnlock()

	out := make([]model.DatasetStatus, 0, len(s.statuses))
	for _, st := range s.statuses {
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}
