// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	repository "github.com/codecraftersknust/results-analytics-engine/internal/adapters/repository"
	service "github.com/codecraftersknust/results-analytics-engine/internal/app"
	"github.com/codecraftersknust/results-analytics-engine/internal/domain/cluster"
	"github.com/codecraftersknust/results-analytics-engine/internal/domain/model"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Write path: dataset upload and status.
	IngestDataset(ctx context.Context, content []byte) (model.DatasetStatus, error)
	DatasetStatus(ctx context.Context, id string) (model.DatasetStatus, error)

	// Per-student analytics.
	StudentSummary(ctx context.Context, studentID string) (model.StudentSummary, error)
	Forecast(ctx context.Context, studentID string) (model.ForecastResult, error)
	Risk(ctx context.Context, studentID string) (model.RiskAssessment, error)
	Cluster(ctx context.Context, studentID string) (model.ClusterAssignment, error)

	// Cohort analytics.
	CohortTrends(ctx context.Context) ([]model.CohortTrend, error)
	CohortCorrelations(ctx context.Context) (model.CorrelationReport, error)
	SubjectRelationships(ctx context.Context) (model.SubjectAnalysis, error)
	ClusterProfiles(ctx context.Context) ([]model.ClusterProfile, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	datasetsHandler *DatasetsHandler
	studentsHandler *StudentsHandler
	cohortHandler   *CohortHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxUploadBytes int64) *Server {
	return &Server{
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(statsProvider),
		datasetsHandler: NewDatasetsHandler(deps, maxUploadBytes),
		studentsHandler: NewStudentsHandler(deps),
		cohortHandler:   NewCohortHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", CORSMiddleware(MetricsMiddleware(s.healthHandler.HandleHealth, "healthz")))
	mux.HandleFunc("/stats", CORSMiddleware(MetricsMiddleware(s.statsHandler.HandleStats, "stats")))
	mux.HandleFunc("/datasets", CORSMiddleware(MetricsMiddleware(s.datasetsHandler.HandleUpload, "datasets")))
	mux.HandleFunc("/datasets/", CORSMiddleware(MetricsMiddleware(s.datasetsHandler.HandleStatus, "dataset_status")))
	mux.HandleFunc("/api/v1/students/", CORSMiddleware(MetricsMiddleware(s.studentsHandler.HandleStudent, "students")))
	mux.HandleFunc("/api/v1/cohort/", CORSMiddleware(MetricsMiddleware(s.cohortHandler.HandleCohort, "cohort")))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// wrapOp annotates an error with the failing API operation.
func wrapOp(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}

// writeDomainError maps service-layer errors onto HTTP statuses:
// no active dataset is 503, unknown entities are 404, malformed uploads
// are 400, schema and insufficient-data failures are 422, and queue
// backpressure is 429.
func writeDomainError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, repository.ErrNoActiveDataset):
		writeError(w, http.StatusServiceUnavailable, "no_active_dataset", wrapOp(op, err))
	case errors.Is(err, service.ErrUnknownStudent),
		errors.Is(err, service.ErrUnknownDataset),
		errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", wrapOp(op, err))
	case errors.Is(err, service.ErrBadUpload):
		writeError(w, http.StatusBadRequest, "bad_upload", wrapOp(op, err))
	case errors.Is(err, service.ErrInvalidSchema):
		writeError(w, http.StatusUnprocessableEntity, "invalid_schema", wrapOp(op, err))
	case errors.Is(err, cluster.ErrNoFeatures), errors.Is(err, cluster.ErrTooFewStudents):
		writeError(w, http.StatusUnprocessableEntity, "insufficient_data", wrapOp(op, err))
	case errors.Is(err, service.ErrQueueFull):
		writeError(w, http.StatusTooManyRequests, "backpressure", wrapOp(op, err))
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", wrapOp(op, err))
	}
}
