package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/codecraftersknust/results-analytics-engine/internal/domain/model"
)

// CohortDependencies defines the interface for cohort-level analytics.
type CohortDependencies interface {
	CohortTrends(ctx context.Context) ([]model.CohortTrend, error)
	CohortCorrelations(ctx context.Context) (model.CorrelationReport, error)
	SubjectRelationships(ctx context.Context) (model.SubjectAnalysis, error)
	ClusterProfiles(ctx context.Context) ([]model.ClusterProfile, error)
}

// CohortHandler handles cohort analytics requests.
type CohortHandler struct {
	deps CohortDependencies
}

// NewCohortHandler creates a new cohort handler.
func NewCohortHandler(deps CohortDependencies) *CohortHandler {
	return &CohortHandler{deps: deps}
}

// HandleCohort handles GET /api/v1/cohort/{view} requests where view is
// one of trends, correlations, subjects or clusters.
func (h *CohortHandler) HandleCohort(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_cohort"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	view := strings.TrimPrefix(r.URL.Path, "/api/v1/cohort/")
	if view == "" || strings.Contains(view, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", wrapOp(op, ErrBadRequest))
		return
	}

	var (
		payload any
		err     error
	)
	switch view {
	case "trends":
		payload, err = h.deps.CohortTrends(r.Context())
	case "correlations":
		payload, err = h.deps.CohortCorrelations(r.Context())
	case "subjects":
		payload, err = h.deps.SubjectRelationships(r.Context())
	case "clusters":
		payload, err = h.deps.ClusterProfiles(r.Context())
	default:
		http.NotFound(w, r)
		return
	}

	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, payload)
}
