package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/codecraftersknust/results-analytics-engine/internal/domain/model"
)

// StudentDependencies defines the interface for per-student analytics.
type StudentDependencies interface {
	StudentSummary(ctx context.Context, studentID string) (model.StudentSummary, error)
	Forecast(ctx context.Context, studentID string) (model.ForecastResult, error)
	Risk(ctx context.Context, studentID string) (model.RiskAssessment, error)
	Cluster(ctx context.Context, studentID string) (model.ClusterAssignment, error)
}

// StudentsHandler handles per-student analytics requests.
type StudentsHandler struct {
	deps StudentDependencies
}

// NewStudentsHandler creates a new students handler.
func NewStudentsHandler(deps StudentDependencies) *StudentsHandler {
	return &StudentsHandler{deps: deps}
}

// HandleStudent handles GET /api/v1/students/{id}/{view} requests where
// view is one of summary, forecast, risk or cluster.
func (h *StudentsHandler) HandleStudent(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_student"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/api/v1/students/")
	parts := strings.Split(rest, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		writeError(w, http.StatusBadRequest, "bad_request", wrapOp(op, ErrBadRequest))
		return
	}
	studentID, view := parts[0], parts[1]

	var (
		payload any
		err     error
	)
	switch view {
	case "summary":
		payload, err = h.deps.StudentSummary(r.Context(), studentID)
	case "forecast":
		payload, err = h.deps.Forecast(r.Context(), studentID)
	case "risk":
		payload, err = h.deps.Risk(r.Context(), studentID)
	case "cluster":
		payload, err = h.deps.Cluster(r.Context(), studentID)
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
