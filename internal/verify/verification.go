package verify

import (
	"context"
	"fmt"

	"github.com/codecraftersknust/results-analytics-engine/pkg/logger"
)

// Bounds enforced by the analytics engine; responses outside these are
// verification failures.
const (
	riskProbabilityCap = 0.95
	maxForecastScore   = 100.0
)

var knownRiskLevels = map[string]struct{}{
	"UNKNOWN":  {},
	"LOW":      {},
	"MODERATE": {},
	"CRITICAL": {},
}

var knownClusterLabels = map[string]struct{}{
	"Consistent High Performer": {},
	"Volatile High Performer":   {},
	"Recovering / Improving":    {},
	"At Risk":                   {},
	"Fast Improver":             {},
	"Declining Performance":     {},
	"Inconsistent Performer":    {},
	"Steady Average":            {},
}

func (s *Stats) fail(ctx context.Context, format string, args ...interface{}) {
	s.FailedChecks++
	logger.Get().Error(ctx, "verification check failed", logger.String("detail", fmt.Sprintf(format, args...)))
}

// verifyStudents exercises the four per-student endpoints for every
// generated student and checks the documented response bounds.
func verifyStudents(ctx context.Context, client *HTTPClient, config *Config, studentIDs []string, stats *Stats) error {
	for _, id := range studentIDs {
		base := "/api/v1/students/" + id

		var summary summaryResponse
		if err := client.getJSON(ctx, base+"/summary", &summary); err != nil {
			return err
		}
		if summary.TotalSemesters != config.Semesters {
			stats.fail(ctx, "student %s: expected %d semesters, got %d", id, config.Semesters, summary.TotalSemesters)
		}
		if summary.OverallAverage < 0 || summary.OverallAverage > maxForecastScore {
			stats.fail(ctx, "student %s: overall average %.2f out of range", id, summary.OverallAverage)
		}

		var forecast forecastResponse
		if err := client.getJSON(ctx, base+"/forecast", &forecast); err != nil {
			return err
		}
		if forecast.HasPrediction && (forecast.PredictedScore < 0 || forecast.PredictedScore > maxForecastScore) {
			stats.fail(ctx, "student %s: forecast %.2f out of range", id, forecast.PredictedScore)
		}
		if !forecast.HasPrediction && forecast.Message == "" {
			stats.fail(ctx, "student %s: missing forecast message", id)
		}

		var risk riskResponse
		if err := client.getJSON(ctx, base+"/risk", &risk); err != nil {
			return err
		}
		if _, ok := knownRiskLevels[risk.Level]; !ok {
			stats.fail(ctx, "student %s: unknown risk level %q", id, risk.Level)
		}
		if risk.Probability < 0 || risk.Probability > riskProbabilityCap {
			stats.fail(ctx, "student %s: risk probability %.2f out of range", id, risk.Probability)
		}

		var assignment clusterResponse
		if err := client.getJSON(ctx, base+"/cluster", &assignment); err != nil {
			return err
		}
		if _, ok := knownClusterLabels[assignment.Label]; !ok {
			stats.fail(ctx, "student %s: unknown cluster label %q", id, assignment.Label)
		}

		stats.StudentsChecked++
	}
	return nil
}

// verifyCohort exercises the cohort endpoints and checks shape-level
// invariants: trends cover all subjects and periods, correlations stay
// within [-1, 1], and cluster sizes add up to the cohort.
func verifyCohort(ctx context.Context, client *HTTPClient, config *Config, stats *Stats) error {
	var trends []trendResponse
	if err := client.getJSON(ctx, "/api/v1/cohort/trends", &trends); err != nil {
		return err
	}
	expected := len(subjectColumns) * config.Semesters
	if len(trends) != expected {
		stats.fail(ctx, "expected %d trend points, got %d", expected, len(trends))
	}
	stats.CohortChecks++

	var correlations correlationResponse
	if err := client.getJSON(ctx, "/api/v1/cohort/correlations", &correlations); err != nil {
		return err
	}
	for _, cell := range correlations.Heatmap {
		if cell.Value < -1.0 || cell.Value > 1.0 {
			stats.fail(ctx, "correlation %s/%s = %.3f outside [-1, 1]", cell.X, cell.Y, cell.Value)
		}
		if cell.X == cell.Y && cell.Value != 1.0 {
			stats.fail(ctx, "correlation diagonal %s = %.3f, want 1.0", cell.X, cell.Value)
		}
	}
	stats.CohortChecks++

	var subjects map[string]interface{}
	if err := client.getJSON(ctx, "/api/v1/cohort/subjects", &subjects); err != nil {
		return err
	}
	stats.CohortChecks++

	var profiles []profileResponse
	if err := client.getJSON(ctx, "/api/v1/cohort/clusters", &profiles); err != nil {
		return err
	}
	total := 0
	for _, p := range profiles {
		if _, ok := knownClusterLabels[p.Label]; !ok {
			stats.fail(ctx, "unknown cluster profile label %q", p.Label)
		}
		total += p.Size
	}
	if total != config.Students {
		stats.fail(ctx, "cluster sizes sum to %d, want %d students", total, config.Students)
	}
	stats.CohortChecks++

	return nil
}
