// Package forecast fits a per-student linear trend over time and
// extrapolates one period forward.
package forecast

import (
	"context"
	"math"
	"sort"

	"github.com/codecraftersknust/results-analytics-engine/internal/domain/model"
	"github.com/codecraftersknust/results-analytics-engine/internal/domain/stats"
)

// Prediction bounds and history requirements.
const (
	minScore = 0.0
	maxScore = 100.0

	// minPeriods is the number of distinct historical periods required
	// for a trend fit.
	minPeriods = 2

	noHistoryMessage    = "No recorded history for student."
	shortHistoryMessage = "Not enough history to forecast."
)

// Forecaster predicts next-period performance from a dataset snapshot.
type Forecaster struct {
	records []model.NormalizedRecord
}

// New creates a Forecaster over a normalized dataset.
func New(records []model.NormalizedRecord) *Forecaster {
	return &Forecaster{records: records}
}

// Forecast aggregates the student's history to one average score per
// period, fits ordinary least squares of score on time index, and
// predicts the period after the latest one, clipped to [0, 100].
// Confidence is the R-squared of the fit, floored at zero. Fewer than
// two distinct periods yields a result without a prediction; that is an
// explicit insufficient-data value, never an error.
func (f *Forecaster) Forecast(ctx context.Context, studentID string) model.ForecastResult {
	sums := make(map[int]float64)
	counts := make(map[int]int)
	for _, r := range f.records {
		if r.StudentID != studentID {
			continue
		}
		sums[r.TimeIndex] += r.Score
		counts[r.TimeIndex]++
	}
	if len(sums) == 0 {
		return model.ForecastResult{
			StudentID:  studentID,
			Confidence: 0,
			Message:    noHistoryMessage,
		}
	}
	if len(sums) < minPeriods {
		return model.ForecastResult{
			StudentID:  studentID,
			Confidence: 0,
			Message:    shortHistoryMessage,
		}
	}

	periods := make([]int, 0, len(sums))
	for t := range sums {
		periods = append(periods, t)
	}
	sort.Ints(periods)

	xs := make([]float64, len(periods))
	ys := make([]float64, len(periods))
	for i, t := range periods {
		xs[i] = float64(t)
		ys[i] = sums[t] / float64(counts[t])
	}

	alpha, beta := stats.OLS(xs, ys)
	next := periods[len(periods)-1] + 1
	predicted := alpha + beta*float64(next)
	if predicted < minScore {
		predicted = minScore
	}
	if predicted > maxScore {
		predicted = maxScore
	}

	confidence := stats.RSquared(xs, ys, alpha, beta)
	if math.IsNaN(confidence) {
		// Constant history: zero total variance with zero residuals is a
		// perfect fit.
		confidence = 1
	}
	if confidence < 0 {
		confidence = 0
	}

	return model.ForecastResult{
		StudentID:      studentID,
		PredictedScore: stats.Round(predicted, 1),
		HasPrediction:  true,
		TimeIndex:      next,
		Confidence:     stats.Round(confidence, 2),
	}
}
