// Package risk scores a student's failure risk from heuristic signals:
// low average, declining trend, high variance and a sudden recent drop.
package risk

import (
	"context"

	"github.com/codecraftersknust/results-analytics-engine/internal/domain/model"
	"github.com/codecraftersknust/results-analytics-engine/internal/domain/stats"
)

// Factor tags recorded for triggered rules.
const (
	FactorLowAverage   = "RISK_LOW_AVG"
	FactorSteepDecline = "RISK_TREND_STEEP_DOWN"
	FactorDecline      = "RISK_TREND_DOWN"
	FactorHighVariance = "RISK_HIGH_VAR"
	FactorSuddenDrop   = "RISK_SUDDEN_DROP"
)

// Scoring bands and increments. Within each banded pair only one branch
// applies; the variance and sudden-drop rules are independent.
const (
	lowAverageBand   = 50.0
	weakAverageBand  = 60.0
	lowAverageRisk   = 0.40
	weakAverageRisk  = 0.20
	steepSlopeBand   = -5.0
	mildSlopeBand    = -2.0
	steepSlopeRisk   = 0.30
	mildSlopeRisk    = 0.15
	highVarianceBand = 15.0
	highVarianceRisk = 0.10
	suddenDropPoints = 10.0
	suddenDropRisk   = 0.15

	probabilityCeiling  = 0.95
	criticalProbability = 0.70
	moderateProbability = 0.40
)

// Detector assesses students against one dataset snapshot.
type Detector struct {
	records []model.NormalizedRecord
}

// New creates a Detector over a normalized dataset.
func New(records []model.NormalizedRecord) *Detector {
	return &Detector{records: records}
}

// Assess computes the additive risk score for a student. The probability
// is the sum of triggered increments capped at 0.95; the level follows
// the probability bands. A student with no recorded history yields an
// UNKNOWN level with zero probability rather than an error.
func (d *Detector) Assess(ctx context.Context, studentID string) model.RiskAssessment {
	var scores, times []float64
	latest := 0
	for _, r := range d.records {
		if r.StudentID != studentID {
			continue
		}
		scores = append(scores, r.Score)
		times = append(times, float64(r.TimeIndex))
		if r.TimeIndex > latest {
			latest = r.TimeIndex
		}
	}
	if len(scores) == 0 {
		return model.RiskAssessment{
			StudentID: studentID,
			Level:     model.LevelUnknown,
			Factors:   []string{},
		}
	}

	avg := stats.Mean(scores)
	std := stats.SampleStdDev(scores)
	slope := stats.Slope(times, scores)
	recentDrop := len(scores) >= 2 && scores[len(scores)-2]-scores[len(scores)-1] > suddenDropPoints

	score := 0.0
	factors := []string{}

	switch {
	case avg < lowAverageBand:
		score += lowAverageRisk
		factors = append(factors, FactorLowAverage)
	case avg < weakAverageBand:
		score += weakAverageRisk
	}

	switch {
	case slope < steepSlopeBand:
		score += steepSlopeRisk
		factors = append(factors, FactorSteepDecline)
	case slope < mildSlopeBand:
		score += mildSlopeRisk
		factors = append(factors, FactorDecline)
	}

	if std > highVarianceBand {
		score += highVarianceRisk
		factors = append(factors, FactorHighVariance)
	}
	if recentDrop {
		score += suddenDropRisk
		factors = append(factors, FactorSuddenDrop)
	}

	probability := score
	if probability > probabilityCeiling {
		probability = probabilityCeiling
	}

	level := model.LevelLow
	switch {
	case probability > criticalProbability:
		level = model.LevelCritical
	case probability > moderateProbability:
		level = model.LevelModerate
	}

	return model.RiskAssessment{
		StudentID:   studentID,
		Level:       level,
		Probability: stats.Round(probability, 2),
		Factors:     factors,
		TimeIndex:   latest,
	}
}
