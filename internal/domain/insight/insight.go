// Package insight applies fixed threshold rules to aggregated metrics
// and renders the resulting insights as human-readable narrative.
package insight

import (
	"github.com/codecraftersknust/results-analytics-engine/internal/domain/model"
)

// Fixed threshold constants. These are policy, not configuration.
const (
	// ImprovementThreshold is the minimum period-over-period gain, in
	// points, that counts as an improvement.
	ImprovementThreshold = 5.0

	// DeclineThreshold is the maximum (most negative) delta that still
	// does not count as a decline; at or below it, a decline insight is
	// emitted.
	DeclineThreshold = -5.0

	// CorrelationThreshold is the minimum Pearson coefficient for a
	// subject pair to be reported as strongly connected.
	CorrelationThreshold = 0.6

	defaultConfidence = 1.0
)

// GenerateStudentInsights emits improvement and decline insights from
// performance deltas. Records without a defined delta (each student's
// first period) are skipped.
func GenerateStudentInsights(deltas []model.DeltaRecord) []model.Insight {
	var insights []model.Insight
	for _, d := range deltas {
		if !d.HasDelta() {
			continue
		}
		payload := model.DeltaPayload{
			Delta:        d.Delta,
			AverageScore: d.AverageScore,
			PrevScore:    d.PrevScore,
			TimeLabel:    d.TimeLabel,
		}
		switch {
		case d.Delta >= ImprovementThreshold:
			insights = append(insights, model.Insight{
				Type:        model.InsightImprovement,
				Scope:       model.ScopeStudent,
				EntityID:    d.StudentID,
				Description: "improved overall performance",
				Payload:     payload,
				Confidence:  defaultConfidence,
			})
		case d.Delta <= DeclineThreshold:
			insights = append(insights, model.Insight{
				Type:        model.InsightDecline,
				Scope:       model.ScopeStudent,
				EntityID:    d.StudentID,
				Description: "declined in overall performance",
				Payload:     payload,
				Confidence:  defaultConfidence,
			})
		}
	}
	return insights
}

// GenerateCohortCorrelations emits one correlation insight for each
// unordered subject pair whose coefficient meets the threshold. Self
// pairs are skipped and each pair is considered once. NaN entries
// (insufficient pairwise observations) never satisfy the threshold.
func GenerateCohortCorrelations(m model.CorrelationMatrix) []model.Insight {
	var insights []model.Insight
	for i, a := range m.Subjects {
		for j := i + 1; j < len(m.Subjects); j++ {
			b := m.Subjects[j]
			val := m.Values[i][j]
			if val >= CorrelationThreshold {
				insights = append(insights, model.Insight{
					Type:        model.InsightCorrelation,
					Scope:       model.ScopeCohort,
					EntityID:    model.CohortEntityID,
					Description: "strong positive correlation",
					Payload: model.CorrelationPayload{
						SubjectA:    a,
						SubjectB:    b,
						Correlation: val,
					},
					Confidence: defaultConfidence,
				})
			}
		}
	}
	return insights
}
