// Package cluster segments students into behavioral profiles: a
// 3-feature vector per student, k-means over the cohort, and a
// deterministic label per centroid.
package cluster

import (
	"sort"

	"github.com/codecraftersknust/results-analytics-engine/internal/domain/model"
	"github.com/codecraftersknust/results-analytics-engine/internal/domain/stats"
)

// ExtractFeatures builds one feature vector per student, ordered by
// student id: overall average score, consistency (sample standard
// deviation, 0 with fewer than two observations) and improvement rate
// (OLS slope of score over time index, 0 with fewer than two
// observations or a degenerate fit).
func ExtractFeatures(records []model.NormalizedRecord) []model.FeatureVector {
	type history struct {
		scores []float64
		times  []float64
	}
	byStudent := make(map[string]*history)
	for _, r := range records {
		h, ok := byStudent[r.StudentID]
		if !ok {
			h = &history{}
			byStudent[r.StudentID] = h
		}
		h.scores = append(h.scores, r.Score)
		h.times = append(h.times, float64(r.TimeIndex))
	}

	ids := make([]string, 0, len(byStudent))
	for id := range byStudent {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	features := make([]model.FeatureVector, len(ids))
	for i, id := range ids {
		h := byStudent[id]
		features[i] = model.FeatureVector{
			StudentID:        id,
			AverageScore:     stats.Mean(h.scores),
			ConsistencyStd:   stats.SampleStdDev(h.scores),
			ImprovementSlope: stats.Slope(h.times, h.scores),
		}
	}
	return features
}

// vector flattens a FeatureVector in the fixed feature order.
func vector(f model.FeatureVector) []float64 {
	return []float64{f.AverageScore, f.ConsistencyStd, f.ImprovementSlope}
}
