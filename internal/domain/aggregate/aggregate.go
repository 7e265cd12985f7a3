// Package aggregate computes the grouped aggregates over a normalized
// dataset: per-student averages, cohort trends, period-over-period
// deltas and the subject correlation matrix. All functions are pure over
// their input slice.
package aggregate

import (
	"math"
	"sort"

	"github.com/codecraftersknust/results-analytics-engine/internal/domain/model"
	"github.com/codecraftersknust/results-analytics-engine/internal/domain/stats"
)

// minCorrelationObs is the smallest number of paired observations for
// which a Pearson coefficient is defined.
const minCorrelationObs = 2

// StudentAverages groups the dataset by (student, period) and returns
// one mean score per observed pair, ordered by student id then time.
func StudentAverages(records []model.NormalizedRecord) []model.StudentAverage {
	type key struct {
		student   string
		timeIndex int
	}
	sums := make(map[key]float64)
	counts := make(map[key]int)
	labels := make(map[key]string)
	for _, r := range records {
		k := key{r.StudentID, r.TimeIndex}
		sums[k] += r.Score
		counts[k]++
		labels[k] = r.TimeLabel
	}

	out := make([]model.StudentAverage, 0, len(sums))
	for k, sum := range sums {
		out = append(out, model.StudentAverage{
			StudentID:    k.student,
			TimeIndex:    k.timeIndex,
			TimeLabel:    labels[k],
			AverageScore: sum / float64(counts[k]),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StudentID != out[j].StudentID {
			return out[i].StudentID < out[j].StudentID
		}
		return out[i].TimeIndex < out[j].TimeIndex
	})
	return out
}

// CohortTrends groups the dataset by (subject, period) and returns the
// cohort-wide mean score per pair, ordered by subject then time.
func CohortTrends(records []model.NormalizedRecord) []model.CohortTrend {
	type key struct {
		subject   string
		timeIndex int
	}
	sums := make(map[key]float64)
	counts := make(map[key]int)
	labels := make(map[key]string)
	for _, r := range records {
		k := key{r.Subject, r.TimeIndex}
		sums[k] += r.Score
		counts[k]++
		labels[k] = r.TimeLabel
	}

	out := make([]model.CohortTrend, 0, len(sums))
	for k, sum := range sums {
		out = append(out, model.CohortTrend{
			Subject:       k.subject,
			TimeIndex:     k.timeIndex,
			TimeLabel:     labels[k],
			CohortAverage: sum / float64(counts[k]),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Subject != out[j].Subject {
			return out[i].Subject < out[j].Subject
		}
		return out[i].TimeIndex < out[j].TimeIndex
	})
	return out
}

// PerformanceDeltas computes the change from the previous period for
// each student, in chronological order. The first period per student has
// NaN previous score, delta and delta percent; the percent is also NaN
// when the previous average is zero.
func PerformanceDeltas(averages []model.StudentAverage) []model.DeltaRecord {
	sorted := append([]model.StudentAverage(nil), averages...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].StudentID != sorted[j].StudentID {
			return sorted[i].StudentID < sorted[j].StudentID
		}
		return sorted[i].TimeIndex < sorted[j].TimeIndex
	})

	out := make([]model.DeltaRecord, len(sorted))
	for i, avg := range sorted {
		rec := model.DeltaRecord{
			StudentAverage: avg,
			PrevScore:      math.NaN(),
			Delta:          math.NaN(),
			DeltaPercent:   math.NaN(),
		}
		if i > 0 && sorted[i-1].StudentID == avg.StudentID {
			prev := sorted[i-1].AverageScore
			rec.PrevScore = prev
			rec.Delta = avg.AverageScore - prev
			if prev != 0 {
				rec.DeltaPercent = rec.Delta / prev * 100
			}
		}
		out[i] = rec
	}
	return out
}

// SubjectCorrelations builds the subject-by-subject Pearson matrix from
// per-student mean scores. Each pair uses pairwise-complete observations:
// a student missing either subject is excluded from that pair only. The
// diagonal is exactly 1.0; pairs with fewer than two complete
// observations are NaN.
func SubjectCorrelations(records []model.NormalizedRecord) model.CorrelationMatrix {
	// Per-student mean score per subject.
	type key struct {
		student string
		subject string
	}
	sums := make(map[key]float64)
	counts := make(map[key]int)
	studentSet := make(map[string]struct{})
	subjectSet := make(map[string]struct{})
	for _, r := range records {
		k := key{r.StudentID, r.Subject}
		sums[k] += r.Score
		counts[k]++
		studentSet[r.StudentID] = struct{}{}
		subjectSet[r.Subject] = struct{}{}
	}

	students := make([]string, 0, len(studentSet))
	for s := range studentSet {
		students = append(students, s)
	}
	sort.Strings(students)
	subjects := make([]string, 0, len(subjectSet))
	for s := range subjectSet {
		subjects = append(subjects, s)
	}
	sort.Strings(subjects)

	mean := func(student, subject string) (float64, bool) {
		k := key{student, subject}
		n := counts[k]
		if n == 0 {
			return 0, false
		}
		return sums[k] / float64(n), true
	}

	values := make([][]float64, len(subjects))
	for i := range values {
		values[i] = make([]float64, len(subjects))
	}
	for i, a := range subjects {
		values[i][i] = 1.0
		for j := i + 1; j < len(subjects); j++ {
			b := subjects[j]
			var xs, ys []float64
			for _, s := range students {
				va, oka := mean(s, a)
				vb, okb := mean(s, b)
				if oka && okb {
					xs = append(xs, va)
					ys = append(ys, vb)
				}
			}
			r := math.NaN()
			if len(xs) >= minCorrelationObs {
				r = stats.Pearson(xs, ys)
			}
			values[i][j] = r
			values[j][i] = r
		}
	}
	return model.CorrelationMatrix{Subjects: subjects, Values: values}
}
