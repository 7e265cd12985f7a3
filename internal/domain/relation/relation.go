// Package relation computes per-subject difficulty and a 2-D latent
// factor projection of subjects from the student performance correlation
// structure. Subjects close together in the projection tend to have
// students who perform similarly in both.
package relation

import (
	"context"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/codecraftersknust/results-analytics-engine/internal/domain/model"
	statshelp "github.com/codecraftersknust/results-analytics-engine/internal/domain/stats"
)

// Projection configuration constants.
const (
	latentDimensions = 2
	maxScore         = 100.0

	insufficientMessage = "Not enough subjects for relationship analysis"
)

// Analyzer projects the subjects of one dataset snapshot.
type Analyzer struct {
	records []model.NormalizedRecord
}

// NewAnalyzer creates an Analyzer over a normalized dataset.
func NewAnalyzer(records []model.NormalizedRecord) *Analyzer {
	return &Analyzer{records: records}
}

// subjectStat aggregates all observations for one subject.
type subjectStat struct {
	sum   float64
	count int
}

// Analyze returns the subject relationship analysis: difficulty and
// observation counts from the raw observations, and 2-D latent
// coordinates from a PCA over the standardized student-by-subject mean
// matrix. Missing matrix entries are imputed with the subject's mean so
// a student who never took a subject is treated as average in it. Fewer
// than two subjects yields an explicit insufficient-data result.
func (a *Analyzer) Analyze(ctx context.Context) model.SubjectAnalysis {
	// Difficulty stats over every observation.
	obs := make(map[string]*subjectStat)
	// Per-student mean per subject for the projection matrix.
	type cellKey struct {
		student string
		subject string
	}
	cellSums := make(map[cellKey]float64)
	cellCounts := make(map[cellKey]int)
	studentSet := make(map[string]struct{})

	for _, r := range a.records {
		st, ok := obs[r.Subject]
		if !ok {
			st = &subjectStat{}
			obs[r.Subject] = st
		}
		st.sum += r.Score
		st.count++
		k := cellKey{r.StudentID, r.Subject}
		cellSums[k] += r.Score
		cellCounts[k]++
		studentSet[r.StudentID] = struct{}{}
	}

	subjects := make([]string, 0, len(obs))
	for s := range obs {
		subjects = append(subjects, s)
	}
	sort.Strings(subjects)
	students := make([]string, 0, len(studentSet))
	for s := range studentSet {
		students = append(students, s)
	}
	sort.Strings(students)

	if len(subjects) < latentDimensions {
		return model.SubjectAnalysis{Sufficient: false, Message: insufficientMessage}
	}

	// Student-by-subject mean matrix with NaN for missing cells.
	n := len(students)
	cols := make([][]float64, len(subjects))
	for j := range subjects {
		cols[j] = make([]float64, n)
		for i, student := range students {
			k := cellKey{student, subjects[j]}
			if c := cellCounts[k]; c > 0 {
				cols[j][i] = cellSums[k] / float64(c)
			} else {
				cols[j][i] = math.NaN()
			}
		}
	}

	// Impute missing entries with the subject's pre-imputation column
	// mean, then standardize each subject column across students.
	kept := subjects[:0:0]
	keptCols := cols[:0:0]
	for j, col := range cols {
		var sum float64
		var cnt int
		for _, v := range col {
			if !math.IsNaN(v) {
				sum += v
				cnt++
			}
		}
		if cnt == 0 {
			continue // subject entirely missing: drop the column
		}
		m := sum / float64(cnt)
		for i, v := range col {
			if math.IsNaN(v) {
				col[i] = m
			}
		}
		sd := statshelp.PopStdDev(col)
		if sd == 0 {
			sd = 1
		}
		cm := statshelp.Mean(col)
		for i := range col {
			col[i] = (col[i] - cm) / sd
		}
		kept = append(kept, subjects[j])
		keptCols = append(keptCols, col)
	}
	if len(kept) < latentDimensions {
		return model.SubjectAnalysis{Sufficient: false, Message: insufficientMessage}
	}

	coords, ratios := project(keptCols, n)

	factors := make([]model.SubjectFactor, len(kept))
	for j, subject := range kept {
		st := obs[subject]
		avg := st.sum / float64(st.count)
		factors[j] = model.SubjectFactor{
			Subject:      subject,
			X:            statshelp.Round(coords[j][0], 2),
			Y:            statshelp.Round(coords[j][1], 2),
			Difficulty:   statshelp.Round(maxScore-avg, 1),
			AverageScore: statshelp.Round(avg, 1),
			StudentCount: st.count,
		}
	}
	return model.SubjectAnalysis{
		Sufficient:        true,
		Subjects:          factors,
		VarianceExplained: ratios,
	}
}

// project transposes the standardized subject columns so each subject is
// one observation in student-dimensional space and projects onto the
// first two principal components. It returns one (x, y) pair per subject
// and the proportion of variance explained by each component, rounded to
// two decimals.
func project(subjectCols [][]float64, studentDim int) ([][2]float64, []float64) {
	nSubjects := len(subjectCols)
	x := mat.NewDense(nSubjects, studentDim, nil)
	for j, col := range subjectCols {
		for i, v := range col {
			x.Set(j, i, v)
		}
	}

	coords := make([][2]float64, nSubjects)
	ratios := []float64{0, 0}

	var pc stat.PC
	if ok := pc.PrincipalComponents(x, nil); !ok {
		return coords, ratios
	}
	var vec mat.Dense
	pc.VectorsTo(&vec)
	vars := pc.VarsTo(nil)

	k := latentDimensions
	if studentDim < k {
		k = studentDim
	}

	// Center columns before projecting; the principal directions are
	// defined for the centered data.
	centered := mat.DenseCopyOf(x)
	for c := 0; c < studentDim; c++ {
		colMean := stat.Mean(mat.Col(nil, c, x), nil)
		for r := 0; r < nSubjects; r++ {
			centered.Set(r, c, x.At(r, c)-colMean)
		}
	}
	var proj mat.Dense
	proj.Mul(centered, vec.Slice(0, studentDim, 0, k))

	for j := 0; j < nSubjects; j++ {
		coords[j][0] = proj.At(j, 0)
		if k > 1 {
			coords[j][1] = proj.At(j, 1)
		}
	}

	total := floats.Sum(vars)
	if total > 0 {
		for i := 0; i < k && i < len(vars); i++ {
			ratios[i] = statshelp.Round(vars[i]/total, 2)
		}
	}
	return coords, ratios
}
