// Package model contains domain models passed between layers.
package model

import (
	"math"
	"time"
)

// RawTable is a header-driven table as read from an uploaded file.
// Cells are kept as strings; interpretation happens in the normalizer.
type RawTable struct {
	Columns []string
	Rows    [][]string
}

// ColumnIndex returns the position of a column, or -1 if absent.
func (t RawTable) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// HasColumn reports whether the table carries the named column.
func (t RawTable) HasColumn(name string) bool {
	return t.ColumnIndex(name) >= 0
}

// Cell returns the raw cell value for a row and column name.
// Missing columns and ragged rows yield the empty string.
func (t RawTable) Cell(row []string, name string) string {
	idx := t.ColumnIndex(name)
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// NormalizedRecord is one (student, period, subject) observation in the
// long format produced by the normalizer.
type NormalizedRecord struct {
	StudentID   string  `json:"student_id"`
	Institution string  `json:"institution"`
	Batch       string  `json:"batch"`
	Semester    int     `json:"semester"`
	Year        int     `json:"year"`
	Term        int     `json:"term"`
	TimeLabel   string  `json:"time_label"`
	TimeIndex   int     `json:"time_index"`
	Subject     string  `json:"subject"`
	Score       float64 `json:"score"`
}

// Snapshot is a fully materialized, immutable normalized dataset.
// Records must not be mutated after the snapshot is stored; the engine
// only ever consumes one snapshot per call.
type Snapshot struct {
	ID          string
	CreatedAt   time.Time
	Records     []NormalizedRecord
	SourceRows  int
	Fingerprint string
}

// StudentAverage is a student's mean score across subjects in one period.
type StudentAverage struct {
	StudentID    string  `json:"student_id"`
	TimeIndex    int     `json:"time_index"`
	TimeLabel    string  `json:"time_label"`
	AverageScore float64 `json:"average_score"`
}

// DeltaRecord extends StudentAverage with the period-over-period change.
// PrevScore, Delta and DeltaPercent are NaN for a student's first period,
// and DeltaPercent is NaN when the previous average is zero. They are
// never coerced to zero.
type DeltaRecord struct {
	StudentAverage

	PrevScore    float64
	Delta        float64
	DeltaPercent float64
}

// HasDelta reports whether the record has a defined delta, i.e. the
// period is not the student's first.
func (d DeltaRecord) HasDelta() bool {
	return !math.IsNaN(d.Delta)
}

// CohortTrend is the cohort-wide mean score for a subject in one period.
type CohortTrend struct {
	Subject       string  `json:"subject"`
	TimeIndex     int     `json:"time_index"`
	TimeLabel     string  `json:"time_label"`
	CohortAverage float64 `json:"cohort_average_score"`
}

// CorrelationMatrix is a symmetric subject-by-subject Pearson matrix.
// The diagonal is exactly 1.0. Entries for subject pairs with fewer than
// two complete observations are NaN.
type CorrelationMatrix struct {
	Subjects []string
	Values   [][]float64
}

// At returns the correlation between two subjects by name.
func (m CorrelationMatrix) At(a, b string) (float64, bool) {
	ai, bi := -1, -1
	for i, s := range m.Subjects {
		if s == a {
			ai = i
		}
		if s == b {
			bi = i
		}
	}
	if ai < 0 || bi < 0 {
		return 0, false
	}
	return m.Values[ai][bi], true
}

// FeatureVector holds the three clustering features for one student.
type FeatureVector struct {
	StudentID        string  `json:"student_id"`
	AverageScore     float64 `json:"average_score"`
	ConsistencyStd   float64 `json:"consistency_std"`
	ImprovementSlope float64 `json:"improvement_slope"`
}

// ForecastResult carries a one-period-ahead prediction for a student.
// HasPrediction is false when fewer than two historical periods exist;
// the zero prediction then must not be read as a forecast of zero.
type ForecastResult struct {
	StudentID      string  `json:"student_id"`
	PredictedScore float64 `json:"predicted_score"`
	HasPrediction  bool    `json:"has_prediction"`
	TimeIndex      int     `json:"time_index"`
	Confidence     float64 `json:"confidence"`
	Message        string  `json:"message,omitempty"`
}

// RiskLevel labels a failure-risk probability band.
type RiskLevel string

// Risk levels ordered by severity. LevelUnknown marks a student with no
// recorded history rather than a computed low risk.
const (
	LevelUnknown  RiskLevel = "UNKNOWN"
	LevelLow      RiskLevel = "LOW"
	LevelModerate RiskLevel = "MODERATE"
	LevelCritical RiskLevel = "CRITICAL"
)

// RiskAssessment is the heuristic failure-risk estimate for a student.
type RiskAssessment struct {
	StudentID   string    `json:"student_id"`
	Level       RiskLevel `json:"level"`
	Probability float64   `json:"probability"`
	Factors     []string  `json:"factors"`
	TimeIndex   int       `json:"time_index"`
}

// ClusterAssignment places a student in a behavioral profile cluster.
type ClusterAssignment struct {
	StudentID  string        `json:"student_id"`
	ClusterID  int           `json:"cluster_id"`
	Label      string        `json:"label"`
	Confidence float64       `json:"confidence"`
	Features   FeatureVector `json:"features"`
}

// ClusterProfile summarizes one fitted cluster for cohort views.
// The centroid is reported in original (un-standardized) feature units.
type ClusterProfile struct {
	ClusterID        int     `json:"cluster_id"`
	Label            string  `json:"label"`
	Size             int     `json:"size"`
	AverageScore     float64 `json:"average_score"`
	ConsistencyStd   float64 `json:"consistency_std"`
	ImprovementSlope float64 `json:"improvement_slope"`
}

// SubjectFactor is one subject's position in the 2-D latent space plus
// its difficulty profile.
type SubjectFactor struct {
	Subject      string  `json:"subject"`
	X            float64 `json:"x"`
	Y            float64 `json:"y"`
	Difficulty   float64 `json:"difficulty"`
	AverageScore float64 `json:"avg_score"`
	StudentCount int     `json:"student_count"`
}

// SubjectAnalysis is the full subject-relationship result. Sufficient is
// false when fewer than two subjects remain after imputation; that is an
// explicit insufficient-data value, not an error.
type SubjectAnalysis struct {
	Sufficient        bool            `json:"sufficient"`
	Message           string          `json:"message,omitempty"`
	Subjects          []SubjectFactor `json:"subjects,omitempty"`
	VarianceExplained []float64       `json:"variance_explained,omitempty"`
}
