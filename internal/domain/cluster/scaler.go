package cluster

import "github.com/codecraftersknust/results-analytics-engine/internal/domain/stats"

// scaler standardizes feature columns to zero mean and unit variance so
// the score scale (0-100) cannot dominate the slope scale. It uses the
// population deviation, with zero-variance columns left unscaled.
type scaler struct {
	means []float64
	stds  []float64
}

// fitScaler computes column means and deviations over the feature rows.
func fitScaler(rows [][]float64) *scaler {
	if len(rows) == 0 {
		return &scaler{}
	}
	dim := len(rows[0])
	s := &scaler{
		means: make([]float64, dim),
		stds:  make([]float64, dim),
	}
	col := make([]float64, len(rows))
	for j := 0; j < dim; j++ {
		for i, row := range rows {
			col[i] = row[j]
		}
		s.means[j] = stats.Mean(col)
		sd := stats.PopStdDev(col)
		if sd == 0 {
			sd = 1
		}
		s.stds[j] = sd
	}
	return s
}

// transform standardizes one feature row.
func (s *scaler) transform(row []float64) []float64 {
	out := make([]float64, len(row))
	for j, v := range row {
		out[j] = (v - s.means[j]) / s.stds[j]
	}
	return out
}

// inverse maps a standardized row back to original feature units.
func (s *scaler) inverse(row []float64) []float64 {
	out := make([]float64, len(row))
	for j, v := range row {
		out[j] = v*s.stds[j] + s.means[j]
	}
	return out
}
