// Package stats provides the scalar statistics shared by the analytics
// components: means, deviations, ordinary least squares and Pearson
// correlation. It wraps gonum where gonum provides the primitive.
package stats

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Mean returns the arithmetic mean, or 0 for an empty slice.
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	return stat.Mean(xs, nil)
}

// SampleStdDev returns the sample (n-1) standard deviation, or 0 when
// fewer than two observations exist.
func SampleStdDev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	return stat.StdDev(xs, nil)
}

// PopStdDev returns the population (n) standard deviation, or 0 for an
// empty slice.
func PopStdDev(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	return stat.PopStdDev(xs, nil)
}

// OLS fits y = alpha + beta*x by ordinary least squares.
func OLS(xs, ys []float64) (alpha, beta float64) {
	return stat.LinearRegression(xs, ys, nil, false)
}

// Slope returns the OLS slope of ys over xs, or 0 when fewer than two
// points exist or the fit degenerates (e.g. all xs equal).
func Slope(xs, ys []float64) float64 {
	if len(xs) < 2 || len(xs) != len(ys) {
		return 0
	}
	_, beta := stat.LinearRegression(xs, ys, nil, false)
	if math.IsNaN(beta) || math.IsInf(beta, 0) {
		return 0
	}
	return beta
}

// RSquared returns the coefficient of determination of the fitted line.
func RSquared(xs, ys []float64, alpha, beta float64) float64 {
	return stat.RSquared(xs, ys, nil, alpha, beta)
}

// Pearson returns the Pearson correlation of two equal-length samples.
// The result is NaN when either sample has zero variance, matching the
// pairwise-complete correlation convention.
func Pearson(xs, ys []float64) float64 {
	return stat.Correlation(xs, ys, nil)
}

// Round rounds to the given number of decimal places.
func Round(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
