package cluster

import (
	"context"
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/floats"

	"github.com/codecraftersknust/results-analytics-engine/internal/domain/model"
	"github.com/codecraftersknust/results-analytics-engine/internal/domain/stats"
)

// Default training configuration constants.
const (
	DefaultClusterCount = 4
	DefaultSeed         = 42

	defaultRestarts = 10
	defaultMaxIter  = 300
)

// Option applies a configuration option to the Trainer.
type Option func(*Trainer)

// WithClusterCount sets the number of clusters to fit.
func WithClusterCount(k int) Option {
	return func(t *Trainer) {
		if k > 0 {
			t.clusterCount = k
		}
	}
}

// WithSeed sets the random seed used for centroid initialization.
func WithSeed(seed int64) Option {
	return func(t *Trainer) {
		t.seed = seed
	}
}

// WithRestarts sets how many complete fits are tried; the run with the
// lowest inertia wins.
func WithRestarts(n int) Option {
	return func(t *Trainer) {
		if n > 0 {
			t.restarts = n
		}
	}
}

// Trainer fits a clustering model from feature vectors. Training is a
// pure function of its input: the same features and seed always yield
// the same fitted model.
type Trainer struct {
	clusterCount int
	seed         int64
	restarts     int
	maxIter      int
}

// NewTrainer creates a Trainer with configuration options.
func NewTrainer(opts ...Option) *Trainer {
	t := &Trainer{
		clusterCount: DefaultClusterCount,
		seed:         DefaultSeed,
		restarts:     defaultRestarts,
		maxIter:      defaultMaxIter,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Train standardizes the features, fits k-means with the configured
// seed, and returns an immutable fitted model safe for concurrent
// assignment lookups. Fewer feature vectors than clusters is an error.
func (t *Trainer) Train(ctx context.Context, features []model.FeatureVector) (*FittedModel, error) {
	if len(features) == 0 {
		return nil, ErrNoFeatures
	}
	if len(features) < t.clusterCount {
		return nil, fmt.Errorf("%w: %d students for %d clusters", ErrTooFewStudents, len(features), t.clusterCount)
	}

	rows := make([][]float64, len(features))
	for i, f := range features {
		rows[i] = vector(f)
	}
	sc := fitScaler(rows)
	scaled := make([][]float64, len(rows))
	for i, row := range rows {
		scaled[i] = sc.transform(row)
	}

	rng := rand.New(rand.NewSource(t.seed)) //nolint:gosec // deterministic seed for reproducible fits
	res := runKMeans(scaled, t.clusterCount, t.restarts, t.maxIter, rng)

	// Centers are kept in original feature units for interpretation and
	// labeling; assignment distance uses the standardized centroids.
	centers := make([][]float64, len(res.centroids))
	labels := make([]string, len(res.centroids))
	sizes := make([]int, len(res.centroids))
	for c, centroid := range res.centroids {
		centers[c] = sc.inverse(centroid)
		labels[c] = ProfileLabel(centers[c][0], centers[c][1], centers[c][2])
	}
	for _, l := range res.labels {
		sizes[l]++
	}

	return &FittedModel{
		scaler:    sc,
		centroids: res.centroids,
		centers:   centers,
		labels:    labels,
		sizes:     sizes,
	}, nil
}

// FittedModel holds fitted scaler parameters and centroids. It is
// immutable after training; concurrent Assign calls need no
// coordination. Retraining produces a new FittedModel rather than
// mutating an existing one.
type FittedModel struct {
	scaler    *scaler
	centroids [][]float64 // standardized space, used for assignment
	centers   [][]float64 // original units, used for labeling
	labels    []string
	sizes     []int
}

// Assign standardizes the student's feature vector with the fitted
// scaler, picks the nearest centroid, and labels it from the centroid's
// profile. Confidence is 1/(1+distance) in standardized space. The
// second return is false when the student is absent from features.
func (m *FittedModel) Assign(ctx context.Context, studentID string, features []model.FeatureVector) (model.ClusterAssignment, bool) {
	var fv model.FeatureVector
	found := false
	for _, f := range features {
		if f.StudentID == studentID {
			fv = f
			found = true
			break
		}
	}
	if !found {
		return model.ClusterAssignment{}, false
	}

	scaled := m.scaler.transform(vector(fv))
	clusterID := nearest(scaled, m.centroids)
	dist := floats.Distance(scaled, m.centroids[clusterID], 2)

	return model.ClusterAssignment{
		StudentID:  studentID,
		ClusterID:  clusterID,
		Label:      m.labels[clusterID],
		Confidence: stats.Round(1.0/(1.0+dist), 2),
		Features:   fv,
	}, true
}

// Profiles summarizes every fitted cluster with its label, training
// membership size and centroid in original feature units.
func (m *FittedModel) Profiles() []model.ClusterProfile {
	profiles := make([]model.ClusterProfile, len(m.centroids))
	for c := range m.centroids {
		profiles[c] = model.ClusterProfile{
			ClusterID:        c,
			Label:            m.labels[c],
			Size:             m.sizes[c],
			AverageScore:     stats.Round(m.centers[c][0], 2),
			ConsistencyStd:   stats.Round(m.centers[c][1], 2),
			ImprovementSlope: stats.Round(m.centers[c][2], 2),
		}
	}
	return profiles
}
