package cluster

import "errors"

// Sentinel kinds for clustering errors.
var (
	ErrNoFeatures     = errors.New("no feature vectors to train on")
	ErrTooFewStudents = errors.New("fewer students than clusters")
)
