package metrics

import (
	"errors"
)

// Sentinel kinds for metrics errors.
var (
	ErrNilRegistry = errors.New("metrics registry is nil")
)
