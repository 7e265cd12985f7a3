package repository

import "errors"

// Sentinel kinds for snapshot store errors.
var (
	ErrNotFound        = errors.New("dataset not found")
	ErrNoActiveDataset = errors.New("no active dataset")
	ErrEmptyID         = errors.New("snapshot id must not be empty")
)
