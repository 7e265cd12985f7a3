package service

import (
	"errors"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrBadUpload      = errors.New("bad upload")
	ErrInvalidSchema  = errors.New("unrecognized dataset schema")
	ErrQueueFull      = errors.New("ingestion queue full")
	ErrUnknownStudent = errors.New("unknown student")
	ErrUnknownDataset = errors.New("unknown dataset")
	ErrNotStarted     = errors.New("service not started")
)
