// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load(ctx) layers file and environment on top of the defaults.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"runtime"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// QueueSize bounds the in-memory ingestion queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of ingestion workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets the size of the upload fingerprint cache.
	DedupeSize int `koanf:"dedupe_size"`

	// MaxDatasets caps the number of retained dataset snapshots.
	MaxDatasets int `koanf:"max_datasets"`

	// SemestersPerYear controls the academic calendar used when deriving
	// year and term from a flat semester index.
	SemestersPerYear int `koanf:"semesters_per_year"`

	// SubjectColumns lists the wide-format score columns to normalize.
	SubjectColumns []string `koanf:"subject_columns"`

	// ClusterCount sets k for student clustering.
	ClusterCount int `koanf:"cluster_count"`

	// ClusterSeed fixes the clustering RNG for reproducible assignments.
	ClusterSeed int64 `koanf:"cluster_seed"`

	// MaxUploadBytes caps the size of a POST /datasets body.
	MaxUploadBytes int64 `koanf:"max_upload_bytes"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:         "info",
		Addr:             ":9080",
		QueueSize:        64,
		WorkerCount:      runtime.NumCPU(),
		DedupeSize:       1024,
		MaxDatasets:      16,
		SemestersPerYear: 2,
		SubjectColumns: []string{
			"Subject_1", "Subject_2", "Subject_3",
			"Subject_4", "Subject_5", "Subject_6",
		},
		ClusterCount:   4,
		ClusterSeed:    42,
		MaxUploadBytes: 16 << 20,
	}
}
