package model

import "time"

// IngestState tracks an uploaded dataset through asynchronous ingestion.
type IngestState string

// Ingest states.
const (
	IngestPending   IngestState = "pending"
	IngestCompleted IngestState = "completed"
	IngestFailed    IngestState = "failed"
)

// IngestJob is the unit of work flowing through the ingestion queue:
// a raw table waiting to be normalized into a snapshot.
type IngestJob struct {
	JobID       string
	DatasetID   string
	Raw         RawTable
	Fingerprint string
	Submitted   time.Time
}

// DatasetStatus is the externally visible state of one uploaded dataset.
type DatasetStatus struct {
	DatasetID string      `json:"dataset_id"`
	State     IngestState `json:"status"`
	Rows      int         `json:"rows,omitempty"`
	Error     string      `json:"error,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}

// StudentSummary is the per-student overview served by the API: overall
// average, observed period count, history and rendered insights.
type StudentSummary struct {
	StudentID      string           `json:"student_id"`
	OverallAverage float64          `json:"overall_average"`
	TotalSemesters int              `json:"total_semesters"`
	Insights       []string         `json:"insights"`
	History        []StudentAverage `json:"history"`
}

// HeatmapCell is one flattened correlation-matrix entry for rendering.
type HeatmapCell struct {
	X     string  `json:"x"`
	Y     string  `json:"y"`
	Value float64 `json:"value"`
}

// CorrelationReport bundles rendered correlation insights with the full
// matrix flattened for heatmap display.
type CorrelationReport struct {
	Insights []string      `json:"insights"`
	Heatmap  []HeatmapCell `json:"heatmap_data"`
}
