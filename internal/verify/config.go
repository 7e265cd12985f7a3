package verify

import "time"

// Config holds configuration for an end-to-end API verification run.
type Config struct {
	BaseURL      string        // Base URL of the service
	Students     int           // Number of synthetic students to generate
	Semesters    int           // Number of semesters per student
	Seed         int64         // RNG seed for the synthetic cohort
	Timeout      time.Duration // HTTP request timeout
	PollInterval time.Duration // Ingestion status poll interval
	PollTimeout  time.Duration // Maximum time to wait for ingestion
	OutputFile   string        // Output file for the generated CSV
	Verbose      bool          // Enable verbose logging
}

// Stats holds verification run statistics.
type Stats struct {
	RowsGenerated   int
	DatasetID       string
	NormalizedRows  int
	StudentsChecked int
	CohortChecks    int
	FailedChecks    int
	StartTime       time.Time
	EndTime         time.Time
	Duration        time.Duration
}

// datasetStatusResponse mirrors the upload and status payloads.
type datasetStatusResponse struct {
	DatasetID string `json:"dataset_id"`
	Status    string `json:"status"`
	Rows      int    `json:"rows"`
	Error     string `json:"error"`
}

// summaryResponse mirrors GET /api/v1/students/{id}/summary.
type summaryResponse struct {
	StudentID      string   `json:"student_id"`
	OverallAverage float64  `json:"overall_average"`
	TotalSemesters int      `json:"total_semesters"`
	Insights       []string `json:"insights"`
}

// forecastResponse mirrors GET /api/v1/students/{id}/forecast.
type forecastResponse struct {
	StudentID      string  `json:"student_id"`
	PredictedScore float64 `json:"predicted_score"`
	HasPrediction  bool    `json:"has_prediction"`
	Confidence     float64 `json:"confidence"`
	Message        string  `json:"message"`
}

// riskResponse mirrors GET /api/v1/students/{id}/risk.
type riskResponse struct {
	StudentID   string   `json:"student_id"`
	Level       string   `json:"level"`
	Probability float64  `json:"probability"`
	Factors     []string `json:"factors"`
}

// clusterResponse mirrors GET /api/v1/students/{id}/cluster.
type clusterResponse struct {
	StudentID  string  `json:"student_id"`
	ClusterID  int     `json:"cluster_id"`
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// trendResponse mirrors one element of GET /api/v1/cohort/trends.
type trendResponse struct {
	Subject       string  `json:"subject"`
	TimeIndex     int     `json:"time_index"`
	TimeLabel     string  `json:"time_label"`
	CohortAverage float64 `json:"cohort_average_score"`
}

// correlationResponse mirrors GET /api/v1/cohort/correlations.
type correlationResponse struct {
	Insights []string `json:"insights"`
	Heatmap  []struct {
		X     string  `json:"x"`
		Y     string  `json:"y"`
		Value float64 `json:"value"`
	} `json:"heatmap_data"`
}

// profileResponse mirrors one element of GET /api/v1/cohort/clusters.
type profileResponse struct {
	ClusterID    int     `json:"cluster_id"`
	Label        string  `json:"label"`
	Size         int     `json:"size"`
	AverageScore float64 `json:"average_score"`
}
