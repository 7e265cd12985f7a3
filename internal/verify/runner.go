package verify

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/codecraftersknust/results-analytics-engine/pkg/logger"
)

// File permission constants.
const (
	outputFilePermission = 0600
)

// Run executes the complete verification flow: generate a synthetic
// cohort, upload it, wait for ingestion and exercise every analytics
// endpoint against it.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting API verification",
		logger.String("baseURL", config.BaseURL),
		logger.Int("students", config.Students),
		logger.Int("semesters", config.Semesters),
		logger.Int("seed", int(config.Seed)),
	)

	client := newHTTPClient(config.BaseURL, config.Timeout)

	// Step 1: Check service health
	if err := client.checkServiceHealth(ctx); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Generate the cohort
	csvContent, studentIDs := generateCohortCSV(ctx, config, stats)
	if config.OutputFile != "" {
		if err := os.WriteFile(config.OutputFile, []byte(csvContent), outputFilePermission); err != nil {
			logger.Get().Warn(ctx, "failed to save generated CSV", logger.Error(err))
		}
	}

	// Step 3: Upload and wait for ingestion
	status, err := client.uploadCSV(ctx, csvContent)
	if err != nil {
		return fmt.Errorf("dataset upload failed: %w", err)
	}
	stats.DatasetID = status.DatasetID

	status, err = client.waitForIngestion(ctx, config, status.DatasetID)
	if err != nil {
		return fmt.Errorf("ingestion wait failed: %w", err)
	}
	stats.NormalizedRows = status.Rows
	logger.Get().Info(ctx, "dataset ingested",
		logger.String("datasetID", status.DatasetID),
		logger.Int("normalizedRows", status.Rows),
	)

	// Step 4: Per-student endpoints
	if err := verifyStudents(ctx, client, config, studentIDs, stats); err != nil {
		return fmt.Errorf("student verification failed: %w", err)
	}

	// Step 5: Cohort endpoints
	if err := verifyCohort(ctx, client, config, stats); err != nil {
		return fmt.Errorf("cohort verification failed: %w", err)
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	logger.Get().Info(ctx, "verification completed",
		logger.Int("rowsGenerated", stats.RowsGenerated),
		logger.Int("normalizedRows", stats.NormalizedRows),
		logger.Int("studentsChecked", stats.StudentsChecked),
		logger.Int("cohortChecks", stats.CohortChecks),
		logger.Int("failedChecks", stats.FailedChecks),
		logger.String("duration", stats.Duration.String()),
	)

	if stats.FailedChecks > 0 {
		return fmt.Errorf("%d verification checks failed", stats.FailedChecks)
	}
	return nil
}
