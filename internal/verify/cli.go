package verify

import (
	"fmt"
	"os"

	"github.com/codecraftersknust/results-analytics-engine/pkg/logger"
)

// SetupLogging initializes the structured logger for the CLI.
func SetupLogging(verbose bool) error {
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if verbose {
		_ = logger.SetLevelString("debug")
	}
	return nil
}

// ShowHelp prints usage information for the verification tool.
func ShowHelp() {
	os.Stdout.WriteString(`Results Analytics API Verifier
==============================

Generates a synthetic cohort, uploads it to a running analytics service
and exercises every student and cohort endpoint against it.

Usage:
  go run cmd/verify-api/main.go [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -students int
        Number of synthetic students to generate (default 40)
  -semesters int
        Number of semesters per student (default 6)
  -seed int
        RNG seed for the synthetic cohort (default 42)
  -timeout duration
        HTTP request timeout (default 30s)
  -output string
        Optional file to save the generated CSV
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Verify a locally running service
  go run cmd/verify-api/main.go

  # Larger cohort against a remote service
  go run cmd/verify-api/main.go -url http://analytics:9080 -students 200

  # Keep the generated CSV for inspection
  go run cmd/verify-api/main.go -output cohort.csv
`)
}
