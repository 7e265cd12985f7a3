package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/codecraftersknust/results-analytics-engine/internal/verify"
)

// Default configuration constants.
const (
	defaultStudents    = 40
	defaultSemesters   = 6
	defaultSeed        = 42
	defaultTimeout     = 30 * time.Second
	defaultPollEvery   = 200 * time.Millisecond
	defaultPollTimeout = 30 * time.Second
	defaultRunTimeout  = 5 * time.Minute
)

func main() {
	var (
		baseURL    = flag.String("url", "http://localhost:9080", "Base URL of the service")
		students   = flag.Int("students", defaultStudents, "Number of synthetic students to generate")
		semesters  = flag.Int("semesters", defaultSemesters, "Number of semesters per student")
		seed       = flag.Int64("seed", defaultSeed, "RNG seed for the synthetic cohort")
		timeout    = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		outputFile = flag.String("output", "", "Optional file to save the generated CSV")
		verbose    = flag.Bool("verbose", false, "Enable verbose logging")
		help       = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		verify.ShowHelp()
		return
	}

	if err := verify.SetupLogging(*verbose); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	config := &verify.Config{
		BaseURL:      *baseURL,
		Students:     *students,
		Semesters:    *semesters,
		Seed:         *seed,
		Timeout:      *timeout,
		PollInterval: defaultPollEvery,
		PollTimeout:  defaultPollTimeout,
		OutputFile:   *outputFile,
		Verbose:      *verbose,
	}

	if err := verify.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Verification failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
