package loadcheck

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/okian/jobaccept/pkg/logger"
)

// SetupLogging configures logging to both console and file.
// If logFile is empty, a timestamped filename is generated.
func SetupLogging(logFile string, verbose bool) (string, error) {
	if logFile == "" {
		timestamp := time.Now().Format("20060102_150405")
		logFile = "loadcheck_" + timestamp + ".log"
	}

	if err := logger.Init(logger.WithFile(logFile)); err != nil {
		return "", fmt.Errorf("failed to initialize logger: %w", err)
	}
	if verbose {
		_ = logger.SetLevelString("debug")
	}
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return logFile, nil
}

// ShowHelp prints usage information for the load check tool.
func ShowHelp() {
	os.Stdout.WriteString(`Job Acceptance Load Check
=========================

A concurrent tool that submits random candidates to the prediction API and
verifies the responses.

Usage:
  go run ./cmd/loadcheck [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -candidates int
        Number of candidates to generate and submit (default 1000)
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -timeout duration
        HTTP request timeout (default 30s)
  -output string
        Output file for generated candidates (default: generated_candidates_TIMESTAMP.json)
  -log string
        Log file for check output (default: loadcheck_TIMESTAMP.log)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Checks:
  - every prediction answers 200
  - confidence is within [0, 100]
  - every label belongs to the label set published by /schema
  - re-submitted candidates get identical label and confidence
  - /kpis answers (an unavailable dataset is reported, not fatal)

Examples:
  # Check with default settings
  go run ./cmd/loadcheck

  # Check with custom parameters
  go run ./cmd/loadcheck -candidates 5000 -workers 16 -url http://localhost:8080
`)
}
