package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/okian/jobaccept/internal/loadcheck"
)

// Default configuration constants.
const (
	defaultNumCandidates = 1000
	defaultWorkers       = 2 // multiplier for runtime.NumCPU()
	defaultTimeout       = 30 * time.Second
	defaultCheckTimeout  = 10 * time.Minute
)

func main() {
	var (
		baseURL       = flag.String("url", "http://localhost:9080", "Base URL of the service")
		numCandidates = flag.Int("candidates", defaultNumCandidates, "Number of candidates to generate and submit")
		workers       = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout       = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		outputFile    = flag.String("output", "", "Output file for generated candidates (default: generated_candidates_TIMESTAMP.json)")
		logFile       = flag.String("log", "", "Log file for check output (default: loadcheck_TIMESTAMP.log)")
		verbose       = flag.Bool("verbose", false, "Enable verbose logging")
		help          = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		loadcheck.ShowHelp()
		return
	}

	// Setup logging
	logPath, err := loadcheck.SetupLogging(*logFile, *verbose)
	if err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultCheckTimeout)
	defer cancel()

	config := &loadcheck.Config{
		BaseURL:       *baseURL,
		NumCandidates: *numCandidates,
		Workers:       *workers,
		Timeout:       *timeout,
		OutputFile:    *outputFile,
		LogFile:       logPath,
		Verbose:       *verbose,
	}

	if _, err := loadcheck.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Load check failed: " + err.Error() + "\n")
		cancel()
		os.Exit(1)
	}
}
