package loadcheck

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/okian/jobaccept/internal/domain/kpi"
	"github.com/okian/jobaccept/internal/domain/types"
	"github.com/okian/jobaccept/pkg/logger"
)

// Run executes the complete load check.
func Run(ctx context.Context, config *Config) (*Stats, error) {
	if config.NumCandidates < 1 || config.Workers < 1 {
		return nil, errors.New("candidates and workers must be positive")
	}
	stats := &Stats{
		StartTime: time.Now(),
	}
	log := logger.Get()

	log.Info(ctx, "starting job acceptance load check",
		logger.String("baseURL", config.BaseURL),
		logger.Int("candidates", config.NumCandidates),
		logger.Int("workers", config.Workers),
		logger.String("timeout", config.Timeout.String()),
		logger.String("logFile", config.LogFile),
		logger.Bool("verbose", config.Verbose))

	client := newHTTPClient(config.BaseURL, config.Timeout)

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, client); err != nil {
		return stats, fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Fetch the published label set
	var schema types.Schema
	if status, err := client.getJSON(ctx, "/schema", &schema); err != nil || status != http.StatusOK {
		return stats, fmt.Errorf("schema retrieval failed (status %d): %w", status, errors.Join(ErrServiceUnavailable, err))
	}

	// Step 3: Generate candidates
	candidates, err := generateCandidates(ctx, config, stats)
	if err != nil {
		return stats, fmt.Errorf("candidate generation failed: %w", err)
	}

	// Step 4: Submit candidates concurrently
	outcomes := submitCandidates(ctx, config, client, candidates)

	// Step 5: Verify responses
	verifyErr := verifyOutcomes(ctx, outcomes, schema.Labels, stats)

	// Step 6: Resubmit a sample and compare
	sample := candidates[:min(DeterminismSample, len(candidates))]
	again := submitCandidates(ctx, config, client, sample)
	stats.Resubmitted = len(again)
	if err := verifyDeterminism(ctx, outcomes, again); err != nil {
		verifyErr = errors.Join(verifyErr, err)
	}

	// Step 7: Fetch KPIs
	fetchKPIs(ctx, client)

	// Step 8: Save candidates to file
	if err := saveCandidatesToFile(ctx, config, candidates); err != nil {
		log.Warn(ctx, "failed to save candidates to file", logger.Error(err))
	}

	// Final statistics
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(stats)

	if verifyErr != nil {
		return stats, fmt.Errorf("result verification failed: %w", verifyErr)
	}
	log.Info(ctx, "load check completed successfully")
	return stats, nil
}

// checkServiceHealth verifies the service is running with artifacts loaded.
// A missing dataset only disables KPIs and is tolerated.
func checkServiceHealth(ctx context.Context, client *HTTPClient) error {
	logger.Get().Info(ctx, "checking service health")

	resp, err := client.Get(ctx, "/healthz")
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	body, err := readResponseBody(resp)
	if err != nil {
		return fmt.Errorf("failed to read health: %w", err)
	}

	var health types.Health
	if err := json.Unmarshal(body, &health); err != nil {
		return fmt.Errorf("unexpected health response (status %d): %w", resp.StatusCode, err)
	}
	if !health.ArtifactsLoaded {
		return fmt.Errorf("%w: artifacts not loaded: %s", ErrServiceUnavailable, health.ArtifactsError)
	}
	if !health.DatasetLoaded {
		logger.Get().Warn(ctx, "dataset not loaded, KPIs unavailable", logger.String("error", health.DatasetError))
	}

	logger.Get().Info(ctx, "service is healthy", logger.String("status", health.Status))
	return nil
}

// fetchKPIs logs the KPI summary or why it is unavailable.
func fetchKPIs(ctx context.Context, client *HTTPClient) {
	var summary kpi.Summary
	status, err := client.getJSON(ctx, "/kpis", &summary)
	if err != nil || status != http.StatusOK {
		logger.Get().Warn(ctx, "KPIs unavailable", logger.Int("status", status), logger.Error(err))
		return
	}
	logger.Get().Info(ctx, "KPI summary",
		logger.Int("totalCandidates", summary.TotalCandidates),
		logger.Float64("placementRate", summary.PlacementRate),
		logger.Float64("notPlacedRate", summary.NotPlacedRate),
		logger.Float64("avgInterviewScore", summary.AvgInterviewScore),
		logger.Float64("avgSkillsMatch", summary.AvgSkillsMatch),
		logger.Float64("highRiskPercentage", summary.HighRiskPercentage))
}

// saveCandidatesToFile saves the generated candidates to a JSON file.
func saveCandidatesToFile(ctx context.Context, config *Config, candidates []Candidate) error {
	if len(candidates) == 0 {
		return fmt.Errorf("no candidates to save")
	}

	// Determine output filename
	filename := config.OutputFile
	if filename == "" {
		timestamp := time.Now().Format("20060102_150405")
		filename = "generated_candidates_" + timestamp + ".json"
	}

	// Ensure the directory exists
	dir := filepath.Dir(filename)
	if dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close file", logger.Error(err))
		}
	}()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(candidates); err != nil {
		return fmt.Errorf("failed to write candidates: %w", err)
	}

	logger.Get().Info(ctx, "candidates saved to file", logger.String("filename", filename))
	return nil
}

// displayFinalStats prints the final check statistics.
func displayFinalStats(stats *Stats) {
	var successRate, predictionsPerSecond float64

	if stats.Submitted > 0 {
		successRate = float64(stats.Successful) / float64(stats.Submitted) * PercentageMultiplier
	}

	if stats.Duration > 0 {
		predictionsPerSecond = float64(stats.Submitted+stats.Resubmitted) / stats.Duration.Seconds()
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("candidatesGenerated", stats.CandidatesGenerated),
		logger.Int("submitted", stats.Submitted),
		logger.Int("successful", stats.Successful),
		logger.Int("failed", stats.Failed),
		logger.Int("resubmitted", stats.Resubmitted),
		logger.Any("labels", stats.Labels),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("successRate", successRate),
		logger.Float64("predictionsPerSecond", predictionsPerSecond))
}
