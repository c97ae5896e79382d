// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/okian/jobaccept/internal/adapters/artifacts"
	"github.com/okian/jobaccept/internal/adapters/cache"
	"github.com/okian/jobaccept/internal/adapters/dataset"
	"github.com/okian/jobaccept/internal/domain/candidate"
	"github.com/okian/jobaccept/internal/domain/kpi"
	"github.com/okian/jobaccept/internal/domain/prediction"
	"github.com/okian/jobaccept/internal/domain/types"
	"github.com/okian/jobaccept/pkg/logger"
	"github.com/okian/jobaccept/pkg/metrics"
)

// Service loads the dataset and trained artifacts once and serves KPIs and
// predictions from them.
type Service struct {
	mu sync.RWMutex

	// Configuration
	datasetPath      string
	datasetTable     string
	source           artifacts.Source
	names            artifacts.Names
	requireArtifacts bool
	cacheSize        int

	// Loaded state, read-only after Start
	summary      *kpi.Summary
	breakdown    *kpi.Breakdown
	datasetRows  int
	datasetErr   error
	pipeline     *prediction.Pipeline
	artifactsErr error
	cache        *cache.PredictionCache

	// State
	started     bool
	startedAt   time.Time
	predictions atomic.Int64

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithDatasetPath sets the historical dataset file (.csv, .db, .sqlite).
func WithDatasetPath(path string) Option {
	return func(s *Service) {
		s.datasetPath = path
	}
}

// WithDatasetTable sets the table read from a SQLite dataset.
func WithDatasetTable(table string) Option {
	return func(s *Service) {
		if table != "" {
			s.datasetTable = table
		}
	}
}

// WithArtifactSource sets where trained artifacts are read from.
func WithArtifactSource(src artifacts.Source) Option {
	return func(s *Service) {
		if src != nil {
			s.source = src
		}
	}
}

// WithArtifactNames overrides the artifact object names.
func WithArtifactNames(names artifacts.Names) Option {
	return func(s *Service) {
		defaults := artifacts.DefaultNames()
		if names.Model == "" {
			names.Model = defaults.Model
		}
		if names.TargetEncoder == "" {
			names.TargetEncoder = defaults.TargetEncoder
		}
		if names.FeatureEncoders == "" {
			names.FeatureEncoders = defaults.FeatureEncoders
		}
		if names.Scaler == "" {
			names.Scaler = defaults.Scaler
		}
		s.names = names
	}
}

// WithRequireArtifacts makes Start fail when artifacts cannot be loaded.
func WithRequireArtifacts(required bool) Option {
	return func(s *Service) {
		s.requireArtifacts = required
	}
}

// WithPredictionCacheSize bounds the prediction cache; 0 disables it.
func WithPredictionCacheSize(size int) Option {
	return func(s *Service) {
		if size >= 0 {
			s.cacheSize = size
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		datasetTable: dataset.DefaultTable,
		source:       artifacts.NewFileSource("models"),
		names:        artifacts.DefaultNames(),
		cacheSize:    1024,
		logger:       nil, // Will be replaced when service starts
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start loads the dataset and the artifacts. A dataset failure only disables
// the KPIs. An artifact failure disables predictions, or fails Start when
// artifacts are required.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting job acceptance service...")

	c, err := cache.New(s.cacheSize)
	if err != nil {
		return err
	}
	s.cache = c

	s.loadDataset(ctx)

	if err := s.loadArtifacts(ctx); err != nil {
		metrics.SetArtifactsLoaded(false)
		if s.requireArtifacts {
			s.logger.Error(ctx, "artifacts are required but failed to load", logger.Error(err))
			return err
		}
		s.artifactsErr = err
		s.logger.Warn(ctx, "artifacts failed to load, predictions disabled", logger.Error(err))
	} else {
		metrics.SetArtifactsLoaded(true)
	}

	s.started = true
	s.startedAt = time.Now()
	s.logger.Info(ctx, "job acceptance service started",
		logger.Bool("datasetLoaded", s.summary != nil),
		logger.Int("datasetRows", s.datasetRows),
		logger.Bool("artifactsLoaded", s.pipeline != nil),
		logger.Int("cacheSize", s.cacheSize),
	)

	return nil
}

func (s *Service) loadDataset(ctx context.Context) {
	rows, err := dataset.Load(ctx, s.datasetPath, dataset.WithTable(s.datasetTable))
	if err != nil {
		s.datasetErr = fmt.Errorf("%w: %w", ErrDatasetUnavailable, err)
		s.logger.Warn(ctx, "dataset failed to load, KPIs disabled",
			logger.String("path", s.datasetPath),
			logger.Error(err),
		)
		return
	}
	s.datasetRows = len(rows)
	metrics.UpdateDatasetRows(len(rows))

	summary, err := kpi.Compute(rows)
	if err != nil {
		s.datasetErr = err
		s.logger.Warn(ctx, "dataset has no rows", logger.String("path", s.datasetPath))
		return
	}
	breakdown, err := kpi.ComputeBreakdown(rows)
	if err != nil {
		s.datasetErr = err
		return
	}
	s.summary = &summary
	s.breakdown = &breakdown
	metrics.UpdateKPIs(metrics.KPISnapshot{
		TotalCandidates:    summary.TotalCandidates,
		PlacementRate:      summary.PlacementRate,
		NotPlacedRate:      summary.NotPlacedRate,
		AvgInterviewScore:  summary.AvgInterviewScore,
		AvgSkillsMatch:     summary.AvgSkillsMatch,
		HighRiskPercentage: summary.HighRiskPercentage,
	})
	s.logger.Info(ctx, "dataset loaded",
		logger.String("path", s.datasetPath),
		logger.Int("rows", len(rows)),
	)
}

func (s *Service) loadArtifacts(ctx context.Context) error {
	a, err := artifacts.Load(ctx, s.source, s.names)
	if err != nil {
		return err
	}
	p, err := prediction.NewPipeline(a,
		prediction.WithLogger(s.logger.Named("pipeline")),
		prediction.WithFallbackHook(func(feature, _ string) {
			metrics.RecordEncodingFallback(feature)
		}),
	)
	if err != nil {
		return fmt.Errorf("%w: %w", artifacts.ErrArtifactLoad, err)
	}
	s.pipeline = p
	s.logger.Info(ctx, "artifacts loaded",
		logger.String("model", s.source.Location(s.names.Model)),
		logger.Int("features", len(p.Features())),
	)
	return nil
}

// Stop releases cached state.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping job acceptance service...")
	if s.cache != nil {
		s.cache.Purge()
	}
	s.started = false
	s.logger.Info(context.Background(), "job acceptance service stopped")
}

// KPIs returns the dataset summary.
func (s *Service) KPIs(_ context.Context) (kpi.Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.summary == nil {
		return kpi.Summary{}, s.kpiErr()
	}
	return *s.summary, nil
}

// Breakdown returns the chart aggregates.
func (s *Service) Breakdown(_ context.Context) (kpi.Breakdown, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.breakdown == nil {
		return kpi.Breakdown{}, s.kpiErr()
	}
	return *s.breakdown, nil
}

func (s *Service) kpiErr() error {
	if s.datasetErr != nil {
		return s.datasetErr
	}
	return ErrDatasetUnavailable
}

// Predict scores a validated candidate record.
func (s *Service) Predict(ctx context.Context, rec candidate.Record) (types.Prediction, error) {
	s.mu.RLock()
	p, c, artifactsErr := s.pipeline, s.cache, s.artifactsErr
	s.mu.RUnlock()

	if p == nil {
		if artifactsErr != nil {
			return types.Prediction{}, fmt.Errorf("%w: %w", ErrPredictionUnavailable, artifactsErr)
		}
		return types.Prediction{}, ErrPredictionUnavailable
	}

	start := time.Now()
	key := rec.Key()
	res, cached := c.Get(key)
	if !cached {
		var err error
		res, err = p.Predict(ctx, rec)
		if err != nil {
			kind := predictionErrorKind(err)
			metrics.RecordPredictionError(kind)
			metrics.RecordErrorByComponent("pipeline", kind)
			s.logger.Error(ctx, "prediction failed", logger.String("kind", kind), logger.Error(err))
			return types.Prediction{}, err
		}
		c.Add(key, res)
	} else {
		// Cached results keep their fallbacks so the counter sees every request.
		for _, feature := range res.Fallbacks {
			metrics.RecordEncodingFallback(feature)
		}
		if len(res.Fallbacks) > 0 {
			s.logger.Warn(ctx, "cached prediction used first-class encoding",
				logger.Any("features", res.Fallbacks),
			)
		}
	}

	s.predictions.Add(1)
	metrics.RecordPrediction(res.Label, res.Confidence)
	metrics.RecordPredictionLatency(float64(time.Since(start).Microseconds()) / 1000)

	out := types.Prediction{
		PredictionID:  uuid.NewString(),
		Label:         res.Label,
		DisplayLabel:  cases.Upper(language.Und).String(res.Label),
		Confidence:    res.Confidence,
		Code:          res.Code,
		Probabilities: res.Probabilities,
		Derived:       res.Derived,
		Cached:        cached,
	}
	s.logger.Debug(ctx, "prediction served",
		logger.String("predictionID", out.PredictionID),
		logger.String("label", out.Label),
		logger.Float64("confidence", out.Confidence),
		logger.Bool("cached", cached),
	)
	return out, nil
}

func predictionErrorKind(err error) string {
	switch {
	case errors.Is(err, prediction.ErrSchemaMismatch):
		return "schema_mismatch"
	case errors.Is(err, prediction.ErrInvalidOutput):
		return "invalid_output"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	default:
		return "internal"
	}
}

// Schema describes the form fields and, when loaded, the model inputs and
// outcome labels.
func (s *Service) Schema() types.Schema {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := types.Schema{Fields: candidate.Schema()}
	if s.pipeline != nil {
		out.ModelFeatures = s.pipeline.Features()
		out.Labels = s.pipeline.Labels()
	}
	return out
}

// Health reports whether KPIs and predictions are available.
func (s *Service) Health() types.Health {
	s.mu.RLock()
	defer s.mu.RUnlock()

	h := types.Health{
		Status:          types.HealthDegraded,
		DatasetLoaded:   s.summary != nil,
		ArtifactsLoaded: s.pipeline != nil,
	}
	if s.datasetErr != nil {
		h.DatasetError = s.datasetErr.Error()
	}
	if s.artifactsErr != nil {
		h.ArtifactsError = s.artifactsErr.Error()
	}
	if s.started && h.DatasetLoaded && h.ArtifactsLoaded {
		h.Status = types.HealthOK
	}
	return h
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":          s.started,
		"datasetPath":      s.datasetPath,
		"datasetRows":      s.datasetRows,
		"datasetLoaded":    s.summary != nil,
		"artifactsLoaded":  s.pipeline != nil,
		"modelLocation":    s.source.Location(s.names.Model),
		"predictionsTotal": s.predictions.Load(),
		"cacheCapacity":    s.cacheSize,
	}

	if s.started {
		stats["uptimeSeconds"] = int64(time.Since(s.startedAt).Seconds())
		stats["cacheEntries"] = s.cache.Len()
	}

	return stats
}
