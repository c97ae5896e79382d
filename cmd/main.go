package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/okian/jobaccept/internal/adapters/artifacts"
	"github.com/okian/jobaccept/internal/adapters/http/api"
	"github.com/okian/jobaccept/internal/adapters/http/site"
	"github.com/okian/jobaccept/internal/adapters/http/swagger"
	app "github.com/okian/jobaccept/internal/app"
	"github.com/okian/jobaccept/internal/config"
	"github.com/okian/jobaccept/pkg/logger"
	"github.com/okian/jobaccept/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 10 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	startTimeout              = 60 * time.Second
	systemMetricsInterval     = 10 * time.Second
	nanosecondsPerMillisecond = 1e6
)

func main() {
	// Disable default Go metrics collection to avoid duplicate metrics
	// We collect our own custom system metrics instead
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// Initialize logging
	if err := logger.Init(); err != nil {
		// Use fmt for initialization errors since logger isn't available yet
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	defer func() {
		if err := logger.Sync(); err != nil {
			os.Stderr.WriteString("failed to sync logs: " + err.Error() + "\n")
		}
	}()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> .env -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	if err := initLogging(cfg); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	loggerInstance := logger.Get()

	startCtx, cancelStart := context.WithTimeout(ctx, startTimeout)
	svc, err := newService(startCtx, cfg, loggerInstance)
	cancelStart()
	if err != nil {
		loggerInstance.Error(ctx, "failed to start service", logger.Error(err))
		return
	}
	defer svc.Stop()

	// Start system metrics updater
	go startSystemMetricsUpdater(ctx)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newMux(ctx, svc),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	// Start the HTTP server
	go func() {
		loggerInstance.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			loggerInstance.Error(ctx, "HTTP server failed", logger.Error(err))
			stop()
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	loggerInstance.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		loggerInstance.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	loggerInstance.Info(ctx, "server stopped")
}

// initLogging re-initializes the logger with the configured file and level.
func initLogging(cfg *config.Config) error {
	if cfg.LogFile != "" {
		if err := logger.Init(
			logger.WithFile(cfg.LogFile),
			logger.WithRotation(cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays),
		); err != nil {
			return err
		}
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		logger.Get().Warn(context.Background(), "invalid log_level; falling back to info",
			logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}
	return nil
}

// artifactSource builds the configured artifact store.
func artifactSource(ctx context.Context, cfg *config.Config) (artifacts.Source, error) {
	switch cfg.ArtifactSource {
	case config.ArtifactSourceS3:
		opts := []artifacts.S3Option{
			artifacts.WithRegion(cfg.S3Region),
			artifacts.WithEndpoint(cfg.S3Endpoint),
		}
		if cfg.S3AccessKey != "" {
			opts = append(opts, artifacts.WithStaticCredentials(cfg.S3AccessKey, cfg.S3SecretKey))
		}
		return artifacts.NewS3Source(ctx, cfg.S3Bucket, cfg.S3Prefix, opts...)
	case config.ArtifactSourceFile, "":
		return artifacts.NewFileSource(cfg.ArtifactDir), nil
	default:
		return nil, fmt.Errorf("%w: unknown artifact source %q", config.ErrInvalidConfig, cfg.ArtifactSource)
	}
}

// newService creates and starts the service from configuration.
func newService(ctx context.Context, cfg *config.Config, log logger.Logger) (*app.Service, error) {
	src, err := artifactSource(ctx, cfg)
	if err != nil {
		return nil, err
	}

	svc := app.New(
		app.WithLogger(log),
		app.WithDatasetPath(cfg.DatasetPath),
		app.WithDatasetTable(cfg.DatasetTable),
		app.WithArtifactSource(src),
		app.WithArtifactNames(artifacts.Names{
			Model:           cfg.ModelFile,
			TargetEncoder:   cfg.TargetEncoderFile,
			FeatureEncoders: cfg.FeatureEncodersFile,
			Scaler:          cfg.ScalerFile,
		}),
		app.WithRequireArtifacts(cfg.RequireArtifacts),
		app.WithPredictionCacheSize(cfg.PredictionCacheSize),
	)
	if err := svc.Start(ctx); err != nil {
		return nil, err
	}
	return svc, nil
}

// newMux registers the docs, the business API and the dashboard.
func newMux(ctx context.Context, svc *app.Service) *http.ServeMux {
	mux := http.NewServeMux()

	swagger.Register(ctx, mux)

	apiServer := api.NewServer(svc, svc)
	apiServer.Register(ctx, mux)

	// Dashboard last: it owns the "/" catch-all.
	site.Register(ctx, mux)
	return mux
}

// startSystemMetricsUpdater starts a background goroutine that updates system metrics.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)

	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	if m.NumGC > 0 {
		// Calculate average GC pause time
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}
