// Package metrics provides Prometheus metrics for the job acceptance service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// confidenceBuckets spans the percentage range returned by the pipeline.
var confidenceBuckets = []float64{50, 60, 70, 80, 90, 95, 99, 100}

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      map[string]string
	registry         prometheus.Registerer

	// Prediction metrics
	predictions          *prometheus.CounterVec
	predictionErrors     *prometheus.CounterVec
	predictionLatency    prometheus.Histogram
	predictionConfidence prometheus.Histogram
	encodingFallbacks    *prometheus.CounterVec
	cacheHits            prometheus.Counter
	cacheMisses          prometheus.Counter
	artifactsLoaded      prometheus.Gauge

	// KPI snapshot gauges
	datasetRows        prometheus.Gauge
	kpiTotalCandidates prometheus.Gauge
	kpiPlacementRate   prometheus.Gauge
	kpiNotPlacedRate   prometheus.Gauge
	kpiAvgInterview    prometheus.Gauge
	kpiAvgSkillsMatch  prometheus.Gauge
	kpiHighRiskRate    prometheus.Gauge

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error Metrics
	errorRateByComponent *prometheus.CounterVec
	errorRateByType      *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec
	errorLatency         *prometheus.HistogramVec

	// System Performance Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "jobaccept",
		subsystem:        "dashboard",
		histogramBuckets: prometheus.DefBuckets,
		constLabels:      map[string]string{},
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     buckets,
		ConstLabels: m.constLabels,
	}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)

	m.predictions = auto.NewCounterVec(
		m.counterOpts("predictions_total", "Total number of predictions served by outcome label"),
		[]string{"label"},
	)
	m.predictionErrors = auto.NewCounterVec(
		m.counterOpts("prediction_errors_total", "Total number of failed predictions by error kind"),
		[]string{"kind"},
	)
	m.predictionLatency = auto.NewHistogram(
		m.histogramOpts("prediction_latency_milliseconds", "Prediction pipeline latency in milliseconds", m.histogramBuckets),
	)
	m.predictionConfidence = auto.NewHistogram(
		m.histogramOpts("prediction_confidence_percent", "Distribution of prediction confidence percentages", confidenceBuckets),
	)
	m.encodingFallbacks = auto.NewCounterVec(
		m.counterOpts("encoding_fallbacks_total", "Unseen categorical values replaced by the encoder's first class"),
		[]string{"feature"},
	)
	m.cacheHits = auto.NewCounter(m.counterOpts("prediction_cache_hits_total", "Predictions served from the result cache"))
	m.cacheMisses = auto.NewCounter(m.counterOpts("prediction_cache_misses_total", "Predictions computed because the cache had no entry"))
	m.artifactsLoaded = auto.NewGauge(m.gaugeOpts("artifacts_loaded", "1 when the model artifacts are loaded, 0 otherwise"))

	m.datasetRows = auto.NewGauge(m.gaugeOpts("dataset_rows", "Number of rows loaded from the KPI dataset"))
	m.kpiTotalCandidates = auto.NewGauge(m.gaugeOpts("kpi_total_candidates", "Total candidates in the dataset"))
	m.kpiPlacementRate = auto.NewGauge(m.gaugeOpts("kpi_placement_rate_percent", "Share of placed candidates"))
	m.kpiNotPlacedRate = auto.NewGauge(m.gaugeOpts("kpi_not_placed_rate_percent", "Share of candidates not placed"))
	m.kpiAvgInterview = auto.NewGauge(m.gaugeOpts("kpi_avg_interview_score", "Mean interview score"))
	m.kpiAvgSkillsMatch = auto.NewGauge(m.gaugeOpts("kpi_avg_skills_match_percent", "Mean skills match percentage"))
	m.kpiHighRiskRate = auto.NewGauge(m.gaugeOpts("kpi_high_risk_rate_percent", "Share of candidates with weak skills match and communication"))

	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds", m.histogramBuckets),
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorRateByComponent = auto.NewCounterVec(
		m.counterOpts("errors_by_component_total", "Total number of errors by component"),
		[]string{"component", "error_type"},
	)
	m.errorRateByType = auto.NewCounterVec(
		m.counterOpts("errors_by_type_total", "Total number of errors by type"),
		[]string{"error_type", "severity"},
	)
	m.errorRateByEndpoint = auto.NewCounterVec(
		m.counterOpts("errors_by_endpoint_total", "Total number of errors by endpoint"),
		[]string{"endpoint", "method", "error_type"},
	)
	m.errorLatency = auto.NewHistogramVec(
		m.histogramOpts("error_latency_milliseconds", "Latency of operations that resulted in errors", m.histogramBuckets),
		[]string{"component", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_usage_bytes", "System memory usage in bytes"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutine_count", "Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(
		m.histogramOpts("system_gc_pause_time_milliseconds", "GC pause time in milliseconds",
			[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000}),
	)
}

// RecordPrediction counts a served prediction and observes its confidence.
func RecordPrediction(label string, confidence float64) {
	globalManager.predictions.WithLabelValues(label).Inc()
	globalManager.predictionConfidence.Observe(confidence)
}

// RecordPredictionError counts a failed prediction.
func RecordPredictionError(kind string) {
	globalManager.predictionErrors.WithLabelValues(kind).Inc()
}

// RecordPredictionLatency records pipeline latency in milliseconds.
func RecordPredictionLatency(latencyMs float64) {
	globalManager.predictionLatency.Observe(latencyMs)
}

// RecordEncodingFallback counts an unseen categorical value for feature.
func RecordEncodingFallback(feature string) {
	globalManager.encodingFallbacks.WithLabelValues(feature).Inc()
}

// RecordCacheHit increments the prediction cache hit counter.
func RecordCacheHit() {
	globalManager.cacheHits.Inc()
}

// RecordCacheMiss increments the prediction cache miss counter.
func RecordCacheMiss() {
	globalManager.cacheMisses.Inc()
}

// SetArtifactsLoaded flags whether predictions can be served.
func SetArtifactsLoaded(loaded bool) {
	if loaded {
		globalManager.artifactsLoaded.Set(1)
		return
	}
	globalManager.artifactsLoaded.Set(0)
}

// UpdateDatasetRows sets the number of loaded dataset rows.
func UpdateDatasetRows(rows int) {
	globalManager.datasetRows.Set(float64(rows))
}

// KPISnapshot mirrors the KPI summary without importing the domain package.
type KPISnapshot struct {
	TotalCandidates    int
	PlacementRate      float64
	NotPlacedRate      float64
	AvgInterviewScore  float64
	AvgSkillsMatch     float64
	HighRiskPercentage float64
}

// UpdateKPIs publishes the KPI summary as gauges.
func UpdateKPIs(s KPISnapshot) {
	globalManager.kpiTotalCandidates.Set(float64(s.TotalCandidates))
	globalManager.kpiPlacementRate.Set(s.PlacementRate)
	globalManager.kpiNotPlacedRate.Set(s.NotPlacedRate)
	globalManager.kpiAvgInterview.Set(s.AvgInterviewScore)
	globalManager.kpiAvgSkillsMatch.Set(s.AvgSkillsMatch)
	globalManager.kpiHighRiskRate.Set(s.HighRiskPercentage)
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByType records an error with type and severity labels.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorLatency records the latency of an operation that resulted in an error.
func RecordErrorLatency(component, errorType string, latencyMs float64) {
	globalManager.errorLatency.WithLabelValues(component, errorType).Observe(latencyMs)
}

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
