package prometheus

import (
	"strconv"
	"time"
)

// AppMetrics holds every instrument the service records.
type AppMetrics struct {
	// HTTP layer
	HTTPRequestsTotal   CounterVec
	HTTPRequestDuration HistogramVec
	HTTPActiveRequests  GaugeVec

	// Prediction pipeline
	PredictionsTotal     CounterVec
	PredictionDuration   HistogramVec
	PredictionScores     HistogramVec
	BatchRequestsTotal   CounterVec
	BatchSize            HistogramVec
	BatchItemFailures    CounterVec
	EncodingDuration     HistogramVec
	ReactionSpeciesCount HistogramVec

	// Model lifecycle
	ModelLoadDuration HistogramVec
	ModelInfo         GaugeVec

	// Errors
	ErrorsTotal CounterVec
}

// Histogram bucket presets.
var (
	DefaultHTTPDurationBuckets    = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
	DefaultPredictDurationBuckets = []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1}
	DefaultScoreBuckets           = []float64{0, .1, .2, .3, .4, .5, .6, .7, .8, .9, 1}
	DefaultBatchSizeBuckets       = []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000}
	DefaultSpeciesCountBuckets    = []float64{1, 2, 3, 4, 5, 6, 8, 10}
	DefaultLoadDurationBuckets    = []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30}
)

// NewAppMetrics registers every instrument against the collector.
func NewAppMetrics(collector MetricsCollector) *AppMetrics {
	m := &AppMetrics{}

	// HTTP
	m.HTTPRequestsTotal = collector.RegisterCounter("http_requests_total", "Total HTTP requests", "method", "path", "status_code")
	m.HTTPRequestDuration = collector.RegisterHistogram("http_request_duration_seconds", "HTTP request duration", DefaultHTTPDurationBuckets, "method", "path")
	m.HTTPActiveRequests = collector.RegisterGauge("http_active_requests", "Active HTTP requests", "method", "path")

	// Prediction pipeline
	m.PredictionsTotal = collector.RegisterCounter("predictions_total", "Feasibility predictions by outcome and label", "outcome", "label")
	m.PredictionDuration = collector.RegisterHistogram("prediction_duration_seconds", "End-to-end single prediction duration", DefaultPredictDurationBuckets, "positioning")
	m.PredictionScores = collector.RegisterHistogram("prediction_score", "Distribution of feasibility scores", DefaultScoreBuckets, "positioning")
	m.BatchRequestsTotal = collector.RegisterCounter("batch_requests_total", "Batch prediction requests")
	m.BatchSize = collector.RegisterHistogram("batch_size", "Reactions per batch request", DefaultBatchSizeBuckets)
	m.BatchItemFailures = collector.RegisterCounter("batch_item_failures_total", "Failed items within batch requests", "code")
	m.EncodingDuration = collector.RegisterHistogram("encoding_duration_seconds", "Reaction fingerprint encoding duration", DefaultPredictDurationBuckets, "positioning")
	m.ReactionSpeciesCount = collector.RegisterHistogram("reaction_species_count", "Species per reaction side", DefaultSpeciesCountBuckets, "side")

	// Model lifecycle
	m.ModelLoadDuration = collector.RegisterHistogram("model_load_duration_seconds", "Model artifact load duration", DefaultLoadDurationBuckets, "model_type")
	m.ModelInfo = collector.RegisterGauge("model_info", "Loaded model identity (value fixed at 1)", "model_type", "fingerprint_type", "positioning")

	// Errors
	m.ErrorsTotal = collector.RegisterCounter("errors_total", "Total errors by component and code", "component", "code")

	return m
}

// NewNopAppMetrics returns an AppMetrics whose instruments discard every
// observation.
func NewNopAppMetrics() *AppMetrics {
	return NewAppMetrics(NewNopCollector())
}

// ─────────────────────────────────────────────────────────────────────────────
// Recording helpers
// ─────────────────────────────────────────────────────────────────────────────

// RecordHTTPRequest records one completed HTTP request.
func RecordHTTPRequest(m *AppMetrics, method, path string, statusCode int, duration time.Duration) {
	status := strconv.Itoa(statusCode)
	m.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordPrediction records one completed feasibility prediction.
func RecordPrediction(m *AppMetrics, positioning string, score float64, label int, duration time.Duration) {
	m.PredictionsTotal.WithLabelValues("success", strconv.Itoa(label)).Inc()
	m.PredictionDuration.WithLabelValues(positioning).Observe(duration.Seconds())
	m.PredictionScores.WithLabelValues(positioning).Observe(score)
}

// RecordPredictionError records one failed prediction.
func RecordPredictionError(m *AppMetrics, code string) {
	m.PredictionsTotal.WithLabelValues("error", "").Inc()
	m.ErrorsTotal.WithLabelValues("classifier", code).Inc()
}

// RecordBatch records one batch request.
func RecordBatch(m *AppMetrics, size int) {
	m.BatchRequestsTotal.WithLabelValues().Inc()
	m.BatchSize.WithLabelValues().Observe(float64(size))
}

// RecordBatchItemFailure records one failed item within a batch request.
func RecordBatchItemFailure(m *AppMetrics, code string) {
	m.BatchItemFailures.WithLabelValues(code).Inc()
}

// RecordModelLoad records a model artifact load and pins the identity gauge.
func RecordModelLoad(m *AppMetrics, modelType, fingerprintType, positioning string, duration time.Duration) {
	m.ModelLoadDuration.WithLabelValues(modelType).Observe(duration.Seconds())
	m.ModelInfo.WithLabelValues(modelType, fingerprintType, positioning).Set(1)
}
