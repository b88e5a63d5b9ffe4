package prometheus

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/RxnFeasibility/internal/infrastructure/monitoring/logging"
)

func newTestAppMetrics(t *testing.T) (*AppMetrics, MetricsCollector) {
	t.Helper()
	c, err := NewMetricsCollector(CollectorConfig{Namespace: "rxnfeas"}, logging.NewNopLogger())
	require.NoError(t, err)
	return NewAppMetrics(c), c
}

func TestNewAppMetricsRegistersAll(t *testing.T) {
	m, _ := newTestAppMetrics(t)

	assert.NotNil(t, m.HTTPRequestsTotal)
	assert.NotNil(t, m.PredictionsTotal)
	assert.NotNil(t, m.PredictionDuration)
	assert.NotNil(t, m.PredictionScores)
	assert.NotNil(t, m.BatchRequestsTotal)
	assert.NotNil(t, m.ModelLoadDuration)
	assert.NotNil(t, m.ModelInfo)
	assert.NotNil(t, m.ErrorsTotal)
}

func TestRecordPrediction(t *testing.T) {
	m, c := newTestAppMetrics(t)

	RecordPrediction(m, "by_descending_MW", 0.81, 1, 3*time.Millisecond)
	RecordPrediction(m, "by_descending_MW", 0.12, 0, 2*time.Millisecond)

	out := scrape(t, c)
	assert.Contains(t, out, `rxnfeas_predictions_total{label="1",outcome="success"} 1`)
	assert.Contains(t, out, `rxnfeas_predictions_total{label="0",outcome="success"} 1`)
	assert.Contains(t, out, `rxnfeas_prediction_score_count{positioning="by_descending_MW"} 2`)
}

func TestRecordPredictionError(t *testing.T) {
	m, c := newTestAppMetrics(t)

	RecordPredictionError(m, "RXN_001")

	out := scrape(t, c)
	assert.Contains(t, out, `rxnfeas_predictions_total{label="",outcome="error"} 1`)
	assert.Contains(t, out, `rxnfeas_errors_total{code="RXN_001",component="classifier"} 1`)
}

func TestRecordBatch(t *testing.T) {
	m, c := newTestAppMetrics(t)

	RecordBatch(m, 25)
	RecordBatchItemFailure(m, "RXN_002")
	RecordBatchItemFailure(m, "RXN_002")

	out := scrape(t, c)
	assert.Contains(t, out, "rxnfeas_batch_requests_total 1")
	assert.Contains(t, out, `rxnfeas_batch_item_failures_total{code="RXN_002"} 2`)
}

func TestRecordModelLoad(t *testing.T) {
	m, c := newTestAppMetrics(t)

	RecordModelLoad(m, "main", "ecfp4", "by_descending_MW", 120*time.Millisecond)

	out := scrape(t, c)
	assert.Contains(t, out, `rxnfeas_model_info{fingerprint_type="ecfp4",model_type="main",positioning="by_descending_MW"} 1`)
	assert.Contains(t, out, `rxnfeas_model_load_duration_seconds_count{model_type="main"} 1`)
}

func TestRecordHTTPRequest(t *testing.T) {
	m, c := newTestAppMetrics(t)

	RecordHTTPRequest(m, "POST", "/api/v1/predictions", 200, 5*time.Millisecond)

	out := scrape(t, c)
	assert.Contains(t, out, `rxnfeas_http_requests_total{method="POST",path="/api/v1/predictions",status_code="200"} 1`)
}

func TestNopAppMetricsDiscards(t *testing.T) {
	m := NewNopAppMetrics()
	assert.NotPanics(t, func() {
		RecordPrediction(m, "add_concat", 0.5, 1, time.Millisecond)
		RecordPredictionError(m, "MDL_004")
		RecordBatch(m, 3)
		RecordModelLoad(m, "spare", "ecfp4", "add_concat", time.Second)
	})
}
