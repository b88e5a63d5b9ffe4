package prometheus

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/RxnFeasibility/internal/infrastructure/monitoring/logging"
)

func newTestCollector(t *testing.T) MetricsCollector {
	t.Helper()
	c, err := NewMetricsCollector(CollectorConfig{Namespace: "rxnfeas"}, logging.NewNopLogger())
	require.NoError(t, err)
	return c
}

func scrape(t *testing.T, c MetricsCollector) string {
	t.Helper()
	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	return string(body)
}

func TestNewMetricsCollectorRequiresNamespace(t *testing.T) {
	_, err := NewMetricsCollector(CollectorConfig{}, logging.NewNopLogger())
	assert.Error(t, err)
}

func TestCounterRoundTrip(t *testing.T) {
	c := newTestCollector(t)
	vec := c.RegisterCounter("predictions_total", "test counter", "outcome")
	vec.WithLabelValues("success").Inc()
	vec.WithLabelValues("success").Add(2)

	out := scrape(t, c)
	assert.Contains(t, out, `rxnfeas_predictions_total{outcome="success"} 3`)
}

func TestGaugeRoundTrip(t *testing.T) {
	c := newTestCollector(t)
	vec := c.RegisterGauge("model_info", "test gauge", "model_type")
	vec.WithLabelValues("main").Set(1)

	out := scrape(t, c)
	assert.Contains(t, out, `rxnfeas_model_info{model_type="main"} 1`)
}

func TestHistogramRoundTrip(t *testing.T) {
	c := newTestCollector(t)
	vec := c.RegisterHistogram("prediction_score", "test histogram", DefaultScoreBuckets, "positioning")
	vec.WithLabelValues("by_descending_MW").Observe(0.73)

	out := scrape(t, c)
	assert.Contains(t, out, "rxnfeas_prediction_score_bucket")
	assert.Contains(t, out, `rxnfeas_prediction_score_count{positioning="by_descending_MW"} 1`)
}

func TestDuplicateRegistrationReturnsFirstInstance(t *testing.T) {
	c := newTestCollector(t)
	a := c.RegisterCounter("dup_total", "first", "l")
	b := c.RegisterCounter("dup_total", "first", "l")

	a.WithLabelValues("x").Inc()
	b.WithLabelValues("x").Inc()

	assert.Contains(t, scrape(t, c), `rxnfeas_dup_total{l="x"} 2`)
}

func TestConflictingRegistrationDegradesToNoop(t *testing.T) {
	c := newTestCollector(t)
	c.RegisterCounter("conflict_metric", "as counter", "l")
	// Same registry name as a different collector type must not panic.
	g := c.RegisterGauge("conflict_metric", "as gauge", "l")
	assert.NotPanics(t, func() { g.WithLabelValues("x").Set(1) })
}

func TestNopCollector(t *testing.T) {
	c := NewNopCollector()
	assert.NotPanics(t, func() {
		c.RegisterCounter("a", "b", "l").WithLabelValues("x").Inc()
		c.RegisterGauge("a", "b", "l").WithLabelValues("x").Set(1)
		c.RegisterHistogram("a", "b", nil, "l").WithLabelValues("x").Observe(1)
	})
}

func TestTimerObserves(t *testing.T) {
	c := newTestCollector(t)
	vec := c.RegisterHistogram("op_duration_seconds", "test", nil, "op")

	timer := NewTimer(vec.WithLabelValues("encode"))
	time.Sleep(time.Millisecond)
	timer.ObserveDuration()

	assert.Contains(t, scrape(t, c), `rxnfeas_op_duration_seconds_count{op="encode"} 1`)
}

func TestTimerNilHistogram(t *testing.T) {
	assert.NotPanics(t, func() { NewTimer(nil).ObserveDuration() })
}
