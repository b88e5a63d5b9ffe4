package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/RxnFeasibility/internal/config"
	prom "github.com/turtacn/RxnFeasibility/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/RxnFeasibility/internal/interfaces/http/handlers"
	apperrors "github.com/turtacn/RxnFeasibility/pkg/errors"
	rtypes "github.com/turtacn/RxnFeasibility/pkg/types/reaction"
)

type fakePredictor struct {
	threshold float64
}

func (f *fakePredictor) Predict(_ context.Context, rxn string) (*rtypes.PredictionDTO, error) {
	if !strings.Contains(rxn, " = ") && !strings.Contains(rxn, ">>") {
		return nil, apperrors.MalformedReaction(rxn)
	}
	return &rtypes.PredictionDTO{Reaction: rxn, Score: 0.9, Label: 1, Threshold: f.threshold}, nil
}

func (f *fakePredictor) PredictBatch(ctx context.Context, rxns []string) []rtypes.BatchItemDTO {
	items := make([]rtypes.BatchItemDTO, len(rxns))
	for i, rxn := range rxns {
		pred, err := f.Predict(ctx, rxn)
		items[i] = rtypes.BatchItemDTO{Reaction: rxn, Prediction: pred}
		if err != nil {
			items[i].Error = err.Error()
		}
	}
	return items
}

func (f *fakePredictor) Threshold() float64 { return f.threshold }

func testServerConfig() config.ServerConfig {
	return config.ServerConfig{
		Port:           8080,
		Mode:           "test",
		MaxBodySize:    1 << 20,
		RateLimitRPS:   -1, // disabled
		RateLimitBurst: 0,
	}
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	health := handlers.NewHealthHandler("test")
	health.SetReady(true)
	return NewServer(testServerConfig(), RouterDeps{
		Predictor: &fakePredictor{threshold: 0.5},
		Metrics:   prom.NewNopAppMetrics(),
		Collector: prom.NewNopCollector(),
		Health:    health,
	})
}

func TestRouterEndToEndPrediction(t *testing.T) {
	srv := newTestServer(t)

	body := `{"reaction":"CCO + O = CC(=O)O"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/predictions", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var pred rtypes.PredictionDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &pred))
	assert.Equal(t, 1, pred.Label)
}

func TestRouterMalformedReactionIs400(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/predictions",
		strings.NewReader(`{"reaction":"nonsense"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "RXN_001")
}

func TestRouterHealthEndpoints(t *testing.T) {
	srv := newTestServer(t)

	for _, path := range []string{"/healthz", "/readyz"} {
		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}

func TestRouterBodySizeLimit(t *testing.T) {
	cfg := testServerConfig()
	cfg.MaxBodySize = 16
	srv := NewServer(cfg, RouterDeps{
		Predictor: &fakePredictor{},
		Health:    handlers.NewHealthHandler("test"),
	})

	body := `{"reaction":"` + strings.Repeat("C", 100) + ` = O"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/predictions", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestRouterModelInfo(t *testing.T) {
	srv := newTestServer(t)

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/model", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "0.5")
}

func TestServerStop(t *testing.T) {
	srv := newTestServer(t)
	require.NoError(t, srv.Stop(context.Background()))
}
