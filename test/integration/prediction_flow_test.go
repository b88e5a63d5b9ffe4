package integration

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/RxnFeasibility/internal/config"
	"github.com/turtacn/RxnFeasibility/internal/domain/molecule"
	"github.com/turtacn/RxnFeasibility/internal/domain/reaction"
	"github.com/turtacn/RxnFeasibility/internal/encoding"
	"github.com/turtacn/RxnFeasibility/internal/feasibility"
	prom "github.com/turtacn/RxnFeasibility/internal/infrastructure/monitoring/prometheus"
	httpapi "github.com/turtacn/RxnFeasibility/internal/interfaces/http"
	"github.com/turtacn/RxnFeasibility/internal/interfaces/http/handlers"
	"github.com/turtacn/RxnFeasibility/pkg/client"
	rtypes "github.com/turtacn/RxnFeasibility/pkg/types/reaction"
)

// onBitsScorer maps feature popcount into (0, 1), so reactions with any
// recognized chemistry score above zero without a trained model on disk.
type onBitsScorer struct {
	size int
}

func (s *onBitsScorer) Score(features []float64) (float64, error) {
	sum := 0.0
	for _, v := range features {
		if v > 0 {
			sum++
		}
	}
	return sum / float64(len(features)+1), nil
}

func (s *onBitsScorer) NumFeatures() int { return s.size }

func newStack(t *testing.T) (*feasibility.Classifier, *httptest.Server) {
	t.Helper()

	fper, err := molecule.NewFingerprinter(rtypes.FPECFP4, 256)
	require.NoError(t, err)
	cofactors := reaction.NewCofactorSet("O", "[H+]", "O=O")
	enc, err := encoding.NewEncoder(fper, cofactors, rtypes.ByDescendingMW, 4)
	require.NoError(t, err)

	clf, err := feasibility.NewClassifierWithComponents(
		enc, &onBitsScorer{size: enc.Size()}, 0.01, 2, nil, prom.NewNopAppMetrics())
	require.NoError(t, err)

	cfg := config.ServerConfig{
		Port: 8080, Mode: "test", MaxBodySize: 1 << 20, RateLimitRPS: -1,
	}
	health := handlers.NewHealthHandler("integration")
	health.SetReady(true)
	srv := httpapi.NewServer(cfg, httpapi.RouterDeps{
		Predictor: clf,
		Metrics:   prom.NewNopAppMetrics(),
		Collector: prom.NewNopCollector(),
		Health:    health,
	})

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return clf, ts
}

func TestPredictionFlowOverHTTP(t *testing.T) {
	_, ts := newStack(t)
	c, err := client.NewClient(ts.URL)
	require.NoError(t, err)

	ctx := context.Background()

	pred, err := c.Predict(ctx, "CCO + O=O = CC(=O)O + O")
	require.NoError(t, err)
	assert.Greater(t, pred.Score, 0.0)
	assert.Equal(t, 1, pred.Label)
	assert.InDelta(t, 0.01, pred.Threshold, 1e-9)

	smiles, err := c.Predict(ctx, "CCO.O=O>>CC(=O)O.O")
	require.NoError(t, err)
	assert.InDelta(t, pred.Score, smiles.Score, 1e-9, "both grammars encode identically")
}

func TestPredictionFlowRejectsMalformed(t *testing.T) {
	_, ts := newStack(t)
	c, err := client.NewClient(ts.URL)
	require.NoError(t, err)

	_, err = c.Predict(context.Background(), "no separator here")
	require.Error(t, err)

	apiErr, ok := err.(*client.APIError)
	require.True(t, ok)
	assert.Equal(t, "RXN_001", apiErr.Code)
	assert.True(t, apiErr.IsClientError())
}

func TestPredictionFlowBatch(t *testing.T) {
	clf, ts := newStack(t)
	c, err := client.NewClient(ts.URL)
	require.NoError(t, err)

	reactions := []string{
		"CCO + O=O = CC(=O)O + O",
		"garbage",
		"C.O>>CO",
	}
	result, err := c.PredictBatch(context.Background(), reactions)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Total)
	assert.Equal(t, 2, result.Succeeded)
	assert.Equal(t, 1, result.Failed)
	assert.Empty(t, result.Items[0].Error)
	assert.NotEmpty(t, result.Items[1].Error)

	// SDK and in-process predictions agree.
	direct, err := clf.Predict(context.Background(), reactions[0])
	require.NoError(t, err)
	assert.InDelta(t, direct.Score, result.Items[0].Prediction.Score, 1e-9)
}

func TestPredictionFlowHealthAndModel(t *testing.T) {
	_, ts := newStack(t)
	c, err := client.NewClient(ts.URL)
	require.NoError(t, err)

	assert.NoError(t, c.Healthy(context.Background()))

	info, err := c.Model(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 0.01, info.Threshold, 1e-9)
}
