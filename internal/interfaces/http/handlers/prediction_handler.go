package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/RxnFeasibility/internal/infrastructure/monitoring/logging"
	rtypes "github.com/turtacn/RxnFeasibility/pkg/types/reaction"
)

// maxBatchReactions caps a single batch request.
const maxBatchReactions = 1000

// Predictor is the scoring surface the HTTP layer depends on.
type Predictor interface {
	Predict(ctx context.Context, rxn string) (*rtypes.PredictionDTO, error)
	PredictBatch(ctx context.Context, rxns []string) []rtypes.BatchItemDTO
	Threshold() float64
}

// PredictionHandler serves the reaction feasibility endpoints. Prediction
// metrics are recorded inside the classifier, not here.
type PredictionHandler struct {
	predictor Predictor
	logger    logging.Logger
}

func NewPredictionHandler(predictor Predictor, logger logging.Logger) *PredictionHandler {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &PredictionHandler{
		predictor: predictor,
		logger:    logger.Named("http.predictions"),
	}
}

// PredictRequest is the body of POST /api/v1/predictions.
type PredictRequest struct {
	Reaction string `json:"reaction" binding:"required"`
}

// BatchPredictRequest is the body of POST /api/v1/predictions/batch.
type BatchPredictRequest struct {
	Reactions []string `json:"reactions" binding:"required"`
}

// BatchPredictResponse wraps the per-item results with summary counts.
type BatchPredictResponse struct {
	Items     []rtypes.BatchItemDTO `json:"items"`
	Total     int                   `json:"total"`
	Succeeded int                   `json:"succeeded"`
	Failed    int                   `json:"failed"`
}

// Predict handles POST /api/v1/predictions.
func (h *PredictionHandler) Predict(c *gin.Context) {
	var req PredictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, "request body must be JSON with a non-empty \"reaction\" field")
		return
	}

	pred, err := h.predictor.Predict(c.Request.Context(), req.Reaction)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, pred)
}

// PredictBatch handles POST /api/v1/predictions/batch.
func (h *PredictionHandler) PredictBatch(c *gin.Context) {
	var req BatchPredictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, "request body must be JSON with a non-empty \"reactions\" array")
		return
	}
	if len(req.Reactions) == 0 {
		writeBadRequest(c, "reactions array must not be empty")
		return
	}
	if len(req.Reactions) > maxBatchReactions {
		writeBadRequest(c, "reactions array exceeds the batch limit")
		return
	}

	start := time.Now()
	items := h.predictor.PredictBatch(c.Request.Context(), req.Reactions)

	resp := BatchPredictResponse{Items: items, Total: len(items)}
	for _, item := range items {
		if item.Error == "" {
			resp.Succeeded++
		} else {
			resp.Failed++
		}
	}

	h.logger.Info("batch prediction served",
		logging.Int("total", resp.Total),
		logging.Int("failed", resp.Failed),
		logging.Duration("duration", time.Since(start)),
	)
	c.JSON(http.StatusOK, resp)
}

// ModelInfoResponse describes the loaded model for GET /api/v1/model.
type ModelInfoResponse struct {
	Threshold float64 `json:"threshold"`
}

// ModelInfo handles GET /api/v1/model.
func (h *PredictionHandler) ModelInfo(c *gin.Context) {
	c.JSON(http.StatusOK, ModelInfoResponse{Threshold: h.predictor.Threshold()})
}
