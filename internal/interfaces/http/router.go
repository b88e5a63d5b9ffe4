package http

import (
	"github.com/gin-gonic/gin"

	"github.com/turtacn/RxnFeasibility/internal/config"
	"github.com/turtacn/RxnFeasibility/internal/infrastructure/monitoring/logging"
	prom "github.com/turtacn/RxnFeasibility/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/RxnFeasibility/internal/interfaces/http/handlers"
	"github.com/turtacn/RxnFeasibility/internal/interfaces/http/middleware"
)

// RouterDeps carries everything the router wires together.
type RouterDeps struct {
	Predictor handlers.Predictor
	Logger    logging.Logger
	Metrics   *prom.AppMetrics
	Collector prom.MetricsCollector
	Health    *handlers.HealthHandler
}

// NewRouter builds the gin engine with middleware and all API routes.
func NewRouter(cfg config.ServerConfig, deps RouterDeps) *gin.Engine {
	gin.SetMode(ginMode(cfg.Mode))

	engine := gin.New()
	engine.Use(middleware.Recovery(deps.Logger))
	engine.Use(middleware.RequestLogger(deps.Logger, deps.Metrics))
	engine.Use(middleware.CORS())
	if cfg.RateLimitRPS >= 0 {
		engine.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimitRPS,
			BurstSize:         cfg.RateLimitBurst,
			SkipPaths:         []string{"/healthz", "/readyz", "/metrics"},
			CleanupInterval:   defaultLimiterCleanup,
		}))
	}
	if cfg.MaxBodySize > 0 {
		engine.Use(bodySizeLimit(cfg.MaxBodySize))
	}

	health := deps.Health
	if health == nil {
		health = handlers.NewHealthHandler("dev")
	}
	engine.GET("/healthz", health.Live)
	engine.GET("/readyz", health.Ready)
	if deps.Collector != nil {
		engine.GET("/metrics", gin.WrapH(deps.Collector.Handler()))
	}

	pred := handlers.NewPredictionHandler(deps.Predictor, deps.Logger)
	v1 := engine.Group("/api/v1")
	{
		v1.POST("/predictions", pred.Predict)
		v1.POST("/predictions/batch", pred.PredictBatch)
		v1.GET("/model", pred.ModelInfo)
	}

	return engine
}

func ginMode(mode string) string {
	switch mode {
	case "debug":
		return gin.DebugMode
	case "test":
		return gin.TestMode
	default:
		return gin.ReleaseMode
	}
}
