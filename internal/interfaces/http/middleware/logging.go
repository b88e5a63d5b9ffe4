package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/RxnFeasibility/internal/infrastructure/monitoring/logging"
	prom "github.com/turtacn/RxnFeasibility/internal/infrastructure/monitoring/prometheus"
	apperrors "github.com/turtacn/RxnFeasibility/pkg/errors"
)

// RequestLogger emits one structured log line per request and feeds the HTTP
// metrics. Paths are recorded by route template so label cardinality stays
// bounded.
func RequestLogger(logger logging.Logger, metrics *prom.AppMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		method := c.Request.Method

		if metrics != nil {
			metrics.HTTPActiveRequests.WithLabelValues(method, path).Inc()
		}

		c.Next()

		duration := time.Since(start)
		status := c.Writer.Status()

		if metrics != nil {
			metrics.HTTPActiveRequests.WithLabelValues(method, path).Dec()
			prom.RecordHTTPRequest(metrics, method, path, status, duration)
		}

		if logger == nil {
			return
		}
		fields := []logging.Field{
			logging.String("method", method),
			logging.String("path", c.Request.URL.Path),
			logging.Int("status", status),
			logging.Duration("duration", duration),
			logging.String("client_ip", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, logging.String("errors", c.Errors.String()))
		}
		switch {
		case status >= 500:
			logger.Error("request completed", fields...)
		case status >= 400:
			logger.Warn("request completed", fields...)
		default:
			logger.Info("request completed", fields...)
		}
	}
}

// Recovery converts panics into 500 responses and logs the panic value.
func Recovery(logger logging.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		if logger != nil {
			logger.Error("panic recovered",
				logging.String("path", c.Request.URL.Path),
				logging.Any("panic", recovered),
			)
		}
		c.AbortWithStatusJSON(500, gin.H{
			"code":    apperrors.ErrCodeInternal.String(),
			"message": apperrors.DefaultMessageForCode(apperrors.ErrCodeInternal),
		})
	})
}
