// Package http exposes the reaction feasibility classifier over a JSON API.
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/RxnFeasibility/internal/config"
	"github.com/turtacn/RxnFeasibility/internal/infrastructure/monitoring/logging"
	apperrors "github.com/turtacn/RxnFeasibility/pkg/errors"
)

// defaultLimiterCleanup is how often idle rate-limit buckets are evicted.
const defaultLimiterCleanup = 5 * time.Minute

// Server wraps the HTTP listener with lifecycle management.
type Server struct {
	cfg    config.ServerConfig
	engine *gin.Engine
	srv    *http.Server
	logger logging.Logger
}

// NewServer assembles a server from the router dependencies.
func NewServer(cfg config.ServerConfig, deps RouterDeps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	engine := NewRouter(cfg, deps)
	return &Server{
		cfg:    cfg,
		engine: engine,
		logger: logger.Named("http.server"),
		srv: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Port),
			Handler:      engine,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
	}
}

// Handler returns the underlying engine, which tests drive directly.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start blocks serving requests until the listener fails or Stop is called.
func (s *Server) Start() error {
	s.logger.Info("http server starting", logging.String("addr", s.srv.Addr))
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return apperrors.Wrap(err, apperrors.CodeInternal, "http server failed")
	}
	return nil
}

// Stop drains in-flight requests within the configured shutdown timeout.
func (s *Server) Stop(ctx context.Context) error {
	if s.cfg.ShutdownTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.ShutdownTimeout)
		defer cancel()
	}
	s.logger.Info("http server stopping")
	if err := s.srv.Shutdown(ctx); err != nil {
		return apperrors.Wrap(err, apperrors.CodeInternal, "http server shutdown failed")
	}
	return nil
}

// bodySizeLimit rejects request bodies larger than maxBytes before the
// handlers read them.
func bodySizeLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{
				"code":    apperrors.ErrCodeBadRequest.String(),
				"message": "request body too large",
			})
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
