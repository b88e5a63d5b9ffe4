package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLimitedRouter(cfg RateLimitConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimit(cfg))
	r.GET("/work", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	return r
}

func get(r *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.RemoteAddr = "10.0.0.1:1234"
	r.ServeHTTP(w, req)
	return w
}

func TestTokenBucketLimiterExhaustsAndRefills(t *testing.T) {
	l := NewTokenBucketLimiter(10, 2, 0)

	allowed, info := l.Allow("k")
	require.True(t, allowed)
	assert.Equal(t, 2, info.Limit)
	assert.Equal(t, 1, info.Remaining)

	allowed, _ = l.Allow("k")
	require.True(t, allowed)

	allowed, info = l.Allow("k")
	require.False(t, allowed)
	assert.Equal(t, 0, info.Remaining)
	assert.Greater(t, info.ResetAfter, time.Duration(0))

	// Independent keys get their own buckets.
	allowed, _ = l.Allow("other")
	assert.True(t, allowed)
}

func TestRateLimitMiddlewareRejectsWith429(t *testing.T) {
	r := newLimitedRouter(RateLimitConfig{RequestsPerSecond: 0.001, BurstSize: 1})

	w := get(r, "/work")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Limit"))

	w = get(r, "/work")
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), "COMMON_007")
}

func TestRateLimitSkipsExemptPaths(t *testing.T) {
	r := newLimitedRouter(RateLimitConfig{
		RequestsPerSecond: 0.001,
		BurstSize:         1,
		SkipPaths:         []string{"/healthz"},
	})

	for i := 0; i < 5; i++ {
		w := get(r, "/healthz")
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestRateLimitCustomKeyFunc(t *testing.T) {
	r := newLimitedRouter(RateLimitConfig{
		RequestsPerSecond: 0.001,
		BurstSize:         1,
		KeyFunc: func(c *gin.Context) string {
			return c.GetHeader("X-API-Key")
		},
	})

	do := func(key string) int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/work", nil)
		req.Header.Set("X-API-Key", key)
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, do("alpha"))
	assert.Equal(t, http.StatusTooManyRequests, do("alpha"))
	assert.Equal(t, http.StatusOK, do("beta"))
}
