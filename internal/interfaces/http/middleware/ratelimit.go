package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/turtacn/RxnFeasibility/pkg/errors"
)

// RateLimitInfo describes the state of a client's bucket after a request.
type RateLimitInfo struct {
	Limit      int
	Remaining  int
	ResetAfter time.Duration
}

// RateLimiter decides whether a request identified by key may proceed.
type RateLimiter interface {
	Allow(key string) (bool, RateLimitInfo)
}

// RateLimitConfig controls the per-client token bucket middleware.
type RateLimitConfig struct {
	RequestsPerSecond float64
	BurstSize         int
	// KeyFunc extracts the bucket key from a request. Defaults to client IP.
	KeyFunc func(c *gin.Context) string
	// SkipPaths are exempt from limiting, e.g. health and metrics endpoints.
	SkipPaths []string
	// CleanupInterval controls how often idle buckets are evicted.
	CleanupInterval time.Duration
}

type tokenBucket struct {
	tokens   float64
	lastFill time.Time
}

// TokenBucketLimiter keeps one refillable bucket per key.
type TokenBucketLimiter struct {
	mu      sync.Mutex
	buckets map[string]*tokenBucket
	rate    float64
	burst   int
	done    chan struct{}
}

// NewTokenBucketLimiter creates a limiter refilling rate tokens per second up
// to burst. A background sweep evicts buckets idle longer than cleanupEvery.
func NewTokenBucketLimiter(rate float64, burst int, cleanupEvery time.Duration) *TokenBucketLimiter {
	if rate <= 0 {
		rate = 10
	}
	if burst < 1 {
		burst = int(rate)
		if burst < 1 {
			burst = 1
		}
	}
	l := &TokenBucketLimiter{
		buckets: make(map[string]*tokenBucket),
		rate:    rate,
		burst:   burst,
		done:    make(chan struct{}),
	}
	if cleanupEvery > 0 {
		go l.sweep(cleanupEvery)
	}
	return l
}

func (l *TokenBucketLimiter) Allow(key string) (bool, RateLimitInfo) {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[key]
	if !ok {
		b = &tokenBucket{tokens: float64(l.burst), lastFill: now}
		l.buckets[key] = b
	}

	elapsed := now.Sub(b.lastFill).Seconds()
	b.tokens += elapsed * l.rate
	if b.tokens > float64(l.burst) {
		b.tokens = float64(l.burst)
	}
	b.lastFill = now

	info := RateLimitInfo{Limit: l.burst}
	if b.tokens < 1 {
		info.Remaining = 0
		info.ResetAfter = time.Duration((1 - b.tokens) / l.rate * float64(time.Second))
		return false, info
	}

	b.tokens--
	info.Remaining = int(b.tokens)
	return true, info
}

// Stop terminates the background sweep goroutine.
func (l *TokenBucketLimiter) Stop() {
	close(l.done)
}

func (l *TokenBucketLimiter) sweep(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-l.done:
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-every)
			l.mu.Lock()
			for key, b := range l.buckets {
				if b.lastFill.Before(cutoff) {
					delete(l.buckets, key)
				}
			}
			l.mu.Unlock()
		}
	}
}

// RateLimit rejects requests exceeding the configured budget with 429 and
// standard X-RateLimit headers.
func RateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	limiter := NewTokenBucketLimiter(cfg.RequestsPerSecond, cfg.BurstSize, cfg.CleanupInterval)
	return RateLimitWith(limiter, cfg)
}

// RateLimitWith uses a caller-supplied limiter, which tests rely on.
func RateLimitWith(limiter RateLimiter, cfg RateLimitConfig) gin.HandlerFunc {
	keyFunc := cfg.KeyFunc
	if keyFunc == nil {
		keyFunc = func(c *gin.Context) string { return c.ClientIP() }
	}
	skip := make(map[string]struct{}, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = struct{}{}
	}

	return func(c *gin.Context) {
		if _, ok := skip[c.Request.URL.Path]; ok {
			c.Next()
			return
		}

		allowed, info := limiter.Allow(keyFunc(c))
		c.Header("X-RateLimit-Limit", strconv.Itoa(info.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))

		if !allowed {
			retryAfter := int(info.ResetAfter.Seconds() + 0.999)
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"code":    apperrors.ErrCodeRateLimited.String(),
				"message": apperrors.DefaultMessageForCode(apperrors.ErrCodeRateLimited),
			})
			return
		}
		c.Next()
	}
}
