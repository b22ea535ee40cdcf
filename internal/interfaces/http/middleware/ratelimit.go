package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// tokenBucket is the per-client refill state.
type tokenBucket struct {
	tokens     float64
	lastRefill time.Time
}

// RateLimiter is a token bucket limiter keyed by client IP.
type RateLimiter struct {
	rate  float64
	burst float64

	mu      sync.Mutex
	buckets map[string]*tokenBucket
}

// NewRateLimiter builds a limiter allowing rps sustained requests with the
// given burst headroom.
func NewRateLimiter(rps, burst int) *RateLimiter {
	if rps <= 0 {
		rps = 20
	}
	if burst <= 0 {
		burst = 2 * rps
	}
	return &RateLimiter{
		rate:    float64(rps),
		burst:   float64(burst),
		buckets: make(map[string]*tokenBucket),
	}
}

// allow takes one token for key, refilling first.
func (l *RateLimiter) allow(key string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[key]
	if !ok {
		b = &tokenBucket{tokens: l.burst, lastRefill: now}
		l.buckets[key] = b
	}

	b.tokens += now.Sub(b.lastRefill).Seconds() * l.rate
	if b.tokens > l.burst {
		b.tokens = l.burst
	}
	b.lastRefill = now

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

// Middleware rejects clients exceeding the limit with a 429.
func (l *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.allow(c.ClientIP(), time.Now()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"code":    "COMMON_007",
				"message": "rate limit exceeded",
			})
			return
		}
		c.Next()
	}
}
