package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/askadit/content-service/internal/adapters/http/dto"
)

// staleAfter is how long an idle client's bucket is kept.
const staleAfter = 10 * time.Minute

// RateLimiter holds one token bucket per client key.
type RateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	limit   rate.Limit
	burst   int
	now     func() time.Time
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter allows requests events per window per key, with burst
// capacity. Idle buckets are dropped lazily.
func NewRateLimiter(requests int, window time.Duration, burst int) *RateLimiter {
	return &RateLimiter{
		buckets: make(map[string]*bucket),
		limit:   rate.Limit(float64(requests) / window.Seconds()),
		burst:   burst,
		now:     time.Now,
	}
}

// Allow consumes a token for key and returns how long to wait when none is left.
func (l *RateLimiter) Allow(key string) (bool, time.Duration) {
	now := l.now()

	l.mu.Lock()
	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.buckets[key] = b
	}

	b.lastSeen = now
	l.evict(now)
	l.mu.Unlock()

	r := b.limiter.ReserveN(now, 1)
	if !r.OK() {
		return false, time.Second
	}

	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		return false, delay
	}

	return true, 0
}

// evict drops buckets idle for staleAfter. Caller holds mu.
func (l *RateLimiter) evict(now time.Time) {
	for key, b := range l.buckets {
		if now.Sub(b.lastSeen) > staleAfter {
			delete(l.buckets, key)
		}
	}
}

// RateLimit rejects requests over the limiter's budget, keyed by client IP,
// with 429 and a Retry-After header.
func RateLimit(l *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, wait := l.Allow(c.ClientIP())
		if allowed {
			c.Next()
			return
		}

		c.Header("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
		c.AbortWithStatusJSON(http.StatusTooManyRequests,
			dto.NewErrorResponse(dto.ErrorCodeRateLimited, "too many requests").WithTraceID(dto.GetTraceID(c)))
	}
}
