package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/clinichq/clinic/internal/platform/auth"
)

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond float64
	BurstSize         int
}

// DefaultRateLimitConfig returns default rate limiting settings.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerSecond: 100,
		BurstSize:         200,
	}
}

// bucket is a token bucket for one caller. lastSeen feeds the sweep.
type bucket struct {
	mu       sync.Mutex
	tokens   float64
	lastSeen time.Time
}

// take refills the bucket for elapsed time and consumes one token.
// It reports whether the request may proceed and, when it may not,
// how many whole seconds until a token is available.
func (b *bucket) take(rate float64, burst int) (bool, int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	b.tokens += now.Sub(b.lastSeen).Seconds() * rate
	if max := float64(burst); b.tokens > max {
		b.tokens = max
	}
	b.lastSeen = now

	if b.tokens >= 1 {
		b.tokens--
		return true, 0
	}
	if rate <= 0 {
		return false, 1
	}
	return false, int((1-b.tokens)/rate) + 1
}

// limiter keeps one bucket per caller. Signed-in staff are limited per
// account so a shared clinic NAT does not pool everyone into one bucket;
// anonymous callers (signup, login) fall back to the client IP.
type limiter struct {
	cfg     RateLimitConfig
	mu      sync.Mutex
	buckets map[string]*bucket
}

func (l *limiter) get(key string) *bucket {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{tokens: float64(l.cfg.BurstSize), lastSeen: time.Now()}
		l.buckets[key] = b
	}
	return b
}

// sweep drops buckets idle long enough to have fully refilled.
func (l *limiter) sweep(olderThan time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := time.Now().Add(-olderThan)
	for key, b := range l.buckets {
		b.mu.Lock()
		idle := b.lastSeen.Before(cutoff)
		b.mu.Unlock()
		if idle {
			delete(l.buckets, key)
		}
	}
}

func callerKey(c echo.Context) string {
	if uid := auth.UserIDFromContext(c.Request().Context()); uid != uuid.Nil {
		return "user:" + uid.String()
	}
	return "ip:" + c.RealIP()
}

// RateLimit returns middleware enforcing a per-caller token bucket.
func RateLimit(cfg RateLimitConfig) echo.MiddlewareFunc {
	l := &limiter{cfg: cfg, buckets: make(map[string]*bucket)}

	go func() {
		for range time.Tick(5 * time.Minute) {
			l.sweep(10 * time.Minute)
		}
	}()

	limitHeader := strconv.FormatFloat(cfg.RequestsPerSecond, 'f', 0, 64)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			hdr := c.Response().Header()
			hdr.Set("X-RateLimit-Limit", limitHeader)

			ok, retryAfter := l.get(callerKey(c)).take(cfg.RequestsPerSecond, cfg.BurstSize)
			if !ok {
				hdr.Set("Retry-After", strconv.Itoa(retryAfter))
				hdr.Set("X-RateLimit-Remaining", "0")
				return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
			}
			return next(c)
		}
	}
}
