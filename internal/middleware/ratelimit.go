package middleware

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"commerce-events-go/internal/monitoring"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type limiterEntry struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// ttlLimiterCache is a simple TTL map for per-caller limiters with
// opportunistic sweeping.
type ttlLimiterCache struct {
	mu        sync.Mutex
	items     map[string]*limiterEntry
	ttl       time.Duration
	lastSweep time.Time
}

func newTTLLimiterCache(ttl time.Duration) *ttlLimiterCache {
	return &ttlLimiterCache{items: make(map[string]*limiterEntry), ttl: ttl}
}

func (c *ttlLimiterCache) get(key string, makeFn func() *rate.Limiter) *rate.Limiter {
	now := time.Now()
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.items[key]; ok {
		e.lastSeen = now
		return e.lim
	}
	lim := makeFn()
	c.items[key] = &limiterEntry{lim: lim, lastSeen: now}
	monitoring.RateLimitKeysGauge.Set(float64(len(c.items)))
	// opportunistic sweep every ~2 minutes
	if c.lastSweep.IsZero() || now.Sub(c.lastSweep) > 2*time.Minute {
		c.sweepLocked(now)
		c.lastSweep = now
	}
	return lim
}

func (c *ttlLimiterCache) sweepLocked(now time.Time) {
	if c.ttl <= 0 {
		c.ttl = 15 * time.Minute
	}
	for k, e := range c.items {
		if now.Sub(e.lastSeen) > c.ttl {
			delete(c.items, k)
		}
	}
	monitoring.RateLimitKeysGauge.Set(float64(len(c.items)))
}

// RateLimiter applies a per-caller limit keyed by API key when present,
// falling back to client IP, plus a lightweight global guard.
func RateLimiter(rps int, burst int) gin.HandlerFunc {
	if rps <= 0 {
		rps = 10
	}
	if burst <= 0 {
		burst = 20
	}
	cache := newTTLLimiterCache(15 * time.Minute)
	global := rate.NewLimiter(rate.Limit(rps*5), burst*5)
	return func(c *gin.Context) {
		if !global.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"message":    "Rate limit exceeded",
				"statusCode": http.StatusTooManyRequests,
			})
			return
		}
		key := callerKey(c)
		lim := cache.get(key, func() *rate.Limiter { return rate.NewLimiter(rate.Limit(rps), burst) })
		if !lim.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"message":    "Rate limit exceeded",
				"statusCode": http.StatusTooManyRequests,
			})
			return
		}
		c.Next()
	}
}

func callerKey(c *gin.Context) string {
	if v := strings.TrimSpace(c.GetHeader("x-api-key")); v != "" {
		return v
	}
	auth := strings.TrimSpace(c.GetHeader("Authorization"))
	if strings.HasPrefix(strings.ToLower(auth), "bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	return c.ClientIP()
}
