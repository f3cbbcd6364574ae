package http

import (
	"log/slog"
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/yanqian/surf-forecast/internal/infra/config"
	"github.com/yanqian/surf-forecast/pkg/util"
)

const requestIDHeader = "X-Request-ID"

// requestID propagates the caller's X-Request-ID or mints one.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Writer.Header().Set(requestIDHeader, id)
		c.Next()
	}
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"request_id", c.GetString("request_id"),
		)
	}
}

func errorHandlingMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		httpErr := asHTTPError(c.Errors.Last().Err)
		message := httpErr.Message
		if message == "" {
			message = httpErr.Error()
		}

		attrs := []any{"code", httpErr.Code, "status", httpErr.Status, "path", c.Request.URL.Path, "request_id", c.GetString("request_id"), "error", httpErr.Err}
		if httpErr.Status >= http.StatusInternalServerError {
			logger.Error("request failed", attrs...)
		} else {
			logger.Warn("request failed", attrs...)
		}

		c.JSON(httpErr.Status, gin.H{
			"error": gin.H{
				"code":    httpErr.Code,
				"message": message,
			},
		})
	}
}

func rateLimitMiddleware(cfg config.RateLimitConfig, logger *slog.Logger) gin.HandlerFunc {
	if !cfg.Enabled || cfg.RequestsPerMinute <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	limiter := newClientLimiter(cfg, util.Clock())
	return func(c *gin.Context) {
		if isReplay(c.Request) {
			c.Next()
			return
		}
		ip := c.ClientIP()
		if limiter.allow(ip) {
			c.Next()
			return
		}
		logger.Warn("rate limit exceeded", "ip", ip, "path", c.Request.URL.Path, "request_id", c.GetString("request_id"))
		abortWithError(c, NewHTTPError(http.StatusTooManyRequests, "rate_limit_exceeded", "too many requests", nil))
	}
}

// clientLimiter is a per-client token bucket refilled at requestsPerMinute.
type clientLimiter struct {
	mu        sync.Mutex
	clock     clockwork.Clock
	buckets   map[string]*bucket
	perMinute float64
	burst     float64
	idleTTL   time.Duration
	lastSweep time.Time
}

type bucket struct {
	tokens   float64
	lastSeen time.Time
}

func newClientLimiter(cfg config.RateLimitConfig, clock clockwork.Clock) *clientLimiter {
	burst := float64(cfg.Burst)
	if burst < 1 {
		burst = 1
	}
	return &clientLimiter{
		clock:     clock,
		buckets:   make(map[string]*bucket),
		perMinute: float64(cfg.RequestsPerMinute),
		burst:     burst,
		idleTTL:   5 * time.Minute,
		lastSweep: clock.Now(),
	}
}

func (l *clientLimiter) allow(client string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()
	b, ok := l.buckets[client]
	if !ok {
		b = &bucket{tokens: l.burst}
		l.buckets[client] = b
	} else if elapsed := now.Sub(b.lastSeen).Minutes(); elapsed > 0 {
		b.tokens = math.Min(l.burst, b.tokens+elapsed*l.perMinute)
	}
	b.lastSeen = now

	if now.Sub(l.lastSweep) > l.idleTTL {
		for key, other := range l.buckets {
			if now.Sub(other.lastSeen) > l.idleTTL {
				delete(l.buckets, key)
			}
		}
		l.lastSweep = now
	}

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}
