package api

import (
	"crypto/subtle"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/codyseavey/trading-dashboard/internal/apperr"
	"github.com/codyseavey/trading-dashboard/internal/metrics"
)

const (
	APIKeyHeader    = "X-API-Key"
	RequestIDHeader = "X-Request-ID"

	// maxTrackedClients bounds the per-IP limiter cache
	maxTrackedClients = 1024
)

// APIKeyAuth rejects requests whose X-API-Key does not match secret.
// An empty secret disables the check.
func APIKeyAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			c.Next()
			return
		}

		key := c.GetHeader(APIKeyHeader)
		if subtle.ConstantTimeCompare([]byte(key), []byte(secret)) != 1 {
			if c.Request.Method == http.MethodPost {
				metrics.IngestsTotal.WithLabelValues("unauthorized").Inc()
			}
			err := &apperr.AuthError{}
			c.AbortWithStatusJSON(apperr.StatusCode(err), gin.H{"error": "Unauthorized"})
			return
		}
		c.Next()
	}
}

// RequestLogger tags each request with an ID and logs it once it completes
func RequestLogger(log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Header(RequestIDHeader, requestID)
		c.Set("request_id", requestID)

		c.Next()

		log.Infow("request",
			"request_id", requestID,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
			"ip", c.ClientIP(),
		)
	}
}

// ClientRateLimiter hands out one token bucket per client IP
type ClientRateLimiter struct {
	mu       sync.Mutex
	limiters *lru.Cache[string, *rate.Limiter]
	limit    rate.Limit
	burst    int
}

// NewClientRateLimiter allows perSecond sustained requests with the given burst per client.
// perSecond <= 0 disables limiting.
func NewClientRateLimiter(perSecond float64, burst int) (*ClientRateLimiter, error) {
	cache, err := lru.New[string, *rate.Limiter](maxTrackedClients)
	if err != nil {
		return nil, err
	}
	if burst < 1 {
		burst = 1
	}
	limit := rate.Limit(perSecond)
	if perSecond <= 0 {
		limit = rate.Inf
	}
	return &ClientRateLimiter{limiters: cache, limit: limit, burst: burst}, nil
}

// Allow reports whether client may proceed now
func (l *ClientRateLimiter) Allow(client string) bool {
	l.mu.Lock()
	limiter, ok := l.limiters.Get(client)
	if !ok {
		limiter = rate.NewLimiter(l.limit, l.burst)
		l.limiters.Add(client, limiter)
	}
	l.mu.Unlock()

	return limiter.Allow()
}

// Middleware answers 429 once a client exhausts its bucket
func (l *ClientRateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.Allow(c.ClientIP()) {
			metrics.IngestsTotal.WithLabelValues("rate_limited").Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
