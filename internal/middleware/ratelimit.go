package middleware

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/heart-risk-server/internal/domain"
)

// RateLimiter enforces a per-client token bucket. Limiter state is
// held in an LRU so memory stays bounded: clients idle long enough to
// be evicted simply start with a fresh bucket.
type RateLimiter struct {
	logger *logrus.Logger
	cfg    domain.RateLimitConfig

	mu       sync.Mutex
	limiters *lru.Cache[string, *rate.Limiter]
}

// NewRateLimiter creates a rate limiter from configuration.
func NewRateLimiter(logger *logrus.Logger, cfg domain.RateLimitConfig) (*RateLimiter, error) {
	limiters, err := lru.New[string, *rate.Limiter](cfg.MaxClients)
	if err != nil {
		return nil, err
	}
	return &RateLimiter{
		logger:   logger,
		cfg:      cfg,
		limiters: limiters,
	}, nil
}

// Allow checks whether the client may issue a request now. The
// lookup-or-create is done under the mutex so concurrent first
// requests from one client share a single bucket.
func (rl *RateLimiter) Allow(clientID string) bool {
	if !rl.cfg.Enabled {
		return true
	}

	rl.mu.Lock()
	limiter, ok := rl.limiters.Get(clientID)
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(rl.cfg.RequestsPerSecond), rl.cfg.Burst)
		rl.limiters.Add(clientID, limiter)
	}
	rl.mu.Unlock()

	return limiter.Allow()
}

// Middleware returns the gin handler applying the limiter per client IP.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		clientID := c.ClientIP()
		if !rl.Allow(clientID) {
			rl.logger.WithFields(logrus.Fields{
				"client_ip":      clientID,
				"correlation_id": c.GetString("correlation_id"),
			}).Warn("Request denied: rate limit exceeded")

			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":          "Rate limit exceeded",
				"correlation_id": c.GetString("correlation_id"),
			})
			return
		}
		c.Next()
	}
}
