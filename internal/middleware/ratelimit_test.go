package middleware

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heart-risk-server/internal/domain"
)

func newLimiter(t *testing.T, cfg domain.RateLimitConfig) *RateLimiter {
	t.Helper()
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	limiter, err := NewRateLimiter(logger, cfg)
	require.NoError(t, err)
	return limiter
}

func TestRateLimiter_BurstThenDeny(t *testing.T) {
	limiter := newLimiter(t, domain.RateLimitConfig{
		Enabled:           true,
		RequestsPerSecond: 1,
		Burst:             3,
		MaxClients:        16,
	})

	for i := 0; i < 3; i++ {
		assert.True(t, limiter.Allow("10.0.0.1"), "request %d within burst", i)
	}
	assert.False(t, limiter.Allow("10.0.0.1"), "burst exhausted")
}

func TestRateLimiter_ClientsIsolated(t *testing.T) {
	limiter := newLimiter(t, domain.RateLimitConfig{
		Enabled:           true,
		RequestsPerSecond: 1,
		Burst:             1,
		MaxClients:        16,
	})

	assert.True(t, limiter.Allow("10.0.0.1"))
	assert.False(t, limiter.Allow("10.0.0.1"))

	// A different client has its own bucket.
	assert.True(t, limiter.Allow("10.0.0.2"))
}

func TestRateLimiter_DisabledAllowsEverything(t *testing.T) {
	limiter := newLimiter(t, domain.RateLimitConfig{
		Enabled:    false,
		MaxClients: 16,
	})

	for i := 0; i < 100; i++ {
		require.True(t, limiter.Allow("10.0.0.1"))
	}
}

func TestRateLimiter_ConcurrentFirstRequestsShareBucket(t *testing.T) {
	limiter := newLimiter(t, domain.RateLimitConfig{
		Enabled:           true,
		RequestsPerSecond: 0.001, // effectively no refill during the test
		Burst:             1,
		MaxClients:        16,
	})

	var wg sync.WaitGroup
	var allowed atomic.Int64
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if limiter.Allow("10.0.0.1") {
				allowed.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), allowed.Load(),
		"concurrent first requests must contend for one bucket")
}

func TestRateLimiter_EvictedClientStartsFresh(t *testing.T) {
	limiter := newLimiter(t, domain.RateLimitConfig{
		Enabled:           true,
		RequestsPerSecond: 1,
		Burst:             1,
		MaxClients:        2,
	})

	assert.True(t, limiter.Allow("10.0.0.1"))
	assert.False(t, limiter.Allow("10.0.0.1"))

	// Push the first client out of the LRU.
	limiter.Allow("10.0.0.2")
	limiter.Allow("10.0.0.3")

	assert.True(t, limiter.Allow("10.0.0.1"), "evicted client gets a fresh bucket")
}
