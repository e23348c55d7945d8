package ratelimit

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBucket_TakeUntilEmpty(t *testing.T) {
	b := newBucket(5, 0.001) // refill slow enough to be irrelevant here

	for i := 0; i < 5; i++ {
		assert.True(t, b.take(), "request %d should fit in the bucket", i+1)
	}
	assert.False(t, b.take(), "an empty bucket must deny")
}

func TestBucket_Refill(t *testing.T) {
	b := newBucket(2, 100) // 100 tokens per second refills quickly

	require.True(t, b.take())
	require.True(t, b.take())
	require.False(t, b.take())

	time.Sleep(50 * time.Millisecond)
	assert.True(t, b.take(), "tokens must come back after the refill interval")
}

func TestBucket_Status(t *testing.T) {
	b := newBucket(10, 1)

	require.True(t, b.take())
	remaining, resetTime := b.status()

	assert.Equal(t, 9, remaining)
	assert.True(t, resetTime.After(time.Now()), "a partially drained bucket resets in the future")
}

func TestLimiter_DefaultLimit(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  10,
		DefaultWindow: time.Minute,
	})
	defer limiter.Stop()

	for i := 0; i < 10; i++ {
		allowed, info := limiter.Allow("127.0.0.1", "/api/history", "GET")
		require.True(t, allowed, "request %d should be allowed", i+1)
		assert.Equal(t, 10, info.Limit)
		assert.Equal(t, 9-i, info.Remaining)
	}

	allowed, info := limiter.Allow("127.0.0.1", "/api/history", "GET")
	assert.False(t, allowed, "request over the limit must be denied")
	assert.Equal(t, 0, info.Remaining)
	assert.Positive(t, info.RetryAfter)
}

func TestLimiter_Whitelist(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  1,
		DefaultWindow: time.Minute,
		Whitelist:     map[string]bool{"10.0.0.1": true},
	})
	defer limiter.Stop()

	for i := 0; i < 50; i++ {
		allowed, _ := limiter.Allow("10.0.0.1", "/api/correct", "POST")
		require.True(t, allowed, "whitelisted clients are never throttled")
	}
}

func TestLimiter_Blacklist(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  1000,
		DefaultWindow: time.Minute,
		Blacklist:     map[string]bool{"10.0.0.2": true},
	})
	defer limiter.Stop()

	allowed, _ := limiter.Allow("10.0.0.2", "/api/correct", "POST")
	assert.False(t, allowed, "blacklisted clients are always denied")
}

func TestLimiter_Disabled(t *testing.T) {
	limiter := NewLimiter(&Config{Enabled: false})
	defer limiter.Stop()

	for i := 0; i < 50; i++ {
		allowed, _ := limiter.Allow("127.0.0.1", "/api/correct", "POST")
		require.True(t, allowed)
	}
}

func TestLimiter_CorrectionEndpointBurst(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled:         true,
		DefaultLimit:    1000,
		DefaultWindow:   time.Minute,
		EndpointConfigs: DefaultEndpointConfigs(),
	})
	defer limiter.Stop()

	// /api/correct allows a burst of 5, then throttles.
	for i := 0; i < 5; i++ {
		allowed, info := limiter.Allow("127.0.0.1", "/api/correct", "POST")
		require.True(t, allowed, "burst request %d should be allowed", i+1)
		assert.Equal(t, 30, info.Limit)
	}
	allowed, _ := limiter.Allow("127.0.0.1", "/api/correct", "POST")
	assert.False(t, allowed, "the correction burst is exhausted")

	// Other clients keep their own budget.
	allowed, _ = limiter.Allow("127.0.0.2", "/api/correct", "POST")
	assert.True(t, allowed)
}

func TestLimiter_HealthIsUnthrottled(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled:         true,
		DefaultLimit:    1,
		DefaultWindow:   time.Minute,
		EndpointConfigs: DefaultEndpointConfigs(),
	})
	defer limiter.Stop()

	for i := 0; i < 50; i++ {
		allowed, _ := limiter.Allow("127.0.0.1", "/health", "GET")
		require.True(t, allowed)
	}
}

func TestMatchEndpoint_Prefix(t *testing.T) {
	configs := []EndpointConfig{
		{Path: "/api/text-details/", Method: "GET", Limit: 100, Window: time.Minute},
	}

	ec := matchEndpoint("/api/text-details/123", "GET", configs)
	require.NotNil(t, ec)
	assert.Equal(t, 100, ec.Limit)

	assert.Nil(t, matchEndpoint("/api/text-details/123", "POST", configs))
	assert.Nil(t, matchEndpoint("/api/other", "GET", configs))
}

func TestNewLimiter_NilConfig(t *testing.T) {
	limiter := NewLimiter(nil)
	defer limiter.Stop()

	allowed, info := limiter.Allow("127.0.0.1", "/api/history", "GET")
	assert.True(t, allowed)
	assert.Equal(t, 1000, info.Limit)
}

func TestLimiter_Concurrent(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  100,
		DefaultWindow: time.Minute,
	})
	defer limiter.Stop()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			clientID := fmt.Sprintf("10.0.1.%d", n)
			for j := 0; j < 20; j++ {
				allowed, _ := limiter.Allow(clientID, "/api/history", "GET")
				assert.True(t, allowed)
			}
		}(i)
	}
	wg.Wait()
}
