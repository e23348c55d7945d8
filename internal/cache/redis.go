package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/zalint/text-corrector/internal/types"
)

// keyPrefix namespaces correction entries in a shared Redis instance.
const keyPrefix = "correction:"

// Redis is a Store backed by a Redis instance, for sharing the cache
// across processes. Entries are JSON-marshalled and expire server-side,
// so no eviction bookkeeping is needed here.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis creates a Redis-backed store and verifies connectivity.
func NewRedis(addr, password string, db int, ttl time.Duration) (*Redis, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &Redis{client: client, ttl: ttl}, nil
}

// Get implements Store. Any Redis or decode failure is a miss.
func (r *Redis) Get(ctx context.Context, key string) (*types.CorrectionResult, bool) {
	data, err := r.client.Get(ctx, keyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		log.Warn().Err(err).Str("component", "cache").Msg("redis get failed, treating as miss")
		return nil, false
	}

	var result types.CorrectionResult
	if err := json.Unmarshal(data, &result); err != nil {
		log.Warn().Err(err).Str("component", "cache").Msg("corrupt cache entry, treating as miss")
		return nil, false
	}
	return &result, true
}

// Put implements Store. Failures are logged, not propagated: the cache
// is an optimization, never a correctness dependency.
func (r *Redis) Put(ctx context.Context, key string, result *types.CorrectionResult) {
	data, err := json.Marshal(result)
	if err != nil {
		log.Warn().Err(err).Str("component", "cache").Msg("failed to marshal cache entry")
		return
	}
	if err := r.client.Set(ctx, keyPrefix+key, data, r.ttl).Err(); err != nil {
		log.Warn().Err(err).Str("component", "cache").Msg("redis set failed")
	}
}

// Close releases the Redis connection.
func (r *Redis) Close() error {
	return r.client.Close()
}

var _ Store = (*Redis)(nil)
