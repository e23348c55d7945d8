// Package cache provides content-addressed memoization of correction
// results so identical submissions never pay for a second model call.
//
// The cache is an injected service with an explicit lifecycle: it is
// constructed once at process start with a max size and TTL, and the
// backing store is swappable (in-memory by default, Redis for sharing
// across processes) without touching pipeline logic.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/zalint/text-corrector/internal/types"
)

// DefaultTTL is how long an entry stays valid after insertion.
const DefaultTTL = time.Hour

// DefaultMaxEntries bounds the in-memory store.
const DefaultMaxEntries = 1000

// Store is the backing store behind the correction pipeline's cache.
// Implementations must be safe for concurrent use. Both operations are
// best-effort: a store failure is treated as a miss, never an error.
type Store interface {
	// Get returns the cached result for key, or (nil, false) on a miss.
	// Expired entries count as misses.
	Get(ctx context.Context, key string) (*types.CorrectionResult, bool)

	// Put inserts a result under key.
	Put(ctx context.Context, key string, result *types.CorrectionResult)
}

// Key computes the deterministic cache key for a correction request.
// Identical (text, language, options) triples always produce the same
// key; changing any one of them changes the key.
func Key(text string, language types.Language, opts types.Options) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s\x00%s\x00%t\x00%t\x00%t",
		text, language, opts.IgnoreAccents, opts.IgnoreCase, opts.IgnoreProperNouns)
	return hex.EncodeToString(h.Sum(nil))
}
