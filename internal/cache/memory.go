package cache

import (
	"context"
	"sync"
	"time"

	"github.com/zalint/text-corrector/internal/types"
)

// Memory is an in-process Store with a TTL per entry and a max entry
// count. Eviction is oldest-inserted-first, approximating LRU: request
// patterns are dominated by repeats of recent identical submissions, so
// insertion order is a good enough proxy for access order.
type Memory struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	order   []string // insertion order, oldest first
	max     int
	ttl     time.Duration

	// now is swapped in tests to control the clock.
	now func() time.Time
}

type memoryEntry struct {
	result     *types.CorrectionResult
	insertedAt time.Time
}

// NewMemory creates an in-memory store. Non-positive maxEntries or ttl
// fall back to the package defaults.
func NewMemory(maxEntries int, ttl time.Duration) *Memory {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Memory{
		entries: make(map[string]memoryEntry),
		max:     maxEntries,
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get implements Store. Expired entries are removed lazily on lookup;
// there is no background sweep.
func (m *Memory) Get(_ context.Context, key string) (*types.CorrectionResult, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[key]
	if !ok {
		return nil, false
	}
	if m.now().Sub(entry.insertedAt) > m.ttl {
		m.remove(key)
		return nil, false
	}
	return entry.result, true
}

// Put implements Store. When the store is full, the single
// oldest-inserted entry is evicted before the new one goes in.
func (m *Memory) Put(_ context.Context, key string, result *types.CorrectionResult) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.entries[key]; exists {
		m.remove(key)
	}
	for len(m.entries) >= m.max && len(m.order) > 0 {
		m.remove(m.order[0])
	}

	m.entries[key] = memoryEntry{result: result, insertedAt: m.now()}
	m.order = append(m.order, key)
}

// Len returns the current entry count.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// remove deletes key from both the map and the order list.
// Caller must hold m.mu.
func (m *Memory) remove(key string) {
	delete(m.entries, key)
	for i, k := range m.order {
		if k == key {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
}

var _ Store = (*Memory)(nil)
