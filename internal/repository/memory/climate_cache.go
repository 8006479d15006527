package memory

import (
	"context"
	"sync"
	"time"

	"github.com/homespark/backend/internal/domain"
)

type entry struct {
	result   domain.ClimateResult
	storedAt time.Time
}

// ClimateCache implements domain.ClimateCache in process memory.
// Entries expire ttl after insertion; expired entries are dropped on read.
type ClimateCache struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	entries map[string]entry
}

// NewClimateCache creates a new in-memory cache. A nil clock uses time.Now.
func NewClimateCache(ttl time.Duration, now func() time.Time) *ClimateCache {
	if now == nil {
		now = time.Now
	}
	return &ClimateCache{
		ttl:     ttl,
		now:     now,
		entries: make(map[string]entry),
	}
}

// Get returns a live entry for key
func (c *ClimateCache) Get(ctx context.Context, key string) (domain.ClimateResult, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return domain.ClimateResult{}, false, nil
	}
	if c.now().Sub(e.storedAt) >= c.ttl {
		delete(c.entries, key)
		return domain.ClimateResult{}, false, nil
	}
	return e.result, true, nil
}

// Set stores result under key, replacing any previous entry
func (c *ClimateCache) Set(ctx context.Context, key string, result domain.ClimateResult) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry{result: result, storedAt: c.now()}
	return nil
}

// Len returns the number of stored entries, expired or not
func (c *ClimateCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
