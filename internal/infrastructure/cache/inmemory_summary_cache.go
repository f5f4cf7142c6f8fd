package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	appval "github.com/assetreg/backend/internal/application/valuation"
	"github.com/vmihailenco/msgpack/v5"
)

// entry represents a stored summary with expiration
type entry struct {
	raw       []byte
	expiresAt time.Time
}

// InMemorySummaryCache implements SummaryCache using an in-memory map.
// Summaries are stored encoded so callers never share a cached value.
// This is suitable for single-instance deployments and testing.
type InMemorySummaryCache struct {
	mu        sync.RWMutex
	entries   map[string]entry
	ttl       time.Duration
	now       func() time.Time
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemorySummaryCache creates a new in-memory summary cache.
// It starts a background goroutine to clean up expired entries.
func NewInMemorySummaryCache(ttl time.Duration) *InMemorySummaryCache {
	if ttl <= 0 {
		ttl = defaultSummaryTTL
	}
	c := &InMemorySummaryCache{
		entries:  make(map[string]entry),
		ttl:      ttl,
		now:      time.Now,
		stopChan: make(chan struct{}),
	}

	c.wg.Add(1)
	go c.cleanupLoop()

	return c
}

// Get returns the cached summary of a financial year
func (c *InMemorySummaryCache) Get(ctx context.Context, label string) (*appval.SummaryResponse, bool, error) {
	c.mu.RLock()
	e, exists := c.entries[label]
	c.mu.RUnlock()

	if !exists || c.now().After(e.expiresAt) {
		return nil, false, nil
	}

	var summary appval.SummaryResponse
	if err := msgpack.Unmarshal(e.raw, &summary); err != nil {
		return nil, false, fmt.Errorf("failed to decode summary %s: %w", label, err)
	}
	return &summary, true, nil
}

// Set stores a summary
func (c *InMemorySummaryCache) Set(ctx context.Context, label string, summary *appval.SummaryResponse) error {
	raw, err := msgpack.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to encode summary %s: %w", label, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[label] = entry{raw: raw, expiresAt: c.now().Add(c.ttl)}
	return nil
}

// Invalidate drops every cached summary
func (c *InMemorySummaryCache) Invalidate(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry)
	return nil
}

// Close stops the cleanup goroutine.
// Safe to call multiple times.
func (c *InMemorySummaryCache) Close() error {
	c.closeOnce.Do(func() {
		close(c.stopChan)
		c.wg.Wait()
	})
	return nil
}

// cleanupLoop periodically removes expired entries
func (c *InMemorySummaryCache) cleanupLoop() {
	defer c.wg.Done()

	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopChan:
			return
		case <-ticker.C:
			c.cleanup()
		}
	}
}

func (c *InMemorySummaryCache) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for label, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, label)
		}
	}
}

// Size returns the number of entries in the cache (for testing/monitoring)
func (c *InMemorySummaryCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Ensure InMemorySummaryCache implements SummaryCache
var _ appval.SummaryCache = (*InMemorySummaryCache)(nil)
