package memory

import (
	"context"
	"sync"
	"time"
)

const DefaultCleanupInterval = 5 * time.Minute

type item[V any] struct {
	value     V
	expiresAt time.Time
}

// Cache - in-memory кеш с TTL, типизированный по значению
type Cache[V any] struct {
	mu       sync.RWMutex
	items    map[string]item[V]
	interval time.Duration
	stopChan chan struct{}
	stopped  bool
}

func New[V any](cleanupInterval time.Duration) *Cache[V] {
	return NewWithContext[V](context.Background(), cleanupInterval)
}

// NewWithContext stops the cleanup loop when ctx is done. The cache itself
// keeps working after that; expired entries are still hidden by Get.
func NewWithContext[V any](ctx context.Context, cleanupInterval time.Duration) *Cache[V] {
	if cleanupInterval <= 0 {
		cleanupInterval = DefaultCleanupInterval
	}
	c := &Cache[V]{
		items:    make(map[string]item[V]),
		interval: cleanupInterval,
		stopChan: make(chan struct{}),
	}
	go c.cleanup(ctx)
	return c
}

func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	it, ok := c.items[key]
	if !ok || time.Now().After(it.expiresAt) {
		var zero V
		return zero, false
	}
	return it.value, true
}

func (c *Cache[V]) Set(key string, value V, ttl time.Duration) {
	c.mu.Lock()
	c.items[key] = item[V]{value: value, expiresAt: time.Now().Add(ttl)}
	c.mu.Unlock()
}

func (c *Cache[V]) Delete(key string) {
	c.mu.Lock()
	delete(c.items, key)
	c.mu.Unlock()
}

// Len - число записей, включая просроченные, но еще не вычищенные
func (c *Cache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

func (c *Cache[V]) Stop() {
	c.mu.Lock()
	if !c.stopped {
		c.stopped = true
		close(c.stopChan)
	}
	c.mu.Unlock()
}

func (c *Cache[V]) cleanup(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-c.stopChan:
			return
		case <-ticker.C:
			c.removeExpired()
		}
	}
}

func (c *Cache[V]) removeExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for k, it := range c.items {
		if now.After(it.expiresAt) {
			delete(c.items, k)
		}
	}
}
