package cache

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// TTL is a bounded, time-bounded cache. Reads serve a fresh entry or load
// inline from the source; the mutex is never held while loading.
type TTL[K comparable, V any] struct {
	mu    sync.Mutex
	lru   *expirable.LRU[K, V]
	epoch uint64
}

func NewTTL[K comparable, V any](size int, ttl time.Duration) *TTL[K, V] {
	if size < 1 {
		size = 1
	}
	return &TTL[K, V]{lru: expirable.NewLRU[K, V](size, nil, ttl)}
}

func (c *TTL[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Get(key)
}

func (c *TTL[K, V]) Set(key K, v V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Add(key, v)
}

// GetOrLoad returns the cached value or calls load and caches its result.
// A load that raced with Invalidate is returned to the caller but not cached.
func (c *TTL[K, V]) GetOrLoad(ctx context.Context, key K, load func(context.Context) (V, error)) (V, bool, error) {
	c.mu.Lock()
	if v, ok := c.lru.Get(key); ok {
		c.mu.Unlock()
		return v, true, nil
	}
	epoch := c.epoch
	c.mu.Unlock()

	v, err := load(ctx)
	if err != nil {
		var zero V
		return zero, false, err
	}

	c.mu.Lock()
	if c.epoch == epoch {
		c.lru.Add(key, v)
	}
	c.mu.Unlock()
	return v, false, nil
}

func (c *TTL[K, V]) Invalidate(keys ...K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.epoch++
	for _, k := range keys {
		c.lru.Remove(k)
	}
}

func (c *TTL[K, V]) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.epoch++
	c.lru.Purge()
}

func (c *TTL[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}
