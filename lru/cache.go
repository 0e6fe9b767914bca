// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package lru provides fixed-capacity least recently used caches.
package lru

import (
	"fmt"
	"sync"

	cache "github.com/luxfi/lrucache"
)

var _ cache.Cacher[struct{}, struct{}] = (*Cache[struct{}, struct{}])(nil)

// Option configures a Cache at construction.
type Option[K comparable, V any] func(*Cache[K, V])

// WithOnEvict registers fn to be called with every entry removed to make
// room for a new key. It runs after the cache lock is released, so fn may
// call back into the cache. Evict and Flush do not invoke it.
func WithOnEvict[K comparable, V any](fn func(K, V)) Option[K, V] {
	return func(c *Cache[K, V]) {
		c.onEvict = fn
	}
}

// Cache is a thread-safe LRU cache holding at most a fixed number of
// entries.
//
// A single mutex guards the index and the recency list for the full
// duration of every call, so operations are linearizable and no caller
// ever observes an entry mid-splice.
type Cache[K comparable, V any] struct {
	lock     sync.Mutex
	capacity int
	index    map[K]handle
	order    *recencyList[K, V]
	onEvict  func(K, V)
}

// NewCache creates a new LRU cache holding at most capacity entries.
// A non-positive capacity returns an error wrapping cache.ErrInvalidCapacity.
func NewCache[K comparable, V any](capacity int, opts ...Option[K, V]) (*Cache[K, V], error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: %d", cache.ErrInvalidCapacity, capacity)
	}
	c := &Cache[K, V]{
		capacity: capacity,
		index:    make(map[K]handle, min(capacity, maxPrealloc)),
		order:    newRecencyList[K, V](capacity),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Get returns the value stored under key and marks it as most recently
// used. A miss leaves the cache untouched.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.lock.Lock()
	defer c.lock.Unlock()

	h, ok := c.index[key]
	if !ok {
		var zero V
		return zero, false
	}
	c.order.moveToFront(h)
	return c.order.nodes[h].value, true
}

// Put inserts or replaces the value under key and marks it as most
// recently used. Inserting a new key into a full cache evicts the least
// recently used entry first.
func (c *Cache[K, V]) Put(key K, value V) {
	evictedKey, evictedValue, evicted := c.put(key, value)
	if evicted && c.onEvict != nil {
		c.onEvict(evictedKey, evictedValue)
	}
}

func (c *Cache[K, V]) put(key K, value V) (evictedKey K, evictedValue V, evicted bool) {
	c.lock.Lock()
	defer c.lock.Unlock()

	if h, ok := c.index[key]; ok {
		c.order.nodes[h].value = value
		c.order.moveToFront(h)
		return evictedKey, evictedValue, false
	}

	if c.order.len >= c.capacity {
		if oldest, ok := c.order.back(); ok {
			evictedKey = c.order.nodes[oldest].key
			evictedValue = c.order.nodes[oldest].value
			evicted = true
			c.removeLocked(oldest)
		}
	}

	h := c.order.alloc(key, value)
	c.order.pushFront(h)
	c.index[key] = h
	return evictedKey, evictedValue, evicted
}

// Peek returns the value stored under key without changing its recency.
func (c *Cache[K, V]) Peek(key K) (V, bool) {
	c.lock.Lock()
	defer c.lock.Unlock()

	if h, ok := c.index[key]; ok {
		return c.order.nodes[h].value, true
	}
	var zero V
	return zero, false
}

// Contains reports whether key is present without changing its recency.
func (c *Cache[K, V]) Contains(key K) bool {
	c.lock.Lock()
	defer c.lock.Unlock()

	_, ok := c.index[key]
	return ok
}

// Oldest returns the entry that the next capacity eviction would remove.
func (c *Cache[K, V]) Oldest() (K, V, bool) {
	c.lock.Lock()
	defer c.lock.Unlock()

	h, ok := c.order.back()
	if !ok {
		var (
			zeroK K
			zeroV V
		)
		return zeroK, zeroV, false
	}
	n := c.order.nodes[h]
	return n.key, n.value, true
}

// Keys returns the cached keys ordered from most to least recently used.
func (c *Cache[K, V]) Keys() []K {
	c.lock.Lock()
	defer c.lock.Unlock()

	keys := make([]K, 0, c.order.len)
	for h := c.order.nodes[headSentinel].next; h != tailSentinel; h = c.order.nodes[h].next {
		keys = append(keys, c.order.nodes[h].key)
	}
	return keys
}

// Evict removes the specified entry from the cache.
func (c *Cache[K, V]) Evict(key K) {
	c.lock.Lock()
	defer c.lock.Unlock()

	if h, ok := c.index[key]; ok {
		c.removeLocked(h)
	}
}

// Flush removes all entries from the cache.
func (c *Cache[K, V]) Flush() {
	c.lock.Lock()
	defer c.lock.Unlock()

	clear(c.index)
	c.order.reset()
}

// Len returns the number of elements in the cache.
func (c *Cache[K, V]) Len() int {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.order.len
}

// Cap returns the configured capacity.
func (c *Cache[K, V]) Cap() int {
	return c.capacity
}

// PortionFilled returns fraction of cache currently filled.
func (c *Cache[K, V]) PortionFilled() float64 {
	c.lock.Lock()
	defer c.lock.Unlock()
	return float64(c.order.len) / float64(c.capacity)
}

// removeLocked drops h from both the index and the recency list.
func (c *Cache[K, V]) removeLocked(h handle) {
	delete(c.index, c.order.nodes[h].key)
	c.order.unlink(h)
	c.order.release(h)
}
