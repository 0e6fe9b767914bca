// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package lru

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/spaolacci/murmur3"

	cache "github.com/luxfi/lrucache"
)

var (
	_ cache.Cacher[struct{}, struct{}] = (*Sharded[struct{}, struct{}])(nil)

	// ErrInvalidShardCount is returned by NewSharded for a non-positive shard count.
	ErrInvalidShardCount = errors.New("shard count must be positive")

	// ErrNilHasher is returned by NewSharded when no hasher is supplied.
	ErrNilHasher = errors.New("nil hasher")
)

// Hasher maps a key to a shard selector. It must be deterministic and must
// not call back into the cache.
type Hasher[K comparable] func(K) uint64

// StringHasher hashes string keys with 64-bit murmur3.
func StringHasher(key string) uint64 {
	return murmur3.Sum64([]byte(key))
}

// Uint64Hasher hashes integer keys with 64-bit murmur3 over their
// little-endian encoding.
func Uint64Hasher(key uint64) uint64 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], key)
	return murmur3.Sum64(buf[:])
}

// Sharded spreads keys over independent Caches to reduce lock contention.
//
// Each key always maps to the same shard, so every operation on a single
// key stays linearizable. Recency and eviction are tracked per shard: a
// Put evicts the least recently used entry of the key's shard, which is
// not necessarily the globally least recently used entry.
type Sharded[K comparable, V any] struct {
	shards []*Cache[K, V]
	hash   Hasher[K]
}

// NewSharded creates shards caches of capacityPerShard entries each.
func NewSharded[K comparable, V any](
	shards int,
	capacityPerShard int,
	hash Hasher[K],
	opts ...Option[K, V],
) (*Sharded[K, V], error) {
	if shards <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidShardCount, shards)
	}
	if hash == nil {
		return nil, ErrNilHasher
	}
	s := &Sharded[K, V]{
		shards: make([]*Cache[K, V], shards),
		hash:   hash,
	}
	for i := range s.shards {
		c, err := NewCache[K, V](capacityPerShard, opts...)
		if err != nil {
			return nil, err
		}
		s.shards[i] = c
	}
	return s, nil
}

func (s *Sharded[K, V]) shard(key K) *Cache[K, V] {
	return s.shards[s.hash(key)%uint64(len(s.shards))]
}

// Get returns the value under key and promotes it within its shard.
func (s *Sharded[K, V]) Get(key K) (V, bool) {
	return s.shard(key).Get(key)
}

// Put inserts or replaces the value under key.
func (s *Sharded[K, V]) Put(key K, value V) {
	s.shard(key).Put(key, value)
}

// Peek returns the value under key without promoting it.
func (s *Sharded[K, V]) Peek(key K) (V, bool) {
	return s.shard(key).Peek(key)
}

// Contains reports whether key is present.
func (s *Sharded[K, V]) Contains(key K) bool {
	return s.shard(key).Contains(key)
}

// Evict removes the specified entry.
func (s *Sharded[K, V]) Evict(key K) {
	s.shard(key).Evict(key)
}

// Flush empties every shard. Shards are flushed one at a time, so a
// concurrent Put may survive the call.
func (s *Sharded[K, V]) Flush() {
	for _, c := range s.shards {
		c.Flush()
	}
}

// Len returns the number of entries summed across shards.
func (s *Sharded[K, V]) Len() int {
	n := 0
	for _, c := range s.shards {
		n += c.Len()
	}
	return n
}

// Cap returns the total capacity across shards.
func (s *Sharded[K, V]) Cap() int {
	// Every shard shares one capacity. NewSharded never builds zero shards,
	// but a zero Sharded has none.
	if len(s.shards) == 0 {
		return 0
	}
	return len(s.shards) * s.shards[0].Cap()
}

// PortionFilled returns fraction of total capacity currently filled.
func (s *Sharded[K, V]) PortionFilled() float64 {
	capacity := s.Cap()
	if capacity == 0 {
		return 0
	}
	return float64(s.Len()) / float64(capacity)
}
