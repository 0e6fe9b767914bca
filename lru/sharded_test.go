package lru

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	cache "github.com/luxfi/lrucache"
)

func TestNewShardedInvalid(t *testing.T) {
	_, err := NewSharded[string, int](0, 4, StringHasher)
	require.ErrorIs(t, err, ErrInvalidShardCount)

	_, err = NewSharded[string, int](4, 0, StringHasher)
	require.ErrorIs(t, err, cache.ErrInvalidCapacity)

	_, err = NewSharded[string, int](4, 4, nil)
	require.ErrorIs(t, err, ErrNilHasher)
}

func TestShardedRoutesKeysToOneShard(t *testing.T) {
	require := require.New(t)

	s, err := NewSharded[string, int](8, 4, StringHasher)
	require.NoError(err)
	require.Equal(32, s.Cap())

	for i := range 16 {
		s.Put(fmt.Sprintf("key-%d", i), i)
	}

	for i := range 16 {
		key := fmt.Sprintf("key-%d", i)
		holders := 0
		for _, c := range s.shards {
			if c.Contains(key) {
				holders++
			}
		}
		require.LessOrEqual(holders, 1, key)
		if s.Contains(key) {
			v, ok := s.Peek(key)
			require.True(ok)
			require.Equal(i, v)
		}
	}
	require.LessOrEqual(s.Len(), s.Cap())

	s.Flush()
	require.Zero(s.Len())
	require.Zero(s.PortionFilled())
}

func TestShardedSingleShardIsPlainLRU(t *testing.T) {
	require := require.New(t)

	s, err := NewSharded[uint64, uint64](1, 2, Uint64Hasher)
	require.NoError(err)

	s.Put(1, 1)
	s.Put(2, 2)
	_, ok := s.Get(1)
	require.True(ok)
	s.Put(3, 3)

	require.False(s.Contains(2))
	require.True(s.Contains(1))
	require.True(s.Contains(3))

	s.Evict(1)
	require.Equal(1, s.Len())
	require.Equal(0.5, s.PortionFilled())
}

func TestShardedEvictionCallback(t *testing.T) {
	require := require.New(t)

	var (
		mu      sync.Mutex
		evicted int
	)
	s, err := NewSharded[uint64, string](4, 1, Uint64Hasher, WithOnEvict(func(uint64, string) {
		mu.Lock()
		evicted++
		mu.Unlock()
	}))
	require.NoError(err)

	for i := range uint64(100) {
		s.Put(i, "v")
	}
	require.Equal(4, s.Len())
	require.Equal(96, evicted)
}

func TestHashersAreDeterministic(t *testing.T) {
	require.Equal(t, StringHasher("lux"), StringHasher("lux"))
	require.NotEqual(t, StringHasher("a"), StringHasher("b"))
	require.Equal(t, Uint64Hasher(42), Uint64Hasher(42))
}

func TestShardedConcurrent(t *testing.T) {
	s, err := NewSharded[string, int](16, 8, StringHasher)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for g := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 1000 {
				key := fmt.Sprintf("%d-%d", g, i%64)
				s.Put(key, i)
				s.Get(key)
			}
		}()
	}
	wg.Wait()

	require.LessOrEqual(t, s.Len(), s.Cap())
	for _, c := range s.shards {
		requireConsistent(t, c)
	}
}

func TestShardedZeroValueSizing(t *testing.T) {
	require := require.New(t)

	var s Sharded[string, int]
	require.Zero(s.Cap())
	require.Zero(s.Len())
	require.Zero(s.PortionFilled())
}
