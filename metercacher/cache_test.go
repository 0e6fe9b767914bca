package metercacher

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/luxfi/metric"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/lrucache/lru"
)

func newMetered(t *testing.T, capacity int) *Cache[string, int] {
	t.Helper()
	inner, err := lru.NewCache[string, int](capacity)
	require.NoError(t, err)
	c, err := New[string, int]("test", prometheus.NewRegistry(), inner)
	require.NoError(t, err)
	return c
}

func TestMeteredCacheCountsHitsAndMisses(t *testing.T) {
	require := require.New(t)

	c := newMetered(t, 2)
	c.Put("a", 1)
	c.Put("b", 2)

	v, ok := c.Get("a")
	require.True(ok)
	require.Equal(1, v)
	_, ok = c.Get("missing")
	require.False(ok)
	_, ok = c.Get("missing")
	require.False(ok)

	require.Equal(1.0, testutil.ToFloat64(c.metrics.getCount.With(prometheus.Labels(hitLabels))))
	require.Equal(2.0, testutil.ToFloat64(c.metrics.getCount.With(prometheus.Labels(missLabels))))
	require.Equal(2.0, testutil.ToFloat64(c.metrics.putCount))
	require.Equal(2.0, testutil.ToFloat64(c.metrics.len))
	require.Equal(1.0, testutil.ToFloat64(c.metrics.portionFilled))
}

func TestMeteredCacheTracksFill(t *testing.T) {
	require := require.New(t)

	c := newMetered(t, 4)
	c.Put("a", 1)
	c.Put("b", 2)
	require.Equal(0.5, testutil.ToFloat64(c.metrics.portionFilled))

	c.Evict("a")
	require.Equal(1.0, testutil.ToFloat64(c.metrics.len))

	c.Flush()
	require.Zero(testutil.ToFloat64(c.metrics.len))
	require.Zero(testutil.ToFloat64(c.metrics.portionFilled))
}

func TestMeteredCacheKeepsLRUSemantics(t *testing.T) {
	require := require.New(t)

	c := newMetered(t, 2)
	c.Put("a", 1)
	c.Put("b", 2)
	_, _ = c.Get("a")
	c.Put("c", 3)

	_, ok := c.Get("b")
	require.False(ok)
	require.Equal(2, c.Len())
}

func TestNewDuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	inner, err := lru.NewCache[string, int](1)
	require.NoError(t, err)

	_, err = New[string, int]("dup", reg, inner)
	require.NoError(t, err)

	_, err = New[string, int]("dup", reg, inner)
	require.Error(t, err)
}

func TestNewRegistersOnMetricRegistry(t *testing.T) {
	require := require.New(t)

	var reg metric.Registry = prometheus.NewRegistry()
	inner, err := lru.NewCache[string, int](2)
	require.NoError(err)

	c, err := New[string, int]("lux", reg, inner)
	require.NoError(err)
	c.Put("a", 1)
	_, _ = c.Get("a")
	_, _ = c.Get("b")

	families, err := reg.Gather()
	require.NoError(err)

	names := make([]string, 0, len(families))
	for _, mf := range families {
		names = append(names, mf.GetName())
	}
	require.Subset(names, []string{
		"lux_get_count",
		"lux_get_time",
		"lux_put_count",
		"lux_put_time",
		"lux_len",
		"lux_portion_filled",
	})
	require.Equal(1.0, testutil.ToFloat64(c.metrics.getCount.With(prometheus.Labels(missLabels))))
}
