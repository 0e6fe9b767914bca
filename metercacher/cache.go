// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package metercacher provides metered cache implementations.
package metercacher

import (
	"time"

	"github.com/luxfi/metric"
	"github.com/prometheus/client_golang/prometheus"

	cache "github.com/luxfi/lrucache"
)

var _ cache.Cacher[struct{}, struct{}] = (*Cache[struct{}, struct{}])(nil)

// Cache wraps a Cacher with metrics. Timings and gauges are recorded
// outside the wrapped cache's lock.
type Cache[K comparable, V any] struct {
	cache.Cacher[K, V]
	metrics *cacheMetrics
}

// New creates a new metered cache wrapper registering its collectors with
// registry under namespace.
func New[K comparable, V any](
	namespace string,
	registry metric.Registry,
	c cache.Cacher[K, V],
) (*Cache[K, V], error) {
	metrics, err := newMetrics(namespace, registry)
	if err != nil {
		return nil, err
	}
	return &Cache[K, V]{
		Cacher:  c,
		metrics: metrics,
	}, nil
}

func (c *Cache[K, V]) Put(key K, value V) {
	start := time.Now()
	c.Cacher.Put(key, value)
	putDuration := time.Since(start)

	c.metrics.putCount.Inc()
	c.metrics.putTime.Add(float64(putDuration))
	c.updateFill()
}

func (c *Cache[K, V]) Get(key K) (V, bool) {
	start := time.Now()
	value, has := c.Cacher.Get(key)
	getDuration := time.Since(start)

	labels := missLabels
	if has {
		labels = hitLabels
	}
	c.metrics.getCount.With(prometheus.Labels(labels)).Inc()
	c.metrics.getTime.With(prometheus.Labels(labels)).Add(float64(getDuration))

	return value, has
}

func (c *Cache[K, _]) Evict(key K) {
	c.Cacher.Evict(key)
	c.updateFill()
}

func (c *Cache[_, _]) Flush() {
	c.Cacher.Flush()
	c.updateFill()
}

func (c *Cache[_, _]) updateFill() {
	c.metrics.len.Set(float64(c.Cacher.Len()))
	c.metrics.portionFilled.Set(c.Cacher.PortionFilled())
}
