// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Command lrudemo replays a small LRU workload and logs what the cache does.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/luxfi/lrucache/config"
	"github.com/luxfi/lrucache/lru"
	"github.com/luxfi/lrucache/metercacher"
)

func main() {
	if err := run(os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run replays the workload, writing logs to w.
func run(w io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := newLogger(cfg, w)

	inner, err := lru.NewCache(cfg.Capacity, lru.WithOnEvict(func(k, v int) {
		log.Info("evicted", "key", k, "value", v)
	}))
	if err != nil {
		return err
	}
	registry := prometheus.NewRegistry()
	c, err := metercacher.New[int, int](cfg.MetricsNamespace, registry, inner)
	if err != nil {
		return err
	}

	get := func(k int) {
		if v, ok := c.Get(k); ok {
			log.Info("get", "key", k, "found", true, "value", v)
			return
		}
		log.Info("get", "key", k, "found", false)
	}
	put := func(k, v int) {
		c.Put(k, v)
		log.Debug("put", "key", k, "value", v, "order", inner.Keys())
	}

	put(1, 1)
	put(2, 2)
	get(1)
	put(3, 3)
	get(2)
	put(4, 4)
	get(1)
	get(3)
	get(4)

	sharded, err := lru.NewSharded[string, int](cfg.Shards, cfg.Capacity, lru.StringHasher)
	if err != nil {
		return err
	}
	for i := range cfg.Shards * cfg.Capacity * 2 {
		sharded.Put("key-"+strconv.Itoa(i), i)
	}
	log.Info("sharded",
		"shards", cfg.Shards,
		"len", sharded.Len(),
		"portion_filled", sharded.PortionFilled(),
	)

	families, err := registry.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			var value float64
			switch {
			case m.GetCounter() != nil:
				value = m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				value = m.GetGauge().GetValue()
			}
			attrs := []any{"name", mf.GetName(), "value", value}
			for _, lp := range m.GetLabel() {
				attrs = append(attrs, lp.GetName(), lp.GetValue())
			}
			log.Info("metric", attrs...)
		}
	}
	return nil
}

func newLogger(cfg config.Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	var h slog.Handler
	switch cfg.LogFormat {
	case "json":
		h = slog.NewJSONHandler(w, opts)
	default:
		h = slog.NewTextHandler(w, opts)
	}
	return slog.New(h).With("component", "lrudemo")
}
