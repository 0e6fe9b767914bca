// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package config loads process configuration from the environment.
package config

import (
	"errors"
	"log/slog"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// ErrParsingConfig is returned when the environment cannot be parsed.
var ErrParsingConfig = errors.New("failed to parse config")

// Config holds the settings of a process embedding an LRU cache.
type Config struct {
	Capacity         int        `env:"LRU_CAPACITY" envDefault:"2"`
	Shards           int        `env:"LRU_SHARDS" envDefault:"4"`
	MetricsNamespace string     `env:"LRU_METRICS_NAMESPACE" envDefault:"lrudemo"`
	LogFormat        string     `env:"LOG_FORMAT" envDefault:"text"`
	LogLevel         slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
}

// Load reads an optional .env file from the working directory, then parses
// the environment into a Config. Capacity values are validated by the cache
// constructors, not here.
func Load() (Config, error) {
	// A missing .env file is not an error.
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, errors.Join(ErrParsingConfig, err)
	}
	return cfg, nil
}
