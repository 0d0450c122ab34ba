// Copyright (c) 2025-2026 Monarch360
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"log/slog"
	"time"
)

// Config holds configuration for cache creation.
type Config struct {
	// RedisURL selects the Redis backend when non-empty.
	RedisURL string

	// Prefix is the key prefix for Redis.
	Prefix string

	// DefaultTTL is the default TTL for cache entries.
	DefaultTTL time.Duration

	// CleanupInterval is the interval for expired entry cleanup (memory backend).
	CleanupInterval time.Duration

	// FallbackToMemory falls back to the in-memory backend when Redis is
	// configured but unreachable, instead of failing startup.
	FallbackToMemory bool
}

// DefaultConfig returns default cache configuration: in-memory, 24h TTL.
func DefaultConfig() Config {
	return Config{
		DefaultTTL:      24 * time.Hour,
		CleanupInterval: time.Minute,
	}
}

// New creates a cache from the provided configuration.
func New(cfg Config) (Cacher, error) {
	if cfg.RedisURL != "" {
		opts := DefaultRedisCacheOptions()
		opts.URL = cfg.RedisURL
		if cfg.Prefix != "" {
			opts.Prefix = cfg.Prefix
		}
		if cfg.DefaultTTL > 0 {
			opts.DefaultTTL = cfg.DefaultTTL
		}

		redisCache, err := NewRedisCache(opts)
		if err == nil {
			return redisCache, nil
		}
		if !cfg.FallbackToMemory {
			return nil, err
		}
		slog.Warn("redis unavailable, falling back to memory cache", "error", err)
	}

	return NewMemoryCache(MemoryCacheOptions{
		DefaultTTL:      cfg.DefaultTTL,
		CleanupInterval: cfg.CleanupInterval,
	}), nil
}
