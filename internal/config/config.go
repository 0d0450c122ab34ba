// Copyright (c) 2025-2026 Monarch360
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	// Portal / remote storage
	SiteURL        string `env:"SIDENAV_SITE_URL,required"`                     // Portal site base URL
	APIToken       string `env:"SIDENAV_API_TOKEN"`                             // Bearer token for the asset storage REST surface
	AssetLibrary   string `env:"SIDENAV_ASSET_LIBRARY" envDefault:"SiteAssets"` // Asset library holding the config file
	ConfigFileName string `env:"SIDENAV_CONFIG_FILE" envDefault:"monarchSidebarNav.json"`
	UserName       string `env:"SIDENAV_USER_DISPLAY_NAME"` // Display name stamped into modifiedBy

	// Server
	ServerHost string `env:"SIDENAV_SERVER_HOST" envDefault:"localhost"`
	ServerPort int    `env:"SIDENAV_SERVER_PORT" envDefault:"8080"`
	Env        string `env:"SIDENAV_ENV" envDefault:"development"`
	LogLevel   string `env:"SIDENAV_LOG_LEVEL" envDefault:"info"`

	// Cache configuration
	RedisURL    string `env:"SIDENAV_REDIS_URL"` // Optional Redis URL for shared caching
	CachePrefix string `env:"SIDENAV_CACHE_PREFIX" envDefault:"sidenav:"`
	CacheTTL    int    `env:"SIDENAV_CACHE_TTL" envDefault:"86400"` // Cache TTL in seconds (default 24h)

	// Remote retry policy
	RetryAttempts int `env:"SIDENAV_RETRY_ATTEMPTS" envDefault:"2"` // Attempts per remote load
	RetryDelay    int `env:"SIDENAV_RETRY_DELAY" envDefault:"2"`    // Fixed delay between attempts, seconds

	// Local device preferences database
	PrefsDBPath string `env:"SIDENAV_PREFS_DB_PATH" envDefault:"./data/sidenav.db"`

	// Background cache refresh cron expression, empty disables
	RefreshSchedule string `env:"SIDENAV_REFRESH_SCHEDULE" envDefault:"@every 15m"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// CacheTTLDuration returns the cache TTL as a duration.
func (c Config) CacheTTLDuration() time.Duration {
	return time.Duration(c.CacheTTL) * time.Second
}

// RetryDelayDuration returns the fixed retry delay as a duration.
func (c Config) RetryDelayDuration() time.Duration {
	return time.Duration(c.RetryDelay) * time.Second
}

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	u, err := url.Parse(cfg.SiteURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("SIDENAV_SITE_URL must be an absolute URL, got %q", cfg.SiteURL)
	}

	if cfg.RetryAttempts < 1 {
		return nil, fmt.Errorf("SIDENAV_RETRY_ATTEMPTS must be at least 1, got %d", cfg.RetryAttempts)
	}

	return cfg, nil
}
