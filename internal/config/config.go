package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Config holds the server settings decoded from flags, environment and the
// optional config file.
type Config struct {
	Directory    string `mapstructure:"directory"`
	Address      string `mapstructure:"address"`
	CacheTTL     int    `mapstructure:"cache_ttl"`
	IndexPageLen int    `mapstructure:"index_page_len"`
	FeedMaxItems int    `mapstructure:"feed_max_items"`
	Watch        bool   `mapstructure:"watch"`
	LogLevel     string `mapstructure:"log_level"`
}

const (
	DefaultAddress      = "127.0.0.1:4198"
	DefaultCacheTTL     = 300
	DefaultIndexPageLen = 10
	DefaultFeedMaxItems = 50
	DefaultLogLevel     = "warn"
)

// Validate rejects settings the server cannot run with.
func (c Config) Validate() error {
	if c.CacheTTL <= 0 {
		return fmt.Errorf("cache_ttl must be positive, got %d", c.CacheTTL)
	}
	if c.IndexPageLen <= 0 {
		return fmt.Errorf("index_page_len must be positive, got %d", c.IndexPageLen)
	}
	if c.FeedMaxItems <= 0 {
		return fmt.Errorf("feed_max_items must be positive, got %d", c.FeedMaxItems)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// TTL returns the cache time-to-live as a duration.
func (c Config) TTL() time.Duration {
	return time.Duration(c.CacheTTL) * time.Second
}

// ParseLevel maps a log level name onto a slog level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug", "trace":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "", "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelWarn, fmt.Errorf("unknown log level %q", name)
}
