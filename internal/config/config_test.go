package config

import (
	"log/slog"
	"testing"
	"time"

	"gotest.tools/v3/assert"
)

func validConfig() Config {
	return Config{
		Address:      DefaultAddress,
		CacheTTL:     DefaultCacheTTL,
		IndexPageLen: DefaultIndexPageLen,
		FeedMaxItems: DefaultFeedMaxItems,
		LogLevel:     DefaultLogLevel,
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{name: "Defaults", modify: func(*Config) {}},
		{name: "ZeroTTL", modify: func(c *Config) { c.CacheTTL = 0 }, wantErr: "cache_ttl must be positive, got 0"},
		{name: "NegativePageLen", modify: func(c *Config) { c.IndexPageLen = -1 }, wantErr: "index_page_len must be positive, got -1"},
		{name: "ZeroFeedItems", modify: func(c *Config) { c.FeedMaxItems = 0 }, wantErr: "feed_max_items must be positive, got 0"},
		{name: "BadLevel", modify: func(c *Config) { c.LogLevel = "loud" }, wantErr: `unknown log level "loud"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.modify(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NilError(t, err)
			} else {
				assert.Error(t, err, tt.wantErr)
			}
		})
	}
}

func TestTTL(t *testing.T) {
	cfg := validConfig()
	cfg.CacheTTL = 90
	assert.Equal(t, cfg.TTL(), 90*time.Second)
}

func TestParseLevel(t *testing.T) {
	for name, want := range map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"":      slog.LevelWarn,
		"error": slog.LevelError,
	} {
		got, err := ParseLevel(name)
		assert.NilError(t, err)
		assert.Equal(t, got, want, name)
	}
}
