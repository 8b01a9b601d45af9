package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	t.Parallel()

	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "https://localhost", cfg.Seed)
	assert.Equal(t, 10000000, cfg.MaxPages)
	assert.Equal(t, 3, cfg.MaxDepthPerDomain)
	assert.Equal(t, 10, cfg.MaxDomainHops)
	assert.Equal(t, 12, cfg.Workers)
	assert.Equal(t, 10*time.Second, cfg.Fetch.Timeout.Duration)
	assert.Equal(t, "sites.txt", cfg.Output.File)
}

func TestLoadFromReader(t *testing.T) {
	t.Parallel()

	t.Run("overrides only the given fields", func(t *testing.T) {
		t.Parallel()
		cfg, err := LoadFromReader(strings.NewReader(`
seed: "  https://example.com  "
max_pages: 5
fetch:
  timeout: 3s
logging:
  level: DEBUG
`))
		require.NoError(t, err)
		assert.Equal(t, "https://example.com", cfg.Seed)
		assert.Equal(t, 5, cfg.MaxPages)
		assert.Equal(t, 3*time.Second, cfg.Fetch.Timeout.Duration)
		assert.Equal(t, "debug", cfg.Logging.Level)
		assert.Equal(t, 12, cfg.Workers)
	})

	t.Run("numeric durations are seconds", func(t *testing.T) {
		t.Parallel()
		cfg, err := LoadFromReader(strings.NewReader("metrics:\n  stats_interval: 30\n"))
		require.NoError(t, err)
		assert.Equal(t, 30*time.Second, cfg.Metrics.StatsInterval.Duration)
	})

	t.Run("empty document keeps defaults", func(t *testing.T) {
		t.Parallel()
		cfg, err := LoadFromReader(strings.NewReader(""))
		require.NoError(t, err)
		assert.Equal(t, Default(), *cfg)
	})

	t.Run("unknown fields are rejected", func(t *testing.T) {
		t.Parallel()
		_, err := LoadFromReader(strings.NewReader("max_pagez: 5\n"))
		assert.Error(t, err)
	})

	t.Run("bad duration", func(t *testing.T) {
		t.Parallel()
		_, err := LoadFromReader(strings.NewReader("fetch:\n  timeout: soon\n"))
		assert.Error(t, err)
	})
}

func TestLoad(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "crawl.yaml")
	require.NoError(t, os.WriteFile(path, []byte("workers: 4\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Workers)

	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.Workers)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"empty seed", func(c *Config) { c.Seed = "" }, ErrNoSeed},
		{"zero pages", func(c *Config) { c.MaxPages = 0 }, ErrInvalidMaxPages},
		{"zero workers", func(c *Config) { c.Workers = 0 }, ErrInvalidWorkers},
		{"negative depth", func(c *Config) { c.MaxDepthPerDomain = -1 }, ErrInvalidDepth},
		{"negative hops", func(c *Config) { c.MaxDomainHops = -1 }, ErrInvalidHops},
		{"zero timeout", func(c *Config) { c.Fetch.Timeout = Duration{} }, ErrInvalidTimeout},
		{"negative body cap", func(c *Config) { c.Fetch.MaxBodyBytes = -1 }, ErrInvalidMaxBody},
		{"negative redirects", func(c *Config) { c.Fetch.MaxRedirects = -1 }, ErrInvalidRedirects},
		{"negative rate", func(c *Config) { c.Fetch.RequestsPerSecond = -0.5 }, ErrInvalidRate},
		{"no output file", func(c *Config) { c.Output.File = "" }, ErrInvalidOutput},
		{"negative stats interval", func(c *Config) { c.Metrics.StatsInterval = DurationFrom(-time.Second) }, ErrInvalidStatsPeriod},
		{"zero depth and hops are allowed", func(c *Config) { c.MaxDepthPerDomain, c.MaxDomainHops = 0, 0 }, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("CRAWL_SEED", "https://env.example")
	t.Setenv("CRAWL_MAX_PAGES", "42")
	t.Setenv("CRAWL_WORKERS", " 3 ")
	t.Setenv("MONGODB_URI", "mongodb://db:27017")

	dotenv := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(dotenv, []byte("CRAWL_MAX_DEPTH=7\nCRAWL_SEED=https://ignored.example\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("CRAWL_MAX_DEPTH") })

	cfg := Default()
	require.NoError(t, cfg.ApplyEnv(dotenv))

	assert.Equal(t, "https://env.example", cfg.Seed, "process environment wins over .env")
	assert.Equal(t, 42, cfg.MaxPages)
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, 7, cfg.MaxDepthPerDomain)
	assert.Equal(t, "mongodb://db:27017", cfg.Output.MongoURI)
}

func TestApplyEnvRejectsBadNumber(t *testing.T) {
	t.Setenv("CRAWL_MAX_PAGES", "lots")

	cfg := Default()
	err := cfg.ApplyEnv(filepath.Join(t.TempDir(), "absent.env"))
	assert.ErrorContains(t, err, "CRAWL_MAX_PAGES")
}
