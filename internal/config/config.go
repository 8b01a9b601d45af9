// Package config assembles crawler settings from built-in defaults, an
// optional YAML file and the process environment.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Seed              string        `yaml:"seed"`
	MaxPages          int           `yaml:"max_pages"`
	MaxDepthPerDomain int           `yaml:"max_depth_per_domain"`
	MaxDomainHops     int           `yaml:"max_domain_hops"`
	Workers           int           `yaml:"workers"`
	Fetch             FetchConfig   `yaml:"fetch"`
	Output            OutputConfig  `yaml:"output"`
	Logging           LoggingConfig `yaml:"logging"`
	Metrics           MetricsConfig `yaml:"metrics"`
}

type FetchConfig struct {
	UserAgent          string   `yaml:"user_agent"`
	Timeout            Duration `yaml:"timeout"`
	MaxBodyBytes       int64    `yaml:"max_body_bytes"`
	MaxRedirects       int      `yaml:"max_redirects"`
	InsecureSkipVerify bool     `yaml:"insecure_skip_verify"`
	RequestsPerSecond  float64  `yaml:"requests_per_second"`
}

type OutputConfig struct {
	File            string `yaml:"file"`
	MongoURI        string `yaml:"mongo_uri"`
	MongoDatabase   string `yaml:"mongo_database"`
	MongoCollection string `yaml:"mongo_collection"`
	SQLitePath      string `yaml:"sqlite_path"`
}

type LoggingConfig struct {
	Level      string `yaml:"level"`
	Structured bool   `yaml:"structured"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

type MetricsConfig struct {
	Addr          string   `yaml:"addr"`
	StatsInterval Duration `yaml:"stats_interval"`
}

// Default returns the settings used when nothing else is configured.
func Default() Config {
	return Config{
		Seed:              "https://localhost",
		MaxPages:          10000000,
		MaxDepthPerDomain: 3,
		MaxDomainHops:     10,
		Workers:           12,
		Fetch: FetchConfig{
			UserAgent:          "Mozilla/5.0 (compatible; SmartCrawler/1.0)",
			Timeout:            DurationFrom(10 * time.Second),
			MaxBodyBytes:       1 << 20,
			MaxRedirects:       10,
			InsecureSkipVerify: true,
		},
		Output: OutputConfig{
			File:            "sites.txt",
			MongoDatabase:   "webCrawlerArchive",
			MongoCollection: "visited",
		},
		Logging: LoggingConfig{
			Level:      "info",
			MaxSizeMB:  200,
			MaxBackups: 3,
			MaxAgeDays: 28,
			Compress:   true,
		},
		Metrics: MetricsConfig{
			StatsInterval: DurationFrom(time.Minute),
		},
	}
}

// Load reads a YAML file on top of the defaults. An empty path yields the
// defaults unchanged.
func Load(path string) (*Config, error) {
	if path == "" {
		cfg := Default()
		return &cfg, nil
	}
	fh, err := os.Open(path) //nolint:gosec // operator-supplied config path
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer fh.Close()
	return LoadFromReader(fh)
}

// LoadFromReader decodes YAML from r on top of the defaults.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := Default()
	if err := decodeYAML(r, &cfg); err != nil {
		return nil, err
	}
	cfg.normalise()
	return &cfg, nil
}

func decodeYAML(r io.Reader, cfg *Config) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode config: %w", err)
	}
	return nil
}

// ApplyEnv loads envFiles (".env" when none are given) if present and then
// overrides settings from CRAWL_* and MONGODB_* variables.
func (c *Config) ApplyEnv(envFiles ...string) error {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}

	setString(&c.Seed, "CRAWL_SEED")
	setString(&c.Output.File, "CRAWL_OUTPUT")
	setString(&c.Fetch.UserAgent, "CRAWL_USER_AGENT")
	setString(&c.Output.MongoURI, "MONGODB_URI")
	setString(&c.Output.MongoDatabase, "MONGODB_DATABASE")
	setString(&c.Output.MongoCollection, "MONGODB_COLLECTION")
	setString(&c.Output.SQLitePath, "CRAWL_SQLITE_PATH")
	setString(&c.Metrics.Addr, "CRAWL_METRICS_ADDR")
	setString(&c.Logging.Level, "CRAWL_LOG_LEVEL")

	ints := []struct {
		dst *int
		key string
	}{
		{&c.MaxPages, "CRAWL_MAX_PAGES"},
		{&c.MaxDepthPerDomain, "CRAWL_MAX_DEPTH"},
		{&c.MaxDomainHops, "CRAWL_MAX_DOMAIN_HOPS"},
		{&c.Workers, "CRAWL_WORKERS"},
	}
	for _, v := range ints {
		raw, ok := os.LookupEnv(v.key)
		if !ok || strings.TrimSpace(raw) == "" {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return fmt.Errorf("%s: %w", v.key, err)
		}
		*v.dst = n
	}
	c.normalise()
	return nil
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		*dst = strings.TrimSpace(v)
	}
}

// Validate reports the first setting that cannot be used.
func (c Config) Validate() error {
	switch {
	case c.Seed == "":
		return ErrNoSeed
	case c.MaxPages < 1:
		return ErrInvalidMaxPages
	case c.Workers < 1:
		return ErrInvalidWorkers
	case c.MaxDepthPerDomain < 0:
		return ErrInvalidDepth
	case c.MaxDomainHops < 0:
		return ErrInvalidHops
	case c.Fetch.Timeout.Duration <= 0:
		return ErrInvalidTimeout
	case c.Fetch.MaxBodyBytes < 0:
		return ErrInvalidMaxBody
	case c.Fetch.MaxRedirects < 0:
		return ErrInvalidRedirects
	case c.Fetch.RequestsPerSecond < 0:
		return ErrInvalidRate
	case c.Output.File == "":
		return ErrInvalidOutput
	case c.Metrics.StatsInterval.Duration < 0:
		return ErrInvalidStatsPeriod
	}
	return nil
}

func (c *Config) normalise() {
	c.Seed = strings.TrimSpace(c.Seed)
	c.Fetch.UserAgent = strings.TrimSpace(c.Fetch.UserAgent)
	c.Output.File = strings.TrimSpace(c.Output.File)
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
}
