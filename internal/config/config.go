// Package config loads service configuration from an optional YAML or JSON
// file, then applies STAYPRICE_* environment overrides.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	yaml "gopkg.in/yaml.v3"

	"github.com/happyhackingspace/stayprice/analytics"
	"github.com/happyhackingspace/stayprice/listing"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "STAYPRICE_"

// Config holds the configuration for the CLI and the HTTP service.
type Config struct {
	Model   ModelConfig   `yaml:"model" json:"model"`
	Market  MarketConfig  `yaml:"market" json:"market"`
	History HistoryConfig `yaml:"history" json:"history"`
	Server  ServerConfig  `yaml:"server" json:"server"`
	Fetch   FetchConfig   `yaml:"fetch" json:"fetch"`
}

// ModelConfig locates the model and tunes feature assembly.
type ModelConfig struct {
	// Path is a bundle file or an artifact folder. Empty searches for
	// model.json from the working directory up.
	Path string `yaml:"path" json:"path"`
	// ReferenceDate is the YYYY-MM-DD day host tenure is measured against.
	ReferenceDate           string  `yaml:"reference_date" json:"reference_date"`
	ReviewsPerMonthFallback float64 `yaml:"reviews_per_month_fallback" json:"reviews_per_month_fallback"`
	NeighbourhoodGroup      string  `yaml:"neighbourhood_group" json:"neighbourhood_group"`
}

// MarketConfig overrides the neighbourhood price table.
type MarketConfig struct {
	Neighbourhoods map[string]analytics.MarketBand `yaml:"neighbourhoods" json:"neighbourhoods"`
	Fallback       analytics.MarketBand            `yaml:"fallback" json:"fallback"`
}

// HistoryConfig enables prediction history. Both stores may be active.
type HistoryConfig struct {
	DatabaseURL string `yaml:"database_url" json:"database_url"`
	CSVPath     string `yaml:"csv_path" json:"csv_path"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Addr         string        `yaml:"addr" json:"addr"`
	MaxBodyBytes int64         `yaml:"max_body_bytes" json:"max_body_bytes"`
	ReadTimeout  time.Duration `yaml:"read_timeout" json:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" json:"write_timeout"`
	// RateLimit is the allowed requests per second across all clients; 0
	// disables limiting.
	RateLimit float64 `yaml:"rate_limit" json:"rate_limit"`
	RateBurst int     `yaml:"rate_burst" json:"rate_burst"`
}

// FetchConfig holds listing import configuration.
type FetchConfig struct {
	UserAgent   string        `yaml:"user_agent" json:"user_agent"`
	Timeout     time.Duration `yaml:"timeout" json:"timeout"`
	Render      bool          `yaml:"render" json:"render"`
	CheckRobots bool          `yaml:"check_robots" json:"check_robots"`
}

// Default returns the built-in configuration.
func Default() *Config {
	opts := listing.DefaultOptions()
	return &Config{
		Model: ModelConfig{
			ReferenceDate:           opts.ReferenceDate.Format(time.DateOnly),
			ReviewsPerMonthFallback: opts.ReviewsPerMonthFallback,
			NeighbourhoodGroup:      opts.NeighbourhoodGroup,
		},
		Market: MarketConfig{
			Fallback: analytics.DefaultFallback,
		},
		Server: ServerConfig{
			Addr:         ":8080",
			MaxBodyBytes: 1 << 20,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second,
			RateBurst:    20,
		},
		Fetch: FetchConfig{
			UserAgent:   "stayprice/1.0",
			Timeout:     30 * time.Second,
			CheckRobots: true,
		},
	}
}

// Load reads the configuration file at path (skipped when empty), applies
// environment overrides and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()
	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, c); err != nil {
			return fmt.Errorf("parse YAML config file %s: %w", path, err)
		}
	case ".json":
		if err := json.Unmarshal(data, c); err != nil {
			return fmt.Errorf("parse JSON config file %s: %w", path, err)
		}
	default:
		return fmt.Errorf("unsupported config file format: %s (supported: .yaml, .yml, .json)", ext)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Model.Path = GetStringEnv(EnvPrefix+"MODEL_PATH", c.Model.Path)
	c.Model.ReferenceDate = GetStringEnv(EnvPrefix+"REFERENCE_DATE", c.Model.ReferenceDate)
	c.Model.ReviewsPerMonthFallback = GetFloatEnv(EnvPrefix+"REVIEWS_PER_MONTH_FALLBACK", c.Model.ReviewsPerMonthFallback)
	c.Model.NeighbourhoodGroup = GetStringEnv(EnvPrefix+"NEIGHBOURHOOD_GROUP", c.Model.NeighbourhoodGroup)

	c.History.DatabaseURL = GetStringEnv(EnvPrefix+"DATABASE_URL", c.History.DatabaseURL)
	c.History.CSVPath = GetStringEnv(EnvPrefix+"HISTORY_CSV", c.History.CSVPath)

	c.Server.Addr = GetStringEnv(EnvPrefix+"ADDR", c.Server.Addr)
	c.Server.MaxBodyBytes = int64(GetIntEnv(EnvPrefix+"MAX_BODY_BYTES", int(c.Server.MaxBodyBytes)))
	c.Server.ReadTimeout = GetDurationEnv(EnvPrefix+"READ_TIMEOUT", c.Server.ReadTimeout)
	c.Server.WriteTimeout = GetDurationEnv(EnvPrefix+"WRITE_TIMEOUT", c.Server.WriteTimeout)
	c.Server.RateLimit = GetFloatEnv(EnvPrefix+"RATE_LIMIT", c.Server.RateLimit)
	c.Server.RateBurst = GetIntEnv(EnvPrefix+"RATE_BURST", c.Server.RateBurst)

	c.Fetch.UserAgent = GetStringEnv(EnvPrefix+"USER_AGENT", c.Fetch.UserAgent)
	c.Fetch.Timeout = GetDurationEnv(EnvPrefix+"FETCH_TIMEOUT", c.Fetch.Timeout)
	c.Fetch.Render = GetBoolEnv(EnvPrefix+"RENDER", c.Fetch.Render)
	c.Fetch.CheckRobots = GetBoolEnv(EnvPrefix+"CHECK_ROBOTS", c.Fetch.CheckRobots)
}

// Validate checks values that would otherwise fail later.
func (c *Config) Validate() error {
	if _, err := c.ListingOptions(); err != nil {
		return err
	}
	if c.Model.ReviewsPerMonthFallback < 0 {
		return fmt.Errorf("reviews_per_month_fallback must not be negative")
	}
	if c.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("max_body_bytes must be positive")
	}
	if c.Server.RateLimit < 0 || (c.Server.RateLimit > 0 && c.Server.RateBurst <= 0) {
		return fmt.Errorf("rate_limit must not be negative and needs a positive rate_burst")
	}
	for name, band := range c.Market.Neighbourhoods {
		if band.Low > band.Avg || band.Avg > band.High {
			return fmt.Errorf("market band %q: want low <= avg <= high", name)
		}
	}
	return nil
}

// ListingOptions converts the model section into assembler options.
func (c *Config) ListingOptions() (listing.Options, error) {
	opts := listing.Options{
		ReviewsPerMonthFallback: c.Model.ReviewsPerMonthFallback,
		NeighbourhoodGroup:      c.Model.NeighbourhoodGroup,
	}
	if c.Model.ReferenceDate != "" {
		d, err := time.Parse(time.DateOnly, c.Model.ReferenceDate)
		if err != nil {
			return opts, fmt.Errorf("reference_date %q: %w", c.Model.ReferenceDate, err)
		}
		opts.ReferenceDate = d
	}
	return opts, nil
}

func GetStringEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func GetIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func GetFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func GetBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func GetDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
