// Package config loads the console's configuration file and applies
// environment overrides. Everything has a working default so the console
// runs against a local backend with no config at all.
package config

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// DefaultBaseURL points at a local development backend.
const DefaultBaseURL = "http://localhost:8080"

// ServerConfig locates the backend.
type ServerConfig struct {
	BaseURL   string
	EventsURL string
	Timeout   time.Duration
}

// UnmarshalYAML decodes durations from strings like "15s". Keys absent
// from the file leave the existing (default) values in place.
func (s *ServerConfig) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		BaseURL   string `yaml:"base_url"`
		EventsURL string `yaml:"events_url"`
		Timeout   string `yaml:"timeout"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	if raw.BaseURL != "" {
		s.BaseURL = raw.BaseURL
	}
	if raw.EventsURL != "" {
		s.EventsURL = raw.EventsURL
	}
	if raw.Timeout != "" {
		d, err := time.ParseDuration(raw.Timeout)
		if err != nil {
			return fmt.Errorf("server.timeout: %w", err)
		}
		s.Timeout = d
	}
	return nil
}

// CacheConfig tunes the entity cache.
type CacheConfig struct {
	TTL time.Duration
}

func (c *CacheConfig) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		TTL string `yaml:"ttl"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	if raw.TTL != "" {
		d, err := time.ParseDuration(raw.TTL)
		if err != nil {
			return fmt.Errorf("cache.ttl: %w", err)
		}
		c.TTL = d
	}
	return nil
}

// Config is the full console configuration.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Cache  CacheConfig  `yaml:"cache"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			BaseURL:   DefaultBaseURL,
			EventsURL: "ws://localhost:8080/events",
			Timeout:   15 * time.Second,
		},
		Cache: CacheConfig{
			TTL: 5 * time.Minute,
		},
	}
}

// Load reads the config file at path, fills gaps with defaults, and
// applies environment overrides. A missing file is not an error; the
// defaults carry.
func Load(path string, logger *zap.Logger) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		logger.Info("No config file, using defaults", zap.String("path", path))
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
		logger.Info("Config loaded", zap.String("path", path))
	}

	cfg.applyEnv()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv lets the environment override the file.
func (c *Config) applyEnv() {
	if v := os.Getenv("API_BASE_URL"); v != "" {
		c.Server.BaseURL = v
	}
	if v := os.Getenv("API_EVENTS_URL"); v != "" {
		c.Server.EventsURL = v
	}
}

func (c *Config) validate() error {
	if c.Server.BaseURL == "" {
		return fmt.Errorf("server.base_url must not be empty")
	}
	if c.Server.Timeout < 0 {
		return fmt.Errorf("server.timeout must not be negative")
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("cache.ttl must not be negative")
	}
	return nil
}
