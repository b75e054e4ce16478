// Package config loads runtime configuration for the questline binaries.
// Precedence: defaults, then an optional YAML config file, then QUESTLINE_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DefaultBackend        = "openai"
	DefaultBaseURL        = "https://api.openai.com/v1"
	DefaultModel          = "gpt-4o-mini"
	DefaultTimeoutSeconds = 120
	DefaultTemperature    = 0.4
	DefaultMaxTokens      = 4096
	DefaultCacheSize      = 64
	DefaultCacheTTL       = 30 * time.Minute
	DefaultListenAddr     = ":8080"
	DefaultLogLevel       = "info"
)

// Config captures user-configurable settings shared across binaries.
type Config struct {
	Backend         string  `mapstructure:"backend"`
	BaseURL         string  `mapstructure:"base_url"`
	Model           string  `mapstructure:"model"`
	APIKey          string  `mapstructure:"api_key"`
	TimeoutSeconds  int     `mapstructure:"timeout_seconds"`
	Temperature     float64 `mapstructure:"temperature"`
	MaxTokens       int     `mapstructure:"max_tokens"`
	CacheSize       int     `mapstructure:"cache_size"`
	CacheTTLMinutes int     `mapstructure:"cache_ttl_minutes"`
	ListenAddr      string  `mapstructure:"listen_addr"`
	LogLevel        string  `mapstructure:"log_level"`
}

// Timeout returns the per-call backend timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// CacheTTL returns the skill-map cache entry lifetime.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLMinutes) * time.Minute
}

// Load reads configuration. path may be empty, in which case only defaults,
// ~/.questline.yaml (when present), and environment variables apply.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("backend", DefaultBackend)
	v.SetDefault("base_url", DefaultBaseURL)
	v.SetDefault("model", DefaultModel)
	v.SetDefault("api_key", "")
	v.SetDefault("timeout_seconds", DefaultTimeoutSeconds)
	v.SetDefault("temperature", DefaultTemperature)
	v.SetDefault("max_tokens", DefaultMaxTokens)
	v.SetDefault("cache_size", DefaultCacheSize)
	v.SetDefault("cache_ttl_minutes", int(DefaultCacheTTL/time.Minute))
	v.SetDefault("listen_addr", DefaultListenAddr)
	v.SetDefault("log_level", DefaultLogLevel)

	v.SetEnvPrefix("QUESTLINE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName(".questline")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Backend {
	case "openai", "canned":
	default:
		return fmt.Errorf("config: unknown backend %q (want openai or canned)", c.Backend)
	}
	if c.TimeoutSeconds <= 0 {
		return fmt.Errorf("config: timeout_seconds must be positive, got %d", c.TimeoutSeconds)
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("config: temperature must be in [0, 2], got %g", c.Temperature)
	}
	return nil
}
