// Package config loads gateway settings from the environment.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Environment string `envconfig:"ENVIRONMENT" default:"local"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	Host string `envconfig:"HOST" default:"0.0.0.0"`
	Port int    `envconfig:"PORT" default:"5000"`

	ArkAPIKey       string        `envconfig:"ARK_API_KEY" required:"true"`
	ArkAPIURL       string        `envconfig:"ARK_API_URL" default:"https://ark.cn-beijing.volces.com/api/v3/responses"`
	ArkModel        string        `envconfig:"ARK_MODEL" default:"doubao-seed-translation-250915"`
	ProviderTimeout time.Duration `envconfig:"PROVIDER_TIMEOUT" default:"30s"`

	CacheTTLSeconds int `envconfig:"CACHE_TTL" default:"3600"`
	CacheMaxSize    int `envconfig:"CACHE_MAX_SIZE" default:"1000"`

	MaxTextLength   int           `envconfig:"MAX_TEXT_LENGTH" default:"5000"`
	ChunkSize       int           `envconfig:"CHUNK_SIZE" default:"800"`
	RateLimitRPM    int           `envconfig:"RATE_LIMIT_RPM" default:"30"`
	RateLimitWindow time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"60s"`

	StaticDir     string `envconfig:"STATIC_DIR" default:"static"`
	LanguagesFile string `envconfig:"LANGUAGES_FILE" default:""`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.ArkAPIKey) == "" {
		return fmt.Errorf("ARK_API_KEY is required")
	}
	if u, err := url.Parse(strings.TrimSpace(c.ArkAPIURL)); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("ARK_API_URL must be an absolute URL")
	}
	if strings.TrimSpace(c.ArkModel) == "" {
		return fmt.Errorf("ARK_MODEL is required")
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535")
	}
	if c.ProviderTimeout <= 0 {
		return fmt.Errorf("PROVIDER_TIMEOUT must be > 0")
	}
	if c.CacheMaxSize < 1 {
		return fmt.Errorf("CACHE_MAX_SIZE must be >= 1")
	}
	if c.CacheTTLSeconds < 0 {
		return fmt.Errorf("CACHE_TTL must be >= 0")
	}
	if c.MaxTextLength < 1 {
		return fmt.Errorf("MAX_TEXT_LENGTH must be >= 1")
	}
	if c.ChunkSize < 1 {
		return fmt.Errorf("CHUNK_SIZE must be >= 1")
	}
	if c.RateLimitRPM < 1 {
		return fmt.Errorf("RATE_LIMIT_RPM must be >= 1")
	}
	if c.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be > 0")
	}
	return nil
}

// CacheTTL returns CACHE_TTL as a duration. Zero disables expiry.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}
