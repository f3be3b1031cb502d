package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog/log"
)

var supportedStateSchemes = []string{"sqlite", "postgres", "postgresql", "redis", "rediss", "memory"}

type Config struct {
	APIURL                  string `env:"CAPSULE_API_URL" envDefault:"http://localhost:8001/api/v1"`
	StateURL                string `env:"CAPSULE_STATE_URL"`
	StateKey                string `env:"CAPSULE_STATE_KEY"`
	HTTPTimeoutSeconds      int    `env:"CAPSULE_HTTP_TIMEOUT_SECONDS" envDefault:"30"`
	LogLevel                string `env:"LOG_LEVEL" envDefault:"warn"`
	Port                    int    `env:"PORT" envDefault:"8001"`
	DeliveryIntervalSeconds int    `env:"CAPSULE_DELIVERY_INTERVAL_SECONDS" envDefault:"60"`
}

func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutSeconds) * time.Second
}

func (c *Config) DeliveryInterval() time.Duration {
	return time.Duration(c.DeliveryIntervalSeconds) * time.Second
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// StateLocation returns the credential store URL, falling back to a sqlite
// database under the user's home directory.
func (c *Config) StateLocation() string {
	if c.StateURL != "" {
		return c.StateURL
	}
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return "sqlite://" + filepath.Join(home, DefaultStateDir, DefaultStateFile)
}

func (c *Config) Validate() error {
	api, err := url.Parse(c.APIURL)
	if err != nil || (api.Scheme != "http" && api.Scheme != "https") || api.Host == "" {
		return fmt.Errorf("CAPSULE_API_URL must be an absolute http(s) URL, got %q", c.APIURL)
	}
	if api.Scheme == "http" && !isLocalHost(api.Hostname()) {
		log.Warn().Str("url", c.APIURL).Msg("CAPSULE_API_URL is not TLS: credentials will be sent in clear text")
	}

	if c.HTTPTimeoutSeconds <= 0 {
		return fmt.Errorf("CAPSULE_HTTP_TIMEOUT_SECONDS must be positive")
	}

	if c.StateURL != "" {
		scheme, _, ok := strings.Cut(c.StateURL, "://")
		if !ok || !contains(supportedStateSchemes, scheme) {
			return fmt.Errorf("CAPSULE_STATE_URL scheme must be one of %s", strings.Join(supportedStateSchemes, ", "))
		}
	}

	if c.StateKey != "" && len(c.StateKey) != 64 {
		return fmt.Errorf("CAPSULE_STATE_KEY must be 64 hex characters (generate with: openssl rand -hex 32)")
	}

	return nil
}

func isLocalHost(host string) bool {
	return host == "localhost" || host == "127.0.0.1" || host == "::1"
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")
	return &cfg, nil
}
