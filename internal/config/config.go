// Package config loads the catalog service configuration from defaults, an
// optional YAML file and CATALOG_* environment variables, in that order.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

const (
	// PathEnvVar overrides the config file location.
	PathEnvVar = "CONFIG_PATH"

	envPrefix = "CATALOG_"
)

// DefaultPaths are tried in order when PathEnvVar is unset.
var DefaultPaths = []string{
	"config.yaml",
	"config.yml",
}

type Config struct {
	Port     int    `koanf:"port" validate:"min=1,max=65535"`
	LogLevel string `koanf:"log_level" validate:"oneof=debug info warn error"`

	// DataPath points at a JSON catalog file. Empty selects the bundled
	// dataset.
	DataPath string `koanf:"data_path"`

	// ReviewsPath points at a JSON reviews file. With neither path set the
	// bundled reviews are used.
	ReviewsPath string `koanf:"reviews_path"`

	// DatabaseURL, when set, loads the catalog from Postgres instead of JSON.
	DatabaseURL string `koanf:"database_url"`

	MetricsEnabled bool   `koanf:"metrics_enabled"`
	MetricsToken   string `koanf:"metrics_token"`

	RateLimitRequests int           `koanf:"rate_limit_requests" validate:"min=0"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window" validate:"min=0"`

	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
}

func (c *Config) Addr() string { return fmt.Sprintf(":%d", c.Port) }

func defaultConfig() *Config {
	return &Config{
		Port:              8082,
		LogLevel:          "info",
		MetricsEnabled:    true,
		RateLimitRequests: 100,
		RateLimitWindow:   time.Minute,
		ShutdownTimeout:   10 * time.Second,
	}
}

func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// envKey maps CATALOG_LOG_LEVEL to log_level.
func envKey(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, envPrefix))
}

func findConfigFile() string {
	if p := os.Getenv(PathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
