package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads, completes and validates the YAML file at path.
// Environment variables are not read; see [LoadConfigWithEnvOverrides].
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("configuration file %q: %w", path, err)
	}
	return cfg, nil
}

// Parse parses, completes and validates a YAML configuration.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}
	ApplyDefaults(&cfg)
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadConfigWithEnvOverrides is [LoadConfig] followed by environment
// overrides. Variables are named GEFILTER_SECTION_FIELD, for example
// GEFILTER_GATEWAY_BASE_URL, and always win over the file.
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}
	applyEnvOverrides(cfg)
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	str := func(name string, dst *string) {
		if val := os.Getenv(name); val != "" {
			*dst = val
		}
	}
	dur := func(name string, dst *time.Duration) {
		if val := os.Getenv(name); val != "" {
			if d, err := time.ParseDuration(val); err == nil {
				*dst = d
			}
		}
	}
	boolean := func(name string, dst *bool) {
		if val := os.Getenv(name); val != "" {
			if b, err := strconv.ParseBool(val); err == nil {
				*dst = b
			}
		}
	}

	if val := os.Getenv("GEFILTER_DEFAULTS_PAGE_SIZE"); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			cfg.Defaults.PageSize = n
		}
	}
	str("GEFILTER_DEFAULTS_SORT_DIRECTION", &cfg.Defaults.SortDirection)
	str("GEFILTER_DEFAULTS_COMBINATOR", &cfg.Defaults.Combinator)

	str("GEFILTER_GATEWAY_MODE", &cfg.Gateway.Mode)
	str("GEFILTER_GATEWAY_BASE_URL", &cfg.Gateway.BaseURL)
	dur("GEFILTER_GATEWAY_TIMEOUT", &cfg.Gateway.Timeout)
	boolean("GEFILTER_GATEWAY_SEND_RECORDS", &cfg.Gateway.SendRecords)

	str("GEFILTER_STORAGE_PATH", &cfg.Storage.Path)
	dur("GEFILTER_STORAGE_BUSY_TIMEOUT", &cfg.Storage.BusyTimeout)

	str("GEFILTER_LOGGING_LEVEL", &cfg.Logging.Level)
	str("GEFILTER_LOGGING_FORMAT", &cfg.Logging.Format)

	boolean("GEFILTER_METRICS_ENABLED", &cfg.Metrics.Enabled)
	str("GEFILTER_METRICS_NAMESPACE", &cfg.Metrics.Namespace)
}
