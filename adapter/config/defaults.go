package config

import (
	"time"

	"github.com/vinicius-lino-figueiredo/gefilter/domain"
)

// Default values.
const (
	DefaultMode             = ModeHTTP
	DefaultTimeout          = 30 * time.Second
	DefaultBusyTimeout      = 5 * time.Second
	DefaultLogLevel         = "info"
	DefaultLogFormat        = FormatText
	DefaultMetricsNamespace = "gefilter"
)

// ApplyDefaults fills every unset value of cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Defaults.PageSize == 0 {
		cfg.Defaults.PageSize = domain.DefaultPageSize
	}
	if cfg.Defaults.SortDirection == "" {
		cfg.Defaults.SortDirection = string(domain.Asc)
	}
	if cfg.Defaults.Combinator == "" {
		cfg.Defaults.Combinator = string(domain.And)
	}

	if cfg.Gateway.Mode == "" {
		cfg.Gateway.Mode = DefaultMode
	}
	if cfg.Gateway.Timeout == 0 {
		cfg.Gateway.Timeout = DefaultTimeout
	}

	if cfg.Storage.BusyTimeout == 0 {
		cfg.Storage.BusyTimeout = DefaultBusyTimeout
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = DefaultLogLevel
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = DefaultLogFormat
	}

	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}
}
