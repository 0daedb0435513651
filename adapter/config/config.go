// Package config loads the YAML configuration of a filter deployment.
//
// A configuration file looks like:
//
//	defaults:
//	  page_size: 25
//	  sort_direction: asc
//	  combinator: AND
//	gateway:
//	  mode: http
//	  base_url: https://scheduler.example.com/api
//	  timeout: 10s
//	storage:
//	  path: filters.db
//	logging:
//	  level: info
//	  format: json
//	metrics:
//	  enabled: true
//	views:
//	  - name: assignments
//	    builtin: true
//
// Every value can be overridden with a GEFILTER_SECTION_FIELD environment
// variable when loading with [LoadConfigWithEnvOverrides].
package config

import (
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/vinicius-lino-figueiredo/gefilter/domain"
)

// Gateway modes.
const (
	ModeHTTP  = "http"
	ModeLocal = "local"
)

// Log formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Config is the root configuration.
type Config struct {
	Defaults DefaultsConfig `yaml:"defaults"`
	Gateway  GatewayConfig  `yaml:"gateway"`
	Storage  StorageConfig  `yaml:"storage"`
	Logging  LoggingConfig  `yaml:"logging"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Views    []ViewConfig   `yaml:"views"`
}

// DefaultsConfig holds the query a view starts with and the group policy.
type DefaultsConfig struct {
	PageSize      int    `yaml:"page_size"`
	SortDirection string `yaml:"sort_direction"`
	Combinator    string `yaml:"combinator"`
}

// GatewayConfig selects and configures the backend.
type GatewayConfig struct {
	// Mode is either "http" or "local".
	Mode        string            `yaml:"mode"`
	BaseURL     string            `yaml:"base_url"`
	Timeout     time.Duration     `yaml:"timeout"`
	SendRecords bool              `yaml:"send_records"`
	Headers     map[string]string `yaml:"headers"`
}

// StorageConfig configures where a local gateway saves configurations. An
// empty path keeps them in memory.
type StorageConfig struct {
	Path        string        `yaml:"path"`
	BusyTimeout time.Duration `yaml:"busy_timeout"`
}

// LoggingConfig configures the logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig configures Prometheus metrics.
type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Namespace string `yaml:"namespace"`
}

// ViewConfig declares the suggestions of a view. Builtin views take the
// suggestions shipped with the catalog package, if any.
type ViewConfig struct {
	Name        string              `yaml:"name"`
	Builtin     bool                `yaml:"builtin"`
	Suggestions []domain.Suggestion `yaml:"suggestions"`
}

// DefaultQuery returns the query views start with.
func (c *Config) DefaultQuery() domain.Query {
	q := domain.DefaultQuery()
	if c.Defaults.PageSize > 0 {
		q.PageSize = c.Defaults.PageSize
	}
	if dir := domain.SortDirection(strings.ToLower(c.Defaults.SortDirection)); dir.Valid() {
		q.SortDirection = dir
	}
	return q
}

// Combinator returns how effective groups combine.
func (c *Config) Combinator() domain.LogicOp {
	if op := domain.LogicOp(strings.ToUpper(c.Defaults.Combinator)); op.Valid() {
		return op
	}
	return domain.And
}

// Logger returns a logger writing to w as configured.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.level()}
	if strings.EqualFold(c.Logging.Format, FormatJSON) {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func (c *Config) level() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.Logging.Level)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}
