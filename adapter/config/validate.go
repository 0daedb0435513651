package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/vinicius-lino-figueiredo/gefilter/domain"
)

// FieldError is a validation error of a single configuration field.
type FieldError struct {
	// Field is the dotted path to the field, like "gateway.base_url".
	Field   string
	Message string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError holds every field error found in a configuration.
type ValidationError struct {
	Errors []FieldError
}

func (e ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "configuration validation failed with %d errors:", len(e.Errors))
	for _, err := range e.Errors {
		sb.WriteString("\n  - ")
		sb.WriteString(err.Error())
	}
	return sb.String()
}

// Validate returns a [ValidationError] listing every invalid field of cfg.
func Validate(cfg *Config) error {
	var errs []FieldError
	add := func(field, format string, args ...any) {
		errs = append(errs, FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if cfg.Defaults.PageSize <= 0 {
		add("defaults.page_size", "must be positive, got %d", cfg.Defaults.PageSize)
	}
	if !domain.SortDirection(strings.ToLower(cfg.Defaults.SortDirection)).Valid() {
		add("defaults.sort_direction", "must be asc or desc, got %q", cfg.Defaults.SortDirection)
	}
	if !domain.LogicOp(strings.ToUpper(cfg.Defaults.Combinator)).Valid() {
		add("defaults.combinator", "must be AND or OR, got %q", cfg.Defaults.Combinator)
	}

	switch cfg.Gateway.Mode {
	case ModeHTTP:
		if cfg.Gateway.BaseURL == "" {
			add("gateway.base_url", "is required in http mode")
		} else if u, err := url.Parse(cfg.Gateway.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
			add("gateway.base_url", "must be an absolute url, got %q", cfg.Gateway.BaseURL)
		}
	case ModeLocal:
	default:
		add("gateway.mode", "must be %s or %s, got %q", ModeHTTP, ModeLocal, cfg.Gateway.Mode)
	}
	if cfg.Gateway.Timeout < 0 {
		add("gateway.timeout", "cannot be negative")
	}

	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(cfg.Logging.Level)); err != nil {
		add("logging.level", "unknown level %q", cfg.Logging.Level)
	}
	if f := strings.ToLower(cfg.Logging.Format); f != FormatText && f != FormatJSON {
		add("logging.format", "must be %s or %s, got %q", FormatText, FormatJSON, cfg.Logging.Format)
	}

	seen := make(map[string]bool, len(cfg.Views))
	for n, v := range cfg.Views {
		field := fmt.Sprintf("views[%d]", n)
		if v.Name == "" {
			add(field+".name", "is required")
			continue
		}
		if seen[v.Name] {
			add(field+".name", "duplicate view %q", v.Name)
		}
		seen[v.Name] = true
		for m, s := range v.Suggestions {
			if s.Field == "" {
				add(fmt.Sprintf("%s.suggestions[%d].field", field, m), "is required")
			}
		}
	}

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}
	return nil
}
