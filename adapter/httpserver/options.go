package httpserver

import (
	"log/slog"
	"strings"
)

// WithPrefix mounts the API under prefix, such as "/api".
func WithPrefix(prefix string) Option {
	return func(s *Server) {
		s.prefix = strings.TrimSuffix(prefix, "/")
	}
}

// WithMaxBody limits the size of request bodies. It defaults to 1 MiB.
func WithMaxBody(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxBody = n
		}
	}
}

// WithLogger sets the server logger. Nothing is logged by default.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		s.log = l
	}
}

// Option configures server behavior through the functional options pattern.
type Option func(*Server)
