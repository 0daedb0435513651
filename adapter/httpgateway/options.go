package httpgateway

import (
	"log/slog"
	"net/http"
	"time"
)

// WithHTTPClient sets the client used to send requests. It defaults to
// [http.DefaultClient].
func WithHTTPClient(c *http.Client) Option {
	return func(g *Gateway) {
		g.client = c
	}
}

// WithTimeout limits how long a single request can take, body included.
func WithTimeout(d time.Duration) Option {
	return func(g *Gateway) {
		g.timeout = d
	}
}

// WithHeader adds a header to every request, such as an authorization token.
func WithHeader(key, value string) Option {
	return func(g *Gateway) {
		g.header.Add(key, value)
	}
}

// WithRecords makes ApplyFilters send the given records to the backend
// instead of letting it filter its own.
func WithRecords(enabled bool) Option {
	return func(g *Gateway) {
		g.sendRecords = enabled
	}
}

// WithMaxResponseBody limits how many bytes of a response are read.
// Non-positive values are ignored.
func WithMaxResponseBody(n int64) Option {
	return func(g *Gateway) {
		if n > 0 {
			g.maxBody = n
		}
	}
}

// WithLogger sets the gateway logger. Nothing is logged by default.
func WithLogger(l *slog.Logger) Option {
	return func(g *Gateway) {
		g.log = l
	}
}

// Option configures gateway behavior through the functional options pattern.
type Option func(*Gateway)
