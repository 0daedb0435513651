// Package httpgateway contains a [domain.Gateway] that talks to a filter
// backend over HTTP and JSON.
//
// Endpoints are relative to the base URL:
//
//	GET  filters/suggestions/{view}
//	GET  filters/config/{view}
//	POST filters/config/{view}
//	POST filters/apply/{view}
package httpgateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dolmen-go/contextio"
	"github.com/vinicius-lino-figueiredo/gefilter/domain"
	"github.com/vinicius-lino-figueiredo/gefilter/internal/wire"
)

// maxErrorBody limits how much of an error response ends up in the error.
const maxErrorBody = 512

// DefaultMaxResponseBody is the largest response body read by default.
const DefaultMaxResponseBody = 32 << 20

// ErrResponseTooLarge is wrapped by [domain.ErrTransport] when a response body
// is larger than the configured limit.
var ErrResponseTooLarge = errors.New("response body too large")

// Gateway implements [domain.Gateway].
type Gateway struct {
	base        *url.URL
	client      *http.Client
	timeout     time.Duration
	header      http.Header
	sendRecords bool
	maxBody     int64
	log         *slog.Logger
}

// NewGateway returns a gateway for the backend at baseURL.
func NewGateway(baseURL string, opts ...Option) (domain.Gateway, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid base url %q: scheme and host are required", baseURL)
	}

	g := Gateway{
		base:    base,
		header:  make(http.Header),
		maxBody: DefaultMaxResponseBody,
	}
	for _, opt := range opts {
		opt(&g)
	}
	if g.client == nil {
		g.client = http.DefaultClient
	}
	if g.log == nil {
		g.log = slog.New(slog.DiscardHandler)
	}
	return &g, nil
}

// FetchSuggestions implements [domain.Gateway].
func (g *Gateway) FetchSuggestions(ctx context.Context, view string) ([]domain.Suggestion, error) {
	var res wire.Suggestions
	if _, err := g.do(ctx, domain.OpFetchSuggestions, view, http.MethodGet, "suggestions", nil, &res); err != nil {
		return nil, err
	}
	if res.Suggestions == nil {
		return []domain.Suggestion{}, nil
	}
	return res.Suggestions, nil
}

// FetchConfig implements [domain.Gateway]. A view without a saved
// configuration returns nil.
func (g *Gateway) FetchConfig(ctx context.Context, view string) (*domain.Query, error) {
	var res *wire.Config
	found, err := g.do(ctx, domain.OpFetchConfig, view, http.MethodGet, "config", nil, &res)
	if err != nil || !found || res == nil {
		return nil, err
	}
	q := res.Query()
	return &q, nil
}

// SaveConfig implements [domain.Gateway].
func (g *Gateway) SaveConfig(ctx context.Context, view string, q domain.Query) error {
	_, err := g.do(ctx, domain.OpSaveConfig, view, http.MethodPost, "config", wire.FromQuery(view, q), nil)
	return err
}

// ApplyFilters implements [domain.Gateway]. The backend filters its own
// records of the view; records are only sent when [WithRecords] is set.
func (g *Gateway) ApplyFilters(ctx context.Context, view string, req domain.FilterRequest, records []domain.Record) ([]domain.Record, error) {
	body := wire.ApplyRequest{Filters: req.Groups, Combinator: req.Combinator}
	if g.sendRecords {
		body.Records = records
		if body.Records == nil {
			body.Records = []domain.Record{}
		}
	}

	var res wire.ApplyResponse
	if _, err := g.do(ctx, domain.OpApplyFilters, view, http.MethodPost, "apply", body, &res); err != nil {
		return nil, err
	}
	if res.Records == nil {
		return []domain.Record{}, nil
	}
	return res.Records, nil
}

// do sends a request to filters/{resource}/{view} and decodes the response
// into out. A 404 answer to a GET returns found false without error.
func (g *Gateway) do(ctx context.Context, op, view, method, resource string, in, out any) (found bool, err error) {
	fail := func(err error) (bool, error) {
		return false, &domain.ErrTransport{Op: op, View: view, Err: err}
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fail(err)
		}
		body = bytes.NewReader(b)
	}

	u := g.base.JoinPath("filters", resource, url.PathEscape(view))
	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return fail(err)
	}
	for k, v := range g.header {
		req.Header[k] = v
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := g.client.Do(req)
	if err != nil {
		return fail(err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(io.LimitReader(contextio.NewReader(ctx, resp.Body), g.maxBody+1))
	g.log.Debug("gateway request",
		slog.String("method", method),
		slog.String("url", u.String()),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)),
	)
	if err != nil {
		return fail(err)
	}
	if int64(len(b)) > g.maxBody {
		return fail(fmt.Errorf("%w: more than %d bytes", ErrResponseTooLarge, g.maxBody))
	}

	if resp.StatusCode == http.StatusNotFound && method == http.MethodGet && resource == "config" {
		return false, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fail(&domain.ErrHTTPStatus{StatusCode: resp.StatusCode, Body: errorMessage(b)})
	}

	if out != nil && len(bytes.TrimSpace(b)) > 0 {
		if err := json.Unmarshal(b, out); err != nil {
			return fail(fmt.Errorf("decoding response: %w", err))
		}
	}
	return true, nil
}

func errorMessage(b []byte) string {
	var e wire.Error
	if err := json.Unmarshal(b, &e); err == nil && e.Error != "" {
		return e.Error
	}
	msg := strings.TrimSpace(string(b))
	if len(msg) > maxErrorBody {
		end := maxErrorBody
		for end > 0 && !utf8.RuneStart(msg[end]) {
			end--
		}
		msg = msg[:end]
	}
	return msg
}

// StatusCode returns the HTTP status of a gateway error, or 0 if err did not
// come from an HTTP answer.
func StatusCode(err error) int {
	var errS *domain.ErrHTTPStatus
	if errors.As(err, &errS) {
		return errS.StatusCode
	}
	return 0
}
