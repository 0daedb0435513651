package gefilter

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"net/http"
	"os"
	"slices"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/vinicius-lino-figueiredo/gefilter/adapter/catalog"
	"github.com/vinicius-lino-figueiredo/gefilter/adapter/config"
	"github.com/vinicius-lino-figueiredo/gefilter/adapter/configstore"
	"github.com/vinicius-lino-figueiredo/gefilter/adapter/controller"
	"github.com/vinicius-lino-figueiredo/gefilter/adapter/httpgateway"
	"github.com/vinicius-lino-figueiredo/gefilter/adapter/localgateway"
	"github.com/vinicius-lino-figueiredo/gefilter/adapter/metrics"
	"github.com/vinicius-lino-figueiredo/gefilter/adapter/store"
	"github.com/vinicius-lino-figueiredo/gefilter/adapter/urlcodec"
	"github.com/vinicius-lino-figueiredo/gefilter/domain"
)

// Config is the YAML configuration read by [Load].
type Config = config.Config

// Stack is a [Controller] built from a [Config] together with the resources
// it owns. Close releases all of them.
type Stack struct {
	*Controller

	// Gateway is the backend selected by the configuration.
	Gateway Gateway
	// Metrics is nil unless metrics are enabled.
	Metrics *metrics.Metrics
	// Logger is the logger built from the logging section.
	Logger *slog.Logger

	closers []io.Closer
}

// Load reads the configuration file at path, with GEFILTER_* environment
// overrides, and builds a [Stack] from it.
func Load(path string, opts ...StackOption) (*Stack, error) {
	cfg, err := config.LoadConfigWithEnvOverrides(path)
	if err != nil {
		return nil, err
	}
	return Build(cfg, opts...)
}

// Build wires a [Stack] from cfg. In http mode the gateway talks to the
// configured base URL; in local mode suggestions come from the configured
// views and configurations are saved to the SQLite file in storage.path, or in
// memory if no path is set.
func Build(cfg *Config, opts ...StackOption) (*Stack, error) {
	b := stackBuilder{logOutput: os.Stderr}
	for _, opt := range opts {
		opt(&b)
	}

	s := Stack{Logger: cfg.Logger(b.logOutput)}

	gw, err := s.gateway(cfg, &b)
	if err != nil {
		s.Close()
		return nil, err
	}
	s.Gateway = gw

	ctrlLog := s.Logger.With(slog.String("component", "controller"))
	ctrlOpts := []controller.Option{
		controller.WithLogger(ctrlLog),
		controller.WithGroupCombinator(cfg.Combinator()),
		controller.WithDefaults(cfg.DefaultQuery),
		controller.WithCodec(urlcodec.NewCodec(
			urlcodec.WithDefaults(cfg.DefaultQuery),
			urlcodec.WithLogger(ctrlLog),
		)),
	}
	if cfg.Metrics.Enabled {
		mOpts := []metrics.Option{metrics.WithNamespace(cfg.Metrics.Namespace)}
		if b.registerer != nil {
			mOpts = append(mOpts, metrics.WithRegisterer(b.registerer))
		}
		s.Metrics = metrics.NewMetrics(mOpts...)
		ctrlOpts = append(ctrlOpts, controller.WithMetrics(s.Metrics))
	}
	if b.location != nil {
		ctrlOpts = append(ctrlOpts, controller.WithLocation(b.location))
	}
	ctrlOpts = append(ctrlOpts, b.ctrlOpts...)

	st := store.NewStore(store.WithDefaults(cfg.DefaultQuery))
	s.Controller = controller.NewController(st, gw, ctrlOpts...)
	return &s, nil
}

func (s *Stack) gateway(cfg *Config, b *stackBuilder) (Gateway, error) {
	switch cfg.Gateway.Mode {
	case config.ModeLocal:
		var configs domain.ConfigRepository = localgateway.NewMemoryConfigs()
		if cfg.Storage.Path != "" {
			db, err := configstore.Open(cfg.Storage.Path,
				configstore.WithBusyTimeout(cfg.Storage.BusyTimeout),
				configstore.WithLogger(s.Logger.With(slog.String("component", "configstore"))),
			)
			if err != nil {
				return nil, err
			}
			s.closers = append(s.closers, db)
			configs = db
		}
		opts := []localgateway.Option{
			localgateway.WithSuggestions(Catalog(cfg)),
			localgateway.WithConfigs(configs),
		}
		if b.filterer != nil {
			opts = append(opts, localgateway.WithFilterer(b.filterer))
		}
		return localgateway.NewGateway(opts...), nil

	case config.ModeHTTP:
		opts := []httpgateway.Option{
			httpgateway.WithTimeout(cfg.Gateway.Timeout),
			httpgateway.WithRecords(cfg.Gateway.SendRecords),
			httpgateway.WithLogger(s.Logger.With(slog.String("component", "httpgateway"))),
		}
		for _, k := range slices.Sorted(maps.Keys(cfg.Gateway.Headers)) {
			opts = append(opts, httpgateway.WithHeader(k, cfg.Gateway.Headers[k]))
		}
		if b.client != nil {
			opts = append(opts, httpgateway.WithHTTPClient(b.client))
		}
		return httpgateway.NewGateway(cfg.Gateway.BaseURL, opts...)
	}
	return nil, fmt.Errorf("unknown gateway mode %q", cfg.Gateway.Mode)
}

// Close closes the controller and every resource opened by [Build].
func (s *Stack) Close() error {
	if s.Controller != nil {
		s.Controller.Close()
	}
	var errs []error
	for _, c := range s.closers {
		errs = append(errs, c.Close())
	}
	s.closers = nil
	return errors.Join(errs...)
}

// Catalog returns a suggestion catalog serving [ViewSuggestions] of cfg.
func Catalog(cfg *Config) *catalog.Catalog {
	return catalog.NewCatalog(catalog.WithViews(ViewSuggestions(cfg)))
}

// ViewSuggestions returns the suggestions of each view declared in cfg.
// Builtin views start with the suggestions shipped by the catalog package,
// followed by the declared ones. Without declared views every builtin view is
// returned.
func ViewSuggestions(cfg *Config) map[string][]Suggestion {
	builtin := catalog.Builtin()
	if len(cfg.Views) == 0 {
		return builtin
	}
	views := make(map[string][]domain.Suggestion, len(cfg.Views))
	for _, v := range cfg.Views {
		var s []domain.Suggestion
		if v.Builtin {
			s = append(s, builtin[v.Name]...)
		}
		views[v.Name] = append(s, v.Suggestions...)
	}
	return views
}

type stackBuilder struct {
	logOutput  io.Writer
	registerer prometheus.Registerer
	filterer   Filterer
	location   Location
	client     *http.Client
	ctrlOpts   []Option
}

// WithLogOutput sets where the stack logger writes. Defaults to stderr.
func WithLogOutput(w io.Writer) StackOption {
	return func(b *stackBuilder) {
		if w != nil {
			b.logOutput = w
		}
	}
}

// WithRegisterer sets the Prometheus registerer metrics are registered with.
// Defaults to the global registerer.
func WithRegisterer(reg prometheus.Registerer) StackOption {
	return func(b *stackBuilder) {
		b.registerer = reg
	}
}

// WithFilterer sets the filterer of a local gateway.
func WithFilterer(f Filterer) StackOption {
	return func(b *stackBuilder) {
		b.filterer = f
	}
}

// WithStackLocation sets the URL the active view is mirrored to.
func WithStackLocation(l Location) StackOption {
	return func(b *stackBuilder) {
		b.location = l
	}
}

// WithHTTPClient sets the client of a remote gateway.
func WithHTTPClient(c *http.Client) StackOption {
	return func(b *stackBuilder) {
		b.client = c
	}
}

// WithControllerOptions appends controller options, applied after the ones
// derived from the configuration.
func WithControllerOptions(opts ...Option) StackOption {
	return func(b *stackBuilder) {
		b.ctrlOpts = append(b.ctrlOpts, opts...)
	}
}

// StackOption configures [Build] behavior through the functional options
// pattern.
type StackOption func(*stackBuilder)
