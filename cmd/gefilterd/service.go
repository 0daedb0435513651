package main

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/vinicius-lino-figueiredo/gefilter"
	"github.com/vinicius-lino-figueiredo/gefilter/adapter/catalog"
	"github.com/vinicius-lino-figueiredo/gefilter/adapter/config"
	"github.com/vinicius-lino-figueiredo/gefilter/adapter/configstore"
	"github.com/vinicius-lino-figueiredo/gefilter/adapter/httpserver"
	"github.com/vinicius-lino-figueiredo/gefilter/adapter/localgateway"
	"github.com/vinicius-lino-figueiredo/gefilter/domain"
)

const apiPrefix = "/api"

type service struct {
	catalog *catalog.Catalog
	server  *httpserver.Server
	reg     *prometheus.Registry
	log     *slog.Logger
	closer  io.Closer
}

func newService(cfg *config.Config, log *slog.Logger) (*service, error) {
	if cfg.Gateway.Mode != config.ModeLocal {
		return nil, fmt.Errorf("gateway mode must be %q, got %q", config.ModeLocal, cfg.Gateway.Mode)
	}

	svc := service{
		catalog: gefilter.Catalog(cfg),
		reg:     prometheus.NewRegistry(),
		log:     log,
	}
	svc.reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	var configs domain.ConfigRepository = localgateway.NewMemoryConfigs()
	if cfg.Storage.Path != "" {
		db, err := configstore.Open(cfg.Storage.Path,
			configstore.WithBusyTimeout(cfg.Storage.BusyTimeout),
			configstore.WithLogger(log.With(slog.String("component", "configstore"))),
		)
		if err != nil {
			return nil, err
		}
		svc.closer = db
		configs = db
	}

	gw := localgateway.NewGateway(
		localgateway.WithSuggestions(svc.catalog),
		localgateway.WithConfigs(configs),
	)
	svc.server = httpserver.NewServer(gw,
		httpserver.WithPrefix(apiPrefix),
		httpserver.WithLogger(log.With(slog.String("component", "httpserver"))),
	)
	return &svc, nil
}

func (s *service) handler() http.Handler {
	r := mux.NewRouter()
	r.Handle("/metrics", promhttp.HandlerFor(s.reg, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}).Methods(http.MethodGet)
	r.PathPrefix(apiPrefix + "/").Handler(s.server)
	return r
}

// reload replaces the served suggestions. Other sections need a restart.
func (s *service) reload(cfg *config.Config) {
	s.catalog.Replace(gefilter.ViewSuggestions(cfg))
	s.log.Info("suggestions reloaded", slog.Any("views", s.catalog.Views()))
}

func (s *service) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}
