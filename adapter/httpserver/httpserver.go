// Package httpserver exposes a [domain.Gateway] over the HTTP API consumed by
// the httpgateway package.
package httpserver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/vinicius-lino-figueiredo/gefilter/domain"
	"github.com/vinicius-lino-figueiredo/gefilter/internal/wire"
)

// Server serves the filter API of a gateway.
type Server struct {
	gateway domain.Gateway
	router  *mux.Router
	prefix  string
	maxBody int64
	log     *slog.Logger
}

// NewServer returns a server for gateway. It is an [http.Handler].
func NewServer(gateway domain.Gateway, opts ...Option) *Server {
	s := Server{
		gateway: gateway,
		maxBody: 1 << 20,
	}
	for _, opt := range opts {
		opt(&s)
	}
	if s.log == nil {
		s.log = slog.New(slog.DiscardHandler)
	}

	s.router = mux.NewRouter()
	root := s.router.PathPrefix(s.prefix + "/filters").Subrouter()
	root.HandleFunc("/suggestions/{view}", s.suggestions).Methods(http.MethodGet)
	root.HandleFunc("/config/{view}", s.getConfig).Methods(http.MethodGet)
	root.HandleFunc("/config/{view}", s.saveConfig).Methods(http.MethodPost)
	root.HandleFunc("/apply/{view}", s.apply).Methods(http.MethodPost)
	root.Use(s.logRequests)
	return &s
}

// ServeHTTP implements [http.Handler].
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) suggestions(w http.ResponseWriter, r *http.Request) {
	view := mux.Vars(r)["view"]
	sg, err := s.gateway.FetchSuggestions(r.Context(), view)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if sg == nil {
		sg = []domain.Suggestion{}
	}
	writeJSON(w, http.StatusOK, wire.Suggestions{View: view, Suggestions: sg})
}

func (s *Server) getConfig(w http.ResponseWriter, r *http.Request) {
	view := mux.Vars(r)["view"]
	q, err := s.gateway.FetchConfig(r.Context(), view)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if q == nil {
		writeJSON(w, http.StatusNotFound, wire.Error{Error: "no saved config for view " + view})
		return
	}
	writeJSON(w, http.StatusOK, wire.FromQuery(view, *q))
}

func (s *Server) saveConfig(w http.ResponseWriter, r *http.Request) {
	view := mux.Vars(r)["view"]
	var cfg wire.Config
	if !s.decode(w, r, &cfg) {
		return
	}
	q := cfg.Query()
	if err := s.gateway.SaveConfig(r.Context(), view, q); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, wire.FromQuery(view, q))
}

func (s *Server) apply(w http.ResponseWriter, r *http.Request) {
	view := mux.Vars(r)["view"]
	var req wire.ApplyRequest
	if !s.decode(w, r, &req) {
		return
	}
	if !req.Combinator.Valid() {
		req.Combinator = domain.And
	}

	// only effective groups are ever applied
	groups := domain.Query{Groups: req.Filters}.EffectiveGroups()
	records, err := s.gateway.ApplyFilters(r.Context(), view, domain.FilterRequest{
		Groups:     groups,
		Combinator: req.Combinator,
	}, req.Records)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if records == nil {
		records = []domain.Record{}
	}
	writeJSON(w, http.StatusOK, wire.ApplyResponse{Records: records, Total: len(records)})
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, target any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.maxBody))
	if err := dec.Decode(target); err != nil {
		writeJSON(w, http.StatusBadRequest, wire.Error{Error: "invalid request body: " + err.Error()})
		return false
	}
	return true
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrNoFilterer):
		status = http.StatusNotImplemented
	}
	if status == http.StatusInternalServerError {
		s.log.Error("request failed", slog.String("path", r.URL.Path), slog.Any("error", err))
	}
	writeJSON(w, status, wire.Error{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type wrappedWriter struct {
	http.ResponseWriter
	statusCode    int
	headerWritten bool
}

func (w *wrappedWriter) WriteHeader(statusCode int) {
	if w.headerWritten {
		return
	}
	w.ResponseWriter.WriteHeader(statusCode)
	w.statusCode = statusCode
	w.headerWritten = true
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &wrappedWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)
		s.log.Info("request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", wrapped.statusCode),
			slog.Duration("duration", time.Since(start)),
		)
	})
}
