package metrics

import "github.com/prometheus/client_golang/prometheus"

// WithRegisterer sets where the collectors are registered.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(m *Metrics) {
		if reg != nil {
			m.reg = reg
		}
	}
}

// WithNamespace sets the prefix of every metric name. It defaults to
// "gefilter".
func WithNamespace(ns string) Option {
	return func(m *Metrics) {
		m.namespace = ns
	}
}

// Option configures metrics behavior through the functional options pattern.
type Option func(*Metrics)
