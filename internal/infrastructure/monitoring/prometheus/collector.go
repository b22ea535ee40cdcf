// Package prometheus wires HackNebula's operational metrics into a private
// Prometheus registry exposed on the metrics endpoint.
package prometheus

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector owns a private registry so tests can build isolated instances
// without tripping duplicate-registration panics on the global default.
type Collector struct {
	registry *prometheus.Registry
}

// NewCollector builds a Collector with Go runtime and process collectors
// pre-registered.
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return &Collector{registry: reg}
}

// Registry exposes the underlying registry for metric registration.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler returns the HTTP handler serving the scrape endpoint.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
