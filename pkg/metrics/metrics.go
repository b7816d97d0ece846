// Package metrics counts dataset loads so scheduled runs can be watched
// through the node_exporter textfile collector.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics is a private registry with the loader's counters.
type Metrics struct {
	reg *prometheus.Registry

	Fetches     *prometheus.CounterVec
	CacheReads  prometheus.Counter
	Initiatives prometheus.Gauge
	Votes       prometheus.Gauge
}

// New registers the collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		Fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "parlamento_fetch_total",
			Help: "Downloads of the initiatives export by result.",
		}, []string{"result"}),
		CacheReads: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "parlamento_cache_reads_total",
			Help: "Loads served from the on-disk cache.",
		}),
		Initiatives: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "parlamento_initiatives_loaded",
			Help: "Initiatives in the last loaded dataset.",
		}),
		Votes: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "parlamento_votes_loaded",
			Help: "Event and committee votes in the last loaded dataset.",
		}),
	}
	m.reg.MustRegister(m.Fetches, m.CacheReads, m.Initiatives, m.Votes)
	return m
}

// FetchSucceeded records a successful download.
func (m *Metrics) FetchSucceeded() { m.Fetches.WithLabelValues("success").Inc() }

// FetchFailed records a failed download.
func (m *Metrics) FetchFailed() { m.Fetches.WithLabelValues("error").Inc() }

// Loaded records the size of a loaded dataset.
func (m *Metrics) Loaded(initiatives, votes int) {
	m.Initiatives.Set(float64(initiatives))
	m.Votes.Set(float64(votes))
}

// Registry exposes the underlying gatherer.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.reg
}

// WriteTextfile writes all metrics in the text exposition format to path.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.reg); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
