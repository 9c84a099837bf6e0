// Package metrics records load and pick statistics with Prometheus collectors.
//
// namepick is a short lived process, so nothing is scraped: the registry is written
// to a node_exporter textfile once the run finishes.
//
//	m := metrics.New()
//	done := m.StartLoad()
//	t, err := basil.Load(r, header)
//	done(t, err)
//	_ = m.WriteTextfile("/var/lib/node_exporter/namepick.prom")
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/AdamBromiley/basil"
)

const namespace = "namepick"

// Collector holds the collectors for one run, registered on a private registry.
type Collector struct {
	registry *prometheus.Registry

	loads        *prometheus.CounterVec // Loads by failure kind
	loadDuration prometheus.Histogram   // Seconds spent in Load
	inputBytes   prometheus.Gauge       // Size of the last loaded table buffer
	records      prometheus.Gauge       // Data records in the last loaded table
	picks        *prometheus.CounterVec // Names drawn by mode
}

// New creates a Collector with its own registry.
func New() *Collector {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Collector{
		registry: reg,
		loads: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "loads_total",
			Help:      "CSV loads by result",
		}, []string{"result"}),
		loadDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "load_duration_seconds",
			Help:      "Time spent loading and validating CSV input",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),
		inputBytes: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "table_bytes",
			Help:      "Size of the loaded table buffer",
		}),
		records: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "table_records",
			Help:      "Data records in the loaded table",
		}),
		picks: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "picks_total",
			Help:      "Names drawn by mode",
		}, []string{"mode"}),
	}
}

// StartLoad starts timing a load. The returned function records its outcome.
func (c *Collector) StartLoad() func(*basil.Table, error) {
	start := time.Now()
	return func(t *basil.Table, err error) {
		c.loadDuration.Observe(time.Since(start).Seconds())
		result := "success"
		if err != nil {
			result = basil.Classify(err).String()
		}
		c.loads.WithLabelValues(result).Inc()
		if t != nil {
			c.inputBytes.Set(float64(t.Size()))
			c.records.Set(float64(t.RecordCount()))
		}
	}
}

// RecordPick counts a drawn name. mode is "random" or "cheat".
func (c *Collector) RecordPick(mode string) {
	c.picks.WithLabelValues(mode).Inc()
}

// Registry exposes the underlying registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// WriteTextfile writes every metric to path in the Prometheus text format.
func (c *Collector) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, c.registry)
}
