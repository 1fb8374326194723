// Package metrics exposes Prometheus instrumentation for the parse pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics holds the registry and the collectors used across the service.
type Metrics struct {
	Registry *prometheus.Registry

	ParsesTotal       *prometheus.CounterVec
	ParseDuration     prometheus.Histogram
	ExtractionRetries prometheus.Counter
	RowsReconstructed prometheus.Counter
}

// New creates a Metrics with its own registry, including the standard Go
// and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{
		Registry: reg,
		ParsesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "statement_parses_total",
			Help: "Number of parse requests, labeled by outcome.",
		}, []string{"outcome"}),
		ParseDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "statement_parse_duration_seconds",
			Help:    "Time spent extracting and reconstructing a document.",
			Buckets: prometheus.DefBuckets,
		}),
		ExtractionRetries: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "statement_extraction_retries_total",
			Help: "Times the bordered strategy failed and whitespace extraction ran.",
		}),
		RowsReconstructed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "statement_rows_reconstructed_total",
			Help: "Total data rows processed by the reconstructor.",
		}),
	}

	reg.MustRegister(m.ParsesTotal, m.ParseDuration, m.ExtractionRetries, m.RowsReconstructed)
	return m
}
