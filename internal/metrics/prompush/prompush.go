// Package prompush implements a Prometheus Pushgateway backend for the
// metrics package.
//
// This package adapts the generic metrics.Backend interface to Prometheus by
// mapping chunk-level labels (job, status, kind) onto Prometheus collectors
// and pushing the registry to a Pushgateway instead of exposing a scrape
// endpoint. A chunked run is a batch job, so push-on-completion fits better
// than scraping.
//
// All Prometheus-specific dependencies live here so the rest of the project
// can swap metric systems without changes to the core pipeline.
package prompush

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	"chunkproc/internal/metrics"
)

// Backend is a Prometheus Pushgateway metrics backend.
type Backend struct {
	gatewayURL string // e.g. http://pushgateway:9091
	jobName    string // Pushgateway "job" group
	reg        *prometheus.Registry

	chunkCounter  *prometheus.CounterVec // "chunkproc_chunks_total"
	chunkDuration *prometheus.SummaryVec // "chunkproc_chunk_duration_seconds"
	rowCounter    *prometheus.CounterVec // "chunkproc_rows_total"
}

// NewBackend constructs a Prometheus Pushgateway backend.
// jobName: the Pushgateway "job" name (usually the run's job label).
// gatewayURL: base URL of the Pushgateway server.
func NewBackend(jobName, gatewayURL string) (*Backend, error) {
	if gatewayURL == "" {
		return nil, fmt.Errorf("prompush: gateway URL is required")
	}
	if jobName == "" {
		jobName = "chunkproc"
	}

	reg := prometheus.NewRegistry()

	chunkCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chunkproc_chunks_total",
			Help: "Total number of chunk attempts, partitioned by status.",
		},
		[]string{"status"},
	)
	chunkDuration := prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Name:       "chunkproc_chunk_duration_seconds",
			Help:       "Duration of chunk processing in seconds, partitioned by status.",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		},
		[]string{"status"},
	)
	rowCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chunkproc_rows_total",
			Help: "Row-level counts per kind (processed, nulls).",
		},
		[]string{"kind"},
	)

	if err := reg.Register(chunkCounter); err != nil {
		return nil, fmt.Errorf("prompush: register chunk counter: %w", err)
	}
	if err := reg.Register(chunkDuration); err != nil {
		return nil, fmt.Errorf("prompush: register chunk summary: %w", err)
	}
	if err := reg.Register(rowCounter); err != nil {
		return nil, fmt.Errorf("prompush: register row counter: %w", err)
	}

	return &Backend{
		gatewayURL:    gatewayURL,
		jobName:       jobName,
		reg:           reg,
		chunkCounter:  chunkCounter,
		chunkDuration: chunkDuration,
		rowCounter:    rowCounter,
	}, nil
}

// IncCounter routes the generic counter names onto the registered collectors.
// Unknown names are ignored.
func (b *Backend) IncCounter(name string, delta float64, labels metrics.Labels) {
	switch name {
	case "chunkproc_chunks_total":
		b.chunkCounter.WithLabelValues(labels["status"]).Add(delta)
	case "chunkproc_rows_total":
		b.rowCounter.WithLabelValues(labels["kind"]).Add(delta)
	}
}

// ObserveHistogram records chunk durations; other names are ignored.
func (b *Backend) ObserveHistogram(name string, value float64, labels metrics.Labels) {
	if name != "chunkproc_chunk_duration_seconds" {
		return
	}
	b.chunkDuration.WithLabelValues(labels["status"]).Observe(value)
}

// Flush pushes the current registry to the Pushgateway.
func (b *Backend) Flush() error {
	return push.New(b.gatewayURL, b.jobName).
		Gatherer(b.reg).
		Push()
}
