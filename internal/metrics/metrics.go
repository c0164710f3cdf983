// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metrics records per-run Prometheus metrics and exports them in the
// text exposition format, suitable for a node_exporter textfile collector.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "nbib_fetch"

// Stage labels for request durations.
const (
	StageSearch   = "search"
	StageDownload = "download"
)

// Metrics holds the collectors for one run. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	Registry *prometheus.Registry

	// IdentifiersResolved is the number of identifiers the search returned.
	IdentifiersResolved prometheus.Gauge

	// Downloads counts processed identifiers by outcome status.
	Downloads *prometheus.CounterVec

	// BytesWritten counts bytes persisted to the output directory.
	BytesWritten prometheus.Counter

	// RequestDuration observes upstream request latency by stage.
	RequestDuration *prometheus.HistogramVec

	// LastRunTimestamp is the Unix time the run finished.
	LastRunTimestamp prometheus.Gauge
}

// New registers all collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Metrics{
		Registry: reg,
		IdentifiersResolved: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "identifiers_resolved",
			Help:      "Number of identifiers returned by the search stage.",
		}),
		Downloads: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "downloads_total",
			Help:      "Identifiers processed by the download stage, by status.",
		}, []string{"status"}),
		BytesWritten: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bytes_written_total",
			Help:      "Bytes written to citation files.",
		}),
		RequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_duration_seconds",
			Help:      "Upstream request duration in seconds, by stage.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"stage"}),
		LastRunTimestamp: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time at which the last run finished.",
		}),
	}
}

// ObserveSearch records a completed search request.
func (m *Metrics) ObserveSearch(d time.Duration, resolved int) {
	if m == nil {
		return
	}
	m.RequestDuration.WithLabelValues(StageSearch).Observe(d.Seconds())
	m.IdentifiersResolved.Set(float64(resolved))
}

// ObserveDownload records one processed identifier. d is zero when no
// request was made.
func (m *Metrics) ObserveDownload(status string, d time.Duration, bytes int64) {
	if m == nil {
		return
	}
	m.Downloads.WithLabelValues(status).Inc()
	if d > 0 {
		m.RequestDuration.WithLabelValues(StageDownload).Observe(d.Seconds())
	}
	if bytes > 0 {
		m.BytesWritten.Add(float64(bytes))
	}
}

// WriteTextfile stamps the finish time and writes all metrics to path
// atomically in the Prometheus text format.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil {
		return nil
	}
	m.LastRunTimestamp.SetToCurrentTime()
	return prometheus.WriteToTextfile(path, m.Registry)
}
