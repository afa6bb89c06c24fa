// Package metrics exposes Prometheus instrumentation for the ingestion
// pipeline: promauto counters, gauges, and histograms registered once at
// startup and passed by dependency injection (see DESIGN.md for the
// conventions this follows).
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds every Prometheus collector the ingestion pipeline reports.
// Constructed once at process start and passed by dependency injection —
// there is no package-level global, unlike internal/logging, because tests
// commonly want isolated registries.
type Metrics struct {
	EventsReceived    prometheus.Counter
	EventsStored      prometheus.Counter
	EventsSkipped     prometheus.Counter
	PlayersUpdated    prometheus.Counter
	DetectionsCreated prometheus.Counter
	BatchDuration     prometheus.Histogram

	StoreOpDuration *prometheus.HistogramVec
	StoreOpFailures *prometheus.CounterVec

	HTTPRequestDuration *prometheus.HistogramVec
}

// New registers and returns a fresh Metrics instance against reg. Pass
// prometheus.DefaultRegisterer in production and prometheus.NewRegistry()
// in tests to avoid duplicate-registration panics across test runs.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		EventsReceived: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "sentrytel",
			Subsystem: "ingest",
			Name:      "events_received_total",
			Help:      "Total telemetry events received across all batches.",
		}),
		EventsStored: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "sentrytel",
			Subsystem: "ingest",
			Name:      "events_stored_total",
			Help:      "Total telemetry events persisted to the events table.",
		}),
		EventsSkipped: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "sentrytel",
			Subsystem: "ingest",
			Name:      "events_skipped_total",
			Help:      "Total telemetry events discarded by the interestingness classifier.",
		}),
		PlayersUpdated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "sentrytel",
			Subsystem: "ingest",
			Name:      "players_updated_total",
			Help:      "Total player profile/features updates across all batches.",
		}),
		DetectionsCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "sentrytel",
			Subsystem: "detection",
			Name:      "detections_created_total",
			Help:      "Total anomaly detections emitted.",
		}),
		BatchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "sentrytel",
			Subsystem: "ingest",
			Name:      "batch_duration_seconds",
			Help:      "End-to-end duration of one batch pipeline invocation.",
			Buckets:   prometheus.DefBuckets,
		}),
		StoreOpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "sentrytel",
			Subsystem: "store",
			Name:      "operation_duration_seconds",
			Help:      "Duration of store get/put operations by table and op.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"table", "op"}),
		StoreOpFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sentrytel",
			Subsystem: "store",
			Name:      "operation_failures_total",
			Help:      "Store operation failures by table and op.",
		}, []string{"table", "op"}),
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "sentrytel",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration by route and status code.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "status"}),
	}
}

// ObserveBatch records the per-batch counters after a pipeline run. skipped
// must be the orchestrator's own count of events the interestingness
// classifier discarded (summary.EventsSkipped) — it is not re-derived from
// received/stored here, since received-stored also includes events that were
// interesting but failed to persist, which is a store failure, not a skip.
func (m *Metrics) ObserveBatch(received, stored, skipped, detections, playersUpdated int) {
	m.EventsReceived.Add(float64(received))
	m.EventsStored.Add(float64(stored))
	m.EventsSkipped.Add(float64(skipped))
	m.PlayersUpdated.Add(float64(playersUpdated))
	m.DetectionsCreated.Add(float64(detections))
}
