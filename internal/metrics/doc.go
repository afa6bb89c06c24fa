// Package metrics wires the ingestion pipeline's Prometheus counters and
// histograms. See Metrics and New.
package metrics
