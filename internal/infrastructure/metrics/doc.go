// Package metrics exposes Prometheus counters and gauges for editor sessions:
// node and edge mutations, rejected connections, and save outcomes. Each
// Collector owns its registry, so tests can build as many as they need.
package metrics
