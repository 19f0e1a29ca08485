package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Save outcomes used as the "result" label
const (
	SaveValid   = "valid"
	SaveInvalid = "invalid"
	SaveFailed  = "failed"
)

// Collector holds all Prometheus metrics for the editor.
// A nil *Collector is valid and records nothing.
type Collector struct {
	registry *prometheus.Registry

	nodesAdded          prometheus.Counter
	nodesRemoved        prometheus.Counter
	edgesAdded          prometheus.Counter
	edgesRemoved        prometheus.Counter
	connectionsRejected *prometheus.CounterVec
	saves               *prometheus.CounterVec
	activeSessions      prometheus.Gauge
}

// NewCollector creates a collector with the given namespace and its own registry
func NewCollector(namespace string) *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		nodesAdded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "nodes_added_total",
			Help:      "Total number of nodes dropped onto a canvas",
		}),
		nodesRemoved: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "nodes_removed_total",
			Help:      "Total number of nodes removed",
		}),
		edgesAdded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "edges_added_total",
			Help:      "Total number of accepted connections",
		}),
		edgesRemoved: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "edges_removed_total",
			Help:      "Total number of edges removed, including cascades",
		}),
		connectionsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "connections_rejected_total",
			Help:      "Total number of rejected connections by reason",
		}, []string{"reason"}),
		saves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "saves_total",
			Help:      "Total number of save requests by result",
		}, []string{"result"}),
		activeSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Number of open editor sessions",
		}),
	}

	c.registry.MustRegister(
		c.nodesAdded,
		c.nodesRemoved,
		c.edgesAdded,
		c.edgesRemoved,
		c.connectionsRejected,
		c.saves,
		c.activeSessions,
	)
	return c
}

// Registry returns the registry backing this collector
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the collector's metrics in the Prometheus text format
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

func (c *Collector) NodeAdded() {
	if c != nil {
		c.nodesAdded.Inc()
	}
}

func (c *Collector) NodeRemoved() {
	if c != nil {
		c.nodesRemoved.Inc()
	}
}

func (c *Collector) EdgeAdded() {
	if c != nil {
		c.edgesAdded.Inc()
	}
}

// EdgesRemoved counts n removed edges
func (c *Collector) EdgesRemoved(n int) {
	if c != nil && n > 0 {
		c.edgesRemoved.Add(float64(n))
	}
}

// ConnectionRejected counts a refused connection under reason
func (c *Collector) ConnectionRejected(reason string) {
	if c != nil {
		c.connectionsRejected.WithLabelValues(reason).Inc()
	}
}

// Save counts a save request with one of SaveValid, SaveInvalid, SaveFailed
func (c *Collector) Save(result string) {
	if c != nil {
		c.saves.WithLabelValues(result).Inc()
	}
}

func (c *Collector) SessionOpened() {
	if c != nil {
		c.activeSessions.Inc()
	}
}

func (c *Collector) SessionClosed() {
	if c != nil {
		c.activeSessions.Dec()
	}
}
