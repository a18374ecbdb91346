package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Proposal outcomes used as the outcome label
const (
	OutcomeValidated = "validated"
	OutcomeRejected  = "rejected"
	OutcomeSimulated = "simulated"
	OutcomeApplied   = "applied"
)

// Collector holds all Prometheus metrics for the graph core.
// Each collector owns its registry, so several protocols can coexist.
type Collector struct {
	// Registry for this collector instance
	registry *prometheus.Registry

	// Protocol metrics
	Proposals     *prometheus.CounterVec
	ApplyDuration prometheus.Histogram

	// Graph metrics
	Nodes     prometheus.Gauge
	Edges     prometheus.Gauge
	Snapshots prometheus.Gauge

	// Invariant metrics
	InvariantFailures *prometheus.CounterVec

	// Read-side metrics
	Queries *prometheus.CounterVec
}

// NewCollector creates a new metrics collector with the given namespace
func NewCollector(namespace string) *Collector {
	registry := prometheus.NewRegistry()

	proposals := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "proposals_total",
			Help:      "Total number of mutation proposals by type and outcome",
		},
		[]string{"type", "outcome"},
	)

	applyDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "apply_duration_seconds",
			Help:      "Duration of successful proposal applies in seconds",
			Buckets:   prometheus.DefBuckets,
		},
	)

	nodes := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "graph_nodes",
			Help:      "Number of nodes in the live graph",
		},
	)

	edges := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "graph_edges",
			Help:      "Number of edges in the live graph",
		},
	)

	snapshots := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "snapshots",
			Help:      "Number of snapshots in the history",
		},
	)

	invariantFailures := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invariant_failures_total",
			Help:      "Total number of failed invariant checks",
		},
		[]string{"invariant"},
	)

	queries := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queries_total",
			Help:      "Total number of graph queries by type and outcome",
		},
		[]string{"query", "outcome"},
	)

	// Register all metrics with the registry
	registry.MustRegister(
		proposals,
		applyDuration,
		nodes,
		edges,
		snapshots,
		invariantFailures,
		queries,
	)

	return &Collector{
		registry:          registry,
		Proposals:         proposals,
		ApplyDuration:     applyDuration,
		Nodes:             nodes,
		Edges:             edges,
		Snapshots:         snapshots,
		InvariantFailures: invariantFailures,
		Queries:           queries,
	}
}

// RecordProposal counts a proposal outcome
func (c *Collector) RecordProposal(mutationType, outcome string) {
	if c == nil {
		return
	}
	c.Proposals.WithLabelValues(mutationType, outcome).Inc()
}

// RecordApply observes the duration of an apply
func (c *Collector) RecordApply(duration time.Duration) {
	if c == nil {
		return
	}
	c.ApplyDuration.Observe(duration.Seconds())
}

// SetGraphSize publishes the live graph and history sizes
func (c *Collector) SetGraphSize(nodes, edges, snapshots int) {
	if c == nil {
		return
	}
	c.Nodes.Set(float64(nodes))
	c.Edges.Set(float64(edges))
	c.Snapshots.Set(float64(snapshots))
}

// RecordInvariantFailure counts a failed invariant
func (c *Collector) RecordInvariantFailure(name string) {
	if c == nil {
		return
	}
	c.InvariantFailures.WithLabelValues(name).Inc()
}

// RecordQuery counts a query by its outcome
func (c *Collector) RecordQuery(queryType string, success bool) {
	if c == nil {
		return
	}
	outcome := "success"
	if !success {
		outcome = "error"
	}
	c.Queries.WithLabelValues(queryType, outcome).Inc()
}

// GetRegistry returns the Prometheus registry for this collector
func (c *Collector) GetRegistry() *prometheus.Registry {
	return c.registry
}
