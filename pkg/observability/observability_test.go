package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_Records(t *testing.T) {
	c := NewCollector("graph")

	c.RecordProposal("addNode", OutcomeApplied)
	c.RecordProposal("addNode", OutcomeApplied)
	c.RecordProposal("removeNode", OutcomeRejected)
	c.RecordApply(20 * time.Millisecond)
	c.SetGraphSize(4, 3, 2)
	c.RecordInvariantFailure("NO_ISOLATED_NODES")
	c.RecordQuery("GetNodeQuery", true)
	c.RecordQuery("GetNodeQuery", false)

	families, err := c.GetRegistry().Gather()
	require.NoError(t, err)

	byName := make(map[string]int)
	for i, f := range families {
		byName[f.GetName()] = i
	}

	proposals := families[byName["graph_proposals_total"]]
	total := 0.0
	for _, m := range proposals.GetMetric() {
		total += m.GetCounter().GetValue()
	}
	assert.Equal(t, 3.0, total)
	assert.Len(t, proposals.GetMetric(), 2)

	assert.Equal(t, 4.0, families[byName["graph_graph_nodes"]].GetMetric()[0].GetGauge().GetValue())
	assert.Equal(t, 3.0, families[byName["graph_graph_edges"]].GetMetric()[0].GetGauge().GetValue())
	assert.Equal(t, uint64(1), families[byName["graph_apply_duration_seconds"]].GetMetric()[0].GetHistogram().GetSampleCount())
	assert.Contains(t, byName, "graph_invariant_failures_total")
	assert.Len(t, families[byName["graph_queries_total"]].GetMetric(), 2)
}

func TestCollector_IndependentRegistries(t *testing.T) {
	a := NewCollector("graph")
	b := NewCollector("graph")
	assert.NotSame(t, a.GetRegistry(), b.GetRegistry())
}

func TestCollector_NilIsNoop(t *testing.T) {
	var c *Collector
	assert.NotPanics(t, func() {
		c.RecordProposal("addNode", OutcomeApplied)
		c.RecordApply(time.Second)
		c.SetGraphSize(1, 1, 1)
		c.RecordInvariantFailure("X")
		c.RecordQuery("X", true)
	})
}

func TestTracer_TraceFunction(t *testing.T) {
	tr := NewTracer("graph-core")
	boom := errors.New("boom")

	err := tr.TraceFunction(context.Background(), "op", func(ctx context.Context) error {
		tr.AddAttributes(ctx)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	var nilTracer *Tracer
	ctx, span := nilTracer.StartSpan(context.Background(), "noop")
	assert.NotNil(t, ctx)
	span.End()
}
