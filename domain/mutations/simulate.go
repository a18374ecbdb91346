package mutations

import (
	"fmt"

	"github.com/utemix-lab/vovaipetrova-sub000/domain/core/aggregates"
	pkgerrors "github.com/utemix-lab/vovaipetrova-sub000/pkg/errors"
)

// Touched lists the entities a mutation wrote. Removed ids are tracked
// separately since they no longer exist in the result.
type Touched struct {
	Nodes        []string `json:"nodes,omitempty"`
	Edges        []string `json:"edges,omitempty"`
	RemovedNodes []string `json:"removed_nodes,omitempty"`
	RemovedEdges []string `json:"removed_edges,omitempty"`
}

// Outcome is the result of simulating a mutation
type Outcome struct {
	Graph   *aggregates.Graph
	Touched Touched
}

// Simulate applies m to a copy of base. base is never modified. A semantic
// failure (duplicate id, missing target, unresolved endpoint) is returned as
// a DomainError; inside a batch it is wrapped with the failing index.
func Simulate(base *aggregates.Graph, m Mutation) (*Outcome, error) {
	if m == nil {
		return nil, fmt.Errorf("%w: mutation is required", pkgerrors.ErrInvalidProposal)
	}
	if base == nil {
		base = aggregates.NewEmptyGraph()
	}
	out := &Outcome{Graph: base.Clone()}
	if err := apply(out.Graph, m, &out.Touched); err != nil {
		return nil, err
	}
	out.Touched = out.Touched.compact(out.Graph)
	return out, nil
}

func apply(g *aggregates.Graph, m Mutation, t *Touched) error {
	switch v := m.(type) {
	case AddNode:
		if err := g.InsertNode(v.Node); err != nil {
			return err
		}
		t.Nodes = append(t.Nodes, v.Node.ID)
	case RemoveNode:
		removed, err := g.DeleteNode(v.ID)
		if err != nil {
			return err
		}
		t.RemovedNodes = append(t.RemovedNodes, v.ID)
		t.RemovedEdges = append(t.RemovedEdges, removed...)
	case UpdateNode:
		if err := g.PatchNode(v.ID, v.Changes); err != nil {
			return err
		}
		t.Nodes = append(t.Nodes, v.ID)
	case AddEdge:
		if err := g.InsertEdge(v.Edge); err != nil {
			return err
		}
		t.Edges = append(t.Edges, v.Edge.ID)
	case RemoveEdge:
		if err := g.DeleteEdge(v.ID); err != nil {
			return err
		}
		t.RemovedEdges = append(t.RemovedEdges, v.ID)
	case UpdateEdge:
		if err := g.PatchEdge(v.ID, v.Changes); err != nil {
			return err
		}
		t.Edges = append(t.Edges, v.ID)
	case Batch:
		for i, item := range v.Mutations {
			if item == nil {
				return pkgerrors.Newf(pkgerrors.DomainValidationError, pkgerrors.CodeInvalidPayload,
					"batch item %d is empty", i).WithDetail("index", i)
			}
			if err := apply(g, item, t); err != nil {
				return batchItemFailed(i, item.Kind(), err)
			}
		}
	default:
		return fmt.Errorf("%w: unsupported mutation %T", pkgerrors.ErrInvalidProposal, m)
	}
	return nil
}

func batchItemFailed(i int, kind Kind, cause error) error {
	msg := cause.Error()
	if d := pkgerrors.GetDomainError(cause); d != nil {
		msg = d.Message
	}
	return pkgerrors.Newf(pkgerrors.DomainValidationError, pkgerrors.CodeBatchItemFailed,
		"batch item %d (%s) failed: %s", i, kind, msg).
		WithDetail("index", i).
		WithCause(cause)
}

// compact drops duplicates and entities a later batch item removed
func (t Touched) compact(g *aggregates.Graph) Touched {
	return Touched{
		Nodes:        distinct(t.Nodes, g.HasNode),
		Edges:        distinct(t.Edges, g.HasEdge),
		RemovedNodes: distinct(t.RemovedNodes, func(id string) bool { return !g.HasNode(id) }),
		RemovedEdges: distinct(t.RemovedEdges, func(id string) bool { return !g.HasEdge(id) }),
	}
}

func distinct(ids []string, keep func(string) bool) []string {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if seen[id] || !keep(id) {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
