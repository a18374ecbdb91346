// Package mutations defines the closed set of graph mutations, their payload
// checks, the proposal lifecycle and the pure simulation of a mutation.
package mutations

import (
	"github.com/utemix-lab/vovaipetrova-sub000/domain/core/entities"
)

// Kind names a mutation variant on the wire and in metrics
type Kind string

const (
	KindAddNode    Kind = "addNode"
	KindRemoveNode Kind = "removeNode"
	KindUpdateNode Kind = "updateNode"
	KindAddEdge    Kind = "addEdge"
	KindRemoveEdge Kind = "removeEdge"
	KindUpdateEdge Kind = "updateEdge"
	KindBatch      Kind = "batch"
)

// Mutation is one requested change to a graph. The set of implementations
// is closed: only the variants in this package satisfy it.
type Mutation interface {
	Kind() Kind
	mutation()
}

// AddNode inserts a new node
type AddNode struct {
	Node entities.Node
}

// RemoveNode deletes a node and cascades to its incident edges
type RemoveNode struct {
	ID string
}

// UpdateNode shallow-merges Changes into an existing node
type UpdateNode struct {
	ID      string
	Changes map[string]interface{}
}

// AddEdge inserts a new edge between existing nodes
type AddEdge struct {
	Edge entities.Edge
}

// RemoveEdge deletes an edge
type RemoveEdge struct {
	ID string
}

// UpdateEdge shallow-merges Changes into an existing edge
type UpdateEdge struct {
	ID      string
	Changes map[string]interface{}
}

// Batch applies its mutations in order, all or nothing
type Batch struct {
	Mutations []Mutation
}

func (AddNode) Kind() Kind    { return KindAddNode }
func (RemoveNode) Kind() Kind { return KindRemoveNode }
func (UpdateNode) Kind() Kind { return KindUpdateNode }
func (AddEdge) Kind() Kind    { return KindAddEdge }
func (RemoveEdge) Kind() Kind { return KindRemoveEdge }
func (UpdateEdge) Kind() Kind { return KindUpdateEdge }
func (Batch) Kind() Kind      { return KindBatch }

func (AddNode) mutation()    {}
func (RemoveNode) mutation() {}
func (UpdateNode) mutation() {}
func (AddEdge) mutation()    {}
func (RemoveEdge) mutation() {}
func (UpdateEdge) mutation() {}
func (Batch) mutation()      {}

// Kinds lists every mutation kind
func Kinds() []Kind {
	return []Kind{KindAddNode, KindRemoveNode, KindUpdateNode, KindAddEdge, KindRemoveEdge, KindUpdateEdge, KindBatch}
}

// Clone deep-copies a mutation so a proposal cannot be changed through the
// caller's payload after construction.
func Clone(m Mutation) Mutation {
	switch v := m.(type) {
	case AddNode:
		return AddNode{Node: v.Node.Clone()}
	case UpdateNode:
		return UpdateNode{ID: v.ID, Changes: cloneChanges(v.Changes)}
	case AddEdge:
		return AddEdge{Edge: v.Edge.Clone()}
	case UpdateEdge:
		return UpdateEdge{ID: v.ID, Changes: cloneChanges(v.Changes)}
	case Batch:
		items := make([]Mutation, len(v.Mutations))
		for i, item := range v.Mutations {
			if item != nil {
				items[i] = Clone(item)
			}
		}
		return Batch{Mutations: items}
	default:
		return m
	}
}

// cloneChanges keeps explicit nil values, which mark removed fields
func cloneChanges(changes map[string]interface{}) map[string]interface{} {
	if changes == nil {
		return nil
	}
	out := make(map[string]interface{}, len(changes))
	for k, v := range changes {
		out[k] = entities.CloneValue(v)
	}
	return out
}
