package versioning

import (
	"sort"

	"github.com/google/go-cmp/cmp"

	"github.com/utemix-lab/vovaipetrova-sub000/domain/core/aggregates"
	"github.com/utemix-lab/vovaipetrova-sub000/domain/core/entities"
)

// ChangeType represents the kind of an entity change
type ChangeType string

const (
	ChangeTypeNodeAdded   ChangeType = "node_added"
	ChangeTypeNodeRemoved ChangeType = "node_removed"
	ChangeTypeNodeUpdated ChangeType = "node_updated"
	ChangeTypeEdgeAdded   ChangeType = "edge_added"
	ChangeTypeEdgeRemoved ChangeType = "edge_removed"
	ChangeTypeEdgeUpdated ChangeType = "edge_updated"
)

// FieldChange is a before/after pair for one field. A missing side means the
// field was absent.
type FieldChange struct {
	Field         string      `json:"field"`
	Before        interface{} `json:"before,omitempty"`
	After         interface{} `json:"after,omitempty"`
	BeforePresent bool        `json:"before_present"`
	AfterPresent  bool        `json:"after_present"`
}

// EntityChange is an added or removed entity with all of its fields
type EntityChange struct {
	ID     string                 `json:"id"`
	Fields map[string]interface{} `json:"fields"`
}

// Modification lists the field changes of an entity present on both sides
type Modification struct {
	ID      string        `json:"id"`
	Changes []FieldChange `json:"changes"`
}

// EntityDiff classifies the entities of one kind
type EntityDiff struct {
	Added    []EntityChange `json:"added"`
	Removed  []EntityChange `json:"removed"`
	Modified []Modification `json:"modified"`
}

// AddedIDs returns the ids of added entities
func (d EntityDiff) AddedIDs() []string { return changeIDs(d.Added) }

// RemovedIDs returns the ids of removed entities
func (d EntityDiff) RemovedIDs() []string { return changeIDs(d.Removed) }

// ModifiedIDs returns the ids of modified entities
func (d EntityDiff) ModifiedIDs() []string {
	out := make([]string, len(d.Modified))
	for i, m := range d.Modified {
		out[i] = m.ID
	}
	return out
}

func (d EntityDiff) count() int {
	return len(d.Added) + len(d.Removed) + len(d.Modified)
}

func changeIDs(changes []EntityChange) []string {
	out := make([]string, len(changes))
	for i, c := range changes {
		out[i] = c.ID
	}
	return out
}

// Summary aggregates a diff
type Summary struct {
	NodesAdded    int  `json:"nodes_added"`
	NodesRemoved  int  `json:"nodes_removed"`
	NodesModified int  `json:"nodes_modified"`
	EdgesAdded    int  `json:"edges_added"`
	EdgesRemoved  int  `json:"edges_removed"`
	EdgesModified int  `json:"edges_modified"`
	TotalChanges  int  `json:"total_changes"`
	HasChanges    bool `json:"has_changes"`
}

// Diff is the structural comparison of two graph states
type Diff struct {
	FromID  string     `json:"from_id,omitempty"`
	ToID    string     `json:"to_id,omitempty"`
	Nodes   EntityDiff `json:"nodes"`
	Edges   EntityDiff `json:"edges"`
	Summary Summary    `json:"summary"`
}

// Change is a flattened entry of a diff
type Change struct {
	Type     ChangeType `json:"type"`
	EntityID string     `json:"entity_id"`
}

// Changes flattens the diff into typed entries, nodes first
func (d *Diff) Changes() []Change {
	var out []Change
	add := func(ids []string, t ChangeType) {
		for _, id := range ids {
			out = append(out, Change{Type: t, EntityID: id})
		}
	}
	add(d.Nodes.AddedIDs(), ChangeTypeNodeAdded)
	add(d.Nodes.RemovedIDs(), ChangeTypeNodeRemoved)
	add(d.Nodes.ModifiedIDs(), ChangeTypeNodeUpdated)
	add(d.Edges.AddedIDs(), ChangeTypeEdgeAdded)
	add(d.Edges.RemovedIDs(), ChangeTypeEdgeRemoved)
	add(d.Edges.ModifiedIDs(), ChangeTypeEdgeUpdated)
	return out
}

// Compare diffs two snapshots
func Compare(before, after *Snapshot) *Diff {
	d := CompareGraphs(before.graph, after.graph)
	d.FromID = before.id
	d.ToID = after.id
	return d
}

// CompareGraphs diffs two graphs. Nodes and edges are compared independently
// by id; entities on both sides are compared field by field.
func CompareGraphs(before, after *aggregates.Graph) *Diff {
	d := &Diff{
		Nodes: diffEntities(nodeMaps(before), nodeMaps(after)),
		Edges: diffEntities(edgeMaps(before), edgeMaps(after)),
	}
	d.Summary = Summary{
		NodesAdded:    len(d.Nodes.Added),
		NodesRemoved:  len(d.Nodes.Removed),
		NodesModified: len(d.Nodes.Modified),
		EdgesAdded:    len(d.Edges.Added),
		EdgesRemoved:  len(d.Edges.Removed),
		EdgesModified: len(d.Edges.Modified),
		TotalChanges:  d.Nodes.count() + d.Edges.count(),
	}
	d.Summary.HasChanges = d.Summary.TotalChanges > 0
	return d
}

type keyed struct {
	ids    []string
	fields map[string]map[string]interface{}
}

func nodeMaps(g *aggregates.Graph) keyed {
	k := keyed{fields: make(map[string]map[string]interface{}, g.NodeCount())}
	g.RangeNodes(func(_ int, n entities.Node) bool {
		if _, seen := k.fields[n.ID]; !seen {
			k.ids = append(k.ids, n.ID)
			k.fields[n.ID] = n.ToMap()
		}
		return true
	})
	return k
}

func edgeMaps(g *aggregates.Graph) keyed {
	k := keyed{fields: make(map[string]map[string]interface{}, g.EdgeCount())}
	g.RangeEdges(func(_ int, e entities.Edge) bool {
		if _, seen := k.fields[e.ID]; !seen {
			k.ids = append(k.ids, e.ID)
			k.fields[e.ID] = e.ToMap()
		}
		return true
	})
	return k
}

func diffEntities(before, after keyed) EntityDiff {
	d := EntityDiff{
		Added:    []EntityChange{},
		Removed:  []EntityChange{},
		Modified: []Modification{},
	}
	for _, id := range after.ids {
		old, existed := before.fields[id]
		if !existed {
			d.Added = append(d.Added, EntityChange{ID: id, Fields: after.fields[id]})
			continue
		}
		if changes := diffFields(old, after.fields[id]); len(changes) > 0 {
			d.Modified = append(d.Modified, Modification{ID: id, Changes: changes})
		}
	}
	for _, id := range before.ids {
		if _, kept := after.fields[id]; !kept {
			d.Removed = append(d.Removed, EntityChange{ID: id, Fields: before.fields[id]})
		}
	}
	return d
}

func diffFields(before, after map[string]interface{}) []FieldChange {
	keys := make(map[string]bool, len(before)+len(after))
	for k := range before {
		keys[k] = true
	}
	for k := range after {
		keys[k] = true
	}
	sorted := make([]string, 0, len(keys))
	for k := range keys {
		sorted = append(sorted, k)
	}
	sort.Strings(sorted)

	var changes []FieldChange
	for _, k := range sorted {
		b, inBefore := before[k]
		a, inAfter := after[k]
		if inBefore == inAfter && Equal(b, a) {
			continue
		}
		changes = append(changes, FieldChange{
			Field:         k,
			Before:        b,
			After:         a,
			BeforePresent: inBefore,
			AfterPresent:  inAfter,
		})
	}
	return changes
}

// Equal is the structural equality used for field values: recursive,
// sensitive to slice order and to map key sets. Values are compared in their
// JSON shape, so numbers compare by value whatever Go type carried them.
func Equal(a, b interface{}) bool {
	return cmp.Equal(entities.CloneValue(a), entities.CloneValue(b))
}
