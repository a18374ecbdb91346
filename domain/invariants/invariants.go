// Package invariants holds the structural predicates a graph must satisfy
// and the checker that runs them at a chosen strictness.
package invariants

import (
	"fmt"
	"strings"

	"github.com/utemix-lab/vovaipetrova-sub000/domain/core/aggregates"
	"github.com/utemix-lab/vovaipetrova-sub000/domain/core/entities"
	"github.com/utemix-lab/vovaipetrova-sub000/domain/core/valueobjects"
	"github.com/utemix-lab/vovaipetrova-sub000/domain/schema"
	"github.com/utemix-lab/vovaipetrova-sub000/domain/topology"
)

// Name identifies an invariant
type Name string

const (
	UniqueNodeIDs         Name = "UNIQUE_NODE_IDS"
	UniqueEdgeIDs         Name = "UNIQUE_EDGE_IDS"
	NoDanglingEdges       Name = "NO_DANGLING_EDGES"
	NodesHaveID           Name = "NODES_HAVE_ID"
	NodesHaveType         Name = "NODES_HAVE_TYPE"
	EdgesHaveType         Name = "EDGES_HAVE_TYPE"
	NoIsolatedNodes       Name = "NO_ISOLATED_NODES"
	NoSelfLoops           Name = "NO_SELF_LOOPS"
	NodeTypesKnown        Name = "NODE_TYPES_KNOWN"
	NodesHaveLabel        Name = "NODES_HAVE_LABEL"
	EdgeTypesKnown        Name = "EDGE_TYPES_KNOWN"
	NoDuplicateEdges      Name = "NO_DUPLICATE_EDGES"
	SingleComponent       Name = "SINGLE_COMPONENT"
	RootExists            Name = "ROOT_EXISTS"
	HierarchyAcyclic      Name = "HIERARCHY_ACYCLIC"
	HierarchySingleParent Name = "HIERARCHY_SINGLE_PARENT"
)

// Group clusters related invariants
type Group string

const (
	GroupGraph        Group = "graph"
	GroupIdentity     Group = "identity"
	GroupEdge         Group = "edge"
	GroupConnectivity Group = "connectivity"
	GroupHierarchy    Group = "hierarchy"
)

// Result is the outcome of one invariant over one graph
type Result struct {
	Name       Name     `json:"name"`
	Holds      bool     `json:"holds"`
	Message    string   `json:"message"`
	Violations []string `json:"violations,omitempty"`
}

// Invariant is a pure predicate over a whole graph
type Invariant struct {
	Name        Name
	Group       Group
	Level       valueobjects.Strictness
	Description string
	check       func(g *aggregates.Graph, c *schema.Catalog) []string
}

// Check evaluates the invariant
func (inv Invariant) Check(g *aggregates.Graph, c *schema.Catalog) Result {
	violations := inv.check(g, c)
	r := Result{Name: inv.Name, Holds: len(violations) == 0, Violations: violations}
	if r.Holds {
		r.Message = inv.Description
	} else {
		r.Message = fmt.Sprintf("%s: %d violation(s)", inv.Description, len(violations))
	}
	return r
}

// All returns the sixteen invariants ordered by strictness level
func All() []Invariant {
	return []Invariant{
		{UniqueNodeIDs, GroupGraph, valueobjects.StrictnessMinimal, "node ids are unique", checkUniqueNodeIDs},
		{UniqueEdgeIDs, GroupGraph, valueobjects.StrictnessMinimal, "edge ids are unique", checkUniqueEdgeIDs},
		{NoDanglingEdges, GroupGraph, valueobjects.StrictnessMinimal, "edge endpoints exist", checkNoDanglingEdges},
		{NodesHaveID, GroupIdentity, valueobjects.StrictnessMinimal, "every node has an id", checkNodesHaveID},
		{NodesHaveType, GroupIdentity, valueobjects.StrictnessMinimal, "every node has a type", checkNodesHaveType},

		{EdgesHaveType, GroupEdge, valueobjects.StrictnessStandard, "every edge has a type", checkEdgesHaveType},
		{NoIsolatedNodes, GroupConnectivity, valueobjects.StrictnessStandard, "no node is isolated", checkNoIsolatedNodes},
		{NoSelfLoops, GroupGraph, valueobjects.StrictnessStandard, "no edge loops onto its own node", checkNoSelfLoops},

		{NodeTypesKnown, GroupIdentity, valueobjects.StrictnessStrict, "node types are in the schema", checkNodeTypesKnown},
		{NodesHaveLabel, GroupIdentity, valueobjects.StrictnessStrict, "node labels are non-blank strings", checkNodesHaveLabel},
		{EdgeTypesKnown, GroupEdge, valueobjects.StrictnessStrict, "edge types are in the schema", checkEdgeTypesKnown},
		{NoDuplicateEdges, GroupEdge, valueobjects.StrictnessStrict, "no repeated (source, target, type) edge", checkNoDuplicateEdges},
		{SingleComponent, GroupConnectivity, valueobjects.StrictnessStrict, "graph is a single connected component", checkSingleComponent},
		{RootExists, GroupConnectivity, valueobjects.StrictnessStrict, "at least one root node exists", checkRootExists},
		{HierarchyAcyclic, GroupHierarchy, valueobjects.StrictnessStrict, "containment hierarchy has no cycles", checkHierarchyAcyclic},
		{HierarchySingleParent, GroupHierarchy, valueobjects.StrictnessStrict, "every node has at most one container", checkHierarchySingleParent},
	}
}

func checkUniqueNodeIDs(g *aggregates.Graph, _ *schema.Catalog) []string {
	counts := make(map[string]int)
	var order []string
	g.RangeNodes(func(_ int, n entities.Node) bool {
		if n.ID == "" {
			return true
		}
		if counts[n.ID] == 0 {
			order = append(order, n.ID)
		}
		counts[n.ID]++
		return true
	})
	return duplicates(order, counts, "node")
}

func checkUniqueEdgeIDs(g *aggregates.Graph, _ *schema.Catalog) []string {
	counts := make(map[string]int)
	var order []string
	g.RangeEdges(func(_ int, e entities.Edge) bool {
		if e.ID == "" {
			return true
		}
		if counts[e.ID] == 0 {
			order = append(order, e.ID)
		}
		counts[e.ID]++
		return true
	})
	return duplicates(order, counts, "edge")
}

func duplicates(order []string, counts map[string]int, kind string) []string {
	var out []string
	for _, id := range order {
		if counts[id] > 1 {
			out = append(out, fmt.Sprintf("%s %q appears %d times", kind, id, counts[id]))
		}
	}
	return out
}

func checkNoDanglingEdges(g *aggregates.Graph, _ *schema.Catalog) []string {
	var out []string
	g.RangeEdges(func(_ int, e entities.Edge) bool {
		if !g.HasNode(e.Source) {
			out = append(out, fmt.Sprintf("edge %q source %q does not exist", e.ID, e.Source))
		}
		if !g.HasNode(e.Target) {
			out = append(out, fmt.Sprintf("edge %q target %q does not exist", e.ID, e.Target))
		}
		return true
	})
	return out
}

func checkNodesHaveID(g *aggregates.Graph, _ *schema.Catalog) []string {
	var out []string
	g.RangeNodes(func(i int, n entities.Node) bool {
		if strings.TrimSpace(n.ID) == "" {
			out = append(out, fmt.Sprintf("node at position %d has no id", i))
		}
		return true
	})
	return out
}

func checkNodesHaveType(g *aggregates.Graph, _ *schema.Catalog) []string {
	var out []string
	g.RangeNodes(func(_ int, n entities.Node) bool {
		if strings.TrimSpace(n.Type) == "" {
			out = append(out, fmt.Sprintf("node %q has no type", n.ID))
		}
		return true
	})
	return out
}

func checkEdgesHaveType(g *aggregates.Graph, _ *schema.Catalog) []string {
	var out []string
	g.RangeEdges(func(_ int, e entities.Edge) bool {
		if strings.TrimSpace(e.Type) == "" {
			out = append(out, fmt.Sprintf("edge %q has no type", e.ID))
		}
		return true
	})
	return out
}

func checkNoIsolatedNodes(g *aggregates.Graph, _ *schema.Catalog) []string {
	touched := make(map[string]bool)
	g.RangeEdges(func(_ int, e entities.Edge) bool {
		touched[e.Source] = true
		touched[e.Target] = true
		return true
	})
	var out []string
	g.RangeNodes(func(_ int, n entities.Node) bool {
		if !touched[n.ID] {
			out = append(out, fmt.Sprintf("node %q has no edges", n.ID))
		}
		return true
	})
	return out
}

func checkNoSelfLoops(g *aggregates.Graph, c *schema.Catalog) []string {
	var out []string
	g.RangeEdges(func(_ int, e entities.Edge) bool {
		if e.IsSelfLoop() && !c.AllowsSelfLoop(e.Type) {
			out = append(out, fmt.Sprintf("edge %q loops on %q", e.ID, e.Source))
		}
		return true
	})
	return out
}

func checkNodeTypesKnown(g *aggregates.Graph, c *schema.Catalog) []string {
	var out []string
	g.RangeNodes(func(_ int, n entities.Node) bool {
		if n.Type != "" && !c.HasNodeType(n.Type) {
			out = append(out, fmt.Sprintf("node %q has unknown type %q", n.ID, n.Type))
		}
		return true
	})
	return out
}

// An absent label is allowed: display falls back to the id.
func checkNodesHaveLabel(g *aggregates.Graph, _ *schema.Catalog) []string {
	var out []string
	g.RangeNodes(func(_ int, n entities.Node) bool {
		raw, ok := n.Field(entities.KeyLabel)
		if !ok {
			return true
		}
		if s, isString := raw.(string); !isString || strings.TrimSpace(s) == "" {
			out = append(out, fmt.Sprintf("node %q has a blank label", n.ID))
		}
		return true
	})
	return out
}

func checkEdgeTypesKnown(g *aggregates.Graph, c *schema.Catalog) []string {
	var out []string
	g.RangeEdges(func(_ int, e entities.Edge) bool {
		if e.Type != "" && !c.HasEdgeType(e.Type) {
			out = append(out, fmt.Sprintf("edge %q has unknown type %q", e.ID, e.Type))
		}
		return true
	})
	return out
}

func checkNoDuplicateEdges(g *aggregates.Graph, _ *schema.Catalog) []string {
	type triple struct{ source, target, kind string }
	first := make(map[triple]string)
	var out []string
	g.RangeEdges(func(_ int, e entities.Edge) bool {
		key := triple{e.Source, e.Target, e.Type}
		if prev, seen := first[key]; seen {
			out = append(out, fmt.Sprintf("edge %q repeats %q (%s -[%s]-> %s)", e.ID, prev, e.Source, e.Type, e.Target))
			return true
		}
		first[key] = e.ID
		return true
	})
	return out
}

func checkSingleComponent(g *aggregates.Graph, _ *schema.Catalog) []string {
	components := topology.Components(g)
	if len(components) <= 1 {
		return nil
	}
	out := make([]string, 0, len(components))
	for i, comp := range components {
		out = append(out, fmt.Sprintf("component %d: %s", i+1, strings.Join(comp, ", ")))
	}
	return out
}

// Only a lower bound is enforced: several root-typed nodes are tolerated.
func checkRootExists(g *aggregates.Graph, c *schema.Catalog) []string {
	roots := 0
	g.RangeNodes(func(_ int, n entities.Node) bool {
		if c.IsRootType(n.Type) {
			roots++
		}
		return true
	})
	if roots > 0 {
		return nil
	}
	return []string{fmt.Sprintf("no node of root type %v", c.RootTypes())}
}

// HierarchyGraph projects the containment edges onto a digraph
func HierarchyGraph(g *aggregates.Graph, c *schema.Catalog) *topology.Digraph {
	return topology.FromGraph(g, func(e entities.Edge) bool { return c.IsHierarchical(e.Type) })
}

func checkHierarchyAcyclic(g *aggregates.Graph, c *schema.Catalog) []string {
	var out []string
	for _, cycle := range HierarchyGraph(g, c).FindCycles() {
		out = append(out, "cycle: "+strings.Join(append(cycle, cycle[0]), " -> "))
	}
	return out
}

func checkHierarchySingleParent(g *aggregates.Graph, c *schema.Catalog) []string {
	h := HierarchyGraph(g, c)
	var out []string
	for i := 0; i < h.Len(); i++ {
		id := h.ID(i)
		if parents := h.Predecessors(id); len(parents) > 1 {
			out = append(out, fmt.Sprintf("node %q has %d containers: %s", id, len(parents), strings.Join(parents, ", ")))
		}
	}
	return out
}
