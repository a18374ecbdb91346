package topology

import (
	"github.com/utemix-lab/vovaipetrova-sub000/domain/core/aggregates"
	"github.com/utemix-lab/vovaipetrova-sub000/domain/core/entities"
)

// FromGraph builds a digraph whose vertices are the graph's nodes in document
// order and whose arcs are the edges accepted by keep. Edges with a missing
// endpoint are skipped.
func FromGraph(g *aggregates.Graph, keep func(entities.Edge) bool) *Digraph {
	d := NewDigraph()
	g.RangeNodes(func(_ int, n entities.Node) bool {
		d.AddVertex(n.ID)
		return true
	})
	g.RangeEdges(func(_ int, e entities.Edge) bool {
		if keep(e) && g.HasNode(e.Source) && g.HasNode(e.Target) {
			d.AddArc(e.Source, e.Target)
		}
		return true
	})
	return d
}

// EdgeTypes returns a keep function accepting the listed edge types
func EdgeTypes(types ...string) func(entities.Edge) bool {
	set := make(map[string]bool, len(types))
	for _, t := range types {
		set[t] = true
	}
	return func(e entities.Edge) bool { return set[e.Type] }
}

// Components returns the connected components of the graph taken as
// undirected, found by breadth-first search. Components and their members
// follow document order. Dangling edges are ignored.
func Components(g *aggregates.Graph) [][]string {
	adj := make(map[string][]string, g.NodeCount())
	var order []string
	g.RangeNodes(func(_ int, n entities.Node) bool {
		if _, seen := adj[n.ID]; !seen {
			adj[n.ID] = nil
			order = append(order, n.ID)
		}
		return true
	})
	g.RangeEdges(func(_ int, e entities.Edge) bool {
		if e.IsSelfLoop() || !g.HasNode(e.Source) || !g.HasNode(e.Target) {
			return true
		}
		adj[e.Source] = append(adj[e.Source], e.Target)
		adj[e.Target] = append(adj[e.Target], e.Source)
		return true
	})

	visited := make(map[string]bool, len(order))
	var components [][]string
	for _, start := range order {
		if visited[start] {
			continue
		}
		visited[start] = true
		queue := []string{start}
		var component []string
		for len(queue) > 0 {
			v := queue[0]
			queue = queue[1:]
			component = append(component, v)
			for _, w := range adj[v] {
				if !visited[w] {
					visited[w] = true
					queue = append(queue, w)
				}
			}
		}
		components = append(components, component)
	}
	return components
}
