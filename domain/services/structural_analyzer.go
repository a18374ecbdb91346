// Package services holds read-only domain services over graphs
package services

import (
	"context"
	"sort"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/utemix-lab/vovaipetrova-sub000/domain/core/aggregates"
	"github.com/utemix-lab/vovaipetrova-sub000/domain/core/entities"
	"github.com/utemix-lab/vovaipetrova-sub000/domain/topology"
	"github.com/utemix-lab/vovaipetrova-sub000/pkg/observability"
)

// DefaultOwnershipEdgeTypes are the edge types forming the computation
// ownership relation
var DefaultOwnershipEdgeTypes = []string{"owns", "depends_on"}

// DegreeStats summarizes the degree distribution of a graph taken as
// undirected. Density is edges over the edge count of a complete simple
// graph on the same nodes.
type DegreeStats struct {
	Nodes         int     `json:"nodes"`
	Edges         int     `json:"edges"`
	Density       float64 `json:"density"`
	AverageDegree float64 `json:"average_degree"`
	MinDegree     int     `json:"min_degree"`
	MaxDegree     int     `json:"max_degree"`
}

// Centrality is the degree centrality of one node. Score is the degree
// normalized by the number of other nodes.
type Centrality struct {
	ID     string  `json:"id"`
	Degree int     `json:"degree"`
	Score  float64 `json:"score"`
}

// Bridge is an edge whose removal disconnects its endpoints
type Bridge struct {
	EdgeID string `json:"edge_id"`
	Source string `json:"source"`
	Target string `json:"target"`
}

// Report bundles every analysis of one pass
type Report struct {
	Stats            DegreeStats  `json:"stats"`
	Centrality       []Centrality `json:"centrality"`
	Components       [][]string   `json:"components"`
	Bridges          []Bridge     `json:"bridges"`
	DependencyCycles [][]string   `json:"dependency_cycles"`
}

// arc is one side of an undirected edge in the adjacency
type arc struct {
	to   int
	edge int
}

// adjacency is the undirected view of a graph over arena indices. Dangling
// edges are dropped; self-loops count twice toward degree but never appear
// as arcs.
type adjacency struct {
	ids    []string
	arcs   [][]arc
	degree []int
	edges  []entities.Edge
}

// StructuralAnalyzer runs read-only algorithms over a graph. The adjacency
// is built on first use and cached until Invalidate or Reset.
type StructuralAnalyzer struct {
	mu     sync.Mutex
	graph  *aggregates.Graph
	adj    *adjacency
	logger *zap.Logger
	tracer *observability.Tracer
}

// NewStructuralAnalyzer creates an analyzer over g
func NewStructuralAnalyzer(g *aggregates.Graph, logger *zap.Logger, tracer *observability.Tracer) *StructuralAnalyzer {
	if g == nil {
		g = aggregates.NewEmptyGraph()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StructuralAnalyzer{
		graph:  g,
		logger: logger,
		tracer: tracer,
	}
}

// Invalidate drops the cached adjacency. The next analysis rebuilds it.
func (a *StructuralAnalyzer) Invalidate() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.adj = nil
}

// Reset points the analyzer at another graph
func (a *StructuralAnalyzer) Reset(g *aggregates.Graph) {
	if g == nil {
		g = aggregates.NewEmptyGraph()
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.graph = g
	a.adj = nil
}

func (a *StructuralAnalyzer) adjacency() (*adjacency, *aggregates.Graph) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.adj == nil {
		a.adj = buildAdjacency(a.graph)
		a.logger.Debug("Adjacency built",
			zap.Int("nodes", len(a.adj.ids)),
			zap.Int("edges", len(a.adj.edges)))
	}
	return a.adj, a.graph
}

func buildAdjacency(g *aggregates.Graph) *adjacency {
	adj := &adjacency{}
	index := make(map[string]int, g.NodeCount())
	g.RangeNodes(func(_ int, n entities.Node) bool {
		if _, seen := index[n.ID]; !seen {
			index[n.ID] = len(adj.ids)
			adj.ids = append(adj.ids, n.ID)
		}
		return true
	})
	adj.arcs = make([][]arc, len(adj.ids))
	adj.degree = make([]int, len(adj.ids))

	g.RangeEdges(func(_ int, e entities.Edge) bool {
		u, okU := index[e.Source]
		v, okV := index[e.Target]
		if !okU || !okV {
			return true
		}
		k := len(adj.edges)
		adj.edges = append(adj.edges, e)
		adj.degree[u]++
		adj.degree[v]++
		if u != v {
			adj.arcs[u] = append(adj.arcs[u], arc{to: v, edge: k})
			adj.arcs[v] = append(adj.arcs[v], arc{to: u, edge: k})
		}
		return true
	})
	return adj
}

// Stats returns density and degree statistics
func (a *StructuralAnalyzer) Stats() DegreeStats {
	adj, _ := a.adjacency()
	n := len(adj.ids)
	s := DegreeStats{Nodes: n, Edges: len(adj.edges)}
	if n == 0 {
		return s
	}
	if n > 1 {
		s.Density = float64(s.Edges) / (float64(n) * float64(n-1) / 2)
	}
	total := 0
	s.MinDegree = adj.degree[0]
	for _, d := range adj.degree {
		total += d
		if d < s.MinDegree {
			s.MinDegree = d
		}
		if d > s.MaxDegree {
			s.MaxDegree = d
		}
	}
	s.AverageDegree = float64(total) / float64(n)
	return s
}

// DegreeCentrality ranks nodes by degree, highest first. Ties keep document
// order. topN <= 0 returns every node.
func (a *StructuralAnalyzer) DegreeCentrality(topN int) []Centrality {
	adj, _ := a.adjacency()
	n := len(adj.ids)
	out := make([]Centrality, n)
	for i, id := range adj.ids {
		out[i] = Centrality{ID: id, Degree: adj.degree[i]}
		if n > 1 {
			out[i].Score = float64(adj.degree[i]) / float64(n-1)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Degree > out[j].Degree })
	if topN > 0 && topN < len(out) {
		out = out[:topN]
	}
	return out
}

// ConnectedComponents returns the components of the undirected graph,
// largest first. Equal sizes keep discovery order.
func (a *StructuralAnalyzer) ConnectedComponents() [][]string {
	_, g := a.adjacency()
	components := topology.Components(g)
	sort.SliceStable(components, func(i, j int) bool { return len(components[i]) > len(components[j]) })
	return components
}

// Bridges finds the edges whose removal disconnects the graph, using an
// iterative low-link traversal in O(V+E). Parallel edges are never bridges
// since the traversal skips the tree edge by edge identity, not by parent.
func (a *StructuralAnalyzer) Bridges() []Bridge {
	adj, _ := a.adjacency()
	n := len(adj.ids)

	disc := make([]int, n)
	low := make([]int, n)
	for i := range disc {
		disc[i] = -1
	}

	type frame struct {
		v, parentEdge, next int
	}
	var bridges []Bridge
	timer := 0

	for root := 0; root < n; root++ {
		if disc[root] != -1 {
			continue
		}
		disc[root], low[root] = timer, timer
		timer++
		stack := []frame{{v: root, parentEdge: -1}}

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			if top.next < len(adj.arcs[top.v]) {
				next := adj.arcs[top.v][top.next]
				top.next++
				if next.edge == top.parentEdge {
					continue
				}
				if disc[next.to] == -1 {
					disc[next.to], low[next.to] = timer, timer
					timer++
					stack = append(stack, frame{v: next.to, parentEdge: next.edge})
				} else if disc[next.to] < low[top.v] {
					low[top.v] = disc[next.to]
				}
				continue
			}

			child := *top
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				break
			}
			parent := &stack[len(stack)-1]
			if low[child.v] < low[parent.v] {
				low[parent.v] = low[child.v]
			}
			if low[child.v] > disc[parent.v] {
				e := adj.edges[child.parentEdge]
				bridges = append(bridges, Bridge{EdgeID: e.ID, Source: e.Source, Target: e.Target})
			}
		}
	}
	return bridges
}

// OwnershipGraph derives the directed ownership relation from edges of the
// given types, DefaultOwnershipEdgeTypes when none are given.
func (a *StructuralAnalyzer) OwnershipGraph(edgeTypes ...string) *topology.Digraph {
	if len(edgeTypes) == 0 {
		edgeTypes = DefaultOwnershipEdgeTypes
	}
	_, g := a.adjacency()
	return topology.FromGraph(g, topology.EdgeTypes(edgeTypes...))
}

// DependencyCycles reports the cycles of an ownership digraph, each as its
// node sequence. A nil digraph means the default ownership graph.
func (a *StructuralAnalyzer) DependencyCycles(d *topology.Digraph) [][]string {
	if d == nil {
		d = a.OwnershipGraph()
	}
	return d.FindCycles()
}

// Analyze runs every analysis in one pass
func (a *StructuralAnalyzer) Analyze(ctx context.Context, topN int, ownershipTypes ...string) Report {
	_, span := a.tracer.StartSpan(ctx, "analyzer.analyze", attribute.Int("top_n", topN))
	defer span.End()

	r := Report{
		Stats:            a.Stats(),
		Centrality:       a.DegreeCentrality(topN),
		Components:       a.ConnectedComponents(),
		Bridges:          a.Bridges(),
		DependencyCycles: a.DependencyCycles(a.OwnershipGraph(ownershipTypes...)),
	}

	span.SetAttributes(
		attribute.Int("nodes", r.Stats.Nodes),
		attribute.Int("components", len(r.Components)),
		attribute.Int("bridges", len(r.Bridges)),
		attribute.Int("dependency_cycles", len(r.DependencyCycles)))
	a.logger.Info("Structural analysis complete",
		zap.Int("nodes", r.Stats.Nodes),
		zap.Int("edges", r.Stats.Edges),
		zap.Float64("density", r.Stats.Density),
		zap.Int("components", len(r.Components)),
		zap.Int("bridges", len(r.Bridges)),
		zap.Int("dependency_cycles", len(r.DependencyCycles)))
	return r
}
