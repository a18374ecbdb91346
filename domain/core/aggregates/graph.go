package aggregates

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/utemix-lab/vovaipetrova-sub000/domain/core/entities"
	pkgerrors "github.com/utemix-lab/vovaipetrova-sub000/pkg/errors"
)

// Graph is the graph document aggregate: ordered nodes and edges plus id
// indexes. Order is preserved because ingestion order breaks ties in analysis.
//
// A Graph may hold duplicate ids or dangling edges when ingested from an
// external document; the invariant library reports those. The mutating
// methods below refuse to introduce them.
type Graph struct {
	nodes     []entities.Node
	edges     []entities.Edge
	nodeIndex map[string]int
	edgeIndex map[string]int
}

// Document is the wire shape of a graph
type Document struct {
	Nodes []entities.Node `json:"nodes"`
	Edges []entities.Edge `json:"edges"`
}

// UnmarshalJSON accepts edges under either "edges" or the legacy "links" key
func (d *Document) UnmarshalJSON(data []byte) error {
	var raw struct {
		Nodes []entities.Node  `json:"nodes"`
		Edges *[]entities.Edge `json:"edges"`
		Links *[]entities.Edge `json:"links"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	d.Nodes = raw.Nodes
	d.Edges = nil
	switch {
	case raw.Edges != nil:
		d.Edges = *raw.Edges
	case raw.Links != nil:
		d.Edges = *raw.Links
	}
	return nil
}

// NewGraph creates a graph from deep copies of the given entities
func NewGraph(nodes []entities.Node, edges []entities.Edge) *Graph {
	g := &Graph{
		nodes: make([]entities.Node, len(nodes)),
		edges: make([]entities.Edge, len(edges)),
	}
	for i, n := range nodes {
		g.nodes[i] = n.Clone()
	}
	for i, e := range edges {
		g.edges[i] = e.Clone()
	}
	g.reindex()
	return g
}

// NewEmptyGraph creates a graph with no entities
func NewEmptyGraph() *Graph {
	return NewGraph(nil, nil)
}

// FromDocument builds a graph from a decoded document
func FromDocument(doc Document) *Graph {
	return NewGraph(doc.Nodes, doc.Edges)
}

// ParseGraph decodes a JSON graph document
func ParseGraph(data []byte) (*Graph, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode graph document: %w", err)
	}
	return FromDocument(doc), nil
}

// Document returns a deep copy of the graph in wire shape
func (g *Graph) Document() Document {
	return Document{Nodes: g.Nodes(), Edges: g.Edges()}
}

// MarshalJSON writes the graph as a {nodes, edges} document
func (g *Graph) MarshalJSON() ([]byte, error) {
	return json.Marshal(g.Document())
}

// Clone returns an independent deep copy
func (g *Graph) Clone() *Graph {
	return NewGraph(g.nodes, g.edges)
}

func (g *Graph) reindex() {
	g.nodeIndex = make(map[string]int, len(g.nodes))
	for i, n := range g.nodes {
		if _, seen := g.nodeIndex[n.ID]; !seen {
			g.nodeIndex[n.ID] = i
		}
	}
	g.edgeIndex = make(map[string]int, len(g.edges))
	for i, e := range g.edges {
		if _, seen := g.edgeIndex[e.ID]; !seen {
			g.edgeIndex[e.ID] = i
		}
	}
}

// Read accessors

// NodeCount returns the number of node entries
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edge entries
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Nodes returns deep copies of all nodes in document order
func (g *Graph) Nodes() []entities.Node {
	out := make([]entities.Node, len(g.nodes))
	for i, n := range g.nodes {
		out[i] = n.Clone()
	}
	return out
}

// Edges returns deep copies of all edges in document order
func (g *Graph) Edges() []entities.Edge {
	out := make([]entities.Edge, len(g.edges))
	for i, e := range g.edges {
		out[i] = e.Clone()
	}
	return out
}

// RangeNodes calls fn for each node in order until fn returns false.
// The node's Fields map is shared with the graph and must not be modified.
func (g *Graph) RangeNodes(fn func(i int, n entities.Node) bool) {
	for i, n := range g.nodes {
		if !fn(i, n) {
			return
		}
	}
}

// RangeEdges calls fn for each edge in order until fn returns false.
// The edge's Fields map is shared with the graph and must not be modified.
func (g *Graph) RangeEdges(fn func(i int, e entities.Edge) bool) {
	for i, e := range g.edges {
		if !fn(i, e) {
			return
		}
	}
}

// Node returns a copy of the node with the given id
func (g *Graph) Node(id string) (entities.Node, bool) {
	i, ok := g.nodeIndex[id]
	if !ok {
		return entities.Node{}, false
	}
	return g.nodes[i].Clone(), true
}

// Edge returns a copy of the edge with the given id
func (g *Graph) Edge(id string) (entities.Edge, bool) {
	i, ok := g.edgeIndex[id]
	if !ok {
		return entities.Edge{}, false
	}
	return g.edges[i].Clone(), true
}

// HasNode checks whether a node id exists
func (g *Graph) HasNode(id string) bool {
	_, ok := g.nodeIndex[id]
	return ok
}

// HasEdge checks whether an edge id exists
func (g *Graph) HasEdge(id string) bool {
	_, ok := g.edgeIndex[id]
	return ok
}

// NodeType returns the type of a node without copying it
func (g *Graph) NodeType(id string) (string, bool) {
	i, ok := g.nodeIndex[id]
	if !ok {
		return "", false
	}
	return g.nodes[i].Type, true
}

// IncidentEdges returns copies of every edge touching the node
func (g *Graph) IncidentEdges(id string) []entities.Edge {
	var out []entities.Edge
	for _, e := range g.edges {
		if e.Touches(id) {
			out = append(out, e.Clone())
		}
	}
	return out
}

// Neighbors returns the distinct ids adjacent to a node in either direction,
// in edge order. Self-loops do not make a node its own neighbor.
func (g *Graph) Neighbors(id string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, e := range g.edges {
		if !e.Touches(id) || e.IsSelfLoop() {
			continue
		}
		other := e.Other(id)
		if !seen[other] {
			seen[other] = true
			out = append(out, other)
		}
	}
	return out
}

// NodesByType returns copies of the nodes of one type, in order
func (g *Graph) NodesByType(nodeType string) []entities.Node {
	var out []entities.Node
	for _, n := range g.nodes {
		if n.Type == nodeType {
			out = append(out, n.Clone())
		}
	}
	return out
}

// TypeIDs returns the distinct node types present, sorted
func (g *Graph) TypeIDs() []string {
	seen := make(map[string]bool)
	var out []string
	for _, n := range g.nodes {
		if n.Type != "" && !seen[n.Type] {
			seen[n.Type] = true
			out = append(out, n.Type)
		}
	}
	sort.Strings(out)
	return out
}

// Mutations. Each either succeeds completely or leaves the graph untouched.

// InsertNode appends a node. The id must be new.
func (g *Graph) InsertNode(node entities.Node) error {
	if g.HasNode(node.ID) {
		return pkgerrors.Newf(pkgerrors.DomainConflictError, pkgerrors.CodeDuplicateNodeID,
			"node %q already exists", node.ID).WithDetail("id", node.ID)
	}
	g.nodeIndex[node.ID] = len(g.nodes)
	g.nodes = append(g.nodes, node.Clone())
	return nil
}

// DeleteNode removes a node and every edge incident to it.
// It returns the ids of the cascaded edges.
func (g *Graph) DeleteNode(id string) ([]string, error) {
	if !g.HasNode(id) {
		return nil, nodeNotFound(id)
	}
	nodes := g.nodes[:0:0]
	for _, n := range g.nodes {
		if n.ID != id {
			nodes = append(nodes, n)
		}
	}
	var removed []string
	edges := g.edges[:0:0]
	for _, e := range g.edges {
		if e.Touches(id) {
			removed = append(removed, e.ID)
			continue
		}
		edges = append(edges, e)
	}
	g.nodes = nodes
	g.edges = edges
	g.reindex()
	return removed, nil
}

// PatchNode shallow-merges changes into a node. A nil value removes the
// field. The id cannot change; the type can be replaced but not removed.
func (g *Graph) PatchNode(id string, changes map[string]interface{}) error {
	i, ok := g.nodeIndex[id]
	if !ok {
		return nodeNotFound(id)
	}
	if err := checkImmutableID(id, changes); err != nil {
		return err
	}
	node := g.nodes[i].Clone()
	for k, v := range changes {
		switch k {
		case entities.KeyID:
		case entities.KeyType:
			s, ok := v.(string)
			if !ok || s == "" {
				return pkgerrors.Newf(pkgerrors.DomainValidationError, pkgerrors.CodeInvalidPayload,
					"node %q type must be a non-empty string", id).WithDetail("field", k)
			}
			node.Type = s
		default:
			if node.Fields == nil {
				node.Fields = make(map[string]interface{})
			}
			if v == nil {
				delete(node.Fields, k)
			} else {
				node.Fields[k] = entities.CloneValue(v)
			}
		}
	}
	g.nodes[i] = node
	return nil
}

// InsertEdge appends an edge. The id must be new and both endpoints must exist.
func (g *Graph) InsertEdge(edge entities.Edge) error {
	if g.HasEdge(edge.ID) {
		return pkgerrors.Newf(pkgerrors.DomainConflictError, pkgerrors.CodeDuplicateEdgeID,
			"edge %q already exists", edge.ID).WithDetail("id", edge.ID)
	}
	for _, endpoint := range []string{edge.Source, edge.Target} {
		if !g.HasNode(endpoint) {
			return pkgerrors.Newf(pkgerrors.DomainNotFoundError, pkgerrors.CodeUnresolvedEndpoint,
				"edge %q references unknown node %q", edge.ID, endpoint).
				WithDetail("id", edge.ID).WithDetail("endpoint", endpoint)
		}
	}
	g.edgeIndex[edge.ID] = len(g.edges)
	g.edges = append(g.edges, edge.Clone())
	return nil
}

// DeleteEdge removes an edge by id
func (g *Graph) DeleteEdge(id string) error {
	if !g.HasEdge(id) {
		return edgeNotFound(id)
	}
	edges := g.edges[:0:0]
	for _, e := range g.edges {
		if e.ID != id {
			edges = append(edges, e)
		}
	}
	g.edges = edges
	g.reindex()
	return nil
}

// PatchEdge shallow-merges changes into an edge. Endpoints may be rewired
// only to existing nodes.
func (g *Graph) PatchEdge(id string, changes map[string]interface{}) error {
	i, ok := g.edgeIndex[id]
	if !ok {
		return edgeNotFound(id)
	}
	if err := checkImmutableID(id, changes); err != nil {
		return err
	}
	edge := g.edges[i].Clone()
	for k, v := range changes {
		switch k {
		case entities.KeyID:
		case entities.KeySource, entities.KeyTarget, entities.KeyType:
			s, ok := v.(string)
			if !ok || s == "" {
				return pkgerrors.Newf(pkgerrors.DomainValidationError, pkgerrors.CodeInvalidPayload,
					"edge %q %s must be a non-empty string", id, k).WithDetail("field", k)
			}
			if k != entities.KeyType && !g.HasNode(s) {
				return pkgerrors.Newf(pkgerrors.DomainNotFoundError, pkgerrors.CodeUnresolvedEndpoint,
					"edge %q references unknown node %q", id, s).
					WithDetail("id", id).WithDetail("endpoint", s)
			}
			switch k {
			case entities.KeySource:
				edge.Source = s
			case entities.KeyTarget:
				edge.Target = s
			default:
				edge.Type = s
			}
		default:
			if edge.Fields == nil {
				edge.Fields = make(map[string]interface{})
			}
			if v == nil {
				delete(edge.Fields, k)
			} else {
				edge.Fields[k] = entities.CloneValue(v)
			}
		}
	}
	g.edges[i] = edge
	return nil
}

func checkImmutableID(id string, changes map[string]interface{}) error {
	v, ok := changes[entities.KeyID]
	if !ok || v == id {
		return nil
	}
	return pkgerrors.Newf(pkgerrors.DomainValidationError, pkgerrors.CodeImmutableField,
		"id of %q cannot be changed", id).WithDetail("field", entities.KeyID)
}

func nodeNotFound(id string) error {
	return pkgerrors.Newf(pkgerrors.DomainNotFoundError, pkgerrors.CodeNodeNotFound,
		"node %q does not exist", id).WithDetail("id", id)
}

func edgeNotFound(id string) error {
	return pkgerrors.Newf(pkgerrors.DomainNotFoundError, pkgerrors.CodeEdgeNotFound,
		"edge %q does not exist", id).WithDetail("id", id)
}
