package handlers

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/utemix-lab/vovaipetrova-sub000/application/ports"
	"github.com/utemix-lab/vovaipetrova-sub000/application/queries"
	"github.com/utemix-lab/vovaipetrova-sub000/application/queries/bus"
	"github.com/utemix-lab/vovaipetrova-sub000/domain/core/entities"
	"github.com/utemix-lab/vovaipetrova-sub000/pkg/common"
	pkgerrors "github.com/utemix-lab/vovaipetrova-sub000/pkg/errors"
)

// GraphQueryHandler answers read queries from a graph reader. Pass the
// protocol to read the live state or a snapshot to read a fixed version.
type GraphQueryHandler struct {
	reader ports.GraphReader
	logger *zap.Logger
}

// NewGraphQueryHandler creates a new graph query handler
func NewGraphQueryHandler(reader ports.GraphReader, logger *zap.Logger) *GraphQueryHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GraphQueryHandler{
		reader: reader,
		logger: logger,
	}
}

// Register binds the handler to every graph query on the bus
func (h *GraphQueryHandler) Register(b *bus.QueryBus) error {
	for _, q := range []bus.Query{
		queries.GetNodeQuery{},
		queries.GetNeighborsQuery{},
		queries.ListNodesQuery{},
		queries.ListTypesQuery{},
		queries.GetGraphDataQuery{},
	} {
		if err := b.Register(q, h); err != nil {
			return err
		}
	}
	return nil
}

// Handle executes a graph query
func (h *GraphQueryHandler) Handle(ctx context.Context, query bus.Query) (interface{}, error) {
	switch q := query.(type) {
	case queries.GetNodeQuery:
		return h.getNode(q)
	case queries.GetNeighborsQuery:
		if _, ok := h.reader.Node(q.NodeID); !ok {
			return nil, nodeNotFound(q.NodeID)
		}
		return h.reader.Neighbors(q.NodeID), nil
	case queries.ListNodesQuery:
		return h.listNodes(q), nil
	case queries.ListTypesQuery:
		return h.listTypes(), nil
	case queries.GetGraphDataQuery:
		return h.graphData(q), nil
	default:
		return nil, fmt.Errorf("unsupported query %T", query)
	}
}

func (h *GraphQueryHandler) getNode(q queries.GetNodeQuery) (*queries.GetNodeResult, error) {
	node, ok := h.reader.Node(q.NodeID)
	if !ok {
		return nil, nodeNotFound(q.NodeID)
	}

	degree := 0
	for _, e := range h.reader.Edges() {
		if e.Source == q.NodeID {
			degree++
		}
		if e.Target == q.NodeID {
			degree++
		}
	}

	return &queries.GetNodeResult{
		Node:      node,
		Neighbors: h.reader.Neighbors(q.NodeID),
		Degree:    degree,
	}, nil
}

func (h *GraphQueryHandler) listNodes(q queries.ListNodesQuery) *queries.ListNodesResult {
	var nodes []entities.Node
	if q.Type != "" {
		nodes = h.reader.NodesByType(q.Type)
	} else {
		nodes = h.reader.Nodes()
	}

	page := q.Pagination.Normalize()
	start, end := page.Bounds(len(nodes))

	h.logger.Debug("Listing nodes",
		zap.String("type", q.Type),
		zap.Int("page", page.Page),
		zap.Int("total", len(nodes)))

	return &queries.ListNodesResult{
		Nodes:      nodes[start:end],
		Pagination: common.BuildPaginationMeta(page.Page, page.PageSize, len(nodes)),
	}
}

func (h *GraphQueryHandler) listTypes() []queries.TypeCount {
	types := h.reader.TypeIDs()
	out := make([]queries.TypeCount, 0, len(types))
	for _, t := range types {
		out = append(out, queries.TypeCount{Type: t, Count: len(h.reader.NodesByType(t))})
	}
	return out
}

func (h *GraphQueryHandler) graphData(q queries.GetGraphDataQuery) *queries.GetGraphDataResult {
	nodes := h.reader.Nodes()
	edges := h.reader.Edges()

	if len(q.Types) > 0 {
		wanted := make(map[string]bool, len(q.Types))
		for _, t := range q.Types {
			wanted[t] = true
		}
		kept := make(map[string]bool)
		filtered := nodes[:0]
		for _, n := range nodes {
			if wanted[n.Type] {
				filtered = append(filtered, n)
				kept[n.ID] = true
			}
		}
		nodes = filtered

		var between []entities.Edge
		for _, e := range edges {
			if kept[e.Source] && kept[e.Target] {
				between = append(between, e)
			}
		}
		edges = between
	}

	typeSet := make(map[string]bool)
	var typeIDs []string
	for _, n := range nodes {
		if !typeSet[n.Type] {
			typeSet[n.Type] = true
			typeIDs = append(typeIDs, n.Type)
		}
	}
	sort.Strings(typeIDs)

	return &queries.GetGraphDataResult{
		Nodes: nodes,
		Edges: edges,
		Stats: queries.GraphStats{
			NodeCount: len(nodes),
			EdgeCount: len(edges),
			TypeIDs:   typeIDs,
		},
	}
}

func nodeNotFound(id string) error {
	return pkgerrors.Newf(pkgerrors.DomainNotFoundError, pkgerrors.CodeNodeNotFound,
		"node %q not found", id).WithDetail("id", id)
}
