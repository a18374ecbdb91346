package queries

import (
	"github.com/utemix-lab/vovaipetrova-sub000/domain/core/entities"
	"github.com/utemix-lab/vovaipetrova-sub000/pkg/utils"
)

// GetGraphDataQuery represents a query for full graph visualization data.
// An empty type list returns every node; otherwise only nodes of the given
// types and the edges between them.
type GetGraphDataQuery struct {
	Types []string `validate:"dive,required"`
}

// Validate validates the query
func (q GetGraphDataQuery) Validate() error {
	return utils.ValidateStruct(q)
}

// GetGraphDataResult represents the complete graph data for visualization
type GetGraphDataResult struct {
	Nodes []entities.Node `json:"nodes"`
	Edges []entities.Edge `json:"edges"`
	Stats GraphStats      `json:"stats"`
}

// GraphStats contains graph statistics
type GraphStats struct {
	NodeCount int      `json:"node_count"`
	EdgeCount int      `json:"edge_count"`
	TypeIDs   []string `json:"type_ids"`
}
