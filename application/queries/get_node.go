package queries

import (
	"github.com/utemix-lab/vovaipetrova-sub000/domain/core/entities"
	"github.com/utemix-lab/vovaipetrova-sub000/pkg/utils"
)

// GetNodeQuery looks up a single node by id
type GetNodeQuery struct {
	NodeID string `validate:"required"`
}

// Validate validates the GetNodeQuery
func (q GetNodeQuery) Validate() error {
	return utils.ValidateStruct(q)
}

// GetNodeResult is a node with its neighborhood
type GetNodeResult struct {
	Node      entities.Node `json:"node"`
	Neighbors []string      `json:"neighbors"`
	Degree    int           `json:"degree"`
}

// GetNeighborsQuery lists the distinct neighbors of a node
type GetNeighborsQuery struct {
	NodeID string `validate:"required"`
}

// Validate validates the GetNeighborsQuery
func (q GetNeighborsQuery) Validate() error {
	return utils.ValidateStruct(q)
}
